package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeAgent struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	release chan struct{}
}

func (f *fakeAgent) Query(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return f.reply, f.err
}

func (f *fakeAgent) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestSubmitEmptyPromptIsNoOp(t *testing.T) {
	agent := &fakeAgent{reply: "hello"}
	ctrl := NewController(agent)

	for _, prompt := range []string{"", "   ", "\n\t  "} {
		if err := ctrl.Submit(context.Background(), prompt); err != nil {
			t.Fatalf("expected no error for blank prompt %q, got %v", prompt, err)
		}
	}
	if ctrl.Len() != 0 {
		t.Fatalf("expected empty transcript, got %d messages", ctrl.Len())
	}
	if ctrl.InFlight() {
		t.Fatalf("expected no request in flight")
	}
	if agent.callCount() != 0 {
		t.Fatalf("expected no backend calls, got %d", agent.callCount())
	}
}

func TestSubmitSuccessAppendsUserAndAgentPair(t *testing.T) {
	agent := &fakeAgent{reply: "Yes, 10 shares."}
	ctrl := NewController(agent)

	if err := ctrl.Submit(context.Background(), "  Buy AAPL?  "); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	msgs := ctrl.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[0].Content != "Buy AAPL?" {
		t.Fatalf("unexpected user message: %+v", msgs[0])
	}
	if msgs[1].Role != RoleAgent || msgs[1].Content != "Yes, 10 shares." {
		t.Fatalf("unexpected agent message: %+v", msgs[1])
	}
	if msgs[0].ID == "" || msgs[1].ID == "" || msgs[0].ID == msgs[1].ID {
		t.Fatalf("expected distinct non-empty message ids, got %q and %q", msgs[0].ID, msgs[1].ID)
	}
	if ctrl.LastError() != "" {
		t.Fatalf("expected no error after success, got %q", ctrl.LastError())
	}
	if ctrl.InFlight() {
		t.Fatalf("expected in-flight flag cleared after settlement")
	}
}

func TestSubmitEmptyReplyUsesFallback(t *testing.T) {
	agent := &fakeAgent{reply: "   "}
	ctrl := NewController(agent)

	if err := ctrl.Submit(context.Background(), "ping"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	msgs := ctrl.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[1].Content != FallbackReply {
		t.Fatalf("expected fallback reply %q, got %q", FallbackReply, msgs[1].Content)
	}
}

func TestSubmitFailureRollsBackOptimisticMessage(t *testing.T) {
	agent := &fakeAgent{err: errors.New("connection refused")}
	ctrl := NewController(agent)

	if err := ctrl.Submit(context.Background(), "Buy AAPL?"); err != nil {
		t.Fatalf("submit should absorb backend errors, got %v", err)
	}
	if ctrl.Len() != 0 {
		t.Fatalf("expected rollback to empty transcript, got %d messages", ctrl.Len())
	}
	if ctrl.LastError() != BackendErrorMessage {
		t.Fatalf("expected fixed error message %q, got %q", BackendErrorMessage, ctrl.LastError())
	}
	if ctrl.InFlight() {
		t.Fatalf("expected in-flight flag cleared after failure")
	}
}

func TestFailureThenSuccessClearsError(t *testing.T) {
	agent := &fakeAgent{err: errors.New("dial tcp: connection refused")}
	ctrl := NewController(agent)

	if err := ctrl.Submit(context.Background(), "Buy AAPL?"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if ctrl.Len() != 0 || ctrl.LastError() != BackendErrorMessage {
		t.Fatalf("expected failed turn to roll back and set error, got len=%d err=%q", ctrl.Len(), ctrl.LastError())
	}

	agent.err = nil
	agent.reply = "Yes, 10 shares."
	if err := ctrl.Submit(context.Background(), "Buy AAPL?"); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	msgs := ctrl.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages after recovery, got %d", len(msgs))
	}
	if msgs[0].Content != "Buy AAPL?" || msgs[1].Content != "Yes, 10 shares." {
		t.Fatalf("unexpected transcript after recovery: %+v", msgs)
	}
	if ctrl.LastError() != "" {
		t.Fatalf("expected lastError cleared by new submission, got %q", ctrl.LastError())
	}
}

func TestConsecutiveFailuresLeaveTranscriptUnchanged(t *testing.T) {
	agent := &fakeAgent{reply: "ok"}
	ctrl := NewController(agent)
	if err := ctrl.Submit(context.Background(), "seed"); err != nil {
		t.Fatalf("seed submit: %v", err)
	}
	before := ctrl.Len()

	agent.err = errors.New("boom")
	for i := 0; i < 2; i++ {
		if err := ctrl.Submit(context.Background(), "will fail"); err != nil {
			t.Fatalf("failing submit %d: %v", i, err)
		}
		if ctrl.Len() != before {
			t.Fatalf("failing submit %d changed transcript length: %d != %d", i, ctrl.Len(), before)
		}
		if ctrl.LastError() != BackendErrorMessage {
			t.Fatalf("failing submit %d: unexpected error %q", i, ctrl.LastError())
		}
	}
}

func TestInFlightStrictlyBracketsTheCall(t *testing.T) {
	agent := &fakeAgent{reply: "done", release: make(chan struct{})}
	ctrl := NewController(agent)

	if ctrl.InFlight() {
		t.Fatalf("expected no request in flight before submit")
	}

	done := make(chan error, 1)
	go func() {
		done <- ctrl.Submit(context.Background(), "slow question")
	}()

	waitFor(t, func() bool { return ctrl.InFlight() }, "request to enter flight")

	// The optimistic user entry must be visible while the call is pending.
	msgs := ctrl.Messages()
	if len(msgs) != 1 || msgs[0].Role != RoleUser {
		t.Fatalf("expected single optimistic user message mid-flight, got %+v", msgs)
	}

	// A second submission during the flight is rejected without state change.
	if err := ctrl.Submit(context.Background(), "another one"); !errors.Is(err, ErrRequestInFlight) {
		t.Fatalf("expected ErrRequestInFlight, got %v", err)
	}
	if ctrl.Len() != 1 {
		t.Fatalf("rejected submission mutated transcript: %d messages", ctrl.Len())
	}

	close(agent.release)
	if err := <-done; err != nil {
		t.Fatalf("submit returned error: %v", err)
	}
	if ctrl.InFlight() {
		t.Fatalf("expected in-flight flag cleared after settlement")
	}
	if ctrl.Len() != 2 {
		t.Fatalf("expected settled transcript of 2 messages, got %d", ctrl.Len())
	}
}

func TestMessagesReturnsACopy(t *testing.T) {
	agent := &fakeAgent{reply: "reply"}
	ctrl := NewController(agent)
	if err := ctrl.Submit(context.Background(), "hi"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	snapshot := ctrl.Messages()
	snapshot[0].Content = "tampered"
	if ctrl.Messages()[0].Content != "hi" {
		t.Fatalf("mutating the snapshot leaked into controller state")
	}
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
