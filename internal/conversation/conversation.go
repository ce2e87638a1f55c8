// Package conversation owns the chat transcript and the submit/rollback
// request cycle against the agent backend.
package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// FallbackReply is shown when the backend answers without a response field.
	FallbackReply = "No response received."
	// BackendErrorMessage is the single user-facing message for any failed turn.
	BackendErrorMessage = "Unable to contact the SuperAgent backend. Please try again."
)

// ErrRequestInFlight is returned when a submission arrives while a previous
// one has not settled yet. At most one request may be in flight at a time.
var ErrRequestInFlight = errors.New("agent request already in flight")

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is a single immutable transcript entry.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Querier sends one prompt to the agent backend and returns the reply text.
// An empty reply with a nil error is valid and means the backend answered
// without content.
type Querier interface {
	Query(ctx context.Context, prompt string) (string, error)
}

// Controller is the only writer of the conversation state. Readers observe it
// through the snapshot accessors while a render loop runs concurrently.
type Controller struct {
	agent Querier

	mu        sync.RWMutex
	messages  []Message
	inflight  bool
	lastError string
}

// NewController creates an empty conversation bound to the given backend.
func NewController(agent Querier) *Controller {
	return &Controller{agent: agent}
}

// Submit runs one full request cycle: trim the prompt, append it
// optimistically, call the backend, and either append the agent reply or roll
// the optimistic entry back and record the fixed error message.
//
// An empty or whitespace-only prompt is a no-op. A submission while another
// request is in flight returns ErrRequestInFlight without touching state.
// Backend failures never escape: they settle into LastError and a nil return.
func (c *Controller) Submit(ctx context.Context, promptText string) error {
	prompt := strings.TrimSpace(promptText)
	if prompt == "" {
		return nil
	}

	userID, err := gonanoid.New()
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.inflight {
		c.mu.Unlock()
		return ErrRequestInFlight
	}
	c.messages = append(c.messages, Message{
		ID:        userID,
		Role:      RoleUser,
		Content:   prompt,
		CreatedAt: time.Now(),
	})
	c.lastError = ""
	c.inflight = true
	c.mu.Unlock()

	reply, queryErr := c.agent.Query(ctx, prompt)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight = false

	if queryErr != nil {
		c.removeLocked(userID)
		c.lastError = BackendErrorMessage
		return nil
	}

	if strings.TrimSpace(reply) == "" {
		reply = FallbackReply
	}
	agentID, err := gonanoid.New()
	if err != nil {
		// The turn already succeeded; never drop the reply over an ID.
		agentID = userID + "-reply"
	}
	c.messages = append(c.messages, Message{
		ID:        agentID,
		Role:      RoleAgent,
		Content:   reply,
		CreatedAt: time.Now(),
	})
	return nil
}

// removeLocked drops the message with the given ID, scanning from the tail.
// Removal is by identity rather than position so the rollback stays correct
// even if submissions were ever allowed to interleave.
func (c *Controller) removeLocked(id string) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].ID == id {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			return
		}
	}
}

// Messages returns a copy of the transcript in chronological order.
func (c *Controller) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// InFlight reports whether a submission is currently waiting on the backend.
func (c *Controller) InFlight() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inflight
}

// LastError returns the user-facing message of the most recent failed turn,
// or "" if the last turn succeeded or no turn ran yet.
func (c *Controller) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// Len returns the number of transcript messages.
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}
