// Package agent is the HTTP client for the SuperAgent backend query route.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client talks to the backend /agent/query endpoint. The zero http.Client
// carries no timeout on purpose: a submitted request runs to completion and
// callers that want a deadline pass one through the context.
type Client struct {
	apiBase string
	httpc   *http.Client
}

// NewClient creates a client for the given backend base URL.
func NewClient(apiBase string) *Client {
	return &Client{
		apiBase: strings.TrimRight(strings.TrimSpace(apiBase), "/"),
		httpc:   &http.Client{},
	}
}

type queryRequest struct {
	Prompt string `json:"prompt"`
}

type queryResponse struct {
	Response string `json:"response"`
}

// Query posts the prompt and returns the backend reply text. A reachable
// backend that answers without a response field yields "" and a nil error;
// network failures, non-2xx statuses, and non-JSON bodies are errors.
func (c *Client) Query(ctx context.Context, prompt string) (string, error) {
	endpoint := c.apiBase + "/agent/query"
	buf, err := json.Marshal(queryRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("agent request failed on /agent/query: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("agent http %d: %s", resp.StatusCode, compactBody(payload, 240))
	}

	var parsed queryResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", errors.New("agent returned non-json payload")
	}
	return strings.TrimSpace(parsed.Response), nil
}

func compactBody(payload []byte, limit int) string {
	compact := strings.Join(strings.Fields(string(payload)), " ")
	if len(compact) <= limit {
		return compact
	}
	if limit <= 3 {
		return compact[:limit]
	}
	return compact[:limit-3] + "..."
}
