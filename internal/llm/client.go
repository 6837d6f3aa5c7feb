package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Client wraps the queue for easy integration
type Client struct {
	manager  *Manager
	priority Priority
	timeout  time.Duration
}

// NewClient creates a new queue client
func NewClient(manager *Manager, priority Priority, timeout time.Duration) *Client {
	return &Client{
		manager:  manager,
		priority: priority,
		timeout:  timeout,
	}
}

// Call submits a request and waits for the response body
func (c *Client) Call(ctx context.Context, url string, payload map[string]interface{}) ([]byte, error) {
	respCh := make(chan *Response, 1)
	errCh := make(chan error, 1)

	req := &Request{
		ID:         fmt.Sprintf("%d_%d", c.priority, time.Now().UnixNano()),
		Priority:   c.priority,
		Context:    ctx,
		URL:        url,
		Payload:    payload,
		ResponseCh: respCh,
		ErrorCh:    errCh,
		SubmitTime: time.Now(),
		Timeout:    c.timeout,
	}

	if err := c.manager.Submit(req); err != nil {
		return nil, fmt.Errorf("failed to submit: %w", err)
	}

	select {
	case resp := <-respCh:
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("LLM returned status %d", resp.StatusCode)
		}
		return resp.Body, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
