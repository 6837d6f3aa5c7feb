package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"gutenlens/internal/config"
)

// Caller is the minimal surface the generator needs from the queue client.
type Caller interface {
	Call(ctx context.Context, url string, payload map[string]interface{}) ([]byte, error)
}

// Generator is the model invoker: one prompt in, one text completion out.
// Failures are not special-cased here; they surface to the caller as-is.
type Generator struct {
	client  Caller
	chatURL string
	model   string
}

// NewGenerator creates a generator for an OpenAI-compatible chat endpoint
func NewGenerator(client Caller, baseURL, model string) *Generator {
	return &Generator{
		client:  client,
		chatURL: config.ChatURL(baseURL),
		model:   model,
	}
}

// Generate sends a single-turn prompt and returns the model's text output
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"stream": false,
	}

	body, err := g.client.Call(ctx, g.chatURL, payload)
	if err != nil {
		return "", err
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode LLM response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
