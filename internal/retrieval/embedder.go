package retrieval

import (
	"context"
	"encoding/json"
	"fmt"

	"gutenlens/internal/config"
)

// Caller is the queue surface embedding requests are submitted through.
// Indexing work rides the background priority so interactive calls preempt it.
type Caller interface {
	Call(ctx context.Context, url string, payload map[string]interface{}) ([]byte, error)
}

// Embedder generates vector embeddings from text
type Embedder struct {
	caller Caller
	apiURL string
	model  string
}

// NewEmbedder creates a new embedder for an OpenAI-compatible endpoint
func NewEmbedder(caller Caller, baseURL, model string) *Embedder {
	return &Embedder{
		caller: caller,
		apiURL: config.EmbeddingsURL(baseURL),
		model:  model,
	}
}

// Embed converts text to a vector embedding
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := map[string]interface{}{
		"input": text,
		"model": e.model,
	}

	body, err := e.caller.Call(ctx, e.apiURL, payload)
	if err != nil {
		return nil, err
	}

	var result struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	return result.Data[0].Embedding, nil
}
