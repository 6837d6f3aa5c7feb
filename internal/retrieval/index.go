package retrieval

import (
	"context"
	"fmt"
	"log"
)

// Index chunks analyzed books, embeds the chunks and serves similarity
// lookups for chat. It satisfies the analyzer's Index interface.
type Index struct {
	store    *Store
	embedder *Embedder
}

func NewIndex(store *Store, embedder *Embedder) *Index {
	return &Index{store: store, embedder: embedder}
}

// IndexBook replaces the stored chunks for a book with fresh embeddings.
func (ix *Index) IndexBook(ctx context.Context, url, title, content string) error {
	if err := ix.store.DeleteBook(ctx, url); err != nil {
		return fmt.Errorf("failed to clear previous chunks: %w", err)
	}

	chunks := ChunkText(content, ChunkSize)
	indexed := 0
	for i, chunk := range chunks {
		embedding, err := ix.embedder.Embed(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		if err := ix.store.Upsert(ctx, url, title, chunk, i, embedding); err != nil {
			return fmt.Errorf("failed to store chunk %d: %w", i, err)
		}
		indexed++
	}

	log.Printf("[Retrieval] Indexed %d chunks for %s", indexed, url)
	return nil
}

// Retrieve returns the chunks most relevant to a query for one book.
func (ix *Index) Retrieve(ctx context.Context, url, query string, limit int) ([]string, error) {
	embedding, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return ix.store.Search(ctx, url, embedding, limit)
}
