package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// Vector size for nomic-embed-text style models.
const vectorSize = 768

// Store handles all vector database operations for book chunks.
type Store struct {
	client         *qdrant.Client
	collectionName string
}

// NewStore creates a qdrant-backed chunk store
func NewStore(qdrantURL string, collectionName string, apiKey string) (*Store, error) {
	// Strip scheme and port; the gRPC port is set explicitly
	qdrantURL = strings.TrimPrefix(qdrantURL, "http://")
	qdrantURL = strings.TrimPrefix(qdrantURL, "https://")
	host := qdrantURL
	if idx := strings.Index(qdrantURL, ":"); idx != -1 {
		host = qdrantURL[:idx]
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   6334, // gRPC port
		APIKey: apiKey,
		UseTLS: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	s := &Store{
		client:         client,
		collectionName: collectionName,
	}

	if err := s.ensureCollection(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}

	return s, nil
}

// ensureCollection creates the collection if it doesn't exist
func (s *Store) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	// Index the url payload field for per-book filtering
	fieldType := qdrant.FieldType(qdrant.PayloadSchemaType_Keyword)
	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collectionName,
		FieldName:      "url",
		FieldType:      &fieldType,
		Wait:           boolPtr(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create url index: %w", err)
	}

	return nil
}

// Upsert stores one embedded chunk of a book
func (s *Store) Upsert(ctx context.Context, url, title, chunk string, index int, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(uuid.New().String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: map[string]*qdrant.Value{
			"url":     qdrant.NewValueString(url),
			"title":   qdrant.NewValueString(title),
			"content": qdrant.NewValueString(chunk),
			"index":   qdrant.NewValueInt(int64(index)),
		},
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	return err
}

// Search returns the best-matching chunk texts for a book URL
func (s *Store) Search(ctx context.Context, url string, queryEmbedding []float32, limit int) ([]string, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("url", url),
		},
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         filter,
		Limit:          uint64Ptr(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	chunks := make([]string, 0, len(points))
	for _, point := range points {
		if val, ok := point.Payload["content"]; ok && val.GetStringValue() != "" {
			chunks = append(chunks, val.GetStringValue())
		}
	}
	return chunks, nil
}

// DeleteBook removes every chunk stored for a book URL
func (s *Store) DeleteBook(ctx context.Context, url string) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("url", url),
					},
				},
			},
		},
	})
	return err
}

func boolPtr(v bool) *bool       { return &v }
func uint64Ptr(v uint64) *uint64 { return &v }
