package library

import (
	"testing"

	"gutenlens/internal/analyzer"
	"gutenlens/internal/gutenberg"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Analysis{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(db)
}

func sampleResult(url string) *analyzer.Result {
	return &analyzer.Result{
		URL: url,
		BookMetadata: gutenberg.BookMetadata{
			Title:    "Frankenstein",
			Author:   "Mary Shelley",
			Language: "English",
			Year:     "1993",
		},
		Summary: "A scientist creates life and regrets it.",
		Genre:   "Gothic Fiction",
		Content: "some sampled content",
	}
}

func TestSaveAndGet(t *testing.T) {
	s := testStore(t)
	rec, err := s.Save(sampleResult("https://www.gutenberg.org/ebooks/84"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Get(rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Frankenstein" || got.Genre != "Gothic Fiction" {
		t.Errorf("unexpected record: %+v", got)
	}
	if len(got.Raw) == 0 {
		t.Errorf("expected raw JSON to be stored")
	}
}

func TestSaveUpsertsByURL(t *testing.T) {
	s := testStore(t)
	url := "https://www.gutenberg.org/ebooks/84"
	if _, err := s.Save(sampleResult(url)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	updated := sampleResult(url)
	updated.Summary = "Revised summary."
	if _, err := s.Save(updated); err != nil {
		t.Fatalf("second save: %v", err)
	}
	recs, err := s.List(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record after upsert, got %d", len(recs))
	}
	if recs[0].Summary != "Revised summary." {
		t.Errorf("expected updated summary, got %q", recs[0].Summary)
	}
}

func TestGetMissing(t *testing.T) {
	s := testStore(t)
	if _, err := s.Get(999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetByURL("https://www.gutenberg.org/ebooks/1"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	rec, err := s.Save(sampleResult("https://www.gutenberg.org/ebooks/84"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete(rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(rec.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
