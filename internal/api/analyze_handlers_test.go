package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gutenlens/internal/analyzer"
	"gutenlens/internal/db"
	"gutenlens/internal/gutenberg"
	"gutenlens/internal/library"

	"github.com/gin-gonic/gin"
)

type stubSource struct {
	meta    gutenberg.BookMetadata
	text    string
	textErr error
}

func (s *stubSource) Metadata(ctx context.Context, url string) gutenberg.BookMetadata {
	return s.meta
}
func (s *stubSource) PlainTextURL(ctx context.Context, url string) (string, bool) {
	return "", false
}
func (s *stubSource) Text(ctx context.Context, url string) (string, error) {
	return s.text, s.textErr
}

type stubGen struct {
	responses []string
	calls     int
	err       error
}

func (g *stubGen) Generate(ctx context.Context, prompt string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	resp := "generated"
	if g.calls < len(g.responses) {
		resp = g.responses[g.calls]
	}
	g.calls++
	return resp, nil
}

func testPool() *AgentPool {
	src := &stubSource{
		meta: gutenberg.BookMetadata{Title: "Frankenstein", Author: "Mary Shelley", Language: "English", Year: "1993"},
		text: "It was on a dreary night of November that I beheld my creation.",
	}
	gen := &stubGen{responses: []string{"A cautionary tale of creation.", "Gothic Fiction"}}
	return NewAgentPool(src, gen, nil, 16000)
}

func analyzeRouter(pool *AgentPool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", uint(1))
		c.Next()
	})
	r.POST("/analyze", AnalyzeHandler(pool, nil))
	r.POST("/query", QueryHandler(pool))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeHandler_ReturnsFullResult(t *testing.T) {
	r := analyzeRouter(testPool())
	w := postJSON(t, r, "/analyze", AnalyzeRequest{URL: "https://www.gutenberg.org/ebooks/84"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !contains(body, "Frankenstein") || !contains(body, "Gothic Fiction") {
		t.Errorf("expected metadata and genre in response, got: %s", body)
	}
	if !contains(body, "A cautionary tale of creation.") {
		t.Errorf("expected summary in response, got: %s", body)
	}
}

func TestAnalyzeHandler_RejectsNonGutenbergURL(t *testing.T) {
	r := analyzeRouter(testPool())
	w := postJSON(t, r, "/analyze", AnalyzeRequest{URL: "https://example.com/book"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 Bad Request, got %d: %s", w.Code, w.Body.String())
	}
	if !contains(w.Body.String(), "domain_invalid") {
		t.Errorf("expected domain_invalid kind, got: %s", w.Body.String())
	}
}

func TestAnalyzeHandler_MissingURL(t *testing.T) {
	r := analyzeRouter(testPool())
	w := postJSON(t, r, "/analyze", AnalyzeRequest{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 Bad Request, got %d: %s", w.Code, w.Body.String())
	}
}

func TestQueryHandler_NoBookYet(t *testing.T) {
	r := analyzeRouter(testPool())
	w := postJSON(t, r, "/query", QueryRequest{Query: "summarize the book"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if !contains(w.Body.String(), "no_url") {
		t.Errorf("expected no_url error kind, got: %s", w.Body.String())
	}
	if !contains(w.Body.String(), "Please provide a Project Gutenberg URL first.") {
		t.Errorf("expected setup prompt message, got: %s", w.Body.String())
	}
}

func TestQueryHandler_SummaryAfterAnalyze(t *testing.T) {
	pool := testPool()
	r := analyzeRouter(pool)
	if w := postJSON(t, r, "/analyze", AnalyzeRequest{URL: "https://www.gutenberg.org/ebooks/84"}); w.Code != http.StatusOK {
		t.Fatalf("analyze failed: %d: %s", w.Code, w.Body.String())
	}
	w := postJSON(t, r, "/query", QueryRequest{Query: "summarize the book"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if !contains(w.Body.String(), "A cautionary tale of creation.") {
		t.Errorf("expected cached summary in router response, got: %s", w.Body.String())
	}
}

func TestListAnalysesHandler_FilterByURL(t *testing.T) {
	setupUserDB(t)
	resetUserTable(t)
	store := library.NewStore(db.DB)
	saved := &analyzer.Result{
		URL:          "https://www.gutenberg.org/ebooks/84",
		BookMetadata: gutenberg.BookMetadata{Title: "Frankenstein", Author: "Mary Shelley"},
		Summary:      "A scientist creates life.",
		Genre:        "Gothic Fiction",
	}
	if _, err := store.Save(saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/analyses", ListAnalysesHandler(store))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/analyses?url=https%3A%2F%2Fwww.gutenberg.org%2Febooks%2F84", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if !contains(w.Body.String(), "Frankenstein") {
		t.Errorf("expected matching record, got: %s", w.Body.String())
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("GET", "/analyses?url=https%3A%2F%2Fwww.gutenberg.org%2Febooks%2F11", nil)
	r.ServeHTTP(w2, req2)
	if w2.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown url, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestAgentPool_SessionsAreIsolated(t *testing.T) {
	pool := testPool()
	if pool.Analyzer(1) == pool.Analyzer(2) {
		t.Errorf("expected distinct analyzers per user")
	}
	if pool.Analyzer(1) != pool.Analyzer(1) {
		t.Errorf("expected stable analyzer for the same user")
	}
}
