package agent

import (
	"context"
	"strings"

	"gutenlens/internal/analyzer"
)

// Response is the shape handed to the presentation layer.
type Response struct {
	Type      string `json:"type"` // summary | genre | chat | error
	Title     string `json:"title,omitempty"`
	Content   string `json:"content"`
	Query     string `json:"query,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// Orchestrator is the analysis surface the router dispatches to.
type Orchestrator interface {
	Result(ctx context.Context, url string) (*analyzer.Result, error)
	Chat(ctx context.Context, url, query string) (string, error)
	LastURL() string
	LastTitle() string
}

// Router classifies free-text queries and dispatches them to the orchestrator.
// Intent priority is fixed: summarize beats genre beats chat, so a query
// matching several keywords takes the highest-priority path.
type Router struct {
	orchestrator Orchestrator
}

func New(orchestrator Orchestrator) *Router {
	return &Router{orchestrator: orchestrator}
}

var bookReferences = []string{"the book", "this book", "current book"}

// resolveURL picks the URL a query refers to: generic references like "this
// book" resolve to the session's current URL; with no current URL the last
// analyzed one is used.
func (r *Router) resolveURL(query, currentURL string) string {
	if RefersToCurrentBook(query) && currentURL != "" {
		return currentURL
	}
	if currentURL == "" {
		return r.orchestrator.LastURL()
	}
	return currentURL
}

// Process routes one user query. It never returns an error; failures become
// Type "error" responses for the UI to render.
func (r *Router) Process(ctx context.Context, query, currentURL string) Response {
	urlToUse := r.resolveURL(query, currentURL)
	if urlToUse == "" {
		return Response{
			Type:      "error",
			Content:   "Please provide a Project Gutenberg URL first.",
			ErrorKind: analyzer.KindNoURL.String(),
		}
	}

	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "summar"): // "summary", "summarize"
		res, err := r.orchestrator.Result(ctx, urlToUse)
		if err != nil {
			return errorResponse(err)
		}
		return Response{Type: "summary", Title: res.Title, Content: res.Summary}

	case strings.Contains(q, "genre") || strings.Contains(q, "classify"):
		res, err := r.orchestrator.Result(ctx, urlToUse)
		if err != nil {
			return errorResponse(err)
		}
		return Response{Type: "genre", Title: res.Title, Content: res.Genre}

	default:
		answer, err := r.orchestrator.Chat(ctx, urlToUse, query)
		if err != nil {
			return errorResponse(err)
		}
		return Response{Type: "chat", Title: r.orchestrator.LastTitle(), Content: answer, Query: query}
	}
}

// RefersToCurrentBook reports whether a query leans on the session's current
// book instead of naming one.
func RefersToCurrentBook(query string) bool {
	q := strings.ToLower(query)
	for _, ref := range bookReferences {
		if strings.Contains(q, ref) {
			return true
		}
	}
	return false
}

func errorResponse(err error) Response {
	return Response{
		Type:      "error",
		Content:   analyzer.MessageOf(err),
		ErrorKind: analyzer.KindOf(err).String(),
	}
}
