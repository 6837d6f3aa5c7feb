package analyzer

import (
	"context"
	"log"
	"strings"
	"sync"

	"gutenlens/internal/gutenberg"
)

// Source is the catalog-page surface the orchestrator consumes.
type Source interface {
	Metadata(ctx context.Context, url string) gutenberg.BookMetadata
	PlainTextURL(ctx context.Context, url string) (string, bool)
	Text(ctx context.Context, url string) (string, error)
}

// Generator is the model invoker.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Index is the optional chat retrieval store. A nil Index means chat prompts
// fall back to the head/middle/tail sample.
type Index interface {
	IndexBook(ctx context.Context, url, title, content string) error
	Retrieve(ctx context.Context, url, query string, limit int) ([]string, error)
}

// Result is one analyzed book: catalog metadata plus model output.
type Result struct {
	URL string `json:"url"`
	gutenberg.BookMetadata
	Summary string `json:"summary"`
	Genre   string `json:"genre"`
	Content string `json:"content"`
}

const retrieveChunks = 5

// Analyzer runs the URL analysis pipeline and keeps the single most recent
// result. One Analyzer belongs to one user session; its mutex guarantees at
// most one analysis in flight per session.
type Analyzer struct {
	source      Source
	gen         Generator
	index       Index
	sampleLimit int

	mu         sync.Mutex
	lastURL    string
	lastResult *Result
}

func New(source Source, gen Generator, index Index, sampleLimit int) *Analyzer {
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}
	return &Analyzer{
		source:      source,
		gen:         gen,
		index:       index,
		sampleLimit: sampleLimit,
	}
}

// Analyze runs the full pipeline for a URL and replaces the cached result.
// On model failure it returns a partial result (content excerpt kept, genre
// "Unknown") alongside a KindModelFailed error.
func (a *Analyzer) Analyze(ctx context.Context, url string) (*Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.analyzeLocked(ctx, url)
}

// Result returns the cached analysis when the URL matches the last analyzed
// one exactly, otherwise it re-runs the pipeline. Exact string equality is
// deliberate: a trailing slash or query-string variant is a cache miss.
func (a *Analyzer) Result(ctx context.Context, url string) (*Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if url == a.lastURL && a.lastResult != nil {
		return a.lastResult, nil
	}
	return a.analyzeLocked(ctx, url)
}

// LastURL returns the most recently analyzed URL, if any.
func (a *Analyzer) LastURL() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastURL
}

// LastTitle returns the title from the last known metadata.
func (a *Analyzer) LastTitle() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lastResult != nil {
		return a.lastResult.Title
	}
	return "Unknown Title"
}

func (a *Analyzer) analyzeLocked(ctx context.Context, url string) (*Result, error) {
	if !strings.Contains(url, "gutenberg.org") {
		return nil, newError(KindDomainInvalid,
			"This URL does not appear to be from Project Gutenberg. Please provide a valid Project Gutenberg URL.")
	}

	meta := a.source.Metadata(ctx, url)

	// Prefer the plain-text rendition; the catalog page itself is the
	// fallback content source.
	contentURL := url
	if link, ok := a.source.PlainTextURL(ctx, url); ok {
		contentURL = link
	}

	content, err := a.source.Text(ctx, contentURL)
	if err != nil {
		return nil, wrapError(KindFetchFailed, "Error extracting content from URL", err)
	}

	sample := Sample(content, a.sampleLimit)

	summary, err := a.gen.Generate(ctx, summaryPrompt(meta, sample))
	if err != nil {
		return a.partialResult(url, meta, sample), wrapError(KindModelFailed, "Error generating summary", err)
	}

	genre, err := a.gen.Generate(ctx, genrePrompt(meta, sample))
	if err != nil {
		return a.partialResult(url, meta, sample), wrapError(KindModelFailed, "Error classifying genre", err)
	}

	result := &Result{
		URL:          url,
		BookMetadata: meta,
		Summary:      summary,
		Genre:        genre,
		Content:      content,
	}
	a.lastURL = url
	a.lastResult = result

	if a.index != nil {
		// Indexing runs in the background; chat falls back to the sample
		// until it completes.
		go func(url, title, content string) {
			if err := a.index.IndexBook(context.Background(), url, title, content); err != nil {
				log.Printf("[Analyzer] retrieval indexing failed for %s: %v", url, err)
			}
		}(url, meta.Title, content)
	}

	return result, nil
}

// partialResult keeps a short content excerpt around so chat has something to
// work with after a model failure.
func (a *Analyzer) partialResult(url string, meta gutenberg.BookMetadata, sample string) *Result {
	return &Result{
		URL:          url,
		BookMetadata: meta,
		Genre:        "Unknown",
		Content:      excerpt(sample, 4000),
	}
}

// Chat answers a free-form question about a book. The analysis is reused from
// cache when the URL matches; retrieved chunks provide the reference context
// when an index is configured, the prompt sample otherwise. A failed first
// attempt retries once with a shorter excerpt.
func (a *Analyzer) Chat(ctx context.Context, url, query string) (string, error) {
	res, err := a.Result(ctx, url)
	if err != nil {
		return "", err
	}

	meta := res.BookMetadata
	contextText := ""
	if a.index != nil {
		if chunks, rErr := a.index.Retrieve(ctx, url, query, retrieveChunks); rErr == nil && len(chunks) > 0 {
			contextText = retrievalContext(chunks)
		} else if rErr != nil {
			log.Printf("[Analyzer] retrieval failed for %s, using sample: %v", url, rErr)
		}
	}
	if contextText == "" {
		contextText = Sample(res.Content, a.sampleLimit)
	}

	answer, err := a.gen.Generate(ctx, chatPrompt(meta, query, contextText))
	if err == nil {
		return answer, nil
	}

	answer, fbErr := a.gen.Generate(ctx, chatFallbackPrompt(meta, query, contextText))
	if fbErr != nil {
		return "", wrapError(KindModelFailed, "Error answering question", err)
	}
	return answer, nil
}
