package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gutenlens/internal/gutenberg"
)

// fakeSource counts every network-backed operation.
type fakeSource struct {
	meta     gutenberg.BookMetadata
	link     string
	text     string
	textErr  error
	calls    int
	textURLs []string
}

func (f *fakeSource) Metadata(ctx context.Context, url string) gutenberg.BookMetadata {
	f.calls++
	if f.meta == (gutenberg.BookMetadata{}) {
		return gutenberg.DefaultMetadata()
	}
	return f.meta
}

func (f *fakeSource) PlainTextURL(ctx context.Context, url string) (string, bool) {
	f.calls++
	return f.link, f.link != ""
}

func (f *fakeSource) Text(ctx context.Context, url string) (string, error) {
	f.calls++
	f.textURLs = append(f.textURLs, url)
	return f.text, f.textErr
}

type fakeGen struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeGen) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) > 0 {
		r := f.responses[0]
		if len(f.responses) > 1 {
			f.responses = f.responses[1:]
		}
		return r, nil
	}
	return "model output", nil
}

const bookURL = "https://www.gutenberg.org/ebooks/11"

func TestAnalyze_RejectsNonGutenbergURLWithoutNetworkCalls(t *testing.T) {
	src := &fakeSource{}
	gen := &fakeGen{}
	a := New(src, gen, nil, 16000)

	res, err := a.Analyze(context.Background(), "https://example.com/book")
	if res != nil {
		t.Errorf("expected nil result, got %+v", res)
	}
	if err == nil || KindOf(err) != KindDomainInvalid {
		t.Fatalf("expected domain invalid error, got %v", err)
	}
	if src.calls != 0 {
		t.Errorf("expected zero network calls, got %d", src.calls)
	}
	if gen.calls != 0 {
		t.Errorf("expected zero model calls, got %d", gen.calls)
	}
}

func TestAnalyze_UsesPlainTextLink(t *testing.T) {
	src := &fakeSource{
		link: "https://www.gutenberg.org/files/11/11-0.txt",
		text: "book text",
	}
	gen := &fakeGen{responses: []string{"the summary", "the genre"}}
	a := New(src, gen, nil, 16000)

	res, err := a.Analyze(context.Background(), bookURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(src.textURLs) != 1 || src.textURLs[0] != src.link {
		t.Errorf("expected content fetched from plain-text link, got %v", src.textURLs)
	}
	if res.Summary != "the summary" || res.Genre != "the genre" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Content != "book text" {
		t.Errorf("expected full content preserved, got %q", res.Content)
	}
}

func TestAnalyze_FallsBackToCatalogPage(t *testing.T) {
	src := &fakeSource{text: "catalog page text"}
	gen := &fakeGen{}
	a := New(src, gen, nil, 16000)

	_, err := a.Analyze(context.Background(), bookURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(src.textURLs) != 1 || src.textURLs[0] != bookURL {
		t.Errorf("expected catalog page itself fetched as fallback, got %v", src.textURLs)
	}
}

func TestAnalyze_FetchFailure(t *testing.T) {
	src := &fakeSource{textErr: errors.New("connection reset")}
	gen := &fakeGen{}
	a := New(src, gen, nil, 16000)

	res, err := a.Analyze(context.Background(), bookURL)
	if res != nil {
		t.Errorf("expected nil result, got %+v", res)
	}
	if KindOf(err) != KindFetchFailed {
		t.Errorf("expected fetch failed kind, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("expected no model calls after fetch failure, got %d", gen.calls)
	}
}

func TestAnalyze_ModelFailureKeepsExcerpt(t *testing.T) {
	src := &fakeSource{text: strings.Repeat("z", 10000)}
	gen := &fakeGen{err: errors.New("rate limited")}
	a := New(src, gen, nil, 16000)

	res, err := a.Analyze(context.Background(), bookURL)
	if KindOf(err) != KindModelFailed {
		t.Fatalf("expected model failed kind, got %v", err)
	}
	if res == nil {
		t.Fatal("expected partial result alongside the error")
	}
	if res.Genre != "Unknown" {
		t.Errorf("expected genre Unknown, got %q", res.Genre)
	}
	if res.Content == "" || len(res.Content) > 4000 {
		t.Errorf("expected content excerpt of at most 4000 chars, got %d", len(res.Content))
	}
}

func TestResult_ReusesCacheForExactURL(t *testing.T) {
	src := &fakeSource{text: "book text"}
	gen := &fakeGen{responses: []string{"summary", "genre"}}
	a := New(src, gen, nil, 16000)

	if _, err := a.Analyze(context.Background(), bookURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	modelCalls := gen.calls

	res, err := a.Result(context.Background(), bookURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls != modelCalls {
		t.Errorf("expected cached result without new model calls, got %d extra", gen.calls-modelCalls)
	}
	if res.Summary != "summary" {
		t.Errorf("unexpected cached summary: %q", res.Summary)
	}
}

func TestResult_URLVariantIsACacheMiss(t *testing.T) {
	src := &fakeSource{text: "book text"}
	gen := &fakeGen{}
	a := New(src, gen, nil, 16000)

	if _, err := a.Analyze(context.Background(), bookURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	modelCalls := gen.calls

	// Trailing slash is a different string, so the pipeline re-runs.
	if _, err := a.Result(context.Background(), bookURL+"/"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls == modelCalls {
		t.Error("expected URL variant to trigger a full re-analysis")
	}
}

func TestChat_UsesCachedAnalysis(t *testing.T) {
	src := &fakeSource{
		meta: gutenberg.BookMetadata{Title: "Alice", Author: "Carroll", Language: "English", Year: "2008"},
		text: "down the rabbit hole",
	}
	gen := &fakeGen{responses: []string{"summary", "genre", "chat answer"}}
	a := New(src, gen, nil, 16000)

	if _, err := a.Analyze(context.Background(), bookURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	srcCalls := src.calls

	answer, err := a.Chat(context.Background(), bookURL, "What is this about?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "chat answer" {
		t.Errorf("unexpected answer: %q", answer)
	}
	if src.calls != srcCalls {
		t.Errorf("expected chat to reuse cached content, got %d extra fetches", src.calls-srcCalls)
	}
}

func TestLastTitle_DefaultsWhenNothingAnalyzed(t *testing.T) {
	a := New(&fakeSource{}, &fakeGen{}, nil, 16000)
	if got := a.LastTitle(); got != "Unknown Title" {
		t.Errorf("expected default title, got %q", got)
	}
}
