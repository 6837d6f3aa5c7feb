package gutenberg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Fetcher retrieves pages from gutenberg.org over a shared HTTP client.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxSizeMB  int
}

// NewFetcher creates a fetcher with browser-like headers
func NewFetcher(timeout time.Duration, userAgent string, maxSizeMB int) *Fetcher {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxSizeMB: maxSizeMB,
	}
}

// fetch retrieves the raw body and content type for a URL
func (f *Fetcher) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	// Browser-like headers avoid trivial bot blocking on gutenberg.org
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,text/plain;q=0.8,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	maxBytes := int64(f.maxSizeMB * 1024 * 1024)
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) >= maxBytes {
		return nil, "", fmt.Errorf("content exceeds size limit of %dMB", f.maxSizeMB)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// Document fetches a URL and parses it as HTML
func (f *Fetcher) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	body, _, err := f.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Text fetches a URL and returns normalized plain text. Plain-text renditions
// pass straight through line normalization; HTML pages go through readability
// article extraction with a goquery strip as fallback.
func (f *Fetcher) Text(ctx context.Context, rawURL string) (string, error) {
	body, contentType, err := f.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	if strings.Contains(contentType, "text/plain") {
		return normalizeLines(string(body)), nil
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	if article, rErr := readability.FromReader(strings.NewReader(string(body)), parsedURL); rErr == nil && strings.TrimSpace(article.TextContent) != "" {
		return normalizeLines(article.TextContent), nil
	}

	// Readability gives up on sparse pages (e.g. bare catalog pages); fall
	// back to stripping markup ourselves.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style").Remove()
	return normalizeLines(doc.Text()), nil
}

// normalizeLines trims every line, splits multi-headline lines on double-space
// runs, drops empties and rejoins with newlines.
func normalizeLines(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for _, chunk := range strings.Split(strings.TrimSpace(line), "  ") {
			chunk = strings.TrimSpace(chunk)
			if chunk != "" {
				out = append(out, chunk)
			}
		}
	}
	return strings.Join(out, "\n")
}
