package gutenberg

import (
	"context"
	"log"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BookMetadata holds what the catalog page tells us about a book. Fields keep
// their sentinel defaults when extraction comes up empty.
type BookMetadata struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Language string `json:"language"`
	Year     string `json:"year"`
}

// DefaultMetadata returns the sentinel values used when extraction fails.
func DefaultMetadata() BookMetadata {
	return BookMetadata{
		Title:    "Unknown Title",
		Author:   "Unknown Author",
		Language: "English",
		Year:     "Unknown",
	}
}

var yearRe = regexp.MustCompile(`\d{4}`)

// Catalog reads metadata and download links from Project Gutenberg book pages.
type Catalog struct {
	fetcher *Fetcher
}

func NewCatalog(fetcher *Fetcher) *Catalog {
	return &Catalog{fetcher: fetcher}
}

// Text fetches normalized text content for a URL.
func (c *Catalog) Text(ctx context.Context, rawURL string) (string, error) {
	return c.fetcher.Text(ctx, rawURL)
}

// Metadata extracts title, author, language and release year from a catalog
// page. Each rule is independently optional; a failed fetch or a page missing
// every field yields the defaults, never an error.
func (c *Catalog) Metadata(ctx context.Context, rawURL string) BookMetadata {
	meta := DefaultMetadata()

	doc, err := c.fetcher.Document(ctx, rawURL)
	if err != nil {
		log.Printf("[Catalog] metadata fetch failed for %s: %v", rawURL, err)
		return meta
	}

	if title := strings.TrimSpace(doc.Find(`h1[itemprop="name"]`).First().Text()); title != "" {
		meta.Title = title
	}
	if author := strings.TrimSpace(doc.Find(`a[itemprop="creator"]`).First().Text()); author != "" {
		meta.Author = author
	}
	if lang := bibrecValue(doc, "Language"); lang != "" {
		meta.Language = lang
	}
	if release := bibrecValue(doc, "Release Date"); release != "" {
		if year := yearRe.FindString(release); year != "" {
			meta.Year = year
		}
	}

	return meta
}

// bibrecValue finds the table row whose label cell matches the given label and
// returns the adjacent value cell text.
func bibrecValue(doc *goquery.Document, label string) string {
	value := ""
	doc.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		labelText := strings.TrimSpace(row.Find("th").First().Text())
		if labelText == "" {
			labelText = strings.TrimSpace(row.Find("td").First().Text())
		}
		if !strings.Contains(labelText, label) {
			return true
		}
		value = strings.TrimSpace(row.Find("td").Last().Text())
		return false
	})
	return value
}

// PlainTextURL locates the plain-text rendition link on a catalog page:
// the "Plain Text UTF-8" anchor first, else any ".txt" href. Returns false
// when no candidate exists or the page cannot be read.
func (c *Catalog) PlainTextURL(ctx context.Context, rawURL string) (string, bool) {
	doc, err := c.fetcher.Document(ctx, rawURL)
	if err != nil {
		log.Printf("[Catalog] content link fetch failed for %s: %v", rawURL, err)
		return "", false
	}

	var href string
	doc.Find("a").EachWithBreak(func(i int, a *goquery.Selection) bool {
		if strings.Contains(a.Text(), "Plain Text UTF-8") {
			href, _ = a.Attr("href")
			return false
		}
		return true
	})
	if href == "" {
		doc.Find("a").EachWithBreak(func(i int, a *goquery.Selection) bool {
			if h, ok := a.Attr("href"); ok && strings.Contains(h, ".txt") {
				href = h
				return false
			}
			return true
		})
	}
	if href == "" {
		return "", false
	}
	return resolveHref(rawURL, href), true
}

func resolveHref(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	refURL, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(refURL).String()
}
