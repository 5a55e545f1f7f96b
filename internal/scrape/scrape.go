package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/pressfold/blogaug/internal/crawl"
	"github.com/pressfold/blogaug/internal/store"
)

// ErrNoContent indicates none of the selector strategies yielded text for an
// article page. The record is skipped, not written.
var ErrNoContent = errors.New("no content text found")

// contentSelectors is the ordered list of extraction strategies: the primary
// content container, an alternate container, then the generic article
// element. First non-empty match wins.
var contentSelectors = []string{".entry-content", ".post-content", "article"}

// Extractor fetches a discovered article page, extracts its main content, and
// upserts a normalized record keyed by URL.
type Extractor struct {
	Fetcher crawl.Fetcher
	Store   store.Store
}

// Run processes a batch of discovery records sequentially. Per-article
// failures are logged and skipped; they never abort the batch. Returns the
// number of articles written.
func (e *Extractor) Run(ctx context.Context, batch []crawl.Discovery) int {
	saved := 0
	for _, d := range batch {
		log.Info().Str("title", d.Title).Str("url", d.URL).Msg("scraping article")
		if err := e.ExtractOne(ctx, d); err != nil {
			log.Warn().Err(err).Str("url", d.URL).Msg("skipping article")
			continue
		}
		saved++
	}
	return saved
}

// ExtractOne fetches one article page and writes its record. The upsert
// resets the record to pending even when the URL was previously augmented:
// a re-scrape refreshes the article and queues it for augmentation again.
func (e *Extractor) ExtractOne(ctx context.Context, d crawl.Discovery) error {
	body, _, err := e.Fetcher.Get(ctx, d.URL)
	if err != nil {
		return fmt.Errorf("fetch article: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parse article: %w", err)
	}
	content := extractContent(doc)
	if content == "" {
		return ErrNoContent
	}
	a := store.Article{
		URL:             d.URL,
		Title:           d.Title,
		Date:            d.Date,
		Content:         content,
		OriginalContent: content,
		IsUpdated:       false,
	}
	if err := e.Store.UpsertScraped(ctx, a); err != nil {
		return err
	}
	return nil
}

func extractContent(doc *goquery.Document) string {
	for _, sel := range contentSelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
