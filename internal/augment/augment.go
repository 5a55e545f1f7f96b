package augment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/pressfold/blogaug/internal/readable"
	"github.com/pressfold/blogaug/internal/rewrite"
	"github.com/pressfold/blogaug/internal/search"
	"github.com/pressfold/blogaug/internal/store"
)

// Fetcher is the minimal fetch surface for reference pages. *fetch.Client
// satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// BodyRewriter produces the rewritten article body. *rewrite.Rewriter
// satisfies it.
type BodyRewriter interface {
	Rewrite(ctx context.Context, original, contextBlob string) (string, error)
}

// Orchestrator drives one augmentation pass: for each pending article it
// searches for references, extracts their readable text, synthesizes a
// rewrite, and persists the result. Articles and references are processed
// strictly one at a time. Every per-article failure leaves the record pending
// and retryable; only store-level failures abort the run.
type Orchestrator struct {
	Store    store.Store
	Search   search.Provider
	Fetcher  Fetcher
	Rewriter BodyRewriter

	// MaxReferences bounds how many search hits become references. Zero means 2.
	MaxReferences int
	// SearchLimit is how many results to request from the provider. Zero means 5.
	SearchLimit int
	// ReferenceCharCap bounds each extracted reference text. Zero means the
	// readable package default.
	ReferenceCharCap int
}

// ProcessAll selects every pending article and attempts augmentation for each
// in turn. Returns the number of articles augmented.
func (o *Orchestrator) ProcessAll(ctx context.Context) (int, error) {
	pending, err := o.Store.FindByState(ctx, store.StatePending)
	if err != nil {
		return 0, fmt.Errorf("select pending articles: %w", err)
	}
	log.Info().Int("count", len(pending)).Msg("articles awaiting augmentation")

	augmented := 0
	for _, a := range pending {
		done, err := o.processOne(ctx, a)
		if err != nil {
			log.Warn().Err(err).Str("url", a.URL).Msg("augmentation attempt failed; article stays pending")
			continue
		}
		if done {
			augmented++
		}
	}
	return augmented, nil
}

// processOne runs the per-article state machine. A false return with nil
// error is a soft skip: the article remains pending with no record mutation.
func (o *Orchestrator) processOne(ctx context.Context, a store.Article) (bool, error) {
	log.Info().Str("title", a.Title).Msg("processing article")

	limit := o.SearchLimit
	if limit <= 0 {
		limit = 5
	}
	results, err := o.Search.Search(ctx, a.Title, limit)
	if err != nil {
		// Search failure means no references this run, not a run failure.
		log.Warn().Err(err).Str("title", a.Title).Msg("search failed; skipping")
		return false, nil
	}
	refs := search.SelectReferences(results, o.MaxReferences)
	if len(refs) == 0 {
		log.Info().Str("title", a.Title).Msg("no references found; skipping")
		return false, nil
	}

	// Failed extractions are omitted from the context blob but stay in the
	// reference list persisted on success.
	texts := make([]rewrite.ReferenceText, 0, len(refs))
	for _, ref := range refs {
		log.Debug().Str("reference", ref.Title).Msg("reading reference")
		texts = append(texts, rewrite.ReferenceText{Title: ref.Title, Text: o.referenceText(ctx, ref.URL)})
	}
	blob := rewrite.ContextBlob(texts)
	if blob == "" {
		log.Info().Str("title", a.Title).Msg("no readable reference content; skipping")
		return false, nil
	}

	body, err := o.Rewriter.Rewrite(ctx, a.OriginalContent, blob)
	if err != nil {
		return false, fmt.Errorf("rewrite: %w", err)
	}

	persisted := make([]store.Reference, 0, len(refs))
	for _, ref := range refs {
		persisted = append(persisted, store.Reference{Title: ref.Title, Link: ref.URL})
	}
	if err := o.Store.MarkAugmented(ctx, a.URL, body, persisted); err != nil {
		return false, err
	}
	log.Info().Str("url", a.URL).Msg("article rewritten and saved")
	return true, nil
}

// referenceText fetches one reference page and extracts its readable text.
// Any failure yields "" and is a soft loss of that reference only.
func (o *Orchestrator) referenceText(ctx context.Context, url string) string {
	body, _, err := o.Fetcher.Get(ctx, url)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("could not fetch reference")
		return ""
	}
	return readable.FromHTML(body, url, o.ReferenceCharCap)
}
