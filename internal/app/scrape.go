package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pressfold/blogaug/internal/crawl"
	"github.com/pressfold/blogaug/internal/fetch"
	"github.com/pressfold/blogaug/internal/scrape"
	"github.com/pressfold/blogaug/internal/store"
)

// DefaultBlogURL is the source site's article index.
const DefaultBlogURL = "https://beyondchats.com/blogs/"

const defaultUserAgent = "blogaug/1.0 (+https://github.com/pressfold/blogaug)"

// RunScrape executes the crawl-and-extract phase as one bounded batch job:
// discover the oldest-page batch of article links, extract each article's
// content, and upsert records keyed by URL. Index-level failures are fatal;
// per-article failures are logged and skipped.
func RunScrape(ctx context.Context, cfg Config) (err error) {
	cfg = withScrapeDefaults(cfg)
	if err := ValidateScrape(cfg); err != nil {
		return err
	}

	st, err := connectStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(context.Background()); cerr != nil && err == nil {
			err = cerr
		}
	}()

	f := newFetchClient(cfg)
	ctrl := &crawl.Controller{Fetcher: f, BaseURL: cfg.BlogURL, BatchSize: cfg.BatchSize}
	batch, err := ctrl.Discover(ctx)
	if err != nil {
		return fmt.Errorf("crawl: %w", err)
	}
	log.Info().Int("count", len(batch)).Msg("articles discovered")

	ex := &scrape.Extractor{Fetcher: f, Store: st}
	saved := ex.Run(ctx, batch)
	log.Info().Int("saved", saved).Int("discovered", len(batch)).Msg("scrape finished")
	return nil
}

// withScrapeDefaults fills the hard defaults only after the env and
// config-file overlays have run, so an unset flag still lets those values
// through. Numeric limits need no filling here; each component treats zero as
// its own default.
func withScrapeDefaults(cfg Config) Config {
	if strings.TrimSpace(cfg.BlogURL) == "" {
		cfg.BlogURL = DefaultBlogURL
	}
	return cfg
}

func connectStore(ctx context.Context, cfg Config) (*store.Mongo, error) {
	db := cfg.MongoDatabase
	if db == "" {
		db = "blogaug"
	}
	coll := cfg.MongoCollection
	if coll == "" {
		coll = "articles"
	}
	st, err := store.ConnectMongo(ctx, cfg.MongoURI, db, coll)
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", db).Str("collection", coll).Msg("connected to store")
	return st, nil
}

func newFetchClient(cfg Config) *fetch.Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &fetch.Client{
		HTTPClient:        newHTTPClient(),
		UserAgent:         ua,
		MaxAttempts:       2,
		PerRequestTimeout: 15 * time.Second,
		RedirectMaxHops:   5,
	}
}
