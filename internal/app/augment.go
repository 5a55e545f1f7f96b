package app

import (
	"context"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/pressfold/blogaug/internal/augment"
	"github.com/pressfold/blogaug/internal/llm"
	"github.com/pressfold/blogaug/internal/rewrite"
	"github.com/pressfold/blogaug/internal/search"
)

// RunAugment executes the search-augment-rewrite phase as one bounded batch
// job over every pending article. Missing credentials halt the run before any
// network activity; per-article failures leave records pending for the next
// run.
func RunAugment(ctx context.Context, cfg Config) (err error) {
	if err := ValidateAugment(cfg); err != nil {
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

	httpClient := newHTTPClient()
	provider := &search.SerpAPI{
		BaseURL:    cfg.SerpBaseURL,
		APIKey:     cfg.SerpAPIKey,
		HTTPClient: httpClient,
		UserAgent:  cfg.UserAgent,
	}

	transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		transportCfg.BaseURL = cfg.LLMBaseURL
	}
	transportCfg.HTTPClient = httpClient
	rewriter := &rewrite.Rewriter{
		Client:          &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(transportCfg)},
		Model:           cfg.LLMModel,
		OriginalCharCap: cfg.OriginalCharCap,
	}

	orch := &augment.Orchestrator{
		Store:            st,
		Search:           provider,
		Fetcher:          newFetchClient(cfg),
		Rewriter:         rewriter,
		MaxReferences:    cfg.MaxReferences,
		SearchLimit:      cfg.SearchLimit,
		ReferenceCharCap: cfg.ReferenceCharCap,
	}
	n, err := orch.ProcessAll(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("augmented", n).Msg("augmentation finished")
	return nil
}
