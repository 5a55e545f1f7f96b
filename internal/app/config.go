package app

import (
	"errors"
	"strings"
)

// Config holds runtime configuration for both pipeline phases. It is built at
// process start and passed by parameter; no component reads ambient globals.
type Config struct {
	// Source site
	BlogURL   string
	BatchSize int

	// Persistence
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// Search
	SerpBaseURL string
	SerpAPIKey  string

	// LLM
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Limits
	MaxReferences    int
	SearchLimit      int
	ReferenceCharCap int
	OriginalCharCap  int

	// Behavior
	UserAgent string
	Verbose   bool
}

// ValidateScrape checks everything the crawl phase needs before any network
// activity happens.
func ValidateScrape(cfg Config) error {
	if strings.TrimSpace(cfg.MongoURI) == "" {
		return errors.New("config: mongodb uri is required (set MONGODB_URI)")
	}
	if strings.TrimSpace(cfg.BlogURL) == "" {
		return errors.New("config: blog url is required")
	}
	return nil
}

// ValidateAugment checks everything the augmentation phase needs. A missing
// credential halts the run before the store or any provider is touched.
func ValidateAugment(cfg Config) error {
	if strings.TrimSpace(cfg.MongoURI) == "" {
		return errors.New("config: mongodb uri is required (set MONGODB_URI)")
	}
	if strings.TrimSpace(cfg.SerpAPIKey) == "" {
		return errors.New("config: search api key is required (set SERPAPI_KEY)")
	}
	if strings.TrimSpace(cfg.LLMAPIKey) == "" {
		return errors.New("config: llm api key is required (set LLM_API_KEY)")
	}
	if strings.TrimSpace(cfg.LLMModel) == "" {
		return errors.New("config: llm model is required (set LLM_MODEL)")
	}
	return nil
}

// ValidateServe checks what the read API needs.
func ValidateServe(cfg Config) error {
	if strings.TrimSpace(cfg.MongoURI) == "" {
		return errors.New("config: mongodb uri is required (set MONGODB_URI)")
	}
	return nil
}
