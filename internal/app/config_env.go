package app

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.MongoURI == "" {
		cfg.MongoURI = os.Getenv("MONGODB_URI")
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = os.Getenv("MONGODB_DB")
	}
	if cfg.MongoCollection == "" {
		cfg.MongoCollection = os.Getenv("MONGODB_COLLECTION")
	}

	if cfg.SerpAPIKey == "" {
		cfg.SerpAPIKey = os.Getenv("SERPAPI_KEY")
	}
	if cfg.SerpBaseURL == "" {
		cfg.SerpBaseURL = os.Getenv("SERPAPI_URL")
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")
	}

	if cfg.BlogURL == "" {
		cfg.BlogURL = os.Getenv("BLOG_URL")
	}
	if cfg.BatchSize == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("BATCH_SIZE"))); err == nil && n > 0 {
			cfg.BatchSize = n
		}
	}

	if !cfg.Verbose {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv("VERBOSE"))); s == "1" || s == "true" || s == "yes" || s == "on" {
			cfg.Verbose = true
		}
	}
}
