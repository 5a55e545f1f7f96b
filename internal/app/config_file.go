package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested sections
// map naturally onto flags and env vars.
type FileConfig struct {
	Blog struct {
		URL   string `yaml:"url" json:"url"`
		Batch int    `yaml:"batch" json:"batch"`
	} `yaml:"blog" json:"blog"`

	Mongo struct {
		URI        string `yaml:"uri" json:"uri"`
		Database   string `yaml:"database" json:"database"`
		Collection string `yaml:"collection" json:"collection"`
	} `yaml:"mongo" json:"mongo"`

	Serp struct {
		URL string `yaml:"url" json:"url"`
		Key string `yaml:"key" json:"key"`
	} `yaml:"serp" json:"serp"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Limits struct {
		References     int `yaml:"references" json:"references"`
		SearchResults  int `yaml:"searchResults" json:"searchResults"`
		ReferenceChars int `yaml:"referenceChars" json:"referenceChars"`
		OriginalChars  int `yaml:"originalChars" json:"originalChars"`
	} `yaml:"limits" json:"limits"`

	UserAgent string `yaml:"userAgent" json:"userAgent"`
	Verbose   bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero. Flags and env should already have been applied;
// the file supplies defaults without overriding explicit settings.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}

	if cfg.BlogURL == "" && fc.Blog.URL != "" {
		cfg.BlogURL = fc.Blog.URL
	}
	if cfg.BatchSize == 0 && fc.Blog.Batch > 0 {
		cfg.BatchSize = fc.Blog.Batch
	}

	if cfg.MongoURI == "" && fc.Mongo.URI != "" {
		cfg.MongoURI = fc.Mongo.URI
	}
	if cfg.MongoDatabase == "" && fc.Mongo.Database != "" {
		cfg.MongoDatabase = fc.Mongo.Database
	}
	if cfg.MongoCollection == "" && fc.Mongo.Collection != "" {
		cfg.MongoCollection = fc.Mongo.Collection
	}

	if cfg.SerpBaseURL == "" && fc.Serp.URL != "" {
		cfg.SerpBaseURL = fc.Serp.URL
	}
	if cfg.SerpAPIKey == "" && fc.Serp.Key != "" {
		cfg.SerpAPIKey = fc.Serp.Key
	}

	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}

	if cfg.MaxReferences == 0 && fc.Limits.References > 0 {
		cfg.MaxReferences = fc.Limits.References
	}
	if cfg.SearchLimit == 0 && fc.Limits.SearchResults > 0 {
		cfg.SearchLimit = fc.Limits.SearchResults
	}
	if cfg.ReferenceCharCap == 0 && fc.Limits.ReferenceChars > 0 {
		cfg.ReferenceCharCap = fc.Limits.ReferenceChars
	}
	if cfg.OriginalCharCap == 0 && fc.Limits.OriginalChars > 0 {
		cfg.OriginalCharCap = fc.Limits.OriginalChars
	}

	if cfg.UserAgent == "" && fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
