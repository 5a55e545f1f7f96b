package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pressfold/blogaug/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Best-effort .env loading, matching local development workflow.
	_ = godotenv.Load()

	var (
		mongoURI   string
		mongoDB    string
		mongoColl  string
		serpURL    string
		serpKey    string
		llmBaseURL string
		llmModel   string
		llmKey     string
		maxRefs    int
		searchN    int
		refChars   int
		origChars  int
		userAgent  string
		configPath string
		verbose    bool
	)

	flag.StringVar(&mongoURI, "mongo.uri", "", "MongoDB connection string (or MONGODB_URI)")
	flag.StringVar(&mongoDB, "mongo.db", "", "MongoDB database name")
	flag.StringVar(&mongoColl, "mongo.collection", "", "MongoDB collection name")
	flag.StringVar(&serpURL, "serp.url", "", "Search API base URL (or SERPAPI_URL)")
	flag.StringVar(&serpKey, "serp.key", "", "Search API key (or SERPAPI_KEY)")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL (or LLM_BASE_URL)")
	flag.StringVar(&llmModel, "llm.model", "", "Model name (or LLM_MODEL)")
	flag.StringVar(&llmKey, "llm.key", "", "API key for OpenAI-compatible server (or LLM_API_KEY)")
	// Limit defaults stay zero here so config-file values can take effect;
	// each component applies its hard default when the value is still zero.
	flag.IntVar(&maxRefs, "max.references", 0, "Maximum references per article (default 2)")
	flag.IntVar(&searchN, "max.searchResults", 0, "How many results to request per search (default 5)")
	flag.IntVar(&refChars, "max.referenceChars", 0, "Maximum characters per extracted reference (default 2000)")
	flag.IntVar(&origChars, "max.originalChars", 0, "Maximum original-article characters in the prompt (default 1000)")
	flag.StringVar(&userAgent, "ua", "", "Custom User-Agent for outbound requests")
	flag.StringVar(&configPath, "config", "", "Optional YAML/JSON config file")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.Config{
		MongoURI:         mongoURI,
		MongoDatabase:    mongoDB,
		MongoCollection:  mongoColl,
		SerpBaseURL:      serpURL,
		SerpAPIKey:       serpKey,
		LLMBaseURL:       llmBaseURL,
		LLMModel:         llmModel,
		LLMAPIKey:        llmKey,
		MaxReferences:    maxRefs,
		SearchLimit:      searchN,
		ReferenceCharCap: refChars,
		OriginalCharCap:  origChars,
		UserAgent:        userAgent,
		Verbose:          verbose,
	}
	app.ApplyEnvToConfig(&cfg)
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("read config file")
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().Msg("starting augmentation")
	if err := app.RunAugment(context.Background(), cfg); err != nil {
		log.Error().Err(err).Msg("augmentation failed")
		os.Exit(1)
	}
	log.Info().Msg("augmentation finished")
}
