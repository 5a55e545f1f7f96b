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
		blogURL    string
		batchSize  int
		mongoURI   string
		mongoDB    string
		mongoColl  string
		userAgent  string
		configPath string
		verbose    bool
	)

	// Defaults stay zero here so env and config-file overlays can take effect;
	// hard defaults are applied after the overlays run.
	flag.StringVar(&blogURL, "blog.url", "", "Blog index URL to crawl (or BLOG_URL; default "+app.DefaultBlogURL+")")
	flag.IntVar(&batchSize, "blog.batch", 0, "How many articles to extract per run (or BATCH_SIZE; default 5)")
	flag.StringVar(&mongoURI, "mongo.uri", "", "MongoDB connection string (or MONGODB_URI)")
	flag.StringVar(&mongoDB, "mongo.db", "", "MongoDB database name")
	flag.StringVar(&mongoColl, "mongo.collection", "", "MongoDB collection name")
	flag.StringVar(&userAgent, "ua", "", "Custom User-Agent for outbound requests")
	flag.StringVar(&configPath, "config", "", "Optional YAML/JSON config file")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.Config{
		BlogURL:         blogURL,
		BatchSize:       batchSize,
		MongoURI:        mongoURI,
		MongoDatabase:   mongoDB,
		MongoCollection: mongoColl,
		UserAgent:       userAgent,
		Verbose:         verbose,
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

	log.Info().Msg("starting scraper")
	if err := app.RunScrape(context.Background(), cfg); err != nil {
		log.Error().Err(err).Msg("scrape failed")
		os.Exit(1)
	}
	log.Info().Msg("scraper finished")
}
