package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pressfold/blogaug/internal/api"
	"github.com/pressfold/blogaug/internal/app"
	"github.com/pressfold/blogaug/internal/store"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Best-effort .env loading, matching local development workflow.
	_ = godotenv.Load()

	var (
		addr      string
		mongoURI  string
		mongoDB   string
		mongoColl string
		verbose   bool
	)

	flag.StringVar(&addr, "addr", ":8080", "Listen address")
	flag.StringVar(&mongoURI, "mongo.uri", "", "MongoDB connection string (or MONGODB_URI)")
	flag.StringVar(&mongoDB, "mongo.db", "", "MongoDB database name")
	flag.StringVar(&mongoColl, "mongo.collection", "", "MongoDB collection name")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.Config{
		MongoURI:        mongoURI,
		MongoDatabase:   mongoDB,
		MongoCollection: mongoColl,
		Verbose:         verbose,
	}
	app.ApplyEnvToConfig(&cfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.ValidateServe(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	db := cfg.MongoDatabase
	if db == "" {
		db = "blogaug"
	}
	coll := cfg.MongoCollection
	if coll == "" {
		coll = "articles"
	}
	ctx := context.Background()
	st, err := store.ConnectMongo(ctx, cfg.MongoURI, db, coll)
	if err != nil {
		log.Fatal().Err(err).Msg("connect store")
	}
	defer func() {
		if cerr := st.Close(context.Background()); cerr != nil {
			log.Error().Err(cerr).Msg("disconnect store")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	(&api.Handler{Store: st}).Register(e)

	log.Info().Str("addr", addr).Msg("serving articles")
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		if cerr := st.Close(context.Background()); cerr != nil {
			log.Error().Err(cerr).Msg("disconnect store")
		}
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
