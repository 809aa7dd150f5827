package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"creative-approval-engine/internal/api"
	"creative-approval-engine/internal/config"
	"creative-approval-engine/internal/engine"
	"creative-approval-engine/internal/intake"
	"creative-approval-engine/internal/keywords"
	"creative-approval-engine/internal/listener"
	"creative-approval-engine/internal/storage"
)

func Run(cfg config.Config) {
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage (optional)
	var store *storage.Store
	var src engine.KeywordSource
	if cfg.PostgresEnabled() {
		var err error
		store, err = storage.New(rootCtx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("init storage")
		}
		defer store.Close()
		src = store
	}

	// Engine
	tb, source, err := InitialKeywords(rootCtx, cfg, src)
	if err != nil {
		log.Fatal().Err(err).Str("source", source).Msg("load keyword tables")
	}
	log.Info().Str("source", source).Interface("sizes", tb.Sizes()).Msg("keyword tables loaded")
	eng := engine.NewEngine(cfg.Thresholds(), tb)

	// HTTP
	h := api.NewApprovalHandler(eng, intake.NewDecoder(cfg.Image.MaxFileBytes), cfg.RequestTimeout())
	r := api.Router(h, api.RouterOptions{CORSOrigins: cfg.Server.CORSOrigins})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.RequestTimeout(),
		WriteTimeout: cfg.RequestTimeout() + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Listener (LISTEN/NOTIFY)
	if store != nil {
		go listener.ListenAndRefresh(rootCtx, store, eng, cfg.Backoff())
	}

	// Server goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server crashed")
		}
	}()

	// Wait for signal
	waitForSignal()
	log.Info().Msg("shutdown...")

	// Graceful shutdown
	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	cancel() // stop background goroutines
	_ = srv.Shutdown(shCtx)
}

// InitialKeywords picks the keyword source: Postgres when a store is given,
// else the configured YAML file, else the built-in tables.
func InitialKeywords(ctx context.Context, cfg config.Config, src engine.KeywordSource) (keywords.Tables, string, error) {
	switch {
	case src != nil && cfg.PostgresEnabled():
		tb, err := src.LoadKeywords(ctx)
		return tb, "postgres", err
	case cfg.Keywords.File != "":
		tb, err := keywords.LoadFile(cfg.Keywords.File)
		return tb, cfg.Keywords.File, err
	default:
		return keywords.Default(), "builtin", nil
	}
}

func waitForSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
