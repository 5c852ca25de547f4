package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"reglagen/internal/assistant"
	"reglagen/internal/core"
	"reglagen/internal/llm"
	"reglagen/internal/rules"
	"reglagen/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reglagen: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := core.LoadConfig()
	if err != nil {
		return err
	}

	logger := core.NewLogger(cfg.LogLevel)

	client, err := llm.NewClient(&llm.Config{
		APIKey:                 cfg.OpenAIAPIKey,
		BaseURL:                cfg.OpenAIBaseURL,
		Model:                  cfg.OpenAIModel,
		Temperature:            cfg.OpenAITemperature,
		MaxOutputTokens:        cfg.OpenAIMaxOutputTokens,
		Timeout:                cfg.OpenAITimeout,
		SupportsResponseFormat: cfg.SupportsResponseFormat,
	})
	if err != nil {
		return err
	}

	store, err := rules.NewStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close rule store", "error", err.Error())
		}
	}()

	asst := assistant.New(client, logger)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.New(asst, store, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	return nil
}
