package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirillkom/doc-translator/internal/bootstrap"
	"github.com/kirillkom/doc-translator/internal/cli"
	"github.com/kirillkom/doc-translator/internal/config"
	"github.com/kirillkom/doc-translator/internal/observability/logging"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(version, newServices)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newServices() (cli.Services, error) {
	if err := config.LoadDotEnv(); err != nil {
		return cli.Services{}, err
	}
	cfg := config.Load()
	logger := logging.New(os.Stderr, "doctranslate", cfg.LogLevel)

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		return cli.Services{}, err
	}
	return cli.Services{
		Documents:  app.DocumentsUC,
		Streamer:   app.TextUC,
		Directions: app.DirectionUC,
		Extractor:  app.Extractor,
	}, nil
}
