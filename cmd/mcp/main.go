package main

import (
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/doc-translator/internal/adapters/mcp"
	"github.com/kirillkom/doc-translator/internal/bootstrap"
	"github.com/kirillkom/doc-translator/internal/config"
	"github.com/kirillkom/doc-translator/internal/observability/logging"
)

var version = "dev"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("dotenv_load_failed", "error", err)
		os.Exit(1)
	}
	cfg := config.Load()
	// stdout carries the MCP protocol.
	logger := logging.New(os.Stderr, "mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}

	s := mcpadapter.NewServer(version, mcpadapter.Dependencies{
		Translator: app.TextUC,
		Documents:  app.DocumentsUC,
		Directions: app.DirectionUC,
		OutputDir:  app.OutputDir,
	})
	if err := server.ServeStdio(s); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
