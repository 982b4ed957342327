package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "stickynotes/internal/adapters/mcp"
	"stickynotes/internal/adapters/sqlite"
	"stickynotes/internal/config"
	"stickynotes/internal/logging"
)

func main() {
	dbFlag := flag.String("db", config.DBPath(), "path to the notes database")
	levelFlag := flag.String("log-level", config.LogLevel(), "log level")
	flag.Parse()

	// stdout carries the protocol, so logs go to stderr.
	log := logging.New(*levelFlag, logging.FormatJSON, os.Stderr)

	tuning, err := config.LoadTuning(config.TuningPath())
	if err != nil {
		log.WithError(err).Fatal("stickynotes-mcp: load tuning")
	}

	store, err := sqlite.Open(*dbFlag)
	if err != nil {
		log.WithError(err).Fatal("stickynotes-mcp: open store")
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pages := mcpadapter.NewPages(ctx, store, tuning.SessionOptions(log))
	defer func() {
		if err := pages.Close(context.Background()); err != nil {
			log.WithError(err).Warn("stickynotes-mcp: flush pages")
		}
	}()

	mcpServer := server.NewMCPServer(
		"stickynotes-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterPageTools(mcpServer, pages)
	mcpadapter.RegisterReadTools(mcpServer, pages, store)
	mcpadapter.RegisterWriteTools(mcpServer, pages)

	log.WithField("db", store.Path()).Info("stickynotes-mcp: serving on stdio")
	if err := server.ServeStdio(mcpServer); err != nil {
		log.WithError(err).Error("stickynotes-mcp: serve")
	}
}
