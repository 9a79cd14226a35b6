package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/formahq/forma/internal/repositories"
	"github.com/formahq/forma/internal/services"
	"github.com/formahq/forma/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	shared.LoadEnv()
	if os.Getenv("FORMA_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	tokens := repositories.NewTokenRepository(db)
	drafts := repositories.NewDraftRepository(db)

	httpClient := &http.Client{Timeout: time.Duration(config.API.TimeoutSeconds) * time.Second}
	client := services.NewClient(config.API.BaseURL, httpClient, tokens)
	auth := services.NewAuthService(client, tokens)
	forma := services.NewFormaService(client, services.FormaServiceOpts{
		PollInterval:    time.Duration(config.Generate.PollIntervalSeconds) * time.Second,
		PollMaxAttempts: config.Generate.PollMaxAttempts,
	})

	runner := NewRunner(RunnerOpts{
		Config: config,
		Auth:   auth,
		Forma:  forma,
		Tokens: tokens,
		Drafts: drafts,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "forma",
		Usage:    "Generate AI-powered PDF lead magnets for your firm",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
