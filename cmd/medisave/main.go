package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"medisave/internal/domain/negotiation"
	"medisave/internal/domain/sync"
	"medisave/internal/domain/user"
	"medisave/internal/infrastructure/aigen"
	"medisave/internal/infrastructure/jsonstore"
	"medisave/internal/infrastructure/provider"
	"medisave/internal/shared/config"
	"medisave/internal/shared/logging"
	"medisave/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load .env if present; real environment wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logCloser, err := logging.Setup(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	// Open the data store; missing collection files are seeded empty.
	store, err := jsonstore.Open(cfg.DataDir)
	if err != nil {
		return err
	}

	slog.Info("store opened", "dir", cfg.DataDir)

	// Initialize repositories
	userRepo := jsonstore.NewUserRepository(store)
	accountRepo := jsonstore.NewAccountRepository(store)
	transactionRepo := jsonstore.NewTransactionRepository(store)
	billRepo := jsonstore.NewBillRepository(store)

	// Initialize external clients
	providerClient := provider.NewClient(cfg.Provider.BaseURL, cfg.Provider.Timeout)
	generator := aigen.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)

	// Initialize services
	identity := user.NewService(userRepo, accountRepo, transactionRepo, billRepo)
	linker := sync.NewService(providerClient, userRepo, accountRepo, transactionRepo)
	drafter := negotiation.NewDrafter(generator, cfg.AI.MaxTokens, cfg.AI.Temperature)

	app := tui.New(os.Stdin, os.Stdout, identity, linker, drafter)
	return app.Run(context.Background())
}
