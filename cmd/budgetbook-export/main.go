// budgetbook-export writes one account's ledger to a spreadsheet or a PDF
// report. It reads the same SQLite database the query façade serves from.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"budgetbook/internal/config"
	"budgetbook/internal/core"
	"budgetbook/internal/export"
	"budgetbook/internal/services"
	"budgetbook/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		accountID = flag.Int64("account", 0, "account id to export")
		outPath   = flag.String("out", "", "output file path")
		format    = flag.String("format", "xlsx", "output format: xlsx or pdf")
	)
	flag.Parse()

	if *accountID <= 0 || *outPath == "" {
		logger.Error("Both -account and -out are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	accounts := services.NewAccountService(repo, services.Policy{
		MinUsernameLen: cfg.MinUsernameLen,
		MinPasswordLen: cfg.MinPasswordLen,
		BcryptCost:     cfg.BcryptCost,
	})
	if _, err := accounts.Get(ctx, *accountID); err != nil {
		logger.Error("Account lookup failed", "error", err, "account_id", *accountID)
		os.Exit(1)
	}

	ledger := services.NewLedgerService(repo)
	entries, err := ledger.Entries(ctx, *accountID, core.SortByDate, false)
	if err != nil {
		logger.Error("Failed to load entries", "error", err, "account_id", *accountID)
		os.Exit(1)
	}

	switch *format {
	case "xlsx":
		err = export.WriteWorkbook(*outPath, entries)
	case "pdf":
		var summary services.Summary
		summary, err = ledger.Summary(ctx, *accountID, time.Now())
		if err == nil {
			err = export.WritePDF(*outPath, entries, summary)
		}
	default:
		logger.Error("Unknown format", "format", *format)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Export failed", "error", err, "format", *format, "out", *outPath)
		os.Exit(1)
	}

	logger.Info("Export complete", "format", *format, "out", *outPath, "entries", len(entries))
}
