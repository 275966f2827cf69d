// Command budget-seed loads budget rows from a JSON file into the SQLite
// database used by the sqlite backend.
package main

import (
	"context"
	"flag"
	"os"

	"budgetdash/internal/cli"
	"budgetdash/internal/core"
	"budgetdash/internal/log"
	"budgetdash/internal/store/memory"
	"budgetdash/internal/store/sqlite"
)

func main() {
	cli.LoadEnvFile()

	file := flag.String("file", envOr("SEED_FILE", "./data/seed_budget.json"), "JSON array of budget rows")
	dbPath := flag.String("db", envOr("SQLITE_DB_PATH", "./data/budget.db"), "SQLite database path")
	sample := flag.Bool("sample", false, "seed the built-in sample rows instead of -file")
	flag.Parse()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentStorage)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	var rows []core.RawRow
	if *sample {
		rows = memory.SampleRows()
	} else {
		data, err := os.ReadFile(*file)
		if err != nil {
			logger.Error("Failed to read seed file", "file", *file, log.FieldError, err)
			os.Exit(1)
		}
		rows, err = memory.DecodeRows(data)
		if err != nil {
			logger.Error("Failed to decode seed file", "file", *file, log.FieldError, err)
			os.Exit(1)
		}
	}

	repo, err := sqlite.NewRepository(*dbPath)
	if err != nil {
		logger.Error("Failed to open SQLite database", "path", *dbPath, log.FieldError, err)
		os.Exit(1)
	}
	defer repo.Close()

	n, err := repo.InsertRows(ctx, rows)
	if err != nil {
		logger.Error("Seeding failed", log.NewFields().WithOperation(log.OpSeed).WithError(err).ToSlice()...)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("Seeded budget rows", log.FieldOperation, log.OpSeed, log.FieldRowCount, n, "path", *dbPath)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
