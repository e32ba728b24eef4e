package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/importer"
	"movie-catalog/pkg/database"
	"movie-catalog/pkg/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var (
		file  string
		clean bool
	)
	flag.StringVar(&file, "file", config.Importer.CSVPath, "Path to the movies CSV file")
	flag.BoolVar(&clean, "clean", false, "Delete all catalog data before importing")
	flag.Parse()

	logger, err := utils.InitLogger(config.App.LogPath, "importer", config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using zap production logger.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	os.Exit(run(logger, config, file, clean))
}

func run(logger *zap.Logger, config *utils.Config, file string, clean bool) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return 1
	}
	defer db.Close()

	repos := repository.NewRepository(db, logger)
	imp := importer.New(afero.NewOsFs(), db, repos.Catalog, logger)

	if clean {
		if err := imp.Clean(ctx); err != nil {
			logger.Error("Failed to clean catalog", zap.Error(err))
			return 1
		}
	}

	result, err := imp.ImportFile(ctx, file)
	if err != nil {
		logger.Error("Import failed",
			zap.Error(err),
			zap.String("category", category(err)),
			zap.String("file", file),
		)
		return 1
	}

	logger.Info("Done",
		zap.Bool("skipped", result.Skipped),
		zap.Int("imported", result.Imported),
		zap.Int("invalid", result.Invalid),
		zap.Int("duplicates", result.Duplicates),
	)
	return 0
}

func category(err error) string {
	switch {
	case errors.Is(err, importer.ErrIntegrity):
		return "integrity"
	case errors.Is(err, importer.ErrOperational):
		return "operational"
	case errors.Is(err, importer.ErrData):
		return "data"
	default:
		return "generic"
	}
}
