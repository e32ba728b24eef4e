package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"movie-catalog/cmd"
	"movie-catalog/internal/cache"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/usecase"
	"movie-catalog/internal/wire"
	"movie-catalog/pkg/auth"
	"movie-catalog/pkg/database"
	"movie-catalog/pkg/notification"
	"movie-catalog/pkg/storage"
	"movie-catalog/pkg/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, "app", config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using zap production logger.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connected successfully")

	infra, closeInfra, err := initInfra(config, logger)
	if err != nil {
		logger.Fatal("Failed to initialize infrastructure", zap.Error(err))
	}
	defer closeInfra()

	repos := repository.NewRepository(db, logger)
	app := wire.Wiring(ctx, repos, infra, config, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}

// initInfra builds the cache, token manager, mailer and avatar store.
// The returned func releases the cache connection.
func initInfra(config *utils.Config, logger *zap.Logger) (usecase.Infra, func(), error) {
	var store cache.Cache
	closeFn := func() {}
	switch config.Redis.Driver {
	case "memory":
		logger.Warn("Using in-process cache; pages are not shared between instances")
		store = cache.NewMemoryCache()
	default:
		rc, err := cache.InitRedis(config.Redis, logger)
		if err != nil {
			return usecase.Infra{}, nil, err
		}
		store = rc
		closeFn = func() {
			if err := rc.Close(); err != nil {
				logger.Warn("Failed to close redis", zap.Error(err))
			}
		}
	}

	tokens, err := auth.NewJWTManager(
		config.JWT.AccessSecret,
		config.JWT.RefreshSecret,
		config.JWT.AccessTTL,
		config.JWT.RefreshTTL,
	)
	if err != nil {
		closeFn()
		return usecase.Infra{}, nil, err
	}

	var mailer notification.EmailSender
	if config.Email.Host != "" {
		mailer = notification.NewSMTPSender(config.Email, logger)
	} else {
		logger.Warn("SMTP_HOST not set, activation emails are only logged")
		mailer = notification.NewLogSender(logger)
	}

	avatars, err := storage.NewAvatarFileHandler(afero.NewOsFs(), config.App.MediaDir, logger)
	if err != nil {
		closeFn()
		return usecase.Infra{}, nil, err
	}

	return usecase.Infra{
		Cache:   store,
		Tokens:  tokens,
		Mailer:  mailer,
		Avatars: avatars,
	}, closeFn, nil
}
