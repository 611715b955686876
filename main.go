package main

import (
	"log/slog"
	"os"

	api "vidtube-backend/cmd/api"
	userdomain "vidtube-backend/internal/user/domain"
	userRepo "vidtube-backend/internal/user/repository"
	userUsecase "vidtube-backend/internal/user/usecase"
	"vidtube-backend/pkg/config"
	"vidtube-backend/pkg/database"
	"vidtube-backend/pkg/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&userdomain.User{}); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Initialize media uploader
	uploader, err := storage.NewS3Uploader(cfg)
	if err != nil {
		logger.Error("failed to initialize media storage", "error", err)
		os.Exit(1)
	}

	// Initialize repositories and use cases (dependency injection)
	repo := userRepo.NewUserRepository(db)
	uc := userUsecase.NewUserUsecase(repo, uploader, cfg, logger)

	// Initialize HTTP handler
	handler := api.NewHandler(uc, cfg, logger)

	logger.Info("server starting", "port", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
