package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"microblogSync/internal/config"
	"microblogSync/internal/database"
	"microblogSync/internal/oauth"
	"microblogSync/internal/repository"
	"microblogSync/internal/security"
	"microblogSync/internal/service"
	"microblogSync/internal/storage"
	"microblogSync/internal/transport"
)

func App(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*database.DB, *repository.Repository, *service.Service, error) {
	sealer, err := security.NewSealer(cfg.CredentialsKey)
	if err != nil {
		return nil, nil, nil, err
	}

	provider, err := oauth.NewConsumerProvider(cfg.OAuth, cfg.API.HTTPTimeout)
	if err != nil {
		return nil, nil, nil, err
	}

	// connection DB
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	// connection MinIO, optional
	var archive storage.Archive
	if cfg.MinIO.Enabled {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
		if err != nil {
			db.CloseDB()
			return nil, nil, nil, fmt.Errorf("не удалось инициализировать MinIO: %w", err)
		}
		archive = minioClient
		logger.Info("архив ответов включен", zap.String("bucket", cfg.MinIO.BucketName))
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB, sealer)

	services := service.NewService(repo, cfg, provider, transport.NewHTTPTransport(logger), archive, sealer, logger)

	return db, repo, services, nil
}
