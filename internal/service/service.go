package service

import (
	"go.uber.org/zap"
	"microblogSync/internal/config"
	"microblogSync/internal/oauth"
	"microblogSync/internal/repository"
	"microblogSync/internal/security"
	"microblogSync/internal/storage"
)

type Service struct {
	OAuth     OAuthService
	Auth      AuthService
	Post      PostService
	Timeline  TimelineService
	Tables    TablesService
	Sync      SyncService
	Scheduler *Scheduler
}

// NewService wires the services. archive may be nil when object storage is disabled.
func NewService(rep *repository.Repository, cfg *config.Config, provider oauth.Provider, transport Transport,
	archive storage.Archive, sealer *security.Sealer, logger *zap.Logger) *Service {
	oauthService := NewOAuthService(provider, rep.Credential, cfg.OAuth, logger)
	syncService := NewSyncService(oauthService, transport, rep, archive, cfg, logger)

	return &Service{
		OAuth:     oauthService,
		Auth:      NewAuthService(sealer, cfg),
		Post:      NewPostService(rep.Pending),
		Timeline:  NewTimelineService(rep.Profile, rep.Timeline),
		Tables:    NewTablesService(rep.Tables),
		Sync:      syncService,
		Scheduler: NewScheduler(syncService, rep.Credential, cfg.Sync, logger),
	}
}
