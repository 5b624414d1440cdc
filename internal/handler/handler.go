package handlers

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"microblogSync/internal/config"
	"microblogSync/internal/service"
)

type Handlers struct {
	OAuthService    service.OAuthService
	AuthService     service.AuthService
	PostService     service.PostService
	TimelineService service.TimelineService
	TablesService   service.TablesService
	Scheduler       service.PassSubmitter
	Cfg             *config.Config
	Validate        *validator.Validate
	Logger          *zap.Logger
}

func NewHandlers(service *service.Service, config *config.Config, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		OAuthService:    service.OAuth,
		AuthService:     service.Auth,
		PostService:     service.Post,
		TimelineService: service.Timeline,
		TablesService:   service.Tables,
		Scheduler:       service.Scheduler,
		Cfg:             config,
		Validate:        validator.New(),
		Logger:          logger,
	}
}
