package service

import (
	"context"

	"microblogSync/internal/models"
	"microblogSync/internal/repository"
)

type TimelineService interface {
	GetProfile(ctx context.Context, account string) (*models.Profile, error)
	GetTimeline(ctx context.Context, account string, page, limit int) ([]models.TimelineRecord, int, error)
}

type timelineService struct {
	profileRepo  repository.ProfileRepository
	timelineRepo repository.TimelineRepository
}

func NewTimelineService(profileRepo repository.ProfileRepository, timelineRepo repository.TimelineRepository) TimelineService {
	return &timelineService{
		profileRepo:  profileRepo,
		timelineRepo: timelineRepo,
	}
}

func (s *timelineService) GetProfile(ctx context.Context, account string) (*models.Profile, error) {
	return s.profileRepo.Get(ctx, account)
}

// GetTimeline returns one page of the cached timeline, newest first, and the
// total number of cached records.
func (s *timelineService) GetTimeline(ctx context.Context, account string, page, limit int) ([]models.TimelineRecord, int, error) {
	total, err := s.timelineRepo.Count(ctx, account)
	if err != nil {
		return nil, 0, err
	}

	records, err := s.timelineRepo.List(ctx, account, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
