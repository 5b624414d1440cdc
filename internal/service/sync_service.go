package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
	"microblogSync/internal/apperrors"
	"microblogSync/internal/config"
	"microblogSync/internal/logger"
	"microblogSync/internal/models"
	"microblogSync/internal/oauth"
	"microblogSync/internal/repository"
	"microblogSync/internal/storage"
	"microblogSync/internal/timeline"
)

type Transport interface {
	Execute(ctx context.Context, sr *oauth.SignedRequest, timeout time.Duration) (string, error)
}

// Authenticator is the part of an OAuth session a sync pass needs.
type Authenticator interface {
	EnsureAuthorized(ctx context.Context, account string) error
	Sign(ctx context.Context, req *http.Request) (*oauth.SignedRequest, error)
	Revoke()
}

type SessionSource interface {
	Authenticator(account string) Authenticator
}

type SyncService interface {
	RunSyncPass(ctx context.Context, account string) (*models.SyncReport, error)
}

type syncService struct {
	sessions  SessionSource
	transport Transport
	profiles  repository.ProfileRepository
	timeline  repository.TimelineRepository
	pending   repository.PendingPostRepository
	archive   storage.Archive
	limiter   ratelimit.Limiter
	api       config.API
	logger    *zap.Logger
	now       func() time.Time
}

// NewSyncService wires the engine. archive may be nil.
func NewSyncService(sessions SessionSource, transport Transport, repo *repository.Repository, archive storage.Archive, cfg *config.Config, log *zap.Logger) SyncService {
	if log == nil {
		log = zap.NewNop()
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.Sync.PostsPerSecond > 0 {
		limiter = ratelimit.New(cfg.Sync.PostsPerSecond)
	}

	return &syncService{
		sessions:  sessions,
		transport: transport,
		profiles:  repo.Profile,
		timeline:  repo.Timeline,
		pending:   repo.Pending,
		archive:   archive,
		limiter:   limiter,
		api:       cfg.API,
		logger:    logger.WithComponent(log, "sync"),
		now:       time.Now,
	}
}

// pass holds the state of one RunSyncPass call.
type pass struct {
	account string
	auth    Authenticator
	report  *models.SyncReport
	logger  *zap.Logger
}

// RunSyncPass refreshes the profile, replaces the timeline and drains the
// outgoing queue, in that order. A failing phase is recorded in the report
// and the pass moves on; only a missing credential aborts it.
func (s *syncService) RunSyncPass(ctx context.Context, account string) (*models.SyncReport, error) {
	p := &pass{
		account: account,
		auth:    s.sessions.Authenticator(account),
		report:  models.NewSyncReport(account, s.now()),
		logger:  logger.WithAccount(s.logger, account),
	}

	if err := p.auth.EnsureAuthorized(ctx, account); err != nil {
		p.report.Record(models.PhaseCredentials, err)
		p.report.FinishedAt = s.now()
		p.logger.Warn("проход синхронизации прерван", zap.Error(err))
		return p.report, err
	}

	s.refreshProfile(ctx, p)
	s.refreshTimeline(ctx, p)
	s.drainQueue(ctx, p)

	p.report.FinishedAt = s.now()
	p.logger.Info("проход синхронизации завершен",
		zap.Bool("profile_updated", p.report.ProfileUpdated),
		zap.Int("timeline_inserted", p.report.TimelineInserted),
		zap.Int("posts_uploaded", p.report.PostsUploaded),
		zap.Int("posts_remaining", p.report.PostsRemaining),
		zap.Int("errors", len(p.report.Errors)),
	)

	return p.report, nil
}

func (s *syncService) refreshProfile(ctx context.Context, p *pass) {
	body, err := s.get(ctx, p, s.api.VerifyURL)
	if err != nil {
		s.fail(ctx, p, models.PhaseProfile, err, "")
		return
	}

	profile, err := parseProfile(body)
	if err != nil {
		s.fail(ctx, p, models.PhaseProfile, err, body)
		return
	}

	profile.Account = p.account
	profile.LastUpdated = s.now()

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		s.fail(ctx, p, models.PhaseProfile, err, "")
		return
	}

	p.report.ProfileUpdated = true
}

func (s *syncService) refreshTimeline(ctx context.Context, p *pass) {
	selector := timeline.NewSelector(s.api.TimelineURL, s.api.TimelineCount)
	rawURL, err := selector.BuildURL()
	if err != nil {
		s.fail(ctx, p, models.PhaseTimeline, err, "")
		return
	}

	body, err := s.get(ctx, p, rawURL)
	if err != nil {
		s.fail(ctx, p, models.PhaseTimeline, err, "")
		return
	}

	records, err := parseTimeline(body)
	if err != nil {
		s.fail(ctx, p, models.PhaseTimeline, err, body)
		return
	}

	inserted, err := s.timeline.Replace(ctx, p.account, records)
	if err != nil {
		s.fail(ctx, p, models.PhaseTimeline, err, "")
		return
	}

	p.report.TimelineInserted = inserted
	if inserted != len(records) {
		s.fail(ctx, p, models.PhaseTimeline,
			fmt.Errorf("%w: вставлено %d записей ленты из %d", apperrors.ErrConsistency, inserted, len(records)), "")
	}
}

// drainQueue uploads pending posts oldest first. A post leaves the queue only
// after the service acknowledged it; the first failure stops the drain. When
// the queue cannot be read PostsRemaining stays PostsRemainingUnknown.
func (s *syncService) drainQueue(ctx context.Context, p *pass) {
	posts, err := s.pending.ListPending(ctx, p.account)
	if err != nil {
		s.fail(ctx, p, models.PhaseQueue, err, "")
		return
	}

	for i, post := range posts {
		if strings.TrimSpace(post.Text) == "" {
			if err := s.pending.Delete(ctx, post.PostID); err != nil {
				s.stopDrain(ctx, p, err, "", len(posts)-i)
				return
			}
			continue
		}

		s.limiter.Take()

		if post.Attempts > 0 {
			p.logger.Warn("повторная отправка поста, возможен дубликат",
				zap.String("post_id", post.PostID),
				zap.Int("attempts", post.Attempts),
			)
		}

		if err := s.pending.MarkAttempt(ctx, post.PostID); err != nil {
			s.stopDrain(ctx, p, err, "", len(posts)-i)
			return
		}

		body, err := s.post(ctx, p, s.api.StatusesURL, url.Values{"status": {post.Text}}, post.IdempotencyKey)
		if err != nil {
			s.stopDrain(ctx, p, err, "", len(posts)-i)
			return
		}

		remoteID, err := parseAck(body)
		if err != nil {
			s.stopDrain(ctx, p, err, body, len(posts)-i)
			return
		}

		if err := s.pending.Delete(ctx, post.PostID); err != nil {
			s.stopDrain(ctx, p, err, "", len(posts)-i)
			return
		}

		p.report.PostsUploaded++
		p.logger.Debug("пост опубликован", zap.String("post_id", post.PostID), zap.String("remote_id", remoteID))
	}

	p.report.PostsRemaining = 0
}

func (s *syncService) stopDrain(ctx context.Context, p *pass, err error, body string, remaining int) {
	p.report.PostsRemaining = remaining
	s.fail(ctx, p, models.PhaseQueue, err, body)
}

func (s *syncService) get(ctx context.Context, p *pass, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: неверный запрос %s: %v", apperrors.ErrSigning, rawURL, err)
	}

	return s.execute(ctx, p, req)
}

func (s *syncService) post(ctx context.Context, p *pass, rawURL string, form url.Values, idempotencyKey string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: неверный запрос %s: %v", apperrors.ErrSigning, rawURL, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	return s.execute(ctx, p, req)
}

func (s *syncService) execute(ctx context.Context, p *pass, req *http.Request) (string, error) {
	signed, err := p.auth.Sign(ctx, req)
	if err != nil {
		return "", err
	}

	return s.transport.Execute(ctx, signed, s.api.HTTPTimeout)
}

// fail records err for phase. A rejected credential revokes the session; an
// unparseable body is archived when an archive is configured.
func (s *syncService) fail(ctx context.Context, p *pass, phase string, err error, body string) {
	kind := p.report.Record(phase, err)
	p.logger.Warn("ошибка синхронизации", zap.String("phase", phase), zap.String("kind", kind), zap.Error(err))

	if errors.Is(err, apperrors.ErrAuth) {
		p.auth.Revoke()
	}

	if errors.Is(err, apperrors.ErrParse) && body != "" && s.archive != nil {
		objectName, archiveErr := s.archive.SaveResponse(ctx, p.account, phase, body)
		if archiveErr != nil {
			p.logger.Warn("не удалось сохранить ответ в архив", zap.Error(archiveErr))
			return
		}
		p.logger.Info("ответ сохранен в архив", zap.String("object", objectName))
	}
}
