package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"microblogSync/internal/apperrors"
	"microblogSync/internal/config"
	"microblogSync/internal/logger"
	"microblogSync/internal/metrics"
	"microblogSync/internal/models"
)

var ErrPassInProgress = errors.New("проход синхронизации уже выполняется")

type PassResult struct {
	Account string
	Report  *models.SyncReport
	Err     error
}

type AccountLister interface {
	ListAccounts(ctx context.Context) ([]string, error)
}

// PassSubmitter starts on-demand passes.
type PassSubmitter interface {
	Submit(ctx context.Context, account string) <-chan PassResult
}

// Scheduler runs sync passes periodically for every stored account and on
// demand. At most one pass per account runs at a time and at most Workers
// passes run overall.
type Scheduler struct {
	sync     SyncService
	accounts AccountLister
	interval time.Duration
	workers  int
	logger   *zap.Logger

	slots    chan struct{}
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewScheduler(syncService SyncService, accounts AccountLister, cfg config.Sync, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	return &Scheduler{
		sync:     syncService,
		accounts: accounts,
		interval: cfg.Interval,
		workers:  workers,
		logger:   logger.WithComponent(log, "scheduler"),
		slots:    make(chan struct{}, workers),
		inFlight: map[string]struct{}{},
	}
}

// Submit starts a pass for account and delivers its result on the returned
// channel, which is closed afterwards. A pass already running for the account
// yields ErrPassInProgress.
func (s *Scheduler) Submit(ctx context.Context, account string) <-chan PassResult {
	results := make(chan PassResult, 1)

	if !s.acquire(account) {
		metrics.RecordPassSkipped()
		results <- PassResult{Account: account, Err: ErrPassInProgress}
		close(results)
		return results
	}

	go func() {
		defer close(results)
		defer s.release(account)

		select {
		case s.slots <- struct{}{}:
		case <-ctx.Done():
			results <- PassResult{Account: account, Err: ctx.Err()}
			return
		}
		defer func() { <-s.slots }()

		report, err := s.sync.RunSyncPass(ctx, account)
		metrics.RecordPass(report)
		results <- PassResult{Account: account, Report: report, Err: err}
	}()

	return results
}

// RunOnce runs a pass for every account with a stored credential and waits
// for all of them.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, account := range accounts {
		g.Go(func() error {
			res := <-s.Submit(gctx, account)
			log := logger.WithAccount(s.logger, account)

			switch {
			case res.Err == nil:
			case errors.Is(res.Err, ErrPassInProgress):
				log.Debug("проход уже выполняется, пропускаем")
			case errors.Is(res.Err, apperrors.ErrAuthRequired):
				log.Info("аккаунт требует повторной авторизации")
			default:
				log.Warn("проход синхронизации не выполнен", zap.Error(res.Err))
			}
			return nil
		})
	}

	return g.Wait()
}

// Run calls RunOnce right away and then on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info("периодическая синхронизация отключена")
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("планировщик запущен", zap.Duration("interval", s.interval), zap.Int("workers", s.workers))

	for {
		if err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("ошибка получения списка аккаунтов", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			s.logger.Info("планировщик остановлен")
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) acquire(account string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[account]; busy {
		return false
	}
	s.inFlight[account] = struct{}{}
	return true
}

func (s *Scheduler) release(account string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, account)
}
