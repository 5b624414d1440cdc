package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"microblogSync/internal/apperrors"
	"microblogSync/internal/config"
	"microblogSync/internal/metrics"
	"microblogSync/internal/models"
	"microblogSync/internal/oauth"
)

var ErrHandshakeNotFound = fmt.Errorf("%w: рукопожатие не найдено или истекло", apperrors.ErrAuthProtocol)

type OAuthService interface {
	Begin(ctx context.Context) (string, error)
	Complete(ctx context.Context, cb oauth.Callback) (*models.Credential, error)
	Authenticator(account string) Authenticator
	Logout(ctx context.Context, account string) error
}

type pendingHandshake struct {
	session   *oauth.Session
	startedAt time.Time
}

// oauthService keeps one session per pending handshake, keyed by request
// token, and one session per authorized account.
type oauthService struct {
	provider oauth.Provider
	store    oauth.CredentialStore
	cfg      config.OAuth
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	pending  map[string]pendingHandshake
	sessions map[string]*oauth.Session
}

func NewOAuthService(provider oauth.Provider, store oauth.CredentialStore, cfg config.OAuth, logger *zap.Logger) OAuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &oauthService{
		provider: provider,
		store:    store,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		pending:  map[string]pendingHandshake{},
		sessions: map[string]*oauth.Session{},
	}
}

// Begin starts a new handshake and returns the authorization URL.
func (s *oauthService) Begin(ctx context.Context) (string, error) {
	session := oauth.NewSession(s.provider, s.store, s.logger)

	authURL, err := session.BeginHandshake(ctx, s.cfg.CallbackURL)
	if err != nil {
		metrics.RecordHandshake(false)
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	s.pending[session.RequestToken()] = pendingHandshake{session: session, startedAt: s.now()}

	return authURL, nil
}

// Complete finishes the handshake the callback belongs to. A handshake that
// failed for good is forgotten; one that can be retried stays registered.
func (s *oauthService) Complete(ctx context.Context, cb oauth.Callback) (*models.Credential, error) {
	key := cb.Token
	if key == "" {
		key = cb.Denied
	}

	s.mu.Lock()
	s.pruneLocked()
	handshake, ok := s.pending[key]
	s.mu.Unlock()

	if !ok {
		if cb.Token == "" {
			return nil, oauth.ErrAccessDenied
		}
		return nil, ErrHandshakeNotFound
	}

	cred, err := handshake.session.CompleteHandshake(ctx, cb)
	if err != nil {
		if handshake.session.State() != oauth.StateAwaitingVerifier {
			s.forget(key)
			metrics.RecordHandshake(false)
		}
		return nil, err
	}

	s.mu.Lock()
	delete(s.pending, key)
	s.sessions[cred.Account] = handshake.session
	s.mu.Unlock()

	metrics.RecordHandshake(true)
	return cred, nil
}

func (s *oauthService) Authenticator(account string) Authenticator {
	return s.session(account)
}

// Logout clears the stored credential; the mirrored data goes with it.
func (s *oauthService) Logout(ctx context.Context, account string) error {
	session := s.session(account)

	if err := session.EnsureAuthorized(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrAuthRequired) {
			s.drop(account)
			return nil
		}
		return err
	}

	if err := session.Logout(ctx); err != nil {
		return fmt.Errorf("ошибка при выходе из аккаунта: %w", err)
	}

	s.drop(account)
	return nil
}

func (s *oauthService) session(account string) *oauth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[account]
	if !ok {
		session = oauth.NewSession(s.provider, s.store, s.logger)
		s.sessions[account] = session
	}
	return session
}

func (s *oauthService) forget(requestToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, requestToken)
}

func (s *oauthService) drop(account string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, account)
}

func (s *oauthService) pruneLocked() {
	if s.cfg.PendingTTL <= 0 {
		return
	}
	for token, handshake := range s.pending {
		if s.now().Sub(handshake.startedAt) > s.cfg.PendingTTL {
			delete(s.pending, token)
		}
	}
}
