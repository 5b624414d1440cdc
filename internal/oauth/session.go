// Package oauth drives the three-legged OAuth 1.0a handshake and hands out
// signed requests once an account is authorized.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"microblogSync/internal/apperrors"
	"microblogSync/internal/logger"
	"microblogSync/internal/models"
)

type State int

const (
	StateUnauthenticated State = iota
	StateRequestTokenObtained
	StateAwaitingVerifier
	StateAuthorized
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateRequestTokenObtained:
		return "request_token_obtained"
	case StateAwaitingVerifier:
		return "awaiting_verifier"
	case StateAuthorized:
		return "authorized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrTokenMismatch = fmt.Errorf("%w: oauth_token не совпадает с выданным request token", apperrors.ErrAuthProtocol)
	ErrAccessDenied  = fmt.Errorf("%w: пользователь отклонил доступ", apperrors.ErrAuth)
)

// Provider is the consumer side of the remote OAuth service. Signing itself
// happens inside the *http.Client returned by Client.
type Provider interface {
	RequestToken(ctx context.Context, callbackURL string) (token, secret string, err error)
	AuthorizationURL(requestToken string) (string, error)
	AccessToken(ctx context.Context, requestToken, requestSecret, verifier string) (token, secret string, err error)
	Client(ctx context.Context, accessToken, accessSecret string) *http.Client
}

type CredentialStore interface {
	Get(ctx context.Context, account string) (*models.Credential, error)
	Put(ctx context.Context, account string, cred *models.Credential) error
	Clear(ctx context.Context, account string) error
}

// SignedRequest is a request bound to the client that signs it on the way out.
type SignedRequest struct {
	Request *http.Request
	Client  *http.Client
}

type Session struct {
	mu       sync.Mutex
	provider Provider
	store    CredentialStore
	logger   *zap.Logger
	state    State
	account  string
	cred     models.Credential
}

func NewSession(provider Provider, store CredentialStore, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		provider: provider,
		store:    store,
		logger:   logger.WithComponent(log, "oauth"),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Account() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// RequestToken returns the token issued by the last BeginHandshake, if still pending.
func (s *Session) RequestToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred.RequestToken
}

// BeginHandshake obtains a request token and returns the URL the user must visit.
func (s *Session) BeginHandshake(ctx context.Context, callbackURL string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider == nil {
		return "", fmt.Errorf("%w: провайдер OAuth не настроен", apperrors.ErrSigning)
	}

	s.reset()

	token, secret, err := s.provider.RequestToken(ctx, callbackURL)
	if err != nil {
		s.logger.Warn("не удалось получить request token", zap.Error(err))
		return "", classify(err)
	}
	if token == "" || secret == "" {
		return "", fmt.Errorf("%w: в ответе нет oauth_token или oauth_token_secret", apperrors.ErrAuthProtocol)
	}

	s.cred.RequestToken = token
	s.cred.RequestSecret = secret
	s.state = StateRequestTokenObtained

	authURL, err := s.provider.AuthorizationURL(token)
	if err != nil {
		s.reset()
		return "", fmt.Errorf("%w: не удалось построить URL авторизации: %v", apperrors.ErrAuthProtocol, err)
	}

	s.state = StateAwaitingVerifier
	s.logger.Info("ожидаем подтверждение пользователя")

	return authURL, nil
}

// CompleteHandshake exchanges the callback verifier for an access token and
// persists the credential. A token mismatch, a denial or a rejected verifier
// abort the handshake; a network failure or a missing verifier keep it open.
func (s *Session) CompleteHandshake(ctx context.Context, cb Callback) (*models.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingVerifier {
		return nil, fmt.Errorf("%w: рукопожатие не начато (состояние %s)", apperrors.ErrAuthProtocol, s.state)
	}

	if cb.Token == "" {
		s.logger.Info("доступ отклонен или отменен", zap.String("denied", cb.Denied))
		s.reset()
		return nil, ErrAccessDenied
	}

	if cb.Token != s.cred.RequestToken {
		s.logger.Error("oauth_token из callback не совпадает с request token")
		s.reset()
		return nil, ErrTokenMismatch
	}

	if cb.Verifier == "" {
		return nil, fmt.Errorf("%w: в callback нет oauth_verifier", apperrors.ErrAuthProtocol)
	}

	token, secret, err := s.provider.AccessToken(ctx, s.cred.RequestToken, s.cred.RequestSecret, cb.Verifier)
	if err != nil {
		err = classify(err)
		if errors.Is(err, apperrors.ErrAuth) {
			s.reset()
		}
		s.logger.Warn("не удалось получить access token", zap.Error(err))
		return nil, err
	}
	if token == "" || secret == "" {
		return nil, fmt.Errorf("%w: в ответе нет access token", apperrors.ErrAuthProtocol)
	}

	cred := &models.Credential{AccessToken: token, AccessSecret: secret}
	if err := s.store.Put(ctx, token, cred); err != nil {
		s.reset()
		return nil, fmt.Errorf("ошибка при сохранении учетных данных: %w", err)
	}

	s.account = token
	s.cred = models.Credential{Account: token, AccessToken: token, AccessSecret: secret}
	s.state = StateAuthorized
	s.logger.Info("аккаунт авторизован", zap.String("account", logger.MaskAccount(token)))

	result := s.cred
	return &result, nil
}

// EnsureAuthorized loads the stored credential for account unless the session
// already holds it.
func (s *Session) EnsureAuthorized(ctx context.Context, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAuthorized && s.account == account && s.cred.HasAccess() {
		return nil
	}

	cred, err := s.store.Get(ctx, account)
	if err != nil {
		return err
	}
	if !cred.HasAccess() {
		return fmt.Errorf("%w: нет учетных данных для аккаунта", apperrors.ErrAuthRequired)
	}

	s.account = account
	s.cred = models.Credential{Account: account, AccessToken: cred.AccessToken, AccessSecret: cred.AccessSecret}
	s.state = StateAuthorized

	return nil
}

func (s *Session) Sign(ctx context.Context, req *http.Request) (*SignedRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthorized || !s.cred.HasAccess() {
		return nil, fmt.Errorf("%w: сессия не авторизована", apperrors.ErrSigning)
	}
	if s.provider == nil {
		return nil, fmt.Errorf("%w: провайдер OAuth не настроен", apperrors.ErrSigning)
	}

	return &SignedRequest{
		Request: req,
		Client:  s.provider.Client(ctx, s.cred.AccessToken, s.cred.AccessSecret),
	}, nil
}

// Revoke drops the in-memory credential after the remote service rejected it.
// The stored credential is kept; the next pass reloads it.
func (s *Session) Revoke() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAuthorized {
		s.logger.Warn("учетные данные отклонены сервисом")
	}
	s.reset()
}

// Logout clears the stored credential and returns the session to Unauthenticated.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.account != "" {
		if err := s.store.Clear(ctx, s.account); err != nil {
			return err
		}
	}
	s.reset()
	s.account = ""

	return nil
}

func (s *Session) reset() {
	s.state = StateUnauthenticated
	s.cred = models.Credential{}
}

func classify(err error) error {
	if errors.Is(err, apperrors.ErrNetwork) || errors.Is(err, apperrors.ErrAuth) ||
		errors.Is(err, apperrors.ErrAuthProtocol) || errors.Is(err, apperrors.ErrSigning) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}
	return fmt.Errorf("%w: %v", apperrors.ErrAuthProtocol, err)
}
