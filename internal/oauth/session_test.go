package oauth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"microblogSync/internal/apperrors"
	"microblogSync/internal/models"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) RequestToken(ctx context.Context, callbackURL string) (string, string, error) {
	args := m.Called(ctx, callbackURL)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockProvider) AuthorizationURL(requestToken string) (string, error) {
	args := m.Called(requestToken)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) AccessToken(ctx context.Context, requestToken, requestSecret, verifier string) (string, string, error) {
	args := m.Called(ctx, requestToken, requestSecret, verifier)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockProvider) Client(ctx context.Context, accessToken, accessSecret string) *http.Client {
	return &http.Client{}
}

// memoryStore is an in-memory CredentialStore.
type memoryStore struct {
	mu      sync.Mutex
	creds   map[string]models.Credential
	putErr  error
	cleared []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{creds: map[string]models.Credential{}}
}

func (s *memoryStore) Get(ctx context.Context, account string) (*models.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[account]
	if !ok {
		return nil, nil
	}
	return &cred, nil
}

func (s *memoryStore) Put(ctx context.Context, account string, cred *models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.creds[account] = *cred
	return nil
}

func (s *memoryStore) Clear(ctx context.Context, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, account)
	s.cleared = append(s.cleared, account)
	return nil
}

func beginHandshake(t *testing.T, provider *MockProvider, store *memoryStore) *Session {
	provider.On("RequestToken", mock.Anything, "http://localhost/callback").Return("rt1", "rs1", nil)
	provider.On("AuthorizationURL", "rt1").Return("https://api.example.com/oauth/authorize?oauth_token=rt1", nil)

	session := NewSession(provider, store, nil)
	authURL, err := session.BeginHandshake(context.Background(), "http://localhost/callback")
	require.NoError(t, err)
	assert.Contains(t, authURL, "oauth_token=rt1")
	assert.Equal(t, StateAwaitingVerifier, session.State())
	assert.Equal(t, "rt1", session.RequestToken())

	return session
}

func TestSession_HandshakeSuccess(t *testing.T) {
	provider := new(MockProvider)
	store := newMemoryStore()
	session := beginHandshake(t, provider, store)

	provider.On("AccessToken", mock.Anything, "rt1", "rs1", "v1").Return("at1", "as1", nil)

	cred, err := session.CompleteHandshake(context.Background(), Callback{Token: "rt1", Verifier: "v1"})
	require.NoError(t, err)

	assert.Equal(t, StateAuthorized, session.State())
	assert.Equal(t, "at1", session.Account())
	assert.Equal(t, "at1", cred.AccessToken)
	assert.Equal(t, "as1", cred.AccessSecret)
	assert.Empty(t, cred.RequestToken)

	stored, err := store.Get(context.Background(), "at1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.HasAccess())
	assert.Empty(t, stored.RequestToken)
	assert.Empty(t, stored.RequestSecret)

	provider.AssertExpectations(t)
}

func TestSession_HandshakeTokenMismatch(t *testing.T) {
	provider := new(MockProvider)
	store := newMemoryStore()
	session := beginHandshake(t, provider, store)

	_, err := session.CompleteHandshake(context.Background(), Callback{Token: "other", Verifier: "v1"})

	assert.ErrorIs(t, err, ErrTokenMismatch)
	assert.ErrorIs(t, err, apperrors.ErrAuthProtocol)
	assert.Equal(t, StateUnauthenticated, session.State())
	assert.Empty(t, store.creds)
	provider.AssertNotCalled(t, "AccessToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_HandshakeDenied(t *testing.T) {
	provider := new(MockProvider)
	store := newMemoryStore()
	session := beginHandshake(t, provider, store)

	_, err := session.CompleteHandshake(context.Background(), Callback{Denied: "rt1"})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, StateUnauthenticated, session.State())
	assert.Empty(t, store.creds)
}

func TestSession_VerifierRejected(t *testing.T) {
	provider := new(MockProvider)
	store := newMemoryStore()
	session := beginHandshake(t, provider, store)

	provider.On("AccessToken", mock.Anything, "rt1", "rs1", "bad").
		Return("", "", classifyProviderError(errors.New("oauth1: invalid status 401: Invalid verifier")))

	_, err := session.CompleteHandshake(context.Background(), Callback{Token: "rt1", Verifier: "bad"})

	assert.ErrorIs(t, err, apperrors.ErrAuth)
	assert.Equal(t, StateUnauthenticated, session.State())
	assert.Empty(t, store.creds)
}

func TestSession_NetworkFailureKeepsHandshakeOpen(t *testing.T) {
	provider := new(MockProvider)
	store := newMemoryStore()
	session := beginHandshake(t, provider, store)

	provider.On("AccessToken", mock.Anything, "rt1", "rs1", "v1").
		Return("", "", classifyProviderError(errors.New("oauth1: invalid status 503: unavailable"))).Once()

	_, err := session.CompleteHandshake(context.Background(), Callback{Token: "rt1", Verifier: "v1"})
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
	assert.Equal(t, StateAwaitingVerifier, session.State())

	// the same callback succeeds on retry
	provider.On("AccessToken", mock.Anything, "rt1", "rs1", "v1").Return("at1", "as1", nil).Once()

	_, err = session.CompleteHandshake(context.Background(), Callback{Token: "rt1", Verifier: "v1"})
	require.NoError(t, err)
	assert.Equal(t, StateAuthorized, session.State())
}

func TestSession_MissingVerifierKeepsHandshakeOpen(t *testing.T) {
	provider := new(MockProvider)
	session := beginHandshake(t, provider, newMemoryStore())

	_, err := session.CompleteHandshake(context.Background(), Callback{Token: "rt1"})

	assert.ErrorIs(t, err, apperrors.ErrAuthProtocol)
	assert.Equal(t, StateAwaitingVerifier, session.State())
}

func TestSession_StoreFailureResets(t *testing.T) {
	provider := new(MockProvider)
	store := newMemoryStore()
	store.putErr = errors.New("db down")
	session := beginHandshake(t, provider, store)

	provider.On("AccessToken", mock.Anything, "rt1", "rs1", "v1").Return("at1", "as1", nil)

	_, err := session.CompleteHandshake(context.Background(), Callback{Token: "rt1", Verifier: "v1"})

	assert.Error(t, err)
	assert.Equal(t, StateUnauthenticated, session.State())
}

func TestSession_CompleteWithoutBegin(t *testing.T) {
	session := NewSession(new(MockProvider), newMemoryStore(), nil)

	_, err := session.CompleteHandshake(context.Background(), Callback{Token: "rt1", Verifier: "v1"})

	assert.ErrorIs(t, err, apperrors.ErrAuthProtocol)
	assert.Equal(t, StateUnauthenticated, session.State())
}

func TestSession_BeginHandshakeErrors(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		secret      string
		providerErr error
		expectedErr error
	}{
		{
			name:        "сетевая ошибка",
			providerErr: classifyProviderError(errors.New("oauth1: invalid status 500: oops")),
			expectedErr: apperrors.ErrNetwork,
		},
		{
			name:        "ответ без секрета",
			token:       "rt1",
			expectedErr: apperrors.ErrAuthProtocol,
		},
		{
			name:        "неверные ключи consumer",
			providerErr: classifyProviderError(errors.New("oauth1: invalid status 401: bad consumer")),
			expectedErr: apperrors.ErrAuth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockProvider)
			provider.On("RequestToken", mock.Anything, "cb").Return(tt.token, tt.secret, tt.providerErr)

			session := NewSession(provider, newMemoryStore(), nil)
			_, err := session.BeginHandshake(context.Background(), "cb")

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, StateUnauthenticated, session.State())
		})
	}
}

func TestSession_SignRequiresAuthorization(t *testing.T) {
	session := NewSession(new(MockProvider), newMemoryStore(), nil)
	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/1.1/account/verify_credentials.json", nil)
	require.NoError(t, err)

	_, err = session.Sign(context.Background(), req)

	assert.ErrorIs(t, err, apperrors.ErrSigning)
}

func TestSession_EnsureAuthorized(t *testing.T) {
	store := newMemoryStore()
	session := NewSession(new(MockProvider), store, nil)

	err := session.EnsureAuthorized(context.Background(), "at1")
	assert.ErrorIs(t, err, apperrors.ErrAuthRequired)
	assert.Equal(t, StateUnauthenticated, session.State())

	store.creds["at1"] = models.Credential{Account: "at1", AccessToken: "at1", AccessSecret: "as1"}

	require.NoError(t, session.EnsureAuthorized(context.Background(), "at1"))
	assert.Equal(t, StateAuthorized, session.State())

	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/x", nil)
	require.NoError(t, err)
	signed, err := session.Sign(context.Background(), req)
	require.NoError(t, err)
	assert.Same(t, req, signed.Request)
	assert.NotNil(t, signed.Client)
}

func TestSession_RevokeKeepsStoredCredential(t *testing.T) {
	store := newMemoryStore()
	store.creds["at1"] = models.Credential{Account: "at1", AccessToken: "at1", AccessSecret: "as1"}
	session := NewSession(new(MockProvider), store, nil)
	require.NoError(t, session.EnsureAuthorized(context.Background(), "at1"))

	session.Revoke()

	assert.Equal(t, StateUnauthenticated, session.State())
	assert.Contains(t, store.creds, "at1")

	req, _ := http.NewRequest(http.MethodGet, "https://api.example.com/x", nil)
	_, err := session.Sign(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrSigning)
}

func TestSession_Logout(t *testing.T) {
	store := newMemoryStore()
	store.creds["at1"] = models.Credential{Account: "at1", AccessToken: "at1", AccessSecret: "as1"}
	session := NewSession(new(MockProvider), store, nil)
	require.NoError(t, session.EnsureAuthorized(context.Background(), "at1"))

	require.NoError(t, session.Logout(context.Background()))

	assert.Equal(t, StateUnauthenticated, session.State())
	assert.Empty(t, session.Account())
	assert.NotContains(t, store.creds, "at1")
	assert.Equal(t, []string{"at1"}, store.cleared)

	err := session.EnsureAuthorized(context.Background(), "at1")
	assert.ErrorIs(t, err, apperrors.ErrAuthRequired)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unauthenticated", StateUnauthenticated.String())
	assert.Equal(t, "awaiting_verifier", StateAwaitingVerifier.String())
	assert.Equal(t, "authorized", StateAuthorized.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func TestParseCallback(t *testing.T) {
	cb, err := ParseCallback("microblog://callback?oauth_token=rt1&oauth_verifier=v1")
	require.NoError(t, err)
	assert.Equal(t, Callback{Token: "rt1", Verifier: "v1"}, cb)

	cb, err = ParseCallback("microblog://callback?denied=rt1")
	require.NoError(t, err)
	assert.Equal(t, "rt1", cb.Denied)
	assert.Empty(t, cb.Token)

	_, err = ParseCallback("://bad")
	assert.ErrorIs(t, err, apperrors.ErrAuthProtocol)
}
