package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"microblogSync/internal/models"
	"microblogSync/internal/oauth"
)

type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Get(ctx context.Context, account string) (*models.Credential, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}

func (m *MockCredentialRepository) Put(ctx context.Context, account string, cred *models.Credential) error {
	args := m.Called(ctx, account, cred)
	return args.Error(0)
}

func (m *MockCredentialRepository) Clear(ctx context.Context, account string) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockCredentialRepository) ListAccounts(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Get(ctx context.Context, account string) (*models.Profile, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

type MockTimelineRepository struct {
	mock.Mock
}

func (m *MockTimelineRepository) Replace(ctx context.Context, account string, records []models.TimelineRecord) (int, error) {
	args := m.Called(ctx, account, records)
	return args.Int(0), args.Error(1)
}

func (m *MockTimelineRepository) List(ctx context.Context, account string, limit, offset int) ([]models.TimelineRecord, error) {
	args := m.Called(ctx, account, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TimelineRecord), args.Error(1)
}

func (m *MockTimelineRepository) Count(ctx context.Context, account string) (int, error) {
	args := m.Called(ctx, account)
	return args.Int(0), args.Error(1)
}

type MockPendingPostRepository struct {
	mock.Mock
}

func (m *MockPendingPostRepository) Create(ctx context.Context, post *models.PendingPost) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPendingPostRepository) ListPending(ctx context.Context, account string) ([]models.PendingPost, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PendingPost), args.Error(1)
}

func (m *MockPendingPostRepository) MarkAttempt(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPendingPostRepository) Delete(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPendingPostRepository) CheckIdempotencyKey(ctx context.Context, account, idempotencyKey string) (bool, error) {
	args := m.Called(ctx, account, idempotencyKey)
	return args.Bool(0), args.Error(1)
}

type MockTablesRepository struct {
	mock.Mock
}

func (m *MockTablesRepository) CountRows(ctx context.Context) (*models.TableCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TableCounts), args.Error(1)
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) SaveResponse(ctx context.Context, account, phase, body string) (string, error) {
	args := m.Called(ctx, account, phase, body)
	return args.String(0), args.Error(1)
}

type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) RunSyncPass(ctx context.Context, account string) (*models.SyncReport, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SyncReport), args.Error(1)
}

// fakeAuth is an Authenticator that signs every request once authorized.
type fakeAuth struct {
	mu        sync.Mutex
	ensureErr error
	signErr   error
	revoked   int
}

func (a *fakeAuth) EnsureAuthorized(ctx context.Context, account string) error {
	return a.ensureErr
}

func (a *fakeAuth) Sign(ctx context.Context, req *http.Request) (*oauth.SignedRequest, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.signErr != nil {
		return nil, a.signErr
	}
	return &oauth.SignedRequest{Request: req, Client: http.DefaultClient}, nil
}

func (a *fakeAuth) Revoke() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.revoked++
}

type fakeSessions struct {
	auth Authenticator
}

func (f fakeSessions) Authenticator(account string) Authenticator {
	return f.auth
}

type fakeResponse struct {
	body string
	err  error
}

// fakeTransport answers by URL path; each path holds a queue of responses and
// the last one repeats.
type fakeTransport struct {
	mu        sync.Mutex
	responses map[string][]fakeResponse
	requests  []*http.Request
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{responses: map[string][]fakeResponse{}}
}

func (f *fakeTransport) on(path, body string, err error) *fakeTransport {
	f.responses[path] = append(f.responses[path], fakeResponse{body: body, err: err})
	return f
}

func (f *fakeTransport) Execute(ctx context.Context, sr *oauth.SignedRequest, timeout time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, sr.Request)

	queue := f.responses[sr.Request.URL.Path]
	if len(queue) == 0 {
		return "", nil
	}
	resp := queue[0]
	if len(queue) > 1 {
		f.responses[sr.Request.URL.Path] = queue[1:]
	}
	return resp.body, resp.err
}

func (f *fakeTransport) requestsTo(path string) []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*http.Request
	for _, r := range f.requests {
		if r.URL.Path == path {
			out = append(out, r)
		}
	}
	return out
}

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
	return http.DefaultClient
}
