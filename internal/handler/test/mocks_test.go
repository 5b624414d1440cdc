package test

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"microblogSync/internal/models"
	"microblogSync/internal/oauth"
	"microblogSync/internal/service"
)

type MockOAuthService struct {
	mock.Mock
}

func (m *MockOAuthService) Begin(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockOAuthService) Complete(ctx context.Context, cb oauth.Callback) (*models.Credential, error) {
	args := m.Called(ctx, cb)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}

func (m *MockOAuthService) Authenticator(account string) service.Authenticator {
	args := m.Called(account)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(service.Authenticator)
}

func (m *MockOAuthService) Logout(ctx context.Context, account string) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) IssueToken(account string) (string, error) {
	args := m.Called(account)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*jwt.Token, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.Token), args.Error(1)
}

func (m *MockAuthService) GetAccountFromToken(tokenString string) (string, error) {
	args := m.Called(tokenString)
	return args.String(0), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) Compose(ctx context.Context, req service.ComposeRequest) (*models.PendingPost, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingPost), args.Error(1)
}

func (m *MockPostService) ListPending(ctx context.Context, account string) ([]models.PendingPost, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PendingPost), args.Error(1)
}

type MockTimelineService struct {
	mock.Mock
}

func (m *MockTimelineService) GetProfile(ctx context.Context, account string) (*models.Profile, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockTimelineService) GetTimeline(ctx context.Context, account string, page, limit int) ([]models.TimelineRecord, int, error) {
	args := m.Called(ctx, account, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.TimelineRecord), args.Int(1), args.Error(2)
}

type MockTablesService struct {
	mock.Mock
}

func (m *MockTablesService) GetTableCounts(ctx context.Context) (*models.TableCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TableCounts), args.Error(1)
}

type MockPassSubmitter struct {
	mock.Mock
}

func (m *MockPassSubmitter) Submit(ctx context.Context, account string) <-chan service.PassResult {
	args := m.Called(ctx, account)
	results := make(chan service.PassResult, 1)
	results <- args.Get(0).(service.PassResult)
	close(results)
	return results
}
