package repository

import (
	"context"
	"microblogSync/internal/models"
	"microblogSync/internal/security"

	"github.com/jmoiron/sqlx"
)

// CredentialRepository is the durable credential store. Get returns nil, nil
// when the account has no credential.
type CredentialRepository interface {
	Get(ctx context.Context, account string) (*models.Credential, error)
	Put(ctx context.Context, account string, cred *models.Credential) error
	Clear(ctx context.Context, account string) error
	ListAccounts(ctx context.Context) ([]string, error)
}

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *models.Profile) error
	Get(ctx context.Context, account string) (*models.Profile, error)
}

type TimelineRepository interface {
	Replace(ctx context.Context, account string, records []models.TimelineRecord) (int, error)
	List(ctx context.Context, account string, limit, offset int) ([]models.TimelineRecord, error)
	Count(ctx context.Context, account string) (int, error)
}

type PendingPostRepository interface {
	Create(ctx context.Context, post *models.PendingPost) error
	ListPending(ctx context.Context, account string) ([]models.PendingPost, error)
	MarkAttempt(ctx context.Context, postID string) error
	Delete(ctx context.Context, postID string) error
	CheckIdempotencyKey(ctx context.Context, account, idempotencyKey string) (bool, error)
}

type TablesRepository interface {
	CountRows(ctx context.Context) (*models.TableCounts, error)
}

type Repository struct {
	Credential CredentialRepository
	Profile    ProfileRepository
	Timeline   TimelineRepository
	Pending    PendingPostRepository
	Tables     TablesRepository
}

func NewRepository(db *sqlx.DB, sealer *security.Sealer) *Repository {
	return &Repository{
		Credential: NewCredentialRepository(db, sealer),
		Profile:    NewProfileRepository(db),
		Timeline:   NewTimelineRepository(db),
		Pending:    NewPendingPostRepository(db),
		Tables:     NewTablesRepository(db),
	}
}
