package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"microblogSync/internal/models"
	"microblogSync/internal/security"
	"time"

	"github.com/jmoiron/sqlx"
)

type credentialRepository struct {
	db     *sqlx.DB
	sealer *security.Sealer
}

func NewCredentialRepository(db *sqlx.DB, sealer *security.Sealer) CredentialRepository {
	return &credentialRepository{db: db, sealer: sealer}
}

func (r *credentialRepository) Get(ctx context.Context, account string) (*models.Credential, error) {
	query := `SELECT account, access_token, access_secret, created_at, updated_at FROM credentials WHERE account = $1`

	var cred models.Credential
	err := r.db.GetContext(ctx, &cred, query, account)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении учетных данных: %w", err)
	}

	secret, err := r.sealer.Open(cred.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("ошибка при расшифровке учетных данных: %w", err)
	}
	cred.AccessSecret = secret

	return &cred, nil
}

// Put stores only the access pair; request token fields are dropped here.
func (r *credentialRepository) Put(ctx context.Context, account string, cred *models.Credential) error {
	if !cred.HasAccess() {
		return errors.New("нельзя сохранить учетные данные без access token")
	}

	sealed, err := r.sealer.Seal(cred.AccessSecret)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO credentials (account, access_token, access_secret, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (account) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			access_secret = EXCLUDED.access_secret,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query, account, cred.AccessToken, sealed, now)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении учетных данных: %w", err)
	}

	cred.Account = account
	cred.UpdatedAt = now
	return nil
}

// Clear removes the credential; mirrored data goes with it through ON DELETE CASCADE.
func (r *credentialRepository) Clear(ctx context.Context, account string) error {
	query := `DELETE FROM credentials WHERE account = $1`

	_, err := r.db.ExecContext(ctx, query, account)
	if err != nil {
		return fmt.Errorf("ошибка при удалении учетных данных: %w", err)
	}

	return nil
}

func (r *credentialRepository) ListAccounts(ctx context.Context) ([]string, error) {
	query := `SELECT account FROM credentials ORDER BY created_at`

	accounts := []string{}
	err := r.db.SelectContext(ctx, &accounts, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка аккаунтов: %w", err)
	}

	return accounts, nil
}
