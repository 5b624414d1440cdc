package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"microblogSync/internal/apperrors"
	"microblogSync/internal/models"

	"github.com/jmoiron/sqlx"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Upsert replaces the account's profile in one statement, so a reader sees
// either the old row or the new one.
func (r *profileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (account, user_name, screen_name, remote_id, user_created_at, status_text, last_updated)
		VALUES (:account, :user_name, :screen_name, :remote_id, :user_created_at, :status_text, :last_updated)
		ON CONFLICT (account) DO UPDATE SET
			user_name = EXCLUDED.user_name,
			screen_name = EXCLUDED.screen_name,
			remote_id = EXCLUDED.remote_id,
			user_created_at = EXCLUDED.user_created_at,
			status_text = EXCLUDED.status_text,
			last_updated = EXCLUDED.last_updated
	`

	_, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении профиля: %w", err)
	}

	return nil
}

func (r *profileRepository) Get(ctx context.Context, account string) (*models.Profile, error) {
	query := `SELECT * FROM profiles WHERE account = $1`

	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, query, account)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("профиль %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении профиля: %w", err)
	}

	return &profile, nil
}
