package repository

import (
	"context"
	"errors"
	"fmt"
	"microblogSync/internal/apperrors"
	"microblogSync/internal/models"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// foreignKeyViolation is the Postgres code for a post whose account has no credential.
const foreignKeyViolation = "23503"

type pendingPostRepository struct {
	db *sqlx.DB
}

func NewPendingPostRepository(db *sqlx.DB) PendingPostRepository {
	return &pendingPostRepository{db: db}
}

func (r *pendingPostRepository) Create(ctx context.Context, post *models.PendingPost) error {
	query := `
		INSERT INTO pending_posts (post_id, account, idempotency_key, text, attempts, created_at)
		VALUES (:post_id, :account, :idempotency_key, :text, :attempts, :created_at)
	`

	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}
	if post.IdempotencyKey == "" {
		post.IdempotencyKey = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	_, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value") &&
			strings.Contains(err.Error(), "idempotency_key") {
			return fmt.Errorf("%w: %v", apperrors.ErrIdempotencyConflict, err)
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return fmt.Errorf("%w: аккаунт %s не авторизован", apperrors.ErrAuthRequired, post.Account)
		}
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	return nil
}

// ListPending returns the queue in upload order, oldest first.
func (r *pendingPostRepository) ListPending(ctx context.Context, account string) ([]models.PendingPost, error) {
	query := `SELECT * FROM pending_posts WHERE account = $1 ORDER BY created_at ASC, post_id ASC`

	posts := []models.PendingPost{}
	err := r.db.SelectContext(ctx, &posts, query, account)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении очереди постов: %w", err)
	}

	return posts, nil
}

func (r *pendingPostRepository) MarkAttempt(ctx context.Context, postID string) error {
	query := `UPDATE pending_posts SET attempts = attempts + 1, last_attempt_at = $2 WHERE post_id = $1`

	result, err := r.db.ExecContext(ctx, query, postID, time.Now())
	if err != nil {
		return fmt.Errorf("ошибка при отметке попытки отправки: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост %s %w", postID, apperrors.ErrNotFound)
	}

	return nil
}

func (r *pendingPostRepository) Delete(ctx context.Context, postID string) error {
	query := `DELETE FROM pending_posts WHERE post_id = $1`

	result, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост %s %w", postID, apperrors.ErrNotFound)
	}

	return nil
}

func (r *pendingPostRepository) CheckIdempotencyKey(ctx context.Context, account, idempotencyKey string) (bool, error) {
	if idempotencyKey == "" {
		return true, nil
	}

	query := `
		SELECT COUNT(*) FROM pending_posts
		WHERE account = $1 AND idempotency_key = $2
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, account, idempotencyKey)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке idempotency key: %w", err)
	}

	return count == 0, nil
}
