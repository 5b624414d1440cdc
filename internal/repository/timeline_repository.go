package repository

import (
	"context"
	"fmt"
	"microblogSync/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// DefaultSortOrder surfaces the newest posts first.
const DefaultSortOrder = "user_created_at DESC, created_at DESC"

type timelineRepository struct {
	db *sqlx.DB
}

func NewTimelineRepository(db *sqlx.DB) TimelineRepository {
	return &timelineRepository{db: db}
}

// Replace discards the account's cached window and inserts records in one
// transaction. It returns the number of rows the insert reported.
func (r *timelineRepository) Replace(ctx context.Context, account string, records []models.TimelineRecord) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM timeline_records WHERE account = $1`, account); err != nil {
		return 0, fmt.Errorf("ошибка при очистке ленты: %w", err)
	}

	inserted := 0
	if len(records) > 0 {
		now := time.Now()
		for i := range records {
			records[i].Account = account
			if records[i].RecordID == "" {
				records[i].RecordID = uuid.New().String()
			}
			if records[i].CreatedAt.IsZero() {
				records[i].CreatedAt = now
			}
		}

		query := `
			INSERT INTO timeline_records (record_id, account, user_name, remote_id, user_created_at, text, created_at)
			VALUES (:record_id, :account, :user_name, :remote_id, :user_created_at, :text, :created_at)
		`

		result, err := tx.NamedExecContext(ctx, query, records)
		if err != nil {
			return 0, fmt.Errorf("ошибка при вставке ленты: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("ошибка при проверке вставленных строк: %w", err)
		}
		inserted = int(rowsAffected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return inserted, nil
}

func (r *timelineRepository) List(ctx context.Context, account string, limit, offset int) ([]models.TimelineRecord, error) {
	query := `SELECT * FROM timeline_records WHERE account = $1 ORDER BY ` + DefaultSortOrder + ` LIMIT $2 OFFSET $3`

	records := []models.TimelineRecord{}
	err := r.db.SelectContext(ctx, &records, query, account, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении ленты: %w", err)
	}

	return records, nil
}

func (r *timelineRepository) Count(ctx context.Context, account string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM timeline_records WHERE account = $1`, account)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчете записей ленты: %w", err)
	}

	return count, nil
}
