package repository

import (
	"context"
	"fmt"
	"microblogSync/internal/models"

	"github.com/jmoiron/sqlx"
)

type tablesRepository struct {
	db *sqlx.DB
}

func NewTablesRepository(db *sqlx.DB) TablesRepository {
	return &tablesRepository{db: db}
}

// CountRows counts the rows of every sync table in one statement; used by the diagnostics endpoint.
func (r *tablesRepository) CountRows(ctx context.Context) (*models.TableCounts, error) {
	var counts models.TableCounts

	err := r.db.GetContext(ctx, &counts, `
			SELECT
				(SELECT COUNT(*) FROM credentials)      AS credentials,
				(SELECT COUNT(*) FROM profiles)         AS profiles,
				(SELECT COUNT(*) FROM timeline_records) AS timeline_records,
				(SELECT COUNT(*) FROM pending_posts)    AS pending_posts
		`)

	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте строк таблиц синхронизации: %w", err)
	}

	return &counts, nil
}
