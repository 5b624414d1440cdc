package service

import (
	"context"

	"microblogSync/internal/models"
	"microblogSync/internal/repository"
)

type TablesService interface {
	GetTableCounts(ctx context.Context) (*models.TableCounts, error)
}

type tablesService struct {
	tablesRepo repository.TablesRepository
}

func NewTablesService(tablesRepo repository.TablesRepository) TablesService {
	return &tablesService{tablesRepo: tablesRepo}
}

func (t *tablesService) GetTableCounts(ctx context.Context) (*models.TableCounts, error) {
	return t.tablesRepo.CountRows(ctx)
}
