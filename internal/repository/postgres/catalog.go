package postgres

import (
	"context"
	"fmt"

	"github.com/odontoapp/clinic-api/internal/model"
	"github.com/odontoapp/clinic-api/internal/repository"
)

type catalogRepository struct {
	BaseRepository
}

func NewCatalogRepository(base BaseRepository) repository.CatalogRepository {
	return &catalogRepository{base}
}

func (r *catalogRepository) ListByKind(ctx context.Context, kind model.CatalogKind) ([]*model.CatalogItem, error) {
	var items []*model.CatalogItem
	query := `SELECT * FROM catalog_items WHERE kind = $1 AND active = TRUE ORDER BY nombre`
	if err := r.GetDB().SelectContext(ctx, &items, query, kind); err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	return items, nil
}
