package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/odontoapp/clinic-api/internal/model"
	"github.com/odontoapp/clinic-api/internal/repository"
)

const (
	defaultCacheTTL     = 15 * time.Minute
	defaultCacheCleanup = 30 * time.Minute
)

// Service serves the clinical lookup catalogs (allergies, medications,
// diagnoses, antecedents). Catalogs change rarely, so reads go through
// an in-process cache.
type Service struct {
	repo  repository.CatalogRepository
	cache *cache.Cache
}

func NewService(repo repository.CatalogRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(defaultCacheTTL, defaultCacheCleanup),
	}
}

func (s *Service) List(ctx context.Context, kind model.CatalogKind) ([]*model.CatalogItem, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown catalog kind: %s", kind)
	}

	if cached, found := s.cache.Get(string(kind)); found {
		return cached.([]*model.CatalogItem), nil
	}

	items, err := s.repo.ListByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog %s: %w", kind, err)
	}

	s.cache.Set(string(kind), items, cache.DefaultExpiration)
	return items, nil
}

// Invalidate drops a catalog from the cache after an admin edit.
func (s *Service) Invalidate(kind model.CatalogKind) {
	s.cache.Delete(string(kind))
}
