package service

import (
	"context"
	"fmt"

	"github.com/bonita-forward-api/internal/matching"
	"github.com/bonita-forward-api/internal/models"
	"github.com/bonita-forward-api/internal/repository"
	"github.com/rs/zerolog"
)

// directoryService is the concrete implementation of DirectoryService
type directoryService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newDirectoryService creates a new DirectoryService
func newDirectoryService(repos *repository.Repositories, log zerolog.Logger) *directoryService {
	return &directoryService{
		repos: repos,
		log:   log.With().Str("service", "directory").Logger(),
	}
}

// ListCategories retrieves all categories
func (s *directoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repos.Category.List(ctx)
}

// ListProviders retrieves the providers of one category
func (s *directoryService) ListProviders(ctx context.Context, categoryKey string, includeUnpublished bool) ([]models.Provider, error) {
	return s.repos.Provider.ListByCategory(ctx, categoryKey, !includeUnpublished)
}

// GetProvider retrieves a provider by ID
func (s *directoryService) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	return s.repos.Provider.GetByID(ctx, id)
}

// Match ranks the published providers of a category for a funnel answer
// set. The ranking itself is pure; only the provider load touches the
// database, so equal inputs over unchanged data always produce the same
// order.
func (s *directoryService) Match(ctx context.Context, categoryKey string, answers map[string]string) ([]matching.Match, error) {
	cat, err := s.repos.Category.Get(ctx, categoryKey)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("unknown category: %s", categoryKey)
	}

	providers, err := s.repos.Provider.ListByCategory(ctx, categoryKey, true)
	if err != nil {
		return nil, err
	}

	return matching.Rank(providers, answers), nil
}

// SaveFunnelResponse upserts one profile's answers for a category
func (s *directoryService) SaveFunnelResponse(ctx context.Context, profileID, categoryKey string, answers map[string]string) error {
	return s.repos.Funnel.Upsert(ctx, &models.FunnelResponse{
		ProfileID:   profileID,
		CategoryKey: categoryKey,
		Answers:     answers,
	})
}

// CreateProvider creates a provider (admin)
func (s *directoryService) CreateProvider(ctx context.Context, p *models.Provider) error {
	if err := s.repos.Provider.Create(ctx, p); err != nil {
		return err
	}
	s.log.Info().Str("provider_id", p.ID).Str("category", p.CategoryKey).Msg("Provider created")
	return nil
}

// UpdateProvider updates a provider (admin)
func (s *directoryService) UpdateProvider(ctx context.Context, p *models.Provider) error {
	return s.repos.Provider.Update(ctx, p)
}

// SetPublished flips a provider's published flag (admin)
func (s *directoryService) SetPublished(ctx context.Context, id string, published bool) error {
	return s.repos.Provider.SetPublished(ctx, id, published)
}

// DeleteProvider removes a provider (admin)
func (s *directoryService) DeleteProvider(ctx context.Context, id string) error {
	return s.repos.Provider.Delete(ctx, id)
}

// StreamProviders streams all providers for admin export
func (s *directoryService) StreamProviders(ctx context.Context, callback func(*models.Provider) error) error {
	return s.repos.Provider.StreamAll(ctx, callback)
}

// Counts returns table sizes for the metrics endpoint
func (s *directoryService) Counts(ctx context.Context) (int, int, error) {
	providers, err := s.repos.Provider.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	eventsCount, err := s.repos.Event.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	return providers, eventsCount, nil
}
