package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bonita-forward-api/internal/config"
	"github.com/bonita-forward-api/internal/events"
	"github.com/bonita-forward-api/internal/images"
	"github.com/bonita-forward-api/internal/models"
	"github.com/bonita-forward-api/internal/repository"
	"github.com/bonita-forward-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// eventService is the concrete implementation of EventService
type eventService struct {
	repos     *repository.Repositories
	sources   []events.Source
	search    *images.SearchClient
	store     images.Store
	validator *validation.Validator
	cfg       *config.Config
	log       zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	running bool
	mu      sync.Mutex
}

// newEventService creates a new EventService
func newEventService(repos *repository.Repositories, sources []events.Source, search *images.SearchClient, store images.Store, cfg *config.Config, log zerolog.Logger) *eventService {
	return &eventService{
		repos:     repos,
		sources:   sources,
		search:    search,
		store:     store,
		validator: validation.NewValidator(),
		cfg:       cfg,
		log:       log.With().Str("service", "events").Logger(),
	}
}

// ListUpcoming retrieves upcoming events with their display image resolved
func (s *eventService) ListUpcoming(ctx context.Context, limit int) ([]EventView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	evs, err := s.repos.Event.ListUpcoming(ctx, time.Now(), limit)
	if err != nil {
		return nil, err
	}

	views := make([]EventView, 0, len(evs))
	for i := range evs {
		views = append(views, EventView{
			CalendarEvent: evs[i],
			Image:         images.Resolve(&evs[i]),
		})
	}
	return views, nil
}

// Submit validates and stores a user-submitted community event
func (s *eventService) Submit(ctx context.Context, sub *models.EventSubmission) (*models.CalendarEvent, []validation.ValidationError, error) {
	if errs := s.validator.ValidateEventSubmission(sub); len(errs) > 0 {
		return nil, errs, nil
	}

	startsAt, err := validation.ParseTimestamp(sub.StartsAt)
	if err != nil {
		return nil, nil, err
	}

	ev := &models.CalendarEvent{
		Title:       sub.Title,
		Description: sub.Description,
		StartsAt:    startsAt,
		Location:    sub.Location,
		CategoryKey: sub.CategoryKey,
		Source:      models.EventSourceCommunity,
		ExternalID:  uuid.New().String(),
	}
	if sub.EndsAt != "" {
		endsAt, err := validation.ParseTimestamp(sub.EndsAt)
		if err != nil {
			return nil, nil, err
		}
		ev.EndsAt = &endsAt
	}

	if err := s.repos.Event.Create(ctx, ev); err != nil {
		return nil, nil, err
	}
	s.log.Info().Str("event_id", ev.ID).Str("title", ev.Title).Msg("Community event submitted")
	return ev, nil, nil
}

// Vote records one profile's vote on an event
func (s *eventService) Vote(ctx context.Context, eventID, profileID string, up bool) error {
	ev, err := s.repos.Event.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if ev == nil {
		return fmt.Errorf("event not found: %s", eventID)
	}
	return s.repos.Event.Vote(ctx, eventID, profileID, up)
}

// SyncAll runs a sync for every configured source. Per-source failures are
// logged and counted, not fatal to the run.
func (s *eventService) SyncAll(ctx context.Context) ([]models.SyncResult, error) {
	results := make([]models.SyncResult, 0, len(s.sources))
	for _, src := range s.sources {
		result, err := s.syncOne(ctx, src)
		if err != nil {
			s.log.Error().Err(err).Str("source", src.Name()).Msg("Source sync failed")
			results = append(results, models.SyncResult{Source: src.Name(), Failed: 1})
			continue
		}
		results = append(results, *result)
	}
	return results, nil
}

// SyncSource runs a sync for one named source
func (s *eventService) SyncSource(ctx context.Context, name string) (*models.SyncResult, error) {
	for _, src := range s.sources {
		if src.Name() == name {
			return s.syncOne(ctx, src)
		}
	}
	return nil, fmt.Errorf("unknown sync source: %s", name)
}

// syncOne fetches a source and reconciles the table with it. Rows are
// upserted on (source, external_id) so attached images survive, then rows
// missing upstream are pruned. Re-running against unchanged source data is
// a no-op apart from updated_at.
func (s *eventService) syncOne(ctx context.Context, src events.Source) (*models.SyncResult, error) {
	result := &models.SyncResult{Source: src.Name()}

	fetched, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch from %s failed: %w", src.Name(), err)
	}
	result.Fetched = len(fetched)

	keep := make([]string, 0, len(fetched))
	for i := range fetched {
		ev := &fetched[i]
		keep = append(keep, ev.ExternalID)

		created, err := s.repos.Event.UpsertBySourceKey(ctx, ev)
		if err != nil {
			s.log.Error().Err(err).Str("external_id", ev.ExternalID).Msg("Event upsert failed")
			result.Failed++
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	pruned, err := s.repos.Event.PruneStale(ctx, src.Name(), keep)
	if err != nil {
		return nil, fmt.Errorf("prune for %s failed: %w", src.Name(), err)
	}
	result.Pruned = pruned

	s.log.Info().
		Str("source", result.Source).
		Int("fetched", result.Fetched).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("pruned", result.Pruned).
		Int("failed", result.Failed).
		Msg("Source sync completed")
	return result, nil
}

// BackfillImages attaches stored images to upcoming events that have none.
// Each candidate is searched, copied into owned storage, and persisted only
// if the resulting URL passes the persistence policy. Any failure leaves
// the event on its gradient fallback.
func (s *eventService) BackfillImages(ctx context.Context, limit int) (*models.BackfillResult, error) {
	result := &models.BackfillResult{}

	if s.search == nil || s.store == nil {
		return nil, fmt.Errorf("image search or storage is not configured")
	}
	if limit <= 0 {
		limit = 25
	}

	candidates, err := s.repos.Event.ListMissingImages(ctx, limit)
	if err != nil {
		return nil, err
	}
	result.Scanned = len(candidates)

	for i := range candidates {
		ev := &candidates[i]

		found, err := s.search.FindImageURL(ctx, ev.Title+" "+ev.CategoryKey)
		if err != nil {
			s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("Image search failed, keeping gradient")
			result.Failed++
			continue
		}
		if found == "" {
			result.Skipped++
			continue
		}

		objectKey := fmt.Sprintf("events/%s.jpg", ev.ID)
		stored, err := s.store.Upload(ctx, found, objectKey)
		if err != nil {
			s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("Image upload failed, keeping gradient")
			result.Failed++
			continue
		}

		if !images.CanPersistURL(stored, s.cfg.Images.StorageHost) {
			s.log.Warn().Str("event_id", ev.ID).Str("url", stored).Msg("Refusing to persist non-owned image URL")
			result.Skipped++
			continue
		}

		if err := s.repos.Event.SetImage(ctx, ev.ID, stored); err != nil {
			result.Failed++
			continue
		}
		result.Updated++
	}

	s.log.Info().
		Int("scanned", result.Scanned).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Image backfill completed")
	return result, nil
}

// StartSyncLoop runs periodic syncs until the context is cancelled or
// StopSyncLoop is called
func (s *eventService) StartSyncLoop(ctx context.Context) {
	s.mu.Lock()
	if s.running || len(s.sources) == 0 {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.log.Info().Dur("interval", s.cfg.Sync.Interval).Msg("Event sync loop started")

	// One pass at startup, then on the ticker
	if _, err := s.SyncAll(s.ctx); err != nil {
		s.log.Error().Err(err).Msg("Initial sync failed")
	}

	ticker := time.NewTicker(s.cfg.Sync.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("Event sync loop stopping")
			return
		case <-ticker.C:
			if _, err := s.SyncAll(s.ctx); err != nil {
				s.log.Error().Err(err).Msg("Scheduled sync failed")
			}
		}
	}
}

// StopSyncLoop stops the periodic sync
func (s *eventService) StopSyncLoop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.cancel()
	s.running = false
	s.log.Info().Msg("Event sync loop stopped")
}
