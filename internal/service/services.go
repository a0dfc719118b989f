package service

import (
	"context"
	"io"
	"time"

	"github.com/bonita-forward-api/internal/config"
	"github.com/bonita-forward-api/internal/events"
	"github.com/bonita-forward-api/internal/images"
	"github.com/bonita-forward-api/internal/matching"
	"github.com/bonita-forward-api/internal/models"
	"github.com/bonita-forward-api/internal/repository"
	"github.com/bonita-forward-api/internal/validation"
	"github.com/rs/zerolog"
)

// DirectoryService defines the interface for category/provider/funnel operations
type DirectoryService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListProviders(ctx context.Context, categoryKey string, includeUnpublished bool) ([]models.Provider, error)
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	// Match ranks the published providers of a category for a funnel
	// answer set.
	Match(ctx context.Context, categoryKey string, answers map[string]string) ([]matching.Match, error)
	SaveFunnelResponse(ctx context.Context, profileID, categoryKey string, answers map[string]string) error
	CreateProvider(ctx context.Context, p *models.Provider) error
	UpdateProvider(ctx context.Context, p *models.Provider) error
	SetPublished(ctx context.Context, id string, published bool) error
	DeleteProvider(ctx context.Context, id string) error
	StreamProviders(ctx context.Context, callback func(*models.Provider) error) error
	Counts(ctx context.Context) (providers int, eventsCount int, err error)
}

// EventView is a calendar event with its resolved display image
type EventView struct {
	models.CalendarEvent
	Image images.Resolved `json:"image"`
}

// EventService defines the interface for calendar-event operations
type EventService interface {
	ListUpcoming(ctx context.Context, limit int) ([]EventView, error)
	Submit(ctx context.Context, sub *models.EventSubmission) (*models.CalendarEvent, []validation.ValidationError, error)
	Vote(ctx context.Context, eventID, profileID string, up bool) error
	SyncAll(ctx context.Context) ([]models.SyncResult, error)
	SyncSource(ctx context.Context, name string) (*models.SyncResult, error)
	BackfillImages(ctx context.Context, limit int) (*models.BackfillResult, error)
	StartSyncLoop(ctx context.Context)
	StopSyncLoop()
}

// LeadService defines the interface for applications and bookings
type LeadService interface {
	SubmitApplication(ctx context.Context, a *models.BusinessApplication) ([]validation.ValidationError, error)
	ListApplications(ctx context.Context, status string) ([]models.BusinessApplication, error)
	// ReviewApplication records the decision; approval creates an
	// unpublished provider draft from the application.
	ReviewApplication(ctx context.Context, id, status, notes string) (*models.BusinessApplication, error)
	CreateBooking(ctx context.Context, b *models.Booking) error
	ListBookingsForProfile(ctx context.Context, profileID string) ([]models.Booking, error)
	ListBookings(ctx context.Context, status string) ([]models.Booking, error)
	SetBookingStatus(ctx context.Context, id, status string) error
}

// AuthService resolves session tokens to profiles and answers role checks
type AuthService interface {
	ResolveToken(ctx context.Context, token string) (*models.Profile, error)
	IsAdmin(p *models.Profile) bool
}

// SeedResult summarizes one provider seed run
type SeedResult struct {
	Total   int                          `json:"total"`
	Created int                          `json:"created"`
	Updated int                          `json:"updated"`
	Failed  int                          `json:"failed"`
	Errors  []validation.ValidationError `json:"errors,omitempty"`
}

// SeedService defines the interface for directory seeding
type SeedService interface {
	SeedProviders(ctx context.Context, r io.Reader) (*SeedResult, error)
	SeedCategories(ctx context.Context) error
}

// Services holds all service interfaces
type Services struct {
	Directory DirectoryService
	Events    EventService
	Leads     LeadService
	Auth      AuthService
	Seed      SeedService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	var sources []events.Source
	if cfg.Sync.LibraryURL != "" {
		sources = append(sources, events.NewLibrarySource(cfg.Sync.LibraryURL, cfg.Sync.FetchTimeout, log))
	}
	if cfg.Sync.CityFeedURL != "" {
		sources = append(sources, events.NewFeedSource(cfg.Sync.CityFeedURL, cfg.Sync.FetchTimeout, log))
	}

	search := images.NewSearchClient(cfg.Images.SearchEndpoint, cfg.Images.SearchAPIKey, cfg.Images.SearchTimeout, log)
	var store images.Store
	if bucket := images.NewBucketStore(cfg.Images.StorageEndpoint, cfg.Images.StorageBucket, cfg.Images.StorageAPIKey, 30*time.Second, log); bucket != nil {
		store = bucket
	}

	return &Services{
		Directory: newDirectoryService(repos, log),
		Events:    newEventService(repos, sources, search, store, cfg, log),
		Leads:     newLeadService(repos, log),
		Auth:      newAuthService(repos.Profile, &cfg.Admin),
		Seed:      newSeedService(repos, log),
	}
}
