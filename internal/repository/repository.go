package repository

import (
	"context"
	"time"

	"github.com/bonita-forward-api/internal/database"
	"github.com/bonita-forward-api/internal/models"
)

// ProviderRepository defines the interface for provider data operations
type ProviderRepository interface {
	Create(ctx context.Context, p *models.Provider) error
	Update(ctx context.Context, p *models.Provider) error
	// Upsert inserts or updates on (category_key, normalized_name) and
	// reports whether a new row was created.
	Upsert(ctx context.Context, p *models.Provider) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	ListByCategory(ctx context.Context, categoryKey string, publishedOnly bool) ([]models.Provider, error)
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Provider) error) error
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, key string) (*models.Category, error)
	Upsert(ctx context.Context, c *models.Category) error
}

// EventRepository defines the interface for calendar-event data operations
type EventRepository interface {
	Create(ctx context.Context, ev *models.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*models.CalendarEvent, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.CalendarEvent, error)
	// UpsertBySourceKey inserts or updates on (source, external_id),
	// preserving stored image columns when the incoming event has none.
	// Reports whether a new row was created.
	UpsertBySourceKey(ctx context.Context, ev *models.CalendarEvent) (bool, error)
	// PruneStale deletes rows for the source whose external_id is not in
	// keep, returning the number removed.
	PruneStale(ctx context.Context, source string, keep []string) (int, error)
	ListMissingImages(ctx context.Context, limit int) ([]models.CalendarEvent, error)
	SetImage(ctx context.Context, id, url string) error
	Vote(ctx context.Context, eventID, profileID string, up bool) error
	Count(ctx context.Context) (int, error)
}

// FunnelRepository defines the interface for funnel-response operations
type FunnelRepository interface {
	// Upsert inserts or replaces the response for (profile_id, category_key)
	Upsert(ctx context.Context, r *models.FunnelResponse) error
	GetByProfileAndCategory(ctx context.Context, profileID, categoryKey string) (*models.FunnelResponse, error)
}

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	GetByToken(ctx context.Context, token string) (*models.Profile, error)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
}

// ApplicationRepository defines the interface for business applications
type ApplicationRepository interface {
	Create(ctx context.Context, a *models.BusinessApplication) error
	GetByID(ctx context.Context, id string) (*models.BusinessApplication, error)
	List(ctx context.Context, status string) ([]models.BusinessApplication, error)
	SetStatus(ctx context.Context, id, status, notes string) error
}

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByProfile(ctx context.Context, profileID string) ([]models.Booking, error)
	List(ctx context.Context, status string) ([]models.Booking, error)
	SetStatus(ctx context.Context, id, status string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Provider    ProviderRepository
	Category    CategoryRepository
	Event       EventRepository
	Funnel      FunnelRepository
	Profile     ProfileRepository
	Application ApplicationRepository
	Booking     BookingRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Provider:    NewProviderRepo(db),
		Category:    NewCategoryRepo(db),
		Event:       NewEventRepo(db),
		Funnel:      NewFunnelRepo(db),
		Profile:     NewProfileRepo(db),
		Application: NewApplicationRepo(db),
		Booking:     NewBookingRepo(db),
	}
}
