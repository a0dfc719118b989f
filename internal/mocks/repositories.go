package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/bonita-forward-api/internal/models"
	"github.com/google/uuid"
)

// MockProviderRepository is a mock implementation of ProviderRepository
type MockProviderRepository struct {
	Providers   map[string]*models.Provider
	InsertError error
	UpsertCalls int
}

func NewMockProviderRepository() *MockProviderRepository {
	return &MockProviderRepository{Providers: make(map[string]*models.Provider)}
}

func (m *MockProviderRepository) Create(ctx context.Context, p *models.Provider) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.NormalizedName = models.NormalizeName(p.Name)
	m.Providers[p.ID] = p
	return nil
}

func (m *MockProviderRepository) Update(ctx context.Context, p *models.Provider) error {
	p.NormalizedName = models.NormalizeName(p.Name)
	m.Providers[p.ID] = p
	return nil
}

func (m *MockProviderRepository) Upsert(ctx context.Context, p *models.Provider) (bool, error) {
	m.UpsertCalls++
	if m.InsertError != nil {
		return false, m.InsertError
	}
	p.NormalizedName = models.NormalizeName(p.Name)
	for _, existing := range m.Providers {
		if existing.CategoryKey == p.CategoryKey && existing.NormalizedName == p.NormalizedName {
			p.ID = existing.ID
			m.Providers[existing.ID] = p
			return false, nil
		}
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	m.Providers[p.ID] = p
	return true, nil
}

func (m *MockProviderRepository) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	return m.Providers[id], nil
}

func (m *MockProviderRepository) ListByCategory(ctx context.Context, categoryKey string, publishedOnly bool) ([]models.Provider, error) {
	var providers []models.Provider
	for _, p := range m.Providers {
		if p.CategoryKey != categoryKey {
			continue
		}
		if publishedOnly && !p.Published {
			continue
		}
		providers = append(providers, *p)
	}
	sort.Slice(providers, func(i, j int) bool {
		if providers[i].Rating != providers[j].Rating {
			return providers[i].Rating > providers[j].Rating
		}
		return providers[i].Name < providers[j].Name
	})
	return providers, nil
}

func (m *MockProviderRepository) SetPublished(ctx context.Context, id string, published bool) error {
	if p, ok := m.Providers[id]; ok {
		p.Published = published
	}
	return nil
}

func (m *MockProviderRepository) Delete(ctx context.Context, id string) error {
	delete(m.Providers, id)
	return nil
}

func (m *MockProviderRepository) Count(ctx context.Context) (int, error) {
	return len(m.Providers), nil
}

func (m *MockProviderRepository) StreamAll(ctx context.Context, callback func(*models.Provider) error) error {
	ids := make([]string, 0, len(m.Providers))
	for id := range m.Providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := callback(m.Providers[id]); err != nil {
			return err
		}
	}
	return nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	Categories map[string]*models.Category
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make(map[string]*models.Category)}
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	for _, c := range m.Categories {
		categories = append(categories, *c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].SortOrder != categories[j].SortOrder {
			return categories[i].SortOrder < categories[j].SortOrder
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (m *MockCategoryRepository) Get(ctx context.Context, key string) (*models.Category, error) {
	return m.Categories[key], nil
}

func (m *MockCategoryRepository) Upsert(ctx context.Context, c *models.Category) error {
	m.Categories[c.Key] = c
	return nil
}

// MockEventRepository is a mock implementation of EventRepository. The
// upsert reproduces the image-preserving COALESCE so sync behavior can be
// tested without a database.
type MockEventRepository struct {
	Events      map[string]*models.CalendarEvent // by ID
	Votes       map[string]bool                  // (eventID|profileID) -> is_upvote
	InsertError error
	UpsertCalls int
}

func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{
		Events: make(map[string]*models.CalendarEvent),
		Votes:  make(map[string]bool),
	}
}

func (m *MockEventRepository) Create(ctx context.Context, ev *models.CalendarEvent) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Source == "" {
		ev.Source = models.EventSourceCommunity
	}
	ev.CreatedAt = time.Now()
	ev.UpdatedAt = ev.CreatedAt
	m.Events[ev.ID] = ev
	return nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*models.CalendarEvent, error) {
	return m.Events[id], nil
}

func (m *MockEventRepository) GetBySourceKey(source, externalID string) *models.CalendarEvent {
	for _, ev := range m.Events {
		if ev.Source == source && ev.ExternalID == externalID {
			return ev
		}
	}
	return nil
}

func (m *MockEventRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.CalendarEvent, error) {
	var evs []models.CalendarEvent
	for _, ev := range m.Events {
		if !ev.StartsAt.Before(from) {
			evs = append(evs, *ev)
		}
	}
	sort.Slice(evs, func(i, j int) bool {
		if !evs[i].StartsAt.Equal(evs[j].StartsAt) {
			return evs[i].StartsAt.Before(evs[j].StartsAt)
		}
		return evs[i].Title < evs[j].Title
	})
	if len(evs) > limit {
		evs = evs[:limit]
	}
	return evs, nil
}

func (m *MockEventRepository) UpsertBySourceKey(ctx context.Context, ev *models.CalendarEvent) (bool, error) {
	m.UpsertCalls++
	if m.InsertError != nil {
		return false, m.InsertError
	}

	if existing := m.GetBySourceKey(ev.Source, ev.ExternalID); existing != nil {
		existing.Title = ev.Title
		existing.Description = ev.Description
		existing.StartsAt = ev.StartsAt
		existing.EndsAt = ev.EndsAt
		existing.Location = ev.Location
		existing.CategoryKey = ev.CategoryKey
		// COALESCE: incoming image wins only when present
		if ev.ImageURL != nil {
			existing.ImageURL = ev.ImageURL
		}
		if ev.ImageType != nil {
			existing.ImageType = ev.ImageType
		}
		existing.UpdatedAt = time.Now()
		ev.ID = existing.ID
		return false, nil
	}

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	ev.CreatedAt = time.Now()
	ev.UpdatedAt = ev.CreatedAt
	m.Events[ev.ID] = ev
	return true, nil
}

func (m *MockEventRepository) PruneStale(ctx context.Context, source string, keep []string) (int, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}
	pruned := 0
	for id, ev := range m.Events {
		if ev.Source == source && !keepSet[ev.ExternalID] {
			delete(m.Events, id)
			pruned++
		}
	}
	return pruned, nil
}

func (m *MockEventRepository) ListMissingImages(ctx context.Context, limit int) ([]models.CalendarEvent, error) {
	var evs []models.CalendarEvent
	for _, ev := range m.Events {
		if ev.ImageURL == nil {
			evs = append(evs, *ev)
		}
	}
	sort.Slice(evs, func(i, j int) bool { return evs[i].StartsAt.Before(evs[j].StartsAt) })
	if len(evs) > limit {
		evs = evs[:limit]
	}
	return evs, nil
}

func (m *MockEventRepository) SetImage(ctx context.Context, id, url string) error {
	if ev, ok := m.Events[id]; ok {
		imageType := models.ImageTypeStored
		ev.ImageURL = &url
		ev.ImageType = &imageType
	}
	return nil
}

func (m *MockEventRepository) Vote(ctx context.Context, eventID, profileID string, up bool) error {
	m.Votes[eventID+"|"+profileID] = up

	ev, ok := m.Events[eventID]
	if !ok {
		return nil
	}
	ev.Upvotes = 0
	ev.Downvotes = 0
	for key, isUp := range m.Votes {
		if len(key) > len(eventID) && key[:len(eventID)] == eventID {
			if isUp {
				ev.Upvotes++
			} else {
				ev.Downvotes++
			}
		}
	}
	return nil
}

func (m *MockEventRepository) Count(ctx context.Context) (int, error) {
	return len(m.Events), nil
}

// MockFunnelRepository is a mock implementation of FunnelRepository
type MockFunnelRepository struct {
	Responses map[string]*models.FunnelResponse // (profileID|categoryKey)
}

func NewMockFunnelRepository() *MockFunnelRepository {
	return &MockFunnelRepository{Responses: make(map[string]*models.FunnelResponse)}
}

func (m *MockFunnelRepository) Upsert(ctx context.Context, r *models.FunnelResponse) error {
	key := r.ProfileID + "|" + r.CategoryKey
	if existing, ok := m.Responses[key]; ok {
		existing.Answers = r.Answers
		existing.UpdatedAt = time.Now()
		return nil
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.Responses[key] = r
	return nil
}

func (m *MockFunnelRepository) GetByProfileAndCategory(ctx context.Context, profileID, categoryKey string) (*models.FunnelResponse, error) {
	return m.Responses[profileID+"|"+categoryKey], nil
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	Profiles map[string]*models.Profile // by ID
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{Profiles: make(map[string]*models.Profile)}
}

func (m *MockProfileRepository) GetByToken(ctx context.Context, token string) (*models.Profile, error) {
	for _, p := range m.Profiles {
		if p.APIToken == token {
			return p, nil
		}
	}
	return nil, nil
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return m.Profiles[id], nil
}

func (m *MockProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	for _, p := range m.Profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (m *MockProfileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	m.Profiles[p.ID] = p
	return nil
}

// MockApplicationRepository is a mock implementation of ApplicationRepository
type MockApplicationRepository struct {
	Applications map[string]*models.BusinessApplication
}

func NewMockApplicationRepository() *MockApplicationRepository {
	return &MockApplicationRepository{Applications: make(map[string]*models.BusinessApplication)}
}

func (m *MockApplicationRepository) Create(ctx context.Context, a *models.BusinessApplication) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = models.ApplicationStatusPending
	}
	a.CreatedAt = time.Now()
	m.Applications[a.ID] = a
	return nil
}

func (m *MockApplicationRepository) GetByID(ctx context.Context, id string) (*models.BusinessApplication, error) {
	return m.Applications[id], nil
}

func (m *MockApplicationRepository) List(ctx context.Context, status string) ([]models.BusinessApplication, error) {
	var apps []models.BusinessApplication
	for _, a := range m.Applications {
		if status == "" || a.Status == status {
			apps = append(apps, *a)
		}
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].CreatedAt.After(apps[j].CreatedAt) })
	return apps, nil
}

func (m *MockApplicationRepository) SetStatus(ctx context.Context, id, status, notes string) error {
	if a, ok := m.Applications[id]; ok {
		a.Status = status
		a.ReviewNotes = notes
		now := time.Now()
		a.ReviewedAt = &now
	}
	return nil
}

// MockBookingRepository is a mock implementation of BookingRepository
type MockBookingRepository struct {
	Bookings map[string]*models.Booking
}

func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{Bookings: make(map[string]*models.Booking)}
}

func (m *MockBookingRepository) Create(ctx context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = models.BookingStatusPending
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.Bookings[b.ID] = b
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return m.Bookings[id], nil
}

func (m *MockBookingRepository) ListByProfile(ctx context.Context, profileID string) ([]models.Booking, error) {
	var bookings []models.Booking
	for _, b := range m.Bookings {
		if b.ProfileID == profileID {
			bookings = append(bookings, *b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })
	return bookings, nil
}

func (m *MockBookingRepository) List(ctx context.Context, status string) ([]models.Booking, error) {
	var bookings []models.Booking
	for _, b := range m.Bookings {
		if status == "" || b.Status == status {
			bookings = append(bookings, *b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })
	return bookings, nil
}

func (m *MockBookingRepository) SetStatus(ctx context.Context, id, status string) error {
	if b, ok := m.Bookings[id]; ok {
		b.Status = status
		b.UpdatedAt = time.Now()
	}
	return nil
}
