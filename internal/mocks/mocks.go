package mocks

import (
	"github.com/bonita-forward-api/internal/repository"
)

// Repos bundles all mock repositories for tests
type Repos struct {
	Provider    *MockProviderRepository
	Category    *MockCategoryRepository
	Event       *MockEventRepository
	Funnel      *MockFunnelRepository
	Profile     *MockProfileRepository
	Application *MockApplicationRepository
	Booking     *MockBookingRepository
}

// NewRepos creates a full set of mock repositories
func NewRepos() *Repos {
	return &Repos{
		Provider:    NewMockProviderRepository(),
		Category:    NewMockCategoryRepository(),
		Event:       NewMockEventRepository(),
		Funnel:      NewMockFunnelRepository(),
		Profile:     NewMockProfileRepository(),
		Application: NewMockApplicationRepository(),
		Booking:     NewMockBookingRepository(),
	}
}

// Repositories exposes the mocks through the repository aggregate
func (r *Repos) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Provider:    r.Provider,
		Category:    r.Category,
		Event:       r.Event,
		Funnel:      r.Funnel,
		Profile:     r.Profile,
		Application: r.Application,
		Booking:     r.Booking,
	}
}
