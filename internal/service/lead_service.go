package service

import (
	"context"
	"fmt"

	"github.com/bonita-forward-api/internal/models"
	"github.com/bonita-forward-api/internal/repository"
	"github.com/bonita-forward-api/internal/validation"
	"github.com/rs/zerolog"
)

// leadService is the concrete implementation of LeadService
type leadService struct {
	repos     *repository.Repositories
	validator *validation.Validator
	log       zerolog.Logger
}

// newLeadService creates a new LeadService
func newLeadService(repos *repository.Repositories, log zerolog.Logger) *leadService {
	return &leadService{
		repos:     repos,
		validator: validation.NewValidator(),
		log:       log.With().Str("service", "leads").Logger(),
	}
}

// SubmitApplication validates and stores a business application
func (s *leadService) SubmitApplication(ctx context.Context, a *models.BusinessApplication) ([]validation.ValidationError, error) {
	if errs := s.validator.ValidateApplication(a); len(errs) > 0 {
		return errs, nil
	}

	if err := s.repos.Application.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info().Str("application_id", a.ID).Str("business", a.BusinessName).Msg("Business application submitted")
	return nil, nil
}

// ListApplications retrieves applications for admin review
func (s *leadService) ListApplications(ctx context.Context, status string) ([]models.BusinessApplication, error) {
	return s.repos.Application.List(ctx, status)
}

// ReviewApplication records an admin decision. Approval creates an
// unpublished provider draft from the application so the listing can be
// completed and published later.
func (s *leadService) ReviewApplication(ctx context.Context, id, status, notes string) (*models.BusinessApplication, error) {
	if status != models.ApplicationStatusApproved && status != models.ApplicationStatusRejected {
		return nil, fmt.Errorf("invalid review status: %s", status)
	}

	app, err := s.repos.Application.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, fmt.Errorf("application not found: %s", id)
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, fmt.Errorf("application %s already reviewed", id)
	}

	if err := s.repos.Application.SetStatus(ctx, id, status, notes); err != nil {
		return nil, err
	}
	app.Status = status
	app.ReviewNotes = notes

	if status == models.ApplicationStatusApproved {
		draft := &models.Provider{
			Name:        app.BusinessName,
			CategoryKey: app.CategoryKey,
			Email:       app.Email,
			Phone:       app.Phone,
			Published:   false,
		}
		if _, err := s.repos.Provider.Upsert(ctx, draft); err != nil {
			// The review decision stands; the draft can be recreated by hand
			s.log.Error().Err(err).Str("application_id", id).Msg("Failed to create provider draft")
		} else {
			s.log.Info().Str("application_id", id).Str("provider_id", draft.ID).Msg("Provider draft created from application")
		}
	}

	return app, nil
}

// CreateBooking stores a consultation request against a provider
func (s *leadService) CreateBooking(ctx context.Context, b *models.Booking) error {
	provider, err := s.repos.Provider.GetByID(ctx, b.ProviderID)
	if err != nil {
		return err
	}
	if provider == nil {
		return fmt.Errorf("provider not found: %s", b.ProviderID)
	}

	if err := s.repos.Booking.Create(ctx, b); err != nil {
		return err
	}
	s.log.Info().Str("booking_id", b.ID).Str("provider_id", b.ProviderID).Msg("Booking created")
	return nil
}

// ListBookingsForProfile retrieves one profile's bookings
func (s *leadService) ListBookingsForProfile(ctx context.Context, profileID string) ([]models.Booking, error) {
	return s.repos.Booking.ListByProfile(ctx, profileID)
}

// ListBookings retrieves bookings for admin management
func (s *leadService) ListBookings(ctx context.Context, status string) ([]models.Booking, error) {
	return s.repos.Booking.List(ctx, status)
}

// SetBookingStatus updates a booking's status
func (s *leadService) SetBookingStatus(ctx context.Context, id, status string) error {
	switch status {
	case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCancelled:
	default:
		return fmt.Errorf("invalid booking status: %s", status)
	}

	booking, err := s.repos.Booking.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return fmt.Errorf("booking not found: %s", id)
	}
	return s.repos.Booking.SetStatus(ctx, id, status)
}
