package api

import (
	"net/http"
	"time"

	"github.com/bonita-forward-api/internal/models"
	"github.com/bonita-forward-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// LeadHandler handles application and booking endpoints
type LeadHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(services *service.Services, log zerolog.Logger) *LeadHandler {
	return &LeadHandler{
		services: services,
		log:      log.With().Str("handler", "leads").Logger(),
	}
}

// SubmitApplication handles POST /v1/applications
func (h *LeadHandler) SubmitApplication(c *gin.Context) {
	var app models.BusinessApplication
	if err := c.ShouldBindJSON(&app); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	validationErrors, err := h.services.Leads.SubmitApplication(c.Request.Context(), &app)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to submit application")
		respondError(c, http.StatusInternalServerError, "failed to submit application")
		return
	}
	if len(validationErrors) > 0 {
		respondValidation(c, http.StatusBadRequest, "validation failed", validationErrors)
		return
	}
	respondData(c, http.StatusCreated, app)
}

// bookingRequest is the body of POST /v1/bookings
type bookingRequest struct {
	ProviderID  string `json:"provider_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	RequestedAt string `json:"requested_at"`
	Notes       string `json:"notes"`
}

// CreateBooking handles POST /v1/bookings
func (h *LeadHandler) CreateBooking(c *gin.Context) {
	profile := currentProfile(c)

	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProviderID == "" {
		respondError(c, http.StatusBadRequest, "provider_id is required")
		return
	}

	requestedAt, err := time.Parse(time.RFC3339, req.RequestedAt)
	if err != nil {
		respondError(c, http.StatusBadRequest, "requested_at must be RFC 3339")
		return
	}

	booking := &models.Booking{
		ProviderID:  req.ProviderID,
		ProfileID:   profile.ID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		RequestedAt: requestedAt,
		Notes:       req.Notes,
	}
	if booking.Name == "" {
		booking.Name = profile.Name
	}
	if booking.Email == "" {
		booking.Email = profile.Email
	}

	if err := h.services.Leads.CreateBooking(c.Request.Context(), booking); err != nil {
		h.log.Error().Err(err).Str("provider_id", req.ProviderID).Msg("Failed to create booking")
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondData(c, http.StatusCreated, booking)
}

// ListOwnBookings handles GET /v1/bookings
func (h *LeadHandler) ListOwnBookings(c *gin.Context) {
	profile := currentProfile(c)

	bookings, err := h.services.Leads.ListBookingsForProfile(c.Request.Context(), profile.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list bookings")
		respondError(c, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	respondData(c, http.StatusOK, bookings)
}
