package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bonita-forward-api/internal/models"
	"github.com/bonita-forward-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminHandler handles admin-only endpoints
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// CreateProvider handles POST /v1/admin/providers
func (h *AdminHandler) CreateProvider(c *gin.Context) {
	var p models.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.Name == "" || p.CategoryKey == "" {
		respondError(c, http.StatusBadRequest, "name and category_key are required")
		return
	}

	if err := h.services.Directory.CreateProvider(c.Request.Context(), &p); err != nil {
		h.log.Error().Err(err).Msg("Failed to create provider")
		respondError(c, http.StatusInternalServerError, "failed to create provider")
		return
	}
	respondData(c, http.StatusCreated, p)
}

// UpdateProvider handles PUT /v1/admin/providers/:id
func (h *AdminHandler) UpdateProvider(c *gin.Context) {
	id := c.Param("id")

	existing, err := h.services.Directory.GetProvider(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get provider")
		return
	}
	if existing == nil {
		respondError(c, http.StatusNotFound, "provider not found")
		return
	}

	var p models.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p.ID = id

	if err := h.services.Directory.UpdateProvider(c.Request.Context(), &p); err != nil {
		h.log.Error().Err(err).Str("provider_id", id).Msg("Failed to update provider")
		respondError(c, http.StatusInternalServerError, "failed to update provider")
		return
	}
	respondData(c, http.StatusOK, p)
}

// publishRequest is the body of PATCH /v1/admin/providers/:id/publish
type publishRequest struct {
	Published bool `json:"published"`
}

// SetPublished handles PATCH /v1/admin/providers/:id/publish
func (h *AdminHandler) SetPublished(c *gin.Context) {
	id := c.Param("id")

	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.services.Directory.SetPublished(c.Request.Context(), id, req.Published); err != nil {
		h.log.Error().Err(err).Str("provider_id", id).Msg("Failed to set published flag")
		respondError(c, http.StatusInternalServerError, "failed to update provider")
		return
	}
	respondData(c, http.StatusOK, gin.H{"id": id, "published": req.Published})
}

// DeleteProvider handles DELETE /v1/admin/providers/:id
func (h *AdminHandler) DeleteProvider(c *gin.Context) {
	id := c.Param("id")

	if err := h.services.Directory.DeleteProvider(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Str("provider_id", id).Msg("Failed to delete provider")
		respondError(c, http.StatusInternalServerError, "failed to delete provider")
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": id})
}

// ExportProviders handles GET /v1/admin/providers/export, streaming the
// full directory as CSV
func (h *AdminHandler) ExportProviders(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=providers.csv")

	writer := csv.NewWriter(c.Writer)
	writer.Write([]string{"id", "name", "category_key", "tags", "rating", "phone", "email", "website", "address", "published"})

	count := 0
	err := h.services.Directory.StreamProviders(c.Request.Context(), func(p *models.Provider) error {
		count++
		return writer.Write([]string{
			p.ID, p.Name, p.CategoryKey, strings.Join(p.Tags, "|"),
			strconv.FormatFloat(p.Rating, 'f', 1, 64),
			p.Phone, p.Email, p.Website, p.Address,
			strconv.FormatBool(p.Published),
		})
	})
	writer.Flush()

	if err != nil {
		h.log.Error().Err(err).Msg("Provider export failed")
		return
	}
	h.log.Info().Int("count", count).Msg("Providers exported")
}

// ListApplications handles GET /v1/admin/applications
func (h *AdminHandler) ListApplications(c *gin.Context) {
	apps, err := h.services.Leads.ListApplications(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list applications")
		respondError(c, http.StatusInternalServerError, "failed to list applications")
		return
	}
	respondData(c, http.StatusOK, apps)
}

// reviewRequest is the body of POST /v1/admin/applications/:id/review
type reviewRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// ReviewApplication handles POST /v1/admin/applications/:id/review
func (h *AdminHandler) ReviewApplication(c *gin.Context) {
	id := c.Param("id")

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	app, err := h.services.Leads.ReviewApplication(c.Request.Context(), id, req.Status, req.Notes)
	if err != nil {
		h.log.Error().Err(err).Str("application_id", id).Msg("Review failed")
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondData(c, http.StatusOK, app)
}

// ListBookings handles GET /v1/admin/bookings
func (h *AdminHandler) ListBookings(c *gin.Context) {
	bookings, err := h.services.Leads.ListBookings(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list bookings")
		respondError(c, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	respondData(c, http.StatusOK, bookings)
}

// bookingStatusRequest is the body of PATCH /v1/admin/bookings/:id
type bookingStatusRequest struct {
	Status string `json:"status"`
}

// UpdateBooking handles PATCH /v1/admin/bookings/:id
func (h *AdminHandler) UpdateBooking(c *gin.Context) {
	id := c.Param("id")

	var req bookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.services.Leads.SetBookingStatus(c.Request.Context(), id, req.Status); err != nil {
		h.log.Error().Err(err).Str("booking_id", id).Msg("Failed to update booking")
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondData(c, http.StatusOK, gin.H{"id": id, "status": req.Status})
}

// syncRequest is the body of POST /v1/admin/sync
type syncRequest struct {
	Source string `json:"source"`
}

// TriggerSync handles POST /v1/admin/sync
func (h *AdminHandler) TriggerSync(c *gin.Context) {
	var req syncRequest
	// Body is optional; no body means sync everything
	c.ShouldBindJSON(&req)

	if req.Source != "" {
		result, err := h.services.Events.SyncSource(c.Request.Context(), req.Source)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondData(c, http.StatusOK, result)
		return
	}

	results, err := h.services.Events.SyncAll(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "sync failed")
		return
	}
	respondData(c, http.StatusOK, results)
}

// backfillRequest is the body of POST /v1/admin/backfill-images
type backfillRequest struct {
	Limit int `json:"limit"`
}

// BackfillImages handles POST /v1/admin/backfill-images
func (h *AdminHandler) BackfillImages(c *gin.Context) {
	var req backfillRequest
	c.ShouldBindJSON(&req)

	result, err := h.services.Events.BackfillImages(c.Request.Context(), req.Limit)
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("backfill failed: %v", err))
		return
	}
	respondData(c, http.StatusOK, result)
}
