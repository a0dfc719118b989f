package api

import (
	"net/http"
	"strconv"

	"github.com/bonita-forward-api/internal/models"
	"github.com/bonita-forward-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// EventHandler handles calendar-event endpoints
type EventHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(services *service.Services, log zerolog.Logger) *EventHandler {
	return &EventHandler{
		services: services,
		log:      log.With().Str("handler", "events").Logger(),
	}
}

// ListUpcoming handles GET /v1/events
func (h *EventHandler) ListUpcoming(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	views, err := h.services.Events.ListUpcoming(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list events")
		respondError(c, http.StatusInternalServerError, "failed to list events")
		return
	}
	respondData(c, http.StatusOK, views)
}

// Submit handles POST /v1/events
func (h *EventHandler) Submit(c *gin.Context) {
	var sub models.EventSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ev, validationErrors, err := h.services.Events.Submit(c.Request.Context(), &sub)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to submit event")
		respondError(c, http.StatusInternalServerError, "failed to submit event")
		return
	}
	if len(validationErrors) > 0 {
		respondValidation(c, http.StatusBadRequest, "validation failed", validationErrors)
		return
	}
	respondData(c, http.StatusCreated, ev)
}

// voteRequest is the body of POST /v1/events/:id/vote
type voteRequest struct {
	Direction string `json:"direction"` // "up" or "down"
}

// Vote handles POST /v1/events/:id/vote
func (h *EventHandler) Vote(c *gin.Context) {
	id := c.Param("id")
	profile := currentProfile(c)

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Direction != "up" && req.Direction != "down" {
		respondError(c, http.StatusBadRequest, "direction must be up or down")
		return
	}

	if err := h.services.Events.Vote(c.Request.Context(), id, profile.ID, req.Direction == "up"); err != nil {
		h.log.Error().Err(err).Str("event_id", id).Msg("Vote failed")
		respondError(c, http.StatusNotFound, "event not found")
		return
	}
	respondData(c, http.StatusOK, gin.H{"voted": true})
}
