package api

import (
	"net/http"

	"github.com/bonita-forward-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DirectoryHandler handles category, provider, and funnel endpoints
type DirectoryHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(services *service.Services, log zerolog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		services: services,
		log:      log.With().Str("handler", "directory").Logger(),
	}
}

// ListCategories handles GET /v1/categories
func (h *DirectoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.services.Directory.ListCategories(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list categories")
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}
	respondData(c, http.StatusOK, categories)
}

// ListProviders handles GET /v1/categories/:key/providers
func (h *DirectoryHandler) ListProviders(c *gin.Context) {
	key := c.Param("key")

	// Unpublished listings are only visible to admins
	includeUnpublished := c.Query("include_unpublished") == "true" &&
		h.services.Auth.IsAdmin(currentProfile(c))

	providers, err := h.services.Directory.ListProviders(c.Request.Context(), key, includeUnpublished)
	if err != nil {
		h.log.Error().Err(err).Str("category", key).Msg("Failed to list providers")
		respondError(c, http.StatusInternalServerError, "failed to list providers")
		return
	}
	respondData(c, http.StatusOK, providers)
}

// GetProvider handles GET /v1/providers/:id
func (h *DirectoryHandler) GetProvider(c *gin.Context) {
	id := c.Param("id")

	provider, err := h.services.Directory.GetProvider(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("provider_id", id).Msg("Failed to get provider")
		respondError(c, http.StatusInternalServerError, "failed to get provider")
		return
	}
	if provider == nil || (!provider.Published && !h.services.Auth.IsAdmin(currentProfile(c))) {
		respondError(c, http.StatusNotFound, "provider not found")
		return
	}
	respondData(c, http.StatusOK, provider)
}

// matchRequest is the body of POST /v1/funnel/:key/match
type matchRequest struct {
	Answers map[string]string `json:"answers"`
}

// Match handles POST /v1/funnel/:key/match
func (h *DirectoryHandler) Match(c *gin.Context) {
	key := c.Param("key")

	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	matches, err := h.services.Directory.Match(c.Request.Context(), key, req.Answers)
	if err != nil {
		h.log.Error().Err(err).Str("category", key).Msg("Funnel match failed")
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondData(c, http.StatusOK, matches)
}

// SaveResponse handles PUT /v1/funnel/:key/responses
func (h *DirectoryHandler) SaveResponse(c *gin.Context) {
	key := c.Param("key")
	profile := currentProfile(c)

	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.services.Directory.SaveFunnelResponse(c.Request.Context(), profile.ID, key, req.Answers); err != nil {
		h.log.Error().Err(err).Str("category", key).Msg("Failed to save funnel response")
		respondError(c, http.StatusInternalServerError, "failed to save response")
		return
	}
	respondData(c, http.StatusOK, gin.H{"saved": true})
}
