package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tunebridge/internal/compat"
	"tunebridge/internal/conversion"
	"tunebridge/internal/repositories"
)

// StartConversionRequest represents the request to convert a playlist to
// another catalog
type StartConversionRequest struct {
	SourcePlaylistID string `json:"source_playlist_id" binding:"required"`
	TargetCatalog    string `json:"target_catalog" binding:"required"`
	UserID           string `json:"user_id" binding:"required"`
}

// ConversionHandler handles playlist conversion requests
type ConversionHandler struct {
	orchestrator *conversion.Orchestrator
	playlists    repositories.PlaylistRepository
	analyzer     *compat.Analyzer
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(orchestrator *conversion.Orchestrator, playlists repositories.PlaylistRepository, analyzer *compat.Analyzer) *ConversionHandler {
	return &ConversionHandler{
		orchestrator: orchestrator,
		playlists:    playlists,
		analyzer:     analyzer,
	}
}

// StartConversion handles POST /api/v1/conversions
func (h *ConversionHandler) StartConversion(c *gin.Context) {
	var req StartConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	record, err := h.orchestrator.Convert(c.Request.Context(), req.SourcePlaylistID, req.TargetCatalog, req.UserID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, conversion.ErrDuplicateConversion):
			status = http.StatusConflict
		case errors.Is(err, conversion.ErrLowCompatibility):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, conversion.ErrNoCredential):
			status = http.StatusForbidden
		case errors.Is(err, conversion.ErrNotFound):
			status = http.StatusNotFound
		}
		if status == http.StatusInternalServerError {
			slog.Error("Conversion failed",
				"source_playlist_id", req.SourcePlaylistID,
				"target_catalog", req.TargetCatalog,
				"error", err)
		}
		c.JSON(status, gin.H{
			"error":      err.Error(),
			"conversion": record,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"conversion": record})
}

// GetConversion handles GET /api/v1/conversions/:id
func (h *ConversionHandler) GetConversion(c *gin.Context) {
	record, err := h.orchestrator.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, conversion.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversion not found"})
			return
		}
		slog.Error("Failed to load conversion", "conversion_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversion": record})
}

// CheckCompatibility handles GET /api/v1/playlists/:id/compatibility/:catalog.
// It runs the pre-flight analysis without starting a conversion.
func (h *ConversionHandler) CheckCompatibility(c *gin.Context) {
	playlistID := c.Param("id")
	targetCatalog := c.Param("catalog")

	playlist, err := h.playlists.FindByID(c.Request.Context(), playlistID)
	if err != nil {
		slog.Error("Failed to load playlist", "playlist_id", playlistID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load playlist"})
		return
	}
	if playlist == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found"})
		return
	}

	songs, err := h.playlists.LoadSongs(c.Request.Context(), playlistID)
	if err != nil {
		slog.Error("Failed to load playlist songs", "playlist_id", playlistID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load playlist songs"})
		return
	}

	report := h.analyzer.Analyze(songs, targetCatalog)
	c.JSON(http.StatusOK, gin.H{
		"playlist_id":    playlistID,
		"target_catalog": targetCatalog,
		"report":         report,
		"convertible":    report.Score >= h.analyzer.MinScore(),
	})
}
