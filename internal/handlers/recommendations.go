package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tunebridge/internal/catalog"
	"tunebridge/internal/recommend"
	"tunebridge/internal/repositories"
)

// RecommendationsRequest represents the request to rank candidate songs
// for a user. The candidate pool comes from a free-text catalog search;
// the taste profile is derived from one of the user's playlists. A mood
// seeds the ranking instead of the profile alone when given.
type RecommendationsRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	PlaylistID string `json:"playlist_id,omitempty"`
	Catalog    string `json:"catalog" binding:"required"`
	Query      string `json:"query" binding:"required"`
	Mood       string `json:"mood,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// RecommendationHandler handles recommendation requests
type RecommendationHandler struct {
	catalogs  *catalog.Registry
	playlists repositories.PlaylistRepository
	scorer    *recommend.Scorer
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(catalogs *catalog.Registry, playlists repositories.PlaylistRepository, scorer *recommend.Scorer) *RecommendationHandler {
	return &RecommendationHandler{
		catalogs:  catalogs,
		playlists: playlists,
		scorer:    scorer,
	}
}

// Recommend handles POST /api/v1/recommendations
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req RecommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 50 {
		req.Limit = 50
	}

	client := h.catalogs.Get(req.Catalog)
	if client == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown catalog: " + req.Catalog})
		return
	}

	profile := recommend.BuildProfile(req.UserID, nil)
	if req.PlaylistID != "" {
		songs, err := h.playlists.LoadSongs(c.Request.Context(), req.PlaylistID)
		if err != nil {
			slog.Error("Failed to load profile playlist", "playlist_id", req.PlaylistID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load playlist"})
			return
		}
		profile = recommend.BuildProfile(req.UserID, songs)
	}

	candidates, err := client.Search(c.Request.Context(), req.Query, req.Limit*2)
	if err != nil {
		slog.Error("Candidate search failed", "catalog", req.Catalog, "query", req.Query, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog search failed"})
		return
	}

	var ranked []recommend.RecommendedSong
	if req.Mood != "" {
		ranked, err = h.scorer.RankByMood(req.Mood, candidates, profile, req.Limit)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
				"moods": recommend.MoodNames(),
			})
			return
		}
	} else {
		ranked = h.scorer.Rank(candidates, profile, req.Limit)
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":         profile,
		"recommendations": ranked,
	})
}

// ListMoods handles GET /api/v1/recommendations/moods
func (h *RecommendationHandler) ListMoods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"moods": recommend.MoodNames()})
}
