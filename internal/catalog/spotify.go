package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2/clientcredentials"

	"tunebridge/internal/models"
)

// spotifyClient implements Client for Spotify
type spotifyClient struct {
	client      *resty.Client
	tokenSource *clientcredentials.Config
	accessToken string
	tokenExpiry time.Time
	mu          sync.RWMutex
}

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyAPIURL   = "https://api.spotify.com/v1"

	// Spotify caps playlist track additions at 100 IDs per call
	spotifyAddTracksBatchSize = 100
)

// NewSpotifyClient creates a Spotify-backed catalog client. Search uses the
// client-credentials flow; playlist writes use the user token passed per
// call.
func NewSpotifyClient(clientID, clientSecret string) Client {
	tokenSource := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)

	return &spotifyClient{
		client:      client,
		tokenSource: tokenSource,
	}
}

// CatalogName returns the catalog name
func (s *spotifyClient) CatalogName() string {
	return "spotify"
}

// Search searches for tracks on Spotify
func (s *spotifyClient) Search(ctx context.Context, query string, limit int) ([]*models.Song, error) {
	if err := s.ensureValidToken(ctx); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50 // Spotify API limit
	}

	s.mu.RLock()
	token := s.accessToken
	s.mu.RUnlock()

	var searchResult spotifySearchResult
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"q":     query,
			"type":  "track",
			"limit": strconv.Itoa(limit),
		}).
		SetResult(&searchResult).
		Get(fmt.Sprintf("%s/search", spotifyAPIURL))

	if err != nil {
		return nil, &CatalogError{
			Catalog:   "spotify",
			Operation: "search",
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &CatalogError{
			Catalog:   "spotify",
			Operation: "search",
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		}
	}

	songs := make([]*models.Song, 0, len(searchResult.Tracks.Items))
	for i := range searchResult.Tracks.Items {
		songs = append(songs, s.convertTrack(&searchResult.Tracks.Items[i]))
	}

	return songs, nil
}

// CreatePlaylist creates a playlist for the user owning accessToken
func (s *spotifyClient) CreatePlaylist(ctx context.Context, accessToken, name, description string) (string, error) {
	var created spotifyPlaylist
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(map[string]any{
			"name":        name,
			"description": description,
			"public":      false,
		}).
		SetResult(&created).
		Post(fmt.Sprintf("%s/me/playlists", spotifyAPIURL))

	if err != nil {
		return "", &CatalogError{
			Catalog:   "spotify",
			Operation: "create_playlist",
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		return "", &CatalogError{
			Catalog:   "spotify",
			Operation: "create_playlist",
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		}
	}

	return created.ID, nil
}

// AddTracks appends track IDs to a playlist in batches of 100
func (s *spotifyClient) AddTracks(ctx context.Context, accessToken, playlistID string, trackIDs []string) error {
	for start := 0; start < len(trackIDs); start += spotifyAddTracksBatchSize {
		end := start + spotifyAddTracksBatchSize
		if end > len(trackIDs) {
			end = len(trackIDs)
		}

		uris := make([]string, 0, end-start)
		for _, id := range trackIDs[start:end] {
			uris = append(uris, "spotify:track:"+id)
		}

		resp, err := s.client.R().
			SetContext(ctx).
			SetAuthToken(accessToken).
			SetBody(map[string]any{"uris": uris}).
			Post(fmt.Sprintf("%s/playlists/%s/tracks", spotifyAPIURL, playlistID))

		if err != nil {
			return &CatalogError{
				Catalog:   "spotify",
				Operation: "add_tracks",
				Message:   "request failed",
				Err:       err,
			}
		}

		if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
			return &CatalogError{
				Catalog:   "spotify",
				Operation: "add_tracks",
				Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
			}
		}
	}

	return nil
}

// Health checks Spotify API health
func (s *spotifyClient) Health(ctx context.Context) error {
	return s.ensureValidToken(ctx)
}

// ensureValidToken ensures we have a valid client-credentials token
func (s *spotifyClient) ensureValidToken(ctx context.Context) error {
	s.mu.RLock()
	if s.accessToken != "" && time.Now().Before(s.tokenExpiry) {
		s.mu.RUnlock()
		return nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if s.accessToken != "" && time.Now().Before(s.tokenExpiry) {
		return nil
	}

	token, err := s.tokenSource.Token(ctx)
	if err != nil {
		return &CatalogError{
			Catalog:   "spotify",
			Operation: "auth",
			Message:   "failed to get access token",
			Err:       err,
		}
	}

	s.accessToken = token.AccessToken
	s.tokenExpiry = token.Expiry

	slog.Info("Spotify access token refreshed", "expires_at", token.Expiry)

	return nil
}

// convertTrack converts a Spotify API track to a Song
func (s *spotifyClient) convertTrack(track *spotifyTrack) *models.Song {
	artists := make([]string, len(track.Artists))
	for i, artist := range track.Artists {
		artists[i] = artist.Name
	}

	song := models.NewSong(track.Name, strings.Join(artists, ", "), "spotify", track.ID)
	song.Album = track.Album.Name
	song.DurationSeconds = track.DurationMs / 1000
	song.ReleaseYear = parseReleaseYear(track.Album.ReleaseDate)

	return song
}

// parseReleaseYear extracts the year from dates like "2023", "2023-01" or
// "2023-01-15"
func parseReleaseYear(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil || year < 1000 {
		return 0
	}
	return year
}

// Spotify API response structures
type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []spotifyArtist `json:"artists"`
	Album      spotifyAlbum    `json:"album"`
	DurationMs int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	Popularity int             `json:"popularity"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}

type spotifyPlaylist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifySearchResult struct {
	Tracks spotifyTracksPaging `json:"tracks"`
}

type spotifyTracksPaging struct {
	Items []spotifyTrack `json:"items"`
	Total int            `json:"total"`
}
