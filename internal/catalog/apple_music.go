package catalog

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"tunebridge/internal/models"
)

// appleMusicClient implements Client for Apple Music
type appleMusicClient struct {
	client      *resty.Client
	keyID       string
	teamID      string
	keyFile     string
	privateKey  *ecdsa.PrivateKey
	jwtToken    string
	tokenExpiry time.Time
	mu          sync.RWMutex
}

const (
	appleMusicAPIURL = "https://api.music.apple.com/v1"

	// Apple Music caps library playlist track additions per call
	appleMusicAddTracksBatchSize = 100
)

// NewAppleMusicClient creates an Apple Music-backed catalog client
// authenticated with a developer JWT signed by the team's ES256 key.
func NewAppleMusicClient(keyID, teamID, keyFile string) Client {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)

	c := &appleMusicClient{
		client:  client,
		keyID:   keyID,
		teamID:  teamID,
		keyFile: keyFile,
	}

	if err := c.loadPrivateKey(); err != nil {
		slog.Error("Failed to load Apple Music private key", "error", err)
	}

	return c
}

// CatalogName returns the catalog name
func (c *appleMusicClient) CatalogName() string {
	return "apple_music"
}

// Search searches for tracks on Apple Music
func (c *appleMusicClient) Search(ctx context.Context, query string, limit int) ([]*models.Song, error) {
	if err := c.ensureValidToken(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10
	}
	if limit > 25 {
		limit = 25 // Apple Music API limit
	}

	c.mu.RLock()
	token := c.jwtToken
	c.mu.RUnlock()

	var searchResult appleMusicSearchResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"term":  query,
			"types": "songs",
			"limit": strconv.Itoa(limit),
		}).
		SetResult(&searchResult).
		Get(fmt.Sprintf("%s/catalog/us/search", appleMusicAPIURL))

	if err != nil {
		return nil, &CatalogError{
			Catalog:   "apple_music",
			Operation: "search",
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &CatalogError{
			Catalog:   "apple_music",
			Operation: "search",
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		}
	}

	songs := make([]*models.Song, 0, len(searchResult.Results.Songs.Data))
	for i := range searchResult.Results.Songs.Data {
		songs = append(songs, c.convertSong(&searchResult.Results.Songs.Data[i]))
	}

	return songs, nil
}

// CreatePlaylist creates a library playlist for the user owning accessToken
func (c *appleMusicClient) CreatePlaylist(ctx context.Context, accessToken, name, description string) (string, error) {
	if err := c.ensureValidToken(); err != nil {
		return "", err
	}

	c.mu.RLock()
	devToken := c.jwtToken
	c.mu.RUnlock()

	var created appleMusicPlaylistResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(devToken).
		SetHeader("Music-User-Token", accessToken).
		SetBody(map[string]any{
			"attributes": map[string]string{
				"name":        name,
				"description": description,
			},
		}).
		SetResult(&created).
		Post(fmt.Sprintf("%s/me/library/playlists", appleMusicAPIURL))

	if err != nil {
		return "", &CatalogError{
			Catalog:   "apple_music",
			Operation: "create_playlist",
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		return "", &CatalogError{
			Catalog:   "apple_music",
			Operation: "create_playlist",
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		}
	}

	if len(created.Data) == 0 {
		return "", &CatalogError{
			Catalog:   "apple_music",
			Operation: "create_playlist",
			Message:   "no playlist data returned",
		}
	}

	return created.Data[0].ID, nil
}

// AddTracks appends catalog song IDs to a library playlist in batches
func (c *appleMusicClient) AddTracks(ctx context.Context, accessToken, playlistID string, trackIDs []string) error {
	if err := c.ensureValidToken(); err != nil {
		return err
	}

	c.mu.RLock()
	devToken := c.jwtToken
	c.mu.RUnlock()

	for start := 0; start < len(trackIDs); start += appleMusicAddTracksBatchSize {
		end := start + appleMusicAddTracksBatchSize
		if end > len(trackIDs) {
			end = len(trackIDs)
		}

		data := make([]map[string]string, 0, end-start)
		for _, id := range trackIDs[start:end] {
			data = append(data, map[string]string{"id": id, "type": "songs"})
		}

		resp, err := c.client.R().
			SetContext(ctx).
			SetAuthToken(devToken).
			SetHeader("Music-User-Token", accessToken).
			SetBody(map[string]any{"data": data}).
			Post(fmt.Sprintf("%s/me/library/playlists/%s/tracks", appleMusicAPIURL, playlistID))

		if err != nil {
			return &CatalogError{
				Catalog:   "apple_music",
				Operation: "add_tracks",
				Message:   "request failed",
				Err:       err,
			}
		}

		if resp.StatusCode() != http.StatusNoContent && resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
			return &CatalogError{
				Catalog:   "apple_music",
				Operation: "add_tracks",
				Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
			}
		}
	}

	return nil
}

// Health checks Apple Music API health
func (c *appleMusicClient) Health(ctx context.Context) error {
	return c.ensureValidToken()
}

// loadPrivateKey loads the ES256 private key from the configured key file
func (c *appleMusicClient) loadPrivateKey() error {
	keyData, err := os.ReadFile(c.keyFile)
	if err != nil {
		return fmt.Errorf("failed to read key file: %w", err)
	}

	block, _ := pem.Decode(keyData)
	if block == nil {
		return fmt.Errorf("failed to decode PEM block from key file")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return fmt.Errorf("failed to parse private key: %w", err)
	}

	ecdsaKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return fmt.Errorf("key is not an ECDSA private key")
	}

	c.privateKey = ecdsaKey
	return nil
}

// ensureValidToken ensures we have an unexpired developer JWT
func (c *appleMusicClient) ensureValidToken() error {
	c.mu.RLock()
	if c.jwtToken != "" && time.Now().Before(c.tokenExpiry) {
		c.mu.RUnlock()
		return nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.jwtToken != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}

	if c.privateKey == nil {
		return &CatalogError{
			Catalog:   "apple_music",
			Operation: "auth",
			Message:   "private key not loaded",
		}
	}

	token, err := c.generateJWT()
	if err != nil {
		return &CatalogError{
			Catalog:   "apple_music",
			Operation: "auth",
			Message:   "failed to generate JWT token",
			Err:       err,
		}
	}

	c.jwtToken = token
	c.tokenExpiry = time.Now().Add(55 * time.Minute) // tokens last 60 minutes, refresh at 55

	slog.Info("Apple Music JWT token refreshed", "expires_at", c.tokenExpiry)

	return nil
}

// generateJWT creates a developer token for Apple Music API authentication
func (c *appleMusicClient) generateJWT() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": c.teamID,
		"iat": now.Unix(),
		"exp": now.Add(60 * time.Minute).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = c.keyID

	return token.SignedString(c.privateKey)
}

// convertSong converts an Apple Music API song to a Song
func (c *appleMusicClient) convertSong(song *appleMusicSong) *models.Song {
	out := models.NewSong(song.Attributes.Name, song.Attributes.ArtistName, "apple_music", song.ID)
	out.Album = song.Attributes.AlbumName
	out.DurationSeconds = song.Attributes.DurationInMillis / 1000
	out.ReleaseYear = parseReleaseYear(song.Attributes.ReleaseDate)
	if len(song.Attributes.GenreNames) > 0 {
		out.Genre = song.Attributes.GenreNames[0]
	}
	return out
}

// Apple Music API response structures
type appleMusicSearchResult struct {
	Results appleMusicResults `json:"results"`
}

type appleMusicResults struct {
	Songs appleMusicSongs `json:"songs"`
}

type appleMusicSongs struct {
	Data []appleMusicSong `json:"data"`
}

type appleMusicSong struct {
	ID         string                   `json:"id"`
	Type       string                   `json:"type"`
	Attributes appleMusicSongAttributes `json:"attributes"`
}

type appleMusicSongAttributes struct {
	Name             string   `json:"name"`
	ArtistName       string   `json:"artistName"`
	AlbumName        string   `json:"albumName"`
	DurationInMillis int      `json:"durationInMillis"`
	ReleaseDate      string   `json:"releaseDate"`
	GenreNames       []string `json:"genreNames"`
	ContentRating    string   `json:"contentRating,omitempty"`
}

type appleMusicPlaylistResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}
