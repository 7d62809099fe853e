package catalog

import (
	"context"

	"tunebridge/internal/models"
)

// Client is the capability the conversion core needs from one external
// streaming catalog. Implementations wrap a platform API and are safe for
// concurrent use.
type Client interface {
	// CatalogName returns the catalog namespace this client serves
	CatalogName() string

	// Search performs a free-text search and returns zero or more
	// candidate songs. An empty result is a normal outcome, not an error.
	Search(ctx context.Context, query string, limit int) ([]*models.Song, error)

	// CreatePlaylist creates a playlist on the catalog on behalf of the
	// user owning accessToken and returns its external playlist ID
	CreatePlaylist(ctx context.Context, accessToken, name, description string) (string, error)

	// AddTracks appends catalog track IDs to an external playlist,
	// chunking internally to the platform's batch limit
	AddTracks(ctx context.Context, accessToken, playlistID string, trackIDs []string) error

	// Health checks whether the catalog API is reachable and authorized
	Health(ctx context.Context) error
}

// TokenProvider resolves a usable user credential for a catalog, refreshing
// transparently when possible. An empty token with a nil error means the
// user has no usable credential for that catalog.
type TokenProvider interface {
	AccessToken(ctx context.Context, userID, catalog string) (string, error)
}

// Registry maps catalog names to clients
type Registry struct {
	clients map[string]Client
}

// NewRegistry creates an empty client registry
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Register adds a client, replacing any existing client for the same catalog
func (r *Registry) Register(client Client) {
	r.clients[client.CatalogName()] = client
}

// Get returns the client for a catalog, or nil when none is registered
func (r *Registry) Get(catalog string) Client {
	return r.clients[catalog]
}

// Catalogs returns the names of all registered catalogs
func (r *Registry) Catalogs() []string {
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}

// CatalogError represents an error from a catalog client
type CatalogError struct {
	Catalog   string
	Operation string
	Message   string
	Err       error
}

func (e *CatalogError) Error() string {
	msg := e.Catalog + " " + e.Operation + " failed"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += " - " + e.Err.Error()
	}
	return msg
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}
