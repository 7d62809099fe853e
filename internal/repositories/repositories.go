package repositories

import (
	"context"
	"errors"

	"tunebridge/internal/models"
)

// ErrDuplicateRecord is returned by ConversionRepository.Create when a
// non-failed record already exists for the same (playlist, target) pair.
var ErrDuplicateRecord = errors.New("conversion record already exists")

// ConversionRepository defines the interface for conversion record
// persistence. Create must be atomic with the duplicate check: two
// concurrent creates for the same (playlist, target) pair must not both
// succeed.
type ConversionRepository interface {
	// Create inserts a new record, failing with ErrDuplicateRecord when a
	// non-failed record exists for the same (playlist, target) pair
	Create(ctx context.Context, record *models.ConversionRecord) error

	// Update replaces an existing record
	Update(ctx context.Context, record *models.ConversionRecord) error

	// FindByID returns a record by ID, or nil when absent
	FindByID(ctx context.Context, id string) (*models.ConversionRecord, error)

	// FindConversion returns the newest record for a (playlist, target)
	// pair, or nil when none exists
	FindConversion(ctx context.Context, playlistID, targetCatalog string) (*models.ConversionRecord, error)
}

// PlaylistRepository defines the interface for playlist reads. The
// conversion core never writes source playlists.
type PlaylistRepository interface {
	// FindByID returns a playlist by ID, or nil when absent
	FindByID(ctx context.Context, id string) (*models.Playlist, error)

	// LoadSongs returns the playlist's songs in playlist order
	LoadSongs(ctx context.Context, playlistID string) ([]*models.Song, error)
}

// SongRepository defines the interface for song data operations. Songs are
// keyed by (catalog, catalog_track_id).
type SongRepository interface {
	// Upsert saves a song, reusing any existing document with the same
	// catalog identity
	Upsert(ctx context.Context, song *models.Song) error

	// FindByCatalogTrackID returns a song by its catalog identity, or nil
	// when absent
	FindByCatalogTrackID(ctx context.Context, catalog, trackID string) (*models.Song, error)

	// FindMany returns songs by their IDs, in no particular order
	FindMany(ctx context.Context, ids []string) ([]*models.Song, error)
}
