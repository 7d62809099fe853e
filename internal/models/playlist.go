package models

import (
	"time"

	"github.com/google/uuid"
)

// Playlist is an ordered collection of songs on a single catalog. The
// conversion pipeline never mutates a source playlist; it only reads its
// songs in order.
type Playlist struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID     string    `bson:"owner_id" json:"owner_id"`
	Catalog     string    `bson:"catalog" json:"catalog"`
	SongIDs     []string  `bson:"song_ids" json:"song_ids"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// NewPlaylist creates an empty playlist owned by the given user
func NewPlaylist(name, ownerID, catalog string) *Playlist {
	now := time.Now()
	return &Playlist{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   ownerID,
		Catalog:   catalog,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UserMusicProfile is a taste summary derived from a user's playlists and
// listening history. It is recomputable at any time and is never treated
// as a source of truth.
type UserMusicProfile struct {
	UserID           string    `json:"user_id"`
	FavoriteGenres   []string  `json:"favorite_genres"`  // frequency-ranked, at most 5
	FavoriteArtists  []string  `json:"favorite_artists"` // frequency-ranked, at most 10
	AverageDuration  float64   `json:"average_duration"`
	PreferredTempo   float64   `json:"preferred_tempo"`
	PreferredEnergy  float64   `json:"preferred_energy"`
	PreferredValence float64   `json:"preferred_valence"`
	SongCount        int       `json:"song_count"`
	GeneratedAt      time.Time `json:"generated_at"`
}
