package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CurrentSchemaVersion = 1

// Song represents a track identified on a single streaming catalog.
// A Song is immutable once created; the only permitted mutation is the
// lazy attachment of audio features via AttachAudioFeatures.
type Song struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SchemaVersion int                `bson:"schema_version" json:"schema_version"`

	// Core metadata
	Title           string `bson:"title" json:"title"`
	Artist          string `bson:"artist" json:"artist"`
	Album           string `bson:"album,omitempty" json:"album,omitempty"`
	DurationSeconds int    `bson:"duration_seconds" json:"duration_seconds"`
	Genre           string `bson:"genre,omitempty" json:"genre,omitempty"`
	ReleaseYear     int    `bson:"release_year,omitempty" json:"release_year,omitempty"`

	// Catalog identity: songs are looked up by (catalog, catalog_track_id)
	Catalog        string `bson:"catalog" json:"catalog"`
	CatalogTrackID string `bson:"catalog_track_id" json:"catalog_track_id"`

	// Optional audio descriptor vector, attached lazily when a catalog
	// exposes it
	AudioFeatures *AudioFeatures `bson:"audio_features,omitempty" json:"audio_features,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AudioFeatures is a fixed vector of audio descriptors. Most fields are in
// [0,1]; tempo and loudness are unbounded but typically 40-220 BPM and
// -60..0 dB.
type AudioFeatures struct {
	Danceability     float64 `bson:"danceability" json:"danceability"`
	Energy           float64 `bson:"energy" json:"energy"`
	Valence          float64 `bson:"valence" json:"valence"`
	TempoBPM         float64 `bson:"tempo_bpm" json:"tempo_bpm"`
	LoudnessDB       float64 `bson:"loudness_db" json:"loudness_db"`
	Acousticness     float64 `bson:"acousticness" json:"acousticness"`
	Instrumentalness float64 `bson:"instrumentalness" json:"instrumentalness"`
	Liveness         float64 `bson:"liveness" json:"liveness"`
	Speechiness      float64 `bson:"speechiness" json:"speechiness"`
}

// NewSong creates a new Song identified on the given catalog
func NewSong(title, artist, catalog, catalogTrackID string) *Song {
	now := time.Now()
	return &Song{
		SchemaVersion:  CurrentSchemaVersion,
		Title:          title,
		Artist:         artist,
		Catalog:        catalog,
		CatalogTrackID: catalogTrackID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// AttachAudioFeatures attaches an audio feature vector to the song.
// Features are attached at most once; later calls are no-ops so that a
// matched Song stays stable.
func (s *Song) AttachAudioFeatures(features *AudioFeatures) bool {
	if s.AudioFeatures != nil || features == nil {
		return false
	}
	s.AudioFeatures = features
	s.UpdatedAt = time.Now()
	return true
}

// HasAudioFeatures reports whether an audio feature vector is present
func (s *Song) HasAudioFeatures() bool {
	return s.AudioFeatures != nil
}

// HasReleaseYear reports whether the release year is known
func (s *Song) HasReleaseYear() bool {
	return s.ReleaseYear > 0
}
