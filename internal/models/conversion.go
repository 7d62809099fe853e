package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConversionStatus tracks the lifecycle of a playlist conversion.
// Transitions: pending -> processing -> {completed | failed}. The two
// final states are terminal.
type ConversionStatus string

const (
	ConversionPending    ConversionStatus = "pending"
	ConversionProcessing ConversionStatus = "processing"
	ConversionCompleted  ConversionStatus = "completed"
	ConversionFailed     ConversionStatus = "failed"
)

// ConversionRecord is the persisted outcome of one playlist conversion
// attempt. At most one non-failed record exists per
// (source_playlist_id, target_catalog) pair.
type ConversionRecord struct {
	ID               string           `bson:"_id" json:"id"`
	SourcePlaylistID string           `bson:"source_playlist_id" json:"source_playlist_id"`
	TargetCatalog    string           `bson:"target_catalog" json:"target_catalog"`
	Status           ConversionStatus `bson:"status" json:"status"`

	MatchedCount   int     `bson:"matched_count" json:"matched_count"`
	UnmatchedCount int     `bson:"unmatched_count" json:"unmatched_count"`
	ConversionRate float64 `bson:"conversion_rate" json:"conversion_rate"`

	// ID of the playlist created on the target catalog, set on success
	TargetPlaylistID string `bson:"target_playlist_id,omitempty" json:"target_playlist_id,omitempty"`

	Errors []ConversionError `bson:"errors,omitempty" json:"errors,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// ConversionError describes why a single song (or the whole conversion)
// could not be carried over.
type ConversionError struct {
	SongID    string `bson:"song_id,omitempty" json:"song_id,omitempty"`
	SongTitle string `bson:"song_title,omitempty" json:"song_title,omitempty"`
	Reason    string `bson:"reason" json:"reason"`
}

// NewConversionRecord creates a pending record for a (playlist, target) pair
func NewConversionRecord(sourcePlaylistID, targetCatalog string) *ConversionRecord {
	return &ConversionRecord{
		ID:               uuid.NewString(),
		SourcePlaylistID: sourcePlaylistID,
		TargetCatalog:    targetCatalog,
		Status:           ConversionPending,
		CreatedAt:        time.Now(),
	}
}

// IsTerminal reports whether the record reached a final state
func (r *ConversionRecord) IsTerminal() bool {
	return r.Status == ConversionCompleted || r.Status == ConversionFailed
}

// MarkProcessing transitions the record from pending to processing
func (r *ConversionRecord) MarkProcessing() error {
	if r.Status != ConversionPending {
		return fmt.Errorf("cannot start processing from status %q", r.Status)
	}
	r.Status = ConversionProcessing
	return nil
}

// MarkCompleted finalizes the record with match statistics.
// conversionRate is matchedCount / totalSongs; an empty playlist completes
// with rate 0.
func (r *ConversionRecord) MarkCompleted(matched, unmatched int) error {
	if r.IsTerminal() {
		return fmt.Errorf("record already in terminal status %q", r.Status)
	}
	r.Status = ConversionCompleted
	r.MatchedCount = matched
	r.UnmatchedCount = unmatched
	if total := matched + unmatched; total > 0 {
		r.ConversionRate = float64(matched) / float64(total)
	}
	now := time.Now()
	r.CompletedAt = &now
	return nil
}

// MarkFailed finalizes the record with a single top-level error
func (r *ConversionRecord) MarkFailed(reason string) error {
	if r.IsTerminal() {
		return fmt.Errorf("record already in terminal status %q", r.Status)
	}
	r.Status = ConversionFailed
	r.Errors = append(r.Errors, ConversionError{Reason: reason})
	now := time.Now()
	r.CompletedAt = &now
	return nil
}

// AddSongError records one unmatched song on the record
func (r *ConversionRecord) AddSongError(songID, songTitle, reason string) {
	r.Errors = append(r.Errors, ConversionError{
		SongID:    songID,
		SongTitle: songTitle,
		Reason:    reason,
	})
}

// SongMatch is the result of matching one source song against a target
// catalog. It is ephemeral: produced per conversion attempt and kept only
// inside the owning ConversionRecord aggregation.
type SongMatch struct {
	SourceSong   *Song   `json:"source_song"`
	MatchedSong  *Song   `json:"matched_song,omitempty"`
	Confidence   float64 `json:"confidence"`
	IsExactMatch bool    `json:"is_exact_match"`
}

// CompatibilityReport estimates how well a playlist converts to a target
// catalog, derived purely from aggregate playlist metadata.
type CompatibilityReport struct {
	Score               float64  `json:"score"`
	EstimatedMatchCount int      `json:"estimated_match_count"`
	Issues              []string `json:"issues,omitempty"`
}
