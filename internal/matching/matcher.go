package matching

import (
	"context"
	"log/slog"
	"time"

	"tunebridge/internal/catalog"
	"tunebridge/internal/config"
	"tunebridge/internal/models"
	"tunebridge/internal/similarity"
)

// Matcher finds the best-matching song on a target catalog for a source song
// identified elsewhere. A Matcher holds no per-call state and is safe to
// invoke concurrently for many songs.
type Matcher struct {
	tuning config.TuningSource
}

// NewMatcher creates a song matcher reading weights and thresholds from
// the given source on every call, so tuning reloads apply to live matchers
func NewMatcher(tuning config.TuningSource) *Matcher {
	if tuning == nil {
		tuning = config.GetTuningConfig
	}
	return &Matcher{tuning: tuning}
}

// Match runs the full query plan for the source song against the target
// catalog and returns the single best-scoring candidate with its
// confidence. Every query variant is searched; results are pooled rather
// than short-circuited on the first hit, because a later low-precision
// query can still surface the best candidate. A query that fails is logged
// and skipped. Zero candidates across all queries is a normal outcome:
// the match comes back with no matched song and confidence 0.
func (m *Matcher) Match(ctx context.Context, source *models.Song, client catalog.Client, maxResultsPerQuery int) models.SongMatch {
	tuning := m.tuning()
	if maxResultsPerQuery <= 0 {
		maxResultsPerQuery = tuning.MaxResultsPerQuery
	}

	queries := PlanQueries(source.Title, source.Artist, source.Album)

	var best *models.Song
	bestConfidence := 0.0

	searchTimeout := time.Duration(tuning.SearchTimeoutSeconds) * time.Second

	for _, query := range queries {
		searchCtx, cancel := context.WithTimeout(ctx, searchTimeout)
		candidates, err := client.Search(searchCtx, query, maxResultsPerQuery)
		cancel()
		if err != nil {
			slog.Warn("Catalog search failed, skipping query",
				"catalog", client.CatalogName(),
				"query", query,
				"error", err)
			continue
		}

		for _, candidate := range candidates {
			confidence := m.Confidence(source, candidate)
			if confidence > bestConfidence {
				bestConfidence = confidence
				best = candidate
			}
		}
	}

	return models.SongMatch{
		SourceSong:   source,
		MatchedSong:  best,
		Confidence:   bestConfidence,
		IsExactMatch: bestConfidence > tuning.ExactMatchThreshold,
	}
}

// Confidence computes the weighted match confidence between a source song
// and a candidate. Title and artist use normalized edit-distance
// similarity over lower-cased text; duration similarity is relative to the
// source duration; the year term is only added when both release years are
// known, so confidence tops out at 0.9 when a year is missing on either
// side. The result is clamped to [0,1].
func (m *Matcher) Confidence(source, candidate *models.Song) float64 {
	if candidate == nil {
		return 0
	}

	tuning := m.tuning()
	score := tuning.TitleWeight*similarity.String(source.Title, candidate.Title) +
		tuning.ArtistWeight*similarity.String(source.Artist, candidate.Artist) +
		tuning.DurationWeight*similarity.Duration(source.DurationSeconds, candidate.DurationSeconds)

	if source.HasReleaseYear() && candidate.HasReleaseYear() {
		score += tuning.YearWeight * similarity.Year(source.ReleaseYear, candidate.ReleaseYear)
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
