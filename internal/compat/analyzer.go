// Package compat estimates how well a playlist will convert to a target
// catalog without issuing any per-song lookups. The orchestrator uses the
// score as a pre-flight gate so that near-certain-to-fail conversions never
// burn rate-limited catalog calls.
package compat

import (
	"fmt"
	"math"
	"strings"

	"tunebridge/internal/config"
	"tunebridge/internal/models"
)

// Analyzer scores playlist/catalog compatibility from aggregate metadata.
// The penalty table and threshold are tuning configuration, not business
// truth.
type Analyzer struct {
	tuning config.TuningSource
}

// NewAnalyzer creates a compatibility analyzer reading penalties and the
// gate threshold from the given source on every call
func NewAnalyzer(tuning config.TuningSource) *Analyzer {
	if tuning == nil {
		tuning = config.GetTuningConfig
	}
	return &Analyzer{tuning: tuning}
}

// Analyze derives a compatibility report from the playlist's songs. The
// score starts at 1.0 and each detected risk signal subtracts its penalty:
// every song carrying a genre the target catalog matches poorly, an average
// release year before the configured cutoff, and an average duration above
// the configured ceiling. The score is clamped at 0.
func (a *Analyzer) Analyze(songs []*models.Song, targetCatalog string) models.CompatibilityReport {
	report := models.CompatibilityReport{Score: 1.0}
	if len(songs) == 0 {
		report.Issues = append(report.Issues, "playlist has no songs")
		report.Score = 0
		return report
	}

	tuning := a.tuning()
	unfriendly := tuning.UnfriendlyGenres[targetCatalog]

	// One penalty per unfriendly song; one issue per distinct genre keyword
	genreCounts := make(map[string]int)
	yearSum, yearCount := 0, 0
	durationSum := 0

	for _, song := range songs {
		genre := strings.ToLower(song.Genre)
		for _, keyword := range unfriendly {
			if genre != "" && strings.Contains(genre, strings.ToLower(keyword)) {
				genreCounts[keyword]++
				report.Score -= tuning.GenrePenalty
				break
			}
		}
		if song.HasReleaseYear() {
			yearSum += song.ReleaseYear
			yearCount++
		}
		durationSum += song.DurationSeconds
	}

	for _, keyword := range unfriendly {
		if count := genreCounts[keyword]; count > 0 {
			report.Issues = append(report.Issues,
				fmt.Sprintf("%d song(s) tagged %q, which %s matches poorly", count, keyword, targetCatalog))
		}
	}

	if yearCount > 0 {
		avgYear := yearSum / yearCount
		if avgYear < tuning.OldCatalogYear {
			report.Score -= tuning.OldCatalogPenalty
			report.Issues = append(report.Issues,
				fmt.Sprintf("average release year %d predates %d; older recordings are sparsely cataloged", avgYear, tuning.OldCatalogYear))
		}
	}

	avgDuration := durationSum / len(songs)
	if avgDuration > tuning.LongDurationSeconds {
		report.Score -= tuning.LongDurationPenalty
		report.Issues = append(report.Issues,
			fmt.Sprintf("average duration %ds exceeds %ds; long-form tracks convert poorly", avgDuration, tuning.LongDurationSeconds))
	}

	if report.Score < 0 {
		report.Score = 0
	}

	report.EstimatedMatchCount = int(math.Floor(float64(len(songs)) * report.Score))
	return report
}

// MinScore returns the gate threshold below which a conversion is rejected
func (a *Analyzer) MinScore() float64 {
	return a.tuning().MinCompatibilityScore
}
