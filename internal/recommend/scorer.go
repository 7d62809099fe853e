package recommend

import (
	"fmt"
	"sort"
	"strings"

	"tunebridge/internal/config"
	"tunebridge/internal/models"
	"tunebridge/internal/similarity"
)

const (
	// Base contribution for a candidate whose genre fits the seed mood
	moodGenreBase = 0.4

	// Contribution per audio axis (tempo, energy) that lands inside the
	// mood's range
	moodFeatureBase = 0.15
)

// RecommendedSong is one ranked recommendation with the provenance of its
// score.
type RecommendedSong struct {
	Song    *models.Song `json:"song"`
	Score   float64      `json:"score"`
	Reasons []string     `json:"reasons"`
}

// Scorer ranks candidate songs against a user's taste profile or a seed
// mood. It is stateless and safe for concurrent use.
type Scorer struct {
	tuning config.TuningSource
}

// NewScorer creates a recommendation scorer reading bonus weights and the
// score floor from the given source on every call
func NewScorer(tuning config.TuningSource) *Scorer {
	if tuning == nil {
		tuning = config.GetTuningConfig
	}
	return &Scorer{tuning: tuning}
}

// Score rates one candidate against a profile. Genre and artist matches
// add fixed bonuses; audio-feature similarity against the profile's
// preferred tempo, energy and valence adds a continuous contribution.
// Each contribution carries a reason so callers can explain the ranking.
// The result is clamped to [0,1].
func (s *Scorer) Score(candidate *models.Song, profile *models.UserMusicProfile) (float64, []string) {
	if candidate == nil || profile == nil {
		return 0, nil
	}

	tuning := s.tuning()
	score := 0.0
	var reasons []string

	if genre, ok := matchAny(candidate.Genre, profile.FavoriteGenres); ok {
		score += tuning.GenreBonus
		reasons = append(reasons, fmt.Sprintf("matches favorite genre %q", genre))
	}

	if artist, ok := matchAny(candidate.Artist, profile.FavoriteArtists); ok {
		score += tuning.ArtistBonus
		reasons = append(reasons, fmt.Sprintf("by favorite artist %q", artist))
	}

	if audioScore, ok := similarity.FeatureScore(profileFeatures(profile, candidate), candidate.AudioFeatures); ok {
		score += audioScore * (1 - tuning.GenreBonus - tuning.ArtistBonus)
		reasons = append(reasons, fmt.Sprintf("audio profile similarity %.2f", audioScore))
	}

	return clamp01(score), reasons
}

// Rank scores a candidate pool against a profile and returns at most limit
// recommendations, descending by score. Candidates are deduplicated by
// lower-cased (title, artist) before scoring, first occurrence winning, so
// the same song from two catalogs appears once. Candidates below the
// configured floor are dropped.
func (s *Scorer) Rank(candidates []*models.Song, profile *models.UserMusicProfile, limit int) []RecommendedSong {
	return s.rank(candidates, limit, func(candidate *models.Song) (float64, []string) {
		return s.Score(candidate, profile)
	})
}

// RankByMood seeds the ranking from a mood instead of a profile alone:
// candidates start from mood-specific base contributions (genre fit, tempo
// in range, sound profile within tolerance of the mood's characteristic
// vector) and the profile's genre and artist bonuses merge on top. A nil
// profile is allowed; the mood base then stands by itself.
func (s *Scorer) RankByMood(moodName string, candidates []*models.Song, profile *models.UserMusicProfile, limit int) ([]RecommendedSong, error) {
	mood, err := MoodByName(moodName)
	if err != nil {
		return nil, err
	}

	ranked := s.rank(candidates, limit, func(candidate *models.Song) (float64, []string) {
		return s.scoreForMood(candidate, mood, profile)
	})
	return ranked, nil
}

func (s *Scorer) scoreForMood(candidate *models.Song, mood Mood, profile *models.UserMusicProfile) (float64, []string) {
	if candidate == nil {
		return 0, nil
	}

	tuning := s.tuning()
	score := 0.0
	var reasons []string

	if mood.matchesGenre(candidate.Genre) {
		score += moodGenreBase
		reasons = append(reasons, fmt.Sprintf("genre fits %s mood", mood.Name))
	}
	if candidate.HasAudioFeatures() {
		if mood.tempoInRange(candidate.AudioFeatures.TempoBPM) {
			score += moodFeatureBase
			reasons = append(reasons, fmt.Sprintf("tempo in %s range", mood.Name))
		}
		if similarity.FeaturesMatch(mood.features(), candidate.AudioFeatures) {
			score += moodFeatureBase
			reasons = append(reasons, fmt.Sprintf("sound profile fits %s mood", mood.Name))
		}
	}

	if profile != nil {
		if genre, ok := matchAny(candidate.Genre, profile.FavoriteGenres); ok {
			score += tuning.GenreBonus
			reasons = append(reasons, fmt.Sprintf("matches favorite genre %q", genre))
		}
		if artist, ok := matchAny(candidate.Artist, profile.FavoriteArtists); ok {
			score += tuning.ArtistBonus
			reasons = append(reasons, fmt.Sprintf("by favorite artist %q", artist))
		}
	}

	return clamp01(score), reasons
}

// rank deduplicates, scores, filters and sorts a candidate pool
func (s *Scorer) rank(candidates []*models.Song, limit int, score func(*models.Song) (float64, []string)) []RecommendedSong {
	floor := s.tuning().MinRecommendationScore
	seen := make(map[string]bool, len(candidates))
	var ranked []RecommendedSong

	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		key := strings.ToLower(candidate.Title) + "\x00" + strings.ToLower(candidate.Artist)
		if seen[key] {
			continue
		}
		seen[key] = true

		value, reasons := score(candidate)
		if value < floor {
			continue
		}
		ranked = append(ranked, RecommendedSong{Song: candidate, Score: value, Reasons: reasons})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// profileFeatures builds a reference vector from the profile's preferred
// axes. The profile carries no danceability preference, so that axis
// mirrors the candidate and contributes nothing to the distance.
func profileFeatures(profile *models.UserMusicProfile, candidate *models.Song) *models.AudioFeatures {
	if profile.PreferredTempo == 0 && profile.PreferredEnergy == 0 && profile.PreferredValence == 0 {
		return nil
	}
	reference := &models.AudioFeatures{
		Energy:   profile.PreferredEnergy,
		Valence:  profile.PreferredValence,
		TempoBPM: profile.PreferredTempo,
	}
	if candidate.HasAudioFeatures() {
		reference.Danceability = candidate.AudioFeatures.Danceability
	}
	return reference
}

func matchAny(value string, favorites []string) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", false
	}
	for _, favorite := range favorites {
		if strings.Contains(value, strings.ToLower(favorite)) {
			return favorite, true
		}
	}
	return "", false
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
