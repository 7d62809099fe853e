package recommend

import (
	"fmt"
	"strings"

	"tunebridge/internal/models"
)

// Mood describes a listening context as target genres, a tempo range and a
// characteristic audio profile (danceability and valence centers, energy
// range). Mood-seeded recommendations score candidates against these
// before any user-profile bonuses are merged in.
type Mood struct {
	Name         string
	Genres       []string
	TempoMin     float64
	TempoMax     float64
	EnergyMin    float64
	EnergyMax    float64
	Danceability float64
	Valence      float64
}

var moodCatalog = map[string]Mood{
	"workout": {
		Name:         "workout",
		Genres:       []string{"electronic", "hip hop", "dance", "pop"},
		TempoMin:     120,
		TempoMax:     180,
		EnergyMin:    0.7,
		EnergyMax:    1.0,
		Danceability: 0.7,
		Valence:      0.6,
	},
	"chill": {
		Name:         "chill",
		Genres:       []string{"lo-fi", "ambient", "acoustic", "jazz"},
		TempoMin:     60,
		TempoMax:     110,
		EnergyMin:    0.0,
		EnergyMax:    0.5,
		Danceability: 0.4,
		Valence:      0.5,
	},
	"focus": {
		Name:         "focus",
		Genres:       []string{"classical", "ambient", "instrumental"},
		TempoMin:     50,
		TempoMax:     120,
		EnergyMin:    0.0,
		EnergyMax:    0.4,
		Danceability: 0.3,
		Valence:      0.4,
	},
	"party": {
		Name:         "party",
		Genres:       []string{"dance", "pop", "house", "reggaeton"},
		TempoMin:     100,
		TempoMax:     140,
		EnergyMin:    0.6,
		EnergyMax:    1.0,
		Danceability: 0.85,
		Valence:      0.75,
	},
	"sleep": {
		Name:         "sleep",
		Genres:       []string{"ambient", "classical", "new age"},
		TempoMin:     40,
		TempoMax:     80,
		EnergyMin:    0.0,
		EnergyMax:    0.25,
		Danceability: 0.2,
		Valence:      0.3,
	},
}

// MoodByName looks up a mood case-insensitively. The returned value is a
// copy; callers cannot mutate the catalog.
func MoodByName(name string) (Mood, error) {
	mood, ok := moodCatalog[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Mood{}, fmt.Errorf("unknown mood %q", name)
	}
	copied := mood
	copied.Genres = append([]string(nil), mood.Genres...)
	return copied, nil
}

// MoodNames returns the names of all known moods
func MoodNames() []string {
	names := make([]string, 0, len(moodCatalog))
	for name := range moodCatalog {
		names = append(names, name)
	}
	return names
}

// matchesGenre reports whether a song genre falls under the mood, matching
// on substring so "indie pop" counts for "pop"
func (m Mood) matchesGenre(genre string) bool {
	genre = strings.ToLower(genre)
	if genre == "" {
		return false
	}
	for _, moodGenre := range m.Genres {
		if strings.Contains(genre, moodGenre) {
			return true
		}
	}
	return false
}

func (m Mood) tempoInRange(tempo float64) bool {
	return tempo >= m.TempoMin && tempo <= m.TempoMax
}

// features returns the mood's characteristic audio profile, with energy
// centered in the mood's range. Tempo is checked separately against the
// full range.
func (m Mood) features() *models.AudioFeatures {
	return &models.AudioFeatures{
		Danceability: m.Danceability,
		Energy:       (m.EnergyMin + m.EnergyMax) / 2,
		Valence:      m.Valence,
	}
}
