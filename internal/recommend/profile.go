package recommend

import (
	"sort"
	"strings"
	"time"

	"tunebridge/internal/models"
)

const (
	maxFavoriteGenres  = 5
	maxFavoriteArtists = 10
)

// BuildProfile derives a taste profile from a user's song history. The
// profile is recomputable at any time and is never a source of truth:
// favorite genres and artists are frequency-ranked with ties broken by
// first appearance, and the preferred audio axes are averages over the
// songs that carry feature vectors.
func BuildProfile(userID string, songs []*models.Song) *models.UserMusicProfile {
	profile := &models.UserMusicProfile{
		UserID:      userID,
		SongCount:   len(songs),
		GeneratedAt: time.Now(),
	}
	if len(songs) == 0 {
		return profile
	}

	genres := newFrequencyCounter()
	artists := newFrequencyCounter()

	var totalDuration int
	var tempoSum, energySum, valenceSum float64
	featured := 0

	for _, song := range songs {
		genres.Add(song.Genre)
		artists.Add(song.Artist)
		totalDuration += song.DurationSeconds

		if song.HasAudioFeatures() {
			tempoSum += song.AudioFeatures.TempoBPM
			energySum += song.AudioFeatures.Energy
			valenceSum += song.AudioFeatures.Valence
			featured++
		}
	}

	profile.FavoriteGenres = genres.Top(maxFavoriteGenres)
	profile.FavoriteArtists = artists.Top(maxFavoriteArtists)
	profile.AverageDuration = float64(totalDuration) / float64(len(songs))

	if featured > 0 {
		profile.PreferredTempo = tempoSum / float64(featured)
		profile.PreferredEnergy = energySum / float64(featured)
		profile.PreferredValence = valenceSum / float64(featured)
	}

	return profile
}

// frequencyCounter ranks case-insensitive string occurrences while
// remembering each value's original casing and first-seen position for
// stable tie-breaking.
type frequencyCounter struct {
	counts    map[string]int
	display   map[string]string
	firstSeen map[string]int
	next      int
}

func newFrequencyCounter() *frequencyCounter {
	return &frequencyCounter{
		counts:    make(map[string]int),
		display:   make(map[string]string),
		firstSeen: make(map[string]int),
	}
}

func (c *frequencyCounter) Add(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	key := strings.ToLower(value)
	if _, seen := c.counts[key]; !seen {
		c.display[key] = value
		c.firstSeen[key] = c.next
		c.next++
	}
	c.counts[key]++
}

// Top returns the n most frequent values in their original casing
func (c *frequencyCounter) Top(n int) []string {
	keys := make([]string, 0, len(c.counts))
	for key := range c.counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if c.counts[keys[i]] != c.counts[keys[j]] {
			return c.counts[keys[i]] > c.counts[keys[j]]
		}
		return c.firstSeen[keys[i]] < c.firstSeen[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	top := make([]string, len(keys))
	for i, key := range keys {
		top[i] = c.display[key]
	}
	return top
}
