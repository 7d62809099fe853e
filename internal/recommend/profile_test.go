package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunebridge/internal/models"
)

func profileSong(title, artist, genre string, duration int) *models.Song {
	song := models.NewSong(title, artist, "spotify", "track-"+title)
	song.Genre = genre
	song.DurationSeconds = duration
	return song
}

func TestBuildProfile_EmptyHistory(t *testing.T) {
	profile := BuildProfile("user-1", nil)

	require.NotNil(t, profile)
	assert.Equal(t, "user-1", profile.UserID)
	assert.Equal(t, 0, profile.SongCount)
	assert.Empty(t, profile.FavoriteGenres)
	assert.Empty(t, profile.FavoriteArtists)
}

func TestBuildProfile_FrequencyRanking(t *testing.T) {
	songs := []*models.Song{
		profileSong("One", "Artist A", "rock", 200),
		profileSong("Two", "Artist A", "rock", 210),
		profileSong("Three", "Artist B", "rock", 190),
		profileSong("Four", "Artist B", "pop", 205),
		profileSong("Five", "Artist C", "pop", 195),
		profileSong("Six", "Artist A", "jazz", 230),
	}

	profile := BuildProfile("user-1", songs)

	assert.Equal(t, 6, profile.SongCount)
	require.NotEmpty(t, profile.FavoriteGenres)
	assert.Equal(t, "rock", profile.FavoriteGenres[0], "most frequent genre ranks first")
	assert.Equal(t, "Artist A", profile.FavoriteArtists[0])
}

func TestBuildProfile_CapsFavorites(t *testing.T) {
	var songs []*models.Song
	genres := []string{"rock", "pop", "jazz", "blues", "folk", "metal", "house"}
	for i, genre := range genres {
		songs = append(songs, profileSong(genre+"-song", "Artist "+string(rune('A'+i)), genre, 200))
	}
	for i := 0; i < 12; i++ {
		songs = append(songs, profileSong("Extra", "Artist "+string(rune('a'+i)), "rock", 200))
	}

	profile := BuildProfile("user-1", songs)

	assert.LessOrEqual(t, len(profile.FavoriteGenres), 5)
	assert.LessOrEqual(t, len(profile.FavoriteArtists), 10)
}

func TestBuildProfile_CaseInsensitiveCounting(t *testing.T) {
	songs := []*models.Song{
		profileSong("One", "the beatles", "Rock", 200),
		profileSong("Two", "The Beatles", "rock", 210),
		profileSong("Three", "The Beatles", "ROCK", 190),
		profileSong("Four", "Someone", "pop", 190),
		profileSong("Five", "Someone", "pop", 190),
	}

	profile := BuildProfile("user-1", songs)

	assert.Equal(t, "Rock", profile.FavoriteGenres[0], "casing variants count as one genre")
	assert.Equal(t, "the beatles", profile.FavoriteArtists[0], "first-seen casing is kept")
}

func TestBuildProfile_AveragesAudioFeatures(t *testing.T) {
	withFeatures := profileSong("One", "A", "rock", 200)
	withFeatures.AudioFeatures = &models.AudioFeatures{TempoBPM: 120, Energy: 0.8, Valence: 0.6}
	alsoFeatures := profileSong("Two", "B", "rock", 100)
	alsoFeatures.AudioFeatures = &models.AudioFeatures{TempoBPM: 100, Energy: 0.4, Valence: 0.2}
	noFeatures := profileSong("Three", "C", "rock", 300)

	profile := BuildProfile("user-1", []*models.Song{withFeatures, alsoFeatures, noFeatures})

	assert.InDelta(t, 110, profile.PreferredTempo, 1e-9, "only songs with features feed the averages")
	assert.InDelta(t, 0.6, profile.PreferredEnergy, 1e-9)
	assert.InDelta(t, 0.4, profile.PreferredValence, 1e-9)
	assert.InDelta(t, 200, profile.AverageDuration, 1e-9)
}

func TestBuildProfile_SkipsBlankFields(t *testing.T) {
	songs := []*models.Song{
		profileSong("One", "", "", 200),
		profileSong("Two", "Artist A", "rock", 200),
	}

	profile := BuildProfile("user-1", songs)

	assert.Equal(t, []string{"rock"}, profile.FavoriteGenres)
	assert.Equal(t, []string{"Artist A"}, profile.FavoriteArtists)
}
