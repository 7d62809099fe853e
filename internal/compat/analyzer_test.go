package compat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunebridge/internal/config"
	"tunebridge/internal/models"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(config.StaticTuning(nil))
}

func testSong(title, genre string, year, duration int) *models.Song {
	song := models.NewSong(title, "Test Artist", "apple_music", "track-"+title)
	song.Genre = genre
	song.ReleaseYear = year
	song.DurationSeconds = duration
	return song
}

func TestAnalyzer_Analyze_FriendlyPlaylist(t *testing.T) {
	songs := []*models.Song{
		testSong("One", "pop", 2015, 210),
		testSong("Two", "rock", 2018, 195),
		testSong("Three", "electronic", 2020, 240),
	}

	report := newTestAnalyzer().Analyze(songs, "spotify")

	assert.Equal(t, 1.0, report.Score)
	assert.Equal(t, 3, report.EstimatedMatchCount)
	assert.Empty(t, report.Issues)
}

func TestAnalyzer_Analyze_ScoreAlwaysInRange(t *testing.T) {
	playlists := [][]*models.Song{
		{},
		{testSong("One", "pop", 2015, 210)},
		{testSong("One", "classical", 1961, 540), testSong("Two", "opera", 1958, 620)},
	}
	for i, songs := range playlists {
		report := newTestAnalyzer().Analyze(songs, "spotify")
		assert.GreaterOrEqual(t, report.Score, 0.0, "playlist %d", i)
		assert.LessOrEqual(t, report.Score, 1.0, "playlist %d", i)
	}
}

func TestAnalyzer_Analyze_OldLongClassicalPlaylistScoresBelowGate(t *testing.T) {
	// Only 1960s nine-minute classical recordings: every song takes the
	// genre penalty, plus the old-era and long-form penalties
	var songs []*models.Song
	for i := 0; i < 8; i++ {
		songs = append(songs, testSong(fmt.Sprintf("Symphony %d", i), "classical", 1960+i, 540))
	}

	analyzer := newTestAnalyzer()
	report := analyzer.Analyze(songs, "spotify")

	assert.Less(t, report.Score, 0.3)
	assert.Less(t, report.Score, analyzer.MinScore())
	assert.NotEmpty(t, report.Issues)
}

func TestAnalyzer_Analyze_EmptyPlaylist(t *testing.T) {
	report := newTestAnalyzer().Analyze(nil, "spotify")

	assert.Equal(t, 0.0, report.Score)
	assert.Equal(t, 0, report.EstimatedMatchCount)
	assert.Contains(t, report.Issues, "playlist has no songs")
}

func TestAnalyzer_Analyze_PerSongGenrePenalty(t *testing.T) {
	one := []*models.Song{
		testSong("One", "classical", 2015, 200),
		testSong("Two", "pop", 2015, 200),
	}
	two := []*models.Song{
		testSong("One", "classical", 2015, 200),
		testSong("Two", "classical crossover", 2015, 200),
	}

	analyzer := newTestAnalyzer()
	assert.Greater(t, analyzer.Analyze(one, "spotify").Score, analyzer.Analyze(two, "spotify").Score,
		"each unfriendly song subtracts its own penalty")
}

func TestAnalyzer_Analyze_GenreIssueCountsSongs(t *testing.T) {
	songs := []*models.Song{
		testSong("One", "classical", 2015, 200),
		testSong("Two", "classical", 2016, 200),
		testSong("Three", "pop", 2016, 200),
	}

	report := newTestAnalyzer().Analyze(songs, "spotify")

	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0], "2 song(s)")
	assert.Contains(t, report.Issues[0], "classical")
}

func TestAnalyzer_Analyze_GenresAreCatalogSpecific(t *testing.T) {
	songs := []*models.Song{
		testSong("One", "classical", 2015, 200),
	}

	analyzer := newTestAnalyzer()
	assert.Less(t, analyzer.Analyze(songs, "spotify").Score, 1.0)
	assert.Equal(t, 1.0, analyzer.Analyze(songs, "apple_music").Score,
		"classical is only penalized where the target catalog matches it poorly")
}

func TestAnalyzer_Analyze_OldEraPenalty(t *testing.T) {
	songs := []*models.Song{
		testSong("One", "rock", 1967, 200),
		testSong("Two", "rock", 1969, 200),
	}

	report := newTestAnalyzer().Analyze(songs, "spotify")

	assert.InDelta(t, 0.8, report.Score, 1e-9)
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0], "average release year")
}

func TestAnalyzer_Analyze_UnknownYearsSkipEraPenalty(t *testing.T) {
	songs := []*models.Song{
		testSong("One", "rock", 0, 200),
		testSong("Two", "rock", 0, 200),
	}

	report := newTestAnalyzer().Analyze(songs, "spotify")
	assert.Equal(t, 1.0, report.Score)
}

func TestAnalyzer_Analyze_LongDurationPenalty(t *testing.T) {
	songs := []*models.Song{
		testSong("One", "rock", 2015, 700),
		testSong("Two", "rock", 2016, 650),
	}

	report := newTestAnalyzer().Analyze(songs, "spotify")

	assert.InDelta(t, 0.9, report.Score, 1e-9)
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0], "average duration")
}

func TestAnalyzer_Analyze_EstimatedMatchCountFloors(t *testing.T) {
	songs := []*models.Song{
		testSong("One", "rock", 1967, 200),
		testSong("Two", "rock", 1969, 200),
		testSong("Three", "rock", 1966, 200),
	}

	// Score 0.8 over 3 songs floors to 2
	report := newTestAnalyzer().Analyze(songs, "spotify")
	assert.Equal(t, 2, report.EstimatedMatchCount)
}
