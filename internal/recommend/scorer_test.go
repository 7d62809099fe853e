package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunebridge/internal/config"
	"tunebridge/internal/models"
)

func newTestScorer() *Scorer {
	return NewScorer(config.StaticTuning(nil))
}

func testProfile() *models.UserMusicProfile {
	return &models.UserMusicProfile{
		UserID:           "user-1",
		FavoriteGenres:   []string{"rock", "indie"},
		FavoriteArtists:  []string{"The Beatles", "Radiohead"},
		PreferredTempo:   120,
		PreferredEnergy:  0.7,
		PreferredValence: 0.5,
		SongCount:        40,
		GeneratedAt:      time.Now(),
	}
}

func candidate(title, artist, genre, trackID string) *models.Song {
	song := models.NewSong(title, artist, "spotify", trackID)
	song.Genre = genre
	return song
}

func TestScorer_Score_GenreAndArtistBonuses(t *testing.T) {
	scorer := newTestScorer()
	profile := testProfile()

	score, reasons := scorer.Score(candidate("Creep", "Radiohead", "rock", "t1"), profile)

	assert.InDelta(t, 0.55, score, 1e-9, "genre bonus plus artist bonus")
	require.Len(t, reasons, 2)
	assert.Contains(t, reasons[0], "rock")
	assert.Contains(t, reasons[1], "Radiohead")
}

func TestScorer_Score_NoSignals(t *testing.T) {
	scorer := newTestScorer()

	score, reasons := scorer.Score(candidate("Song", "Unknown", "polka", "t1"), testProfile())

	assert.Equal(t, 0.0, score)
	assert.Empty(t, reasons)
}

func TestScorer_Score_AudioContribution(t *testing.T) {
	scorer := newTestScorer()
	profile := testProfile()

	song := candidate("Song", "Unknown", "polka", "t1")
	song.AudioFeatures = &models.AudioFeatures{TempoBPM: 120, Energy: 0.7, Valence: 0.5}

	score, reasons := scorer.Score(song, profile)

	assert.Greater(t, score, 0.0, "a close audio profile scores without genre or artist hits")
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "audio profile")
}

func TestScorer_Score_ClampedToOne(t *testing.T) {
	scorer := newTestScorer()
	profile := testProfile()

	song := candidate("Creep", "Radiohead", "rock", "t1")
	song.AudioFeatures = &models.AudioFeatures{TempoBPM: 120, Energy: 0.7, Valence: 0.5}

	score, _ := scorer.Score(song, profile)

	assert.LessOrEqual(t, score, 1.0)
	assert.GreaterOrEqual(t, score, 0.0)
}

func TestScorer_Score_NilInputs(t *testing.T) {
	scorer := newTestScorer()

	score, reasons := scorer.Score(nil, testProfile())
	assert.Equal(t, 0.0, score)
	assert.Empty(t, reasons)

	score, _ = scorer.Score(candidate("Song", "A", "rock", "t1"), nil)
	assert.Equal(t, 0.0, score)
}

func TestScorer_Rank_DeduplicatesFirstSeen(t *testing.T) {
	scorer := newTestScorer()
	profile := testProfile()

	pool := []*models.Song{
		candidate("Creep", "Radiohead", "rock", "spotify-1"),
		candidate("creep", "RADIOHEAD", "alternative", "apple-9"),
		candidate("Karma Police", "Radiohead", "rock", "spotify-2"),
	}

	ranked := scorer.Rank(pool, profile, 10)

	require.Len(t, ranked, 2, "same (title, artist) from two catalogs collapses to one")
	for _, recommendation := range ranked {
		if recommendation.Song.Title == "Creep" {
			assert.Equal(t, "spotify-1", recommendation.Song.CatalogTrackID, "first occurrence wins")
		}
	}
}

func TestScorer_Rank_SortedDescending(t *testing.T) {
	scorer := newTestScorer()
	profile := testProfile()

	pool := []*models.Song{
		candidate("Weak Signal", "Nobody", "rock", "t1"),     // genre only
		candidate("Strong Signal", "Radiohead", "rock", "t2"), // genre + artist
	}

	ranked := scorer.Rank(pool, profile, 10)

	require.Len(t, ranked, 2)
	assert.Equal(t, "Strong Signal", ranked[0].Song.Title)
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
}

func TestScorer_Rank_DropsBelowFloor(t *testing.T) {
	scorer := newTestScorer()
	profile := testProfile()

	pool := []*models.Song{
		candidate("No Signal", "Nobody", "polka", "t1"),
		candidate("Good Signal", "Radiohead", "rock", "t2"),
	}

	ranked := scorer.Rank(pool, profile, 10)

	require.Len(t, ranked, 1)
	assert.Equal(t, "Good Signal", ranked[0].Song.Title)
}

func TestScorer_Rank_HonorsLimit(t *testing.T) {
	scorer := newTestScorer()
	profile := testProfile()

	pool := []*models.Song{
		candidate("One", "Radiohead", "rock", "t1"),
		candidate("Two", "Radiohead", "rock", "t2"),
		candidate("Three", "Radiohead", "rock", "t3"),
	}

	assert.Len(t, scorer.Rank(pool, profile, 2), 2)
}

func TestScorer_RankByMood_UnknownMood(t *testing.T) {
	scorer := newTestScorer()

	_, err := scorer.RankByMood("melancholic-typo", nil, nil, 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mood")
}

func TestScorer_RankByMood_GenreAndFeatureSeed(t *testing.T) {
	scorer := newTestScorer()

	fit := candidate("Pump It", "DJ Test", "electronic", "t1")
	fit.AudioFeatures = &models.AudioFeatures{TempoBPM: 150, Danceability: 0.8, Energy: 0.9, Valence: 0.6}
	misfit := candidate("Lullaby", "Slowpoke", "ambient", "t2")
	misfit.AudioFeatures = &models.AudioFeatures{TempoBPM: 60, Danceability: 0.1, Energy: 0.1, Valence: 0.2}

	ranked, err := scorer.RankByMood("workout", []*models.Song{misfit, fit}, nil, 10)

	require.NoError(t, err)
	require.Len(t, ranked, 1, "only the mood-fitting candidate clears the floor")
	assert.Equal(t, "Pump It", ranked[0].Song.Title)
	assert.InDelta(t, 0.7, ranked[0].Score, 1e-9, "genre base plus tempo and sound profile hits")
}

func TestScorer_RankByMood_SoundProfileTolerance(t *testing.T) {
	scorer := newTestScorer()

	// Tempo and energy suit a workout, but the gloomy valence falls outside
	// the characteristic tolerance, so only the tempo contribution is added
	gloomy := candidate("Grind", "DJ Test", "electronic", "t1")
	gloomy.AudioFeatures = &models.AudioFeatures{TempoBPM: 150, Danceability: 0.8, Energy: 0.9, Valence: 0.1}

	ranked, err := scorer.RankByMood("workout", []*models.Song{gloomy}, nil, 10)

	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.InDelta(t, 0.55, ranked[0].Score, 1e-9, "genre base plus tempo hit, no sound profile bonus")
	for _, reason := range ranked[0].Reasons {
		assert.NotContains(t, reason, "sound profile")
	}
}

func TestScorer_RankByMood_MergesProfileBonuses(t *testing.T) {
	scorer := newTestScorer()
	profile := testProfile()

	song := candidate("Paranoid Android", "Radiohead", "dance", "t1")

	withProfile, err := scorer.RankByMood("party", []*models.Song{song}, profile, 10)
	require.NoError(t, err)
	without, err := scorer.RankByMood("party", []*models.Song{song}, nil, 10)
	require.NoError(t, err)

	require.Len(t, withProfile, 1)
	require.Len(t, without, 1)
	assert.Greater(t, withProfile[0].Score, without[0].Score, "favorite-artist bonus merges on top of the mood base")
}

func TestMoodByName_CaseInsensitiveAndCopied(t *testing.T) {
	mood, err := MoodByName("  WORKOUT ")
	require.NoError(t, err)
	assert.Equal(t, "workout", mood.Name)

	mood.Genres[0] = "mutated"
	again, err := MoodByName("workout")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Genres[0], "catalog entries are copies")
}
