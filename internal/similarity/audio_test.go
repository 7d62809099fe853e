package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tunebridge/internal/models"
)

func features(danceability, energy, valence, tempo float64) *models.AudioFeatures {
	return &models.AudioFeatures{
		Danceability: danceability,
		Energy:       energy,
		Valence:      valence,
		TempoBPM:     tempo,
	}
}

func TestFeaturesMatch_WithinTolerance(t *testing.T) {
	reference := features(0.5, 0.5, 0.5, 120)

	assert.True(t, FeaturesMatch(reference, features(0.5, 0.5, 0.5, 120)))
	assert.True(t, FeaturesMatch(reference, features(0.7, 0.3, 0.6, 90)), "each axis exactly at tolerance")
}

func TestFeaturesMatch_OutsideTolerance(t *testing.T) {
	reference := features(0.5, 0.5, 0.5, 120)

	assert.False(t, FeaturesMatch(reference, features(0.75, 0.5, 0.5, 120)), "danceability off")
	assert.False(t, FeaturesMatch(reference, features(0.5, 0.21, 0.5, 120)), "energy off")
	assert.False(t, FeaturesMatch(reference, features(0.5, 0.5, 0.9, 120)), "valence off")
}

func TestFeaturesMatch_MissingVector(t *testing.T) {
	reference := features(0.5, 0.5, 0.5, 120)

	assert.False(t, FeaturesMatch(nil, reference))
	assert.False(t, FeaturesMatch(reference, nil))
	assert.False(t, FeaturesMatch(nil, nil))
}

func TestFeatureScore_IdenticalVectors(t *testing.T) {
	reference := features(0.6, 0.7, 0.4, 128)

	score, ok := FeatureScore(reference, reference)
	assert.True(t, ok)
	assert.Equal(t, 1.0, score)
}

func TestFeatureScore_MissingVector(t *testing.T) {
	reference := features(0.6, 0.7, 0.4, 128)

	score, ok := FeatureScore(reference, nil)
	assert.False(t, ok)
	assert.Equal(t, 0.0, score)

	_, ok = FeatureScore(nil, reference)
	assert.False(t, ok)
}

func TestFeatureScore_DiscardFloor(t *testing.T) {
	reference := features(0.0, 0.0, 0.0, 60)
	distant := features(1.0, 1.0, 1.0, 180)

	// Distance (1 + 1 + 1 + 2) / 4 = 1.25, clamped score 0
	score, ok := FeatureScore(reference, distant)
	assert.False(t, ok, "candidates at or below the floor are discarded")
	assert.LessOrEqual(t, score, MinAudioScore)
}

func TestFeatureScore_TempoNormalizedByReference(t *testing.T) {
	reference := features(0.5, 0.5, 0.5, 100)
	candidate := features(0.5, 0.5, 0.5, 150)

	// Only the tempo axis differs: 50/100 / 4 = 0.125
	score, ok := FeatureScore(reference, candidate)
	assert.True(t, ok)
	assert.InDelta(t, 0.875, score, 1e-9)
}

func TestFeatureScore_ZeroReferenceTempoFallsBack(t *testing.T) {
	reference := features(0.5, 0.5, 0.5, 0)
	candidate := features(0.5, 0.5, 0.5, 120)

	// Fallback reference tempo is 120, so the delta is a full unit
	score, ok := FeatureScore(reference, candidate)
	assert.True(t, ok)
	assert.InDelta(t, 0.75, score, 1e-9)
}
