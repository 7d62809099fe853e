package similarity

import (
	"tunebridge/internal/models"
)

const (
	// Per-axis tolerance for the boolean characteristic match
	featureTolerance = 0.2

	// MinAudioScore is the floor below which a scored candidate is
	// discarded from ranked output
	MinAudioScore = 0.3

	// Fallback reference tempo when the reference vector carries none
	defaultTempoBPM = 120
)

// FeaturesMatch reports whether a candidate's audio profile is close enough
// to the reference to count as a characteristic match: danceability, energy
// and valence must each be within the tolerance. A missing vector on either
// side never matches.
func FeaturesMatch(reference, candidate *models.AudioFeatures) bool {
	if reference == nil || candidate == nil {
		return false
	}
	return absF(reference.Danceability-candidate.Danceability) <= featureTolerance &&
		absF(reference.Energy-candidate.Energy) <= featureTolerance &&
		absF(reference.Valence-candidate.Valence) <= featureTolerance
}

// FeatureScore returns a soft similarity score in [0,1] between two audio
// feature vectors, suitable for ranking. The tempo delta is normalized by
// the reference tempo so that fast and slow songs are penalized
// proportionally. The second return value is false when either vector is
// absent or the score falls at or below MinAudioScore; such candidates are
// omitted from ranked output.
func FeatureScore(reference, candidate *models.AudioFeatures) (float64, bool) {
	if reference == nil || candidate == nil {
		return 0, false
	}

	refTempo := reference.TempoBPM
	if refTempo <= 0 {
		refTempo = defaultTempoBPM
	}

	distance := absF(reference.Danceability-candidate.Danceability) +
		absF(reference.Energy-candidate.Energy) +
		absF(reference.Valence-candidate.Valence) +
		absF(reference.TempoBPM-candidate.TempoBPM)/refTempo

	score := clamp01(1 - distance/4)
	if score <= MinAudioScore {
		return score, false
	}
	return score, true
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
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
