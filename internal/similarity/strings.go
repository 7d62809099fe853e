package similarity

import (
	"strings"

	"github.com/xrash/smetrics"
)

// String returns a normalized similarity score in [0,1] between two strings,
// computed as (maxLen - levenshtein(a,b)) / maxLen over the lower-cased
// inputs. Two empty strings are identical, so the score is 1.0. The score
// is symmetric.
func String(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}

	distance := smetrics.WagnerFischer(a, b, 1, 1, 1)
	return float64(maxLen-distance) / float64(maxLen)
}

// Duration returns a similarity score in [0,1] between two track durations
// in seconds, relative to the reference duration. Zero or negative
// reference durations score 0 because there is nothing to compare against.
func Duration(referenceSeconds, candidateSeconds int) float64 {
	if referenceSeconds <= 0 {
		return 0
	}
	delta := referenceSeconds - candidateSeconds
	if delta < 0 {
		delta = -delta
	}
	score := 1 - float64(delta)/float64(referenceSeconds)
	if score < 0 {
		return 0
	}
	return score
}

// Year returns a similarity score in [0,1] between two release years.
// Each year of distance costs 0.1; a decade or more apart scores 0.
func Year(a, b int) float64 {
	delta := a - b
	if delta < 0 {
		delta = -delta
	}
	score := 1 - float64(delta)/10
	if score < 0 {
		return 0
	}
	return score
}
