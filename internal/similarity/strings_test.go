package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_IdenticalStrings(t *testing.T) {
	for _, s := range []string{"Imagine", "a", "Bohemian Rhapsody", "99 Luftballons"} {
		assert.Equal(t, 1.0, String(s, s), "identical strings must score 1.0: %q", s)
	}
}

func TestString_BothEmpty(t *testing.T) {
	assert.Equal(t, 1.0, String("", ""))
}

func TestString_OneEmpty(t *testing.T) {
	assert.Equal(t, 0.0, String("Imagine", ""))
	assert.Equal(t, 0.0, String("", "Imagine"))
}

func TestString_CaseInsensitive(t *testing.T) {
	assert.Equal(t, 1.0, String("IMAGINE", "imagine"))
	assert.Equal(t, 1.0, String("Hey Jude", "hey jude"))
}

func TestString_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Imagine", "Imagine (Remastered)"},
		{"The Beatles", "Beatles"},
		{"", "something"},
		{"abc", "xyz"},
	}
	for _, pair := range pairs {
		assert.Equal(t, String(pair[0], pair[1]), String(pair[1], pair[0]),
			"similarity must be symmetric for %q / %q", pair[0], pair[1])
	}
}

func TestString_KnownDistance(t *testing.T) {
	// One substitution over four characters
	assert.InDelta(t, 0.75, String("kitt", "mitt"), 1e-9)

	// "Imagine" vs "Imagine (Remastered)": 13 edits over max length 20
	assert.InDelta(t, 7.0/20.0, String("Imagine", "Imagine (Remastered)"), 1e-9)
}

func TestString_RangeBounds(t *testing.T) {
	pairs := [][2]string{
		{"a", "completely different string"},
		{"short", "loooooooooooong"},
		{"same", "same"},
	}
	for _, pair := range pairs {
		score := String(pair[0], pair[1])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestDuration_ExactMatch(t *testing.T) {
	assert.Equal(t, 1.0, Duration(183, 183))
}

func TestDuration_RelativeToReference(t *testing.T) {
	// 10% off the reference costs 10%
	assert.InDelta(t, 0.9, Duration(200, 180), 1e-9)
	assert.InDelta(t, 0.9, Duration(200, 220), 1e-9)
}

func TestDuration_FloorsAtZero(t *testing.T) {
	assert.Equal(t, 0.0, Duration(100, 300))
}

func TestDuration_InvalidReference(t *testing.T) {
	assert.Equal(t, 0.0, Duration(0, 180))
	assert.Equal(t, 0.0, Duration(-5, 180))
}

func TestYear_SameYear(t *testing.T) {
	assert.Equal(t, 1.0, Year(1971, 1971))
}

func TestYear_DecayPerYear(t *testing.T) {
	assert.InDelta(t, 0.9, Year(1971, 1972), 1e-9)
	assert.InDelta(t, 0.5, Year(1971, 1976), 1e-9)
}

func TestYear_BeyondDecade(t *testing.T) {
	assert.Equal(t, 0.0, Year(1960, 1990))
}
