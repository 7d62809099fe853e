package matching

import (
	"testing"

	"tunebridge/internal/config"
	"tunebridge/internal/models"
)

func BenchmarkMatcher_Confidence(b *testing.B) {
	matcher := NewMatcher(config.StaticTuning(nil))

	source := models.NewSong("Imagine", "John Lennon", "spotify", "src-1")
	source.DurationSeconds = 183
	source.ReleaseYear = 1971

	candidate := models.NewSong("Imagine (Remastered 2010)", "John Lennon", "apple_music", "am-1")
	candidate.DurationSeconds = 188
	candidate.ReleaseYear = 2010

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		matcher.Confidence(source, candidate)
	}
}

func BenchmarkMatcher_Confidence_Parallel(b *testing.B) {
	matcher := NewMatcher(config.StaticTuning(nil))

	source := models.NewSong("Bohemian Rhapsody", "Queen", "spotify", "src-1")
	source.DurationSeconds = 354

	candidate := models.NewSong("Bohemian Rhapsody - Live Aid", "Queen", "apple_music", "am-1")
	candidate.DurationSeconds = 360

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			matcher.Confidence(source, candidate)
		}
	})
}

func BenchmarkPlanQueries(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		PlanQueries("Imagine (Remastered 2010)", "John Lennon", "Imagine")
	}
}
