package config

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// TuningConfig holds the tunable weights and thresholds for song matching,
// compatibility analysis and recommendation scoring. The defaults are the
// shipped heuristics; operators can override any subset via TOML.
type TuningConfig struct {
	// Weighted confidence components for song matching. Weights sum to 1;
	// the year weight is simply not added when either release year is
	// unknown, capping achievable confidence at 0.9 in that case.
	TitleWeight    float64 `toml:"title_weight"`
	ArtistWeight   float64 `toml:"artist_weight"`
	DurationWeight float64 `toml:"duration_weight"`
	YearWeight     float64 `toml:"year_weight"`

	// Confidence above this counts as an exact match
	ExactMatchThreshold float64 `toml:"exact_match_threshold"`

	// Candidates requested per search query variant
	MaxResultsPerQuery int `toml:"max_results_per_query"`

	// Pre-flight compatibility gate: conversions scoring below the
	// minimum are rejected before any per-song lookups
	MinCompatibilityScore float64 `toml:"min_compatibility_score"`

	// Per-signal compatibility penalties
	GenrePenalty        float64 `toml:"genre_penalty"`
	OldCatalogYear      int     `toml:"old_catalog_year"`
	OldCatalogPenalty   float64 `toml:"old_catalog_penalty"`
	LongDurationSeconds int     `toml:"long_duration_seconds"`
	LongDurationPenalty float64 `toml:"long_duration_penalty"`

	// Genre keywords each catalog is known to match poorly. Illustrative
	// heuristics, not ground truth; override per deployment.
	UnfriendlyGenres map[string][]string `toml:"unfriendly_genres"`

	// Conversion worker pool
	WorkerCount          int     `toml:"worker_count"`
	SearchTimeoutSeconds int     `toml:"search_timeout_seconds"`
	SearchesPerSecond    float64 `toml:"searches_per_second"`

	// Recommendation scoring contributions
	GenreBonus             float64 `toml:"genre_bonus"`
	ArtistBonus            float64 `toml:"artist_bonus"`
	MinRecommendationScore float64 `toml:"min_recommendation_score"`
}

// DefaultTuningConfig returns hard-coded safe defaults
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		TitleWeight:    0.4,
		ArtistWeight:   0.3,
		DurationWeight: 0.2,
		YearWeight:     0.1,

		ExactMatchThreshold: 0.8,
		MaxResultsPerQuery:  5,

		MinCompatibilityScore: 0.3,
		GenrePenalty:          0.15,
		OldCatalogYear:        1990,
		OldCatalogPenalty:     0.2,
		LongDurationSeconds:   600,
		LongDurationPenalty:   0.1,
		UnfriendlyGenres: map[string][]string{
			"spotify":     {"classical", "opera", "spoken word"},
			"apple_music": {"indie", "demo", "bootleg"},
		},

		WorkerCount:          4,
		SearchTimeoutSeconds: 10,
		SearchesPerSecond:    5,

		GenreBonus:             0.3,
		ArtistBonus:            0.25,
		MinRecommendationScore: 0.2,
	}
}

var (
	tuningCfg     *TuningConfig
	tuningCfgOnce sync.Once
	tuningCfgMu   sync.RWMutex
)

// GetTuningConfig loads the tuning config from TOML if TUNING_CONFIG_PATH is
// set. Falls back to defaults if the env var is unset or the file cannot be
// read/parsed.
func GetTuningConfig() *TuningConfig {
	tuningCfgOnce.Do(func() {
		cfg := DefaultTuningConfig()
		// Priority 1: explicit env var
		if path := os.Getenv("TUNING_CONFIG_PATH"); path != "" {
			if fileCfg, err := loadTuningConfigFromPath(path); err == nil && fileCfg != nil {
				mergeTuningConfig(cfg, fileCfg)
			}
		} else {
			// Priority 2: well-known default locations
			for _, p := range candidateTuningConfigPaths() {
				if fileCfg, err := loadTuningConfigFromPath(p); err == nil && fileCfg != nil {
					mergeTuningConfig(cfg, fileCfg)
					break
				}
			}
		}
		tuningCfgMu.Lock()
		tuningCfg = cfg
		tuningCfgMu.Unlock()
	})
	tuningCfgMu.RLock()
	cfg := tuningCfg
	tuningCfgMu.RUnlock()
	return cfg
}

// TuningSource supplies the current tuning configuration. Components call
// their source on every use instead of holding a snapshot, so a config file
// reload takes effect without a restart. main wires GetTuningConfig; tests
// usually wire StaticTuning.
type TuningSource func() *TuningConfig

// StaticTuning returns a TuningSource pinned to cfg. A nil cfg pins the
// defaults.
func StaticTuning(cfg *TuningConfig) TuningSource {
	if cfg == nil {
		cfg = DefaultTuningConfig()
	}
	return func() *TuningConfig { return cfg }
}

func loadTuningConfigFromPath(path string) (*TuningConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var cfg TuningConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func mergeTuningConfig(base, override *TuningConfig) {
	if override == nil || base == nil {
		return
	}
	if override.TitleWeight > 0 {
		base.TitleWeight = override.TitleWeight
	}
	if override.ArtistWeight > 0 {
		base.ArtistWeight = override.ArtistWeight
	}
	if override.DurationWeight > 0 {
		base.DurationWeight = override.DurationWeight
	}
	if override.YearWeight > 0 {
		base.YearWeight = override.YearWeight
	}
	if override.ExactMatchThreshold > 0 {
		base.ExactMatchThreshold = override.ExactMatchThreshold
	}
	if override.MaxResultsPerQuery > 0 {
		base.MaxResultsPerQuery = override.MaxResultsPerQuery
	}
	if override.MinCompatibilityScore > 0 {
		base.MinCompatibilityScore = override.MinCompatibilityScore
	}
	if override.GenrePenalty > 0 {
		base.GenrePenalty = override.GenrePenalty
	}
	if override.OldCatalogYear > 0 {
		base.OldCatalogYear = override.OldCatalogYear
	}
	if override.OldCatalogPenalty > 0 {
		base.OldCatalogPenalty = override.OldCatalogPenalty
	}
	if override.LongDurationSeconds > 0 {
		base.LongDurationSeconds = override.LongDurationSeconds
	}
	if override.LongDurationPenalty > 0 {
		base.LongDurationPenalty = override.LongDurationPenalty
	}
	if override.UnfriendlyGenres != nil {
		if base.UnfriendlyGenres == nil {
			base.UnfriendlyGenres = map[string][]string{}
		}
		for k, v := range override.UnfriendlyGenres {
			base.UnfriendlyGenres[k] = v
		}
	}
	if override.WorkerCount > 0 {
		base.WorkerCount = override.WorkerCount
	}
	if override.SearchTimeoutSeconds > 0 {
		base.SearchTimeoutSeconds = override.SearchTimeoutSeconds
	}
	if override.SearchesPerSecond > 0 {
		base.SearchesPerSecond = override.SearchesPerSecond
	}
	if override.GenreBonus > 0 {
		base.GenreBonus = override.GenreBonus
	}
	if override.ArtistBonus > 0 {
		base.ArtistBonus = override.ArtistBonus
	}
	if override.MinRecommendationScore > 0 {
		base.MinRecommendationScore = override.MinRecommendationScore
	}
}

// candidateTuningConfigPaths returns common locations to auto-discover
// tuning config
func candidateTuningConfigPaths() []string {
	var paths []string
	// Current working directory
	paths = append(paths,
		"tuning.toml",
		filepath.Join("config", "tuning.toml"),
	)

	// XDG config home
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "tunebridge", "tuning.toml"))
	}

	// User config under HOME
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", "tunebridge", "tuning.toml"))
	}

	// System-wide fallback
	paths = append(paths, filepath.Join(string(os.PathSeparator), "etc", "tunebridge", "tuning.toml"))
	return paths
}

// StartTuningConfigWatcher polls the tuning config file for changes and
// reloads it. If a path is provided via TUNING_CONFIG_PATH, that is used.
// Otherwise, the first existing path from candidateTuningConfigPaths is
// used. If no file exists, the watcher is a no-op.
func StartTuningConfigWatcher(ctx context.Context, interval time.Duration) {
	paths := []string{}
	if explicit := os.Getenv("TUNING_CONFIG_PATH"); explicit != "" {
		paths = append(paths, explicit)
	} else {
		paths = append(paths, candidateTuningConfigPaths()...)
	}

	var watchPath string
	var lastModTime time.Time
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			watchPath = p
			lastModTime = fi.ModTime()
			break
		}
	}
	if watchPath == "" {
		slog.Info("tuning config watcher: no config file found; using defaults")
		return
	}

	slog.Info("tuning config watcher: watching file", "path", watchPath)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("tuning config watcher: stopped")
				return
			case <-ticker.C:
				fi, err := os.Stat(watchPath)
				if err != nil || fi.IsDir() {
					continue
				}
				if fi.ModTime().After(lastModTime) {
					if fileCfg, err := loadTuningConfigFromPath(watchPath); err == nil && fileCfg != nil {
						// Merge over defaults to keep unspecified keys sane
						newCfg := DefaultTuningConfig()
						mergeTuningConfig(newCfg, fileCfg)
						tuningCfgMu.Lock()
						tuningCfg = newCfg
						tuningCfgMu.Unlock()
						lastModTime = fi.ModTime()
						slog.Info("tuning config reloaded", "path", watchPath, "mtime", lastModTime)
					}
				}
			}
		}
	}()
}
