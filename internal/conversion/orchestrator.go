package conversion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"tunebridge/internal/catalog"
	"tunebridge/internal/compat"
	"tunebridge/internal/config"
	"tunebridge/internal/matching"
	"tunebridge/internal/models"
	"tunebridge/internal/repositories"
)

// Orchestrator runs playlist conversions end to end: idempotency check,
// compatibility gate, credential resolution, concurrent song matching, and
// playlist assembly on the target catalog. Every outcome, success or
// failure, is captured in a ConversionRecord.
type Orchestrator struct {
	conversions repositories.ConversionRepository
	playlists   repositories.PlaylistRepository
	songs       repositories.SongRepository
	catalogs    *catalog.Registry
	tokens      catalog.TokenProvider
	matcher     *matching.Matcher
	analyzer    *compat.Analyzer
	tuning      config.TuningSource
}

// NewOrchestrator creates a conversion orchestrator
func NewOrchestrator(
	conversions repositories.ConversionRepository,
	playlists repositories.PlaylistRepository,
	songs repositories.SongRepository,
	catalogs *catalog.Registry,
	tokens catalog.TokenProvider,
	matcher *matching.Matcher,
	analyzer *compat.Analyzer,
	tuning config.TuningSource,
) *Orchestrator {
	if tuning == nil {
		tuning = config.GetTuningConfig
	}
	return &Orchestrator{
		conversions: conversions,
		playlists:   playlists,
		songs:       songs,
		catalogs:    catalogs,
		tokens:      tokens,
		matcher:     matcher,
		analyzer:    analyzer,
		tuning:      tuning,
	}
}

// Convert converts the source playlist to the target catalog on behalf of
// userID. It always returns a ConversionRecord describing the outcome,
// alongside a sentinel error when the conversion did not complete. The
// record is persisted for every attempt except a missing source playlist
// or a duplicate, where the previously persisted record is returned
// instead.
func (o *Orchestrator) Convert(ctx context.Context, sourcePlaylistID, targetCatalog, userID string) (*models.ConversionRecord, error) {
	playlist, err := o.playlists.FindByID(ctx, sourcePlaylistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist %s: %w", sourcePlaylistID, err)
	}
	if playlist == nil {
		record := models.NewConversionRecord(sourcePlaylistID, targetCatalog)
		record.MarkFailed("source playlist not found")
		return record, fmt.Errorf("playlist %s: %w", sourcePlaylistID, ErrNotFound)
	}

	// Atomic check-and-insert: the repository's partial unique index makes
	// concurrent creates for the same (playlist, target) pair race-safe.
	record := models.NewConversionRecord(sourcePlaylistID, targetCatalog)
	if err := o.conversions.Create(ctx, record); err != nil {
		if errors.Is(err, repositories.ErrDuplicateRecord) {
			existing, findErr := o.conversions.FindConversion(ctx, sourcePlaylistID, targetCatalog)
			if findErr != nil {
				return nil, fmt.Errorf("failed to load existing conversion: %w", findErr)
			}
			return existing, ErrDuplicateConversion
		}
		return nil, fmt.Errorf("failed to create conversion record: %w", err)
	}

	songs, err := o.playlists.LoadSongs(ctx, sourcePlaylistID)
	if err != nil {
		return o.fail(ctx, record, fmt.Sprintf("failed to load playlist songs: %v", err), err)
	}

	report := o.analyzer.Analyze(songs, targetCatalog)
	if report.Score < o.analyzer.MinScore() {
		reason := fmt.Sprintf("compatibility score %.2f below threshold %.2f", report.Score, o.analyzer.MinScore())
		return o.fail(ctx, record, reason, ErrLowCompatibility)
	}

	client := o.catalogs.Get(targetCatalog)
	if client == nil {
		return o.fail(ctx, record, fmt.Sprintf("no client registered for catalog %s", targetCatalog),
			fmt.Errorf("catalog %s is not supported", targetCatalog))
	}

	token, err := o.tokens.AccessToken(ctx, userID, targetCatalog)
	if err != nil {
		return o.fail(ctx, record, fmt.Sprintf("failed to resolve credential: %v", err), err)
	}
	if token == "" {
		return o.fail(ctx, record, fmt.Sprintf("user has no %s credential", targetCatalog), ErrNoCredential)
	}

	record.MarkProcessing()
	if err := o.conversions.Update(ctx, record); err != nil {
		slog.Warn("Failed to persist processing status", "conversion_id", record.ID, "error", err)
	}

	matches := o.matchSongs(ctx, songs, client)
	if ctx.Err() != nil {
		record, _ = o.fail(ctx, record, "conversion cancelled before matching finished", nil)
		return record, ErrCancelled
	}

	// Single-writer fold: workers only fill their own slot, counting and
	// ordering happen here.
	var trackIDs []string
	matched, unmatched := 0, 0
	for i, match := range matches {
		if match.MatchedSong != nil {
			matched++
			trackIDs = append(trackIDs, match.MatchedSong.CatalogTrackID)
			if err := o.songs.Upsert(ctx, match.MatchedSong); err != nil {
				slog.Warn("Failed to save matched song", "title", match.MatchedSong.Title, "error", err)
			}
			continue
		}
		unmatched++
		record.AddSongError(songs[i].ID.Hex(), songs[i].Title, fmt.Sprintf("no match found on %s", targetCatalog))
	}

	if matched > 0 {
		description := fmt.Sprintf("Converted from %s playlist %q", playlist.Catalog, playlist.Name)
		targetPlaylistID, err := client.CreatePlaylist(ctx, token, playlist.Name, description)
		if err != nil {
			return o.fail(ctx, record, fmt.Sprintf("failed to create target playlist: %v", err), err)
		}
		if err := client.AddTracks(ctx, token, targetPlaylistID, trackIDs); err != nil {
			return o.fail(ctx, record, fmt.Sprintf("failed to add tracks to target playlist: %v", err), err)
		}
		record.TargetPlaylistID = targetPlaylistID
	}

	record.MarkCompleted(matched, unmatched)
	if err := o.conversions.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist completed conversion: %w", err)
	}

	slog.Info("Conversion completed",
		"conversion_id", record.ID,
		"source_playlist", sourcePlaylistID,
		"target_catalog", targetCatalog,
		"matched", matched,
		"unmatched", unmatched)
	return record, nil
}

// Status returns a conversion record by ID
func (o *Orchestrator) Status(ctx context.Context, conversionID string) (*models.ConversionRecord, error) {
	record, err := o.conversions.FindByID(ctx, conversionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversion %s: %w", conversionID, err)
	}
	if record == nil {
		return nil, fmt.Errorf("conversion %s: %w", conversionID, ErrNotFound)
	}
	return record, nil
}

// matchSongs resolves every source song against the target catalog using a
// bounded worker pool. Results land in a slice indexed by source position,
// so playlist order survives concurrent completion. A shared rate limiter
// keeps the pool inside the per-catalog search budget. Cancellation stops
// the admission of new songs; in-flight searches drain via their own
// context.
func (o *Orchestrator) matchSongs(ctx context.Context, songs []*models.Song, client catalog.Client) []models.SongMatch {
	tuning := o.tuning()
	workers := tuning.WorkerCount
	if workers <= 0 {
		workers = 1
	}
	if workers > len(songs) {
		workers = len(songs)
	}

	limiter := rate.NewLimiter(rate.Limit(tuning.SearchesPerSecond), 1)
	results := make([]models.SongMatch, len(songs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				results[idx] = o.matcher.Match(ctx, songs[idx], client, tuning.MaxResultsPerQuery)
			}
		}()
	}

admit:
	for idx := range songs {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break admit
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// fail marks the record failed with the given reason and persists it. The
// record is returned alongside cause so handlers can branch on sentinel
// errors while still seeing the final record state. Persistence uses a
// context detached from cancellation so a cancelled conversion still gets
// recorded.
func (o *Orchestrator) fail(ctx context.Context, record *models.ConversionRecord, reason string, cause error) (*models.ConversionRecord, error) {
	record.MarkFailed(reason)
	if err := o.conversions.Update(context.WithoutCancel(ctx), record); err != nil {
		slog.Error("Failed to persist failed conversion", "conversion_id", record.ID, "error", err)
	}
	if cause == nil {
		cause = errors.New(reason)
	}
	return record, fmt.Errorf("conversion %s failed: %w", record.ID, cause)
}
