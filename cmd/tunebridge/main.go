package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"

	"tunebridge/internal/cache"
	"tunebridge/internal/catalog"
	"tunebridge/internal/compat"
	"tunebridge/internal/config"
	"tunebridge/internal/conversion"
	"tunebridge/internal/handlers"
	"tunebridge/internal/matching"
	"tunebridge/internal/models"
	"tunebridge/internal/recommend"
	"tunebridge/internal/repositories"
)

func main() {
	// Load .env file for local development
	_ = godotenv.Load()

	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := models.NewDatabase(ctx, cfg.MongodbURL, "tunebridge")
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close(context.Background())

	if err := db.CreateIndexes(ctx); err != nil {
		slog.Error("Failed to create database indexes", "error", err)
		os.Exit(1)
	}

	// Initialize cache
	searchCache, err := cache.NewValkeyCache(cfg.ValkeyURL)
	if err != nil {
		slog.Error("Failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer searchCache.Close()

	// Tuning is hot-reloadable; components read through GetTuningConfig on
	// every use, so edits to the TOML file apply without a restart
	config.GetTuningConfig()
	config.StartTuningConfigWatcher(ctx, 30*time.Second)

	// Initialize catalog clients
	catalogs := catalog.NewRegistry()
	tokens := catalog.NewMongoTokenProvider(db.DB)

	if cfg.SpotifyEnabled() {
		client := catalog.NewSpotifyClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret)
		catalogs.Register(catalog.NewCachedClient(client, searchCache))
		tokens.RegisterEndpoint(client.CatalogName(), &oauth2.Config{
			ClientID:     cfg.SpotifyClientID,
			ClientSecret: cfg.SpotifyClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL: "https://accounts.spotify.com/api/token",
			},
		})
	}
	if cfg.AppleMusicEnabled() {
		client := catalog.NewAppleMusicClient(cfg.AppleMusicKeyID, cfg.AppleMusicTeamID, cfg.AppleMusicKeyFile)
		catalogs.Register(catalog.NewCachedClient(client, searchCache))
	}

	slog.Info("Catalog clients registered", "catalogs", catalogs.Catalogs())

	// Initialize repositories
	conversionRepo := repositories.NewMongoConversionRepository(db)
	playlistRepo := repositories.NewMongoPlaylistRepository(db)
	songRepo := repositories.NewMongoSongRepository(db)

	// Initialize conversion pipeline
	matcher := matching.NewMatcher(config.GetTuningConfig)
	analyzer := compat.NewAnalyzer(config.GetTuningConfig)
	orchestrator := conversion.NewOrchestrator(
		conversionRepo, playlistRepo, songRepo,
		catalogs, tokens, matcher, analyzer, config.GetTuningConfig)
	scorer := recommend.NewScorer(config.GetTuningConfig)

	// Initialize HTTP server
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	handlers.RegisterRoutes(router,
		handlers.NewConversionHandler(orchestrator, playlistRepo, analyzer),
		handlers.NewRecommendationHandler(catalogs, playlistRepo, scorer),
		handlers.NewHealthHandler(db, catalogs))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port, "base_url", cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
