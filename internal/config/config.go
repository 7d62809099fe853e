package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	// Application settings
	Port       string `envconfig:"PORT" default:"8080"`
	GinMode    string `envconfig:"GIN_MODE" default:"debug"`
	BaseURL    string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	MongodbURL string `envconfig:"MONGODB_URL" required:"true"`
	ValkeyURL  string `envconfig:"VALKEY_URL" required:"true"`

	// Catalog credentials
	SpotifyClientID     string `envconfig:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `envconfig:"SPOTIFY_CLIENT_SECRET"`
	AppleMusicKeyID     string `envconfig:"APPLE_MUSIC_KEY_ID"`
	AppleMusicTeamID    string `envconfig:"APPLE_MUSIC_TEAM_ID"`
	AppleMusicKeyFile   string `envconfig:"APPLE_MUSIC_KEY_FILE"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SpotifyEnabled reports whether Spotify credentials are configured
func (c *Config) SpotifyEnabled() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

// AppleMusicEnabled reports whether Apple Music credentials are configured
func (c *Config) AppleMusicEnabled() bool {
	return c.AppleMusicKeyID != "" && c.AppleMusicTeamID != "" && c.AppleMusicKeyFile != ""
}

// Validate checks that at least one catalog is usable
func (c *Config) Validate() error {
	if !c.SpotifyEnabled() && !c.AppleMusicEnabled() {
		return fmt.Errorf("no catalog credentials configured")
	}
	return nil
}
