package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/ppiankov/moltsignal/internal/config"
	"github.com/ppiankov/moltsignal/internal/feed"
)

// loadSetup reads config.yaml and signal.yaml from configDir. A missing
// signal.yaml falls back to the built-in profile.
func loadSetup() (*config.Config, *config.Profile, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	profilePath := filepath.Join(configDir, config.DefaultProfileFile)
	profile, err := config.LoadProfile(profilePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("no signal profile, using defaults", "path", profilePath)
		profile = config.DefaultProfile()
	case err != nil:
		return nil, nil, fmt.Errorf("load signal profile: %w", err)
	}

	return cfg, profile, nil
}

func newFeedClient(cfg *config.Config) (*feed.Client, error) {
	if cfg.Feed.APIKey == "" {
		return nil, fmt.Errorf("%s not set", cfg.Feed.APIKeyEnv)
	}
	return feed.NewClient(cfg.Feed.BaseURL, cfg.Feed.APIKey,
		feed.WithTimeout(cfg.Feed.Timeout.Duration),
		feed.WithLimit(cfg.Feed.Limit),
		feed.WithSort(cfg.Feed.Sort),
		feed.WithUserAgent("moltsignal/"+Version),
	)
}
