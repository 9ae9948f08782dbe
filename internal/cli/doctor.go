package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/moltsignal/internal/config"
	"github.com/ppiankov/moltsignal/internal/feed"
	"github.com/ppiankov/moltsignal/internal/signal"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and feed reachability",
	RunE:  doctorAction,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func doctorAction(cmd *cobra.Command, _ []string) error {
	ok := true

	// Config dir
	if info, err := os.Stat(configDir); err != nil || !info.IsDir() {
		printCheck(false, "config directory %s", configDir)
		ok = false
	} else {
		printCheck(true, "config directory %s", configDir)
	}

	// Config file
	cfg, err := config.Load(configDir)
	if err != nil {
		printCheck(false, "config.yaml: %v", err)
		ok = false
	} else {
		printCheck(true, "config.yaml (feed %s, limit %d, sort %s)", cfg.Feed.BaseURL, cfg.Feed.Limit, cfg.Feed.Sort)
	}

	// Signal profile
	profilePath := filepath.Join(configDir, config.DefaultProfileFile)
	profile, err := config.LoadProfile(profilePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		printInfo("signal.yaml not found, using built-in profile")
		profile = config.DefaultProfile()
	case err != nil:
		printCheck(false, "signal.yaml: %v", err)
		ok = false
	default:
		printCheck(true, "signal.yaml (%d signal terms, %d noise terms, %d communities)",
			len(profile.Terms.Signal), len(profile.Terms.Noise), len(profile.Communities))
	}

	if cfg == nil {
		return fmt.Errorf("some checks failed")
	}

	// API key
	client, err := newFeedClient(cfg)
	if err != nil {
		printCheck(false, "api key: %v", err)
		return fmt.Errorf("some checks failed")
	}
	printCheck(true, "api key from %s", cfg.Feed.APIKeyEnv)

	// Feed reachability
	posts, err := client.Fetch(cmd.Context())
	if err != nil {
		var se *feed.StatusError
		switch {
		case errors.As(err, &se):
			printCheck(false, "feed: api answered %d", se.StatusCode)
		case errors.Is(err, feed.ErrMalformed):
			printCheck(false, "feed: unreadable response: %v", err)
		default:
			printCheck(false, "feed: %v", err)
		}
		return fmt.Errorf("some checks failed")
	}
	printCheck(true, "feed returned %d posts", len(posts))

	if profile != nil && len(posts) > 0 {
		ranked := signal.Rank(posts, profile)
		printInfo("%d of %d posts carry signal", len(ranked), len(posts))
		if len(posts) >= 50 && len(ranked) == 0 {
			printInfo("no post scored above zero, the signal profile may be too narrow")
		}
	}

	if !ok {
		return fmt.Errorf("some checks failed")
	}
	fmt.Println("\nAll checks passed.")
	return nil
}

func printCheck(pass bool, format string, args ...any) {
	mark := "FAIL"
	if pass {
		mark = " OK "
	}
	fmt.Printf("[%s] %s\n", mark, fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Printf("[INFO] %s\n", fmt.Sprintf(format, args...))
}
