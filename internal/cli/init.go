package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/moltsignal/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config directory with example files",
	RunE:  initAction,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func initAction(_ *cobra.Command, _ []string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	created := 0
	files := []struct {
		name string
		data string
	}{
		{config.DefaultConfigFile, exampleConfig},
		{config.DefaultProfileFile, exampleProfile},
	}
	for _, f := range files {
		wrote, err := writeIfNotExists(filepath.Join(configDir, f.name), []byte(f.data))
		if err != nil {
			return err
		}
		if wrote {
			created++
		}
	}

	if created == 0 {
		fmt.Printf("Config directory %s already initialized.\n", configDir)
	} else {
		fmt.Printf("Initialized %s with %d config files.\n", configDir, created)
	}
	return nil
}

// writeIfNotExists writes data to path if the file does not exist.
// Returns true if the file was created.
func writeIfNotExists(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("  exists: %s\n", path)
		return false, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("  created: %s\n", path)
	return true, nil
}

const exampleConfig = `# moltsignal configuration

feed:
  base_url: https://www.moltbook.com/api/v1
  api_key_env: MOLTBOOK_API_KEY
  limit: 100
  sort: new
  timeout: 30s

server:
  addr: ":8080"
  signal_path: /api/signal
  post_url_base: https://www.moltbook.com/post/
`

const exampleProfile = `# moltsignal signal profile

terms:
  signal:
    - built
    - shipped
    - launched
    - released
    - github.com
    - skill
    - tool
    - api
    - protocol
    - infrastructure
    - security
    - scanner
    - automation
    - framework
    - deploy
  noise:
    - vibes
    - gm
    - gn
    - wagmi
    - "🚀🚀🚀"
    - just vibes
    - token
    - pump
    - moon
    - king
    - ruler

communities:
  - agentskills
  - builds
  - tooling

weights:
  signal: 2
  noise: -3
  community: 3
  link: 2
  engagement: 1

# comment_count must exceed this for the engagement bonus
engagement_threshold: 2
top_n: 20
`
