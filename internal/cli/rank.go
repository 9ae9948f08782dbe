package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/moltsignal/internal/digest"
	"github.com/ppiankov/moltsignal/internal/signal"
)

var (
	rankFormat string
	noColor    bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Fetch the newest posts once and print the ranked signal",
	RunE:  rankAction,
}

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().StringVar(&rankFormat, "format", "", "output format: terminal, json, markdown")
	rankCmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors")
}

func rankAction(cmd *cobra.Command, _ []string) error {
	formatter, err := pickFormatter(rankFormat)
	if err != nil {
		return err
	}

	cfg, profile, err := loadSetup()
	if err != nil {
		return err
	}

	client, err := newFeedClient(cfg)
	if err != nil {
		return err
	}

	ranked, fetched, err := signal.FetchAndRank(cmd.Context(), client, profile)
	if err != nil {
		return err
	}
	slog.Debug("ranked feed", "fetched", fetched, "kept", len(ranked))

	input := digest.DigestInput{
		Items:       ranked,
		TotalPosts:  fetched,
		PostURLBase: cfg.Server.PostURLBase,
	}
	return formatter.Format(os.Stdout, input)
}

func pickFormatter(format string) (digest.Formatter, error) {
	switch format {
	case "json":
		return digest.NewJSON(), nil
	case "markdown", "md":
		return digest.NewMarkdown(), nil
	case "terminal", "":
		return digest.NewTerminal(!noColor), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want terminal, json, or markdown)", format)
	}
}
