package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/moltsignal/internal/digest"
	"github.com/ppiankov/moltsignal/internal/feed"
	"github.com/ppiankov/moltsignal/internal/signal"
)

var explainCmd = &cobra.Command{
	Use:   "explain <post-id>",
	Short: "Show scoring breakdown for a post in the current feed",
	Args:  cobra.ExactArgs(1),
	RunE:  explainAction,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func explainAction(cmd *cobra.Command, args []string) error {
	postID := args[0]

	cfg, profile, err := loadSetup()
	if err != nil {
		return err
	}

	client, err := newFeedClient(cfg)
	if err != nil {
		return err
	}

	posts, err := client.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	var found *feed.Post
	for i := range posts {
		if posts[i].ID == postID {
			found = &posts[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("post %s not found in the latest %d posts", postID, len(posts))
	}

	p := *found
	fmt.Printf("Post %s\n", p.ID)
	fmt.Printf("  Title:   %s\n", p.Title)
	fmt.Printf("  Author:  @%s\n", p.Author.Name)
	if p.Submolt.Name != "" {
		fmt.Printf("  Submolt: m/%s\n", p.Submolt.Name)
	}
	if snippet := digest.Snippet(p.Content, digest.SnippetRunes); snippet != "" {
		fmt.Printf("  Snippet: %s\n", snippet)
	}
	if p.URL != "" {
		fmt.Printf("  URL:     %s\n", p.URL)
	}
	fmt.Println()

	sp := signal.Score(p, profile)
	verdict := "kept"
	if sp.Score <= 0 {
		verdict = "dropped"
	}
	fmt.Printf("Score: %d  (%s)\n", sp.Score, verdict)
	if len(sp.Explanation) == 0 {
		return nil
	}
	fmt.Println()
	fmt.Println("Breakdown:")
	for _, c := range sp.Explanation {
		fmt.Printf("  %+d  %s\n", c.Points, c.Reason)
	}
	return nil
}
