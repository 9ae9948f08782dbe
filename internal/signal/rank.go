package signal

import (
	"cmp"
	"context"
	"slices"

	"github.com/ppiankov/moltsignal/internal/config"
	"github.com/ppiankov/moltsignal/internal/feed"
)

// Rank scores every post, drops those scoring zero or less, sorts the rest
// by score descending and keeps the first profile.TopN. A TopN below 1 means
// config.DefaultTopN. Posts with equal scores stay in input order.
func Rank(posts []feed.Post, profile *config.Profile) []ScoredPost {
	ranked := make([]ScoredPost, 0, len(posts))
	for _, p := range posts {
		sp := Score(p, profile)
		if sp.Score <= 0 {
			continue
		}
		ranked = append(ranked, sp)
	}

	slices.SortStableFunc(ranked, func(a, b ScoredPost) int {
		return cmp.Compare(b.Score, a.Score)
	})

	topN := profile.TopN
	if topN < 1 {
		topN = config.DefaultTopN
	}
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// FetchAndRank fetches one batch and ranks it. It also returns the size of
// the fetched batch. A fetch error aborts before any scoring.
func FetchAndRank(ctx context.Context, f feed.Fetcher, profile *config.Profile) ([]ScoredPost, int, error) {
	posts, err := f.Fetch(ctx)
	if err != nil {
		return nil, 0, err
	}
	return Rank(posts, profile), len(posts), nil
}
