// Package signal scores Moltbook posts for signs of real technical work and
// ranks them.
package signal

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ppiankov/moltsignal/internal/config"
	"github.com/ppiankov/moltsignal/internal/feed"
)

// ScoredPost is a post with its computed signal score and explanation.
type ScoredPost struct {
	Post        feed.Post
	Score       int
	Explanation []ScoreContribution
}

// ScoreContribution records a single scoring reason and its point value.
type ScoreContribution struct {
	Reason string // "term: shipped", "noise: gm", "community: builds", "link", "engagement"
	Points int
}

// MarshalJSON writes every original field of the post plus signalScore.
func (sp ScoredPost) MarshalJSON() ([]byte, error) {
	return sp.Post.WithField("signalScore", sp.Score)
}

// Score evaluates a post against a signal profile. Terms match as
// case-insensitive substrings and each term counts at most once.
func Score(post feed.Post, profile *config.Profile) ScoredPost {
	textLower := strings.ToLower(post.Title + " " + post.Content)

	var (
		total       int
		explanation []ScoreContribution
	)
	add := func(reason string, points int) {
		total += points
		explanation = append(explanation, ScoreContribution{Reason: reason, Points: points})
	}

	for _, term := range profile.Terms.Signal {
		if strings.Contains(textLower, strings.ToLower(term)) {
			add(fmt.Sprintf("term: %s", term), profile.Weights.Signal)
		}
	}

	for _, term := range profile.Terms.Noise {
		if strings.Contains(textLower, strings.ToLower(term)) {
			add(fmt.Sprintf("noise: %s", term), profile.Weights.Noise)
		}
	}

	if name := post.Submolt.Name; name != "" && slices.Contains(profile.Communities, name) {
		add(fmt.Sprintf("community: %s", name), profile.Weights.Community)
	}

	if post.URL != "" || strings.Contains(textLower, "http") {
		add("link", profile.Weights.Link)
	}

	// Engagement indicates value.
	if post.CommentCount > profile.EngagementThreshold {
		add("engagement", profile.Weights.Engagement)
	}

	return ScoredPost{
		Post:        post,
		Score:       total,
		Explanation: explanation,
	}
}
