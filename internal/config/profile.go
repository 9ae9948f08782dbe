package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTopN is how many ranked posts are kept when a profile sets no limit.
const DefaultTopN = 20

// Profile holds the vocabularies and weights that drive signal scoring.
type Profile struct {
	Terms               Terms    `yaml:"terms"`
	Communities         []string `yaml:"communities"`
	Weights             Weights  `yaml:"weights"`
	EngagementThreshold int      `yaml:"engagement_threshold"`
	TopN                int      `yaml:"top_n"`
}

type Terms struct {
	Signal []string `yaml:"signal"`
	Noise  []string `yaml:"noise"`
}

type Weights struct {
	Signal     int `yaml:"signal"`
	Noise      int `yaml:"noise"`
	Community  int `yaml:"community"`
	Link       int `yaml:"link"`
	Engagement int `yaml:"engagement"`
}

// DefaultProfile returns the built-in vocabularies and weights.
// Each call returns a fresh value.
func DefaultProfile() *Profile {
	return &Profile{
		Terms: Terms{
			Signal: []string{
				"built", "shipped", "launched", "released", "github.com",
				"skill", "tool", "api", "protocol", "infrastructure",
				"security", "scanner", "automation", "framework", "deploy",
			},
			Noise: []string{
				"vibes", "gm", "gn", "wagmi", "🚀🚀🚀", "just vibes",
				"token", "pump", "moon", "king", "ruler",
			},
		},
		Communities: []string{"agentskills", "builds", "tooling"},
		Weights: Weights{
			Signal:     2,
			Noise:      -3,
			Community:  3,
			Link:       2,
			Engagement: 1,
		},
		EngagementThreshold: 2,
		TopN:                DefaultTopN,
	}
}

// LoadProfile reads a signal profile YAML file and validates it.
// Keys absent from the file keep their DefaultProfile values.
func LoadProfile(path string) (*Profile, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("signal profile path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signal profile: %w", err)
	}

	p := DefaultProfile()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse signal profile: %w", err)
	}

	if err := validateProfile(p); err != nil {
		return nil, fmt.Errorf("validate signal profile: %w", err)
	}

	return p, nil
}

func validateProfile(p *Profile) error {
	if len(p.Terms.Signal) == 0 {
		return errors.New("terms.signal: at least one term is required")
	}
	for _, list := range [][]string{p.Terms.Signal, p.Terms.Noise} {
		for i, term := range list {
			if strings.TrimSpace(term) == "" {
				return fmt.Errorf("terms: empty term at index %d", i)
			}
		}
	}
	if p.TopN < 1 {
		return fmt.Errorf("top_n: must be at least 1, got %d", p.TopN)
	}
	if p.EngagementThreshold < 0 {
		return fmt.Errorf("engagement_threshold: must not be negative, got %d", p.EngagementThreshold)
	}
	return nil
}
