package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Watchlist groups monitored subreddits by fetch cadence: primary every
// cycle, secondary every third day, tertiary weekly.
type Watchlist struct {
	Primary   []string `yaml:"primary"`
	Secondary []string `yaml:"secondary"`
	Tertiary  []string `yaml:"tertiary"`
}

// DefaultWatchlist returns the built-in subreddit set used when no
// watchlist file is configured.
func DefaultWatchlist() Watchlist {
	return Watchlist{
		Primary:   []string{"autism", "ADHD", "Parenting"},
		Secondary: []string{"specialed", "Teachers", "homeschool"},
		Tertiary:  []string{"SLP", "OccupationalTherapy"},
	}
}

// LoadWatchlist reads the YAML watchlist at path. An empty path returns
// the default watchlist; a missing or unreadable file is an error so a
// typo in the path never silently monitors the wrong communities.
func LoadWatchlist(path string) (Watchlist, error) {
	if path == "" {
		return DefaultWatchlist(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Watchlist{}, fmt.Errorf("reading watchlist %s: %w", path, err)
	}

	var wl Watchlist
	if err := yaml.Unmarshal(data, &wl); err != nil {
		return Watchlist{}, fmt.Errorf("parsing watchlist %s: %w", path, err)
	}

	if len(wl.Primary)+len(wl.Secondary)+len(wl.Tertiary) == 0 {
		return Watchlist{}, fmt.Errorf("watchlist %s lists no subreddits", path)
	}

	return wl, nil
}

// All returns every subreddit across all cadences.
func (w Watchlist) All() []string {
	all := make([]string, 0, len(w.Primary)+len(w.Secondary)+len(w.Tertiary))
	all = append(all, w.Primary...)
	all = append(all, w.Secondary...)
	all = append(all, w.Tertiary...)

	return all
}
