// Package teams maps team names to the abbreviations and colours used on
// the charts.
package teams

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/bayes-bet/internal/chart"
)

//go:embed teams.yaml
var defaultTeams []byte

var neutralColors = []string{"#555555", "#999999", "#FFFFFF"}

// Team is one entry of the metadata file.
type Team struct {
	Name         string   `yaml:"name"`
	Abbreviation string   `yaml:"abbreviation"`
	Colors       []string `yaml:"colors"`
}

type file struct {
	Teams []Team `yaml:"teams"`
}

// Registry looks up team metadata by full name.
type Registry struct {
	byName map[string]Team
}

// Parse builds a registry from YAML metadata.
func Parse(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse team metadata: %w", err)
	}
	r := &Registry{byName: make(map[string]Team, len(f.Teams))}
	for _, t := range f.Teams {
		if t.Name == "" || t.Abbreviation == "" {
			return nil, fmt.Errorf("team metadata entry missing name or abbreviation: %+v", t)
		}
		r.byName[t.Name] = t
	}
	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the embedded NHL metadata.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Parse(defaultTeams)
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Len returns the number of known teams.
func (r *Registry) Len() int {
	return len(r.byName)
}

// Lookup returns the chart identity for name. Unknown teams get an
// abbreviation built from the name and a neutral palette.
func (r *Registry) Lookup(name string) chart.TeamInfo {
	if t, ok := r.byName[name]; ok {
		return chart.TeamInfo{Name: t.Name, Abbreviation: t.Abbreviation, Colors: t.Colors}
	}
	return chart.TeamInfo{Name: name, Abbreviation: abbreviate(name), Colors: neutralColors}
}

func abbreviate(name string) string {
	letters := make([]rune, 0, 3)
	for _, r := range name {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
		}
		if len(letters) == 3 {
			break
		}
	}
	if len(letters) == 0 {
		return "???"
	}
	return strings.ToUpper(string(letters))
}
