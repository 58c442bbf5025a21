// Package style loads the pre-authored symbology definition that maps LISST
// ranks to display colors. The definition is consumed by reference and never
// generated; when the file is missing the built-in defaults apply and the
// run continues with a warning.
package style

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/khgis/ga-lisst/internal/domain"
)

// Class is the visual treatment of one rank.
type Class struct {
	Value   int    `yaml:"value"`
	Label   string `yaml:"label"`
	Fill    string `yaml:"fill"`    // hex RGB, e.g. "#1a9641"
	Outline string `yaml:"outline"` // hex RGB
}

// Definition is the full symbology document.
type Definition struct {
	Name    string  `yaml:"name"`
	Field   string  `yaml:"field"` // attribute the classes key on
	Classes []Class `yaml:"classes"`
}

// Load reads a symbology definition from a YAML file. A missing file is
// reported with os.IsNotExist-compatible errors so callers can degrade to
// Default.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse style %s: %w", path, err)
	}
	if len(def.Classes) == 0 {
		return nil, fmt.Errorf("style %s: no classes defined", path)
	}
	return &def, nil
}

// Default returns the built-in GA LISST symbology: green through red across
// the four ranks.
func Default() *Definition {
	return &Definition{
		Name:  "GA LISST",
		Field: "Rank",
		Classes: []Class{
			{Value: 1, Label: domain.RankMostPreferred.Label(), Fill: "#1a9641", Outline: "#145c2d"},
			{Value: 2, Label: domain.RankLessPreferred.Label(), Fill: "#a6d96a", Outline: "#6f9e3e"},
			{Value: 3, Label: domain.RankNotPreferred.Label(), Fill: "#fdae61", Outline: "#b87633"},
			{Value: 4, Label: domain.RankAvoidance.Label(), Fill: "#d7191c", Outline: "#8e1012"},
		},
	}
}

// ClassFor returns the class styled for the given rank.
func (d *Definition) ClassFor(rank domain.Rank) (Class, bool) {
	for _, c := range d.Classes {
		if c.Value == int(rank) {
			return c, true
		}
	}
	return Class{}, false
}
