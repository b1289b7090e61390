package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Preset is one reusable prompt fragment. Field names follow the catalog
// JSON consumed by the node-graph front end.
type Preset struct {
	Label   string `json:"sub_category"`
	Content string `json:"prompt_value"`
	Preview string `json:"preview,omitempty"`
}

// Category groups presets under a shared priority tier.
type Category struct {
	Name    string   `json:"category"`
	NameEN  string   `json:"category_en,omitempty"`
	Tier    int      `json:"tier,omitempty"`
	Presets []Preset `json:"presets"`
}

// Catalog is the immutable preset library, built once per load.
type Catalog struct {
	Categories []Category
}

const (
	minTier = 1
	maxTier = 7

	// DefaultTier is substituted for missing or out-of-range category tiers
	// and matches the free-text band.
	DefaultTier = 4
)

// Load reads the catalog JSON from disk. Failure is soft: a missing or
// malformed file yields an empty catalog along with the underlying error, so
// callers warn and keep running instead of crashing.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}
	return Parse(data)
}

// Parse decodes catalog JSON and clamps invalid tiers to the default band.
func Parse(data []byte) (Catalog, error) {
	var categories []Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return Catalog{}, fmt.Errorf("malformed preset catalog: %w", err)
	}
	for i := range categories {
		if categories[i].Tier < minTier || categories[i].Tier > maxTier {
			categories[i].Tier = DefaultTier
		}
	}
	return Catalog{Categories: categories}, nil
}

// Empty reports whether the catalog holds no presets, which callers treat as
// "not yet available".
func (c Catalog) Empty() bool {
	for _, category := range c.Categories {
		if len(category.Presets) > 0 {
			return false
		}
	}
	return true
}

// PresetCount returns the total number of presets across all categories.
func (c Catalog) PresetCount() int {
	count := 0
	for _, category := range c.Categories {
		count += len(category.Presets)
	}
	return count
}
