package catalog

// TierIndex maps fragment content to its priority tier. It is pure derived
// state: rebuild it wholesale whenever the catalog changes, never patch it.
type TierIndex map[string]int

// BuildIndex records content -> tier for every preset in every category.
// When the same content string appears in multiple categories the last one
// wins.
func BuildIndex(c Catalog) TierIndex {
	index := make(TierIndex, c.PresetCount())
	for _, category := range c.Categories {
		tier := category.Tier
		if tier < minTier || tier > maxTier {
			tier = DefaultTier
		}
		for _, preset := range category.Presets {
			index[preset.Content] = tier
		}
	}
	return index
}

// Lookup returns the tier recorded for content, defaulting to the free-text
// band for anything untracked.
func (t TierIndex) Lookup(content string) int {
	if tier, ok := t[content]; ok {
		return tier
	}
	return DefaultTier
}
