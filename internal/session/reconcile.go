package session

import (
	"strings"

	"github.com/csheth/promptdeck/internal/catalog"
	"github.com/csheth/promptdeck/internal/prompt"
)

// Item is one editable row in the manage view, merged from the insert ledger
// and a fresh scan of the buffer text. Items are ephemeral: they exist for
// one edit session and are never persisted.
type Item struct {
	Key           string
	CurrentValue  string
	OriginalValue string
	Label         string
	Custom        bool
	Modified      bool
	Deleted       bool
}

// Reconcile merges the target's ledger with every fragment detectable in the
// buffer right now. Ledger-seeded rows come first, then catalog detections,
// then custom detections; output order is insertion order and keys are
// unique.
//
// A detection whose content is a strict substring of a ledger row's value is
// suppressed: that is almost always the original form of a fragment the user
// has since edited into a longer value. When several ledger rows would
// qualify the earliest-seeded one decides, which keeps the result
// deterministic.
func Reconcile(state *State, targetID, buffer string, cat catalog.Catalog, custom []catalog.Preset) []Item {
	var items []Item
	seen := map[string]bool{}

	for _, entry := range state.History(targetID) {
		if entry.Value == "" || seen[entry.Value] || !strings.Contains(buffer, entry.Value) {
			continue
		}
		seen[entry.Value] = true
		items = append(items, Item{
			Key:           entry.Value,
			CurrentValue:  entry.Value,
			OriginalValue: entry.Value,
			Label:         entry.CustomLabel,
		})
	}
	ledgerRows := len(items)

	merge := func(content, label string, isCustom bool) {
		if content == "" {
			return
		}
		found := ""
		if marked := prompt.Wrap(content); strings.Contains(buffer, marked) {
			found = marked
		} else if strings.Contains(buffer, content) {
			found = content
		}
		if found == "" || seen[found] {
			return
		}
		for _, row := range items[:ledgerRows] {
			if row.Key != found && row.Key != content && strings.Contains(row.Key, content) {
				return
			}
		}
		seen[found] = true
		items = append(items, Item{
			Key:           found,
			CurrentValue:  found,
			OriginalValue: found,
			Label:         label,
			Custom:        isCustom,
		})
	}

	for _, category := range cat.Categories {
		for _, preset := range category.Presets {
			merge(preset.Content, preset.Label, false)
		}
	}
	for _, preset := range custom {
		merge(preset.Content, preset.Label, true)
	}
	return items
}
