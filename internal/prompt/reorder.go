package prompt

import (
	"regexp"
	"sort"
	"strings"
)

var separatorRuns = regexp.MustCompile(`(?:\s*[,，]\s*)+`)

// NormalizeResidue collapses runs of comma-like separators into one, drops a
// dangling leading or trailing separator, and trims surrounding whitespace.
func NormalizeResidue(text string) string {
	text = separatorRuns.ReplaceAllString(text, Separator)
	text = strings.TrimSpace(text)
	text = strings.Trim(text, ",")
	return strings.TrimSpace(text)
}

// Reorder produces the canonical form of a buffer: fragments below the
// free-text band first, then the normalized free text, then the rest, all
// joined by the separator. Fragments sharing a tier keep their left-to-right
// order. Total over any input string and idempotent.
//
// A stray OpenMark in the free text can make one reassembly parse
// differently, capturing a following fragment's close mark as a new
// occurrence. Passes repeat until the output reparses to itself. Every
// non-final pass consumes at least one stray open mark from the free text,
// so the loop terminates.
func Reorder(buffer string, tiers TierLookup) string {
	for {
		next := reorderPass(buffer, tiers)
		if next == buffer {
			return next
		}
		buffer = next
	}
}

func reorderPass(buffer string, tiers TierLookup) string {
	occs := ParseAll(buffer, tiers)
	if len(occs) == 0 {
		return NormalizeResidue(buffer)
	}
	residue := NormalizeResidue(StripAll(buffer, occs))

	sort.SliceStable(occs, func(i, j int) bool { return occs[i].Tier < occs[j].Tier })

	var parts []string
	for _, occ := range occs {
		if occ.Tier < DefaultTier {
			parts = append(parts, occ.Raw)
		}
	}
	if residue != "" {
		parts = append(parts, residue)
	}
	for _, occ := range occs {
		if occ.Tier >= DefaultTier {
			parts = append(parts, occ.Raw)
		}
	}
	return strings.Join(parts, Separator)
}
