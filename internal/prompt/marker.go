package prompt

import "strings"

// Fragment delimiters. Full-width brackets are effectively absent from
// natural prompt text, so there is no escaping mechanism: content that
// contains a delimiter parses by the earliest-closing-bracket rule and the
// remainder stays plain text.
const (
	OpenMark  = "【"
	CloseMark = "】"
)

// Separator joins reassembled buffer parts.
const Separator = ", "

// DefaultTier is the free-text band. Content absent from the tier index
// resolves here.
const DefaultTier = 4

// TierLookup resolves fragment content to its priority tier.
type TierLookup interface {
	Lookup(content string) int
}

// Occurrence is one marked fragment as found in a buffer.
type Occurrence struct {
	Raw   string // delimiters included
	Inner string // content only
	Tier  int
}

// Wrap encloses content in the fragment markers.
func Wrap(content string) string {
	return OpenMark + content + CloseMark
}

type segmentKind int

const (
	segFreeText segmentKind = iota
	segFragment
)

// segment is the internal buffer representation: the delimited string form
// exists only at the boundary with the host's text input.
type segment struct {
	kind segmentKind
	text string // free text, or fragment inner content
}

// splitSegments parses a buffer into alternating free-text and fragment
// segments. Unmatched delimiters stay free text.
func splitSegments(buffer string) []segment {
	var segs []segment
	rest := buffer
	for {
		open := strings.Index(rest, OpenMark)
		if open < 0 {
			break
		}
		closing := strings.Index(rest[open+len(OpenMark):], CloseMark)
		if closing < 0 {
			break
		}
		if open > 0 {
			segs = append(segs, segment{kind: segFreeText, text: rest[:open]})
		}
		innerStart := open + len(OpenMark)
		segs = append(segs, segment{kind: segFragment, text: rest[innerStart : innerStart+closing]})
		rest = rest[innerStart+closing+len(CloseMark):]
	}
	if rest != "" {
		segs = append(segs, segment{kind: segFreeText, text: rest})
	}
	return segs
}

// ParseAll returns every non-overlapping marked occurrence in first-occurrence
// order. Tiers come from the lookup; a nil lookup classifies everything as
// DefaultTier.
func ParseAll(buffer string, tiers TierLookup) []Occurrence {
	var occs []Occurrence
	for _, seg := range splitSegments(buffer) {
		if seg.kind != segFragment {
			continue
		}
		tier := DefaultTier
		if tiers != nil {
			tier = tiers.Lookup(seg.text)
		}
		occs = append(occs, Occurrence{Raw: Wrap(seg.text), Inner: seg.text, Tier: tier})
	}
	return occs
}

// StripAll removes the raw form of every given occurrence from the buffer,
// leaving the free-text residue. Separator cleanup is the caller's job.
func StripAll(buffer string, occs []Occurrence) string {
	for _, occ := range occs {
		buffer = strings.Replace(buffer, occ.Raw, "", 1)
	}
	return buffer
}
