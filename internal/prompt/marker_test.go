package prompt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type tierMap map[string]int

func (t tierMap) Lookup(content string) int {
	if tier, ok := t[content]; ok {
		return tier
	}
	return DefaultTier
}

func TestWrapParseRoundTrip(t *testing.T) {
	t.Parallel()

	buffer := Wrap("cyberpunk")
	got := ParseAll(buffer, tierMap{"cyberpunk": 6})
	if len(got) != 1 {
		t.Fatalf("expected one occurrence, got %d", len(got))
	}
	if got[0].Inner != "cyberpunk" || got[0].Tier != 6 || got[0].Raw != "【cyberpunk】" {
		t.Fatalf("unexpected occurrence: %+v", got[0])
	}
}

func TestParseAllKeepsBufferOrder(t *testing.T) {
	t.Parallel()

	buffer := "intro 【b】 middle 【a】 end"
	got := ParseAll(buffer, tierMap{"a": 1, "b": 6})

	want := []Occurrence{
		{Raw: "【b】", Inner: "b", Tier: 6},
		{Raw: "【a】", Inner: "a", Tier: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("occurrences mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAllUnmatchedDelimitersArePlainText(t *testing.T) {
	t.Parallel()

	for _, buffer := range []string{"", "no markers here", "【dangling open", "dangling close】"} {
		if got := ParseAll(buffer, nil); len(got) != 0 {
			t.Fatalf("ParseAll(%q) = %v, want none", buffer, got)
		}
	}

	// A stray closer before a well-formed pair does not break the scan.
	got := ParseAll("x】y 【z】", nil)
	if len(got) != 1 || got[0].Inner != "z" {
		t.Fatalf("expected lone occurrence z, got %v", got)
	}
}

func TestParseAllUnknownContentDefaultsToUserBand(t *testing.T) {
	t.Parallel()

	got := ParseAll("【mystery】", tierMap{})
	if len(got) != 1 || got[0].Tier != DefaultTier {
		t.Fatalf("expected default tier %d, got %v", DefaultTier, got)
	}
}

func TestStripAllLeavesResidue(t *testing.T) {
	t.Parallel()

	buffer := "【a】, free text, 【b】"
	occs := ParseAll(buffer, nil)
	if got := StripAll(buffer, occs); got != ", free text, " {
		t.Fatalf("StripAll() = %q", got)
	}
}

func TestStripAllRemovesDuplicatesOnce(t *testing.T) {
	t.Parallel()

	buffer := "【a】【a】"
	occs := ParseAll(buffer, nil)
	if len(occs) != 2 {
		t.Fatalf("expected two occurrences, got %d", len(occs))
	}
	if got := StripAll(buffer, occs); got != "" {
		t.Fatalf("StripAll() = %q, want empty", got)
	}
}
