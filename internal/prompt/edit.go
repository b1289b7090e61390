package prompt

import "strings"

// Insert appends the marked form of content to the buffer and reorders. It
// returns the new buffer plus the marked value, which the caller records in
// the target's history.
func Insert(buffer, content string, tiers TierLookup) (newBuffer, marked string) {
	marked = Wrap(content)
	if strings.TrimSpace(buffer) == "" {
		buffer = marked
	} else {
		buffer = buffer + Separator + marked
	}
	return Reorder(buffer, tiers), marked
}

// RemoveValue deletes the first occurrence of value (marked or plain) from
// the buffer and reorders.
func RemoveValue(buffer, value string, tiers TierLookup) string {
	return Reorder(strings.Replace(buffer, value, "", 1), tiers)
}

// ReplaceValue swaps the first occurrence of old for replacement and
// reorders.
func ReplaceValue(buffer, old, replacement string, tiers TierLookup) string {
	return Reorder(strings.Replace(buffer, old, replacement, 1), tiers)
}
