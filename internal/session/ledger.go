package session

import (
	"errors"
	"fmt"
	"sync"
)

// Entry is one recorded insertion into a target buffer.
type Entry struct {
	Value       string // marked or plain content as currently recorded
	CustomLabel string // empty until the user edits the entry
}

// ErrNoMatch signals that the requested ledger value was not found. Callers
// decide whether that deserves a warning; the ledger itself stays untouched.
var ErrNoMatch = errors.New("no matching history entry")

// State owns all per-target session bookkeeping: the insert history and the
// counters behind generated preset labels. It lives at the application root
// and is passed into every operation that needs it. A mutex serializes
// access so the state survives being shared between the event loop and
// command goroutines.
type State struct {
	mu       sync.Mutex
	history  map[string][]Entry
	counters map[string]int
}

// NewState returns an empty session state.
func NewState() *State {
	return &State{
		history:  map[string][]Entry{},
		counters: map[string]int{},
	}
}

// RecordAdded appends an insertion for the target. Duplicates are allowed:
// identical fragments may legitimately coexist in one buffer.
func (s *State) RecordAdded(targetID, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[targetID] = append(s.history[targetID], Entry{Value: value})
}

// History returns a copy of the target's recorded entries, oldest first.
func (s *State) History(targetID string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.history[targetID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// RemoveFromHistory clears the first entry recorded with the given value.
// With duplicates present only one is cleared per call.
func (s *State) RemoveFromHistory(targetID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.history[targetID]
	for i, entry := range entries {
		if entry.Value == value {
			s.history[targetID] = append(entries[:i:i], entries[i+1:]...)
			return nil
		}
	}
	return ErrNoMatch
}

// UpdateHistory replaces the first entry matching oldValue with newValue and
// returns the entry's label. An unlabeled entry gets the next generated
// label for the target; labels are never reused within a target.
func (s *State) UpdateHistory(targetID, oldValue, newValue string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.history[targetID]
	for i := range entries {
		if entries[i].Value == oldValue {
			entries[i].Value = newValue
			if entries[i].CustomLabel == "" {
				s.counters[targetID]++
				entries[i].CustomLabel = fmt.Sprintf("Custom preset %d", s.counters[targetID])
			}
			return entries[i].CustomLabel, nil
		}
	}
	return "", ErrNoMatch
}

// Teardown drops all bookkeeping for a target, including its label counter.
func (s *State) Teardown(targetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, targetID)
	delete(s.counters, targetID)
}
