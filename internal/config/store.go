package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/csheth/promptdeck/internal/catalog"
)

const (
	targetRulesFile   = "target_rules.json"
	customPresetsFile = "custom_presets.json"
)

// TargetRules whitelists and blacklists recognized target identifiers.
type TargetRules struct {
	Allow []string `json:"allow,omitempty"`
	Deny  []string `json:"deny,omitempty"`
}

// Allowed reports whether a target id may receive inserts. Deny wins over
// allow; an empty allow list admits everything.
func (r TargetRules) Allowed(id string) bool {
	for _, denied := range r.Deny {
		if denied == id {
			return false
		}
	}
	if len(r.Allow) == 0 {
		return true
	}
	for _, allowed := range r.Allow {
		if allowed == id {
			return true
		}
	}
	return false
}

// Store persists the two local JSON documents: target rules and the user's
// custom presets. Corrupt or missing documents degrade to their empty
// defaults; the error is logged and never surfaced as fatal.
type Store struct {
	dir string
	log *zap.Logger
}

// NewStore returns a store rooted at dir, creating it lazily on first write.
func NewStore(dir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{dir: dir, log: log}
}

// TargetRules loads the persisted target rules.
func (s *Store) TargetRules() TargetRules {
	var rules TargetRules
	if data, ok := s.read(targetRulesFile); ok {
		if err := json.Unmarshal(data, &rules); err != nil {
			s.log.Warn("corrupt target rules, using empty default", zap.Error(err))
			rules = TargetRules{}
		}
	}
	return rules
}

// SaveTargetRules writes the target rules document.
func (s *Store) SaveTargetRules(rules TargetRules) error {
	return s.write(targetRulesFile, rules)
}

// CustomPresets loads the user's custom preset list.
func (s *Store) CustomPresets() []catalog.Preset {
	var presets []catalog.Preset
	if data, ok := s.read(customPresetsFile); ok {
		if err := json.Unmarshal(data, &presets); err != nil {
			s.log.Warn("corrupt custom presets, using empty default", zap.Error(err))
			presets = nil
		}
	}
	return presets
}

// SaveCustomPresets writes the custom preset document.
func (s *Store) SaveCustomPresets(presets []catalog.Preset) error {
	return s.write(customPresetsFile, presets)
}

func (s *Store) read(name string) ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("unreadable local document", zap.String("file", name), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

func (s *Store) write(name string, value any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}
