package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/promptdeck/internal/catalog"
	"github.com/csheth/promptdeck/internal/config"
	"github.com/csheth/promptdeck/internal/session"
)

func testCatalog() catalog.Catalog {
	return catalog.Catalog{Categories: []catalog.Category{
		{Name: "camera", Tier: 1, Presets: []catalog.Preset{
			{Label: "Orbit", Content: "orbit shot"},
		}},
		{Name: "style", Tier: 6, Presets: []catalog.Preset{
			{Label: "Cyberpunk", Content: "cyberpunk"},
			{Label: "Noir", Content: "noir"},
		}},
	}}
}

func newTestModel(t *testing.T, store *config.Store) (*model, *session.State) {
	t.Helper()
	state := session.NewState()
	m, ok := New(Config{
		State:   state,
		Store:   store,
		Targets: []string{"positive", "negative"},
	}).(*model)
	if !ok {
		t.Fatal("New() did not return *model")
	}
	cat := testCatalog()
	m.Update(catalogLoadedMsg{cat: cat, index: catalog.BuildIndex(cat)})
	return m, state
}

func press(m *model, key string) {
	switch key {
	case "enter":
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	case "tab":
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
	case "esc":
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	default:
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	}
}

func TestInsertKeepsTierOrder(t *testing.T) {
	t.Parallel()

	m, state := newTestModel(t, nil)
	if m.stage != stageBrowse {
		t.Fatalf("stage = %v, want browse", m.stage)
	}

	// Insert the tier-6 style first, then the tier-1 camera move.
	press(m, "l")
	press(m, "enter")
	press(m, "h")
	press(m, "enter")

	if got, want := m.buffers["positive"], "【orbit shot】, 【cyberpunk】"; got != want {
		t.Fatalf("buffer = %q, want %q", got, want)
	}
	if got := state.History("positive"); len(got) != 2 {
		t.Fatalf("expected two ledger entries, got %v", got)
	}
}

func TestInsertTargetsAreIndependent(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	press(m, "enter")
	press(m, "tab")
	press(m, "l")
	press(m, "enter")

	if got := m.buffers["positive"]; got != "【orbit shot】" {
		t.Fatalf("positive buffer = %q", got)
	}
	if got := m.buffers["negative"]; got != "【cyberpunk】" {
		t.Fatalf("negative buffer = %q", got)
	}
}

func TestInsertBlockedByTargetRules(t *testing.T) {
	t.Parallel()

	store := config.NewStore(t.TempDir(), nil)
	if err := store.SaveTargetRules(config.TargetRules{Deny: []string{"positive"}}); err != nil {
		t.Fatalf("SaveTargetRules() error = %v", err)
	}

	m, state := newTestModel(t, store)
	press(m, "enter")

	if got := m.buffers["positive"]; got != "" {
		t.Fatalf("blocked target buffer = %q, want empty", got)
	}
	if got := state.History("positive"); len(got) != 0 {
		t.Fatalf("blocked insert recorded history: %v", got)
	}
	if m.errorMessage == "" {
		t.Fatal("expected an error message for a blocked target")
	}
}

func TestOnBufferChangeFiresOnWrite(t *testing.T) {
	t.Parallel()

	var gotTarget, gotValue string
	state := session.NewState()
	m := New(Config{
		State:   state,
		Targets: []string{"positive"},
		OnBufferChange: func(targetID, value string) {
			gotTarget, gotValue = targetID, value
		},
	}).(*model)
	cat := testCatalog()
	m.Update(catalogLoadedMsg{cat: cat, index: catalog.BuildIndex(cat)})

	press(m, "enter")
	if gotTarget != "positive" || gotValue != "【orbit shot】" {
		t.Fatalf("callback got (%q, %q)", gotTarget, gotValue)
	}
}

func TestManageEditRewritesBufferAndLedger(t *testing.T) {
	t.Parallel()

	m, state := newTestModel(t, nil)
	press(m, "l")
	press(m, "enter") // insert cyberpunk

	press(m, "m")
	if m.stage != stageManage || len(m.manageItems) != 1 {
		t.Fatalf("manage stage not reached: stage=%v items=%v", m.stage, m.manageItems)
	}

	press(m, "e")
	if m.stage != stageEdit {
		t.Fatalf("stage = %v, want edit", m.stage)
	}
	m.editInput.SetValue("【cyberpunk, neon rain】")
	press(m, "enter") // confirm edit
	press(m, "enter") // apply manage view

	if got, want := m.buffers["positive"], "【cyberpunk, neon rain】"; got != want {
		t.Fatalf("buffer = %q, want %q", got, want)
	}
	history := state.History("positive")
	if len(history) != 1 || history[0].Value != "【cyberpunk, neon rain】" {
		t.Fatalf("unexpected ledger: %v", history)
	}
	if history[0].CustomLabel != "Custom preset 1" {
		t.Fatalf("label = %q, want %q", history[0].CustomLabel, "Custom preset 1")
	}
}

func TestManageDeleteRemovesFragment(t *testing.T) {
	t.Parallel()

	m, state := newTestModel(t, nil)
	press(m, "enter") // orbit shot
	press(m, "l")
	press(m, "enter") // cyberpunk

	press(m, "m")
	press(m, "d") // mark first row (ledger order: orbit shot)
	press(m, "enter")

	if got := m.buffers["positive"]; got != "【cyberpunk】" {
		t.Fatalf("buffer = %q, want cyberpunk only", got)
	}
	history := state.History("positive")
	if len(history) != 1 || history[0].Value != "【cyberpunk】" {
		t.Fatalf("unexpected ledger: %v", history)
	}
}

func TestManageEscLeavesBufferUntouched(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	press(m, "enter")
	before := m.buffers["positive"]

	press(m, "m")
	press(m, "d")
	press(m, "esc")

	if got := m.buffers["positive"]; got != before {
		t.Fatalf("buffer changed on cancel: %q -> %q", before, got)
	}
	if m.stage != stageBrowse {
		t.Fatalf("stage = %v, want browse", m.stage)
	}
}

func TestClearBufferTearsDownSession(t *testing.T) {
	t.Parallel()

	m, state := newTestModel(t, nil)
	press(m, "enter")
	press(m, "x")

	if got := m.buffers["positive"]; got != "" {
		t.Fatalf("buffer = %q, want empty", got)
	}
	if got := state.History("positive"); len(got) != 0 {
		t.Fatalf("expected empty history, got %v", got)
	}
}

func TestCustomPresetCapture(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	press(m, "c")
	if m.stage != stageCustomLabel {
		t.Fatalf("stage = %v, want custom label", m.stage)
	}
	m.labelInput.SetValue("My Lighting")
	press(m, "enter")
	if m.stage != stageCustomContent {
		t.Fatalf("stage = %v, want custom content", m.stage)
	}
	m.contentInput.SetValue("volumetric haze")
	press(m, "enter")

	cats := m.categories()
	last := cats[len(cats)-1]
	if last.Name != customCategoryName || len(last.Presets) != 1 {
		t.Fatalf("custom category missing: %+v", cats)
	}
	if last.Presets[0].Label != "My Lighting" || last.Presets[0].Content != "volumetric haze" {
		t.Fatalf("unexpected custom preset: %+v", last.Presets[0])
	}
}

func TestCatalogReloadRefreshesState(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	empty := catalog.Catalog{}
	m.Update(catalogReloadedMsg{cat: empty, index: catalog.BuildIndex(empty)})

	if !m.cat.Empty() {
		t.Fatalf("catalog not replaced: %+v", m.cat)
	}
	if m.catCursor != 0 || m.presetCursor != 0 {
		t.Fatalf("cursors not clamped: %d/%d", m.catCursor, m.presetCursor)
	}
}
