package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/promptdeck/internal/catalog"
	"github.com/csheth/promptdeck/internal/config"
	"github.com/csheth/promptdeck/internal/prompt"
	"github.com/csheth/promptdeck/internal/session"
)

// Config wires runtime collaborators into the TUI program.
type Config struct {
	Loader  *catalog.Loader
	State   *session.State
	Store   *config.Store
	Targets []string
	Updates <-chan catalog.Catalog

	// OnBufferChange fires after every buffer write so the host can mirror
	// the value elsewhere. Optional.
	OnBufferChange func(targetID, value string)
}

// New returns a tea.Model ready to be mounted into a Program.
func New(cfg Config) tea.Model {
	if len(cfg.Targets) == 0 {
		cfg.Targets = []string{"positive", "negative"}
	}

	editInput := textinput.New()
	editInput.CharLimit = 400
	editInput.Width = 70

	labelInput := textinput.New()
	labelInput.Placeholder = "Preset label…"
	labelInput.CharLimit = 60
	labelInput.Width = 40

	contentInput := textinput.New()
	contentInput.Placeholder = "Preset content…"
	contentInput.CharLimit = 400
	contentInput.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	buffers := make(map[string]string, len(cfg.Targets))
	for _, target := range cfg.Targets {
		buffers[target] = ""
	}

	return &model{
		config:        cfg,
		stage:         stageLoading,
		targets:       cfg.Targets,
		buffers:       buffers,
		editInput:     editInput,
		labelInput:    labelInput,
		contentInput:  contentInput,
		spinner:       spin,
		viewport:      vp,
		viewportDirty: true,
		infoMessage:   "Loading preset catalog…",
	}
}

type model struct {
	config Config
	stage  stage

	cat    catalog.Catalog
	index  catalog.TierIndex
	rules  config.TargetRules
	custom []catalog.Preset

	targets []string
	active  int
	buffers map[string]string

	catCursor    int
	presetCursor int

	manageItems  []session.Item
	manageCursor int

	editInput    textinput.Model
	labelInput   textinput.Model
	contentInput textinput.Model
	pendingLabel string

	spinner       spinner.Model
	viewport      viewport.Model
	viewportDirty bool

	infoMessage  string
	errorMessage string
	helpVisible  bool
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, loadCatalogCmd(m.config.Loader)}
	if m.config.Updates != nil {
		cmds = append(cmds, waitForCatalogCmd(m.config.Updates, m.config.Loader))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.stage == stageLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case catalogLoadedMsg:
		m.applyCatalog(msg.cat, msg.index)
		m.stage = stageBrowse
		if m.cat.Empty() {
			m.infoMessage = "Preset catalog unavailable. Press r to retry once the file exists."
		} else {
			m.infoMessage = fmt.Sprintf("Loaded %d presets. Enter inserts into %s.", m.cat.PresetCount(), m.activeTarget())
		}
		return m, nil
	case catalogReloadedMsg:
		m.applyCatalog(msg.cat, msg.index)
		m.infoMessage = fmt.Sprintf("Catalog reloaded (%d presets).", m.cat.PresetCount())
		if m.config.Updates != nil {
			return m, waitForCatalogCmd(m.config.Updates, m.config.Loader)
		}
		return m, nil
	case customSavedMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("saving custom presets: %v", msg.err)
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Custom preset saved (%d total).", msg.count)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			switch m.stage {
			case stageManage:
				m.stage = stageBrowse
				m.manageItems = nil
				m.infoMessage = "Manage canceled, buffer untouched."
				m.markViewportDirty()
				return m, nil
			case stageEdit:
				m.stage = stageManage
				m.editInput.SetValue("")
				m.editInput.Blur()
				return m, nil
			case stageCustomLabel, stageCustomContent:
				m.stage = stageBrowse
				m.labelInput.SetValue("")
				m.contentInput.SetValue("")
				m.infoMessage = "Custom preset canceled."
				return m, nil
			default:
				return m, tea.Quit
			}
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.stage == stageBrowse {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		newWidth := msg.Width - viewportHorizontalPadding
		if newWidth < minViewportWidth {
			newWidth = minViewportWidth
		}
		m.viewport.Width = newWidth
		height := msg.Height - 8
		if height < 5 {
			height = 5
		}
		m.viewport.Height = height
		m.markViewportDirty()
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageBrowse:
		return m.handleBrowseKey(key)
	case stageManage:
		return m.handleManageKey(key)
	case stageEdit:
		var cmd tea.Cmd
		m.editInput, cmd = m.editInput.Update(key)
		if key.Type == tea.KeyEnter {
			value := strings.TrimSpace(m.editInput.Value())
			m.editInput.SetValue("")
			m.editInput.Blur()
			m.stage = stageManage
			if value != "" && m.manageCursor < len(m.manageItems) {
				item := &m.manageItems[m.manageCursor]
				item.CurrentValue = value
				item.Modified = value != item.OriginalValue
			}
			return m, cmd
		}
		return m, cmd
	case stageCustomLabel:
		var cmd tea.Cmd
		m.labelInput, cmd = m.labelInput.Update(key)
		if key.Type == tea.KeyEnter {
			m.pendingLabel = strings.TrimSpace(m.labelInput.Value())
			m.labelInput.SetValue("")
			m.labelInput.Blur()
			m.stage = stageCustomContent
			m.contentInput.Focus()
			return m, cmd
		}
		return m, cmd
	case stageCustomContent:
		var cmd tea.Cmd
		m.contentInput, cmd = m.contentInput.Update(key)
		if key.Type == tea.KeyEnter {
			content := strings.TrimSpace(m.contentInput.Value())
			m.contentInput.SetValue("")
			m.contentInput.Blur()
			m.stage = stageBrowse
			if content == "" {
				m.infoMessage = "Empty content, custom preset discarded."
				return m, cmd
			}
			label := m.pendingLabel
			if label == "" {
				label = fmt.Sprintf("Custom %d", len(m.custom)+1)
			}
			m.custom = append(m.custom, catalog.Preset{Label: label, Content: content})
			m.markViewportDirty()
			return m, tea.Batch(cmd, saveCustomCmd(m.config.Store, m.custom))
		}
		return m, cmd
	default:
		return m, nil
	}
}

func (m *model) handleBrowseKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.movePreset(-1)
	case "down", "j":
		m.movePreset(1)
	case "left", "h":
		m.moveCategory(-1)
	case "right", "l":
		m.moveCategory(1)
	case "tab":
		m.active = (m.active + 1) % len(m.targets)
		m.infoMessage = fmt.Sprintf("Target %s active.", m.activeTarget())
		m.markViewportDirty()
	case "enter":
		m.insertSelected()
	case "x":
		m.clearActiveBuffer()
	case "m":
		m.openManage()
	case "c":
		m.stage = stageCustomLabel
		m.labelInput.Focus()
		m.infoMessage = "New custom preset: enter a label."
	case "r":
		m.infoMessage = "Reloading catalog…"
		return m, reloadCatalogCmd(m.config.Loader)
	case "?":
		m.helpVisible = !m.helpVisible
		m.markViewportDirty()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleManageKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if m.manageCursor > 0 {
			m.manageCursor--
		}
	case "down", "j":
		if m.manageCursor < len(m.manageItems)-1 {
			m.manageCursor++
		}
	case "e":
		if m.manageCursor < len(m.manageItems) {
			m.stage = stageEdit
			m.editInput.SetValue(m.manageItems[m.manageCursor].CurrentValue)
			m.editInput.Focus()
		}
	case "d":
		if m.manageCursor < len(m.manageItems) {
			item := &m.manageItems[m.manageCursor]
			item.Deleted = !item.Deleted
		}
	case "enter", "ctrl+s":
		m.applyManage()
	}
	return m, nil
}

func (m *model) applyCatalog(cat catalog.Catalog, index catalog.TierIndex) {
	m.cat = cat
	m.index = index
	if m.config.Store != nil {
		m.rules = m.config.Store.TargetRules()
		m.custom = m.config.Store.CustomPresets()
	}
	m.clampCursors()
	m.markViewportDirty()
}

func (m *model) activeTarget() string {
	return m.targets[m.active]
}

// categories returns the catalog categories plus the pseudo category holding
// the user's custom presets.
func (m *model) categories() []catalog.Category {
	cats := m.cat.Categories
	if len(m.custom) > 0 {
		cats = append(append([]catalog.Category{}, cats...), catalog.Category{
			Name:    customCategoryName,
			Tier:    catalog.DefaultTier,
			Presets: m.custom,
		})
	}
	return cats
}

func (m *model) selectedPreset() *catalog.Preset {
	cats := m.categories()
	if m.catCursor >= len(cats) {
		return nil
	}
	presets := cats[m.catCursor].Presets
	if m.presetCursor >= len(presets) {
		return nil
	}
	return &presets[m.presetCursor]
}

func (m *model) moveCategory(delta int) {
	cats := m.categories()
	if len(cats) == 0 {
		return
	}
	m.catCursor = (m.catCursor + delta + len(cats)) % len(cats)
	m.presetCursor = 0
	m.markViewportDirty()
}

func (m *model) movePreset(delta int) {
	cats := m.categories()
	if m.catCursor >= len(cats) {
		return
	}
	count := len(cats[m.catCursor].Presets)
	if count == 0 {
		return
	}
	target := m.presetCursor + delta
	if target < 0 {
		target = 0
	}
	if target >= count {
		target = count - 1
	}
	m.presetCursor = target
	m.markViewportDirty()
}

func (m *model) clampCursors() {
	cats := m.categories()
	if m.catCursor >= len(cats) {
		m.catCursor = 0
	}
	if len(cats) == 0 {
		m.presetCursor = 0
		return
	}
	if count := len(cats[m.catCursor].Presets); m.presetCursor >= count {
		m.presetCursor = 0
	}
}

func (m *model) insertSelected() {
	preset := m.selectedPreset()
	if preset == nil {
		m.infoMessage = "Nothing selected to insert."
		return
	}
	target := m.activeTarget()
	if !m.rules.Allowed(target) {
		m.errorMessage = fmt.Sprintf("target %s is blocked by the local target rules", target)
		return
	}
	buffer, marked := prompt.Insert(m.buffers[target], preset.Content, m.index)
	m.config.State.RecordAdded(target, marked)
	m.setBuffer(target, buffer)
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Inserted %q into %s.", preset.Label, target)
}

func (m *model) clearActiveBuffer() {
	target := m.activeTarget()
	m.setBuffer(target, "")
	m.config.State.Teardown(target)
	m.infoMessage = fmt.Sprintf("Cleared %s.", target)
}

func (m *model) openManage() {
	target := m.activeTarget()
	items := session.Reconcile(m.config.State, target, m.buffers[target], m.cat, m.custom)
	if len(items) == 0 {
		m.infoMessage = "No tracked presets in this buffer yet."
		return
	}
	m.manageItems = items
	m.manageCursor = 0
	m.stage = stageManage
	m.infoMessage = "e edits, d marks for deletion, Enter applies."
}

// applyManage writes the manage view's edits back: deletions drop the value
// from buffer and ledger, edits rewrite both, and a final reorder pass
// restores the canonical fragment order.
func (m *model) applyManage() {
	target := m.activeTarget()
	buffer := m.buffers[target]
	changed := 0
	for i := range m.manageItems {
		item := &m.manageItems[i]
		switch {
		case item.Deleted:
			buffer = strings.Replace(buffer, item.OriginalValue, "", 1)
			if err := m.config.State.RemoveFromHistory(target, item.OriginalValue); err != nil && !errors.Is(err, session.ErrNoMatch) {
				m.errorMessage = err.Error()
			}
			changed++
		case item.Modified:
			buffer = strings.Replace(buffer, item.OriginalValue, item.CurrentValue, 1)
			if _, err := m.config.State.UpdateHistory(target, item.OriginalValue, item.CurrentValue); errors.Is(err, session.ErrNoMatch) {
				// Detected straight from the catalog, not inserted through
				// us: start tracking it so the edit survives the next scan.
				m.config.State.RecordAdded(target, item.OriginalValue)
				if _, err := m.config.State.UpdateHistory(target, item.OriginalValue, item.CurrentValue); err != nil {
					m.errorMessage = err.Error()
				}
			}
			changed++
		}
	}
	m.setBuffer(target, prompt.Reorder(buffer, m.index))
	m.manageItems = nil
	m.stage = stageBrowse
	if changed == 0 {
		m.infoMessage = "No changes to apply."
	} else {
		m.infoMessage = fmt.Sprintf("Applied %d change(s) to %s.", changed, target)
	}
}

func (m *model) setBuffer(target, value string) {
	m.buffers[target] = value
	if m.config.OnBufferChange != nil {
		m.config.OnBufferChange(target, value)
	}
	m.markViewportDirty()
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}
