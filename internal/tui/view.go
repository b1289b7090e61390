package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

func (m *model) View() string {
	switch m.stage {
	case stageLoading:
		return m.frameWithHero(fmt.Sprintf("%s Loading preset catalog…", m.spinner.View()))
	case stageBrowse:
		return m.viewBrowse()
	case stageManage:
		return m.viewManage()
	case stageEdit:
		return m.viewEdit()
	case stageCustomLabel:
		return m.viewCustomInput("New Custom Preset — Label", m.labelInput.View())
	case stageCustomContent:
		return m.viewCustomInput("New Custom Preset — Content", m.contentInput.View())
	default:
		return ""
	}
}

func (m *model) viewBrowse() string {
	m.refreshViewportIfDirty()
	parts := []string{m.heroView(), m.targetsView(), m.viewport.View()}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	parts = append(parts, m.legendView())
	if m.helpVisible {
		parts = append(parts, m.helpView())
	}
	return joinNonEmpty(parts)
}

func (m *model) viewManage() string {
	b := strings.Builder{}
	b.WriteString(sectionHeaderStyle.Render(fmt.Sprintf("Manage Presets — %s", m.activeTarget())))
	b.WriteRune('\n')
	for i, item := range m.manageItems {
		cursor := "  "
		if i == m.manageCursor {
			cursor = "> "
		}
		label := item.Label
		if label == "" {
			label = item.CurrentValue
		}
		flags := []string{}
		if item.Custom {
			flags = append(flags, "custom")
		}
		if item.Modified {
			flags = append(flags, "edited")
		}
		if item.Deleted {
			flags = append(flags, "delete")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = helperStyle.Render(" [" + strings.Join(flags, ",") + "]")
		}
		row := fmt.Sprintf("%s%s%s", cursor, label, suffix)
		if item.Deleted {
			row = deletedStyle.Render(row)
		} else if i == m.manageCursor {
			row = currentLineStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteRune('\n')
		b.WriteString(helperStyle.Render("    " + wordwrap.String(item.CurrentValue, m.wrapWidth(6))))
		b.WriteRune('\n')
	}
	b.WriteString(helperStyle.Render("e edit  d delete  Enter apply  Esc cancel"))
	return m.frameWithHero(b.String())
}

func (m *model) viewEdit() string {
	b := strings.Builder{}
	b.WriteString(sectionHeaderStyle.Render("Edit Preset Value"))
	b.WriteRune('\n')
	b.WriteString(m.editInput.View())
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("Enter applies the edit to the list, Esc cancels."))
	return m.frameWithHero(b.String())
}

func (m *model) viewCustomInput(title, input string) string {
	b := strings.Builder{}
	b.WriteString(sectionHeaderStyle.Render(title))
	b.WriteRune('\n')
	b.WriteString(input)
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("Enter continues, Esc cancels."))
	return m.frameWithHero(b.String())
}

func (m *model) heroView() string {
	title := titleStyle.Render("PromptDeck")
	return lipgloss.JoinVertical(lipgloss.Left, title, taglineStyle.Render(heroTagline))
}

func (m *model) targetsView() string {
	rows := make([]string, 0, len(m.targets))
	for i, target := range m.targets {
		name := target
		if i == m.active {
			name = activeTargetStyle.Render(name)
		} else {
			name = targetStyle.Render(name)
		}
		value := m.buffers[target]
		if strings.TrimSpace(value) == "" {
			value = helperStyle.Render("(empty)")
		} else {
			value = wordwrap.String(value, m.wrapWidth(12))
		}
		rows = append(rows, fmt.Sprintf("%s %s", name, value))
	}
	return bufferBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.viewportDirty = false
	m.viewport.SetContent(m.buildBrowseContent())
}

func (m *model) buildBrowseContent() string {
	cats := m.categories()
	if len(cats) == 0 {
		return helperStyle.Render("Catalog empty. Point promptdeck at a prompt_presets.json and press r.")
	}

	b := strings.Builder{}
	tabs := make([]string, 0, len(cats))
	for i, cat := range cats {
		name := cat.Name
		if cat.NameEN != "" {
			name = fmt.Sprintf("%s/%s", cat.Name, cat.NameEN)
		}
		tab := fmt.Sprintf("%s (t%d)", name, cat.Tier)
		if i == m.catCursor {
			tab = activeCategoryStyle.Render(tab)
		} else {
			tab = categoryStyle.Render(tab)
		}
		tabs = append(tabs, tab)
	}
	b.WriteString(strings.Join(tabs, "  "))
	b.WriteString("\n\n")

	presets := cats[m.catCursor].Presets
	if len(presets) == 0 {
		b.WriteString(helperStyle.Render("No presets in this category."))
		return b.String()
	}
	for i, preset := range presets {
		cursor := "  "
		if i == m.presetCursor {
			cursor = "> "
		}
		row := fmt.Sprintf("%s%s", cursor, preset.Label)
		if i == m.presetCursor {
			row = currentLineStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteRune('\n')
		b.WriteString(helperStyle.Render("    " + wordwrap.String(preset.Content, m.wrapWidth(6))))
		b.WriteRune('\n')
		if preset.Preview != "" {
			b.WriteString(previewStyle.Render("    preview: " + preset.Preview))
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func (m *model) legendView() string {
	hints := []string{
		"↑/↓ preset", "←/→ category", "tab target", "enter insert",
		"m manage", "c custom", "x clear", "r reload", "? help", "q quit",
	}
	return legendStyle.Render(strings.Join(hints, "  •  "))
}

func (m *model) helpView() string {
	lines := []string{
		sectionHeaderStyle.Render("Help"),
		helperStyle.Render("• Enter wraps the selected preset and inserts it into the active target; fragments are kept in tier order automatically."),
		helperStyle.Render("• m opens the manage view for the active buffer: edit values with e, mark removals with d, Enter applies everything at once."),
		helperStyle.Render("• c captures a custom preset; it lands in the Custom category and persists across sessions."),
		helperStyle.Render("• The catalog file is watched; edits on disk show up without restarting."),
	}
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) frameWithHero(body string) string {
	return joinNonEmpty([]string{m.heroView(), body})
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

var (
	titleStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Underline(true)
	taglineStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	sectionHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	helperStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	categoryStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	activeCategoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("110")).Padding(0, 1)
	targetStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("147"))
	activeTargetStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("147")).Padding(0, 1)
	currentLineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	deletedStyle        = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("9"))
	previewStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	bufferBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	legendStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	helpBoxStyle        = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2)
)
