package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/promptdeck/internal/catalog"
	"github.com/csheth/promptdeck/internal/config"
)

func loadCatalogCmd(loader *catalog.Loader) tea.Cmd {
	return func() tea.Msg {
		cat, index := loader.Get()
		return catalogLoadedMsg{cat: cat, index: index}
	}
}

func reloadCatalogCmd(loader *catalog.Loader) tea.Cmd {
	return func() tea.Msg {
		cat, index := loader.Reload()
		return catalogReloadedMsg{cat: cat, index: index}
	}
}

// waitForCatalogCmd blocks on the watcher feed and republishes the reloaded
// catalog into the program. The handler re-issues it after every message.
func waitForCatalogCmd(updates <-chan catalog.Catalog, loader *catalog.Loader) tea.Cmd {
	return func() tea.Msg {
		cat, ok := <-updates
		if !ok {
			return nil
		}
		_, index := loader.Get()
		return catalogReloadedMsg{cat: cat, index: index}
	}
}

func saveCustomCmd(store *config.Store, presets []catalog.Preset) tea.Cmd {
	snapshot := append([]catalog.Preset{}, presets...)
	return func() tea.Msg {
		if store == nil {
			return customSavedMsg{count: len(snapshot)}
		}
		if err := store.SaveCustomPresets(snapshot); err != nil {
			return customSavedMsg{err: err}
		}
		return customSavedMsg{count: len(snapshot)}
	}
}
