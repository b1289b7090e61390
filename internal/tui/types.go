package tui

import "github.com/csheth/promptdeck/internal/catalog"

type stage int

const (
	stageLoading stage = iota
	stageBrowse
	stageManage
	stageEdit
	stageCustomLabel
	stageCustomContent
)

const heroTagline = "Stack prompt presets in tier order."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	customCategoryName        = "Custom"
)

type catalogLoadedMsg struct {
	cat   catalog.Catalog
	index catalog.TierIndex
}

type catalogReloadedMsg struct {
	cat   catalog.Catalog
	index catalog.TierIndex
}

type customSavedMsg struct {
	count int
	err   error
}
