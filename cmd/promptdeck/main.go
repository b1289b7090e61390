package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/csheth/promptdeck/internal/catalog"
	"github.com/csheth/promptdeck/internal/config"
	"github.com/csheth/promptdeck/internal/server"
	"github.com/csheth/promptdeck/internal/session"
	"github.com/csheth/promptdeck/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to an optional promptdeck.yaml")
	catalogPath := flag.String("presets", "prompt_presets.json", "path to the preset catalog JSON")
	previewsDir := flag.String("previews", "previews", "directory holding preview assets")
	stateDir := flag.String("state-dir", defaultStateDir(), "directory for local documents and logs")
	listen := flag.String("listen", "", "serve the catalog and previews on this address (eg. :8189)")
	headless := flag.Bool("headless", false, "run only the HTTP endpoints, no TUI (requires -listen)")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	app, err := config.LoadApp(*configPath)
	if err != nil {
		fmt.Println("failed to load config:", err)
		os.Exit(1)
	}
	applyFlagDefaults(&app, *catalogPath, *previewsDir, *stateDir, *listen, *debug)

	logger, err := buildLogger(app, *headless)
	if err != nil {
		fmt.Println("failed to set up logging:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	loader := catalog.NewLoader(app.CatalogPath, logger)
	store := config.NewStore(app.StateDir, logger)
	state := session.NewState()

	watcher, err := catalog.NewWatcher(loader, logger)
	if err != nil {
		logger.Warn("catalog watching unavailable", zap.Error(err))
		watcher = nil
	} else if err := watcher.Start(); err != nil {
		logger.Warn("catalog watching unavailable", zap.Error(err))
		watcher = nil
	}
	if watcher != nil {
		defer watcher.Stop()
	}

	if *headless {
		if app.Listen == "" {
			fmt.Println("-headless requires -listen")
			os.Exit(1)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := server.New(loader, app.PreviewsDir, logger).ListenAndServe(ctx, app.Listen); err != nil {
			logger.Error("server stopped", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if app.Listen != "" {
		go func() {
			if err := server.New(loader, app.PreviewsDir, logger).ListenAndServe(ctx, app.Listen); err != nil {
				logger.Warn("catalog server stopped", zap.Error(err))
			}
		}()
	}

	cfg := tui.Config{
		Loader:  loader,
		State:   state,
		Store:   store,
		Targets: app.Targets,
		OnBufferChange: func(targetID, value string) {
			logger.Debug("buffer updated", zap.String("target", targetID), zap.Int("len", len(value)))
		},
	}
	if watcher != nil {
		cfg.Updates = watcher.Updates()
	}

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(tui.New(cfg), opts...).Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}

// applyFlagDefaults lets flags override the YAML config; flags left at their
// defaults fill any gaps the file did not set.
func applyFlagDefaults(app *config.App, catalogPath, previewsDir, stateDir, listen string, debug bool) {
	if isFlagSet("presets") || app.CatalogPath == "" {
		app.CatalogPath = catalogPath
	}
	if isFlagSet("previews") || app.PreviewsDir == "" {
		app.PreviewsDir = previewsDir
	}
	if isFlagSet("state-dir") || app.StateDir == "" {
		app.StateDir = stateDir
	}
	if isFlagSet("listen") || app.Listen == "" {
		app.Listen = listen
	}
	if debug {
		app.Debug = true
	}
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// buildLogger writes logs to a file in the state dir when the TUI owns the
// terminal, and to stderr in headless mode.
func buildLogger(app config.App, headless bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if app.Debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if !headless {
		if err := os.MkdirAll(app.StateDir, 0o755); err != nil {
			return nil, err
		}
		cfg.OutputPaths = []string{filepath.Join(app.StateDir, "promptdeck.log")}
		cfg.ErrorOutputPaths = cfg.OutputPaths
	}
	return cfg.Build()
}

func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".promptdeck"
	}
	return filepath.Join(base, "promptdeck")
}
