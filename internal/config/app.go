package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App is the optional YAML configuration file for the promptdeck binary.
// Command-line flags override anything set here.
type App struct {
	CatalogPath string   `yaml:"catalog_path"`
	PreviewsDir string   `yaml:"previews_dir"`
	StateDir    string   `yaml:"state_dir"`
	Listen      string   `yaml:"listen"`
	Targets     []string `yaml:"targets"`
	Debug       bool     `yaml:"debug"`
}

// LoadApp reads the YAML app config. A missing file is not an error; a
// malformed one is, since a half-applied config is worse than none.
func LoadApp(path string) (App, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return App{}, nil
		}
		return App{}, err
	}
	var app App
	if err := yaml.Unmarshal(data, &app); err != nil {
		return App{}, fmt.Errorf("malformed config %s: %w", path, err)
	}
	return app, nil
}
