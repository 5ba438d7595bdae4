package cli

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/deplayer/pkg/errors"
	"github.com/matzehuels/deplayer/pkg/pipeline"
)

// configFileName is the name of the config file inside the config directory.
const configFileName = "config.toml"

// Config is the on-disk configuration. Every field is optional; zero values
// fall back to pipeline defaults.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Serve  ServeConfig  `toml:"serve"`
}

// LayoutConfig holds the [layout] table.
type LayoutConfig struct {
	XMargin    float64 `toml:"x_margin"`
	YMargin    float64 `toml:"y_margin"`
	Rule       string  `toml:"rule"`
	HideStdlib bool    `toml:"hide_stdlib"`
	Strict     bool    `toml:"strict"`
}

// RenderConfig holds the [render] table.
type RenderConfig struct {
	FontSize float64 `toml:"font_size"`
	PaddingX float64 `toml:"padding_x"`
	PaddingY float64 `toml:"padding_y"`
	Backend  string  `toml:"backend"`
}

// ServeConfig holds the [serve] table.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// Options converts the config to pipeline options.
func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		HideStdlib: c.Layout.HideStdlib,
		XMargin:    c.Layout.XMargin,
		YMargin:    c.Layout.YMargin,
		Rule:       c.Layout.Rule,
		Strict:     c.Layout.Strict,
		FontSize:   c.Render.FontSize,
		PaddingX:   c.Render.PaddingX,
		PaddingY:   c.Render.PaddingY,
		Backend:    c.Render.Backend,
	}
}

// configDir returns the config directory using XDG standard (~/.config/deplayer/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadConfig reads the config file at path. An empty path selects the
// default location, which may be absent; an explicit path must exist.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return Config{}, nil
		}
		path = filepath.Join(dir, configFileName)
	}

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			if explicit {
				return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
			}
			return Config{}, nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}
