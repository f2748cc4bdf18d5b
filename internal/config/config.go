// Package config implements the keyed-section TOML configuration loader
// described as an external collaborator in SPEC_FULL.md's AMBIENT STACK
// section: the TTY Engine itself only ever consumes a tty.PtyConfig value,
// never a file on disk. This package is what turns a file on disk into
// one.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/user/ttyengine/internal/tty"
)

// UISection configures the terminal-emulator's rendering surface.
type UISection struct {
	FontSize   int    `toml:"font_size"`
	CursorStyle string `toml:"cursor_style"`
	Theme      string `toml:"theme"`
}

// KeymapSection configures the key-binding prefix used to enter
// command mode.
type KeymapSection struct {
	Prefix string `toml:"prefix"`
}

// AgentSection configures the default shell an agent-driven session
// spawns.
type AgentSection struct {
	Shell      string   `toml:"shell"`
	Args       []string `toml:"args"`
	WorkingDir string   `toml:"working_dir"`
}

// ModelSection configures one named model entry under [models.<name>].
type ModelSection struct {
	Path        string  `toml:"path"`
	APIEndpoint string  `toml:"api_endpoint"`
	Temperature float64 `toml:"temperature"`
}

// TelemetrySection toggles and tags optional usage telemetry.
type TelemetrySection struct {
	Enabled bool   `toml:"enabled"`
	Tag     string `toml:"tag"`
}

// Config is the full, validated, keyed-section configuration document.
type Config struct {
	UI        UISection               `toml:"ui"`
	Keymap    KeymapSection           `toml:"keymap"`
	Agent     AgentSection            `toml:"agent"`
	Models    map[string]ModelSection `toml:"models"`
	Telemetry TelemetrySection        `toml:"telemetry"`
}

var validCursorStyles = map[string]bool{"block": true, "beam": true, "underline": true}

// Load reads and validates a TOML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates and decodes raw TOML bytes into a Config.
func Parse(data []byte) (*Config, error) {
	cfg := defaultConfig()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse toml: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		UI: UISection{
			FontSize:    13,
			CursorStyle: "block",
			Theme:       "default",
		},
		Keymap: KeymapSection{Prefix: "ctrl-a"},
		Agent: AgentSection{
			Shell: shellFromEnv(),
		},
		Models:    map[string]ModelSection{},
		Telemetry: TelemetrySection{Enabled: false},
	}
}

func shellFromEnv() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/bash"
}

// validate enforces the ranges spec.md §9 calls out as the collaborator's
// contract: font size 6-72, a non-empty keymap prefix, a recognized
// cursor style, and every model requiring a path or an api_endpoint.
func (c *Config) validate() error {
	if c.UI.FontSize < 6 || c.UI.FontSize > 72 {
		return fmt.Errorf("config: ui.font_size %d out of range [6, 72]", c.UI.FontSize)
	}
	if !validCursorStyles[c.UI.CursorStyle] {
		return fmt.Errorf("config: ui.cursor_style %q must be one of block, beam, underline", c.UI.CursorStyle)
	}
	if strings.TrimSpace(c.Keymap.Prefix) == "" {
		return fmt.Errorf("config: keymap.prefix must not be empty")
	}
	for name, m := range c.Models {
		if strings.TrimSpace(m.Path) == "" && strings.TrimSpace(m.APIEndpoint) == "" {
			return fmt.Errorf("config: models.%s requires path or api_endpoint", name)
		}
		if m.Temperature < 0.0 || m.Temperature > 2.0 {
			return fmt.Errorf("config: models.%s.temperature %f out of range [0.0, 2.0]", name, m.Temperature)
		}
	}
	return nil
}

// PtyDefaults projects the [agent] section down into a tty.PtyConfig,
// seeding env/rows/cols from tty.DefaultPtyConfig so the engine never has
// to know this package exists.
func (c *Config) PtyDefaults() tty.PtyConfig {
	base := tty.DefaultPtyConfig()
	if c.Agent.Shell != "" {
		base.Shell = c.Agent.Shell
	}
	if len(c.Agent.Args) > 0 {
		base.Args = c.Agent.Args
	}
	if c.Agent.WorkingDir != "" {
		base.WorkingDir = c.Agent.WorkingDir
	}
	return base
}
