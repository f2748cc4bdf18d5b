package config

import (
	"path/filepath"
	"testing"
)

const validTOML = `
[ui]
font_size = 14
cursor_style = "beam"
theme = "solarized"

[keymap]
prefix = "ctrl-b"

[agent]
shell = "/usr/bin/zsh"
args = ["-l"]
working_dir = "/tmp"

[models.default]
path = "/opt/models/weights.bin"
temperature = 0.7

[telemetry]
enabled = true
tag = "beta"
`

func TestParseValidConfig(t *testing.T) {
	cfg, err := Parse([]byte(validTOML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.UI.FontSize != 14 {
		t.Errorf("expected font_size 14, got %d", cfg.UI.FontSize)
	}
	if cfg.Keymap.Prefix != "ctrl-b" {
		t.Errorf("expected prefix ctrl-b, got %q", cfg.Keymap.Prefix)
	}
	model, ok := cfg.Models["default"]
	if !ok {
		t.Fatal("expected models.default to be present")
	}
	if model.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %f", model.Temperature)
	}
}

func TestParseRejectsOutOfRangeFontSize(t *testing.T) {
	bad := `
[ui]
font_size = 200
cursor_style = "block"
[keymap]
prefix = "ctrl-a"
`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected an error for font_size out of [6, 72]")
	}
}

func TestParseRejectsUnknownCursorStyle(t *testing.T) {
	bad := `
[ui]
font_size = 12
cursor_style = "bouncing-ball"
[keymap]
prefix = "ctrl-a"
`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected an error for an unrecognized cursor style")
	}
}

func TestParseRejectsEmptyKeymapPrefix(t *testing.T) {
	bad := `
[ui]
font_size = 12
cursor_style = "block"
[keymap]
prefix = ""
`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected an error for an empty keymap prefix")
	}
}

func TestParseRejectsModelWithoutPathOrEndpoint(t *testing.T) {
	bad := `
[ui]
font_size = 12
cursor_style = "block"
[keymap]
prefix = "ctrl-a"
[models.broken]
temperature = 0.5
`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected an error for a model with neither path nor api_endpoint")
	}
}

func TestParseRejectsTemperatureOutOfRange(t *testing.T) {
	bad := `
[ui]
font_size = 12
cursor_style = "block"
[keymap]
prefix = "ctrl-a"
[models.broken]
path = "/tmp/model.bin"
temperature = 5.0
`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected an error for temperature out of [0.0, 2.0]")
	}
}

func TestPtyDefaultsProjectsAgentSection(t *testing.T) {
	cfg, err := Parse([]byte(validTOML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	pd := cfg.PtyDefaults()
	if pd.Shell != "/usr/bin/zsh" {
		t.Errorf("expected shell /usr/bin/zsh, got %q", pd.Shell)
	}
	if len(pd.Args) != 1 || pd.Args[0] != "-l" {
		t.Errorf("expected args [-l], got %v", pd.Args)
	}
	if pd.WorkingDir != "/tmp" {
		t.Errorf("expected working_dir /tmp, got %q", pd.WorkingDir)
	}
	if len(pd.Env) == 0 {
		t.Error("expected PtyDefaults to seed env from the process environment")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err == nil {
		t.Fatal("expected an error loading a nonexistent config file")
	}
}
