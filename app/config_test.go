// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cxui.org/errs"
	"cxui.org/paint"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
window:
  title: Editor
  width: 1024
  height: 768
  position: {x: 10, y: 20}
  fixed_size: true
  always_on_top: true
  fullscreen: true
  background: "#202020"
quit_on_last_window_closed: false
verbose: true
target_fps: 30
`))
	if err != nil {
		t.Fatal(err)
	}
	w := cfg.Window
	if w.Title != "Editor" || w.Width != 1024 || w.Height != 768 {
		t.Errorf("window %+v", w)
	}
	if w.Position == nil || *w.Position != (Point{X: 10, Y: 20}) {
		t.Errorf("position %v", w.Position)
	}
	if w.Background != paint.RGB(0x20, 0x20, 0x20) {
		t.Errorf("background %v", w.Background)
	}
	if !w.FixedSize || cfg.QuitOnLastWindowClosed || !cfg.Verbose || cfg.TargetFPS != 30 {
		t.Errorf("flags %+v", cfg)
	}
	p := w.params()
	if p.Resizable || !p.Decorations || !p.AlwaysOnTop || !p.Fullscreen {
		t.Errorf("params %+v", p)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if cfg.Window.Title != def.Window.Title || cfg.Window.Width != def.Window.Width {
		t.Errorf("empty config %+v, want defaults", cfg.Window)
	}
	if !cfg.QuitOnLastWindowClosed {
		t.Error("QuitOnLastWindowClosed not defaulted")
	}
	named, err := ParseConfig([]byte("window:\n  background: navy\n"))
	if err != nil {
		t.Fatal(err)
	}
	if named.Window.Background != paint.RGB(0, 0, 0x80) {
		t.Errorf("navy = %v", named.Window.Background)
	}
}

func TestParseConfigErrors(t *testing.T) {
	if _, err := ParseConfig([]byte("window:\n  colour: red\n")); err == nil || !strings.Contains(err.Error(), "colour") {
		t.Errorf("unknown key: %v", err)
	}
	if _, err := ParseConfig([]byte("window:\n  background: \"#12\"\n")); err == nil {
		t.Error("invalid color accepted")
	}
	if _, err := ParseConfig([]byte("window:\n  width: -10\n")); !errs.IsKind(err, errs.KindState) {
		t.Errorf("negative width: %v", err)
	}
	if _, err := ParseConfig([]byte("target_fps: -1\n")); !errs.IsKind(err, errs.KindState) {
		t.Errorf("negative target fps: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cxui.yaml")
	if err := os.WriteFile(path, []byte("window:\n  title: Loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Title != "Loaded" {
		t.Errorf("title %q", cfg.Window.Title)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestMerge(t *testing.T) {
	def := DefaultConfig().Window
	def.Undecorated = true
	def.AlwaysOnTop = true
	got := WindowConfig{Title: "own", Height: 50}.merge(def)
	if got.Title != "own" || got.Height != 50 || got.Width != def.Width {
		t.Errorf("merged %+v", got)
	}
	if got.Background != def.Background || !got.Undecorated || !got.AlwaysOnTop || got.Fullscreen {
		t.Errorf("merged %+v", got)
	}
}
