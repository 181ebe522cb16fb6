// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"cxui.org/errs"
	"cxui.org/io/event"
	"cxui.org/paint"
	"cxui.org/platform"
	"cxui.org/widget"
)

// Config is the application configuration. The zero value is not
// valid; start from DefaultConfig or ParseConfig.
type Config struct {
	// Window holds the defaults for windows created without an
	// explicit value.
	Window WindowConfig `yaml:"window"`
	// QuitOnLastWindowClosed ends Run when the last open window
	// closes.
	QuitOnLastWindowClosed bool `yaml:"quit_on_last_window_closed"`
	// Verbose logs per frame diagnostics and panic stack traces.
	Verbose bool `yaml:"verbose"`
	// TargetFPS caps how often a window renders. Zero renders every
	// invalidated window on each loop iteration.
	TargetFPS int `yaml:"target_fps"`

	// OnFrameError is called when a window fails to render or present
	// a frame. Returning nil keeps the loop running and the window
	// retries on the next iteration; returning an error stops Run
	// with that error. When nil, transient platform errors are logged
	// and retried and every other error stops Run.
	OnFrameError func(w *Window, err error) error `yaml:"-"`
}

// WindowConfig describes a window. Zero fields take their value from
// the application's Config.Window, then from platform.DefaultParams.
type WindowConfig struct {
	Title string `yaml:"title"`
	// Width and Height are the client area size in logical units.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Position places the window on screen. Nil lets the window
	// manager decide.
	Position *Point `yaml:"position"`
	// FixedSize prevents the user from resizing the window.
	FixedSize bool `yaml:"fixed_size"`
	// Undecorated removes the title bar and borders.
	Undecorated bool `yaml:"undecorated"`
	AlwaysOnTop bool `yaml:"always_on_top"`
	Fullscreen  bool `yaml:"fullscreen"`
	// Background clears every frame. The zero value means white.
	Background paint.Color `yaml:"background"`

	// Root configures the root container.
	Root widget.ContainerConfig `yaml:"-"`
	// OnEvent receives the window level events: resize, move, focus
	// changes and close requests.
	OnEvent func(w *Window, e event.Event) `yaml:"-"`
	// OnClose is asked before a user close request closes the
	// window. Returning false keeps the window open.
	OnClose func(w *Window) bool `yaml:"-"`
}

// Point is a screen position in pixels.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	p := platform.DefaultParams()
	return Config{
		Window: WindowConfig{
			Title:      p.Title,
			Width:      p.Width,
			Height:     p.Height,
			Background: paint.RGB(0xff, 0xff, 0xff),
		},
		QuitOnLastWindowClosed: true,
	}
}

// ParseConfig decodes a YAML configuration on top of DefaultConfig.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("app: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML configuration file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("app: load config: %w", err)
	}
	return ParseConfig(data)
}

// Validate reports an invalid configuration.
func (c Config) Validate() error {
	if c.TargetFPS < 0 {
		return errs.State("app.Config", "negative target fps %d", c.TargetFPS)
	}
	return c.Window.validate()
}

func (c WindowConfig) validate() error {
	if c.Width < 0 || c.Height < 0 {
		return errs.State("app.Config", "negative window size %dx%d", c.Width, c.Height)
	}
	return nil
}

// merge fills the zero fields of c from def.
func (c WindowConfig) merge(def WindowConfig) WindowConfig {
	if c.Title == "" {
		c.Title = def.Title
	}
	if c.Width == 0 {
		c.Width = def.Width
	}
	if c.Height == 0 {
		c.Height = def.Height
	}
	if c.Position == nil {
		c.Position = def.Position
	}
	if c.Background == (paint.Color{}) {
		c.Background = def.Background
	}
	c.FixedSize = c.FixedSize || def.FixedSize
	c.Undecorated = c.Undecorated || def.Undecorated
	c.AlwaysOnTop = c.AlwaysOnTop || def.AlwaysOnTop
	c.Fullscreen = c.Fullscreen || def.Fullscreen
	return c
}

func (c WindowConfig) params() platform.Params {
	p := platform.DefaultParams()
	if c.Title != "" {
		p.Title = c.Title
	}
	if c.Width > 0 {
		p.Width = c.Width
	}
	if c.Height > 0 {
		p.Height = c.Height
	}
	if c.Position != nil {
		p.Position = &image.Point{X: c.Position.X, Y: c.Position.Y}
	}
	p.Resizable = !c.FixedSize
	p.Decorations = !c.Undecorated
	p.AlwaysOnTop = c.AlwaysOnTop
	p.Fullscreen = c.Fullscreen
	return p
}
