// SPDX-License-Identifier: Unlicense OR MIT

package main

// A simple cxui program: a greeting that follows a text field.

import (
	"flag"
	"log"

	"cxui.org/app"
	"cxui.org/layout"
	"cxui.org/widget"
)

var configPath = flag.String("config", "", "YAML configuration file")

func main() {
	flag.Parse()
	cfg := app.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = app.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	a, err := app.New(app.WithConfig(cfg))
	if err != nil {
		log.Fatal(err)
	}
	if err := setup(a); err != nil {
		a.Close()
		log.Fatal(err)
	}
	if err := a.Run(); err != nil {
		log.Fatal(err)
	}
}

func setup(a *app.Application) error {
	w, err := a.NewWindow(app.WindowConfig{
		Title:  "Hello, cxui",
		Width:  400,
		Height: 160,
		Root: widget.ContainerConfig{
			Layout: layout.Flex{Direction: layout.Column, Align: layout.AlignStretch, Gap: 8},
			Style:  widget.ContainerStyle{Padding: 16},
		},
	})
	if err != nil {
		return err
	}
	greeting, err := widget.NewLabel(widget.LabelConfig{Text: "Hello, World"})
	if err != nil {
		return err
	}
	name, err := widget.NewTextInput(widget.TextInputConfig{
		Placeholder: "Your name",
		MaxLength:   40,
		OnEnter: func(text string) {
			if text == "" {
				text = "World"
			}
			greeting.SetText("Hello, " + text)
		},
	})
	if err != nil {
		return err
	}
	quit, err := widget.NewButton(widget.ButtonConfig{
		Text:    "Quit",
		OnClick: func(*widget.Button) { a.Quit() },
	})
	if err != nil {
		return err
	}
	root := w.Root()
	for _, c := range []widget.Widget{greeting, name, quit} {
		if err := root.AddChild(c); err != nil {
			return err
		}
	}
	return w.Show()
}
