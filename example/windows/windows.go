// SPDX-License-Identifier: Unlicense OR MIT

package main

// Multiple windows in cxui.

import (
	"fmt"
	"log"

	"cxui.org/app"
	"cxui.org/layout"
	"cxui.org/widget"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatal(err)
	}
	if err := newWindow(a); err != nil {
		a.Close()
		log.Fatal(err)
	}
	if err := a.Run(); err != nil {
		log.Fatal(err)
	}
}

func newWindow(a *app.Application) error {
	w, err := a.NewWindow(app.WindowConfig{
		Title:  fmt.Sprintf("Window %d", len(a.Windows())+1),
		Width:  240,
		Height: 120,
		Root: widget.ContainerConfig{
			Layout: layout.Flex{Justify: layout.JustifyCenter, Align: layout.AlignCenter},
		},
	})
	if err != nil {
		return err
	}
	btn, err := widget.NewButton(widget.ButtonConfig{
		Text: "More!",
		OnClick: func(*widget.Button) {
			if err := newWindow(a); err != nil {
				log.Print(err)
			}
		},
	})
	if err != nil {
		w.Close()
		return err
	}
	w.Root().AddChild(btn)
	return w.Show()
}
