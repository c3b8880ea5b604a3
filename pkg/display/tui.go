/*
Zaparoo Kiosk
Copyright (c) 2026 The Zaparoo Project Contributors.
SPDX-License-Identifier: GPL-3.0-or-later

This file is part of Zaparoo Kiosk.

Zaparoo Kiosk is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Zaparoo Kiosk is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Zaparoo Kiosk.  If not, see <http://www.gnu.org/licenses/>.
*/

package display

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/helpers/syncutil"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Panel is a tview widget that draws the rendered grid like the OLED does:
// light text on black, fixed to the panel's size.
type Panel struct {
	*tview.Box
	lines []string
	mu    syncutil.Mutex
}

func NewPanel() *Panel {
	p := &Panel{Box: tview.NewBox()}
	p.SetBorder(true).
		SetTitle(" kiosk ").
		SetBackgroundColor(tcell.ColorBlack).
		SetBorderColor(tcell.ColorDarkCyan)
	return p
}

func (p *Panel) SetScreen(s Screen) *Panel {
	lines := Render(s, Cols, Rows)
	p.mu.Lock()
	p.lines = lines
	p.mu.Unlock()
	return p
}

func (p *Panel) Draw(screen tcell.Screen) {
	p.DrawForSubclass(screen, p)

	x, y, width, height := p.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}

	p.mu.Lock()
	lines := p.lines
	p.mu.Unlock()

	style := tcell.StyleDefault.Foreground(tcell.ColorLightCyan).Background(tcell.ColorBlack)
	for i, line := range lines {
		if i >= height {
			break
		}
		col := 0
		for _, r := range line {
			if col >= width {
				break
			}
			screen.SetContent(x+col, y+i, r, nil, style)
			col++
		}
	}
}

// TUI emulates the front panel in a terminal.
type TUI struct {
	app     *tview.Application
	panel   *Panel
	done    chan error
	closeFn func() error
	stopped atomic.Bool
}

var ErrTUIStopped = errors.New("terminal ui stopped")

// NewTUI starts the terminal UI. A nil screen uses the real terminal. onQuit
// is called when the user presses Ctrl-C or q, since the terminal is in raw
// mode and no signal is delivered.
func NewTUI(screen tcell.Screen, onQuit func()) (*TUI, error) {
	app := tview.NewApplication()
	if screen != nil {
		app.SetScreen(screen)
	}

	panel := NewPanel()
	help := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText("q: quit")

	// border adds one cell on every side
	box := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(panel, Rows+2, 0, false).
		AddItem(help, 1, 0, false)
	root := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(box, Rows+3, 0, false).
			AddItem(nil, 0, 1, false), Cols+2, 0, false).
		AddItem(nil, 0, 1, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC || event.Rune() == 'q' {
			if onQuit != nil {
				onQuit()
			}
			return nil
		}
		return event
	})

	t := &TUI{
		app:   app,
		panel: panel,
		done:  make(chan error, 1),
	}

	t.closeFn = sync.OnceValue(func() error {
		t.app.Stop()
		if err := <-t.done; err != nil {
			return fmt.Errorf("terminal ui failed: %w", err)
		}
		return nil
	})

	app.SetRoot(root, true)
	go func() {
		err := app.Run()
		t.stopped.Store(true)
		t.done <- err
	}()

	return t, nil
}

func (t *TUI) Show(s Screen) error {
	if t.stopped.Load() {
		return ErrTUIStopped
	}
	t.panel.SetScreen(s)
	t.app.QueueUpdateDraw(func() {})
	return nil
}

// Panel returns the widget showing the current screen.
func (t *TUI) Panel() *Panel {
	return t.panel
}

func (t *TUI) Close() error {
	return t.closeFn()
}
