// Package ui provides the counter user interface using Fyne.
package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"github.com/chrisuehlinger/clickcounter/page"
)

// CounterWindow renders a page's control as a button and its display as a
// label. Tapping the button activates the control on the page.
type CounterWindow struct {
	window fyne.Window
	page   *page.Page

	controlID string
	displayID string

	button  *widget.Button
	display *widget.Label
}

// NewCounterWindow creates a window for the control and display elements of
// p. Both ids must exist in the page.
func NewCounterWindow(a fyne.App, p *page.Page, controlID, displayID string) (*CounterWindow, error) {
	label, err := p.Text(controlID)
	if err != nil {
		return nil, err
	}
	text, err := p.Text(displayID)
	if err != nil {
		return nil, err
	}

	title := p.Title()
	if title == "" {
		title = "Counter"
	}

	w := &CounterWindow{
		window:    a.NewWindow(title),
		page:      p,
		controlID: controlID,
		displayID: displayID,
	}
	w.button = widget.NewButton(label, w.activate)
	w.display = widget.NewLabel(text)
	w.display.Alignment = fyne.TextAlignCenter

	w.window.SetContent(container.NewVBox(
		widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		w.button,
		w.display,
	))
	w.window.Resize(fyne.NewSize(320, 160))
	return w, nil
}

// activate runs one activation on the page and redraws.
func (w *CounterWindow) activate() {
	if err := w.page.Click(w.controlID); err != nil {
		log.Error().Err(err).Str("control", w.controlID).Msg("activation failed")
		return
	}
	w.refresh()
}

// refresh copies the page's current text into the widgets.
func (w *CounterWindow) refresh() {
	if label, err := w.page.Text(w.controlID); err == nil {
		w.button.SetText(label)
	}
	text, err := w.page.Text(w.displayID)
	if err != nil {
		log.Error().Err(err).Str("display", w.displayID).Msg("display element is gone")
		return
	}
	w.display.SetText(text)
}

// Follow redraws after every dispatch on the page, including activations
// delivered by page.Run from other goroutines.
func (w *CounterWindow) Follow() {
	w.page.OnDispatch(func() {
		fyne.Do(w.refresh)
	})
}

// Window returns the underlying fyne window.
func (w *CounterWindow) Window() fyne.Window {
	return w.window
}

// Button returns the widget standing in for the control element.
func (w *CounterWindow) Button() *widget.Button {
	return w.button
}

// Display returns the widget mirroring the display element.
func (w *CounterWindow) Display() *widget.Label {
	return w.display
}

// ShowAndRun shows the window and runs the application event loop.
func (w *CounterWindow) ShowAndRun() {
	w.window.ShowAndRun()
}
