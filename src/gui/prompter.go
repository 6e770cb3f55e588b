package gui

import (
	"fmt"
	"net/url"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"screen-ocr/src/engine"
)

// Prompter shows engine resolution dialogs over the control window. Every
// method blocks until the user answers, so it must not be called on the UI
// goroutine.
type Prompter struct {
	app *App
}

var _ engine.Prompter = (*Prompter)(nil)

func NewPrompter(a *App) *Prompter {
	return &Prompter{app: a}
}

func (p *Prompter) Confirm(title, message string) bool {
	answer := make(chan bool, 1)
	fyne.Do(func() {
		d := dialog.NewConfirm(title, message, func(ok bool) { answer <- ok }, p.app.control)
		d.SetConfirmText("Yes")
		d.SetDismissText("No")
		p.showParent()
		d.Show()
	})
	return <-answer
}

func (p *Prompter) Inform(title, message string) {
	closed := make(chan struct{})
	fyne.Do(func() {
		d := dialog.NewInformation(title, message, p.app.control)
		d.SetOnClosed(func() { close(closed) })
		p.showParent()
		d.Show()
	})
	<-closed
}

func (p *Prompter) OpenURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse download url: %w", err)
	}
	return p.app.fyne.OpenURL(u)
}

// ChooseFile lets the user browse to the engine executable. The filter is
// only applied when the executable name carries an extension.
func (p *Prompter) ChooseFile(_, suggestedName string) (string, bool) {
	type choice struct {
		path string
		ok   bool
	}
	picked := make(chan choice, 1)
	fyne.Do(func() {
		d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				picked <- choice{}
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			picked <- choice{path: path, ok: path != ""}
		}, p.app.control)
		d.SetConfirmText("Use")
		if ext := filepath.Ext(suggestedName); ext != "" {
			d.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
		}
		d.Resize(fyne.NewSize(640, 480))
		p.showParent()
		d.Show()
	})
	c := <-picked
	return c.path, c.ok
}

// Dialogs are drawn inside the control window, which may be hidden while the
// tool sits in the tray.
func (p *Prompter) showParent() {
	p.app.control.Show()
	p.app.control.RequestFocus()
}
