package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"screen-ocr/src/popup"
)

var _ popup.View = (*App)(nil)

// ShowText opens an editable result window. onCopy receives the current
// contents of the text area, including any edits.
func (a *App) ShowText(title, text string, onCopy func(string)) {
	fyne.Do(func() {
		w := a.fyne.NewWindow(title)

		entry := widget.NewMultiLineEntry()
		entry.Wrapping = fyne.TextWrapWord
		entry.SetText(text)

		copyBtn := widget.NewButton("Copy to Clipboard", func() {
			if onCopy != nil {
				onCopy(entry.Text)
			}
		})
		copyBtn.Importance = widget.HighImportance

		w.SetContent(container.NewBorder(nil, copyBtn, nil, nil, container.NewScroll(entry)))
		w.Resize(fyne.NewSize(500, 500))
		w.CenterOnScreen()
		w.Show()
		w.RequestFocus()
	})
}

// ShowNotice opens a small message window with a single dismiss button.
func (a *App) ShowNotice(title, message string) {
	fyne.Do(func() {
		w := a.fyne.NewWindow(title)
		label := widget.NewLabel(message)
		label.Wrapping = fyne.TextWrapWord
		ok := widget.NewButton("OK", w.Close)
		w.SetContent(container.NewBorder(nil, container.NewCenter(ok), nil, nil, label))
		w.Resize(fyne.NewSize(360, 140))
		w.CenterOnScreen()
		w.Show()
	})
}
