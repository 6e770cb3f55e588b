package gui

import (
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	appID       = "io.github.screen-ocr"
	windowTitle = "OCR Screenshot Tool"
	// Time for the compositor to repaint after the control window is hidden,
	// so it is not part of the overlay background.
	hideSettle = 150 * time.Millisecond
)

// App owns the fyne application: the small control window, the tray menu and
// every window opened for results or selection.
type App struct {
	fyne      fyne.App
	control   fyne.Window
	selectBtn *widget.Button

	// OnSelect and OnLocate are invoked on the UI goroutine and must not block.
	OnSelect func()
	OnLocate func()
}

func New() *App {
	a := &App{fyne: app.NewWithID(appID)}
	a.fyne.SetIcon(appIcon)

	a.control = a.fyne.NewWindow(windowTitle)
	a.control.SetMaster()
	a.control.SetFixedSize(true)

	a.selectBtn = widget.NewButton("Select Area", a.selectArea)
	exitBtn := widget.NewButton("Exit", a.fyne.Quit)
	a.control.SetContent(container.NewGridWithColumns(2, a.selectBtn, exitBtn))
	a.control.Resize(fyne.NewSize(230, 60))

	if desk, ok := a.fyne.(desktop.App); ok {
		menu := fyne.NewMenu(windowTitle,
			fyne.NewMenuItem("Select Area", a.selectArea),
			fyne.NewMenuItem("Locate Engine", a.locateEngine),
		)
		desk.SetSystemTrayMenu(menu)
		desk.SetSystemTrayIcon(appIcon)
	}
	return a
}

func (a *App) selectArea() {
	if a.OnSelect != nil {
		a.OnSelect()
	}
}

func (a *App) locateEngine() {
	if a.OnLocate != nil {
		a.OnLocate()
	}
}

// HideControls blocks until the control window is gone from the screen.
func (a *App) HideControls() {
	fyne.DoAndWait(a.control.Hide)
	time.Sleep(hideSettle)
}

func (a *App) RestoreControls() {
	fyne.Do(a.control.Show)
}

func (a *App) SetBusy(busy bool) {
	fyne.Do(func() {
		if busy {
			a.selectBtn.Disable()
		} else {
			a.selectBtn.Enable()
		}
	})
}

// Run shows the control window and blocks on the UI loop until Quit.
func (a *App) Run() {
	log.Printf("gui: starting")
	a.control.ShowAndRun()
	log.Printf("gui: stopped")
}

// RunHidden runs the UI loop without the control window, for single captures.
func (a *App) RunHidden() {
	a.fyne.Run()
}

// Quit is safe from any goroutine.
func (a *App) Quit() {
	fyne.Do(a.fyne.Quit)
}
