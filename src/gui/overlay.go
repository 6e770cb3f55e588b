package gui

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"screen-ocr/src/overlay"
	"screen-ocr/src/screenshot"
)

var (
	shadeColor = color.NRGBA{A: 0x50}
	frameColor = color.NRGBA{R: 0xff, A: 0xff}
	emptyColor = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// dismissWait bounds how long Select waits for the overlay window to close.
const dismissWait = time.Second

// overlaySurface is a full-screen window showing a frozen capture of the
// virtual screen. Pointer positions are mapped back to virtual-screen pixels
// through the stretched background, so what the user frames is what gets
// grabbed.
type overlaySurface struct {
	app  *App
	ctrl *overlay.Controller

	// Touched only on the UI goroutine.
	win    fyne.Window
	area   *dragArea
	frame  *canvas.Rectangle
	bounds image.Rectangle

	mu sync.Mutex
	// gone is closed once the window of the current session is closed.
	gone chan struct{}
}

// overlaySelector returns only after the overlay window has left the screen,
// so a grab of the selected region never contains it.
type overlaySelector struct {
	ctrl    *overlay.Controller
	surface *overlaySurface
}

// NewSelector returns the interactive region selector.
func NewSelector(a *App) overlay.Selector {
	s := &overlaySurface{app: a}
	s.ctrl = overlay.NewController(s)
	return &overlaySelector{ctrl: s.ctrl, surface: s}
}

func (o *overlaySelector) Select(ctx context.Context) (screenshot.Rect, bool, error) {
	r, cancelled, err := o.ctrl.Select(ctx)
	if errors.Is(err, overlay.ErrSessionActive) {
		return r, cancelled, err
	}
	o.surface.awaitDismissed(dismissWait)
	return r, cancelled, err
}

func (s *overlaySurface) Show() {
	bounds, err := screenshot.VirtualScreenBounds()
	if err != nil {
		log.Printf("gui: overlay bounds: %v", err)
	}
	bg, err := screenshot.Capture()
	if err != nil {
		log.Printf("gui: overlay background: %v", err)
		bg = nil
	}
	s.open(bounds, bg)
}

func (s *overlaySurface) open(bounds image.Rectangle, bg *image.RGBA) {
	s.mu.Lock()
	s.gone = make(chan struct{})
	s.mu.Unlock()
	fyne.DoAndWait(func() { s.build(bounds, bg) })
}

func (s *overlaySurface) build(bounds image.Rectangle, bg *image.RGBA) {
	s.bounds = bounds

	var background fyne.CanvasObject
	if bg != nil {
		img := canvas.NewImageFromImage(bg)
		img.FillMode = canvas.ImageFillStretch
		img.ScaleMode = canvas.ImageScaleFastest
		background = img
	} else {
		background = canvas.NewRectangle(emptyColor)
	}

	s.frame = canvas.NewRectangle(color.Transparent)
	s.frame.StrokeColor = frameColor
	s.frame.StrokeWidth = 2
	s.frame.Hide()

	s.area = newDragArea(s)

	w := s.app.fyne.NewWindow("Select Area")
	w.SetPadded(false)
	w.SetContent(container.NewStack(
		background,
		canvas.NewRectangle(shadeColor),
		container.NewWithoutLayout(s.frame),
		s.area,
	))
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			_ = s.ctrl.Cancel()
		}
	})
	w.SetCloseIntercept(func() { _ = s.ctrl.Cancel() })
	w.SetFullScreen(true)
	w.Show()
	w.RequestFocus()
	s.win = w
}

func (s *overlaySurface) Update(r screenshot.Rect) {
	fyne.Do(func() {
		if s.frame == nil {
			return
		}
		x1, y1 := s.toCanvas(r.X1, r.Y1)
		x2, y2 := s.toCanvas(r.X2, r.Y2)
		s.frame.Move(fyne.NewPos(x1, y1))
		s.frame.Resize(fyne.NewSize(x2-x1, y2-y1))
		s.frame.Show()
		s.frame.Refresh()
	})
}

// Dismiss may be called on the UI goroutine, so it only queues the close.
// awaitDismissed is the blocking half.
func (s *overlaySurface) Dismiss() {
	fyne.Do(func() {
		if s.win != nil {
			s.win.Close()
		}
		s.win, s.area, s.frame = nil, nil, nil

		s.mu.Lock()
		if s.gone != nil {
			close(s.gone)
			s.gone = nil
		}
		s.mu.Unlock()
	})
}

// awaitDismissed blocks until the queued close has run and the compositor
// had time to repaint the area underneath.
func (s *overlaySurface) awaitDismissed(timeout time.Duration) {
	s.mu.Lock()
	gone := s.gone
	s.mu.Unlock()

	if gone != nil {
		select {
		case <-gone:
		case <-time.After(timeout):
			log.Printf("gui: overlay still open after %v", timeout)
		}
	}
	time.Sleep(hideSettle)
}

// toPixels maps a position on an overlay of the given size to virtual-screen
// pixels.
func (s *overlaySurface) toPixels(p fyne.Position, size fyne.Size) (int, int) {
	if size.Width <= 0 || size.Height <= 0 || s.bounds.Empty() {
		return s.bounds.Min.X + int(p.X), s.bounds.Min.Y + int(p.Y)
	}
	x := s.bounds.Min.X + int(p.X/size.Width*float32(s.bounds.Dx()))
	y := s.bounds.Min.Y + int(p.Y/size.Height*float32(s.bounds.Dy()))
	return x, y
}

func (s *overlaySurface) toCanvas(x, y int) (float32, float32) {
	size := s.area.Size()
	if size.Width <= 0 || size.Height <= 0 || s.bounds.Empty() {
		return float32(x - s.bounds.Min.X), float32(y - s.bounds.Min.Y)
	}
	fx := float32(x-s.bounds.Min.X) / float32(s.bounds.Dx()) * size.Width
	fy := float32(y-s.bounds.Min.Y) / float32(s.bounds.Dy()) * size.Height
	return fx, fy
}

// dragArea is the transparent top layer that receives the pointer.
type dragArea struct {
	widget.BaseWidget
	surface *overlaySurface
	last    fyne.Position
}

var (
	_ desktop.Mouseable  = (*dragArea)(nil)
	_ desktop.Cursorable = (*dragArea)(nil)
	_ fyne.Draggable     = (*dragArea)(nil)
)

func newDragArea(s *overlaySurface) *dragArea {
	d := &dragArea{surface: s}
	d.ExtendBaseWidget(d)
	return d
}

func (d *dragArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (d *dragArea) Cursor() desktop.Cursor { return desktop.CrosshairCursor }

func (d *dragArea) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	d.last = ev.Position
	x, y := d.surface.toPixels(ev.Position, d.Size())
	_ = d.surface.ctrl.Press(x, y)
}

func (d *dragArea) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	d.release(ev.Position)
}

func (d *dragArea) Dragged(ev *fyne.DragEvent) {
	d.last = ev.Position
	x, y := d.surface.toPixels(ev.Position, d.Size())
	_ = d.surface.ctrl.Move(x, y)
}

// DragEnd covers drivers that do not deliver MouseUp after a drag; the
// controller ignores whichever release arrives second.
func (d *dragArea) DragEnd() {
	d.release(d.last)
}

func (d *dragArea) release(p fyne.Position) {
	x, y := d.surface.toPixels(p, d.Size())
	_ = d.surface.ctrl.Release(x, y)
}
