package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/kbinani/screenshot"
)

// Rect is a selection in virtual-screen pixel coordinates. Use NewRect to get
// the normalized form (X1<=X2, Y1<=Y2).
type Rect struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

// NewRect builds a normalized rectangle from two corners given in any order.
func NewRect(ax, ay, bx, by int) Rect {
	return Rect{
		X1: min(ax, bx),
		Y1: min(ay, by),
		X2: max(ax, bx),
		Y2: max(ay, by),
	}
}

func (r Rect) Width() int  { return r.X2 - r.X1 }
func (r Rect) Height() int { return r.Y2 - r.Y1 }

// Empty reports a degenerate rectangle (zero width or height).
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

func (r Rect) Bounds() image.Rectangle { return image.Rect(r.X1, r.Y1, r.X2, r.Y2) }

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
}

// Displays returns the bounds of every active display in virtual-screen
// coordinates.
func Displays() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, screenshot.GetDisplayBounds(i))
	}
	return out
}

// VirtualScreenBounds returns the union of all active display bounds.
func VirtualScreenBounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return union, nil
}

// Capture captures the entire virtual screen across all active displays.
func Capture() (*image.RGBA, error) {
	union, err := VirtualScreenBounds()
	if err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureRect(union)
	if err != nil {
		return nil, fmt.Errorf("failed to capture virtual screen: %w", err)
	}
	return img, nil
}

// Grab captures the pixels inside r.
func Grab(r Rect) (image.Image, error) {
	if r.Empty() {
		return nil, fmt.Errorf("invalid region %s: zero area", r)
	}
	img, err := screenshot.CaptureRect(r.Bounds())
	if err != nil {
		return nil, fmt.Errorf("failed to capture region %s: %w", r, err)
	}
	return img, nil
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Preprocess converts to grayscale and enlarges small captures by scale before
// OCR. A scale of 1 or less returns img untouched.
func Preprocess(img image.Image, scale float64) image.Image {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	w := int(float64(b.Dx()) * scale)
	gray := imaging.Grayscale(img)
	return imaging.Resize(gray, w, 0, imaging.Lanczos)
}
