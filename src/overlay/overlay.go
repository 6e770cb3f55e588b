package overlay

import (
	"context"

	"screen-ocr/src/screenshot"
)

// Selector defines a synchronous region-selection API owned by the event loop.
// The call is blocking and MUST be invoked only from the single event-loop goroutine.
// Returns (region, cancelled, error). If cancelled is true, region is undefined and err is nil.
type Selector interface {
	Select(ctx context.Context) (screenshot.Rect, bool, error)
}

// Surface is the visible part of a selection session: a full-screen overlay
// that draws the live rectangle. Implementations must be safe to call from
// any goroutine.
type Surface interface {
	Show()
	Update(r screenshot.Rect)
	Dismiss()
}
