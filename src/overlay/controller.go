package overlay

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"screen-ocr/src/screenshot"
)

var (
	// ErrSessionActive is returned by Arm while another session is running.
	ErrSessionActive = errors.New("selection session already active")
	// ErrSelectionDegenerate marks a release that produced a zero-area rectangle.
	ErrSelectionDegenerate = errors.New("selection has zero area")
)

// Outcome is delivered once per armed session.
type Outcome struct {
	State State
	Rect  screenshot.Rect
	// Err is ErrSelectionDegenerate when a drag collapsed to a line or point.
	Err error
}

func (o Outcome) Cancelled() bool { return o.State != StateCompleted }

// Controller drives one drag gesture at a time. Pointer coordinates are
// virtual-screen pixels. It is safe for concurrent use: the UI goroutine feeds
// pointer events while the event loop waits in Select.
type Controller struct {
	surface Surface

	mu     sync.Mutex
	state  State
	startX int
	startY int
	rect   screenshot.Rect
	done   chan Outcome
}

func NewController(surface Surface) *Controller {
	return &Controller{surface: surface, state: StateIdle}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Arm starts a session and shows the surface.
func (c *Controller) Arm() (<-chan Outcome, error) {
	c.mu.Lock()
	next, err := Transition(c.state, EventArm)
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrSessionActive, err)
	}
	c.state = next
	c.rect = screenshot.Rect{}
	c.done = make(chan Outcome, 1)
	done := c.done
	c.mu.Unlock()

	c.surface.Show()
	return done, nil
}

// Press fixes the anchor corner.
func (c *Controller) Press(x, y int) error {
	c.mu.Lock()
	next, err := Transition(c.state, EventPress)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = next
	c.startX, c.startY = x, y
	c.rect = screenshot.NewRect(x, y, x, y)
	r := c.rect
	c.mu.Unlock()

	c.surface.Update(r)
	return nil
}

// Move updates the free corner.
func (c *Controller) Move(x, y int) error {
	c.mu.Lock()
	next, err := Transition(c.state, EventMove)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = next
	c.rect = screenshot.NewRect(c.startX, c.startY, x, y)
	r := c.rect
	c.mu.Unlock()

	c.surface.Update(r)
	return nil
}

// Release finishes the drag. A zero-area rectangle ends the session as
// cancelled.
func (c *Controller) Release(x, y int) error {
	c.mu.Lock()
	if c.state != StateDragging {
		_, err := Transition(c.state, EventRelease)
		c.mu.Unlock()
		return err
	}

	r := screenshot.NewRect(c.startX, c.startY, x, y)
	if r.Empty() {
		log.Printf("overlay: discarding %s: %v", r, ErrSelectionDegenerate)
		c.finishLocked(EventDiscard, Outcome{Err: ErrSelectionDegenerate})
	} else {
		c.finishLocked(EventRelease, Outcome{Rect: r})
	}
	c.mu.Unlock()

	c.surface.Dismiss()
	return nil
}

// Cancel aborts an armed or dragging session.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	if _, err := Transition(c.state, EventCancel); err != nil {
		c.mu.Unlock()
		return err
	}
	c.finishLocked(EventCancel, Outcome{})
	c.mu.Unlock()

	c.surface.Dismiss()
	return nil
}

// Reset returns a finished controller to Idle so it can be armed again.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := Transition(c.state, EventReset)
	if err != nil {
		return err
	}
	c.state = next
	c.rect = screenshot.Rect{}
	return nil
}

func (c *Controller) finishLocked(ev Event, out Outcome) {
	next, _ := Transition(c.state, ev)
	c.state = next
	out.State = next
	c.rect = out.Rect
	c.done <- out
}

// Select runs one full session. Context cancellation cancels the gesture.
func (c *Controller) Select(ctx context.Context) (screenshot.Rect, bool, error) {
	done, err := c.Arm()
	if err != nil {
		return screenshot.Rect{}, false, err
	}
	defer c.Reset()

	select {
	case out := <-done:
		return out.Rect, out.Cancelled(), nil
	case <-ctx.Done():
		_ = c.Cancel()
		<-done
		return screenshot.Rect{}, false, ctx.Err()
	}
}
