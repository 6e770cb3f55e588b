package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"screen-ocr/src/hotkey"
	"screen-ocr/src/overlay"
	"screen-ocr/src/session"
	"screen-ocr/src/singleinstance"
)

var ErrBusy = errors.New("Busy, please retry")

// RelocateFunc re-runs engine resolution and returns a pipeline bound to the
// result.
type RelocateFunc func(ctx context.Context) (*session.Pipeline, string, error)

// UI is the optional trigger surface hidden while a region is selected.
type UI interface {
	HideControls()
	RestoreControls()
	SetBusy(busy bool)
}

type Options struct {
	Selector  overlay.Selector
	Pipeline  *session.Pipeline
	Presenter session.ResultTarget
	// Server makes this loop the resident; nil disables delegation.
	Server   singleinstance.Server
	Relocate RelocateFunc
	UI       UI
	// Notice reports engine resolution outcomes to the user.
	Notice func(title, message string)
	// ResolveAtStart runs Relocate once before serving triggers. Only a
	// failure is reported through Notice.
	ResolveAtStart bool
}

const (
	titleNotFound  = "OCR Engine Not Found"
	degradedNotice = "OCR will not work until the engine is located. Use \"Locate Engine\" from the tray menu."
)

type triggerKind int

const (
	triggerCapture triggerKind = iota
	triggerLocate
)

// Loop is the single control goroutine: every selection, recognition and
// presentation runs inside Run, one at a time.
type Loop struct {
	opts     Options
	pipeline *session.Pipeline
	busy     atomic.Bool
	triggers chan triggerKind
}

func New(opts Options) *Loop {
	l := &Loop{
		opts:     opts,
		pipeline: opts.Pipeline,
		triggers: make(chan triggerKind, 1),
	}
	// Triggers stay rejected until the startup resolution in Run is over.
	l.busy.Store(l.resolvesAtStart())
	return l
}

func (l *Loop) resolvesAtStart() bool {
	return l.opts.ResolveAtStart && l.opts.Relocate != nil
}

// Pipeline returns the pipeline currently in use. Only call from Run's
// goroutine or after Run returned.
func (l *Loop) Pipeline() *session.Pipeline { return l.pipeline }

// Busy reports whether a session or resolution is running or queued.
func (l *Loop) Busy() bool { return l.busy.Load() }

// TriggerCapture queues one capture gesture. It returns false while another
// one is in progress.
func (l *Loop) TriggerCapture() bool { return l.trigger(triggerCapture) }

// TriggerLocate queues engine re-resolution.
func (l *Loop) TriggerLocate() bool { return l.trigger(triggerLocate) }

func (l *Loop) trigger(kind triggerKind) bool {
	if !l.acquire() {
		log.Printf("eventloop: busy, ignoring trigger")
		return false
	}
	l.triggers <- kind
	return true
}

func (l *Loop) acquire() bool {
	if !l.busy.CompareAndSwap(false, true) {
		return false
	}
	if l.opts.UI != nil {
		l.opts.UI.SetBusy(true)
	}
	return true
}

func (l *Loop) release() {
	if l.opts.UI != nil {
		l.opts.UI.SetBusy(false)
	}
	l.busy.Store(false)
}

// StartHotkey registers a global hotkey that triggers a capture.
func (l *Loop) StartHotkey(ctx context.Context, combo string) error {
	if combo == "" {
		return nil
	}
	return hotkey.Listen(ctx, combo, func() { l.TriggerCapture() })
}

// Run processes triggers and delegated requests until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if l.opts.Selector == nil || l.opts.Presenter == nil {
		return errors.New("eventloop: Selector and Presenter are required")
	}

	var reqCh chan singleinstance.Conn
	if l.opts.Server != nil {
		if err := l.opts.Server.Start(ctx); err != nil {
			return err
		}
		defer l.opts.Server.Close()
		if p := l.opts.Server.Port(); p > 0 {
			log.Printf("eventloop: resident listening on 127.0.0.1:%d", p)
		}
		reqCh = make(chan singleinstance.Conn)
		go l.accept(ctx, reqCh)
	}

	if l.resolvesAtStart() {
		if _, err := l.relocate(ctx); err != nil && l.opts.Notice != nil {
			l.opts.Notice(titleNotFound, degradedNotice)
		}
		l.release()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case kind := <-l.triggers:
			switch kind {
			case triggerCapture:
				l.capture(ctx, l.opts.Presenter)
			case triggerLocate:
				l.locate(ctx)
			}
			l.release()
		case conn, ok := <-reqCh:
			if !ok {
				return nil
			}
			l.handleConn(ctx, conn)
			l.release()
		}
	}
}

// accept rejects requests that arrive while busy without involving Run.
func (l *Loop) accept(ctx context.Context, reqCh chan<- singleinstance.Conn) {
	defer close(reqCh)
	for {
		conn, err := l.opts.Server.Next(ctx)
		if err != nil {
			return
		}
		if !l.acquire() {
			log.Printf("eventloop: busy, rejecting delegated request")
			_ = conn.RespondError(ErrBusy.Error())
			_ = conn.Close()
			continue
		}
		select {
		case reqCh <- conn:
		case <-ctx.Done():
			_ = conn.Close()
			return
		}
	}
}

func (l *Loop) handleConn(ctx context.Context, conn singleinstance.Conn) {
	defer conn.Close()
	req := conn.Request()
	switch req.Action {
	case singleinstance.ActionLocate:
		path, err := l.relocate(ctx)
		if err != nil {
			_ = conn.RespondError(err.Error())
			return
		}
		_ = conn.RespondSuccess(path)
	default:
		l.capture(ctx, session.DelegatedTarget{Conn: conn, OutputToStdout: req.OutputToStdout})
	}
}

func (l *Loop) capture(ctx context.Context, target session.ResultTarget) {
	opts := session.Options{
		SelectRegion: l.opts.Selector.Select,
		Grab:         l.pipeline.Grab,
		Recognize:    l.pipeline.RecognizeImage,
		Target:       target,
	}
	if l.opts.UI != nil {
		opts.HideUI = l.opts.UI.HideControls
		opts.RestoreUI = l.opts.UI.RestoreControls
	}
	if _, err := session.Execute(ctx, opts); err != nil && !errors.Is(err, session.ErrSelectionCancelled) {
		log.Printf("eventloop: capture finished with error: %v", err)
	}
}

func (l *Loop) locate(ctx context.Context) {
	path, err := l.relocate(ctx)
	if l.opts.Notice == nil {
		return
	}
	if err != nil {
		l.opts.Notice(titleNotFound, degradedNotice+"\n\n"+err.Error())
		return
	}
	l.opts.Notice("OCR Engine", "Using "+path)
}

func (l *Loop) relocate(ctx context.Context) (string, error) {
	if l.opts.Relocate == nil {
		return "", errors.New("engine relocation not supported")
	}
	p, path, err := l.opts.Relocate(ctx)
	if err != nil {
		log.Printf("eventloop: relocate: %v", err)
		return "", fmt.Errorf("locate engine: %w", err)
	}
	l.pipeline = p
	log.Printf("eventloop: switched to engine %s", path)
	return path, nil
}
