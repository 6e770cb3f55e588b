package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"screen-ocr/src/clipboard"
	"screen-ocr/src/screenshot"
	"screen-ocr/src/singleinstance"
)

var ErrSelectionCancelled = errors.New("selection cancelled")

type RegionSelectorFunc func(ctx context.Context) (screenshot.Rect, bool, error)

type RecognizeFunc func(ctx context.Context, img image.Image) Result

// ResultTarget receives the outcome of one gesture. OnFailure is also called
// with ErrSelectionCancelled so delegating clients get an answer.
type ResultTarget interface {
	OnSuccess(text string) error
	OnFailure(err error) error
}

type Options struct {
	SelectRegion RegionSelectorFunc
	Grab         GrabFunc
	Recognize    RecognizeFunc
	Target       ResultTarget
	// HideUI and RestoreUI bracket selection and grab; both are optional.
	HideUI    func()
	RestoreUI func()
}

// Execute runs one capture gesture: select, grab, recognize, deliver. The
// region is grabbed before RestoreUI so the control window never shows up in
// the captured pixels.
func Execute(ctx context.Context, opts Options) (Result, error) {
	if opts.SelectRegion == nil {
		return Result{}, errors.New("SelectRegion is required")
	}
	if opts.Grab == nil {
		return Result{}, errors.New("Grab is required")
	}
	if opts.Recognize == nil {
		return Result{}, errors.New("Recognize is required")
	}
	if opts.Target == nil {
		return Result{}, errors.New("Target is required")
	}

	id := uuid.NewString()
	log.Printf("session %s: started", id)

	if opts.HideUI != nil {
		opts.HideUI()
	}
	region, cancelled, err := opts.SelectRegion(ctx)

	var (
		img     image.Image
		grabErr error
	)
	if err == nil && !cancelled {
		log.Printf("session %s: region %s", id, region)
		img, grabErr = opts.Grab(region)
	}
	if opts.RestoreUI != nil {
		opts.RestoreUI()
	}

	switch {
	case err != nil:
		log.Printf("session %s: selection failed: %v", id, err)
		_ = opts.Target.OnFailure(err)
		return Result{}, err
	case cancelled:
		log.Printf("session %s: cancelled", id)
		_ = opts.Target.OnFailure(ErrSelectionCancelled)
		return Result{}, ErrSelectionCancelled
	case grabErr != nil:
		log.Printf("session %s: grab %s failed: %v", id, region, grabErr)
		res := Failed(KindUnexpected, "Screen capture failed: %v", grabErr)
		_ = opts.Target.OnFailure(res.Failure)
		return res, res.Failure
	}

	res := opts.Recognize(ctx, img)
	if !res.OK() {
		log.Printf("session %s: %s: %s", id, res.Failure.Kind, res.Failure.Message)
		_ = opts.Target.OnFailure(res.Failure)
		return res, res.Failure
	}

	if err := opts.Target.OnSuccess(res.Text); err != nil {
		log.Printf("session %s: delivery failed: %v", id, err)
		_ = opts.Target.OnFailure(err)
		return res, err
	}

	log.Printf("session %s: delivered %d characters", id, len(res.Text))
	return res, nil
}

// ClipboardTarget copies trimmed text without showing anything.
type ClipboardTarget struct{}

func (ClipboardTarget) OnSuccess(text string) error {
	return clipboard.Write(strings.TrimSpace(text))
}

func (ClipboardTarget) OnFailure(err error) error {
	return nil
}

type StdoutTarget struct {
	Writer io.Writer
}

func (t StdoutTarget) OnSuccess(text string) error {
	w := t.Writer
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprint(w, text)
	return err
}

func (t StdoutTarget) OnFailure(err error) error {
	return nil
}

// DelegatedTarget answers a run-once client connected to the resident.
type DelegatedTarget struct {
	Conn           singleinstance.Conn
	OutputToStdout bool
}

func (t DelegatedTarget) OnSuccess(text string) error {
	if t.Conn == nil {
		return errors.New("delegated target missing connection")
	}
	if t.OutputToStdout {
		return t.Conn.RespondSuccess(text)
	}
	if err := clipboard.Write(strings.TrimSpace(text)); err != nil {
		return fmt.Errorf("clipboard error: %w", err)
	}
	return t.Conn.RespondSuccess("")
}

func (t DelegatedTarget) OnFailure(err error) error {
	if t.Conn == nil {
		return nil
	}
	if err == nil {
		return t.Conn.RespondError("unknown session error")
	}
	return t.Conn.RespondError(err.Error())
}
