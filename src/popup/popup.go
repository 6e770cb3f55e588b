package popup

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"screen-ocr/src/logutil"
	"screen-ocr/src/session"
)

// ErrClipboard wraps clipboard write failures surfaced by Copy.
var ErrClipboard = errors.New("clipboard write failed")

const (
	TitleText  = "Extracted Text"
	TitleError = "Error"
)

// View is the toolkit side: an editable text window with a copy action, and a
// dismissible notice. onCopy receives the current, possibly edited, buffer.
type View interface {
	ShowText(title, text string, onCopy func(buffer string))
	ShowNotice(title, message string)
}

type Clipboard interface {
	Write(text string) error
}

// Presenter shows recognition results. It is a session.ResultTarget.
type Presenter struct {
	view View
	clip Clipboard
}

func NewPresenter(view View, clip Clipboard) *Presenter {
	return &Presenter{view: view, clip: clip}
}

// Present routes a result to the text window or an error notice.
func (p *Presenter) Present(r session.Result) {
	if r.OK() {
		_ = p.OnSuccess(r.Text)
		return
	}
	_ = p.OnFailure(r.Failure)
}

func (p *Presenter) OnSuccess(text string) error {
	log.Printf("popup: showing %d characters: %q", len(text), logutil.Sanitize(text, 50))
	p.view.ShowText(TitleText, text, func(buffer string) {
		_ = p.Copy(buffer)
	})
	return nil
}

// OnFailure shows recognition failures. Cancelled or aborted selections are
// not the user's concern and only get logged.
func (p *Presenter) OnFailure(err error) error {
	var f *session.Failure
	switch {
	case errors.Is(err, session.ErrSelectionCancelled):
		return nil
	case errors.As(err, &f):
		p.view.ShowNotice(TitleError, f.Message)
	case errors.Is(err, ErrClipboard):
		p.view.ShowNotice(TitleError, err.Error())
	default:
		log.Printf("popup: not shown: %v", err)
	}
	return nil
}

// Copy trims buffer and places it on the clipboard. A failed write is shown
// as a notice and returned.
func (p *Presenter) Copy(buffer string) error {
	text := strings.TrimSpace(buffer)
	if err := p.clip.Write(text); err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrClipboard, err)
		log.Printf("popup: %v", wrapped)
		p.view.ShowNotice(TitleError, fmt.Sprintf("Failed to copy text:\n%v", err))
		return wrapped
	}
	log.Printf("popup: copied %d characters", len(text))
	return nil
}
