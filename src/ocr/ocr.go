package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"screen-ocr/src/config"
)

// ErrEngineUnavailable means the engine binary is missing or cannot be
// executed at call time.
var ErrEngineUnavailable = errors.New("OCR engine unavailable")

// EngineError is a processing failure reported by an engine that did run.
type EngineError struct {
	Message string
	Cause   error
}

func (e *EngineError) Error() string {
	if e.Message == "" {
		return "OCR engine failed"
	}
	return e.Message
}

func (e *EngineError) Unwrap() error { return e.Cause }

// Engine turns an image into text. languages is a Tesseract language spec
// such as "eng+ara" and is never empty.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, languages string) (string, error)
}

// New builds the engine for backend. With the CLI backend an empty path
// means no engine: it returns nil so callers see the engine as unavailable.
func New(backend, enginePath string) (Engine, error) {
	switch backend {
	case config.BackendLibrary:
		return newLibraryEngine()
	case config.BackendCLI, "":
		if strings.TrimSpace(enginePath) == "" {
			return nil, nil
		}
		return NewTesseract(enginePath), nil
	default:
		return nil, fmt.Errorf("unknown OCR backend %q", backend)
	}
}
