//go:build gosseract

package ocr

import (
	"context"
	"fmt"
	"image"
	"log"

	"github.com/otiai10/gosseract/v2"

	"screen-ocr/src/screenshot"
)

// libraryEngine links libtesseract through gosseract; no executable path is
// involved, so it is always "available" once built in.
type libraryEngine struct{}

func newLibraryEngine() (Engine, error) {
	log.Printf("ocr: using in-process gosseract backend (tesseract %s)", gosseract.Version())
	return libraryEngine{}, nil
}

func (libraryEngine) Recognize(ctx context.Context, img image.Image, languages string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := screenshot.EncodePNG(img)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(splitLanguages(languages)...); err != nil {
		return "", &EngineError{Message: fmt.Sprintf("set language %q: %v", languages, err), Cause: err}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", &EngineError{Message: fmt.Sprintf("set image: %v", err), Cause: err}
	}
	text, err := client.Text()
	if err != nil {
		return "", &EngineError{Message: err.Error(), Cause: err}
	}
	return text, nil
}
