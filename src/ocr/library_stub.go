//go:build !gosseract

package ocr

import "fmt"

func newLibraryEngine() (Engine, error) {
	return nil, fmt.Errorf("%w: built without the gosseract tag", ErrEngineUnavailable)
}
