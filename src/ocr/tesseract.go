package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"strings"

	"screen-ocr/src/screenshot"
)

// Tesseract runs the tesseract executable at Path on a temporary PNG.
type Tesseract struct {
	Path string
}

func NewTesseract(path string) *Tesseract {
	return &Tesseract{Path: path}
}

// Recognize writes img to a temp file and runs `tesseract <png> stdout -l <languages>`.
// There is no deadline beyond what ctx carries.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image, languages string) (string, error) {
	if languages == "" {
		return "", errors.New("empty language specification")
	}
	if err := checkExecutable(t.Path); err != nil {
		return "", err
	}

	data, err := screenshot.EncodePNG(img)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "screen-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("create temp file for OCR: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write temp file for OCR: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file for OCR: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.Path, tmpPath, "stdout", "-l", languages)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Printf("ocr: running %s on %dx%d image, languages=%s", t.Path, img.Bounds().Dx(), img.Bounds().Dy(), languages)
	if err := cmd.Run(); err != nil {
		return "", classifyRunError(err, stderr.String())
	}
	return stdout.String(), nil
}

// checkExecutable catches a path that went stale after resolution.
func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEngineUnavailable, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrEngineUnavailable, path)
	}
	return nil
}

func classifyRunError(err error, stderr string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = fmt.Sprintf("tesseract exited with status %d", exitErr.ExitCode())
		}
		return &EngineError{Message: msg, Cause: err}
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return fmt.Errorf("tesseract: %w", err)
}
