package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"screen-ocr/src/config"
	"screen-ocr/src/ocr"
	"screen-ocr/src/screenshot"
)

type fakeEngine struct {
	text      string
	err       error
	calls     int
	languages []string
	sizes     []image.Point
}

func (f *fakeEngine) Recognize(_ context.Context, img image.Image, languages string) (string, error) {
	f.calls++
	f.languages = append(f.languages, languages)
	f.sizes = append(f.sizes, img.Bounds().Size())
	return f.text, f.err
}

type grabSpy struct {
	rects []screenshot.Rect
	err   error
}

func (g *grabSpy) grab(r screenshot.Rect) (image.Image, error) {
	g.rects = append(g.rects, r)
	if g.err != nil {
		return nil, g.err
	}
	return image.NewRGBA(image.Rect(0, 0, r.Width(), r.Height())), nil
}

func TestRunWithoutEngine(t *testing.T) {
	spy := &grabSpy{}
	p := NewPipeline(spy.grab, nil, PipelineOptions{})
	require.False(t, p.Ready())

	res := p.Run(context.Background(), screenshot.NewRect(0, 0, 20, 20))
	require.False(t, res.OK())
	require.Equal(t, KindEngineUnavailable, res.Failure.Kind)
	require.Equal(t, "engine not configured", res.Failure.Message)
}

func TestRunPassesRegionAndLanguages(t *testing.T) {
	spy := &grabSpy{}
	eng := &fakeEngine{text: "Invoice #4521"}
	p := NewPipeline(spy.grab, eng, PipelineOptions{})

	res := p.Run(context.Background(), screenshot.NewRect(110, 60, 10, 10))
	require.True(t, res.OK())
	require.Equal(t, "Invoice #4521", res.Text)
	require.Equal(t, []screenshot.Rect{{X1: 10, Y1: 10, X2: 110, Y2: 60}}, spy.rects)
	require.Equal(t, []string{config.DefaultLanguages}, eng.languages)
	require.Equal(t, 1, eng.calls)
}

func TestRunUsesConfiguredLanguages(t *testing.T) {
	eng := &fakeEngine{text: "x"}
	p := NewPipeline((&grabSpy{}).grab, eng, PipelineOptions{Languages: "deu"})

	p.Run(context.Background(), screenshot.NewRect(0, 0, 4, 4))
	require.Equal(t, []string{"deu"}, eng.languages)
	require.Equal(t, "deu", p.Languages())
}

func TestRunUpscalesWhenConfigured(t *testing.T) {
	eng := &fakeEngine{text: "x"}
	p := NewPipeline((&grabSpy{}).grab, eng, PipelineOptions{Upscale: 2})

	p.Run(context.Background(), screenshot.NewRect(0, 0, 40, 10))
	require.Equal(t, []image.Point{{X: 80, Y: 20}}, eng.sizes)
}

func TestRunClassifiesEngineFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    FailureKind
		message string
	}{
		{
			name:    "binary vanished",
			err:     fmt.Errorf("run tesseract: %w", ocr.ErrEngineUnavailable),
			kind:    KindEngineUnavailable,
			message: "Tesseract is not installed or the path is incorrect.",
		},
		{
			name:    "engine reported failure",
			err:     &ocr.EngineError{Message: "Error opening data file eng.traineddata"},
			kind:    KindEngineError,
			message: "Error opening data file eng.traineddata",
		},
		{
			name:    "wrapped engine failure",
			err:     fmt.Errorf("recognize: %w", &ocr.EngineError{Message: "bad image"}),
			kind:    KindEngineError,
			message: "bad image",
		},
		{
			name:    "anything else",
			err:     errors.New("disk full"),
			kind:    KindUnexpected,
			message: "An unexpected error occurred: disk full",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eng := &fakeEngine{err: tc.err}
			p := NewPipeline((&grabSpy{}).grab, eng, PipelineOptions{})

			res := p.Run(context.Background(), screenshot.NewRect(0, 0, 5, 5))
			require.False(t, res.OK())
			require.Equal(t, tc.kind, res.Failure.Kind)
			require.Equal(t, tc.message, res.Failure.Message)
			require.Equal(t, 1, eng.calls, "no retries")
		})
	}
}

func TestRunGrabFailure(t *testing.T) {
	eng := &fakeEngine{}
	p := NewPipeline((&grabSpy{err: errors.New("no display")}).grab, eng, PipelineOptions{})

	res := p.Run(context.Background(), screenshot.NewRect(0, 0, 5, 5))
	require.Equal(t, KindUnexpected, res.Failure.Kind)
	require.Contains(t, res.Failure.Message, "no display")
	require.Zero(t, eng.calls)
}

func TestRecognizeImage(t *testing.T) {
	eng := &fakeEngine{text: "hello"}
	p := NewPipeline(nil, eng, PipelineOptions{})

	res := p.RecognizeImage(context.Background(), image.NewGray(image.Rect(0, 0, 3, 3)))
	require.True(t, res.OK())
	require.Equal(t, "hello", res.Text)
	require.NoError(t, res.Err())
}

func TestResultErr(t *testing.T) {
	res := Failed(KindEngineError, "code %d", 3)
	require.EqualError(t, res.Err(), "code 3")

	var f *Failure
	require.ErrorAs(t, res.Err(), &f)
	require.Equal(t, KindEngineError, f.Kind)
}
