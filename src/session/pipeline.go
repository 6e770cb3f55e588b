package session

import (
	"context"
	"errors"
	"image"
	"log"

	"screen-ocr/src/config"
	"screen-ocr/src/logutil"
	"screen-ocr/src/ocr"
	"screen-ocr/src/screenshot"
)

// GrabFunc captures the pixels of a virtual-screen rectangle.
type GrabFunc func(r screenshot.Rect) (image.Image, error)

type PipelineOptions struct {
	// Languages is passed to the engine on every call; empty means
	// config.DefaultLanguages.
	Languages string
	// Upscale > 1 enables grayscale + resize before recognition.
	Upscale float64
}

// Pipeline turns a selected rectangle into one Result. engine is nil while no
// executable has been resolved.
type Pipeline struct {
	grab   GrabFunc
	engine ocr.Engine
	opts   PipelineOptions
}

func NewPipeline(grab GrabFunc, engine ocr.Engine, opts PipelineOptions) *Pipeline {
	if grab == nil {
		grab = screenshot.Grab
	}
	if opts.Languages == "" {
		opts.Languages = config.DefaultLanguages
	}
	return &Pipeline{grab: grab, engine: engine, opts: opts}
}

// Ready reports whether an engine is configured.
func (p *Pipeline) Ready() bool { return p.engine != nil }

func (p *Pipeline) Languages() string { return p.opts.Languages }

// Grab captures the pixels of r from the live screen.
func (p *Pipeline) Grab(r screenshot.Rect) (image.Image, error) {
	return p.grab(r)
}

// Run captures r and recognizes it. It never retries.
func (p *Pipeline) Run(ctx context.Context, r screenshot.Rect) Result {
	img, err := p.Grab(r)
	if err != nil {
		log.Printf("pipeline: grab %s failed: %v", r, err)
		return Failed(KindUnexpected, "Screen capture failed: %v", err)
	}
	return p.RecognizeImage(ctx, img)
}

// RecognizeImage runs the engine on an already captured image.
func (p *Pipeline) RecognizeImage(ctx context.Context, img image.Image) Result {
	if p.engine == nil {
		return Failed(KindEngineUnavailable, "engine not configured")
	}

	img = screenshot.Preprocess(img, p.opts.Upscale)
	text, err := p.engine.Recognize(ctx, img, p.opts.Languages)
	if err != nil {
		log.Printf("pipeline: recognition failed: %v", err)
		return classify(err)
	}
	log.Printf("pipeline: recognized %d characters: %q", len(text), logutil.Sanitize(text, 60))
	return Success(text)
}

func classify(err error) Result {
	var engErr *ocr.EngineError
	switch {
	case errors.Is(err, ocr.ErrEngineUnavailable):
		return Failed(KindEngineUnavailable, "Tesseract is not installed or the path is incorrect.")
	case errors.As(err, &engErr):
		return Failed(KindEngineError, "%s", engErr.Message)
	default:
		return Failed(KindUnexpected, "An unexpected error occurred: %v", err)
	}
}
