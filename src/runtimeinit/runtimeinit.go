package runtimeinit

import (
	"fmt"
	"log"

	"screen-ocr/src/clipboard"
	"screen-ocr/src/config"
	"screen-ocr/src/engine"
	"screen-ocr/src/ocr"
	"screen-ocr/src/screenshot"
	"screen-ocr/src/session"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(bool)
	// InitClipboard binds the system clipboard; failures are logged, not fatal.
	InitClipboard bool
}

// Runtime is what every binary needs after startup.
type Runtime struct {
	Config *config.Config
	Store  *config.Store
}

func Bootstrap(opts Options) (*Runtime, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.EnableFileLogging)
	}
	log.Printf("runtime: languages=%s backend=%s upscale=%.1f store=%s scan=%t",
		cfg.Languages, cfg.Backend, cfg.Upscale, cfg.EngineStorePath, cfg.ScanEnabled)

	if opts.InitClipboard {
		if err := clipboard.Init(); err != nil {
			log.Printf("runtime: %v; copy will report an error", err)
		}
	}

	return &Runtime{Config: cfg, Store: config.NewStore(cfg.EngineStorePath)}, nil
}

// ResolveEngine runs engine resolution and builds the configured backend.
// prompter may be nil to skip the interactive step. A nil engine with
// engine.ErrEngineNotFound means degraded mode.
func (r *Runtime) ResolveEngine(prompter engine.Prompter) (ocr.Engine, string, error) {
	if r.Config.Backend == config.BackendLibrary {
		eng, err := ocr.New(config.BackendLibrary, "")
		return eng, "", err
	}

	path, ok := engine.NewLocator(r.Config, r.Store, prompter).Resolve()
	if !ok {
		return nil, "", engine.ErrEngineNotFound
	}
	eng, err := ocr.New(r.Config.Backend, path)
	if err != nil {
		return nil, path, err
	}
	return eng, path, nil
}

// NewPipeline binds eng (possibly nil) to the screen grabber and settings.
func (r *Runtime) NewPipeline(eng ocr.Engine) *session.Pipeline {
	return session.NewPipeline(screenshot.Grab, eng, session.PipelineOptions{
		Languages: r.Config.Languages,
		Upscale:   r.Config.Upscale,
	})
}
