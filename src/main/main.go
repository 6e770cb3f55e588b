package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"screen-ocr/src/clipboard"
	"screen-ocr/src/config"
	"screen-ocr/src/eventloop"
	"screen-ocr/src/gui"
	"screen-ocr/src/logutil"
	"screen-ocr/src/popup"
	"screen-ocr/src/runtimeinit"
	"screen-ocr/src/screenshot"
	"screen-ocr/src/session"
	"screen-ocr/src/singleinstance"
)

var errAlreadyRunning = errors.New("another instance is already running")

type mainOptions struct {
	runOnce         bool
	runOnceStd      bool
	languages       string
	engineStorePath string
}

func (o mainOptions) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		LanguagesOverride:       o.languages,
		EngineStorePathOverride: o.engineStorePath,
	}
}

func main() {
	if err := runWithArgs(normalizeLegacyArgs(os.Args)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"screen-ocr"}
	}
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "screen-ocr",
		Short:         "Select a screen region and extract its text",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(*opts)
		},
	}

	cmd.Flags().BoolVar(&opts.runOnce, "run-once", false, "Capture once, copy to clipboard, and exit")
	cmd.Flags().BoolVar(&opts.runOnceStd, "run-once-std", false, "Capture once, print the text to stdout, and exit")
	cmd.Flags().StringVar(&opts.languages, "lang", "", "Engine language spec, e.g. eng+deu (overrides OCR_LANGUAGES)")
	cmd.Flags().StringVar(&opts.engineStorePath, "engine-config", "", "Path to the engine path cache file")
	cmd.MarkFlagsMutuallyExclusive("run-once", "run-once-std")

	return cmd
}

// normalizeLegacyArgs maps single-dash long flags to their GNU form.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range []string{"run-once-std", "run-once", "lang", "engine-config"} {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}
	return normalized
}

func run(opts mainOptions) error {
	enableDPIAwareness()

	if opts.runOnce || opts.runOnceStd {
		// Load .env early so SINGLEINSTANCE_PORT_* apply to the resident scan.
		_, _ = config.LoadWithOptions(opts.loadOptions())
		stdout := opts.runOnceStd
		return handleRunOnceWithDelegation(context.Background(), singleinstance.NewClient(), stdout, os.Stdout, func() error {
			return runStandalone(opts, stdout)
		})
	}
	return runResident(opts)
}

type runOnceClient interface {
	TryRunOnce(ctx context.Context, outputToStdout bool) (bool, string, error)
}

// handleRunOnceWithDelegation hands the capture to a resident when one answers.
// An error reported by the resident is final; only a missing or unreachable
// resident falls back to a standalone capture.
func handleRunOnceWithDelegation(ctx context.Context, client runOnceClient, stdout bool, out io.Writer, fallback func() error) error {
	delegated, text, err := client.TryRunOnce(ctx, stdout)
	switch {
	case delegated && err != nil:
		return fmt.Errorf("resident: %w", err)
	case delegated:
		log.Printf("Delegated to resident")
		if stdout {
			_, err := fmt.Fprint(out, text)
			return err
		}
		return nil
	case err != nil:
		log.Printf("Delegation error: %v; falling back to standalone", err)
	default:
		log.Printf("No resident detected, running standalone")
	}
	return fallback()
}

func runResident(opts mainOptions) error {
	if port, ok := singleinstance.DetectResidentPort(context.Background()); ok {
		fmt.Printf("one is already running on port %d\n", port)
		return errAlreadyRunning
	}

	rt, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:   opts.loadOptions(),
		SetupLogging:  logutil.Setup,
		InitClipboard: true,
	})
	if err != nil {
		return err
	}
	logMonitorConfiguration()
	log.Printf("Hotkey: %s", rt.Config.Hotkey)

	ui := gui.New()
	prompter := gui.NewPrompter(ui)

	loop := eventloop.New(eventloop.Options{
		Selector:  gui.NewSelector(ui),
		Pipeline:  rt.NewPipeline(nil),
		Presenter: popup.NewPresenter(ui, clipboard.System{}),
		Server:    singleinstance.NewServer(),
		Relocate: func(context.Context) (*session.Pipeline, string, error) {
			eng, path, err := rt.ResolveEngine(prompter)
			if err != nil {
				return nil, path, err
			}
			return rt.NewPipeline(eng), path, nil
		},
		UI:             ui,
		Notice:         ui.ShowNotice,
		ResolveAtStart: true,
	})
	ui.OnSelect = func() { loop.TriggerCapture() }
	ui.OnLocate = func() { loop.TriggerLocate() }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := loop.StartHotkey(ctx, rt.Config.Hotkey); err != nil {
		log.Printf("Hotkey disabled: %v", err)
	}

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()

	loopErr := make(chan error, 1)
	go func() {
		err := loop.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("event loop stopped: %v", err)
		}
		loopErr <- err
		ui.Quit()
	}()

	ui.Run()
	cancel()
	if err := <-loopErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func logMonitorConfiguration() {
	displays := screenshot.Displays()
	log.Printf("MONITOR: detected %d displays", len(displays))
	for i, d := range displays {
		log.Printf("MONITOR: display %d at %v", i, d)
	}
	if union, err := screenshot.VirtualScreenBounds(); err == nil {
		log.Printf("MONITOR: virtual screen %v", union)
	}
}

// runStandalone performs a single capture without a resident. The UI loop
// owns the main goroutine, so the gesture runs beside it and quits it when
// done.
func runStandalone(opts mainOptions, stdout bool) error {
	rt, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:   opts.loadOptions(),
		SetupLogging:  logutil.Setup,
		InitClipboard: !stdout,
	})
	if err != nil {
		return err
	}

	ui := gui.New()
	selector := gui.NewSelector(ui)

	var target session.ResultTarget = session.ClipboardTarget{}
	if stdout {
		target = session.StdoutTarget{Writer: os.Stdout}
	}

	done := make(chan error, 1)
	go func() {
		defer ui.Quit()
		eng, path, err := rt.ResolveEngine(gui.NewPrompter(ui))
		if err != nil {
			log.Printf("Engine resolution failed: %v", err)
		} else if path != "" {
			log.Printf("Using engine %s", path)
		}
		pipeline := rt.NewPipeline(eng)

		log.Printf("Running OCR once (stdout=%t, languages=%s)", stdout, pipeline.Languages())
		res, err := session.Execute(context.Background(), session.Options{
			SelectRegion: selector.Select,
			Grab:         pipeline.Grab,
			Recognize:    pipeline.RecognizeImage,
			Target:       target,
		})
		if err == nil {
			log.Printf("OCR extracted text (%d chars): %q", len(res.Text), logutil.Sanitize(res.Text, 100))
		}
		done <- err
	}()

	ui.RunHidden()
	err = <-done
	if errors.Is(err, session.ErrSelectionCancelled) {
		return nil
	}
	return err
}
