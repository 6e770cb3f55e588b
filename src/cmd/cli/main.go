package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"screen-ocr/src/config"
	"screen-ocr/src/engine"
	"screen-ocr/src/runtimeinit"
	"screen-ocr/src/singleinstance"
)

const (
	maxFileSizeMB = 10
	maxFileSize   = maxFileSizeMB * 1024 * 1024
)

var errNoResident = errors.New("no running screen-ocr instance found")

type cliOptions struct {
	verbose         bool
	engineStorePath string

	// recognize
	filePath   string
	jsonOutput bool
	languages  string

	// locate
	noPrompt bool
	resident bool

	// capture
	stdout bool
}

func (o *cliOptions) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		EngineStorePathOverride: o.engineStorePath,
		LanguagesOverride:       o.languages,
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"ocr-tool"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ocr-tool",
		Short:         "Command-line access to the screen OCR engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Configure logging BEFORE any other operations.
			if opts.verbose {
				log.SetOutput(cmd.ErrOrStderr())
			} else {
				log.SetOutput(io.Discard)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.PersistentFlags().StringVar(&opts.engineStorePath, "engine-config", "", "Path to the engine path cache file")

	cmd.AddCommand(newRecognizeCmd(opts), newLocateCmd(opts), newCaptureCmd(opts))
	return cmd
}

func newRecognizeCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recognize",
		Short: "Run OCR on an image file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecognize(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.filePath, "file", "", "Path to an image file (use '-' for stdin)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().StringVar(&opts.languages, "lang", "", "Engine language spec (overrides OCR_LANGUAGES)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newLocateCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Find the OCR engine and remember its path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.resident {
				return sendToResident(cmd, singleinstance.Request{Action: singleinstance.ActionLocate})
			}
			return runLocate(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "Never ask interactively")
	cmd.Flags().BoolVar(&opts.resident, "resident", false, "Ask the running instance to locate the engine again")
	return cmd
}

func newCaptureCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Ask the running instance for one region capture",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendToResident(cmd, singleinstance.Request{
				Action:         singleinstance.ActionCapture,
				OutputToStdout: opts.stdout,
			})
		},
	}
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Print the text instead of copying it")
	return cmd
}

// normalizeLegacyArgs keeps the flat "-file x.png [-json]" form working by
// mapping it onto the recognize subcommand.
func normalizeLegacyArgs(args []string) []string {
	if len(args) < 2 {
		return args
	}

	normalized := make([]string, 0, len(args)+1)
	normalized = append(normalized, args[0])

	legacy := false
	for _, arg := range args[1:] {
		for _, name := range []string{"file", "json", "verbose", "lang", "engine-config"} {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				arg = "-" + arg
				if name == "file" {
					legacy = true
				}
				break
			}
		}
		normalized = append(normalized, arg)
	}

	if legacy && strings.HasPrefix(normalized[1], "-") {
		normalized = append([]string{normalized[0], "recognize"}, normalized[1:]...)
	}
	return normalized
}

func bootstrap(opts *cliOptions) (*runtimeinit.Runtime, error) {
	return runtimeinit.Bootstrap(runtimeinit.Options{LoadOptions: opts.loadOptions()})
}

func runLocate(cmd *cobra.Command, opts *cliOptions) error {
	rt, err := bootstrap(opts)
	if err != nil {
		return err
	}

	var prompter engine.Prompter
	if !opts.noPrompt {
		prompter = &engine.ConsolePrompter{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}
	}
	_, path, err := rt.ResolveEngine(prompter)
	if err != nil {
		return err
	}
	if path == "" {
		path = "(linked library backend)"
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runRecognize(cmd *cobra.Command, opts *cliOptions) error {
	imageData, err := readInput(cmd.InOrStdin(), opts.filePath)
	if err != nil {
		return err
	}
	log.Printf("read %d bytes", len(imageData))

	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return fmt.Errorf("input is not a supported image: %w", err)
	}

	rt, err := bootstrap(opts)
	if err != nil {
		return err
	}
	eng, path, err := rt.ResolveEngine(nil)
	if err != nil && !errors.Is(err, engine.ErrEngineNotFound) {
		return err
	}
	log.Printf("engine: %q", path)
	pipeline := rt.NewPipeline(eng)

	startTime := time.Now()
	res := pipeline.RecognizeImage(context.Background(), img)
	elapsed := time.Since(startTime)
	if !res.OK() {
		return fmt.Errorf("OCR failed: %w", res.Failure)
	}
	log.Printf("OCR completed in %v, extracted %d characters", elapsed, len(res.Text))

	return outputResult(cmd.OutOrStdout(), OCRResult{
		Text:      res.Text,
		Source:    opts.filePath,
		Languages: pipeline.Languages(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Duration:  elapsed.Seconds(),
		CharCount: len(res.Text),
	}, opts.jsonOutput)
}

func readInput(stdin io.Reader, filePath string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if filePath == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, maxFileSize+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
		}
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("input file is empty")
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("input file exceeds maximum size of %d MB", maxFileSizeMB)
	}
	return data, nil
}

type OCRResult struct {
	Text      string  `json:"text"`
	Source    string  `json:"source"`
	Languages string  `json:"languages"`
	Timestamp string  `json:"timestamp"`
	Duration  float64 `json:"duration_seconds"`
	CharCount int     `json:"character_count"`
}

func outputResult(w io.Writer, result OCRResult, jsonOutput bool) error {
	if !jsonOutput {
		_, err := fmt.Fprint(w, result.Text)
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

func sendToResident(cmd *cobra.Command, req singleinstance.Request) error {
	if _, err := config.Load(); err != nil {
		return err
	}
	delegated, text, err := singleinstance.NewClient().Send(cmd.Context(), req)
	if !delegated {
		return errNoResident
	}
	if err != nil {
		return fmt.Errorf("resident: %w", err)
	}
	if text != "" {
		fmt.Fprint(cmd.OutOrStdout(), text)
		if req.Action == singleinstance.ActionLocate {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}
	return nil
}
