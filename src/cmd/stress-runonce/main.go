package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"screen-ocr/src/singleinstance"
)

// Fires concurrent run-once requests at a resident. Exactly one should be
// served; the rest must be turned away as busy rather than queued.

type stressOptions struct {
	n        int
	mode     string
	deadline time.Duration
}

type sendFunc func(ctx context.Context, req singleinstance.Request) (bool, string, error)

type tally struct {
	mu         sync.Mutex
	ok         int
	busy       int
	noResident int
	failed     int
}

func (t *tally) record(delegated bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case !delegated:
		t.noResident++
	case err == nil:
		t.ok++
	case strings.Contains(strings.ToLower(err.Error()), "busy"):
		t.busy++
	default:
		t.failed++
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &stressOptions{}
	return newRootCmd(opts).Execute()
}

func newRootCmd(opts *stressOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stress-runonce",
		Short:         "Check that a resident serves one delegated capture at a time",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := requestFor(opts.mode)
			if err != nil {
				return err
			}
			return stress(cmd.OutOrStdout(), singleinstance.NewClient().Send, req, *opts)
		},
	}

	cmd.Flags().IntVar(&opts.n, "n", 50, "number of clients to launch")
	cmd.Flags().StringVar(&opts.mode, "mode", "std", "std|clip|locate: what each client asks for")
	cmd.Flags().DurationVar(&opts.deadline, "deadline", 5*time.Second, "per-client timeout")

	return cmd
}

func requestFor(mode string) (singleinstance.Request, error) {
	switch mode {
	case "std":
		return singleinstance.Request{Action: singleinstance.ActionCapture, OutputToStdout: true}, nil
	case "clip":
		return singleinstance.Request{Action: singleinstance.ActionCapture}, nil
	case "locate":
		return singleinstance.Request{Action: singleinstance.ActionLocate}, nil
	default:
		return singleinstance.Request{}, fmt.Errorf("unknown mode %q", mode)
	}
}

func stress(out io.Writer, send sendFunc, req singleinstance.Request, opts stressOptions) error {
	var (
		wg    sync.WaitGroup
		count tally
	)

	start := time.Now()
	for i := 0; i < opts.n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), opts.deadline)
			defer cancel()
			delegated, _, err := send(ctx, req)
			count.record(delegated, err)
		}()
	}
	wg.Wait()

	fmt.Fprintf(out, "launched=%d ok=%d busy=%d no-resident=%d err=%d elapsed=%s\n",
		opts.n, count.ok, count.busy, count.noResident, count.failed, time.Since(start).Round(time.Millisecond))
	return nil
}
