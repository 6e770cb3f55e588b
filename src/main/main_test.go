package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeLegacyArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		out  []string
	}{
		{
			name: "Normalizes long single dash flags",
			in:   []string{"screen-ocr", "-run-once", "-lang", "eng"},
			out:  []string{"screen-ocr", "--run-once", "--lang", "eng"},
		},
		{
			name: "Normalizes equals form",
			in:   []string{"screen-ocr", "-run-once-std=true", "-engine-config=/tmp/e.json"},
			out:  []string{"screen-ocr", "--run-once-std=true", "--engine-config=/tmp/e.json"},
		},
		{
			name: "Leaves other args unchanged",
			in:   []string{"screen-ocr", "--run-once", "-x", "eng"},
			out:  []string{"screen-ocr", "--run-once", "-x", "eng"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.out, normalizeLegacyArgs(tt.in))
		})
	}
}

func TestNewRootCmdParsesFlags(t *testing.T) {
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--run-once-std", "--lang", "eng+deu", "--engine-config", "/tmp/e.json"}))
	require.True(t, opts.runOnceStd)
	require.False(t, opts.runOnce)
	require.Equal(t, "eng+deu", opts.loadOptions().LanguagesOverride)
	require.Equal(t, "/tmp/e.json", opts.loadOptions().EngineStorePathOverride)
}

func TestRunOnceFlagsAreExclusive(t *testing.T) {
	err := runWithArgs([]string{"screen-ocr", "--run-once", "--run-once-std"})
	require.Error(t, err)
}

type fakeClient struct {
	delegated bool
	text      string
	err       error
	stdout    bool
	called    bool
}

func (f *fakeClient) TryRunOnce(ctx context.Context, outputToStdout bool) (bool, string, error) {
	f.called = true
	f.stdout = outputToStdout
	return f.delegated, f.text, f.err
}

func TestRunOnceDelegatedToStdout(t *testing.T) {
	client := &fakeClient{delegated: true, text: "Invoice #4521\n"}
	var out bytes.Buffer

	err := handleRunOnceWithDelegation(context.Background(), client, true, &out, func() error {
		t.Fatal("fallback must not run when delegation succeeds")
		return nil
	})
	require.NoError(t, err)
	require.True(t, client.stdout)
	require.Equal(t, "Invoice #4521\n", out.String())
}

func TestRunOnceDelegatedToClipboardPrintsNothing(t *testing.T) {
	client := &fakeClient{delegated: true}
	var out bytes.Buffer

	require.NoError(t, handleRunOnceWithDelegation(context.Background(), client, false, &out, func() error { return nil }))
	require.Empty(t, out.String())
}

func TestRunOnceResidentErrorIsFinal(t *testing.T) {
	client := &fakeClient{delegated: true, err: errors.New("Busy, please retry")}
	fallbackCalled := false

	err := handleRunOnceWithDelegation(context.Background(), client, false, &bytes.Buffer{}, func() error {
		fallbackCalled = true
		return nil
	})
	require.ErrorContains(t, err, "Busy, please retry")
	require.False(t, fallbackCalled)
}

func TestRunOnceNoResidentFallsBack(t *testing.T) {
	for _, client := range []*fakeClient{{}, {err: errors.New("dial failed")}} {
		fallbackCalled := false
		err := handleRunOnceWithDelegation(context.Background(), client, false, &bytes.Buffer{}, func() error {
			fallbackCalled = true
			return nil
		})
		require.NoError(t, err)
		require.True(t, client.called)
		require.True(t, fallbackCalled)
	}
}
