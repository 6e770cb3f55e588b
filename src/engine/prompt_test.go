package engine

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInteractiveDownloadPath(t *testing.T) {
	picked := touch(t, filepath.Join(t.TempDir(), "tesseract"))
	p := &fakePrompter{confirm: true, chosen: picked, choose: true}

	got, ok := resolveInteractively(p, "tesseract", "https://download.example")
	require.True(t, ok)
	require.Equal(t, picked, got)
	require.Equal(t, []string{"confirm", "open", "inform", "choose"}, p.steps)
	require.Equal(t, []string{"https://download.example"}, p.openedURLs)
}

func TestInteractiveBrowserFailureIsNotFatal(t *testing.T) {
	picked := touch(t, filepath.Join(t.TempDir(), "tesseract"))
	p := &fakePrompter{confirm: true, chosen: picked, choose: true, openErr: errors.New("no browser")}

	got, ok := resolveInteractively(p, "tesseract", "https://download.example")
	require.True(t, ok)
	require.Equal(t, picked, got)
	require.Equal(t, []string{"confirm", "open", "inform", "choose"}, p.steps)
}

func TestInteractiveDeclineGoesStraightToChooser(t *testing.T) {
	p := &fakePrompter{confirm: false, choose: false}

	got, ok := resolveInteractively(p, "tesseract", "https://download.example")
	require.False(t, ok)
	require.Empty(t, got)
	require.Equal(t, []string{"confirm", "choose"}, p.steps)
	require.Empty(t, p.openedURLs)
}

func TestInteractiveRejectsDirectory(t *testing.T) {
	p := &fakePrompter{chosen: t.TempDir(), choose: true}

	_, ok := resolveInteractively(p, "tesseract", "")
	require.False(t, ok)
}

func TestStepString(t *testing.T) {
	require.Equal(t, "ask-download", StepAskDownload.String())
	require.Equal(t, "choose-file", StepChooseFile.String())
	require.Equal(t, "done", StepDone.String())
	require.Equal(t, "unknown", Step(42).String())
}

func TestConsolePrompterConfirm(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		c := &ConsolePrompter{In: strings.NewReader(tc.input), Out: &out}
		require.Equal(t, tc.want, c.Confirm("Title", "Question?"), "input %q", tc.input)
		require.Contains(t, out.String(), "Question?")
	}
}

func TestConsolePrompterChooseFile(t *testing.T) {
	var out bytes.Buffer
	c := &ConsolePrompter{In: strings.NewReader("/opt/tess/tesseract\n"), Out: &out}

	path, ok := c.ChooseFile("Select", "tesseract")
	require.True(t, ok)
	require.Equal(t, "/opt/tess/tesseract", path)

	c = &ConsolePrompter{In: strings.NewReader("\n"), Out: &out}
	_, ok = c.ChooseFile("Select", "tesseract")
	require.False(t, ok)
}

func TestConsolePrompterSharesReaderAcrossCalls(t *testing.T) {
	var out bytes.Buffer
	picked := touch(t, filepath.Join(t.TempDir(), "tesseract"))
	c := &ConsolePrompter{In: strings.NewReader("yes\n" + picked + "\n"), Out: &out}

	got, ok := resolveInteractively(c, "tesseract", "https://download.example")
	require.True(t, ok)
	require.Equal(t, picked, got)
	require.Contains(t, out.String(), "Download page: https://download.example")
}
