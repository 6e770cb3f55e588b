package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	require.Equal(t, "Invoice #4521 Total: 10", Sanitize("Invoice #4521\n\nTotal:\t10\n", 0))
	require.Equal(t, "abc...", Sanitize("abcdef", 3))
	require.Equal(t, "مرحبا...", Sanitize("مرحبا بالعالم", 5))
	require.Equal(t, "", Sanitize(" \n ", 10))
}

func TestRotatingWriterShiftsArchives(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	w, err := NewRotatingWriter(path, 10, 2)
	require.NoError(t, err)
	defer w.Close()

	for _, line := range []string{"aaaaaaaa\n", "bbbbbbbb\n", "cccccccc\n", "dddddddd\n"} {
		_, err := w.Write([]byte(line))
		require.NoError(t, err)
	}

	read := func(p string) string {
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		return string(b)
	}
	require.Equal(t, "dddddddd\n", read(path))
	require.Equal(t, "cccccccc\n", read(path+".1"))
	require.Equal(t, "bbbbbbbb\n", read(path+".2"))
	_, err = os.Stat(path + ".3")
	require.True(t, os.IsNotExist(err))
}

func TestRotatingWriterAppendsBelowLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	w, err := NewRotatingWriter(path, 1024, 3)
	require.NoError(t, err)

	_, _ = w.Write([]byte("one\n"))
	_, _ = w.Write([]byte("two\n"))
	require.NoError(t, w.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(string(b), "\n"))
}
