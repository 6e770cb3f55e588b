package hotkey

import (
	"testing"

	gohook "github.com/robotn/gohook"
	"github.com/stretchr/testify/require"
)

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Ctrl+Alt+O", []string{"ctrl", "alt", "o"}},
		{"Ctrl+Shift+O", []string{"ctrl", "shift", "o"}},
		{"Alt+F4", []string{"alt", "f4"}},
		{"Ctrl+Win+E", []string{"ctrl", "cmd", "e"}},
		{"Super + Alt + T", []string{"cmd", "alt", "t"}},
		{"Control+Option+Escape", []string{"ctrl", "alt", "esc"}},
		{"ctrl++o", []string{"ctrl", "o"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, parseHotkey(tt.input))
		})
	}
}

func TestKeyNameToCodes(t *testing.T) {
	require.Equal(t, []uint16{29, 3613}, keyNameToCodes("ctrl"))
	require.Equal(t, []uint16{56, 3640}, keyNameToCodes("alt"))
	require.Equal(t, []uint16{gohook.Keycode["o"]}, keyNameToCodes("o"))
	require.Nil(t, keyNameToCodes("not-a-key"))
}

func TestNewChordRejectsUnknownKeys(t *testing.T) {
	_, err := newChord("Ctrl+Nope")
	require.Error(t, err)

	_, err = newChord(" + ")
	require.Error(t, err)
}

func TestChordFiresOnceWhenComplete(t *testing.T) {
	c, err := newChord("Ctrl+Alt+O")
	require.NoError(t, err)
	o := gohook.Keycode["o"]

	require.False(t, c.handle(gohook.KeyHold, 29))
	require.False(t, c.handle(gohook.KeyHold, 3640), "right alt counts as alt")
	require.True(t, c.handle(gohook.KeyHold, o))

	// State resets after firing; repeating O alone does nothing.
	require.False(t, c.handle(gohook.KeyHold, o))
}

func TestChordReleaseBreaksCombination(t *testing.T) {
	c, err := newChord("Ctrl+Alt+O")
	require.NoError(t, err)
	o := gohook.Keycode["o"]

	require.False(t, c.handle(gohook.KeyHold, 29))
	require.False(t, c.handle(gohook.KeyUp, 29))
	require.False(t, c.handle(gohook.KeyHold, 56))
	require.False(t, c.handle(gohook.KeyHold, o))

	require.True(t, c.handle(gohook.KeyHold, 29))
}

func TestChordIgnoresUnrelatedKeys(t *testing.T) {
	c, err := newChord("Ctrl+O")
	require.NoError(t, err)

	require.False(t, c.handle(gohook.KeyHold, 29))
	require.False(t, c.handle(gohook.KeyHold, gohook.Keycode["p"]))
	require.True(t, c.handle(gohook.KeyDown, gohook.Keycode["o"]))
}
