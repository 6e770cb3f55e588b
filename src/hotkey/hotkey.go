package hotkey

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Modifier keycodes (left and right variants) in the portable uiohook space.
var modifierCodes = map[string][]uint16{
	"ctrl":  {29, 3613},
	"alt":   {56, 3640},
	"shift": {42, 54},
	"cmd":   {3675, 3676},
}

var aliases = map[string]string{
	"control": "ctrl",
	"option":  "alt",
	"win":     "cmd",
	"super":   "cmd",
	"meta":    "cmd",
	"escape":  "esc",
	"return":  "enter",
	"del":     "delete",
}

var listenMu sync.Mutex

// Listen starts the global hook and invokes callback each time the chord in
// hotkeyConfig (e.g. "Ctrl+Alt+O") goes fully down. It returns once the hook
// goroutine is running; ctx cancellation stops the hook.
func Listen(ctx context.Context, hotkeyConfig string, callback func()) error {
	c, err := newChord(hotkeyConfig)
	if err != nil {
		return err
	}
	log.Printf("hotkey: listening for %s", hotkeyConfig)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("hotkey: PANIC in hook goroutine: %v", r)
			}
		}()

		listenMu.Lock()
		defer listenMu.Unlock()

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("hotkey: gohook.Start() returned nil channel")
			return
		}
		defer gohook.End()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-evChan:
				if !ok {
					log.Printf("hotkey: event channel closed")
					return
				}
				if c.handle(ev.Kind, ev.Keycode) {
					log.Printf("hotkey: %s activated", hotkeyConfig)
					if callback != nil {
						callback()
					}
				}
			}
		}
	}()
	return nil
}

// parseHotkey converts a hotkey string like "Ctrl+Alt+q" to normalized key names.
func parseHotkey(hotkeyConfig string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(hotkeyConfig), "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if a, ok := aliases[part]; ok {
			part = a
		}
		keys = append(keys, part)
	}
	return keys
}

func keyNameToCodes(name string) []uint16 {
	if codes, ok := modifierCodes[name]; ok {
		return codes
	}
	if code, ok := gohook.Keycode[name]; ok {
		return []uint16{code}
	}
	return nil
}

type chordKey struct {
	name    string
	codes   []uint16
	pressed bool
}

// chord tracks which keys of a combination are currently held.
type chord struct {
	mu   sync.Mutex
	keys []chordKey
}

func newChord(hotkeyConfig string) (*chord, error) {
	names := parseHotkey(hotkeyConfig)
	if len(names) == 0 {
		return nil, fmt.Errorf("empty hotkey %q", hotkeyConfig)
	}
	c := &chord{}
	for _, name := range names {
		codes := keyNameToCodes(name)
		if len(codes) == 0 {
			return nil, fmt.Errorf("hotkey %q: unknown key %q", hotkeyConfig, name)
		}
		c.keys = append(c.keys, chordKey{name: name, codes: codes})
	}
	return c, nil
}

// handle feeds one hook event and reports whether the chord just completed.
// Held keys are released after firing so auto-repeat does not re-trigger.
func (c *chord) handle(kind uint8, code uint16) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch kind {
	case gohook.KeyDown, gohook.KeyHold:
		matched := false
		for i := range c.keys {
			if contains(c.keys[i].codes, code) {
				c.keys[i].pressed = true
				matched = true
			}
		}
		if !matched {
			return false
		}
		for i := range c.keys {
			if !c.keys[i].pressed {
				return false
			}
		}
		for i := range c.keys {
			c.keys[i].pressed = false
		}
		return true
	case gohook.KeyUp:
		for i := range c.keys {
			if contains(c.keys[i].codes, code) {
				c.keys[i].pressed = false
			}
		}
	}
	return false
}

func contains(codes []uint16, code uint16) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
