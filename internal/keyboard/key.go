// Package keyboard decodes raw keyboard controller status codes into key
// events and publishes them on an event bus that other tasks wait on.
package keyboard

import "fmt"

// Key identifies a lowercase letter key, 'a' is 0 through 'z' is 25.
type Key uint8

const keyCount = 26

// State is the controller's FIFO entry state.
type State uint8

const (
	StateIdle State = iota
	StatePressed
	StateHeld
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePressed:
		return "pressed"
	case StateHeld:
		return "held"
	case StateReleased:
		return "released"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// RawKey is one FIFO entry as read off the bus.
type RawKey struct {
	State State
	Code  byte
}

// KeyFor returns the key for a lowercase letter.
func KeyFor(r rune) (Key, bool) {
	if r < 'a' || r > 'z' {
		return 0, false
	}
	return Key(r - 'a'), true
}

// MustKey is KeyFor for constant letters.
func MustKey(r rune) Key {
	k, ok := KeyFor(r)
	if !ok {
		panic(fmt.Sprintf("keyboard: %q is not a lowercase letter", r))
	}
	return k
}

func (k Key) Rune() rune {
	return 'a' + rune(k)
}

func (k Key) String() string {
	if k >= keyCount {
		return fmt.Sprintf("key(%d)", uint8(k))
	}
	return string(k.Rune())
}

// Decode turns a raw entry into a key event. Only presses of 'a'..'z'
// decode; releases, holds, idle reads and other codes are dropped.
func Decode(raw RawKey) (Key, bool) {
	if raw.State != StatePressed {
		return 0, false
	}
	return KeyFor(rune(raw.Code))
}
