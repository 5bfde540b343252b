package planner

import "unicode"

type KeyType int

const (
	KeyRune KeyType = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyBackspace
	// KeyMenu is the menu/cancel key: quit from the day view, back or abort everywhere else.
	KeyMenu
)

// Key is one input event. Rune is only meaningful for KeyRune.
type Key struct {
	Type KeyType
	Rune rune
}

func Rune(r rune) Key { return Key{Type: KeyRune, Rune: r} }

func Special(t KeyType) Key { return Key{Type: t} }

// Is matches a command letter case-insensitively (literal match for non-letters).
func (k Key) Is(r rune) bool {
	if k.Type != KeyRune {
		return false
	}
	return unicode.ToLower(k.Rune) == unicode.ToLower(r)
}

// Printable reports printable ASCII (0x20-0x7E), the only text the forms accept.
func (k Key) Printable() (rune, bool) {
	if k.Type != KeyRune {
		return 0, false
	}
	if k.Rune < 0x20 || k.Rune > 0x7E {
		return 0, false
	}
	return k.Rune, true
}

func (t KeyType) String() string {
	switch t {
	case KeyRune:
		return "rune"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	case KeyMenu:
		return "menu"
	default:
		return "unknown"
	}
}
