package tui

import "sync"

// Some terminals/fonts don't render the Unicode affordances cleanly, so there
// is a plain ASCII set (ui.ascii).

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphCursor() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "›"
}

// glyphEventDot marks month-grid days that have events.
func glyphEventDot() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}

func glyphCaret() string {
	if glyphs() == glyphSetASCII {
		return "_"
	}
	return "▏"
}

func glyphSep() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}
