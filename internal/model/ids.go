package model

import (
	"errors"
	"math"
)

// ErrIDsExhausted is returned when every id up to MaxUint32 has been handed out.
var ErrIDsExhausted = errors.New("id space exhausted")

// IDSequence is the single id allocator shared by events and tasks.
// Keeping one counter for both collections is what makes ids unique across them.
// It saturates at MaxUint32 instead of wrapping, so an id is never reissued.
type IDSequence struct {
	// next is wider than an id so "past the last id" is representable.
	next uint64
}

func NewIDSequence(next uint32) *IDSequence {
	if next == 0 {
		next = 1
	}
	return &IDSequence{next: uint64(next)}
}

// Next returns the current value and advances the counter. ok is false once
// the id space is used up; the caller must not create anything then.
func (s *IDSequence) Next() (id uint32, ok bool) {
	if s.next == 0 {
		s.next = 1
	}
	if s.next > math.MaxUint32 {
		return 0, false
	}
	id = uint32(s.next)
	s.next++
	return id, true
}

// Peek is the value the next call to Next will return (what gets persisted as next_id).
// After exhaustion it stays at MaxUint32.
func (s *IDSequence) Peek() uint32 {
	switch {
	case s.next == 0:
		return 1
	case s.next > math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(s.next)
	}
}

func (s *IDSequence) Exhausted() bool {
	return s.next > math.MaxUint32
}

// Observe raises the counter past maxID. It never lowers it.
func (s *IDSequence) Observe(maxID uint32) {
	if uint64(maxID) >= s.next {
		s.next = uint64(maxID) + 1
	}
}
