package bottling

import (
	"math"

	"experience-bottler/internal/utils/experience"
)

// FieldID identifies a field of a Session.
type FieldID int

const (
	FieldNone FieldID = iota
	FieldToBottle
	FieldAfterBottling
	FieldSource
)

func (id FieldID) String() string {
	switch id {
	case FieldToBottle:
		return "toBottle"
	case FieldAfterBottling:
		return "afterBottling"
	case FieldSource:
		return "source"
	default:
		return "none"
	}
}

// CommitFunc receives the amount to bottle each time it changes.
type CommitFunc func(amount int32)

// neverNotified sits outside the int32 range so that any committed amount differs from it.
const neverNotified int64 = math.MinInt64

// Session keeps the source, to-bottle and after-bottling fields of an open bottler consistent.
// At most one of the two editable fields is focused at a time. Edits to the focused field
// recompute the other one; source changes recompute whichever field the user is not editing.
//
// A Session is driven by a single goroutine and is not safe for concurrent use.
type Session struct {
	source        Field
	toBottle      Field
	afterBottling Field

	lastFocused  FieldID
	lastNotified int64

	commit CommitFunc
}

// NewSession opens a session over the given source total. commit may be nil.
func NewSession(source int64, commit CommitFunc) *Session {
	s := &Session{
		lastNotified: neverNotified,
		commit:       commit,
	}
	s.source.set(source)
	s.afterBottling.set(source)

	return s
}

func (s *Session) Source() Field {
	return s.source
}

func (s *Session) ToBottle() Field {
	return s.toBottle
}

func (s *Session) AfterBottling() Field {
	return s.afterBottling
}

// Focused returns the editable field that currently has focus, or FieldNone.
func (s *Session) Focused() FieldID {
	switch {
	case s.toBottle.focused:
		return FieldToBottle
	case s.afterBottling.focused:
		return FieldAfterBottling
	default:
		return FieldNone
	}
}

func (s *Session) LastFocused() FieldID {
	return s.lastFocused
}

// SourceChanged applies a new source total and recomputes the field the user is not editing.
func (s *Session) SourceChanged(points int64) {
	s.source.set(points)

	if s.anchor() == FieldAfterBottling {
		s.setToBottle(min(points-s.afterBottling.points, math.MaxInt32))
		return
	}
	s.afterBottling.set(points - s.toBottle.points)
}

// ToBottleChanged sets the amount to bottle. When the change comes from the user (focused),
// the after-bottling field follows it.
func (s *Session) ToBottleChanged(points int64, focused bool) {
	if focused {
		s.afterBottling.set(s.source.points - points)
	}
	s.setToBottle(points)
}

// AfterBottlingChanged sets the amount left after bottling. When the change comes from the user
// (focused), the amount to bottle follows it.
func (s *Session) AfterBottlingChanged(points int64, focused bool) {
	s.afterBottling.set(points)
	if focused {
		s.setToBottle(min(s.source.points-points, math.MaxInt32))
	}
}

// Focus gives id focus, taking it from the other editable field. The newly focused field starts
// from zero and the other field is not recomputed until its next change. A reset to bottle amount
// is still committed.
func (s *Session) Focus(id FieldID) {
	f, other := s.editable(id)
	if f == nil || f.focused {
		return
	}

	other.focused = false
	f.focused = true
	s.lastFocused = id
	if id == FieldToBottle {
		s.setToBottle(0)
		return
	}
	f.set(0)
}

// Blur removes focus from id. lastFocused is kept and still decides the direction of recomputes.
func (s *Session) Blur(id FieldID) {
	if f, _ := s.editable(id); f != nil {
		f.focused = false
	}
}

// BlurAll removes focus from both editable fields.
func (s *Session) BlurAll() {
	s.toBottle.focused = false
	s.afterBottling.focused = false
}

// TypeDigit appends a digit to the focused field. It reports whether the key was accepted.
func (s *Session) TypeDigit(r rune) bool {
	id := s.Focused()
	f, _ := s.editable(id)
	if f == nil {
		return false
	}

	points, ok := f.typeDigit(r)
	if !ok {
		return false
	}
	s.edit(id, points)
	return true
}

// Backspace removes the last digit of the focused field.
func (s *Session) Backspace() bool {
	id := s.Focused()
	f, _ := s.editable(id)
	if f == nil {
		return false
	}

	s.edit(id, f.backspace())
	return true
}

// Delete clears the focused field.
func (s *Session) Delete() bool {
	id := s.Focused()
	if id == FieldNone {
		return false
	}

	s.edit(id, 0)
	return true
}

// ToggleUnit switches the display unit of a field. It never changes a value.
func (s *Session) ToggleUnit(id FieldID) {
	switch id {
	case FieldSource:
		s.source.unit = s.source.unit.Rotate()
	case FieldToBottle:
		s.toBottle.unit = s.toBottle.unit.Rotate()
	case FieldAfterBottling:
		s.afterBottling.unit = s.afterBottling.unit.Rotate()
	}
}

func (s *Session) edit(id FieldID, points int64) {
	if id == FieldToBottle {
		s.ToBottleChanged(points, true)
	} else {
		s.AfterBottlingChanged(points, true)
	}
}

// anchor is the field whose value is kept when the source moves.
func (s *Session) anchor() FieldID {
	if focused := s.Focused(); focused != FieldNone {
		return focused
	}
	if s.lastFocused != FieldNone {
		return s.lastFocused
	}
	return FieldToBottle
}

func (s *Session) setToBottle(points int64) {
	s.toBottle.set(points)

	amount := experience.ClampInt32(points)
	if int64(amount) == s.lastNotified {
		return
	}
	s.lastNotified = int64(amount)
	if s.commit != nil {
		s.commit(amount)
	}
}

func (s *Session) editable(id FieldID) (*Field, *Field) {
	switch id {
	case FieldToBottle:
		return &s.toBottle, &s.afterBottling
	case FieldAfterBottling:
		return &s.afterBottling, &s.toBottle
	default:
		return nil, nil
	}
}
