package key

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Event represents a single key press event.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Code is the physical key code, when the platform reports one.
	Code Code

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewEvent creates a key event with the current timestamp.
func NewEvent(key Key, r rune, mods Modifier) Event {
	return Event{
		Key:       key,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{
		Key:       KeyRune,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{
		Key:       key,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// WithCode returns a copy of the event with the physical code set.
func (e Event) WithCode(code Code) Event {
	e.Code = code
	return e
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsPrintable returns true if this event would insert a visible
// character into a focused input.
func (e Event) IsPrintable() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune) && !e.Modifiers.HasCommand() && !e.Modifiers.HasAlt()
}

// IsModified returns true if any modifier is pressed.
// For character events, Shift alone is not considered modified
// (since Shift changes the character itself).
func (e Event) IsModified() bool {
	if e.IsRune() {
		return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return e.Modifiers != ModNone
}

// IsSpecial returns true if this is a special (non-character) key.
func (e Event) IsSpecial() bool {
	return e.Key.IsSpecial()
}

// Equals returns true if two events represent the same key press.
// Timestamps are not compared.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key &&
		e.Rune == other.Rune &&
		e.Modifiers == other.Modifiers
}

// Matches checks if this event matches a key specification string.
func (e Event) Matches(spec string) bool {
	parsed, err := Parse(spec)
	if err != nil {
		return false
	}
	return e.Equals(parsed)
}

// String returns a canonical string representation.
// Examples: "a", "Enter", "C-s", "S-Tab".
func (e Event) String() string {
	var parts []string

	if e.Modifiers.HasCtrl() {
		parts = append(parts, "C")
	}
	if e.Modifiers.HasAlt() {
		parts = append(parts, "A")
	}
	if e.Modifiers.HasMeta() {
		parts = append(parts, "M")
	}
	// Only show Shift for non-character keys
	if e.Modifiers.HasShift() && !e.IsRune() {
		parts = append(parts, "S")
	}

	var keyName string
	switch e.Key {
	case KeyRune:
		if e.Rune == ' ' {
			keyName = "Space"
		} else {
			keyName = string(e.Rune)
		}
	default:
		keyName = e.Key.String()
	}
	parts = append(parts, keyName)

	return strings.Join(parts, "-")
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Code: %s, Modifiers: %s}",
		e.Key.String(), e.Rune, e.Code.String(), e.Modifiers.String())
}
