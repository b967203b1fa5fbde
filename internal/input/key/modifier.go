package key

import "strings"

// Modifier represents modifier keys held during a key press.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota
	// ModCtrl indicates the Control key.
	ModCtrl
	// ModAlt indicates the Alt/Option key.
	ModAlt
	// ModMeta indicates the Meta/Command/Windows key.
	ModMeta
)

// HasShift returns true if Shift is held.
func (m Modifier) HasShift() bool { return m&ModShift != 0 }

// HasCtrl returns true if Ctrl is held.
func (m Modifier) HasCtrl() bool { return m&ModCtrl != 0 }

// HasAlt returns true if Alt is held.
func (m Modifier) HasAlt() bool { return m&ModAlt != 0 }

// HasMeta returns true if Meta/Command is held.
func (m Modifier) HasMeta() bool { return m&ModMeta != 0 }

// HasCommand returns true if either Ctrl or Meta is held. Shortcuts
// that are Ctrl-based on most platforms are Command-based on macOS;
// the engine treats the two interchangeably.
func (m Modifier) HasCommand() bool { return m.HasCtrl() || m.HasMeta() }

// With returns a copy with the given modifier added.
func (m Modifier) With(mod Modifier) Modifier { return m | mod }

// Without returns a copy with the given modifier removed.
func (m Modifier) Without(mod Modifier) Modifier { return m &^ mod }

// String returns a canonical representation such as "Ctrl+Shift".
func (m Modifier) String() string {
	if m == ModNone {
		return "None"
	}
	var parts []string
	if m.HasCtrl() {
		parts = append(parts, "Ctrl")
	}
	if m.HasAlt() {
		parts = append(parts, "Alt")
	}
	if m.HasMeta() {
		parts = append(parts, "Meta")
	}
	if m.HasShift() {
		parts = append(parts, "Shift")
	}
	return strings.Join(parts, "+")
}
