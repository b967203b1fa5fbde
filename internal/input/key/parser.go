package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// ModifierFromName returns the Modifier for a given name (lowercase).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	switch name {
	case "ctrl", "control", "c":
		return ModCtrl
	case "alt", "option", "a":
		return ModAlt
	case "shift", "s":
		return ModShift
	case "meta", "cmd", "command", "m":
		return ModMeta
	default:
		return ModNone
	}
}

// Parse parses a key specification string into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "/", "@"
//   - Special keys: "Enter", "Escape", "Tab", "Backspace"
//   - With modifiers: "Ctrl+S", "Shift+Tab", "Ctrl+Shift+/"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if strings.Contains(spec, "+") && len(spec) > 1 {
		return parseModifierStyle(spec)
	}

	return parseKeyWithModifiers(spec, ModNone)
}

// parseModifierStyle parses "Ctrl+S" style notation.
func parseModifierStyle(spec string) (Event, error) {
	parts := strings.Split(spec, "+")

	// A trailing "+" means the key itself is "+" ("Ctrl++").
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
		if len(parts) == 0 {
			return Event{}, ErrInvalidSpec
		}
		parts[len(parts)-1] += "+"
	}
	if len(parts) < 2 {
		return Event{}, ErrInvalidSpec
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(strings.ToLower(strings.TrimSpace(p)))
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	return parseKeyWithModifiers(strings.TrimSpace(parts[len(parts)-1]), mods)
}

// parseKeyWithModifiers parses the key portion of a spec and attaches
// the already-parsed modifiers.
func parseKeyWithModifiers(keyPart string, mods Modifier) (Event, error) {
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}

	if k := KeyFromName(keyPart); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}

	ev := NewRuneEvent(runes[0], mods)
	if runes[0] == '/' {
		ev.Code = CodeSlash
	}
	return ev, nil
}
