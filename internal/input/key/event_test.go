package key_test

import (
	"testing"

	"github.com/dshills/blockedit/internal/input/key"
)

func TestIsPrintable(t *testing.T) {
	tests := []struct {
		name     string
		event    key.Event
		expected bool
	}{
		{"plain letter", key.NewRuneEvent('a', key.ModNone), true},
		{"shifted letter", key.NewRuneEvent('A', key.ModShift), true},
		{"slash", key.NewRuneEvent('/', key.ModNone), true},
		{"ctrl+letter", key.NewRuneEvent('a', key.ModCtrl), false},
		{"meta+letter", key.NewRuneEvent('a', key.ModMeta), false},
		{"alt+letter", key.NewRuneEvent('a', key.ModAlt), false},
		{"enter", key.NewSpecialEvent(key.KeyEnter, key.ModNone), false},
		{"backspace", key.NewSpecialEvent(key.KeyBackspace, key.ModNone), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.event.IsPrintable(); got != tc.expected {
				t.Errorf("IsPrintable() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestIsModified(t *testing.T) {
	// Shift alone does not count as a modifier for character keys.
	shifted := key.NewRuneEvent('A', key.ModShift)
	if shifted.IsModified() {
		t.Error("Shift+rune should not be modified")
	}

	ctrled := key.NewRuneEvent('a', key.ModCtrl)
	if !ctrled.IsModified() {
		t.Error("Ctrl+rune should be modified")
	}

	shiftTab := key.NewSpecialEvent(key.KeyTab, key.ModShift)
	if !shiftTab.IsModified() {
		t.Error("Shift+Tab should be modified")
	}
}

func TestHasCommand(t *testing.T) {
	if !key.ModCtrl.HasCommand() {
		t.Error("Ctrl should satisfy HasCommand")
	}
	if !key.ModMeta.HasCommand() {
		t.Error("Meta should satisfy HasCommand")
	}
	if key.ModShift.HasCommand() {
		t.Error("Shift should not satisfy HasCommand")
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		event    key.Event
		expected string
	}{
		{key.NewRuneEvent('a', key.ModNone), "a"},
		{key.NewRuneEvent(' ', key.ModNone), "Space"},
		{key.NewSpecialEvent(key.KeyEnter, key.ModNone), "Enter"},
		{key.NewSpecialEvent(key.KeyTab, key.ModShift), "S-Tab"},
		{key.NewRuneEvent('s', key.ModCtrl), "C-s"},
	}

	for _, tc := range tests {
		if got := tc.event.String(); got != tc.expected {
			t.Errorf("String() = %q, want %q", got, tc.expected)
		}
	}
}

func TestMatches(t *testing.T) {
	ev := key.NewSpecialEvent(key.KeyTab, key.ModShift)
	if !ev.Matches("Shift+Tab") {
		t.Error("Shift+Tab event should match spec")
	}
	if ev.Matches("Tab") {
		t.Error("Shift+Tab event should not match bare Tab")
	}
}
