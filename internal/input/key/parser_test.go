package key_test

import (
	"errors"
	"testing"

	"github.com/dshills/blockedit/internal/input/key"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec     string
		wantKey  key.Key
		wantRune rune
		wantMods key.Modifier
	}{
		{"a", key.KeyRune, 'a', key.ModNone},
		{"/", key.KeyRune, '/', key.ModNone},
		{"Enter", key.KeyEnter, 0, key.ModNone},
		{"escape", key.KeyEscape, 0, key.ModNone},
		{"Ctrl+S", key.KeyRune, 'S', key.ModCtrl},
		{"Shift+Tab", key.KeyTab, 0, key.ModShift},
		{"Ctrl+Shift+/", key.KeyRune, '/', key.ModCtrl | key.ModShift},
		{"Cmd+/", key.KeyRune, '/', key.ModMeta},
	}

	for _, tc := range tests {
		t.Run(tc.spec, func(t *testing.T) {
			ev, err := key.Parse(tc.spec)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.spec, err)
			}
			if ev.Key != tc.wantKey {
				t.Errorf("Key = %v, want %v", ev.Key, tc.wantKey)
			}
			if ev.Rune != tc.wantRune {
				t.Errorf("Rune = %q, want %q", ev.Rune, tc.wantRune)
			}
			if ev.Modifiers != tc.wantMods {
				t.Errorf("Modifiers = %v, want %v", ev.Modifiers, tc.wantMods)
			}
		})
	}
}

func TestParseSlashCode(t *testing.T) {
	ev, err := key.Parse("/")
	if err != nil {
		t.Fatalf("Parse(/) error: %v", err)
	}
	if ev.Code != key.CodeSlash {
		t.Errorf("Code = %v, want CodeSlash", ev.Code)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := key.Parse(""); !errors.Is(err, key.ErrEmptySpec) {
		t.Errorf("empty spec: got %v, want ErrEmptySpec", err)
	}
	if _, err := key.Parse("NotAKey"); !errors.Is(err, key.ErrInvalidSpec) {
		t.Errorf("unknown key: got %v, want ErrInvalidSpec", err)
	}
	if _, err := key.Parse("Hyper+x"); !errors.Is(err, key.ErrInvalidSpec) {
		t.Errorf("unknown modifier: got %v, want ErrInvalidSpec", err)
	}
}
