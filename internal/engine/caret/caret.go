package caret

import (
	"strings"
	"sync"

	"github.com/rivo/uniseg"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/sequence"
)

// Position addresses an edge of a block for caret placement.
type Position int

const (
	// PositionStart places the caret at the start of the first input.
	PositionStart Position = iota
	// PositionEnd places the caret at the end of the last input.
	PositionEnd
)

// String returns the position name.
func (p Position) String() string {
	switch p {
	case PositionStart:
		return "start"
	case PositionEnd:
		return "end"
	default:
		return "unknown"
	}
}

// invisibles are characters that do not count as visible content when
// deciding whether the caret sits at an input's logical start or end:
// zero-width space, zero-width non-joiner/joiner, and the BOM.
const invisibles = "\u200b\u200c\u200d\ufeff"

// state is the native caret: which input holds it, the caret offset,
// and the selection anchor (equal to the offset when collapsed). All
// offsets are rune offsets.
type state struct {
	block  *block.Block
	input  *block.Input
	offset int
	anchor int
}

// Service tracks the native caret and implements both the read-only
// probe (collapsed/start/end queries) and caret placement. It is the
// single point where the render layer and the engine agree on where
// the text cursor is.
type Service struct {
	mu    sync.RWMutex
	store *sequence.Store
	cur   *state // nil when the editor has no focus
}

// NewService creates a caret service over the given store.
func NewService(store *sequence.Store) *Service {
	return &Service{store: store}
}

// HasCaret returns true if an input currently holds the caret.
func (s *Service) HasCaret() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur != nil
}

// Focused returns the block and input holding the caret and the caret
// rune offset. ok is false when the editor has no focus.
func (s *Service) Focused() (b *block.Block, in *block.Input, offset int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return nil, nil, 0, false
	}
	return s.cur.block, s.cur.input, s.cur.offset, true
}

// FocusedInput returns the input holding the caret, or nil.
func (s *Service) FocusedInput() *block.Input {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return nil
	}
	return s.cur.input
}

// IsSelectionCollapsed returns true if the native selection is a bare
// caret. With no caret at all it returns false; callers branch on the
// focused input before trusting the answer.
func (s *Service) IsSelectionCollapsed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur != nil && s.cur.offset == s.cur.anchor
}

// IsCaretAtStart returns true if the caret sits at the logical start
// of the given input: no visible grapheme cluster precedes it. False
// when the caret is absent or in a different input.
func (s *Service) IsCaretAtStart(in *block.Input) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil || s.cur.input != in {
		return false
	}
	before := string(in.Runes()[:clamp(s.cur.offset, 0, in.Len())])
	return visibleClusters(before) == 0
}

// IsCaretAtEnd returns true if the caret sits at the logical end of
// the given input: no visible grapheme cluster follows it.
func (s *Service) IsCaretAtEnd(in *block.Input) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil || s.cur.input != in {
		return false
	}
	after := string(in.Runes()[clamp(s.cur.offset, 0, in.Len()):])
	return visibleClusters(after) == 0
}

// visibleClusters counts grapheme clusters after stripping zero-width
// characters, so a caret separated from the edge only by invisible
// characters still counts as being at the edge.
func visibleClusters(text string) int {
	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invisibles, r) {
			return -1
		}
		return r
	}, text)
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
