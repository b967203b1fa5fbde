package caret

import (
	"github.com/dshills/blockedit/internal/engine/block"
)

// SetToBlock places the caret at the start or end of a block and makes
// that block current. Blocks without inputs clear the caret but still
// take focus.
func (s *Service) SetToBlock(b *block.Block, pos Position) {
	if b == nil {
		return
	}
	s.store.SetCurrentBlock(b)

	var in *block.Input
	if pos == PositionStart {
		in = b.FirstInput()
	} else {
		in = b.LastInput()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if in == nil {
		s.cur = nil
		return
	}
	offset := 0
	if pos == PositionEnd {
		offset = in.Len()
	}
	s.cur = &state{block: b, input: in, offset: offset, anchor: offset}
}

// SetToInput places the caret inside a specific input of a block at a
// rune offset, clamped to the input's length.
func (s *Service) SetToInput(b *block.Block, in *block.Input, offset int) {
	if b == nil || in == nil {
		return
	}
	s.store.SetCurrentBlock(b)

	s.mu.Lock()
	defer s.mu.Unlock()
	offset = clamp(offset, 0, in.Len())
	s.cur = &state{block: b, input: in, offset: offset, anchor: offset}
}

// SetSelection extends the native selection within the focused input.
// The caret moves to extent; anchor stays where the selection began.
func (s *Service) SetSelection(anchor, extent int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return
	}
	limit := s.cur.input.Len()
	s.cur.anchor = clamp(anchor, 0, limit)
	s.cur.offset = clamp(extent, 0, limit)
}

// Collapse collapses the selection to the caret position.
func (s *Service) Collapse() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur != nil {
		s.cur.anchor = s.cur.offset
	}
}

// Blur removes the caret entirely (focus left the editor).
func (s *Service) Blur() {
	s.mu.Lock()
	s.cur = nil
	s.mu.Unlock()
	s.store.ClearCurrent()
}

// NavigateNext moves the caret to the next input: the following input
// within the same block, or the first input of the next block. Returns
// true if the caret moved.
func (s *Service) NavigateNext() bool {
	s.mu.RLock()
	cur := s.cur
	s.mu.RUnlock()
	if cur == nil {
		return false
	}

	b := cur.block
	if idx := b.InputIndex(cur.input); idx >= 0 && idx+1 < b.InputCount() {
		s.SetToInput(b, b.Input(idx+1), 0)
		return true
	}

	next := s.neighborWithInputs(b, +1)
	if next == nil {
		return false
	}
	s.SetToBlock(next, PositionStart)
	return true
}

// NavigatePrevious moves the caret to the previous input: the prior
// input within the same block, or the last input of the previous
// block. Returns true if the caret moved.
func (s *Service) NavigatePrevious() bool {
	s.mu.RLock()
	cur := s.cur
	s.mu.RUnlock()
	if cur == nil {
		return false
	}

	b := cur.block
	if idx := b.InputIndex(cur.input); idx > 0 {
		in := b.Input(idx - 1)
		s.SetToInput(b, in, in.Len())
		return true
	}

	prev := s.neighborWithInputs(b, -1)
	if prev == nil {
		return false
	}
	s.SetToBlock(prev, PositionEnd)
	return true
}

// neighborWithInputs walks from b in the given direction to the first
// block that has at least one input.
func (s *Service) neighborWithInputs(b *block.Block, dir int) *block.Block {
	idx := s.store.IndexOf(b)
	if idx == -1 {
		return nil
	}
	for i := idx + dir; i >= 0 && i < s.store.Len(); i += dir {
		if candidate := s.store.Block(i); candidate.InputCount() > 0 {
			return candidate
		}
	}
	return nil
}

// InsertContentAtCaretPosition inserts text at the caret, replacing
// any non-collapsed selection, and leaves the caret after the inserted
// text. A no-op without a caret.
func (s *Service) InsertContentAtCaretPosition(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return
	}
	lo, hi := s.cur.offset, s.cur.anchor
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo != hi {
		runes := s.cur.input.Runes()
		s.cur.input.SetText(string(runes[:lo]) + string(runes[hi:]))
	}
	s.cur.input.InsertAt(lo, text)
	s.cur.offset = lo + len([]rune(text))
	s.cur.anchor = s.cur.offset
}

// DeleteSelectedText removes the non-collapsed selection in the
// focused input, collapsing the caret to the selection start. A no-op
// when the selection is already collapsed.
func (s *Service) DeleteSelectedText() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil || s.cur.offset == s.cur.anchor {
		return
	}
	lo, hi := s.cur.offset, s.cur.anchor
	if lo > hi {
		lo, hi = hi, lo
	}
	runes := s.cur.input.Runes()
	s.cur.input.SetText(string(runes[:lo]) + string(runes[hi:]))
	s.cur.offset = lo
	s.cur.anchor = lo
}
