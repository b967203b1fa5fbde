package dispatcher

import (
	"github.com/dshills/blockedit/internal/engine/caret"
	"github.com/dshills/blockedit/internal/input/key"
)

// enter splits the current block, or inserts an empty sibling when the
// caret sits at a block edge.
func (d *Dispatcher) enter(ev key.Event) Result {
	b := d.store.CurrentBlock()
	if b == nil {
		return PassThrough()
	}

	// Code-like content handles Enter itself as a hard line break.
	if b.AcceptsLineBreaks() {
		return PassThrough()
	}

	// An open overlay with flipper focus uses Enter to activate its
	// item; the engine stays out of it.
	if d.toolbar.SomeFlipperFocused() {
		return PassThrough()
	}

	// Shift+Enter is a native line break — except on touch platforms,
	// where autocapitalization synthesizes the Shift after
	// sentence-ending punctuation and the user meant a plain Enter.
	if ev.Modifiers.HasShift() && !d.config.TouchPlatform {
		return PassThrough()
	}

	focusedBlock, in, offset, ok := d.caret.Focused()
	if !ok || focusedBlock != b {
		return PassThrough()
	}

	switch {
	case in == b.FirstInput() && d.caret.IsCaretAtStart(in) && !b.HasMedia():
		// New empty block before the current one; focus stays put.
		d.store.InsertDefaultBlockAtIndex(d.store.IndexOf(b), false)
		d.toolbar.MoveAndOpen(b)

	case in == b.LastInput() && d.caret.IsCaretAtEnd(in):
		nb := d.store.InsertDefaultBlockAtIndex(d.store.IndexOf(b)+1, true)
		d.caret.SetToBlock(nb, caret.PositionStart)
		d.toolbar.MoveAndOpen(nb)

	default:
		nb := d.store.SplitCurrent(b.InputIndex(in), offset)
		if nb == nil {
			return NoOp()
		}
		d.caret.SetToBlock(nb, caret.PositionStart)
		d.toolbar.MoveAndOpen(nb)
	}

	return Handled()
}
