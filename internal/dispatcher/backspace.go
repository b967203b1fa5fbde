package dispatcher

import (
	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/caret"
	"github.com/dshills/blockedit/internal/input/key"
)

// backspace removes the structure behind the caret. Native deletion
// applies whenever there is character-level work to do: a non-collapsed
// fragment, or a caret that is not at the logical start of its input.
func (d *Dispatcher) backspace(ev key.Event) Result {
	b, in, _, ok := d.caret.Focused()
	if !ok || b == nil {
		return PassThrough()
	}
	if !d.caret.IsSelectionCollapsed() || !d.caret.IsCaretAtStart(in) {
		return PassThrough()
	}

	d.toolbar.Close()

	// Inside a multi-input block, Backspace at an inner input's start
	// walks to the previous input instead of touching structure.
	// Single-input blocks trivially count their input as first.
	if idx := b.InputIndex(in); idx > 0 {
		d.caret.NavigatePrevious()
		return Handled()
	}

	prev := d.store.PreviousBlock()
	if prev == nil {
		// Document start absorbs the key.
		return NoOp()
	}

	// An empty neighbor behaves like a line-break character: remove it
	// and stop.
	if prev.IsEmpty() {
		d.store.RemoveBlock(prev)
		return Handled()
	}
	if b.IsEmpty() {
		d.store.RemoveBlock(b)
		d.caret.SetToBlock(prev, caret.PositionEnd)
		return Handled()
	}

	if !d.policy.AreBlocksMergeable(prev, b) {
		// Merging refused: the caret moves without deleting anything.
		d.caret.SetToBlock(prev, caret.PositionEnd)
		return Handled()
	}

	// Caret lands at the pre-merge end of the input that receives the
	// neighbor's leading text.
	tail := mergeJoinInput(prev, b)
	offset := 0
	if tail != nil {
		offset = tail.Len()
	}

	if err := d.store.MergeBlocks(d.lifetime, prev, b); err != nil {
		return Errorf("merging blocks: %w", err)
	}
	d.caret.SetToInput(prev, tail, offset)
	d.toolbar.Close()
	return Handled()
}

// delete is the forward mirror of backspace: it requires a collapsed
// selection with the caret at the logical end of its input, then walks
// the same structural ladder toward the next block.
func (d *Dispatcher) delete(ev key.Event) Result {
	b, in, _, ok := d.caret.Focused()
	if !ok || b == nil {
		return PassThrough()
	}
	if !d.caret.IsSelectionCollapsed() || !d.caret.IsCaretAtEnd(in) {
		return PassThrough()
	}

	d.toolbar.Close()

	if idx := b.InputIndex(in); idx >= 0 && idx < b.InputCount()-1 {
		d.caret.NavigateNext()
		return Handled()
	}

	next := d.store.NextBlock()
	if next == nil {
		return NoOp()
	}

	if next.IsEmpty() {
		d.store.RemoveBlock(next)
		return Handled()
	}
	if b.IsEmpty() {
		d.store.RemoveBlock(b)
		d.caret.SetToBlock(next, caret.PositionStart)
		return Handled()
	}

	if !d.policy.AreBlocksMergeable(b, next) {
		d.caret.SetToBlock(next, caret.PositionStart)
		return Handled()
	}

	tail := mergeJoinInput(b, next)
	offset := 0
	if tail != nil {
		offset = tail.Len()
	}

	if err := d.store.MergeBlocks(d.lifetime, b, next); err != nil {
		return Errorf("merging blocks: %w", err)
	}
	d.caret.SetToInput(b, tail, offset)
	d.toolbar.Close()
	return Handled()
}

// mergeJoinInput is the target input that receives source's leading
// text in a merge. Same-shape blocks merge input-wise and join at the
// first input; everything else joins at the target's trailing input.
func mergeJoinInput(target, source *block.Block) *block.Input {
	if target.Type() == source.Type() && target.InputCount() == source.InputCount() {
		return target.FirstInput()
	}
	return target.LastInput()
}
