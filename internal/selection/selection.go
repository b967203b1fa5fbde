// Package selection coordinates cross-block selection: whole blocks
// marked selected for group operations, distinct from the text
// fragment selection inside a single input.
package selection

import (
	"sync"

	"github.com/dshills/blockedit/internal/engine/sequence"
)

// Coordinator extends and shrinks the cross-block selection range in
// response to Shift+Arrow gestures. The range is contiguous: an anchor
// block plus a head that moves one block per gesture.
type Coordinator struct {
	mu     sync.Mutex
	store  *sequence.Store
	anchor int
	head   int
	active bool
}

// NewCoordinator creates a coordinator over the given store.
func NewCoordinator(store *sequence.Store) *Coordinator {
	return &Coordinator{store: store, anchor: -1, head: -1}
}

// Active reports whether a cross-block selection is in progress.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Count returns the number of selected blocks.
func (c *Coordinator) Count() int {
	return len(c.store.SelectedBlocks())
}

// ToggleBlockSelectedState extends the selection one block in the
// given direction, or shrinks it when the gesture reverses toward the
// anchor. The first gesture anchors the selection at the current block
// and selects it. At a sequence boundary the gesture is absorbed.
func (c *Coordinator) ToggleBlockSelectedState(forward bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		idx := c.store.CurrentIndex()
		if idx == sequence.NoCurrent {
			return
		}
		c.anchor = idx
		c.head = idx
		c.active = true
		c.setSelected(idx, true)
		return
	}

	dir := -1
	if forward {
		dir = 1
	}

	// Moving back toward the anchor shrinks the range by unselecting
	// the head; moving away extends it.
	shrinking := (c.head > c.anchor && dir < 0) || (c.head < c.anchor && dir > 0)
	if shrinking {
		c.setSelected(c.head, false)
		c.head += dir
		return
	}

	next := c.head + dir
	if next < 0 || next >= c.store.Len() {
		return
	}
	c.head = next
	c.setSelected(next, true)
}

// Clear drops the whole cross-block selection.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.ClearSelection()
	c.anchor = -1
	c.head = -1
	c.active = false
}

// Refresh re-derives the active flag from the store, for callers that
// removed selected blocks out from under the coordinator.
func (c *Coordinator) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.store.SelectedBlocks()) == 0 {
		c.anchor = -1
		c.head = -1
		c.active = false
	}
}

func (c *Coordinator) setSelected(index int, selected bool) {
	if b := c.store.Block(index); b != nil {
		b.SetSelected(selected)
	}
}
