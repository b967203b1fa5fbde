// Package dragdrop translates native drag events into caret placement
// and a content-import call. The bridge tracks one drag at a time: the
// engine's event surface is single-threaded and a new drag-start ends
// any previous gesture implicitly.
package dragdrop

import (
	"context"
	"sync"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/caret"
	"github.com/dshills/blockedit/internal/engine/sequence"
	"github.com/dshills/blockedit/internal/importer"
)

// Importer consumes a drop payload asynchronously.
type Importer interface {
	ProcessDataTransfer(ctx context.Context, payload importer.Payload, internalDrop bool) error
}

// Overlay is the inline toolbar surface the bridge dismisses on
// drag-start.
type Overlay interface {
	Close()
}

// Bridge wires drag events to the store, caret, and import pipeline.
type Bridge struct {
	mu       sync.Mutex
	store    *sequence.Store
	caret    *caret.Service
	inline   Overlay
	importer Importer
	lifetime context.Context

	internalDrag bool
	hovered      *block.Block
}

// NewBridge creates a bridge. lifetime bounds the import call; nil
// defaults to context.Background.
func NewBridge(store *sequence.Store, caretSvc *caret.Service, inline Overlay, imp Importer, lifetime context.Context) *Bridge {
	if lifetime == nil {
		lifetime = context.Background()
	}
	return &Bridge{
		store:    store,
		caret:    caretSvc,
		inline:   inline,
		importer: imp,
		lifetime: lifetime,
	}
}

// DragStart records whether the drag originated from a non-collapsed
// selection inside the editor, so the later drop behaves as a move
// rather than a copy, and closes the inline toolbar.
func (b *Bridge) DragStart() {
	b.mu.Lock()
	b.internalDrag = b.caret.HasCaret() && !b.caret.IsSelectionCollapsed()
	b.hovered = nil
	b.mu.Unlock()

	if b.inline != nil {
		b.inline.Close()
	}
}

// DragOver marks the block owning the hovered node as the visual drop
// target, clearing the previous one. It returns true: default handling
// is always suppressed so targets outside plain text areas remain
// droppable.
func (b *Bridge) DragOver(node block.NodeID) bool {
	target := b.store.BlockByChildNode(node)

	b.mu.Lock()
	prev := b.hovered
	b.hovered = target
	b.mu.Unlock()

	if prev != nil && prev != target {
		prev.SetDropTarget(false)
	}
	if target != nil {
		target.SetDropTarget(true)
	}
	return true
}

// DragLeave clears the hovered block's drop-target highlight.
func (b *Bridge) DragLeave(node block.NodeID) {
	if target := b.store.BlockByChildNode(node); target != nil {
		target.SetDropTarget(false)
	}

	b.mu.Lock()
	if b.hovered != nil && b.hovered.OwnsNode(node) {
		b.hovered = nil
	}
	b.mu.Unlock()
}

// Drop resolves the target block from the dropped-on node (falling
// back to the last block), deletes the dragged selection when the drag
// was internal, places the caret at the target's end, and hands the
// payload to the import pipeline.
func (b *Bridge) Drop(node block.NodeID, payload importer.Payload) error {
	b.store.ClearDropTargets()

	b.mu.Lock()
	internal := b.internalDrag
	b.internalDrag = false
	b.hovered = nil
	b.mu.Unlock()

	if internal && !b.caret.IsSelectionCollapsed() {
		b.caret.DeleteSelectedText()
	}

	target := b.store.BlockByChildNode(node)
	if target == nil {
		target = b.store.LastBlock()
	}
	if target == nil {
		return nil
	}
	b.caret.SetToBlock(target, caret.PositionEnd)

	return b.importer.ProcessDataTransfer(b.lifetime, payload, internal)
}
