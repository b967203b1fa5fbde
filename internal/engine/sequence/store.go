package sequence

import (
	"context"
	"sync"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/event"
)

// NoCurrent is the current-index value when no block has focus.
const NoCurrent = -1

// Normalizer prepares a merge target's content before the source block
// is removed (whitespace cleanup, tool-specific canonicalization). It
// may do asynchronous work internally; MergeBlocks waits for it.
type Normalizer interface {
	Normalize(ctx context.Context, b *block.Block) error
}

// NormalizerFunc adapts a function to the Normalizer interface.
type NormalizerFunc func(ctx context.Context, b *block.Block) error

// Normalize implements Normalizer.
func (f NormalizerFunc) Normalize(ctx context.Context, b *block.Block) error {
	return f(ctx, b)
}

// Store is the ordered, mutable block sequence. It exclusively owns
// block lifetime, ordering, and current-block tracking.
//
// Invariants: indices are contiguous and zero-based; at most one block
// is current; the sequence is never left empty by a removal (a default
// block is auto-inserted instead).
type Store struct {
	mu sync.RWMutex

	registry    *block.Registry
	bus         *event.Bus
	normalizer  Normalizer
	defaultType block.ContentType

	blocks  []*block.Block
	current int
}

// Option configures a Store.
type Option func(*Store)

// WithDefaultType sets the content type used for auto-inserted blocks.
func WithDefaultType(typ block.ContentType) Option {
	return func(s *Store) { s.defaultType = typ }
}

// WithNormalizer sets the merge-target normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(s *Store) { s.normalizer = n }
}

// NewStore creates a store seeded with one empty default block.
func NewStore(registry *block.Registry, bus *event.Bus, opts ...Option) *Store {
	s := &Store{
		registry:    registry,
		bus:         bus,
		defaultType: block.TypeParagraph,
		current:     NoCurrent,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.blocks = []*block.Block{s.newDefaultBlock()}
	s.current = 0
	return s
}

func (s *Store) newDefaultBlock() *block.Block {
	return block.New(s.defaultType, s.registry.Traits(s.defaultType))
}

// Registry returns the content-type registry the store builds blocks
// from.
func (s *Store) Registry() *block.Registry { return s.registry }

// Len returns the number of blocks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blocks)
}

// Blocks returns the blocks in document order. The caller must not
// mutate the returned slice.
func (s *Store) Blocks() []*block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*block.Block, len(s.blocks))
	copy(out, s.blocks)
	return out
}

// Block returns the block at index, or nil if out of range.
func (s *Store) Block(index int) *block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blockAt(index)
}

func (s *Store) blockAt(index int) *block.Block {
	if index < 0 || index >= len(s.blocks) {
		return nil
	}
	return s.blocks[index]
}

// CurrentIndex returns the current block's index, or NoCurrent.
func (s *Store) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentBlock returns the current block, or nil if focus has left the
// editor.
func (s *Store) CurrentBlock() *block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blockAt(s.current)
}

// PreviousBlock returns the block before the current one, or nil at
// the sequence start.
func (s *Store) PreviousBlock() *block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == NoCurrent {
		return nil
	}
	return s.blockAt(s.current - 1)
}

// NextBlock returns the block after the current one, or nil at the
// sequence end.
func (s *Store) NextBlock() *block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == NoCurrent {
		return nil
	}
	return s.blockAt(s.current + 1)
}

// FirstBlock returns the first block.
func (s *Store) FirstBlock() *block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blockAt(0)
}

// LastBlock returns the last block.
func (s *Store) LastBlock() *block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blockAt(len(s.blocks) - 1)
}

// IndexOf returns the index of the block, or -1 if it is not in the
// sequence.
func (s *Store) IndexOf(b *block.Block) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(b)
}

func (s *Store) indexOf(b *block.Block) int {
	for i, candidate := range s.blocks {
		if candidate == b {
			return i
		}
	}
	return -1
}

// SetCurrentIndex sets the current block by index. Out-of-range values
// other than NoCurrent are ignored.
func (s *Store) SetCurrentIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index == NoCurrent || (index >= 0 && index < len(s.blocks)) {
		s.current = index
	}
}

// SetCurrentBlock sets the current block. Blocks not in the sequence
// are ignored.
func (s *Store) SetCurrentBlock(b *block.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(b); i != -1 {
		s.current = i
	}
}

// ClearCurrent marks no block as current (focus left the editor).
func (s *Store) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = NoCurrent
}

// InsertDefaultBlockAtIndex inserts a new empty default-type block at
// index, shifting subsequent blocks. When setCurrent is true the new
// block becomes current. Returns the new block.
func (s *Store) InsertDefaultBlockAtIndex(index int, setCurrent bool) *block.Block {
	s.mu.Lock()
	b := s.newDefaultBlock()
	index = clampIndex(index, len(s.blocks))
	s.blocks = append(s.blocks, nil)
	copy(s.blocks[index+1:], s.blocks[index:])
	s.blocks[index] = b
	if setCurrent {
		s.current = index
	} else if s.current >= index {
		s.current++
	}
	s.mu.Unlock()

	s.publish(event.TopicBlockAdded, b)
	return b
}

// InsertBlockAtIndex inserts an existing block (built by the importer
// or a split) at index.
func (s *Store) InsertBlockAtIndex(b *block.Block, index int, setCurrent bool) {
	s.mu.Lock()
	index = clampIndex(index, len(s.blocks))
	s.blocks = append(s.blocks, nil)
	copy(s.blocks[index+1:], s.blocks[index:])
	s.blocks[index] = b
	if setCurrent {
		s.current = index
	} else if s.current >= index {
		s.current++
	}
	s.mu.Unlock()

	s.publish(event.TopicBlockAdded, b)
}

// RemoveBlock removes a block from the sequence. Removing the last
// remaining block auto-inserts a fresh default block so the sequence is
// never empty. The current index is moved to a defined neighbor.
// Blocks not in the sequence are ignored.
func (s *Store) RemoveBlock(b *block.Block) {
	s.mu.Lock()
	index := s.indexOf(b)
	if index == -1 {
		s.mu.Unlock()
		return
	}

	s.blocks = append(s.blocks[:index], s.blocks[index+1:]...)

	var added *block.Block
	if len(s.blocks) == 0 {
		added = s.newDefaultBlock()
		s.blocks = []*block.Block{added}
		s.current = 0
	} else {
		switch {
		case s.current == index:
			if s.current >= len(s.blocks) {
				s.current = len(s.blocks) - 1
			}
		case s.current > index:
			s.current--
		}
	}
	s.mu.Unlock()

	s.publish(event.TopicBlockRemoved, b)
	if added != nil {
		s.publish(event.TopicBlockAdded, added)
	}
	s.notifyIfEmpty()
}

// RemoveSelectedBlocks removes every cross-block-selected block in one
// logical step and returns the index at which a replacement block
// should be inserted. When nothing is selected it returns -1.
func (s *Store) RemoveSelectedBlocks() int {
	s.mu.Lock()
	firstRemoved := -1
	var removed []*block.Block
	kept := s.blocks[:0]
	for i, b := range s.blocks {
		if b.Selected() {
			if firstRemoved == -1 {
				firstRemoved = i
			}
			b.SetSelected(false)
			removed = append(removed, b)
			continue
		}
		kept = append(kept, b)
	}
	if firstRemoved == -1 {
		s.mu.Unlock()
		return -1
	}
	s.blocks = kept

	var added *block.Block
	if len(s.blocks) == 0 {
		added = s.newDefaultBlock()
		s.blocks = []*block.Block{added}
	}
	if s.current >= len(s.blocks) {
		s.current = len(s.blocks) - 1
	}
	s.mu.Unlock()

	for _, b := range removed {
		s.publish(event.TopicBlockRemoved, b)
	}
	if added != nil {
		s.publish(event.TopicBlockAdded, added)
	}
	s.notifyIfEmpty()
	return firstRemoved
}

// SelectedBlocks returns the blocks currently cross-block selected, in
// document order.
func (s *Store) SelectedBlocks() []*block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*block.Block
	for _, b := range s.blocks {
		if b.Selected() {
			out = append(out, b)
		}
	}
	return out
}

// ClearSelection unmarks every selected block.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	for _, b := range s.blocks {
		b.SetSelected(false)
	}
	s.mu.Unlock()
}

// ClearDropTargets clears every block's drop-target highlight.
func (s *Store) ClearDropTargets() {
	s.mu.Lock()
	for _, b := range s.blocks {
		b.SetDropTarget(false)
	}
	s.mu.Unlock()
}

// IsEmpty returns true if every block is empty.
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.blocks {
		if !b.IsEmpty() {
			return false
		}
	}
	return true
}

// BlockByChildNode maps a render-tree node back to its owning block,
// or nil if no block owns the node.
func (s *Store) BlockByChildNode(node block.NodeID) *block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.blocks {
		if b.OwnsNode(node) {
			return b
		}
	}
	return nil
}

// SetCurrentBlockByChildNode maps a node to its owning block, makes it
// current, and returns it. Returns nil (and leaves the current index
// untouched) if no block owns the node; the caller then falls back to
// the last block.
func (s *Store) SetCurrentBlockByChildNode(node block.NodeID) *block.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.blocks {
		if b.OwnsNode(node) {
			s.current = i
			return b
		}
	}
	return nil
}

func (s *Store) publish(topic event.Topic, b *block.Block) {
	if s.bus != nil {
		s.bus.Publish(topic, b)
	}
}

func (s *Store) notifyIfEmpty() {
	if s.bus != nil && s.IsEmpty() {
		s.bus.Publish(event.TopicEditorEmpty, nil)
	}
}

func clampIndex(index, length int) int {
	if index < 0 {
		return 0
	}
	if index > length {
		return length
	}
	return index
}
