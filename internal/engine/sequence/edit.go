package sequence

import (
	"context"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/event"
)

// SplitCurrent splits the current block at the given caret position
// into two sibling blocks of the same type. Text before the caret stays
// in the original block; text from the caret onward (plus any later
// inputs' text) moves to a new block inserted immediately after.
// Returns the new (second) block, or nil when there is no current
// block to split.
//
// The caret position is passed in explicitly rather than read from an
// ambient focus lookup so the operation is a pure function of its
// arguments.
func (s *Store) SplitCurrent(inputIndex, offset int) *block.Block {
	s.mu.Lock()
	cur := s.blockAt(s.current)
	if cur == nil {
		s.mu.Unlock()
		return nil
	}

	in := cur.Input(inputIndex)
	if in == nil {
		in = cur.FirstInput()
	}
	if in == nil {
		s.mu.Unlock()
		return nil
	}

	second := block.New(cur.Type(), s.registry.Traits(cur.Type()))
	if target := second.FirstInput(); target != nil {
		target.SetText(in.SplitAt(offset))
		// Later inputs of a multi-input block travel with the tail.
		for i, src := range cur.Inputs() {
			if i <= cur.InputIndex(in) {
				continue
			}
			if dst := second.Input(i); dst != nil {
				dst.SetText(src.Text())
				src.SetText("")
			}
		}
	}

	index := s.current + 1
	s.blocks = append(s.blocks, nil)
	copy(s.blocks[index+1:], s.blocks[index:])
	s.blocks[index] = second
	s.mu.Unlock()

	s.publish(event.TopicBlockAdded, second)
	s.publish(event.TopicBlockChanged, cur)
	return second
}

// MergeBlocks folds source's text content into target and removes
// source. Same-shape blocks (same type, same input count) merge
// input-wise, so a caption never absorbs the neighbor's body text;
// everything else appends source's joined text to target's last input.
// The target is normalized before removal; the call returns only once
// removal is complete, so callers must not issue a second structural
// mutation on the same pair until it does.
//
// The merge is a silent no-op when target has no mergeable trailing
// input (media blocks, inputless blocks).
func (s *Store) MergeBlocks(ctx context.Context, target, source *block.Block) error {
	if target == nil || source == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.indexOf(target) == -1 || s.indexOf(source) == -1 {
		s.mu.Unlock()
		return nil
	}
	tail := target.LastInput()
	if tail == nil || !s.registry.Traits(target.Type()).TextContainer {
		s.mu.Unlock()
		return nil
	}
	if target.Type() == source.Type() && target.InputCount() == source.InputCount() {
		for i, dst := range target.Inputs() {
			dst.Append(source.Input(i).Text())
		}
	} else {
		tail.Append(source.Text())
	}
	s.mu.Unlock()

	if s.normalizer != nil {
		if err := s.normalizer.Normalize(ctx, target); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.RemoveBlock(source)
	s.publish(event.TopicBlockChanged, target)
	return nil
}

// MoveBlock moves the block at from to index to, shifting neighbors.
// Out-of-range indices are ignored.
func (s *Store) MoveBlock(from, to int) {
	s.mu.Lock()
	if from < 0 || from >= len(s.blocks) || to < 0 || to >= len(s.blocks) || from == to {
		s.mu.Unlock()
		return
	}
	cur := s.blockAt(s.current)
	b := s.blocks[from]
	s.blocks = append(s.blocks[:from], s.blocks[from+1:]...)
	s.blocks = append(s.blocks[:to], append([]*block.Block{b}, s.blocks[to:]...)...)
	if cur != nil {
		s.current = s.indexOf(cur)
	}
	s.mu.Unlock()

	s.publish(event.TopicBlockMoved, b)
}
