package selection_test

import (
	"testing"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/sequence"
	"github.com/dshills/blockedit/internal/event"
	"github.com/dshills/blockedit/internal/selection"
)

func newStore(t *testing.T, n int) *sequence.Store {
	t.Helper()
	s := sequence.NewStore(block.NewRegistry(), event.NewBus())
	for i := 1; i < n; i++ {
		s.InsertDefaultBlockAtIndex(s.Len(), false)
	}
	s.SetCurrentIndex(0)
	return s
}

func selectedIndices(s *sequence.Store) []int {
	var out []int
	for i, b := range s.Blocks() {
		if b.Selected() {
			out = append(out, i)
		}
	}
	return out
}

func TestFirstToggleAnchorsAtCurrent(t *testing.T) {
	s := newStore(t, 3)
	s.SetCurrentIndex(1)
	c := selection.NewCoordinator(s)

	c.ToggleBlockSelectedState(true)

	got := selectedIndices(s)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("selected = %v, want [1]", got)
	}
	if !c.Active() {
		t.Error("selection should be active")
	}
}

func TestExtendAndShrink(t *testing.T) {
	s := newStore(t, 4)
	s.SetCurrentIndex(1)
	c := selection.NewCoordinator(s)

	c.ToggleBlockSelectedState(true) // anchor 1
	c.ToggleBlockSelectedState(true) // extend to 2
	c.ToggleBlockSelectedState(true) // extend to 3

	if got := selectedIndices(s); len(got) != 3 {
		t.Fatalf("selected = %v, want three blocks", got)
	}

	c.ToggleBlockSelectedState(false) // shrink back to 2

	got := selectedIndices(s)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("selected = %v, want [1 2]", got)
	}
}

func TestExtendBackward(t *testing.T) {
	s := newStore(t, 3)
	s.SetCurrentIndex(2)
	c := selection.NewCoordinator(s)

	c.ToggleBlockSelectedState(false) // anchor 2
	c.ToggleBlockSelectedState(false) // extend to 1

	got := selectedIndices(s)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("selected = %v, want [1 2]", got)
	}
}

func TestBoundaryAbsorbed(t *testing.T) {
	s := newStore(t, 2)
	s.SetCurrentIndex(1)
	c := selection.NewCoordinator(s)

	c.ToggleBlockSelectedState(true) // anchor at last block
	c.ToggleBlockSelectedState(true) // nowhere to extend

	got := selectedIndices(s)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("selected = %v, want [1]", got)
	}
}

func TestNoCurrentBlockIsNoOp(t *testing.T) {
	s := newStore(t, 2)
	s.ClearCurrent()
	c := selection.NewCoordinator(s)

	c.ToggleBlockSelectedState(true)

	if c.Active() || len(selectedIndices(s)) != 0 {
		t.Error("toggle without a current block should do nothing")
	}
}

func TestClear(t *testing.T) {
	s := newStore(t, 3)
	c := selection.NewCoordinator(s)
	c.ToggleBlockSelectedState(true)
	c.ToggleBlockSelectedState(true)

	c.Clear()

	if c.Active() || len(selectedIndices(s)) != 0 {
		t.Error("Clear should drop the selection entirely")
	}
}
