package dispatcher

import (
	"github.com/dshills/blockedit/internal/input/key"
)

// tab navigates between inputs across the whole block sequence.
func (d *Dispatcher) tab(ev key.Event) Result {
	// An open overlay cycling its own items owns Tab entirely.
	if d.toolbar.SomeOverlayOpened() {
		return PassThrough()
	}

	var moved bool
	if ev.Modifiers.HasShift() {
		moved = d.caret.NavigatePrevious()
	} else {
		moved = d.caret.NavigateNext()
	}
	if moved {
		// Suppress the native Tab, which would move browser focus.
		return Handled()
	}
	return PassThrough()
}

// arrowRightAndDown handles caret movement toward the document end.
func (d *Dispatcher) arrowRightAndDown(ev key.Event) Result {
	return d.arrow(ev, true)
}

// arrowLeftAndUp handles caret movement toward the document start.
func (d *Dispatcher) arrowLeftAndUp(ev key.Event) Result {
	return d.arrow(ev, false)
}

func (d *Dispatcher) arrow(ev key.Event, forward bool) Result {
	// A focused overlay flipper claims its reserved navigation keys
	// before the engine's own movement runs.
	if d.toolbar.Opened() && d.toolbar.FlipperOwnsKey(ev) {
		return PassThrough()
	}

	// Cursor movement invalidates the toolbar's anchored position.
	d.toolbar.Close()

	if ev.Modifiers.HasShift() {
		if d.shiftSelectionGesture(ev, forward) {
			d.selection.ToggleBlockSelectedState(forward)
			return Handled()
		}
		// Native extends the character selection.
		return PassThrough()
	}

	// Arrows always drop a stale multi-block selection.
	d.selection.Clear()

	// The engine only owns arrow movement at an input edge. Anywhere
	// else the native caret moves a single character.
	var moved bool
	if in := d.caret.FocusedInput(); in != nil {
		if forward && d.caret.IsCaretAtEnd(in) {
			moved = d.caret.NavigateNext()
		} else if !forward && d.caret.IsCaretAtStart(in) {
			moved = d.caret.NavigatePrevious()
		}
	}
	if moved {
		return Handled()
	}

	// The native layer handles the move itself. Re-synchronize the
	// store's focus once the platform's own focus events have settled.
	d.scheduleFocusResync()
	return PassThrough()
}

// shiftSelectionGesture reports whether Shift+arrow should extend the
// cross-block selection instead of moving the caret: the arrow points
// in the gesture's direction, and either a selection is already active
// or the caret sits at the relevant edge of its input.
func (d *Dispatcher) shiftSelectionGesture(ev key.Event, forward bool) bool {
	if forward && !d.forwardArrow(ev) {
		return false
	}
	if !forward && !d.backwardArrow(ev) {
		return false
	}
	if d.selection.Active() {
		return true
	}
	in := d.caret.FocusedInput()
	if in == nil {
		return false
	}
	if forward {
		return d.caret.IsCaretAtEnd(in)
	}
	return d.caret.IsCaretAtStart(in)
}

// scheduleFocusResync re-reads which input the native caret landed in
// after the platform handled an arrow key itself. If focus left the
// editor entirely during the window, the resync skips silently.
func (d *Dispatcher) scheduleFocusResync() {
	if d.scheduler == nil {
		return
	}
	d.scheduler.Schedule(d.config.ResyncDelay, func() {
		if d.store.CurrentBlock() == nil {
			return
		}
		in := d.caret.FocusedInput()
		if in == nil {
			return
		}
		d.store.SetCurrentBlockByChildNode(in.Node())
	})
}
