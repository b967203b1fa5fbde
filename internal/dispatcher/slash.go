package dispatcher

import (
	"github.com/dshills/blockedit/internal/input/key"
)

// slash activates the toolbox on an empty block. The literal character
// is inserted manually so the input still ends up containing "/" even
// though the native insertion is suppressed.
func (d *Dispatcher) slash(ev key.Event) Result {
	b := d.store.CurrentBlock()
	if b == nil || !b.IsEmpty() {
		return PassThrough()
	}

	d.caret.InsertContentAtCaretPosition("/")
	d.toolbar.OpenToolbox(b)
	return Handled()
}

// commandSlash opens the block settings overlay. With more than one
// block multi-selected there is no single block to configure, so the
// event is suppressed but otherwise ignored.
func (d *Dispatcher) commandSlash(ev key.Event) Result {
	if d.selection.Count() > 1 {
		return NoOp()
	}

	d.toolbar.OpenBlockSettings(d.store.CurrentBlock())
	return Handled()
}
