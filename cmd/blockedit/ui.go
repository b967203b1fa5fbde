package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/blockedit/internal/app"
	"github.com/dshills/blockedit/internal/engine/caret"
	"github.com/dshills/blockedit/internal/input/key"
)

// ui runs the terminal event loop. The engine decides the structural
// edits; anything it passes through is emulated here the way a browser
// would handle it natively (character insertion and deletion, single
// caret steps).
type ui struct {
	screen tcell.Screen
	engine *app.App
}

func newUI(screen tcell.Screen, engine *app.App) *ui {
	return &ui{screen: screen, engine: engine}
}

func (u *ui) loop() error {
	if b := u.engine.Store().FirstBlock(); b != nil {
		u.engine.Caret().SetToBlock(b, caret.PositionStart)
	}
	u.render()

	for {
		switch e := u.screen.PollEvent().(type) {
		case *tcell.EventInterrupt:
			return nil

		case *tcell.EventResize:
			u.screen.Sync()
			u.render()

		case *tcell.EventKey:
			if e.Key() == tcell.KeyCtrlC {
				return nil
			}
			ev := translateKey(e)
			if ev.Key == key.KeyEscape {
				return nil
			}

			res := u.engine.Dispatcher().Keydown(ev)
			if res.Error != nil {
				u.engine.Logger().Error("dispatch %s: %v", ev.String(), res.Error)
			}
			if !res.PreventDefault {
				u.native(ev)
			}
			u.engine.Dispatcher().Keyup(ev)
			u.render()
		}
	}
}

// native emulates the platform's default text editing for events the
// engine passed through.
func (u *ui) native(ev key.Event) {
	c := u.engine.Caret()
	b, in, offset, ok := c.Focused()
	if !ok {
		return
	}

	switch {
	case ev.IsPrintable():
		c.InsertContentAtCaretPosition(string(ev.Rune))

	case ev.Key == key.KeyEnter:
		// Reached only for line-break blocks and Shift+Enter.
		c.InsertContentAtCaretPosition("\n")

	case ev.Key == key.KeyBackspace:
		if !c.IsSelectionCollapsed() {
			c.DeleteSelectedText()
			return
		}
		if offset > 0 {
			c.SetSelection(offset-1, offset)
			c.DeleteSelectedText()
		}

	case ev.Key == key.KeyDelete:
		if !c.IsSelectionCollapsed() {
			c.DeleteSelectedText()
			return
		}
		if offset < in.Len() {
			c.SetSelection(offset, offset+1)
			c.DeleteSelectedText()
		}

	case ev.Key == key.KeyLeft:
		if offset > 0 {
			c.SetToInput(b, in, offset-1)
		}

	case ev.Key == key.KeyRight:
		if offset < in.Len() {
			c.SetToInput(b, in, offset+1)
		}

	case ev.Key == key.KeyHome:
		c.SetToInput(b, in, 0)

	case ev.Key == key.KeyEnd:
		c.SetToInput(b, in, in.Len())
	}
}
