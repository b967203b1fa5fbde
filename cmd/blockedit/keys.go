package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/blockedit/internal/input/key"
)

// translateKey converts a tcell key event into the engine's event
// type. Ctrl+/ arrives from terminals as Ctrl+Underscore; it is mapped
// to the slash physical code with the Ctrl modifier so the layout
// independent shortcut matching works.
func translateKey(ev *tcell.EventKey) key.Event {
	mods := translateMods(ev.Modifiers())

	switch ev.Key() {
	case tcell.KeyRune:
		out := key.NewRuneEvent(ev.Rune(), mods)
		if ev.Rune() == '/' {
			out = out.WithCode(key.CodeSlash)
		}
		return out
	case tcell.KeyCtrlUnderscore:
		return key.NewEvent(key.KeyRune, 0, mods|key.ModCtrl).WithCode(key.CodeSlash)
	case tcell.KeyEnter:
		return key.NewSpecialEvent(key.KeyEnter, mods)
	case tcell.KeyTab:
		return key.NewSpecialEvent(key.KeyTab, mods)
	case tcell.KeyBacktab:
		return key.NewSpecialEvent(key.KeyTab, mods|key.ModShift)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewSpecialEvent(key.KeyBackspace, mods)
	case tcell.KeyDelete:
		return key.NewSpecialEvent(key.KeyDelete, mods)
	case tcell.KeyUp:
		return key.NewSpecialEvent(key.KeyUp, mods)
	case tcell.KeyDown:
		return key.NewSpecialEvent(key.KeyDown, mods)
	case tcell.KeyLeft:
		return key.NewSpecialEvent(key.KeyLeft, mods)
	case tcell.KeyRight:
		return key.NewSpecialEvent(key.KeyRight, mods)
	case tcell.KeyHome:
		return key.NewSpecialEvent(key.KeyHome, mods)
	case tcell.KeyEnd:
		return key.NewSpecialEvent(key.KeyEnd, mods)
	case tcell.KeyEscape:
		return key.NewSpecialEvent(key.KeyEscape, mods)
	default:
		return key.NewSpecialEvent(key.KeyNone, mods)
	}
}

func translateMods(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= key.ModMeta
	}
	return mods
}
