package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/blockedit/internal/engine/block"
)

const gutterWidth = 4

var (
	styleDefault    = tcell.StyleDefault
	styleCurrent    = tcell.StyleDefault.Bold(true)
	styleSelected   = tcell.StyleDefault.Reverse(true)
	styleDropTarget = tcell.StyleDefault.Underline(true)
	styleGutter     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus     = tcell.StyleDefault.Reverse(true)
)

// render redraws the block sequence, one line per input, with a gutter
// marking the block type and a status line at the bottom.
func (u *ui) render() {
	u.screen.Clear()
	_, height := u.screen.Size()

	store := u.engine.Store()
	current := store.CurrentBlock()
	_, focusedInput, caretOffset, hasCaret := u.engine.Caret().Focused()

	y := 0
	for _, b := range store.Blocks() {
		style := styleDefault
		switch {
		case b.Selected():
			style = styleSelected
		case b.DropTarget():
			style = styleDropTarget
		case b == current:
			style = styleCurrent
		}

		for i, in := range b.Inputs() {
			if y >= height-1 {
				break
			}
			gutter := "    "
			if i == 0 {
				gutter = gutterFor(b)
			}
			drawText(u.screen, 0, y, styleGutter, gutter)

			text := in.Text()
			drawText(u.screen, gutterWidth, y, style, text)

			if hasCaret && in == focusedInput {
				runes := in.Runes()
				if caretOffset > len(runes) {
					caretOffset = len(runes)
				}
				x := gutterWidth + runewidth.StringWidth(string(runes[:caretOffset]))
				u.screen.ShowCursor(x, y)
			}
			y++
		}
		if b.InputCount() == 0 && y < height-1 {
			drawText(u.screen, 0, y, styleGutter, gutterFor(b))
			drawText(u.screen, gutterWidth, y, style, "[media]")
			y++
		}
	}

	drawText(u.screen, 0, height-1, styleStatus, u.statusLine())
	u.screen.Show()
}

func gutterFor(b *block.Block) string {
	switch b.Type() {
	case block.TypeHeading:
		return "#   "
	case block.TypeCode:
		return "``` "
	case block.TypeQuote:
		return ">   "
	case block.TypeImage:
		return "img "
	default:
		return "    "
	}
}

func (u *ui) statusLine() string {
	store := u.engine.Store()
	tb := u.engine.Toolbar()

	parts := []string{
		fmt.Sprintf("blocks:%d", store.Len()),
		fmt.Sprintf("current:%d", store.CurrentIndex()),
	}
	if tb.Opened() {
		parts = append(parts, "toolbar")
	}
	if tb.Toolbox().Opened() {
		parts = append(parts, "toolbox")
	}
	if tb.BlockSettings().Opened() {
		parts = append(parts, "settings")
	}
	if u.engine.Selection().Active() {
		parts = append(parts, fmt.Sprintf("selected:%d", u.engine.Selection().Count()))
	}
	parts = append(parts, "Esc:quit")
	return strings.Join(parts, "  ")
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		if r == '\n' {
			r = '␤'
		}
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
