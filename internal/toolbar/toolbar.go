// Package toolbar models the overlay surfaces anchored to the current
// block (toolbox, inline toolbar, block settings) and the coordinator
// deciding when navigation or typing must dismiss them.
//
// The engine never draws these surfaces; it only tracks their open
// state and whether one of them currently owns keyboard focus cycling.
package toolbar

import (
	"sync"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/input/key"
)

// Flipper is the keyboard focus-cycling behavior of an open overlay.
// While it has focus it claims its reserved navigation keys before the
// engine's own handlers run.
type Flipper struct {
	mu       sync.RWMutex
	focused  bool
	reserved []key.Key
}

// NewFlipper creates a flipper claiming the given keys.
func NewFlipper(reserved ...key.Key) *Flipper {
	if len(reserved) == 0 {
		reserved = []key.Key{key.KeyUp, key.KeyDown, key.KeyLeft, key.KeyRight, key.KeyTab, key.KeyEnter}
	}
	return &Flipper{reserved: reserved}
}

// HasFocus reports whether the flipper currently owns keyboard focus.
func (f *Flipper) HasFocus() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.focused
}

// SetFocus grants or revokes the flipper's keyboard focus.
func (f *Flipper) SetFocus(focused bool) {
	f.mu.Lock()
	f.focused = focused
	f.mu.Unlock()
}

// OwnsKey returns true if the flipper should consume this key event:
// the key is reserved, the flipper has focus, and Shift does not change
// the key's meaning into a selection gesture.
func (f *Flipper) OwnsKey(ev key.Event) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.focused || ev.Modifiers.HasShift() {
		return false
	}
	for _, k := range f.reserved {
		if ev.Key == k {
			return true
		}
	}
	return false
}

// Overlay is one toolbar sub-surface with an open state and a flipper.
type Overlay struct {
	mu      sync.RWMutex
	name    string
	opened  bool
	flipper *Flipper
}

// NewOverlay creates a closed overlay.
func NewOverlay(name string) *Overlay {
	return &Overlay{name: name, flipper: NewFlipper()}
}

// Name returns the overlay's name.
func (o *Overlay) Name() string { return o.name }

// Open marks the overlay open.
func (o *Overlay) Open() {
	o.mu.Lock()
	o.opened = true
	o.mu.Unlock()
}

// Close marks the overlay closed and revokes its flipper focus.
func (o *Overlay) Close() {
	o.mu.Lock()
	o.opened = false
	o.mu.Unlock()
	o.flipper.SetFocus(false)
}

// Opened reports the overlay's open state.
func (o *Overlay) Opened() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.opened
}

// Flipper returns the overlay's focus-cycling control.
func (o *Overlay) Flipper() *Flipper { return o.flipper }

// Toolbar is the block-anchored toolbar with its sub-overlays.
type Toolbar struct {
	mu     sync.RWMutex
	opened bool
	anchor *block.Block

	toolbox       *Overlay
	inline        *Overlay
	blockSettings *Overlay
}

// New creates a closed toolbar.
func New() *Toolbar {
	return &Toolbar{
		toolbox:       NewOverlay("toolbox"),
		inline:        NewOverlay("inline"),
		blockSettings: NewOverlay("blockSettings"),
	}
}

// Toolbox returns the content-insertion overlay.
func (t *Toolbar) Toolbox() *Overlay { return t.toolbox }

// InlineToolbar returns the inline formatting overlay.
func (t *Toolbar) InlineToolbar() *Overlay { return t.inline }

// BlockSettings returns the block-settings overlay.
func (t *Toolbar) BlockSettings() *Overlay { return t.blockSettings }

// Opened reports whether the toolbar itself is open.
func (t *Toolbar) Opened() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.opened
}

// Anchor returns the block the toolbar is anchored to, or nil.
func (t *Toolbar) Anchor() *block.Block {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.anchor
}

// MoveAndOpen repositions the toolbar over the given block and opens
// it. A nil block keeps the previous anchor.
func (t *Toolbar) MoveAndOpen(b *block.Block) {
	t.mu.Lock()
	if b != nil {
		t.anchor = b
	}
	t.opened = true
	t.mu.Unlock()
}

// Close closes the toolbar and every sub-overlay.
func (t *Toolbar) Close() {
	t.mu.Lock()
	t.opened = false
	t.mu.Unlock()
	t.toolbox.Close()
	t.inline.Close()
	t.blockSettings.Close()
}

// OpenToolbox opens the content-insertion overlay, opening the
// enclosing toolbar over the anchor block first if it is closed.
func (t *Toolbar) OpenToolbox(anchor *block.Block) {
	if !t.Opened() {
		t.MoveAndOpen(anchor)
	}
	t.toolbox.Open()
}

// OpenBlockSettings opens the block-settings overlay, opening the
// enclosing toolbar over the anchor block first if it is closed.
func (t *Toolbar) OpenBlockSettings(anchor *block.Block) {
	if !t.Opened() {
		t.MoveAndOpen(anchor)
	}
	t.blockSettings.Open()
}

// SomeOverlayOpened reports whether any sub-overlay is open.
func (t *Toolbar) SomeOverlayOpened() bool {
	return t.toolbox.Opened() || t.inline.Opened() || t.blockSettings.Opened()
}

// SomeFlipperFocused reports whether any open overlay's flipper owns
// keyboard focus.
func (t *Toolbar) SomeFlipperFocused() bool {
	for _, o := range []*Overlay{t.toolbox, t.inline, t.blockSettings} {
		if o.Opened() && o.flipper.HasFocus() {
			return true
		}
	}
	return false
}

// FlipperOwnsKey returns true if some focused overlay flipper claims
// this key event.
func (t *Toolbar) FlipperOwnsKey(ev key.Event) bool {
	for _, o := range []*Overlay{t.toolbox, t.inline, t.blockSettings} {
		if o.Opened() && o.flipper.OwnsKey(ev) {
			return true
		}
	}
	return false
}

// NeedsToolbarClosing decides whether a key event should dismiss the
// open toolbar. It returns false — keep the toolbar open — when Shift
// is held, when Tab is cycling an open overlay's own items, or when
// Enter targets an active overlay item; true otherwise.
func (t *Toolbar) NeedsToolbarClosing(ev key.Event) bool {
	if ev.Modifiers.HasShift() {
		return false
	}
	if ev.Key == key.KeyTab && t.SomeOverlayOpened() {
		return false
	}
	if ev.Key == key.KeyEnter && t.SomeFlipperFocused() {
		return false
	}
	return true
}
