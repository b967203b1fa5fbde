// Package dispatcher implements the keyboard dispatch state machine:
// it classifies each key event, consults the caret probe, the block
// sequence store, and the mergeability policy, and issues exactly one
// structural action or defers to native platform behavior.
//
// The dispatcher holds no per-event state of its own. Everything it
// branches on is read fresh from its collaborators on each call, since
// the native layer can change between events outside the engine's
// control.
package dispatcher

import (
	"context"
	"runtime"
	"time"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/caret"
	"github.com/dshills/blockedit/internal/engine/sequence"
	"github.com/dshills/blockedit/internal/event"
	"github.com/dshills/blockedit/internal/input/key"
	"github.com/dshills/blockedit/internal/schedule"
)

// ToolbarInterface is the overlay surface the dispatcher coordinates
// with, injected so tests can run against a fake.
type ToolbarInterface interface {
	Close()
	MoveAndOpen(*block.Block)
	Opened() bool
	SomeOverlayOpened() bool
	SomeFlipperFocused() bool
	FlipperOwnsKey(key.Event) bool
	NeedsToolbarClosing(key.Event) bool
	OpenToolbox(*block.Block)
	OpenBlockSettings(*block.Block)
}

// SelectionInterface is the cross-block selection coordinator.
type SelectionInterface interface {
	ToggleBlockSelectedState(forward bool)
	Clear()
	Active() bool
	Count() int
}

// BindingsInterface resolves script-defined key bindings for events no
// built-in handler claims.
type BindingsInterface interface {
	HandleKey(key.Event) bool
}

// Config configures the dispatcher.
type Config struct {
	// TouchPlatform enables the autocapitalization exception: on touch
	// platforms a synthesized Shift+Enter is treated as a block split.
	TouchPlatform bool

	// RTL flips which horizontal arrow counts as "forward" for
	// cross-block selection gestures.
	RTL bool

	// ResyncDelay is how long to wait after an unhandled arrow key
	// before re-synchronizing the store's focus from the native caret,
	// letting the platform's own focus events settle first.
	ResyncDelay time.Duration

	// RecoverFromPanic converts handler panics into error results.
	RecoverFromPanic bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ResyncDelay:      20 * time.Millisecond,
		RecoverFromPanic: true,
	}
}

// Deps bundles the collaborators a dispatcher needs.
type Deps struct {
	Store     *sequence.Store
	Caret     *caret.Service
	Policy    *block.MergePolicy
	Toolbar   ToolbarInterface
	Selection SelectionInterface
	Scheduler *schedule.Scheduler
	Bus       *event.Bus

	// Bindings consults script key bindings for otherwise unclaimed
	// events. May be nil.
	Bindings BindingsInterface

	// Lifetime bounds asynchronous work (block merges). Defaults to
	// context.Background.
	Lifetime context.Context
}

// Dispatcher routes key events to exactly one structural action each.
type Dispatcher struct {
	store     *sequence.Store
	caret     *caret.Service
	policy    *block.MergePolicy
	toolbar   ToolbarInterface
	selection SelectionInterface
	scheduler *schedule.Scheduler
	bus       *event.Bus
	bindings  BindingsInterface
	lifetime  context.Context
	config    Config
}

// New creates a dispatcher with the given configuration and
// collaborators.
func New(config Config, deps Deps) *Dispatcher {
	lifetime := deps.Lifetime
	if lifetime == nil {
		lifetime = context.Background()
	}
	return &Dispatcher{
		store:     deps.Store,
		caret:     deps.Caret,
		policy:    deps.Policy,
		toolbar:   deps.Toolbar,
		selection: deps.Selection,
		scheduler: deps.Scheduler,
		bus:       deps.Bus,
		bindings:  deps.Bindings,
		lifetime:  lifetime,
		config:    config,
	}
}

// Keydown processes one key event and returns how it was resolved.
// Unrecognized keys pass through untouched.
func (d *Dispatcher) Keydown(ev key.Event) (result Result) {
	if d.config.RecoverFromPanic {
		defer func() {
			if r := recover(); r != nil {
				stack := make([]byte, 4096)
				n := runtime.Stack(stack, false)
				result = Errorf("handler panic for %s: %v\n%s", ev.String(), r, string(stack[:n]))
			}
		}()
	}

	d.beforeKeydownProcessing(ev)

	switch {
	case ev.Key == key.KeyBackspace:
		return d.backspace(ev)
	case ev.Key == key.KeyDelete:
		return d.delete(ev)
	case ev.Key == key.KeyEnter:
		return d.enter(ev)
	case ev.Key == key.KeyTab:
		return d.tab(ev)
	case ev.Key == key.KeyRight || ev.Key == key.KeyDown:
		return d.arrowRightAndDown(ev)
	case ev.Key == key.KeyLeft || ev.Key == key.KeyUp:
		return d.arrowLeftAndUp(ev)
	case d.isCommandSlash(ev):
		return d.commandSlash(ev)
	case d.isSlash(ev):
		return d.slash(ev)
	default:
		if d.bindings != nil && d.bindings.HandleKey(ev) {
			return Handled()
		}
		return PassThrough()
	}
}

// beforeKeydownProcessing closes open overlays before a printable key
// types into the document, and clears a stale multi-block selection
// when no modifier is held so typing over a selection behaves like
// text replacement. Non-printable keys carry their own selection
// semantics and are left to their handlers.
func (d *Dispatcher) beforeKeydownProcessing(ev key.Event) {
	if !ev.IsPrintable() || !d.toolbar.NeedsToolbarClosing(ev) {
		return
	}
	d.toolbar.Close()
	if ev.Modifiers == key.ModNone {
		d.selection.Clear()
	}
}

// Keyup notifies the emptiness indicator after any key-up that is not
// part of an active Shift-selection gesture.
func (d *Dispatcher) Keyup(ev key.Event) {
	if ev.Modifiers.HasShift() && d.selection.Active() {
		return
	}
	if d.bus != nil {
		d.bus.Publish(event.TopicEditorContent, d.store.IsEmpty())
	}
}

// isSlash matches the produced character so the shortcut works on any
// keyboard layout.
func (d *Dispatcher) isSlash(ev key.Event) bool {
	return ev.IsRune() && ev.Rune == '/' && !ev.Modifiers.HasCommand()
}

// isCommandSlash matches the physical key code, since the produced
// character for "/" varies by layout once Ctrl is involved.
func (d *Dispatcher) isCommandSlash(ev key.Event) bool {
	return ev.Code == key.CodeSlash && ev.Modifiers.HasCommand()
}

// forwardArrow reports whether the event is the "forward" arrow for
// cross-block selection: Down always, plus Right in left-to-right
// layouts (Left when RTL).
func (d *Dispatcher) forwardArrow(ev key.Event) bool {
	if ev.Key == key.KeyDown {
		return true
	}
	if d.config.RTL {
		return ev.Key == key.KeyLeft
	}
	return ev.Key == key.KeyRight
}

// backwardArrow is the mirror of forwardArrow.
func (d *Dispatcher) backwardArrow(ev key.Event) bool {
	if ev.Key == key.KeyUp {
		return true
	}
	if d.config.RTL {
		return ev.Key == key.KeyRight
	}
	return ev.Key == key.KeyLeft
}
