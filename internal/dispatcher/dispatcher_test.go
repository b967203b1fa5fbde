package dispatcher_test

import (
	"testing"
	"time"

	"github.com/dshills/blockedit/internal/dispatcher"
	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/caret"
	"github.com/dshills/blockedit/internal/engine/sequence"
	"github.com/dshills/blockedit/internal/event"
	"github.com/dshills/blockedit/internal/input/key"
	"github.com/dshills/blockedit/internal/schedule"
	"github.com/dshills/blockedit/internal/selection"
	"github.com/dshills/blockedit/internal/toolbar"
)

// editor bundles a dispatcher with real collaborators for tests.
type editor struct {
	store     *sequence.Store
	caret     *caret.Service
	toolbar   *toolbar.Toolbar
	selection *selection.Coordinator
	clock     *schedule.FakeClock
	bus       *event.Bus
	dispatch  *dispatcher.Dispatcher
}

func newEditor(t *testing.T, cfg dispatcher.Config, texts ...string) *editor {
	t.Helper()

	reg := block.NewRegistry()
	bus := event.NewBus()
	store := sequence.NewStore(reg, bus)
	if len(texts) > 0 {
		store.CurrentBlock().FirstInput().SetText(texts[0])
		for _, text := range texts[1:] {
			b := store.InsertDefaultBlockAtIndex(store.Len(), false)
			b.FirstInput().SetText(text)
		}
	}
	store.SetCurrentIndex(0)

	svc := caret.NewService(store)
	tb := toolbar.New()
	sel := selection.NewCoordinator(store)
	clock := schedule.NewFakeClock()
	sched := schedule.NewScheduler(clock)
	t.Cleanup(sched.Close)

	d := dispatcher.New(cfg, dispatcher.Deps{
		Store:     store,
		Caret:     svc,
		Policy:    block.NewMergePolicy(reg),
		Toolbar:   tb,
		Selection: sel,
		Scheduler: sched,
		Bus:       bus,
	})

	return &editor{
		store:     store,
		caret:     svc,
		toolbar:   tb,
		selection: sel,
		clock:     clock,
		bus:       bus,
		dispatch:  d,
	}
}

func (e *editor) contents() []string {
	blocks := e.store.Blocks()
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Text()
	}
	return out
}

func backspace() key.Event  { return key.NewSpecialEvent(key.KeyBackspace, key.ModNone) }
func forwardDel() key.Event { return key.NewSpecialEvent(key.KeyDelete, key.ModNone) }
func enter() key.Event      { return key.NewSpecialEvent(key.KeyEnter, key.ModNone) }

// --- Backspace ---

func TestBackspaceMergesAdjacentBlocks(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab", "cd")
	e.caret.SetToBlock(e.store.Block(1), caret.PositionStart)

	res := e.dispatch.Keydown(backspace())

	if !res.IsHandled() || !res.PreventDefault {
		t.Fatalf("result = %+v, want handled", res)
	}
	got := e.contents()
	if len(got) != 1 || got[0] != "abcd" {
		t.Errorf("contents = %v, want [abcd]", got)
	}
	// Caret lands at the pre-merge end of the first block's text.
	_, in, offset, ok := e.caret.Focused()
	if !ok || in != e.store.Block(0).LastInput() || offset != 2 {
		t.Errorf("caret = input %v offset %d, want offset 2 in merged block", in, offset)
	}
}

func TestBackspaceRefusedMergeOnlyMovesCaret(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "text")
	reg := e.store.Registry()
	img := block.New(block.TypeImage, reg.Traits(block.TypeImage))
	e.store.InsertBlockAtIndex(img, 0, false)

	para := e.store.Block(1)
	e.caret.SetToBlock(para, caret.PositionStart)

	res := e.dispatch.Keydown(backspace())

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	if e.store.Len() != 2 {
		t.Errorf("Len = %d, want both blocks intact", e.store.Len())
	}
	if para.Text() != "text" {
		t.Errorf("block text = %q, want unchanged", para.Text())
	}
	if e.store.CurrentBlock() != img {
		t.Error("caret should have moved to the previous block")
	}
}

func TestBackspaceRemovesEmptyPreviousBlock(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "", "xyz")
	e.caret.SetToBlock(e.store.Block(1), caret.PositionStart)

	res := e.dispatch.Keydown(backspace())

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	got := e.contents()
	if len(got) != 1 || got[0] != "xyz" {
		t.Errorf("contents = %v, want [xyz]", got)
	}
}

func TestBackspaceRemovesEmptyCurrentBlock(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc", "")
	e.caret.SetToBlock(e.store.Block(1), caret.PositionStart)

	res := e.dispatch.Keydown(backspace())

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	if e.store.Len() != 1 {
		t.Fatalf("Len = %d, want 1", e.store.Len())
	}
	prev := e.store.Block(0)
	if prev.Text() != "abc" {
		t.Errorf("previous block = %q, want unchanged", prev.Text())
	}
	_, in, offset, _ := e.caret.Focused()
	if in != prev.LastInput() || offset != in.Len() {
		t.Error("caret should sit at end of the previous block")
	}
}

func TestBackspaceAtDocumentStartIsIdempotent(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionStart)

	for i := 0; i < 5; i++ {
		res := e.dispatch.Keydown(backspace())
		if res.Status != dispatcher.StatusNoOp {
			t.Fatalf("press %d: status = %v, want no-op", i, res.Status)
		}
	}
	if e.store.Len() != 1 || e.store.Block(0).Text() != "abc" {
		t.Error("document start Backspace must never change structure")
	}
}

func TestBackspacePassesThroughMidText(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc")
	e.caret.SetToInput(e.store.Block(0), e.store.Block(0).FirstInput(), 2)

	res := e.dispatch.Keydown(backspace())

	if res.Status != dispatcher.StatusPassThrough || res.PreventDefault {
		t.Errorf("result = %+v, want pass-through", res)
	}
}

func TestBackspacePassesThroughNonCollapsedSelection(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc", "def")
	e.caret.SetToBlock(e.store.Block(1), caret.PositionStart)
	e.caret.SetSelection(0, 2)

	res := e.dispatch.Keydown(backspace())

	if res.Status != dispatcher.StatusPassThrough {
		t.Errorf("result = %+v, want pass-through for native deletion", res)
	}
}

func TestBackspaceInnerInputNavigates(t *testing.T) {
	reg := block.NewRegistry()
	e := newEditor(t, dispatcher.DefaultConfig())
	q := block.New(block.TypeQuote, reg.Traits(block.TypeQuote))
	q.Input(0).SetText("wisdom")
	e.store.InsertBlockAtIndex(q, 0, true)
	e.caret.SetToInput(q, q.Input(1), 0)

	res := e.dispatch.Keydown(backspace())

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	if e.store.Len() != 2 {
		t.Error("inner-input Backspace must not change structure")
	}
	if in := e.caret.FocusedInput(); in != q.Input(0) {
		t.Error("caret should move to the previous input of the same block")
	}
}

func TestBackspaceQuoteRoundTripAfterSplit(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig())
	reg := e.store.Registry()
	q := block.New(block.TypeQuote, reg.Traits(block.TypeQuote))
	q.Input(0).SetText("headtail")
	q.Input(1).SetText("caption")
	e.store.InsertBlockAtIndex(q, 0, true)
	e.caret.SetToInput(q, q.Input(0), 4)

	e.dispatch.Keydown(enter())
	res := e.dispatch.Keydown(backspace())

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	if q.Input(0).Text() != "headtail" || q.Input(1).Text() != "caption" {
		t.Errorf("quote = %q/%q, want the original halves rejoined",
			q.Input(0).Text(), q.Input(1).Text())
	}
	// Caret sits at the join point in the body text, not the caption.
	_, in, offset, ok := e.caret.Focused()
	if !ok || in != q.Input(0) || offset != 4 {
		t.Errorf("caret = input %v offset %d, want body offset 4", in, offset)
	}
}

// --- Delete ---

func TestDeleteMergesForward(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab", "cd")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)

	res := e.dispatch.Keydown(forwardDel())

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	got := e.contents()
	if len(got) != 1 || got[0] != "abcd" {
		t.Errorf("contents = %v, want [abcd]", got)
	}
	_, _, offset, _ := e.caret.Focused()
	if offset != 2 {
		t.Errorf("caret offset = %d, want pre-merge end 2", offset)
	}
}

func TestDeleteRemovesEmptyNextBlock(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc", "")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)

	res := e.dispatch.Keydown(forwardDel())

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	got := e.contents()
	if len(got) != 1 || got[0] != "abc" {
		t.Errorf("contents = %v, want [abc]", got)
	}
}

func TestDeleteAtDocumentEndAbsorbs(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)

	res := e.dispatch.Keydown(forwardDel())

	if res.Status != dispatcher.StatusNoOp {
		t.Errorf("status = %v, want no-op", res.Status)
	}
}

func TestDeletePassesThroughMidText(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc")
	e.caret.SetToInput(e.store.Block(0), e.store.Block(0).FirstInput(), 1)

	res := e.dispatch.Keydown(forwardDel())

	if res.Status != dispatcher.StatusPassThrough {
		t.Errorf("result = %+v, want pass-through", res)
	}
}

func TestDeleteRefusedMergeMovesCaretForward(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "text")
	reg := e.store.Registry()
	img := block.New(block.TypeImage, reg.Traits(block.TypeImage))
	e.store.InsertBlockAtIndex(img, 1, false)
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)

	res := e.dispatch.Keydown(forwardDel())

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	if e.store.Len() != 2 {
		t.Error("refused merge must keep both blocks")
	}
	if e.store.CurrentBlock() != img {
		t.Error("caret should move to start of the next block")
	}
}

// --- Enter ---

func TestEnterSplitsMidText(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abcd")
	b := e.store.Block(0)
	e.caret.SetToInput(b, b.FirstInput(), 2)

	res := e.dispatch.Keydown(enter())

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	got := e.contents()
	if len(got) != 2 || got[0] != "ab" || got[1] != "cd" {
		t.Errorf("contents = %v, want [ab cd]", got)
	}
	if e.store.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex = %d, want 1", e.store.CurrentIndex())
	}
	if !e.toolbar.Opened() {
		t.Error("toolbar should reopen over the focused block")
	}
}

func TestEnterAtBlockEndInsertsAfter(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)

	res := e.dispatch.Keydown(enter())

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	got := e.contents()
	if len(got) != 2 || got[0] != "abc" || got[1] != "" {
		t.Errorf("contents = %v, want [abc \"\"]", got)
	}
	if e.store.CurrentIndex() != 1 {
		t.Error("focus should move to the new block")
	}
}

func TestEnterAtBlockStartInsertsBefore(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc")
	b := e.store.Block(0)
	e.caret.SetToBlock(b, caret.PositionStart)

	res := e.dispatch.Keydown(enter())

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	got := e.contents()
	if len(got) != 2 || got[0] != "" || got[1] != "abc" {
		t.Errorf("contents = %v, want [\"\" abc]", got)
	}
	// Focus stays on the original block.
	if e.store.CurrentBlock() != b {
		t.Error("focus must not move to the block inserted before")
	}
}

func TestEnterSplitRoundTrip(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "hello world")
	first := e.store.Block(0)
	e.caret.SetToInput(first, first.FirstInput(), 5)

	e.dispatch.Keydown(enter())

	// Merging back restores the original content exactly.
	e.caret.SetToBlock(e.store.Block(1), caret.PositionStart)
	e.dispatch.Keydown(backspace())

	got := e.contents()
	if len(got) != 1 || got[0] != "hello world" {
		t.Errorf("round trip = %v, want [hello world]", got)
	}
}

func TestEnterOnLineBreakBlockPassesThrough(t *testing.T) {
	reg := block.NewRegistry()
	e := newEditor(t, dispatcher.DefaultConfig())
	code := block.New(block.TypeCode, reg.Traits(block.TypeCode))
	code.FirstInput().SetText("func main() {")
	e.store.InsertBlockAtIndex(code, 0, true)
	e.caret.SetToBlock(code, caret.PositionEnd)

	res := e.dispatch.Keydown(enter())

	if res.Status != dispatcher.StatusPassThrough {
		t.Errorf("result = %+v, want pass-through for native line break", res)
	}
}

func TestEnterWithFlipperFocusPassesThrough(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)
	e.toolbar.Toolbox().Open()
	e.toolbar.Toolbox().Flipper().SetFocus(true)

	res := e.dispatch.Keydown(enter())

	if res.Status != dispatcher.StatusPassThrough {
		t.Errorf("result = %+v, want deferral to the flipper", res)
	}
	if e.store.Len() != 1 {
		t.Error("Enter owned by the flipper must not split")
	}
}

func TestEnterWithFlipperFocusKeepsSelection(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab", "cd")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)
	e.dispatch.Keydown(key.NewSpecialEvent(key.KeyDown, key.ModShift))
	if !e.selection.Active() {
		t.Fatal("setup: selection should be active")
	}
	e.toolbar.OpenToolbox(e.store.Block(0))
	e.toolbar.Toolbox().Flipper().SetFocus(true)

	res := e.dispatch.Keydown(enter())

	if res.Status != dispatcher.StatusPassThrough {
		t.Fatalf("result = %+v, want deferral to the flipper", res)
	}
	if !e.selection.Active() {
		t.Error("an Enter owned by the flipper must not drop the block selection")
	}
}

func TestShiftEnterPassesThroughOnDesktop(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abcd")
	b := e.store.Block(0)
	e.caret.SetToInput(b, b.FirstInput(), 2)

	res := e.dispatch.Keydown(key.NewSpecialEvent(key.KeyEnter, key.ModShift))

	if res.Status != dispatcher.StatusPassThrough {
		t.Errorf("result = %+v, want native line break", res)
	}
}

func TestShiftEnterSplitsOnTouchPlatform(t *testing.T) {
	cfg := dispatcher.DefaultConfig()
	cfg.TouchPlatform = true
	e := newEditor(t, cfg, "abcd")
	b := e.store.Block(0)
	e.caret.SetToInput(b, b.FirstInput(), 2)

	res := e.dispatch.Keydown(key.NewSpecialEvent(key.KeyEnter, key.ModShift))

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want split despite synthesized Shift", res)
	}
	got := e.contents()
	if len(got) != 2 || got[0] != "ab" || got[1] != "cd" {
		t.Errorf("contents = %v, want [ab cd]", got)
	}
}

// --- Tab ---

func TestTabNavigatesAcrossBlocks(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab", "cd")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)

	res := e.dispatch.Keydown(key.NewSpecialEvent(key.KeyTab, key.ModNone))

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	if e.store.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex = %d, want 1", e.store.CurrentIndex())
	}
}

func TestShiftTabNavigatesBackward(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab", "cd")
	e.caret.SetToBlock(e.store.Block(1), caret.PositionStart)

	res := e.dispatch.Keydown(key.NewSpecialEvent(key.KeyTab, key.ModShift))

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	if e.store.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex = %d, want 0", e.store.CurrentIndex())
	}
}

func TestTabWithOpenOverlayNeverMovesCurrent(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab", "cd")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)
	e.toolbar.Toolbox().Open()

	res := e.dispatch.Keydown(key.NewSpecialEvent(key.KeyTab, key.ModNone))

	if res.Status != dispatcher.StatusPassThrough {
		t.Errorf("result = %+v, want deferral to overlay cycling", res)
	}
	if e.store.CurrentIndex() != 0 {
		t.Error("overlay-owned Tab must not move the current index")
	}
}

func TestTabAtBoundaryPassesThrough(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)

	res := e.dispatch.Keydown(key.NewSpecialEvent(key.KeyTab, key.ModNone))

	if res.Status != dispatcher.StatusPassThrough {
		t.Errorf("result = %+v, want native Tab at sequence end", res)
	}
}

// --- Arrows ---

func TestArrowClosesToolbarAndNavigates(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab", "cd")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)
	e.toolbar.MoveAndOpen(e.store.Block(0))

	res := e.dispatch.Keydown(key.NewSpecialEvent(key.KeyDown, key.ModNone))

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	if e.toolbar.Opened() {
		t.Error("cursor movement should close the toolbar")
	}
	if e.store.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex = %d, want 1", e.store.CurrentIndex())
	}
}

func TestArrowDeferredToFlipper(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab", "cd")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)
	e.toolbar.MoveAndOpen(e.store.Block(0))
	e.toolbar.Toolbox().Open()
	e.toolbar.Toolbox().Flipper().SetFocus(true)

	res := e.dispatch.Keydown(key.NewSpecialEvent(key.KeyDown, key.ModNone))

	if res.Status != dispatcher.StatusPassThrough {
		t.Errorf("result = %+v, want deferral", res)
	}
	if !e.toolbar.Opened() {
		t.Error("deferred arrow must not close the toolbar")
	}
	if e.store.CurrentIndex() != 0 {
		t.Error("deferred arrow must not move the caret")
	}
}

func TestShiftDownExtendsCrossBlockSelection(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab", "cd")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)

	res := e.dispatch.Keydown(key.NewSpecialEvent(key.KeyDown, key.ModShift))

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	if !e.selection.Active() {
		t.Error("Shift+Down at input end should start a cross-block selection")
	}
	// No caret movement happens for the selection gesture.
	if e.store.CurrentIndex() != 0 {
		t.Error("selection gesture must not move the caret")
	}
}

func TestShiftRightMidTextPassesToNative(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abcd")
	b := e.store.Block(0)
	e.caret.SetToInput(b, b.FirstInput(), 1)

	e.dispatch.Keydown(key.NewSpecialEvent(key.KeyRight, key.ModShift))

	if e.selection.Active() {
		t.Error("mid-text Shift+Right is a character selection, not a block gesture")
	}
}

func TestArrowClearsStaleSelection(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab", "cd")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)
	e.dispatch.Keydown(key.NewSpecialEvent(key.KeyDown, key.ModShift))
	if !e.selection.Active() {
		t.Fatal("selection should be active")
	}

	e.dispatch.Keydown(key.NewSpecialEvent(key.KeyDown, key.ModNone))

	if e.selection.Active() {
		t.Error("a plain arrow press should clear the stale selection")
	}
}

func TestArrowAtBoundarySchedulesResync(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab", "cd")
	e.caret.SetToBlock(e.store.Block(1), caret.PositionEnd)

	res := e.dispatch.Keydown(key.NewSpecialEvent(key.KeyDown, key.ModNone))
	if res.Status != dispatcher.StatusPassThrough {
		t.Fatalf("result = %+v, want pass-through at boundary", res)
	}

	// Simulate the native layer moving focus before the resync runs.
	other := e.store.Block(0)
	e.caret.SetToInput(other, other.FirstInput(), 0)
	e.store.SetCurrentIndex(1) // store is now stale

	e.clock.Advance(time.Second)

	if e.store.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex after resync = %d, want 0", e.store.CurrentIndex())
	}
}

func TestResyncSkipsWhenFocusLeftEditor(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)

	e.dispatch.Keydown(key.NewSpecialEvent(key.KeyDown, key.ModNone))

	// Focus leaves the editor entirely during the resync window.
	e.caret.Blur()
	e.clock.Advance(time.Second)

	if e.store.CurrentBlock() != nil {
		t.Error("resync after blur must skip silently")
	}
}

// --- Slash ---

func TestSlashOnEmptyBlockOpensToolbox(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionStart)

	res := e.dispatch.Keydown(key.NewRuneEvent('/', key.ModNone).WithCode(key.CodeSlash))

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	if got := e.store.Block(0).FirstInput().Text(); got != "/" {
		t.Errorf("input text = %q, want manual slash insertion", got)
	}
	if !e.toolbar.Opened() || !e.toolbar.Toolbox().Opened() {
		t.Error("slash should open the toolbar and toolbox")
	}
}

func TestSlashOnNonEmptyBlockPassesThrough(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)

	res := e.dispatch.Keydown(key.NewRuneEvent('/', key.ModNone).WithCode(key.CodeSlash))

	if res.Status != dispatcher.StatusPassThrough {
		t.Errorf("result = %+v, want native insertion", res)
	}
	if e.toolbar.Toolbox().Opened() {
		t.Error("toolbox must stay closed for non-empty blocks")
	}
}

func TestCommandSlashOpensBlockSettings(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)

	// Ctrl suppressed the character; only the physical code matches.
	ev := key.NewEvent(key.KeyRune, 0, key.ModCtrl).WithCode(key.CodeSlash)
	res := e.dispatch.Keydown(ev)

	if !res.IsHandled() {
		t.Fatalf("result = %+v, want handled", res)
	}
	if !e.toolbar.BlockSettings().Opened() {
		t.Error("Ctrl+Slash should open block settings")
	}
}

func TestCommandSlashIgnoredWithMultiSelection(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab", "cd")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)
	e.dispatch.Keydown(key.NewSpecialEvent(key.KeyDown, key.ModShift))
	e.dispatch.Keydown(key.NewSpecialEvent(key.KeyDown, key.ModShift))
	if e.selection.Count() < 2 {
		t.Fatal("setup: want multi-block selection")
	}

	ev := key.NewEvent(key.KeyRune, 0, key.ModCtrl).WithCode(key.CodeSlash)
	res := e.dispatch.Keydown(ev)

	if res.Status != dispatcher.StatusNoOp {
		t.Errorf("status = %v, want suppressed no-op", res.Status)
	}
	if e.toolbar.BlockSettings().Opened() {
		t.Error("block settings must not open over a multi-selection")
	}
}

// --- Pre-dispatch and key-up ---

func TestPrintableKeyClosesToolbar(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)
	e.toolbar.MoveAndOpen(e.store.Block(0))

	e.dispatch.Keydown(key.NewRuneEvent('x', key.ModNone))

	if e.toolbar.Opened() {
		t.Error("typing should close the toolbar")
	}
}

func TestUnmodifiedKeyClearsSelection(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab", "cd")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)
	e.dispatch.Keydown(key.NewSpecialEvent(key.KeyDown, key.ModShift))

	e.dispatch.Keydown(key.NewRuneEvent('x', key.ModNone))

	if e.selection.Active() {
		t.Error("typing without modifiers should clear the block selection")
	}
}

func TestKeyupNotifiesEmptiness(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "")

	var payloads []any
	e.bus.Subscribe(event.TopicEditorContent, func(_ event.Topic, payload any) {
		payloads = append(payloads, payload)
	})

	e.dispatch.Keyup(key.NewRuneEvent('x', key.ModNone))

	if len(payloads) != 1 {
		t.Fatalf("notifications = %d, want 1", len(payloads))
	}
	if empty, _ := payloads[0].(bool); !empty {
		t.Error("payload should report the editor as empty")
	}
}

func TestKeyupSkippedDuringShiftSelection(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "ab", "cd")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)
	e.dispatch.Keydown(key.NewSpecialEvent(key.KeyDown, key.ModShift))

	notified := false
	e.bus.Subscribe(event.TopicEditorContent, func(event.Topic, any) { notified = true })

	e.dispatch.Keyup(key.NewSpecialEvent(key.KeyDown, key.ModShift))

	if notified {
		t.Error("key-up during a Shift-selection gesture must not notify")
	}
}

func TestUnrecognizedKeyPassesThrough(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)

	res := e.dispatch.Keydown(key.NewSpecialEvent(key.KeyHome, key.ModNone))

	if res.Status != dispatcher.StatusPassThrough || res.PreventDefault {
		t.Errorf("result = %+v, want untouched pass-through", res)
	}
}

// --- Script bindings ---

type recordingBindings struct {
	calls []key.Event
}

func (r *recordingBindings) HandleKey(ev key.Event) bool {
	r.calls = append(r.calls, ev)
	return true
}

func TestBindingsClaimUnhandledKeys(t *testing.T) {
	e := newEditor(t, dispatcher.DefaultConfig(), "abc")
	e.caret.SetToBlock(e.store.Block(0), caret.PositionEnd)

	bindings := &recordingBindings{}
	d := dispatcher.New(dispatcher.DefaultConfig(), dispatcher.Deps{
		Store:     e.store,
		Caret:     e.caret,
		Policy:    block.NewMergePolicy(e.store.Registry()),
		Toolbar:   e.toolbar,
		Selection: e.selection,
		Bus:       e.bus,
		Bindings:  bindings,
	})

	res := d.Keydown(key.NewRuneEvent('k', key.ModCtrl))
	if !res.IsHandled() || !res.PreventDefault {
		t.Fatalf("result = %+v, want the binding to consume the key", res)
	}
	if len(bindings.calls) != 1 {
		t.Fatalf("binding calls = %d, want 1", len(bindings.calls))
	}

	// Built-in handlers always win over bindings.
	if res := d.Keydown(enter()); !res.IsHandled() {
		t.Fatalf("result = %+v, want the Enter handler", res)
	}
	if len(bindings.calls) != 1 {
		t.Error("a claimed key must never reach the bindings")
	}
}
