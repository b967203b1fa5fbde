// Package lua hosts user scripts that customize editor policy. A
// script may define a global `mergeable(a, b)` function to override
// which adjacent content types merge on Backspace/Delete, and may
// register key bindings with `bind(spec, fn)` that claim key events no
// built-in handler wants.
//
// gopher-lua's LState is not goroutine-safe; the Host serializes all
// access through one mutex. The engine's event surface is
// single-threaded, so contention is not a concern.
package lua

import (
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/input/key"
)

// mergeableFn is the global a script defines to override mergeability.
const mergeableFn = "mergeable"

// binding pairs a key specification with the script function bound to
// it. The spec stays a string; matching re-parses it per event through
// the same path the bind call validated.
type binding struct {
	spec string
	fn   *lua.LFunction
}

// Host runs user scripts in a sandboxed Lua state.
type Host struct {
	mu       sync.Mutex
	state    *lua.LState
	bindings []binding
	closed   bool
}

// NewHost creates a host with a restricted standard library: base,
// string, table, and math, with the code-loading functions removed.
func NewHost() *Host {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	// Scripts configure policy; they do not load further code.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	h := &Host{state: L}
	L.SetGlobal("bind", L.NewFunction(h.bind))
	return h
}

// bind implements the script-facing bind(spec, fn) global. The spec
// uses "Ctrl+S" notation; an unparsable spec raises a script error at
// load time rather than failing silently on the first key press.
func (h *Host) bind(L *lua.LState) int {
	spec := L.CheckString(1)
	fn := L.CheckFunction(2)
	if _, err := key.Parse(spec); err != nil {
		L.ArgError(1, err.Error())
	}
	h.bindings = append(h.bindings, binding{spec: spec, fn: fn})
	return 0
}

// HandleKey runs the first script binding matching the event and
// reports whether the binding consumed it. A binding declines by
// returning false; any other outcome, including no return value,
// counts as consumed.
func (h *Host) HandleKey(ev key.Event) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}

	for _, b := range h.bindings {
		if !ev.Matches(b.spec) {
			continue
		}
		err := h.state.CallByParam(lua.P{
			Fn:      b.fn,
			NRet:    1,
			Protect: true,
		}, lua.LString(ev.String()))
		if err != nil {
			return false
		}
		ret := h.state.Get(-1)
		h.state.Pop(1)
		if decision, ok := ret.(lua.LBool); ok {
			return bool(decision)
		}
		return true
	}
	return false
}

// LoadFile runs a script file in the host's state.
func (h *Host) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading plugin %s: %w", path, err)
	}
	return h.load(path, string(data))
}

// LoadString runs a script in the host's state.
func (h *Host) LoadString(src string) error {
	return h.load("<string>", src)
}

func (h *Host) load(name, src string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return fmt.Errorf("plugin host closed")
	}
	if err := h.state.DoString(src); err != nil {
		return fmt.Errorf("running plugin %s: %w", name, err)
	}
	return nil
}

// MergeHook bridges the script's `mergeable` function into the merge
// policy. The hook defers to the default policy when the script does
// not define the function, when the call fails, or when it returns a
// non-boolean.
func (h *Host) MergeHook() block.MergeHook {
	return func(a, b block.ContentType) (bool, bool) {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.closed {
			return false, false
		}

		fn := h.state.GetGlobal(mergeableFn)
		if fn.Type() != lua.LTFunction {
			return false, false
		}

		err := h.state.CallByParam(lua.P{
			Fn:      fn,
			NRet:    1,
			Protect: true,
		}, lua.LString(a), lua.LString(b))
		if err != nil {
			return false, false
		}

		ret := h.state.Get(-1)
		h.state.Pop(1)
		decision, ok := ret.(lua.LBool)
		if !ok {
			return false, false
		}
		return bool(decision), true
	}
}

// Close releases the Lua state. Hooks issued earlier defer to the
// default policy afterward.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.state.Close()
}
