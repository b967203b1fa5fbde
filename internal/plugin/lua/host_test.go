package lua_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/input/key"
	"github.com/dshills/blockedit/internal/plugin/lua"
)

func TestMergeHookOverridesDecision(t *testing.T) {
	host := lua.NewHost()
	defer host.Close()

	script := `
function mergeable(a, b)
  if a == "quote" and b == "quote" then
    return false
  end
  return true
end
`
	if err := host.LoadString(script); err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	hook := host.MergeHook()

	decision, ok := hook(block.TypeQuote, block.TypeQuote)
	if !ok || decision {
		t.Errorf("quote/quote = (%v, %v), want vetoed", decision, ok)
	}
	decision, ok = hook(block.TypeParagraph, block.TypeImage)
	if !ok || !decision {
		t.Errorf("paragraph/image = (%v, %v), want allowed", decision, ok)
	}
}

func TestMergeHookDefersWithoutFunction(t *testing.T) {
	host := lua.NewHost()
	defer host.Close()

	if _, ok := host.MergeHook()(block.TypeParagraph, block.TypeParagraph); ok {
		t.Error("undefined mergeable should defer to the default policy")
	}
}

func TestMergeHookDefersOnNonBoolean(t *testing.T) {
	host := lua.NewHost()
	defer host.Close()

	if err := host.LoadString(`function mergeable(a, b) return "yes" end`); err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if _, ok := host.MergeHook()(block.TypeParagraph, block.TypeParagraph); ok {
		t.Error("non-boolean return should defer to the default policy")
	}
}

func TestMergeHookFeedsPolicy(t *testing.T) {
	host := lua.NewHost()
	defer host.Close()
	if err := host.LoadString(`function mergeable(a, b) return false end`); err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	reg := block.NewRegistry()
	policy := block.NewMergePolicy(reg)
	policy.SetHook(host.MergeHook())

	a := block.New(block.TypeParagraph, reg.Traits(block.TypeParagraph))
	b := block.New(block.TypeParagraph, reg.Traits(block.TypeParagraph))
	if policy.AreBlocksMergeable(a, b) {
		t.Error("script veto should reach the policy")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hooks.lua")
	if err := os.WriteFile(path, []byte(`function mergeable(a, b) return true end`), 0o644); err != nil {
		t.Fatal(err)
	}

	host := lua.NewHost()
	defer host.Close()
	if err := host.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if decision, ok := host.MergeHook()(block.TypeCode, block.TypeHeading); !ok || !decision {
		t.Error("file-loaded hook should apply")
	}
}

func TestLoadStringReportsErrors(t *testing.T) {
	host := lua.NewHost()
	defer host.Close()
	if err := host.LoadString("this is not lua"); err == nil {
		t.Error("want syntax error")
	}
}

func TestCodeLoadingDisabled(t *testing.T) {
	host := lua.NewHost()
	defer host.Close()
	if err := host.LoadString(`if load ~= nil then error("load available") end`); err != nil {
		t.Errorf("load should be removed: %v", err)
	}
}

func TestBindConsumesMatchingKey(t *testing.T) {
	host := lua.NewHost()
	defer host.Close()
	if err := host.LoadString(`bind("Ctrl+d", function(k) return true end)`); err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	if !host.HandleKey(key.NewRuneEvent('d', key.ModCtrl)) {
		t.Error("the bound chord should be consumed")
	}
	if host.HandleKey(key.NewRuneEvent('d', key.ModNone)) {
		t.Error("a plain d is not the bound chord")
	}
}

func TestBindSpecialKeySpec(t *testing.T) {
	host := lua.NewHost()
	defer host.Close()
	if err := host.LoadString(`bind("Shift+Home", function() end)`); err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	// No return value counts as consumed.
	if !host.HandleKey(key.NewSpecialEvent(key.KeyHome, key.ModShift)) {
		t.Error("Shift+Home should match the binding")
	}
	if host.HandleKey(key.NewSpecialEvent(key.KeyHome, key.ModNone)) {
		t.Error("unmodified Home must not match")
	}
}

func TestBindDeclinesOnFalseReturn(t *testing.T) {
	host := lua.NewHost()
	defer host.Close()
	if err := host.LoadString(`bind("Ctrl+d", function() return false end)`); err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	if host.HandleKey(key.NewRuneEvent('d', key.ModCtrl)) {
		t.Error("a binding returning false declines the key")
	}
}

func TestBindRejectsInvalidSpec(t *testing.T) {
	host := lua.NewHost()
	defer host.Close()
	if err := host.LoadString(`bind("NoSuchKey", function() end)`); err == nil {
		t.Error("want a load error for an unparsable key spec")
	}
}

func TestHandleKeyAfterClose(t *testing.T) {
	host := lua.NewHost()
	if err := host.LoadString(`bind("Ctrl+d", function() return true end)`); err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	host.Close()

	if host.HandleKey(key.NewRuneEvent('d', key.ModCtrl)) {
		t.Error("a closed host must not consume keys")
	}
}
