package block

import (
	"fmt"
	"sync"
)

// ContentType identifies the kind of content a block holds.
type ContentType string

// Built-in content types.
const (
	TypeParagraph ContentType = "paragraph"
	TypeHeading   ContentType = "heading"
	TypeCode      ContentType = "code"
	TypeQuote     ContentType = "quote"
	TypeImage     ContentType = "image"
)

// Traits describes the editing behavior of a content type.
type Traits struct {
	// TextContainer indicates the type holds plain concatenable text.
	// Only text containers participate in block merging.
	TextContainer bool

	// Media indicates the type embeds non-text media. Media blocks
	// are excluded from certain caret shortcuts (e.g. Enter-at-start
	// block insertion).
	Media bool

	// AcceptsLineBreaks indicates the type handles Enter internally
	// as a hard line break (code-like content) instead of splitting.
	AcceptsLineBreaks bool

	// InputNames labels the editable inputs a new block of this type
	// starts with, first to last. A type has at least one input
	// unless it is pure media.
	InputNames []string
}

// Registry maps content types to their traits.
type Registry struct {
	mu     sync.RWMutex
	traits map[ContentType]Traits
}

// NewRegistry creates a registry pre-populated with the built-in types.
func NewRegistry() *Registry {
	r := &Registry{traits: make(map[ContentType]Traits)}
	r.Register(TypeParagraph, Traits{TextContainer: true, InputNames: []string{"text"}})
	r.Register(TypeHeading, Traits{TextContainer: true, InputNames: []string{"text"}})
	r.Register(TypeCode, Traits{TextContainer: true, AcceptsLineBreaks: true, InputNames: []string{"code"}})
	r.Register(TypeQuote, Traits{TextContainer: true, InputNames: []string{"text", "caption"}})
	r.Register(TypeImage, Traits{Media: true, InputNames: []string{"caption"}})
	return r
}

// Register adds or replaces the traits for a content type.
func (r *Registry) Register(typ ContentType, traits Traits) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.traits[typ] = traits
}

// Traits returns the traits for a content type. Unknown types report
// zero traits (not a text container, not media).
func (r *Registry) Traits(typ ContentType) Traits {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.traits[typ]
}

// Known returns true if the type has been registered.
func (r *Registry) Known(typ ContentType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.traits[typ]
	return ok
}

// Types returns the registered type names.
func (r *Registry) Types() []ContentType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]ContentType, 0, len(r.traits))
	for typ := range r.traits {
		types = append(types, typ)
	}
	return types
}

// MergePolicy decides whether two adjacent blocks may be merged into
// one. The default policy requires both blocks to be text containers
// and neither to embed media; a hook (e.g. from a plugin) may veto or
// allow pairs the default would decide differently.
type MergePolicy struct {
	registry *Registry
	hook     MergeHook
}

// MergeHook overrides mergeability for a pair of content types.
// It returns (decision, true) to override or (_, false) to defer to
// the default policy.
type MergeHook func(a, b ContentType) (bool, bool)

// NewMergePolicy creates a policy over the given registry.
func NewMergePolicy(registry *Registry) *MergePolicy {
	return &MergePolicy{registry: registry}
}

// SetHook installs an override hook. A nil hook restores the default.
func (p *MergePolicy) SetHook(hook MergeHook) {
	p.hook = hook
}

// AreBlocksMergeable returns true if source's text content may be
// appended to target. The decision is symmetric in structure: both
// backward (Backspace) and forward (Delete) merge paths consult the
// same predicate, so A<-B and B<-A agree for same-typed pairs.
func (p *MergePolicy) AreBlocksMergeable(target, source *Block) bool {
	if target == nil || source == nil {
		return false
	}
	if p.hook != nil {
		if decision, ok := p.hook(target.Type(), source.Type()); ok {
			return decision
		}
	}
	tt := p.registry.Traits(target.Type())
	st := p.registry.Traits(source.Type())
	return tt.TextContainer && st.TextContainer && !tt.Media && !st.Media
}

// String implements fmt.Stringer.
func (t ContentType) String() string { return string(t) }

// Validate returns an error for an empty content type name.
func (t ContentType) Validate() error {
	if t == "" {
		return fmt.Errorf("empty content type")
	}
	return nil
}
