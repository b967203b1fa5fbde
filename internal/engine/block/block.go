package block

import (
	"strings"

	"github.com/google/uuid"
)

// NodeID identifies a render-tree node owned by a block or input.
// The frontend reports event targets as node IDs; the sequence store
// maps them back to their owning block.
type NodeID = uuid.UUID

// Input is one editable text region inside a block. A block may have
// several (primary text plus a caption, for example).
type Input struct {
	node NodeID
	name string
	text []rune
}

// NewInput creates an empty named input.
func NewInput(name string) *Input {
	return &Input{node: uuid.New(), name: name}
}

// Node returns the input's render-tree node ID.
func (in *Input) Node() NodeID { return in.node }

// Name returns the input's label within its block.
func (in *Input) Name() string { return in.name }

// Text returns the input's text content.
func (in *Input) Text() string { return string(in.text) }

// Runes returns the input's text as runes. The caller must not mutate
// the returned slice.
func (in *Input) Runes() []rune { return in.text }

// SetText replaces the input's text content.
func (in *Input) SetText(text string) { in.text = []rune(text) }

// Len returns the text length in runes.
func (in *Input) Len() int { return len(in.text) }

// IsEmpty returns true if the input holds no visible text.
func (in *Input) IsEmpty() bool {
	return strings.TrimSpace(string(in.text)) == ""
}

// InsertAt inserts text at a rune offset, clamped to the valid range.
func (in *Input) InsertAt(offset int, text string) {
	offset = clamp(offset, 0, len(in.text))
	inserted := []rune(text)
	out := make([]rune, 0, len(in.text)+len(inserted))
	out = append(out, in.text[:offset]...)
	out = append(out, inserted...)
	out = append(out, in.text[offset:]...)
	in.text = out
}

// SplitAt removes and returns the text after a rune offset, clamped to
// the valid range.
func (in *Input) SplitAt(offset int) string {
	offset = clamp(offset, 0, len(in.text))
	tail := string(in.text[offset:])
	in.text = in.text[:offset]
	return tail
}

// Append appends text to the input.
func (in *Input) Append(text string) {
	in.text = append(in.text, []rune(text)...)
}

// Block is a structural unit of the document: one content type and an
// ordered list of editable inputs.
type Block struct {
	id         uuid.UUID
	node       NodeID
	typ        ContentType
	traits     Traits
	inputs     []*Input
	selected   bool
	dropTarget bool
}

// New creates a block of the given type with the inputs its traits
// declare.
func New(typ ContentType, traits Traits) *Block {
	b := &Block{
		id:     uuid.New(),
		node:   uuid.New(),
		typ:    typ,
		traits: traits,
	}
	for _, name := range traits.InputNames {
		b.inputs = append(b.inputs, NewInput(name))
	}
	return b
}

// ID returns the block's identity.
func (b *Block) ID() uuid.UUID { return b.id }

// Node returns the block's root render-tree node ID.
func (b *Block) Node() NodeID { return b.node }

// Type returns the block's content type.
func (b *Block) Type() ContentType { return b.typ }

// Traits returns the block's content-type traits.
func (b *Block) Traits() Traits { return b.traits }

// Inputs returns the block's editable inputs, first to last. The
// caller must not mutate the returned slice.
func (b *Block) Inputs() []*Input { return b.inputs }

// InputCount returns the number of editable inputs.
func (b *Block) InputCount() int { return len(b.inputs) }

// Input returns the input at index, or nil if out of range.
func (b *Block) Input(index int) *Input {
	if index < 0 || index >= len(b.inputs) {
		return nil
	}
	return b.inputs[index]
}

// FirstInput returns the first input, or nil for inputless blocks.
func (b *Block) FirstInput() *Input {
	if len(b.inputs) == 0 {
		return nil
	}
	return b.inputs[0]
}

// LastInput returns the last input, or nil for inputless blocks.
func (b *Block) LastInput() *Input {
	if len(b.inputs) == 0 {
		return nil
	}
	return b.inputs[len(b.inputs)-1]
}

// InputIndex returns the index of the given input within the block,
// or -1 if the input does not belong to it.
func (b *Block) InputIndex(in *Input) int {
	for i, candidate := range b.inputs {
		if candidate == in {
			return i
		}
	}
	return -1
}

// IsEmpty returns true if every input holds no visible text. Media
// blocks are never empty: their content is the media itself.
func (b *Block) IsEmpty() bool {
	if b.traits.Media {
		return false
	}
	for _, in := range b.inputs {
		if !in.IsEmpty() {
			return false
		}
	}
	return true
}

// HasMedia returns true if the block embeds non-text media.
func (b *Block) HasMedia() bool { return b.traits.Media }

// AcceptsLineBreaks returns true if the block handles Enter internally
// as a hard line break.
func (b *Block) AcceptsLineBreaks() bool { return b.traits.AcceptsLineBreaks }

// Selected reports whether the block is part of a cross-block
// selection.
func (b *Block) Selected() bool { return b.selected }

// SetSelected marks or unmarks the block as cross-block selected.
func (b *Block) SetSelected(selected bool) { b.selected = selected }

// DropTarget reports whether the block is highlighted as a drop
// target.
func (b *Block) DropTarget() bool { return b.dropTarget }

// SetDropTarget sets or clears the drop-target highlight.
func (b *Block) SetDropTarget(target bool) { b.dropTarget = target }

// Text returns the concatenated text of all inputs, inputs separated
// by newlines.
func (b *Block) Text() string {
	parts := make([]string, len(b.inputs))
	for i, in := range b.inputs {
		parts[i] = in.Text()
	}
	return strings.Join(parts, "\n")
}

// OwnsNode returns true if the node is the block's root node or one of
// its inputs' nodes.
func (b *Block) OwnsNode(node NodeID) bool {
	if b.node == node {
		return true
	}
	for _, in := range b.inputs {
		if in.node == node {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
