// Package sequence implements the block sequence store: the ordered,
// mutable list of blocks that owns block lifetime, document order,
// current-block tracking, and the split/merge primitives structural
// edits are built from.
package sequence
