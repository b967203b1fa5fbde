// Package caret tracks the native text cursor and implements the
// probe queries (collapsed, at-start, at-end) and caret placement the
// dispatcher builds structural edits from.
//
// Edge checks are grapheme-cluster aware: a caret separated from an
// input edge only by zero-width characters or a partial combining
// sequence still counts as being at that edge.
package caret
