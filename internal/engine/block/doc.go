// Package block defines the document's structural unit: a typed block
// holding one or more editable inputs, plus the content-type registry
// and the mergeability policy consulted by structural edits.
package block
