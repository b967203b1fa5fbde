// Package key provides keyboard event types for the interaction engine.
//
// Events carry both the logical key (layout-dependent, as the platform
// reports it) and an optional physical code (layout-independent). The
// dispatcher matches on whichever the shortcut's semantics require.
package key
