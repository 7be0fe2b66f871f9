// Package generic declares generic aggregates whose relocatability depends on
// their type arguments.
package generic

import "field-projection/projection"

// Cell pins its value.
//
//fieldproj:generate pin
type Cell[T any] struct {
	value T `project:"pin"`
	n     int
}

// Fixed holds a cell of a marker that must never move.
//
//fieldproj:generate pin
type Fixed struct {
	c Cell[projection.PhantomPinned] `project:"pin"`
}

// Free holds a cell of a relocatable value.
//
//fieldproj:generate pin
type Free struct {
	c Cell[int] `project:"pin"`
}

// Rows keeps a zero-length array of markers.
//
//fieldproj:generate pin
type Rows struct {
	none [0]projection.PhantomPinned `project:"pin"`
	some [2]projection.PhantomPinned `project:"pin"`
}
