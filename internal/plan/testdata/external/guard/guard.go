// Package guard declares a marker struct outside the planned packages.
package guard

import "field-projection/projection"

// Guard must not move once pinned.
type Guard struct {
	marker projection.PhantomPinned
	n      int
}
