// Package external pins a struct whose package is not part of the plan.
package external

import (
	"field-projection/internal/plan/testdata/external/guard"
	"field-projection/projection"
)

// Remote pins a foreign guard.
//
//fieldproj:generate pin
type Remote struct {
	g guard.Guard `project:"pin"`
}

// Local pins a marker declared right here.
//
//fieldproj:generate pin
type Local struct {
	m projection.PhantomPinned `project:"pin"`
}

// Mixed pins both.
//
//fieldproj:generate pin
type Mixed struct {
	m projection.PhantomPinned `project:"pin"`
	g guard.Guard              `project:"pin"`
}
