// Package policy declares aggregates that exercise every pin policy rule.
package policy

import "field-projection/projection"

// Guarded pins a marker that must never move.
//
//fieldproj:generate pin
type Guarded struct {
	marker projection.PhantomPinned `project:"pin"`
	count  int
}

// Loose keeps the marker unpinned.
//
//fieldproj:generate pin
type Loose struct {
	marker projection.PhantomPinned
	count  int
}

// Holder inherits non-relocatability from Guarded only.
//
//fieldproj:generate pin
type Holder struct {
	Guard Guarded `project:"pin"`
	Loose Loose   `project:"pin"`
	Spare [2]Guarded
}

// Closer pins a field and defines a teardown routine.
//
//fieldproj:generate pin
type Closer struct {
	name string `project:"pin"`
}

// Drop releases resources.
func (c *Closer) Drop() {}

// Teardown defines a teardown routine but pins nothing.
//
//fieldproj:generate pin
type Teardown struct {
	name string
}

// Drop releases resources.
func (t *Teardown) Drop() {}

// Choice is a sum type and cannot be projected.
//
//fieldproj:generate
type Choice interface {
	isChoice()
}

// Plain requests mapping support only, so its pin tag has no effect.
//
//fieldproj:generate
type Plain struct {
	x int `project:"pin"`
	_ int
}

// Undeclared has no directive.
type Undeclared struct {
	V int
}

//fieldproj:generate pin frozen
type Options struct {
	name string
}
