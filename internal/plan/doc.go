// Package plan turns the analyzed type graph and an optional schema file into
// a projection plan: the aggregates to generate, the capability of every
// field and the statically derived relocatability of each aggregate.
//
// The planner enforces the pin projection policy:
//   - projection support is only available for struct types
//   - a pin aggregate with pinned fields must not define a Drop method
//   - pin tags on mapping-only aggregates are ignored with a warning
//
// Relocatability is derived the same way the runtime derives it with
// projection.Register: a planned pin aggregate is relocatable when all of its
// pinned fields are; any other struct when all of its fields are; an array
// when its element is; projection.PhantomPinned never is.
package plan
