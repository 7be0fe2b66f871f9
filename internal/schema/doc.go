// Package schema provides the YAML schema that requests projection support
// for aggregates without touching their source.
//
// Directives and struct tags in Go source are the primary declaration
// surface; a schema file adds aggregates and overrides pin flags.
//
// # Schema Overview
//
//	version: "1"
//	aggregates:
//	  - type: nested.Bar       # name, pkg.Name or import/path.Name
//	    pin: true              # request pin support
//	    pinned: foo            # string or list of field names
//	  - type: Foo
//	    pin: true
//	    pinned: [a]
//	    unpinned: [b]          # clears a project:"pin" tag
//	  - type: Legacy
//	    skip: true             # suppress a //fieldproj:generate directive
//
// # Priority Order
//
// When deciding whether a field is pinned:
//  1. "unpinned" (highest)
//  2. "pinned"
//  3. project:"pin" struct tag
//  4. unpinned by default (lowest)
package schema
