// Package diagnostic provides structured errors, warnings and notes
// reported while planning projection support.
//
// Key capabilities:
//   - Rejections of unsound declarations (non-struct, pinned field + Drop)
//   - Schema references to types or fields that do not exist
//   - Warnings for declarations whose options have no effect
//   - Notes explaining the derived relocatability of each aggregate
package diagnostic
