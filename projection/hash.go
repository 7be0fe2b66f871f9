package projection

import (
	"fmt"
	"hash/fnv"
)

// FieldName is the identity of a field, derived from its name.
//
// Two distinct names hashing to the same value are indistinguishable.
type FieldName uint64

// Hash returns the 64-bit FNV-1a hash of the UTF-8 bytes of name.
func Hash(name string) FieldName {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))

	return FieldName(h.Sum64())
}

// String returns the hash in the form used by generated code.
func (n FieldName) String() string {
	return fmt.Sprintf("0x%016x", uint64(n))
}
