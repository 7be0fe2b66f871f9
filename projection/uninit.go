package projection

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"
)

// Uninit is a handle to storage for a T that may not hold a valid T yet.
//
// Uninit only writes; nothing is ever read through it. Storage created by
// NewUninit tracks which bytes were written so that AssumeInit can refuse
// partially written values.
type Uninit[T any] struct {
	p       *T
	tracker *initTracker
	off     uintptr // offset of p within the tracked storage
}

// initTracker keeps one flag per byte so that disjoint fields can be written
// from different goroutines.
type initTracker struct {
	written []bool
	leaves  []leaf
}

// leaf is a field of the tracked type that has no sub-fields.
type leaf struct {
	path   string
	offset uintptr
	size   uintptr
}

// NewUninit allocates tracked storage for a T.
func NewUninit[T any]() Uninit[T] {
	t := reflect.TypeFor[T]()

	return Uninit[T]{
		p: new(T),
		tracker: &initTracker{
			written: make([]bool, t.Size()),
			leaves:  leavesOf(t, "", 0, nil),
		},
	}
}

// UninitAt returns an untracked handle to the storage at p.
func UninitAt[T any](p *T) Uninit[T] {
	return Uninit[T]{p: p}
}

// Write stores v and returns a pointer to the now initialized value.
func (u Uninit[T]) Write(v T) *T {
	*u.p = v
	if u.tracker != nil {
		u.tracker.mark(u.off, unsafe.Sizeof(v))
	}

	return u.p
}

// Initialized reports whether every field of the storage has been written.
// Untracked storage always reports true.
func (u Uninit[T]) Initialized() bool {
	return len(u.Missing()) == 0
}

// Missing returns the paths of the fields that were not written yet. Paths are
// relative to the storage created by NewUninit, e.g. "foo.b".
func (u Uninit[T]) Missing() []string {
	if u.tracker == nil {
		return nil
	}

	end := u.off + reflect.TypeFor[T]().Size()

	var missing []string

	for _, l := range u.tracker.leaves {
		if l.offset < u.off || l.offset+l.size > end {
			continue
		}

		if !u.tracker.covered(l) {
			missing = append(missing, l.path)
		}
	}

	return missing
}

// AssumeInit returns a pointer to the value. It panics when tracked storage
// still has unwritten fields.
func (u Uninit[T]) AssumeInit() *T {
	if missing := u.Missing(); len(missing) > 0 {
		panic(fmt.Sprintf("projection: %s is not initialized, missing %s",
			reflect.TypeFor[T](), strings.Join(missing, ", ")))
	}

	return u.p
}

// UnsafePointer returns the address of the storage.
func (u Uninit[T]) UnsafePointer() unsafe.Pointer {
	return unsafe.Pointer(u.p)
}

func (t *initTracker) mark(off, size uintptr) {
	written := t.written[off : off+size]
	for i := range written {
		written[i] = true
	}
}

func (t *initTracker) covered(l leaf) bool {
	for _, w := range t.written[l.offset : l.offset+l.size] {
		if !w {
			return false
		}
	}

	return true
}

// leavesOf lists the fields of t that have no sub-fields, skipping padding
// and zero-sized fields. Arrays are leaves since they can only be written as
// a whole.
func leavesOf(t reflect.Type, path string, base uintptr, out []leaf) []leaf {
	if t.Size() == 0 {
		return out
	}

	if t.Kind() != reflect.Struct {
		if path == "" {
			path = "."
		}

		return append(out, leaf{path: path, offset: base, size: t.Size()})
	}

	for i := range t.NumField() {
		f := t.Field(i)

		p := f.Name
		if path != "" {
			p = path + "." + f.Name
		}

		out = leavesOf(f.Type, p, base+f.Offset, out)
	}

	return out
}
