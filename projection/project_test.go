package projection

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestProject(t *testing.T) {
	t.Parallel()

	var v outer

	*Project(&v, outerC) = 10
	*Project(Project(&v, outerA), innerB) = 20

	assert.Equal(t, uint(10), v.c)
	assert.Equal(t, uint(20), v.foo.b)
	assert.Equal(t, uint(10), ProjectRef(RefOf(&v), outerC).Get())
}

func TestProjectPin(t *testing.T) {
	t.Parallel()

	pin := NewBox(outer{}).Pin()

	foo := ProjectPin(pin, outerA)
	a := ProjectPin(foo, innerA)
	c := ProjectPin(pin, outerC)

	assert.IsType(t, Pin[inner]{}, foo)
	assert.IsType(t, Pin[uint]{}, a)
	assert.IsType(t, (*uint)(nil), c)

	a.Set(1)
	*c = 2

	assert.Equal(t, outer{foo: inner{a: 1}, c: 2}, pin.Get().Get())
	assert.Equal(t, uintptr(pin.UnsafePointer())+unsafe.Offsetof(outer{}.foo)+unsafe.Offsetof(inner{}.a),
		uintptr(a.UnsafePointer()))
}
