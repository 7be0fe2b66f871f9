package projection

import (
	"reflect"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// guarded keeps a non-relocatable marker in a pinned field.
type guarded struct {
	marker PhantomPinned
	n      int
}

// loose keeps the same marker in an unpinned field.
type loose struct {
	marker PhantomPinned
	n      int
}

// holder pins a guarded value, so it inherits its non-relocatability.
type holder struct {
	g guarded
	l loose
}

// plainWithMarker is never registered and follows the structural rule.
type plainWithMarker struct {
	marker PhantomPinned
}

type dropping struct {
	a int
	b int
}

func (d *dropping) Drop() {}

func init() {
	Register[guarded](
		NewPinned[guarded, PhantomPinned]("marker", Hash("marker"), unsafe.Offsetof(guarded{}.marker)).Spec(),
		NewUnpinned[guarded, int]("n", Hash("n"), unsafe.Offsetof(guarded{}.n)).Spec(),
	)
	Register[loose](
		NewUnpinned[loose, PhantomPinned]("marker", Hash("marker"), unsafe.Offsetof(loose{}.marker)).Spec(),
		NewUnpinned[loose, int]("n", Hash("n"), unsafe.Offsetof(loose{}.n)).Spec(),
	)
	Register[holder](
		NewPinned[holder, guarded]("g", Hash("g"), unsafe.Offsetof(holder{}.g)).Spec(),
		NewPinned[holder, loose]("l", Hash("l"), unsafe.Offsetof(holder{}.l)).Spec(),
	)
}

func TestRelocatable(t *testing.T) {
	t.Parallel()

	assert.True(t, Relocatable[int]())
	assert.True(t, Relocatable[*guarded]())
	assert.True(t, Relocatable[[]PhantomPinned]())
	assert.False(t, Relocatable[PhantomPinned]())
	assert.False(t, Relocatable[[2]PhantomPinned]())
	assert.True(t, Relocatable[[0]PhantomPinned]())
	assert.True(t, Relocatable[AlwaysRelocatable]())

	// Registered aggregates: pinned fields propagate, unpinned never block.
	assert.True(t, Relocatable[inner]())
	assert.True(t, Relocatable[outer]())
	assert.False(t, Relocatable[guarded]())
	assert.True(t, Relocatable[loose]())
	assert.False(t, Relocatable[holder]())

	// Unregistered structs fall back to all fields.
	assert.False(t, Relocatable[plainWithMarker]())
	assert.True(t, Relocatable[struct{ A, B int }]())
}

func TestRegister_Idempotent(t *testing.T) {
	t.Parallel()

	before := Fields[outer]()
	Register[outer](outerC.Spec())

	assert.Equal(t, before, Fields[outer]())
	assert.Len(t, before, 3)
}

func TestRegister_RejectsDropWithPinnedField(t *testing.T) {
	t.Parallel()

	pinnedA := NewPinned[dropping, int]("a", Hash("a"), unsafe.Offsetof(dropping{}.a))
	unpinnedB := NewUnpinned[dropping, int]("b", Hash("b"), unsafe.Offsetof(dropping{}.b))

	_, err := newAggregate(reflect.TypeFor[dropping](), []FieldSpec{pinnedA.Spec(), unpinnedB.Spec()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not implement Drop")

	assert.Panics(t, func() {
		Register[dropping](pinnedA.Spec(), unpinnedB.Spec())
	})

	// Without pinned fields a teardown routine is harmless.
	_, err = newAggregate(reflect.TypeFor[dropping](), []FieldSpec{unpinnedB.Spec()})
	assert.NoError(t, err)
}

func TestRegister_RejectsNonStruct(t *testing.T) {
	t.Parallel()

	_, err := newAggregate(reflect.TypeFor[int](), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a struct")
}

func TestShadow(t *testing.T) {
	t.Parallel()

	shadow, ok := Shadow[guarded]()
	require.True(t, ok)
	require.Equal(t, 2, shadow.NumField())

	assert.Equal(t, "F0", shadow.Field(0).Name)
	assert.Equal(t, reflect.TypeFor[PhantomPinned](), shadow.Field(0).Type)
	assert.Equal(t, reflect.TypeFor[AlwaysRelocatable](), shadow.Field(1).Type)

	_, ok = Shadow[plainWithMarker]()
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	spec, ok := Lookup[outer](Hash("c"))
	require.True(t, ok)
	assert.Equal(t, "c", spec.Name)
	assert.Equal(t, CapabilityUnpinned, spec.Capability)

	_, ok = Lookup[outer](Hash("missing"))
	assert.False(t, ok)

	_, ok = Lookup[plainWithMarker](Hash("marker"))
	assert.False(t, ok)
}

func TestRelocatable_Concurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.False(t, Relocatable[holder]())
			assert.True(t, Relocatable[outer]())
		}()
	}

	wg.Wait()
}

// lazyPair registers each instantiation on first use, the way generated code
// does for generic aggregates.
type lazyPair[K, V any] struct {
	key   K
	value V
}

func (*lazyPair[K, V]) RegisterProjection() {
	Register[lazyPair[K, V]](
		NewPinned[lazyPair[K, V], K]("key", Hash("key"), unsafe.Offsetof(lazyPair[K, V]{}.key)).Spec(),
		NewUnpinned[lazyPair[K, V], V]("value", Hash("value"), unsafe.Offsetof(lazyPair[K, V]{}.value)).Spec(),
	)
}

func TestRelocatable_RegistersGenericOnDemand(t *testing.T) {
	t.Parallel()

	// An unpinned marker never blocks relocation, even before any descriptor
	// of the instantiation was built.
	assert.True(t, Relocatable[lazyPair[int, PhantomPinned]]())
	assert.False(t, Relocatable[lazyPair[PhantomPinned, int]]())

	assert.Len(t, Fields[lazyPair[int8, PhantomPinned]](), 2)

	shadow, ok := Shadow[lazyPair[int16, PhantomPinned]]()
	require.True(t, ok)
	assert.Equal(t, alwaysRelocatableType, shadow.Field(1).Type)

	box := NewBox(lazyPair[string, PhantomPinned]{key: "k"})
	box.Pin()

	p, err := box.Mut()
	require.NoError(t, err)
	assert.Equal(t, "k", p.key)
}

// late is registered after its relocatability was first derived.
type late struct {
	marker PhantomPinned
}

func TestRelocatable_DropsVerdictRacingRegistration(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeFor[late]()

	// A derivation starts before the type is registered...
	gen := generation.Load()
	stale := deriveRelocatable(typ)
	assert.False(t, stale)

	// ...and stores its result after the registration completed.
	Register[late](NewUnpinned[late, PhantomPinned]("marker", Hash("marker"), unsafe.Offsetof(late{}.marker)).Spec())
	cacheRelocatable(typ, stale, gen)

	assert.True(t, Relocatable[late]())
	assert.True(t, RelocatableType(typ))
}
