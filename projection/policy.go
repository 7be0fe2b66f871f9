package projection

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
)

//go:generate go tool stringer -type=Capability -trimprefix=Capability -output=capability_string.go

// Capability is the pin classification of a field.
type Capability uint8

const (
	CapabilityUnpinned Capability = iota // relocatable regardless of the aggregate
	CapabilityPinned                     // address-stable whenever the aggregate is
)

// Dropper is implemented by aggregates with a custom teardown routine.
//
// An aggregate with pinned fields must not implement Dropper: running Drop
// could invalidate an address handed out through a Pin.
type Dropper interface {
	Drop()
}

// PhantomPinned makes any struct that contains it, directly or through a
// pinned field, not relocatable once pinned.
type PhantomPinned struct{}

// AlwaysRelocatable replaces unpinned fields in shadow records.
type AlwaysRelocatable struct{}

// Registrar is implemented by pointers to generic aggregates. Generated code
// registers each instantiation on first use, so lookups call
// RegisterProjection before treating the type as a plain struct.
type Registrar interface {
	RegisterProjection()
}

var (
	dropperType           = reflect.TypeFor[Dropper]()
	registrarType         = reflect.TypeFor[Registrar]()
	phantomPinnedType     = reflect.TypeFor[PhantomPinned]()
	alwaysRelocatableType = reflect.TypeFor[AlwaysRelocatable]()
)

// FieldSpec describes one registered field of an aggregate.
type FieldSpec struct {
	Name       string
	ID         FieldName
	Type       reflect.Type
	Offset     uintptr
	Capability Capability
}

// aggregate holds the registered pin policy of a struct type.
type aggregate struct {
	typ    reflect.Type
	fields []FieldSpec
	shadow reflect.Type
}

// verdict is a cached relocatability, valid for one registration generation.
type verdict struct {
	relocatable bool
	generation  uint64
}

var (
	aggregates  sync.Map // reflect.Type -> *aggregate
	relocatable sync.Map // reflect.Type -> verdict
	// generation counts registrations; verdicts derived under an older
	// generation may have treated a registered aggregate as a plain struct.
	generation atomic.Uint64
)

// Register records the fields of B with their pin capability.
//
// Registering the same type again has no effect. Register panics when B has
// a pinned field and implements Dropper.
func Register[B any](fields ...FieldSpec) {
	t := reflect.TypeFor[B]()
	if _, ok := aggregates.Load(t); ok {
		return
	}

	agg, err := newAggregate(t, fields)
	if err != nil {
		panic(err)
	}

	if _, loaded := aggregates.LoadOrStore(t, agg); !loaded {
		generation.Add(1)
	}
}

func newAggregate(t reflect.Type, fields []FieldSpec) (*aggregate, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("projection: %s is not a struct", t)
	}

	shadow := make([]reflect.StructField, 0, len(fields))
	pinned := false

	for i, f := range fields {
		typ := alwaysRelocatableType
		if f.Capability == CapabilityPinned {
			typ = f.Type
			pinned = true
		}

		shadow = append(shadow, reflect.StructField{
			Name: "F" + strconv.Itoa(i),
			Type: typ,
		})
	}

	if pinned && implementsDropper(t) {
		return nil, fmt.Errorf("projection: %s has pinned fields and must not implement Drop", t)
	}

	return &aggregate{
		typ:    t,
		fields: slices.Clone(fields),
		shadow: reflect.StructOf(shadow),
	}, nil
}

func implementsDropper(t reflect.Type) bool {
	return t.Implements(dropperType) || reflect.PointerTo(t).Implements(dropperType)
}

func lookupAggregate(t reflect.Type) (*aggregate, bool) {
	v, ok := aggregates.Load(t)
	if !ok {
		if !registerOnDemand(t) {
			return nil, false
		}

		if v, ok = aggregates.Load(t); !ok {
			return nil, false
		}
	}

	return v.(*aggregate), true
}

// registerOnDemand runs the generated registration of a generic aggregate
// instantiation and reports whether t provides one.
func registerOnDemand(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || !reflect.PointerTo(t).Implements(registrarType) {
		return false
	}

	reflect.New(t).Interface().(Registrar).RegisterProjection()

	return true
}

// Fields returns the registered fields of B in declaration order.
func Fields[B any]() []FieldSpec {
	agg, ok := lookupAggregate(reflect.TypeFor[B]())
	if !ok {
		return nil
	}

	return slices.Clone(agg.fields)
}

// Lookup returns the registered field of B with the given identity.
func Lookup[B any](id FieldName) (FieldSpec, bool) {
	agg, ok := lookupAggregate(reflect.TypeFor[B]())
	if !ok {
		return FieldSpec{}, false
	}

	for _, f := range agg.fields {
		if f.ID == id {
			return f, true
		}
	}

	return FieldSpec{}, false
}

// Shadow returns the shadow record of B: pinned fields keep their type,
// unpinned fields are replaced by AlwaysRelocatable.
func Shadow[B any]() (reflect.Type, bool) {
	agg, ok := lookupAggregate(reflect.TypeFor[B]())
	if !ok {
		return nil, false
	}

	return agg.shadow, true
}

// Relocatable reports whether a pinned T may still be moved.
func Relocatable[T any]() bool {
	return RelocatableType(reflect.TypeFor[T]())
}

// RelocatableType reports whether a pinned value of type t may still be moved.
//
// Registered aggregates are relocatable when their shadow record is. Other
// structs and arrays are relocatable when all their components are;
// PhantomPinned is not; every other kind is.
func RelocatableType(t reflect.Type) bool {
	gen := generation.Load()
	if v, ok := relocatable.Load(t); ok && v.(verdict).generation == gen {
		return v.(verdict).relocatable
	}

	r := deriveRelocatable(t)
	cacheRelocatable(t, r, gen)

	return r
}

// cacheRelocatable stores a verdict derived under generation gen. A verdict
// that raced with a registration is dropped.
func cacheRelocatable(t reflect.Type, r bool, gen uint64) {
	if generation.Load() != gen {
		return
	}

	relocatable.Store(t, verdict{relocatable: r, generation: gen})
}

func deriveRelocatable(t reflect.Type) bool {
	switch t {
	case phantomPinnedType:
		return false
	case alwaysRelocatableType:
		return true
	}

	if agg, ok := lookupAggregate(t); ok {
		return RelocatableType(agg.shadow)
	}

	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			if !RelocatableType(t.Field(i).Type) {
				return false
			}
		}

		return true

	case reflect.Array:
		return t.Len() == 0 || RelocatableType(t.Elem())

	default:
		// Pointers, slices, maps and other indirections own their referent
		// through a header that can move freely.
		return true
	}
}
