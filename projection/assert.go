package projection

import (
	"fmt"
	"reflect"
)

// assertField checks a descriptor against the layout of B.
// Only called when built with the fieldprojdebug tag.
func assertField[B, T any](f Field[B, T]) {
	bt := reflect.TypeFor[B]()
	ft := reflect.TypeFor[T]()

	if err := checkField(bt, ft, f.name, f.id, f.offset); err != nil {
		panic(err)
	}
}

func checkField(bt, ft reflect.Type, name string, id FieldName, offset uintptr) error {
	if id != Hash(name) {
		return fmt.Errorf("projection: %s.%s: id %s does not match name hash %s", bt, name, id, Hash(name))
	}

	if bt.Kind() != reflect.Struct {
		return fmt.Errorf("projection: %s is not a struct", bt)
	}

	var (
		sf    reflect.StructField
		found bool
	)

	for i := range bt.NumField() {
		if bt.Field(i).Name == name {
			sf, found = bt.Field(i), true
			break
		}
	}

	switch {
	case !found:
		return fmt.Errorf("projection: %s has no field %s", bt, name)
	case sf.Type != ft:
		return fmt.Errorf("projection: %s.%s has type %s, descriptor says %s", bt, name, sf.Type, ft)
	case sf.Offset != offset:
		return fmt.Errorf("projection: %s.%s is at offset %d, descriptor says %d", bt, name, sf.Offset, offset)
	case offset+ft.Size() > bt.Size():
		return fmt.Errorf("projection: %s.%s lies outside of %s", bt, name, bt)
	case offset%uintptr(ft.Align()) != 0:
		return fmt.Errorf("projection: %s.%s is misaligned for %s", bt, name, ft)
	}

	return nil
}
