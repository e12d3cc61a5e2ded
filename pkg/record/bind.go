package record

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// TagName is the struct tag naming the record field a Go field binds to.
// Without a tag the snake_case form of the Go field name is used; a tag of
// "-" skips the field.
const TagName = "structy"

type binding struct {
	field int // index into the struct
	slot  int // index into the record
}

func (r *Record) bindings(t reflect.Type) ([]binding, error) {
	var out []binding
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // skip unexported
		}
		name := sf.Tag.Get(TagName)
		if name == "-" {
			continue
		}
		if name == "" {
			name = snakeCase(sf.Name)
		}
		slot := r.schema.Index(name)
		if slot < 0 {
			return nil, fmt.Errorf("%w: %s.%s (from %s.%s)", ErrUnknownField, r.schema.Name, name, t.Name(), sf.Name)
		}
		kind := r.schema.Fields[slot].Kind
		if sf.Type.Kind() != kind.Type().Kind() {
			return nil, fmt.Errorf("%w: %s.%s is %s, field %q is %s", ErrInvalidValue, t.Name(), sf.Name, sf.Type, name, kind)
		}
		out = append(out, binding{field: i, slot: slot})
	}
	return out, nil
}

func structValue(v any, settable bool) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	} else if settable {
		return reflect.Value{}, fmt.Errorf("%w: expected pointer to struct, got %T", ErrInvalidValue, v)
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: expected struct, got %T", ErrInvalidValue, v)
	}
	return rv, nil
}

// Import copies the bound fields of src, a struct or pointer to struct,
// into the record. Record fields with no matching struct field keep their
// values.
func (r *Record) Import(src any) error {
	rv, err := structValue(src, false)
	if err != nil {
		return err
	}
	bs, err := r.bindings(rv.Type())
	if err != nil {
		return err
	}
	for _, b := range bs {
		typ := r.schema.Fields[b.slot].Kind.Type()
		r.values[b.slot] = rv.Field(b.field).Convert(typ).Interface()
	}
	return nil
}

// Export copies the record into the bound fields of the struct dst points to.
func (r *Record) Export(dst any) error {
	rv, err := structValue(dst, true)
	if err != nil {
		return err
	}
	bs, err := r.bindings(rv.Type())
	if err != nil {
		return err
	}
	for _, b := range bs {
		f := rv.Field(b.field)
		f.Set(reflect.ValueOf(r.values[b.slot]).Convert(f.Type()))
	}
	return nil
}

func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, c := range runes {
		if unicode.IsUpper(c) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			c = unicode.ToLower(c)
		}
		b.WriteRune(c)
	}
	return b.String()
}
