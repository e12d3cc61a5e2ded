package record

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/rawbytedev/structy"
	"github.com/rawbytedev/structy/pkg/fix16"
)

// FixedPrecision is the number of fractional digits Print renders fix16
// fields with.
const FixedPrecision = 2

// Record is one instance of a Schema. New takes its own copy of the
// schema, so later edits to the schema do not reach existing records.
// A Record is not safe for concurrent mutation.
type Record struct {
	schema   *Schema
	format   string
	size     int
	defaults []any
	values   []any
}

// New returns a record for s with every field zeroed. Call Init to apply
// the schema defaults.
func New(s *Schema) (*Record, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	c := *s
	c.Fields = append([]Field(nil), s.Fields...)
	r := &Record{
		schema:   &c,
		format:   c.Format(),
		size:     c.PackedSize(),
		defaults: make([]any, len(c.Fields)),
		values:   make([]any, len(c.Fields)),
	}
	for i, f := range c.Fields {
		v, err := f.Kind.coerce(f.Default)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: default: %v", ErrInvalidSchema, c.Name, f.Name, err)
		}
		r.defaults[i] = v
		r.values[i] = f.Kind.zero()
	}
	return r, nil
}

// MustNew is like New but panics if the schema is invalid.
func MustNew(s *Schema) *Record {
	r, err := New(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Schema returns the record's copy of its schema.
func (r *Record) Schema() *Schema { return r.schema }

// PackedSize is the exact number of bytes Pack writes.
func (r *Record) PackedSize() int { return r.size }

// Init sets every field to its default.
func (r *Record) Init() {
	copy(r.values, r.defaults)
}

// Pack writes the record into dst, which must hold at least PackedSize
// bytes. The record is not modified.
func (r *Record) Pack(dst []byte) error {
	res, err := structy.Pack(r.format, dst, r.values...)
	if err != nil {
		return r.wrap("pack", res, err)
	}
	return nil
}

// Bytes packs the record into a new buffer of PackedSize bytes.
func (r *Record) Bytes() []byte {
	buf := make([]byte, r.size)
	if err := r.Pack(buf); err != nil {
		// values are always coerced to their kind's type
		panic(err)
	}
	return buf
}

// Unpack replaces every field with the values decoded from src. If src is
// shorter than PackedSize an error is returned and the record keeps its
// previous values.
func (r *Record) Unpack(src []byte) error {
	slots := make([]any, len(r.values))
	for i, f := range r.schema.Fields {
		slots[i] = reflect.New(f.Kind.Type()).Interface()
	}
	res, err := structy.Unpack(r.format, src, slots...)
	if err != nil {
		return r.wrap("unpack", res, err)
	}
	for i, slot := range slots {
		r.values[i] = reflect.ValueOf(slot).Elem().Interface()
	}
	return nil
}

func (r *Record) wrap(op string, res structy.Result, err error) error {
	if res.Status == structy.StatusFormatArgumentMismatch && res.Count < len(r.schema.Fields) {
		return fmt.Errorf("%s: %s field %q: %w", r.schema.Name, op, r.schema.Fields[res.Count].Name, err)
	}
	return fmt.Errorf("%s: %s: %w", r.schema.Name, op, err)
}

// Get returns the current value of the named field.
func (r *Record) Get(name string) (any, error) {
	i := r.schema.Index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, r.schema.Name, name)
	}
	return r.values[i], nil
}

// Set assigns the named field. v may be the field's own Go type or any
// number (bool for bool fields) that fits the field's kind; fix16 fields
// take numbers as decimal values.
func (r *Record) Set(name string, v any) error {
	i := r.schema.Index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, r.schema.Name, name)
	}
	cv, err := r.schema.Fields[i].Kind.coerce(v)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", r.schema.Name, name, err)
	}
	r.values[i] = cv
	return nil
}

// SetText parses text for the named field's kind and assigns it.
func (r *Record) SetText(name, text string) error {
	i := r.schema.Index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, r.schema.Name, name)
	}
	v, err := r.schema.Fields[i].Kind.parse(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("%s.%s: %w", r.schema.Name, name, err)
	}
	r.values[i] = v
	return nil
}

// Values returns the field values in declaration order.
func (r *Record) Values() []any {
	out := make([]any, len(r.values))
	copy(out, r.values)
	return out
}

// Print writes the record as text: a "Struct <Name>:" header followed by
// one "- <field>: <value>" line per field.
func (r *Record) Print(w io.Writer) error {
	_, err := io.WriteString(w, r.String())
	return err
}

func (r *Record) String() string {
	var b strings.Builder
	b.WriteString("Struct ")
	b.WriteString(r.schema.Name)
	b.WriteString(":\n")
	for i, f := range r.schema.Fields {
		b.WriteString("- ")
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(render(r.values[i]))
		b.WriteByte('\n')
	}
	return b.String()
}

func render(v any) string {
	switch v := v.(type) {
	case fix16.Fix16:
		return v.Text(FixedPrecision)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	default:
		return fmt.Sprint(v)
	}
}
