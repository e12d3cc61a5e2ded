package structy

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/rawbytedev/structy/internal/common"
)

// Codec packs Go structs by deriving a format string from their exported
// fields in declaration order. Plans are cached per type; a Codec is safe
// for concurrent use.
type Codec struct {
	mu   sync.RWMutex
	plan map[reflect.Type]*StructPlan
}

// StructPlan is the layout derived for one struct type.
type StructPlan struct {
	Format string
	Size   int
	fields []int
}

func NewCodec() *Codec {
	return &Codec{plan: make(map[reflect.Type]*StructPlan)}
}

func (c *Codec) getPlan(t reflect.Type) (*StructPlan, error) {
	c.mu.RLock()
	if plan, ok := c.plan[t]; ok {
		c.mu.RUnlock()
		return plan, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check
	if plan, ok := c.plan[t]; ok {
		return plan, nil
	}

	plan := &StructPlan{}
	format := make([]byte, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // skip unexported
		}
		code, ok := common.CodeForKind(sf.Type.Kind())
		if !ok {
			return nil, fmt.Errorf("%w: field %s.%s is %s", ErrUnsupported, t.Name(), sf.Name, sf.Type)
		}
		format = append(format, code.Char)
		plan.Size += code.Width
		plan.fields = append(plan.fields, i)
	}
	plan.Format = string(format)
	c.plan[t] = plan
	return plan, nil
}

// Plan returns the layout for v, a struct or pointer to struct.
func (c *Codec) Plan(v any) (*StructPlan, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: expected struct, got %T", ErrUnsupported, v)
	}
	return c.getPlan(rv.Type())
}

// PackStruct packs the exported fields of v into dst.
func (c *Codec) PackStruct(dst []byte, v any) (Result, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fail(StatusFormatArgumentMismatch, 0, "expected struct, got %T", v)
	}
	plan, err := c.getPlan(rv.Type())
	if err != nil {
		return Result{Status: StatusFormatArgumentMismatch}, err
	}
	values := make([]any, len(plan.fields))
	for i, idx := range plan.fields {
		values[i] = rv.Field(idx).Interface()
	}
	return Pack(plan.Format, dst, values...)
}

// UnpackStruct decodes src into the struct pointed to by ptr. Fields are
// only assigned once the whole buffer has decoded.
func (c *Codec) UnpackStruct(src []byte, ptr any) (Result, error) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fail(StatusFormatArgumentMismatch, 0, "expected pointer to struct, got %T", ptr)
	}
	dst := rv.Elem()
	plan, err := c.getPlan(dst.Type())
	if err != nil {
		return Result{Status: StatusFormatArgumentMismatch}, err
	}
	// decode into a scratch copy so a short buffer leaves dst untouched
	scratch := reflect.New(dst.Type()).Elem()
	scratch.Set(dst)
	out := make([]any, len(plan.fields))
	for i, idx := range plan.fields {
		out[i] = scratch.Field(idx).Addr().Interface()
	}
	res, err := Unpack(plan.Format, src, out...)
	if err != nil {
		return res, err
	}
	dst.Set(scratch)
	return res, nil
}

var defaultCodec = NewCodec()

// FormatOf returns the format string for v, a struct or pointer to struct.
func FormatOf(v any) (string, error) {
	plan, err := defaultCodec.Plan(v)
	if err != nil {
		return "", err
	}
	return plan.Format, nil
}

// Size returns the packed size of v, a struct or pointer to struct.
func Size(v any) (int, error) {
	plan, err := defaultCodec.Plan(v)
	if err != nil {
		return 0, err
	}
	return plan.Size, nil
}

// PackStruct packs v with a shared Codec.
func PackStruct(dst []byte, v any) (Result, error) {
	return defaultCodec.PackStruct(dst, v)
}

// UnpackStruct unpacks into ptr with a shared Codec.
func UnpackStruct(src []byte, ptr any) (Result, error) {
	return defaultCodec.UnpackStruct(src, ptr)
}
