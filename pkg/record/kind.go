package record

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/structy/internal/common"
	"github.com/rawbytedev/structy/pkg/fix16"
)

// Kind is the semantic type of a record field.
type Kind int

const (
	KindInvalid Kind = iota
	KindUint8
	KindInt8
	KindUint16
	KindInt16
	KindUint32
	KindInt32
	KindFloat32
	KindBool
	KindFix16
)

type kindInfo struct {
	name   string
	code   byte
	goType reflect.Type
	min    int64
	max    int64
}

var kinds = [...]kindInfo{
	KindInvalid: {name: "invalid"},
	KindUint8:   {"uint8", 'B', reflect.TypeOf(uint8(0)), 0, math.MaxUint8},
	KindInt8:    {"int8", 'b', reflect.TypeOf(int8(0)), math.MinInt8, math.MaxInt8},
	KindUint16:  {"uint16", 'H', reflect.TypeOf(uint16(0)), 0, math.MaxUint16},
	KindInt16:   {"int16", 'h', reflect.TypeOf(int16(0)), math.MinInt16, math.MaxInt16},
	KindUint32:  {"uint32", 'I', reflect.TypeOf(uint32(0)), 0, math.MaxUint32},
	KindInt32:   {"int32", 'i', reflect.TypeOf(int32(0)), math.MinInt32, math.MaxInt32},
	KindFloat32: {"float32", 'f', reflect.TypeOf(float32(0)), 0, 0},
	KindBool:    {"bool", '?', reflect.TypeOf(false), 0, 0},
	KindFix16:   {"fix16", 'i', reflect.TypeOf(fix16.Fix16(0)), math.MinInt16, math.MaxInt16},
}

// ParseKind maps a kind name such as "uint16" or "fix16" to its Kind.
func ParseKind(s string) (Kind, error) {
	for k := KindUint8; int(k) < len(kinds); k++ {
		if kinds[k].name == s {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("%w: unknown kind %q", ErrInvalidSchema, s)
}

func (k Kind) valid() bool { return k > KindInvalid && int(k) < len(kinds) }

func (k Kind) String() string {
	if !k.valid() {
		return "invalid"
	}
	return kinds[k].name
}

// Code is the format code the kind packs with.
func (k Kind) Code() byte {
	if !k.valid() {
		return 0
	}
	return kinds[k].code
}

// Width is the packed size in bytes.
func (k Kind) Width() int { return common.FixedSize(k.Code()) }

// Type is the Go type a record holds for this kind.
func (k Kind) Type() reflect.Type {
	if !k.valid() {
		return nil
	}
	return kinds[k].goType
}

func (k Kind) zero() any { return reflect.Zero(k.Type()).Interface() }

func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*k = parsed
	return nil
}

func (k Kind) MarshalYAML() (any, error) { return k.String(), nil }

// coerce converts v to the Go type held for k. Values already of that type
// pass through; other numbers are range checked.
func (k Kind) coerce(v any) (any, error) {
	if !k.valid() {
		return nil, fmt.Errorf("%w: invalid kind", ErrInvalidValue)
	}
	if v == nil {
		return k.zero(), nil
	}
	if reflect.TypeOf(v) == k.Type() {
		return v, nil
	}
	rv := reflect.ValueOf(v)
	switch k {
	case KindBool:
		if rv.Kind() == reflect.Bool {
			return rv.Bool(), nil
		}
	case KindFloat32:
		if x, ok := toFloat(rv); ok {
			return float32(x), nil
		}
	case KindFix16:
		if x, ok := toFloat(rv); ok {
			if x < float64(kinds[k].min) || x >= float64(kinds[k].max)+1 {
				return nil, fmt.Errorf("%w: %v out of range for %s", ErrInvalidValue, v, k)
			}
			return fix16.FromFloat(x), nil
		}
	default:
		if n, ok := toInt(rv); ok {
			if n < kinds[k].min || n > kinds[k].max {
				return nil, fmt.Errorf("%w: %v out of range for %s", ErrInvalidValue, v, k)
			}
			return reflect.ValueOf(n).Convert(k.Type()).Interface(), nil
		}
	}
	return nil, fmt.Errorf("%w: %T is not a %s", ErrInvalidValue, v, k)
}

// parse reads a text literal for k.
func (k Kind) parse(s string) (any, error) {
	switch k {
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a bool", ErrInvalidValue, s)
		}
		return b, nil
	case KindFloat32:
		x, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a float32", ErrInvalidValue, s)
		}
		return float32(x), nil
	case KindFix16:
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a fix16 literal", ErrInvalidValue, s)
		}
		return k.coerce(x)
	default:
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, s)
		}
		return k.coerce(n)
	}
}

func toInt(rv reflect.Value) (int64, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

func toFloat(rv reflect.Value) (float64, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
