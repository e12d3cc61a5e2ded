package common

import (
	"encoding/binary"
	"math"
	"reflect"
	"unsafe"
)

// Code describes a single format code.
type Code struct {
	Char  byte
	Kind  reflect.Kind
	Width int
	Name  string
}

var codes = [...]Code{
	{'B', reflect.Uint8, 1, "uint8"},
	{'b', reflect.Int8, 1, "int8"},
	{'H', reflect.Uint16, 2, "uint16"},
	{'h', reflect.Int16, 2, "int16"},
	{'I', reflect.Uint32, 4, "uint32"},
	{'i', reflect.Int32, 4, "int32"},
	{'f', reflect.Float32, 4, "float32"},
	{'?', reflect.Bool, 1, "bool"},
}

// Lookup returns the table entry for c.
func Lookup(c byte) (Code, bool) {
	for _, code := range codes {
		if code.Char == c {
			return code, true
		}
	}
	return Code{}, false
}

// CodeForKind returns the format code a value of kind k is packed with.
func CodeForKind(k reflect.Kind) (Code, bool) {
	for _, code := range codes {
		if code.Kind == k {
			return code, true
		}
	}
	return Code{}, false
}

// FixedSize returns the byte width for format code c, or -1.
func FixedSize(c byte) int {
	if code, ok := Lookup(c); ok {
		return code.Width
	}
	return -1
}

// PutFixed writes v big-endian into b. v must already match the kind.
func PutFixed(b []byte, v reflect.Value) {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			b[0] = 1
		} else {
			b[0] = 0
		}
	case reflect.Int8:
		b[0] = byte(v.Int())
	case reflect.Uint8:
		b[0] = byte(v.Uint())
	case reflect.Int16:
		binary.BigEndian.PutUint16(b, uint16(v.Int()))
	case reflect.Uint16:
		binary.BigEndian.PutUint16(b, uint16(v.Uint()))
	case reflect.Int32:
		binary.BigEndian.PutUint32(b, uint32(v.Int()))
	case reflect.Uint32:
		binary.BigEndian.PutUint32(b, uint32(v.Uint()))
	case reflect.Float32:
		binary.BigEndian.PutUint32(b, float32Bits(v))
	default:
		panic("not fixed")
	}
}

// float32Bits reads the raw bits of a float32 value. Value.Float widens to
// float64, which quiets signaling NaNs, so it is never used here.
func float32Bits(v reflect.Value) uint32 {
	if !v.CanAddr() {
		tmp := reflect.New(v.Type()).Elem()
		tmp.Set(v)
		v = tmp
	}
	return *(*uint32)(unsafe.Pointer(v.UnsafeAddr()))
}

// SetFixed decodes a big-endian value of the destination's kind from b.
// Any nonzero byte decodes as true.
func SetFixed(dst reflect.Value, b []byte) {
	switch dst.Kind() {
	case reflect.Bool:
		dst.SetBool(b[0] != 0)
	case reflect.Int8:
		dst.SetInt(int64(int8(b[0])))
	case reflect.Uint8:
		dst.SetUint(uint64(b[0]))
	case reflect.Int16:
		dst.SetInt(int64(int16(binary.BigEndian.Uint16(b))))
	case reflect.Uint16:
		dst.SetUint(uint64(binary.BigEndian.Uint16(b)))
	case reflect.Int32:
		dst.SetInt(int64(int32(binary.BigEndian.Uint32(b))))
	case reflect.Uint32:
		dst.SetUint(uint64(binary.BigEndian.Uint32(b)))
	case reflect.Float32:
		bits := binary.BigEndian.Uint32(b)
		if dst.CanAddr() {
			*(*uint32)(unsafe.Pointer(dst.UnsafeAddr())) = bits
		} else {
			dst.SetFloat(float64(math.Float32frombits(bits)))
		}
	default:
		panic("not fixed")
	}
}
