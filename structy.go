// Package structy packs and unpacks fixed-layout big-endian structs
// described by a format string.
//
// A format string is a sequence of single-character codes:
//
//	B  uint8     1 byte
//	b  int8      1 byte
//	H  uint16    2 bytes
//	h  int16     2 bytes
//	I  uint32    4 bytes
//	i  int32     4 bytes (also Q16.16 fixed-point values)
//	f  float32   4 bytes
//	?  bool      1 byte
//
// Values are laid out in format order with no padding or alignment.
// Values are matched to codes by reflect kind, so named types such as
// fix16.Fix16 (an int32) are accepted where their underlying kind fits.
package structy

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/rawbytedev/structy/internal/common"
)

var (
	ErrBufferTooSmall         = errors.New("buffer too small")
	ErrUnknownFormatCode      = errors.New("unknown format code")
	ErrFormatArgumentMismatch = errors.New("format argument mismatch")
	ErrUnsupported            = errors.New("unsupported type")
)

// Status is the outcome of a Pack or Unpack call.
type Status int

const (
	StatusOK Status = iota
	StatusBufferTooSmall
	StatusUnknownFormatCode
	StatusFormatArgumentMismatch
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OKAY"
	case StatusBufferTooSmall:
		return "BUFFER_TOO_SMALL"
	case StatusUnknownFormatCode:
		return "UNKNOWN_FORMAT_CODE"
	case StatusFormatArgumentMismatch:
		return "FORMAT_ARGUMENT_MISMATCH"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Err returns the sentinel error for s, or nil for StatusOK.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusBufferTooSmall:
		return ErrBufferTooSmall
	case StatusUnknownFormatCode:
		return ErrUnknownFormatCode
	case StatusFormatArgumentMismatch:
		return ErrFormatArgumentMismatch
	default:
		return fmt.Errorf("structy: invalid status %d", int(s))
	}
}

// Result reports how a Pack or Unpack call ended. Count is the number of
// values processed; on success it equals the length of the format string.
type Result struct {
	Status Status
	Count  int
}

func (r Result) OK() bool { return r.Status == StatusOK }

func fail(s Status, count int, format string, args ...any) (Result, error) {
	return Result{Status: s, Count: count}, fmt.Errorf("%w: "+format, append([]any{s.Err()}, args...)...)
}

// CalcSize returns the packed size of format.
func CalcSize(format string) (int, error) {
	size := 0
	for i := 0; i < len(format); i++ {
		code, ok := common.Lookup(format[i])
		if !ok {
			return 0, fmt.Errorf("%w: %q at position %d", ErrUnknownFormatCode, format[i], i)
		}
		size += code.Width
	}
	return size, nil
}

// Pack encodes values into dst following format, starting at offset 0.
// The format is checked, then the argument count, then the buffer size,
// before anything is written. A type mismatch is only found when its value
// is reached; Count then reports how many leading values were written.
func Pack(format string, dst []byte, values ...any) (Result, error) {
	size, err := CalcSize(format)
	if err != nil {
		return Result{Status: StatusUnknownFormatCode}, err
	}
	if len(values) != len(format) {
		return fail(StatusFormatArgumentMismatch, 0, "format %q takes %d values, got %d", format, len(format), len(values))
	}
	if len(dst) < size {
		return fail(StatusBufferTooSmall, 0, "format %q needs %d bytes, have %d", format, size, len(dst))
	}

	off := 0
	for i := 0; i < len(format); i++ {
		code, _ := common.Lookup(format[i])
		v := reflect.ValueOf(values[i])
		if v.Kind() != code.Kind {
			return fail(StatusFormatArgumentMismatch, i, "value %d: code %q wants %s, got %T", i, code.Char, code.Name, values[i])
		}
		common.PutFixed(dst[off:off+code.Width], v)
		off += code.Width
	}
	return Result{Status: StatusOK, Count: len(format)}, nil
}

// Unpack decodes src into out following format. Each element of out must be
// a non-nil pointer to a value of the kind its code implies. Checks run in
// the same order as Pack.
func Unpack(format string, src []byte, out ...any) (Result, error) {
	size, err := CalcSize(format)
	if err != nil {
		return Result{Status: StatusUnknownFormatCode}, err
	}
	if len(out) != len(format) {
		return fail(StatusFormatArgumentMismatch, 0, "format %q takes %d slots, got %d", format, len(format), len(out))
	}
	if len(src) < size {
		return fail(StatusBufferTooSmall, 0, "format %q needs %d bytes, have %d", format, size, len(src))
	}

	off := 0
	for i := 0; i < len(format); i++ {
		code, _ := common.Lookup(format[i])
		p := reflect.ValueOf(out[i])
		if p.Kind() != reflect.Pointer || p.IsNil() || p.Elem().Kind() != code.Kind {
			return fail(StatusFormatArgumentMismatch, i, "slot %d: code %q wants *%s, got %T", i, code.Char, code.Name, out[i])
		}
		common.SetFixed(p.Elem(), src[off:off+code.Width])
		off += code.Width
	}
	return Result{Status: StatusOK, Count: len(format)}, nil
}
