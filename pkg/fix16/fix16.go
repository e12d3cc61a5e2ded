// Package fix16 implements Q16.16 signed fixed-point values: a 32-bit
// integer holding value*65536.
//
// Arithmetic follows libfixmath's fix16 and saturates at Maximum and
// Minimum instead of wrapping.
package fix16

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// Fix16 is a Q16.16 fixed-point value.
type Fix16 int32

const (
	One     Fix16 = 0x00010000
	Maximum Fix16 = math.MaxInt32
	Minimum Fix16 = math.MinInt32
)

var ErrSyntax = errors.New("invalid fixed-point literal")

func clamp(x int64) Fix16 {
	if x > math.MaxInt32 {
		return Maximum
	}
	if x < math.MinInt32 {
		return Minimum
	}
	return Fix16(x)
}

// FromFloat converts x to the nearest Q16.16 value, rounding half away
// from zero. Values beyond the representable range saturate.
func FromFloat(x float64) Fix16 {
	if math.IsNaN(x) {
		return 0
	}
	v := x * 65536.0
	if v >= 0 {
		v += 0.5
	} else {
		v -= 0.5
	}
	if v >= math.MaxInt32 {
		return Maximum
	}
	if v <= math.MinInt32 {
		return Minimum
	}
	return Fix16(int32(v))
}

// FromInt converts an integer, saturating outside ±32767.
func FromInt(n int) Fix16 {
	if n > math.MaxInt32>>16 {
		return Maximum
	}
	if n < math.MinInt32>>16 {
		return Minimum
	}
	return Fix16(int32(n) << 16)
}

// FromRaw reinterprets raw as a Q16.16 value.
func FromRaw(raw int32) Fix16 { return Fix16(raw) }

func (f Fix16) Raw() int32 { return int32(f) }

// Float returns the value as a float64. The conversion is exact.
func (f Fix16) Float() float64 { return float64(f) / float64(One) }

// Text renders f with exactly precision fractional digits. The value is
// narrowed to float32 first, so output matches a C printf("%.*f") of the
// same value.
func (f Fix16) Text(precision int) string {
	if precision < 0 {
		precision = 0
	}
	v := float32(f) / float32(One)
	return strconv.FormatFloat(float64(v), 'f', precision, 32)
}

func (f Fix16) String() string {
	return strconv.FormatFloat(f.Float(), 'g', -1, 64) + "Q16.16"
}

func (f Fix16) GoString() string {
	return fmt.Sprintf("<Fix16 0x%08x %s>", uint32(f), strconv.FormatFloat(f.Float(), 'g', -1, 64))
}

// Parse reads a decimal literal such as "-1.01" or "30".
func Parse(s string) (Fix16, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(x, 0) || math.IsNaN(x) {
		return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return FromFloat(x), nil
}

func (f Fix16) Add(g Fix16) Fix16 { return clamp(int64(f) + int64(g)) }

func (f Fix16) Sub(g Fix16) Fix16 { return clamp(int64(f) - int64(g)) }

func (f Fix16) Neg() Fix16 { return clamp(-int64(f)) }

// Mul multiplies with rounding to nearest.
func (f Fix16) Mul(g Fix16) Fix16 {
	product := int64(f) * int64(g)
	// negative products round towards zero without this
	if product < 0 {
		product--
	}
	result := product >> 16
	result += (product & 0x8000) >> 15
	return clamp(result)
}

// Div divides with rounding to nearest. Division by zero returns Minimum.
func (f Fix16) Div(g Fix16) Fix16 {
	if g == 0 {
		return Minimum
	}
	a, b := int64(f), int64(g)
	remainder := uint64(abs(a))
	divider := uint64(abs(b))
	var quotient uint64
	bitPos := 17

	// kick-start the division for large dividers
	if divider&0xFFF00000 != 0 {
		shifted := (divider >> 17) + 1
		quotient = remainder / shifted
		remainder -= (quotient * divider) >> 17
	}

	for divider&0xF == 0 && bitPos >= 4 {
		divider >>= 4
		bitPos -= 4
	}

	for remainder != 0 && bitPos >= 0 {
		shift := bits.LeadingZeros64(remainder)
		if shift > bitPos {
			shift = bitPos
		}
		remainder <<= uint(shift)
		bitPos -= shift

		div := remainder / divider
		remainder %= divider
		quotient += div << uint(bitPos)

		remainder <<= 1
		bitPos--
	}

	quotient++
	result := int64(quotient >> 1)
	if (a < 0) != (b < 0) {
		result = -result
	}
	return clamp(result)
}

// Mod returns the floored remainder of f/g, taking the sign of g.
// Modulo by zero returns 0.
func (f Fix16) Mod(g Fix16) Fix16 {
	if g == 0 {
		return 0
	}
	r := int64(f) % int64(g)
	if r != 0 && (r < 0) != (g < 0) {
		r += int64(g)
	}
	return clamp(r)
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
