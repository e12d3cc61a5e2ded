package fix16

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloatBasic(t *testing.T) {
	assert.Equal(t, int32(65536), FromFloat(1.0).Raw())
	assert.Equal(t, int32(-65536), FromFloat(-1.0).Raw())
	assert.Equal(t, int32(655360), FromFloat(10.0).Raw())
	assert.Equal(t, int32(-655360), FromFloat(-10.0).Raw())
	assert.Equal(t, One, FromFloat(1.0))
}

func TestFromFloatRounding(t *testing.T) {
	cases := []struct {
		in   float64
		want uint32
	}{
		{-1.01, 0xFFFEFD71},
		{1.01, 0x0001028F},
		{1.0, 0x00010000},
		{0.05, 0x00000CCD},
		{0.2, 0x00003333},
		{0.1, 0x0000199A},
		{30.0, 0x001E0000},
		{0.0, 0x00000000},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, uint32(FromFloat(c.in)), "FromFloat(%v)", c.in)
	}
}

func TestFromFloatSaturates(t *testing.T) {
	assert.Equal(t, Maximum, FromFloat(65530.0))
	assert.Equal(t, Minimum, FromFloat(-65530.0))
	assert.Equal(t, Fix16(0), FromFloat(math.NaN()))
	assert.Equal(t, Maximum, FromInt(40000))
	assert.Equal(t, Minimum, FromInt(-40000))
	assert.Equal(t, FromFloat(-3), FromInt(-3))
}

func TestText(t *testing.T) {
	cases := []struct {
		in   float64
		prec int
		want string
	}{
		{-1.01, 2, "-1.01"},
		{1.01, 2, "1.01"},
		{0.05, 2, "0.05"},
		{0.2, 2, "0.20"},
		{0.0, 2, "0.00"},
		{1.0, 2, "1.00"},
		{0.1, 2, "0.10"},
		{30.0, 2, "30.00"},
		{10.5, 0, "10"},
		{10.5, 3, "10.500"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FromFloat(c.in).Text(c.prec), "Text(%v, %d)", c.in, c.prec)
	}
}

func TestTextRoundTripsTwoDigitLiterals(t *testing.T) {
	for n := -1000; n <= 1000; n++ {
		lit := float64(n) / 100
		f := FromFloat(lit)
		back, err := Parse(f.Text(2))
		require.NoError(t, err)
		require.Equal(t, f, back, "literal %v", lit)
	}
}

func TestStringAndGoString(t *testing.T) {
	a := FromFloat(10.5)
	assert.Equal(t, "10.5Q16.16", a.String())
	assert.Equal(t, "<Fix16 0x000a8000 10.5>", a.GoString())
}

func TestParse(t *testing.T) {
	f, err := Parse(" -1.01 ")
	require.NoError(t, err)
	assert.Equal(t, FromFloat(-1.01), f)

	_, err = Parse("abc")
	require.ErrorIs(t, err, ErrSyntax)
	_, err = Parse("inf")
	require.ErrorIs(t, err, ErrSyntax)
}

func TestSaturate(t *testing.T) {
	a := FromFloat(65530.0)
	b := FromFloat(100.0)
	assert.Equal(t, FromFloat(65535.0), a.Add(b))

	a = FromFloat(-65530.0)
	assert.Equal(t, FromFloat(-65535.0), a.Sub(b))
	assert.Equal(t, Maximum, Minimum.Neg())
}

func TestOperations(t *testing.T) {
	a := FromFloat(10.5)
	b := FromFloat(5.25)

	assert.Equal(t, FromFloat(15.75), a.Add(b))
	assert.Equal(t, FromFloat(5.25), a.Sub(b))
	assert.Equal(t, FromFloat(55.125), a.Mul(b))
	assert.Equal(t, FromFloat(-55.125), a.Mul(b.Neg()))
	assert.Equal(t, FromFloat(2), a.Div(b))
	assert.Equal(t, FromFloat(-2), a.Div(b.Neg()))
	assert.Equal(t, FromRaw(0x15), a.Div(Maximum))
	assert.Equal(t, Maximum, a.Div(FromRaw(0x15)))
	assert.Equal(t, Fix16(0), a.Mod(b))
	assert.Equal(t, Minimum, a.Div(0))
	assert.Equal(t, Fix16(0), a.Mod(0))
}

func TestModIsFloored(t *testing.T) {
	assert.Equal(t, FromFloat(1.5), FromFloat(-3.5).Mod(FromFloat(2.5)))
	assert.Equal(t, FromFloat(-1.5), FromFloat(3.5).Mod(FromFloat(-2.5)))
	assert.Equal(t, FromFloat(1.0), FromFloat(3.5).Mod(FromFloat(2.5)))
}

func TestIntegerArithmeticIsExact(t *testing.T) {
	condition := func(x, y int8) bool {
		a, b := FromInt(int(x)), FromInt(int(y))
		if a.Add(b) != FromInt(int(x)+int(y)) {
			return false
		}
		if a.Mul(b) != FromInt(int(x)*int(y)) {
			return false
		}
		return a.Sub(b) == FromInt(int(x)-int(y))
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestFloatIsExact(t *testing.T) {
	condition := func(raw int32) bool {
		return FromFloat(FromRaw(raw).Float()) == FromRaw(raw)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}
