package gemsettings

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/structy"
	"github.com/rawbytedev/structy/pkg/fix16"
)

var refData = []byte{
	/* 2048 */ 0x08, 0x00,
	/* 0 */ 0x00, 0x00,
	/* 127 */ 0x00, 0x7F,
	/* -1.01 */ 0xFF, 0xFE, 0xFD, 0x71,
	/* 1.01 */ 0x00, 0x01, 0x02, 0x8F,
	/* -1.01 */ 0xFF, 0xFE, 0xFD, 0x71,
	/* 1.01 */ 0x00, 0x01, 0x02, 0x8F,
	/* 0.05 */ 0x00, 0x00, 0x0C, 0xCD,
	/* 0.2 */ 0x00, 0x00, 0x33, 0x33,
	/* 0.0 */ 0x00, 0x00, 0x00, 0x00,
	/* 1.0 */ 0x00, 0x01, 0x00, 0x00,
	/* 0.1 */ 0x00, 0x00, 0x19, 0x9A,
	/* 30.0 */ 0x00, 0x1E, 0x00, 0x00,
	/* 56 */ 0x00, 0x38,
	/* false */ 0x00,
	/* false */ 0x00,
	/* 0 */ 0x00, 0x00, 0x00, 0x00,
}

const refText = `Struct GemSettings:
- adc_gain_corr: 2048
- adc_offset_corr: 0
- led_brightness: 127
- castor_knob_min: -1.01
- castor_knob_max: 1.01
- pollux_knob_min: -1.01
- pollux_knob_max: 1.01
- chorus_max_intensity: 0.05
- chorus_max_frequency: 0.20
- knob_offset_corr: 0.00
- knob_gain_corr: 1.00
- smooth_initial_gain: 0.10
- smooth_sensitivity: 30.00
- pollux_follower_threshold: 56
- castor_lfo_pwm: 0
- pollux_lfo_pwm: 0
- test_field: 0
`

func requireDefaults(t *testing.T, s *GemSettings) {
	t.Helper()
	assert.Equal(t, uint16(2048), s.AdcGainCorr)
	assert.Equal(t, int16(0), s.AdcOffsetCorr)
	assert.Equal(t, uint16(127), s.LedBrightness)
	assert.Equal(t, fix16.FromFloat(-1.01), s.CastorKnobMin)
	assert.Equal(t, fix16.FromFloat(1.01), s.CastorKnobMax)
	assert.Equal(t, fix16.FromFloat(-1.01), s.PolluxKnobMin)
	assert.Equal(t, fix16.FromFloat(1.01), s.PolluxKnobMax)
	assert.Equal(t, fix16.FromFloat(0.05), s.ChorusMaxIntensity)
	assert.Equal(t, fix16.FromFloat(0.2), s.ChorusMaxFrequency)
	assert.Equal(t, fix16.FromFloat(0.0), s.KnobOffsetCorr)
	assert.Equal(t, fix16.FromFloat(1.0), s.KnobGainCorr)
	assert.Equal(t, fix16.FromFloat(0.1), s.SmoothInitialGain)
	assert.Equal(t, fix16.FromFloat(30.0), s.SmoothSensitivity)
	assert.Equal(t, uint16(56), s.PolluxFollowerThreshold)
	assert.False(t, s.CastorLfoPwm)
	assert.False(t, s.PolluxLfoPwm)
	assert.Equal(t, int32(0), s.TestField)
}

func TestSchema(t *testing.T) {
	assert.Equal(t, "GemSettings", Schema.Name)
	assert.Equal(t, "HhHiiiiiiiiiiH??i", Schema.Format())
	assert.Equal(t, PackedSize, Schema.PackedSize())
	assert.Len(t, refData, PackedSize)

	format, err := structy.FormatOf(GemSettings{})
	require.NoError(t, err)
	assert.Equal(t, Schema.Format(), format)
}

func TestInit(t *testing.T) {
	var s GemSettings
	s.Init()
	requireDefaults(t, &s)
	requireDefaults(t, New())
}

func TestPack(t *testing.T) {
	s := New()
	buf := make([]byte, PackedSize)
	require.NoError(t, s.Pack(buf))
	assert.Equal(t, refData, buf)
	assert.Equal(t, refData, s.Bytes())

	r := NewRecord()
	r.Init()
	assert.Equal(t, refData, r.Bytes())
}

func TestPackBufferTooSmall(t *testing.T) {
	err := New().Pack(make([]byte, PackedSize-1))
	require.ErrorIs(t, err, structy.ErrBufferTooSmall)
}

func TestUnpack(t *testing.T) {
	var s GemSettings
	require.NoError(t, s.Unpack(refData))
	requireDefaults(t, &s)

	r := NewRecord()
	require.NoError(t, r.Unpack(refData))
	assert.Equal(t, refText, r.String())
}

func TestUnpackShortBufferKeepsSettings(t *testing.T) {
	s := New()
	s.LedBrightness = 3
	before := *s
	err := s.Unpack(refData[:PackedSize-1])
	require.ErrorIs(t, err, structy.ErrBufferTooSmall)
	assert.Equal(t, before, *s)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().Print(&buf))
	assert.Equal(t, refText, buf.String())
	assert.Equal(t, refText, New().String())
}

func TestPrintChangedValues(t *testing.T) {
	s := New()
	s.CastorLfoPwm = true
	s.SmoothSensitivity = fix16.FromFloat(-12.345)
	s.TestField = -7
	out := s.String()
	assert.Contains(t, out, "- castor_lfo_pwm: 1\n")
	assert.Contains(t, out, "- smooth_sensitivity: -12.35\n")
	assert.Contains(t, out, "- test_field: -7\n")
}

func TestPackUnpackPackIsStable(t *testing.T) {
	s := New()
	s.AdcOffsetCorr = -12
	s.KnobGainCorr = fix16.FromFloat(0.987)
	s.PolluxLfoPwm = true
	s.TestField = 123456
	first := s.Bytes()

	var back GemSettings
	require.NoError(t, back.Unpack(first))
	assert.Equal(t, *s, back)
	assert.Equal(t, first, back.Bytes())
}

func TestTypedAndRecordAgree(t *testing.T) {
	s := New()
	s.ChorusMaxFrequency = fix16.FromFloat(0.75)
	s.LedBrightness = 255

	r := NewRecord()
	require.NoError(t, r.Import(s))
	assert.Equal(t, s.Bytes(), r.Bytes())
}
