// Package gemsettings is the settings record for the Gemini oscillator
// firmware, built from the embedded gemsettings.yaml schema.
package gemsettings

import (
	_ "embed"
	"io"

	"github.com/rawbytedev/structy"
	"github.com/rawbytedev/structy/pkg/fix16"
	"github.com/rawbytedev/structy/pkg/record"
)

//go:embed gemsettings.yaml
var schemaYAML []byte

// Schema is the GemSettings field table.
var Schema = record.MustParseSchema(schemaYAML)

// PackedSize is the total size of GemSettings once packed. It must match
// gemsettings.yaml and the struct below; TestSchema checks all three.
const PackedSize = 54

// GemSettings holds one set of settings. Field order is the packed layout.
type GemSettings struct {
	AdcGainCorr             uint16      `structy:"adc_gain_corr"`
	AdcOffsetCorr           int16       `structy:"adc_offset_corr"`
	LedBrightness           uint16      `structy:"led_brightness"`
	CastorKnobMin           fix16.Fix16 `structy:"castor_knob_min"`
	CastorKnobMax           fix16.Fix16 `structy:"castor_knob_max"`
	PolluxKnobMin           fix16.Fix16 `structy:"pollux_knob_min"`
	PolluxKnobMax           fix16.Fix16 `structy:"pollux_knob_max"`
	ChorusMaxIntensity      fix16.Fix16 `structy:"chorus_max_intensity"`
	ChorusMaxFrequency      fix16.Fix16 `structy:"chorus_max_frequency"`
	KnobOffsetCorr          fix16.Fix16 `structy:"knob_offset_corr"`
	KnobGainCorr            fix16.Fix16 `structy:"knob_gain_corr"`
	SmoothInitialGain       fix16.Fix16 `structy:"smooth_initial_gain"`
	SmoothSensitivity       fix16.Fix16 `structy:"smooth_sensitivity"`
	PolluxFollowerThreshold uint16      `structy:"pollux_follower_threshold"`
	CastorLfoPwm            bool        `structy:"castor_lfo_pwm"`
	PolluxLfoPwm            bool        `structy:"pollux_lfo_pwm"`
	TestField               int32       `structy:"test_field"`
}

// New returns settings initialized to their defaults.
func New() *GemSettings {
	s := &GemSettings{}
	s.Init()
	return s
}

// NewRecord returns an untyped record for the GemSettings schema.
func NewRecord() *record.Record {
	return record.MustNew(Schema)
}

// Init sets every field to its default.
func (s *GemSettings) Init() {
	r := NewRecord()
	r.Init()
	if err := r.Export(s); err != nil {
		panic(err)
	}
}

// Pack writes s into dst, which must hold at least PackedSize bytes.
func (s *GemSettings) Pack(dst []byte) error {
	_, err := structy.PackStruct(dst, s)
	return err
}

// Bytes packs s into a new PackedSize buffer.
func (s *GemSettings) Bytes() []byte {
	buf := make([]byte, PackedSize)
	if err := s.Pack(buf); err != nil {
		panic(err)
	}
	return buf
}

// Unpack replaces s with the settings stored in src. On error s is left
// unchanged.
func (s *GemSettings) Unpack(src []byte) error {
	_, err := structy.UnpackStruct(src, s)
	return err
}

// Print writes s in the record text format.
func (s *GemSettings) Print(w io.Writer) error {
	r := NewRecord()
	if err := r.Import(s); err != nil {
		return err
	}
	return r.Print(w)
}

func (s *GemSettings) String() string {
	r := NewRecord()
	if err := r.Import(s); err != nil {
		return err.Error()
	}
	return r.String()
}
