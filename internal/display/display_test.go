package display

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  string
	}{
		{"number 7", NumberFrame(7), "   7"},
		{"number 42", NumberFrame(42), "  42"},
		{"number 900", NumberFrame(900), " 900"},
		{"number 1234", NumberFrame(1234), "1234"},
		{"timer 0", TimerFrame(0), "  0.0"},
		{"timer 1500", TimerFrame(1500), "  1.5"},
		{"timer 12345", TimerFrame(12345), " 12.3"},
		{"timer 123456", TimerFrame(123456), "123.4"},
		{"config 3d20", ConfigFrame(3, 20), "3d20"},
		{"config 1d4", ConfigFrame(1, 4), "1d04"},
		{"config 9d100", ConfigFrame(9, 100), "9d00"},
		{"empty", nil, "    "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.frame))
		})
	}
}

func TestFrames_Encoding(t *testing.T) {
	f := NumberFrame(5)
	require.Len(t, f, 1)
	assert.Equal(t, Cell{Segments: 0x92, Digit: 0xF8}, f[0])

	f = TimerFrame(2000)
	require.Len(t, f, 2)
	assert.Equal(t, Cell{Segments: 0xA4 &^ 0x80, Digit: 0xF4}, f[0], "секунды с точкой")
	assert.Equal(t, Cell{Segments: 0xC0, Digit: 0xF8}, f[1])

	f = ConfigFrame(2, 6)
	require.Len(t, f, 4)
	assert.Equal(t, Cell{Segments: 0xA1, Digit: 0xF2}, f[1])
}

func TestGlyph_Unknown(t *testing.T) {
	assert.Equal(t, "?", glyph(0xFE))
	assert.Equal(t, "    ", Text(Frame{{Segments: 0xC0, Digit: 0x00}}))
}

// recLine записывает все уровни, выставленные на линию.
type recLine struct {
	levels []gpio.Level
	err    error
}

func (r *recLine) Out(l gpio.Level) error {
	if r.err != nil {
		return r.err
	}
	r.levels = append(r.levels, l)
	return nil
}

func bitsOf(levels []gpio.Level) byte {
	var v byte
	for _, l := range levels {
		v <<= 1
		if l {
			v |= 1
		}
	}
	return v
}

func TestShiftRegister_MSBFirst(t *testing.T) {
	latch, clock, data := &recLine{}, &recLine{}, &recLine{}
	sr := NewShiftRegister(latch, clock, data)
	require.NoError(t, sr.Show(Frame{{Segments: 0xA4, Digit: 0xF2}}))

	assert.Equal(t, []gpio.Level{gpio.Low, gpio.High}, latch.levels)
	require.Len(t, data.levels, 16)
	assert.Len(t, clock.levels, 32)
	assert.Equal(t, byte(0xA4), bitsOf(data.levels[:8]))
	assert.Equal(t, byte(0xF2), bitsOf(data.levels[8:]))
}

func TestShiftRegister_LSBFirst(t *testing.T) {
	latch, clock, data := &recLine{}, &recLine{}, &recLine{}
	sr := NewShiftRegister(latch, clock, data)
	sr.Order = LSBFirst
	require.NoError(t, sr.Show(Frame{{Segments: 0x01, Digit: 0x80}}))

	require.Len(t, data.levels, 16)
	assert.Equal(t, gpio.High, data.levels[0])
	assert.Equal(t, byte(0x80), bitsOf(data.levels[:8]), "0x01 задом наперёд")
	assert.Equal(t, byte(0x01), bitsOf(data.levels[8:]))
}

func TestShiftRegister_Error(t *testing.T) {
	boom := errors.New("boom")
	sr := NewShiftRegister(&recLine{}, &recLine{}, &recLine{err: boom})
	err := sr.Show(NumberFrame(1))
	assert.ErrorIs(t, err, boom)
}

func TestSerial_WritesOnChange(t *testing.T) {
	var buf bytes.Buffer
	s := NewSerialWriter(&buf)
	require.NoError(t, s.Show(ConfigFrame(1, 6)))
	require.NoError(t, s.Show(ConfigFrame(1, 6)))
	require.NoError(t, s.Show(NumberFrame(17)))
	assert.Equal(t, "1d06\r\n  17\r\n", buf.String())
	assert.NoError(t, s.Close())
}
