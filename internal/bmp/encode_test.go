package bmp

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLayout(t *testing.T) {
	b, err := NewBitmap(2, 2)
	require.NoError(t, err)
	b.SetPixel(0, 0, Pixel{B: 1, G: 2, R: 3, A: 4}) // top-left
	b.SetPixel(1, 1, Pixel{B: 5, G: 6, R: 7, A: 8}) // bottom-right

	data, err := encodeBytes(b)
	require.NoError(t, err)
	require.Len(t, data, 54+16)

	le := binary.LittleEndian
	assert.Equal(t, "BM", string(data[0:2]))
	assert.Equal(t, uint32(70), le.Uint32(data[2:6]), "file size")
	assert.Equal(t, uint32(54), le.Uint32(data[10:14]), "pixel offset")
	assert.Equal(t, uint32(40), le.Uint32(data[14:18]), "info header size")
	assert.Equal(t, int32(2), int32(le.Uint32(data[18:22])))
	assert.Equal(t, int32(2), int32(le.Uint32(data[22:26])), "positive height: bottom-up")
	assert.Equal(t, uint16(1), le.Uint16(data[26:28]))
	assert.Equal(t, uint16(32), le.Uint16(data[28:30]))
	assert.Equal(t, uint32(CompressionRGB), le.Uint32(data[30:34]))
	assert.Equal(t, uint32(16), le.Uint32(data[34:38]))
	assert.Equal(t, uint32(3780), le.Uint32(data[38:42]), "96 dpi")
	assert.Equal(t, uint32(3780), le.Uint32(data[42:46]))
	assert.Equal(t, uint32(0), le.Uint32(data[46:50]), "no palette")

	// bottom row first
	assert.Equal(t, []byte{0, 0, 0, 0, 5, 6, 7, 8}, data[54:62])
	assert.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0}, data[62:70])
}

func TestEncodeDPI(t *testing.T) {
	assert.Equal(t, int32(2835), dpiToPelsPerMeter(72))
	assert.Equal(t, int32(3780), dpiToPelsPerMeter(96))
	assert.Equal(t, int32(11811), dpiToPelsPerMeter(300))

	b, err := NewBitmap(1, 1)
	require.NoError(t, err)
	var out []byte
	sink := NewCallbackSink(func(p []byte) error {
		out = append(out, p...)
		return nil
	})
	require.NoError(t, New(WithDPI(72)).Encode(sink, b))
	assert.Equal(t, uint32(2835), binary.LittleEndian.Uint32(out[38:42]))
}

func TestEncodeSinkErrorUnchanged(t *testing.T) {
	b, err := NewBitmap(3, 3)
	require.NoError(t, err)

	cause := errors.New("broken pipe")
	writes := 0
	sink := NewCallbackSink(func([]byte) error {
		writes++
		if writes == 2 {
			return cause
		}
		return nil
	})
	assert.Equal(t, cause, Encode(sink, b))
}

func TestEncodeRejectsInconsistentBitmap(t *testing.T) {
	tests := []struct {
		name   string
		bitmap *Bitmap
	}{
		{"nil", nil},
		{"zero size", &Bitmap{}},
		{"bad stride", &Bitmap{Width: 2, Height: 1, Stride: 4, Pix: make([]byte, 8)}},
		{"short buffer", &Bitmap{Width: 2, Height: 2, Stride: 8, Pix: make([]byte, 15)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			sink := NewCallbackSink(func([]byte) error {
				called = true
				return nil
			})
			err := Encode(sink, tt.bitmap)
			assert.ErrorIs(t, err, ErrInvalidData)
			assert.False(t, called, "nothing written")
		})
	}
}
