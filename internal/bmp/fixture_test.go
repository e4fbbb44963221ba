package bmp

import (
	"bytes"
	"encoding/binary"
)

// fixture builds BMP byte streams field by field
type fixture struct {
	headerSize  uint32
	width       int32
	height      int32
	bitCount    uint16
	compression uint32
	colorsUsed  uint32
	extension   []byte   // bytes after the 40 fixed bytes of a larger header
	palette     [][]byte // raw entries, 3 or 4 bytes each
	rows        [][]byte // unpadded rows, in file order
}

func (f fixture) bytes() []byte {
	if f.headerSize == 0 {
		f.headerSize = InfoHeaderSize
	}
	var info bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&info, le, f.headerSize)
	if f.headerSize == CoreHeaderSize {
		_ = binary.Write(&info, le, uint16(f.width))
		_ = binary.Write(&info, le, uint16(f.height))
	} else {
		_ = binary.Write(&info, le, f.width)
		_ = binary.Write(&info, le, f.height)
	}
	_ = binary.Write(&info, le, uint16(1))
	_ = binary.Write(&info, le, f.bitCount)
	_ = binary.Write(&info, le, f.compression)
	_ = binary.Write(&info, le, uint32(0)) // size image
	_ = binary.Write(&info, le, int32(2835))
	_ = binary.Write(&info, le, int32(2835))
	_ = binary.Write(&info, le, f.colorsUsed)
	_ = binary.Write(&info, le, uint32(0)) // important
	info.Write(f.extension)

	var palette bytes.Buffer
	for _, entry := range f.palette {
		palette.Write(entry)
	}

	var pixels bytes.Buffer
	absWidth := int(f.width)
	if f.headerSize == CoreHeaderSize {
		absWidth = int(uint16(f.width))
	}
	stride := diskStride(int(f.bitCount), absWidth)
	for _, row := range f.rows {
		line := make([]byte, stride)
		copy(line, row)
		pixels.Write(line)
	}

	offBits := uint32(FileHeaderSize + info.Len() + palette.Len())
	var out bytes.Buffer
	out.WriteString("BM")
	_ = binary.Write(&out, le, offBits+uint32(pixels.Len()))
	_ = binary.Write(&out, le, uint32(0)) // reserved
	_ = binary.Write(&out, le, offBits)
	out.Write(info.Bytes())
	out.Write(palette.Bytes())
	out.Write(pixels.Bytes())
	return out.Bytes()
}

// oneByteAtATime is a push-style source handing out a single byte per call
func oneByteAtATime(data []byte) GetBytesFunc {
	pos := 0
	return func(p []byte) int {
		if pos >= len(data) {
			return 0
		}
		p[0] = data[pos]
		pos++
		return 1
	}
}

func decodeBytes(data []byte) (*Bitmap, error) {
	return Decode(NewFileSource(bytes.NewReader(data)))
}

func encodeBytes(b *Bitmap) ([]byte, error) {
	var buf bytes.Buffer
	err := Encode(NewFileSink(&buf), b)
	return buf.Bytes(), err
}

func opaque(r, g, b byte) Pixel {
	return Pixel{R: r, G: g, B: b, A: 0xff}
}
