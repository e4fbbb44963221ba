package bmp

// Depths the unpacker can expand
func supportedDepth(bitCount uint16) bool {
	switch bitCount {
	case 1, 4, 8, 24, 32:
		return true
	}
	return false
}

// Decodes every scanline into a freshly allocated canonical bitmap
func unpack(src *Source, h *Header, palette Palette) (*Bitmap, error) {
	if !supportedDepth(h.Info.BitCount) {
		return nil, errorf(UnsupportedFeature, "bit depth %d", h.Info.BitCount)
	}
	if (h.Info.BitCount == 4 || h.Info.BitCount == 8) && len(palette) == 0 {
		return nil, errorf(InvalidData, "indexed %dbpp image without a palette", h.Info.BitCount)
	}

	if h.Height > maxPixelBytes/CanonicalStride(h.Width) {
		return nil, errorf(InvalidData, "image %dx%d exceeds %d bytes of pixels", h.Width, h.Height, maxPixelBytes)
	}

	bitmap, err := NewBitmap(h.Width, h.Height)
	if err != nil {
		return nil, errorf(InvalidData, "%v", err)
	}

	// Size of the lines on disk
	line := make([]byte, diskStride(int(h.Info.BitCount), h.Width))

	for i := range h.Height {
		row := i
		if h.Orientation == BottomUp {
			row = h.Height - i - 1
		}

		if err := src.readFull(line, "scanline"); err != nil {
			return nil, err
		}

		switch h.Info.BitCount {
		case 1:
			unpack1(bitmap, row, line)
		case 4:
			err = unpack4(bitmap, row, line, palette)
		case 8:
			err = unpack8(bitmap, row, line, palette)
		case 24:
			unpack24(bitmap, row, line)
		case 32:
			unpack32(bitmap, row, line)
		}
		if err != nil {
			return nil, err
		}
	}

	return bitmap, nil
}

// MSB first; a fixed black/white mapping, the palette is not consulted
func unpack1(b *Bitmap, row int, line []byte) {
	for col := range b.Width {
		if (line[col/8]<<(col%8))&0x80 != 0 {
			b.setBGRA(row, col, 0xff, 0xff, 0xff, 0xff)
		} else {
			b.setBGRA(row, col, 0x00, 0x00, 0x00, 0xff)
		}
	}
}

// High nibble then low nibble
func unpack4(b *Bitmap, row int, line []byte, palette Palette) error {
	for col := range b.Width {
		index := line[col/2] >> 4
		if col%2 == 1 {
			index = line[col/2] & 0x0f
		}
		blue, green, red, err := palette.lookup(int(index))
		if err != nil {
			return err
		}
		b.setBGRA(row, col, blue, green, red, 0xff)
	}
	return nil
}

func unpack8(b *Bitmap, row int, line []byte, palette Palette) error {
	for col := range b.Width {
		blue, green, red, err := palette.lookup(int(line[col]))
		if err != nil {
			return err
		}
		b.setBGRA(row, col, blue, green, red, 0xff)
	}
	return nil
}

func unpack24(b *Bitmap, row int, line []byte) {
	for col := range b.Width {
		src := line[col*3 : col*3+3]
		b.setBGRA(row, col, src[0], src[1], src[2], 0xff)
	}
}

// Alpha is kept as stored
func unpack32(b *Bitmap, row int, line []byte) {
	copy(b.Row(row)[:b.Width*BytesPerPixel], line[:b.Width*BytesPerPixel])
}
