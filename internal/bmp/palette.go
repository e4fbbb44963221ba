package bmp

// Palette is the decode-time color table, one packed ARGB value per entry:
// alpha in bits 24-31, red 16-23, green 8-15, blue 0-7
type Palette []uint32

// Reads count entries: RGBTRIPLE (legacy) or RGBQUAD, both stored blue first.
// Entries past the first 256 are consumed and dropped.
func readPalette(src *Source, count int, legacy bool) (Palette, error) {
	if count == 0 {
		return nil, nil
	}

	size := 4
	if legacy {
		size = 3
	}

	palette := make(Palette, min(count, maxPaletteEntries))
	entry := make([]byte, size)
	for i := range palette {
		if err := src.readFull(entry, "palette entry"); err != nil {
			return nil, err
		}
		alpha := uint32(0xff) // implied opaque
		if !legacy {
			alpha = uint32(entry[3])
		}
		palette[i] = alpha<<24 | uint32(entry[2])<<16 | uint32(entry[1])<<8 | uint32(entry[0])
	}
	if err := src.skip((count-len(palette))*size, "palette entry"); err != nil {
		return nil, err
	}
	return palette, nil
}

// Looks up index, failing on entries the table does not have
func (p Palette) lookup(index int) (b, g, r byte, err error) {
	if index >= len(p) {
		return 0, 0, 0, errorf(InvalidData, "palette index %d out of %d entries", index, len(p))
	}
	c := p[index]
	return byte(c), byte(c >> 8), byte(c >> 16), nil
}
