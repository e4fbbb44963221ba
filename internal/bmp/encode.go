package bmp

// Writes b as an uncompressed 32bpp BMP with a BITMAPINFOHEADER,
// no palette and bottom-up rows
func encode(sink *Sink, b *Bitmap, pelsPerMeter int32) error {
	if err := b.Validate(); err != nil {
		return err
	}

	sizeImage := uint32(b.Stride * b.Height)
	var h [FileHeaderSize + InfoHeaderSize]byte

	// File Header
	fh := FileHeader{
		Type:    [2]byte{'B', 'M'},
		OffBits: FileHeaderSize + InfoHeaderSize, // no palette bytes
	}
	fh.Size = fh.OffBits + sizeImage
	putFileHeader(h[:FileHeaderSize], &fh)

	// Info Header
	putInfoHeader(h[FileHeaderSize:], &InfoHeader{
		Size:        InfoHeaderSize,
		Width:       int32(b.Width),
		Height:      int32(b.Height), // positive: bottom-up
		Planes:      1,
		BitCount:    32,
		Compression: CompressionRGB,
		SizeImage:   sizeImage,
		XPixelsPerM: pelsPerMeter,
		YPixelsPerM: pelsPerMeter,
	})

	if err := sink.WriteExact(h[:]); err != nil {
		return err
	}

	// Write the pixels (BottomUp: last row first)
	for row := b.Height - 1; row >= 0; row-- {
		if err := sink.WriteExact(b.Row(row)); err != nil {
			return err
		}
	}
	return nil
}

func putFileHeader(buf []byte, fh *FileHeader) {
	buf[0], buf[1] = fh.Type[0], fh.Type[1]
	putUint32(buf[2:6], fh.Size)
	putUint16(buf[6:8], fh.Reserved1)
	putUint16(buf[8:10], fh.Reserved2)
	putUint32(buf[10:14], fh.OffBits)
}

func putInfoHeader(buf []byte, ih *InfoHeader) {
	putUint32(buf[0:4], ih.Size)
	putUint32(buf[4:8], uint32(ih.Width))
	putUint32(buf[8:12], uint32(ih.Height))
	putUint16(buf[12:14], ih.Planes)
	putUint16(buf[14:16], ih.BitCount)
	putUint32(buf[16:20], ih.Compression)
	putUint32(buf[20:24], ih.SizeImage)
	putUint32(buf[24:28], uint32(ih.XPixelsPerM))
	putUint32(buf[28:32], uint32(ih.YPixelsPerM))
	putUint32(buf[32:36], ih.ColorsUsed)
	putUint32(buf[36:40], ih.ColorsImportant)
}

// Pixels per meter for a resolution in dots per inch; 1 meter is 39.37 inches
func dpiToPelsPerMeter(dpi float64) int32 {
	return int32(0.5 + (dpi*3937)/100)
}
