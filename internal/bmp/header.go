package bmp

import (
	"fmt"
	"io"
)

// Header is the normalized result of parsing the file and info headers
type Header struct {
	File        FileHeader
	Info        InfoHeader
	Legacy      bool        // OS/2 core header: 16-bit dimensions, 3-byte palette entries
	Orientation Orientation // row order of the pixel data
	Width       int
	Height      int // absolute value of Info.Height
	Colours     int // palette entries following the header
}

// Reads and validates the file header and one of the info header variants
func parseHeaders(src *Source) (*Header, error) {
	var h Header
	buf := make([]byte, 24)

	// File Header
	if err := src.readFull(buf[:FileHeaderSize], "file header"); err != nil {
		return nil, err
	}
	if getUint16(buf[0:2]) != signature {
		return nil, errorf(UnrecognizedFormat, "bad signature %q", buf[0:2])
	}
	h.File = FileHeader{
		Type:      [2]byte{buf[0], buf[1]},
		Size:      getUint32(buf[2:6]),
		Reserved1: getUint16(buf[6:8]),
		Reserved2: getUint16(buf[8:10]),
		OffBits:   getUint32(buf[10:14]),
	}

	// Info header size discriminates the variant
	if err := src.readFull(buf[:4], "info header size"); err != nil {
		return nil, err
	}
	h.Info.Size = getUint32(buf[0:4])

	switch {
	case h.Info.Size > CoreHeaderSize:
		// Windows headers: signed 32-bit width and height
		if err := src.readFull(buf[:8], "image dimensions"); err != nil {
			return nil, err
		}
		h.Info.Width = int32(getUint32(buf[0:4]))
		h.Info.Height = int32(getUint32(buf[4:8]))
	case h.Info.Size == CoreHeaderSize:
		// OS/2 header: width and height are unsigned WORDs
		if err := src.readFull(buf[:4], "image dimensions"); err != nil {
			return nil, err
		}
		h.Info.Width = int32(getUint16(buf[0:2]))
		h.Info.Height = int32(getUint16(buf[2:4]))
		h.Legacy = true
	default:
		return nil, errorf(UnrecognizedFormat, "unknown info header size %d", h.Info.Size)
	}

	// Remaining fixed fields, read unconditionally
	if err := src.readFull(buf[:8], "info header"); err != nil {
		return nil, err
	}
	h.Info.Planes = getUint16(buf[0:2])
	h.Info.BitCount = getUint16(buf[2:4])
	h.Info.Compression = getUint32(buf[4:8])

	if h.Info.Compression == CompressionRLE4 || h.Info.Compression == CompressionRLE8 {
		return nil, errorf(UnsupportedFeature, "RLE compression (%d)", h.Info.Compression)
	}

	if err := src.readFull(buf[:20], "info header"); err != nil {
		return nil, err
	}
	h.Info.SizeImage = getUint32(buf[0:4])
	h.Info.XPixelsPerM = int32(getUint32(buf[4:8]))
	h.Info.YPixelsPerM = int32(getUint32(buf[8:12]))
	h.Info.ColorsUsed = getUint32(buf[12:16])
	h.Info.ColorsImportant = getUint32(buf[16:20])

	// V4/V5 headers carry more than the fixed fields
	var extension []byte
	if !h.Legacy && h.Info.Size > InfoHeaderSize {
		if h.Info.Size > maxInfoHeaderSize {
			return nil, errorf(InvalidData, "info header size %d", h.Info.Size)
		}
		extension = make([]byte, h.Info.Size-InfoHeaderSize)
		if err := src.readFull(extension, "info header extension"); err != nil {
			return nil, err
		}
	}
	if err := checkCompression(src, &h, extension); err != nil {
		return nil, err
	}

	h.Width = int(h.Info.Width)
	h.Height = int(h.Info.Height)
	h.Orientation = BottomUp
	if h.Height < 0 { // Negative height indicates a top-down bitmap
		h.Orientation = TopDown
		h.Height = -h.Height
	}
	if h.Width <= 0 || h.Height == 0 {
		return nil, errorf(InvalidData, "non-positive dimension %dx%d", h.Info.Width, h.Info.Height)
	}

	h.Colours = int(h.Info.ColorsUsed)
	if h.Info.ColorsUsed == 0 && h.Info.BitCount <= 8 {
		h.Colours = 1 << h.Info.BitCount
	}

	return &h, nil
}

// Only uncompressed data goes through. BITFIELDS with the default
// 32bpp masks is the same layout as BI_RGB.
func checkCompression(src *Source, h *Header, extension []byte) error {
	switch h.Info.Compression {
	case CompressionRGB:
		return nil
	case CompressionBitfields:
		masks := extension
		if len(masks) < bitfieldMaskSize {
			// BITMAPINFOHEADER: masks follow the header
			masks = make([]byte, bitfieldMaskSize)
			if err := src.readFull(masks, "bitfield masks"); err != nil {
				return err
			}
		}
		if h.Info.BitCount == 32 &&
			getUint32(masks[0:4]) == 0x00ff0000 &&
			getUint32(masks[4:8]) == 0x0000ff00 &&
			getUint32(masks[8:12]) == 0x000000ff {
			h.Info.Compression = CompressionRGB
			return nil
		}
		return errorf(UnsupportedFeature, "bitfield masks for %dbpp", h.Info.BitCount)
	default:
		return errorf(UnsupportedFeature, "compression method %d", h.Info.Compression)
	}
}

// Print the Metadata of the header (in human-readable format)
func (h *Header) PrintMetadata(w io.Writer) {
	variant := "windows"
	if h.Legacy {
		variant = "os/2"
	}
	fmt.Fprintf(w, "Filesize: \t%v bytes\n", h.File.Size)
	fmt.Fprintf(w, "Header: \t%v bytes (%s)\n", h.Info.Size, variant)
	fmt.Fprintf(w, "Width: \t\t%v px\n", h.Width)
	fmt.Fprintf(w, "Height: \t%v px\n", h.Height)
	fmt.Fprintf(w, "Orientation: \t%v\n", h.Orientation)
	fmt.Fprintf(w, "BitCount: \t%vbits\n", h.Info.BitCount)
	fmt.Fprintf(w, "Colours: \t%v\n", h.Colours)
	fmt.Fprintf(w, "PixelOffset: \t%v bytes\n", h.File.OffBits)
	fmt.Fprintf(w, "PixelCount: \t%v pixels\n", h.Width*h.Height)
	fmt.Fprintf(w, "Stride: \t%v bytes\n", diskStride(int(h.Info.BitCount), h.Width))
}
