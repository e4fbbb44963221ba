// BMP-specific structs, constants and little-endian primitives
package bmp

// Sizes of the on-disk structures
const (
	FileHeaderSize   = 14
	CoreHeaderSize   = 12 // BITMAPCOREHEADER (OS/2)
	InfoHeaderSize   = 40 // BITMAPINFOHEADER
	V4HeaderSize     = 108
	V5HeaderSize     = 124
	bitfieldMaskSize = 12

	maxInfoHeaderSize = 4096
	maxPaletteEntries = 256     // an index of at most 8 bits reaches no further
	maxPixelBytes     = 1 << 30 // canonical pixel buffer, fits int on 32-bit platforms
)

// Compression codes
const (
	CompressionRGB       = 0
	CompressionRLE8      = 1
	CompressionRLE4      = 2
	CompressionBitfields = 3
)

// Signature "BM" read as a little-endian WORD
const signature = 0x4d42

// Orientation is the row storage order of a source file
type Orientation int

const (
	BottomUp Orientation = iota // BMP default
	TopDown                     // negative height
)

func (o Orientation) String() string {
	if o == TopDown {
		return "top-down"
	}
	return "bottom-up"
}

// The FileHeader structure contains information about the type, size,
// and layout of a file that contains a DIB [device-independent bitmap].
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapfileheader
type FileHeader struct {
	Type      [2]byte // The file type: must be 0x4d42 (ASCII string "BM").
	Size      uint32  // The size, in bytes, of the bitmap file (advisory).
	Reserved1 uint16  // Reserved; ignored.
	Reserved2 uint16  // Reserved; ignored.
	OffBits   uint32  // Offset (in bytes) to the pixel array. Written on encode only.
}

// The InfoHeader structure contains information about the
// dimensions and color format of a DIB, normalized across header variants.
type InfoHeader struct {
	Size            uint32 // The number of bytes declared for the header; discriminates the variant.
	Width           int32  // The width of the bitmap, in pixels.
	Height          int32  // The height of the bitmap, in pixels; negative means top-down.
	Planes          uint16 // The number of planes for the target device (ignored).
	BitCount        uint16 // The number of bits-per-pixel.
	Compression     uint32 // The type of compression.
	SizeImage       uint32 // The size of the image in bytes (advisory, may be zero).
	XPixelsPerM     int32  // The horizontal resolution, in pixels-per-meter.
	YPixelsPerM     int32  // The vertical resolution, in pixels-per-meter.
	ColorsUsed      uint32 // Number of color indexes that are actually used by bitmap.
	ColorsImportant uint32 // Number of color indexes required for displaying the bitmap (advisory).
}

func getUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func getUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putUint16(b []byte, n uint16) {
	b[0] = byte(n)
	b[1] = byte(n >> 8)
}

func putUint32(b []byte, n uint32) {
	b[0] = byte(n)
	b[1] = byte(n >> 8)
	b[2] = byte(n >> 16)
	b[3] = byte(n >> 24)
}

// Bytes in one padded on-disk row for the given depth
func diskStride(bitCount, width int) int {
	return ((bitCount*width + 31) / 32) * 4
}
