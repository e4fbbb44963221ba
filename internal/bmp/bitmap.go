// bmp package implements a BMP codec converting between the on-disk layout
// and a canonical 32 bits-per-pixel bitmap.
package bmp

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/anas-shakeel/go-bmp/internal/utils"
)

// BytesPerPixel of the canonical format
const BytesPerPixel = 4

// Pixel in canonical byte order
type Pixel struct {
	B, G, R, A byte
}

// Bitmap is the canonical image: 32bpp, B,G,R,A byte order per pixel,
// rows stored top-down and padded to 4-byte boundaries
type Bitmap struct {
	Filename string
	Width    int
	Height   int
	Stride   int
	Pix      []byte
}

// Stride of a canonical row holding width pixels
func CanonicalStride(width int) int {
	return ((width*32 + 31) / 32) * 4
}

// Creates and returns a blank (transparent black) bitmap
func NewBitmap(width, height int) (*Bitmap, error) {
	if width <= 0 {
		return nil, errors.New("width must be greater than 0")
	} else if height <= 0 {
		return nil, errors.New("height must be greater than 0")
	}

	stride := CanonicalStride(width)
	return &Bitmap{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]byte, stride*height),
	}, nil
}

// Validate checks that dimensions, stride and buffer agree
func (b *Bitmap) Validate() error {
	if b == nil {
		return errorf(InvalidData, "nil bitmap")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return errorf(InvalidData, "inconsistent bitmap: %dx%d", b.Width, b.Height)
	}
	if b.Stride != CanonicalStride(b.Width) {
		return errorf(InvalidData, "inconsistent bitmap: stride %d for width %d", b.Stride, b.Width)
	}
	if len(b.Pix) < b.Stride*b.Height {
		return errorf(InvalidData, "inconsistent bitmap: %d bytes for %d rows of %d", len(b.Pix), b.Height, b.Stride)
	}
	return nil
}

// Offset returns the byte offset of pixel (row, col); row 0 is the top row
func (b *Bitmap) Offset(row, col int) (int, bool) {
	if row < 0 || row >= b.Height || col < 0 || col >= b.Width {
		return 0, false
	}
	return row*b.Stride + col*BytesPerPixel, true
}

// Returns the pixel at (row, col), zero outside the bitmap
func (b *Bitmap) PixelAt(row, col int) Pixel {
	i, ok := b.Offset(row, col)
	if !ok {
		return Pixel{}
	}
	return Pixel{B: b.Pix[i], G: b.Pix[i+1], R: b.Pix[i+2], A: b.Pix[i+3]}
}

// Sets the pixel at (row, col); out of range is a no-op
func (b *Bitmap) SetPixel(row, col int, p Pixel) {
	i, ok := b.Offset(row, col)
	if !ok {
		return
	}
	b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = p.B, p.G, p.R, p.A
}

func (b *Bitmap) setBGRA(row, col int, blue, green, red, alpha byte) {
	b.SetPixel(row, col, Pixel{B: blue, G: green, R: red, A: alpha})
}

// Row returns the stride-long slice of one row
func (b *Bitmap) Row(row int) []byte {
	return b.Pix[row*b.Stride : (row+1)*b.Stride]
}

// Returns a Copy of the bitmap
func (b *Bitmap) Copy() *Bitmap {
	newBitmap := *b
	newBitmap.Pix = make([]byte, len(b.Pix))
	copy(newBitmap.Pix, b.Pix)
	return &newBitmap
}

// ColorModel implements image.Image. Channels are literal bytes, not premultiplied.
func (b *Bitmap) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements image.Image
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// At implements image.Image
func (b *Bitmap) At(x, y int) color.Color {
	p := b.PixelAt(y, x)
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

// FromImage converts any image into a canonical bitmap
func FromImage(img image.Image) (*Bitmap, error) {
	rect := img.Bounds()
	b, err := NewBitmap(rect.Dx(), rect.Dy())
	if err != nil {
		return nil, err
	}
	nrgba, _ := img.(*image.NRGBA)
	for row := range b.Height {
		for col := range b.Width {
			var c color.NRGBA
			if nrgba != nil {
				c = nrgba.NRGBAAt(rect.Min.X+col, rect.Min.Y+row)
			} else {
				c = color.NRGBAModel.Convert(img.At(rect.Min.X+col, rect.Min.Y+row)).(color.NRGBA)
			}
			b.setBGRA(row, col, c.B, c.G, c.R, c.A)
		}
	}
	return b, nil
}

// Returns an image containing a single channel of the source image.
// channel can one of (`red`, `green`, and `blue`)
func (b *Bitmap) GetChannel(channel string) (*Bitmap, error) {
	switch channel {
	case "red", "green", "blue":
	default:
		return nil, errors.New("invalid color channel: only red, green, and blue are supported")
	}

	newBitmap := b.Copy()

	// Turn the channels to zero except requested one!
	for row := range b.Height {
		for col := range b.Width {
			p := newBitmap.PixelAt(row, col)
			switch channel {
			case "red":
				p.G, p.B = 0, 0
			case "green":
				p.R, p.B = 0, 0
			case "blue":
				p.R, p.G = 0, 0
			}
			newBitmap.SetPixel(row, col, p)
		}
	}

	return newBitmap, nil
}

// Print the bitmap in terminal. Use for small images only
func (b *Bitmap) PrintBitmap(w io.Writer) {
	for row := range b.Height {
		for col := range b.Width {
			p := b.PixelAt(row, col)
			fmt.Fprint(w, utils.ColoredBlock("  ", int(p.R), int(p.G), int(p.B)))
		}
		fmt.Fprintln(w)
	}
}
