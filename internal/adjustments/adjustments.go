// Adjusts image dimensions, orientation, or structure.
package adjustments

import (
	"errors"

	"github.com/anas-shakeel/go-bmp/internal/bmp"
)

// Crops a region in the bitmap image (0,0  is at the top-left of the image)
func Crop(b *bmp.Bitmap, x, y, width, height int) (*bmp.Bitmap, error) {
	// Validate bounds
	if x < 0 || y < 0 {
		return nil, errors.New("invalid bounds: negative origin")
	} else if width+x > b.Width {
		return nil, errors.New("invalid bounds: width out of bounds")
	} else if height+y > b.Height {
		return nil, errors.New("invalid bounds: height out of bounds")
	}

	cropped, err := bmp.NewBitmap(width, height)
	if err != nil {
		return nil, err
	}
	cropped.Filename = b.Filename

	// Copy the region row by row
	for row := range height { // Height | Rows
		start, _ := b.Offset(row+y, x)
		copy(cropped.Row(row), b.Pix[start:start+width*bmp.BytesPerPixel])
	}

	return cropped, nil
}

// Mirrors the bitmap top to bottom, in-place
func FlipVertical(b *bmp.Bitmap) {
	tmp := make([]byte, b.Stride)
	for top, bottom := 0, b.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		copy(tmp, b.Row(top))
		copy(b.Row(top), b.Row(bottom))
		copy(b.Row(bottom), tmp)
	}
}

// Mirrors the bitmap left to right, in-place
func FlipHorizontal(b *bmp.Bitmap) {
	for row := range b.Height {
		for left, right := 0, b.Width-1; left < right; left, right = left+1, right-1 {
			l, r := b.PixelAt(row, left), b.PixelAt(row, right)
			b.SetPixel(row, left, r)
			b.SetPixel(row, right, l)
		}
	}
}
