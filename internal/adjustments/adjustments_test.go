package adjustments

import (
	"testing"

	"github.com/anas-shakeel/go-bmp/internal/bmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 3x2 bitmap where every pixel encodes its own position
func numbered(t *testing.T) *bmp.Bitmap {
	t.Helper()
	b, err := bmp.NewBitmap(3, 2)
	require.NoError(t, err)
	for row := range b.Height {
		for col := range b.Width {
			b.SetPixel(row, col, bmp.Pixel{R: byte(row), G: byte(col), A: 0xff})
		}
	}
	return b
}

func at(row, col int) bmp.Pixel {
	return bmp.Pixel{R: byte(row), G: byte(col), A: 0xff}
}

func TestCrop(t *testing.T) {
	b := numbered(t)
	c, err := Crop(b, 1, 1, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Width)
	assert.Equal(t, 1, c.Height)
	assert.Equal(t, 8, c.Stride)
	assert.Equal(t, at(1, 1), c.PixelAt(0, 0))
	assert.Equal(t, at(1, 2), c.PixelAt(0, 1))

	for _, r := range [][4]int{{2, 0, 2, 1}, {0, 1, 1, 2}, {-1, 0, 1, 1}, {0, 0, 0, 1}} {
		_, err := Crop(b, r[0], r[1], r[2], r[3])
		assert.Error(t, err, "%v", r)
	}
}

func TestFlipVertical(t *testing.T) {
	b := numbered(t)
	FlipVertical(b)
	assert.Equal(t, at(1, 0), b.PixelAt(0, 0))
	assert.Equal(t, at(0, 2), b.PixelAt(1, 2))
}

func TestFlipHorizontal(t *testing.T) {
	b := numbered(t)
	FlipHorizontal(b)
	assert.Equal(t, at(0, 2), b.PixelAt(0, 0))
	assert.Equal(t, at(0, 1), b.PixelAt(0, 1))
	assert.Equal(t, at(1, 0), b.PixelAt(1, 2))
}
