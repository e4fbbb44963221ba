package convert

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/anas-shakeel/go-bmp/internal/adjustments"
	"github.com/anas-shakeel/go-bmp/internal/bmp"
	"github.com/anas-shakeel/go-bmp/internal/filters"
)

// Output formats
const (
	FormatBMP = "bmp"
	FormatPNG = "png"
)

// Transform edits applied to a decoded bitmap before it is written out
type Transform struct {
	// Crop region; empty keeps the whole bitmap
	Crop           image.Rectangle
	FlipVertical   bool
	FlipHorizontal bool
	// Filter expressions, applied in order after cropping and flipping
	Filters []string
}

// ParseFilters splits a comma separated list of filter expressions
// and checks each of them
func ParseFilters(list string) ([]string, error) {
	var exprs []string
	for _, expr := range strings.Split(list, ",") {
		if expr = strings.TrimSpace(expr); expr == "" {
			continue
		}
		if _, err := filters.Parse(expr); err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// ParseCrop parses "x,y,width,height"; an empty string is no crop
func ParseCrop(s string) (image.Rectangle, error) {
	if s == "" {
		return image.Rectangle{}, nil
	}
	var x, y, w, h int
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &x, &y, &w, &h); err != nil {
		return image.Rectangle{}, fmt.Errorf("invalid crop %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, fmt.Errorf("invalid crop %q: empty region", s)
	}
	return image.Rect(x, y, x+w, y+h), nil
}

// Apply runs the transform. The result may be b itself or a new bitmap.
func (t Transform) Apply(b *bmp.Bitmap) (*bmp.Bitmap, error) {
	if !t.Crop.Empty() {
		cropped, err := adjustments.Crop(b, t.Crop.Min.X, t.Crop.Min.Y, t.Crop.Dx(), t.Crop.Dy())
		if err != nil {
			return nil, err
		}
		b = cropped
	}
	if t.FlipVertical {
		adjustments.FlipVertical(b)
	}
	if t.FlipHorizontal {
		adjustments.FlipHorizontal(b)
	}
	if err := filters.Apply(b, t.Filters...); err != nil {
		return nil, err
	}
	return b, nil
}

// CheckFormat validates an output format name
func CheckFormat(format string) error {
	switch format {
	case FormatBMP, FormatPNG:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// ContentType of an output format
func ContentType(format string) string {
	if format == FormatPNG {
		return "image/png"
	}
	return bmp.Descriptor().MimeType
}

// Write encodes b onto w in format
func Write(w io.Writer, codec *bmp.Codec, b *bmp.Bitmap, format string) error {
	switch format {
	case FormatBMP:
		return codec.EncodeWriter(w, b)
	case FormatPNG:
		return png.Encode(w, b)
	default:
		return CheckFormat(format)
	}
}
