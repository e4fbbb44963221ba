// Filters perform color manipulation and per-pixel operations.
// Alpha is left as it is.
package filters

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/anas-shakeel/go-bmp/internal/bmp"
	"github.com/anas-shakeel/go-bmp/internal/utils"
	"github.com/crazy3lf/colorconv"
)

// Filter modifies a bitmap in-place
type Filter func(b *bmp.Bitmap) error

// Runs fn over every pixel
func each(b *bmp.Bitmap, fn func(p bmp.Pixel) bmp.Pixel) {
	for row := range b.Height {
		for col := range b.Width {
			b.SetPixel(row, col, fn(b.PixelAt(row, col)))
		}
	}
}

// Inverts (negates) the bitmap image
func Invert(b *bmp.Bitmap) {
	each(b, func(p bmp.Pixel) bmp.Pixel {
		p.R, p.G, p.B = 255-p.R, 255-p.G, 255-p.B
		return p
	})
}

// Converts a bitmap to Black-and-White
func Grayscale(b *bmp.Bitmap) {
	each(b, func(p bmp.Pixel) bmp.Pixel {
		avg := byte(utils.Average(int(p.R), int(p.G), int(p.B)))
		p.R, p.G, p.B = avg, avg, avg
		return p
	})
}

// Converts a bitmap to Black-and-White (with ITU-R 601-2 Luma Transform)
func GrayscaleLuma(b *bmp.Bitmap) {
	each(b, func(p bmp.Pixel) bmp.Pixel {
		L := byte(int(p.R)*299/1000 + int(p.G)*587/1000 + int(p.B)*114/1000)
		p.R, p.G, p.B = L, L, L
		return p
	})
}

// Adjusts the Brightness of a Bitmap in-place.
//
// method can be "add" (adds value to each channel) or "multiply" (multiplies each channel by value).
// Pixel values are clipped to [0, 255].
func Brightness(b *bmp.Bitmap, factor float64, method string) error {
	var operation func(x float64) float64

	// Select an operation of brightness (additive or multiplicative)
	switch method {
	case "add":
		operation = func(x float64) float64 { return x + factor }
	case "multiply":
		operation = func(x float64) float64 { return x * factor }
	default:
		return errors.New("invalid method: method must be add or multiply")
	}

	each(b, func(p bmp.Pixel) bmp.Pixel {
		p.R = utils.ClampByte(operation(float64(p.R)))
		p.G = utils.ClampByte(operation(float64(p.G)))
		p.B = utils.ClampByte(operation(float64(p.B)))
		return p
	})
	return nil
}

// Adjusts the Contrast of a Bitmap in-place.
// factor > 1.0 increases Contrast, factor < 1.0 decreases it.
func Contrast(b *bmp.Bitmap, factor float64) {
	// Compute mean for each channel
	var sumR, sumG, sumB int
	for row := range b.Height {
		for col := range b.Width {
			p := b.PixelAt(row, col)
			sumR += int(p.R)
			sumG += int(p.G)
			sumB += int(p.B)
		}
	}
	totalPixels := b.Width * b.Height
	meanR := float64(sumR / totalPixels)
	meanG := float64(sumG / totalPixels)
	meanB := float64(sumB / totalPixels)

	each(b, func(p bmp.Pixel) bmp.Pixel {
		p.R = utils.ClampByte(float64(p.R)*factor + (1-factor)*meanR)
		p.G = utils.ClampByte(float64(p.G)*factor + (1-factor)*meanG)
		p.B = utils.ClampByte(float64(p.B)*factor + (1-factor)*meanB)
		return p
	})
}

// Rotates the hue of every pixel by degrees, keeping saturation and value
func HueShift(b *bmp.Bitmap, degrees float64) error {
	var err error
	each(b, func(p bmp.Pixel) bmp.Pixel {
		if err != nil {
			return p
		}
		h, s, v := colorconv.RGBToHSV(p.R, p.G, p.B)
		h = math.Mod(h+degrees, 360)
		if h < 0 {
			h += 360
		}
		var r, g, bl uint8
		if r, g, bl, err = colorconv.HSVToRGB(h, s, v); err != nil {
			return p
		}
		p.R, p.G, p.B = r, g, bl
		return p
	})
	return err
}

// Keeps a single color channel (`red`, `green` or `blue`)
func Channel(b *bmp.Bitmap, channel string) error {
	c, err := b.GetChannel(channel)
	if err != nil {
		return err
	}
	copy(b.Pix, c.Pix)
	return nil
}

// Parse turns a filter expression into a Filter. Expressions are
// `invert`, `grayscale`, `luma`, `brightness:add|multiply:N`,
// `contrast:N`, `hue:DEGREES` and `channel:red|green|blue`.
func Parse(expr string) (Filter, error) {
	name, args, _ := strings.Cut(strings.TrimSpace(expr), ":")
	parts := strings.Split(args, ":")

	number := func(i int) (float64, error) {
		if i >= len(parts) || parts[i] == "" {
			return 0, fmt.Errorf("filter %s: missing argument", name)
		}
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return 0, fmt.Errorf("filter %s: %w", name, err)
		}
		return v, nil
	}

	switch name {
	case "invert":
		return func(b *bmp.Bitmap) error { Invert(b); return nil }, nil
	case "grayscale":
		return func(b *bmp.Bitmap) error { Grayscale(b); return nil }, nil
	case "luma":
		return func(b *bmp.Bitmap) error { GrayscaleLuma(b); return nil }, nil
	case "brightness":
		factor, err := number(1)
		if err != nil {
			return nil, err
		}
		method := parts[0]
		if method != "add" && method != "multiply" {
			return nil, fmt.Errorf("filter %s: method must be add or multiply, got %q", name, method)
		}
		return func(b *bmp.Bitmap) error { return Brightness(b, factor, method) }, nil
	case "contrast":
		factor, err := number(0)
		if err != nil {
			return nil, err
		}
		return func(b *bmp.Bitmap) error { Contrast(b, factor); return nil }, nil
	case "hue":
		degrees, err := number(0)
		if err != nil {
			return nil, err
		}
		return func(b *bmp.Bitmap) error { return HueShift(b, degrees) }, nil
	case "channel":
		channel := parts[0]
		return func(b *bmp.Bitmap) error { return Channel(b, channel) }, nil
	default:
		return nil, fmt.Errorf("unknown filter %q", name)
	}
}

// Apply parses and runs each expression in order
func Apply(b *bmp.Bitmap, exprs ...string) error {
	for _, expr := range exprs {
		if strings.TrimSpace(expr) == "" {
			continue
		}
		filter, err := Parse(expr)
		if err != nil {
			return err
		}
		if err := filter(b); err != nil {
			return err
		}
	}
	return nil
}
