package bmp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// DefaultDPI resolution stamped into encoded headers
const DefaultDPI = 96

// Codec decodes and encodes BMP streams. It holds configuration only,
// so one Codec can serve concurrent calls on independent sources and sinks.
type Codec struct {
	Logger        *zap.Logger
	DPI           float64
	MaxResolution int
}

// Option Codec option
type Option func(c *Codec)

// New creates a Codec
func New(options ...Option) *Codec {
	c := &Codec{
		Logger: zap.NewNop(),
		DPI:    DefaultDPI,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// WithLogger with logger option
func WithLogger(logger *zap.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithDPI with encode resolution option
func WithDPI(dpi float64) Option {
	return func(c *Codec) {
		if dpi > 0 {
			c.DPI = dpi
		}
	}
}

// WithMaxResolution rejects images with more than n pixels, 0 for no limit
func WithMaxResolution(n int) Option {
	return func(c *Codec) {
		if n >= 0 {
			c.MaxResolution = n
		}
	}
}

var defaultCodec = New()

// Decode a BMP stream with default options
func Decode(src *Source) (*Bitmap, error) {
	return defaultCodec.Decode(src)
}

// Encode a bitmap with default options
func Encode(sink *Sink, b *Bitmap) error {
	return defaultCodec.Encode(sink, b)
}

// DecodeHeader parses the file and info headers only
func (c *Codec) DecodeHeader(src *Source) (*Header, error) {
	h, err := parseHeaders(src)
	if err != nil {
		c.logError("decode header", src, err)
		return nil, err
	}
	c.Logger.Debug("bmp header",
		zap.Stringer("transport", src.Transport()),
		zap.Uint32("header_size", h.Info.Size),
		zap.Bool("legacy", h.Legacy),
		zap.Int("width", h.Width),
		zap.Int("height", h.Height),
		zap.Uint16("bit_count", h.Info.BitCount),
		zap.Stringer("orientation", h.Orientation),
		zap.Int("colours", h.Colours))
	return h, nil
}

// Decode reads a BMP stream into a canonical bitmap. Any failure aborts
// the whole decode; no partial image is returned.
func (c *Codec) Decode(src *Source) (*Bitmap, error) {
	h, err := c.DecodeHeader(src)
	if err != nil {
		return nil, err
	}
	if c.MaxResolution > 0 && h.Width*h.Height > c.MaxResolution {
		err = errorf(InvalidData, "resolution %dx%d exceeds %d pixels", h.Width, h.Height, c.MaxResolution)
		c.logError("decode", src, err)
		return nil, err
	}
	if !supportedDepth(h.Info.BitCount) {
		err = errorf(UnsupportedFeature, "bit depth %d", h.Info.BitCount)
		c.logError("decode", src, err)
		return nil, err
	}

	palette, err := readPalette(src, h.Colours, h.Legacy)
	if err != nil {
		c.logError("decode palette", src, err)
		return nil, err
	}

	bitmap, err := unpack(src, h, palette)
	if err != nil {
		c.logError("decode pixels", src, err)
		return nil, err
	}
	return bitmap, nil
}

// Encode writes b as a 32bpp BMP. Sink errors are returned unchanged.
func (c *Codec) Encode(sink *Sink, b *Bitmap) error {
	if err := encode(sink, b, dpiToPelsPerMeter(c.DPI)); err != nil {
		c.Logger.Debug("encode",
			zap.Stringer("transport", sink.Transport()),
			zap.Error(err))
		return err
	}
	return nil
}

// Reads a Bitmap file
func (c *Codec) DecodeFile(filename string) (*Bitmap, error) {
	// Open the file
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	bitmap, err := c.Decode(NewFileSource(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	bitmap.Filename = filename
	return bitmap, nil
}

// Saves the bitmap image onto local disk
func (c *Codec) EncodeFile(filename string, b *Bitmap) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(filename)
		}
	}()

	// Create a buffer (to reduce syscalls)
	w := bufio.NewWriter(file)
	if err = c.Encode(NewFileSink(w), b); err != nil {
		return err
	}
	return w.Flush()
}

// DecodeReader decodes from any reader, accumulating partial reads
func (c *Codec) DecodeReader(r io.Reader) (*Bitmap, error) {
	return c.Decode(NewReaderSource(r))
}

// EncodeWriter encodes into any writer
func (c *Codec) EncodeWriter(w io.Writer, b *Bitmap) error {
	return c.Encode(NewFileSink(w), b)
}

func (c *Codec) logError(op string, src *Source, err error) {
	var e Error
	if errors.As(err, &e) {
		c.Logger.Debug(op,
			zap.Stringer("transport", src.Transport()),
			zap.Stringer("kind", e.Kind),
			zap.Error(err))
		return
	}
	c.Logger.Debug(op, zap.Stringer("transport", src.Transport()), zap.Error(err))
}
