package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/anas-shakeel/go-bmp/internal/bmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeBitmap(t *testing.T, dir, name string, p bmp.Pixel) string {
	t.Helper()
	b, err := bmp.NewBitmap(2, 2)
	require.NoError(t, err)
	for row := range 2 {
		for col := range 2 {
			b.SetPixel(row, col, p)
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, bmp.New().EncodeFile(path, b))
	return path
}

func TestParseFilters(t *testing.T) {
	exprs, err := ParseFilters(" invert, ,brightness:add:10")
	require.NoError(t, err)
	assert.Equal(t, []string{"invert", "brightness:add:10"}, exprs)

	exprs, err = ParseFilters("")
	require.NoError(t, err)
	assert.Empty(t, exprs)

	_, err = ParseFilters("invert,blur")
	assert.Error(t, err)

	_, err = ParseFilters("brightness:foo:10")
	assert.Error(t, err)
}

func TestParseCrop(t *testing.T) {
	r, err := ParseCrop("1,2,3,4")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(1, 2, 4, 6), r)

	r, err = ParseCrop("")
	require.NoError(t, err)
	assert.True(t, r.Empty())

	for _, s := range []string{"1,2", "a,b,c,d", "0,0,0,1"} {
		_, err := ParseCrop(s)
		assert.Error(t, err, s)
	}
}

func TestTransform(t *testing.T) {
	b, err := bmp.NewBitmap(3, 2)
	require.NoError(t, err)
	b.SetPixel(1, 2, bmp.Pixel{R: 10, A: 0xff})

	out, err := Transform{
		Crop:           image.Rect(1, 0, 3, 2),
		FlipVertical:   true,
		FlipHorizontal: true,
		Filters:        []string{"invert"},
	}.Apply(b)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Width)
	assert.Equal(t, 2, out.Height)
	assert.Equal(t, bmp.Pixel{R: 245, G: 255, B: 255, A: 0xff}, out.PixelAt(0, 0))
	assert.Equal(t, bmp.Pixel{R: 255, G: 255, B: 255}, out.PixelAt(1, 1))

	_, err = Transform{Crop: image.Rect(2, 0, 5, 1)}.Apply(b)
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	b, err := bmp.NewBitmap(1, 1)
	require.NoError(t, err)
	b.SetPixel(0, 0, bmp.Pixel{R: 1, G: 2, B: 3, A: 0xff})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, bmp.New(), b, FormatBMP))
	assert.Equal(t, "BM", buf.String()[:2])

	buf.Reset()
	require.NoError(t, Write(&buf, bmp.New(), b, FormatPNG))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 0xff}, color.NRGBAModel.Convert(img.At(0, 0)))

	assert.Error(t, Write(&buf, bmp.New(), b, "gif"))
	assert.Equal(t, "image/bmp", ContentType(FormatBMP))
	assert.Equal(t, "image/png", ContentType(FormatPNG))
}

func TestJobs(t *testing.T) {
	c := New(WithFormat(FormatPNG))
	jobs := c.Jobs("out", "images/a.bmp", "b.dib")
	assert.Equal(t, []Job{
		{Input: "images/a.bmp", Output: filepath.Join("out", "a.png")},
		{Input: "b.dib", Output: filepath.Join("out", "b.png")},
	}, jobs)
}

func TestRun(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	var inputs []string
	for i := range 8 {
		inputs = append(inputs, writeBitmap(t, in, fmt.Sprintf("%d.bmp", i), bmp.Pixel{R: byte(i), A: 0xff}))
	}

	c := New(
		WithLogger(zaptest.NewLogger(t)),
		WithConcurrency(3),
		WithTransform(Transform{Filters: []string{"invert"}}),
	)
	require.NoError(t, c.Run(context.Background(), c.Jobs(out, inputs...)))

	for i := range 8 {
		b, err := bmp.New().DecodeFile(filepath.Join(out, fmt.Sprintf("%d.bmp", i)))
		require.NoError(t, err)
		assert.Equal(t, bmp.Pixel{R: 255 - byte(i), G: 255, B: 255, A: 0xff}, b.PixelAt(1, 1))
	}
}

func TestRunErrors(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	good := writeBitmap(t, in, "good.bmp", bmp.Pixel{A: 0xff})
	bad := filepath.Join(in, "bad.bmp")
	require.NoError(t, os.WriteFile(bad, append([]byte("GIF89a"), make([]byte, 64)...), 0o644))

	c := New(WithConcurrency(1))
	err := c.Run(context.Background(), c.Jobs(out, good, bad))
	assert.ErrorIs(t, err, bmp.ErrUnrecognizedFormat)

	err = c.Run(context.Background(), c.Jobs(out, filepath.Join(in, "missing.bmp")))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Run(ctx, c.Jobs(out, good)), context.Canceled)

	assert.Error(t, New(WithFormat("gif")).Run(context.Background(), nil))
}

func TestConvertRemovesOutputOnError(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	c := New(WithFormat("gif"))
	job := c.Jobs(out, writeBitmap(t, in, "a.bmp", bmp.Pixel{A: 0xff}))[0]

	assert.Error(t, c.Convert(job))
	assert.NoFileExists(t, job.Output)
}
