package bmp

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackSourceAccumulates(t *testing.T) {
	src := NewCallbackSource(oneByteAtATime([]byte("abcdef")))
	assert.Equal(t, TransportCallback, src.Transport())

	buf := make([]byte, 4)
	assert.Equal(t, 4, src.ReadExact(buf))
	assert.Equal(t, "abcd", string(buf))

	// only two left: partial count at end of stream
	assert.Equal(t, 2, src.ReadExact(buf))
	assert.Equal(t, "ef", string(buf[:2]))
	assert.Equal(t, 0, src.ReadExact(buf))
}

func TestCallbackSourceErrorSentinel(t *testing.T) {
	calls := 0
	src := NewCallbackSource(func(p []byte) int {
		calls++
		if calls == 1 {
			p[0], p[1] = 'B', 'M'
			return 2
		}
		return -1
	})
	buf := make([]byte, 14)
	assert.Equal(t, 2, src.ReadExact(buf))

	err := src.readFull(buf, "file header")
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestReaderSource(t *testing.T) {
	data := fixture{width: 2, height: 1, bitCount: 24, rows: [][]byte{{1, 2, 3, 4, 5, 6}}}.bytes()

	t.Run("half reads", func(t *testing.T) {
		b, err := Decode(NewReaderSource(iotest.HalfReader(bytes.NewReader(data))))
		require.NoError(t, err)
		assert.Equal(t, opaque(3, 2, 1), b.PixelAt(0, 0))
	})

	t.Run("reader error is kept", func(t *testing.T) {
		cause := errors.New("reset by peer")
		src := NewReaderSource(iotest.ErrReader(cause))
		_, err := Decode(src)
		assert.ErrorIs(t, err, ErrInvalidData)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, cause, src.Err())
	})
}

func TestFileSource(t *testing.T) {
	data := fixture{width: 1, height: -1, bitCount: 32, rows: [][]byte{{30, 20, 10, 255}}}.bytes()
	path := filepath.Join(t.TempDir(), "pixel.bmp")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	src := NewFileSource(f)
	assert.Equal(t, TransportFile, src.Transport())
	b, err := Decode(src)
	require.NoError(t, err)
	assert.Equal(t, opaque(10, 20, 30), b.PixelAt(0, 0))

	// end of file: short count, no error recorded
	assert.Equal(t, 0, src.ReadExact(make([]byte, 4)))
	assert.NoError(t, src.Err())
}

func TestSinks(t *testing.T) {
	var got []byte
	sink := NewCallbackSink(func(p []byte) error {
		got = append(got, p...)
		return nil
	})
	assert.Equal(t, TransportCallback, sink.Transport())
	require.NoError(t, sink.WriteExact([]byte("BM")))
	assert.Equal(t, "BM", string(got))

	cause := errors.New("disk full")
	sink = NewCallbackSink(func([]byte) error { return cause })
	assert.Equal(t, cause, sink.WriteExact([]byte{1}))

	sink = NewFileSink(shortWriter{})
	assert.Equal(t, TransportFile, sink.Transport())
	assert.Equal(t, io.ErrShortWrite, sink.WriteExact([]byte{1, 2}))
}

// shortWriter breaks the io.Writer contract by dropping a byte silently
type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) - 1, nil }
