package bmp

import "io"

// Transport selects the backend behind a Source or Sink
type Transport int

const (
	// TransportFile a file handle: one underlying call per request,
	// short counts only at end of stream
	TransportFile Transport = iota
	// TransportCallback a push-style channel that may return fewer bytes than asked
	TransportCallback
)

func (t Transport) String() string {
	if t == TransportCallback {
		return "callback"
	}
	return "file"
}

// GetBytesFunc fills p and returns the number of bytes written into it.
// 0 reports end of stream, a negative value reports an error.
type GetBytesFunc func(p []byte) int

// PutBytesFunc consumes all of p
type PutBytesFunc func(p []byte) error

// Source is the byte input of a decode
type Source struct {
	transport Transport
	file      io.Reader
	get       GetBytesFunc
	err       error
}

// NewFileSource reads from a file-like reader, one Read call per request
func NewFileSource(r io.Reader) *Source {
	return &Source{transport: TransportFile, file: r}
}

// NewCallbackSource reads from a push-style callback
func NewCallbackSource(fn GetBytesFunc) *Source {
	return &Source{transport: TransportCallback, get: fn}
}

// NewReaderSource adapts an arbitrary io.Reader as a callback source,
// so partial reads are accumulated
func NewReaderSource(r io.Reader) *Source {
	s := &Source{transport: TransportCallback}
	s.get = func(p []byte) int {
		for {
			n, err := r.Read(p)
			if n > 0 {
				// a trailing error resurfaces on the next Read
				return n
			}
			if err == io.EOF {
				return 0
			}
			if err != nil {
				s.err = err
				return -1
			}
		}
	}
	return s
}

// Transport returns the backend kind
func (s *Source) Transport() Transport {
	return s.transport
}

// Err returns the last error reported by the underlying reader, if any
func (s *Source) Err() error {
	return s.err
}

// ReadExact fills buf and returns the number of bytes actually obtained.
// A result smaller than len(buf) means end of stream or an error.
func (s *Source) ReadExact(buf []byte) int {
	switch s.transport {
	case TransportCallback:
		total := 0
		for total < len(buf) {
			got := s.get(buf[total:])
			if got < 1 { // 0 = end of stream, -1 = error
				return total
			}
			total += got
		}
		return total
	default:
		n, err := s.file.Read(buf)
		if err != nil && err != io.EOF {
			s.err = err
		}
		return n
	}
}

// readFull reads len(buf) bytes or fails with InvalidData
func (s *Source) readFull(buf []byte, what string) error {
	if n := s.ReadExact(buf); n < len(buf) {
		err := shortRead(what, n, len(buf))
		if s.err != nil {
			e := err.(Error)
			e.Err = s.err
			return e
		}
		return err
	}
	return nil
}

// skip discards n bytes sequentially, in bounded chunks; the codec never seeks
func (s *Source) skip(n int, what string) error {
	if n <= 0 {
		return nil
	}
	buf := make([]byte, min(n, 4096))
	for n > 0 {
		chunk := buf[:min(n, len(buf))]
		if err := s.readFull(chunk, what); err != nil {
			return err
		}
		n -= len(chunk)
	}
	return nil
}

// Sink is the byte output of an encode
type Sink struct {
	transport Transport
	file      io.Writer
	put       PutBytesFunc
}

// NewFileSink writes to a file-like writer
func NewFileSink(w io.Writer) *Sink {
	return &Sink{transport: TransportFile, file: w}
}

// NewCallbackSink writes through a push-style callback
func NewCallbackSink(fn PutBytesFunc) *Sink {
	return &Sink{transport: TransportCallback, put: fn}
}

// Transport returns the backend kind
func (s *Sink) Transport() Transport {
	return s.transport
}

// WriteExact writes all of buf, returning the backend error unchanged
func (s *Sink) WriteExact(buf []byte) error {
	switch s.transport {
	case TransportCallback:
		return s.put(buf)
	default:
		n, err := s.file.Write(buf)
		if err == nil && n < len(buf) {
			err = io.ErrShortWrite
		}
		return err
	}
}
