package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/anas-shakeel/go-bmp/internal/bmp"
	"github.com/anas-shakeel/go-bmp/internal/convert"
	"github.com/anas-shakeel/go-bmp/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HeaderInfo json body of POST /info
type HeaderInfo struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	BitCount    uint16 `json:"bit_count"`
	Compression uint32 `json:"compression"`
	HeaderSize  uint32 `json:"header_size"`
	Legacy      bool   `json:"legacy"`
	Orientation string `json:"orientation"`
	Colours     int    `json:"colours"`
	FileSize    uint32 `json:"file_size"`
	XPelsPerM   int32  `json:"x_pels_per_meter"`
	YPelsPerM   int32  `json:"y_pels_per_meter"`
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /convert", s.handleConvert)
	mux.HandleFunc("POST /info", s.handleInfo)
	mux.HandleFunc("GET /healthcheck", handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))

	var h http.Handler = mux
	if s.AccessLog {
		h = s.accessLogHandler(h)
	}
	return s.panicHandler(h)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	resJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type countingReader struct {
	io.Reader
	metrics *metrics.Metrics
}

func (r countingReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	r.metrics.AddBytes("in", n)
	return n, err
}

// source reads the request body through the codec callback transport.
// Body read errors, such as an exceeded size limit, stay in the error chain.
func (s *Server) source(w http.ResponseWriter, r *http.Request) *bmp.Source {
	body := http.MaxBytesReader(w, r.Body, s.MaxBodySize)
	return bmp.NewReaderSource(countingReader{Reader: body, metrics: s.Metrics})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	timer := s.Metrics.NewTimer("info")
	h, err := s.Codec.DecodeHeader(s.source(w, r))
	timer.ObserveDuration(err)
	if err != nil {
		resError(w, err)
		return
	}
	resJSON(w, http.StatusOK, HeaderInfo{
		Width:       h.Width,
		Height:      h.Height,
		BitCount:    h.Info.BitCount,
		Compression: h.Info.Compression,
		HeaderSize:  h.Info.Size,
		Legacy:      h.Legacy,
		Orientation: h.Orientation.String(),
		Colours:     h.Colours,
		FileSize:    h.File.Size,
		XPelsPerM:   h.Info.XPixelsPerM,
		YPelsPerM:   h.Info.YPixelsPerM,
	})
}

// transform builds the edits requested by query params:
// repeated filter, crop=x,y,w,h and flip=vertical|horizontal|both
func transform(r *http.Request) (convert.Transform, error) {
	var t convert.Transform
	q := r.URL.Query()
	for _, list := range q["filter"] {
		exprs, err := convert.ParseFilters(list)
		if err != nil {
			return t, err
		}
		t.Filters = append(t.Filters, exprs...)
	}
	crop, err := convert.ParseCrop(q.Get("crop"))
	if err != nil {
		return t, err
	}
	t.Crop = crop
	switch flip := q.Get("flip"); flip {
	case "":
	case "vertical":
		t.FlipVertical = true
	case "horizontal":
		t.FlipHorizontal = true
	case "both":
		t.FlipVertical, t.FlipHorizontal = true, true
	default:
		return t, fmt.Errorf("unknown flip %q", flip)
	}
	return t, nil
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = convert.FormatBMP
	}
	if err := convert.CheckFormat(format); err != nil {
		resError(w, err)
		return
	}
	t, err := transform(r)
	if err != nil {
		resError(w, err)
		return
	}

	timer := s.Metrics.NewTimer("decode")
	bitmap, err := s.Codec.Decode(s.source(w, r))
	timer.ObserveDuration(err)
	if err != nil {
		resError(w, err)
		return
	}
	if bitmap, err = t.Apply(bitmap); err != nil {
		resError(w, err)
		return
	}

	w.Header().Set("Content-Type", convert.ContentType(format))
	timer = s.Metrics.NewTimer("encode")
	if format == convert.FormatBMP {
		size := bmp.FileHeaderSize + bmp.InfoHeaderSize + bitmap.Stride*bitmap.Height
		w.Header().Set("Content-Length", strconv.Itoa(size))
		err = s.Codec.Encode(bmp.NewCallbackSink(func(p []byte) error {
			n, err := w.Write(p)
			s.Metrics.AddBytes("out", n)
			return err
		}), bitmap)
	} else {
		err = convert.Write(w, s.Codec, bitmap, format)
	}
	timer.ObserveDuration(err)
	if err != nil {
		// headers are gone, nothing left but to log
		s.Logger.Warn("write response", zap.Error(err))
	}
}
