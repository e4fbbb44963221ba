package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/anas-shakeel/go-bmp/internal/bmp"
	"github.com/anas-shakeel/go-bmp/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Server http transcoding server around the bmp codec
type Server struct {
	http.Server
	Codec           *bmp.Codec
	Metrics         *metrics.Metrics
	Gatherer        prometheus.Gatherer
	Logger          *zap.Logger
	Address         string
	Port            int
	MaxBodySize     int64
	AccessLog       bool
	ShutdownTimeout time.Duration
}

// New creates a Server. Metrics go to a private registry unless
// WithRegistry is given.
func New(codec *bmp.Codec, options ...Option) *Server {
	s := &Server{}
	s.Codec = codec
	s.Port = 8000
	s.MaxBodySize = 32 << 20
	s.ShutdownTimeout = 5 * time.Second
	s.ReadTimeout = 30 * time.Second
	s.MaxHeaderBytes = 1 << 20
	s.Logger = zap.NewNop()

	reg := prometheus.NewRegistry()
	s.Gatherer = reg
	s.Metrics = metrics.New(reg, s.Logger)

	for _, option := range options {
		option(s)
	}
	if s.Codec == nil {
		s.Codec = bmp.New(bmp.WithLogger(s.Logger))
	}
	s.Addr = s.Address + ":" + strconv.Itoa(s.Port)
	s.Handler = s.routes()
	return s
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.ListenAndServe()
	}()
	s.Logger.Info("server start", zap.String("address", s.Address), zap.Int("port", s.Port))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	// graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		s.Logger.Error("server shutdown", zap.Error(err))
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.Logger.Info("exit")
	return nil
}
