package server

import (
	"github.com/anas-shakeel/go-bmp/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option Server option
type Option func(s *Server)

// WithAddress with listen address option
func WithAddress(address string) Option {
	return func(s *Server) {
		s.Address = address
	}
}

// WithPort with port option
func WithPort(port int) Option {
	return func(s *Server) {
		if port > 0 {
			s.Port = port
		}
	}
}

// WithLogger with logger option
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
			s.Metrics.Logger = logger
		}
	}
}

// WithRegistry registers the codec collectors on reg and serves reg on /metrics
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.Gatherer = reg
			s.Metrics = metrics.New(reg, s.Logger)
		}
	}
}

// WithMaxBodySize limits request bodies to n bytes
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.MaxBodySize = n
		}
	}
}

// WithAccessLog enables access logging
func WithAccessLog(enabled bool) Option {
	return func(s *Server) {
		s.AccessLog = enabled
	}
}
