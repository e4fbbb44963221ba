package config

import (
	"flag"

	"github.com/anas-shakeel/go-bmp/internal/bmp"
	"github.com/peterbourgon/ff/v3"
	"go.uber.org/zap"
)

// EnvVarPrefix prefix of environment variables mapped onto flags
const EnvVarPrefix = "BMPCODEC"

// Config root settings shared by every command
type Config struct {
	Debug         bool
	DPI           float64
	MaxResolution int
}

// RegisterFlags binds the root flags onto fs
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.Debug, "debug", false, "Debug mode")
	fs.Float64Var(&c.DPI, "dpi", bmp.DefaultDPI,
		"Resolution in dots per inch stamped into encoded headers")
	fs.IntVar(&c.MaxResolution, "max-resolution", 0,
		"Maximum number of pixels accepted on decode. Set 0 for no limit")
	_ = fs.String("config", ".env", "Retrieve configuration from the given file")
}

// Options ff parse options: env vars, then an optional env-style config file
func Options() []ff.Option {
	return []ff.Option{
		ff.WithEnvVarPrefix(EnvVarPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithIgnoreUndefined(true),
		ff.WithAllowMissingConfigFile(true),
		ff.WithConfigFileParser(ff.EnvParser),
	}
}

// Logger development logger in debug mode, production logger otherwise
func (c *Config) Logger() (*zap.Logger, error) {
	if c.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Codec builds the codec described by the config
func (c *Config) Codec(logger *zap.Logger) *bmp.Codec {
	return bmp.New(
		bmp.WithLogger(logger),
		bmp.WithDPI(c.DPI),
		bmp.WithMaxResolution(c.MaxResolution),
	)
}
