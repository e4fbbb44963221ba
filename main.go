// Go-BMP reads, transforms and writes bmp images
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/anas-shakeel/go-bmp/internal/bmp"
	"github.com/anas-shakeel/go-bmp/internal/config"
	"github.com/anas-shakeel/go-bmp/internal/convert"
	"github.com/anas-shakeel/go-bmp/internal/server"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCommand(os.Stdout).ParseAndRun(ctx, os.Args[1:]); err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// app holds what every subcommand needs once root flags are parsed
type app struct {
	cfg    config.Config
	stdout io.Writer
}

func (a *app) setup() (*zap.Logger, *bmp.Codec, error) {
	logger, err := a.cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	return logger, a.cfg.Codec(logger), nil
}

func newCommand(stdout io.Writer) *ffcli.Command {
	a := &app{stdout: stdout}
	fs := flag.NewFlagSet("bmpcodec", flag.ContinueOnError)
	a.cfg.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       "bmpcodec",
		ShortUsage: "bmpcodec [flags] <subcommand> [flags] [args...]",
		FlagSet:    fs,
		Options:    config.Options(),
		Subcommands: []*ffcli.Command{
			a.infoCommand(),
			a.printCommand(),
			a.convertCommand(),
			a.serveCommand(),
			a.describeCommand(),
		},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}
}

func subcommandOptions() []ff.Option {
	return []ff.Option{ff.WithEnvVarPrefix(config.EnvVarPrefix)}
}

func (a *app) infoCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "info",
		ShortUsage: "bmpcodec info <file>...",
		ShortHelp:  "Print the header metadata of bmp files",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return flag.ErrHelp
			}
			logger, codec, err := a.setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			for _, filename := range args {
				h, err := decodeHeaderFile(codec, filename)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "%s\n", filename)
				h.PrintMetadata(a.stdout)
			}
			return nil
		},
	}
}

func decodeHeaderFile(codec *bmp.Codec, filename string) (*bmp.Header, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	h, err := codec.DecodeHeader(bmp.NewFileSource(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return h, nil
}

func (a *app) printCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "print",
		ShortUsage: "bmpcodec print <file>",
		ShortHelp:  "Print a (small) bmp image in the terminal",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return flag.ErrHelp
			}
			logger, codec, err := a.setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			bitmap, err := codec.DecodeFile(args[0])
			if err != nil {
				return err
			}
			bitmap.PrintBitmap(a.stdout)
			return nil
		},
	}
}

func (a *app) convertCommand() *ffcli.Command {
	fs := flag.NewFlagSet("bmpcodec convert", flag.ContinueOnError)
	var (
		outDir      = fs.String("out-dir", ".", "Directory receiving converted files")
		format      = fs.String("format", convert.FormatBMP, "Output format: bmp or png")
		filterList  = fs.String("filter", "", "Comma separated filters, e.g. invert,brightness:add:20")
		crop        = fs.String("crop", "", "Crop region as x,y,width,height")
		flipV       = fs.Bool("flip-vertical", false, "Mirror top to bottom")
		flipH       = fs.Bool("flip-horizontal", false, "Mirror left to right")
		concurrency = fs.Int("concurrency", 4, "Files converted at once. Set 0 for no limit")
	)

	return &ffcli.Command{
		Name:       "convert",
		ShortUsage: "bmpcodec convert [flags] <file>...",
		ShortHelp:  "Decode bmp files, apply edits and write them as 32bpp bmp or png",
		FlagSet:    fs,
		Options:    subcommandOptions(),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return flag.ErrHelp
			}
			exprs, err := convert.ParseFilters(*filterList)
			if err != nil {
				return err
			}
			region, err := convert.ParseCrop(*crop)
			if err != nil {
				return err
			}
			logger, codec, err := a.setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			c := convert.New(
				convert.WithCodec(codec),
				convert.WithLogger(logger),
				convert.WithFormat(*format),
				convert.WithConcurrency(*concurrency),
				convert.WithTransform(convert.Transform{
					Crop:           region,
					FlipVertical:   *flipV,
					FlipHorizontal: *flipH,
					Filters:        exprs,
				}),
			)
			if err := os.MkdirAll(*outDir, 0o755); err != nil {
				return err
			}
			return c.Run(ctx, c.Jobs(*outDir, args...))
		},
	}
}

func (a *app) serveCommand() *ffcli.Command {
	fs := flag.NewFlagSet("bmpcodec serve", flag.ContinueOnError)
	var (
		address     = fs.String("address", "", "Server address")
		port        = fs.Int("port", 8000, "Server port")
		maxBodySize = fs.Int64("max-body-size", 32<<20, "Maximum request body in bytes")
		accessLog   = fs.Bool("access-log", false, "Enable server access log")
	)

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "bmpcodec serve [flags]",
		ShortHelp:  "Run the http transcoding server",
		FlagSet:    fs,
		Options:    subcommandOptions(),
		Exec: func(ctx context.Context, args []string) error {
			logger, codec, err := a.setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			s := server.New(codec,
				server.WithLogger(logger),
				server.WithAddress(*address),
				server.WithPort(*port),
				server.WithMaxBodySize(*maxBodySize),
				server.WithAccessLog(*accessLog),
				server.WithRegistry(reg),
			)
			return s.Run(ctx)
		},
	}
}

func (a *app) describeCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "describe",
		ShortUsage: "bmpcodec describe",
		ShortHelp:  "Print the codec descriptor",
		Exec: func(context.Context, []string) error {
			d := bmp.Descriptor()
			fmt.Fprintf(a.stdout, "Codec: \t\t%s (version %d)\n", d.CodecName, d.Version)
			fmt.Fprintf(a.stdout, "Clsid: \t\t%s\n", d.Clsid)
			fmt.Fprintf(a.stdout, "Format: \t%s %s\n", d.FormatDescription, d.FormatID)
			fmt.Fprintf(a.stdout, "Extensions: \t%s\n", d.FilenameExtension)
			fmt.Fprintf(a.stdout, "MimeType: \t%s\n", d.MimeType)
			fmt.Fprintf(a.stdout, "Flags: \t\t%#x\n", uint32(d.Flags))
			return nil
		},
	}
}
