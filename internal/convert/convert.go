// convert runs batches of file conversions through the codec
package convert

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/anas-shakeel/go-bmp/internal/bmp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job converts Input into Output
type Job struct {
	Input  string
	Output string
}

// Converter decodes, transforms and re-encodes files concurrently
type Converter struct {
	Codec       *bmp.Codec
	Logger      *zap.Logger
	Transform   Transform
	Format      string
	Concurrency int
}

// Option Converter option
type Option func(c *Converter)

// New creates a Converter writing bmp with no concurrency limit
func New(options ...Option) *Converter {
	c := &Converter{
		Codec:  bmp.New(),
		Logger: zap.NewNop(),
		Format: FormatBMP,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// WithCodec with codec option
func WithCodec(codec *bmp.Codec) Option {
	return func(c *Converter) {
		if codec != nil {
			c.Codec = codec
		}
	}
}

// WithLogger with logger option
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithTransform with transform option
func WithTransform(t Transform) Option {
	return func(c *Converter) {
		c.Transform = t
	}
}

// WithFormat with output format option
func WithFormat(format string) Option {
	return func(c *Converter) {
		if format != "" {
			c.Format = format
		}
	}
}

// WithConcurrency limits the number of files converted at once, 0 for no limit
func WithConcurrency(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.Concurrency = n
		}
	}
}

// Jobs pairs every input with an output of the same base name inside dir
func (c *Converter) Jobs(dir string, inputs ...string) []Job {
	jobs := make([]Job, 0, len(inputs))
	for _, input := range inputs {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		jobs = append(jobs, Job{
			Input:  input,
			Output: filepath.Join(dir, base+"."+c.Format),
		})
	}
	return jobs
}

// Run converts every job and returns the first error.
// Remaining jobs are skipped once one fails or ctx is done.
func (c *Converter) Run(ctx context.Context, jobs []Job) error {
	if err := CheckFormat(c.Format); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}
	for _, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return c.Convert(job)
		})
	}
	return g.Wait()
}

// Convert runs a single job
func (c *Converter) Convert(job Job) (err error) {
	bitmap, err := c.Codec.DecodeFile(job.Input)
	if err != nil {
		return err
	}
	if bitmap, err = c.Transform.Apply(bitmap); err != nil {
		return err
	}

	file, err := os.Create(job.Output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(job.Output)
		}
	}()

	w := bufio.NewWriter(file)
	if err = Write(w, c.Codec, bitmap, c.Format); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}
	c.Logger.Info("converted",
		zap.String("input", job.Input),
		zap.String("output", job.Output),
		zap.Int("width", bitmap.Width),
		zap.Int("height", bitmap.Height))
	return nil
}
