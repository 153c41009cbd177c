// Package main provides the idx command for inspecting IDX files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/born-ml/idx"
	"github.com/born-ml/idx/source"
)

const version = "v0.1.0-dev"

const usage = `Usage:
  idx version              Show version
  idx info [flags] FILE... Print the header of each file
  idx dump [flags] FILE    Print the items of a file

FILE is a path, file://path or s3://bucket/key; gzip, zstd and lz4 files
are decompressed transparently.
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "idx %s\n", version)
		return 0
	case "info":
		err = runInfo(ctx, args[1:], stdout, stderr)
	case "dump":
		err = runDump(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "idx %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

// common holds the flags shared by all file commands.
type common struct {
	verbose bool
	rate    int
}

func (c *common) register(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "log debug output to stderr")
	fs.IntVar(&c.rate, "rate", 0, "limit reads to this many bytes per second (0 = unlimited)")
}

func (c *common) logger(stderr io.Writer) *idx.Logger {
	if !c.verbose {
		return idx.NoopLogger()
	}
	return idx.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (c *common) sourceOptions(log *idx.Logger) []source.Option {
	opts := []source.Option{source.WithLogger(log.Logger)}
	if c.rate > 0 {
		opts = append(opts, source.WithRateLimit(c.rate))
	}
	return opts
}

func runInfo(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c common
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("no files given")
	}

	log := c.logger(stderr)
	opts := c.sourceOptions(log)
	files := fs.Args()
	headers := make([]idx.Header, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, location := range files {
		g.Go(func() error {
			h, err := readHeader(gctx, location, opts)
			log.WithLocation(location).LogHeader(gctx, h, err)
			if err != nil {
				return fmt.Errorf("%s: %w", location, err)
			}
			headers[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, h := range headers {
		fmt.Fprintf(stdout, "%s\n  type:     %s (0x%02x)\n  dims:     %v\n  items:    %d\n  item len: %d\n  data:     %d bytes\n",
			files[i], h.Type, uint8(h.Type), h.Dims, h.NumItems(), h.ItemLen(), h.DataSize())
	}
	return nil
}

func readHeader(ctx context.Context, location string, opts []source.Option) (idx.Header, error) {
	rc, err := source.Open(ctx, location, opts...)
	if err != nil {
		return idx.Header{}, err
	}
	defer func() {
		_ = rc.Close()
	}()
	return idx.ReadHeader(rc)
}

func runDump(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c common
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c.register(fs)
	limit := fs.Int("n", 0, "print at most this many items (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("exactly one file expected")
	}
	location := fs.Arg(0)

	log := c.logger(stderr).WithLocation(location)
	rc, err := source.Open(ctx, location, c.sourceOptions(log)...)
	if err != nil {
		return err
	}
	defer func() {
		_ = rc.Close()
	}()

	dec, err := idx.NewAnyDecoder(rc, idx.Options{})
	log.LogHeader(ctx, safeHeader(dec), err)
	if err != nil {
		return err
	}

	count := 0
	for item, err := range dec.Items() {
		if err != nil {
			log.LogDecode(ctx, count, err)
			return err
		}
		fmt.Fprintf(stdout, "%d: %s\n", count, formatItem(item))
		count++
		if *limit > 0 && count >= *limit {
			break
		}
	}
	log.LogDecode(ctx, count, nil)
	return nil
}

func safeHeader(dec *idx.AnyDecoder) idx.Header {
	if dec == nil {
		return idx.Header{}
	}
	return dec.Header()
}

func formatItem(item idx.Item) string {
	return strings.Trim(fmt.Sprint(item.Values()), "[]")
}
