// Command jpgis-dem converts GSI JPGIS GML elevation models to GeoTIFF.
//
// Usage:
//
//	jpgis-dem rasterize [-v] [-scratch DIR] SRC DST
//	jpgis-dem info [-v] [-header] SRC...
//	jpgis-dem footprint [-v] [-o FILE] [-bbox LEFT,BOTTOM,RIGHT,TOP] SRC...
//	jpgis-dem batch [-v] [-scratch DIR] -o DIR [-j N] [-keep-going] SRC...
//
// SRC is a DEM XML document or a ZIP archive of them. For rasterize, "-" reads
// standard input or writes standard output.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/beetlebugorg/jpgisdem/pkg/jpgis"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

type command struct {
	name    string
	summary string
	run     func(args []string, stdin io.Reader, stdout, stderr io.Writer) int
}

func commands() []command {
	return []command{
		{"rasterize", "convert one XML document or ZIP archive to GeoTIFF", runRasterize},
		{"info", "print the header and statistics of DEM documents", runInfo},
		{"footprint", "write tile extents and coverage as GeoJSON", runFootprint},
		{"batch", "convert many inputs in parallel", runBatch},
	}
}

func runWithArgs(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	for _, c := range commands() {
		if c.name == args[0] {
			return c.run(args[1:], stdin, stdout, stderr)
		}
	}
	if args[0] == "-h" || args[0] == "-help" || args[0] == "--help" || args[0] == "help" {
		usage(stdout)
		return 0
	}
	fmt.Fprintf(stderr, "error: unknown command %q\n\n", args[0])
	usage(stderr)
	return 2
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: jpgis-dem <command> [options] [arguments]\n\nCommands:\n")
	for _, c := range commands() {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
}

// commonFlags are accepted by every subcommand.
type commonFlags struct {
	verbose bool
	scratch string
}

func newFlagSet(name, synopsis string, stderr io.Writer, common *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&common.verbose, "v", false, "verbose logging")
	fs.StringVar(&common.scratch, "scratch", "", "parent directory for temporary files (default system temp)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: jpgis-dem %s %s\n\nOptions:\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

// newLogger returns a development logger when verbose, otherwise a production
// logger that only reports warnings and errors.
func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	if verbose {
		cfg := zap.NewDevelopmentEncoderConfig()
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(stderr), zap.DebugLevel)
		return zap.New(core)
	}
	cfg := zap.NewProductionEncoderConfig()
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(stderr), zap.WarnLevel)
	return zap.New(core)
}

func (c commonFlags) options(stderr io.Writer) jpgis.Options {
	opts := jpgis.DefaultOptions()
	opts.ScratchDir = c.scratch
	opts.Logger = newLogger(c.verbose, stderr)
	return opts
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}

func runRasterize(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var common commonFlags
	fs := newFlagSet("rasterize", "SRC DST", stderr, &common)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "error: exactly two arguments, SRC and DST, are required")
		fs.Usage()
		return 2
	}
	src, dst := fs.Arg(0), fs.Arg(1)
	opts := common.options(stderr)
	defer opts.Logger.Sync()

	var err error
	switch {
	case src != "-" && dst != "-":
		err = jpgis.ConvertFile(src, dst, opts)
	case src == "-" && dst == "-":
		err = jpgis.Convert(stdin, stdout, opts)
	case src == "-":
		err = convertToPath(stdin, dst, opts)
	default:
		err = convertFromPath(src, stdout, opts)
	}
	if err != nil {
		return fail(stderr, err)
	}
	return 0
}

// convertToPath converts src and creates dst only once conversion succeeded.
func convertToPath(src io.Reader, dst string, opts jpgis.Options) error {
	var buf bytes.Buffer
	if err := jpgis.Convert(src, &buf, opts); err != nil {
		return err
	}
	return os.WriteFile(dst, buf.Bytes(), 0o644)
}

func convertFromPath(src string, dst io.Writer, opts jpgis.Options) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	return jpgis.Convert(f, dst, opts)
}

type decodeFunc func(src io.Reader, source string, opts jpgis.Options) ([]*jpgis.DEM, error)

func decodeFile(path string, opts jpgis.Options, decode decodeFunc) ([]*jpgis.DEM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decode(f, path, opts)
}

// decodeAll decodes every path in order, headers only when header is set.
func decodeAll(paths []string, header bool, opts jpgis.Options) ([]*jpgis.DEM, error) {
	decode := jpgis.Decode
	if header {
		decode = jpgis.DecodeHeaders
	}
	var all []*jpgis.DEM
	for _, path := range paths {
		dems, err := decodeFile(path, opts, decode)
		if err != nil {
			return nil, err
		}
		all = append(all, dems...)
	}
	return all, nil
}

func runInfo(args []string, _ io.Reader, stdout, stderr io.Writer) int {
	var common commonFlags
	fs := newFlagSet("info", "[-header] SRC...", stderr, &common)
	header := fs.Bool("header", false, "skip the sample data and print the header only")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "error: at least one SRC is required")
		fs.Usage()
		return 2
	}
	opts := common.options(stderr)
	defer opts.Logger.Sync()

	dems, err := decodeAll(fs.Args(), *header, opts)
	if err != nil {
		return fail(stderr, err)
	}
	for _, dem := range dems {
		printInfo(stdout, dem)
	}
	return 0
}

func printInfo(w io.Writer, dem *jpgis.DEM) {
	b := dem.Bounds

	fmt.Fprintf(w, "%s\n", dem.Source)
	if dem.Metadata.Mesh != "" {
		fmt.Fprintf(w, "  mesh:    %s\n", dem.Metadata.Mesh)
	}
	if dem.Metadata.Type != "" {
		fmt.Fprintf(w, "  type:    %s\n", dem.Metadata.Type)
	}
	if dem.Metadata.Date != "" {
		fmt.Fprintf(w, "  date:    %s\n", dem.Metadata.Date)
	}
	fmt.Fprintf(w, "  crs:     %s (EPSG:%d)\n", dem.CRS, dem.CRS.EPSG())
	fmt.Fprintf(w, "  size:    %d x %d\n", dem.Shape.Width, dem.Shape.Height)
	fmt.Fprintf(w, "  bounds:  %.6f %.6f %.6f %.6f\n", b.Left, b.Bottom, b.Right, b.Top)
	fmt.Fprintf(w, "  start:   %d %d\n", dem.StartPoint.X, dem.StartPoint.Y)
	if dem.Grid == nil {
		return
	}
	stats := dem.Grid.Stats()
	if stats.Count == 0 {
		fmt.Fprintf(w, "  cells:   0 of %d with data\n", stats.Total)
		return
	}
	fmt.Fprintf(w, "  cells:   %d of %d with data\n", stats.Count, stats.Total)
	fmt.Fprintf(w, "  min/max: %.2f / %.2f\n", stats.Min, stats.Max)
	fmt.Fprintf(w, "  mean:    %.2f\n", stats.Mean)
}

func runFootprint(args []string, _ io.Reader, stdout, stderr io.Writer) int {
	var common commonFlags
	fs := newFlagSet("footprint", "[-o FILE] [-bbox LEFT,BOTTOM,RIGHT,TOP] SRC...", stderr, &common)
	out := fs.String("o", "", "write GeoJSON to `FILE` instead of standard output")
	bbox := fs.String("bbox", "", "only tiles touching `LEFT,BOTTOM,RIGHT,TOP` (degrees)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "error: at least one SRC is required")
		fs.Usage()
		return 2
	}
	var filter *jpgis.Bounds
	if *bbox != "" {
		b, err := parseBBox(*bbox)
		if err != nil {
			fmt.Fprintf(stderr, "error: -bbox: %v\n", err)
			return 2
		}
		filter = &b
	}
	opts := common.options(stderr)
	defer opts.Logger.Sync()

	all, err := decodeAll(fs.Args(), true, opts)
	if err != nil {
		return fail(stderr, err)
	}
	if filter != nil {
		all = selectTiles(all, *filter)
		if len(all) == 0 {
			return fail(stderr, fmt.Errorf("no tiles touch %s", *bbox))
		}
	}

	fc, err := jpgis.Footprints(all)
	if err != nil {
		return fail(stderr, err)
	}
	raw, err := fc.MarshalJSON()
	if err != nil {
		return fail(stderr, err)
	}
	raw = append(raw, '\n')

	if *out == "" {
		if _, err := stdout.Write(raw); err != nil {
			return fail(stderr, err)
		}
		return 0
	}
	if err := os.WriteFile(*out, raw, 0o644); err != nil {
		return fail(stderr, err)
	}
	return 0
}

// parseBBox reads "left,bottom,right,top".
func parseBBox(s string) (jpgis.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return jpgis.Bounds{}, fmt.Errorf("expected LEFT,BOTTOM,RIGHT,TOP, got %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return jpgis.Bounds{}, fmt.Errorf("invalid number %q", p)
		}
		v[i] = f
	}
	b := jpgis.Bounds{Left: v[0], Bottom: v[1], Right: v[2], Top: v[3]}
	if b.Right < b.Left || b.Top < b.Bottom {
		return jpgis.Bounds{}, fmt.Errorf("inverted box %q", s)
	}
	return b, nil
}

// selectTiles keeps the documents whose extent touches b, in input order.
func selectTiles(dems []*jpgis.DEM, b jpgis.Bounds) []*jpgis.DEM {
	tiles := jpgis.BuildTileIndex(dems).Query(b)
	selected := make([]*jpgis.DEM, len(tiles))
	for i, t := range tiles {
		selected[i] = dems[t.Seq]
	}
	return selected
}

func runBatch(args []string, _ io.Reader, stdout, stderr io.Writer) int {
	var common commonFlags
	fs := newFlagSet("batch", "-o DIR [-j N] [-keep-going] SRC...", stderr, &common)
	outDir := fs.String("o", "", "output `DIR` (required)")
	workers := fs.Int("j", runtime.NumCPU(), "number of parallel conversions")
	keepGoing := fs.Bool("keep-going", false, "continue after a failed conversion")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *outDir == "" || fs.NArg() == 0 {
		fmt.Fprintln(stderr, "error: -o and at least one SRC are required")
		fs.Usage()
		return 2
	}

	jobs, err := batchJobs(fs.Args(), *outDir)
	if err != nil {
		return fail(stderr, err)
	}

	opts := jpgis.DefaultBatchOptions()
	opts.Options = common.options(stderr)
	opts.Workers = *workers
	opts.SkipErrors = *keepGoing
	defer opts.Logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := jpgis.ConvertFiles(ctx, jobs, opts)
	failed := jpgis.Failed(results)
	for _, r := range failed {
		if !errors.Is(r.Err, context.Canceled) {
			fmt.Fprintf(stderr, "error: %v\n", r.Err)
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) && len(failed) == 0 {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	fmt.Fprintf(stdout, "converted %d of %d\n", len(results)-len(failed), len(results))
	if err != nil || len(failed) > 0 {
		return 1
	}
	return 0
}

// batchJobs maps each source to DIR/<name>.tif. Two sources with the same
// base name are rejected rather than overwriting each other.
func batchJobs(srcs []string, outDir string) ([]jpgis.Job, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	seen := make(map[string]string, len(srcs))
	jobs := make([]jpgis.Job, 0, len(srcs))
	for _, src := range srcs {
		base := filepath.Base(src)
		name := strings.TrimSuffix(base, filepath.Ext(base)) + ".tif"
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, src, name)
		}
		seen[name] = src
		jobs = append(jobs, jpgis.Job{Src: src, Dst: filepath.Join(outDir, name)})
	}
	return jobs, nil
}
