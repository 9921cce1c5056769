package jpgis

import (
	"fmt"
	"io"
	"os"

	"github.com/beetlebugorg/jpgisdem/internal/parser"
	"github.com/beetlebugorg/jpgisdem/internal/raster"
	"go.uber.org/zap"
)

// Decoded document types.
type (
	DEM       = parser.DEM
	CRS       = parser.CRS
	Shape     = parser.Shape
	Bounds    = parser.Bounds
	Grid      = parser.Grid
	GridStats = parser.GridStats
	Metadata  = parser.Metadata
)

// Datums.
const (
	JGD2011 = parser.CRSJGD2011
	JGD2000 = parser.CRSJGD2000
)

// NoData is the value declared as nodata on every output raster.
const NoData = parser.NoData

const streamName = "<stream>"

// Rasterize converts one XML document read from src into a GeoTIFF written to
// dst. Nothing is written to dst unless the conversion succeeds.
//
// src must be a raw XML document; use Convert for input that may be an
// archive.
func Rasterize(src io.Reader, dst io.Writer, opts Options) error {
	return rasterizeTo(src, sourceName(src), opts, func(path string) error {
		return deliver(path, dst)
	})
}

// rasterizeTo decodes src into a scratch GeoTIFF and hands its path to emit.
func rasterizeTo(src io.Reader, source string, opts Options, emit func(path string) error) error {
	log := opts.logger()

	sc, err := newScratch(opts.ScratchDir, log)
	if err != nil {
		return err
	}
	defer sc.Close()

	out := sc.path("out.tif")
	if _, err := rasterizeFile(src, source, out, log); err != nil {
		return err
	}
	return emit(out)
}

// rasterizeFile decodes one document and writes it as a GeoTIFF at path.
func rasterizeFile(src io.Reader, source, path string, log *zap.Logger) (*DEM, error) {
	dem, err := parser.NewParser(log).Parse(src, source)
	if err != nil {
		return nil, err
	}

	b := dem.Bounds
	gt := raster.FromBounds(b.Left, b.Bottom, b.Right, b.Top, dem.Shape.Width, dem.Shape.Height)
	if err := raster.Write(path, dem.Grid.Data, dem.Shape.Width, dem.Shape.Height, gt, dem.CRS.EPSG()); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	log.Debug("rasterized",
		zap.String("source", source),
		zap.Int("epsg", dem.CRS.EPSG()),
		zap.Int("width", dem.Shape.Width),
		zap.Int("height", dem.Shape.Height),
	)
	return dem, nil
}

// deliver copies the finished raster at path to dst.
func deliver(path string, dst io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return &WriteError{Err: err}
	}
	defer f.Close()

	if _, err := io.Copy(dst, f); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

// deliverFile copies the finished raster at path to dstPath. dstPath is
// removed again if the copy fails part way.
func deliverFile(path, dstPath string) (err error) {
	out, err := os.Create(dstPath)
	if err != nil {
		return &WriteError{Path: dstPath, Err: err}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: dstPath, Err: cerr}
		}
		if err != nil {
			os.Remove(dstPath)
		}
	}()

	in, err := os.Open(path)
	if err != nil {
		return &WriteError{Path: dstPath, Err: err}
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		return &WriteError{Path: dstPath, Err: err}
	}
	return nil
}

// sourceName returns the file name of src when it has one.
func sourceName(src io.Reader) string {
	if n, ok := src.(interface{ Name() string }); ok && n.Name() != "" {
		return n.Name()
	}
	return streamName
}

// RasterInfo describes a GeoTIFF on disk.
type RasterInfo = raster.Info

// Stat reads the size, datum and georeferencing of a raster written by this
// package, or any other raster GDAL can open.
func Stat(path string) (*RasterInfo, error) {
	return raster.Stat(path)
}
