package jpgis

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/beetlebugorg/jpgisdem/internal/raster"
	"go.uber.org/zap"
)

// Convert converts src, either one XML document or a ZIP archive of them,
// into a single GeoTIFF written to dst. Nothing is written to dst unless the
// conversion succeeds.
//
// An archive holding one document gives exactly the bytes that converting the
// document alone gives. An archive holding several is mosaicked: the output
// covers the union of the tiles at the resolution of the first, and where
// tiles overlap the later one in the archive wins. All tiles must share one
// datum, otherwise a *MixedCRSError is returned.
func Convert(src io.Reader, dst io.Writer, opts Options) error {
	return convert(src, sourceName(src), opts, func(path string) error {
		return deliver(path, dst)
	})
}

// ConvertFile converts the file at srcPath and writes the GeoTIFF to dstPath.
// dstPath is created only after the conversion has succeeded.
func ConvertFile(srcPath, dstPath string, opts Options) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return &ReadError{Source: srcPath, Err: err}
	}
	defer src.Close()

	return convert(src, srcPath, opts, func(path string) error {
		return deliverFile(path, dstPath)
	})
}

func convert(src io.Reader, source string, opts Options, emit func(path string) error) error {
	log := opts.logger()

	br := bufio.NewReader(src)
	zipped, err := sniff(br)
	if err != nil {
		return &ReadError{Source: source, Err: err}
	}
	if !zipped {
		return rasterizeTo(br, source, opts, emit)
	}

	ar, err := readArchive(br, source)
	if err != nil {
		return err
	}

	log.Debug("archive opened",
		zap.String("source", source),
		zap.Int("members", ar.Count()),
		zap.Strings("names", ar.Names()),
	)

	switch ar.Count() {
	case 0:
		return fmt.Errorf("%s: %w", source, ErrEmptyArchive)
	case 1:
		rc, err := ar.Open(0)
		if err != nil {
			return err
		}
		defer rc.Close()
		return rasterizeTo(rc, ar.Name(0), opts, emit)
	default:
		return mergeArchive(ar, source, opts, emit)
	}
}

func readArchive(r io.Reader, source string) (*archive, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ReadError{Source: source, Err: err}
	}
	ar, err := openArchive(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return ar, nil
}

// mergeArchive rasterizes every document of ar into scratch tiles, checks
// they share one CRS, mosaics them and hands the result to emit.
func mergeArchive(ar *archive, source string, opts Options, emit func(path string) error) error {
	log := opts.logger()

	sc, err := newScratch(opts.ScratchDir, log)
	if err != nil {
		return err
	}
	defer sc.Close()

	tiles := make([]string, ar.Count())
	idx := NewTileIndex()
	var codes []int
	seen := make(map[int]bool)

	for i := range tiles {
		tiles[i] = sc.tile(i)
		dem, err := rasterizeMember(ar, i, tiles[i], log)
		if err != nil {
			return err
		}

		info, err := raster.Stat(tiles[i])
		if err != nil {
			return err
		}
		if !seen[info.EPSG] {
			seen[info.EPSG] = true
			codes = append(codes, info.EPSG)
		}

		idx.Insert(Tile{
			Name:   ar.Name(i),
			Extent: dem.Bounds,
			EPSG:   info.EPSG,
			Shape:  dem.Shape,
		})
	}

	if len(codes) > 1 {
		return fmt.Errorf("%s: %w", source, &MixedCRSError{Codes: codes})
	}

	for _, pair := range idx.Overlaps() {
		log.Info("overlapping tiles, later one wins",
			zap.String("source", source),
			zap.String("tile", pair[0].Name),
			zap.String("over", pair[1].Name),
		)
	}

	m, err := raster.Merge(sc.path("merged.vrt"), tiles, raster.NoData)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	if extent := idx.Extent(); extentDrift(m, extent) > 0.5 {
		left, bottom, right, top := m.Transform.Bounds(m.Width, m.Height)
		log.Warn("mosaic does not match tile extents",
			zap.String("source", source),
			zap.Float64s("tiles", []float64{extent.Left, extent.Bottom, extent.Right, extent.Top}),
			zap.Float64s("mosaic", []float64{left, bottom, right, top}),
		)
	}

	out := sc.path("out.tif")
	if err := raster.Write(out, m.Data, m.Width, m.Height, m.Transform, codes[0]); err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}

	log.Info("merged archive",
		zap.String("source", source),
		zap.Int("members", idx.Count()),
		zap.Int("epsg", codes[0]),
		zap.Int("width", m.Width),
		zap.Int("height", m.Height),
	)

	return emit(out)
}

// extentDrift returns the largest distance between an edge of the mosaic and
// the matching edge of want, in mosaic cells. The first tile's resolution
// rarely divides the union exactly, so up to half a cell is rounding.
func extentDrift(m *raster.Mosaic, want Bounds) float64 {
	left, bottom, right, top := m.Transform.Bounds(m.Width, m.Height)
	xres, yres := m.Transform.Resolution()
	return math.Max(
		math.Max(math.Abs(left-want.Left), math.Abs(right-want.Right))/xres,
		math.Max(math.Abs(bottom-want.Bottom), math.Abs(top-want.Top))/yres,
	)
}

func rasterizeMember(ar *archive, i int, path string, log *zap.Logger) (*DEM, error) {
	rc, err := ar.Open(i)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return rasterizeFile(rc, ar.Name(i), path, log)
}
