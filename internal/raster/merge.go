package raster

import (
	"fmt"
	"strconv"

	"github.com/airbusgeo/godal"
)

// Mosaic is the result of merging several rasters.
type Mosaic struct {
	Data      []float32 // row-major, NoData where no source covers a cell
	Width     int
	Height    int
	Transform GeoTransform
}

// Merge mosaics sources into a single grid covering their union extent.
//
// Sources must share one CRS and be single-band, with NaN marking cells
// without data. The output resolution is the resolution of the first source.
// Where sources overlap, the later source in the slice wins, except that its
// NaN cells never overwrite another source. Cells no source covers with data
// are set to nodata.
//
// vrtPath is where the intermediate VRT is written; callers put it in scratch
// storage.
func Merge(vrtPath string, sources []string, nodata float64) (*Mosaic, error) {
	if len(sources) == 0 {
		return nil, &Error{Op: "merge", Path: vrtPath, Err: fmt.Errorf("no sources")}
	}

	first, err := Stat(sources[0])
	if err != nil {
		return nil, err
	}
	xres, yres := first.Transform.Resolution()

	switches := []string{
		"-resolution", "user",
		"-tr", strconv.FormatFloat(xres, 'g', -1, 64), strconv.FormatFloat(yres, 'g', -1, 64),
		"-srcnodata", "nan",
		"-vrtnodata", strconv.FormatFloat(nodata, 'f', -1, 64),
	}

	vrt, err := godal.BuildVRT(vrtPath, sources, switches)
	if err != nil {
		return nil, &Error{Op: "merge", Path: vrtPath, Err: err}
	}
	defer vrt.Close()

	structure := vrt.Structure()
	gt, err := vrt.GeoTransform()
	if err != nil {
		return nil, &Error{Op: "merge", Path: vrtPath, Err: fmt.Errorf("geotransform: %w", err)}
	}

	data, err := readFirstBand(vrt, vrtPath, structure.SizeX, structure.SizeY)
	if err != nil {
		return nil, err
	}

	return &Mosaic{
		Data:      data,
		Width:     structure.SizeX,
		Height:    structure.SizeY,
		Transform: GeoTransform(gt),
	}, nil
}
