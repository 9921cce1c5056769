package raster

import (
	"fmt"
	"strconv"

	"github.com/airbusgeo/godal"
)

// Info describes a raster on disk.
type Info struct {
	Width     int
	Height    int
	Bands     int
	EPSG      int // 0 when the CRS has no EPSG authority code
	Transform GeoTransform
	NoData    float64
	HasNoData bool
}

// Stat opens path and returns its size, CRS and georeferencing.
func Stat(path string) (*Info, error) {
	register()

	ds, err := godal.Open(path)
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}
	defer ds.Close()

	return stat(ds, path)
}

func stat(ds *godal.Dataset, path string) (*Info, error) {
	structure := ds.Structure()

	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, &Error{Op: "read", Path: path, Err: fmt.Errorf("geotransform: %w", err)}
	}

	info := &Info{
		Width:     structure.SizeX,
		Height:    structure.SizeY,
		Bands:     structure.NBands,
		Transform: GeoTransform(gt),
	}

	if sr := ds.SpatialRef(); sr != nil {
		defer sr.Close()
		if code, err := strconv.Atoi(sr.AuthorityCode("")); err == nil {
			info.EPSG = code
		}
	}

	if bands := ds.Bands(); len(bands) > 0 {
		info.NoData, info.HasNoData = bands[0].NoData()
	}

	return info, nil
}

// ReadBand reads the first band of path as float32 values, row-major.
func ReadBand(path string) ([]float32, *Info, error) {
	register()

	ds, err := godal.Open(path)
	if err != nil {
		return nil, nil, &Error{Op: "open", Path: path, Err: err}
	}
	defer ds.Close()

	info, err := stat(ds, path)
	if err != nil {
		return nil, nil, err
	}
	data, err := readFirstBand(ds, path, info.Width, info.Height)
	if err != nil {
		return nil, nil, err
	}
	return data, info, nil
}

func readFirstBand(ds *godal.Dataset, path string, width, height int) ([]float32, error) {
	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, &Error{Op: "read", Path: path, Err: fmt.Errorf("no raster bands")}
	}
	data := make([]float32, width*height)
	if err := bands[0].Read(0, 0, data, width, height); err != nil {
		return nil, &Error{Op: "read", Path: path, Err: err}
	}
	return data, nil
}
