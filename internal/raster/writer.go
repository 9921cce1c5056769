package raster

import (
	"fmt"

	"github.com/airbusgeo/godal"
)

// Write creates a single-band float32 GeoTIFF at path holding data (row-major,
// width x height), georeferenced by gt in the given EPSG CRS, with NoData
// declared as nodata and the fixed creation options.
//
// GDAL writes no timestamps, so identical inputs give identical files.
func Write(path string, data []float32, width, height int, gt GeoTransform, epsg int) (err error) {
	if len(data) != width*height {
		return &Error{Op: "write", Path: path,
			Err: fmt.Errorf("data has %d values for a %dx%d raster", len(data), width, height)}
	}

	register()

	ds, err := godal.Create(godal.GTiff, path, 1, godal.Float32, width, height,
		godal.CreationOption(creationOptions...))
	if err != nil {
		return &Error{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := ds.Close(); cerr != nil && err == nil {
			err = &Error{Op: "write", Path: path, Err: cerr}
		}
	}()

	if err := ds.SetGeoTransform([6]float64(gt)); err != nil {
		return &Error{Op: "write", Path: path, Err: fmt.Errorf("set geotransform: %w", err)}
	}

	sr, err := godal.NewSpatialRefFromEPSG(epsg)
	if err != nil {
		return &Error{Op: "write", Path: path, Err: fmt.Errorf("EPSG:%d: %w", epsg, err)}
	}
	defer sr.Close()

	if err := ds.SetSpatialRef(sr); err != nil {
		return &Error{Op: "write", Path: path, Err: fmt.Errorf("set spatial ref: %w", err)}
	}

	band := ds.Bands()[0]
	if err := band.SetNoData(NoData); err != nil {
		return &Error{Op: "write", Path: path, Err: fmt.Errorf("set nodata: %w", err)}
	}
	if err := band.Write(0, 0, data, width, height); err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}

	return nil
}
