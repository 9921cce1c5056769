// Package raster wraps GDAL (through godal) for the three raster operations
// the converter needs: writing a single-band float32 GeoTIFF, reading a
// written tile back, and mosaicking several tiles into one grid.
package raster

import (
	"errors"
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
)

// NoData is the nodata value declared on every raster written by this package.
const NoData = -9999.0

// BlockSize is the internal tile size of written GeoTIFFs.
const BlockSize = 512

// creationOptions is the fixed GTiff encoding: deflate-compressed, 512x512
// internal tiles, pixel interleaved.
var creationOptions = []string{
	"COMPRESS=DEFLATE",
	"TILED=YES",
	fmt.Sprintf("BLOCKXSIZE=%d", BlockSize),
	fmt.Sprintf("BLOCKYSIZE=%d", BlockSize),
	"INTERLEAVE=PIXEL",
}

// CreationOptions returns a copy of the GTiff creation options used by Write.
func CreationOptions() []string {
	return append([]string(nil), creationOptions...)
}

// ErrIO is matched by every error returned from GDAL calls.
var ErrIO = errors.New("raster i/o")

// Error reports a failed GDAL operation on a path
type Error struct {
	Op   string // "create", "write", "open", "read", "merge"
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("raster %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrIO }

var registerOnce sync.Once

// register loads the GDAL drivers once per process.
func register() {
	registerOnce.Do(godal.RegisterAll)
}
