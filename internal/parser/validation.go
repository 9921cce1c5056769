package parser

import (
	"fmt"
	"math"
)

// ValidateCoordinate validates a single coordinate pair.
// JPGIS DEM extents are geographic, so they must be within valid degree ranges.
func ValidateCoordinate(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90.0 || lat > 90.0 {
		return fmt.Errorf("invalid coordinate: lat=%f lon=%f (lat must be ±90)", lat, lon)
	}
	if math.IsNaN(lon) || lon < -180.0 || lon > 180.0 {
		return fmt.Errorf("invalid coordinate: lat=%f lon=%f (lon must be ±180)", lat, lon)
	}
	return nil
}

// ValidateBounds checks that both corners are valid coordinates and that the
// extent is not empty or inverted.
func ValidateBounds(b Bounds) error {
	if err := ValidateCoordinate(b.Bottom, b.Left); err != nil {
		return &BoundsError{Reason: fmt.Sprintf("lowerCorner: %v", err)}
	}
	if err := ValidateCoordinate(b.Top, b.Right); err != nil {
		return &BoundsError{Reason: fmt.Sprintf("upperCorner: %v", err)}
	}
	if b.Right <= b.Left || b.Top <= b.Bottom {
		return &BoundsError{Reason: fmt.Sprintf("empty or inverted extent [%f,%f] to [%f,%f]",
			b.Left, b.Bottom, b.Right, b.Top)}
	}
	return nil
}

// maxCells bounds the grid size. GDAL band dimensions are C ints.
const maxCells = math.MaxInt32

// ValidateShape checks that both grid dimensions are positive and that the
// grid can be allocated and written.
func ValidateShape(s Shape) error {
	if s.Width <= 0 || s.Height <= 0 {
		return &ShapeError{Reason: fmt.Sprintf("non-positive grid size %dx%d", s.Width, s.Height)}
	}
	if s.Width > maxCells/s.Height {
		return &ShapeError{Reason: fmt.Sprintf("grid size %dx%d exceeds %d cells", s.Width, s.Height, maxCells)}
	}
	return nil
}
