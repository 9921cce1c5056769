package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Bounds is the extent of a DEM grid in degrees of its CRS.
//
// Left/Right are longitudes and Bottom/Top are latitudes, i.e. (x, y) order,
// even though the GML file stores corners as "latitude longitude".
type Bounds struct {
	Left   float64
	Bottom float64
	Right  float64
	Top    float64
}

// Union returns the smallest bounds containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{
		Left:   min(b.Left, other.Left),
		Bottom: min(b.Bottom, other.Bottom),
		Right:  max(b.Right, other.Right),
		Top:    max(b.Top, other.Top),
	}
}

// Intersects returns true if the interiors of b and other overlap.
// Tiles that only share an edge do not intersect.
func (b Bounds) Intersects(other Bounds) bool {
	return other.Left < b.Right && other.Right > b.Left &&
		other.Bottom < b.Top && other.Top > b.Bottom
}

// ParseBounds reads the Envelope corners.
//
// lowerCorner is the south-west corner and upperCorner the north-east corner,
// each written "northing easting" as JPGIS mandates for geographic CRSs. They
// are flipped here so that Bounds is in (x, y) order.
func ParseBounds(doc *Document) (Bounds, error) {
	lower, ok := doc.text(pathLowerCorner)
	if !ok {
		return Bounds{}, &BoundsError{Reason: "Envelope lowerCorner not found"}
	}
	upper, ok := doc.text(pathUpperCorner)
	if !ok {
		return Bounds{}, &BoundsError{Reason: "Envelope upperCorner not found"}
	}

	bottom, left, err := parseFloatPair(lower)
	if err != nil {
		return Bounds{}, &BoundsError{Reason: fmt.Sprintf("lowerCorner: %v", err)}
	}
	top, right, err := parseFloatPair(upper)
	if err != nil {
		return Bounds{}, &BoundsError{Reason: fmt.Sprintf("upperCorner: %v", err)}
	}

	bounds := Bounds{Left: left, Bottom: bottom, Right: right, Top: top}
	if err := ValidateBounds(bounds); err != nil {
		return Bounds{}, err
	}
	return bounds, nil
}

// parseFloatPair parses exactly two whitespace-separated reals.
func parseFloatPair(s string) (float64, float64, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected 2 numbers, got %q", s)
	}
	a, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
