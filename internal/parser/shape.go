package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape is the size of a DEM grid in cells.
type Shape struct {
	Height int // rows
	Width  int // columns
}

// Cells returns Height*Width.
func (s Shape) Cells() int {
	return s.Height * s.Width
}

// ParseShape reads the grid size from the GridEnvelope.
//
// The envelope holds inclusive zero-based "x y" index ranges, so a grid with
// high "224 149" is 225 columns by 150 rows. Axis labels other than exactly
// "x y", surrounding whitespace included, and non-zero low indices are
// rejected rather than reinterpreted.
func ParseShape(doc *Document) (Shape, error) {
	low, ok := doc.text(pathGridLow)
	if !ok {
		return Shape{}, &ShapeError{Reason: "GridEnvelope low not found"}
	}
	high, ok := doc.text(pathGridHigh)
	if !ok {
		return Shape{}, &ShapeError{Reason: "GridEnvelope high not found"}
	}
	labels, ok := doc.rawText(pathAxisLabels)
	if !ok {
		return Shape{}, &ShapeError{Reason: "axisLabels not found"}
	}

	if labels != "x y" {
		return Shape{}, &ShapeError{Reason: fmt.Sprintf("unknown axis labels %q", labels)}
	}

	xmin, ymin, err := parseIntPair(low)
	if err != nil {
		return Shape{}, &ShapeError{Reason: fmt.Sprintf("low: %v", err)}
	}
	xmax, ymax, err := parseIntPair(high)
	if err != nil {
		return Shape{}, &ShapeError{Reason: fmt.Sprintf("high: %v", err)}
	}

	if xmin != 0 || ymin != 0 {
		return Shape{}, &ShapeError{Reason: fmt.Sprintf("grid origin must be 0 0, got %d %d", xmin, ymin)}
	}

	shape := Shape{
		Height: ymax + 1 - ymin,
		Width:  xmax + 1 - xmin,
	}
	if err := ValidateShape(shape); err != nil {
		return Shape{}, err
	}
	return shape, nil
}

// parseIntPair parses exactly two whitespace-separated integers.
func parseIntPair(s string) (int, int, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected 2 integers, got %q", s)
	}
	a, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
