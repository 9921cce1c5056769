package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NoData is the elevation value JPGIS uses for cells without a measurement.
// It is replaced by NaN in assembled grids and declared as the nodata value of
// every raster written from them.
const NoData = -9999.0

// StartPoint is the grid position of the first value in the tupleList.
// Every cell before it, in row-major order, has no data.
type StartPoint struct {
	X int
	Y int
}

// ParseStartPoint reads the GridFunction startPoint ("x y").
func ParseStartPoint(doc *Document) (StartPoint, error) {
	text, ok := doc.text(pathStartPoint)
	if !ok {
		return StartPoint{}, &StartPointError{Reason: "GridFunction startPoint not found"}
	}
	x, y, err := parseIntPair(text)
	if err != nil {
		return StartPoint{}, &StartPointError{Reason: err.Error()}
	}
	if x < 0 || y < 0 {
		return StartPoint{}, &StartPointError{Reason: fmt.Sprintf("negative offset %d %d", x, y)}
	}
	return StartPoint{X: x, Y: y}, nil
}

// LeadingRun returns the nodata run that precedes the tupleList values:
// width*y + x copies of NoData. An offset past the last cell of the grid is a
// *SizeError and nothing is allocated.
func LeadingRun(start StartPoint, shape Shape) ([]float32, error) {
	n, err := leadingCells(start, shape)
	if err != nil {
		return nil, err
	}
	run := make([]float32, n)
	for i := range run {
		run[i] = NoData
	}
	return run, nil
}

// leadingCells computes width*y + x without overflowing: y is bounded by the
// height first, so width*y never exceeds the cell count.
func leadingCells(start StartPoint, shape Shape) (int, error) {
	cells := shape.Cells()
	if start.Y > shape.Height {
		return 0, &SizeError{Want: cells, Start: &start}
	}
	n := shape.Width * start.Y
	if start.X > cells-n {
		return 0, &SizeError{Want: cells, Start: &start}
	}
	return n + start.X, nil
}

// ParseTupleList decodes the DataBlock tupleList.
//
// Each line is a comma-separated tuple such as "地表面,123.45"; only the last
// field is the elevation, the others name the surface type and are discarded.
// Values are returned in line order. Values beyond the float32 range become
// ±Inf.
func ParseTupleList(doc *Document) ([]float32, error) {
	block, ok := doc.text(pathTupleList)
	if !ok {
		return nil, &SampleError{Reason: "DataBlock tupleList not found"}
	}
	if block == "" {
		return nil, &SampleError{Reason: "tupleList is empty"}
	}

	lines := strings.Split(block, "\n")
	values := make([]float32, len(lines))
	for i, line := range lines {
		field := line
		if idx := strings.LastIndexByte(line, ','); idx >= 0 {
			field = line[idx+1:]
		}
		field = strings.TrimSpace(field)

		// Out-of-range magnitudes come back as ±Inf with ErrRange; keep them.
		v, err := strconv.ParseFloat(field, 32)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, &SampleError{Line: i + 1, Reason: fmt.Sprintf("invalid value %q", field)}
		}
		values[i] = float32(v)
	}
	return values, nil
}
