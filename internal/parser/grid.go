package parser

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Grid is a dense row-major elevation grid. Cells without data are NaN.
type Grid struct {
	Shape
	Data []float32 // len(Data) == Height*Width
}

// At returns the value at the given row and column.
func (g *Grid) At(row, col int) float32 {
	return g.Data[row*g.Width+col]
}

// Row returns a slice over one grid row.
func (g *Grid) Row(row int) []float32 {
	return g.Data[row*g.Width : (row+1)*g.Width]
}

// AssembleGrid builds the dense grid from the leading nodata run and the
// tupleList values.
//
// NoData values become NaN. A short grid is padded with NaN at the end, since
// GSI files routinely omit trailing nodata cells; a grid with more samples
// than cells is an error.
func AssembleGrid(lead, main []float32, shape Shape) (*Grid, error) {
	n := shape.Cells()
	got := len(lead) + len(main)
	if got > n {
		return nil, &SizeError{Got: got, Want: n}
	}

	data := make([]float32, 0, n)
	data = append(data, lead...)
	data = append(data, main...)

	nan := float32(math.NaN())
	for i, v := range data {
		if v == NoData {
			data[i] = nan
		}
	}
	for len(data) < n {
		data = append(data, nan)
	}

	return &Grid{Shape: shape, Data: data}, nil
}

// GridStats summarizes the cells of a grid that hold data.
type GridStats struct {
	Count int // cells with data
	Total int // all cells
	Min   float64
	Max   float64
	Mean  float64
}

// Stats computes statistics over the non-NaN cells of the grid.
// Min, Max and Mean are NaN when the grid holds no data.
func (g *Grid) Stats() GridStats {
	values := make([]float64, 0, len(g.Data))
	for _, v := range g.Data {
		if !math.IsNaN(float64(v)) {
			values = append(values, float64(v))
		}
	}

	stats := GridStats{Count: len(values), Total: len(g.Data)}
	if len(values) == 0 {
		stats.Min, stats.Max, stats.Mean = math.NaN(), math.NaN(), math.NaN()
		return stats
	}
	stats.Min = floats.Min(values)
	stats.Max = floats.Max(values)
	stats.Mean = floats.Sum(values) / float64(len(values))
	return stats
}
