package parser

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Parser decodes JPGIS GML DEM documents.
//
// A DEM document is a GML coverage: an Envelope giving the datum and extent,
// a GridEnvelope giving the grid size, a GridFunction startPoint giving how
// many leading cells are implicitly empty, and a tupleList holding one value
// per remaining cell in row-major order.
type Parser interface {
	// Parse reads one XML document and returns the decoded DEM.
	// source names the document in log fields and error messages.
	Parse(r io.Reader, source string) (*DEM, error)

	// ParseHeader reads the CRS, shape, bounds and metadata without decoding
	// the tupleList.
	ParseHeader(r io.Reader, source string) (*DEM, error)
}

// defaultParser implements the Parser interface
type defaultParser struct {
	log *zap.Logger
}

// NewParser creates a new DEM parser. A nil logger disables logging.
func NewParser(log *zap.Logger) Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &defaultParser{log: log}
}

// Parse reads one XML document and returns the decoded DEM.
func (p *defaultParser) Parse(r io.Reader, source string) (*DEM, error) {
	doc, err := LoadXML(r, source)
	if err != nil {
		return nil, err
	}
	return Decode(doc, p.log)
}

// ParseHeader reads everything except the sample data.
func (p *defaultParser) ParseHeader(r io.Reader, source string) (*DEM, error) {
	doc, err := LoadXML(r, source)
	if err != nil {
		return nil, err
	}
	return decodeHeader(doc)
}

// Decode runs every extractor over a normalized document and assembles the
// grid. Each step fails with its own error type; nothing is returned on
// failure.
func Decode(doc *Document, log *zap.Logger) (*DEM, error) {
	if log == nil {
		log = zap.NewNop()
	}

	// 1. Header: datum, grid size, extent, start offset
	dem, err := decodeHeader(doc)
	if err != nil {
		return nil, err
	}

	// 2. Samples: implicit nodata run, then explicit values
	lead, err := LeadingRun(dem.StartPoint, dem.Shape)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Source, err)
	}
	main, err := ParseTupleList(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Source, err)
	}

	// 3. Dense grid
	grid, err := AssembleGrid(lead, main, dem.Shape)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Source, err)
	}
	dem.Grid = grid

	log.Debug("decoded dem",
		zap.String("source", doc.Source),
		zap.Stringer("crs", dem.CRS),
		zap.Int("width", dem.Shape.Width),
		zap.Int("height", dem.Shape.Height),
		zap.Int("leading", len(lead)),
		zap.Int("samples", len(main)),
		zap.Int("padding", dem.Shape.Cells()-len(lead)-len(main)),
	)

	return dem, nil
}

func decodeHeader(doc *Document) (*DEM, error) {
	crs, err := ParseCRS(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Source, err)
	}
	shape, err := ParseShape(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Source, err)
	}
	bounds, err := ParseBounds(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Source, err)
	}
	start, err := ParseStartPoint(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Source, err)
	}

	return &DEM{
		Source:     doc.Source,
		CRS:        crs,
		Shape:      shape,
		Bounds:     bounds,
		StartPoint: start,
		Metadata:   parseMetadata(doc),
	}, nil
}

func trimText(s string) string {
	return strings.TrimSpace(s)
}
