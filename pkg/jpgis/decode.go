package jpgis

import (
	"bufio"
	"fmt"
	"io"

	"github.com/beetlebugorg/jpgisdem/internal/parser"
)

// Decode reads src, one XML document or a ZIP archive of them, and returns
// every decoded document in archive order. Nothing is written.
//
// source names src in errors and log fields.
func Decode(src io.Reader, source string, opts Options) ([]*DEM, error) {
	p := parser.NewParser(opts.logger())
	return decode(src, source, p.Parse)
}

// DecodeHeaders is Decode without the sample data: the returned documents
// carry CRS, shape, bounds, start point and metadata, and a nil Grid. The
// tupleList is neither parsed nor checked against the grid size.
func DecodeHeaders(src io.Reader, source string, opts Options) ([]*DEM, error) {
	p := parser.NewParser(opts.logger())
	return decode(src, source, p.ParseHeader)
}

type parseFunc func(r io.Reader, source string) (*DEM, error)

func decode(src io.Reader, source string, parse parseFunc) ([]*DEM, error) {
	br := bufio.NewReader(src)
	zipped, err := sniff(br)
	if err != nil {
		return nil, &ReadError{Source: source, Err: err}
	}
	if !zipped {
		dem, err := parse(br, source)
		if err != nil {
			return nil, err
		}
		return []*DEM{dem}, nil
	}

	ar, err := readArchive(br, source)
	if err != nil {
		return nil, err
	}
	if ar.Count() == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyArchive)
	}

	dems := make([]*DEM, 0, ar.Count())
	for i := 0; i < ar.Count(); i++ {
		dem, err := decodeMember(parse, ar, i)
		if err != nil {
			return nil, err
		}
		dems = append(dems, dem)
	}
	return dems, nil
}

func decodeMember(parse parseFunc, ar *archive, i int) (*DEM, error) {
	rc, err := ar.Open(i)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parse(rc, ar.Name(i))
}
