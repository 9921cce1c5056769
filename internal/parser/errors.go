package parser

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by this package matches exactly one of
// these through errors.Is.
var (
	// ErrMalformedInput covers invalid XML, missing schema paths and
	// unparseable numeric or text fields.
	ErrMalformedInput = errors.New("malformed input")

	// ErrSchemaMismatch covers a missing or unrecognized reference system.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrSizeMismatch covers decoded samples exceeding the declared grid.
	ErrSizeMismatch = errors.New("size mismatch")
)

// XMLError indicates the source could not be parsed as XML at all
type XMLError struct {
	Source string
	Err    error
}

func (e *XMLError) Error() string {
	return fmt.Sprintf("unable to parse '%s': is it a valid xml file?", e.Source)
}

func (e *XMLError) Unwrap() error { return e.Err }

func (e *XMLError) Is(target error) bool { return target == ErrMalformedInput }

// CRSError indicates the Envelope srsName attribute is absent or unsupported
type CRSError struct {
	Value   string
	Missing bool
}

func (e *CRSError) Error() string {
	if e.Missing {
		return "unable to find srs: is this a JPGIS GML DEM file?"
	}
	return fmt.Sprintf("unsupported srs: '%s'", e.Value)
}

func (e *CRSError) Is(target error) bool { return target == ErrSchemaMismatch }

// ShapeError indicates the GridEnvelope could not be turned into a grid shape
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unable to determine grid shape: %s", e.Reason)
}

func (e *ShapeError) Is(target error) bool { return target == ErrMalformedInput }

// BoundsError indicates the Envelope corners are missing or malformed
type BoundsError struct {
	Reason string
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("unable to determine spatial extent: %s", e.Reason)
}

func (e *BoundsError) Is(target error) bool { return target == ErrMalformedInput }

// StartPointError indicates the GridFunction startPoint is missing or malformed
type StartPointError struct {
	Reason string
}

func (e *StartPointError) Error() string {
	return fmt.Sprintf("unable to parse start offset: %s", e.Reason)
}

func (e *StartPointError) Is(target error) bool { return target == ErrMalformedInput }

// SampleError indicates the tupleList is missing, empty, or holds a
// non-numeric value. Line is 1-based; zero means the block as a whole.
type SampleError struct {
	Line   int
	Reason string
}

func (e *SampleError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("unable to parse sample data: line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("unable to parse sample data: %s", e.Reason)
}

func (e *SampleError) Is(target error) bool { return target == ErrMalformedInput }

// SizeError indicates more samples were decoded than the grid can hold, or a
// startPoint that lies past the end of the grid
type SizeError struct {
	Got, Want int
	Start     *StartPoint // set when the start offset alone overruns the grid
}

func (e *SizeError) Error() string {
	if e.Start != nil {
		return fmt.Sprintf("data exceeds declared grid size: startPoint %d %d is past the last of %d cells",
			e.Start.X, e.Start.Y, e.Want)
	}
	return fmt.Sprintf("data exceeds declared grid size: %d samples for %d cells", e.Got, e.Want)
}

func (e *SizeError) Is(target error) bool { return target == ErrSizeMismatch }
