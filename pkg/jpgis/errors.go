package jpgis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beetlebugorg/jpgisdem/internal/parser"
	"github.com/beetlebugorg/jpgisdem/internal/raster"
)

// Error classes. Every error returned by this package matches one of these
// through errors.Is.
var (
	// ErrMalformedInput: invalid XML, missing schema paths, bad numbers,
	// unexpected axis labels or a non-zero grid origin.
	ErrMalformedInput = parser.ErrMalformedInput

	// ErrSchemaMismatch: missing or unrecognized reference system.
	ErrSchemaMismatch = parser.ErrSchemaMismatch

	// ErrSizeMismatch: more samples than the declared grid holds.
	ErrSizeMismatch = parser.ErrSizeMismatch

	// ErrArchive: unreadable or empty archive, or mixed reference systems
	// across its documents.
	ErrArchive = errors.New("archive")

	// ErrIO: failures reading archive members or writing rasters.
	ErrIO = raster.ErrIO
)

type archiveError string

func (e archiveError) Error() string { return string(e) }

func (e archiveError) Is(target error) bool { return target == ErrArchive }

// ErrEmptyArchive is returned for an archive holding no XML documents.
// It matches ErrArchive.
var ErrEmptyArchive error = archiveError("empty archive: no xml documents found")

// ArchiveError indicates the input looked like a ZIP archive but could not be
// read as one
type ArchiveError struct {
	Err error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("unable to read archive: %v", e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

func (e *ArchiveError) Is(target error) bool { return target == ErrArchive }

// MixedCRSError indicates the documents of an archive use more than one
// reference system. Codes lists the distinct EPSG codes in archive order.
type MixedCRSError struct {
	Codes []int
}

func (e *MixedCRSError) Error() string {
	codes := make([]string, len(e.Codes))
	for i, c := range e.Codes {
		codes[i] = fmt.Sprintf("EPSG:%d", c)
	}
	return fmt.Sprintf("mixed reference systems in archive: %s", strings.Join(codes, ", "))
}

func (e *MixedCRSError) Is(target error) bool { return target == ErrArchive }

// MemberError indicates an archive member could not be opened or read
type MemberError struct {
	Name string
	Err  error
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("unable to read archive member '%s': %v", e.Name, e.Err)
}

func (e *MemberError) Unwrap() error { return e.Err }

func (e *MemberError) Is(target error) bool { return target == ErrIO }

// ReadError indicates the input itself could not be opened or read
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("unable to read '%s': %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func (e *ReadError) Is(target error) bool { return target == ErrIO }

// WriteError indicates the finished raster could not be delivered to its
// destination, or scratch storage could not be set up
type WriteError struct {
	Path string // empty when writing to a caller-supplied io.Writer
	Err  error
}

func (e *WriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unable to write output: %v", e.Err)
	}
	return fmt.Sprintf("unable to write '%s': %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool { return target == ErrIO }
