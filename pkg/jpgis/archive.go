package jpgis

import (
	"bufio"
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Local file header and end of central directory signatures. An archive with
// no members starts with the latter.
var (
	zipLocalMagic = []byte("PK\x03\x04")
	zipEmptyMagic = []byte("PK\x05\x06")
)

// sniff reports whether br starts with a ZIP signature without consuming it.
func sniff(br *bufio.Reader) (bool, error) {
	magic, err := br.Peek(4)
	if err == io.EOF || err == bufio.ErrBufferFull {
		// too short to be an archive; let the XML parser report it
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bytes.Equal(magic, zipLocalMagic) || bytes.Equal(magic, zipEmptyMagic), nil
}

// archive is an ordered view of the XML documents inside a ZIP file.
// Directories and non-XML members are not part of it.
type archive struct {
	members []*zip.File
}

func openArchive(data []byte) (*archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ArchiveError{Err: err}
	}

	a := &archive{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isXMLName(f.Name) {
			continue
		}
		a.members = append(a.members, f)
	}
	return a, nil
}

func isXMLName(name string) bool {
	return strings.EqualFold(path.Ext(name), ".xml")
}

// Count returns the number of XML documents.
func (a *archive) Count() int {
	return len(a.members)
}

// Names returns the document names in archive order.
func (a *archive) Names() []string {
	names := make([]string, len(a.members))
	for i, f := range a.members {
		names[i] = f.Name
	}
	return names
}

// Name returns the name of the i-th document.
func (a *archive) Name(i int) string {
	return a.members[i].Name
}

// Open returns a stream over the i-th document.
func (a *archive) Open(i int) (io.ReadCloser, error) {
	rc, err := a.members[i].Open()
	if err != nil {
		return nil, &MemberError{Name: a.members[i].Name, Err: err}
	}
	return &memberReader{rc: rc, name: a.members[i].Name}, nil
}

// memberReader tags read failures (bad CRC, truncated deflate stream) with
// the member name.
type memberReader struct {
	rc   io.ReadCloser
	name string
}

func (m *memberReader) Read(p []byte) (int, error) {
	n, err := m.rc.Read(p)
	if err != nil && err != io.EOF {
		return n, &MemberError{Name: m.name, Err: err}
	}
	return n, err
}

func (m *memberReader) Close() error {
	return m.rc.Close()
}
