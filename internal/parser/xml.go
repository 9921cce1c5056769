package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Document is a namespace-free JPGIS GML element tree.
//
// Every element tag and attribute key is its local name ("gml:Envelope"
// becomes "Envelope"), and namespace declarations are gone, so schema paths
// can be written without prefixes.
type Document struct {
	Source string
	root   *etree.Element
}

// Root returns the normalized root element (the JPGIS Dataset element).
func (d *Document) Root() *etree.Element {
	return d.root
}

// find returns the first element matching path, or nil.
func (d *Document) find(path string) *etree.Element {
	return d.root.FindElement(path)
}

// text returns the trimmed text of the first element matching path.
// ok is false when no element matches.
func (d *Document) text(path string) (string, bool) {
	el := d.find(path)
	if el == nil {
		return "", false
	}
	return strings.TrimSpace(el.Text()), true
}

// rawText is text without trimming.
func (d *Document) rawText(path string) (string, bool) {
	el := d.find(path)
	if el == nil {
		return "", false
	}
	return el.Text(), true
}

// LoadXML parses r and returns its normalized tree.
//
// The document is read in full with no depth or size limits; DEM tuple lists
// routinely run to several megabytes. source names the input in error
// messages. Any parse failure, including an empty or truncated stream, is
// reported as *XMLError.
func LoadXML(r io.Reader, source string) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader

	if _, err := doc.ReadFrom(r); err != nil {
		return nil, &XMLError{Source: source, Err: err}
	}

	root := doc.Root()
	if root == nil {
		return nil, &XMLError{Source: source, Err: fmt.Errorf("no root element")}
	}

	return &Document{
		Source: source,
		root:   normalize(root),
	}, nil
}

// normalize returns a copy of el with every namespace prefix removed and
// every namespace declaration dropped. The input tree is left untouched.
//
// Only elements are visited; comments, processing instructions and directives
// have no tag and are carried over as-is.
func normalize(el *etree.Element) *etree.Element {
	out := el.Copy()
	stripNamespaces(out)
	return out
}

func stripNamespaces(el *etree.Element) {
	el.Space = ""

	attrs := el.Attr[:0]
	for _, a := range el.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			continue
		}
		a.Space = ""
		attrs = append(attrs, a)
	}
	el.Attr = attrs

	for _, child := range el.ChildElements() {
		stripNamespaces(child)
	}
}

// charsetReader decodes non-UTF-8 documents. Older GSI deliveries declare
// Shift_JIS.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
