package parser

// DEM is a fully decoded JPGIS GML DEM document.
// This is the top-level structure returned by the parser.
type DEM struct {
	Source     string     // Name the document was read from
	CRS        CRS        // Geodetic datum of Bounds
	Shape      Shape      // Grid size in cells
	Bounds     Bounds     // Grid extent in (x, y) order
	StartPoint StartPoint // Position of the first tupleList value
	Grid       *Grid      // Dense grid, NaN where there is no data
	Metadata   Metadata   // Descriptive fields, possibly empty
}

// Metadata holds the descriptive fields of the DEM element.
//
// They are informational only: a missing field is an empty string, never an
// error.
type Metadata struct {
	ID   string // fid, e.g. "fgoid:10-00100-15-60101-533946"
	Mesh string // Standard mesh code, e.g. "53394611"
	Type string // Product type, e.g. "5mメッシュ（標高）"
	Date string // Survey date (lfSpanFr), e.g. "2016-10-01"
}

// parseMetadata reads the optional DEM descriptive fields.
func parseMetadata(doc *Document) Metadata {
	dem := doc.find(pathDEM)
	if dem == nil {
		return Metadata{}
	}
	text := func(path string) string {
		if el := dem.FindElement(path); el != nil {
			return trimText(el.Text())
		}
		return ""
	}
	return Metadata{
		ID:   text(pathFID),
		Mesh: text(pathMesh),
		Type: text(pathType),
		Date: text(pathDate),
	}
}
