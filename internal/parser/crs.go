package parser

// CRS identifies the geodetic datum of a DEM document.
//
// JPGIS DEM files only ever use geographic latitude/longitude on one of the
// two Japanese Geodetic Datum realizations.
type CRS int

const (
	// CRSUnknown is the zero value and never returned without an error.
	CRSUnknown CRS = iota

	// CRSJGD2011 is JGD2011 geographic 2D (EPSG:6668).
	CRSJGD2011

	// CRSJGD2000 is JGD2000 geographic 2D (EPSG:4612).
	CRSJGD2000
)

// srsNames maps the Envelope srsName identifiers to datums.
var srsNames = map[string]CRS{
	"fguuid:jgd2011.bl": CRSJGD2011,
	"fguuid:jgd2000.bl": CRSJGD2000,
}

// EPSG returns the EPSG geodetic code of the datum, or 0 for CRSUnknown.
func (c CRS) EPSG() int {
	switch c {
	case CRSJGD2011:
		return 6668
	case CRSJGD2000:
		return 4612
	default:
		return 0
	}
}

// String returns the datum name.
func (c CRS) String() string {
	switch c {
	case CRSJGD2011:
		return "JGD2011"
	case CRSJGD2000:
		return "JGD2000"
	default:
		return "Unknown"
	}
}

// ParseCRS resolves the reference system named by the Envelope srsName
// attribute. A missing attribute means the document is not a JPGIS DEM; an
// unrecognized one is a datum this package does not support.
func ParseCRS(doc *Document) (CRS, error) {
	env := doc.find(pathEnvelope)
	if env == nil {
		return CRSUnknown, &CRSError{Missing: true}
	}
	attr := env.SelectAttr(attrSRSName)
	if attr == nil {
		return CRSUnknown, &CRSError{Missing: true}
	}

	crs, ok := srsNames[attr.Value]
	if !ok {
		return CRSUnknown, &CRSError{Value: attr.Value}
	}
	return crs, nil
}
