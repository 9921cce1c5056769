package parser

// Schema paths, relative to the document root (the Dataset element), after
// namespace prefixes have been stripped. JPGIS DEM files nest everything the
// decoder needs under DEM/coverage.
const (
	pathDEM         = "DEM"
	pathEnvelope    = "DEM/coverage/boundedBy/Envelope"
	pathLowerCorner = "DEM/coverage/boundedBy/Envelope/lowerCorner" // SW, "lat lon"
	pathUpperCorner = "DEM/coverage/boundedBy/Envelope/upperCorner" // NE, "lat lon"
	pathGridLow     = "DEM/coverage/gridDomain/Grid/limits/GridEnvelope/low"
	pathGridHigh    = "DEM/coverage/gridDomain/Grid/limits/GridEnvelope/high"
	pathAxisLabels  = "DEM/coverage/gridDomain/Grid/axisLabels"
	pathStartPoint  = "DEM/coverage/coverageFunction/GridFunction/startPoint"
	pathTupleList   = "DEM/coverage/rangeSet/DataBlock/tupleList"

	attrSRSName = "srsName"
)

// Metadata paths, relative to the DEM element. None of them are required.
const (
	pathFID  = "fid"
	pathMesh = "mesh"
	pathType = "type"
	pathDate = "lfSpanFr/timePosition"
)
