package jpgis

import (
	"errors"
	"fmt"
	"strings"

	geojson "github.com/paulmach/go.geojson"
	"github.com/twpayne/go-geos"
)

// Footprints describes the coverage of decoded documents as GeoJSON.
//
// The collection holds one Polygon feature per document, carrying its source,
// mesh code, datum and grid size as properties, followed by one feature with
// "kind": "coverage" whose geometry is the union of all extents. Coordinates
// are (longitude, latitude) in each document's own datum; no reprojection is
// done.
func Footprints(dems []*DEM) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	if len(dems) == 0 {
		return fc, nil
	}

	extents := make([]Bounds, len(dems))
	for i, dem := range dems {
		extents[i] = dem.Bounds

		f := geojson.NewPolygonFeature(boundsRing(dem.Bounds))
		f.SetProperty("kind", "tile")
		f.SetProperty("source", dem.Source)
		f.SetProperty("mesh", dem.Metadata.Mesh)
		f.SetProperty("id", dem.Metadata.ID)
		f.SetProperty("type", dem.Metadata.Type)
		f.SetProperty("date", dem.Metadata.Date)
		f.SetProperty("crs", fmt.Sprintf("EPSG:%d", dem.CRS.EPSG()))
		f.SetProperty("width", dem.Shape.Width)
		f.SetProperty("height", dem.Shape.Height)
		fc.AddFeature(f)
	}

	coverage, err := unionExtents(extents)
	if err != nil {
		return nil, err
	}
	f := geojson.NewMultiPolygonFeature(coverage...)
	f.SetProperty("kind", "coverage")
	f.SetProperty("tiles", len(dems))
	fc.AddFeature(f)

	return fc, nil
}

// boundsRing returns the closed, counter-clockwise exterior ring of b.
func boundsRing(b Bounds) [][][]float64 {
	return [][][]float64{{
		{b.Left, b.Bottom},
		{b.Right, b.Bottom},
		{b.Right, b.Top},
		{b.Left, b.Top},
		{b.Left, b.Bottom},
	}}
}

// extentsToWKT renders the extents as one MULTIPOLYGON.
func extentsToWKT(extents []Bounds) string {
	polygons := make([]string, len(extents))
	for i, b := range extents {
		ring := boundsRing(b)[0]
		coords := make([]string, len(ring))
		for j, c := range ring {
			coords[j] = fmt.Sprintf("%.10f %.10f", c[0], c[1])
		}
		polygons[i] = fmt.Sprintf("((%s))", strings.Join(coords, ", "))
	}
	return fmt.Sprintf("MULTIPOLYGON(%s)", strings.Join(polygons, ", "))
}

// unionExtents dissolves the extents into the polygons of their union,
// each as exterior ring followed by holes.
func unionExtents(extents []Bounds) ([][][][]float64, error) {
	geom, err := geos.NewGeomFromWKT(extentsToWKT(extents))
	if err != nil {
		return nil, fmt.Errorf("coverage union: %w", err)
	}
	union := geom.UnaryUnion()
	if union == nil {
		return nil, errors.New("coverage union: empty result")
	}

	n := union.NumGeometries()
	polygons := make([][][][]float64, 0, n)
	for i := 0; i < n; i++ {
		poly := union.Geometry(i)
		rings := [][][]float64{poly.ExteriorRing().CoordSeq().ToCoords()}
		for j := 0; j < poly.NumInteriorRings(); j++ {
			rings = append(rings, poly.InteriorRing(j).CoordSeq().ToCoords())
		}
		polygons = append(polygons, rings)
	}
	return polygons, nil
}
