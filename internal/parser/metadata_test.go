package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/beetlebugorg/jpgisdem/internal/demtest"
)

func mustLoad(t *testing.T, d demtest.DEM) *Document {
	t.Helper()
	doc, err := LoadXML(strings.NewReader(d.XML()), "test.xml")
	if err != nil {
		t.Fatalf("LoadXML failed: %v", err)
	}
	return doc
}

func mustLoadString(t *testing.T, body string) *Document {
	t.Helper()
	doc, err := LoadXML(strings.NewReader(body), "test.xml")
	if err != nil {
		t.Fatalf("LoadXML failed: %v", err)
	}
	return doc
}

func TestParseCRS(t *testing.T) {
	tests := []struct {
		srs      string
		expected CRS
		epsg     int
	}{
		{"fguuid:jgd2011.bl", CRSJGD2011, 6668},
		{"fguuid:jgd2000.bl", CRSJGD2000, 4612},
	}

	for _, tt := range tests {
		t.Run(tt.srs, func(t *testing.T) {
			d := demtest.Default()
			d.SRS = tt.srs
			crs, err := ParseCRS(mustLoad(t, d))
			if err != nil {
				t.Fatalf("ParseCRS failed: %v", err)
			}
			if crs != tt.expected {
				t.Errorf("crs = %v, want %v", crs, tt.expected)
			}
			if crs.EPSG() != tt.epsg {
				t.Errorf("EPSG = %d, want %d", crs.EPSG(), tt.epsg)
			}
		})
	}
}

func TestParseCRSUnsupported(t *testing.T) {
	for _, srs := range []string{"EPSG:4326", "fguuid:jgd2024.bl", "", "FGUUID:JGD2011.BL"} {
		d := demtest.Default()
		d.SRS = srs
		_, err := ParseCRS(mustLoad(t, d))

		var crsErr *CRSError
		if !errors.As(err, &crsErr) {
			t.Fatalf("srs %q: expected *CRSError, got %v", srs, err)
		}
		if crsErr.Missing {
			t.Errorf("srs %q: present attribute reported as missing", srs)
		}
		if !strings.Contains(err.Error(), "unsupported srs") {
			t.Errorf("srs %q: unexpected message %q", srs, err)
		}
		if !errors.Is(err, ErrSchemaMismatch) {
			t.Errorf("srs %q: should match ErrSchemaMismatch", srs)
		}
	}
}

func TestParseCRSMissing(t *testing.T) {
	body := strings.Replace(demtest.Default().XML(), `srsName="fguuid:jgd2011.bl"`, "", 1)
	_, err := ParseCRS(mustLoadString(t, body))

	var crsErr *CRSError
	if !errors.As(err, &crsErr) || !crsErr.Missing {
		t.Fatalf("expected missing *CRSError, got %v", err)
	}
	if !strings.Contains(err.Error(), "JPGIS GML DEM") {
		t.Errorf("unexpected message %q", err)
	}

	// A document that is not a DEM at all
	_, err = ParseCRS(mustLoadString(t, "<Dataset><other/></Dataset>"))
	if !errors.As(err, &crsErr) || !crsErr.Missing {
		t.Fatalf("expected missing *CRSError, got %v", err)
	}
}

func TestParseShape(t *testing.T) {
	d := demtest.Default()
	d.High = "224 149"
	shape, err := ParseShape(mustLoad(t, d))
	if err != nil {
		t.Fatalf("ParseShape failed: %v", err)
	}
	if shape.Width != 225 || shape.Height != 150 {
		t.Errorf("shape = %dx%d, want 225x150", shape.Width, shape.Height)
	}
	if shape.Cells() != 225*150 {
		t.Errorf("Cells = %d, want %d", shape.Cells(), 225*150)
	}
}

func TestParseShapeErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(d *demtest.DEM)
	}{
		{"labels swapped", func(d *demtest.DEM) { d.Labels = "y x" }},
		{"labels extra space", func(d *demtest.DEM) { d.Labels = "x  y" }},
		{"labels padded", func(d *demtest.DEM) { d.Labels = " x y " }},
		{"labels trailing newline", func(d *demtest.DEM) { d.Labels = "x y\n" }},
		{"non-zero x origin", func(d *demtest.DEM) { d.Low = "1 0" }},
		{"non-zero y origin", func(d *demtest.DEM) { d.Low = "0 5" }},
		{"non-integer high", func(d *demtest.DEM) { d.High = "3.5 2" }},
		{"single value", func(d *demtest.DEM) { d.High = "3" }},
		{"empty low", func(d *demtest.DEM) { d.Low = "" }},
		{"negative high", func(d *demtest.DEM) { d.High = "-2 2" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := demtest.Default()
			tt.modify(&d)
			_, err := ParseShape(mustLoad(t, d))
			var shapeErr *ShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("expected *ShapeError, got %v", err)
			}
			if !errors.Is(err, ErrMalformedInput) {
				t.Error("ShapeError should match ErrMalformedInput")
			}
		})
	}
}

func TestParseShapeMissingNodes(t *testing.T) {
	for _, tag := range []string{"gml:low", "gml:high", "gml:axisLabels"} {
		body := demtest.Default().XML()
		body = strings.Replace(body, "<"+tag+">", "<gml:other>", 1)
		body = strings.Replace(body, "</"+tag+">", "</gml:other>", 1)

		_, err := ParseShape(mustLoadString(t, body))
		var shapeErr *ShapeError
		if !errors.As(err, &shapeErr) {
			t.Errorf("%s removed: expected *ShapeError, got %v", tag, err)
		}
	}
}

func TestParseBoundsFlipsAxes(t *testing.T) {
	d := demtest.Default()
	d.Lower = "35.7 139.7625"
	d.Upper = "35.708333333 139.775"
	bounds, err := ParseBounds(mustLoad(t, d))
	if err != nil {
		t.Fatalf("ParseBounds failed: %v", err)
	}

	expected := Bounds{Left: 139.7625, Bottom: 35.7, Right: 139.775, Top: 35.708333333}
	if bounds != expected {
		t.Errorf("bounds = %+v, want %+v", bounds, expected)
	}
}

func TestParseBoundsErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(d *demtest.DEM)
	}{
		{"non-numeric lower", func(d *demtest.DEM) { d.Lower = "north 139.0" }},
		{"one value upper", func(d *demtest.DEM) { d.Upper = "35.3" }},
		{"inverted", func(d *demtest.DEM) { d.Lower, d.Upper = d.Upper, d.Lower }},
		{"latitude out of range", func(d *demtest.DEM) { d.Upper = "95.0 139.4" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := demtest.Default()
			tt.modify(&d)
			_, err := ParseBounds(mustLoad(t, d))
			var boundsErr *BoundsError
			if !errors.As(err, &boundsErr) {
				t.Fatalf("expected *BoundsError, got %v", err)
			}
		})
	}

	body := strings.Replace(demtest.Default().XML(), "gml:upperCorner", "gml:otherCorner", 2)
	_, err := ParseBounds(mustLoadString(t, body))
	var boundsErr *BoundsError
	if !errors.As(err, &boundsErr) {
		t.Fatalf("missing upperCorner: expected *BoundsError, got %v", err)
	}
}

func TestBoundsUnionIntersects(t *testing.T) {
	a := Bounds{Left: 139.0, Bottom: 35.0, Right: 139.1, Top: 35.1}
	b := Bounds{Left: 139.1, Bottom: 35.0, Right: 139.2, Top: 35.1}

	if a.Intersects(b) {
		t.Error("edge-adjacent tiles should not intersect")
	}
	c := Bounds{Left: 139.05, Bottom: 35.05, Right: 139.15, Top: 35.15}
	if !a.Intersects(c) {
		t.Error("overlapping tiles should intersect")
	}

	u := a.Union(b)
	expected := Bounds{Left: 139.0, Bottom: 35.0, Right: 139.2, Top: 35.1}
	if u != expected {
		t.Errorf("union = %+v, want %+v", u, expected)
	}
}
