// Package demtest builds synthetic JPGIS GML DEM documents and ZIP archives
// for tests.
package demtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zip"
)

// DEM describes one synthetic document. Zero-value fields are filled in by
// XML from Default.
type DEM struct {
	SRS    string   // Envelope srsName
	Lower  string   // lowerCorner, "lat lon"
	Upper  string   // upperCorner, "lat lon"
	Low    string   // GridEnvelope low
	High   string   // GridEnvelope high
	Labels string   // axisLabels
	Start  string   // GridFunction startPoint
	Tuples []string // tupleList lines
	Mesh   string
}

// Default returns a 4x3 (width x height) JGD2011 grid with every cell
// populated.
func Default() DEM {
	return DEM{
		SRS:    "fguuid:jgd2011.bl",
		Lower:  "35.0 139.0",
		Upper:  "35.3 139.4",
		Low:    "0 0",
		High:   "3 2",
		Labels: "x y",
		Start:  "0 0",
		Tuples: Tuples(1, 12),
		Mesh:   "53394611",
	}
}

// Tuples returns n tupleList lines with values first, first+1, ...
func Tuples(first, n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("地表面,%d.25", first+i)
	}
	return lines
}

// XML renders the document the way GSI delivers it: default namespace on the
// Dataset element, gml: prefixes on coverage elements.
func (d DEM) XML() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<Dataset xsi:schemaLocation="http://fgd.gsi.go.jp/spec/2008/FGD_GMLSchema FGD_GMLSchema.xsd" xmlns:gml="http://www.opengis.net/gml/3.2" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xlink="http://www.w3.org/1999/xlink" xmlns="http://fgd.gsi.go.jp/spec/2008/FGD_GMLSchema" gml:id="Dataset1">
<gml:description>基盤地図情報メタデータ ID=fmdid:15-3101</gml:description>
<!-- generated for tests -->
<DEM gml:id="DEM001">
<fid>fgoid:10-00200-15-6099-` + d.Mesh + `</fid>
<lfSpanFr gml:id="DEM001-1"><gml:timePosition>2016-10-01</gml:timePosition></lfSpanFr>
<type>5mメッシュ（標高）</type>
<mesh>` + d.Mesh + `</mesh>
<coverage gml:id="DEM001-3">
<gml:boundedBy>
<gml:Envelope srsName="` + d.SRS + `">
<gml:lowerCorner>` + d.Lower + `</gml:lowerCorner>
<gml:upperCorner>` + d.Upper + `</gml:upperCorner>
</gml:Envelope>
</gml:boundedBy>
<gml:gridDomain>
<gml:Grid dimension="2" gml:id="DEM001-4">
<gml:limits>
<gml:GridEnvelope>
<gml:low>` + d.Low + `</gml:low>
<gml:high>` + d.High + `</gml:high>
</gml:GridEnvelope>
</gml:limits>
<gml:axisLabels>` + d.Labels + `</gml:axisLabels>
</gml:Grid>
</gml:gridDomain>
<gml:rangeSet>
<gml:DataBlock>
<gml:rangeParameters><gml:QuantityList uom="DEM構成点"></gml:QuantityList></gml:rangeParameters>
<gml:tupleList>
`)
	b.WriteString(strings.Join(d.Tuples, "\n"))
	b.WriteString(`
</gml:tupleList>
</gml:DataBlock>
</gml:rangeSet>
<gml:coverageFunction>
<gml:GridFunction>
<gml:sequenceRule order="+x-y">Linear</gml:sequenceRule>
<gml:startPoint>` + d.Start + `</gml:startPoint>
</gml:GridFunction>
</gml:coverageFunction>
</coverage>
</DEM>
</Dataset>
`)
	return b.String()
}

// Member is one named ZIP entry.
type Member struct {
	Name string
	Body string
}

// Zip returns a deflate-compressed archive holding members in order.
func Zip(members ...Member) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range members {
		w, err := zw.Create(m.Name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(m.Body)); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Quad returns the four tiles of a 2x2 composite. Each tile is width x height
// cells covering 0.1 x 0.1 degrees, south-west tile at (lat, lon).
// Tile values are offset by 1000 per tile so they are distinguishable.
func Quad(lat, lon float64, width, height int) []DEM {
	tiles := make([]DEM, 0, 4)
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			south := lat + 0.1*float64(row)
			west := lon + 0.1*float64(col)
			d := Default()
			d.Lower = fmt.Sprintf("%.6f %.6f", south, west)
			d.Upper = fmt.Sprintf("%.6f %.6f", south+0.1, west+0.1)
			d.High = fmt.Sprintf("%d %d", width-1, height-1)
			d.Tuples = Tuples(1000*(row*2+col), width*height)
			d.Mesh = fmt.Sprintf("533946%d%d", row, col)
			tiles = append(tiles, d)
		}
	}
	return tiles
}
