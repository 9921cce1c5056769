// Package jpgis converts GSI JPGIS GML elevation models (the "DEM" documents
// of the Fundamental Geospatial Data download service) into GeoTIFF.
//
// # Basic Usage
//
// A single document, or a ZIP archive of documents, is converted with Convert:
//
//	src, _ := os.Open("FG-GML-5339-46-DEM5A.zip")
//	defer src.Close()
//
//	var out bytes.Buffer
//	if err := jpgis.Convert(src, &out, jpgis.DefaultOptions()); err != nil {
//	    log.Fatal(err)
//	}
//
// ConvertFile does the same between two paths and only creates the destination
// once the conversion has succeeded.
//
// # Output
//
// Every output is a single-band float32 GeoTIFF: deflate-compressed, tiled in
// 512x512 blocks, pixel interleaved, with nodata -9999 and the datum of the
// source (EPSG:6668 for JGD2011, EPSG:4612 for JGD2000). Cells a document
// leaves empty are NaN; in a mosaic, cells no tile covers with data hold -9999.
// Converting the same input twice gives identical bytes.
//
// # Archives
//
// GSI ships one document per mesh, zipped. An archive with one document is
// converted exactly as that document alone. An archive with several is
// rasterized tile by tile into a scratch directory and mosaicked; all tiles
// must share one datum.
//
// # Inspection
//
// Decode returns the decoded documents without writing anything, and
// Footprints turns them into GeoJSON for quick coverage checks:
//
//	dems, err := jpgis.Decode(src, "FG-GML-5339-46-DEM5A.zip", jpgis.DefaultOptions())
//	fc, err := jpgis.Footprints(dems)
//
// DecodeHeaders skips the sample data when only extents and metadata are
// needed.
//
// # Batches
//
// ConvertFiles converts many independent inputs concurrently.
package jpgis
