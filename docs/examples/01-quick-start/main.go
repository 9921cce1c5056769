package main

import (
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/jpgisdem/pkg/jpgis"
)

func main() {
	// Convert an archive downloaded from the GSI service
	err := jpgis.ConvertFile("FG-GML-5339-46-DEM5A.zip", "5339-46.tif", jpgis.DefaultOptions())
	if err != nil {
		log.Fatal(err)
	}

	// Inspect what was written
	info, err := jpgis.Stat("5339-46.tif")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Size: %d x %d\n", info.Width, info.Height)
	fmt.Printf("CRS: EPSG:%d\n", info.EPSG)

	left, bottom, right, top := info.Transform.Bounds(info.Width, info.Height)
	fmt.Printf("Bounds: [%.4f,%.4f] to [%.4f,%.4f]\n", left, bottom, right, top)

	// Decode a single document without writing anything
	f, err := os.Open("FG-GML-5339-46-00-DEM5A-20161001.xml")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	dems, err := jpgis.Decode(f, f.Name(), jpgis.DefaultOptions())
	if err != nil {
		log.Fatal(err)
	}
	stats := dems[0].Grid.Stats()
	fmt.Printf("Mesh %s: %d of %d cells, %.1fm to %.1fm\n",
		dems[0].Metadata.Mesh, stats.Count, stats.Total, stats.Min, stats.Max)
}
