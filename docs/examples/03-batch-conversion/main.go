package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/beetlebugorg/jpgisdem/pkg/jpgis"
)

func main() {
	srcs, err := filepath.Glob("downloads/FG-GML-*-DEM*.zip")
	if err != nil {
		log.Fatal(err)
	}

	jobs := make([]jpgis.Job, len(srcs))
	for i, src := range srcs {
		name := strings.TrimSuffix(filepath.Base(src), ".zip") + ".tif"
		jobs[i] = jpgis.Job{Src: src, Dst: filepath.Join("tiles", name)}
	}

	opts := jpgis.DefaultBatchOptions()
	opts.SkipErrors = true
	opts.Progress = func(done, total int) {
		fmt.Printf("\rConverting: %d/%d", done, total)
	}

	results, err := jpgis.ConvertFiles(context.Background(), jobs, opts)
	fmt.Println()
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range jpgis.Failed(results) {
		log.Printf("Skipped %s: %v", r.Job.Src, r.Err)
	}
	fmt.Printf("Converted %d of %d archives\n", len(results)-len(jpgis.Failed(results)), len(results))
}
