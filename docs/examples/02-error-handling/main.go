package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/beetlebugorg/jpgisdem/pkg/jpgis"
	"go.uber.org/zap"
)

func convert(src, dst string, logger *zap.Logger) error {
	opts := jpgis.DefaultOptions()
	opts.Logger = logger

	err := jpgis.ConvertFile(src, dst, opts)

	var mixed *jpgis.MixedCRSError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &mixed):
		// JGD2000 and JGD2011 tiles cannot be mosaicked without reprojection
		return fmt.Errorf("split %s by datum first (found %v): %w", src, mixed.Codes, err)
	case errors.Is(err, jpgis.ErrEmptyArchive):
		return fmt.Errorf("%s holds no DEM documents", src)
	case errors.Is(err, jpgis.ErrSchemaMismatch):
		return fmt.Errorf("%s is not a supported JPGIS DEM: %w", src, err)
	case errors.Is(err, jpgis.ErrMalformedInput), errors.Is(err, jpgis.ErrSizeMismatch):
		return fmt.Errorf("%s is corrupt: %w", src, err)
	case errors.Is(err, jpgis.ErrIO):
		return fmt.Errorf("i/o failure: %w", err)
	default:
		return err
	}
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := convert("FG-GML-5339-46-DEM5A.zip", "5339-46.tif", logger); err != nil {
		log.Printf("Error: %v", err)
	}

	// A file that does not exist: ErrIO, no output created
	if err := convert("NONEXISTENT.zip", "nothing.tif", logger); err != nil {
		log.Printf("Expected error: %v", err)
	}
}
