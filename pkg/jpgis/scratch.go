package jpgis

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const scratchPattern = "jpgisdem-"

// scratch is a temporary directory that is removed, with everything in it,
// by Close. Close is safe to call more than once.
type scratch struct {
	dir string
	log *zap.Logger
}

func newScratch(parent string, log *zap.Logger) (*scratch, error) {
	dir, err := os.MkdirTemp(parent, scratchPattern)
	if err != nil {
		return nil, &WriteError{Path: parent, Err: fmt.Errorf("create scratch directory: %w", err)}
	}
	log.Debug("scratch created", zap.String("scratch", dir))
	return &scratch{dir: dir, log: log}, nil
}

// path returns the location of name inside the scratch directory.
func (s *scratch) path(name string) string {
	return filepath.Join(s.dir, name)
}

// tile returns the path of the i-th rasterized tile.
func (s *scratch) tile(i int) string {
	return s.path(fmt.Sprintf("tile-%03d.tif", i))
}

func (s *scratch) Close() error {
	if s.dir == "" {
		return nil
	}
	dir := s.dir
	s.dir = ""
	if err := os.RemoveAll(dir); err != nil {
		s.log.Warn("scratch cleanup failed", zap.String("scratch", dir), zap.Error(err))
		return err
	}
	s.log.Debug("scratch removed", zap.String("scratch", dir))
	return nil
}
