package jpgis

import (
	"runtime"

	"go.uber.org/zap"
)

// Options configures a single conversion.
type Options struct {
	// ScratchDir is the parent directory for temporary tiles.
	// If empty, os.TempDir() is used.
	ScratchDir string

	// Logger receives structured progress and diagnostics.
	// If nil, nothing is logged.
	Logger *zap.Logger
}

// DefaultOptions returns options that log nothing and use the system
// temporary directory.
func DefaultOptions() Options {
	return Options{
		ScratchDir: "",
		Logger:     zap.NewNop(),
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// BatchOptions controls ConvertFiles.
type BatchOptions struct {
	Options

	// Workers is the number of concurrent conversions.
	// If 0, defaults to runtime.NumCPU().
	Workers int

	// SkipErrors continues with the remaining jobs when one fails.
	// Failures are collected in the returned results.
	// When false, the first failure cancels jobs that have not started yet.
	SkipErrors bool

	// Progress is called after each job finishes, successfully or not.
	// Calls are serialized.
	Progress func(done, total int)
}

// DefaultBatchOptions returns batch options with one worker per CPU that stop
// at the first failure.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Options:    DefaultOptions(),
		Workers:    runtime.NumCPU(),
		SkipErrors: false,
		Progress:   nil,
	}
}
