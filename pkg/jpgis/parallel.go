package jpgis

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is one file conversion.
type Job struct {
	Src string
	Dst string
}

// Result reports the outcome of one Job. Err is nil on success.
type Result struct {
	Job Job
	Err error
}

// ConvertFiles runs ConvertFile for every job using a bounded pool of workers.
//
// Results are returned in job order. With SkipErrors every job runs and each
// failure is reported in its Result; the returned error is nil unless ctx was
// cancelled. Without SkipErrors the first failure stops jobs that have not
// started yet and is returned; results of jobs that never ran carry
// context.Canceled.
//
// Example:
//
//	jobs := []jpgis.Job{
//	    {Src: "FG-GML-5339-46-DEM5A.zip", Dst: "5339-46.tif"},
//	    {Src: "FG-GML-5339-47-DEM5A.zip", Dst: "5339-47.tif"},
//	}
//	results, err := jpgis.ConvertFiles(ctx, jobs, jpgis.BatchOptions{
//	    Workers:    4,
//	    SkipErrors: true,
//	    Progress: func(done, total int) {
//	        fmt.Printf("\rConverting: %d/%d", done, total)
//	    },
//	})
func ConvertFiles(ctx context.Context, jobs []Job, opts BatchOptions) ([]Result, error) {
	results := make([]Result, len(jobs))
	for i, job := range jobs {
		results[i] = Result{Job: job, Err: context.Canceled}
	}
	if len(jobs) == 0 {
		return results, nil
	}

	log := opts.logger()

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	done := 0
	finish := func(i int, err error) {
		mu.Lock()
		defer mu.Unlock()
		results[i].Err = err
		done++
		if opts.Progress != nil {
			opts.Progress(done, len(jobs))
		}
	}

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}

			err := ConvertFile(job.Src, job.Dst, opts.Options)
			finish(i, err)
			if err == nil {
				log.Debug("converted", zap.String("source", job.Src), zap.String("dst", job.Dst))
				return nil
			}

			log.Warn("conversion failed", zap.String("source", job.Src), zap.Error(err))
			if opts.SkipErrors {
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
