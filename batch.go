package img2line

import (
	"context"
	"image"
	"runtime"
	"sync"
	"sync/atomic"
)

// BatchResult holds the outcome of processing one image of a batch.
// Exactly one of Result and Err is set.
type BatchResult struct {
	Index  int
	Result *Result
	Err    error
}

// ProgressFunc is called after each image finishes, with the number of
// images completed so far and the batch total. It runs on worker
// goroutines, so implementations must tolerate concurrent calls.
type ProgressFunc func(done, total int)

// ProcessAll runs the pipeline over a batch of images on a worker
// pool. Results come back indexed to match the input slice; one bad
// image puts an error in its slot without disturbing the rest. When
// ctx is cancelled, images not yet started are marked with the context
// error and in-flight ones finish normally. workers at or below zero
// means one worker per CPU.
func (p *Pipeline) ProcessAll(ctx context.Context, images []image.Image, workers int, progress ProgressFunc) []BatchResult {
	if ctx == nil {
		ctx = context.Background()
	}
	total := len(images)
	results := make([]BatchResult, total)
	if total == 0 {
		return results
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > total {
		workers = total
	}

	jobs := make(chan int)
	var done atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = BatchResult{Index: idx, Err: err}
				} else {
					res, err := p.Process(images[idx])
					results[idx] = BatchResult{Index: idx, Result: res, Err: err}
				}
				n := done.Add(1)
				if progress != nil {
					progress(int(n), total)
				}
			}
		}()
	}

	for i := range images {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
