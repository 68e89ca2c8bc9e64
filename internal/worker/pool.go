package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Job is one input and what processing it produced.
type Job[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc processes a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool runs a ProcessFunc over many inputs with bounded concurrency.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]

	// OnDone, if set, is called after each job with the number finished so
	// far. It may be called from several goroutines.
	OnDone func(done, total int)
}

// NewPool creates a pool with the given number of goroutines (at least one).
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// Execute processes all inputs and returns one job per input, in input
// order. Inputs not started before ctx is cancelled carry ctx.Err().
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Job[T, R] {
	jobs := make([]Job[T, R], len(inputs))
	for i, in := range inputs {
		jobs[i].Input = in
	}

	inputCh := make(chan int)
	var finished atomic.Int64
	var wg sync.WaitGroup

	workers := min(p.workers, max(len(inputs), 1))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range inputCh {
				result, err := p.process(ctx, inputs[idx])
				jobs[idx].Result = result
				jobs[idx].Err = err
				if err != nil {
					log.Debug().Err(err).Int("worker", workerID).Int("index", idx).Msg("Job failed")
				}
				if p.OnDone != nil {
					p.OnDone(int(finished.Add(1)), len(inputs))
				}
			}
		}(w)
	}

	sent := 0
send:
	for ; sent < len(inputs); sent++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break send
		case inputCh <- sent:
		}
	}
	close(inputCh)
	wg.Wait()

	for i := sent; i < len(inputs); i++ {
		jobs[i].Err = ctx.Err()
	}
	return jobs
}
