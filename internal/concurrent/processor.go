// Package concurrent provides parallel pileup column parsing.
// It implements a worker pool pattern that parses mpileup lines on all
// available cores while re-sequencing results so consumers see columns in
// input order. Column parsing dominates the pileup walk's profile, which
// is why it is the one stage worth parallelizing.
package concurrent

import (
	"context"
	"runtime"
	"sync"

	"lofreq/internal/pileup"
)

// job is one pileup line tagged with its position in the input stream.
type job struct {
	seq  int
	line string
}

// Result is one parsed column, delivered in input order. Err is set when
// the line could not be parsed; Column is nil in that case.
type Result struct {
	Seq    int
	Column *pileup.Column
	Err    error
}

// Processor parses pileup lines concurrently with ordered delivery.
type Processor struct {
	workerCount int
}

// NewProcessor creates a Processor. A non-positive workers value selects
// one worker per CPU core, capped to avoid scheduling overhead on large
// machines.
func NewProcessor(workers int) *Processor {
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > 8 {
			workers = 8
		}
	}
	return &Processor{workerCount: workers}
}

// Process consumes pileup lines from the input channel and returns a
// channel of parsed columns in input order. The result channel is closed
// once the input is drained or the context is canceled. Parse errors are
// delivered as Results rather than stopping the pool; the consumer decides
// whether to abort.
func (p *Processor) Process(ctx context.Context, lines <-chan string) <-chan Result {
	jobs := make(chan job, p.workerCount)
	unordered := make(chan Result, p.workerCount)
	ordered := make(chan Result, p.workerCount)

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, jobs, unordered)
		}()
	}

	go func() {
		defer close(jobs)
		seq := 0
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					return
				}
				select {
				case jobs <- job{seq: seq, line: line}:
					seq++
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(unordered)
	}()

	go func() {
		defer close(ordered)
		reorder(ctx, unordered, ordered)
	}()

	return ordered
}

func (p *Processor) worker(ctx context.Context, jobs <-chan job, results chan<- Result) {
	for {
		select {
		case j, ok := <-jobs:
			if !ok {
				return
			}
			col, err := pileup.ParseColumn(j.line)
			select {
			case results <- Result{Seq: j.seq, Column: col, Err: err}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// reorder buffers out-of-order results until the next expected sequence
// number arrives, then flushes the run. Memory use is bounded by how far
// workers can run ahead, which the channel capacities cap.
func reorder(ctx context.Context, in <-chan Result, out chan<- Result) {
	pending := make(map[int]Result)
	next := 0

	emit := func(r Result) bool {
		select {
		case out <- r:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for r := range in {
		if r.Seq != next {
			pending[r.Seq] = r
			continue
		}
		if !emit(r) {
			return
		}
		next++
		for {
			buffered, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if !emit(buffered) {
				return
			}
			next++
		}
	}
}
