package stream

import (
	"context"
	"sync"
)

// MaxJobQueueSize limits the number of pending jobs
const MaxJobQueueSize = 32

// Job is a chunk of texts handed to one worker
type Job struct {
	ChunkID int
	Items   []string
}

// JobResult is the cleaned chunk produced by a worker
type JobResult struct {
	ChunkID int
	Items   []string
	Error   error
}

// runParallel feeds the chunks submitted by produce to the worker pool and
// passes results to consume strictly in ChunkID order. The first error from
// produce, a worker or consume cancels the run and is returned.
func (p *Processor) runParallel(
	parent context.Context,
	produce func(ctx context.Context, submit func([]string) error) error,
	consume func(JobResult) error,
) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	workers := p.workerCount()
	jobs := make(chan Job, MaxJobQueueSize)
	results := make(chan JobResult, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go p.worker(ctx, jobs, results, &wg)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	errChan := make(chan error, 1)
	go func() {
		defer close(jobs)
		chunkID := 0
		submit := func(items []string) error {
			select {
			case jobs <- Job{ChunkID: chunkID, Items: items}:
				chunkID++
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		errChan <- produce(ctx, submit)
	}()

	// Results arrive out of order; hold them until their turn.
	pending := make(map[int]JobResult)
	nextChunkID := 0
	var firstErr error

	for result := range results {
		if firstErr != nil {
			continue // drain so workers can exit
		}
		if result.Error != nil {
			firstErr = result.Error
			cancel()
			continue
		}

		pending[result.ChunkID] = result
		for {
			next, ok := pending[nextChunkID]
			if !ok {
				break
			}
			delete(pending, nextChunkID)
			nextChunkID++
			if err := consume(next); err != nil {
				firstErr = err
				cancel()
				break
			}
		}
	}

	produceErr := <-errChan
	if firstErr != nil {
		return firstErr
	}
	if produceErr != nil {
		return produceErr
	}
	return parent.Err()
}

// worker normalizes jobs until the jobs channel is closed
func (p *Processor) worker(
	ctx context.Context,
	jobs <-chan Job,
	results chan<- JobResult,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- JobResult{ChunkID: job.ChunkID, Error: ctx.Err()}
			continue
		default:
		}

		cleaned := make([]string, len(job.Items))
		for i, item := range job.Items {
			cleaned[i] = p.normalizer.Normalize(item)
		}
		results <- JobResult{ChunkID: job.ChunkID, Items: cleaned}
	}
}
