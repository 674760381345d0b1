package mapreduce

import (
	"context"
	"fmt"
	"sync"
)

const pipeDebug = 0

func pipeDPrintf(format string, a ...interface{}) (n int, err error) {
	if pipeDebug > 0 {
		n, err = fmt.Printf(format, a...)
	}
	return
}

// DefaultChunkSize is the number of lines, or of word groups, handed
// to a single pool task when Config.ChunkSize is unset.
const DefaultChunkSize = 64

// Config controls one pipeline run.
type Config struct {
	Workers   int // pool size; <= 0 means one worker per CPU
	ChunkSize int // lines (map) or groups (reduce) per task; <= 0 means DefaultChunkSize
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	return c
}

// Run drives a map/shuffle/reduce job over every line of src and
// returns the resulting histogram.
//
// Mapper tasks run on a pool of cfg.Workers workers. Once every one
// of them has returned, their output is shuffled on the calling
// goroutine, and the groups are reduced on the same pool. Any failure
// (a source error, a failing or panicking task, or ctx being done)
// aborts the run; no partial histogram is ever returned. The pool is
// shut down before Run returns, on every path.
func Run(ctx context.Context, src Lines, cfg Config,
	mapF MapFunc, reduceF ReduceFunc) (Histogram, error) {

	cfg = cfg.withDefaults()

	pool, err := NewPool(cfg.Workers)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	mapped, err := mapPhase(ctx, pool, src, cfg.ChunkSize, mapF)
	if err != nil {
		return nil, fmt.Errorf("mapreduce: map phase: %w", err)
	}
	pipeDPrintf("map phase done: %d lines\n", len(mapped))

	groups := Shuffle(mapped)
	pipeDPrintf("shuffle done: %d words\n", len(groups))

	reduced, err := reducePhase(ctx, pool, groups, cfg.ChunkSize, reduceF)
	if err != nil {
		return nil, fmt.Errorf("mapreduce: reduce phase: %w", err)
	}
	pipeDPrintf("reduce phase done, jobs per worker %v\n", pool.NumJobs())

	h := make(Histogram, len(reduced))
	for _, wc := range reduced {
		if _, dup := h[wc.Word]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateWord, wc.Word)
		}
		h[wc.Word] = wc.Count
	}
	return h, nil
}

// mapPhase pulls src dry, handing chunks of lines to mapper tasks,
// and returns one output slice per line once all tasks have joined.
func mapPhase(ctx context.Context, pool *Pool, src Lines, chunkSize int,
	mapF MapFunc) ([][]WordCount, error) {

	var mu sync.Mutex
	var mapped [][]WordCount
	ntasks := 0

	dispatch := func(chunk []string) error {
		ntasks++
		return pool.Submit(func() error {
			out := make([][]WordCount, 0, len(chunk))
			for _, line := range chunk {
				out = append(out, mapF(line))
			}
			mu.Lock()
			mapped = append(mapped, out...)
			mu.Unlock()
			return nil
		})
	}

	var dispatchErr error
	chunk := make([]string, 0, chunkSize)
	for dispatchErr == nil && src.Scan() {
		chunk = append(chunk, src.Text())
		if len(chunk) == chunkSize {
			dispatchErr = dispatch(chunk)
			chunk = make([]string, 0, chunkSize)
		}
		if dispatchErr == nil {
			dispatchErr = ctx.Err()
		}
	}
	if dispatchErr == nil && len(chunk) > 0 {
		dispatchErr = dispatch(chunk)
	}

	// Join everything in flight before looking at the outcome, so no
	// task is still writing to mapped when it is handed on.
	waitErr := pool.Wait()
	pipeDPrintf("joined %d mapper tasks\n", ntasks)

	switch {
	case dispatchErr != nil:
		return nil, dispatchErr
	case src.Err() != nil:
		return nil, src.Err()
	case waitErr != nil:
		return nil, waitErr
	}
	return mapped, nil
}

// reducePhase reduces groups in chunks. Every task owns a disjoint
// range of the result slice, so no locking is needed.
func reducePhase(ctx context.Context, pool *Pool, groups []WordCounts,
	chunkSize int, reduceF ReduceFunc) ([]WordCount, error) {

	reduced := make([]WordCount, len(groups))

	var dispatchErr error
	for lo := 0; lo < len(groups) && dispatchErr == nil; lo += chunkSize {
		hi := min(lo+chunkSize, len(groups))
		if dispatchErr = ctx.Err(); dispatchErr != nil {
			break
		}
		dispatchErr = pool.Submit(func() error {
			for i := lo; i < hi; i++ {
				reduced[i] = reduceF(groups[i])
			}
			return nil
		})
	}

	waitErr := pool.Wait()
	if dispatchErr != nil {
		return nil, dispatchErr
	}
	if waitErr != nil {
		return nil, waitErr
	}
	return reduced, nil
}
