package mapreduce

import (
	"errors"
	"fmt"
)

// WordCount is a word and its count. Mappers emit one per occurrence
// with Count fixed at 1; reducers emit the total.
type WordCount struct {
	Word  string
	Count int
}

// WordCounts is a word together with the unit count of every
// occurrence of it seen by the shuffler.
type WordCounts struct {
	Word   string
	Counts []int
}

// Histogram maps each word to its total count.
type Histogram map[string]int

// MapFunc turns one line of text into word counts.
type MapFunc func(line string) []WordCount

// ReduceFunc collapses one word's grouped counts into a total.
type ReduceFunc func(group WordCounts) WordCount

var (
	ErrPoolSize      = errors.New("mapreduce: invalid worker pool size")
	ErrPoolClosed    = errors.New("mapreduce: worker pool closed")
	ErrInvalidUTF8   = errors.New("mapreduce: invalid UTF-8")
	ErrDuplicateWord = errors.New("mapreduce: duplicate word in reduce output")
)

// TaskPanic records a task that panicked on a pool worker.
type TaskPanic struct {
	Worker int
	Value  any
}

func (p *TaskPanic) Error() string {
	return fmt.Sprintf("mapreduce: task panicked on worker %d: %v", p.Worker, p.Value)
}
