package wordcount

import (
	"context"
	"strings"
	"unicode"

	"umich.edu/eecs491/wordfreq/mapreduce"
)

// Map splits a line on whitespace and emits each purely alphabetic
// token, lowercased, with a count of 1. Tokens holding anything other
// than letters ("don't", "well-known", "fox,", "42") are dropped.
func Map(line string) []mapreduce.WordCount {
	var kvs []mapreduce.WordCount
	for _, tok := range strings.Fields(line) {
		if isWord(tok) {
			kvs = append(kvs, mapreduce.WordCount{Word: strings.ToLower(tok), Count: 1})
		}
	}
	return kvs
}

func isWord(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Reduce is invoked once per word with all its counts. We sum them up.
func Reduce(group mapreduce.WordCounts) mapreduce.WordCount {
	total := 0
	for _, c := range group.Counts {
		total += c
	}
	return mapreduce.WordCount{Word: group.Word, Count: total}
}

// CountWords returns the histogram of words in lines, mapping and
// reducing on a pool of workers goroutines (one per CPU when workers
// is zero or negative).
func CountWords(lines mapreduce.Lines, workers int) (mapreduce.Histogram, error) {
	return CountWordsContext(context.Background(), lines, workers)
}

// CountWordsContext is CountWords with cancellation.
func CountWordsContext(ctx context.Context, lines mapreduce.Lines,
	workers int) (mapreduce.Histogram, error) {
	return mapreduce.Run(ctx, lines, mapreduce.Config{Workers: workers}, Map, Reduce)
}
