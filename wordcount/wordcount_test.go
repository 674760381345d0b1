package wordcount

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"reflect"
	"strings"
	"testing"

	"umich.edu/eecs491/wordfreq/mapreduce"
)

type lineSlice struct {
	lines []string
	pos   int
}

func (s *lineSlice) Scan() bool {
	if s.pos >= len(s.lines) {
		return false
	}
	s.pos++
	return true
}

func (s *lineSlice) Text() string { return s.lines[s.pos-1] }
func (s *lineSlice) Err() error   { return nil }

func count(t *testing.T, workers int, lines ...string) mapreduce.Histogram {
	h, err := CountWords(&lineSlice{lines: lines}, workers)
	if err != nil {
		t.Fatalf("CountWords: %v", err)
	}
	return h
}

func words(kvs []mapreduce.WordCount) []string {
	var out []string
	for _, kv := range kvs {
		out = append(out, kv.Word)
	}
	return out
}

func TestMap(t *testing.T) {
	fmt.Printf("Test: Map ...\n")

	tests := []struct {
		line string
		want []string
	}{
		{"the quick fox", []string{"the", "quick", "fox"}},
		{"  Cat\tcat \n CAT  ", []string{"cat", "cat", "cat"}},
		{"hello, world! 123", nil},
		{"don't stop well-known birds", []string{"stop", "birds"}},
		{"Ünïcödé naïve Straße", []string{"ünïcödé", "naïve", "straße"}},
		{"abc1 a_b tab sep", []string{"tab", "sep"}},
		{"", nil},
		{"   \t ", nil},
	}

	for _, tc := range tests {
		kvs := Map(tc.line)
		for _, kv := range kvs {
			if kv.Count != 1 {
				t.Fatalf("Map(%q) emitted %v with count %d", tc.line, kv.Word, kv.Count)
			}
		}
		if got := words(kvs); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Map(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}

	fmt.Printf("  ... Map Passed\n")
}

func TestReduce(t *testing.T) {
	fmt.Printf("Test: Reduce ...\n")

	got := Reduce(mapreduce.WordCounts{Word: "fox", Counts: []int{1, 1, 1}})
	if got != (mapreduce.WordCount{Word: "fox", Count: 3}) {
		t.Fatalf("Reduce = %v", got)
	}
	got = Reduce(mapreduce.WordCounts{Word: "none"})
	if got != (mapreduce.WordCount{Word: "none", Count: 0}) {
		t.Fatalf("Reduce of no counts = %v", got)
	}

	fmt.Printf("  ... Reduce Passed\n")
}

func TestCountWordsFox(t *testing.T) {
	fmt.Printf("Test: Count Words Fox ...\n")

	h := count(t, 0, "the quick fox", "the lazy fox", "the fox runs")
	want := mapreduce.Histogram{"fox": 3, "lazy": 1, "quick": 1, "runs": 1, "the": 3}
	if !reflect.DeepEqual(h, want) {
		t.Fatalf("CountWords = %v, want %v", h, want)
	}

	fmt.Printf("  ... Count Words Fox Passed\n")
}

func TestCountWordsCaseFolding(t *testing.T) {
	fmt.Printf("Test: Count Words Case Folding ...\n")

	h := count(t, 2, "Cat cat CAT")
	if !reflect.DeepEqual(h, mapreduce.Histogram{"cat": 3}) {
		t.Fatalf("CountWords = %v", h)
	}

	fmt.Printf("  ... Count Words Case Folding Passed\n")
}

func TestCountWordsNothingQualifies(t *testing.T) {
	fmt.Printf("Test: Count Words Nothing Qualifies ...\n")

	h := count(t, 4, "hello,", "world!", "123", "", "   ")
	if len(h) != 0 {
		t.Fatalf("CountWords = %v, want empty", h)
	}
	h = count(t, 4, "hello", "world")
	if !reflect.DeepEqual(h, mapreduce.Histogram{"hello": 1, "world": 1}) {
		t.Fatalf("CountWords = %v", h)
	}

	fmt.Printf("  ... Count Words Nothing Qualifies Passed\n")
}

func TestCountWordsNoLines(t *testing.T) {
	fmt.Printf("Test: Count Words No Lines ...\n")

	h := count(t, 0)
	if h == nil || len(h) != 0 {
		t.Fatalf("CountWords = %#v, want an empty histogram", h)
	}

	fmt.Printf("  ... Count Words No Lines Passed\n")
}

// Build a pseudo-random corpus along with the number of qualifying
// tokens in it.
func corpus(seed int64, nLines int) ([]string, int) {
	vocab := []string{"The", "fox", "LAZY", "dog", "runs", "Over", "it's", "x2",
		"--", "hello,", "naïve", "quick", "A", "a"}
	rr := rand.New(rand.NewSource(seed))

	var lines []string
	total := 0
	for i := 0; i < nLines; i++ {
		var toks []string
		for j := rr.Intn(12); j > 0; j-- {
			tok := vocab[rr.Intn(len(vocab))]
			if isWord(tok) {
				total++
			}
			toks = append(toks, tok)
		}
		lines = append(lines, strings.Join(toks, " "))
	}
	return lines, total
}

func TestCountWordsTotal(t *testing.T) {
	fmt.Printf("Test: Count Words Total ...\n")

	lines, total := corpus(int64(os.Getpid()), 2000)
	h := count(t, 0, lines...)

	sum := 0
	for word, n := range h {
		if word != strings.ToLower(word) || !isWord(word) {
			t.Fatalf("histogram holds %q", word)
		}
		sum += n
	}
	if sum != total {
		t.Fatalf("histogram sums to %d, want %d", sum, total)
	}

	fmt.Printf("  ... Count Words Total Passed\n")
}

func TestCountWordsOrderInvariance(t *testing.T) {
	fmt.Printf("Test: Count Words Order Invariance ...\n")

	lines, _ := corpus(7, 1000)
	want := count(t, 4, lines...)

	rr := rand.New(rand.NewSource(11))
	for i := 0; i < 3; i++ {
		shuffled := append([]string(nil), lines...)
		rr.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if h := count(t, 4, shuffled...); !reflect.DeepEqual(h, want) {
			t.Fatalf("permuted input changed the histogram")
		}
	}

	fmt.Printf("  ... Count Words Order Invariance Passed\n")
}

func TestCountWordsWorkerInvariance(t *testing.T) {
	fmt.Printf("Test: Count Words Worker Invariance ...\n")

	lines, _ := corpus(3, 1000)
	one := count(t, 1, lines...)
	eight := count(t, 8, lines...)
	if !reflect.DeepEqual(one, eight) {
		t.Fatalf("1 and 8 workers disagree")
	}

	fmt.Printf("  ... Count Words Worker Invariance Passed\n")
}

func ExampleCountWords() {
	input := "the quick fox\nthe lazy fox\nthe fox runs\n"
	h, err := CountWords(bufio.NewScanner(strings.NewReader(input)), 0)
	if err != nil {
		fmt.Println(err)
		return
	}
	mapreduce.WriteHistogram(os.Stdout, h)
	// Output:
	// {
	//     "fox": 3,
	//     "lazy": 1,
	//     "quick": 1,
	//     "runs": 1,
	//     "the": 3
	// }
}
