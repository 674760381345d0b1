package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"umich.edu/eecs491/wordfreq/mapreduce"
	"umich.edu/eecs491/wordfreq/wordcount"
)

func errCheck(err error, v ...any) {
	if err != nil {
		log.Fatal("WC:", v, err)
	}
}

// Print a histogram of the words in the named files
// Usage: go run main.go [-w # workers] [file ...]
func main() {
	var workers int
	flag.IntVar(&workers, "w", 0, "number of workers (default: one per CPU)")
	flag.IntVar(&workers, "workers", 0, "number of workers (default: one per CPU)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: go run main.go [-w # workers] [file ...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		return
	}

	lines := mapreduce.NewFileLines(files)
	defer lines.Close()

	histogram, err := wordcount.CountWords(lines, workers)
	errCheck(err, "Counting words")

	err = mapreduce.WriteHistogram(os.Stdout, histogram)
	errCheck(err, "Writing histogram")
}
