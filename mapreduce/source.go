package mapreduce

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// Lines is a lazy sequence of text lines. *bufio.Scanner satisfies it.
type Lines interface {
	Scan() bool
	Text() string
	Err() error
}

// MaxLineSize is the longest line FileLines will accept.
const MaxLineSize = 16 * 1024 * 1024

// StdinName names standard input in a FileLines file list.
const StdinName = "-"

// InputError reports a problem opening or reading one input file.
// Line is zero when the file could not be opened.
type InputError struct {
	File string
	Line int
	Err  error
}

func (e *InputError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// FileLines presents a list of files as a single stream of lines, in
// file order then line order. Files are opened one at a time as the
// stream reaches them. Every line must be valid UTF-8.
type FileLines struct {
	names   []string
	stdin   io.Reader
	next    int // index into names of the next file to open
	cur     io.ReadCloser
	curName string
	scanner *bufio.Scanner
	lineNo  int
	text    string
	err     error
}

func NewFileLines(names []string) *FileLines {
	return &FileLines{names: names, stdin: os.Stdin}
}

// Scan advances to the next line, opening the next file when the
// current one is exhausted. It returns false at the end of the last
// file or on the first error.
func (fl *FileLines) Scan() bool {
	if fl.err != nil {
		return false
	}

	for {
		if fl.scanner == nil {
			if fl.next >= len(fl.names) {
				return false
			}
			if err := fl.open(fl.names[fl.next]); err != nil {
				fl.err = err
				return false
			}
			fl.next++
		}

		if fl.scanner.Scan() {
			fl.lineNo++
			line := fl.scanner.Bytes()
			if !utf8.Valid(line) {
				fl.err = &InputError{File: fl.curName, Line: fl.lineNo, Err: ErrInvalidUTF8}
				fl.closeCurrent()
				return false
			}
			fl.text = string(line)
			return true
		}

		if err := fl.scanner.Err(); err != nil {
			fl.err = &InputError{File: fl.curName, Line: fl.lineNo + 1, Err: err}
			fl.closeCurrent()
			return false
		}
		fl.closeCurrent()
	}
}

func (fl *FileLines) open(name string) error {
	var r io.ReadCloser
	if name == StdinName {
		r = io.NopCloser(fl.stdin)
	} else {
		f, err := os.Open(name)
		if err != nil {
			return &InputError{File: name, Err: err}
		}
		r = f
	}

	fl.cur = r
	fl.curName = name
	fl.lineNo = 0
	fl.scanner = bufio.NewScanner(r)
	fl.scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return nil
}

func (fl *FileLines) closeCurrent() {
	if fl.cur != nil {
		fl.cur.Close()
	}
	fl.cur = nil
	fl.scanner = nil
}

// Text returns the line read by the last successful Scan.
func (fl *FileLines) Text() string {
	return fl.text
}

// Err returns the first error encountered, or nil at a clean end of
// input.
func (fl *FileLines) Err() error {
	return fl.err
}

// Close releases the file currently being read, if any. Further calls
// to Scan return false.
func (fl *FileLines) Close() error {
	fl.closeCurrent()
	fl.next = len(fl.names)
	return nil
}
