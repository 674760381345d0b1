package mapreduce

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"unicode/utf16"
)

// WriteHistogram writes h to w as an indented object literal, one
// "word": count entry per line with keys in sorted order, followed by
// a newline. An empty histogram is written as {}. Anything outside
// printable ASCII in a key is written as a \u escape, using a
// surrogate pair above U+FFFF.
func WriteHistogram(w io.Writer, h Histogram) error {
	words := make([]string, 0, len(h))
	for word := range h {
		words = append(words, word)
	}
	sort.Strings(words)

	bw := bufio.NewWriter(w)
	if len(words) == 0 {
		bw.WriteString("{}\n")
		return bw.Flush()
	}

	bw.WriteString("{\n")
	for i, word := range words {
		bw.WriteString("    ")
		bw.WriteString(quote(word))
		bw.WriteString(": ")
		bw.WriteString(strconv.Itoa(h[word]))
		if i < len(words)-1 {
			bw.WriteByte(',')
		}
		bw.WriteByte('\n')
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

const hexDigits = "0123456789abcdef"

func quote(s string) string {
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			buf = append(buf, '\\', byte(r))
		case r == '\n':
			buf = append(buf, '\\', 'n')
		case r == '\r':
			buf = append(buf, '\\', 'r')
		case r == '\t':
			buf = append(buf, '\\', 't')
		case r == '\b':
			buf = append(buf, '\\', 'b')
		case r == '\f':
			buf = append(buf, '\\', 'f')
		case r < 0x20 || (r >= 0x7f && r <= 0xffff):
			buf = appendEscape(buf, r)
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			buf = appendEscape(buf, hi)
			buf = appendEscape(buf, lo)
		default:
			buf = append(buf, byte(r))
		}
	}
	buf = append(buf, '"')
	return string(buf)
}

func appendEscape(buf []byte, r rune) []byte {
	return append(buf, '\\', 'u',
		hexDigits[r>>12&0xf], hexDigits[r>>8&0xf],
		hexDigits[r>>4&0xf], hexDigits[r&0xf])
}
