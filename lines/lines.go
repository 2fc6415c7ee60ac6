package lines

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// replacement stands in for invalid UTF-8 sequences.
const replacement = "\uFFFD"

// BufferSize is the size of the read buffer. Lines may be longer; they are
// accumulated across reads without limit.
const BufferSize = 4 * 1024

// Reader reads lines ending at every '\r' or '\n' byte.
type Reader struct {
	br   *bufio.Reader
	line []byte
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, BufferSize)}
}

// Next returns the next line without its terminator. It returns as soon as
// the terminator has been read and never waits for more input than that.
// Content pending at EOF is returned as a final line; after that Next
// returns io.EOF. Any other read error is returned as is and the pending
// partial line is dropped.
func (r *Reader) Next() (string, error) {
	r.line = r.line[:0]
	for {
		n := r.br.Buffered()
		if n == 0 {
			// Blocks for one read at most
			if _, err := r.br.Peek(1); err != nil {
				if err == io.EOF && len(r.line) > 0 {
					return Decode(r.line), nil
				}
				return "", err
			}
			n = r.br.Buffered()
		}

		data, _ := r.br.Peek(n)
		if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
			r.line = append(r.line, data[:i]...)
			_, _ = r.br.Discard(i + 1)
			return Decode(r.line), nil
		}
		r.line = append(r.line, data...)
		_, _ = r.br.Discard(n)
	}
}

// Decode converts raw line bytes to a string, replacing invalid UTF-8
// sequences with the Unicode replacement character.
func Decode(b []byte) string {
	return strings.ToValidUTF8(string(b), replacement)
}

// Each calls fn for every line read from r, in order, as soon as the line's
// terminator has been read. It returns nil at EOF or the first read error.
func Each(r io.Reader, fn func(line string)) error {
	lr := NewReader(r)
	for {
		line, err := lr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fn(line)
	}
}

// Lines reads r to EOF and returns all of its lines.
func Lines(r io.Reader) ([]string, error) {
	var out []string
	err := Each(r, func(line string) {
		out = append(out, line)
	})
	return out, err
}

// FromString splits s into lines.
func FromString(s string) []string {
	var out []string
	for s != "" {
		i := strings.IndexAny(s, "\r\n")
		if i < 0 {
			out = append(out, strings.ToValidUTF8(s, replacement))
			break
		}
		out = append(out, strings.ToValidUTF8(s[:i], replacement))
		s = s[i+1:]
	}
	return out
}
