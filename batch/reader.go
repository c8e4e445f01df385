package batch

import (
	"bytes"

	"github.com/indigo-web/utils/uf"
)

// line is a position of a single line in the buffer. The content is [start, end), the line
// terminator (if any) is [end, next).
type line struct {
	start, end, next int
}

func (l line) terminated() bool {
	return l.next > l.end
}

func (l line) len() int {
	return l.end - l.start
}

// lineReader walks the buffer line by line exactly once. In strict mode only CRLF terminates
// a line, otherwise a bare LF does, too. Nothing is ever copied: lines are just offsets.
type lineReader struct {
	data    []byte
	offset  int
	strict  bool
	peeked  bool
	pending line
	last    line
	hasLast bool
}

func (r *lineReader) reset(data []byte, strict bool) {
	*r = lineReader{
		data:   data,
		strict: strict,
	}
}

// peek returns the next line without consuming it. False is returned if the stream is over.
func (r *lineReader) peek() (line, bool) {
	if r.peeked {
		return r.pending, true
	}

	if r.offset >= len(r.data) {
		return line{}, false
	}

	r.pending, r.peeked = r.scan(), true
	return r.pending, true
}

// next consumes the next line.
func (r *lineReader) next() (line, bool) {
	l, ok := r.peek()
	if !ok {
		return l, false
	}

	r.offset, r.peeked = l.next, false
	r.last, r.hasLast = l, true

	return l, true
}

// skip consumes everything left.
func (r *lineReader) skip() {
	for {
		if _, ok := r.next(); !ok {
			return
		}
	}
}

// pos returns the offset of the first not consumed byte.
func (r *lineReader) pos() int {
	return r.offset
}

// lastLine returns the most recently consumed line.
func (r *lineReader) lastLine() (line, bool) {
	return r.last, r.hasLast
}

func (r *lineReader) bytes(l line) []byte {
	return r.data[l.start:l.end]
}

func (r *lineReader) text(l line) string {
	return uf.B2S(r.bytes(l))
}

func (r *lineReader) scan() line {
	l := line{start: r.offset}
	rest := r.data[r.offset:]

	if r.strict {
		crlf := bytes.Index(rest, []byte("\r\n"))
		if crlf == -1 {
			l.end, l.next = len(r.data), len(r.data)
			return l
		}

		l.end = r.offset + crlf
		l.next = l.end + 2
		return l
	}

	lf := bytes.IndexByte(rest, '\n')
	if lf == -1 {
		l.end, l.next = len(r.data), len(r.data)
		return l
	}

	l.end, l.next = r.offset+lf, r.offset+lf+1
	if lf > 0 && rest[lf-1] == '\r' {
		l.end--
	}

	return l
}
