// Package bytesource provides a seekable, line-oriented cursor over a
// byte stream. It accumulates bytes read from an underlying io.Reader
// into a growable buffer so that any previously observed offset can be
// rewound to, the way the parser's "drain a sibling before reading the
// next one" protocol requires.
//
// This generalizes the growable-slice-plus-position-pointer technique
// go-guerrilla's mime.Parser uses for its channel-fed input slices to a
// pull model: instead of blocking on a channel for the next slice, Source
// reads more from the underlying io.Reader itself whenever a caller asks
// for bytes past what's buffered so far.
package bytesource

import (
	"bytes"
	"errors"
	"io"
)

// ErrNegativeOffset is returned by Seek when asked to move before the
// start of the stream.
var ErrNegativeOffset = errors.New("bytesource: negative offset")

// Source is a seekable, buffered cursor over an io.Reader. The zero value
// is not usable; construct with New.
type Source struct {
	r   io.Reader
	buf []byte
	pos int
	eof bool
}

// New wraps r in a Source. r is read lazily, only as far as callers
// request.
func New(r io.Reader) *Source {
	return &Source{r: r}
}

// NewFromBytes wraps an already fully buffered message, e.g. one read
// from a file in one shot.
func NewFromBytes(b []byte) *Source {
	return &Source{buf: b, eof: true}
}

// fill reads more from the underlying reader until at least n bytes past
// pos are buffered, or the underlying reader is exhausted.
func (s *Source) fill(n int) {
	if s.eof || s.r == nil {
		return
	}
	want := s.pos + n
	chunk := make([]byte, 4096)
	for len(s.buf) < want {
		read, err := s.r.Read(chunk)
		if read > 0 {
			s.buf = append(s.buf, chunk[:read]...)
		}
		if err != nil {
			s.eof = true
			return
		}
		// A non-blocking reader (growBuffer) returns (0, nil) when it has
		// nothing buffered yet. Stop rather than spin; the caller decides
		// whether that's a real problem.
		if read == 0 {
			return
		}
	}
}

// Tell returns the current offset.
func (s *Source) Tell() int {
	return s.pos
}

// Len returns the number of bytes buffered so far. It grows as the
// underlying reader is consumed and is not the total message length
// until the source has hit EOF.
func (s *Source) Len() int {
	return len(s.buf)
}

// AtEOF reports whether the underlying reader has been fully drained.
func (s *Source) AtEOF() bool {
	return s.eof && s.pos >= len(s.buf)
}

// Seek moves the cursor to offset, which must have been previously
// observed (i.e. offset <= a position this Source has already buffered
// up to, or will reach by reading further).
func (s *Source) Seek(offset int) error {
	if offset < 0 {
		return ErrNegativeOffset
	}
	if offset > len(s.buf) {
		s.fill(offset - s.pos)
	}
	s.pos = offset
	return nil
}

// ReadLine reads up to and including the next line terminator (CR, LF or
// CRLF), returning the line with its terminator. Returns io.EOF with a
// nil slice when there is nothing left to read.
func (s *Source) ReadLine() ([]byte, error) {
	start := s.pos
	for {
		if idx := s.indexTerminator(start); idx >= 0 {
			end := idx
			if s.buf[idx] == '\r' {
				end++
				if end < len(s.buf) && s.buf[end] == '\n' {
					end++
				} else if end >= len(s.buf) && !s.eof {
					s.fill(1)
					if end < len(s.buf) && s.buf[end] == '\n' {
						end++
					}
				}
			} else {
				end++
			}
			line := s.buf[s.pos:end]
			s.pos = end
			return line, nil
		}
		if s.eof {
			if start >= len(s.buf) {
				return nil, io.EOF
			}
			line := s.buf[s.pos:]
			s.pos = len(s.buf)
			return line, nil
		}
		before := len(s.buf)
		s.fill(len(s.buf) - start + 4096)
		if len(s.buf) == before && !s.eof {
			return nil, io.ErrNoProgress
		}
	}
}

// indexTerminator returns the offset (relative to the whole buffer) of
// the first CR or LF at or after from, or -1 if none is buffered yet.
func (s *Source) indexTerminator(from int) int {
	if from >= len(s.buf) {
		return -1
	}
	for i := from; i < len(s.buf); i++ {
		if s.buf[i] == '\r' || s.buf[i] == '\n' {
			return i
		}
	}
	return -1
}

// PeekLine returns the next line without advancing the cursor.
func (s *Source) PeekLine() ([]byte, error) {
	saved := s.pos
	line, err := s.ReadLine()
	s.pos = saved
	return line, err
}

// ReadRange returns a view of the bytes in [from, to), reading further
// from the underlying reader if necessary. The returned slice aliases
// the Source's internal buffer and must not be mutated.
func (s *Source) ReadRange(from, to int) []byte {
	if to > len(s.buf) {
		s.fill(to - s.pos)
	}
	if to > len(s.buf) {
		to = len(s.buf)
	}
	if from > to {
		from = to
	}
	return s.buf[from:to]
}

// Index returns the buffered-relative offset of the first occurrence of
// sep at or after from, pulling in more input as needed, at least 4096
// more bytes per attempt. Returns -1 if sep is not found before EOF.
func (s *Source) Index(from int, sep []byte) int {
	for {
		if i := bytes.Index(s.buf[from:], sep); i >= 0 {
			return from + i
		}
		if s.eof {
			return -1
		}
		prev := len(s.buf)
		s.fill(len(s.buf) - s.pos + 4096)
		if len(s.buf) == prev {
			return -1
		}
	}
}

// Bytes returns the bytes accumulated so far. Only safe to treat as the
// whole message once AtEOF is true.
func (s *Source) Bytes() []byte {
	return s.buf
}

// DrainToEOF pulls in the remainder of the underlying reader without
// moving the cursor, so that Len() reports the message's true total
// size. Used to resolve the root part's content end, which has no
// sibling boundary to be discovered by.
func (s *Source) DrainToEOF() {
	saved := s.pos
	s.fill(1 << 30)
	s.pos = saved
}
