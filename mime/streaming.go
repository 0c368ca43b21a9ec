package mime

import (
	"io"

	"github.com/zacek/mail-mime-parser/mime/bytesource"
)

// growBuffer is an io.Reader fed by repeated Write calls instead of one
// io.Reader handed over up front, so StreamingParser can be handed bytes
// as they arrive off a socket. Unlike bytes.Buffer, Read never discards
// what it has already returned - bytesource.Source relies on being able
// to seek backward to any offset it has seen.
//
// Read returns (0, nil) rather than blocking when no unread bytes are
// buffered yet and Close hasn't been called: this is a cooperative,
// single-goroutine feed (the caller alternates Write and traversal), not
// a blocking pipe.
type growBuffer struct {
	buf    []byte
	pos    int
	closed bool
}

func (g *growBuffer) Write(p []byte) (int, error) {
	g.buf = append(g.buf, p...)
	return len(p), nil
}

func (g *growBuffer) Read(p []byte) (int, error) {
	if g.pos >= len(g.buf) {
		if g.closed {
			return 0, io.EOF
		}
		return 0, nil
	}
	n := copy(p, g.buf[g.pos:])
	g.pos += n
	return n, nil
}

// StreamingParser is the incremental-feed counterpart to Parser: rather
// than handing over one io.Reader up front, a caller pushes bytes in as
// they become available (e.g. while an SMTP DATA command is still being
// received) and can traverse however much of the tree those bytes
// support at any point in between. Grounded on the teacher's channel-fed
// Parser.Parse(buf []byte) design in mail/mime/mime.go - the same
// "accept more input as it arrives" shape - rewired around the pull-based
// bytesource.Source the rest of this package uses instead of a channel.
type StreamingParser struct {
	cfg    Config
	events *EventHandler
	buf    *growBuffer
	src    *bytesource.Source
	root   *Part
}

// NewStreamingParser returns a StreamingParser bound to cfg, with no
// bytes yet fed in.
func NewStreamingParser(cfg Config) *StreamingParser {
	buf := &growBuffer{}
	return &StreamingParser{cfg: cfg, events: newEventHandler(), buf: buf, src: bytesource.New(buf)}
}

// Events returns the handler callers can Subscribe to.
func (sp *StreamingParser) Events() *EventHandler { return sp.events }

// Write feeds more raw message bytes in.
func (sp *StreamingParser) Write(b []byte) (int, error) {
	return sp.buf.Write(b)
}

// Close signals that no further bytes will arrive, so a traversal
// reading past the last Write sees EOF/truncation instead of an
// indefinitely empty read.
func (sp *StreamingParser) Close() error {
	sp.buf.closed = true
	return nil
}

// Root returns the message's root part, parsing its header block (and
// nothing further) the first time enough bytes have been fed in to
// complete it. Safe to call repeatedly; it always returns the same
// *Part once parsing has succeeded once.
func (sp *StreamingParser) Root() (*Part, error) {
	if sp.root != nil {
		return sp.root, nil
	}
	shared := &sharedState{src: sp.src, cfg: sp.cfg, events: sp.events}
	root, err := parseOnePart(shared, nil, 0)
	if err != nil {
		return nil, err
	}
	root.nodePath = "1"
	sp.root = root
	return root, nil
}
