package mime

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/zacek/mail-mime-parser/mime/bytesource"
	"github.com/zacek/mail-mime-parser/mime/header"
)

// Parser is the long-lived, configured entry point for turning a byte
// stream into a lazily-expanding Part tree, grounded on the teacher's
// pattern of a single configured long-lived object (its mime.Parser)
// that many messages can be run through. Unlike the teacher's, this one
// does not own a goroutine or a channel: each Parse call builds its own
// bytesource.Source and hands back a root Part whose descendants are
// discovered on demand as the caller walks the tree.
type Parser struct {
	cfg    Config
	events *EventHandler
}

// NewParser returns a Parser bound to cfg. A zero Config is usable; see
// DefaultConfig for a more permissive starting point.
func NewParser(cfg Config) *Parser {
	return &Parser{cfg: cfg, events: newEventHandler()}
}

// Events returns the handler callers can Subscribe to for
// EventPartDiscovered, EventBoundaryMalformed and EventMessageTruncated.
func (ps *Parser) Events() *EventHandler { return ps.events }

// Parse reads a message from r, parses its headers and classifies the
// root part. The rest of the tree is discovered lazily as the returned
// Part's children are walked.
func (ps *Parser) Parse(r io.Reader) (*Part, error) {
	return ps.parseSource(bytesource.New(r))
}

// ParseBytes is Parse for an already-buffered message.
func (ps *Parser) ParseBytes(b []byte) (*Part, error) {
	return ps.parseSource(bytesource.NewFromBytes(b))
}

func (ps *Parser) parseSource(src *bytesource.Source) (*Part, error) {
	shared := &sharedState{src: src, cfg: ps.cfg, events: ps.events}
	root, err := parseOnePart(shared, nil, 0)
	if err != nil {
		return nil, err
	}
	root.nodePath = "1"
	return root, nil
}

// Parse is a package-level convenience wrapping NewParser(DefaultConfig()).
func Parse(r io.Reader) (*Part, error) {
	return NewParser(DefaultConfig()).Parse(r)
}

// ParseBytes is the []byte counterpart of Parse.
func ParseBytes(b []byte) (*Part, error) {
	return NewParser(DefaultConfig()).ParseBytes(b)
}

// childSource is what a lazyChildren container pulls from to produce
// one more direct child at a time, given the previously produced child
// (nil on the first call) so the source can back-fill that sibling's
// contentEnd as a side effect of locating the next one. multipartProxy,
// messageChildProxy (below) and uuencodeProxy (uuencode.go) are the
// three implementations, one per way a part can own children.
type childSource interface {
	readNextChild(prev *Part) (*Part, bool, error)
}

// --- multipart boundary scanning ------------------------------------------

// multipartProxy drains owner's body by repeatedly scanning forward for
// the next "--boundary" delimiter line, grounded on the teacher's
// recursive mime2/multi boundary-walking functions in mail/mime/mime.go,
// restructured here into one call per child instead of one recursive
// pass over the whole part.
type multipartProxy struct {
	owner   *Part
	scanPos int
}

func newMultipartProxy(owner *Part) *multipartProxy {
	return &multipartProxy{owner: owner, scanPos: owner.stream.contentStart}
}

func (pp *multipartProxy) readNextChild(prev *Part) (*Part, bool, error) {
	src := pp.owner.shared.src
	marker := append([]byte("--"), pp.owner.boundary...)

	// A multipart sibling has already been drained up to its own closing
	// delimiter; resume after it, so delimiters inside it (even ones that
	// reuse this part's boundary) are not read again as this part's own.
	if prev != nil && prev.IsMultipart() && prev.stream.contentEnd != unresolved && prev.stream.contentEnd > pp.scanPos {
		pp.scanPos = prev.stream.contentEnd
	}

	for {
		lineStart := pp.scanPos
		if err := src.Seek(lineStart); err != nil {
			return nil, false, newParseError(IoFailure, pp.owner.nodePath, err)
		}
		line, err := src.ReadLine()
		if err == io.EOF {
			pp.backfillPrev(prev, lineStart)
			events := pp.owner.shared.events
			if prev == nil {
				// never found even the opening delimiter: the
				// declared boundary simply isn't in the body.
				pp.owner.malformedBoundary = true
				if events != nil {
					events.Publish(EventBoundaryMalformed, pp.owner)
				}
				if !pp.owner.shared.cfg.RecoverMalformedBoundary {
					return nil, false, newParseError(MalformedBoundary, pp.owner.nodePath, fmt.Errorf("boundary %q not found", pp.owner.boundary))
				}
			} else {
				pp.owner.truncated = true
				if events != nil {
					events.Publish(EventMessageTruncated, pp.owner)
				}
			}
			return nil, true, nil
		}
		if err != nil {
			return nil, false, newParseError(IoFailure, pp.owner.nodePath, err)
		}
		lineEnd := src.Tell()
		trimmed := trimEOL(line)

		if bytes.HasPrefix(trimmed, marker) {
			rest := trimmed[len(marker):]
			isTerminator := bytes.Equal(rest, []byte("--"))
			pp.backfillPrev(prev, lineStart)
			pp.scanPos = lineEnd
			if isTerminator {
				pp.owner.stream.contentEnd = lineEnd
				return nil, true, nil
			}
			child, err := parseOnePart(pp.owner.shared, pp.owner, lineEnd)
			if err != nil {
				return nil, false, err
			}
			pp.scanPos = child.stream.contentStart
			return child, false, nil
		}
		pp.scanPos = lineEnd
	}
}

func (pp *multipartProxy) backfillPrev(prev *Part, boundaryLineStart int) {
	if prev == nil || prev.stream.contentEnd != unresolved {
		return
	}
	prev.stream.contentEnd = stripTrailingEOL(pp.owner.shared.src, boundaryLineStart)
}

// --- message/rfc822 single-child scanning ---------------------------------

// messageChildProxy produces the one embedded message a message/rfc822
// part wraps, without any boundary scanning: the teacher's mime.go
// treats an rfc822 part as containing exactly one further MIME tree
// starting right where its own body begins.
type messageChildProxy struct {
	owner    *Part
	produced bool
}

func newMessageChildProxy(owner *Part) *messageChildProxy {
	return &messageChildProxy{owner: owner}
}

func (mp *messageChildProxy) readNextChild(prev *Part) (*Part, bool, error) {
	if mp.produced {
		return nil, true, nil
	}
	mp.produced = true
	child, err := parseOnePart(mp.owner.shared, mp.owner, mp.owner.stream.contentStart)
	if err != nil {
		return nil, false, err
	}
	return child, false, nil
}

// --- shared helpers --------------------------------------------------------

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	return line
}

// stripTrailingEOL returns pos adjusted backwards over a CRLF or LF that
// immediately precedes it, since the line terminator before a boundary
// delimiter belongs to the delimiter (RFC 2046 dash-boundary := CRLF
// "--" boundary), not to the preceding part's content.
func stripTrailingEOL(src *bytesource.Source, pos int) int {
	from := pos - 2
	if from < 0 {
		from = 0
	}
	tail := src.ReadRange(from, pos)
	end := pos
	if len(tail) > 0 && tail[len(tail)-1] == '\n' {
		end--
		tail = tail[:len(tail)-1]
	}
	if len(tail) > 0 && tail[len(tail)-1] == '\r' {
		end--
	}
	return end
}

// parseOnePart reads and classifies one part's header block starting at
// headerStart, and wires up its children container according to what it
// classifies as. It does not read or bound the part's content; that is
// left lazy, resolved by resolveContent.
func parseOnePart(shared *sharedState, parent *Part, headerStart int) (*Part, error) {
	if shared.cfg.MaxParts > 0 && shared.parts >= shared.cfg.MaxParts {
		return nil, newParseError(InvalidMutation, "", fmt.Errorf("max parts (%d) exceeded", shared.cfg.MaxParts))
	}

	h, contentStart, err := readHeaderBlock(shared, headerStart)
	if err != nil {
		return nil, err
	}

	p := newPart(KindMime, shared, parent)
	p.headers = h
	p.stream.headerStart = headerStart
	p.stream.headerEnd = contentStart
	p.stream.contentStart = contentStart

	classify(p)

	if shared.events != nil {
		shared.events.Publish(EventPartDiscovered, p)
	}
	return p, nil
}

// readHeaderBlock reads RFC 5322 folded header lines from start up to
// and including the blank line that ends the header block, tolerating
// up to cfg.maxMalformedHeaderLines() lines that lack a colon (spec.md
// §7, kind 2) by dropping them rather than aborting the parse.
func readHeaderBlock(shared *sharedState, start int) (*header.Container, int, error) {
	src := shared.src
	h := header.New()
	pos := start
	malformed := 0

	var pendingName, pendingValue string
	havePending := false
	flush := func() {
		if havePending {
			h.Add(pendingName, strings.TrimRight(pendingValue, " \t"))
			havePending = false
		}
	}

	for {
		if shared.cfg.MaxHeaderBytes > 0 && pos-start > shared.cfg.MaxHeaderBytes {
			return nil, 0, newParseError(MalformedHeader, "", fmt.Errorf("header block exceeds %d bytes", shared.cfg.MaxHeaderBytes))
		}
		if err := src.Seek(pos); err != nil {
			return nil, 0, newParseError(IoFailure, "", err)
		}
		raw, err := src.ReadLine()
		if err == io.EOF {
			flush()
			return h, pos, nil
		}
		if err != nil {
			return nil, 0, newParseError(IoFailure, "", err)
		}
		lineEnd := src.Tell()
		line := trimEOL(raw)

		if len(line) == 0 {
			flush()
			return h, lineEnd, nil
		}

		if (line[0] == ' ' || line[0] == '\t') && havePending {
			pendingValue += " " + strings.TrimSpace(string(line))
			pos = lineEnd
			continue
		}

		flush()
		name, value, ok := splitHeaderLine(string(line))
		if !ok {
			malformed++
			if malformed > shared.cfg.maxMalformedHeaderLines() {
				return nil, 0, newParseError(MalformedHeader, "", fmt.Errorf("too many header lines without a colon"))
			}
			pos = lineEnd
			continue
		}
		pendingName, pendingValue = name, value
		havePending = true
		pos = lineEnd
	}
}

func splitHeaderLine(line string) (name, value string, ok bool) {
	idx := strings.IndexByte(line, ':')
	if idx <= 0 {
		return "", "", false
	}
	name = strings.TrimSpace(line[:idx])
	value = strings.TrimLeft(line[idx+1:], " \t")
	return name, value, true
}

// --- content-end resolution -------------------------------------------

// resolveContent ensures p.stream.contentEnd is known, pulling just
// enough from the shared source to discover it: the owning container's
// next sibling scan back-fills it as a side effect (the central
// correctness rule this whole package is built around), falling back to
// a full drain of the parent, then to the parent's own resolution, for
// a part that turns out to be its parent's last child.
func (p *Part) resolveContent() error {
	if p.stream.contentEnd != unresolved {
		return nil
	}
	if p.parent == nil {
		return p.resolveRootContentEnd()
	}

	parent := p.parent
	if idx := p.siblingIndex(); idx >= 0 && parent.children != nil {
		parent.children.childAt(idx + 1)
	}
	if p.stream.contentEnd != unresolved {
		return nil
	}

	if parent.children != nil {
		if err := parent.children.drain(); err != nil {
			return err
		}
	}
	if p.stream.contentEnd != unresolved {
		return nil
	}

	if err := parent.resolveContent(); err != nil {
		return err
	}
	if p.stream.contentEnd == unresolved {
		p.stream.contentEnd = parent.stream.contentEnd
	}
	return nil
}

func (p *Part) resolveRootContentEnd() error {
	p.shared.src.DrainToEOF()
	p.stream.contentEnd = p.shared.src.Len()
	return nil
}

func (p *Part) siblingIndex() int {
	if p.parent == nil {
		return -1
	}
	for i, ch := range p.parent.directChildren() {
		if ch == p {
			return i
		}
	}
	return -1
}
