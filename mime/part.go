// Package mime implements a lazy, streaming MIME tree parser: it reads an
// RFC 5322 / RFC 2045-2049 message once, discovers structure incrementally
// as callers traverse it, and supports structural mutation while
// preserving the ability to re-serialize the message.
//
// The design is grounded on go-guerrilla's mail/mime package, which scans
// a message byte-by-byte and builds a flat Parts tree without
// backtracking or regular expressions. This package keeps that scanning
// technique but restructures it around pull-based, per-part
// ParserProxies so that a caller's traversal - not a fixed single pass -
// drives how much of the message gets parsed.
package mime

import (
	"strconv"

	"github.com/zacek/mail-mime-parser/mime/bytesource"
	"github.com/zacek/mail-mime-parser/mime/header"
)

// Kind tags which variant a Part is. Go has no sum types, so the variants
// from spec.md ({Mime, NonMime, UuEncoded, Message}) are modeled as one
// struct carrying a Kind discriminant plus the union of fields each
// variant needs, per the "runtime-tagged part variants" guidance: a
// shared capability set (headers, content, children, parent) with a tag
// instead of a class hierarchy.
type Kind int

const (
	KindMime Kind = iota
	KindNonMime
	KindUUEncoded
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindMime:
		return "mime"
	case KindNonMime:
		return "non-mime"
	case KindUUEncoded:
		return "uuencoded"
	case KindMessage:
		return "message"
	default:
		return "unknown"
	}
}

// unresolved marks a content boundary (start/end offset) that hasn't been
// discovered by the parser yet.
const unresolved = -1

// streamRanges is the PartStreamContainer of spec.md §4.4: three byte
// ranges into the shared source, plus an optional in-memory override that
// replaces the content range after a mutation.
type streamRanges struct {
	headerStart int
	headerEnd   int // one past the header block's trailing blank line
	contentStart int
	contentEnd   int // unresolved until the enclosing boundary/EOF is found

	override []byte // non-nil once SetContentStream has been called
}

// Part is a node in the message tree - spec.md's Part. The zero value is
// not usable; parts are created by the parser or by mutation helpers.
type Part struct {
	kind Kind

	headers *header.Container
	parent  *Part
	shared  *sharedState

	children childrenContainer

	stream streamRanges

	nodePath string // dotted path, e.g. "1.2.1", for diagnostics

	// MIME classification, populated once headers are known.
	contentType      string // "type/subtype", lowercased
	params           map[string]string
	boundary         string // multipart boundary, "" if not multipart
	transferEncoding string
	charset          string
	disposition      string
	dispositionParams map[string]string
	fileName         string

	// uuencode-specific (KindUUEncoded)
	uuMode string

	// recovery flags, spec.md §7
	malformedBoundary bool
	truncated         bool
}

// sharedState is held by every Part in one tree: the byte source, parser
// configuration, and the collaborator (the event bus) every
// ParserProxy in the tree needs. Grounded on the teacher's single shared
// Parser instance referenced by every node's implicit traversal.
type sharedState struct {
	src    *bytesource.Source
	cfg    Config
	events eventPublisher
	parts  int // total parts constructed so far, for MaxParts enforcement
}

func newPart(kind Kind, shared *sharedState, parent *Part) *Part {
	p := &Part{
		kind:    kind,
		headers: header.New(),
		parent:  parent,
		shared:  shared,
		params:  map[string]string{},
		stream: streamRanges{
			headerStart:  unresolved,
			headerEnd:    unresolved,
			contentStart: unresolved,
			contentEnd:   unresolved,
		},
	}
	shared.parts++
	return p
}

// Kind reports which variant this part is.
func (p *Part) Kind() Kind { return p.kind }

// Parent returns the enclosing part, or nil for the root.
func (p *Part) Parent() *Part { return p.parent }

// NodePath returns the dotted tree path ("1", "1.2", "1.2.1", ...),
// grounded on the teacher's Part.Node path numbering.
func (p *Part) NodePath() string { return p.nodePath }

// Headers returns the part's header container. Always empty (but
// non-nil) for uuencoded parts: their file name and mode are exposed by
// FileName and UUMode, not as headers.
func (p *Part) Headers() *header.Container { return p.headers }

// GetHeaderValue returns the first raw value of name, or "" if absent.
func (p *Part) GetHeaderValue(name string) (string, bool) {
	return p.headers.Get(name, 0)
}

// ContentType returns the "type/subtype" portion of Content-Type,
// lowercased, or "" if unset.
func (p *Part) ContentType() string { return p.contentType }

// ContentTypeParam returns a Content-Type parameter value, e.g. "charset"
// or "boundary".
func (p *Part) ContentTypeParam(name string) (string, bool) {
	v, ok := p.params[name]
	return v, ok
}

// Boundary returns the multipart delimiter string, or "" if this part is
// not a multipart container.
func (p *Part) Boundary() string { return p.boundary }

// IsMultipart reports whether this part has a boundary and therefore owns
// MIME children (as opposed to being a leaf or a uuencode/non-MIME
// container).
func (p *Part) IsMultipart() bool {
	return p.boundary != "" && (p.kind == KindMime || p.kind == KindMessage)
}

// Disposition returns the Content-Disposition value without parameters
// ("inline", "attachment", or "").
func (p *Part) Disposition() string { return p.disposition }

// FileName returns the file name from Content-Disposition's filename
// parameter, falling back to Content-Type's name parameter.
func (p *Part) FileName() string { return p.fileName }

// UUMode returns the octal permission string from a uuencode stanza's
// "begin MODE FILENAME" line ("644"), or "" for any other Kind.
func (p *Part) UUMode() string { return p.uuMode }

// TransferEncoding returns the Content-Transfer-Encoding value, trimmed
// and lowercased.
func (p *Part) TransferEncoding() string { return p.transferEncoding }

// Charset returns the Content-Type charset parameter, lowercased.
func (p *Part) Charset() string { return p.charset }

// MalformedBoundary reports whether this multipart part declared a
// boundary that was never found (spec.md §7, kind 3).
func (p *Part) MalformedBoundary() bool { return p.malformedBoundary }

// Truncated reports whether EOF arrived before this part's expected
// terminator (spec.md §7, kind 4).
func (p *Part) Truncated() bool { return p.truncated }

// Child returns the i-th (0-based) direct child, parsing further input
// if needed. Returns nil past the last child.
func (p *Part) Child(i int) *Part {
	if p.children == nil {
		return nil
	}
	return p.children.childAt(i)
}

// ChildCount returns how many direct children have been materialized so
// far. It does not force further parsing; call Drain first for a
// complete count.
func (p *Part) ChildCount() int {
	if p.children == nil {
		return 0
	}
	return p.children.count()
}

// AllChildrenParsed reports whether every direct child has already been
// discovered.
func (p *Part) AllChildrenParsed() bool {
	if p.children == nil {
		return true
	}
	return p.children.allParsed()
}

// Drain forces every descendant of p to be parsed, the way
// re-serialization (MessageWriter) and structural mutation need.
func (p *Part) Drain() error {
	return fullyExpand(p)
}

// GetPart returns every part in p's subtree, including p itself, in
// pre-order, that matches f (nil matches everything). This fully drains
// the subtree, per spec.md §4.6's "mutation and bulk reads drain first".
func (p *Part) GetPart(f Filter) []*Part {
	if p.children == nil {
		if matches(p, f) {
			return []*Part{p}
		}
		return nil
	}
	return p.children.getAllParts(f)
}

// GetPartAt returns the index-th (0-based) part in p's subtree, including
// p itself, in pre-order, that matches f (nil matches everything), or nil
// if the subtree has fewer than index+1 matches. This is spec.md §4.6's
// getPart(index, filter): unlike GetPart, it never drains the whole
// subtree up front - it walks pre-order and pulls one more direct child
// at a time, through childAt, stopping as soon as the index-th match is
// found.
func (p *Part) GetPartAt(index int, f Filter) *Part {
	if index < 0 {
		return nil
	}
	n := 0
	return p.walkPreOrder(f, index, &n)
}

// walkPreOrder visits p and its descendants in pre-order, incrementing n
// for every match of f and returning the part once n reaches target. It
// pulls children lazily, one at a time via childAt, rather than draining.
func (p *Part) walkPreOrder(f Filter, target int, n *int) *Part {
	if matches(p, f) {
		if *n == target {
			return p
		}
		*n++
	}
	if p.children == nil {
		return nil
	}
	for i := 0; ; i++ {
		child := p.children.childAt(i)
		if child == nil {
			return nil
		}
		if found := child.walkPreOrder(f, target, n); found != nil {
			return found
		}
	}
}

// GetChild returns p's direct children matching f (nil matches
// everything), fully drained.
func (p *Part) GetChild(f Filter) []*Part {
	if p.children == nil {
		return nil
	}
	return p.children.getChildParts(f)
}

// GetIterator is GetPart under another name, matching spec.md's
// traversal-order alias for callers that want to range over a whole
// subtree without caring that it happens to be the same order GetPart
// uses.
func (p *Part) GetIterator(f Filter) []*Part {
	if p.children == nil {
		return p.GetPart(f)
	}
	return p.children.getIterator(f)
}

// AddChild inserts p2 as a direct child of p at position (0-based),
// or appends it when position is negative or out of range. Draining
// happens first so indices refer to the complete, final child list.
func (p *Part) AddChild(p2 *Part, position int) error {
	if p.children == nil {
		p.children = newEagerChildren(p)
	}
	return p.children.addChild(p2, position)
}

// RemovePart detaches target from wherever it sits in p's subtree.
// Reports whether it was found.
func (p *Part) RemovePart(target *Part) (bool, error) {
	if p.children == nil {
		return false, nil
	}
	return p.children.removePart(target)
}

// RawContent returns this part's undecoded content bytes, resolving its
// content-end offset first if necessary.
func (p *Part) RawContent() ([]byte, error) {
	if p.stream.override != nil {
		return p.stream.override, nil
	}
	if err := p.resolveContent(); err != nil {
		return nil, err
	}
	return p.shared.src.ReadRange(p.stream.contentStart, p.stream.contentEnd), nil
}

// SetContentStream replaces this part's content with b, the
// PartStreamContainer mutation spec.md §4.4 describes. Re-serializing
// the tree after this reflects b instead of the original stream range.
func (p *Part) SetContentStream(b []byte) {
	p.stream.override = b
}

// assignNodePath computes this part's dotted path from its parent and an
// ordinal (1-based) among its siblings.
func (p *Part) assignNodePath(ordinal int) {
	if p.parent == nil {
		p.nodePath = "1"
		return
	}
	if p.parent.nodePath == "" {
		p.nodePath = strconv.Itoa(ordinal)
		return
	}
	p.nodePath = p.parent.nodePath + "." + strconv.Itoa(ordinal)
}
