package mime

import (
	"fmt"
)

// ErrKind enumerates the error kinds from spec.md §7.
type ErrKind int

const (
	// IoFailure: the underlying byte source failed to read or seek.
	// Fatal for the in-progress parse.
	IoFailure ErrKind = iota
	// MalformedHeader: a header block could not be read. Header lines
	// without a colon are dropped (they are not kept under any header
	// name); this error is returned once one block holds more such lines
	// than Config allows, or grows past Config.MaxHeaderBytes.
	MalformedHeader
	// MalformedBoundary: a multipart part declared a boundary that was
	// never found. With Config.RecoverMalformedBoundary set the part gets
	// no children and only its warning flag is set; otherwise this error
	// is also returned.
	MalformedBoundary
	// TruncatedMessage: EOF arrived before an expected terminator.
	// Recovered (open parts are implicitly closed); surfaced as a flag
	// on affected parts.
	TruncatedMessage
	// InvalidMutation: a caller tried to mutate a part that is
	// mid-parse and can't be drained (e.g. after a prior IoFailure).
	// Also the kind returned when parsing would exceed Config.MaxParts.
	InvalidMutation
	// DecodingFailure: transfer-encoding or charset decoding failed
	// while reading a content stream.
	DecodingFailure
)

func (k ErrKind) String() string {
	switch k {
	case IoFailure:
		return "io failure"
	case MalformedHeader:
		return "malformed header"
	case MalformedBoundary:
		return "malformed boundary"
	case TruncatedMessage:
		return "truncated message"
	case InvalidMutation:
		return "invalid mutation"
	case DecodingFailure:
		return "decoding failure"
	default:
		return "unknown error"
	}
}

// ParseError is the typed error returned by Parse and by content-stream
// reads, grounded on the teacher's boundaryEnd/NotMime sentinel-error
// pattern in mail/mime/mime.go, generalized into one type carrying a Kind
// so callers can errors.As against it instead of comparing strings.
type ParseError struct {
	Kind ErrKind
	Node string // node path of the affected part, if any
	Err  error  // wrapped low-level cause, if any
}

func (e *ParseError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("mime: %s at %s: %v", e.Kind, e.Node, e.Err)
	}
	return fmt.Sprintf("mime: %s: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(kind ErrKind, node string, err error) *ParseError {
	return &ParseError{Kind: kind, Node: node, Err: err}
}
