package mime

import (
	"fmt"
	"io"
	"strings"
)

// WriteMessage re-serializes p's entire subtree, grounded on the
// teacher's header-reconstruction style in mail/mime/mime.go's
// header()/contentType() (rebuild each header line from the parsed
// Headers container rather than copying the original bytes verbatim),
// extended per spec.md §6 with 78-column refolding. Header lines and
// multipart delimiter lines end in CRLF; leaf content is written as
// stored, with its own line endings unchanged. A part whose content was
// replaced via SetContentStream emits the replacement; any other leaf
// emits its original content range.
//
// Writing fully drains p's subtree first, since the boundary markers
// and child count of a multipart part can't be known without it.
func WriteMessage(w io.Writer, p *Part) error {
	return writePart(w, p)
}

func writePart(w io.Writer, p *Part) error {
	if err := writeHeaders(w, p); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return err
	}

	switch {
	case p.IsMultipart():
		if err := p.Drain(); err != nil {
			return err
		}
		for _, ch := range p.directChildren() {
			if _, err := fmt.Fprintf(w, "--%s\r\n", p.boundary); err != nil {
				return err
			}
			if err := writePart(w, ch); err != nil {
				return err
			}
			// dash-boundary := CRLF "--" boundary (RFC 2046 §5.1): the CRLF
			// belongs to the delimiter, not the part above it, and RawContent
			// never includes it (stripTrailingEOL strips it on the way in).
			if _, err := io.WriteString(w, "\r\n"); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "--%s--\r\n", p.boundary)
		return err

	case p.kind == KindMessage:
		if err := p.Drain(); err != nil {
			return err
		}
		if ch := p.Child(0); ch != nil {
			return writePart(w, ch)
		}
		return nil

	default:
		content, err := p.RawContent()
		if err != nil {
			return err
		}
		_, err = w.Write(content)
		return err
	}
}

// writeHeaders re-emits p's header container, one folded line per entry,
// preserving original names and insertion order.
func writeHeaders(w io.Writer, p *Part) error {
	for _, pair := range p.headers.Iterate() {
		line := fold(pair.Name+": "+pair.Value, 78)
		if _, err := io.WriteString(w, line+"\r\n"); err != nil {
			return err
		}
	}
	return nil
}

// fold breaks line into RFC 5322-style folded continuation lines (CRLF
// followed by a single space) at word boundaries so no physical line
// exceeds width columns, where possible.
func fold(line string, width int) string {
	if len(line) <= width {
		return line
	}
	words := strings.Split(line, " ")
	var b strings.Builder
	col := 0
	for i, word := range words {
		sep := " "
		if i == 0 {
			sep = ""
		}
		if col > 0 && col+len(sep)+len(word) > width {
			b.WriteString("\r\n ")
			col = 1
			sep = ""
		}
		b.WriteString(sep)
		b.WriteString(word)
		col += len(sep) + len(word)
	}
	return b.String()
}
