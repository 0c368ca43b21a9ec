package mime

import "strings"

// classify populates a freshly header-parsed Part's MIME fields from its
// Content-Type / Content-Transfer-Encoding / Content-Disposition headers
// and decides which childSource, if any, it owns. This is the variant
// selection spec.md's PartBuilder performs, grounded on the teacher's
// Parser.header/contentType/mimeType/parameter token-scanning functions
// in mail/mime/mime.go, reworked to operate on an already-folded header
// value string instead of scanning the raw byte stream a token at a
// time - the folding has already happened in readHeaderBlock.
func classify(p *Part) {
	ctRaw, hasCT := p.GetHeaderValue("Content-Type")
	_, hasMimeVersion := p.GetHeaderValue("Mime-Version")

	if hasCT {
		mainToken, params := parseParamHeader(ctRaw)
		p.contentType = strings.ToLower(mainToken)
		p.params = params
		if b, ok := params["boundary"]; ok {
			p.boundary = b
		}
		if cs, ok := params["charset"]; ok {
			p.charset = strings.ToLower(cs)
		}
		if name, ok := params["name"]; ok && p.fileName == "" {
			p.fileName = name
		}
	}

	if cte, ok := p.GetHeaderValue("Content-Transfer-Encoding"); ok {
		p.transferEncoding = strings.ToLower(strings.TrimSpace(cte))
	}

	if cd, ok := p.GetHeaderValue("Content-Disposition"); ok {
		disp, params := parseParamHeader(cd)
		p.disposition = strings.ToLower(disp)
		p.dispositionParams = params
		if fn, ok := params["filename"]; ok {
			p.fileName = fn
		}
	}

	switch {
	case p.parent == nil && !hasCT && !hasMimeVersion:
		p.kind = KindNonMime
		p.children = newLazyChildren(p, newUUEncodeProxy(p))

	case p.contentType != "" && strings.HasPrefix(p.contentType, "multipart/"):
		p.kind = KindMime
		if p.boundary == "" {
			p.malformedBoundary = true
			p.children = newEagerChildren(p)
			break
		}
		p.children = newLazyChildren(p, newMultipartProxy(p))

	case p.contentType == "message/rfc822":
		p.kind = KindMessage
		p.children = newLazyChildren(p, newMessageChildProxy(p))

	default:
		p.kind = KindMime
		p.children = newEagerChildren(p)
	}
}

// parseParamHeader splits a structured header value like
//
//	multipart/mixed; boundary="abc123"; charset=utf-8
//
// into its leading value - a "type/subtype" pair or a single token,
// returned with its original casing for callers to normalize - and a
// lowercased-attribute parameter map, per RFC 2045 §5.1
// parameter := attribute "=" value, value := token / quoted-string.
// Grounded on the teacher's contentType/parameter/quotedString/token/
// comment recursive-descent set, collapsed into one scanner since the
// full value is available as a string rather than a streamed byte cursor.
func parseParamHeader(value string) (string, map[string]string) {
	s := &paramScanner{s: value}
	main := s.token()
	if s.consume('/') {
		main += "/" + s.token()
	}
	params := map[string]string{}
	for {
		s.skipSpace()
		if !s.consume(';') {
			break
		}
		s.skipSpace()
		attr := strings.ToLower(s.token())
		if attr == "" {
			break
		}
		s.skipSpace()
		if !s.consume('=') {
			params[attr] = ""
			continue
		}
		s.skipSpace()
		var val string
		if s.peek() == '"' {
			val = s.quotedString()
		} else {
			val = s.token()
		}
		params[attr] = val
	}
	return main, params
}

// isTSpecial reports whether b is one of RFC 2045's tspecials, which
// terminate an unquoted token.
func isTSpecial(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=':
		return true
	}
	return false
}

type paramScanner struct {
	s string
	i int
}

func (p *paramScanner) peek() byte {
	if p.i >= len(p.s) {
		return 0
	}
	return p.s[p.i]
}

func (p *paramScanner) consume(b byte) bool {
	if p.peek() == b {
		p.i++
		return true
	}
	return false
}

func (p *paramScanner) skipSpace() {
	for p.i < len(p.s) && (p.s[p.i] == ' ' || p.s[p.i] == '\t') {
		p.i++
	}
}

func (p *paramScanner) token() string {
	start := p.i
	for p.i < len(p.s) {
		b := p.s[p.i]
		if b <= ' ' || isTSpecial(b) {
			break
		}
		p.i++
	}
	return p.s[start:p.i]
}

func (p *paramScanner) quotedString() string {
	if !p.consume('"') {
		return ""
	}
	var b strings.Builder
	for p.i < len(p.s) {
		c := p.s[p.i]
		if c == '\\' && p.i+1 < len(p.s) {
			b.WriteByte(p.s[p.i+1])
			p.i += 2
			continue
		}
		if c == '"' {
			p.i++
			break
		}
		b.WriteByte(c)
		p.i++
	}
	return b.String()
}
