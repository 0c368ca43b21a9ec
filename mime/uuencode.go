package mime

import (
	"io"
	"strconv"
	"strings"
)

// uuencodeProxy scans a non-MIME message's body for legacy uuencode
// stanzas ("begin MODE FILENAME" ... "end"), producing one KindUUEncoded
// Part per stanza it finds. There is no go-guerrilla code for this - it
// only ever sees SMTP envelopes through its MIME analyzer backend - so
// this is grounded on the plain uuencode(5) stanza grammar instead of a
// teacher file, written in the same line-scanning style as
// multipartProxy so the two childSource implementations read alike.
type uuencodeProxy struct {
	owner   *Part
	scanPos int
}

func newUUEncodeProxy(owner *Part) *uuencodeProxy {
	return &uuencodeProxy{owner: owner, scanPos: owner.stream.contentStart}
}

func (up *uuencodeProxy) readNextChild(prev *Part) (*Part, bool, error) {
	src := up.owner.shared.src

	for {
		lineStart := up.scanPos
		if err := src.Seek(lineStart); err != nil {
			return nil, false, newParseError(IoFailure, up.owner.nodePath, err)
		}
		line, err := src.ReadLine()
		if err == io.EOF {
			return nil, true, nil
		}
		if err != nil {
			return nil, false, newParseError(IoFailure, up.owner.nodePath, err)
		}
		lineEnd := src.Tell()
		trimmed := string(trimEOL(line))

		mode, fileName, ok := parseUUBegin(trimmed)
		if !ok {
			up.scanPos = lineEnd
			continue
		}

		child := newPart(KindUUEncoded, up.owner.shared, up.owner)
		child.uuMode = mode
		child.fileName = fileName
		child.contentType = "application/octet-stream"
		child.stream.headerStart = lineStart
		child.stream.headerEnd = lineEnd
		child.stream.contentStart = lineEnd
		child.children = newEagerChildren(child)

		endPos, truncated, err := up.scanToEnd(lineEnd)
		if err != nil {
			return nil, false, err
		}
		child.stream.contentEnd = endPos
		child.truncated = truncated
		up.scanPos = src.Tell()

		if up.owner.shared.events != nil {
			up.owner.shared.events.Publish(EventPartDiscovered, child)
		}
		return child, false, nil
	}
}

// scanToEnd reads forward from pos until an exact "end" line, returning
// the content-end offset (before that line's leading CRLF) and whether
// EOF was hit first.
func (up *uuencodeProxy) scanToEnd(pos int) (int, bool, error) {
	src := up.owner.shared.src
	for {
		lineStart := pos
		if err := src.Seek(lineStart); err != nil {
			return 0, false, newParseError(IoFailure, up.owner.nodePath, err)
		}
		line, err := src.ReadLine()
		if err == io.EOF {
			return src.Len(), true, nil
		}
		if err != nil {
			return 0, false, newParseError(IoFailure, up.owner.nodePath, err)
		}
		pos = src.Tell()
		if strings.TrimSpace(string(trimEOL(line))) == "end" {
			return stripTrailingEOL(src, lineStart), false, nil
		}
	}
}

// parseUUBegin parses a uuencode "begin" line: begin MODE FILENAME,
// where MODE is an octal permission string (e.g. "644").
func parseUUBegin(line string) (mode, fileName string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != "begin" {
		return "", "", false
	}
	if _, err := strconv.ParseUint(fields[1], 8, 32); err != nil {
		return "", "", false
	}
	return fields[1], strings.Join(fields[2:], " "), true
}
