// Package charset converts a part's declared body charset to UTF-8. It
// mirrors go-guerrilla's mail.Dec pattern: a single package-level
// decoder value whose CharsetReader field side-effect packages
// (iconv.go, xtext.go) install themselves into on import, so a caller
// picks the conversion backend by choosing which package to blank-import
// rather than by threading a strategy value through every call.
package charset

import (
	"fmt"
	"io"
	"strings"
)

// CharsetReader opens a decoding io.Reader for charset, wrapping input.
// Implementations are expected to treat charset case-insensitively and
// to accept IANA names, aliases and common misspellings the way
// golang.org/x/net/html/charset and iconv both do.
type CharsetReader func(charset string, input io.Reader) (io.Reader, error)

// decoder holds the currently installed CharsetReader.
type decoder struct {
	CharsetReader CharsetReader
}

// Dec is the shared decoder every Reader call goes through. It starts
// nil; importing mime/charset/iconv or mime/charset/xtext for their
// side effects installs a backend. Importing both, the last import
// wins — the same trade-off the teacher's mail.Dec makes.
var Dec = &decoder{}

// Reader returns r decoded from charset to UTF-8. "utf-8", "us-ascii"
// and "" pass through unchanged without needing a backend installed,
// since they're either already UTF-8 or a strict subset of it.
func Reader(charsetName string, r io.Reader) (io.Reader, error) {
	name := strings.ToLower(strings.TrimSpace(charsetName))
	switch name {
	case "", "utf-8", "utf8", "us-ascii", "ascii", "7bit":
		return r, nil
	}
	if Dec.CharsetReader == nil {
		return nil, fmt.Errorf("mime/charset: no charset backend installed for %q (blank-import mime/charset/iconv or mime/charset/xtext)", charsetName)
	}
	return Dec.CharsetReader(name, r)
}
