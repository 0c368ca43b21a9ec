// Package iconv installs GNU iconv as mime/charset's decoding backend.
// iconv covers a broader range of legacy mail encodings than the pure-Go
// alternative; it is a cgo package, so the build environment needs the
// GNU iconv headers available. Import for side effects only:
//
//	import _ "github.com/zacek/mail-mime-parser/mime/charset/iconv"
//
// Ported from go-guerrilla's mail/iconv/iconv.go, retargeted from
// mail.Dec (an RFC 2047 *mime.WordDecoder) to charset.Dec (a body
// content decoder).
package iconv

import (
	"fmt"
	"io"

	"github.com/zacek/mail-mime-parser/mime/charset"
	ico "gopkg.in/iconv.v1"
)

func init() {
	charset.Dec.CharsetReader = func(cs string, input io.Reader) (io.Reader, error) {
		cd, err := ico.Open("UTF-8", cs)
		if err != nil {
			return nil, fmt.Errorf("mime/charset/iconv: unhandled charset %q: %w", cs, err)
		}
		return ico.NewReader(cd, input, 32), nil
	}
}
