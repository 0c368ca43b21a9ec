// Package xtext installs golang.org/x/net/html/charset as mime/charset's
// decoding backend: a pure-Go alternative to cgo-based iconv, covering
// the common legacy mail encodings (windows-125x, iso-8859-*, koi8-r,
// shift_jis, gbk, ...) without a C toolchain dependency. Import for side
// effects only:
//
//	import _ "github.com/zacek/mail-mime-parser/mime/charset/xtext"
//
// Ported from go-guerrilla's mail/encoding/encoding.go, retargeted from
// mail.Dec (an RFC 2047 *mime.WordDecoder) to charset.Dec (a body
// content decoder).
package xtext

import (
	"io"

	"github.com/zacek/mail-mime-parser/mime/charset"
	cs "golang.org/x/net/html/charset"
)

func init() {
	charset.Dec.CharsetReader = func(name string, input io.Reader) (io.Reader, error) {
		return cs.NewReaderLabel(name, input)
	}
}
