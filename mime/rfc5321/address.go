package rfc5321

import (
	"errors"
	"net"
	"strings"
)

// RFC5322 parses the address-list productions of RFC 5322 §3.4 (To,
// From, Cc, ...), reusing Parser's RFC 5321 mailbox grammar for the
// addr-spec inside angle brackets or bare. Ported unchanged from
// go-guerrilla's mail/rfc5321/address.go.
type RFC5322 struct {
	AddressList
	Parser
	addr SingleAddress
}

type AddressList struct {
	List  []SingleAddress
	Group string
}

type SingleAddress struct {
	DisplayName       string
	DisplayNameQuoted bool
	LocalPart         string
	LocalPartQuoted   bool
	Domain            string
	IP                net.IP
	NullPath          bool
}

var (
	errNotAtom               = errors.New("not atom")
	errExpectingAngleAddress = errors.New("not angle address")
	errNotAWord              = errors.New("not a word")
	errExpectingColon        = errors.New("expecting : ")
	errExpectingSemicolon    = errors.New("expecting ; ")
	errExpectingAngleClose   = errors.New("expecting >")
	errExpectingAngleOpen    = errors.New("< expected")
	errQuotedUnclosed        = errors.New("quoted string not closed")
)

// Address parses the "address" production:
// address = mailbox / group
func (s *RFC5322) Address(input []byte) (AddressList, error) {
	s.set(input)
	s.next()
	s.List = nil
	s.addr = SingleAddress{}
	if err := s.mailbox(); err != nil {
		if s.ch == ':' {
			if groupErr := s.group(); groupErr != nil {
				return s.AddressList, groupErr
			}
			err = nil
		}
		return s.AddressList, err
	}
	return s.AddressList, nil
}

// group = display-name ":" [group-list] ";" [CFWS]
func (s *RFC5322) group() error {
	if s.addr.DisplayName == "" {
		if err := s.displayName(); err != nil {
			return err
		}
	} else {
		s.Group = s.addr.DisplayName
		s.addr.DisplayName = ""
	}
	if s.ch != ':' {
		return errExpectingColon
	}
	s.next()
	_ = s.groupList()
	s.skipSpace()
	if s.ch != ';' {
		return errExpectingSemicolon
	}
	return nil
}

// mailbox = name-addr / addr-spec
func (s *RFC5322) mailbox() error {
	pos := s.pos
	if err := s.nameAddr(); err != nil {
		if err == errExpectingAngleAddress && s.ch != ':' {
			s.addr.DisplayName = ""
			s.addr.DisplayNameQuoted = false
			s.pos = pos - 1
			if s.pos > -1 {
				s.ch = s.buf[s.pos]
			}
			if err = s.Parser.mailbox(); err != nil {
				return err
			}
			s.addAddress()
		} else {
			return err
		}
	}
	return nil
}

func (s *RFC5322) addAddress() {
	s.addr.LocalPart = s.LocalPart
	s.addr.Domain = s.Domain
	s.List = append(s.List, s.addr)
	s.addr = SingleAddress{}
}

// name-addr = [display-name] angle-addr
func (s *RFC5322) nameAddr() error {
	_ = s.displayName()
	if s.ch == '<' {
		if err := s.angleAddr(); err != nil {
			return err
		}
		s.next()
		if s.ch != '>' {
			return errExpectingAngleClose
		}
		s.addAddress()
		return nil
	}
	return errExpectingAngleAddress
}

// angle-addr = [CFWS] "<" addr-spec ">" [CFWS]
func (s *RFC5322) angleAddr() error {
	s.skipSpace()
	if s.ch != '<' {
		return errExpectingAngleOpen
	}
	if err := s.Parser.mailbox(); err != nil {
		return err
	}
	s.skipSpace()
	return nil
}

// display-name = phrase = 1*word
func (s *RFC5322) displayName() error {
	defer func() {
		if s.accept.Len() > 0 {
			s.addr.DisplayName = s.accept.String()
			s.accept.Reset()
		}
	}()
	if err := s.word(); err != nil {
		return err
	}
	for {
		if err := s.word(); err != nil {
			return nil
		}
	}
}

func (s *RFC5322) quotedString() error {
	if s.ch == '"' {
		if err := s.Parser.QcontentSMTP(); err != nil {
			return err
		}
		if s.ch != '"' {
			return errQuotedUnclosed
		}
		s.next()
	}
	return nil
}

// word = atom / quoted-string
func (s *RFC5322) word() error {
	if s.ch == '"' {
		s.addr.DisplayNameQuoted = true
		return s.quotedString()
	} else if s.isAtext(s.ch) || s.ch == ' ' || s.ch == '\t' {
		return s.atom()
	}
	return errNotAWord
}

// atom = [CFWS] 1*atext [CFWS]
func (s *RFC5322) atom() error {
	s.skipSpace()
	if !s.isAtext(s.ch) {
		return errNotAtom
	}
	for {
		if s.isAtext(s.ch) {
			s.accept.WriteByte(s.ch)
			s.next()
		} else {
			skipped := s.skipSpace()
			if !s.isAtext(s.ch) {
				return nil
			}
			if skipped > 0 {
				s.accept.WriteByte(' ')
			}
			s.accept.WriteByte(s.ch)
			s.next()
		}
	}
}

// group-list = mailbox-list / CFWS
func (s *RFC5322) groupList() error {
	if err := s.mailbox(); err != nil {
		return err
	}
	s.next()
	for {
		s.skipSpace()
		if s.ch != ',' {
			return nil
		}
		s.next()
		s.skipSpace()
		if err := s.mailbox(); err != nil {
			return err
		}
		s.next()
	}
}

func (s *RFC5322) skipSpace() int {
	var skipped int
	for {
		if s.ch != ' ' && s.ch != 9 {
			return skipped
		}
		s.next()
		skipped++
	}
}

// ParseAddressList parses a full header value such as a To/From/Cc line
// into its list of addresses, a thin entry point the teacher never
// needed since it only ever validated one SMTP path at a time: Address
// parses a single mailbox or group production, so a multi-recipient
// header is first split on its top-level commas (the ones outside a
// quoted string, an angle-addr, or a group's ":"..."; " body) and each
// piece is parsed independently.
func ParseAddressList(value string) ([]SingleAddress, error) {
	var out []SingleAddress
	for _, piece := range splitAddressList(value) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		var s RFC5322
		list, err := s.Address([]byte(piece))
		if err != nil {
			return out, err
		}
		out = append(out, list.List...)
	}
	return out, nil
}

// splitAddressList splits value on commas that sit outside a quoted
// string, an angle-addr, and a group's ":"..." ;" body.
func splitAddressList(value string) []string {
	var parts []string
	var cur strings.Builder
	angleDepth, groupDepth := 0, 0
	inQuotes := false

	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case inQuotes && c == '\\' && i+1 < len(value):
			cur.WriteByte(c)
			i++
			cur.WriteByte(value[i])
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case inQuotes:
			cur.WriteByte(c)
		case c == '<':
			angleDepth++
			cur.WriteByte(c)
		case c == '>':
			if angleDepth > 0 {
				angleDepth--
			}
			cur.WriteByte(c)
		case c == ':':
			groupDepth++
			cur.WriteByte(c)
		case c == ';':
			if groupDepth > 0 {
				groupDepth--
			}
			cur.WriteByte(c)
		case c == ',' && angleDepth == 0 && groupDepth == 0:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		parts = append(parts, cur.String())
	}
	return parts
}
