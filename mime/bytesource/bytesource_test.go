package bytesource

import (
	"bytes"
	"io"
	"testing"
)

func TestReadLineCRLF(t *testing.T) {
	s := New(bytes.NewReader([]byte("abc\r\ndef\nghi")))

	line, err := s.ReadLine()
	if err != nil {
		t.Fatal(err)
	}
	if string(line) != "abc\r\n" {
		t.Error("expecting \"abc\\r\\n\", got:", string(line))
	}

	line, err = s.ReadLine()
	if err != nil {
		t.Fatal(err)
	}
	if string(line) != "def\n" {
		t.Error("expecting \"def\\n\", got:", string(line))
	}

	line, err = s.ReadLine()
	if err != nil {
		t.Fatal(err)
	}
	if string(line) != "ghi" {
		t.Error("expecting \"ghi\", got:", string(line))
	}

	if _, err = s.ReadLine(); err != io.EOF {
		t.Error("expecting io.EOF, got:", err)
	}
}

func TestSeekAndReadRange(t *testing.T) {
	s := NewFromBytes([]byte("0123456789"))
	if err := s.Seek(3); err != nil {
		t.Fatal(err)
	}
	if s.Tell() != 3 {
		t.Error("expecting Tell()==3, got:", s.Tell())
	}
	if got := string(s.ReadRange(3, 7)); got != "3456" {
		t.Error("expecting \"3456\", got:", got)
	}
}

func TestSeekNegative(t *testing.T) {
	s := NewFromBytes([]byte("abc"))
	if err := s.Seek(-1); err != ErrNegativeOffset {
		t.Error("expecting ErrNegativeOffset, got:", err)
	}
}

func TestPeekLineDoesNotAdvance(t *testing.T) {
	s := NewFromBytes([]byte("line one\nline two\n"))
	peeked, err := s.PeekLine()
	if err != nil {
		t.Fatal(err)
	}
	if string(peeked) != "line one\n" {
		t.Error("expecting \"line one\\n\", got:", string(peeked))
	}
	if s.Tell() != 0 {
		t.Error("PeekLine should not move the cursor, Tell() ==", s.Tell())
	}
	read, err := s.ReadLine()
	if err != nil {
		t.Fatal(err)
	}
	if string(read) != "line one\n" {
		t.Error("expecting \"line one\\n\", got:", string(read))
	}
}

func TestIndex(t *testing.T) {
	s := NewFromBytes([]byte("preamble--BOUNDARY more"))
	if idx := s.Index(0, []byte("--BOUNDARY")); idx != 8 {
		t.Error("expecting 8, got:", idx)
	}
	if idx := s.Index(0, []byte("nope")); idx != -1 {
		t.Error("expecting -1, got:", idx)
	}
}

func TestDrainToEOFDoesNotMoveCursor(t *testing.T) {
	s := New(bytes.NewReader([]byte("hello world")))
	if err := s.Seek(2); err != nil {
		t.Fatal(err)
	}
	s.DrainToEOF()
	if s.Tell() != 2 {
		t.Error("DrainToEOF must not move the cursor, Tell() ==", s.Tell())
	}
	if s.Len() != len("hello world") {
		t.Error("expecting Len()==11, got:", s.Len())
	}
	if !s.AtEOF() {
		// AtEOF also requires pos>=len(buf); seek to end to check eof flag took.
		if err := s.Seek(s.Len()); err != nil {
			t.Fatal(err)
		}
		if !s.AtEOF() {
			t.Error("expecting AtEOF() true after DrainToEOF and seeking to the end")
		}
	}
}
