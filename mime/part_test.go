package mime

import (
	"errors"
	"testing"
)

func TestGetPartAtPreOrder(t *testing.T) {
	msg := "Content-Type: multipart/mixed; boundary=\"B\"\r\n\r\n" +
		"--B\r\nContent-Type: text/plain\r\n\r\nfirst\r\n" +
		"--B\r\nContent-Type: multipart/alternative; boundary=\"C\"\r\n\r\n" +
		"--C\r\nContent-Type: text/plain\r\n\r\nnested plain\r\n" +
		"--C\r\nContent-Type: text/html\r\n\r\n<b>nested html</b>\r\n" +
		"--C--\r\n" +
		"--B\r\nContent-Type: text/plain\r\n\r\nlast\r\n" +
		"--B--\r\n"

	root, err := ParseBytes([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}

	// pre-order over the whole tree, unfiltered: root, then each child in
	// turn, descending into the nested multipart/alternative before
	// moving on to its next sibling.
	want := []string{"multipart/mixed", "text/plain", "multipart/alternative", "text/plain", "text/html", "text/plain"}
	for i, w := range want {
		p := root.GetPartAt(i, nil)
		if p == nil {
			t.Fatalf("index %d: expecting a part, got nil", i)
		}
		if p.ContentType() != w {
			t.Errorf("index %d: expecting %s, got %s", i, w, p.ContentType())
		}
	}
	if root.GetPartAt(len(want), nil) != nil {
		t.Error("expecting nil past the last pre-order part")
	}

	// filtered: the second text/plain part in pre-order is the nested one.
	second := root.GetPartAt(1, ContentTypeFilter("text/plain"))
	if second == nil {
		t.Fatal("expecting a second text/plain match")
	}
	content, err := second.RawContent()
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "nested plain" {
		t.Error("expecting \"nested plain\", got:", string(content))
	}
}

func TestGetPartAtNegativeIndex(t *testing.T) {
	root, err := ParseBytes([]byte("Content-Type: text/plain\r\n\r\nbody\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if root.GetPartAt(-1, nil) != nil {
		t.Error("expecting nil for a negative index")
	}
}

func TestUUModeExposed(t *testing.T) {
	msg := "Subject: test\r\n\r\n" +
		"begin 644 file.txt\r\n" +
		"body line\r\n" +
		"end\r\n"

	root, err := ParseBytes([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}
	child := root.Child(0)
	if child == nil {
		t.Fatal("expecting a uuencoded child")
	}
	if child.UUMode() != "644" {
		t.Error("expecting mode 644, got:", child.UUMode())
	}
	if root.UUMode() != "" {
		t.Error("expecting an empty UUMode on a non-uuencoded part, got:", root.UUMode())
	}
}

func TestAddChildWrapsInvalidMutation(t *testing.T) {
	msg := "Content-Type: multipart/mixed; boundary=\"B\"\r\n" +
		"\r\n" +
		"--B\r\nContent-Type: text/plain\r\n\r\na\r\n" +
		"--B\r\nContent-Type: text/plain\r\n\r\nb\r\n" +
		"--B--\r\n"

	p := NewParser(Config{MaxParts: 1})
	root, err := p.ParseBytes([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}

	other, err := ParseBytes([]byte("Content-Type: text/plain\r\n\r\nx\r\n"))
	if err != nil {
		t.Fatal(err)
	}

	err = root.AddChild(other, -1)
	if err == nil {
		t.Fatal("expecting AddChild to fail once MaxParts is already exceeded")
	}
	if !errors.Is(err, ErrInvalidMutation) {
		t.Error("expecting errors.Is(err, ErrInvalidMutation) to hold, got:", err)
	}
}
