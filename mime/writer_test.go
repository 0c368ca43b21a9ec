package mime

import (
	"bytes"
	"testing"
)

func TestWriteMessageRoundTrip(t *testing.T) {
	msg := "Subject: hi\r\n" +
		"Content-Type: multipart/mixed; boundary=\"B\"\r\n" +
		"\r\n" +
		"--B\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"hello\r\n" +
		"--B\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"world\r\n" +
		"--B--\r\n"

	root, err := ParseBytes([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteMessage(&buf, root); err != nil {
		t.Fatal(err)
	}

	written := buf.String()

	reparsed, err := ParseBytes([]byte(written))
	if err != nil {
		t.Fatalf("re-parsing written output failed: %v\noutput:\n%s", err, written)
	}
	if err := reparsed.Drain(); err != nil {
		t.Fatal(err)
	}
	if reparsed.ContentType() != "multipart/mixed" {
		t.Error("expecting multipart/mixed, got:", reparsed.ContentType())
	}
	if reparsed.ChildCount() != 2 {
		t.Fatal("expecting 2 children after round trip, got:", reparsed.ChildCount())
	}
	b0, err := reparsed.Child(0).RawContent()
	if err != nil {
		t.Fatal(err)
	}
	if string(b0) != "hello" {
		t.Error("expecting \"hello\", got:", string(b0))
	}
}

func TestFoldLongHeaderLine(t *testing.T) {
	longValue := "Subject: " + string(bytes.Repeat([]byte("word "), 20))
	folded := fold(longValue, 78)
	for _, line := range bytes.Split([]byte(folded), []byte("\r\n")) {
		if len(line) > 78 {
			t.Error("expecting no line longer than 78 columns, got:", len(line), "in", string(line))
		}
	}
}
