package mime

import "testing"

func TestStreamingParserIncrementalFeed(t *testing.T) {
	sp := NewStreamingParser(DefaultConfig())

	sp.Write([]byte("Subject: partial\r\n"))
	if _, err := sp.Root(); err == nil {
		t.Error("expecting Root() to fail before the header block is complete")
	}

	sp.Write([]byte("Content-Type: text/plain\r\n\r\nhello"))
	sp.Close()

	root, err := sp.Root()
	if err != nil {
		t.Fatal(err)
	}
	if root.ContentType() != "text/plain" {
		t.Error("expecting text/plain, got:", root.ContentType())
	}
	content, err := root.RawContent()
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "hello" {
		t.Error("expecting \"hello\", got:", string(content))
	}
}

func TestStreamingParserRootIsMemoized(t *testing.T) {
	sp := NewStreamingParser(DefaultConfig())
	sp.Write([]byte("Subject: x\r\n\r\nbody"))
	sp.Close()

	first, err := sp.Root()
	if err != nil {
		t.Fatal(err)
	}
	second, err := sp.Root()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expecting Root() to return the same *Part on repeated calls")
	}
}
