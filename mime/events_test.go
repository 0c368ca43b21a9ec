package mime

import "testing"

func TestEventPartDiscoveredFiresForEachPart(t *testing.T) {
	msg := "Content-Type: multipart/mixed; boundary=\"B\"\r\n\r\n" +
		"--B\r\nContent-Type: text/plain\r\n\r\nhello\r\n" +
		"--B\r\nContent-Type: text/plain\r\n\r\nworld\r\n" +
		"--B--\r\n"

	parser := NewParser(DefaultConfig())
	var discovered []*Part
	err := parser.Events().Subscribe(EventPartDiscovered, func(p *Part) {
		discovered = append(discovered, p)
	})
	if err != nil {
		t.Fatal(err)
	}

	root, err := parser.ParseBytes([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}
	if err := root.Drain(); err != nil {
		t.Fatal(err)
	}

	if len(discovered) != 3 {
		t.Fatalf("expecting 3 parts discovered (root + 2 children), got %d", len(discovered))
	}
}

func TestEventBoundaryMalformedFires(t *testing.T) {
	msg := "Content-Type: multipart/mixed; boundary=\"B\"\r\n\r\nno boundary here at all\r\n"

	parser := NewParser(DefaultConfig())
	fired := false
	err := parser.Events().Subscribe(EventBoundaryMalformed, func(p *Part) {
		fired = true
	})
	if err != nil {
		t.Fatal(err)
	}

	root, err := parser.ParseBytes([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}
	if err := root.Drain(); err != nil {
		t.Fatal(err)
	}
	if !fired {
		t.Error("expecting EventBoundaryMalformed to fire for a never-found boundary")
	}
}

func TestEventString(t *testing.T) {
	if EventPartDiscovered.String() != "mime:part_discovered" {
		t.Error("unexpected topic name:", EventPartDiscovered.String())
	}
}
