package mime

import (
	"encoding/base64"
	"testing"
)

func TestDecodedContentBase64(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello, world"))
	msg := "Content-Type: text/plain; charset=us-ascii\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		payload + "\r\n"

	root, err := ParseBytes([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := root.DecodedContent()
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "hello, world" {
		t.Error("expecting \"hello, world\", got:", string(decoded))
	}
}

func TestDecodedContentQuotedPrintable(t *testing.T) {
	msg := "Content-Type: text/plain\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"caf=C3=A9\r\n"

	root, err := ParseBytes([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := root.DecodedContent()
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "café\r\n" {
		t.Error("expecting \"café\\r\\n\", got:", string(decoded))
	}
}

func TestAttachmentsAndTextPart(t *testing.T) {
	msg := "Content-Type: multipart/mixed; boundary=\"B\"\r\n" +
		"\r\n" +
		"--B\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"body text\r\n" +
		"--B\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"Content-Disposition: attachment; filename=\"data.bin\"\r\n" +
		"\r\n" +
		"binarydata\r\n" +
		"--B--\r\n"

	root, err := ParseBytes([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}

	text, ok := root.TextPart()
	if !ok || text != "body text" {
		t.Error("expecting \"body text\", got:", text, ok)
	}

	attachments := root.Attachments()
	if len(attachments) != 1 {
		t.Fatal("expecting 1 attachment, got:", len(attachments))
	}
	if attachments[0].FileName() != "data.bin" {
		t.Error("expecting data.bin, got:", attachments[0].FileName())
	}
}

func TestAddressesParsesHeaderList(t *testing.T) {
	msg := "To: Alice <alice@example.com>, bob@example.com\r\n\r\nbody\r\n"
	root, err := ParseBytes([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}
	addrs, err := root.Addresses("To")
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 2 {
		t.Fatal("expecting 2 addresses, got:", len(addrs))
	}
	if addrs[0].LocalPart != "alice" || addrs[0].Domain != "example.com" {
		t.Error("expecting alice@example.com, got:", addrs[0].LocalPart, addrs[0].Domain)
	}
	if addrs[1].LocalPart != "bob" || addrs[1].Domain != "example.com" {
		t.Error("expecting bob@example.com, got:", addrs[1].LocalPart, addrs[1].Domain)
	}
}

func TestTextPartNonMimeFallback(t *testing.T) {
	msg := "Subject: no content-type here\r\n\r\nHello\r\n"
	root, err := ParseBytes([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}
	if root.Kind() != KindNonMime {
		t.Fatal("expecting KindNonMime, got:", root.Kind())
	}
	text, ok := root.TextPart()
	if !ok || text != "Hello\r\n" {
		t.Error("expecting \"Hello\\r\\n\", got:", text, ok)
	}
}

func TestAddressesAbsentHeader(t *testing.T) {
	root, err := ParseBytes([]byte("Subject: hi\r\n\r\nbody\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	addrs, err := root.Addresses("To")
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 0 {
		t.Error("expecting no addresses, got:", addrs)
	}
}
