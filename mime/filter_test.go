package mime

import "testing"

func TestContentTypeFilterExactAndSuperType(t *testing.T) {
	msg := "Content-Type: text/plain\r\n\r\nbody\r\n"
	root, err := ParseBytes([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}
	if !ContentTypeFilter("text/plain").Matches(root) {
		t.Error("expecting exact content-type match")
	}
	if !ContentTypeFilter("text").Matches(root) {
		t.Error("expecting super-type match")
	}
	if ContentTypeFilter("image").Matches(root) {
		t.Error("expecting no match for a different super-type")
	}
}

func TestAndOrNot(t *testing.T) {
	msg := "Content-Type: text/plain\r\n" +
		"Content-Disposition: attachment; filename=\"x.txt\"\r\n\r\nbody\r\n"
	root, err := ParseBytes([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}
	f := And(ContentTypeFilter("text/plain"), DispositionFilter("attachment"))
	if !f.Matches(root) {
		t.Error("expecting And() to match when both filters match")
	}
	if !Or(ContentTypeFilter("image"), DispositionFilter("attachment")).Matches(root) {
		t.Error("expecting Or() to match when one filter matches")
	}
	if Not(DispositionFilter("attachment")).Matches(root) {
		t.Error("expecting Not() to invert a matching filter")
	}
}

func TestAttachmentAndInlineFilter(t *testing.T) {
	msg := "Content-Type: multipart/mixed; boundary=\"B\"\r\n\r\n" +
		"--B\r\nContent-Type: text/plain\r\n\r\ninline text\r\n" +
		"--B\r\nContent-Type: application/pdf\r\nContent-Disposition: attachment; filename=\"a.pdf\"\r\n\r\ndata\r\n" +
		"--B--\r\n"
	root, err := ParseBytes([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}
	attachments := root.GetPart(AttachmentFilter())
	if len(attachments) != 1 || attachments[0].FileName() != "a.pdf" {
		t.Error("expecting only a.pdf as an attachment, got:", attachments)
	}
	inline := root.GetPart(InlineFilter())
	found := false
	for _, p := range inline {
		if p.ContentType() == "text/plain" {
			found = true
		}
	}
	if !found {
		t.Error("expecting the text/plain part to be classified inline")
	}
}
