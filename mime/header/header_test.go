package header

import "testing"

func TestCaseInsensitiveGet(t *testing.T) {
	h := New()
	h.Add("Content-Type", "text/plain")
	if v, ok := h.Get("content-type", 0); !ok || v != "text/plain" {
		t.Error("expecting text/plain, got:", v, ok)
	}
}

func TestAddPreservesOrderAndRepeats(t *testing.T) {
	h := New()
	h.Add("Received", "first")
	h.Add("Received", "second")
	h.Add("Subject", "hi")

	all := h.GetAll("received")
	if len(all) != 2 || all[0] != "first" || all[1] != "second" {
		t.Error("expecting [first second], got:", all)
	}

	pairs := h.Iterate()
	if len(pairs) != 3 {
		t.Fatal("expecting 3 entries, got:", len(pairs))
	}
	if pairs[0].Name != "Received" || pairs[2].Name != "Subject" {
		t.Error("expecting original order/casing preserved, got:", pairs)
	}
}

func TestSetReplacesAllMatches(t *testing.T) {
	h := New()
	h.Add("X-Tag", "a")
	h.Add("X-Tag", "b")
	h.Set("x-tag", "only")

	all := h.GetAll("X-Tag")
	if len(all) != 1 || all[0] != "only" {
		t.Error("expecting [only], got:", all)
	}
}

func TestRemove(t *testing.T) {
	h := New()
	h.Add("X-Tag", "a")
	h.Add("X-Tag", "b")
	if !h.Remove("x-tag", 0) {
		t.Error("expecting Remove to report true")
	}
	all := h.GetAll("X-Tag")
	if len(all) != 1 || all[0] != "b" {
		t.Error("expecting [b] left, got:", all)
	}
	if h.Remove("x-tag", 5) {
		t.Error("expecting Remove of a missing index to report false")
	}
}

func TestGetMissing(t *testing.T) {
	h := New()
	if _, ok := h.Get("Nope", 0); ok {
		t.Error("expecting ok==false for a missing header")
	}
}
