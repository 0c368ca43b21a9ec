package rfc5321

import "testing"

func TestSplitAddressListBasic(t *testing.T) {
	got := splitAddressList("alice@example.com, bob@example.com")
	if len(got) != 2 {
		t.Fatalf("expecting 2 pieces, got %d: %v", len(got), got)
	}
}

func TestSplitAddressListKeepsAngleAddrIntact(t *testing.T) {
	got := splitAddressList("Alice <alice@example.com>, Bob <bob@example.com>")
	if len(got) != 2 {
		t.Fatalf("expecting 2 pieces, got %d: %v", len(got), got)
	}
}

func TestSplitAddressListKeepsQuotedCommaIntact(t *testing.T) {
	got := splitAddressList(`"Doe, John" <john@example.com>, jane@example.com`)
	if len(got) != 2 {
		t.Fatalf("expecting 2 pieces, got %d: %v", len(got), got)
	}
	if got[0] != `"Doe, John" <john@example.com>` {
		t.Errorf("expecting the quoted comma to stay in the first piece, got: %q", got[0])
	}
}

func TestSplitAddressListKeepsGroupIntact(t *testing.T) {
	got := splitAddressList("Team: alice@example.com, bob@example.com;, carol@example.com")
	if len(got) != 2 {
		t.Fatalf("expecting the group body's comma to stay intact, got %d pieces: %v", len(got), got)
	}
	if got[1] != " carol@example.com" {
		t.Errorf("expecting the trailing address after the group, got: %q", got[1])
	}
}

func TestAddressQuotedDisplayName(t *testing.T) {
	var s RFC5322
	list, err := s.Address([]byte(`"Doe, John" <john@example.com>`))
	if err != nil {
		t.Fatal(err)
	}
	if len(list.List) != 1 {
		t.Fatalf("expecting 1 address, got %d", len(list.List))
	}
	got := list.List[0]
	if got.DisplayName != "Doe, John" || !got.DisplayNameQuoted {
		t.Errorf("expecting quoted display name \"Doe, John\", got: %q quoted=%v", got.DisplayName, got.DisplayNameQuoted)
	}
	if got.LocalPart != "john" || got.Domain != "example.com" {
		t.Errorf("expecting john@example.com, got: %s@%s", got.LocalPart, got.Domain)
	}
}

func TestParseAddressListMultiple(t *testing.T) {
	addrs, err := ParseAddressList("Alice <alice@example.com>, bob@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 2 {
		t.Fatalf("expecting 2 addresses, got %d", len(addrs))
	}
	if addrs[0].DisplayName != "Alice" || addrs[0].LocalPart != "alice" {
		t.Errorf("unexpected first address: %+v", addrs[0])
	}
	if addrs[1].LocalPart != "bob" || addrs[1].Domain != "example.com" {
		t.Errorf("unexpected second address: %+v", addrs[1])
	}
}

func TestParseAddressListEmpty(t *testing.T) {
	addrs, err := ParseAddressList("")
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 0 {
		t.Errorf("expecting no addresses for an empty value, got: %v", addrs)
	}
}
