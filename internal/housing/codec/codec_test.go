package codec

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	owners := []string{"alice", "Bob The Builder", "x", "a:b", "name_with_underscores", "ünïcødé"}
	for _, owner := range owners {
		for _, idx := range []int{1, 2, 9, 10, 123456} {
			name := Encode(owner, idx)
			gotOwner, gotIdx, ok := Decode(name)
			if !ok || gotOwner != owner || gotIdx != idx {
				t.Fatalf("round trip %q/%d: got (%q, %d, %v) from %q", owner, idx, gotOwner, gotIdx, ok, name)
			}
			if !IsHouseRegion(name) {
				t.Fatalf("expected %q to be a house region", name)
			}
		}
	}
}

func TestEncodeExample(t *testing.T) {
	if got := Encode("alice", 3); got != "*H_alice:3" {
		t.Fatalf("Encode: got %q", got)
	}
	owner, idx, ok := Decode("*H_alice:3")
	if !ok || owner != "alice" || idx != 3 {
		t.Fatalf("Decode: got (%q, %d, %v)", owner, idx, ok)
	}
}

func TestDecodeRejects(t *testing.T) {
	cases := []string{
		"",
		"spawn",
		"*spawn",
		"H_alice:3",
		"*H_",
		"*H_:3",     // separator directly after the prefix
		"*H_alice:", // separator is the last character
		"*H_alice",
		"*H_alice:x",
		"*H_alice:0",
		"*H_alice:-2",
		"*H_alice:3a",
	}
	for _, name := range cases {
		if _, _, ok := Decode(name); ok {
			t.Fatalf("expected %q to be rejected", name)
		}
		if IsHouseRegion(name) {
			t.Fatalf("IsHouseRegion(%q) = true", name)
		}
	}
}

func TestDecodeUsesLastSeparator(t *testing.T) {
	owner, idx, ok := Decode("*H_team:red:4")
	if !ok || owner != "team:red" || idx != 4 {
		t.Fatalf("got (%q, %d, %v)", owner, idx, ok)
	}

	// Known ambiguity: an owner ending in ":<digits>" decodes as a shorter owner.
	owner, idx, ok = Decode(Encode("bob:7", 1))
	if !ok || owner != "bob:7" || idx != 1 {
		t.Fatalf("got (%q, %d, %v)", owner, idx, ok)
	}
	owner, idx, ok = Decode("*H_bob:7")
	if !ok || owner != "bob" || idx != 7 {
		t.Fatalf("got (%q, %d, %v)", owner, idx, ok)
	}
}

func TestIsSystemRegion(t *testing.T) {
	if !IsSystemRegion("*spawn") {
		t.Fatalf("expected *spawn to be a system region")
	}
	if IsSystemRegion("spawn") || IsSystemRegion("") {
		t.Fatalf("unexpected system region")
	}
}
