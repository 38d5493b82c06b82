package permissions

import "testing"

type groups map[string]Set

func (g groups) HasCapability(group, perm string) bool { return g[group].Has(perm) }

func TestSetHas(t *testing.T) {
	var empty Set
	if empty.Has(Define) {
		t.Fatalf("nil set grants nothing")
	}
	s := Set{Define: true}
	if !s.Has(Define) || s.Has(Delete) {
		t.Fatalf("unexpected set membership")
	}
	if !(Set{"*": true}).Has(Configure) {
		t.Fatalf("wildcard grants everything")
	}
}

func TestCommands(t *testing.T) {
	g := groups{
		"guest":  {},
		"player": {Define: true, Share: true},
		"admin":  {"*": true},
	}
	if got := Commands(g, "guest"); len(got) != 3 || got[0] != "info" || got[1] != "scan" || got[2] != "summary" {
		t.Fatalf("guest: %v", got)
	}
	got := Commands(g, "player")
	want := []string{"info", "scan", "summary", "define", "resize", "setowner", "share", "unshare"}
	if len(got) != len(want) {
		t.Fatalf("player: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("player: %v", got)
		}
	}
	if got := Commands(g, "admin"); len(got) != 12 {
		t.Fatalf("admin: %v", got)
	}
}
