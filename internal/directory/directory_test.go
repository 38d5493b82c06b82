package directory

import (
	"os"
	"path/filepath"
	"testing"

	"houseregions.ai/internal/housing/permissions"
)

const sample = `default_group: player
groups:
  player: [houseregions_define, houseregions_share]
  admin: ["*"]
users:
  - name: alice
  - name: root
    group: admin
`

func TestLoadAndLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := d.Account("p1"); ok {
		t.Fatalf("player not logged in yet")
	}
	d.Login("p1", "alice")
	acc, ok := d.Account("p1")
	if !ok || acc.Name != "alice" || acc.Group != "player" || !acc.LoggedIn {
		t.Fatalf("unexpected account: %+v", acc)
	}
	if !d.HasCapability("player", permissions.Define) || d.HasCapability("player", permissions.NoLimits) {
		t.Fatalf("unexpected player capabilities")
	}
	if !d.HasCapability("admin", permissions.Configure) {
		t.Fatalf("admin wildcard")
	}
	if u, ok := d.UserByName("root"); !ok || u.Group != "admin" || u.LoggedIn {
		t.Fatalf("UserByName root: %+v", u)
	}

	// Unknown accounts join the default group on login.
	d.Login("p2", "newbie")
	if acc, _ := d.Account("p2"); acc.Group != "player" {
		t.Fatalf("newbie group: %+v", acc)
	}
	d.Logout("p1")
	if _, ok := d.Account("p1"); ok {
		t.Fatalf("expected logout")
	}
	if !d.GroupExists("admin") || d.GroupExists("nobody") {
		t.Fatalf("GroupExists")
	}
}

func TestNewRejectsUnknownGroup(t *testing.T) {
	_, err := New(File{Users: []UserSpec{{Name: "x", Group: "ghost"}}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, err := New(File{Users: []UserSpec{{Name: "x"}, {Name: "x"}}}); err == nil {
		t.Fatalf("expected duplicate error")
	}
}
