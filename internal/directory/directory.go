// Package directory resolves players to accounts and groups to capabilities.
package directory

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"houseregions.ai/internal/housing/permissions"
)

type Account struct {
	Name     string
	Group    string
	LoggedIn bool
}

type File struct {
	DefaultGroup string              `yaml:"default_group"`
	Groups       map[string][]string `yaml:"groups"`
	Users        []UserSpec          `yaml:"users"`
}

type UserSpec struct {
	Name  string `yaml:"name"`
	Group string `yaml:"group"`
}

// Directory is safe for concurrent use. Players are bound to accounts by
// Login and released by Logout.
type Directory struct {
	mu           sync.RWMutex
	defaultGroup string
	groups       map[string]permissions.Set
	users        map[string]string // account -> group
	online       map[string]string // player -> account
}

func New(f File) (*Directory, error) {
	d := &Directory{online: map[string]string{}}
	if err := d.apply(f); err != nil {
		return nil, err
	}
	return d, nil
}

func Load(path string) (*Directory, error) {
	f, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return New(f)
}

// Reload replaces groups and users; online players stay bound.
func (d *Directory) Reload(path string) error {
	f, err := readFile(path)
	if err != nil {
		return err
	}
	return d.apply(f)
}

func readFile(path string) (File, error) {
	var f File
	b, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("directory.yaml: %w", err)
	}
	return f, nil
}

func (d *Directory) apply(f File) error {
	groups := map[string]permissions.Set{}
	for name, perms := range f.Groups {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("directory: empty group name")
		}
		set := permissions.Set{}
		for _, p := range perms {
			set[strings.TrimSpace(p)] = true
		}
		groups[name] = set
	}
	def := strings.TrimSpace(f.DefaultGroup)
	if def == "" {
		def = "default"
	}
	if _, ok := groups[def]; !ok {
		groups[def] = permissions.Set{}
	}
	users := map[string]string{}
	for _, u := range f.Users {
		name := strings.TrimSpace(u.Name)
		if name == "" {
			return fmt.Errorf("directory: empty user name")
		}
		if _, dup := users[name]; dup {
			return fmt.Errorf("directory: duplicate user %q", name)
		}
		g := strings.TrimSpace(u.Group)
		if g == "" {
			g = def
		}
		if _, ok := groups[g]; !ok {
			return fmt.Errorf("directory: user %q references unknown group %q", name, g)
		}
		users[name] = g
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, account := range d.online {
		if _, ok := users[account]; !ok {
			users[account] = def
		}
	}
	d.defaultGroup = def
	d.groups = groups
	d.users = users
	return nil
}

// Login binds player to account, registering unknown accounts in the default group.
func (d *Directory) Login(player, account string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[account]; !ok {
		d.users[account] = d.defaultGroup
	}
	d.online[player] = account
}

func (d *Directory) Logout(player string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.online, player)
}

func (d *Directory) Account(player string) (Account, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.online[player]
	if !ok {
		return Account{}, false
	}
	return Account{Name: name, Group: d.users[name], LoggedIn: true}, true
}

// UserByName looks up an account whether or not it is online.
func (d *Directory) UserByName(name string) (Account, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	g, ok := d.users[name]
	if !ok {
		return Account{}, false
	}
	return Account{Name: name, Group: g}, true
}

func (d *Directory) GroupExists(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.groups[name]
	return ok
}

func (d *Directory) HasCapability(group, perm string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.groups[group].Has(perm)
}
