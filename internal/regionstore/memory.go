package regionstore

import (
	"context"
	"slices"
	"sync"

	"houseregions.ai/internal/housing/geometry"
)

type Memory struct {
	mu      sync.Mutex
	regions []*Region
}

var _ Store = (*Memory)(nil)

func NewMemory(regions ...Region) *Memory {
	m := &Memory{}
	for _, r := range regions {
		c := r.clone()
		m.regions = append(m.regions, &c)
	}
	return m
}

func (m *Memory) findLocked(name string) (int, *Region) {
	for i, r := range m.regions {
		if r.Name == name {
			return i, r
		}
	}
	return -1, nil
}

func (m *Memory) AddRegion(_ context.Context, r Region) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, existing := m.findLocked(r.Name); existing != nil {
		return ErrExists
	}
	c := r.clone()
	m.regions = append(m.regions, &c)
	return nil
}

func (m *Memory) DeleteRegion(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, r := m.findLocked(name)
	if r == nil {
		return ErrNotFound
	}
	m.regions = slices.Delete(m.regions, i, i+1)
	return nil
}

func (m *Memory) ResizeRegion(_ context.Context, name string, amount int, dir geometry.Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, r := m.findLocked(name)
	if r == nil {
		return ErrNotFound
	}
	r.Area = r.Area.Grow(dir, amount)
	return nil
}

func (m *Memory) RenameAndReown(_ context.Context, name, newName, newOwner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, r := m.findLocked(name)
	if r == nil {
		return ErrNotFound
	}
	if newName != name {
		if _, clash := m.findLocked(newName); clash != nil {
			return ErrExists
		}
	}
	r.Name = newName
	r.Owner = newOwner
	return nil
}

func (m *Memory) GetByName(_ context.Context, name string) (Region, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, r := m.findLocked(name)
	if r == nil {
		return Region{}, false, nil
	}
	return r.clone(), true, nil
}

func (m *Memory) ListAll(_ context.Context) ([]Region, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Region, 0, len(m.regions))
	for _, r := range m.regions {
		out = append(out, r.clone())
	}
	return out, nil
}

func (m *Memory) AddUser(_ context.Context, regionName, user string) error {
	return m.mutateList(regionName, func(r *Region) { r.AllowedUsers = addUnique(r.AllowedUsers, user) })
}

func (m *Memory) RemoveUser(_ context.Context, regionName, user string) error {
	return m.mutateList(regionName, func(r *Region) { r.AllowedUsers = remove(r.AllowedUsers, user) })
}

func (m *Memory) AllowGroup(_ context.Context, regionName, group string) error {
	return m.mutateList(regionName, func(r *Region) { r.AllowedGroups = addUnique(r.AllowedGroups, group) })
}

func (m *Memory) RemoveGroup(_ context.Context, regionName, group string) error {
	return m.mutateList(regionName, func(r *Region) { r.AllowedGroups = remove(r.AllowedGroups, group) })
}

func (m *Memory) mutateList(name string, fn func(*Region)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, r := m.findLocked(name)
	if r == nil {
		return ErrNotFound
	}
	fn(r)
	return nil
}

func addUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}

func remove(list []string, v string) []string {
	return slices.DeleteFunc(list, func(s string) bool { return s == v })
}
