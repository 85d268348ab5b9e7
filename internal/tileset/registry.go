package tileset

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
)

// Registry holds every embedded tileset.
type Registry struct {
	tilesets map[string]*Tileset
	all      []Tileset
}

// NewRegistry creates a registry from loaded tilesets.
func NewRegistry(tilesets []Tileset) *Registry {
	registry := &Registry{
		tilesets: make(map[string]*Tileset),
		all:      tilesets,
	}
	for i := range tilesets {
		registry.tilesets[tilesets[i].ID] = &tilesets[i]
	}
	return registry
}

// LoadRegistry loads every embedded *.json tileset, sorted by id.
func LoadRegistry() (*Registry, error) {
	files, err := fs.Glob(dataFS, "*.json")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no tilesets embedded")
	}

	tilesets := make([]Tileset, 0, len(files))
	for _, f := range files {
		ts, err := Load[Tileset](f)
		if err != nil {
			return nil, err
		}
		if ts.ID == "" {
			return nil, fmt.Errorf("tileset %s has no id", f)
		}
		tilesets = append(tilesets, ts)
	}
	sort.Slice(tilesets, func(i, j int) bool { return tilesets[i].ID < tilesets[j].ID })

	return NewRegistry(tilesets), nil
}

// MustLoadRegistry loads a registry, panicking on error.
func MustLoadRegistry() *Registry {
	registry, err := LoadRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the tileset with the given id, or nil if not found.
func (r *Registry) GetByID(id string) *Tileset {
	return r.tilesets[id]
}

// All returns all tilesets.
func (r *Registry) All() []Tileset {
	return r.all
}

// Count returns the number of tilesets in the registry.
func (r *Registry) Count() int {
	return len(r.all)
}
