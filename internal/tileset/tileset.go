package tileset

import (
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/tileweave/internal/rules"
	"github.com/samdwyer/tileweave/internal/wfc"
)

// TileType is a world tile a generated cell exports to.
type TileType struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Glyph    string `json:"glyph"`
	Color    string `json:"color"`
	Passable bool   `json:"passable"`
}

// GlyphRune returns the first rune of the glyph, or '?' when it is empty.
func (t TileType) GlyphRune() rune {
	r, _ := utf8.DecodeRuneInString(t.Glyph)
	if r == utf8.RuneError {
		return '?'
	}
	return r
}

// TCellColor returns the tile color, falling back to the terminal default.
func (t TileType) TCellColor() tcell.Color {
	c, err := ParseHexColor(t.Color)
	if err != nil {
		return tcell.ColorDefault
	}
	return c
}

// SeedDef names the rule tile collapsed before the first generation.
type SeedDef struct {
	X        int `json:"x"`
	Y        int `json:"y"`
	Label    int `json:"label"`
	Rotation int `json:"rotation"`
}

// SpawnDef is a rectangle of world tiles stamped over the generated map.
type SpawnDef struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Tile   uint64 `json:"tile"`
}

// Tileset bundles a rule file with the world tiles its cells export to.
type Tileset struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	RulesFile   string            `json:"rulesFile"`
	Seed        SeedDef           `json:"seed"`
	Spawn       *SpawnDef         `json:"spawn,omitempty"`
	Tiles       []TileType        `json:"tiles"`
	Export      []wfc.ExportEntry `json:"export"`
}

// Compile parses the embedded rule file and builds the export map.
func (ts *Tileset) Compile() (*rules.Table, wfc.ExportMap, error) {
	text, err := LoadRules(ts.RulesFile)
	if err != nil {
		return nil, nil, err
	}
	return ts.CompileText(text)
}

// CompileText compiles the tileset against the given rule text instead of its own.
// Every rule tile must export to a known world tile.
func (ts *Tileset) CompileText(text string) (*rules.Table, wfc.ExportMap, error) {
	table, err := rules.ParseRules(text)
	if err != nil {
		return nil, nil, fmt.Errorf("tileset %s: %w", ts.ID, err)
	}

	for _, e := range ts.Export {
		if _, ok := ts.TileType(e.Tile); !ok {
			return nil, nil, fmt.Errorf("tileset %s: label %d exports to unknown tile %d", ts.ID, e.Label, e.Tile)
		}
	}
	if ts.Spawn != nil {
		if _, ok := ts.TileType(ts.Spawn.Tile); !ok {
			return nil, nil, fmt.Errorf("tileset %s: spawn uses unknown tile %d", ts.ID, ts.Spawn.Tile)
		}
	}

	m := wfc.NewExportMap(table, ts.Export)
	for _, def := range table.Tiles() {
		if _, ok := m.Lookup(def.Mask()); !ok {
			return nil, nil, fmt.Errorf("tileset %s: rule tile %d (label %d, rotation %d) has no export",
				ts.ID, def.ID, def.Label, def.Rotation)
		}
	}

	if _, err := ts.SeedID(table); err != nil {
		return nil, nil, err
	}
	return table, m, nil
}

// SeedID resolves the seed label and rotation to a tile id in table.
func (ts *Tileset) SeedID(table *rules.Table) (int, error) {
	for _, id := range table.IDsForLabel(ts.Seed.Label) {
		def, _ := table.Tile(id)
		if def.Rotation == ts.Seed.Rotation {
			return id, nil
		}
	}
	return 0, fmt.Errorf("tileset %s: no seed tile with label %d rotation %d", ts.ID, ts.Seed.Label, ts.Seed.Rotation)
}

// TileType returns the world tile with the given id.
func (ts *Tileset) TileType(id uint64) (TileType, bool) {
	for _, t := range ts.Tiles {
		if t.ID == id {
			return t, true
		}
	}
	return TileType{}, false
}

// Blocked returns the first impassable tile type, used for cells outside the map.
func (ts *Tileset) Blocked() TileType {
	for _, t := range ts.Tiles {
		if !t.Passable {
			return t
		}
	}
	return TileType{Glyph: " "}
}
