package rules

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// Parser accumulates tile definitions from rule text.
//
// Grammar, one statement per line:
//
//	<id> -> <top> <right> <bottom> <left>   define a tile
//	R <id>                                  add the three quarter turns of <id>
//	# comment                               ignored, as are blank lines
type Parser struct {
	tiles []TileDefinition
}

// NewParser creates an empty parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseRules parses the rule text and exports its adjacency table.
func ParseRules(ruleset string) (*Table, error) {
	p := NewParser()
	if err := p.Parse(ruleset); err != nil {
		return nil, err
	}
	return p.Export()
}

// Parse processes every line of ruleset in order. The first malformed line aborts
// parsing and drops every tile this call added, so the parser holds what it held before.
func (p *Parser) Parse(ruleset string) error {
	n := len(p.tiles)
	for i, line := range strings.Split(ruleset, "\n") {
		if err := p.parseLine(line); err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Line = i + 1
			}
			p.tiles = p.tiles[:n]
			return err
		}
	}
	return nil
}

func (p *Parser) parseLine(line string) error {
	line = strings.TrimSpace(stripComment(line))
	if line == "" {
		return nil
	}

	fields := strings.Fields(line)
	if fields[0] == "R" {
		if len(fields) != 2 {
			return &ParseError{Text: line, Reason: fmt.Sprintf("rotation takes 1 argument, got %d", len(fields)-1)}
		}
		label, err := strconv.Atoi(fields[1])
		if err != nil {
			return &ParseError{Text: line, Reason: "rotation target is not an integer id"}
		}
		return p.RotateTile(label)
	}
	return p.ParseTile(line)
}

// stripComment drops everything from the first '#'.
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

// ParseTile parses a single "<id> -> <top> <right> <bottom> <left>" definition.
func (p *Parser) ParseTile(line string) error {
	fields := strings.Fields(line)
	if len(fields) != 6 {
		return &ParseError{Text: line, Reason: fmt.Sprintf("tile definition needs 6 tokens, got %d", len(fields))}
	}
	if fields[1] != "->" {
		return &ParseError{Text: line, Reason: fmt.Sprintf("expected \"->\" after id, got %q", fields[1])}
	}
	label, err := strconv.Atoi(fields[0])
	if err != nil {
		return &ParseError{Text: line, Reason: fmt.Sprintf("unknown command or non-integer id %q", fields[0])}
	}

	tile := TileDefinition{Label: label}
	copy(tile.Edges[:], fields[2:6])
	p.tiles = append(p.tiles, tile)
	return nil
}

// RotateTile appends the 90, 180 and 270 degree clockwise rotations of the most recently
// defined tile with the given label. The new tiles get their ids from Export.
func (p *Parser) RotateTile(label int) error {
	base := -1
	for i := len(p.tiles) - 1; i >= 0; i-- {
		if p.tiles[i].Label == label && p.tiles[i].Rotation == 0 {
			base = i
			break
		}
	}
	if base < 0 {
		return &ParseError{Text: "R " + strconv.Itoa(label), Reason: "rotation of undefined tile"}
	}

	tile := p.tiles[base]
	for k := 1; k <= 3; k++ {
		p.tiles = append(p.tiles, tile.Rotated(k))
	}
	return nil
}

// Len returns the number of tiles parsed so far, rotations included.
func (p *Parser) Len() int {
	return len(p.tiles)
}

// Export assigns every tile a sequential id starting at 1 and builds the adjacency table.
// It fails before building anything when the ids would not fit a 64-bit mask.
func (p *Parser) Export() (*Table, error) {
	if len(p.tiles) > MaxTiles {
		return nil, &CapacityError{Tiles: len(p.tiles)}
	}

	tiles := make([]TileDefinition, len(p.tiles))
	for i := range p.tiles {
		p.tiles[i].ID = i + 1
		tiles[i] = p.tiles[i]
	}
	return newTable(tiles), nil
}

// Lint returns a warning for every edge signature that no tile can meet on the opposite
// side. Such an edge can never have a neighbour and usually means a typo.
func (p *Parser) Lint() []string {
	provided := [4]mapset.Set[string]{}
	for _, s := range Sides {
		provided[s] = mapset.New[string]()
	}
	for _, t := range p.tiles {
		for _, s := range Sides {
			provided[s].Put(reverse(t.Edges[s]))
		}
	}

	reported := mapset.New[string]()
	var warnings []string
	for _, t := range p.tiles {
		for _, s := range Sides {
			edge := t.Edges[s]
			key := s.String() + ":" + edge
			if provided[s.Opposite()].Has(edge) || reported.Has(key) {
				continue
			}
			reported.Put(key)
			warnings = append(warnings, fmt.Sprintf("tile %d: %s edge %q has no matching %s edge",
				t.Label, s, edge, s.Opposite()))
		}
	}
	sort.Strings(warnings)
	return warnings
}
