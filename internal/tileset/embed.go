// Package tileset provides the embedded tilesets: rule text, export tables and the
// world tile types a generated map is drawn with.
package tileset

import "embed"

// dataFS embeds every tileset definition and its rule text at build time.
//
//go:embed *.json *.rules
var dataFS embed.FS
