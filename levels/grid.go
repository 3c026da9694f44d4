package levels

import (
	"fmt"

	"github.com/milk9111/akdata/common"
)

// JSONRow converts a game row (0 = bottom) to a storage row (0 = first
// array element, top). The flip is its own inverse.
func JSONRow(gameRow, rows int) int { return (rows - 1) - gameRow }

// GameRow converts a storage row back to a game row.
func GameRow(jsonRow, rows int) int { return (rows - 1) - jsonRow }

func (l *Level) InGrid(gameRow, col int) bool {
	return gameRow >= 0 && gameRow < l.Rows && col >= 0 && col < l.Cols
}

// TileIndex returns the row-major storage index of a game coordinate.
func (l *Level) TileIndex(gameRow, col int) (int, bool) {
	if !l.InGrid(gameRow, col) {
		return -1, false
	}
	return JSONRow(gameRow, l.Rows)*l.Cols + col, true
}

func (l *Level) TileAt(gameRow, col int) (Tile, bool) {
	idx, ok := l.TileIndex(gameRow, col)
	if !ok || idx >= len(l.MapData.Tiles) {
		return Tile{}, false
	}
	return l.MapData.Tiles[idx], true
}

// PaintTile replaces the tile at a game coordinate with a fresh record of
// type t.
func (l *Level) PaintTile(gameRow, col int, t TileType) error {
	idx, ok := l.TileIndex(gameRow, col)
	if !ok {
		return fmt.Errorf("%w: row %d col %d", ErrOutOfGrid, gameRow, col)
	}
	l.MapData.Tiles[idx] = NewTile(t)
	l.touch()
	return nil
}

// Fill paints every tile.
func (l *Level) Fill(t TileType) {
	for i := range l.MapData.Tiles {
		l.MapData.Tiles[i] = NewTile(t)
	}
	l.touch()
}

func (l *Level) CountTiles(t TileType) int {
	n := 0
	for _, tile := range l.MapData.Tiles {
		if tt, ok := tile.Type(); ok && tt == t {
			n++
		}
	}
	return n
}

// ResizeResult describes a resize. Destructive is set when the dimensions
// change; Discarded counts the non-forbidden tiles lost with them.
type ResizeResult struct {
	Rows        int
	Cols        int
	Destructive bool
	Discarded   int
}

// PreviewResize reports what Resize would do without changing the level.
func (l *Level) PreviewResize(rows, cols int) ResizeResult {
	res := ResizeResult{
		Rows: common.Clamp(rows, MinGridSize, MaxGridSize),
		Cols: common.Clamp(cols, MinGridSize, MaxGridSize),
	}
	if res.Rows == l.Rows && res.Cols == l.Cols {
		return res
	}
	res.Destructive = true
	for _, tile := range l.MapData.Tiles {
		if tile.TileKey != TileForbidden.TileKey() {
			res.Discarded++
		}
	}
	return res
}

// Resize clamps both sizes to [1, 20] and, when they differ from the current
// ones, rebuilds the grid as forbidden tiles. Existing tile data is
// discarded; callers confirm with PreviewResize first.
func (l *Level) Resize(rows, cols int) ResizeResult {
	res := l.PreviewResize(rows, cols)
	if !res.Destructive {
		return res
	}
	l.rebuild(res.Rows, res.Cols)
	l.SyncToStorage()
	l.touch()
	return res
}

func (l *Level) rebuild(rows, cols int) {
	l.Rows = rows
	l.Cols = cols
	l.MapData.Tiles = make([]Tile, rows*cols)
	for i := range l.MapData.Tiles {
		l.MapData.Tiles[i] = NewTile(TileForbidden)
	}
}

// SyncFromStorage derives the grid from mapData. Rows and cols come from the
// map's outer and inner lengths; each cell takes the tile its map value
// indexes. Missing or out of range cells become forbidden.
func (l *Level) SyncFromStorage() {
	m := l.MapData.Map
	if len(m) == 0 || len(m[0]) == 0 {
		l.rebuild(DefaultRows, DefaultCols)
		return
	}
	rows, cols := len(m), len(m[0])
	src := l.MapData.Tiles
	cells := make([]Tile, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			tile := NewTile(TileForbidden)
			if c < len(m[r]) {
				if idx := m[r][c]; idx >= 0 && idx < len(src) {
					tile = src[idx]
					tile.normalize()
				}
			}
			cells[r*cols+c] = tile
		}
	}
	l.Rows = rows
	l.Cols = cols
	l.MapData.Tiles = cells
}

// SyncToStorage regenerates mapData.map as the row-major index matrix over
// the tile list.
func (l *Level) SyncToStorage() {
	m := make([][]int, l.Rows)
	for r := 0; r < l.Rows; r++ {
		row := make([]int, l.Cols)
		for c := 0; c < l.Cols; c++ {
			row[c] = r*l.Cols + c
		}
		m[r] = row
	}
	l.MapData.Map = m
}
