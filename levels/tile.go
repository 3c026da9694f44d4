package levels

import (
	"encoding/json"
	"image/color"

	"github.com/milk9111/akdata/common"
)

type TileType int

const (
	TileForbidden TileType = iota
	TileRoad
	TileWall
	TileStart
	TileEnd
	TileHighGround
	TileHole
	tileTypeCount
)

// TileTypes lists every brush in palette order.
var TileTypes = []TileType{TileForbidden, TileRoad, TileWall, TileStart, TileEnd, TileHighGround, TileHole}

type tileSpec struct {
	name          string
	key           string
	color         color.RGBA
	heightType    int
	buildableType int
	passableMask  int
}

// tileSpecs is the only table describing tile types. A new type needs a row
// here and a constant above.
var tileSpecs = [tileTypeCount]tileSpec{
	TileForbidden:  {"Forbidden", "tile_forbidden", color.RGBA{40, 40, 40, 255}, 0, 0, 2},
	TileRoad:       {"Road", "tile_road", color.RGBA{180, 140, 100, 255}, 0, 1, 3},
	TileWall:       {"Wall", "tile_wall", color.RGBA{100, 100, 100, 255}, 0, 2, 2},
	TileStart:      {"Start", "tile_start", color.RGBA{0, 255, 0, 255}, 0, 0, 3},
	TileEnd:        {"End", "tile_end", color.RGBA{255, 0, 0, 255}, 0, 0, 3},
	TileHighGround: {"HighGround", "tile_highground", color.RGBA{150, 180, 150, 255}, 1, 1, 2},
	TileHole:       {"Hole", "tile_hole", color.RGBA{20, 20, 60, 255}, 0, 0, 2},
}

func (t TileType) spec() tileSpec {
	if t < 0 || t >= tileTypeCount {
		return tileSpecs[TileForbidden]
	}
	return tileSpecs[t]
}

func (t TileType) String() string {
	if t < 0 || t >= tileTypeCount {
		return "Unknown"
	}
	return tileSpecs[t].name
}

func (t TileType) TileKey() string    { return t.spec().key }
func (t TileType) Color() color.RGBA  { return t.spec().color }
func (t TileType) HeightType() int    { return t.spec().heightType }
func (t TileType) BuildableType() int { return t.spec().buildableType }
func (t TileType) PassableMask() int  { return t.spec().passableMask }
func (t TileType) Valid() bool        { return t >= 0 && t < tileTypeCount }

// ParseTileKey maps a stored tileKey back to its type.
func ParseTileKey(key string) (TileType, bool) {
	for i, s := range tileSpecs {
		if s.key == key {
			return TileType(i), true
		}
	}
	return TileForbidden, false
}

// UnknownTileColor is drawn for tile keys this editor does not know.
var UnknownTileColor = color.RGBA{255, 0, 255, 255}

type Tile struct {
	TileKey        string          `json:"tileKey"`
	HeightType     int             `json:"heightType"`
	BuildableType  int             `json:"buildableType"`
	PassableMask   int             `json:"passableMask"`
	PlayerSideMask int             `json:"playerSideMask"`
	Blackboard     json.RawMessage `json:"blackboard"`
	Effects        json.RawMessage `json:"effects"`

	Extra common.Extra `json:"-"`
}

// NewTile builds a fresh record for t. Painting always replaces the whole
// record with one of these.
func NewTile(t TileType) Tile {
	s := t.spec()
	return Tile{
		TileKey:       s.key,
		HeightType:    s.heightType,
		BuildableType: s.buildableType,
		PassableMask:  s.passableMask,
		Blackboard:    json.RawMessage("[]"),
		Effects:       json.RawMessage("[]"),
	}
}

func (t Tile) Type() (TileType, bool) {
	return ParseTileKey(t.TileKey)
}

func (t Tile) Color() color.RGBA {
	if tt, ok := t.Type(); ok {
		return tt.Color()
	}
	return UnknownTileColor
}

func (t *Tile) normalize() {
	if len(t.Blackboard) == 0 || string(t.Blackboard) == "null" {
		t.Blackboard = json.RawMessage("[]")
	}
	if len(t.Effects) == 0 || string(t.Effects) == "null" {
		t.Effects = json.RawMessage("[]")
	}
}

func (t *Tile) UnmarshalJSON(data []byte) error {
	type plain Tile
	extra, err := common.UnmarshalKeep(data, (*plain)(t))
	t.Extra = extra
	return err
}

func (t Tile) MarshalJSON() ([]byte, error) {
	type plain Tile
	return common.MarshalKeep(plain(t), t.Extra)
}
