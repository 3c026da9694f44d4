// Package levels is the level model: tile grid, routes, waves and the level
// files that hold them.
package levels

import (
	"encoding/json"
	"errors"

	"github.com/milk9111/akdata/common"
	"github.com/milk9111/akdata/migrate"
)

var (
	ErrOutOfGrid  = errors.New("position outside grid")
	ErrIndex      = errors.New("index out of range")
	ErrNoRoutes   = errors.New("level has no routes")
	ErrNoWaves    = errors.New("level has no waves")
	ErrBadID      = errors.New("invalid level id")
	ErrUnreadable = errors.New("level file could not be read")
)

const (
	DefaultRows = 6
	DefaultCols = 9
	MinGridSize = 1
	MaxGridSize = 20
)

type Options struct {
	CharacterLimit              int             `json:"characterLimit"`
	MaxLifePoint                int             `json:"maxLifePoint"`
	InitialCost                 int             `json:"initialCost"`
	MaxCost                     int             `json:"maxCost"`
	CostIncreaseTime            float64         `json:"costIncreaseTime"`
	MoveMultiplier              float64         `json:"moveMultiplier"`
	SteeringEnabled             bool            `json:"steeringEnabled"`
	IsTrainingLevel             bool            `json:"isTrainingLevel"`
	IsHardTrainingLevel         bool            `json:"isHardTrainingLevel"`
	IsPredefinedCardsSelectable bool            `json:"isPredefinedCardsSelectable"`
	DisplayRestTime             bool            `json:"displayRestTime"`
	MaxPlayTime                 float64         `json:"maxPlayTime"`
	FunctionDisableMask         int64           `json:"functionDisableMask"`
	ConfigBlackBoard            json.RawMessage `json:"configBlackBoard"`
	EnemyTauntLevelPow          int             `json:"enemyTauntLevelPow"`

	Extra common.Extra `json:"-"`
}

type MapData struct {
	Map        [][]int         `json:"map"`
	Tiles      []Tile          `json:"tiles"`
	BlockEdges json.RawMessage `json:"blockEdges"`
	Tags       json.RawMessage `json:"tags"`
	Effects    json.RawMessage `json:"effects"`
	LayerRects json.RawMessage `json:"layerRects"`

	Extra common.Extra `json:"-"`
}

type EditorMetadata struct {
	GridCompleted  bool `json:"gridCompleted"`
	RouteCompleted bool `json:"routeCompleted"`
	WaveCompleted  bool `json:"waveCompleted"`
}

// Level mirrors one level_main_<id>.json file. Field order is the on-disk
// key order. Sections this editor does not author are kept as raw JSON.
type Level struct {
	Version               migrate.Version `json:"version"`
	Options               Options         `json:"options"`
	LevelID               json.RawMessage `json:"levelId"`
	MapID                 json.RawMessage `json:"mapId"`
	BgmEvent              string          `json:"bgmEvent"`
	EnvironmentSe         json.RawMessage `json:"environmentSe"`
	MapData               MapData         `json:"mapData"`
	TilesDisallowToLocate json.RawMessage `json:"tilesDisallowToLocate"`
	Runes                 json.RawMessage `json:"runes"`
	GlobalBuffs           json.RawMessage `json:"globalBuffs"`
	Routes                []Route         `json:"routes"`
	Enemies               json.RawMessage `json:"enemies"`
	EnemyDbRefs           json.RawMessage `json:"enemyDbRefs"`
	Waves                 []Wave          `json:"waves"`
	Branches              json.RawMessage `json:"branches"`
	Predefines            json.RawMessage `json:"predefines"`
	HardPredefines        json.RawMessage `json:"hardPredefines"`
	ExcludeCharIDList     json.RawMessage `json:"excludeCharIdList"`
	RandomSeed            int64           `json:"randomSeed"`
	OperaConfig           json.RawMessage `json:"operaConfig"`
	EditorMetadata        EditorMetadata  `json:"editorMetadata"`

	ID       string `json:"-"`
	Rows     int    `json:"-"`
	Cols     int    `json:"-"`
	Modified bool   `json:"-"`
	Migrated bool   `json:"-"`
	// Unreadable marks a placeholder for a file whose content did not
	// decode. Saving it would overwrite that file.
	Unreadable bool `json:"-"`
	// From is the data version of the file before the last load.
	From migrate.Version `json:"-"`

	// Extra holds top-level keys this editor does not know.
	Extra common.Extra `json:"-"`
}

const emptyPredefines = `{"characterInsts":[],"tokenInsts":[],"characterCards":[],"tokenCards":[]}`

// NewLevel returns an empty level: a 6x9 grid of forbidden tiles and the
// default options.
func NewLevel(id string) *Level {
	l := &Level{
		Version: migrate.CurrentVersion,
		Options: Options{
			CharacterLimit:   8,
			MaxLifePoint:     3,
			InitialCost:      10,
			MaxCost:          99,
			CostIncreaseTime: common.Snap1(1.0),
			MoveMultiplier:   0.5,
			SteeringEnabled:  true,
			MaxPlayTime:      -1.0,
			ConfigBlackBoard: json.RawMessage("[]"),
		},
		BgmEvent: "",
		ID:       id,
		Modified: true,
	}
	l.fillRawDefaults()
	l.rebuild(DefaultRows, DefaultCols)
	l.SyncToStorage()
	return l
}

func rawOr(v json.RawMessage, def string) json.RawMessage {
	if len(v) == 0 {
		return json.RawMessage(def)
	}
	return v
}

// fillRawDefaults gives every raw section its empty shape so a file missing
// a key still saves a complete document.
func (l *Level) fillRawDefaults() {
	l.Options.ConfigBlackBoard = rawOr(l.Options.ConfigBlackBoard, "[]")
	l.LevelID = rawOr(l.LevelID, "null")
	l.MapID = rawOr(l.MapID, "null")
	l.EnvironmentSe = rawOr(l.EnvironmentSe, "null")
	l.MapData.BlockEdges = rawOr(l.MapData.BlockEdges, "[]")
	l.MapData.Tags = rawOr(l.MapData.Tags, "[]")
	l.MapData.Effects = rawOr(l.MapData.Effects, "[]")
	l.MapData.LayerRects = rawOr(l.MapData.LayerRects, "[]")
	l.TilesDisallowToLocate = rawOr(l.TilesDisallowToLocate, "[]")
	l.Runes = rawOr(l.Runes, "[]")
	l.GlobalBuffs = rawOr(l.GlobalBuffs, "[]")
	l.Enemies = rawOr(l.Enemies, "[]")
	l.EnemyDbRefs = rawOr(l.EnemyDbRefs, "[]")
	l.Branches = rawOr(l.Branches, "{}")
	l.Predefines = rawOr(l.Predefines, emptyPredefines)
	l.HardPredefines = rawOr(l.HardPredefines, "null")
	l.ExcludeCharIDList = rawOr(l.ExcludeCharIDList, "[]")
	l.OperaConfig = rawOr(l.OperaConfig, "null")
	if l.Routes == nil {
		l.Routes = []Route{}
	}
	if l.Waves == nil {
		l.Waves = []Wave{}
	}
	for i := range l.Routes {
		l.Routes[i].normalize()
	}
	for i := range l.Waves {
		l.Waves[i].normalize()
	}
}

// Decode reads a level document. Options missing from raw keep their
// defaults.
func Decode(id string, raw []byte) (*Level, error) {
	l := NewLevel(id)
	l.MapData.Map = nil
	l.MapData.Tiles = nil
	if err := json.Unmarshal(raw, l); err != nil {
		return nil, err
	}
	l.ID = id
	l.fillRawDefaults()
	l.SyncFromStorage()
	l.Modified = false
	return l, nil
}

// Encode produces the document written to disk. It regenerates the map
// matrix and snaps authored floats first. A level from a newer data version
// keeps that version.
func (l *Level) Encode() ([]byte, error) {
	l.SyncToStorage()
	if l.Version.Compare(migrate.CurrentVersion) < 0 {
		l.Version = migrate.CurrentVersion
	}
	l.Options.CostIncreaseTime = common.Snap1(l.Options.CostIncreaseTime)
	l.fillRawDefaults()
	return json.Marshal(l)
}

func (l *Level) touch() { l.Modified = true }

// SetOptions replaces the option block and snaps its floats.
func (l *Level) SetOptions(o Options) {
	o.CostIncreaseTime = common.Snap1(o.CostIncreaseTime)
	o.MoveMultiplier = common.Snap2(o.MoveMultiplier)
	o.MaxPlayTime = common.Snap1(o.MaxPlayTime)
	o.ConfigBlackBoard = rawOr(o.ConfigBlackBoard, "[]")
	l.Options = o
	l.touch()
}

func (o *Options) UnmarshalJSON(data []byte) error {
	type plain Options
	extra, err := common.UnmarshalKeep(data, (*plain)(o))
	o.Extra = extra
	return err
}

func (o Options) MarshalJSON() ([]byte, error) {
	type plain Options
	return common.MarshalKeep(plain(o), o.Extra)
}

func (m *MapData) UnmarshalJSON(data []byte) error {
	type plain MapData
	extra, err := common.UnmarshalKeep(data, (*plain)(m))
	m.Extra = extra
	return err
}

func (m MapData) MarshalJSON() ([]byte, error) {
	type plain MapData
	return common.MarshalKeep(plain(m), m.Extra)
}

func (l *Level) UnmarshalJSON(data []byte) error {
	type plain Level
	extra, err := common.UnmarshalKeep(data, (*plain)(l))
	l.Extra = extra
	return err
}

func (l Level) MarshalJSON() ([]byte, error) {
	type plain Level
	return common.MarshalKeep(plain(l), l.Extra)
}
