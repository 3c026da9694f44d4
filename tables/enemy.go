package tables

import (
	"encoding/json"
	"math"

	"github.com/milk9111/akdata/common"
)

type EnemyType string

const (
	EnemyGround EnemyType = "GROUND"
	EnemyFlying EnemyType = "FLYING"
)

var EnemyTypes = []EnemyType{EnemyGround, EnemyFlying}

// Field is the {m_defined, m_value} wrapper the game uses for overridable
// enemy values.
type Field[T any] struct {
	Defined bool `json:"m_defined"`
	Value   T    `json:"m_value"`
}

func Def[T any](v T) Field[T] { return Field[T]{Defined: true, Value: v} }

type EnemyAttributes struct {
	MaxHP           Field[int]     `json:"maxHp"`
	Atk             Field[int]     `json:"atk"`
	Def             Field[int]     `json:"def"`
	MagicResistance Field[float64] `json:"magicResistance"`
	MoveSpeed       Field[float64] `json:"moveSpeed"`
	BaseAttackTime  Field[float64] `json:"baseAttackTime"`

	Extra common.Extra `json:"-"`
}

type EnemyData struct {
	Name        Field[string]     `json:"name"`
	Type        Field[EnemyType]  `json:"type"`
	Attributes  EnemyAttributes   `json:"attributes"`
	RangeRadius Field[float64]    `json:"rangeRadius"`
	Skills      []json.RawMessage `json:"skills"`

	Extra common.Extra `json:"-"`
}

type EnemyLevel struct {
	Level     int       `json:"level"`
	EnemyData EnemyData `json:"enemyData"`

	Extra common.Extra `json:"-"`
}

type Enemy struct {
	Key   string       `json:"key"`
	Value []EnemyLevel `json:"value"`

	Extra common.Extra `json:"-"`
}

// EnemyInput is the flat form the editor works with. MagicResistPct is a
// whole percentage; the table stores a 0..1 fraction.
type EnemyInput struct {
	Key            string
	Name           string
	Type           EnemyType
	MaxHP          int
	Atk            int
	Def            int
	MagicResistPct int
	RangeRadius    float64
	MoveSpeed      float64
	BaseAttackTime float64
}

func DefaultEnemyInput() EnemyInput {
	return EnemyInput{
		Type:           EnemyGround,
		MaxHP:          100,
		Atk:            50,
		RangeRadius:    -1.0,
		MoveSpeed:      1.0,
		BaseAttackTime: 1.5,
	}
}

func NewEnemy(in EnemyInput) Enemy {
	e := Enemy{Key: in.Key, Value: []EnemyLevel{{Level: 0}}}
	e.Apply(in)
	return e
}

// Apply writes the editable fields into level 0. The key is not changed.
func (e *Enemy) Apply(in EnemyInput) {
	if len(e.Value) == 0 {
		e.Value = []EnemyLevel{{Level: 0}}
	}
	d := &e.Value[0].EnemyData
	typ := in.Type
	if typ != EnemyFlying {
		typ = EnemyGround
	}
	d.Name = Def(in.Name)
	d.Type = Def(typ)
	a := &d.Attributes
	a.MaxHP = Def(in.MaxHP)
	a.Atk = Def(in.Atk)
	a.Def = Def(in.Def)
	a.MagicResistance = Def(common.Snap2(float64(in.MagicResistPct) / 100.0))
	a.MoveSpeed = Def(common.Snap1(in.MoveSpeed))
	a.BaseAttackTime = Def(common.Snap2(in.BaseAttackTime))
	d.RangeRadius = Def(common.Snap1(in.RangeRadius))
	if d.Skills == nil {
		d.Skills = []json.RawMessage{}
	}
}

func (e Enemy) Input() EnemyInput {
	in := EnemyInput{Key: e.Key}
	if len(e.Value) == 0 {
		return in
	}
	d := e.Value[0].EnemyData
	in.Name = d.Name.Value
	in.Type = d.Type.Value
	in.MaxHP = d.Attributes.MaxHP.Value
	in.Atk = d.Attributes.Atk.Value
	in.Def = d.Attributes.Def.Value
	in.MagicResistPct = int(math.Round(d.Attributes.MagicResistance.Value * 100))
	in.RangeRadius = d.RangeRadius.Value
	in.MoveSpeed = d.Attributes.MoveSpeed.Value
	in.BaseAttackTime = d.Attributes.BaseAttackTime.Value
	return in
}

func (e Enemy) Name() string {
	if len(e.Value) == 0 {
		return ""
	}
	return e.Value[0].EnemyData.Name.Value
}

func (e *Enemy) normalize() {
	if e.Value == nil {
		e.Value = []EnemyLevel{}
	}
	for i := range e.Value {
		if e.Value[i].EnemyData.Skills == nil {
			e.Value[i].EnemyData.Skills = []json.RawMessage{}
		}
	}
}

func EnemyKey(e Enemy) string  { return e.Key }
func EnemyName(e Enemy) string { return e.Name() }
func CloneEnemy(e Enemy) Enemy { return cloneJSON(e) }

func (e *Enemy) UnmarshalJSON(data []byte) error {
	type plain Enemy
	extra, err := common.UnmarshalKeep(data, (*plain)(e))
	e.Extra = extra
	return err
}

func (e Enemy) MarshalJSON() ([]byte, error) {
	type plain Enemy
	return common.MarshalKeep(plain(e), e.Extra)
}

func (l *EnemyLevel) UnmarshalJSON(data []byte) error {
	type plain EnemyLevel
	extra, err := common.UnmarshalKeep(data, (*plain)(l))
	l.Extra = extra
	return err
}

func (l EnemyLevel) MarshalJSON() ([]byte, error) {
	type plain EnemyLevel
	return common.MarshalKeep(plain(l), l.Extra)
}

func (d *EnemyData) UnmarshalJSON(data []byte) error {
	type plain EnemyData
	extra, err := common.UnmarshalKeep(data, (*plain)(d))
	d.Extra = extra
	return err
}

func (d EnemyData) MarshalJSON() ([]byte, error) {
	type plain EnemyData
	return common.MarshalKeep(plain(d), d.Extra)
}

func (a *EnemyAttributes) UnmarshalJSON(data []byte) error {
	type plain EnemyAttributes
	extra, err := common.UnmarshalKeep(data, (*plain)(a))
	a.Extra = extra
	return err
}

func (a EnemyAttributes) MarshalJSON() ([]byte, error) {
	type plain EnemyAttributes
	return common.MarshalKeep(plain(a), a.Extra)
}
