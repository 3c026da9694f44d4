package tables

import (
	"math"

	"github.com/milk9111/akdata/common"
	"github.com/milk9111/akdata/rangegrid"
)

type Profession string

const (
	Caster     Profession = "CASTER"
	Sniper     Profession = "SNIPER"
	Guard      Profession = "GUARD"
	Defender   Profession = "DEFENDER"
	Medic      Profession = "MEDIC"
	Vanguard   Profession = "VANGUARD"
	Supporter  Profession = "SUPPORTER"
	Specialist Profession = "SPECIALIST"
)

var Professions = []Profession{Caster, Sniper, Guard, Defender, Medic, Vanguard, Supporter, Specialist}

type Position string

const (
	Ranged Position = "RANGED"
	Melee  Position = "MELEE"
)

// ParseProfession falls back to Caster for unknown names.
func ParseProfession(s string) Profession {
	for _, p := range Professions {
		if string(p) == s {
			return p
		}
	}
	return Caster
}

// PositionFor derives the deploy position from the profession.
func PositionFor(p Profession) Position {
	switch p {
	case Guard, Defender, Vanguard, Specialist:
		return Melee
	default:
		return Ranged
	}
}

const (
	MinRarity = 3
	MaxRarity = 6
)

type OperatorStats struct {
	MaxHP           int     `json:"maxHp"`
	Atk             int     `json:"atk"`
	Def             int     `json:"def"`
	MagicResistance float64 `json:"magicResistance"`
	Cost            int     `json:"cost"`
	BlockCnt        int     `json:"blockCnt"`
	BaseAttackTime  float64 `json:"baseAttackTime"`
	RespawnTime     int     `json:"respawnTime"`

	Extra common.Extra `json:"-"`
}

type KeyFrame struct {
	Level int           `json:"level"`
	Data  OperatorStats `json:"data"`

	Extra common.Extra `json:"-"`
}

type Phase struct {
	Phase               int        `json:"phase"`
	AttributesKeyFrames []KeyFrame `json:"attributesKeyFrames"`

	Extra common.Extra `json:"-"`
}

type Blackboard struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`

	Extra common.Extra `json:"-"`
}

// OperatorSkill is the inline skill summary carried by an operator.
type OperatorSkill struct {
	SkillID     string       `json:"skillId"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	SkillType   SkillType    `json:"skillType"`
	SPData      SPData       `json:"spData"`
	Duration    float64      `json:"duration"`
	Effects     []Blackboard `json:"effects"`

	Extra common.Extra `json:"-"`
}

type Operator struct {
	CharID      string             `json:"charId"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Profession  Profession         `json:"profession"`
	Rarity      int                `json:"rarity"`
	Position    Position           `json:"position"`
	Range       []rangegrid.Offset `json:"range"`
	Phases      []Phase            `json:"phases"`
	Skills      []OperatorSkill    `json:"skills"`

	Extra common.Extra `json:"-"`
}

type OperatorInput struct {
	CharID         string
	Name           string
	Description    string
	Profession     Profession
	Rarity         int
	MaxHP          int
	Atk            int
	Def            int
	MagicResistPct int
	Cost           int
	BlockCnt       int
	BaseAttackTime float64
	RespawnTime    int
	Range          rangegrid.Grid
}

func DefaultOperatorInput() OperatorInput {
	return OperatorInput{
		Profession:     Caster,
		Rarity:         MinRarity,
		MaxHP:          1000,
		Atk:            300,
		Def:            50,
		Cost:           10,
		BlockCnt:       1,
		BaseAttackTime: 1.5,
		RespawnTime:    70,
		Range:          rangegrid.New(rangegrid.OperatorRadius),
	}
}

func NewOperator(in OperatorInput) Operator {
	op := Operator{CharID: in.CharID, Skills: []OperatorSkill{}}
	op.Apply(in)
	return op
}

// Apply writes the editable fields into the record. Position always follows
// the profession. The char id is not changed.
func (o *Operator) Apply(in OperatorInput) {
	prof := ParseProfession(string(in.Profession))
	o.Name = in.Name
	o.Description = in.Description
	o.Profession = prof
	o.Position = PositionFor(prof)
	o.Rarity = common.Clamp(in.Rarity, MinRarity, MaxRarity)
	if in.Range.Cells != nil {
		o.Range = rangegrid.ToSparse(in.Range)
	}
	if o.Range == nil {
		o.Range = []rangegrid.Offset{}
	}

	stats := OperatorStats{
		MaxHP:           in.MaxHP,
		Atk:             in.Atk,
		Def:             in.Def,
		MagicResistance: common.Snap2(float64(in.MagicResistPct) / 100.0),
		Cost:            in.Cost,
		BlockCnt:        in.BlockCnt,
		BaseAttackTime:  common.Snap2(in.BaseAttackTime),
		RespawnTime:     in.RespawnTime,
	}
	if len(o.Phases) == 0 {
		o.Phases = []Phase{{Phase: 0}}
	}
	if len(o.Phases[0].AttributesKeyFrames) == 0 {
		o.Phases[0].AttributesKeyFrames = []KeyFrame{{Level: 0}}
	}
	stats.Extra = o.Phases[0].AttributesKeyFrames[0].Data.Extra
	o.Phases[0].AttributesKeyFrames[0].Data = stats
	if o.Skills == nil {
		o.Skills = []OperatorSkill{}
	}
}

// BaseStats returns phase 0, level 0 attributes.
func (o Operator) BaseStats() OperatorStats {
	if len(o.Phases) == 0 || len(o.Phases[0].AttributesKeyFrames) == 0 {
		return OperatorStats{}
	}
	return o.Phases[0].AttributesKeyFrames[0].Data
}

func (o Operator) Input() OperatorInput {
	s := o.BaseStats()
	return OperatorInput{
		CharID:         o.CharID,
		Name:           o.Name,
		Description:    o.Description,
		Profession:     o.Profession,
		Rarity:         o.Rarity,
		MaxHP:          s.MaxHP,
		Atk:            s.Atk,
		Def:            s.Def,
		MagicResistPct: int(math.Round(s.MagicResistance * 100)),
		Cost:           s.Cost,
		BlockCnt:       s.BlockCnt,
		BaseAttackTime: s.BaseAttackTime,
		RespawnTime:    s.RespawnTime,
		Range:          rangegrid.FromSparse(o.Range, rangegrid.OperatorRadius),
	}
}

func (o *Operator) normalize() {
	if o.Range == nil {
		o.Range = []rangegrid.Offset{}
	}
	if o.Phases == nil {
		o.Phases = []Phase{}
	}
	if o.Skills == nil {
		o.Skills = []OperatorSkill{}
	}
	for i := range o.Skills {
		if o.Skills[i].Effects == nil {
			o.Skills[i].Effects = []Blackboard{}
		}
	}
}

func OperatorKey(o Operator) string     { return o.CharID }
func OperatorName(o Operator) string    { return o.Name }
func CloneOperator(o Operator) Operator { return cloneJSON(o) }

func (o *Operator) UnmarshalJSON(data []byte) error {
	type plain Operator
	extra, err := common.UnmarshalKeep(data, (*plain)(o))
	o.Extra = extra
	return err
}

func (o Operator) MarshalJSON() ([]byte, error) {
	type plain Operator
	return common.MarshalKeep(plain(o), o.Extra)
}

func (s *OperatorSkill) UnmarshalJSON(data []byte) error {
	type plain OperatorSkill
	extra, err := common.UnmarshalKeep(data, (*plain)(s))
	s.Extra = extra
	return err
}

func (s OperatorSkill) MarshalJSON() ([]byte, error) {
	type plain OperatorSkill
	return common.MarshalKeep(plain(s), s.Extra)
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	type plain Phase
	extra, err := common.UnmarshalKeep(data, (*plain)(p))
	p.Extra = extra
	return err
}

func (p Phase) MarshalJSON() ([]byte, error) {
	type plain Phase
	return common.MarshalKeep(plain(p), p.Extra)
}

func (k *KeyFrame) UnmarshalJSON(data []byte) error {
	type plain KeyFrame
	extra, err := common.UnmarshalKeep(data, (*plain)(k))
	k.Extra = extra
	return err
}

func (k KeyFrame) MarshalJSON() ([]byte, error) {
	type plain KeyFrame
	return common.MarshalKeep(plain(k), k.Extra)
}

func (s *OperatorStats) UnmarshalJSON(data []byte) error {
	type plain OperatorStats
	extra, err := common.UnmarshalKeep(data, (*plain)(s))
	s.Extra = extra
	return err
}

func (s OperatorStats) MarshalJSON() ([]byte, error) {
	type plain OperatorStats
	return common.MarshalKeep(plain(s), s.Extra)
}

func (b *Blackboard) UnmarshalJSON(data []byte) error {
	type plain Blackboard
	extra, err := common.UnmarshalKeep(data, (*plain)(b))
	b.Extra = extra
	return err
}

func (b Blackboard) MarshalJSON() ([]byte, error) {
	type plain Blackboard
	return common.MarshalKeep(plain(b), b.Extra)
}
