package tables

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/milk9111/akdata/common"
	"github.com/milk9111/akdata/rangegrid"
	"github.com/tidwall/gjson"
)

type SkillType int

const (
	SkillPassive SkillType = iota
	SkillManual
	SkillAuto
)

var SkillTypes = []SkillType{SkillPassive, SkillManual, SkillAuto}

func (t SkillType) String() string {
	switch t {
	case SkillPassive:
		return "Passive"
	case SkillManual:
		return "Manual"
	case SkillAuto:
		return "Auto"
	default:
		return "Unknown"
	}
}

// SPType values are bit flags in the game data.
type SPType int

const (
	SPAttack SPType = 1
	SPTime   SPType = 2
	SPHit    SPType = 4
)

var SPTypes = []SPType{SPAttack, SPTime, SPHit}

func (t SPType) String() string {
	switch t {
	case SPAttack:
		return "Attack"
	case SPTime:
		return "Time"
	case SPHit:
		return "Hit"
	default:
		return "Unknown"
	}
}

type SPData struct {
	SPType SPType `json:"spType"`
	SPCost int    `json:"spCost"`
	InitSP int    `json:"initSp"`

	Extra common.Extra `json:"-"`
}

type Skill struct {
	SkillID     string             `json:"skillId"`
	OperatorID  string             `json:"operatorId"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	SkillType   SkillType          `json:"skillType"`
	Duration    float64            `json:"duration"`
	SPData      SPData             `json:"spData"`
	Range       []rangegrid.Offset `json:"range"`
	Blackboard  []Blackboard       `json:"blackboard"`

	Extra common.Extra `json:"-"`
}

type SkillInput struct {
	OperatorID  string
	Suffix      string
	Name        string
	Description string
	SkillType   SkillType
	Duration    float64
	SPData      SPData
	Range       rangegrid.Grid
	Blackboard  []Blackboard
}

func DefaultSkillInput() SkillInput {
	return SkillInput{
		SkillType: SkillManual,
		SPData:    SPData{SPType: SPAttack, SPCost: 30},
		Range:     rangegrid.New(rangegrid.SkillRadius),
	}
}

// GenerateSkillID builds "skchr_<operator>_<suffix>", dropping a leading
// "char_" from the operator id. An empty suffix yields "".
func GenerateSkillID(operatorID, suffix string) string {
	suffix = strings.TrimSpace(suffix)
	if suffix == "" {
		return ""
	}
	return "skchr_" + strings.TrimPrefix(operatorID, "char_") + "_" + suffix
}

// SkillSuffix is the inverse of GenerateSkillID for ids that follow the
// pattern. Other ids are returned whole.
func SkillSuffix(skillID, operatorID string) string {
	prefix := "skchr_" + strings.TrimPrefix(operatorID, "char_") + "_"
	if after, ok := strings.CutPrefix(skillID, prefix); ok {
		return after
	}
	return skillID
}

func NewSkill(in SkillInput) Skill {
	s := Skill{}
	s.Apply(in)
	return s
}

// Apply writes the editable fields. The id is regenerated from operator and
// suffix.
func (s *Skill) Apply(in SkillInput) {
	s.OperatorID = in.OperatorID
	s.SkillID = GenerateSkillID(in.OperatorID, in.Suffix)
	s.Name = in.Name
	s.Description = in.Description
	s.SkillType = in.SkillType
	s.Duration = common.Snap1(in.Duration)
	sp := in.SPData
	if sp.Extra == nil {
		sp.Extra = s.SPData.Extra
	}
	s.SPData = sp
	if in.Range.Cells != nil {
		s.Range = rangegrid.ToSparse(in.Range)
	}
	if s.Range == nil {
		s.Range = []rangegrid.Offset{}
	}
	prev := s.Blackboard
	s.Blackboard = make([]Blackboard, 0, len(in.Blackboard))
	for _, b := range in.Blackboard {
		if strings.TrimSpace(b.Key) == "" {
			continue
		}
		extra := b.Extra
		if extra == nil {
			extra = blackboardExtra(prev, b.Key)
		}
		s.Blackboard = append(s.Blackboard, Blackboard{Key: b.Key, Value: common.Snap2(b.Value), Extra: extra})
	}
}

// blackboardExtra finds the kept members of the entry named key, so entries
// re-entered as plain text keep fields like valueStr.
func blackboardExtra(entries []Blackboard, key string) common.Extra {
	for _, b := range entries {
		if b.Key == key {
			return b.Extra
		}
	}
	return nil
}

func (s Skill) Input() SkillInput {
	return SkillInput{
		OperatorID:  s.OperatorID,
		Suffix:      SkillSuffix(s.SkillID, s.OperatorID),
		Name:        s.Name,
		Description: s.Description,
		SkillType:   s.SkillType,
		Duration:    s.Duration,
		SPData:      s.SPData,
		Range:       rangegrid.FromSparse(s.Range, rangegrid.SkillRadius),
		Blackboard:  append([]Blackboard(nil), s.Blackboard...),
	}
}

func (s *Skill) normalize() {
	if s.Range == nil {
		s.Range = []rangegrid.Offset{}
	}
	if s.Blackboard == nil {
		s.Blackboard = []Blackboard{}
	}
}

func SkillKey(s Skill) string  { return s.SkillID }
func SkillName(s Skill) string { return s.Name }
func CloneSkill(s Skill) Skill { return cloneJSON(s) }

// OperatorIDs reads the sorted char ids from an operators table. A missing
// file yields no ids.
func OperatorIDs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("tables: read %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("tables: %s is not valid JSON", path)
	}
	ids := []string{}
	gjson.GetBytes(data, "operators").ForEach(func(_, op gjson.Result) bool {
		if id := op.Get("charId"); id.Exists() && id.String() != "" {
			ids = append(ids, id.String())
		}
		return true
	})
	sort.Strings(ids)
	return ids, nil
}

func (s *Skill) UnmarshalJSON(data []byte) error {
	type plain Skill
	extra, err := common.UnmarshalKeep(data, (*plain)(s))
	s.Extra = extra
	return err
}

func (s Skill) MarshalJSON() ([]byte, error) {
	type plain Skill
	return common.MarshalKeep(plain(s), s.Extra)
}

func (d *SPData) UnmarshalJSON(data []byte) error {
	type plain SPData
	extra, err := common.UnmarshalKeep(data, (*plain)(d))
	d.Extra = extra
	return err
}

func (d SPData) MarshalJSON() ([]byte, error) {
	type plain SPData
	return common.MarshalKeep(plain(d), d.Extra)
}
