package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/milk9111/akdata/rangegrid"
	"github.com/milk9111/akdata/tables"
)

func enemyKind() recordKind[tables.Enemy] {
	types := make([]string, len(tables.EnemyTypes))
	for i, t := range tables.EnemyTypes {
		types[i] = string(t)
	}
	return recordKind[tables.Enemy]{
		name: "Enemy",
		label: func(e tables.Enemy) string {
			return fmt.Sprintf("%s  %s", e.Key, e.Name())
		},
		fresh: func() tables.Enemy {
			return tables.NewEnemy(tables.DefaultEnemyInput())
		},
		fields: func(f *form) {
			f.add("key", "Key")
			f.add("name", "Name")
			f.addChoice("type", "Type", types, nil)
			f.add("maxHp", "Max HP")
			f.add("atk", "ATK")
			f.add("def", "DEF")
			f.add("magicRes", "Magic Res (%)")
			f.add("range", "Range Radius")
			f.add("moveSpeed", "Move Speed")
			f.add("bat", "Base Attack Time")
		},
		toForm: func(f *form, e tables.Enemy) rangegrid.Grid {
			in := e.Input()
			f.set("key", in.Key)
			f.set("name", in.Name)
			f.set("type", string(in.Type))
			f.set("maxHp", in.MaxHP)
			f.set("atk", in.Atk)
			f.set("def", in.Def)
			f.set("magicRes", in.MagicResistPct)
			f.set("range", in.RangeRadius)
			f.set("moveSpeed", in.MoveSpeed)
			f.set("bat", in.BaseAttackTime)
			return rangegrid.Grid{}
		},
		fromForm: func(f *form, base *tables.Enemy, _ rangegrid.Grid) (tables.Enemy, error) {
			r := reader{f: f}
			in := tables.EnemyInput{
				Key:            r.str("key"),
				Name:           r.str("name"),
				Type:           tables.EnemyType(r.str("type")),
				MaxHP:          r.int("maxHp"),
				Atk:            r.int("atk"),
				Def:            r.int("def"),
				MagicResistPct: r.int("magicRes"),
				RangeRadius:    r.float("range"),
				MoveSpeed:      r.float("moveSpeed"),
				BaseAttackTime: r.float("bat"),
			}
			if r.err != nil {
				return tables.Enemy{}, r.err
			}
			if base == nil {
				return tables.NewEnemy(in), nil
			}
			e := tables.CloneEnemy(*base)
			e.Apply(in)
			return e, nil
		},
		clone: tables.CloneEnemy,
	}
}

func operatorKind() recordKind[tables.Operator] {
	profs := make([]string, len(tables.Professions))
	for i, p := range tables.Professions {
		profs[i] = string(p)
	}
	return recordKind[tables.Operator]{
		name: "Operator",
		label: func(o tables.Operator) string {
			return fmt.Sprintf("%s  %s (%s)", o.CharID, o.Name, o.Profession)
		},
		fresh: func() tables.Operator {
			return tables.NewOperator(tables.DefaultOperatorInput())
		},
		fields: func(f *form) {
			f.add("charId", "Char ID")
			f.add("name", "Name")
			f.add("desc", "Description")
			f.addChoice("profession", "Profession", profs, nil)
			f.add("rarity", "Rarity (0-5)")
			f.add("maxHp", "Max HP")
			f.add("atk", "ATK")
			f.add("def", "DEF")
			f.add("magicRes", "Magic Res (%)")
			f.add("cost", "Cost")
			f.add("block", "Block Count")
			f.add("bat", "Base Attack Time")
			f.add("respawn", "Respawn Time")
		},
		outside: func(o tables.Operator) []rangegrid.Offset {
			return rangegrid.Dropped(o.Range, rangegrid.OperatorRadius)
		},
		toForm: func(f *form, o tables.Operator) rangegrid.Grid {
			in := o.Input()
			f.set("charId", in.CharID)
			f.set("name", in.Name)
			f.set("desc", in.Description)
			f.set("profession", string(in.Profession))
			f.set("rarity", in.Rarity)
			f.set("maxHp", in.MaxHP)
			f.set("atk", in.Atk)
			f.set("def", in.Def)
			f.set("magicRes", in.MagicResistPct)
			f.set("cost", in.Cost)
			f.set("block", in.BlockCnt)
			f.set("bat", in.BaseAttackTime)
			f.set("respawn", in.RespawnTime)
			return in.Range
		},
		fromForm: func(f *form, base *tables.Operator, grid rangegrid.Grid) (tables.Operator, error) {
			r := reader{f: f}
			in := tables.OperatorInput{
				CharID:         r.str("charId"),
				Name:           r.str("name"),
				Description:    r.str("desc"),
				Profession:     tables.Profession(r.str("profession")),
				Rarity:         r.int("rarity"),
				MaxHP:          r.int("maxHp"),
				Atk:            r.int("atk"),
				Def:            r.int("def"),
				MagicResistPct: r.int("magicRes"),
				Cost:           r.int("cost"),
				BlockCnt:       r.int("block"),
				BaseAttackTime: r.float("bat"),
				RespawnTime:    r.int("respawn"),
				Range:          grid,
			}
			if r.err != nil {
				return tables.Operator{}, r.err
			}
			if base == nil {
				return tables.NewOperator(in), nil
			}
			o := tables.CloneOperator(*base)
			o.Apply(in)
			return o, nil
		},
		clone: tables.CloneOperator,
	}
}

// skillKind takes the operator ids from ids each time a form is shown.
func skillKind(ids func() []string) recordKind[tables.Skill] {
	skillTypes := make([]string, len(tables.SkillTypes))
	for i, t := range tables.SkillTypes {
		skillTypes[i] = t.String()
	}
	spTypes := make([]string, len(tables.SPTypes))
	for i, t := range tables.SPTypes {
		spTypes[i] = t.String()
	}
	var preview func()
	return recordKind[tables.Skill]{
		name: "Skill",
		label: func(s tables.Skill) string {
			return fmt.Sprintf("%s  %s", s.SkillID, s.Name)
		},
		fresh: func() tables.Skill {
			return tables.NewSkill(tables.DefaultSkillInput())
		},
		fields: func(f *form) {
			id := f.kit.text("Skill ID: -", labelColor.Idle)
			preview = func() {
				sid := tables.GenerateSkillID(f.str("operator"), f.str("suffix"))
				if sid == "" {
					sid = "-"
				}
				id.Label = "Skill ID: " + sid
			}
			f.addChoice("operator", "Operator", ids(), func(string) { preview() })
			f.add("suffix", "Suffix").ChangedEvent.AddHandler(func(any) { preview() })
			f.Container.AddChild(id)
			f.add("name", "Name")
			f.add("desc", "Description")
			f.addChoice("skillType", "Skill Type", skillTypes, nil)
			f.add("duration", "Duration")
			f.addChoice("spType", "SP Type", spTypes, nil)
			f.add("spCost", "SP Cost")
			f.add("initSp", "Initial SP")
			f.add("blackboard", "Blackboard (k=v, ...)")
		},
		outside: func(s tables.Skill) []rangegrid.Offset {
			return rangegrid.Dropped(s.Range, rangegrid.SkillRadius)
		},
		toForm: func(f *form, s tables.Skill) rangegrid.Grid {
			in := s.Input()
			editing := s.SkillID != ""
			f.choices["operator"].SetOptions(ids())
			f.set("operator", in.OperatorID)
			f.set("suffix", in.Suffix)
			if !editing {
				f.set("suffix", "")
			}
			f.setEnabled("operator", !editing)
			f.setEnabled("suffix", !editing)
			f.set("name", in.Name)
			f.set("desc", in.Description)
			f.set("skillType", in.SkillType.String())
			f.set("duration", in.Duration)
			f.set("spType", in.SPData.SPType.String())
			f.set("spCost", in.SPData.SPCost)
			f.set("initSp", in.SPData.InitSP)
			f.set("blackboard", formatBlackboard(in.Blackboard))
			preview()
			return in.Range
		},
		fromForm: func(f *form, base *tables.Skill, grid rangegrid.Grid) (tables.Skill, error) {
			r := reader{f: f}
			in := tables.SkillInput{
				OperatorID:  r.str("operator"),
				Suffix:      r.str("suffix"),
				Name:        r.str("name"),
				Description: r.str("desc"),
				SkillType:   tables.SkillTypes[indexOf(skillTypes, r.str("skillType"))],
				Duration:    r.float("duration"),
				SPData: tables.SPData{
					SPType: tables.SPTypes[indexOf(spTypes, r.str("spType"))],
					SPCost: r.int("spCost"),
					InitSP: r.int("initSp"),
				},
				Range: grid,
			}
			if r.err != nil {
				return tables.Skill{}, r.err
			}
			bb, err := parseBlackboard(r.str("blackboard"))
			if err != nil {
				return tables.Skill{}, err
			}
			in.Blackboard = bb
			if base == nil {
				if in.OperatorID == "" {
					return tables.Skill{}, fmt.Errorf("pick an operator first")
				}
				return tables.NewSkill(in), nil
			}
			// Operator and suffix are fixed once the skill exists.
			prev := base.Input()
			in.OperatorID = prev.OperatorID
			in.Suffix = prev.Suffix
			s := tables.CloneSkill(*base)
			s.Apply(in)
			s.SkillID = base.SkillID
			return s, nil
		},
		clone: tables.CloneSkill,
	}
}

func indexOf(options []string, v string) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return 0
}

func formatBlackboard(bb []tables.Blackboard) string {
	parts := make([]string, len(bb))
	for i, b := range bb {
		parts[i] = b.Key + "=" + strconv.FormatFloat(b.Value, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}

func parseBlackboard(s string) ([]tables.Blackboard, error) {
	pairs, err := parsePairs(s)
	if err != nil {
		return nil, err
	}
	out := make([]tables.Blackboard, 0, len(pairs))
	for _, p := range pairs {
		v, err := strconv.ParseFloat(p[1], 64)
		if err != nil {
			return nil, fmt.Errorf("blackboard %s: %q is not a number", p[0], p[1])
		}
		out = append(out, tables.Blackboard{Key: p[0], Value: v})
	}
	return out, nil
}
