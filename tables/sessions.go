package tables

import (
	"fmt"

	"github.com/milk9111/akdata/collection"
	"github.com/milk9111/akdata/migrate"
)

// Tables bundles the three table editors of one project.
type Tables struct {
	Paths     Paths
	Enemies   *collection.Session[Enemy]
	Operators *collection.Session[Operator]
	Skills    *collection.Session[Skill]

	EnemyFile    *File[Enemy]
	OperatorFile *File[Operator]
	SkillFile    *File[Skill]
}

// Open loads all tables under p. Migration failures are returned; missing or
// corrupt files open as empty tables.
func Open(p Paths) (*Tables, error) {
	ef, err := NewFile[Enemy](p.Enemies(), "enemies", migrate.KindEnemies, p.MigrationsDir())
	if err != nil {
		return nil, err
	}
	of, err := NewFile[Operator](p.Operators(), "operators", migrate.KindOperators, p.MigrationsDir())
	if err != nil {
		return nil, err
	}
	sf, err := NewFile[Skill](p.Skills(), "skills", migrate.KindSkills, p.MigrationsDir())
	if err != nil {
		return nil, err
	}

	t := &Tables{
		Paths:        p,
		EnemyFile:    ef,
		OperatorFile: of,
		SkillFile:    sf,
		Enemies:      collection.NewSession[Enemy](ef, EnemyKey, EnemyName, collection.WithClone(CloneEnemy)),
		Operators:    collection.NewSession[Operator](of, OperatorKey, OperatorName, collection.WithClone(CloneOperator)),
		Skills:       collection.NewSession[Skill](sf, SkillKey, SkillName, collection.WithClone(CloneSkill)),
	}
	if err := t.Enemies.Open(); err != nil {
		return nil, err
	}
	if err := t.Operators.Open(); err != nil {
		return nil, err
	}
	if err := t.Skills.Open(); err != nil {
		return nil, err
	}
	return t, nil
}

// Dirty reports unsaved changes in any table.
func (t *Tables) Dirty() bool {
	return t.Enemies.Dirty || t.Operators.Dirty || t.Skills.Dirty
}

// NeedsSave reports tables that were migrated on load and should be written
// back even without edits.
func (t *Tables) NeedsSave() []string {
	var out []string
	if t.EnemyFile.Migrated {
		out = append(out, t.EnemyFile.Path)
	}
	if t.OperatorFile.Migrated {
		out = append(out, t.OperatorFile.Path)
	}
	if t.SkillFile.Migrated {
		out = append(out, t.SkillFile.Path)
	}
	return out
}

// Unreadable describes records that were kept aside because they did not fit
// the record type, one line per table.
func (t *Tables) Unreadable() []string {
	var out []string
	add := func(path string, n int) {
		if n > 0 {
			out = append(out, fmt.Sprintf("%s: %d record(s) could not be read and are kept unchanged", path, n))
		}
	}
	add(t.EnemyFile.Path, len(t.EnemyFile.Unreadable))
	add(t.OperatorFile.Path, len(t.OperatorFile.Unreadable))
	add(t.SkillFile.Path, len(t.SkillFile.Unreadable))
	return out
}

// SaveAll writes every table that is dirty or was migrated.
func (t *Tables) SaveAll() error {
	if t.Enemies.Dirty || t.EnemyFile.Migrated {
		if err := t.Enemies.SaveAll(); err != nil {
			return err
		}
	}
	if t.Operators.Dirty || t.OperatorFile.Migrated {
		if err := t.Operators.SaveAll(); err != nil {
			return err
		}
	}
	if t.Skills.Dirty || t.SkillFile.Migrated {
		if err := t.Skills.SaveAll(); err != nil {
			return err
		}
	}
	return nil
}

// EnemyKeys lists the keys currently in the enemy table.
func (t *Tables) EnemyKeys() []string { return t.Enemies.Keys() }

// OperatorIDs lists operator ids from the in-memory table, sorted.
func (t *Tables) OperatorIDs() []string {
	ids := t.Operators.Keys()
	sortStrings(ids)
	return ids
}
