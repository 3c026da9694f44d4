package tables

import "path/filepath"

// Paths locates the game data under a project root.
type Paths struct {
	Root string
}

func (p Paths) TablesDir() string     { return filepath.Join(p.Root, "gamedata", "tables") }
func (p Paths) LevelsDir() string     { return filepath.Join(p.Root, "gamedata", "levels") }
func (p Paths) MigrationsDir() string { return filepath.Join(p.Root, "migrations") }
func (p Paths) Enemies() string       { return filepath.Join(p.TablesDir(), "enemies_table.json") }
func (p Paths) Operators() string     { return filepath.Join(p.TablesDir(), "operators_table.json") }
func (p Paths) Skills() string        { return filepath.Join(p.TablesDir(), "skills_table.json") }
