package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/milk9111/akdata/migrate"
	"github.com/milk9111/akdata/tables"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade every table and level file to the current data version",
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		proj, err := openProject()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		t, err := tables.Open(proj.paths)
		if err != nil {
			return err
		}
		tableFiles := []struct {
			path     string
			migrated bool
			reg      *migrate.Registry
			from     migrate.Version
		}{
			{t.EnemyFile.Path, t.EnemyFile.Migrated, t.EnemyFile.Registry, t.EnemyFile.From},
			{t.OperatorFile.Path, t.OperatorFile.Migrated, t.OperatorFile.Registry, t.OperatorFile.From},
			{t.SkillFile.Path, t.SkillFile.Migrated, t.SkillFile.Registry, t.SkillFile.From},
		}
		n := 0
		for _, f := range tableFiles {
			if !f.migrated {
				continue
			}
			n++
			printMigration(out, f.path, f.reg, f.from, dryRun)
		}
		if !dryRun && n > 0 {
			if err := t.SaveAll(); err != nil {
				return err
			}
		}

		ids, err := proj.levels.List()
		if err != nil {
			return err
		}
		for _, id := range ids {
			l, err := proj.levels.Load(id)
			if err != nil {
				return err
			}
			if !l.Migrated {
				continue
			}
			n++
			printMigration(out, proj.levels.Path(id), proj.levels.Registry, l.From, dryRun)
			if dryRun {
				continue
			}
			if err := proj.levels.Save(l); err != nil {
				return err
			}
		}

		switch {
		case n == 0:
			fmt.Fprintln(out, "all files are current")
		case dryRun:
			fmt.Fprintf(out, "%d file(s) would be migrated\n", n)
		default:
			fmt.Fprintf(out, "%d file(s) migrated\n", n)
		}
		return nil
	},
}

// printMigration names a migrated file. A dry run also lists the steps that
// apply to it.
func printMigration(out io.Writer, path string, reg *migrate.Registry, from migrate.Version, dryRun bool) {
	fmt.Fprintf(out, "migrate %s (v%s -> v%s)\n", path, from, reg.Current)
	if !dryRun {
		return
	}
	for _, s := range reg.Pending(from) {
		fmt.Fprintf(out, "  step %s (%s -> %s)\n", s.Name, s.From, s.To)
	}
}

func init() {
	migrateCmd.Flags().Bool("dry-run", false, "report files and steps that would change without writing them")
	rootCmd.AddCommand(migrateCmd)
}
