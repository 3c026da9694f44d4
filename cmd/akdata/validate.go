package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/akdata/tables"
)

var errWarnings = errors.New("validation warnings found")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report dangling references between levels, enemies, operators and skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		proj, err := openProject()
		if err != nil {
			return err
		}
		t, err := tables.Open(proj.paths)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		warnings := 0
		for _, w := range t.Unreadable() {
			fmt.Fprintf(out, "✗ %s\n", w)
			warnings++
		}
		for _, w := range tables.CheckSkillOwners(t.Skills.Items, t.OperatorIDs()) {
			fmt.Fprintf(out, "✗ %s\n", w)
			warnings++
		}

		ids, err := proj.levels.List()
		if err != nil {
			return err
		}
		enemyKeys := t.EnemyKeys()
		for _, id := range ids {
			l, err := proj.levels.Load(id)
			if err != nil {
				return err
			}
			if l.Unreadable {
				fmt.Fprintf(out, "✗ level %s: file could not be read\n", id)
				warnings++
				continue
			}
			for _, w := range l.CheckReferences(enemyKeys) {
				fmt.Fprintf(out, "✗ level %s: %s\n", id, w)
				warnings++
			}
		}

		if warnings == 0 {
			fmt.Fprintln(out, "✓ no dangling references")
			return nil
		}
		fmt.Fprintf(out, "%d warning(s)\n", warnings)
		if strict {
			return errWarnings
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().Bool("strict", false, "exit with status 1 when warnings are found")
	rootCmd.AddCommand(validateCmd)
}
