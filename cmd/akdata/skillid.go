package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/milk9111/akdata/tables"
)

var skillIDCmd = &cobra.Command{
	Use:   "skill-id <operatorId> <suffix>",
	Short: "Print the skill id generated for an operator and suffix",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := tables.GenerateSkillID(args[0], args[1])
		if id == "" {
			return errors.New("suffix must not be empty")
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)

		proj, err := openProject()
		if err != nil {
			return err
		}
		ids, err := tables.OperatorIDs(proj.paths.Operators())
		if err != nil {
			return err
		}
		if len(ids) > 0 && !slices.Contains(ids, args[0]) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: operator %s is not in %s\n", args[0], proj.paths.Operators())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(skillIDCmd)
}
