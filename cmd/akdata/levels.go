package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/akdata/levels"
)

var errConfirm = errors.New("refusing to delete without --yes")

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List, create and delete level files",
}

var levelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List level ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := openProject()
		if err != nil {
			return err
		}
		ids, err := proj.levels.List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, id := range ids {
			l, err := proj.levels.Load(id)
			if err != nil {
				return err
			}
			m := l.EditorMetadata
			fmt.Fprintf(out, "%s\t%dx%d\troutes=%d\twaves=%d\t%s\n",
				id, l.Rows, l.Cols, len(l.Routes), len(l.Waves), progress(m))
		}
		return nil
	},
}

func progress(m levels.EditorMetadata) string {
	mark := func(done bool, s string) string {
		if done {
			return s
		}
		return "-"
	}
	return mark(m.GridCompleted, "G") + mark(m.RouteCompleted, "R") + mark(m.WaveCompleted, "W")
}

var levelsNewCmd = &cobra.Command{
	Use:   "new <id>",
	Short: "Create an empty 6x9 level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := openProject()
		if err != nil {
			return err
		}
		id := args[0]
		if err := levels.ValidID(id); err != nil {
			return err
		}
		if proj.levels.Exists(id) {
			return fmt.Errorf("level %s already exists", id)
		}
		if err := proj.levels.Save(levels.NewLevel(id)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", proj.levels.Path(id))
		return nil
	},
}

var levelsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a level file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		proj, err := openProject()
		if err != nil {
			return err
		}
		id := args[0]
		if !proj.levels.Exists(id) {
			return fmt.Errorf("level %s not found", id)
		}
		if !yes {
			return fmt.Errorf("%w: level %s", errConfirm, id)
		}
		if err := proj.levels.Delete(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
		return nil
	},
}

func init() {
	levelsDeleteCmd.Flags().Bool("yes", false, "confirm deletion")
	levelsCmd.AddCommand(levelsListCmd, levelsNewCmd, levelsDeleteCmd)
	rootCmd.AddCommand(levelsCmd)
}
