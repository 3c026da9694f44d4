package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/milk9111/akdata/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "editor",
	Short:         "Edit enemy, operator, skill and level data",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		app, err := NewApp(cfg)
		if err != nil {
			return err
		}
		ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
		ebiten.SetWindowTitle("AK Data Editor - " + cfg.DataRoot)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		ebiten.SetWindowClosingHandled(true)
		return ebiten.RunGame(app)
	},
}

func init() {
	cobra.OnInitialize(func() {
		config.Init(cfgFile)
		_ = viper.BindPFlag("data_root", rootCmd.Flags().Lookup("root"))
		_ = viper.BindPFlag("cell_size", rootCmd.Flags().Lookup("cell"))
	})
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default .akdata.yaml)")
	rootCmd.Flags().String("root", ".", "data root containing gamedata/ and migrations/")
	rootCmd.Flags().Int("cell", 48, "level grid cell size in pixels")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
