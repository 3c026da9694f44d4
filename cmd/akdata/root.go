package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/milk9111/akdata/config"
	"github.com/milk9111/akdata/levels"
	"github.com/milk9111/akdata/tables"
)

var rootCmd = &cobra.Command{
	Use:           "akdata",
	Short:         "Maintain enemy, operator, skill and level data files",
	Long:          "akdata migrates, lists and checks the JSON game data edited with the akdata editor.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .akdata.yaml)")
	rootCmd.PersistentFlags().String("root", "", "project root containing gamedata/")
}

func initConfig() {
	cfgFile, _ := rootCmd.Flags().GetString("config")
	config.Init(cfgFile)
	_ = viper.BindPFlag("data_root", rootCmd.PersistentFlags().Lookup("root"))
}

type project struct {
	cfg    config.Config
	paths  tables.Paths
	levels *levels.Store
}

func openProject() (*project, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	p := tables.Paths{Root: cfg.DataRoot}
	store, err := levels.NewStore(p.LevelsDir(), p.MigrationsDir())
	if err != nil {
		return nil, err
	}
	return &project{cfg: cfg, paths: p, levels: store}, nil
}
