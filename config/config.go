// Package config holds the settings shared by the editor and the CLI.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// Config is populated from .akdata.yaml, AKDATA_* env vars and CLI flags.
type Config struct {
	DataRoot     string `mapstructure:"data_root"`
	CellSize     int    `mapstructure:"cell_size"`
	WindowWidth  int    `mapstructure:"window_width"`
	WindowHeight int    `mapstructure:"window_height"`
	Watch        bool   `mapstructure:"watch"`
	StateFile    string `mapstructure:"state_file"`
}

// Init points viper at cfgFile, or at .akdata.yaml in the working directory
// and the home directory. A missing config file is not an error.
func Init(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".akdata")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("AKDATA")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// Load reads configuration from viper with defaults for unset values.
func Load() (Config, error) {
	viper.SetDefault("data_root", ".")
	viper.SetDefault("cell_size", 48)
	viper.SetDefault("window_width", 1280)
	viper.SetDefault("window_height", 800)
	viper.SetDefault("watch", true)
	viper.SetDefault("state_file", ".akdata_state.toml")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.CellSize < 8 {
		cfg.CellSize = 8
	}
	return cfg, nil
}
