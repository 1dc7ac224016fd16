// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the shelf-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/shelf-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the shelf-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "shelf-engine",
	Short: "Book recommendations from a static catalog",
	Long: `shelf-engine recommends books from a fixed catalog using three query
modes: title similarity, author match, and free-text keyword relevance.

The catalog and its TF-IDF similarity index live in a SQLite artifact
bundle. Build it once with "catalog import" and "catalog build", then
query it with "recommend".`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./shelf-engine.yaml or ~/.config/shelf-engine/config.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "catalog bundle file (overrides config)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("shelf-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "shelf-engine"))
		}
	}

	viper.SetDefault("catalog.path", "catalog/shelf.db")
	viper.SetDefault("recommend.max_results", 10)
	viper.SetDefault("covers.timeout", 5*time.Second)
	viper.SetDefault("covers.user_agent", "shelf-engine/"+version)

	viper.SetEnvPrefix("SHELF_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the effective configuration from config file,
// environment, and flags.
func engineConfig() types.EngineConfig {
	cfg := types.EngineConfig{
		Catalog: types.CatalogConfig{
			Path: viper.GetString("catalog.path"),
		},
		Recommend: types.RecommendConfig{
			MaxResults: viper.GetInt("recommend.max_results"),
		},
		Covers: types.CoversConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("covers.timeout"),
				UserAgent: viper.GetString("covers.user_agent"),
			},
		},
	}
	if path, _ := rootCmd.PersistentFlags().GetString("catalog"); path != "" {
		cfg.Catalog.Path = path
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
