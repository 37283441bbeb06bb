package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-snake/internal/config"
)

var (
	flagSchema   bool
	flagDefaults bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration the server would run with, after the search
order (--config, ~/.snake/server.yaml, ./configs/server.yaml, built-in
defaults) and validation have been applied.

Examples:
  snake config
  snake config --defaults > ~/.snake/server.yaml
  snake config --schema`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagSchema, "schema", false, "Print the JSON Schema of the configuration file")
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in default file")
}

func runConfig(_ *cobra.Command, _ []string) {
	switch {
	case flagSchema:
		data, err := config.Schema()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	case flagDefaults:
		os.Stdout.Write(config.DefaultYAML()) //nolint:errcheck // stdout
	default:
		cfg := loadConfig()
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data) //nolint:errcheck // stdout
	}
}
