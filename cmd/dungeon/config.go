package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-dungeon/internal/config"
)

var flagDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the config file and flags are applied.
--defaults prints the built-in defaults, a starting point for
~/.dungeon/configs/dungeon.yaml.

Examples:
  dungeon config
  dungeon config --size 32
  dungeon config --defaults > ~/.dungeon/configs/dungeon.yaml`,
	Run: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in defaults")
}

func runConfig(cmd *cobra.Command, _ []string) {
	if flagDefaults {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	cfg, err := loadConfig(cmd)
	exitOnError("loading config", err)
	exitOnError("writing config", writeConfig(os.Stdout, cfg))
}

// writeConfig encodes cfg as YAML.
func writeConfig(w io.Writer, cfg config.DungeonConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
