// dungeon generates tile dungeons and explores them in the terminal.
//
// Usage:
//
//	dungeon generate            - Print a summary and an ASCII map
//	dungeon visible --x --y     - List tiles visible from a camera position
//	dungeon collide --x --y     - Test a box against the grid
//	dungeon explore             - Walk the dungeon interactively
//	dungeon serve               - Start the SSH server for remote exploring
//	dungeon web                 - Start the HTTP/WebSocket API
//	dungeon history             - Browse recorded exploration sessions
//
// Global flags:
//
//	--config <path>    - Config file (default search: ~/.dungeon/configs, ./configs)
//	--size <n>         - Room size, clamped to [1, 128]
//	--seed <value>     - Generator seed
//	--db <dsn>         - Session store: SQLite path or postgres:// URL
//	--log-level <lvl>  - debug, info, warn, error
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dungeon/internal/config"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/storage"
	"github.com/vovakirdan/tui-dungeon/internal/telemetry"
)

var (
	// Global flags
	flagConfig   string
	flagSize     int
	flagSeed     int64
	flagDSN      string
	flagLogLevel string
	flagScreen   string

	logger            *log.Logger
	telemetryShutdown func(context.Context) error
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dungeon",
	Short: "Tile dungeon generator and explorer",
	Long: `dungeon builds square tile grids from a seed and answers visibility
and collision queries against them.

Available commands:
  generate - Generate a dungeon and print it
  visible  - List tiles visible from a camera position
  collide  - Test a box for collisions
  explore  - Walk the dungeon in the terminal
  serve    - Start SSH server for remote exploring
  web      - Start the HTTP and WebSocket API
  history  - Browse recorded sessions

Examples:
  dungeon generate --size 24 --seed 42
  dungeon visible --x 320 --y 192
  dungeon collide --x 0 --y 0 --w 2 --h 2
  dungeon explore --screen hd
  dungeon web --http :8080`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagSize, "size", dungeon.DefaultRoomSize, "Room size (clamped to 1..128)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", dungeon.DefaultSeed, "Generator seed")
	rootCmd.PersistentFlags().StringVar(&flagDSN, "db", "", "Session store DSN (SQLite path or postgres:// URL)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagScreen, "screen", "", "Screen preset for culling: vga, svga, hd")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(visibleCmd)
	rootCmd.AddCommand(collideCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads .env, builds the logger and starts tracing when configured.
func setup(cmd *cobra.Command, _ []string) error {
	// .env is optional; variables may be set directly
	_ = godotenv.Load()

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "dungeon",
		Level:           level,
	})

	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(cmd.Context())
		if err != nil {
			logger.Warn("telemetry setup failed, continuing without tracing", "error", err)
		} else {
			telemetryShutdown = shutdown
		}
	}
	return nil
}

// teardown flushes pending spans.
func teardown(cmd *cobra.Command, _ []string) error {
	if telemetryShutdown == nil {
		return nil
	}
	if err := telemetryShutdown(context.Background()); err != nil {
		logger.Warn("telemetry shutdown failed", "error", err)
	}
	return nil
}

// loadConfig loads the config file and applies explicit command line overrides.
func loadConfig(cmd *cobra.Command) (config.DungeonConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.Dungeon.RoomSize = flagSize
	}
	if flags.Changed("seed") {
		cfg.Dungeon.Seed = flagSeed
	}
	if flags.Changed("db") {
		cfg.Storage.DSN = flagDSN
	}
	if flagScreen != "" && !config.ApplyScreenPreset(&cfg, config.ScreenPreset(flagScreen)) {
		return cfg, fmt.Errorf("unknown --screen preset %q", flagScreen)
	}
	return cfg, nil
}

// buildDungeon generates the configured dungeon.
func buildDungeon(ctx context.Context, cfg config.DungeonConfig) *dungeon.Dungeon {
	return cfg.NewDungeon(logger).Generate(ctx, cfg.Dungeon.Seed)
}

// openStore opens the session store. A failure is logged and yields nil so
// exploring works without persistence.
func openStore(cfg config.DungeonConfig) *storage.Store {
	if cfg.Storage.DSN == "" {
		return nil
	}
	store, err := storage.Open(cfg.Storage.DSN)
	if err != nil {
		logger.Warn("could not open session store", "error", err)
		return nil
	}
	return store
}

// exitOnError prints err and exits.
func exitOnError(what string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
		os.Exit(1)
	}
}
