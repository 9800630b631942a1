package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dungeon/internal/platform/web"
)

var flagHTTPAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP and WebSocket API",
	Long: `Serve one shared dungeon over HTTP.

Endpoints:
  GET  /api/dungeon                 - Size, tile count, seed
  POST /api/dungeon/regenerate      - Regenerate (?seed=, default from clock)
  GET  /api/visible?x=&y=           - Tiles visible from a camera position
  GET  /api/collide?x=&y=&w=&h=     - Collision test
  GET  /api/tiles/{id}              - One tile
  GET  /healthz                     - Health check
  GET  /ws                          - Send {"x":..,"y":..}, receive visible tiles

Examples:
  dungeon web
  dungeon web --http :9000 --size 64`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP listen address, overrides config")
}

func runWeb(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	exitOnError("loading config", err)
	if flagHTTPAddr != "" {
		cfg.Server.HTTPAddr = flagHTTPAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := buildDungeon(ctx, cfg)
	server := web.NewServer(d, cfg.Viewport(), cfg.Collider(d), logger.WithPrefix("dungeon-web"))
	exitOnError("serving", server.ListenAndServe(ctx, cfg.Server.HTTPAddr))
}
