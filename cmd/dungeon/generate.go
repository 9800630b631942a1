package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
)

var flagNoMap bool

// mapGlyphs mirror the explorer's floor frames.
var mapGlyphs = []rune{'.', ',', ':', '\''}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a dungeon and print it",
	Long: `Generate a dungeon from the configured size and seed, then print a
summary and an ASCII map. The top row of the map is the highest grid row.

Examples:
  dungeon generate
  dungeon generate --size 8 --seed 1
  dungeon generate --size 128 --no-map`,
	Run: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&flagNoMap, "no-map", false, "Print only the summary")
}

func runGenerate(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	exitOnError("loading config", err)

	d := buildDungeon(cmd.Context(), cfg)
	writeSummary(os.Stdout, d)
	if !flagNoMap {
		fmt.Println()
		writeMap(os.Stdout, d, cfg.Dungeon.Frames)
	}
}

// writeSummary prints the dungeon's dimensions.
func writeSummary(w io.Writer, d *dungeon.Dungeon) {
	fmt.Fprintf(w, "Room size:     %d\n", d.Size())
	fmt.Fprintf(w, "Grid:          %d x %d\n", d.Width(), d.Height())
	fmt.Fprintf(w, "Tiles:         %d\n", d.Len())
	fmt.Fprintf(w, "Seed:          %d\n", d.Seed())
	fmt.Fprintf(w, "Max dimension: %.0f\n", d.MaxDimension())
	if d.BelowMinimum() {
		fmt.Fprintf(w, "Note: room size is below the minimum of %d\n", dungeon.MinRoomSize)
	}
}

// writeMap draws one glyph per tile, highest row first.
func writeMap(w io.Writer, d *dungeon.Dungeon, frames int) {
	tiles := d.Tiles()
	width, height := d.Width(), d.Height()
	if width == 0 || height == 0 {
		fmt.Fprintln(w, "(empty grid)")
		return
	}

	s := core.NewScreen(width, height)
	for row := range height {
		for col := range width {
			t := tiles[dungeon.TileID(col, row, width)]
			s.Set(col, height-1-row, mapGlyphs[dungeon.FrameIndex(t.ID, frames)%len(mapGlyphs)])
		}
	}
	fmt.Fprintln(w, s.String())
}
