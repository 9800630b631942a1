package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-dungeon/internal/platform/tui"
	"github.com/vovakirdan/tui-dungeon/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
	flagClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded exploration sessions",
	Long: `Show stored sessions. Interactive by default; --plain prints the most
recent sessions and the best coverage per room size.

Examples:
  dungeon history
  dungeon history --plain --limit 20
  dungeon history --clear`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print instead of opening the interactive view")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Sessions to print with --plain")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded sessions")
}

func runHistory(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	exitOnError("loading config", err)

	store, err := storage.Open(cfg.Storage.DSN)
	exitOnError("opening session store", err)
	defer store.Close()

	if flagClear {
		exitOnError("clearing sessions", store.ClearSessions())
		fmt.Println("All sessions deleted.")
		return
	}

	if !flagPlain {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		exitOnError("running history", tui.RunHistory(store, width, height))
		return
	}

	printHistory(store)
}

func printHistory(store *storage.Store) {
	sessions, err := store.RecentSessions(flagLimit)
	exitOnError("retrieving sessions", err)

	fmt.Println("Recent Sessions")
	fmt.Println()
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'dungeon explore' to record the first one!")
		return
	}

	fmt.Printf("  %-10s  %-4s  %-12s  %-6s  %-6s  %s\n", "Player", "Size", "Seed", "Seen", "Moves", "Date")
	fmt.Printf("  %-10s  %-4s  %-12s  %-6s  %-6s  %s\n", "------", "----", "----", "----", "-----", "----")
	for _, s := range sessions {
		fmt.Printf("  %-10s  %-4d  %-12d  %5.1f%%  %-6d  %s\n",
			s.Player, s.RoomSize, s.Seed, s.Coverage()*100, s.Moves, s.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.StatsBySize()
	if err != nil || len(stats) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Best coverage by room size")
	for _, size := range sortedSizes(stats) {
		st := stats[size]
		fmt.Printf("  size %-4d  %5.1f%%  (%d sessions, %d moves)\n", size, st.BestCoverage*100, st.Sessions, st.TotalMoves)
	}
}

func sortedSizes(stats map[int]*storage.SizeStats) []int {
	sizes := make([]int, 0, len(stats))
	for size := range stats {
		sizes = append(sizes, size)
	}
	slices.Sort(sizes)
	return sizes
}
