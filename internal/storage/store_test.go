package storage

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if store.Driver() != DriverSQLite {
		t.Errorf("Driver() = %q, expected %q", store.Driver(), DriverSQLite)
	}
}

func TestStoreNestedDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "a", "b", "sessions.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Errorf("parent directory not created: %v", err)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.dungeon-test/sessions.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".dungeon-test", "sessions.db")); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}

func TestSaveAndRecentSessions(t *testing.T) {
	store := openTestStore(t)

	sessions := []Session{
		{Player: "ana", RoomSize: 16, Seed: 13375, TileCount: 240, TilesSeen: 72, Moves: 10, Duration: 1500 * time.Millisecond},
		{Player: "bo", RoomSize: 16, Seed: 1, TileCount: 240, TilesSeen: 200, Moves: 40},
		{Player: "ana", RoomSize: 32, Seed: 2, TileCount: 961, TilesSeen: 100, Moves: 5},
	}
	var lastID int64
	for _, s := range sessions {
		id, err := store.SaveSession(s)
		if err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
		if id <= lastID {
			t.Errorf("ids should increase: %d after %d", id, lastID)
		}
		lastID = id
	}

	recent, err := store.RecentSessions(2)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("RecentSessions(2) returned %d sessions", len(recent))
	}
	// Same-second timestamps fall back to id order
	if recent[0].RoomSize != 32 || recent[1].Player != "bo" {
		t.Errorf("unexpected order: %+v", recent)
	}

	all, err := store.RecentSessions(0)
	if err != nil {
		t.Fatalf("RecentSessions(0) failed: %v", err)
	}
	first := all[len(all)-1]
	if first.Duration != 1500*time.Millisecond || first.Seed != 13375 {
		t.Errorf("round trip lost fields: %+v", first)
	}
	if first.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by the database")
	}
}

func TestBestCoverage(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestCoverage(16)
	if err != nil {
		t.Fatalf("BestCoverage() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("empty store BestCoverage = %v, expected 0", best)
	}

	for _, seen := range []int{45, 180, 90} {
		if _, err := store.SaveSession(Session{RoomSize: 16, TileCount: 240, TilesSeen: seen}); err != nil {
			t.Fatal(err)
		}
	}
	// Sessions on a degenerate grid are ignored
	if _, err := store.SaveSession(Session{RoomSize: 16, TileCount: 0, TilesSeen: 0}); err != nil {
		t.Fatal(err)
	}

	best, err = store.BestCoverage(16)
	if err != nil {
		t.Fatalf("BestCoverage() failed: %v", err)
	}
	if math.Abs(best-0.75) > 1e-9 {
		t.Errorf("BestCoverage = %v, expected 0.75", best)
	}
}

func TestTopSessions(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []Session{
		{Player: "slow", RoomSize: 8, TileCount: 49, TilesSeen: 49, Moves: 30},
		{Player: "fast", RoomSize: 8, TileCount: 49, TilesSeen: 49, Moves: 10},
		{Player: "partial", RoomSize: 8, TileCount: 49, TilesSeen: 20, Moves: 1},
		{Player: "other", RoomSize: 9, TileCount: 64, TilesSeen: 64},
	} {
		if _, err := store.SaveSession(s); err != nil {
			t.Fatal(err)
		}
	}

	top, err := store.TopSessions(8, 10)
	if err != nil {
		t.Fatalf("TopSessions() failed: %v", err)
	}
	want := []string{"fast", "slow", "partial"}
	if len(top) != len(want) {
		t.Fatalf("TopSessions returned %d sessions, expected %d", len(top), len(want))
	}
	for i, name := range want {
		if top[i].Player != name {
			t.Errorf("top[%d] = %q, expected %q", i, top[i].Player, name)
		}
	}
}

func TestStatsBySize(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []Session{
		{RoomSize: 16, TileCount: 240, TilesSeen: 100, Moves: 3},
		{RoomSize: 16, TileCount: 240, TilesSeen: 240, Moves: 7},
		{RoomSize: 4, TileCount: 9, TilesSeen: 9, Moves: 1},
	} {
		if _, err := store.SaveSession(s); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.StatsBySize()
	if err != nil {
		t.Fatalf("StatsBySize() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 sizes, got %d", len(stats))
	}
	s16 := stats[16]
	if s16 == nil || s16.Sessions != 2 || s16.TotalMoves != 10 || s16.BestCoverage != 1 {
		t.Errorf("stats[16] = %+v", s16)
	}
	if s16 != nil && s16.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestClearSessions(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveSession(Session{RoomSize: 2, TileCount: 1, TilesSeen: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.ClearSessions(); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}
	recent, err := store.RecentSessions(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 0 {
		t.Errorf("expected no sessions after clear, got %d", len(recent))
	}
}

func TestSessionCoverage(t *testing.T) {
	tests := []struct {
		s    Session
		want float64
	}{
		{Session{TileCount: 0, TilesSeen: 5}, 0},
		{Session{TileCount: 4, TilesSeen: 1}, 0.25},
		{Session{TileCount: 9, TilesSeen: 9}, 1},
	}
	for _, tc := range tests {
		if got := tc.s.Coverage(); got != tc.want {
			t.Errorf("Coverage(%+v) = %v, expected %v", tc.s, got, tc.want)
		}
	}
}

func TestRebindDollar(t *testing.T) {
	got := rebindDollar("SELECT a FROM t WHERE x = ? AND y = ? LIMIT ?")
	want := "SELECT a FROM t WHERE x = $1 AND y = $2 LIMIT $3"
	if got != want {
		t.Errorf("rebindDollar() = %q, expected %q", got, want)
	}
}

func TestParseTime(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	if !parseTime(ts).Equal(ts) {
		t.Error("time.Time should pass through")
	}
	if !parseTime("2024-05-01 12:30:00").Equal(ts) {
		t.Error("string timestamp should parse")
	}
	if !parseTime([]byte("2024-05-01 12:30:00")).Equal(ts) {
		t.Error("byte timestamp should parse")
	}
	if !parseTime(nil).IsZero() {
		t.Error("nil should yield the zero time")
	}
}
