// Package storage persists exploration session statistics. Dungeons
// themselves are never stored: a seed and a size regenerate them.
//
// SQLite (pure-Go modernc.org/sqlite driver) is the default backend; a
// postgres:// DSN selects PostgreSQL through lib/pq.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store manages the database connection for session persistence.
type Store struct {
	db     *sql.DB
	driver string
}

// Session is the record of one exploration run.
type Session struct {
	ID        int64
	Player    string
	RoomSize  int
	Seed      int64
	TileCount int // Tiles in the grid
	TilesSeen int // Distinct tiles that were visible at some point
	Moves     int
	Duration  time.Duration
	CreatedAt time.Time
}

// Coverage returns the fraction of the grid that was seen, in [0, 1].
func (s Session) Coverage() float64 {
	if s.TileCount <= 0 {
		return 0
	}
	return float64(s.TilesSeen) / float64(s.TileCount)
}

// SizeStats aggregates sessions for one room size.
type SizeStats struct {
	RoomSize     int
	Sessions     int
	BestCoverage float64
	TotalMoves   int
	LastPlayed   time.Time
}

// Open creates or opens the session database. dsn is either a postgres://
// URL or a SQLite file path (~ is expanded and parent directories are created).
func Open(dsn string) (*Store, error) {
	driver := DriverSQLite
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = DriverPostgres
	} else {
		path, err := prepareSQLitePath(dsn)
		if err != nil {
			return nil, err
		}
		dsn = path
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, driver: driver}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// prepareSQLitePath expands ~ and creates parent directories.
func prepareSQLitePath(dbPath string) (string, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	return dbPath, nil
}

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player TEXT NOT NULL DEFAULT '',
		room_size INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		tile_count INTEGER NOT NULL,
		tiles_seen INTEGER NOT NULL,
		moves INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_room_size ON sessions(room_size);
	CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at DESC);
`

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id BIGSERIAL PRIMARY KEY,
		player TEXT NOT NULL DEFAULT '',
		room_size INTEGER NOT NULL,
		seed BIGINT NOT NULL,
		tile_count INTEGER NOT NULL,
		tiles_seen INTEGER NOT NULL,
		moves INTEGER NOT NULL DEFAULT 0,
		duration_ms BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_room_size ON sessions(room_size);
	CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at DESC);
`

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := sqliteSchema
	if s.driver == DriverPostgres {
		schema = postgresSchema
	}
	_, err := s.db.Exec(schema)
	return err
}

// Driver returns the database/sql driver in use.
func (s *Store) Driver() string {
	return s.driver
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// SaveSession records a finished session and returns its ID.
func (s *Store) SaveSession(sess Session) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		s.rebind(`INSERT INTO sessions (player, room_size, seed, tile_count, tiles_seen, moves, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		sess.Player, sess.RoomSize, sess.Seed, sess.TileCount, sess.TilesSeen, sess.Moves,
		sess.Duration.Milliseconds(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}
	return id, nil
}

const sessionColumns = `id, player, room_size, seed, tile_count, tiles_seen, moves, duration_ms, created_at`

// RecentSessions returns the newest sessions first.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.querySessions(
		`SELECT `+sessionColumns+` FROM sessions ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
}

// TopSessions returns the sessions of one room size with the best coverage first.
func (s *Store) TopSessions(roomSize, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.querySessions(
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE room_size = ? AND tile_count > 0
		 ORDER BY (tiles_seen * 1.0 / tile_count) DESC, moves ASC
		 LIMIT ?`,
		roomSize, limit,
	)
}

func (s *Store) querySessions(query string, args ...any) ([]Session, error) {
	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&sess.ID, &sess.Player, &sess.RoomSize, &sess.Seed, &sess.TileCount,
			&sess.TilesSeen, &sess.Moves, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sess.Duration = time.Duration(durationMS) * time.Millisecond
		sess.CreatedAt = parseTime(createdAt)
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return sessions, nil
}

// BestCoverage returns the best coverage for a room size, 0 if none.
func (s *Store) BestCoverage(roomSize int) (float64, error) {
	var best sql.NullFloat64
	err := s.db.QueryRow(
		s.rebind(`SELECT MAX(tiles_seen * 1.0 / tile_count) FROM sessions WHERE room_size = ? AND tile_count > 0`),
		roomSize,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best coverage: %w", err)
	}
	if !best.Valid {
		return 0, nil
	}
	return best.Float64, nil
}

// StatsBySize aggregates all sessions grouped by room size.
func (s *Store) StatsBySize() (map[int]*SizeStats, error) {
	rows, err := s.db.Query(
		`SELECT room_size, COUNT(*), COALESCE(MAX(tiles_seen * 1.0 / tile_count), 0), COALESCE(SUM(moves), 0), MAX(created_at)
		 FROM sessions
		 WHERE tile_count > 0
		 GROUP BY room_size`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get size stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[int]*SizeStats)
	for rows.Next() {
		var st SizeStats
		var lastPlayed any
		if err := rows.Scan(&st.RoomSize, &st.Sessions, &st.BestCoverage, &st.TotalMoves, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.RoomSize] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearSessions deletes every stored session.
func (s *Store) ClearSessions() error {
	if _, err := s.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// parseTime handles DATETIME columns scanned as either time.Time or text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	case []byte:
		if parsed, err := time.Parse("2006-01-02 15:04:05", string(t)); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
