// Package persistence provides a SQLite catalog of map generation runs.
// Maps themselves are never stored; a run records enough to regenerate one.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexworld/internal/world"
)

// DB wraps a SQLite connection for the run catalog.
type DB struct {
	conn *sqlx.DB
}

// Run is one recorded call to world.Generate.
type Run struct {
	ID              int64  `db:"id" json:"id"`
	Seed            int64  `db:"seed" json:"seed"`
	Width           int    `db:"width" json:"width"`
	Height          int    `db:"height" json:"height"`
	Regions         int    `db:"regions" json:"regions"`
	EmptyRegions    int    `db:"empty_regions" json:"empty_regions"`
	ObstacleSource  string `db:"obstacle_source" json:"obstacle_source"`
	ObstaclesPlaced int    `db:"obstacles_placed" json:"obstacles_placed"`
	LinkCleared     int    `db:"link_cleared" json:"link_cleared"`
	RepairCleared   int    `db:"repair_cleared" json:"repair_cleared"`
	Walkable        int    `db:"walkable" json:"walkable"`
	DurationMS      int64  `db:"duration_ms" json:"duration_ms"`
	CreatedAt       int64  `db:"created_at" json:"created_at"` // unix seconds
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		regions INTEGER NOT NULL,
		empty_regions INTEGER NOT NULL,
		obstacle_source TEXT NOT NULL,
		obstacles_placed INTEGER NOT NULL,
		link_cleared INTEGER NOT NULL,
		repair_cleared INTEGER NOT NULL,
		walkable INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// NewRun builds a catalog entry from generation stats.
func NewRun(stats world.GenStats, source world.ObstacleSource) Run {
	if source == "" {
		source = world.UniformObstacles
	}
	return Run{
		Seed:            stats.Seed,
		Width:           stats.Width,
		Height:          stats.Height,
		Regions:         stats.Regions,
		EmptyRegions:    stats.EmptyRegions,
		ObstacleSource:  string(source),
		ObstaclesPlaced: stats.ObstaclesPlaced,
		LinkCleared:     stats.LinkCleared,
		RepairCleared:   stats.RepairCleared,
		Walkable:        stats.Walkable,
		DurationMS:      stats.Elapsed.Milliseconds(),
		CreatedAt:       time.Now().Unix(),
	}
}

// SaveRun records a run and remembers its seed as the last one used.
// Returns the new run id.
func (db *DB) SaveRun(run Run) (int64, error) {
	tx, err := db.conn.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.NamedExec(`INSERT INTO runs
		(seed, width, height, regions, empty_regions, obstacle_source,
		 obstacles_placed, link_cleared, repair_cleared, walkable, duration_ms, created_at)
		VALUES (:seed, :width, :height, :regions, :empty_regions, :obstacle_source,
		 :obstacles_placed, :link_cleared, :repair_cleared, :walkable, :duration_ms, :created_at)`, run)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		"last_seed", strconv.FormatInt(run.Seed, 10),
	); err != nil {
		return 0, fmt.Errorf("save meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	slog.Debug("run recorded", "id", id, "seed", run.Seed)
	return id, nil
}

// RecentRuns returns the most recent N runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs, "SELECT * FROM runs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run by id.
func (db *DB) GetRun(id int64) (Run, error) {
	var run Run
	err := db.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", id)
	return run, err
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// LastSeed returns the seed of the most recent run, or 0 if nothing has
// been recorded yet.
func (db *DB) LastSeed() (int64, error) {
	v, err := db.GetMeta("last_seed")
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get last seed: %w", err)
	}
	seed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse last seed %q: %w", v, err)
	}
	return seed, nil
}
