package savedb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"seacraft/internal/persistence/snapshot"
)

// DB is the save-slot index: a small sqlite table over the snapshot files on
// disk, so resume can find the latest save without scanning the data dir.
// The snapshot files themselves remain the source of truth.
type DB struct {
	mu sync.Mutex
	db *sql.DB
}

type SaveRow struct {
	SaveID         string
	Tick           uint64
	Path           string
	Seed           int64
	Tiles          int
	HealthPercent  float64
	StormIntensity float64
	RecordedAt     string
}

func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS saves (
			save_id TEXT PRIMARY KEY,
			tick INTEGER NOT NULL,
			path TEXT NOT NULL,
			seed INTEGER NOT NULL,
			tiles INTEGER NOT NULL,
			health_percent REAL NOT NULL,
			storm_intensity REAL NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_saves_tick ON saves(tick);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.db.Close()
}

// RecordSave indexes a snapshot file that was just written.
func (d *DB) RecordSave(path string, snap snapshot.SnapshotV1, healthPercent float64) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := uuid.New().String()
	_, err := d.db.Exec(
		`INSERT INTO saves (save_id, tick, path, seed, tiles, health_percent, storm_intensity, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, int64(snap.Header.Tick), path, snap.Seed, len(snap.Tiles),
		healthPercent, snap.StormIntensity, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("record save: %w", err)
	}
	return id, nil
}

// Latest returns the save with the highest tick, if any.
func (d *DB) Latest() (SaveRow, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	row := d.db.QueryRow(
		`SELECT save_id, tick, path, seed, tiles, health_percent, storm_intensity, recorded_at
		 FROM saves ORDER BY tick DESC, recorded_at DESC LIMIT 1`)
	var r SaveRow
	var tick int64
	err := row.Scan(&r.SaveID, &tick, &r.Path, &r.Seed, &r.Tiles,
		&r.HealthPercent, &r.StormIntensity, &r.RecordedAt)
	if err == sql.ErrNoRows {
		return SaveRow{}, false, nil
	}
	if err != nil {
		return SaveRow{}, false, err
	}
	r.Tick = uint64(tick)
	return r, true, nil
}

// List returns up to limit saves, newest first.
func (d *DB) List(limit int) ([]SaveRow, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(
		`SELECT save_id, tick, path, seed, tiles, health_percent, storm_intensity, recorded_at
		 FROM saves ORDER BY tick DESC, recorded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaveRow
	for rows.Next() {
		var r SaveRow
		var tick int64
		if err := rows.Scan(&r.SaveID, &tick, &r.Path, &r.Seed, &r.Tiles,
			&r.HealthPercent, &r.StormIntensity, &r.RecordedAt); err != nil {
			return nil, err
		}
		r.Tick = uint64(tick)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SetMeta / GetMeta store small key-value pairs (catalog digests, tuning
// fingerprints) alongside the saves.
func (d *DB) SetMeta(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.db.Exec(
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	return err
}

func (d *DB) GetMeta(key string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var v string
	err := d.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
