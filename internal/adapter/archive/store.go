// Package archive persists periodic full-zone snapshots as
// zstd-compressed JSON files and indexes them in a small sqlite
// database so the newest snapshot per zone is one query away.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"monsterforge/internal/app/ports"
	"monsterforge/internal/domain/forge"
)

type snapshotFile struct {
	ZoneID  string         `json:"zone_id"`
	Tick    int64          `json:"tick"`
	SavedAt time.Time      `json:"saved_at"`
	Records []forge.Record `json:"records"`
}

type Store struct {
	dir string
	db  *sql.DB

	// sqlite via modernc is single-writer; serialize writes here
	// instead of relying on busy timeouts.
	mu sync.Mutex
}

func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty archive dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("open archive index: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS snapshots (
  zone_id    TEXT NOT NULL,
  tick       INTEGER NOT NULL,
  path       TEXT NOT NULL,
  entities   INTEGER NOT NULL,
  created_at TEXT NOT NULL,
  PRIMARY KEY (zone_id, tick)
);`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init archive index: %w", err)
		}
	}

	return &Store{dir: dir, db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, zoneID string, tick int64, records []forge.Record) error {
	if zoneID == "" {
		return fmt.Errorf("empty zone id")
	}
	rel := filepath.Join(zoneID, fmt.Sprintf("%012d.json.zst", tick))
	path := filepath.Join(s.dir, rel)

	snap := snapshotFile{
		ZoneID:  zoneID,
		Tick:    tick,
		SavedAt: time.Now().UTC(),
		Records: records,
	}
	if err := writeSnapshot(path, snap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (zone_id, tick, path, entities, created_at) VALUES (?, ?, ?, ?, ?)`,
		zoneID, tick, rel, len(records), snap.SavedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("index snapshot: %w", err)
	}
	return nil
}

func (s *Store) Latest(ctx context.Context, zoneID string, tick int64) (int64, []forge.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT tick, path FROM snapshots WHERE zone_id = ? AND (? = 0 OR tick <= ?) ORDER BY tick DESC LIMIT 1`,
		zoneID, tick, tick)

	var foundTick int64
	var rel string
	if err := row.Scan(&foundTick, &rel); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, ports.ErrNotFound
		}
		return 0, nil, fmt.Errorf("query snapshot index: %w", err)
	}

	snap, err := readSnapshot(filepath.Join(s.dir, rel))
	if err != nil {
		return 0, nil, err
	}
	return foundTick, snap.Records, nil
}

func writeSnapshot(path string, snap snapshotFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := json.NewEncoder(enc).Encode(snap); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close()
}

func readSnapshot(path string) (snapshotFile, error) {
	var snap snapshotFile
	f, err := os.Open(path)
	if err != nil {
		return snap, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	if err := json.NewDecoder(dec).Decode(&snap); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
