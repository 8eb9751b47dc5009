package ports

import (
	"context"

	"monsterforge/internal/domain/forge"
)

// SnapshotArchiver stores periodic full-zone snapshots for cold
// restore and postmortems.
type SnapshotArchiver interface {
	Save(ctx context.Context, zoneID string, tick int64, records []forge.Record) error
	// Latest returns the newest archived snapshot at or below tick
	// (tick 0 means newest overall). ErrNotFound when none exists.
	Latest(ctx context.Context, zoneID string, tick int64) (int64, []forge.Record, error)
}
