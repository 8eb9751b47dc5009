package replay

import (
	"monsterforge/internal/app/ports"
	"monsterforge/internal/domain/forge"
)

type Request struct {
	ZoneID   string
	FromTick int64
	ToTick   int64
	Limit    int
}

type Response struct {
	ZoneID       string              `json:"zone_id"`
	Events       []ports.EventRecord `json:"events"`
	SnapshotTick int64               `json:"snapshot_tick,omitempty"`
	Snapshot     []forge.Record      `json:"snapshot,omitempty"`
}
