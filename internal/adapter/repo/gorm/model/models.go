// Package model holds the row types backing the zone store. Entity
// and intent payloads travel as JSON columns so the schema survives
// catalog changes without migrations.
package model

import "time"

type ZoneEntity struct {
	ID        string `gorm:"primaryKey;size:64"`
	ZoneID    string `gorm:"size:64;index:idx_zone_entities_zone"`
	Kind      string `gorm:"size:32"`
	X         int32
	Y         int32
	W         int32
	H         int32
	OwnerID   string `gorm:"size:64"`
	Meta      []byte
	UpdatedAt time.Time
}

func (ZoneEntity) TableName() string { return "zone_entities" }

// ZoneIntent rows are never deleted: draining flips Status so the
// idempotency key lookup keeps working across ticks. Seq preserves
// arrival order.
type ZoneIntent struct {
	Seq            int64  `gorm:"primaryKey;autoIncrement"`
	ID             string `gorm:"uniqueIndex;size:64"`
	ZoneID         string `gorm:"size:64;index:idx_zone_intents_zone"`
	PlayerID       string `gorm:"size:64"`
	IdempotencyKey string `gorm:"size:128"`
	Action         string `gorm:"size:64"`
	Data           []byte
	Status         string `gorm:"size:16"`
	EnqueuedAt     time.Time
}

func (ZoneIntent) TableName() string { return "zone_intents" }

type ZoneEvent struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	ZoneID         string `gorm:"size:64;index:idx_zone_events_zone"`
	Tick           int64
	Type           string `gorm:"size:32"`
	Message        string
	TargetPlayerID string `gorm:"size:64"`
	Data           []byte
	OccurredAt     time.Time
}

func (ZoneEvent) TableName() string { return "zone_events" }

type PlayerCredential struct {
	PlayerID  string `gorm:"primaryKey;size:64"`
	KeySalt   []byte
	KeyHash   []byte
	Status    string `gorm:"size:16"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PlayerCredential) TableName() string { return "player_credentials" }

type ZoneClock struct {
	ZoneID    string `gorm:"primaryKey;size:64"`
	LastTick  int64
	UpdatedAt time.Time
}

func (ZoneClock) TableName() string { return "zone_clocks" }
