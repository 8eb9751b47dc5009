package ports

import (
	"context"
	"time"

	"monsterforge/internal/domain/forge"
)

// IntentRecord is a queued player intent awaiting the next tick of its
// zone. Data holds the action's loose parameters exactly as submitted;
// they were validated once at intake.
type IntentRecord struct {
	ID             string
	ZoneID         string
	PlayerID       string
	IdempotencyKey string
	Action         string
	Data           map[string]any
	EnqueuedAt     time.Time
}

// EventRecord is a persisted tick event. TargetPlayerID empty means
// broadcast.
type EventRecord struct {
	ID             int64          `json:"id"`
	ZoneID         string         `json:"zone_id"`
	Tick           int64          `json:"tick"`
	Type           string         `json:"type"`
	Message        string         `json:"message,omitempty"`
	TargetPlayerID string         `json:"target_player_id,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
	OccurredAt     time.Time      `json:"occurred_at"`
}

type EntityRepository interface {
	ListByZone(ctx context.Context, zoneID string) ([]forge.Record, error)
	ApplyDiff(ctx context.Context, zoneID string, diff forge.RecordDiff) error
}

type IntentRepository interface {
	Enqueue(ctx context.Context, intent IntentRecord) error
	GetByIdempotencyKey(ctx context.Context, playerID, key string) (*IntentRecord, error)
	// DrainZone removes and returns the zone's pending intents in
	// arrival order.
	DrainZone(ctx context.Context, zoneID string) ([]IntentRecord, error)
	CountByZone(ctx context.Context, zoneID string) (int64, error)
}

type EventRepository interface {
	Append(ctx context.Context, zoneID string, tick int64, occurredAt time.Time, events []forge.Event) error
	// ListForPlayer returns the zone's broadcast events plus those
	// targeted at the player, most recent first.
	ListForPlayer(ctx context.Context, zoneID, playerID string, limit int) ([]EventRecord, error)
	// ListByZone returns events in [fromTick, toTick] (toTick 0 means
	// no upper bound), oldest first.
	ListByZone(ctx context.Context, zoneID string, fromTick, toTick int64, limit int) ([]EventRecord, error)
}

type PlayerCredentialRecord struct {
	PlayerID  string
	KeySalt   []byte
	KeyHash   []byte
	Status    string
	CreatedAt time.Time
}

type PlayerCredentialRepository interface {
	Create(ctx context.Context, credential PlayerCredentialRecord) error
	GetByPlayerID(ctx context.Context, playerID string) (PlayerCredentialRecord, error)
}

// ZoneClockRepository tracks the last completed tick per zone so the
// runner survives restarts without rewinding time.
type ZoneClockRepository interface {
	LastTick(ctx context.Context, zoneID string) (int64, error)
	SetLastTick(ctx context.Context, zoneID string, tick int64) error
}
