package ports

import (
	"context"

	"monsterforge/internal/domain/forge"
)

// EventPublisher fans a tick's events out to live subscribers. Publish
// failures must not fail the tick; callers log and move on.
type EventPublisher interface {
	PublishTick(ctx context.Context, zoneID string, tick int64, events []forge.Event) error
}
