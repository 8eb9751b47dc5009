package memory

import (
	"context"
	"time"

	"monsterforge/internal/app/ports"
	"monsterforge/internal/domain/forge"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(ctx context.Context, zoneID string, tick int64, occurredAt time.Time, events []forge.Event) error {
	defer r.store.writing(ctx)()
	for _, e := range events {
		r.store.nextEventID++
		r.store.events[zoneID] = append(r.store.events[zoneID], ports.EventRecord{
			ID:             r.store.nextEventID,
			ZoneID:         zoneID,
			Tick:           tick,
			Type:           e.Type,
			Message:        e.Message,
			TargetPlayerID: e.TargetPlayerID,
			Data:           e.Data,
			OccurredAt:     occurredAt,
		})
	}
	return nil
}

func (r EventRepo) ListForPlayer(ctx context.Context, zoneID, playerID string, limit int) ([]ports.EventRecord, error) {
	defer r.store.reading(ctx)()
	all := r.store.events[zoneID]
	out := make([]ports.EventRecord, 0)
	for i := len(all) - 1; i >= 0; i-- {
		ev := all[i]
		if ev.TargetPlayerID != "" && ev.TargetPlayerID != playerID {
			continue
		}
		out = append(out, ev)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r EventRepo) ListByZone(ctx context.Context, zoneID string, fromTick, toTick int64, limit int) ([]ports.EventRecord, error) {
	defer r.store.reading(ctx)()
	out := make([]ports.EventRecord, 0)
	for _, ev := range r.store.events[zoneID] {
		if fromTick > 0 && ev.Tick < fromTick {
			continue
		}
		if toTick > 0 && ev.Tick > toTick {
			continue
		}
		out = append(out, ev)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
