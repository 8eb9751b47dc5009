package memory

import (
	"context"

	"monsterforge/internal/app/ports"
)

type IntentRepo struct {
	store *Store
}

func NewIntentRepo(store *Store) IntentRepo {
	return IntentRepo{store: store}
}

func (r IntentRepo) Enqueue(ctx context.Context, intent ports.IntentRecord) error {
	defer r.store.writing(ctx)()
	if intent.IdempotencyKey != "" {
		k := intentKey(intent.PlayerID, intent.IdempotencyKey)
		if _, exists := r.store.byKey[k]; exists {
			return ports.ErrConflict
		}
		r.store.byKey[k] = intent
	}
	r.store.pending[intent.ZoneID] = append(r.store.pending[intent.ZoneID], intent)
	return nil
}

func (r IntentRepo) GetByIdempotencyKey(ctx context.Context, playerID, key string) (*ports.IntentRecord, error) {
	defer r.store.reading(ctx)()
	rec, ok := r.store.byKey[intentKey(playerID, key)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := rec
	return &copy, nil
}

// DrainZone empties the pending queue. Keyed intents stay in byKey so
// duplicate submissions after the tick still replay.
func (r IntentRepo) DrainZone(ctx context.Context, zoneID string) ([]ports.IntentRecord, error) {
	defer r.store.writing(ctx)()
	drained := r.store.pending[zoneID]
	delete(r.store.pending, zoneID)
	return drained, nil
}

func (r IntentRepo) CountByZone(ctx context.Context, zoneID string) (int64, error) {
	defer r.store.reading(ctx)()
	return int64(len(r.store.pending[zoneID])), nil
}
