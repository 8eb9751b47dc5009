package memory

import (
	"context"
	"sort"

	"monsterforge/internal/domain/forge"
)

type EntityRepo struct {
	store *Store
}

func NewEntityRepo(store *Store) EntityRepo {
	return EntityRepo{store: store}
}

// ListByZone returns the zone's records ordered by id so replays of
// the same tick see the same entity order.
func (r EntityRepo) ListByZone(ctx context.Context, zoneID string) ([]forge.Record, error) {
	defer r.store.reading(ctx)()
	zone := r.store.entities[zoneID]
	out := make([]forge.Record, 0, len(zone))
	for _, rec := range zone {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r EntityRepo) ApplyDiff(ctx context.Context, zoneID string, diff forge.RecordDiff) error {
	defer r.store.writing(ctx)()
	zone := r.store.entities[zoneID]
	if zone == nil {
		zone = make(map[string]forge.Record)
		r.store.entities[zoneID] = zone
	}
	for _, rec := range diff.Creates {
		zone[rec.ID] = rec
	}
	for _, rec := range diff.Updates {
		zone[rec.ID] = rec
	}
	for _, id := range diff.Deletes {
		delete(zone, id)
	}
	return nil
}
