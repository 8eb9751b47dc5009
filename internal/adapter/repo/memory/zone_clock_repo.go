package memory

import "context"

type ZoneClockRepo struct {
	store *Store
}

func NewZoneClockRepo(store *Store) ZoneClockRepo {
	return ZoneClockRepo{store: store}
}

func (r ZoneClockRepo) LastTick(ctx context.Context, zoneID string) (int64, error) {
	defer r.store.reading(ctx)()
	return r.store.clocks[zoneID], nil
}

func (r ZoneClockRepo) SetLastTick(ctx context.Context, zoneID string, tick int64) error {
	defer r.store.writing(ctx)()
	r.store.clocks[zoneID] = tick
	return nil
}
