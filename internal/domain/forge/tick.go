package forge

import (
	"math/rand"
	"time"

	"monsterforge/internal/domain/world"
)

// tickState is the working set for one tick: cloned entities in a
// stable-order arena plus the accumulated diff and events. All intent
// handlers and per-tick passes mutate only this state.
type tickState struct {
	zoneID string
	zone   world.ZoneDef
	tick   int64
	now    time.Time
	rng    *rand.Rand

	entities map[string]*Entity
	order    []string
	created  map[string]bool
	updated  map[string]bool
	deleted  map[string]bool
	events   []Event

	// pushedBy records which monster pushed each entity this tick, so a
	// second mover contends instead of double-moving it.
	pushedBy map[string]string
}

func newTickState(e *Engine, zoneID string, entities []*Entity, tick int64) *tickState {
	st := &tickState{
		zoneID:   zoneID,
		zone:     e.zoneDef(zoneID),
		tick:     tick,
		now:      e.now(),
		rng:      e.tickRand(zoneID, tick),
		entities: make(map[string]*Entity, len(entities)),
		order:    make([]string, 0, len(entities)),
		created:  map[string]bool{},
		updated:  map[string]bool{},
		deleted:  map[string]bool{},
		pushedBy: map[string]string{},
	}
	for _, src := range entities {
		if src == nil || src.ID == "" {
			continue
		}
		if _, dup := st.entities[src.ID]; dup {
			continue
		}
		st.entities[src.ID] = src.Clone()
		st.order = append(st.order, src.ID)
	}
	return st
}

func (st *tickState) get(id string) *Entity {
	if id == "" || st.deleted[id] {
		return nil
	}
	return st.entities[id]
}

// ids returns a snapshot of live entity ids in arena order, safe to
// range over while creating entities.
func (st *tickState) ids() []string {
	out := make([]string, 0, len(st.order))
	for _, id := range st.order {
		if !st.deleted[id] {
			out = append(out, id)
		}
	}
	return out
}

// create mints an id if absent and registers the entity as a creation.
func (st *tickState) create(e *Entity, newID func() string) *Entity {
	if e.ID == "" {
		e.ID = newID()
	}
	e.ZoneID = st.zoneID
	e.Size = normSize(e.Size)
	st.entities[e.ID] = e
	st.order = append(st.order, e.ID)
	st.created[e.ID] = true
	return e
}

// touch marks a pre-existing entity as updated.
func (st *tickState) touch(id string) {
	if st.created[id] || st.deleted[id] {
		return
	}
	st.updated[id] = true
}

// remove deletes an entity from the diff. Created-then-removed
// entities vanish entirely: the caller never saw them.
func (st *tickState) remove(id string) {
	delete(st.updated, id)
	st.deleted[id] = true
}

func (st *tickState) emit(ev Event) {
	ev.Tick = st.tick
	st.events = append(st.events, ev)
}

func (st *tickState) emitError(playerID, message string, data map[string]any) {
	st.emit(Event{Type: EventError, Message: message, TargetPlayerID: playerID, Data: data})
}

// blockerAt returns the first blocking entity overlapping the rect, in
// arena order, excluding the given id.
func (st *tickState) blockerAt(r world.Rect, excludeID string) *Entity {
	for _, id := range st.order {
		if id == excludeID || st.deleted[id] {
			continue
		}
		e := st.entities[id]
		if e.Blocking() && e.Rect().Overlaps(r) {
			return e
		}
	}
	return nil
}

// at returns all live entities overlapping the rect, in arena order.
func (st *tickState) at(r world.Rect) []*Entity {
	var out []*Entity
	for _, id := range st.order {
		if st.deleted[id] {
			continue
		}
		e := st.entities[id]
		if e.Rect().Overlaps(r) {
			out = append(out, e)
		}
	}
	return out
}

func (st *tickState) kindAt(k Kind, r world.Rect) *Entity {
	for _, e := range st.at(r) {
		if e.Kind == k {
			return e
		}
	}
	return nil
}

// storedIn lists live items stored in the given container, arena order.
func (st *tickState) storedIn(containerID string) []*Entity {
	var out []*Entity
	for _, id := range st.order {
		if st.deleted[id] {
			continue
		}
		e := st.entities[id]
		if e.Kind == KindItem && e.Item != nil && e.Item.IsStored && e.Item.ContainerID == containerID {
			out = append(out, e)
		}
	}
	return out
}

// commune finds the player's commune, lazily creating it with the
// starting balance on first need.
func (st *tickState) commune(playerID string, newID func() string) *Entity {
	for _, id := range st.order {
		if st.deleted[id] {
			continue
		}
		e := st.entities[id]
		if e.Kind == KindCommune && e.OwnerID == playerID {
			return e
		}
	}
	return st.create(&Entity{
		Kind:    KindCommune,
		OwnerID: playerID,
		Size:    world.Size{W: 1, H: 1},
		Commune: &CommuneData{Renown: StartingRenown},
	}, newID)
}

// ownedMonster resolves an entity id to a monster owned by the player,
// or nil: the silent no-op guard shared by most handlers.
func (st *tickState) ownedMonster(playerID, entityID string) *Entity {
	e := st.get(entityID)
	if e == nil || e.Kind != KindMonster || e.Monster == nil {
		return nil
	}
	if e.OwnerID == "" || e.OwnerID != playerID {
		return nil
	}
	return e
}

func (st *tickState) result() TickResult {
	var res TickResult
	for _, id := range st.order {
		if st.deleted[id] {
			continue
		}
		e := st.entities[id]
		switch {
		case st.created[id]:
			res.Creates = append(res.Creates, e)
		case st.updated[id]:
			res.Updates = append(res.Updates, e)
		}
	}
	for _, id := range st.order {
		if st.deleted[id] && !st.created[id] {
			res.Deletes = append(res.Deletes, id)
		}
	}
	res.Events = st.events
	return res
}
