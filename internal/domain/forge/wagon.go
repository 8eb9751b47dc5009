package forge

import "monsterforge/internal/domain/world"

// Wagons chain behind a monster: the monster records the head wagon and
// each wagon records the next. Hitching requires adjacency to the chain
// tail; a wagon already claimed by any chain resists silently.

func (e *Engine) handleHitchWagon(st *tickState, in Intent) {
	mon := st.ownedMonster(in.PlayerID, in.EntityID)
	if mon == nil {
		return
	}
	wagon := st.get(in.WagonID)
	if wagon == nil || wagon.Kind != KindWagon || wagon.Wagon == nil {
		return
	}
	if wagon.OwnerID != "" && wagon.OwnerID != in.PlayerID {
		return
	}
	if e.wagonHitched(st, wagon.ID) {
		return
	}
	tail, tailRect := e.chainTail(st, mon)
	if !tailRect.Adjacent(wagon.Rect()) {
		st.emitError(in.PlayerID, "Wagon is out of reach", map[string]any{
			"entity_id": mon.ID,
			"wagon_id":  wagon.ID,
		})
		return
	}
	if tail == nil {
		mon.Monster.Task.HitchedWagonID = wagon.ID
		st.touch(mon.ID)
		return
	}
	tail.Wagon.NextWagonID = wagon.ID
	st.touch(tail.ID)
}

// chainTail walks the monster's wagon chain and returns the last wagon,
// or nil with the monster's own rect when nothing is hitched yet.
func (e *Engine) chainTail(st *tickState, mon *Entity) (*Entity, world.Rect) {
	id := mon.Monster.Task.HitchedWagonID
	var tail *Entity
	seen := map[string]bool{}
	for id != "" && !seen[id] {
		seen[id] = true
		w := st.get(id)
		if w == nil || w.Kind != KindWagon || w.Wagon == nil {
			break
		}
		tail = w
		id = w.Wagon.NextWagonID
	}
	if tail == nil {
		return nil, mon.Rect()
	}
	return tail, tail.Rect()
}

func (e *Engine) handleUnhitchWagon(st *tickState, in Intent) {
	mon := st.ownedMonster(in.PlayerID, in.EntityID)
	if mon == nil || mon.Monster.Task.HitchedWagonID == "" {
		return
	}
	// Releasing the head releases the whole chain; the wagons keep their
	// own links so re-hitching the head picks the train back up.
	mon.Monster.Task.HitchedWagonID = ""
	st.touch(mon.ID)
}

// handleUnloadWagon places cargo onto free cells around the wagon,
// nearest first. Items that do not fit stay loaded.
func (e *Engine) handleUnloadWagon(st *tickState, in Intent) {
	wagon := st.get(in.WagonID)
	if wagon == nil || wagon.Kind != KindWagon || wagon.Wagon == nil {
		return
	}
	if wagon.OwnerID != "" && wagon.OwnerID != in.PlayerID {
		return
	}
	cargo := st.storedIn(wagon.ID)
	if len(cargo) == 0 {
		return
	}
	placed := 0
	for _, item := range cargo {
		cell, ok := e.openSpotAround(st, wagon.Rect(), item.Size)
		if !ok {
			break
		}
		item.Item.IsStored = false
		item.Item.ContainerID = ""
		item.Item.StoredSlot = world.Point{}
		item.Pos = cell
		st.touch(item.ID)
		placed++
	}
	if placed > 0 {
		st.touch(wagon.ID)
	}
	if placed < len(cargo) {
		st.emitError(in.PlayerID, "Not enough room to unload everything", map[string]any{
			"wagon_id": wagon.ID,
			"unloaded": placed,
			"left":     len(cargo) - placed,
		})
	}
}

// openSpotAround finds the first cell bordering the rect where a
// footprint of the given size fits, scanning row-major. Items placed
// earlier in the same pass count as blockers.
func (e *Engine) openSpotAround(st *tickState, r world.Rect, size world.Size) (world.Point, bool) {
	size = normSize(size)
	for y := r.Pos.Y - size.H; y <= r.Pos.Y+r.Size.H; y++ {
		for x := r.Pos.X - size.W; x <= r.Pos.X+r.Size.W; x++ {
			spot := world.Rect{Pos: world.Point{X: x, Y: y}, Size: size}
			if spot.Overlaps(r) {
				continue
			}
			if !spot.Adjacent(r) {
				continue
			}
			if !st.zone.InBounds(spot) || st.zone.BlocksFootprint(spot) {
				continue
			}
			if st.blockerAt(spot, "") != nil {
				continue
			}
			return spot.Pos, true
		}
	}
	return world.Point{}, false
}
