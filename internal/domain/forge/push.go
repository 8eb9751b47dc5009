package forge

import (
	"fmt"

	"monsterforge/internal/domain/world"
)

const wagonBaseWeight = 5.0

// tryPush validates claim and weight, then resolves the destination.
// A successful push records the mover's claim so a second monster
// contends instead of moving the same thing twice in one tick.
func (e *Engine) tryPush(st *tickState, mover, target *Entity, d world.Delta) bool {
	if target.Kind == KindItem && target.Item != nil && target.Item.IsStored {
		return false
	}
	if target.Kind == KindWagon && e.wagonHitched(st, target.ID) {
		return false
	}
	if prev, claimed := st.pushedBy[target.ID]; claimed && prev != mover.ID {
		st.emit(Event{
			Type:           EventBlocked,
			TargetPlayerID: mover.OwnerID,
			Message:        "Someone else is pushing that",
			Data:           map[string]any{"target_id": target.ID},
		})
		return false
	}

	capacity := e.effectiveStrength(st, mover.Monster)
	weight := e.entityWeight(st, target)
	if capacity < weight {
		st.emit(Event{
			Type:           EventBlocked,
			TargetPlayerID: mover.OwnerID,
			Message:        fmt.Sprintf("Too heavy to push (%.1f < %.1f)", capacity, weight),
			Data:           map[string]any{"target_id": target.ID},
		})
		return false
	}

	dest := target.Rect().Shift(d)
	if !st.zone.InBounds(dest) || st.zone.BlocksFootprint(dest) {
		return false
	}
	if !e.resolvePush(st, mover, target, dest) {
		return false
	}
	st.pushedBy[target.ID] = mover.ID
	return true
}

// resolvePush lands the pushed entity at its destination, in priority
// order: workshop interior, dispenser, delivery, wagon, open ground.
// Any other blocker aborts the whole push.
func (e *Engine) resolvePush(st *tickState, mover, item *Entity, dest world.Rect) bool {
	if item.Kind == KindWagon {
		if st.blockerAt(dest, item.ID) != nil {
			return false
		}
		moveWagonTo(st, item, dest.Pos)
		return true
	}

	if s := e.structureInteriorAt(st, dest); s != nil {
		return e.depositIntoStructure(st, mover, item, s, dest.Pos)
	}
	if disp := st.kindAt(KindDispenser, dest); disp != nil {
		return e.depositIntoContainer(st, item, disp, dispenserCapacity(disp), dest.Pos)
	}
	if del := st.kindAt(KindDelivery, dest); del != nil {
		return e.deliverItem(st, mover, item, del)
	}
	if wag := st.kindAt(KindWagon, dest); wag != nil {
		return e.depositIntoContainer(st, item, wag, wagonCapacity(wag), dest.Pos)
	}
	if st.blockerAt(dest, item.ID) != nil {
		return false
	}
	item.Pos = dest.Pos
	st.touch(item.ID)
	return true
}

// structureInteriorAt finds a workshop or gathering spot whose strict
// interior contains the whole destination footprint.
func (e *Engine) structureInteriorAt(st *tickState, dest world.Rect) *Entity {
	for _, id := range st.order {
		if st.deleted[id] {
			continue
		}
		s := st.entities[id]
		if !s.IsStructure() {
			continue
		}
		in := s.Rect().Interior()
		if in.Contains(dest.Pos) && in.Contains(world.Point{
			X: dest.Pos.X + dest.Size.W - 1,
			Y: dest.Pos.Y + dest.Size.H - 1,
		}) {
			return s
		}
	}
	return nil
}

func (e *Engine) depositIntoStructure(st *tickState, mover, item *Entity, s *Entity, cell world.Point) bool {
	if item.Item == nil || s.Workshop == nil {
		return false
	}
	isTool := e.itemIsTool(item)
	if s.Kind == KindGatheringSpot && !isTool {
		st.emit(Event{
			Type:           EventBlocked,
			TargetPlayerID: mover.OwnerID,
			Message:        "Gathering spots only take tools",
			Data:           map[string]any{"target_id": s.ID},
		})
		return false
	}
	if s.Workshop.SelectedRecipeID != "" {
		if good, ok := e.catalog.Good(s.Workshop.SelectedRecipeID); ok {
			sz := normSize(item.Size)
			max := normSize(good.Size)
			if sz.W > max.W || sz.H > max.H {
				st.emit(Event{
					Type:           EventBlocked,
					TargetPlayerID: mover.OwnerID,
					Message:        "Too large for the selected recipe",
					Data:           map[string]any{"target_id": s.ID},
				})
				return false
			}
		}
	}

	slot := world.Point{X: cell.X - s.Pos.X, Y: cell.Y - s.Pos.Y}
	footprint := world.Rect{Pos: slot, Size: normSize(item.Size)}
	for _, stored := range st.storedIn(s.ID) {
		occupied := world.Rect{Pos: stored.Item.StoredSlot, Size: normSize(stored.Size)}
		if occupied.Overlaps(footprint) {
			return false
		}
	}

	role := StoredRoleInput
	if s.Kind == KindGatheringSpot || (isTool && cell.X == s.Rect().Interior().Pos.X) {
		role = StoredRoleTool
	}
	item.Item.IsStored = true
	item.Item.ContainerID = s.ID
	item.Item.StoredSlot = slot
	item.Item.StoredRole = role
	item.Pos = cell
	st.touch(item.ID)

	if role == StoredRoleTool {
		s.Workshop.ToolItemIDs = append(s.Workshop.ToolItemIDs, item.ID)
	} else {
		s.Workshop.InputItemIDs = append(s.Workshop.InputItemIDs, item.ID)
	}
	st.touch(s.ID)
	return true
}

// depositIntoContainer covers dispensers and wagons: unit-count
// capacity, and the good type must match the container's declared type
// or anything already inside. The stored slot is kept anchor-relative
// so wagon cargo rides rigidly.
func (e *Engine) depositIntoContainer(st *tickState, item, container *Entity, capacity int, cell world.Point) bool {
	if item.Item == nil {
		return false
	}
	if container.Dispenser != nil && container.Dispenser.GoodType != "" &&
		NormalizeKey(container.Dispenser.GoodType) != NormalizeKey(item.Item.GoodType) {
		return false
	}
	stored := st.storedIn(container.ID)
	if len(stored) >= capacity {
		return false
	}
	for _, other := range stored {
		if other.Item.GoodType != item.Item.GoodType {
			return false
		}
	}
	item.Item.IsStored = true
	item.Item.ContainerID = container.ID
	item.Item.StoredSlot = world.Point{X: cell.X - container.Pos.X, Y: cell.Y - container.Pos.Y}
	item.Item.StoredRole = StoredRoleCargo
	item.Pos = cell
	st.touch(item.ID)
	st.touch(container.ID)
	return true
}

func dispenserCapacity(d *Entity) int {
	if d.Dispenser != nil && d.Dispenser.Capacity > 0 {
		return d.Dispenser.Capacity
	}
	return DefaultDispenserCapacity
}

func wagonCapacity(w *Entity) int {
	if w.Wagon != nil && w.Wagon.Capacity > 0 {
		return w.Wagon.Capacity
	}
	return DefaultWagonCapacity
}

func (e *Engine) itemIsTool(item *Entity) bool {
	if item.Item == nil {
		return false
	}
	if item.Item.MaxDurability > 0 {
		return true
	}
	if good, ok := e.catalog.Good(item.Item.GoodType); ok {
		return good.IsTool()
	}
	return false
}

// entityWeight is the push-resistance of an entity: items carry their
// own weight, wagons weigh their base plus cargo.
func (e *Engine) entityWeight(st *tickState, ent *Entity) float64 {
	switch ent.Kind {
	case KindItem:
		if ent.Item == nil {
			return 1
		}
		if ent.Item.Weight > 0 {
			return ent.Item.Weight
		}
		return 1
	case KindWagon:
		w := wagonBaseWeight
		for _, it := range st.storedIn(ent.ID) {
			w += it.Item.Weight
		}
		return w
	default:
		return 0
	}
}

func (e *Engine) wagonHitched(st *tickState, wagonID string) bool {
	for _, id := range st.order {
		if st.deleted[id] {
			continue
		}
		ent := st.entities[id]
		if ent.Kind == KindMonster && ent.Monster != nil && ent.Monster.Task.HitchedWagonID == wagonID {
			return true
		}
		if ent.Kind == KindWagon && ent.Wagon != nil && ent.Wagon.NextWagonID == wagonID {
			return true
		}
	}
	return false
}
