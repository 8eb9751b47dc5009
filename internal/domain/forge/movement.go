package forge

import "monsterforge/internal/domain/world"

func (e *Engine) handleMove(st *tickState, in Intent) {
	mover := st.ownedMonster(in.PlayerID, in.EntityID)
	if mover == nil {
		return
	}
	d, ok := world.ParseDirection(in.Direction, in.DX, in.DY)
	if !ok {
		return
	}
	e.stepMonster(st, mover, d)
}

// stepMonster attempts one single-cell move, pushing a movable blocker
// out of the way when possible. Reports whether the mover advanced.
func (e *Engine) stepMonster(st *tickState, mover *Entity, d world.Delta) bool {
	target := mover.Rect().Shift(d)
	if !st.zone.InBounds(target) || st.zone.BlocksFootprint(target) {
		return false
	}

	blocker := st.blockerAt(target, mover.ID)
	if blocker == nil {
		e.placeMonster(st, mover, d)
		e.recordStep(st, mover, d)
		return true
	}
	if blocker.Kind != KindItem && blocker.Kind != KindWagon {
		return false
	}
	if !e.tryPush(st, mover, blocker, d) {
		return false
	}
	e.placeMonster(st, mover, d)
	st.emit(Event{
		Type:           EventPush,
		TargetPlayerID: mover.OwnerID,
		Data: map[string]any{
			"entity_id": mover.ID,
			"target_id": blocker.ID,
			"dx":        d.DX,
			"dy":        d.DY,
		},
	})
	e.recordStep(st, mover, d)
	return true
}

func (e *Engine) placeMonster(st *tickState, mover *Entity, d world.Delta) {
	vacated := mover.Pos
	mover.Pos = world.Point{X: vacated.X + d.DX, Y: vacated.Y + d.DY}
	st.touch(mover.ID)
	e.dragWagonChain(st, mover, vacated)
}

// dragWagonChain walks the hitched wagon chain; each wagon steps into
// the cell the one ahead of it just vacated.
func (e *Engine) dragWagonChain(st *tickState, mover *Entity, vacated world.Point) {
	wagonID := mover.Monster.Task.HitchedWagonID
	seen := map[string]bool{}
	for wagonID != "" && !seen[wagonID] {
		seen[wagonID] = true
		w := st.get(wagonID)
		if w == nil || w.Kind != KindWagon || w.Wagon == nil {
			return
		}
		next := w.Pos
		moveWagonTo(st, w, vacated)
		vacated = next
		wagonID = w.Wagon.NextWagonID
	}
}

// moveWagonTo relocates a wagon and carries its cargo rigidly by the
// stored anchor-relative offsets.
func moveWagonTo(st *tickState, w *Entity, to world.Point) {
	if w.Pos == to {
		return
	}
	w.Pos = to
	st.touch(w.ID)
	for _, it := range st.storedIn(w.ID) {
		it.Pos = world.Point{X: to.X + it.Item.StoredSlot.X, Y: to.Y + it.Item.StoredSlot.Y}
		st.touch(it.ID)
	}
}

// recordStep appends a successful step to the action log while the
// monster is recording. Playback steps are never re-recorded.
func (e *Engine) recordStep(st *tickState, mover *Entity, d world.Delta) {
	task := &mover.Monster.Task
	if !task.IsRecording || task.IsPlaying {
		return
	}
	task.Actions = append(task.Actions, RecordedAction{Action: "move", DX: d.DX, DY: d.DY})
	st.touch(mover.ID)
}
