package forge

import "monsterforge/internal/domain/world"

// Recording and playback are mutually exclusive per monster. Starting a
// recording discards the previous sequence; starting playback rewinds it.

func (e *Engine) handleStartRecording(st *tickState, in Intent) {
	mon := st.ownedMonster(in.PlayerID, in.EntityID)
	if mon == nil {
		return
	}
	task := &mon.Monster.Task
	task.IsRecording = true
	task.IsPlaying = false
	task.Actions = nil
	task.PlayIndex = 0
	st.touch(mon.ID)
}

func (e *Engine) handleStopRecording(st *tickState, in Intent) {
	mon := st.ownedMonster(in.PlayerID, in.EntityID)
	if mon == nil || !mon.Monster.Task.IsRecording {
		return
	}
	mon.Monster.Task.IsRecording = false
	st.touch(mon.ID)
}

func (e *Engine) handleStartPlayback(st *tickState, in Intent) {
	mon := st.ownedMonster(in.PlayerID, in.EntityID)
	if mon == nil {
		return
	}
	task := &mon.Monster.Task
	if len(task.Actions) == 0 {
		st.emitError(in.PlayerID, "Nothing recorded to play back", map[string]any{
			"entity_id": mon.ID,
		})
		return
	}
	task.IsPlaying = true
	task.IsRecording = false
	task.PlayIndex = 0
	st.touch(mon.ID)
}

func (e *Engine) handleStopPlayback(st *tickState, in Intent) {
	mon := st.ownedMonster(in.PlayerID, in.EntityID)
	if mon == nil || !mon.Monster.Task.IsPlaying {
		return
	}
	mon.Monster.Task.IsPlaying = false
	st.touch(mon.ID)
}

// handleDisconnect stops any in-progress recordings for the player's
// monsters. Playback keeps running while the player is away.
func (e *Engine) handleDisconnect(st *tickState, in Intent) {
	if in.PlayerID == "" {
		return
	}
	for _, id := range st.ids() {
		mon := st.get(id)
		if mon == nil || mon.Kind != KindMonster || mon.Monster == nil || mon.OwnerID != in.PlayerID {
			continue
		}
		if mon.Monster.Task.IsRecording {
			mon.Monster.Task.IsRecording = false
			st.touch(id)
		}
	}
}

// stepAutorepeat replays one recorded action per playing monster each
// tick, wrapping back to the start of the sequence. A blocked step still
// advances the cursor.
func (e *Engine) stepAutorepeat(st *tickState) {
	for _, id := range st.ids() {
		mon := st.get(id)
		if mon == nil || mon.Kind != KindMonster || mon.Monster == nil {
			continue
		}
		task := &mon.Monster.Task
		if !task.IsPlaying || len(task.Actions) == 0 {
			continue
		}
		if task.PlayIndex < 0 || task.PlayIndex >= len(task.Actions) {
			task.PlayIndex = 0
		}
		action := task.Actions[task.PlayIndex]
		task.PlayIndex = (task.PlayIndex + 1) % len(task.Actions)
		st.touch(mon.ID)
		if action.Action != "move" {
			continue
		}
		d, ok := world.ParseDirection("", action.DX, action.DY)
		if !ok {
			continue
		}
		e.stepMonster(st, mon, d)
	}
}
