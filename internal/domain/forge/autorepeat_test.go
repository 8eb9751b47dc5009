package forge

import (
	"testing"

	"monsterforge/internal/domain/world"
)

func taskIntent(player, entityID string, typ IntentType) Intent {
	return Intent{PlayerID: player, Type: typ, EntityID: entityID}
}

func TestRecordingThenPlaybackLoops(t *testing.T) {
	e := newTestEngine(testZone())
	entities := []*Entity{testMarker(), testMonster("m1", "p1", 5, 5)}

	script := []struct {
		intents []Intent
	}{
		{[]Intent{taskIntent("p1", "m1", IntentStartRecording)}},
		{[]Intent{moveIntent("p1", "m1", "right")}},
		{[]Intent{moveIntent("p1", "m1", "down")}},
		{[]Intent{taskIntent("p1", "m1", IntentStopRecording)}},
	}
	for i, step := range script {
		res, err := e.Tick("test_zone", entities, step.intents, int64(i+1))
		if err != nil {
			t.Fatalf("tick %d failed: %v", i+1, err)
		}
		entities = applyDiff(entities, res)
	}

	mon := findEntity(entities, "m1")
	if mon.Monster.Task.IsRecording {
		t.Fatalf("recording should be stopped")
	}
	if got, want := len(mon.Monster.Task.Actions), 2; got != want {
		t.Fatalf("recorded action count: got=%d want=%d", got, want)
	}
	if mon.Pos.X != 6 || mon.Pos.Y != 6 {
		t.Fatalf("recorded walk should have moved the monster, got %+v", mon.Pos)
	}

	// Playback replays one step per tick and wraps: right, down, right.
	for tick := int64(5); tick <= 7; tick++ {
		var intents []Intent
		if tick == 5 {
			intents = []Intent{taskIntent("p1", "m1", IntentStartPlayback)}
		}
		res, err := e.Tick("test_zone", entities, intents, tick)
		if err != nil {
			t.Fatalf("tick %d failed: %v", tick, err)
		}
		entities = applyDiff(entities, res)
	}

	mon = findEntity(entities, "m1")
	if !mon.Monster.Task.IsPlaying {
		t.Fatalf("playback should still be running")
	}
	if mon.Pos.X != 8 || mon.Pos.Y != 7 {
		t.Fatalf("playback position mismatch: got=%+v want={8 7}", mon.Pos)
	}
	if got, want := mon.Monster.Task.PlayIndex, 1; got != want {
		t.Fatalf("cursor should wrap past the end: got=%d want=%d", got, want)
	}
}

func TestPlaybackCursorAdvancesWhenBlocked(t *testing.T) {
	e := newTestEngine(testZone())
	mon := testMonster("m1", "p1", 5, 5)
	mon.Monster.Task.IsPlaying = true
	mon.Monster.Task.Actions = []RecordedAction{
		{Action: "move", DX: 1, DY: 0},
		{Action: "move", DX: 0, DY: 1},
	}
	wall := &Entity{ID: "wall", Kind: KindTerrainBlock, Pos: world.Point{X: 6, Y: 5}, Size: world.Size{W: 1, H: 1}}
	entities := []*Entity{testMarker(), mon, wall}

	res, err := e.Tick("test_zone", entities, nil, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	got := findEntity(res.Updates, "m1")
	if got == nil {
		t.Fatalf("cursor advance should update the monster")
	}
	if got.Pos.X != 5 || got.Pos.Y != 5 {
		t.Fatalf("blocked step must not move: got=%+v", got.Pos)
	}
	if got.Monster.Task.PlayIndex != 1 {
		t.Fatalf("blocked step still advances the cursor: got=%d", got.Monster.Task.PlayIndex)
	}
	entities = applyDiff(entities, res)

	res, err = e.Tick("test_zone", entities, nil, 2)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	got = findEntity(res.Updates, "m1")
	if got == nil || got.Pos.X != 5 || got.Pos.Y != 6 {
		t.Fatalf("next step should walk down, got %+v", got)
	}
	if got.Monster.Task.PlayIndex != 0 {
		t.Fatalf("cursor should wrap, got=%d", got.Monster.Task.PlayIndex)
	}
}

func TestStartPlaybackWithoutRecording(t *testing.T) {
	e := newTestEngine(testZone())
	res, err := e.Tick("test_zone", []*Entity{testMarker(), testMonster("m1", "p1", 5, 5)}, []Intent{
		taskIntent("p1", "m1", IntentStartPlayback),
	}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	errs := eventsOfType(res.Events, EventError)
	if len(errs) != 1 || errs[0].Message != "Nothing recorded to play back" {
		t.Fatalf("expected empty-recording error, got %+v", res.Events)
	}
	if len(res.Updates) != 0 {
		t.Fatalf("rejected playback must not mutate, got %d updates", len(res.Updates))
	}
}

func TestStartRecordingDiscardsPreviousSequence(t *testing.T) {
	e := newTestEngine(testZone())
	mon := testMonster("m1", "p1", 5, 5)
	mon.Monster.Task.IsPlaying = true
	mon.Monster.Task.PlayIndex = 1
	mon.Monster.Task.Actions = []RecordedAction{{Action: "move", DX: 1, DY: 0}}

	res, err := e.Tick("test_zone", []*Entity{testMarker(), mon}, []Intent{
		taskIntent("p1", "m1", IntentStartRecording),
	}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	got := findEntity(res.Updates, "m1")
	if got == nil {
		t.Fatalf("expected monster update")
	}
	task := got.Monster.Task
	if !task.IsRecording || task.IsPlaying {
		t.Fatalf("recording should preempt playback: %+v", task)
	}
	if len(task.Actions) != 0 || task.PlayIndex != 0 {
		t.Fatalf("previous sequence should be discarded: %+v", task)
	}
}

func TestDisconnectStopsRecordingNotPlayback(t *testing.T) {
	e := newTestEngine(testZone())
	recorder := testMonster("m1", "p1", 5, 5)
	recorder.Monster.Task.IsRecording = true
	player := testMonster("m2", "p1", 10, 10)
	player.Monster.Task.IsPlaying = true
	player.Monster.Task.Actions = []RecordedAction{{Action: "move", DX: 1, DY: 0}}
	other := testMonster("m3", "p2", 15, 15)
	other.Monster.Task.IsRecording = true

	res, err := e.Tick("test_zone", []*Entity{testMarker(), recorder, player, other}, []Intent{
		{PlayerID: "p1", Type: IntentDisconnect},
	}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	if got := findEntity(res.Updates, "m1"); got == nil || got.Monster.Task.IsRecording {
		t.Fatalf("disconnect should stop the owner's recording, got %+v", got)
	}
	got := findEntity(res.Updates, "m2")
	if got == nil || !got.Monster.Task.IsPlaying {
		t.Fatalf("playback should survive a disconnect, got %+v", got)
	}
	if got.Pos.X != 11 {
		t.Fatalf("playing monster should keep walking, got %+v", got.Pos)
	}
	for _, u := range res.Updates {
		if u.ID == "m3" {
			t.Fatalf("another player's recording must be untouched")
		}
	}
}
