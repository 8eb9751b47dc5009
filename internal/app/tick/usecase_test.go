package tick

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"monsterforge/internal/app/ports"
	"monsterforge/internal/domain/forge"
	"monsterforge/internal/domain/world"
)

var testEpoch = time.Unix(1_700_000_000, 0)

func newTestEngine() *forge.Engine {
	n := 0
	return forge.NewEngine(forge.Config{
		Zones: []world.ZoneDef{{ID: "test_zone", Name: "Test Zone", W: 30, H: 30}},
		Seed:  7,
		NewID: func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		},
		Now: func() time.Time { return testEpoch },
	})
}

func newTestUseCase(engine *forge.Engine) (UseCase, *fakeEntityRepo, *fakeIntentQueue, *fakeEventRepo, *fakeZoneClock, *fakeTickMetrics) {
	entities := &fakeEntityRepo{byZone: map[string][]forge.Record{}}
	intents := &fakeIntentQueue{pending: map[string][]ports.IntentRecord{}}
	events := &fakeEventRepo{}
	clock := &fakeZoneClock{ticks: map[string]int64{}}
	metrics := &fakeTickMetrics{}
	uc := UseCase{
		Engine:    engine,
		Entities:  entities,
		Intents:   intents,
		Events:    events,
		Clock:     clock,
		TxManager: passthroughTx{},
		Metrics:   metrics,
		Now:       func() time.Time { return testEpoch },
	}
	return uc, entities, intents, events, clock, metrics
}

func encodeMarker() forge.Record {
	e := &forge.Entity{
		ID:     "marker",
		Kind:   forge.KindWorldMarker,
		Size:   world.Size{W: 1, H: 1},
		Marker: &forge.WorldMarkerData{ZoneName: "Test Zone", W: 30, H: 30},
	}
	return e.Encode()
}

func encodeMonster(id, owner string, x, y int) forge.Record {
	e := &forge.Entity{
		ID:      id,
		Kind:    forge.KindMonster,
		Pos:     world.Point{X: x, Y: y},
		Size:    world.Size{W: 1, H: 1},
		OwnerID: owner,
		Monster: &forge.MonsterData{
			Type: "goblin",
			Name: "Grub",
			Abilities: forge.AbilityScores{
				Strength: 10, Dexterity: 10, Constitution: 10,
				Intelligence: 10, Wisdom: 10, Charisma: 10,
			},
			CreatedAt:      testEpoch,
			LastUpkeepPaid: testEpoch,
		},
	}
	return e.Encode()
}

func encodeSignpost(id string, x, y int, text string) forge.Record {
	e := &forge.Entity{
		ID:       id,
		Kind:     forge.KindSignpost,
		Pos:      world.Point{X: x, Y: y},
		Size:     world.Size{W: 1, H: 1},
		Signpost: &forge.SignpostData{Text: text},
	}
	return e.Encode()
}

func TestExecuteBootstrapsEmptyZone(t *testing.T) {
	uc, entities, _, _, clock, metrics := newTestUseCase(newTestEngine())

	res, err := uc.Execute(context.Background(), "test_zone")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if res.Tick != 1 {
		t.Fatalf("expected tick 1, got %d", res.Tick)
	}
	// Marker plus the four border walls.
	if len(res.Diff.Creates) != 5 {
		t.Fatalf("expected 5 bootstrap creates, got %d", len(res.Diff.Creates))
	}
	if len(entities.byZone["test_zone"]) != 5 {
		t.Fatalf("expected 5 persisted records, got %d", len(entities.byZone["test_zone"]))
	}
	if len(res.Records) != 5 {
		t.Fatalf("expected post-tick records in result, got %d", len(res.Records))
	}
	if clock.ticks["test_zone"] != 1 {
		t.Fatalf("expected clock at 1, got %d", clock.ticks["test_zone"])
	}
	if len(metrics.stats) != 1 || metrics.stats[0].Creates != 5 {
		t.Fatalf("expected tick stats recorded, got %+v", metrics.stats)
	}
}

func TestExecuteAppliesQueuedIntent(t *testing.T) {
	uc, entities, intents, _, _, _ := newTestUseCase(newTestEngine())
	entities.byZone["test_zone"] = []forge.Record{encodeMarker(), encodeMonster("m1", "p1", 5, 5)}
	intents.pending["test_zone"] = []ports.IntentRecord{{
		ID:       "i1",
		ZoneID:   "test_zone",
		PlayerID: "p1",
		Action:   "move",
		Data:     map[string]any{"entity_id": "m1", "direction": "right"},
	}}

	res, err := uc.Execute(context.Background(), "test_zone")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if res.Intents != 1 {
		t.Fatalf("expected 1 drained intent, got %d", res.Intents)
	}
	if len(intents.pending["test_zone"]) != 0 {
		t.Fatalf("queue must be drained")
	}
	var moved *forge.Record
	for i := range entities.byZone["test_zone"] {
		if entities.byZone["test_zone"][i].ID == "m1" {
			moved = &entities.byZone["test_zone"][i]
		}
	}
	if moved == nil {
		t.Fatalf("monster record missing after tick")
	}
	if moved.X != 6 || moved.Y != 5 {
		t.Fatalf("expected monster at (6,5), got (%d,%d)", moved.X, moved.Y)
	}
}

func TestExecutePersistsEvents(t *testing.T) {
	uc, entities, intents, events, _, _ := newTestUseCase(newTestEngine())
	entities.byZone["test_zone"] = []forge.Record{
		encodeMarker(),
		encodeMonster("m1", "p1", 5, 5),
		encodeSignpost("s1", 6, 5, "Deliveries go east"),
	}
	intents.pending["test_zone"] = []ports.IntentRecord{{
		ID:       "i1",
		ZoneID:   "test_zone",
		PlayerID: "p1",
		Action:   "interact",
		Data:     map[string]any{"entity_id": "m1", "target_id": "s1"},
	}}

	res, err := uc.Execute(context.Background(), "test_zone")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if len(res.Diff.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(res.Diff.Events))
	}
	if len(events.appends) != 1 {
		t.Fatalf("expected 1 append call, got %d", len(events.appends))
	}
	call := events.appends[0]
	if call.zoneID != "test_zone" || call.tick != 1 || len(call.events) != 1 {
		t.Fatalf("unexpected append: %+v", call)
	}
	if call.events[0].TargetPlayerID != "p1" {
		t.Fatalf("expected event targeted at p1, got %q", call.events[0].TargetPlayerID)
	}
}

func TestExecuteDropsCorruptQueueRows(t *testing.T) {
	uc, _, intents, _, _, _ := newTestUseCase(newTestEngine())
	intents.pending["test_zone"] = []ports.IntentRecord{{
		ID:       "i1",
		ZoneID:   "test_zone",
		PlayerID: "p1",
		Action:   "bogus_action",
	}}

	res, err := uc.Execute(context.Background(), "test_zone")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if res.Tick != 1 {
		t.Fatalf("tick must still advance, got %d", res.Tick)
	}
	if len(intents.pending["test_zone"]) != 0 {
		t.Fatalf("corrupt rows must still drain")
	}
}

func TestExecuteAdvancesClockAcrossTicks(t *testing.T) {
	uc, _, _, _, clock, _ := newTestUseCase(newTestEngine())

	first, err := uc.Execute(context.Background(), "test_zone")
	if err != nil {
		t.Fatalf("first tick: %v", err)
	}
	second, err := uc.Execute(context.Background(), "test_zone")
	if err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if first.Tick != 1 || second.Tick != 2 {
		t.Fatalf("expected ticks 1,2 got %d,%d", first.Tick, second.Tick)
	}
	if clock.ticks["test_zone"] != 2 {
		t.Fatalf("expected clock at 2, got %d", clock.ticks["test_zone"])
	}
	if len(second.Diff.Creates) != 0 {
		t.Fatalf("second tick must not re-bootstrap, got %d creates", len(second.Diff.Creates))
	}
}

func TestExecuteRequiresZone(t *testing.T) {
	uc, _, _, _, _, _ := newTestUseCase(newTestEngine())
	if _, err := uc.Execute(context.Background(), ""); err != ErrZoneRequired {
		t.Fatalf("expected ErrZoneRequired, got %v", err)
	}
}

func TestExecuteRecordsFailureMetric(t *testing.T) {
	uc, entities, _, _, _, metrics := newTestUseCase(newTestEngine())
	entities.listErr = errors.New("db down")

	_, err := uc.Execute(context.Background(), "test_zone")
	if err == nil {
		t.Fatalf("expected error")
	}
	if metrics.failures != 1 || metrics.failZone != "test_zone" {
		t.Fatalf("expected failure metric for test_zone, got %d/%s", metrics.failures, metrics.failZone)
	}
}

type fakeEntityRepo struct {
	byZone  map[string][]forge.Record
	listErr error
}

func (f *fakeEntityRepo) ListByZone(_ context.Context, zoneID string) ([]forge.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]forge.Record(nil), f.byZone[zoneID]...), nil
}

func (f *fakeEntityRepo) ApplyDiff(_ context.Context, zoneID string, diff forge.RecordDiff) error {
	records := f.byZone[zoneID]
	byID := make(map[string]int, len(records))
	for i, rec := range records {
		byID[rec.ID] = i
	}
	for _, up := range diff.Updates {
		if i, ok := byID[up.ID]; ok {
			records[i] = up
		}
	}
	deleted := make(map[string]bool, len(diff.Deletes))
	for _, id := range diff.Deletes {
		deleted[id] = true
	}
	kept := records[:0]
	for _, rec := range records {
		if !deleted[rec.ID] {
			kept = append(kept, rec)
		}
	}
	kept = append(kept, diff.Creates...)
	f.byZone[zoneID] = kept
	return nil
}

type fakeIntentQueue struct {
	pending map[string][]ports.IntentRecord
}

func (f *fakeIntentQueue) Enqueue(_ context.Context, intent ports.IntentRecord) error {
	f.pending[intent.ZoneID] = append(f.pending[intent.ZoneID], intent)
	return nil
}

func (f *fakeIntentQueue) GetByIdempotencyKey(_ context.Context, _, _ string) (*ports.IntentRecord, error) {
	return nil, ports.ErrNotFound
}

func (f *fakeIntentQueue) DrainZone(_ context.Context, zoneID string) ([]ports.IntentRecord, error) {
	out := f.pending[zoneID]
	f.pending[zoneID] = nil
	return out, nil
}

func (f *fakeIntentQueue) CountByZone(_ context.Context, zoneID string) (int64, error) {
	return int64(len(f.pending[zoneID])), nil
}

type appendCall struct {
	zoneID string
	tick   int64
	events []forge.Event
}

type fakeEventRepo struct {
	appends []appendCall
}

func (f *fakeEventRepo) Append(_ context.Context, zoneID string, tick int64, _ time.Time, events []forge.Event) error {
	f.appends = append(f.appends, appendCall{zoneID: zoneID, tick: tick, events: events})
	return nil
}

func (f *fakeEventRepo) ListForPlayer(_ context.Context, _, _ string, _ int) ([]ports.EventRecord, error) {
	return nil, nil
}

func (f *fakeEventRepo) ListByZone(_ context.Context, _ string, _, _ int64, _ int) ([]ports.EventRecord, error) {
	return nil, nil
}

type fakeZoneClock struct {
	ticks map[string]int64
}

func (f *fakeZoneClock) LastTick(_ context.Context, zoneID string) (int64, error) {
	return f.ticks[zoneID], nil
}

func (f *fakeZoneClock) SetLastTick(_ context.Context, zoneID string, tick int64) error {
	f.ticks[zoneID] = tick
	return nil
}

type fakeTickMetrics struct {
	stats    []ports.TickStats
	failures int
	failZone string
}

func (f *fakeTickMetrics) RecordTick(s ports.TickStats) { f.stats = append(f.stats, s) }
func (f *fakeTickMetrics) RecordTickFailure(zone string) {
	f.failures++
	f.failZone = zone
}
func (f *fakeTickMetrics) RecordIntentAccepted(string) {}
func (f *fakeTickMetrics) RecordIntentRejected()       {}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
