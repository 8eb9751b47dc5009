package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"monsterforge/internal/app/ports"
)

func newUseCase(repo *fakeIntentRepo, metrics *fakeMetrics) UseCase {
	n := 0
	return UseCase{
		Intents:   repo,
		TxManager: passthroughTx{},
		Metrics:   metrics,
		NewID: func() string {
			n++
			return "intent-1"
		},
		Now: func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestExecuteQueuesValidIntent(t *testing.T) {
	repo := &fakeIntentRepo{}
	metrics := &fakeMetrics{}
	uc := newUseCase(repo, metrics)

	resp, err := uc.Execute(context.Background(), Request{
		PlayerID: "p1",
		ZoneID:   "test_zone",
		Action:   "move",
		Data:     map[string]any{"entity_id": "m1", "direction": "north"},
	})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if resp.Status != StatusQueued || resp.IntentID != "intent-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(repo.queued) != 1 {
		t.Fatalf("expected 1 queued intent, got %d", len(repo.queued))
	}
	rec := repo.queued[0]
	if rec.ZoneID != "test_zone" || rec.PlayerID != "p1" || rec.Action != "move" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.EnqueuedAt.IsZero() {
		t.Fatalf("expected enqueue timestamp")
	}
	if metrics.accepted != 1 || metrics.acceptedAction != "move" {
		t.Fatalf("expected accepted metric for move, got %+v", metrics)
	}
}

func TestExecuteRejectsUnknownAction(t *testing.T) {
	repo := &fakeIntentRepo{}
	metrics := &fakeMetrics{}
	uc := newUseCase(repo, metrics)

	_, err := uc.Execute(context.Background(), Request{
		PlayerID: "p1",
		ZoneID:   "test_zone",
		Action:   "teleport",
	})
	if !errors.Is(err, ErrInvalidIntent) {
		t.Fatalf("expected ErrInvalidIntent, got %v", err)
	}
	if len(repo.queued) != 0 {
		t.Fatalf("rejected intent must not be queued")
	}
	if metrics.rejected != 1 {
		t.Fatalf("expected rejected metric, got %d", metrics.rejected)
	}
}

func TestExecuteRequiresPlayerAndZone(t *testing.T) {
	uc := newUseCase(&fakeIntentRepo{}, nil)

	if _, err := uc.Execute(context.Background(), Request{ZoneID: "z", Action: "move"}); err != ErrPlayerRequired {
		t.Fatalf("expected ErrPlayerRequired, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), Request{PlayerID: "p1", Action: "move"}); err != ErrZoneRequired {
		t.Fatalf("expected ErrZoneRequired, got %v", err)
	}
}

func TestExecuteReplaysIdempotencyKey(t *testing.T) {
	repo := &fakeIntentRepo{
		byKey: map[string]*ports.IntentRecord{
			"p1|k-42": {ID: "intent-0", PlayerID: "p1", IdempotencyKey: "k-42"},
		},
	}
	metrics := &fakeMetrics{}
	uc := newUseCase(repo, metrics)

	resp, err := uc.Execute(context.Background(), Request{
		PlayerID:       "p1",
		ZoneID:         "test_zone",
		IdempotencyKey: "k-42",
		Action:         "move",
		Data:           map[string]any{"entity_id": "m1", "direction": "north"},
	})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if resp.Status != StatusDuplicate || resp.IntentID != "intent-0" {
		t.Fatalf("expected duplicate replay, got %+v", resp)
	}
	if len(repo.queued) != 0 {
		t.Fatalf("duplicate must not enqueue again")
	}
	if metrics.accepted != 0 {
		t.Fatalf("duplicate must not count as accepted")
	}
}

func TestExecuteNormalizesActionSpelling(t *testing.T) {
	repo := &fakeIntentRepo{}
	metrics := &fakeMetrics{}
	uc := newUseCase(repo, metrics)

	resp, err := uc.Execute(context.Background(), Request{
		PlayerID: "p1",
		ZoneID:   "test_zone",
		Action:   "Select-Recipe",
		Data:     map[string]any{"workshop_id": "w1", "recipe_id": "cotton_thread"},
	})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if resp.Status != StatusQueued {
		t.Fatalf("expected queued, got %+v", resp)
	}
	if metrics.acceptedAction != "select_recipe" {
		t.Fatalf("expected normalized action metric, got %q", metrics.acceptedAction)
	}
}

type fakeIntentRepo struct {
	queued []ports.IntentRecord
	byKey  map[string]*ports.IntentRecord
}

func (f *fakeIntentRepo) Enqueue(_ context.Context, intent ports.IntentRecord) error {
	f.queued = append(f.queued, intent)
	return nil
}

func (f *fakeIntentRepo) GetByIdempotencyKey(_ context.Context, playerID, key string) (*ports.IntentRecord, error) {
	rec, ok := f.byKey[playerID+"|"+key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return rec, nil
}

func (f *fakeIntentRepo) DrainZone(_ context.Context, _ string) ([]ports.IntentRecord, error) {
	return nil, nil
}

func (f *fakeIntentRepo) CountByZone(_ context.Context, _ string) (int64, error) {
	return int64(len(f.queued)), nil
}

type fakeMetrics struct {
	accepted       int
	acceptedAction string
	rejected       int
}

func (f *fakeMetrics) RecordTick(ports.TickStats)    {}
func (f *fakeMetrics) RecordTickFailure(string)      {}
func (f *fakeMetrics) RecordIntentAccepted(a string) { f.accepted++; f.acceptedAction = a }
func (f *fakeMetrics) RecordIntentRejected()         { f.rejected++ }

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
