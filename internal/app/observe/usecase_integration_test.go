package observe

import (
	"context"
	"os"
	"testing"
	"time"

	gormrepo "monsterforge/internal/adapter/repo/gorm"
	"monsterforge/internal/domain/forge"
)

func TestUseCase_IT_ProjectsPersistedZone(t *testing.T) {
	dsn := os.Getenv("MONSTERFORGE_DB_DSN")
	if dsn == "" {
		t.Skip("MONSTERFORGE_DB_DSN is required for integration test")
	}

	db, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}

	zoneID := "it_observe_zone"
	ctx := context.Background()
	if err := db.Exec("DELETE FROM zone_events WHERE zone_id = ?", zoneID).Error; err != nil {
		t.Fatalf("cleanup zone_events: %v", err)
	}
	if err := db.Exec("DELETE FROM zone_entities WHERE zone_id = ?", zoneID).Error; err != nil {
		t.Fatalf("cleanup zone_entities: %v", err)
	}
	if err := db.Exec("DELETE FROM zone_clocks WHERE zone_id = ?", zoneID).Error; err != nil {
		t.Fatalf("cleanup zone_clocks: %v", err)
	}

	entityRepo := gormrepo.NewEntityRepo(db)
	eventRepo := gormrepo.NewEventRepo(db)
	clockRepo := gormrepo.NewZoneClockRepo(db)

	seed := forge.RecordDiff{Creates: []forge.Record{
		{ID: "it-m1", ZoneID: zoneID, Kind: string(forge.KindMonster), Owner: "it-p1", X: 5, Y: 5,
			Meta: map[string]any{"monster_type": "goblin"}},
		{ID: "it-c1", ZoneID: zoneID, Kind: string(forge.KindCommune), Owner: "it-p1", X: 2, Y: 2,
			Meta: map[string]any{"renown": 950}},
		{ID: "it-w1", ZoneID: zoneID, Kind: string(forge.KindWorkshop), X: 10, Y: 10},
	}}
	if err := entityRepo.ApplyDiff(ctx, zoneID, seed); err != nil {
		t.Fatalf("seed entities: %v", err)
	}
	events := []forge.Event{
		{Type: "info", Message: "for p1", TargetPlayerID: "it-p1", Tick: 3},
		{Type: "info", Message: "for p2", TargetPlayerID: "it-p2", Tick: 3},
		{Type: "info", Message: "for everyone", Tick: 3},
	}
	if err := eventRepo.Append(ctx, zoneID, 3, time.Now().UTC(), events); err != nil {
		t.Fatalf("seed events: %v", err)
	}
	if err := clockRepo.SetLastTick(ctx, zoneID, 3); err != nil {
		t.Fatalf("seed clock: %v", err)
	}

	uc := UseCase{Entities: entityRepo, Events: eventRepo, Clock: clockRepo}
	resp, err := uc.Execute(ctx, Request{PlayerID: "it-p1", ZoneID: zoneID})
	if err != nil {
		t.Fatalf("observe execute: %v", err)
	}

	if resp.Tick != 3 {
		t.Fatalf("expected tick 3, got %d", resp.Tick)
	}
	if len(resp.Monsters) != 1 || resp.Monsters[0].ID != "it-m1" {
		t.Fatalf("expected own monster, got %+v", resp.Monsters)
	}
	if resp.Commune == nil || resp.Commune.ID != "it-c1" {
		t.Fatalf("expected own commune, got %+v", resp.Commune)
	}
	if len(resp.Entities) != 1 || resp.Entities[0].ID != "it-w1" {
		t.Fatalf("expected workshop in shared list, got %+v", resp.Entities)
	}
	if len(resp.Events) != 2 {
		t.Fatalf("expected own plus broadcast events, got %+v", resp.Events)
	}
	for _, ev := range resp.Events {
		if ev.Message == "for p2" {
			t.Fatalf("another player's event leaked: %+v", ev)
		}
	}
}
