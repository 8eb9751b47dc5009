package archive

import (
	"context"
	"errors"
	"testing"

	"monsterforge/internal/app/ports"
	"monsterforge/internal/domain/forge"
)

func testRecords(ids ...string) []forge.Record {
	out := make([]forge.Record, 0, len(ids))
	for i, id := range ids {
		out = append(out, forge.Record{
			ID:   id,
			Kind: "item",
			X:    i,
			Y:    i,
			Meta: map[string]any{"good_type": "cotton_bolls", "quality": 0.5},
		})
	}
	return out
}

func TestSaveAndLatestRoundtrip(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if err := store.Save(ctx, "starting_village", 100, testRecords("a", "b")); err != nil {
		t.Fatalf("Save tick 100: %v", err)
	}
	if err := store.Save(ctx, "starting_village", 200, testRecords("a", "b", "c")); err != nil {
		t.Fatalf("Save tick 200: %v", err)
	}

	tick, records, err := store.Latest(ctx, "starting_village", 0)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if tick != 200 {
		t.Fatalf("expected newest tick 200, got %d", tick)
	}
	if len(records) != 3 || records[2].ID != "c" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if records[0].Meta["good_type"] != "cotton_bolls" {
		t.Fatalf("meta lost in roundtrip: %+v", records[0].Meta)
	}
}

func TestLatestRespectsTickBound(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if err := store.Save(ctx, "z", 100, testRecords("a")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "z", 200, testRecords("a", "b")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tick, records, err := store.Latest(ctx, "z", 150)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if tick != 100 || len(records) != 1 {
		t.Fatalf("expected tick 100 with 1 record, got %d with %d", tick, len(records))
	}
}

func TestLatestUnknownZone(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	_, _, err = store.Latest(context.Background(), "nowhere", 0)
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveOverwritesSameTick(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if err := store.Save(ctx, "z", 100, testRecords("a")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "z", 100, testRecords("a", "b")); err != nil {
		t.Fatalf("Save again: %v", err)
	}

	_, records, err := store.Latest(ctx, "z", 0)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected overwrite, got %d records", len(records))
	}
}
