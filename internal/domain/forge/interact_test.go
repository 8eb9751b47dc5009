package forge

import (
	"testing"

	"monsterforge/internal/domain/world"
)

func interactIntent(player, entityID, targetID string) Intent {
	return Intent{PlayerID: player, Type: IntentInteract, EntityID: entityID, TargetID: targetID}
}

func TestInteractSignpostText(t *testing.T) {
	e := newTestEngine(testZone())
	sign := &Entity{
		ID:       "sign",
		Kind:     KindSignpost,
		Pos:      world.Point{X: 6, Y: 5},
		Size:     world.Size{W: 1, H: 1},
		Signpost: &SignpostData{Text: "Deliveries go east"},
	}
	entities := []*Entity{testMarker(), testMonster("m1", "p1", 5, 5), sign}

	res, err := e.Tick("test_zone", entities, []Intent{interactIntent("p1", "m1", "sign")}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	infos := eventsOfType(res.Events, EventInfo)
	if len(infos) != 1 {
		t.Fatalf("info events: got %d, want 1", len(infos))
	}
	if infos[0].TargetPlayerID != "p1" {
		t.Fatalf("info should target the acting player, got %q", infos[0].TargetPlayerID)
	}
	if infos[0].Message != "Deliveries go east" {
		t.Fatalf("message: got %q", infos[0].Message)
	}
	if infos[0].Data["text"] != "Deliveries go east" {
		t.Fatalf("data text: got %v", infos[0].Data["text"])
	}
}

func TestInteractSignpostBlank(t *testing.T) {
	e := newTestEngine(testZone())
	sign := &Entity{
		ID:       "sign",
		Kind:     KindSignpost,
		Pos:      world.Point{X: 6, Y: 5},
		Size:     world.Size{W: 1, H: 1},
		Signpost: &SignpostData{},
	}
	entities := []*Entity{testMarker(), testMonster("m1", "p1", 5, 5), sign}

	res, err := e.Tick("test_zone", entities, []Intent{interactIntent("p1", "m1", "sign")}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	infos := eventsOfType(res.Events, EventInfo)
	if len(infos) != 1 {
		t.Fatalf("info events: got %d, want 1", len(infos))
	}
	if infos[0].Message != "The signpost is blank" {
		t.Fatalf("message: got %q", infos[0].Message)
	}
}

func TestInteractWorkshopStates(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(w *WorkshopData)
		want   string
	}{
		{
			name:   "idle",
			mutate: func(w *WorkshopData) {},
			want:   "spinnery is idle",
		},
		{
			name: "recipe_set",
			mutate: func(w *WorkshopData) {
				w.SelectedRecipeID = "cotton_thread"
			},
			want: "spinnery set to cotton_thread",
		},
		{
			name: "waiting_on_materials",
			mutate: func(w *WorkshopData) {
				w.SelectedRecipeID = "cotton_thread"
				w.MissingInputs = [][]string{{"fiber"}}
				w.MissingTools = []string{"spinning_tool"}
			},
			want: "spinnery waiting on materials for cotton_thread",
		},
		{
			name: "crafting",
			mutate: func(w *WorkshopData) {
				w.SelectedRecipeID = "cotton_thread"
				w.IsCrafting = true
				w.CraftingStartedTick = 1
				w.CraftingDuration = 100
			},
			want: "spinnery crafting cotton_thread",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(testZone())
			ws := testWorkshop("ws", "spinnery", 6, 5, 3, 3)
			tc.mutate(ws.Workshop)
			entities := []*Entity{testMarker(), testMonster("m1", "p1", 5, 5), ws}

			res, err := e.Tick("test_zone", entities, []Intent{interactIntent("p1", "m1", "ws")}, 2)
			if err != nil {
				t.Fatalf("tick failed: %v", err)
			}
			infos := eventsOfType(res.Events, EventInfo)
			if len(infos) != 1 {
				t.Fatalf("info events: got %d, want 1", len(infos))
			}
			if infos[0].Message != tc.want {
				t.Fatalf("message: got %q, want %q", infos[0].Message, tc.want)
			}
		})
	}
}

func TestInteractGatheringSpotNamesYield(t *testing.T) {
	e := newTestEngine(testZone())
	spot := testGatheringSpot("spot", 6, 5, 3, 3)
	entities := []*Entity{testMarker(), testMonster("m1", "p1", 5, 5), spot}

	res, err := e.Tick("test_zone", entities, []Intent{interactIntent("p1", "m1", "spot")}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	infos := eventsOfType(res.Events, EventInfo)
	if len(infos) != 1 {
		t.Fatalf("info events: got %d, want 1", len(infos))
	}
	want := "cotton_field (yields cotton_bolls) is idle"
	if infos[0].Message != want {
		t.Fatalf("message: got %q, want %q", infos[0].Message, want)
	}
}

func TestInteractDispenserReportsContents(t *testing.T) {
	e := newTestEngine(testZone())
	disp := &Entity{
		ID:        "disp",
		Kind:      KindDispenser,
		Pos:       world.Point{X: 6, Y: 5},
		Size:      world.Size{W: 1, H: 1},
		Dispenser: &DispenserData{Capacity: 5, GoodType: "plank"},
	}
	entities := []*Entity{
		testMarker(),
		testMonster("m1", "p1", 5, 5),
		disp,
		storedItem("s1", "plank", "disp", StoredRoleCargo, 6, 5),
		storedItem("s2", "plank", "disp", StoredRoleCargo, 6, 5),
	}

	res, err := e.Tick("test_zone", entities, []Intent{interactIntent("p1", "m1", "disp")}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	infos := eventsOfType(res.Events, EventInfo)
	if len(infos) != 1 {
		t.Fatalf("info events: got %d, want 1", len(infos))
	}
	if infos[0].Message != "Dispenser for plank holding 2 item(s)" {
		t.Fatalf("message: got %q", infos[0].Message)
	}
	if infos[0].Data["stored"] != 2 {
		t.Fatalf("data stored: got %v", infos[0].Data["stored"])
	}
}

func TestInteractDeliveryListsAcceptedTags(t *testing.T) {
	e := newTestEngine(testZone())
	entities := []*Entity{
		testMarker(),
		testMonster("m1", "p1", 5, 5),
		testDelivery("dp", 6, 5, "cotton", "fiber"),
	}

	res, err := e.Tick("test_zone", entities, []Intent{interactIntent("p1", "m1", "dp")}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	infos := eventsOfType(res.Events, EventInfo)
	if len(infos) != 1 {
		t.Fatalf("info events: got %d, want 1", len(infos))
	}
	want := "Delivery point accepting: cotton, fiber"
	if infos[0].Message != want {
		t.Fatalf("message: got %q, want %q", infos[0].Message, want)
	}
}

func TestInteractFallsBackToAdjacentEntity(t *testing.T) {
	e := newTestEngine(testZone())
	entities := []*Entity{
		testMarker(),
		testMonster("m1", "p1", 5, 5),
		testItem("i1", "cotton_bolls", 6, 5),
	}

	res, err := e.Tick("test_zone", entities, []Intent{interactIntent("p1", "m1", "")}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	infos := eventsOfType(res.Events, EventInfo)
	if len(infos) != 1 {
		t.Fatalf("info events: got %d, want 1", len(infos))
	}
	if infos[0].Message != "cotton_bolls (quality 1.00, value 10.0)" {
		t.Fatalf("message: got %q", infos[0].Message)
	}
	if infos[0].Data["target_id"] != "i1" {
		t.Fatalf("data target_id: got %v", infos[0].Data["target_id"])
	}
}

func TestInteractOutOfReachIsSilent(t *testing.T) {
	e := newTestEngine(testZone())
	entities := []*Entity{
		testMarker(),
		testMonster("m1", "p1", 5, 5),
		testItem("i1", "cotton_bolls", 9, 5),
	}

	res, err := e.Tick("test_zone", entities, []Intent{interactIntent("p1", "m1", "i1")}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if len(res.Events) != 0 {
		t.Fatalf("expected no events, got %+v", res.Events)
	}
	if len(res.Updates) != 0 {
		t.Fatalf("expected no updates, got %d", len(res.Updates))
	}
}
