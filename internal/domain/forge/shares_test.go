package forge

import (
	"strings"
	"testing"

	"monsterforge/internal/domain/world"
)

func testDelivery(id string, x, y int, tags ...string) *Entity {
	return &Entity{
		ID:       id,
		Kind:     KindDelivery,
		Pos:      world.Point{X: x, Y: y},
		Size:     world.Size{W: 1, H: 1},
		Delivery: &DeliveryData{AcceptedTags: tags},
	}
}

func TestMergeSharesAccumulatesByIdentity(t *testing.T) {
	got := mergeShares(nil,
		Share{MonsterID: "m1", PlayerID: "p1", Count: 3},
		Share{MonsterID: "m1", PlayerID: "p1", Count: 2},
		Share{PlayerID: "p2", Count: 1},
		Share{MonsterID: "m2", Count: 0},
	)
	if len(got) != 2 {
		t.Fatalf("merged share count: got=%d want=2", len(got))
	}
	if got[0].MonsterID != "m1" || got[0].Count != 5 {
		t.Fatalf("first share mismatch: %+v", got[0])
	}
	if got[1].PlayerID != "p2" || got[1].Count != 1 {
		t.Fatalf("second share mismatch: %+v", got[1])
	}
}

func TestApportionSplitsProportionally(t *testing.T) {
	got := apportion(8, []Share{
		{MonsterID: "m1", PlayerID: "p1", Count: 3},
		{MonsterID: "m2", PlayerID: "p2", Count: 1},
	}, Share{PlayerID: "fallback"})
	if len(got) != 2 {
		t.Fatalf("apportioned share count: got=%d want=2", len(got))
	}
	if got[0].Count != 6 || got[1].Count != 2 {
		t.Fatalf("proportional split mismatch: %+v", got)
	}
	if got[0].PlayerID != "p1" || got[1].PlayerID != "p2" {
		t.Fatalf("identities must pass through: %+v", got)
	}
}

func TestApportionFallsBackWhenEmpty(t *testing.T) {
	got := apportion(8, nil, Share{PlayerID: "p9"})
	if len(got) != 1 || got[0].PlayerID != "p9" || got[0].Count != 8 {
		t.Fatalf("fallback share mismatch: %+v", got)
	}
	if got := apportion(8, nil, Share{}); got != nil {
		t.Fatalf("anonymous fallback earns nothing, got %+v", got)
	}
}

func TestDeliveryPaysContributorsFloored(t *testing.T) {
	e := newTestEngine(testZone())
	item := testItem("i1", "cotton_bolls", 10, 10)
	item.Item.Value = 10
	item.Item.Shares = []Share{
		{MonsterID: "m1", PlayerID: "p1", Count: 3},
		{PlayerID: "p2", Count: 1},
	}
	res, err := e.Tick("test_zone", []*Entity{
		testMarker(),
		testMonster("m1", "p1", 9, 10),
		item,
		testDelivery("d1", 11, 10),
		testCommune("c1", "p1", 100, 0),
		testCommune("c2", "p2", 200, 0),
	}, []Intent{moveIntent("p1", "m1", "right")}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	if len(res.Deletes) != 1 || res.Deletes[0] != "i1" {
		t.Fatalf("delivered item must be removed, got %v", res.Deletes)
	}
	c1 := findEntity(res.Updates, "c1")
	if c1 == nil || c1.Commune.Renown != 107 {
		t.Fatalf("p1 payout mismatch (floor of 10*3/4): %+v", c1)
	}
	c2 := findEntity(res.Updates, "c2")
	if c2 == nil || c2.Commune.Renown != 202 {
		t.Fatalf("p2 payout mismatch (floor of 10*1/4): %+v", c2)
	}
	mover := findEntity(res.Updates, "m1")
	if mover == nil || mover.Pos.X != 10 {
		t.Fatalf("deliverer should step into the vacated cell, got %+v", mover)
	}

	events := eventsOfType(res.Events, EventDelivery)
	if len(events) != 1 {
		t.Fatalf("expected one delivery event, got %+v", res.Events)
	}
	if got, want := events[0].Message, "cotton_bolls delivered for 10.0 renown"; got != want {
		t.Fatalf("message mismatch: got=%q want=%q", got, want)
	}
}

func TestDeliveryMonsterShareCreditsCurrentOwner(t *testing.T) {
	e := newTestEngine(testZone())
	item := testItem("i1", "cotton_bolls", 10, 10)
	item.Item.Value = 10
	item.Item.Shares = []Share{{MonsterID: "m2", Count: 1}}

	res, err := e.Tick("test_zone", []*Entity{
		testMarker(),
		testMonster("m1", "p1", 9, 10),
		testMonster("m2", "p2", 20, 20),
		item,
		testDelivery("d1", 11, 10),
		testCommune("c2", "p2", 500, 0),
	}, []Intent{moveIntent("p1", "m1", "right")}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	c2 := findEntity(res.Updates, "c2")
	if c2 == nil || c2.Commune.Renown != 510 {
		t.Fatalf("monster share should pay its current owner: %+v", c2)
	}
}

func TestDeliveryWithoutLedgerCreditsDeliverer(t *testing.T) {
	e := newTestEngine(testZone())
	item := testItem("i1", "cotton_bolls", 10, 10)
	item.Item.Value = 10

	res, err := e.Tick("test_zone", []*Entity{
		testMarker(),
		testMonster("m1", "p1", 9, 10),
		item,
		testDelivery("d1", 11, 10),
		testCommune("c1", "p1", 100, 0),
	}, []Intent{moveIntent("p1", "m1", "right")}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	c1 := findEntity(res.Updates, "c1")
	if c1 == nil || c1.Commune.Renown != 110 {
		t.Fatalf("deliverer should earn the full value: %+v", c1)
	}
}

func TestDeliveryRejectsUnacceptedTags(t *testing.T) {
	e := newTestEngine(testZone())
	res, err := e.Tick("test_zone", []*Entity{
		testMarker(),
		testMonster("m1", "p1", 9, 10),
		testItem("i1", "cotton_bolls", 10, 10),
		testDelivery("d1", 11, 10, "textile"),
	}, []Intent{moveIntent("p1", "m1", "right")}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	blocked := eventsOfType(res.Events, EventBlocked)
	if len(blocked) != 1 || !strings.Contains(blocked[0].Message, "does not take cotton_bolls") {
		t.Fatalf("expected tag rejection, got %+v", res.Events)
	}
	if len(res.Deletes) != 0 || len(res.Updates) != 0 {
		t.Fatalf("rejected delivery must not change anything")
	}
}

func TestDeliveryAcceptsMatchingTag(t *testing.T) {
	e := newTestEngine(testZone())
	item := testItem("i1", "cotton_thread", 10, 10)
	item.Item.Value = 5

	res, err := e.Tick("test_zone", []*Entity{
		testMarker(),
		testMonster("m1", "p1", 9, 10),
		item,
		testDelivery("d1", 11, 10, "textile"),
		testCommune("c1", "p1", 0, 0),
	}, []Intent{moveIntent("p1", "m1", "right")}, 1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if len(res.Deletes) != 1 {
		t.Fatalf("tagged item should be accepted, got %+v", res.Events)
	}
	if c1 := findEntity(res.Updates, "c1"); c1 == nil || c1.Commune.Renown != 5 {
		t.Fatalf("payout mismatch: %+v", c1)
	}
}

func TestCraftedOutputSharesComposeLedgers(t *testing.T) {
	e := newTestEngine(testZone())
	ws := testWorkshop("ws", "spinnery", 10, 10, 5, 5)
	ws.OwnerID = "p9"
	ws.Workshop.SelectedRecipeID = "cotton_thread"
	ws.Workshop.IsCrafting = true
	ws.Workshop.CraftingStartedTick = 0
	ws.Workshop.CraftingDuration = 60
	ws.Workshop.CrafterMonsterID = "m4"
	ws.Workshop.Contributors = []Share{{MonsterID: "m3", PlayerID: "p3", Count: 4}}

	input := storedItem("in1", "cotton_bolls", "ws", StoredRoleInput, 12, 12)
	input.Item.Shares = []Share{{MonsterID: "m1", PlayerID: "p1", Count: 2}}
	tool := storedItem("tool1", "spindle", "ws", StoredRoleTool, 11, 11)
	tool.Item.Shares = []Share{{MonsterID: "m2", PlayerID: "p2", Count: 1}}
	tool.Item.Durability = 100
	tool.Item.MaxDurability = 100

	res, err := e.Tick("test_zone", []*Entity{
		testMarker(), ws, input, tool, testMonster("m4", "p4", 9, 10),
	}, nil, 61)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if len(res.Creates) == 0 {
		t.Fatalf("expected crafted outputs")
	}

	want := []Share{
		{MonsterID: "m1", PlayerID: "p1", Count: 2},
		{MonsterID: "m2", PlayerID: "p2", Count: 2},
		{MonsterID: "m3", PlayerID: "p3", Count: 8},
		{MonsterID: "m4", PlayerID: "p4", Count: 4},
	}
	got := res.Creates[0].Item.Shares
	if len(got) != len(want) {
		t.Fatalf("share ledger length: got=%d want=%d (%+v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i].MonsterID != want[i].MonsterID || got[i].PlayerID != want[i].PlayerID || got[i].Count != want[i].Count {
			t.Fatalf("share %d mismatch: got=%+v want=%+v", i, got[i], want[i])
		}
	}
}
