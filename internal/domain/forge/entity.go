package forge

import (
	"time"

	"monsterforge/internal/domain/world"
)

type Kind string

const (
	KindMonster       Kind = "monster"
	KindItem          Kind = "item"
	KindWorkshop      Kind = "workshop"
	KindGatheringSpot Kind = "gathering_spot"
	KindDispenser     Kind = "dispenser"
	KindWagon         Kind = "wagon"
	KindTerrainBlock  Kind = "terrain_block"
	KindSignpost      Kind = "signpost"
	KindDelivery      Kind = "delivery"
	KindCommune       Kind = "commune"
	KindWorldMarker   Kind = "world_marker"
)

// Entity is a positioned grid object. Exactly one kind-specific data
// pointer is set, matching Kind; Extra preserves unrecognized metadata
// fields across the boundary codec.
type Entity struct {
	ID      string
	ZoneID  string
	Pos     world.Point
	Size    world.Size
	OwnerID string
	Kind    Kind

	Monster   *MonsterData
	Item      *ItemData
	Workshop  *WorkshopData
	Dispenser *DispenserData
	Wagon     *WagonData
	Delivery  *DeliveryData
	Signpost  *SignpostData
	Commune   *CommuneData
	Marker    *WorldMarkerData

	BlocksOverride *bool
	Extra          map[string]any
}

type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

type RecordedAction struct {
	Action string `json:"action"`
	DX     int    `json:"dx"`
	DY     int    `json:"dy"`
}

type TaskState struct {
	IsRecording    bool
	IsPlaying      bool
	Actions        []RecordedAction
	PlayIndex      int
	HitchedWagonID string
}

type SkillSet struct {
	Transferable   []string
	Applied        map[string]float64
	Specific       map[string]float64
	TotalForgotten float64
}

// EffectiveApplied is the stored level minus accumulated forgetting,
// floored at zero.
func (s SkillSet) EffectiveApplied(name string) float64 {
	return effectiveLevel(s.Applied[name], s.TotalForgotten)
}

func (s SkillSet) EffectiveSpecific(goodType string) float64 {
	return effectiveLevel(s.Specific[goodType], s.TotalForgotten)
}

func effectiveLevel(stored, forgotten float64) float64 {
	v := stored - forgotten
	if v < 0 {
		return 0
	}
	return v
}

type MonsterData struct {
	Type           string
	Name           string
	Abilities      AbilityScores
	Skills         SkillSet
	Task           TaskState
	CreatedAt      time.Time
	LastUpkeepPaid time.Time
	UpkeepOverdue  bool
	UpkeepRequired int
}

// AgeBonus is the flat ability bonus earned by surviving: +1 at 30
// game-days, +2 at 60.
func (m *MonsterData) AgeBonus(ageDays float64) int {
	switch {
	case ageDays >= 60:
		return 2
	case ageDays >= 30:
		return 1
	default:
		return 0
	}
}

type Share struct {
	MonsterID   string  `json:"monster_id,omitempty"`
	PlayerID    string  `json:"player_id,omitempty"`
	Count       float64 `json:"count"`
	Description string  `json:"description,omitempty"`
}

type ItemData struct {
	GoodType            string
	Quality             float64
	Weight              float64
	Value               float64
	Shares              []Share
	RawMaterials        []string
	RawMaterialMaxDepth int
	IsStored            bool
	ContainerID         string
	StoredSlot          world.Point
	StoredRole          string
	Durability          float64
	MaxDurability       float64
	CarriedTags         []string
}

const (
	StoredRoleTool  = "tool"
	StoredRoleInput = "input"
	StoredRoleCargo = "cargo"
)

type WorkshopData struct {
	Type                string
	SelectedRecipeID    string
	IsCrafting          bool
	CraftingStartedTick int64
	CraftingDuration    int64
	CrafterMonsterID    string
	MissingInputs       [][]string
	MissingTools        []string
	InputItemIDs        []string
	ToolItemIDs         []string
	Contributors        []Share
	GatheringGoodType   string
}

const DefaultDispenserCapacity = 20

// DispenserData: GoodType, when set, restricts the dispenser to that
// good; empty dispensers otherwise lock to whatever lands first.
type DispenserData struct {
	Capacity int
	GoodType string
}

const DefaultWagonCapacity = 8

type WagonData struct {
	NextWagonID string
	Capacity    int
}

type DeliveryData struct {
	AcceptedTags []string
}

type SignpostData struct {
	Text string
}

type CommuneData struct {
	Renown           int
	TotalRenownSpent int
}

type WorldMarkerData struct {
	ZoneName string
	W        int
	H        int
}

func (e *Entity) Rect() world.Rect {
	return world.Rect{Pos: e.Pos, Size: normSize(e.Size)}
}

func normSize(s world.Size) world.Size {
	if s.W <= 0 {
		s.W = 1
	}
	if s.H <= 0 {
		s.H = 1
	}
	return s
}

var blockingKinds = map[Kind]bool{
	KindMonster:       true,
	KindItem:          true,
	KindWorkshop:      true,
	KindGatheringSpot: true,
	KindDispenser:     true,
	KindWagon:         true,
	KindTerrainBlock:  true,
	KindDelivery:      true,
}

// Blocking reports whether the entity's footprint obstructs movement.
// Stored items never block; metadata may override either way.
func (e *Entity) Blocking() bool {
	if e.BlocksOverride != nil {
		return *e.BlocksOverride
	}
	if e.Kind == KindItem && e.Item != nil && e.Item.IsStored {
		return false
	}
	return blockingKinds[e.Kind]
}

func (e *Entity) IsStructure() bool {
	return e.Kind == KindWorkshop || e.Kind == KindGatheringSpot
}

// Clone deep-copies the entity so tick-local mutation never aliases
// the caller's snapshot.
func (e *Entity) Clone() *Entity {
	c := *e
	if e.Monster != nil {
		m := *e.Monster
		m.Skills.Transferable = cloneStrings(e.Monster.Skills.Transferable)
		m.Skills.Applied = cloneLevels(e.Monster.Skills.Applied)
		m.Skills.Specific = cloneLevels(e.Monster.Skills.Specific)
		m.Task.Actions = append([]RecordedAction(nil), e.Monster.Task.Actions...)
		c.Monster = &m
	}
	if e.Item != nil {
		it := *e.Item
		it.Shares = append([]Share(nil), e.Item.Shares...)
		it.RawMaterials = cloneStrings(e.Item.RawMaterials)
		it.CarriedTags = cloneStrings(e.Item.CarriedTags)
		c.Item = &it
	}
	if e.Workshop != nil {
		w := *e.Workshop
		w.MissingInputs = cloneTagGroups(e.Workshop.MissingInputs)
		w.MissingTools = cloneStrings(e.Workshop.MissingTools)
		w.InputItemIDs = cloneStrings(e.Workshop.InputItemIDs)
		w.ToolItemIDs = cloneStrings(e.Workshop.ToolItemIDs)
		w.Contributors = append([]Share(nil), e.Workshop.Contributors...)
		c.Workshop = &w
	}
	if e.Dispenser != nil {
		d := *e.Dispenser
		c.Dispenser = &d
	}
	if e.Wagon != nil {
		w := *e.Wagon
		c.Wagon = &w
	}
	if e.Delivery != nil {
		d := *e.Delivery
		d.AcceptedTags = cloneStrings(e.Delivery.AcceptedTags)
		c.Delivery = &d
	}
	if e.Signpost != nil {
		s := *e.Signpost
		c.Signpost = &s
	}
	if e.Commune != nil {
		cm := *e.Commune
		c.Commune = &cm
	}
	if e.Marker != nil {
		m := *e.Marker
		c.Marker = &m
	}
	if e.BlocksOverride != nil {
		b := *e.BlocksOverride
		c.BlocksOverride = &b
	}
	if e.Extra != nil {
		c.Extra = cloneAnyMap(e.Extra)
	}
	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneLevels(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneTagGroups(in [][]string) [][]string {
	if in == nil {
		return nil
	}
	out := make([][]string, len(in))
	for i, g := range in {
		out[i] = cloneStrings(g)
	}
	return out
}

func cloneAnyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
