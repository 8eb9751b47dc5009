package forge

import (
	"strconv"
	"time"

	"monsterforge/internal/domain/world"
)

// Record is the boundary form of an entity: identity plus a free-form
// metadata map. Adapters store and transport records; the engine works
// on typed entities and crosses this codec exactly once each way.
type Record struct {
	ID     string         `json:"id"`
	ZoneID string         `json:"zone_id,omitempty"`
	Kind   string         `json:"kind"`
	X      int            `json:"x"`
	Y      int            `json:"y"`
	W      int            `json:"w,omitempty"`
	H      int            `json:"h,omitempty"`
	Owner  string         `json:"owner,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// DecodeEntity builds the typed view of a record. Malformed metadata
// values are coerced to safe defaults, never rejected: a corrupt stored
// entity must not fail a whole tick.
func DecodeEntity(rec Record) *Entity {
	e := &Entity{
		ID:      rec.ID,
		ZoneID:  rec.ZoneID,
		Pos:     world.Point{X: rec.X, Y: rec.Y},
		Size:    normSize(world.Size{W: rec.W, H: rec.H}),
		OwnerID: rec.Owner,
		Kind:    Kind(NormalizeKey(rec.Kind)),
	}
	m := rec.Meta
	if v, ok := m["blocks_movement"]; ok {
		b := coerceBool(v)
		e.BlocksOverride = &b
	}

	var known map[string]bool
	switch e.Kind {
	case KindMonster:
		e.Monster = decodeMonster(m)
		known = monsterKeys
	case KindItem:
		e.Item = decodeItem(m)
		known = itemKeys
	case KindWorkshop, KindGatheringSpot:
		e.Workshop = decodeWorkshop(m)
		known = workshopKeys
	case KindDispenser:
		e.Dispenser = &DispenserData{
			Capacity: metaInt(m, "capacity", DefaultDispenserCapacity),
			GoodType: metaString(m, "good_type"),
		}
		known = dispenserKeys
	case KindWagon:
		e.Wagon = &WagonData{
			NextWagonID: metaString(m, "next_wagon_id"),
			Capacity:    metaInt(m, "capacity", DefaultWagonCapacity),
		}
		known = wagonKeys
	case KindDelivery:
		e.Delivery = &DeliveryData{AcceptedTags: metaStrings(m, "accepted_tags")}
		known = deliveryKeys
	case KindSignpost:
		e.Signpost = &SignpostData{Text: metaString(m, "text")}
		known = signpostKeys
	case KindCommune:
		e.Commune = &CommuneData{
			Renown:           metaInt(m, "renown", 0),
			TotalRenownSpent: metaInt(m, "total_renown_spent", 0),
		}
		known = communeKeys
	case KindWorldMarker:
		e.Marker = &WorldMarkerData{
			ZoneName: metaString(m, "zone_name"),
			W:        metaInt(m, "zone_w", 0),
			H:        metaInt(m, "zone_h", 0),
		}
		known = markerKeys
	}

	for k, v := range m {
		if k == "blocks_movement" || (known != nil && known[k]) {
			continue
		}
		if e.Extra == nil {
			e.Extra = map[string]any{}
		}
		e.Extra[k] = v
	}
	return e
}

// Encode rebuilds the boundary record. Extra fields are carried over
// first so typed fields always win on key collisions.
func (e *Entity) Encode() Record {
	rec := Record{
		ID:     e.ID,
		ZoneID: e.ZoneID,
		Kind:   string(e.Kind),
		X:      e.Pos.X,
		Y:      e.Pos.Y,
		W:      normSize(e.Size).W,
		H:      normSize(e.Size).H,
		Owner:  e.OwnerID,
		Meta:   map[string]any{},
	}
	for k, v := range e.Extra {
		rec.Meta[k] = v
	}
	if e.BlocksOverride != nil {
		rec.Meta["blocks_movement"] = *e.BlocksOverride
	}

	switch {
	case e.Monster != nil:
		encodeMonster(rec.Meta, e.Monster)
	case e.Item != nil:
		encodeItem(rec.Meta, e.Item)
	case e.Workshop != nil:
		encodeWorkshop(rec.Meta, e.Workshop)
	case e.Dispenser != nil:
		rec.Meta["capacity"] = e.Dispenser.Capacity
		if e.Dispenser.GoodType != "" {
			rec.Meta["good_type"] = e.Dispenser.GoodType
		}
	case e.Wagon != nil:
		if e.Wagon.NextWagonID != "" {
			rec.Meta["next_wagon_id"] = e.Wagon.NextWagonID
		}
		rec.Meta["capacity"] = e.Wagon.Capacity
	case e.Delivery != nil:
		if len(e.Delivery.AcceptedTags) > 0 {
			rec.Meta["accepted_tags"] = anyStrings(e.Delivery.AcceptedTags)
		}
	case e.Signpost != nil:
		rec.Meta["text"] = e.Signpost.Text
	case e.Commune != nil:
		rec.Meta["renown"] = e.Commune.Renown
		rec.Meta["total_renown_spent"] = e.Commune.TotalRenownSpent
	case e.Marker != nil:
		rec.Meta["zone_name"] = e.Marker.ZoneName
		rec.Meta["zone_w"] = e.Marker.W
		rec.Meta["zone_h"] = e.Marker.H
	}
	if len(rec.Meta) == 0 {
		rec.Meta = nil
	}
	return rec
}

var (
	monsterKeys = keySet(
		"monster_type", "name", "strength", "dexterity", "constitution",
		"intelligence", "wisdom", "charisma", "skills", "current_task",
		"created_at", "last_upkeep_paid", "upkeep_overdue", "upkeep_required",
	)
	itemKeys = keySet(
		"good_type", "quality", "weight", "value", "shares", "raw_materials",
		"raw_material_max_depth", "is_stored", "container_id", "stored_slot",
		"stored_role", "durability", "max_durability", "carried_over_tags",
	)
	workshopKeys = keySet(
		"workshop_type", "selected_recipe_id", "is_crafting",
		"crafting_started_tick", "crafting_duration", "crafter_monster_id",
		"missing_inputs", "missing_tools", "input_item_ids", "tool_item_ids",
		"contributors", "gathering_good_type",
	)
	dispenserKeys = keySet("capacity", "good_type")
	wagonKeys     = keySet("next_wagon_id", "capacity")
	deliveryKeys  = keySet("accepted_tags")
	signpostKeys  = keySet("text")
	communeKeys   = keySet("renown", "total_renown_spent")
	markerKeys    = keySet("zone_name", "zone_w", "zone_h")
)

func keySet(keys ...string) map[string]bool {
	s := make(map[string]bool, len(keys))
	for _, k := range keys {
		s[k] = true
	}
	return s
}

func decodeMonster(m map[string]any) *MonsterData {
	md := &MonsterData{
		Type: metaString(m, "monster_type"),
		Name: metaString(m, "name"),
		Abilities: AbilityScores{
			Strength:     metaInt(m, "strength", 10),
			Dexterity:    metaInt(m, "dexterity", 10),
			Constitution: metaInt(m, "constitution", 10),
			Intelligence: metaInt(m, "intelligence", 10),
			Wisdom:       metaInt(m, "wisdom", 10),
			Charisma:     metaInt(m, "charisma", 10),
		},
		CreatedAt:      metaTime(m, "created_at"),
		LastUpkeepPaid: metaTime(m, "last_upkeep_paid"),
		UpkeepOverdue:  coerceBool(m["upkeep_overdue"]),
		UpkeepRequired: metaInt(m, "upkeep_required", 0),
	}
	if sk := metaMap(m, "skills"); sk != nil {
		md.Skills = SkillSet{
			Transferable:   metaStrings(sk, "transferable"),
			Applied:        metaLevels(sk, "applied"),
			Specific:       metaLevels(sk, "specific"),
			TotalForgotten: metaFloat(sk, "total_forgotten", 0),
		}
	}
	if md.Skills.TotalForgotten < 0 {
		md.Skills.TotalForgotten = 0
	}
	if task := metaMap(m, "current_task"); task != nil {
		md.Task = TaskState{
			IsRecording:    coerceBool(task["is_recording"]),
			IsPlaying:      coerceBool(task["is_playing"]),
			Actions:        metaActions(task, "actions"),
			PlayIndex:      metaInt(task, "play_index", 0),
			HitchedWagonID: metaString(task, "hitched_wagon_id"),
		}
	}
	if md.Task.PlayIndex < 0 {
		md.Task.PlayIndex = 0
	}
	return md
}

func encodeMonster(m map[string]any, md *MonsterData) {
	m["monster_type"] = md.Type
	if md.Name != "" {
		m["name"] = md.Name
	}
	m["strength"] = md.Abilities.Strength
	m["dexterity"] = md.Abilities.Dexterity
	m["constitution"] = md.Abilities.Constitution
	m["intelligence"] = md.Abilities.Intelligence
	m["wisdom"] = md.Abilities.Wisdom
	m["charisma"] = md.Abilities.Charisma
	skills := map[string]any{
		"transferable":    anyStrings(md.Skills.Transferable),
		"applied":         anyLevels(md.Skills.Applied),
		"specific":        anyLevels(md.Skills.Specific),
		"total_forgotten": md.Skills.TotalForgotten,
	}
	m["skills"] = skills
	actions := make([]any, 0, len(md.Task.Actions))
	for _, a := range md.Task.Actions {
		actions = append(actions, map[string]any{"action": a.Action, "dx": a.DX, "dy": a.DY})
	}
	m["current_task"] = map[string]any{
		"is_recording":     md.Task.IsRecording,
		"is_playing":       md.Task.IsPlaying,
		"actions":          actions,
		"play_index":       md.Task.PlayIndex,
		"hitched_wagon_id": md.Task.HitchedWagonID,
	}
	if !md.CreatedAt.IsZero() {
		m["created_at"] = md.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !md.LastUpkeepPaid.IsZero() {
		m["last_upkeep_paid"] = md.LastUpkeepPaid.UTC().Format(time.RFC3339)
	}
	m["upkeep_overdue"] = md.UpkeepOverdue
	if md.UpkeepRequired != 0 {
		m["upkeep_required"] = md.UpkeepRequired
	}
}

func decodeItem(m map[string]any) *ItemData {
	it := &ItemData{
		GoodType:            metaString(m, "good_type"),
		Quality:             metaFloat(m, "quality", 0),
		Weight:              metaFloat(m, "weight", 0),
		Value:               metaFloat(m, "value", 0),
		Shares:              metaShares(m, "shares"),
		RawMaterials:        metaStrings(m, "raw_materials"),
		RawMaterialMaxDepth: metaInt(m, "raw_material_max_depth", 0),
		IsStored:            coerceBool(m["is_stored"]),
		ContainerID:         metaString(m, "container_id"),
		StoredRole:          metaString(m, "stored_role"),
		Durability:          metaFloat(m, "durability", 0),
		MaxDurability:       metaFloat(m, "max_durability", 0),
		CarriedTags:         metaStrings(m, "carried_over_tags"),
	}
	if slot := metaMap(m, "stored_slot"); slot != nil {
		it.StoredSlot = world.Point{X: metaInt(slot, "x", 0), Y: metaInt(slot, "y", 0)}
	}
	// Legacy records carry quality on a 0-100 scale.
	if it.Quality > 1.5 {
		it.Quality = it.Quality / 100
	}
	if it.Quality < 0 {
		it.Quality = 0
	}
	if it.Weight < 0 {
		it.Weight = 0
	}
	if it.RawMaterialMaxDepth < 0 {
		it.RawMaterialMaxDepth = 0
	}
	return it
}

func encodeItem(m map[string]any, it *ItemData) {
	m["good_type"] = it.GoodType
	m["quality"] = it.Quality
	m["weight"] = it.Weight
	m["value"] = it.Value
	if len(it.Shares) > 0 {
		shares := make([]any, 0, len(it.Shares))
		for _, s := range it.Shares {
			shares = append(shares, shareToMeta(s))
		}
		m["shares"] = shares
	}
	if len(it.RawMaterials) > 0 {
		m["raw_materials"] = anyStrings(it.RawMaterials)
	}
	m["raw_material_max_depth"] = it.RawMaterialMaxDepth
	m["is_stored"] = it.IsStored
	if it.ContainerID != "" {
		m["container_id"] = it.ContainerID
		m["stored_slot"] = map[string]any{"x": it.StoredSlot.X, "y": it.StoredSlot.Y}
		m["stored_role"] = it.StoredRole
	}
	if it.MaxDurability > 0 {
		m["durability"] = it.Durability
		m["max_durability"] = it.MaxDurability
	}
	if len(it.CarriedTags) > 0 {
		m["carried_over_tags"] = anyStrings(it.CarriedTags)
	}
}

func decodeWorkshop(m map[string]any) *WorkshopData {
	w := &WorkshopData{
		Type:                metaString(m, "workshop_type"),
		SelectedRecipeID:    metaString(m, "selected_recipe_id"),
		IsCrafting:          coerceBool(m["is_crafting"]),
		CraftingStartedTick: metaInt64(m, "crafting_started_tick", 0),
		CraftingDuration:    metaInt64(m, "crafting_duration", 0),
		CrafterMonsterID:    metaString(m, "crafter_monster_id"),
		MissingInputs:       metaTagGroups(m, "missing_inputs"),
		MissingTools:        metaStrings(m, "missing_tools"),
		InputItemIDs:        metaStrings(m, "input_item_ids"),
		ToolItemIDs:         metaStrings(m, "tool_item_ids"),
		Contributors:        metaShares(m, "contributors"),
		GatheringGoodType:   metaString(m, "gathering_good_type"),
	}
	if w.CraftingDuration < 0 {
		w.CraftingDuration = 0
	}
	return w
}

func encodeWorkshop(m map[string]any, w *WorkshopData) {
	m["workshop_type"] = w.Type
	if w.SelectedRecipeID != "" {
		m["selected_recipe_id"] = w.SelectedRecipeID
	}
	m["is_crafting"] = w.IsCrafting
	if w.IsCrafting {
		m["crafting_started_tick"] = w.CraftingStartedTick
		m["crafting_duration"] = w.CraftingDuration
	}
	if w.CrafterMonsterID != "" {
		m["crafter_monster_id"] = w.CrafterMonsterID
	}
	if len(w.MissingInputs) > 0 {
		groups := make([]any, 0, len(w.MissingInputs))
		for _, g := range w.MissingInputs {
			groups = append(groups, anyStrings(g))
		}
		m["missing_inputs"] = groups
	}
	if len(w.MissingTools) > 0 {
		m["missing_tools"] = anyStrings(w.MissingTools)
	}
	if len(w.InputItemIDs) > 0 {
		m["input_item_ids"] = anyStrings(w.InputItemIDs)
	}
	if len(w.ToolItemIDs) > 0 {
		m["tool_item_ids"] = anyStrings(w.ToolItemIDs)
	}
	if len(w.Contributors) > 0 {
		contribs := make([]any, 0, len(w.Contributors))
		for _, s := range w.Contributors {
			contribs = append(contribs, shareToMeta(s))
		}
		m["contributors"] = contribs
	}
	if w.GatheringGoodType != "" {
		m["gathering_good_type"] = w.GatheringGoodType
	}
}

func shareToMeta(s Share) map[string]any {
	out := map[string]any{"count": s.Count}
	if s.MonsterID != "" {
		out["monster_id"] = s.MonsterID
	}
	if s.PlayerID != "" {
		out["player_id"] = s.PlayerID
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	return out
}

func metaString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

func metaFloat(m map[string]any, key string, def float64) float64 {
	if m == nil {
		return def
	}
	return coerceFloat(m[key], def)
}

func coerceFloat(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return def
}

func metaInt(m map[string]any, key string, def int) int {
	return int(metaFloat(m, key, float64(def)))
}

func metaInt64(m map[string]any, key string, def int64) int64 {
	return int64(metaFloat(m, key, float64(def)))
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true" || b == "1"
	case float64:
		return b != 0
	case int:
		return b != 0
	default:
		return false
	}
}

func metaMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	if sub, ok := m[key].(map[string]any); ok {
		return sub
	}
	return nil
}

func metaStrings(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}
	switch list := m[key].(type) {
	case []string:
		return cloneStrings(list)
	case []any:
		out := make([]string, 0, len(list))
		for _, v := range list {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if list == "" {
			return nil
		}
		return []string{list}
	default:
		return nil
	}
}

func metaTagGroups(m map[string]any, key string) [][]string {
	if m == nil {
		return nil
	}
	list, ok := m[key].([]any)
	if !ok {
		if typed, tok := m[key].([][]string); tok {
			return cloneTagGroups(typed)
		}
		return nil
	}
	out := make([][]string, 0, len(list))
	for _, g := range list {
		switch group := g.(type) {
		case []any:
			tags := make([]string, 0, len(group))
			for _, t := range group {
				if s, ok := t.(string); ok {
					tags = append(tags, s)
				}
			}
			out = append(out, tags)
		case []string:
			out = append(out, cloneStrings(group))
		case string:
			out = append(out, []string{group})
		}
	}
	return out
}

func metaLevels(m map[string]any, key string) map[string]float64 {
	if m == nil {
		return nil
	}
	switch levels := m[key].(type) {
	case map[string]float64:
		return cloneLevels(levels)
	case map[string]any:
		out := make(map[string]float64, len(levels))
		for k, v := range levels {
			out[k] = coerceFloat(v, 0)
		}
		return out
	default:
		return nil
	}
}

func metaShares(m map[string]any, key string) []Share {
	if m == nil {
		return nil
	}
	switch list := m[key].(type) {
	case []Share:
		return append([]Share(nil), list...)
	case []any:
		out := make([]Share, 0, len(list))
		for _, v := range list {
			entry, ok := v.(map[string]any)
			if !ok {
				continue
			}
			s := Share{
				MonsterID:   metaString(entry, "monster_id"),
				PlayerID:    metaString(entry, "player_id"),
				Count:       metaFloat(entry, "count", 0),
				Description: metaString(entry, "description"),
			}
			if s.Count > 0 {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func metaActions(m map[string]any, key string) []RecordedAction {
	if m == nil {
		return nil
	}
	switch list := m[key].(type) {
	case []RecordedAction:
		return append([]RecordedAction(nil), list...)
	case []any:
		out := make([]RecordedAction, 0, len(list))
		for _, v := range list {
			entry, ok := v.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, RecordedAction{
				Action: metaString(entry, "action"),
				DX:     metaInt(entry, "dx", 0),
				DY:     metaInt(entry, "dy", 0),
			})
		}
		return out
	default:
		return nil
	}
}

// metaTime accepts RFC3339 strings and unix-second numbers; anything
// else decodes as the zero time.
func metaTime(m map[string]any, key string) time.Time {
	if m == nil {
		return time.Time{}
	}
	switch v := m[key].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	case float64:
		if v > 0 {
			return time.Unix(int64(v), 0).UTC()
		}
	case int64:
		if v > 0 {
			return time.Unix(v, 0).UTC()
		}
	case int:
		if v > 0 {
			return time.Unix(int64(v), 0).UTC()
		}
	case time.Time:
		return v
	}
	return time.Time{}
}

func anyStrings(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}

func anyLevels(in map[string]float64) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
