package forge

import (
	"fmt"

	"monsterforge/internal/domain/world"
)

// handleSelectRecipe sets a structure's pending recipe and attempts an
// immediate start, reporting missing requirements back to the player.
// Gathering spots are locked to their own yield.
func (e *Engine) handleSelectRecipe(st *tickState, in Intent) {
	s := st.get(in.WorkshopID)
	if s == nil || !s.IsStructure() || s.Workshop == nil {
		return
	}
	if s.OwnerID != "" && s.OwnerID != in.PlayerID {
		return
	}
	good, ok := e.catalog.Good(in.RecipeID)
	if !ok {
		st.emitError(in.PlayerID, fmt.Sprintf("Unknown recipe %q", in.RecipeID), map[string]any{
			"workshop_id": s.ID,
		})
		return
	}
	key := NormalizeKey(in.RecipeID)
	if s.Kind == KindGatheringSpot && NormalizeKey(s.Workshop.GatheringGoodType) != key {
		st.emitError(in.PlayerID, fmt.Sprintf("This spot only yields %s", s.Workshop.GatheringGoodType), map[string]any{
			"workshop_id": s.ID,
			"recipe_id":   key,
		})
		return
	}
	if s.Kind == KindWorkshop && good.RequiredWorkshopType != "" &&
		NormalizeKey(good.RequiredWorkshopType) != NormalizeKey(s.Workshop.Type) {
		st.emitError(in.PlayerID, fmt.Sprintf("%s requires a %s", good.Name, good.RequiredWorkshopType), map[string]any{
			"workshop_id": s.ID,
			"recipe_id":   key,
		})
		return
	}
	if s.Workshop.IsCrafting {
		st.emitError(in.PlayerID, "Crafting already in progress", map[string]any{
			"workshop_id": s.ID,
		})
		return
	}
	if in.CrafterID != "" {
		if mon := st.ownedMonster(in.PlayerID, in.CrafterID); mon != nil {
			s.Workshop.CrafterMonsterID = mon.ID
		}
	}
	s.Workshop.SelectedRecipeID = key
	st.touch(s.ID)
	e.tryStartCrafting(st, s, in.PlayerID, true)
}

// tryStartCrafting begins the selected recipe when every input group
// and tool tag is satisfied. announce gates the crafting_blocked event:
// explicit selection reports what is missing, the per-tick auto-start
// stays quiet.
func (e *Engine) tryStartCrafting(st *tickState, s *Entity, playerID string, announce bool) bool {
	w := s.Workshop
	if w == nil || w.IsCrafting || w.SelectedRecipeID == "" {
		return false
	}
	good, ok := e.catalog.Good(w.SelectedRecipeID)
	if !ok {
		return false
	}
	missIn, missTools := e.missingRequirements(st, s, good)
	if !equalTagGroups(w.MissingInputs, missIn) || !equalStrings(w.MissingTools, missTools) {
		w.MissingInputs = missIn
		w.MissingTools = missTools
		st.touch(s.ID)
	}
	if len(missIn) > 0 || len(missTools) > 0 {
		if announce {
			st.emit(Event{
				Type:           EventCraftingBlocked,
				TargetPlayerID: playerID,
				Message:        fmt.Sprintf("Missing requirements for %s", good.Name),
				Data: map[string]any{
					"workshop_id":    s.ID,
					"missing_inputs": missIn,
					"missing_tools":  missTools,
				},
			})
		}
		return false
	}

	var m *MonsterData
	if c := st.get(w.CrafterMonsterID); c != nil && c.Kind == KindMonster && c.Monster != nil {
		m = c.Monster
	}
	inputs, tools := e.splitStored(st, s)
	w.IsCrafting = true
	w.CraftingStartedTick = st.tick
	w.CraftingDuration = e.craftDuration(good, m)
	w.InputItemIDs = entityIDs(inputs)
	w.ToolItemIDs = entityIDs(tools)
	st.touch(s.ID)
	return true
}

// missingRequirements reports unsatisfied input tag-groups and tool
// tags. Each stored item can satisfy at most one group; gathering spots
// need no inputs.
func (e *Engine) missingRequirements(st *tickState, s *Entity, good GoodType) ([][]string, []string) {
	inputs, tools := e.splitStored(st, s)

	var missIn [][]string
	if s.Kind != KindGatheringSpot {
		used := map[string]bool{}
		for _, group := range good.InputTagGroups {
			if !e.matchGroup(inputs, group, used) {
				missIn = append(missIn, group)
			}
		}
	}

	var missTools []string
	usedTools := map[string]bool{}
	for _, tag := range good.ToolTags {
		if !e.matchTool(tools, tag, usedTools) {
			missTools = append(missTools, tag)
		}
	}
	return missIn, missTools
}

// matchGroup finds one unused input carrying every tag in the group.
func (e *Engine) matchGroup(items []*Entity, group []string, used map[string]bool) bool {
	for _, it := range items {
		if used[it.ID] {
			continue
		}
		tags := e.itemTags(it)
		ok := true
		for _, t := range group {
			if !tags[t] {
				ok = false
				break
			}
		}
		if ok {
			used[it.ID] = true
			return true
		}
	}
	return false
}

func (e *Engine) matchTool(tools []*Entity, tag string, used map[string]bool) bool {
	for _, t := range tools {
		if used[t.ID] {
			continue
		}
		if e.itemTags(t)[tag] {
			used[t.ID] = true
			return true
		}
	}
	return false
}

// matchedTools pairs each required tool tag with the stored tool that
// fills it and the tag's share weight.
func (e *Engine) matchedTools(tools []*Entity, good GoodType) ([]*Entity, []float64) {
	var out []*Entity
	var weights []float64
	used := map[string]bool{}
	for i, tag := range good.ToolTags {
		weight := 1.0
		if i < len(good.ToolWeights) {
			weight = good.ToolWeights[i]
		}
		for _, t := range tools {
			if used[t.ID] || !e.itemTags(t)[tag] {
				continue
			}
			used[t.ID] = true
			out = append(out, t)
			weights = append(weights, weight)
			break
		}
	}
	return out, weights
}

// splitStored partitions a structure's stored items into inputs and
// tools by deposit role, falling back to the catalog for items seeded
// without one.
func (e *Engine) splitStored(st *tickState, s *Entity) (inputs, tools []*Entity) {
	for _, it := range st.storedIn(s.ID) {
		switch {
		case it.Item.StoredRole == StoredRoleTool:
			tools = append(tools, it)
		case it.Item.StoredRole == StoredRoleInput:
			inputs = append(inputs, it)
		case e.itemIsTool(it):
			tools = append(tools, it)
		default:
			inputs = append(inputs, it)
		}
	}
	return inputs, tools
}

// itemTags is the union of the item's catalog tags and carried-over
// tags.
func (e *Engine) itemTags(item *Entity) map[string]bool {
	tags := map[string]bool{}
	if item.Item == nil {
		return tags
	}
	if g, ok := e.catalog.Good(item.Item.GoodType); ok {
		for _, t := range g.Tags {
			tags[t] = true
		}
	}
	for _, t := range item.Item.CarriedTags {
		tags[t] = true
	}
	return tags
}

// stepCrafting advances every structure: idle ones auto-start when
// materials arrived since selection, running ones complete once the
// elapsed ticks reach the rolled duration.
func (e *Engine) stepCrafting(st *tickState) {
	for _, id := range st.ids() {
		s := st.get(id)
		if s == nil || !s.IsStructure() || s.Workshop == nil {
			continue
		}
		if !s.Workshop.IsCrafting {
			e.tryStartCrafting(st, s, s.OwnerID, false)
			continue
		}
		if st.tick-s.Workshop.CraftingStartedTick < s.Workshop.CraftingDuration {
			continue
		}
		e.completeCrafting(st, s)
	}
}

// completeCrafting resolves one finished craft: skill gain, quantity
// and per-unit quality rolls, lineage and share bookkeeping, tool wear,
// input consumption, and output placement.
func (e *Engine) completeCrafting(st *tickState, s *Entity) {
	w := s.Workshop
	w.IsCrafting = false
	st.touch(s.ID)
	good, ok := e.catalog.Good(w.SelectedRecipeID)
	if !ok {
		return
	}

	inputs, tools := e.splitStored(st, s)
	var crafter *Entity
	var m *MonsterData
	if c := st.get(w.CrafterMonsterID); c != nil && c.Kind == KindMonster && c.Monster != nil {
		crafter, m = c, c.Monster
	}
	if crafter != nil {
		e.applySkillGain(st, crafter, good, w.CraftingDuration)
	}

	qty := e.rollQuantity(st, good, m, tools)
	shares := e.outputShares(st, s, good, crafter, inputs, tools)
	lineage, depth := e.outputLineage(good, inputs)
	carried := e.carriedTags(good, inputs)
	weight := itemWeight(good)
	goodKey := NormalizeKey(good.Name)
	if good.IsRawMaterial {
		goodKey = rollRawMaterialType(goodKey)
	}

	type rolled struct {
		quality float64
		value   float64
	}
	units := make([]rolled, 0, qty)
	for i := 0; i < qty; i++ {
		q := e.rollQuality(st, good, m, inputs, tools)
		units = append(units, rolled{quality: q, value: e.itemValue(good, q, lineage, depth, m)})
	}

	// Wear each tool by its recipe weight times the batch size, then
	// consume the inputs so their cells are free for outputs.
	wearTools, wearWeights := e.matchedTools(tools, good)
	for i, tool := range wearTools {
		tool.Item.Durability -= wearWeights[i] * float64(qty)
		if tool.Item.Durability <= 0 {
			st.remove(tool.ID)
			st.emit(Event{
				Type:    EventToolDepleted,
				Message: fmt.Sprintf("%s wore out", tool.Item.GoodType),
				Data: map[string]any{
					"workshop_id": s.ID,
					"item_id":     tool.ID,
					"good_type":   tool.Item.GoodType,
				},
			})
			continue
		}
		st.touch(tool.ID)
	}
	var consumed []string
	for _, in := range inputs {
		consumed = append(consumed, in.Item.GoodType)
		st.remove(in.ID)
	}
	w.InputItemIDs = nil
	_, toolsLeft := e.splitStored(st, s)
	w.ToolItemIDs = entityIDs(toolsLeft)

	owner := s.OwnerID
	if crafter != nil {
		owner = crafter.OwnerID
	}
	made := 0
	for _, u := range units {
		item := &Entity{
			Kind:    KindItem,
			Size:    normSize(good.Size),
			OwnerID: owner,
			Item: &ItemData{
				GoodType:            goodKey,
				Quality:             u.quality,
				Weight:              weight,
				Value:               u.value,
				Shares:              append([]Share(nil), shares...),
				RawMaterials:        cloneStrings(lineage),
				RawMaterialMaxDepth: depth,
				Durability:          good.Durability,
				MaxDurability:       good.Durability,
				CarriedTags:         cloneStrings(carried),
			},
		}
		if e.placeOutput(st, s, item) {
			made++
		}
	}

	data := map[string]any{
		"workshop_id": s.ID,
		"good_type":   goodKey,
		"quantity":    made,
		"consumed":    consumed,
	}
	if made < qty {
		data["dropped"] = qty - made
	}
	st.emit(Event{
		Type:    EventCraftingComplete,
		Message: fmt.Sprintf("Crafted %d %s", made, good.Name),
		Data:    data,
	})
}

// placeOutput lands one finished unit: an adjacent compatible dispenser
// first, otherwise the structure interior starting from the corner
// nearest the bottom-right. Units with nowhere to go vanish.
func (e *Engine) placeOutput(st *tickState, s *Entity, item *Entity) bool {
	created := st.create(item, e.newID)
	if d := e.adjacentDispenser(st, s); d != nil {
		if e.depositIntoContainer(st, created, d, dispenserCapacity(d), d.Pos) {
			return true
		}
	}
	if spot, ok := e.outputSpot(st, s, created); ok {
		created.Pos = spot
		return true
	}
	st.remove(created.ID)
	return false
}

func (e *Engine) adjacentDispenser(st *tickState, s *Entity) *Entity {
	rect := s.Rect()
	for _, id := range st.order {
		d := st.get(id)
		if d == nil || d.Kind != KindDispenser {
			continue
		}
		if rect.Adjacent(d.Rect()) {
			return d
		}
	}
	return nil
}

// outputSpot scans the interior bottom-up, right-to-left, for the first
// footprint-sized gap.
func (e *Engine) outputSpot(st *tickState, s *Entity, item *Entity) (world.Point, bool) {
	interior := s.Rect().Interior()
	size := normSize(item.Size)
	if interior.Size.W < size.W || interior.Size.H < size.H {
		return world.Point{}, false
	}
	for y := interior.Pos.Y + interior.Size.H - size.H; y >= interior.Pos.Y; y-- {
		for x := interior.Pos.X + interior.Size.W - size.W; x >= interior.Pos.X; x-- {
			spot := world.Rect{Pos: world.Point{X: x, Y: y}, Size: size}
			if e.spotOccupied(st, s, item, spot) {
				continue
			}
			return spot.Pos, true
		}
	}
	return world.Point{}, false
}

func (e *Engine) spotOccupied(st *tickState, s, item *Entity, spot world.Rect) bool {
	for _, other := range st.at(spot) {
		if other.ID == s.ID || other.ID == item.ID {
			continue
		}
		if other.Kind == KindCommune || other.Kind == KindWorldMarker {
			continue
		}
		return true
	}
	return false
}

func entityIDs(list []*Entity) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.ID)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalTagGroups(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalStrings(a[i], b[i]) {
			return false
		}
	}
	return true
}
