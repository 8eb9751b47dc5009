package forge

import (
	"fmt"
	"strings"
)

// handleInteract examines an adjacent or coincident entity and reports
// what the monster sees to the acting player only.
func (e *Engine) handleInteract(st *tickState, in Intent) {
	mon := st.ownedMonster(in.PlayerID, in.EntityID)
	if mon == nil {
		return
	}
	target := st.get(in.TargetID)
	if target == nil {
		target = e.firstExaminable(st, mon)
	}
	if target == nil || target.ID == mon.ID {
		return
	}
	rect := mon.Rect()
	if !rect.Adjacent(target.Rect()) && !rect.Overlaps(target.Rect()) {
		return
	}
	data := map[string]any{"entity_id": mon.ID, "target_id": target.ID, "kind": string(target.Kind)}
	var msg string
	switch target.Kind {
	case KindSignpost:
		msg = "The signpost is blank"
		if target.Signpost != nil && target.Signpost.Text != "" {
			msg = target.Signpost.Text
			data["text"] = target.Signpost.Text
		}
	case KindWorkshop, KindGatheringSpot:
		msg = e.describeWorkshop(target, data)
	case KindDelivery:
		msg = "Delivery point"
		if target.Delivery != nil && len(target.Delivery.AcceptedTags) > 0 {
			msg = fmt.Sprintf("Delivery point accepting: %s", strings.Join(target.Delivery.AcceptedTags, ", "))
			data["accepted_tags"] = target.Delivery.AcceptedTags
		}
	case KindDispenser:
		stored := st.storedIn(target.ID)
		msg = fmt.Sprintf("Dispenser holding %d item(s)", len(stored))
		if target.Dispenser != nil && target.Dispenser.GoodType != "" {
			msg = fmt.Sprintf("Dispenser for %s holding %d item(s)", target.Dispenser.GoodType, len(stored))
			data["good_type"] = target.Dispenser.GoodType
		}
		data["stored"] = len(stored)
	case KindItem:
		if target.Item == nil {
			return
		}
		msg = fmt.Sprintf("%s (quality %.2f, value %.1f)", target.Item.GoodType, target.Item.Quality, target.Item.Value)
		data["good_type"] = target.Item.GoodType
		data["quality"] = target.Item.Quality
		data["value"] = target.Item.Value
	default:
		return
	}
	st.emit(Event{
		Type:           EventInfo,
		Message:        msg,
		TargetPlayerID: in.PlayerID,
		Data:           data,
	})
}

func (e *Engine) describeWorkshop(target *Entity, data map[string]any) string {
	w := target.Workshop
	if w == nil {
		return "A workshop"
	}
	name := w.Type
	if target.Kind == KindGatheringSpot {
		name = fmt.Sprintf("%s (yields %s)", w.Type, w.GatheringGoodType)
	}
	data["workshop_type"] = w.Type
	data["selected_recipe_id"] = w.SelectedRecipeID
	data["is_crafting"] = w.IsCrafting
	switch {
	case w.IsCrafting:
		return fmt.Sprintf("%s crafting %s", name, w.SelectedRecipeID)
	case len(w.MissingInputs) > 0 || len(w.MissingTools) > 0:
		data["missing_inputs"] = w.MissingInputs
		data["missing_tools"] = w.MissingTools
		return fmt.Sprintf("%s waiting on materials for %s", name, w.SelectedRecipeID)
	case w.SelectedRecipeID != "":
		return fmt.Sprintf("%s set to %s", name, w.SelectedRecipeID)
	default:
		return fmt.Sprintf("%s is idle", name)
	}
}

// firstExaminable picks the first non-monster entity in arena order that
// the monster stands on or next to.
func (e *Engine) firstExaminable(st *tickState, mon *Entity) *Entity {
	rect := mon.Rect()
	for _, id := range st.order {
		ent := st.get(id)
		if ent == nil || ent.ID == mon.ID || ent.Kind == KindMonster {
			continue
		}
		if ent.Kind == KindItem && (ent.Item == nil || ent.Item.IsStored) {
			continue
		}
		if rect.Adjacent(ent.Rect()) || rect.Overlaps(ent.Rect()) {
			return ent
		}
	}
	return nil
}
