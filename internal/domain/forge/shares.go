package forge

import (
	"fmt"
	"math"
)

// workshopShareWeight is the flat contribution credited to a
// structure's builders on every craft that runs through it.
const workshopShareWeight = 8.0

// mergeShares accumulates counts by (monster, player) identity,
// preserving first-seen order.
func mergeShares(dst []Share, src ...Share) []Share {
	for _, s := range src {
		if s.Count <= 0 {
			continue
		}
		merged := false
		for i := range dst {
			if dst[i].MonsterID == s.MonsterID && dst[i].PlayerID == s.PlayerID {
				dst[i].Count += s.Count
				merged = true
				break
			}
		}
		if !merged {
			dst = append(dst, s)
		}
	}
	return dst
}

// apportion splits weight across holders proportionally to their own
// counts. With no holders the whole weight goes to the fallback, or
// nowhere when the fallback names nobody.
func apportion(weight float64, holders []Share, fallback Share) []Share {
	if weight <= 0 {
		return nil
	}
	total := 0.0
	for _, h := range holders {
		if h.Count > 0 {
			total += h.Count
		}
	}
	if total <= 0 {
		if fallback.MonsterID == "" && fallback.PlayerID == "" {
			return nil
		}
		fallback.Count = weight
		return []Share{fallback}
	}
	out := make([]Share, 0, len(holders))
	for _, h := range holders {
		if h.Count <= 0 {
			continue
		}
		out = append(out, Share{
			MonsterID:   h.MonsterID,
			PlayerID:    h.PlayerID,
			Count:       weight * h.Count / total,
			Description: h.Description,
		})
	}
	return out
}

// outputShares assembles a finished unit's contribution ledger: input
// shares pass through whole, each matched tool's share weight is
// apportioned across the tool's own ledger, the structure's flat weight
// across its builders, and the crafter earns the recipe's value-added
// shares.
func (e *Engine) outputShares(st *tickState, s *Entity, good GoodType, crafter *Entity, inputs, tools []*Entity) []Share {
	var shares []Share
	for _, in := range inputs {
		shares = mergeShares(shares, in.Item.Shares...)
	}
	matched, weights := e.matchedTools(tools, good)
	for i, tool := range matched {
		fallback := Share{PlayerID: tool.OwnerID, Description: "tool"}
		shares = mergeShares(shares, apportion(weights[i], tool.Item.Shares, fallback)...)
	}
	shares = mergeShares(shares, apportion(workshopShareWeight, s.Workshop.Contributors, Share{
		PlayerID:    s.OwnerID,
		Description: "workshop",
	})...)
	if crafter != nil && good.ValueAddedShares > 0 {
		shares = mergeShares(shares, Share{
			MonsterID:   crafter.ID,
			PlayerID:    crafter.OwnerID,
			Count:       good.ValueAddedShares,
			Description: "crafter",
		})
	}
	return shares
}

// outputLineage is the union of the inputs' raw-material histories,
// one level deeper. Raw recipes start their own lineage at depth zero;
// raw inputs seeded without history contribute themselves.
func (e *Engine) outputLineage(good GoodType, inputs []*Entity) ([]string, int) {
	if good.IsRawMaterial {
		return []string{NormalizeKey(good.Name)}, 0
	}
	seen := map[string]bool{}
	var lineage []string
	depth := 0
	for _, in := range inputs {
		for _, raw := range in.Item.RawMaterials {
			key := NormalizeKey(raw)
			if !seen[key] {
				seen[key] = true
				lineage = append(lineage, key)
			}
		}
		if in.Item.RawMaterialMaxDepth > depth {
			depth = in.Item.RawMaterialMaxDepth
		}
		if g, ok := e.catalog.Good(in.Item.GoodType); ok && g.IsRawMaterial {
			key := NormalizeKey(in.Item.GoodType)
			if !seen[key] {
				seen[key] = true
				lineage = append(lineage, key)
			}
		}
	}
	return lineage, depth + 1
}

// carriedTags propagates input tags the output's own catalog entry does
// not already carry. Marker tags never travel.
func (e *Engine) carriedTags(good GoodType, inputs []*Entity) []string {
	skip := map[string]bool{"raw": true, "tool": true}
	for _, t := range good.Tags {
		skip[t] = true
	}
	seen := map[string]bool{}
	var out []string
	for _, in := range inputs {
		var tags []string
		if g, ok := e.catalog.Good(in.Item.GoodType); ok {
			tags = append(tags, g.Tags...)
		}
		tags = append(tags, in.Item.CarriedTags...)
		for _, t := range tags {
			if skip[t] || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// deliverItem pays out a delivered item's value across its share
// ledger and removes the item. Each contributor's cut floors to whole
// renown; an item with no ledger credits the deliverer.
func (e *Engine) deliverItem(st *tickState, mover, item *Entity, del *Entity) bool {
	if item.Item == nil || item.Item.IsStored {
		return false
	}
	if !e.deliveryAccepts(del, item) {
		st.emit(Event{
			Type:           EventBlocked,
			TargetPlayerID: mover.OwnerID,
			Message:        fmt.Sprintf("This delivery point does not take %s", item.Item.GoodType),
			Data:           map[string]any{"target_id": del.ID, "item_id": item.ID},
		})
		return false
	}

	shares := item.Item.Shares
	if len(shares) == 0 {
		shares = []Share{{MonsterID: mover.ID, PlayerID: mover.OwnerID, Count: 1}}
	}
	total := 0.0
	for _, s := range shares {
		if s.Count > 0 {
			total += s.Count
		}
	}

	var order []string
	amounts := map[string]int{}
	breakdown := make([]map[string]any, 0, len(shares))
	for _, s := range shares {
		if s.Count <= 0 || total <= 0 {
			continue
		}
		playerID := s.PlayerID
		if playerID == "" && s.MonsterID != "" {
			if m := st.get(s.MonsterID); m != nil {
				playerID = m.OwnerID
			}
		}
		if playerID == "" {
			continue
		}
		amount := int(math.Floor(item.Item.Value * s.Count / total))
		if _, ok := amounts[playerID]; !ok {
			order = append(order, playerID)
		}
		amounts[playerID] += amount
		breakdown = append(breakdown, map[string]any{
			"player_id":  playerID,
			"monster_id": s.MonsterID,
			"count":      s.Count,
			"renown":     amount,
		})
	}
	for _, playerID := range order {
		c := st.commune(playerID, e.newID)
		c.Commune.Renown += amounts[playerID]
		st.touch(c.ID)
	}

	goodType := item.Item.GoodType
	value := item.Item.Value
	st.remove(item.ID)
	st.emit(Event{
		Type:    EventDelivery,
		Message: fmt.Sprintf("%s delivered for %.1f renown", goodType, value),
		Data: map[string]any{
			"delivery_id":  del.ID,
			"good_type":    goodType,
			"value":        value,
			"contributors": breakdown,
		},
	})
	return true
}

// deliveryAccepts matches the point's accepted tags against the item's
// catalog and carried tags. No accepted tags means take everything.
func (e *Engine) deliveryAccepts(del *Entity, item *Entity) bool {
	if del.Delivery == nil || len(del.Delivery.AcceptedTags) == 0 {
		return true
	}
	tags := e.itemTags(item)
	for _, t := range del.Delivery.AcceptedTags {
		if tags[t] {
			return true
		}
	}
	return false
}
