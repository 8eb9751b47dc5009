package forge

import (
	"fmt"
	"math"

	"monsterforge/internal/domain/world"
)

const (
	// TransferableSkillCount is how many transferable skills every new
	// monster starts with, no more, no fewer.
	TransferableSkillCount = 3

	// UpkeepCycleDays is the game-day interval between upkeep charges.
	UpkeepCycleDays = 28.0

	maxCostScale = 3.0
)

// CostScale is the spawn-price inflation for a commune that has already
// spent totalSpent renown: 1.0 for a fresh commune, +10% per 1000
// spent, capped at 3x.
func CostScale(totalSpent int) float64 {
	return math.Min(maxCostScale, 1+0.1*float64(totalSpent)/1000)
}

// ScaledCost applies the inflation to a base cost. Upkeep keeps using
// the uninflated base.
func ScaledCost(base, totalSpent int) int {
	return int(math.Round(float64(base) * CostScale(totalSpent)))
}

func (e *Engine) handleSpawnMonster(st *tickState, in Intent) {
	mt, ok := e.catalog.Monster(in.MonsterType)
	if !ok {
		st.emitError(in.PlayerID, fmt.Sprintf("Unknown monster type %q", in.MonsterType), nil)
		return
	}
	if msg := e.checkTransferable(in.Transferable); msg != "" {
		st.emitError(in.PlayerID, msg, map[string]any{
			"transferable_skills": in.Transferable,
		})
		return
	}

	commune := st.commune(in.PlayerID, e.newID)
	cost := ScaledCost(mt.Cost, commune.Commune.TotalRenownSpent)
	if commune.Commune.Renown < cost {
		st.emitError(in.PlayerID, fmt.Sprintf("Not enough renown (%d < %d)", commune.Commune.Renown, cost), map[string]any{
			"renown":   commune.Commune.Renown,
			"required": cost,
		})
		return
	}

	spot, ok := e.spawnSpot(st)
	if !ok {
		st.emitError(in.PlayerID, "No room to spawn", nil)
		return
	}
	commune.Commune.Renown -= cost
	commune.Commune.TotalRenownSpent += cost
	st.touch(commune.ID)

	name := in.MonsterName
	if name == "" {
		name = mt.Name
	}
	mon := st.create(&Entity{
		Kind:    KindMonster,
		Pos:     spot,
		Size:    world.Size{W: 1, H: 1},
		OwnerID: in.PlayerID,
		Monster: &MonsterData{
			Type:      NormalizeKey(in.MonsterType),
			Name:      name,
			Abilities: mt.Abilities,
			Skills: SkillSet{
				Transferable: cloneStrings(in.Transferable),
				Applied:      map[string]float64{},
				Specific:     map[string]float64{},
			},
			CreatedAt:      st.now,
			LastUpkeepPaid: st.now,
		},
	}, e.newID)
	st.emit(Event{
		Type:           EventMonsterSpawned,
		TargetPlayerID: in.PlayerID,
		Message:        fmt.Sprintf("%s the %s joined the commune", name, mt.Name),
		Data: map[string]any{
			"monster_id":   mon.ID,
			"monster_type": mon.Monster.Type,
			"cost":         cost,
		},
	})
}

// checkTransferable enforces exactly three distinct catalog skills.
func (e *Engine) checkTransferable(skills []string) string {
	if len(skills) != TransferableSkillCount {
		return fmt.Sprintf("Exactly %d transferable skills required, got %d", TransferableSkillCount, len(skills))
	}
	seen := map[string]bool{}
	for _, s := range skills {
		if seen[s] {
			return fmt.Sprintf("Duplicate transferable skill %q", s)
		}
		seen[s] = true
		if !e.catalog.Skills.ValidTransferable(s) {
			return fmt.Sprintf("Unknown transferable skill %q", s)
		}
	}
	return ""
}

// spawnSpot finds a free cell at or near the zone's spawn point,
// scanning outward ring by ring.
func (e *Engine) spawnSpot(st *tickState) (world.Point, bool) {
	origin := st.zone.Spawn()
	for radius := 0; radius <= 5; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if max(abs(dx), abs(dy)) != radius {
					continue
				}
				cell := world.Point{X: origin.X + dx, Y: origin.Y + dy}
				spot := world.Rect{Pos: cell, Size: world.Size{W: 1, H: 1}}
				if !st.zone.InBounds(spot) || st.zone.BlocksFootprint(spot) {
					continue
				}
				if st.blockerAt(spot, "") != nil {
					continue
				}
				return cell, true
			}
		}
	}
	return world.Point{}, false
}

// stepEconomy settles upkeep for every owned monster whose cycle has
// elapsed. Affordable upkeep is paid silently at the uninflated base
// cost; an empty treasury flags the monster overdue until a later tick
// can pay.
func (e *Engine) stepEconomy(st *tickState) {
	for _, id := range st.ids() {
		mon := st.get(id)
		if mon == nil || mon.Kind != KindMonster || mon.Monster == nil || mon.OwnerID == "" {
			continue
		}
		e.settleUpkeep(st, mon)
	}
}

func (e *Engine) settleUpkeep(st *tickState, mon *Entity) {
	m := mon.Monster
	if m.LastUpkeepPaid.IsZero() {
		// Seeded monsters start their first cycle now.
		m.LastUpkeepPaid = st.now
		st.touch(mon.ID)
		return
	}
	if e.clock.GameDays(st.now.Sub(m.LastUpkeepPaid)) < UpkeepCycleDays {
		return
	}

	mt, ok := e.catalog.Monster(m.Type)
	if !ok || mt.Cost <= 0 {
		m.LastUpkeepPaid = st.now
		st.touch(mon.ID)
		return
	}

	commune := st.commune(mon.OwnerID, e.newID)
	if commune.Commune.Renown >= mt.Cost {
		commune.Commune.Renown -= mt.Cost
		st.touch(commune.ID)
		m.LastUpkeepPaid = st.now
		m.UpkeepOverdue = false
		m.UpkeepRequired = 0
		st.touch(mon.ID)
		return
	}

	if !m.UpkeepOverdue {
		m.UpkeepOverdue = true
		m.UpkeepRequired = mt.Cost
		st.touch(mon.ID)
		st.emit(Event{
			Type:           EventUpkeepDue,
			TargetPlayerID: mon.OwnerID,
			Message:        fmt.Sprintf("Upkeep due for %s (%d renown)", m.Name, mt.Cost),
			Data: map[string]any{
				"monster_id": mon.ID,
				"required":   mt.Cost,
				"renown":     commune.Commune.Renown,
			},
		})
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
