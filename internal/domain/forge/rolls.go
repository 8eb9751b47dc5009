package forge

import (
	"math"
	"sort"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abilityScore(a AbilityScores, name string) int {
	switch NormalizeKey(name) {
	case "strength":
		return a.Strength
	case "dexterity":
		return a.Dexterity
	case "constitution":
		return a.Constitution
	case "intelligence":
		return a.Intelligence
	case "wisdom":
		return a.Wisdom
	case "charisma":
		return a.Charisma
	default:
		return 10
	}
}

// avgItemQuality defaults to 1.0 when the list is empty so recipes
// without inputs or tools roll from a neutral baseline.
func avgItemQuality(items []*Entity) float64 {
	if len(items) == 0 {
		return 1
	}
	sum := 0.0
	for _, it := range items {
		if it.Item != nil {
			sum += it.Item.Quality
		}
	}
	return sum / float64(len(items))
}

// matchingTransferables counts the crafter's transferable skills that
// boost the recipe's primary applied skill.
func (e *Engine) matchingTransferables(m *MonsterData, good GoodType) int {
	if good.PrimarySkill == "" {
		return 0
	}
	n := 0
	for _, t := range m.Skills.Transferable {
		if e.catalog.Skills.Boosts(t, good.PrimarySkill) {
			n++
		}
	}
	return n
}

// craftDuration discounts production time by up to half at primary
// skill mastery, never below one tick.
func (e *Engine) craftDuration(good GoodType, m *MonsterData) int64 {
	base := good.ProductionTime
	if base <= 0 {
		base = 1
	}
	if m == nil {
		return base
	}
	p := clamp01(m.Skills.EffectiveApplied(good.PrimarySkill))
	d := int64(math.Round(float64(base) * (1 - 0.5*p)))
	if d < 1 {
		d = 1
	}
	return d
}

// secondaryLevels lists the crafter's effective levels for the recipe's
// secondary skills, weakest first.
func secondaryLevels(m *MonsterData, good GoodType) []float64 {
	if len(good.SecondarySkills) == 0 {
		return nil
	}
	out := make([]float64, 0, len(good.SecondarySkills))
	for _, s := range good.SecondarySkills {
		out = append(out, m.Skills.EffectiveApplied(s))
	}
	sort.Float64s(out)
	return out
}

// rollQuantity draws the output count. Fixed-quantity recipes and
// crafterless completions yield the catalog amount; otherwise the mean
// scales with ability, primary skill, and tool quality before the
// Gaussian draw. Never returns less than one.
func (e *Engine) rollQuantity(st *tickState, good GoodType, m *MonsterData, tools []*Entity) int {
	base := good.Quantity
	if base <= 0 {
		base = 1
	}
	if good.FixedQuantity || m == nil {
		n := int(math.Round(base))
		if n < 1 {
			n = 1
		}
		return n
	}
	primary := clamp01(m.Skills.EffectiveApplied(good.PrimarySkill))
	ability := float64(abilityScore(m.Abilities, good.RelevantAbility)+e.ageBonus(st, m)) / 20
	toolQ := avgItemQuality(tools)
	mean := base * (0.5 + 0.5*ability) * (1 + 0.5*primary) * (0.5 + 0.5*toolQ)
	n := int(math.Round(mean + st.rng.NormFloat64()*0.25*base))
	if n < 1 {
		n = 1
	}
	return n
}

// rollQuality draws one unit's quality. The mean combines input quality
// scaled by primary and secondary skill with tool quality scaled by
// specific skill and an ability-vs-difficulty factor. Matching
// transferable skills drop that many of the weakest secondaries from
// the average; the dropped levels widen the spread instead. Clamped at
// zero, no upper cap.
func (e *Engine) rollQuality(st *tickState, good GoodType, m *MonsterData, inputs, tools []*Entity) float64 {
	inAvg := avgItemQuality(inputs)
	if m == nil {
		return inAvg
	}
	if !good.HasQuality {
		all := make([]*Entity, 0, len(inputs)+len(tools))
		all = append(all, inputs...)
		all = append(all, tools...)
		return avgItemQuality(all)
	}
	toolAvg := avgItemQuality(tools)
	primary := clamp01(m.Skills.EffectiveApplied(good.PrimarySkill))
	specific := clamp01(m.Skills.EffectiveSpecific(NormalizeKey(good.Name)))

	levels := secondaryLevels(m, good)
	drop := e.matchingTransferables(m, good)
	if drop > len(levels) {
		drop = len(levels)
	}
	dropped := levels[:drop]
	kept := levels[drop:]
	secAvg := 1.0
	if len(kept) > 0 {
		sum := 0.0
		for _, v := range kept {
			sum += clamp01(v)
		}
		secAvg = sum / float64(len(kept))
	}

	difficulty := good.Difficulty
	if difficulty < 1 {
		difficulty = 1
	}
	ability := float64(abilityScore(m.Abilities, good.RelevantAbility) + e.ageBonus(st, m))
	abilityFactor := math.Min(1.2, ability/difficulty)

	mu := inAvg*(0.5+0.5*primary)*(0.5+0.5*secAvg) + toolAvg*specific*abilityFactor
	sigma := 0.1
	if len(dropped) > 0 {
		sum := 0.0
		for _, v := range dropped {
			sum += clamp01(v)
		}
		sigma += sum / float64(len(dropped)) / 10
	}
	q := mu + st.rng.NormFloat64()*sigma
	if q < 0 {
		q = 0
	}
	return q
}

// itemValue prices one unit. Raw goods grow with the square root of
// quality; refined goods compound the summed lineage base values with
// depth and scale by the crafter's charisma.
func (e *Engine) itemValue(good GoodType, quality float64, rawMaterials []string, depth int, m *MonsterData) float64 {
	if good.IsRawMaterial {
		return good.RawBaseValue * math.Pow(quality+0.5, 0.5)
	}
	base := 0.0
	for _, raw := range rawMaterials {
		if g, ok := e.catalog.Good(raw); ok {
			base += g.RawBaseValue
		}
	}
	if base <= 0 {
		base = 1
	}
	return base * math.Pow(quality+0.5, 0.5+0.5*float64(depth)) * charismaFactor(m)
}

func charismaFactor(m *MonsterData) float64 {
	if m == nil {
		return 1
	}
	return 0.5 + float64(m.Abilities.Charisma)/20
}

// itemWeight is density times footprint area, floored so weightless
// catalog entries still take effort to push.
func itemWeight(good GoodType) float64 {
	size := normSize(good.Size)
	w := good.RawDensity * float64(size.W*size.H)
	if w <= 0 {
		return 1
	}
	return w
}

// rollRawMaterialType picks the concrete sub-type for a gathered raw
// material. Sub-type variation never shipped, so the roll is an
// identity pass-through kept for the call shape.
func rollRawMaterialType(goodType string) string {
	return goodType
}
