package forge

// Skill learning runs in ten-game-second blocks over the time a craft
// took. Every block also advances global forgetting, which erodes all
// stored levels uniformly via the effective-level floor.
const (
	skillBlockGameSeconds = 10.0
	learnRatePerBlock     = 0.002
	forgetRatePerBlock    = 0.00005
)

// applySkillGain credits the crafter for working durationTicks on the
// recipe. Primary gain scales with intelligence-weighted aptitude, the
// transferable-skill match, and remaining headroom to mastery; the
// specific skill follows the primary's current level; secondaries learn
// at half rate with no transferable bonus. Wisdom slows forgetting.
func (e *Engine) applySkillGain(st *tickState, crafter *Entity, good GoodType, durationTicks int64) {
	m := crafter.Monster
	if m == nil || durationTicks <= 0 {
		return
	}
	gameSeconds := float64(durationTicks) * e.clock.TickGameSeconds()
	blocks := int(gameSeconds / skillBlockGameSeconds)
	if blocks <= 0 {
		return
	}
	if m.Skills.Applied == nil {
		m.Skills.Applied = make(map[string]float64)
	}
	if m.Skills.Specific == nil {
		m.Skills.Specific = make(map[string]float64)
	}

	aptitude := (0.8*float64(m.Abilities.Intelligence) + 0.2*float64(m.Abilities.Constitution)) / 20
	transferBonus := 1 + float64(e.matchingTransferables(m, good))/4
	wisdomFactor := 1 - float64(m.Abilities.Wisdom)/20*0.25
	goodKey := NormalizeKey(good.Name)

	for i := 0; i < blocks; i++ {
		if good.PrimarySkill != "" {
			eff := clamp01(m.Skills.EffectiveApplied(good.PrimarySkill))
			m.Skills.Applied[good.PrimarySkill] += learnRatePerBlock * aptitude * transferBonus * (1 - eff)
		}
		primaryNow := clamp01(m.Skills.EffectiveApplied(good.PrimarySkill))
		effSpecific := clamp01(m.Skills.EffectiveSpecific(goodKey))
		m.Skills.Specific[goodKey] += learnRatePerBlock * aptitude * primaryNow * (1 - effSpecific)
		for _, sec := range good.SecondarySkills {
			effSec := clamp01(m.Skills.EffectiveApplied(sec))
			m.Skills.Applied[sec] += learnRatePerBlock / 2 * aptitude * (1 - effSec)
		}
		m.Skills.TotalForgotten += forgetRatePerBlock * wisdomFactor
	}

	// Stored levels never trail the forgetting floor, so effective
	// levels stay non-negative and idle skills bottom out at zero.
	for k, v := range m.Skills.Applied {
		if v < m.Skills.TotalForgotten {
			m.Skills.Applied[k] = m.Skills.TotalForgotten
		}
	}
	for k, v := range m.Skills.Specific {
		if v < m.Skills.TotalForgotten {
			m.Skills.Specific[k] = m.Skills.TotalForgotten
		}
	}
	st.touch(crafter.ID)
}
