package forge

import (
	"strings"

	"monsterforge/internal/domain/world"
)

// GoodType is one catalog entry: a raw material or a recipe for a
// refined good, plus the physical properties of its item instances.
type GoodType struct {
	Name                 string     `json:"name"`
	Cost                 int        `json:"cost"`
	Size                 world.Size `json:"size"`
	InputTagGroups       [][]string `json:"input_goods_tags_required,omitempty"`
	ToolTags             []string   `json:"tools_required_tags,omitempty"`
	ToolWeights          []float64  `json:"tools_weights,omitempty"`
	PrimarySkill         string     `json:"primary_applied_skill,omitempty"`
	SecondarySkills      []string   `json:"secondary_applied_skills,omitempty"`
	RelevantAbility      string     `json:"relevant_ability_score,omitempty"`
	Difficulty           float64    `json:"difficulty_rating,omitempty"`
	ProductionTime       int64      `json:"production_time"`
	Quantity             float64    `json:"quantity"`
	FixedQuantity        bool       `json:"is_fixed_quantity,omitempty"`
	ValueAddedShares     float64    `json:"value_added_shares,omitempty"`
	RawBaseValue         float64    `json:"raw_material_base_value,omitempty"`
	RawDensity           float64    `json:"raw_material_density,omitempty"`
	HasQuality           bool       `json:"has_quality,omitempty"`
	Tags                 []string   `json:"tags,omitempty"`
	IsRawMaterial        bool       `json:"is_raw_material,omitempty"`
	RequiredWorkshopType string     `json:"required_workshop_type,omitempty"`
	Durability           float64    `json:"durability,omitempty"`
}

func (g GoodType) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (g GoodType) IsTool() bool {
	return g.HasTag("tool") || g.Durability > 0
}

type MonsterType struct {
	Name      string        `json:"name"`
	Abilities AbilityScores `json:"abilities"`
	Cost      int           `json:"cost"`
	BodySlots int           `json:"body_slots"`
	MindSlots int           `json:"mind_slots"`
}

// SkillCatalog names the valid skills. Relevance maps a transferable
// skill to the applied skills it boosts.
type SkillCatalog struct {
	Transferable []string            `json:"transferable"`
	Applied      []string            `json:"applied"`
	Relevance    map[string][]string `json:"relevance"`
}

func (s SkillCatalog) ValidTransferable(name string) bool {
	for _, t := range s.Transferable {
		if t == name {
			return true
		}
	}
	return false
}

// Boosts reports whether the transferable skill is relevant to the
// given applied skill.
func (s SkillCatalog) Boosts(transferable, applied string) bool {
	for _, a := range s.Relevance[transferable] {
		if a == applied {
			return true
		}
	}
	return false
}

type Catalog struct {
	Goods    map[string]GoodType
	Monsters map[string]MonsterType
	Skills   SkillCatalog
}

// Good resolves a good type by key, tolerating case, spaces, and
// underscore differences ("Cotton Bolls" matches "cotton_bolls").
func (c Catalog) Good(key string) (GoodType, bool) {
	g, ok := c.Goods[NormalizeKey(key)]
	return g, ok
}

func (c Catalog) Monster(key string) (MonsterType, bool) {
	m, ok := c.Monsters[NormalizeKey(key)]
	return m, ok
}

func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
