// Package catalog exposes the loaded game catalog read-only: goods,
// monster types, and the skill lists clients need to build intents.
package catalog

import (
	"errors"
	"sort"

	"monsterforge/internal/domain/forge"
)

var ErrUnknownGood = errors.New("unknown good type")

type UseCase struct {
	Catalog forge.Catalog
}

type GoodView struct {
	Key                  string   `json:"key"`
	Name                 string   `json:"name"`
	Tags                 []string `json:"tags,omitempty"`
	IsRawMaterial        bool     `json:"is_raw_material"`
	RequiredWorkshopType string   `json:"required_workshop_type,omitempty"`
	PrimarySkill         string   `json:"primary_applied_skill,omitempty"`
	ProductionTime       int64    `json:"production_time"`
	HasQuality           bool     `json:"has_quality"`
}

type MonsterTypeView struct {
	Key       string              `json:"key"`
	Name      string              `json:"name"`
	Abilities forge.AbilityScores `json:"abilities"`
	Cost      int                 `json:"cost"`
	BodySlots int                 `json:"body_slots"`
	MindSlots int                 `json:"mind_slots"`
}

type SkillsView struct {
	Transferable []string            `json:"transferable"`
	Applied      []string            `json:"applied"`
	Relevance    map[string][]string `json:"relevance"`
}

func (u UseCase) Goods() []GoodView {
	out := make([]GoodView, 0, len(u.Catalog.Goods))
	for key, g := range u.Catalog.Goods {
		out = append(out, goodView(key, g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Good resolves loose spellings ("Cotton Bolls") to the catalog entry.
func (u UseCase) Good(name string) (GoodView, error) {
	g, ok := u.Catalog.Good(name)
	if !ok {
		return GoodView{}, ErrUnknownGood
	}
	return goodView(forge.NormalizeKey(name), g), nil
}

func (u UseCase) MonsterTypes() []MonsterTypeView {
	out := make([]MonsterTypeView, 0, len(u.Catalog.Monsters))
	for key, m := range u.Catalog.Monsters {
		out = append(out, MonsterTypeView{
			Key:       key,
			Name:      m.Name,
			Abilities: m.Abilities,
			Cost:      m.Cost,
			BodySlots: m.BodySlots,
			MindSlots: m.MindSlots,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (u UseCase) Skills() SkillsView {
	return SkillsView{
		Transferable: u.Catalog.Skills.Transferable,
		Applied:      u.Catalog.Skills.Applied,
		Relevance:    u.Catalog.Skills.Relevance,
	}
}

func goodView(key string, g forge.GoodType) GoodView {
	return GoodView{
		Key:                  key,
		Name:                 g.Name,
		Tags:                 g.Tags,
		IsRawMaterial:        g.IsRawMaterial,
		RequiredWorkshopType: g.RequiredWorkshopType,
		PrimarySkill:         g.PrimarySkill,
		ProductionTime:       g.ProductionTime,
		HasQuality:           g.HasQuality,
	}
}
