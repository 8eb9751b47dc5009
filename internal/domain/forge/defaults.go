package forge

import "monsterforge/internal/domain/world"

// Built-in catalog used when no data files are present. The static
// loader replaces any of these wholesale when the matching file exists.

var defaultMonsterTypes = map[string]MonsterType{
	"cyclops": {
		Name:      "Cyclops",
		Abilities: AbilityScores{Strength: 18, Dexterity: 8, Constitution: 16, Intelligence: 6, Wisdom: 8, Charisma: 6},
		Cost:      3000,
		BodySlots: 4,
		MindSlots: 1,
	},
	"elf": {
		Name:      "Elf",
		Abilities: AbilityScores{Strength: 8, Dexterity: 16, Constitution: 8, Intelligence: 14, Wisdom: 12, Charisma: 14},
		Cost:      500,
		BodySlots: 2,
		MindSlots: 3,
	},
	"goblin": {
		Name:      "Goblin",
		Abilities: AbilityScores{Strength: 6, Dexterity: 18, Constitution: 8, Intelligence: 10, Wisdom: 10, Charisma: 16},
		Cost:      50,
		BodySlots: 2,
		MindSlots: 2,
	},
	"orc": {
		Name:      "Orc",
		Abilities: AbilityScores{Strength: 14, Dexterity: 10, Constitution: 14, Intelligence: 7, Wisdom: 8, Charisma: 6},
		Cost:      2000,
		BodySlots: 3,
		MindSlots: 1,
	},
	"troll": {
		Name:      "Troll",
		Abilities: AbilityScores{Strength: 16, Dexterity: 6, Constitution: 18, Intelligence: 5, Wisdom: 6, Charisma: 4},
		Cost:      2500,
		BodySlots: 4,
		MindSlots: 1,
	},
}

var defaultSkillCatalog = SkillCatalog{
	Transferable: []string{
		"patience", "precision", "vigor", "focus", "resourcefulness", "teamwork",
	},
	Applied: []string{
		"gathering", "spinning", "weaving", "carpentry",
	},
	Relevance: map[string][]string{
		"patience":        {"spinning", "weaving"},
		"precision":       {"spinning", "weaving", "carpentry"},
		"vigor":           {"gathering"},
		"focus":           {"carpentry", "weaving"},
		"resourcefulness": {"gathering", "carpentry"},
		"teamwork":        {"gathering", "spinning"},
	},
}

var defaultGoodTypes = map[string]GoodType{
	"cotton_bolls": {
		Name:                 "Cotton Bolls",
		Size:                 world.Size{W: 1, H: 1},
		ToolTags:             nil,
		PrimarySkill:         "gathering",
		RelevantAbility:      "strength",
		Difficulty:           4,
		ProductionTime:       30,
		Quantity:             3,
		RawBaseValue:         2,
		RawDensity:           0.5,
		HasQuality:           true,
		Tags:                 []string{"fiber", "raw"},
		IsRawMaterial:        true,
		RequiredWorkshopType: "cotton_field",
	},
	"timber": {
		Name:                 "Timber",
		Size:                 world.Size{W: 1, H: 1},
		ToolTags:             []string{"harvesting_tool"},
		ToolWeights:          []float64{1},
		PrimarySkill:         "gathering",
		RelevantAbility:      "strength",
		Difficulty:           6,
		ProductionTime:       45,
		Quantity:             2,
		RawBaseValue:         3,
		RawDensity:           2,
		HasQuality:           true,
		Tags:                 []string{"wood", "raw"},
		IsRawMaterial:        true,
		RequiredWorkshopType: "grove",
	},
	"cotton_thread": {
		Name:                 "Cotton Thread",
		Size:                 world.Size{W: 1, H: 1},
		InputTagGroups:       [][]string{{"fiber"}},
		ToolTags:             []string{"spinning_tool"},
		ToolWeights:          []float64{2},
		PrimarySkill:         "spinning",
		SecondarySkills:      []string{"gathering"},
		RelevantAbility:      "dexterity",
		Difficulty:           8,
		ProductionTime:       60,
		Quantity:             2,
		ValueAddedShares:     4,
		RawDensity:           0.3,
		HasQuality:           true,
		Tags:                 []string{"thread", "textile"},
		RequiredWorkshopType: "spinnery",
	},
	"cotton_fabric": {
		Name:                 "Cotton Fabric",
		Size:                 world.Size{W: 1, H: 1},
		InputTagGroups:       [][]string{{"thread"}},
		ToolTags:             []string{"weaving_tool"},
		ToolWeights:          []float64{3},
		PrimarySkill:         "weaving",
		SecondarySkills:      []string{"spinning", "gathering"},
		RelevantAbility:      "dexterity",
		Difficulty:           12,
		ProductionTime:       90,
		Quantity:             1,
		ValueAddedShares:     6,
		RawDensity:           0.4,
		HasQuality:           true,
		Tags:                 []string{"fabric", "textile"},
		RequiredWorkshopType: "loom",
	},
	"plank": {
		Name:                 "Plank",
		Size:                 world.Size{W: 1, H: 1},
		InputTagGroups:       [][]string{{"wood"}},
		ToolTags:             []string{"saw_tool"},
		ToolWeights:          []float64{1.5},
		PrimarySkill:         "carpentry",
		SecondarySkills:      []string{"gathering"},
		RelevantAbility:      "strength",
		Difficulty:           7,
		ProductionTime:       50,
		Quantity:             2,
		ValueAddedShares:     3,
		RawDensity:           2.5,
		HasQuality:           true,
		Tags:                 []string{"wood_product", "material"},
		RequiredWorkshopType: "sawmill",
	},
	"harvest_knife": {
		Name:                 "Harvest Knife",
		Size:                 world.Size{W: 1, H: 1},
		InputTagGroups:       [][]string{{"wood"}},
		PrimarySkill:         "carpentry",
		RelevantAbility:      "dexterity",
		Difficulty:           5,
		ProductionTime:       40,
		Quantity:             1,
		FixedQuantity:        true,
		ValueAddedShares:     2,
		RawDensity:           1,
		Tags:                 []string{"harvesting_tool", "tool"},
		RequiredWorkshopType: "sawmill",
		Durability:           100,
	},
	"spindle": {
		Name:                 "Spindle",
		Size:                 world.Size{W: 1, H: 1},
		InputTagGroups:       [][]string{{"wood_product"}},
		PrimarySkill:         "carpentry",
		RelevantAbility:      "dexterity",
		Difficulty:           6,
		ProductionTime:       40,
		Quantity:             1,
		FixedQuantity:        true,
		ValueAddedShares:     2,
		RawDensity:           0.8,
		Tags:                 []string{"spinning_tool", "tool"},
		RequiredWorkshopType: "sawmill",
		Durability:           100,
	},
	"loom_shuttle": {
		Name:                 "Loom Shuttle",
		Size:                 world.Size{W: 1, H: 1},
		InputTagGroups:       [][]string{{"wood_product"}},
		PrimarySkill:         "carpentry",
		RelevantAbility:      "dexterity",
		Difficulty:           6,
		ProductionTime:       40,
		Quantity:             1,
		FixedQuantity:        true,
		ValueAddedShares:     2,
		RawDensity:           0.8,
		Tags:                 []string{"weaving_tool", "tool"},
		RequiredWorkshopType: "sawmill",
		Durability:           80,
	},
	"saw": {
		Name:                 "Saw",
		Size:                 world.Size{W: 1, H: 1},
		InputTagGroups:       [][]string{{"wood"}},
		PrimarySkill:         "carpentry",
		RelevantAbility:      "strength",
		Difficulty:           5,
		ProductionTime:       40,
		Quantity:             1,
		FixedQuantity:        true,
		ValueAddedShares:     2,
		RawDensity:           1.5,
		Tags:                 []string{"saw_tool", "tool"},
		RequiredWorkshopType: "sawmill",
		Durability:           120,
	},
}

func DefaultCatalog() Catalog {
	goods := make(map[string]GoodType, len(defaultGoodTypes))
	for k, v := range defaultGoodTypes {
		goods[k] = v
	}
	monsters := make(map[string]MonsterType, len(defaultMonsterTypes))
	for k, v := range defaultMonsterTypes {
		monsters[k] = v
	}
	skills := SkillCatalog{
		Transferable: cloneStrings(defaultSkillCatalog.Transferable),
		Applied:      cloneStrings(defaultSkillCatalog.Applied),
		Relevance:    make(map[string][]string, len(defaultSkillCatalog.Relevance)),
	}
	for k, v := range defaultSkillCatalog.Relevance {
		skills.Relevance[k] = cloneStrings(v)
	}
	return Catalog{Goods: goods, Monsters: monsters, Skills: skills}
}
