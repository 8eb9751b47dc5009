// Package staticcatalog loads the game catalog and zone definitions
// from a data directory. Every file is optional: missing pieces fall
// back to the built-in defaults, and present files are validated
// against embedded JSON schemas so a malformed catalog fails at boot,
// not mid-tick.
package staticcatalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"monsterforge/internal/domain/forge"
	"monsterforge/internal/domain/world"

	"github.com/pixil98/go-errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	goodsFile    = "goods.json"
	monstersFile = "monster_types.json"
	skillsFile   = "skills.json"
	zonesDir     = "zones"
)

type goodsDoc struct {
	Goods []forge.GoodType `json:"goods"`
}

type monstersDoc struct {
	MonsterTypes []forge.MonsterType `json:"monster_types"`
}

// Load reads the data directory. An empty root skips disk entirely and
// returns the built-in catalog with the default zone.
func Load(root string) (forge.Catalog, []world.ZoneDef, error) {
	catalog := forge.DefaultCatalog()
	if root == "" {
		return catalog, []world.ZoneDef{world.DefaultZone("")}, nil
	}

	el := errors.NewErrorList()

	var goods goodsDoc
	if ok, err := loadValidated(filepath.Join(root, goodsFile), goodsSchema, &goods); err != nil {
		el.Add(fmt.Errorf("%s: %w", goodsFile, err))
	} else if ok {
		catalog.Goods = make(map[string]forge.GoodType, len(goods.Goods))
		for _, g := range goods.Goods {
			key := forge.NormalizeKey(g.Name)
			if _, dup := catalog.Goods[key]; dup {
				el.Add(fmt.Errorf("%s: duplicate good %q", goodsFile, g.Name))
				continue
			}
			catalog.Goods[key] = g
		}
	}

	var monsters monstersDoc
	if ok, err := loadValidated(filepath.Join(root, monstersFile), monstersSchema, &monsters); err != nil {
		el.Add(fmt.Errorf("%s: %w", monstersFile, err))
	} else if ok {
		catalog.Monsters = make(map[string]forge.MonsterType, len(monsters.MonsterTypes))
		for _, m := range monsters.MonsterTypes {
			key := forge.NormalizeKey(m.Name)
			if _, dup := catalog.Monsters[key]; dup {
				el.Add(fmt.Errorf("%s: duplicate monster type %q", monstersFile, m.Name))
				continue
			}
			catalog.Monsters[key] = m
		}
	}

	var skills forge.SkillCatalog
	if ok, err := loadValidated(filepath.Join(root, skillsFile), skillsSchema, &skills); err != nil {
		el.Add(fmt.Errorf("%s: %w", skillsFile, err))
	} else if ok {
		catalog.Skills = skills
	}
	el.Add(checkSkillRelevance(catalog.Skills))

	zones, err := loadZones(filepath.Join(root, zonesDir))
	if err != nil {
		el.Add(err)
	}
	if len(zones) == 0 {
		zones = []world.ZoneDef{world.DefaultZone("")}
	}

	if err := el.Err(); err != nil {
		return forge.Catalog{}, nil, err
	}
	return catalog, zones, nil
}

func loadZones(dir string) ([]world.ZoneDef, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}

	el := errors.NewErrorList()
	seen := make(map[string]string)
	zones := make([]world.ZoneDef, 0, len(paths))
	for _, path := range paths {
		var def world.ZoneDef
		ok, err := loadValidated(path, zoneSchema, &def)
		if err != nil {
			el.Add(fmt.Errorf("%s: %w", filepath.Base(path), err))
			continue
		}
		if !ok {
			continue
		}
		if prev, dup := seen[def.ID]; dup {
			el.Add(fmt.Errorf("%s: zone id %q already defined in %s", filepath.Base(path), def.ID, prev))
			continue
		}
		seen[def.ID] = filepath.Base(path)
		zones = append(zones, def)
	}
	return zones, el.Err()
}

// loadValidated reads, schema-checks, and decodes one file. A missing
// file is not an error; it reports ok=false so the caller keeps the
// default.
func loadValidated(path string, schema *jsonschema.Schema, out any) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return false, fmt.Errorf("parse: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return false, fmt.Errorf("validate: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("decode: %w", err)
	}
	return true, nil
}

func checkSkillRelevance(skills forge.SkillCatalog) error {
	el := errors.NewErrorList()
	for transferable, applied := range skills.Relevance {
		if !skills.ValidTransferable(transferable) {
			el.Add(fmt.Errorf("%s: relevance names unknown transferable skill %q", skillsFile, transferable))
		}
		for _, a := range applied {
			if !contains(skills.Applied, a) {
				el.Add(fmt.Errorf("%s: relevance of %q names unknown applied skill %q", skillsFile, transferable, a))
			}
		}
	}
	return el.Err()
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
