package staticcatalog

import "github.com/santhosh-tekuri/jsonschema/v5"

var goodsSchema = jsonschema.MustCompileString("goods.schema.json", `{
  "type": "object",
  "required": ["goods"],
  "properties": {
    "goods": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "cost": {"type": "integer", "minimum": 0},
          "production_time": {"type": "integer", "minimum": 0},
          "quantity": {"type": "number", "minimum": 0},
          "tags": {"type": "array", "items": {"type": "string"}},
          "is_raw_material": {"type": "boolean"},
          "required_workshop_type": {"type": "string"},
          "primary_applied_skill": {"type": "string"},
          "input_goods_tags_required": {
            "type": "array",
            "items": {"type": "array", "items": {"type": "string"}}
          }
        }
      }
    }
  }
}`)

var monstersSchema = jsonschema.MustCompileString("monster_types.schema.json", `{
  "type": "object",
  "required": ["monster_types"],
  "properties": {
    "monster_types": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "cost"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "cost": {"type": "integer", "minimum": 0},
          "body_slots": {"type": "integer", "minimum": 0},
          "mind_slots": {"type": "integer", "minimum": 0},
          "abilities": {
            "type": "object",
            "properties": {
              "strength": {"type": "integer"},
              "dexterity": {"type": "integer"},
              "constitution": {"type": "integer"},
              "intelligence": {"type": "integer"},
              "wisdom": {"type": "integer"},
              "charisma": {"type": "integer"}
            }
          }
        }
      }
    }
  }
}`)

var skillsSchema = jsonschema.MustCompileString("skills.schema.json", `{
  "type": "object",
  "required": ["transferable", "applied"],
  "properties": {
    "transferable": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "applied": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "relevance": {
      "type": "object",
      "additionalProperties": {"type": "array", "items": {"type": "string"}}
    }
  }
}`)

var zoneSchema = jsonschema.MustCompileString("zone.schema.json", `{
  "type": "object",
  "required": ["id", "w", "h"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string"},
    "w": {"type": "integer", "minimum": 3},
    "h": {"type": "integer", "minimum": 3},
    "spawn_points": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["x", "y"],
        "properties": {"x": {"type": "integer"}, "y": {"type": "integer"}}
      }
    },
    "blocked_cells": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["x", "y"],
        "properties": {"x": {"type": "integer"}, "y": {"type": "integer"}}
      }
    },
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["kind", "x", "y"],
        "properties": {
          "kind": {"type": "string", "minLength": 1},
          "x": {"type": "integer"},
          "y": {"type": "integer"},
          "w": {"type": "integer", "minimum": 1},
          "h": {"type": "integer", "minimum": 1},
          "owner": {"type": "string"},
          "meta": {"type": "object"}
        }
      }
    }
  }
}`)
