package planner

import "github.com/santhosh-tekuri/jsonschema/v5"

const configSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "definitions": {
    "factor": {"type": "number", "minimum": 0, "maximum": 1},
    "count": {"type": "integer", "minimum": 0},
    "weight": {"type": "number", "minimum": 0}
  },
  "properties": {
    "strategy": {"type": "string", "enum": ["fast", "nbest", "smart"]},
    "n_best": {"$ref": "#/definitions/count"},
    "favour": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "city": {"$ref": "#/definitions/factor"},
        "settlement": {"$ref": "#/definitions/factor"},
        "card": {"$ref": "#/definitions/factor"},
        "largest_army": {"$ref": "#/definitions/factor"},
        "longest_road": {"$ref": "#/definitions/factor"}
      }
    },
    "min_vp_largest_army": {"$ref": "#/definitions/count"},
    "min_vp_longest_road": {"$ref": "#/definitions/count"},
    "fast_race_vp": {"$ref": "#/definitions/count"},
    "rank_by_speedup": {"type": "boolean"},
    "rank_by_delta_win_eta": {"type": "boolean"},
    "speedup_discount": {"$ref": "#/definitions/weight"},
    "delta_win_eta_discount": {"$ref": "#/definitions/weight"},
    "early_speedup": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "card": {"$ref": "#/definitions/count"},
        "largest_army": {"$ref": "#/definitions/count"},
        "longest_road": {"$ref": "#/definitions/count"}
      }
    },
    "adversarial_factor": {"$ref": "#/definitions/weight"},
    "leader_adversarial_factor": {"$ref": "#/definitions/weight"},
    "eta_bonus_factor": {"$ref": "#/definitions/weight"},
    "dev_card_multiplier": {"$ref": "#/definitions/weight"},
    "threat_multiplier": {"$ref": "#/definitions/weight"},
    "knight_weight": {"$ref": "#/definitions/weight"},
    "vp_card_weight": {"$ref": "#/definitions/weight"},
    "bonus_scale": {"$ref": "#/definitions/weight"},
    "max_game_length": {"type": "integer", "minimum": 1},
    "max_eta": {"$ref": "#/definitions/count"},
    "card_play_delay": {"$ref": "#/definitions/count"},
    "cutoff": {"type": "integer", "minimum": 1},
    "eta_sentinel": {"type": "integer", "minimum": 1},
    "reach_depth": {"type": "integer", "minimum": 1},
    "announce_plans": {"type": "boolean"},
    "share_plan_changes": {"type": "boolean"}
  }
}`

var configSchema = jsonschema.MustCompileString("planner-config.schema.json", configSchemaJSON)
