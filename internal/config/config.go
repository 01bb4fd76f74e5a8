package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ericogr/gridsiege/internal/bomb"
	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/damage"
	"github.com/ericogr/gridsiege/internal/engine"
	"github.com/ericogr/gridsiege/internal/grid"
	"github.com/ericogr/gridsiege/internal/monster"
	"github.com/ericogr/gridsiege/internal/turn"
)

type gridEntry struct {
	Width        int `json:"width"`
	Height       int `json:"height"`
	QuadrantSize int `json:"quadrant_size"`
}

type shieldEntry struct {
	Cap      int `json:"cap"`
	PerTurn  int `json:"per_turn"`
	Duration int `json:"duration"`
	PerLine  int `json:"per_line"`
}

type autoSpawnEntry struct {
	Enabled     bool `json:"enabled"`
	MinInterval int  `json:"min_interval"`
	MaxInterval int  `json:"max_interval"`
	Timer       int  `json:"timer"`
	MaxTimer    int  `json:"max_timer"`
}

type bombEntry struct {
	PerBombDamage int            `json:"per_bomb_damage"`
	AutoSpawn     autoSpawnEntry `json:"auto_spawn"`
}

type pacingEntry struct {
	MinWaitMS int `json:"min_wait_ms"`
	MaxWaitMS int `json:"max_wait_ms"`
}

// shapeEntry lists cells as [x, y] pairs.
type shapeEntry struct {
	Name  string   `json:"name"`
	Cells [][2]int `json:"cells"`
}

type serverEntry struct {
	Address        string `json:"address"`
	Database       string `json:"database"`
	RealtimePacing bool   `json:"realtime_pacing"`
	IdleTTLSeconds int    `json:"idle_ttl_seconds"`
}

type rawConfig struct {
	Server      *serverEntry               `json:"server"`
	Grid        gridEntry                  `json:"grid"`
	PlayerMaxHP int                        `json:"player_max_hp"`
	Shield      shieldEntry                `json:"shield"`
	Damage      damage.Settings            `json:"damage"`
	Bombs       bombEntry                  `json:"bombs"`
	Pacing      pacingEntry                `json:"pacing"`
	Durations   map[turn.HookPoint]float64 `json:"durations"`
	Shapes      []shapeEntry               `json:"shapes"`
	Monsters    []monster.Definition       `json:"monsters"`
}

// LoadedConfig holds the battle ruleset and the server settings.
type LoadedConfig struct {
	Battle        engine.Settings
	ServerAddress string
	DatabasePath  string
	IdleTTL       time.Duration

	// RealtimePacing makes the server sleep between turn steps instead of
	// only reporting the waits to the client.
	RealtimePacing bool
}

// LoadConfig reads the configuration file at path, validates it and
// converts it into typed settings.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a JSON configuration document.
func Parse(data []byte) (*LoadedConfig, error) {
	var rc rawConfig
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return rc.convert()
}

func (rc rawConfig) convert() (*LoadedConfig, error) {
	g := grid.Config{Width: rc.Grid.Width, Height: rc.Grid.Height, QuadrantSize: rc.Grid.QuadrantSize}
	if g.Width < 1 || g.Height < 1 {
		return nil, fmt.Errorf("grid: width and height must be >= 1")
	}
	if g.QuadrantSize < 1 || g.Width%g.QuadrantSize != 0 || g.Height%g.QuadrantSize != 0 {
		return nil, fmt.Errorf("grid: quadrant_size must divide width and height")
	}
	if rc.PlayerMaxHP < 1 {
		return nil, fmt.Errorf("player_max_hp must be >= 1")
	}
	if rc.Shield.Cap < 0 || rc.Shield.PerTurn < 0 || rc.Shield.Duration < 0 || rc.Shield.PerLine < 0 {
		return nil, fmt.Errorf("shield: values must be >= 0")
	}
	if rc.Bombs.PerBombDamage < 0 {
		return nil, fmt.Errorf("bombs: per_bomb_damage must be >= 0")
	}
	as := rc.Bombs.AutoSpawn
	if as.Enabled {
		if as.MinInterval < 1 || as.MaxInterval < as.MinInterval {
			return nil, fmt.Errorf("bombs: auto_spawn interval must satisfy 1 <= min <= max")
		}
		if as.Timer < 1 || as.MaxTimer < as.Timer {
			return nil, fmt.Errorf("bombs: auto_spawn timer must satisfy 1 <= timer <= max_timer")
		}
	}
	if rc.Pacing.MinWaitMS < 0 || (rc.Pacing.MaxWaitMS > 0 && rc.Pacing.MaxWaitMS < rc.Pacing.MinWaitMS) {
		return nil, fmt.Errorf("pacing: min_wait_ms must be >= 0 and <= max_wait_ms")
	}

	dmg := rc.Damage
	if dmg.BaseDamagePerLine < 0 || dmg.BonusPerBlock < 0 || dmg.CrossDamage < 0 || dmg.StaffAoEDamage < 0 || dmg.CandyBonus < 0 {
		return nil, fmt.Errorf("damage: values must be >= 0")
	}
	dmg.GridWidth, dmg.GridHeight = g.Width, g.Height

	if len(rc.Shapes) == 0 {
		return nil, fmt.Errorf("shapes is empty (provide a 'shapes' array)")
	}
	shapes := make(map[string]grid.Shape, len(rc.Shapes))
	for _, se := range rc.Shapes {
		name := strings.TrimSpace(se.Name)
		if name == "" {
			return nil, fmt.Errorf("shape entry missing 'name'")
		}
		if _, dup := shapes[name]; dup {
			return nil, fmt.Errorf("duplicate shape name '%s'", name)
		}
		if len(se.Cells) == 0 {
			return nil, fmt.Errorf("shape '%s' has no cells", name)
		}
		cells := make([]grid.Coord, 0, len(se.Cells))
		for _, c := range se.Cells {
			cells = append(cells, grid.Coord{X: c[0], Y: c[1]})
		}
		shapes[name] = grid.Shape{Name: name, Cells: cells}
	}

	if len(rc.Monsters) == 0 {
		return nil, fmt.Errorf("monsters is empty (provide a 'monsters' array)")
	}
	ids := make(map[string]struct{}, len(rc.Monsters))
	for _, m := range rc.Monsters {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("monster: %w", err)
		}
		if _, dup := ids[m.ID]; dup {
			return nil, fmt.Errorf("duplicate monster id '%s'", m.ID)
		}
		ids[m.ID] = struct{}{}
	}

	for point, secs := range rc.Durations {
		if secs < 0 {
			return nil, fmt.Errorf("durations: %s must be >= 0", point)
		}
	}

	out := &LoadedConfig{
		Battle: engine.Settings{
			Grid:        g,
			Damage:      dmg,
			Shapes:      shapes,
			Monsters:    rc.Monsters,
			PlayerMaxHP: rc.PlayerMaxHP,
			Shield: engine.ShieldSettings{
				Cap:      rc.Shield.Cap,
				PerTurn:  rc.Shield.PerTurn,
				Duration: rc.Shield.Duration,
				PerLine:  rc.Shield.PerLine,
			},
			Bombs: engine.BombSettings{
				PerBombDamage: rc.Bombs.PerBombDamage,
				AutoSpawn: bomb.SpawnerConfig{
					Enabled:     as.Enabled,
					MinInterval: as.MinInterval,
					MaxInterval: as.MaxInterval,
					Timer:       as.Timer,
					MaxTimer:    as.MaxTimer,
				},
			},
			Pacing: turn.Pacing{
				MinWait: time.Duration(rc.Pacing.MinWaitMS) * time.Millisecond,
				MaxWait: time.Duration(rc.Pacing.MaxWaitMS) * time.Millisecond,
			},
			Durations: rc.Durations,
		},
		ServerAddress: constants.DefaultListenAddr,
		DatabasePath:  constants.DefaultDBPath,
		IdleTTL:       constants.DefaultIdleTTL,
	}
	if rc.Server != nil {
		if rc.Server.Address != "" {
			out.ServerAddress = rc.Server.Address
		}
		if rc.Server.Database != "" {
			out.DatabasePath = rc.Server.Database
		}
		out.RealtimePacing = rc.Server.RealtimePacing
		if rc.Server.IdleTTLSeconds < 0 {
			return nil, fmt.Errorf("server: idle_ttl_seconds must be >= 0")
		}
		if rc.Server.IdleTTLSeconds > 0 {
			out.IdleTTL = time.Duration(rc.Server.IdleTTLSeconds) * time.Second
		}
	}
	return out, nil
}

// Default returns the reference ruleset: an 8x8 grid split into four 4x4
// quadrants, two monsters and the classic block shapes.
func Default() *LoadedConfig {
	cfg, err := Parse([]byte(defaultJSON))
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

const defaultJSON = `{
  "grid": {"width": 8, "height": 8, "quadrant_size": 4},
  "player_max_hp": 100,
  "shield": {"cap": 30, "per_turn": 15, "duration": 2, "per_line": 5},
  "damage": {
    "base_damage_per_line": 10,
    "bonus_per_block": 1,
    "cross_damage": 8,
    "staff_aoe_damage": 4,
    "candy_bonus": 3,
    "lightning_multiplier": 2
  },
  "bombs": {
    "per_bomb_damage": 8,
    "auto_spawn": {"enabled": true, "min_interval": 3, "max_interval": 5, "timer": 3, "max_timer": 5}
  },
  "pacing": {"min_wait_ms": 0, "max_wait_ms": 1500},
  "durations": {
    "line_clear": 0.4,
    "monster_hit": 0.3,
    "bomb_spawn": 0.25,
    "bomb_explosion": 0.5,
    "monster_action": 0.6
  },
  "shapes": [
    {"name": "I2", "cells": [[0,0],[1,0]]},
    {"name": "I3", "cells": [[0,0],[1,0],[2,0]]},
    {"name": "I4", "cells": [[0,0],[1,0],[2,0],[3,0]]},
    {"name": "O",  "cells": [[0,0],[1,0],[0,1],[1,1]]},
    {"name": "L",  "cells": [[0,0],[0,1],[0,2],[1,2]]},
    {"name": "T",  "cells": [[0,0],[1,0],[2,0],[1,1]]},
    {"name": "S",  "cells": [[1,0],[2,0],[0,1],[1,1]]},
    {"name": "Z",  "cells": [[0,0],[1,0],[1,1],[2,1]]},
    {"name": "dot", "cells": [[0,0]]}
  ],
  "monsters": [
    {
      "id": "slime",
      "name": "Slime",
      "max_hp": 60,
      "anchor": {"x": 1, "y": 1},
      "patterns": [
        {"id": "ooze", "kind": "damage", "delay_turns": 2, "weight": 3, "damage": {"amount": 6}},
        {"id": "spores", "kind": "bomb", "delay_turns": 3, "weight": 1,
         "bomb": {"placement": "random", "count": 2, "timer": 3, "max_timer": 4}}
      ]
    },
    {
      "id": "ogre",
      "name": "Ogre",
      "max_hp": 120,
      "anchor": {"x": 6, "y": 6},
      "patterns": [
        {"id": "smash", "kind": "heavy_damage", "delay_turns": 3, "weight": 2,
         "heavy": {"amount": 25, "cancel_threshold": 20, "groggy_pattern_id": "dazed"}},
        {"id": "dazed", "kind": "groggy", "delay_turns": 1, "weight": 0},
        {"id": "hex", "kind": "disable_slot", "delay_turns": 2, "weight": 1,
         "disable": {"count": 2, "axis": "both"}},
        {"id": "quake", "kind": "bomb", "delay_turns": 4, "weight": 1,
         "bomb": {"placement": "around_self", "cells": [{"x": -1, "y": 0}, {"x": 0, "y": -1}], "timer": 2, "max_timer": 3, "boss": true, "clear_size": 3}}
      ]
    }
  ]
}`
