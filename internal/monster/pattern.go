package monster

import (
	"fmt"

	"github.com/ericogr/gridsiege/internal/grid"
)

// PatternKind tags the AttackPattern union.
type PatternKind string

const (
	KindBomb        PatternKind = "bomb"
	KindDamage      PatternKind = "damage"
	KindHeavyDamage PatternKind = "heavy_damage"
	KindGroggy      PatternKind = "groggy"
	KindDisableSlot PatternKind = "disable_slot"
)

// BombPlacement chooses where a Bomb pattern spawns.
type BombPlacement string

const (
	PlaceRandom     BombPlacement = "random"
	PlaceFixed      BombPlacement = "fixed"
	PlaceAroundSelf BombPlacement = "around_self"
)

// SlotAxis chooses which attribute slots a DisableSlot pattern can hit.
type SlotAxis string

const (
	SlotRows    SlotAxis = "rows"
	SlotColumns SlotAxis = "cols"
	SlotBoth    SlotAxis = "both"
)

// BombParams configure a Bomb pattern. Cells are absolute for fixed
// placement and offsets from the monster anchor for around_self; random
// placement ignores them and spawns Count bombs. A boss bomb first clears
// the ClearSize x ClearSize square centred on its cell; ClearSize is odd.
type BombParams struct {
	Placement BombPlacement `json:"placement"`
	Cells     []grid.Coord  `json:"cells,omitempty"`
	Count     int           `json:"count"`
	Timer     int           `json:"timer"`
	MaxTimer  int           `json:"max_timer"`
	Boss      bool          `json:"boss"`
	ClearSize int           `json:"clear_size"`
}

type DamageParams struct {
	Amount int `json:"amount"`
}

type HeavyParams struct {
	Amount          int    `json:"amount"`
	CancelThreshold int    `json:"cancel_threshold"`
	GroggyPatternID string `json:"groggy_pattern_id"`
}

type DisableParams struct {
	Count int      `json:"count"`
	Axis  SlotAxis `json:"axis"`
}

// Pattern is one attack pattern. Exactly one parameter block matching Kind
// is set; Groggy carries none.
type Pattern struct {
	ID         string      `json:"id"`
	Kind       PatternKind `json:"kind"`
	DelayTurns int         `json:"delay_turns"`
	Weight     int         `json:"weight"`
	Repeat     bool        `json:"repeat"`

	Bomb    *BombParams    `json:"bomb,omitempty"`
	Damage  *DamageParams  `json:"damage,omitempty"`
	Heavy   *HeavyParams   `json:"heavy,omitempty"`
	Disable *DisableParams `json:"disable,omitempty"`
}

// Validate checks that the parameter block for Kind is present and sane.
func (p Pattern) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pattern id is required")
	}
	if p.DelayTurns < 0 {
		return fmt.Errorf("pattern %s: delay_turns must be >= 0", p.ID)
	}
	switch p.Kind {
	case KindBomb:
		if p.Bomb == nil {
			return fmt.Errorf("pattern %s: bomb parameters missing", p.ID)
		}
		switch p.Bomb.Placement {
		case PlaceRandom:
			if p.Bomb.Count < 1 {
				return fmt.Errorf("pattern %s: random bomb count must be >= 1", p.ID)
			}
		case PlaceFixed, PlaceAroundSelf:
			if len(p.Bomb.Cells) == 0 {
				return fmt.Errorf("pattern %s: %s placement needs cells", p.ID, p.Bomb.Placement)
			}
		default:
			return fmt.Errorf("pattern %s: unknown bomb placement %q", p.ID, p.Bomb.Placement)
		}
		if p.Bomb.Timer < 1 {
			return fmt.Errorf("pattern %s: bomb timer must be >= 1", p.ID)
		}
		if p.Bomb.Boss && (p.Bomb.ClearSize < 1 || p.Bomb.ClearSize%2 == 0) {
			return fmt.Errorf("pattern %s: boss clear_size must be an odd number >= 1", p.ID)
		}
	case KindDamage:
		if p.Damage == nil || p.Damage.Amount < 0 {
			return fmt.Errorf("pattern %s: damage amount missing or negative", p.ID)
		}
	case KindHeavyDamage:
		if p.Heavy == nil || p.Heavy.Amount < 0 {
			return fmt.Errorf("pattern %s: heavy damage amount missing or negative", p.ID)
		}
		if p.Heavy.CancelThreshold < 1 {
			return fmt.Errorf("pattern %s: cancel_threshold must be >= 1", p.ID)
		}
		if p.Heavy.GroggyPatternID == "" {
			return fmt.Errorf("pattern %s: groggy_pattern_id is required", p.ID)
		}
	case KindGroggy:
	case KindDisableSlot:
		if p.Disable == nil || p.Disable.Count < 1 {
			return fmt.Errorf("pattern %s: disable count must be >= 1", p.ID)
		}
		switch p.Disable.Axis {
		case SlotRows, SlotColumns, SlotBoth:
		default:
			return fmt.Errorf("pattern %s: unknown slot axis %q", p.ID, p.Disable.Axis)
		}
	default:
		return fmt.Errorf("pattern %s: unknown kind %q", p.ID, p.Kind)
	}
	return nil
}
