package damage

import (
	"github.com/ericogr/gridsiege/internal/game"
	"github.com/ericogr/gridsiege/internal/grid"
)

// Settings are the damage constants of a ruleset.
type Settings struct {
	BaseDamagePerLine   int     `json:"base_damage_per_line"`
	BonusPerBlock       int     `json:"bonus_per_block"`
	CrossDamage         int     `json:"cross_damage"`
	StaffAoEDamage      int     `json:"staff_aoe_damage"`
	CandyBonus          int     `json:"candy_bonus"`
	LightningMultiplier float64 `json:"lightning_multiplier"`
	GridWidth           int     `json:"grid_width"`
	GridHeight          int     `json:"grid_height"`
}

// Breakdown is computed in full before any HP changes and is never mutated
// afterwards. AoEDamage is separate from FinalDamage and never multiplied.
type Breakdown struct {
	BaseDamage       int  `json:"base_damage"`
	AttributeDamage  int  `json:"attribute_damage"`
	DefuseDamage     int  `json:"defuse_damage"`
	AoEDamage        int  `json:"aoe_damage"`
	PreLightningSum  int  `json:"pre_lightning_sum"`
	FinalDamage      int  `json:"final_damage"`
	LightningApplied bool `json:"lightning_applied"`
	ShieldLines      int  `json:"shield_lines"`
}

// Resolve turns one line-clear event and the attribute map into a damage
// breakdown. It does not touch any state.
func Resolve(s Settings, res grid.LineClearResult, attrs *game.AttributeMap) Breakdown {
	var b Breakdown
	b.BaseDamage = res.LineCount() * s.BaseDamagePerLine

	if attrs != nil {
		for _, r := range res.ClearedRows {
			b.apply(s, attrs.Row(r), s.GridWidth)
		}
		for _, c := range res.ClearedCols {
			b.apply(s, attrs.Col(c), s.GridHeight)
		}
		if attrs.HasAny(game.AxisRow, game.AttributeCandy) {
			b.AttributeDamage += s.CandyBonus * len(res.ClearedRows)
		}
		if attrs.HasAny(game.AxisColumn, game.AttributeCandy) {
			b.AttributeDamage += s.CandyBonus * len(res.ClearedCols)
		}
	}

	b.PreLightningSum = b.BaseDamage + b.AttributeDamage + b.DefuseDamage
	if b.PreLightningSum < 0 {
		b.PreLightningSum = 0
	}
	b.FinalDamage = b.PreLightningSum
	// no rule in the current ruleset turns lightning on
	if b.LightningApplied && s.LightningMultiplier > 0 {
		b.FinalDamage = int(float64(b.PreLightningSum) * s.LightningMultiplier)
	}
	if b.AoEDamage < 0 {
		b.AoEDamage = 0
	}
	return b
}

func (b *Breakdown) apply(s Settings, attr game.AttributeType, lineLength int) {
	switch attr {
	case game.AttributeSword:
		b.AttributeDamage += lineLength * s.BonusPerBlock
	case game.AttributeCross:
		b.AttributeDamage += s.CrossDamage
	case game.AttributeStaff:
		b.AoEDamage += s.StaffAoEDamage
	case game.AttributeShield:
		b.ShieldLines++
	}
}
