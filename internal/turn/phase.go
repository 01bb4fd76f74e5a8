package turn

import (
	"fmt"
	"time"
)

// Phase is one stage of a turn. Phases always run in declaration order.
type Phase int

const (
	PhaseTurnStart Phase = iota
	PhaseShieldReset
	PhaseBombExplosion
	PhaseMonsterAttack
	PhaseBombAutoSpawn
	PhaseTurnEnd
)

var phaseNames = [...]string{
	PhaseTurnStart:     "TurnStart",
	PhaseShieldReset:   "ShieldReset",
	PhaseBombExplosion: "BombExplosion",
	PhaseMonsterAttack: "MonsterAttack",
	PhaseBombAutoSpawn: "BombAutoSpawn",
	PhaseTurnEnd:       "TurnEnd",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Unknown"
	}
	return phaseNames[p]
}

// MarshalText lets phases travel as their names in JSON.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown turn phase %q", text)
}

// HookPoint names where the presentation layer reports animation length.
type HookPoint string

const (
	HookNone          HookPoint = ""
	HookLineClear     HookPoint = "line_clear"
	HookMonsterHit    HookPoint = "monster_hit"
	HookBombSpawn     HookPoint = "bomb_spawn"
	HookBombExplosion HookPoint = "bomb_explosion"
	HookMonsterAction HookPoint = "monster_action"
)

// DurationHook reports, in seconds, how long the presentation layer needs
// at a hook point. It may report 0.
type DurationHook func(point HookPoint) float64

// Pacing bounds every reported duration.
type Pacing struct {
	MinWait time.Duration
	MaxWait time.Duration
}

// Wait converts a hook report into a bounded wait. A nil hook means no wait.
func (p Pacing) Wait(hook DurationHook, point HookPoint) time.Duration {
	if hook == nil || point == HookNone {
		return 0
	}
	secs := hook(point)
	if secs < 0 {
		secs = 0
	}
	d := time.Duration(secs * float64(time.Second))
	if d < p.MinWait {
		d = p.MinWait
	}
	if p.MaxWait > 0 && d > p.MaxWait {
		d = p.MaxWait
	}
	return d
}

// Step is one unit of turn progress. The host waits Wait before asking
// for the next step; the wait never changes the logical outcome.
type Step struct {
	Turn   int           `json:"turn"`
	Phase  Phase         `json:"phase"`
	Hook   HookPoint     `json:"hook,omitempty"`
	Wait   time.Duration `json:"wait"`
	Detail string        `json:"detail,omitempty"`
}
