package engine

import (
	"strings"
	"time"

	"github.com/ericogr/gridsiege/internal/damage"
	"github.com/ericogr/gridsiege/internal/grid"
	"github.com/ericogr/gridsiege/internal/turn"
)

// ActionResult describes what one placement or rotation caused.
type ActionResult struct {
	LineClear     grid.LineClearResult `json:"line_clear"`
	Breakdown     *damage.Breakdown    `json:"breakdown,omitempty"`
	TargetID      string               `json:"target_id,omitempty"`
	TargetDamage  int                  `json:"target_damage"`
	AoEDamage     int                  `json:"aoe_damage"`
	ShieldGained  int                  `json:"shield_gained"`
	MonstersSlain []string             `json:"monsters_slain,omitempty"`
	Waits         []turn.Step          `json:"waits,omitempty"`
	TotalWait     time.Duration        `json:"total_wait"`
	Summary       string               `json:"summary"`
}

// --- Clear context and helpers ----------------------------------------
type clearContext struct {
	b       *Battle
	res     ActionResult
	summary []string
}

func newClearContext(b *Battle, lc grid.LineClearResult) *clearContext {
	return &clearContext{b: b, res: ActionResult{LineClear: lc}, summary: make([]string, 0, 8)}
}

func (cc *clearContext) add(msg string) { cc.summary = append(cc.summary, msg) }

func (cc *clearContext) wait(point turn.HookPoint) {
	d := cc.b.settings.Pacing.Wait(cc.b.hook, point)
	cc.res.Waits = append(cc.res.Waits, turn.Step{Turn: cc.b.sched.Turn(), Hook: point, Wait: d})
}

// totalWait is the pacing the host should apply after the action.
func (cc *clearContext) totalWait() time.Duration {
	var t time.Duration
	for _, w := range cc.res.Waits {
		t += w.Wait
	}
	return t
}

func (cc *clearContext) finish() ActionResult {
	cc.res.Summary = strings.Join(cc.summary, "\n")
	cc.res.TotalWait = cc.totalWait()
	return cc.res
}
