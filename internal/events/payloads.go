package events

// Payloads for topics whose data does not already have a home in another
// package. Line clears and damage breakdowns are published as the grid and
// damage types themselves.

type ShieldChanged struct {
	Amount         int `json:"amount"`
	RemainingTurns int `json:"remaining_turns"`
}

type HPChanged struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"max_hp"`
}

type PhaseChanged struct {
	Turn  int    `json:"turn"`
	Phase string `json:"phase"`
}

type CountdownChanged struct {
	Countdown int `json:"countdown"`
}

type MonsterDied struct {
	ID string `json:"id"`
}

type PatternInterrupted struct {
	MonsterID string `json:"monster_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

type BombExploded struct {
	Count  int `json:"count"`
	Damage int `json:"damage"`
}

type OutcomeChanged struct {
	Outcome string `json:"outcome"`
}
