package ledger

// Shield is the player's damage buffer. 0 <= Current <= TotalCap.
type Shield struct {
	Current          int `json:"current"`
	TotalCap         int `json:"total_cap"`
	PerTurnGainLimit int `json:"per_turn_gain_limit"`
	PerTurnUsed      int `json:"per_turn_used"`
	RemainingTurns   int `json:"remaining_turns"`
}

// Add grants up to amount, limited by what is left of this turn's gain
// allowance and by the total cap. Any gain refreshes RemainingTurns to
// duration. It returns the amount actually gained.
func (s *Shield) Add(amount, duration int) int {
	if amount <= 0 {
		return 0
	}
	gain := amount
	if left := s.PerTurnGainLimit - s.PerTurnUsed; gain > left {
		gain = left
	}
	if room := s.TotalCap - s.Current; gain > room {
		gain = room
	}
	if gain <= 0 {
		return 0
	}
	s.Current += gain
	s.PerTurnUsed += gain
	s.RemainingTurns = duration
	return gain
}

// ResetTurn zeroes the per-turn counter and ages the shield by one turn.
// A shield whose remaining turns run out drops to zero.
func (s *Shield) ResetTurn() {
	s.PerTurnUsed = 0
	if s.RemainingTurns > 0 {
		s.RemainingTurns--
		if s.RemainingTurns == 0 {
			s.Current = 0
		}
	}
}

// Absorb takes up to amount out of the shield and returns what it took.
func (s *Shield) Absorb(amount int) int {
	if amount <= 0 || s.Current <= 0 {
		return 0
	}
	taken := amount
	if taken > s.Current {
		taken = s.Current
	}
	s.Current -= taken
	return taken
}
