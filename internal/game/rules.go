package game

// Phase is the kind of round being played.
type Phase string

const (
	// PhaseNormal rounds exchange arguments and reactions.
	PhaseNormal Phase = "normal"
	// PhaseTrustInvestment rounds let each team spend score to build trust.
	PhaseTrustInvestment Phase = "trust-investment"
)

const (
	// TotalRounds is the length of a standard game.
	TotalRounds = 10
	// DefaultTrust is each team's trust at the start of a game.
	DefaultTrust = 50.0
)

// InvestOptions are the investment percentages offered to players.
var InvestOptions = []int{0, 3, 5, 7, 10}

// Rules fixes the round schedule of a game.
type Rules struct {
	TotalRounds int
	TrustRounds map[int]bool
	StartTrust  float64
}

// DefaultRules is the ten-round game with trust investment in rounds 4 and 8.
func DefaultRules() Rules {
	return Rules{
		TotalRounds: TotalRounds,
		TrustRounds: map[int]bool{4: true, 8: true},
		StartTrust:  DefaultTrust,
	}
}

// PhaseOf returns the phase of round r.
func (r Rules) PhaseOf(round int) Phase {
	if r.TrustRounds[round] {
		return PhaseTrustInvestment
	}
	return PhaseNormal
}
