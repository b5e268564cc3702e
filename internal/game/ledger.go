package game

import "github.com/latestcomment/go-negotiation-game/internal/models"

// RoundSide is what one team did in a round. Zero values mean "not submitted".
type RoundSide struct {
	Base        int             `json:"base,omitempty"`
	Mode        models.Mode     `json:"mode,omitempty"`
	Reaction    models.Reaction `json:"reaction,omitempty"`
	TrustBefore float64         `json:"trustBefore"`
	TrustAfter  float64         `json:"trustAfter"`
	Invest      int             `json:"invest,omitempty"`
	Invested    bool            `json:"invested,omitempty"`
}

func (s RoundSide) played() bool {
	return s.Base > 0
}

func (s RoundSide) reacted() bool {
	return s.Reaction != ""
}

type RoundRecord struct {
	Round     int       `json:"round"`
	Phase     Phase     `json:"phase"`
	A         RoundSide `json:"A"`
	B         RoundSide `json:"B"`
	Completed bool      `json:"completed"`
	Skipped   bool      `json:"skipped,omitempty"`
}

// Side returns the record's entry for team.
func (r *RoundRecord) Side(team models.Team) *RoundSide {
	if team == models.TeamA {
		return &r.A
	}
	return &r.B
}

// Ledger is the per-round history of a game, indexed by round number.
type Ledger struct {
	rules   Rules
	records []*RoundRecord
}

// newLedger seeds round 1 with the starting trust of both teams.
func newLedger(rules Rules) *Ledger {
	l := &Ledger{rules: rules}
	first := l.record(1)
	first.A.TrustBefore = rules.StartTrust
	first.B.TrustBefore = rules.StartTrust
	return l
}

// record returns round r's entry, creating it (and any gap) on first access.
func (l *Ledger) record(r int) *RoundRecord {
	for len(l.records) < r {
		n := len(l.records) + 1
		l.records = append(l.records, &RoundRecord{Round: n, Phase: l.rules.PhaseOf(n)})
	}
	return l.records[r-1]
}

// Get returns a copy of round r's record.
func (l *Ledger) Get(r int) (RoundRecord, bool) {
	if r < 1 || r > len(l.records) {
		return RoundRecord{}, false
	}
	return *l.records[r-1], true
}

// Records returns copies of all records in round order.
func (l *Ledger) Records() []RoundRecord {
	out := make([]RoundRecord, len(l.records))
	for i, r := range l.records {
		out[i] = *r
	}
	return out
}

// close stamps trustAfter for round r and carries it into round r+1's trustBefore.
func (l *Ledger) close(r int, a, b TeamState) *RoundRecord {
	rec := l.record(r)
	rec.Completed = true
	rec.A.TrustAfter = a.Trust
	rec.B.TrustAfter = b.Trust

	if r < l.rules.TotalRounds {
		next := l.record(r + 1)
		next.A.TrustBefore = a.Trust
		next.B.TrustBefore = b.Trust
	}
	return rec
}

func (l *Ledger) closeNormal(r int, p PendingInput, a, b TeamState) {
	rec := l.close(r, a, b)
	for _, team := range models.Teams {
		side := rec.Side(team)
		play := p.Played[team]
		side.Base = play.Base
		side.Mode = play.Mode
		side.Reaction = p.Reacted[team]
	}
}

func (l *Ledger) closeInvestment(r int, p PendingInput, a, b TeamState) {
	rec := l.close(r, a, b)
	for _, team := range models.Teams {
		side := rec.Side(team)
		side.Invest = p.Invest[team]
		side.Invested = true
	}
}

func (l *Ledger) closeSkipped(r int, a, b TeamState) {
	rec := l.close(r, a, b)
	rec.Skipped = true
}
