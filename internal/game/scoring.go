package game

import "github.com/latestcomment/go-negotiation-game/internal/models"

// TeamState is one team's cumulative standing.
type TeamState struct {
	Score     float64 `json:"score"`
	FairScore float64 `json:"fairScore"`
	Trust     float64 `json:"trust"`
}

func initialTeam(trust float64) TeamState {
	return TeamState{Trust: trust}
}

func (t TeamState) snapshot(summary *models.Summary) models.Snapshot {
	return models.Snapshot{
		Score:     t.Score,
		FairScore: t.FairScore,
		Trust:     t.Trust,
		Summary:   summary,
	}
}

// Play is an argument as submitted by a team.
type Play struct {
	Base int         `json:"base"`
	Mode models.Mode `json:"mode"`
}

// PendingInput collects the submissions for the round in progress.
type PendingInput struct {
	Played  map[models.Team]Play
	Reacted map[models.Team]models.Reaction
	Invest  map[models.Team]int
}

func newPendingInput() PendingInput {
	return PendingInput{
		Played:  make(map[models.Team]Play),
		Reacted: make(map[models.Team]models.Reaction),
		Invest:  make(map[models.Team]int),
	}
}

func (p PendingInput) bothPlayed() bool {
	_, a := p.Played[models.TeamA]
	_, b := p.Played[models.TeamB]
	return a && b
}

func (p PendingInput) bothReacted() bool {
	_, a := p.Reacted[models.TeamA]
	_, b := p.Reacted[models.TeamB]
	return a && b
}

func (p PendingInput) bothInvested() bool {
	_, a := p.Invest[models.TeamA]
	_, b := p.Invest[models.TeamB]
	return a && b
}

var modeBonus = map[models.Mode]int{
	models.ModeHonest: 0,
	models.ModeMild:   2,
	models.ModeStrong: 4,
}

// EffectiveStrength adds the mode bonus to base and clamps to [1,10].
func EffectiveStrength(base int, mode models.Mode) int {
	return min(max(base+modeBonus[mode], 1), 10)
}

// CategoryOf buckets an effective strength: weak up to 3, medium up to 7, strong above.
func CategoryOf(eff int) models.Category {
	if eff <= 3 {
		return models.CategoryWeak
	}
	if eff <= 7 {
		return models.CategoryMedium
	}
	return models.CategoryStrong
}

// ScoreDelta is what an argument of strength eff earns given the opponent's reaction.
func ScoreDelta(reaction models.Reaction, eff int) float64 {
	switch reaction {
	case models.ReactionAccept:
		return float64(eff)
	case models.ReactionDefer:
		return 0.3 * float64(eff)
	default:
		return -0.5 * float64(eff)
	}
}

var trustTable = map[models.Reaction]map[models.Mode]float64{
	models.ReactionAccept: {models.ModeHonest: 8, models.ModeMild: 5, models.ModeStrong: 2},
	models.ReactionDefer:  {models.ModeHonest: -2, models.ModeMild: -1, models.ModeStrong: 0},
	models.ReactionReject: {models.ModeHonest: -10, models.ModeMild: -5, models.ModeStrong: -2},
}

// TrustDelta is the trust change for the actor who played in ownMode when the
// opponent answered with reaction.
func TrustDelta(reaction models.Reaction, ownMode models.Mode) float64 {
	return trustTable[reaction][ownMode]
}

func clampTrust(v float64) float64 {
	return min(max(v, 0), 100)
}

// ApplyNormalRound scores a completed argument round. A team's score and trust
// move by the opponent's reaction to its own argument. It reports false and
// changes nothing unless both teams have played and reacted.
func ApplyNormalRound(p PendingInput, a, b *TeamState) bool {
	if !p.bothPlayed() || !p.bothReacted() {
		return false
	}
	pA, pB := p.Played[models.TeamA], p.Played[models.TeamB]
	rA, rB := p.Reacted[models.TeamA], p.Reacted[models.TeamB]

	effA := EffectiveStrength(pA.Base, pA.Mode)
	effB := EffectiveStrength(pB.Base, pB.Mode)

	a.Score += ScoreDelta(rB, effA)
	b.Score += ScoreDelta(rA, effB)

	a.Trust = clampTrust(a.Trust + TrustDelta(rB, pA.Mode))
	b.Trust = clampTrust(b.Trust + TrustDelta(rA, pB.Mode))

	a.FairScore += float64(pA.Base)
	b.FairScore += float64(pB.Base)
	return true
}

// ApplyTrustInvestmentRound charges each team its invested share of score and
// credits trust from the opponent's investment. Missing investments count as 0.
func ApplyTrustInvestmentRound(p PendingInput, a, b *TeamState) {
	iA := float64(p.Invest[models.TeamA])
	iB := float64(p.Invest[models.TeamB])

	a.Score -= a.Score * iA / 100
	b.Score -= b.Score * iB / 100

	gainA := 2 * iB
	gainB := 2 * iA
	if iA > 0 && iB > 0 {
		common := min(iA, iB)
		gainA += common
		gainB += common
	}

	a.Trust = clampTrust(a.Trust + gainA)
	b.Trust = clampTrust(b.Trust + gainB)
}
