package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/latestcomment/go-negotiation-game/internal/models"
)

func reacted(round int, own, opp RoundSide) RoundRecord {
	return RoundRecord{Round: round, Phase: PhaseNormal, A: own, B: opp, Completed: true}
}

func TestSummarizeCooperation(t *testing.T) {
	records := []RoundRecord{
		reacted(1, RoundSide{Base: 5, Mode: models.ModeHonest, Reaction: models.ReactionAccept, TrustBefore: 50}, RoundSide{Base: 5, TrustBefore: 50}),
		reacted(2, RoundSide{Base: 5, Mode: models.ModeHonest, Reaction: models.ReactionAccept, TrustBefore: 50}, RoundSide{Base: 5, TrustBefore: 50}),
		reacted(3, RoundSide{Base: 5, Mode: models.ModeHonest, Reaction: models.ReactionAccept, TrustBefore: 50}, RoundSide{Base: 5, TrustBefore: 50}),
		{Round: 4, Phase: PhaseTrustInvestment, A: RoundSide{Invest: 5, Invested: true}, B: RoundSide{Invest: 5, Invested: true}},
		reacted(5, RoundSide{Base: 5, Mode: models.ModeHonest, Reaction: models.ReactionDefer, TrustBefore: 50}, RoundSide{Base: 5, TrustBefore: 50}),
	}

	s := Summarize(records, models.TeamA)
	assert.InDelta(t, 87.5, s.Cooperation, 1e-9)
	assert.InDelta(t, 100.0, s.Fairness, 1e-9)
	// Opponent trust stayed at 50: neither bucket observed.
	assert.InDelta(t, 50.0, s.Sensitivity, 1e-9)
	assert.InDelta(t, 0.0, s.Opportunism, 1e-9)
}

func TestSummarizeFairness(t *testing.T) {
	records := []RoundRecord{
		reacted(1, RoundSide{Base: 5, Mode: models.ModeHonest, Reaction: models.ReactionAccept, TrustBefore: 50}, RoundSide{TrustBefore: 50}),
		reacted(2, RoundSide{Base: 5, Mode: models.ModeMild, Reaction: models.ReactionAccept, TrustBefore: 50}, RoundSide{TrustBefore: 50}),
		reacted(3, RoundSide{Base: 5, Mode: models.ModeStrong, Reaction: models.ReactionAccept, TrustBefore: 50}, RoundSide{TrustBefore: 50}),
		reacted(5, RoundSide{Base: 5, Mode: models.ModeStrong, Reaction: models.ReactionAccept, TrustBefore: 50}, RoundSide{TrustBefore: 50}),
	}

	s := Summarize(records, models.TeamA)
	assert.InDelta(t, 37.5, s.Fairness, 1e-9)
}

func TestSummarizeSensitivity(t *testing.T) {
	records := []RoundRecord{
		// Opponent trusted: A accepts.
		reacted(1, RoundSide{Base: 5, Mode: models.ModeHonest, Reaction: models.ReactionAccept, TrustBefore: 50}, RoundSide{TrustBefore: 70}),
		reacted(2, RoundSide{Base: 5, Mode: models.ModeHonest, Reaction: models.ReactionAccept, TrustBefore: 50}, RoundSide{TrustBefore: 80}),
		// Opponent distrusted: A rejects once, accepts once.
		reacted(3, RoundSide{Base: 5, Mode: models.ModeHonest, Reaction: models.ReactionReject, TrustBefore: 50}, RoundSide{TrustBefore: 30}),
		reacted(5, RoundSide{Base: 5, Mode: models.ModeHonest, Reaction: models.ReactionAccept, TrustBefore: 50}, RoundSide{TrustBefore: 20}),
	}

	s := Summarize(records, models.TeamA)
	// ((1.0 - 0.5) + 1) / 2 = 0.75
	assert.InDelta(t, 75.0, s.Sensitivity, 1e-9)
}

func TestSummarizeOpportunism(t *testing.T) {
	records := []RoundRecord{
		// Own trust high: exaggerates and rejects a strong argument, 2 points.
		reacted(1, RoundSide{Base: 5, Mode: models.ModeStrong, Reaction: models.ReactionReject, TrustBefore: 70}, RoundSide{Base: 6, TrustBefore: 50}),
		// Own trust high: honest and accepts, 0 points.
		reacted(2, RoundSide{Base: 5, Mode: models.ModeHonest, Reaction: models.ReactionAccept, TrustBefore: 65}, RoundSide{Base: 9, TrustBefore: 50}),
		// Own trust not above 60: ignored.
		reacted(3, RoundSide{Base: 5, Mode: models.ModeStrong, Reaction: models.ReactionReject, TrustBefore: 60}, RoundSide{Base: 9, TrustBefore: 50}),
		// Own trust high: rejects a weak base, only the mode counts.
		reacted(5, RoundSide{Base: 5, Mode: models.ModeMild, Reaction: models.ReactionReject, TrustBefore: 61}, RoundSide{Base: 4, TrustBefore: 50}),
	}

	s := Summarize(records, models.TeamA)
	// 3 points over 2*3 rounds.
	assert.InDelta(t, 50.0, s.Opportunism, 1e-9)
}

func TestSummarizeEmptyLedger(t *testing.T) {
	s := Summarize(nil, models.TeamB)
	assert.Equal(t, models.Summary{Cooperation: 0, Fairness: 0, Sensitivity: 50, Opportunism: 0}, s)
}

func TestSummarizeReadsTeamBSide(t *testing.T) {
	records := []RoundRecord{{
		Round: 1, Phase: PhaseNormal, Completed: true,
		A: RoundSide{Base: 5, Mode: models.ModeHonest, Reaction: models.ReactionAccept, TrustBefore: 50},
		B: RoundSide{Base: 5, Mode: models.ModeMild, Reaction: models.ReactionReject, TrustBefore: 50},
	}}

	s := Summarize(records, models.TeamB)
	assert.InDelta(t, 0.0, s.Cooperation, 1e-9)
	assert.InDelta(t, 50.0, s.Fairness, 1e-9)
}

func TestLevelOf(t *testing.T) {
	assert.Equal(t, LevelLow, LevelOf(10, true))
	assert.Equal(t, LevelMedium, LevelOf(33, true))
	assert.Equal(t, LevelHigh, LevelOf(66, true))
	assert.Equal(t, LevelHigh, LevelOf(10, false))
	assert.Equal(t, LevelLow, LevelOf(90, false))

	levels := Levels(models.Summary{Cooperation: 80, Fairness: 50, Sensitivity: 20, Opportunism: 80})
	assert.Equal(t, []Level{LevelHigh, LevelMedium, LevelLow, LevelLow},
		[]Level{levels[0].Level, levels[1].Level, levels[2].Level, levels[3].Level})
}
