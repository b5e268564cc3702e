package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latestcomment/go-negotiation-game/internal/models"
)

func TestEffectiveStrengthClamps(t *testing.T) {
	bonus := map[models.Mode]int{models.ModeHonest: 0, models.ModeMild: 2, models.ModeStrong: 4}
	for base := 1; base <= 10; base++ {
		for mode, b := range bonus {
			got := EffectiveStrength(base, mode)
			assert.Equal(t, min(base+b, 10), got, "base=%d mode=%s", base, mode)
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, 10)
		}
	}
}

func TestCategoryBoundaries(t *testing.T) {
	assert.Equal(t, models.CategoryWeak, CategoryOf(1))
	assert.Equal(t, models.CategoryWeak, CategoryOf(3))
	assert.Equal(t, models.CategoryMedium, CategoryOf(4))
	assert.Equal(t, models.CategoryMedium, CategoryOf(7))
	assert.Equal(t, models.CategoryStrong, CategoryOf(8))
	assert.Equal(t, models.CategoryStrong, CategoryOf(10))
}

func TestScoreDelta(t *testing.T) {
	assert.InDelta(t, 6.0, ScoreDelta(models.ReactionAccept, 6), 1e-9)
	assert.InDelta(t, 1.8, ScoreDelta(models.ReactionDefer, 6), 1e-9)
	assert.InDelta(t, -3.0, ScoreDelta(models.ReactionReject, 6), 1e-9)
}

func TestTrustDeltaTable(t *testing.T) {
	cases := []struct {
		reaction models.Reaction
		mode     models.Mode
		want     float64
	}{
		{models.ReactionAccept, models.ModeHonest, 8},
		{models.ReactionAccept, models.ModeMild, 5},
		{models.ReactionAccept, models.ModeStrong, 2},
		{models.ReactionDefer, models.ModeHonest, -2},
		{models.ReactionDefer, models.ModeMild, -1},
		{models.ReactionDefer, models.ModeStrong, 0},
		{models.ReactionReject, models.ModeHonest, -10},
		{models.ReactionReject, models.ModeMild, -5},
		{models.ReactionReject, models.ModeStrong, -2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TrustDelta(tc.reaction, tc.mode), "%s/%s", tc.reaction, tc.mode)
	}
}

func pendingNormal(a, b Play, rA, rB models.Reaction) PendingInput {
	p := newPendingInput()
	p.Played[models.TeamA] = a
	p.Played[models.TeamB] = b
	p.Reacted[models.TeamA] = rA
	p.Reacted[models.TeamB] = rB
	return p
}

func TestApplyNormalRoundBothAcceptHonest(t *testing.T) {
	a, b := initialTeam(50), initialTeam(50)
	p := pendingNormal(Play{5, models.ModeHonest}, Play{5, models.ModeHonest}, models.ReactionAccept, models.ReactionAccept)

	require.True(t, ApplyNormalRound(p, &a, &b))
	assert.Equal(t, TeamState{Score: 5, FairScore: 5, Trust: 58}, a)
	assert.Equal(t, TeamState{Score: 5, FairScore: 5, Trust: 58}, b)
}

func TestApplyNormalRoundUsesOpponentReaction(t *testing.T) {
	a, b := initialTeam(50), initialTeam(50)
	// A exaggerates strongly and B rejects; A accepts B's honest 3.
	p := pendingNormal(Play{7, models.ModeStrong}, Play{3, models.ModeHonest}, models.ReactionAccept, models.ReactionReject)

	require.True(t, ApplyNormalRound(p, &a, &b))
	assert.InDelta(t, -5.0, a.Score, 1e-9)
	assert.InDelta(t, 48.0, a.Trust, 1e-9)
	assert.InDelta(t, 7.0, a.FairScore, 1e-9)
	assert.InDelta(t, 3.0, b.Score, 1e-9)
	assert.InDelta(t, 58.0, b.Trust, 1e-9)
	assert.InDelta(t, 3.0, b.FairScore, 1e-9)
}

func TestApplyNormalRoundIncompleteIsNoop(t *testing.T) {
	a, b := initialTeam(50), initialTeam(50)
	p := newPendingInput()
	p.Played[models.TeamA] = Play{5, models.ModeHonest}
	p.Played[models.TeamB] = Play{5, models.ModeHonest}
	p.Reacted[models.TeamA] = models.ReactionAccept

	assert.False(t, ApplyNormalRound(p, &a, &b))
	assert.Equal(t, initialTeam(50), a)
	assert.Equal(t, initialTeam(50), b)
}

func TestApplyNormalRoundClampsTrust(t *testing.T) {
	a, b := initialTeam(98), initialTeam(4)
	p := pendingNormal(Play{5, models.ModeHonest}, Play{5, models.ModeHonest}, models.ReactionReject, models.ReactionAccept)

	ApplyNormalRound(p, &a, &b)
	assert.Equal(t, 100.0, a.Trust)
	assert.Equal(t, 0.0, b.Trust)
}

func TestApplyTrustInvestmentRound(t *testing.T) {
	a := TeamState{Score: 20, Trust: 90}
	b := TeamState{Score: 10, Trust: 50}
	p := newPendingInput()
	p.Invest[models.TeamA] = 5
	p.Invest[models.TeamB] = 5

	ApplyTrustInvestmentRound(p, &a, &b)
	assert.InDelta(t, 19.0, a.Score, 1e-9)
	assert.InDelta(t, 9.5, b.Score, 1e-9)
	assert.Equal(t, 100.0, a.Trust)
	assert.Equal(t, 65.0, b.Trust)
}

func TestApplyTrustInvestmentRoundOneSided(t *testing.T) {
	a := TeamState{Score: 10, Trust: 50}
	b := TeamState{Score: 10, Trust: 50}
	p := newPendingInput()
	p.Invest[models.TeamA] = 10

	ApplyTrustInvestmentRound(p, &a, &b)
	assert.InDelta(t, 9.0, a.Score, 1e-9)
	assert.InDelta(t, 10.0, b.Score, 1e-9)
	assert.Equal(t, 50.0, a.Trust)
	assert.Equal(t, 70.0, b.Trust)
}
