package game

import "github.com/latestcomment/go-negotiation-game/internal/models"

const (
	lowTrust  = 40.0
	highTrust = 60.0
)

// Summarize computes the behavioural indices for team over the reacted rounds
// of records. The opponent's entries supply trust and argument strength.
func Summarize(records []RoundRecord, team models.Team) models.Summary {
	opp := team.Opponent()

	var accepts, defers, reactions int
	var honest, mild, plays int
	var lowTotal, lowAccepts, highTotal, highAccepts int
	var ownHighRounds, opportunistic int

	for i := range records {
		r := &records[i]
		own := r.Side(team)
		other := r.Side(opp)
		if !own.reacted() {
			continue
		}

		reactions++
		switch own.Reaction {
		case models.ReactionAccept:
			accepts++
		case models.ReactionDefer:
			defers++
		}

		if own.played() {
			plays++
			switch own.Mode {
			case models.ModeHonest:
				honest++
			case models.ModeMild:
				mild++
			}
		}

		accepted := own.Reaction == models.ReactionAccept
		switch {
		case other.TrustBefore < lowTrust:
			lowTotal++
			if accepted {
				lowAccepts++
			}
		case other.TrustBefore > highTrust:
			highTotal++
			if accepted {
				highAccepts++
			}
		}

		if own.TrustBefore > highTrust {
			ownHighRounds++
			if own.Mode.Exaggerated() {
				opportunistic++
			}
			if own.Reaction == models.ReactionReject && other.Base >= 5 {
				opportunistic++
			}
		}
	}

	cooperation := ratio(float64(2*accepts+defers), float64(2*reactions))
	fairness := ratio(float64(honest)+0.5*float64(mild), float64(plays))

	qLow := rateOr(lowAccepts, lowTotal, 0.5)
	qHigh := rateOr(highAccepts, highTotal, 0.5)
	sensitivity := (qHigh - qLow + 1) / 2

	opportunism := ratio(float64(opportunistic), float64(2*ownHighRounds))

	return models.Summary{
		Cooperation: clampPercent(cooperation * 100),
		Fairness:    clampPercent(fairness * 100),
		Sensitivity: clampPercent(sensitivity * 100),
		Opportunism: clampPercent(opportunism * 100),
	}
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func rateOr(part, total int, fallback float64) float64 {
	if total == 0 {
		return fallback
	}
	return float64(part) / float64(total)
}

func clampPercent(v float64) float64 {
	return min(max(v, 0), 100)
}

// Level is a coarse reading of an index for display.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// LevelOf buckets v at 33 and 66. For indices where a high value is
// unfavourable the outer labels are swapped.
func LevelOf(v float64, highIsGood bool) Level {
	switch {
	case v < 33:
		if highIsGood {
			return LevelLow
		}
		return LevelHigh
	case v < 66:
		return LevelMedium
	}
	if highIsGood {
		return LevelHigh
	}
	return LevelLow
}

// IndexLevel pairs an index with its display label.
type IndexLevel struct {
	Name  string
	Value float64
	Level Level
}

// Levels lists the four indices of s in display order.
func Levels(s models.Summary) []IndexLevel {
	return []IndexLevel{
		{Name: "cooperation", Value: s.Cooperation, Level: LevelOf(s.Cooperation, true)},
		{Name: "fairness", Value: s.Fairness, Level: LevelOf(s.Fairness, true)},
		{Name: "sensitivity", Value: s.Sensitivity, Level: LevelOf(s.Sensitivity, true)},
		{Name: "opportunism", Value: s.Opportunism, Level: LevelOf(s.Opportunism, false)},
	}
}
