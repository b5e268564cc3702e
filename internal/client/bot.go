package client

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/gofiber/fiber/v2/log"

	"github.com/latestcomment/go-negotiation-game/internal/game"
	"github.com/latestcomment/go-negotiation-game/internal/models"
)

// Bot plays one team with a simple scripted strategy.
type Bot struct {
	client *Client
	team   models.Team
	rules  game.Rules
	hand   *game.Hand
	rng    *rand.Rand
	round  int
}

func NewBot(c *Client, team models.Team, seed uint64) *Bot {
	return &Bot{
		client: c,
		team:   team,
		rules:  game.DefaultRules(),
		hand:   game.NewHand(team),
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		round:  1,
	}
}

// Play runs until the game is finalized and returns this team's summary.
func (b *Bot) Play(ctx context.Context) (models.Summary, error) {
	// Closing the socket unblocks Receive; the close frame is left to Close.
	stop := context.AfterFunc(ctx, func() { _ = b.client.conn.Close() })
	defer stop()

	if err := b.startRound(); err != nil {
		return models.Summary{}, err
	}
	for {
		msg, err := b.client.Receive()
		if err != nil {
			if ctx.Err() != nil {
				return models.Summary{}, ctx.Err()
			}
			return models.Summary{}, err
		}

		switch v := msg.(type) {
		case models.Reveal:
			if v.To != b.team {
				continue
			}
			if err := b.react(v.OppCategory); err != nil {
				return models.Summary{}, err
			}
		case models.Next:
			b.round = v.Round
			if err := b.startRound(); err != nil {
				return models.Summary{}, err
			}
		case models.Reset:
			log.Debugf("bot %s: session reset", b.team)
			b.hand = game.NewHand(b.team)
			b.round = 1
			if err := b.startRound(); err != nil {
				return models.Summary{}, err
			}
		case models.StateUpdate:
			snap := v.A
			if b.team == models.TeamB {
				snap = v.B
			}
			if snap.Summary != nil {
				return *snap.Summary, nil
			}
		}
	}
}

func (b *Bot) startRound() error {
	if b.rules.PhaseOf(b.round) == game.PhaseTrustInvestment {
		amount := game.InvestOptions[b.rng.IntN(len(game.InvestOptions))]
		log.Debugf("bot %s: round %d invests %d%%", b.team, b.round, amount)
		return b.client.Send(models.TrustInvest{Session: b.client.Session, Team: b.team, Amount: amount})
	}

	cards := b.hand.Cards()
	if len(cards) == 0 {
		return fmt.Errorf("bot %s: no cards left in round %d", b.team, b.round)
	}
	card, err := b.hand.Take(cards[b.rng.IntN(len(cards))].ID)
	if err != nil {
		return err
	}
	modes := []models.Mode{models.ModeHonest, models.ModeHonest, models.ModeMild, models.ModeStrong}
	mode := modes[b.rng.IntN(len(modes))]
	log.Debugf("bot %s: round %d plays %q (%d, %s)", b.team, b.round, card.Title, card.Strength, mode)
	return b.client.Send(models.Played{Session: b.client.Session, Team: b.team, Base: card.Strength, Mode: mode})
}

// react accepts strong arguments, weighs medium ones and mostly rejects weak ones.
func (b *Bot) react(cat models.Category) error {
	var r models.Reaction
	roll := b.rng.Float64()
	switch cat {
	case models.CategoryStrong:
		r = models.ReactionAccept
		if roll < 0.2 {
			r = models.ReactionDefer
		}
	case models.CategoryMedium:
		r = models.ReactionDefer
		if roll < 0.4 {
			r = models.ReactionAccept
		} else if roll > 0.8 {
			r = models.ReactionReject
		}
	default:
		r = models.ReactionReject
		if roll < 0.3 {
			r = models.ReactionDefer
		}
	}
	return b.client.Send(models.React{Session: b.client.Session, Team: b.team, Reaction: r})
}
