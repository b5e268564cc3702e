package game

import (
	"fmt"

	"github.com/latestcomment/go-negotiation-game/internal/models"
)

// Card is an argument a team can play once per game.
type Card struct {
	ID       int             `json:"id"`
	Strength int             `json:"strength"`
	Category models.Category `json:"category"`
	Title    string          `json:"title"`
}

// Team A argues as the contractor claiming extra payment.
var contractorDeck = []Card{
	{ID: 1, Strength: 2, Title: "Small undocumented extra jobs"},
	{ID: 2, Strength: 4, Title: "Extra coordination with other trades"},
	{ID: 3, Strength: 5, Title: "Documented material price increases"},
	{ID: 4, Strength: 6, Title: "Delayed decisions by the client"},
	{ID: 5, Strength: 7, Title: "Plan changes with additional quantities"},
	{ID: 6, Strength: 8, Title: "New requirements from standards"},
	{ID: 7, Strength: 9, Title: "Work outside the original scope"},
	{ID: 8, Strength: 10, Title: "Approved plan change with announced surcharge"},
}

// Team B argues as the client pushing back on quality and schedule.
var clientDeck = []Card{
	{ID: 1, Strength: 3, Title: "Cosmetic defects and sloppy details"},
	{ID: 2, Strength: 5, Title: "Repeated missed deadlines"},
	{ID: 3, Strength: 6, Title: "Deviations from the specification"},
	{ID: 4, Strength: 7, Title: "Tolerances not met"},
	{ID: 5, Strength: 8, Title: "Impaired use of the building"},
	{ID: 6, Strength: 7, Title: "Repeated rework by the contractor"},
	{ID: 7, Strength: 8, Title: "Recurring defects of the same kind"},
	{ID: 8, Strength: 9, Title: "Risk of contract penalties"},
}

// Deck returns a fresh copy of team's argument cards.
func Deck(team models.Team) []Card {
	src := contractorDeck
	if team == models.TeamB {
		src = clientDeck
	}
	out := make([]Card, len(src))
	for i, c := range src {
		c.Category = CategoryOf(c.Strength)
		out[i] = c
	}
	return out
}

// Hand is a team's deck with the cards already played removed.
type Hand struct {
	cards []Card
}

func NewHand(team models.Team) *Hand {
	return &Hand{cards: Deck(team)}
}

func (h *Hand) Cards() []Card {
	return append([]Card(nil), h.cards...)
}

func (h *Hand) Len() int { return len(h.cards) }

// Take removes card id from the hand.
func (h *Hand) Take(id int) (Card, error) {
	for i, c := range h.cards {
		if c.ID == id {
			h.cards = append(h.cards[:i], h.cards[i+1:]...)
			return c, nil
		}
	}
	return Card{}, fmt.Errorf("card %d not in hand", id)
}
