package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/latestcomment/go-negotiation-game/internal/game"
	"github.com/latestcomment/go-negotiation-game/internal/models"
	"github.com/latestcomment/go-negotiation-game/internal/services"
)

const snapshotTimeout = 2 * time.Second

type Handler struct {
	Sessions *services.SessionService
	Relay    *services.RelayService
}

func NewHandler(sessions *services.SessionService, relay *services.RelayService) *Handler {
	return &Handler{Sessions: sessions, Relay: relay}
}

// StartPage lets the facilitator pick a session code and hands out the links.
func (h *Handler) StartPage(c *fiber.Ctx) error {
	session := strings.TrimSpace(c.Query("s"))
	if session == "" {
		session = newSessionCode()
	}
	return c.Render("index", fiber.Map{
		"Session": session,
	})
}

func (h *Handler) HostPage(c *fiber.Ctx) error {
	session := c.Params("session")
	data := fiber.Map{
		"Session":     session,
		"TotalRounds": game.TotalRounds,
	}

	st, err := h.snapshot(c.UserContext(), session)
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		data["Waiting"] = true
	case err != nil:
		return err
	default:
		data["State"] = st
		if st.A.Summary != nil && st.B.Summary != nil {
			data["LevelsA"] = game.Levels(*st.A.Summary)
			data["LevelsB"] = game.Levels(*st.B.Summary)
		}
	}
	if ch := h.Relay.Manager.Get(session); ch != nil {
		data["Connected"] = ch.Roles()
	}
	return c.Render("host", data)
}

// TeamPage hands a team its argument cards. Play happens over the websocket.
func (h *Handler) TeamPage(c *fiber.Ctx) error {
	team := models.Team(c.Params("team"))
	if !team.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "team must be A or B")
	}
	rules := game.DefaultRules()
	trustRounds := make([]int, 0, len(rules.TrustRounds))
	for r := 1; r <= rules.TotalRounds; r++ {
		if rules.PhaseOf(r) == game.PhaseTrustInvestment {
			trustRounds = append(trustRounds, r)
		}
	}
	return c.Render("team", fiber.Map{
		"Session":       c.Params("session"),
		"Team":          team,
		"Opponent":      team.Opponent(),
		"Cards":         game.Deck(team),
		"InvestOptions": game.InvestOptions,
		"TrustRounds":   trustRounds,
		"TotalRounds":   rules.TotalRounds,
	})
}

func (h *Handler) SessionState(c *fiber.Ctx) error {
	st, err := h.snapshot(c.UserContext(), c.Params("session"))
	if errors.Is(err, services.ErrSessionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(st)
}

func (h *Handler) SessionList(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"sessions": h.Sessions.Sessions()})
}

func (h *Handler) Deck(c *fiber.Ctx) error {
	team := models.Team(c.Params("team"))
	if !team.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "team must be A or B")
	}
	return c.JSON(fiber.Map{
		"team":          team,
		"cards":         game.Deck(team),
		"investOptions": game.InvestOptions,
	})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) snapshot(ctx context.Context, session string) (game.State, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()
	return h.Sessions.Snapshot(ctx, session)
}

func newSessionCode() string {
	return strings.ToUpper(uuid.NewString()[:6])
}
