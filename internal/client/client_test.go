package client

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/latestcomment/go-negotiation-game/internal/broker"
	"github.com/latestcomment/go-negotiation-game/internal/game"
	"github.com/latestcomment/go-negotiation-game/internal/handlers"
	"github.com/latestcomment/go-negotiation-game/internal/models"
	"github.com/latestcomment/go-negotiation-game/internal/services"
)

func startServer(t *testing.T) string {
	t.Helper()

	b := broker.NewLocal()
	svc, err := services.NewSessionService(b, nil, services.DefaultSessionConfig())
	require.NoError(t, err)
	relay := services.NewRelayService(models.NewChannelManager(), b, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = svc.Run(ctx)
	}()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handlers.Register(app, handlers.NewHandler(svc, relay), handlers.NewWebSocketHandler(relay), nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()

	t.Cleanup(func() {
		_ = app.Shutdown()
		cancel()
		<-done
	})
	return "http://" + ln.Addr().String()
}

func TestDialRejectsUnknownRole(t *testing.T) {
	base := startServer(t)

	_, err := Dial(context.Background(), base, "S1", models.Role("referee"))
	require.Error(t, err)
}

func TestBotsPlayFullGame(t *testing.T) {
	base := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	summaries := make(map[models.Team]models.Summary, 2)
	bots := make(map[models.Team]*Bot, 2)
	for i, team := range models.Teams {
		c, err := Dial(ctx, base, "GAME", models.Role(team))
		require.NoError(t, err)
		defer c.Close()
		bots[team] = NewBot(c, team, uint64(i+1))
	}

	var g errgroup.Group
	results := make([]models.Summary, len(models.Teams))
	for i, team := range models.Teams {
		g.Go(func() error {
			s, err := bots[team].Play(ctx)
			results[i] = s
			return err
		})
	}
	require.NoError(t, g.Wait())

	for i, team := range models.Teams {
		summaries[team] = results[i]
	}
	for team, s := range summaries {
		for _, v := range []float64{s.Cooperation, s.Fairness, s.Sensitivity, s.Opportunism} {
			assert.GreaterOrEqual(t, v, 0.0, "team %s", team)
			assert.LessOrEqual(t, v, 100.0, "team %s", team)
		}
		assert.Zero(t, bots[team].hand.Len(), "team %s should have played every card", team)
	}
}

func TestReceiveSkipsOtherSessions(t *testing.T) {
	base := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	host, err := Dial(ctx, base, "S1", models.RoleHost)
	require.NoError(t, err)
	defer host.Close()
	watcher, err := Dial(ctx, base, "S1", models.RoleWatch)
	require.NoError(t, err)
	defer watcher.Close()

	// Give the server a moment to subscribe both connections.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, host.Send(models.Reset{Session: "OTHER"}))
	require.NoError(t, host.Send(models.Reset{Session: "S1"}))

	require.NoError(t, watcher.SetReadDeadline(time.Now().Add(3*time.Second)))
	msg, err := watcher.Receive()
	require.NoError(t, err)
	assert.Equal(t, "S1", msg.SessionID())
}

func TestBotsRestartAfterReset(t *testing.T) {
	base := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host, err := Dial(ctx, base, "RESET", models.RoleHost)
	require.NoError(t, err)
	defer host.Close()
	defer context.AfterFunc(ctx, func() { _ = host.conn.Close() })()

	bots := make([]*Bot, 0, len(models.Teams))
	for i, team := range models.Teams {
		c, err := Dial(ctx, base, "RESET", models.Role(team))
		require.NoError(t, err)
		defer c.Close()
		bots = append(bots, NewBot(c, team, uint64(i+7)))
	}

	var g errgroup.Group
	g.Go(func() error {
		for {
			msg, err := host.Receive()
			if err != nil {
				return err
			}
			if next, ok := msg.(models.Next); ok && next.Round == 3 {
				return host.Send(models.Reset{Session: "RESET"})
			}
		}
	})
	for _, b := range bots {
		g.Go(func() error {
			_, err := b.Play(ctx)
			return err
		})
	}
	require.NoError(t, g.Wait())

	resp, err := http.Get(base + "/api/sessions/RESET")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var st game.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.True(t, st.Finalized)
	require.Len(t, st.Ledger, game.TotalRounds)
	for _, rec := range st.Ledger {
		assert.True(t, rec.Completed, "round %d", rec.Round)
	}
}
