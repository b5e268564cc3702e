package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"github.com/latestcomment/go-negotiation-game/internal/client"
	"github.com/latestcomment/go-negotiation-game/internal/game"
	"github.com/latestcomment/go-negotiation-game/internal/models"
)

var botOpts struct {
	server  string
	session string
	team    string
	seed    uint64
	timeout time.Duration
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Play one team with a scripted strategy",
	Long: `bot joins a session as team A or B, plays a random card each normal round,
reacts to the revealed category and invests a random share in trust rounds.
It prints the team's summary when the game ends.`,
	RunE: runBot,
}

func init() {
	f := botCmd.Flags()
	f.StringVar(&botOpts.server, "server", "http://localhost:3000", "server URL")
	f.StringVar(&botOpts.session, "session", "", "session code")
	f.StringVar(&botOpts.team, "team", "A", "team to play (A or B)")
	f.Uint64Var(&botOpts.seed, "seed", uint64(time.Now().UnixNano()), "random seed")
	f.DurationVar(&botOpts.timeout, "timeout", 30*time.Minute, "give up after this long")
	_ = botCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	team := models.Team(botOpts.team)
	if !team.Valid() {
		return fmt.Errorf("team must be A or B, got %q", botOpts.team)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, botOpts.timeout)
	defer cancel()

	c, err := client.Dial(ctx, botOpts.server, botOpts.session, models.Role(team))
	if err != nil {
		return err
	}
	defer c.Close()

	log.Infof("bot joined session %s as team %s", botOpts.session, team)
	summary, err := client.NewBot(c, team, botOpts.seed).Play(ctx)
	if err != nil {
		return fmt.Errorf("bot %s: %w", team, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "team %s summary\n", team)
	for _, l := range game.Levels(summary) {
		fmt.Fprintf(out, "  %-12s %5.1f  %s\n", l.Name, l.Value, l.Level)
	}
	return nil
}
