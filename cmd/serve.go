package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/latestcomment/go-negotiation-game/internal/broker"
	"github.com/latestcomment/go-negotiation-game/internal/config"
	"github.com/latestcomment/go-negotiation-game/internal/handlers"
	"github.com/latestcomment/go-negotiation-game/internal/metrics"
	"github.com/latestcomment/go-negotiation-game/internal/models"
	"github.com/latestcomment/go-negotiation-game/internal/services"
)

const shutdownTimeout = 5 * time.Second

var (
	envFile      string
	addrFlag     string
	logLevelFlag string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the game server",
	RunE:  runServe,
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		cmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (overrides NEGOTIATION_ADDR)")
		cmd.Flags().StringVar(&logLevelFlag, "log-level", "", "log level (overrides NEGOTIATION_LOG_LEVEL)")
	}
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addrFlag != "" {
		cfg.Addr = addrFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	b := broker.NewLocal(
		broker.WithBuffer(cfg.SubscriberBuffer),
		broker.WithDropHook(func(broker.Frame) { m.RecordFrame("dropped") }),
	)

	sessions, err := services.NewSessionService(b, m, services.SessionConfig{
		MaxSessions:  cfg.MaxSessions,
		InboxSize:    cfg.InboxSize,
		StallTimeout: cfg.StallTimeout,
	})
	if err != nil {
		return err
	}
	relay := services.NewRelayService(models.NewChannelManager(), b, m)

	app := fiber.New(fiber.Config{
		Views:                 html.New(cfg.ViewsDir, ".html"),
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	handlers.Register(app,
		handlers.NewHandler(sessions, relay),
		handlers.NewWebSocketHandler(relay),
		adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sessions.Run(ctx)
	})
	g.Go(func() error {
		log.Infof("negotiation server listening on %s", cfg.Addr)
		return app.Listen(cfg.Addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
