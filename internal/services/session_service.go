package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/latestcomment/go-negotiation-game/internal/broker"
	"github.com/latestcomment/go-negotiation-game/internal/game"
	"github.com/latestcomment/go-negotiation-game/internal/metrics"
	"github.com/latestcomment/go-negotiation-game/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionConfig struct {
	MaxSessions  int
	InboxSize    int
	StallTimeout time.Duration
	Rules        game.Rules
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxSessions: 256,
		InboxSize:   64,
		Rules:       game.DefaultRules(),
	}
}

// SessionService owns one state machine per session id. It listens on every
// broker topic, routes decoded messages by the session named in the payload,
// and publishes the machine's output back to that session.
type SessionService struct {
	id      uuid.UUID
	broker  broker.Broker
	metrics *metrics.Metrics
	cfg     SessionConfig

	mu       sync.Mutex
	closed   bool
	sessions *lru.Cache[string, *sessionActor]
}

func NewSessionService(b broker.Broker, m *metrics.Metrics, cfg SessionConfig) (*SessionService, error) {
	if cfg.Rules.TotalRounds == 0 {
		cfg.Rules = game.DefaultRules()
	}
	s := &SessionService{
		id:      uuid.New(),
		broker:  b,
		metrics: m,
		cfg:     cfg,
	}
	cache, err := lru.NewWithEvict(cfg.MaxSessions, func(session string, a *sessionActor) {
		a.stop()
		log.Infof("session %s evicted", session)
	})
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	s.sessions = cache
	return s, nil
}

// ID is the sender id stamped on frames the service publishes.
func (s *SessionService) ID() uuid.UUID { return s.id }

// Run consumes frames until ctx is done, then stops every session.
func (s *SessionService) Run(ctx context.Context) error {
	unsubscribe := s.broker.Subscribe(broker.AnySession, s.route)
	defer unsubscribe()

	<-ctx.Done()

	s.mu.Lock()
	s.closed = true
	s.sessions.Purge()
	s.mu.Unlock()
	s.metrics.SetSessions(0)
	return nil
}

func (s *SessionService) route(f broker.Frame) {
	if f.Sender == s.id {
		return
	}
	msg, err := models.Decode(f.Data)
	if err != nil {
		s.metrics.RecordIgnored("malformed")
		log.Debugf("session: dropped frame from %s: %v", f.Sender, err)
		return
	}
	if !models.Inbound(msg.Kind()) {
		return
	}
	if msg.Kind() == models.KindNext && f.Role != models.RoleHost {
		s.metrics.RecordIgnored("not_host")
		log.Debugf("session: dropped next from %s role %s", f.Sender, f.Role)
		return
	}

	a, ok := s.actorFor(msg.SessionID())
	if !ok {
		log.Debugf("session: dropped %s for %s after shutdown", msg.Kind(), msg.SessionID())
		return
	}
	if !a.enqueue(msg) {
		s.metrics.RecordIgnored("inbox_full")
		log.Warnf("session %s: inbox full, dropped %s", msg.SessionID(), msg.Kind())
	}
}

// actorFor returns the running session, starting a fresh game on first use.
// It reports false once Run has stopped.
func (s *SessionService) actorFor(session string) (*sessionActor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false
	}
	if a, ok := s.sessions.Get(session); ok {
		return a, true
	}
	a := newSessionActor(s, game.NewMachine(session, game.WithRules(s.cfg.Rules)))
	s.sessions.Add(session, a)
	s.metrics.SetSessions(s.sessions.Len())
	log.Infof("session %s started", session)

	st := a.machine.State()
	s.send(models.StateUpdate{Session: session, A: st.A, B: st.B})
	go a.run()
	return a, true
}

func (s *SessionService) send(msg models.Message) {
	data, err := models.Encode(msg)
	if err != nil {
		log.Errorf("session %s: %v", msg.SessionID(), err)
		return
	}
	s.broker.Publish(msg.SessionID(), broker.Frame{
		Sender: s.id,
		Role:   models.RoleHost,
		Data:   data,
	})
}

// Snapshot returns a copy of the session's state, read on the session's goroutine.
func (s *SessionService) Snapshot(ctx context.Context, session string) (game.State, error) {
	s.mu.Lock()
	a, ok := s.sessions.Peek(session)
	s.mu.Unlock()
	if !ok {
		return game.State{}, ErrSessionNotFound
	}
	return a.snapshot(ctx)
}

// Sessions lists the ids currently held in memory.
func (s *SessionService) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Keys()
}

// sessionActor serialises all access to one machine on a single goroutine.
type sessionActor struct {
	svc     *SessionService
	machine *game.Machine
	inbox   chan models.Message
	queries chan chan game.State
	done    chan struct{}
	once    sync.Once
}

func newSessionActor(svc *SessionService, m *game.Machine) *sessionActor {
	return &sessionActor{
		svc:     svc,
		machine: m,
		inbox:   make(chan models.Message, svc.cfg.InboxSize),
		queries: make(chan chan game.State),
		done:    make(chan struct{}),
	}
}

func (a *sessionActor) stop() {
	a.once.Do(func() { close(a.done) })
}

func (a *sessionActor) enqueue(msg models.Message) bool {
	select {
	case <-a.done:
		return false
	case a.inbox <- msg:
		return true
	default:
		return false
	}
}

func (a *sessionActor) snapshot(ctx context.Context) (game.State, error) {
	reply := make(chan game.State, 1)
	select {
	case a.queries <- reply:
	case <-a.done:
		return game.State{}, ErrSessionNotFound
	case <-ctx.Done():
		return game.State{}, ctx.Err()
	}
	select {
	case st := <-reply:
		return st, nil
	case <-ctx.Done():
		return game.State{}, ctx.Err()
	}
}

func (a *sessionActor) run() {
	timeout := a.svc.cfg.StallTimeout
	var stall *time.Timer
	var stallC <-chan time.Time
	if timeout > 0 {
		stall = time.NewTimer(timeout)
		defer stall.Stop()
		stallC = stall.C
	}

	for {
		select {
		case <-a.done:
			return
		case reply := <-a.queries:
			reply <- a.machine.State()
		case msg := <-a.inbox:
			a.handle(msg)
			if stall != nil {
				stall.Reset(timeout)
			}
		case <-stallC:
			if !a.machine.Finalized() {
				a.svc.metrics.RecordStall()
				log.Warnf("session %s: round %d waiting for input for %s",
					a.machine.Session(), a.machine.Round(), timeout)
			}
		}
	}
}

func (a *sessionActor) handle(msg models.Message) {
	m := a.machine
	round := m.Round()
	phase := m.Phase()

	out, err := m.Handle(msg)
	if err != nil {
		a.svc.metrics.RecordIgnored(ignoreReason(err))
		log.Debugf("session %s: ignored %s: %v", m.Session(), msg.Kind(), err)
		return
	}

	switch {
	case msg.Kind() == models.KindReset:
		log.Infof("session %s: reset", m.Session())
	case m.Round() != round || m.Finalized():
		a.svc.metrics.RecordRound(roundLabel(msg, phase))
		log.Infof("session %s: round %d closed", m.Session(), round)
	}
	if m.Finalized() && msg.Kind() != models.KindReset {
		a.svc.metrics.RecordGameFinalized()
		a.logSummary()
	}

	for _, o := range out {
		a.svc.send(o)
	}
}

func (a *sessionActor) logSummary() {
	for _, team := range models.Teams {
		s, ok := a.machine.Summary(team)
		if !ok {
			continue
		}
		kv := []any{"session", a.machine.Session(), "team", team}
		for _, l := range game.Levels(s) {
			kv = append(kv, l.Name, fmt.Sprintf("%.0f (%s)", l.Value, l.Level))
		}
		log.Infow("game finalized", kv...)
	}
}

func roundLabel(msg models.Message, phase game.Phase) string {
	if msg.Kind() == models.KindNext {
		return "skipped"
	}
	return string(phase)
}

func ignoreReason(err error) string {
	switch {
	case errors.Is(err, game.ErrWrongSession):
		return "wrong_session"
	case errors.Is(err, game.ErrFinalized):
		return "finalized"
	default:
		return "out_of_phase"
	}
}
