package game

import (
	"errors"
	"fmt"

	"github.com/latestcomment/go-negotiation-game/internal/models"
)

var (
	ErrWrongSession = errors.New("message for another session")
	ErrOutOfPhase   = errors.New("message out of phase")
	ErrFinalized    = errors.New("game already finalized")
)

// Machine is the authoritative state of one session. It is not safe for
// concurrent use; callers feed it one message at a time.
type Machine struct {
	session   string
	rules     Rules
	round     int
	finalized bool
	teamA     TeamState
	teamB     TeamState
	pending   PendingInput
	ledger    *Ledger
	summaryA  *models.Summary
	summaryB  *models.Summary
}

type Option func(*Machine)

// WithRules replaces the default ten-round schedule.
func WithRules(r Rules) Option {
	return func(m *Machine) { m.rules = r }
}

// NewMachine returns a machine at round 1 with default team states.
func NewMachine(session string, opts ...Option) *Machine {
	m := &Machine{session: session, rules: DefaultRules()}
	for _, opt := range opts {
		opt(m)
	}
	m.reinitialize()
	return m
}

func (m *Machine) reinitialize() {
	m.round = 1
	m.finalized = false
	m.teamA = initialTeam(m.rules.StartTrust)
	m.teamB = initialTeam(m.rules.StartTrust)
	m.pending = newPendingInput()
	m.ledger = newLedger(m.rules)
	m.summaryA = nil
	m.summaryB = nil
}

func (m *Machine) Session() string { return m.session }
func (m *Machine) Round() int      { return m.round }
func (m *Machine) Finalized() bool { return m.finalized }
func (m *Machine) Phase() Phase    { return m.rules.PhaseOf(m.round) }

// Team returns a copy of team's current standing.
func (m *Machine) Team(team models.Team) TeamState {
	return *m.team(team)
}

func (m *Machine) team(team models.Team) *TeamState {
	if team == models.TeamA {
		return &m.teamA
	}
	return &m.teamB
}

// Ledger returns a copy of every round record reached so far.
func (m *Machine) Ledger() []RoundRecord {
	return m.ledger.Records()
}

// Handle applies one inbound message and returns the messages to broadcast.
// Ignored messages return no output and an error describing why; the error is
// for logging only.
func (m *Machine) Handle(msg models.Message) ([]models.Message, error) {
	if msg.SessionID() != m.session {
		return nil, fmt.Errorf("%w: %q", ErrWrongSession, msg.SessionID())
	}
	if _, ok := msg.(models.Reset); ok {
		return m.Reset(), nil
	}
	if m.finalized {
		return nil, ErrFinalized
	}

	switch v := msg.(type) {
	case models.Played:
		return m.played(v)
	case models.React:
		return m.react(v)
	case models.TrustInvest:
		return m.invest(v)
	case models.Next:
		return m.advanceTo(v.Round)
	}
	return nil, fmt.Errorf("%w: %s is not an inbound message", ErrOutOfPhase, msg.Kind())
}

// Reset restores round 1 with default team states and a freshly seeded ledger.
func (m *Machine) Reset() []models.Message {
	m.reinitialize()
	return []models.Message{m.stateUpdate()}
}

func (m *Machine) played(v models.Played) ([]models.Message, error) {
	if m.Phase() != PhaseNormal {
		return nil, fmt.Errorf("%w: played during round %d (%s)", ErrOutOfPhase, m.round, m.Phase())
	}
	// A repeated submission before the round completes replaces the earlier one.
	m.pending.Played[v.Team] = Play{Base: v.Base, Mode: v.Mode}
	if !m.pending.bothPlayed() {
		return nil, nil
	}
	out := m.reveal()
	if m.pending.bothReacted() {
		out = append(out, m.closeNormalRound()...)
	}
	return out, nil
}

// reveal tells each team the category of the argument the other team played.
func (m *Machine) reveal() []models.Message {
	out := make([]models.Message, 0, 2)
	for _, team := range models.Teams {
		opp := m.pending.Played[team.Opponent()]
		out = append(out, models.Reveal{
			Session:     m.session,
			To:          team,
			OppCategory: CategoryOf(EffectiveStrength(opp.Base, opp.Mode)),
		})
	}
	return out
}

// react records a reaction even before the reveal; relayed frames arrive in
// no particular order across teams.
func (m *Machine) react(v models.React) ([]models.Message, error) {
	if m.Phase() != PhaseNormal {
		return nil, fmt.Errorf("%w: react during round %d (%s)", ErrOutOfPhase, m.round, m.Phase())
	}
	m.pending.Reacted[v.Team] = v.Reaction
	if !m.pending.bothReacted() || !m.pending.bothPlayed() {
		return nil, nil
	}
	return m.closeNormalRound(), nil
}

func (m *Machine) closeNormalRound() []models.Message {
	ApplyNormalRound(m.pending, &m.teamA, &m.teamB)
	m.ledger.closeNormal(m.round, m.pending, m.teamA, m.teamB)
	return m.advance()
}

func (m *Machine) invest(v models.TrustInvest) ([]models.Message, error) {
	if m.Phase() != PhaseTrustInvestment {
		return nil, fmt.Errorf("%w: trustInvest during round %d (%s)", ErrOutOfPhase, m.round, m.Phase())
	}
	m.pending.Invest[v.Team] = v.Amount
	if !m.pending.bothInvested() {
		return nil, nil
	}

	ApplyTrustInvestmentRound(m.pending, &m.teamA, &m.teamB)
	m.ledger.closeInvestment(m.round, m.pending, m.teamA, m.teamB)
	return m.advance(), nil
}

// advanceTo closes the current round unscored when the host asks for the next one.
func (m *Machine) advanceTo(target int) ([]models.Message, error) {
	if target != m.round+1 {
		return nil, fmt.Errorf("%w: next to round %d while in round %d", ErrOutOfPhase, target, m.round)
	}
	m.ledger.closeSkipped(m.round, m.teamA, m.teamB)
	return m.advance(), nil
}

// advance moves past a closed round: the next round is announced, or the game
// is finalized after the last one.
func (m *Machine) advance() []models.Message {
	m.pending = newPendingInput()

	if m.round >= m.rules.TotalRounds {
		m.finalize()
		return []models.Message{m.stateUpdate()}
	}

	update := m.stateUpdate()
	m.round++
	return []models.Message{update, models.Next{Session: m.session, Round: m.round}}
}

func (m *Machine) finalize() {
	m.finalized = true
	records := m.ledger.Records()
	a := Summarize(records, models.TeamA)
	b := Summarize(records, models.TeamB)
	m.summaryA = &a
	m.summaryB = &b
}

// Summary returns team's end-of-game indices once the game is finalized.
func (m *Machine) Summary(team models.Team) (models.Summary, bool) {
	s := m.summaryA
	if team == models.TeamB {
		s = m.summaryB
	}
	if s == nil {
		return models.Summary{}, false
	}
	return *s, true
}

func (m *Machine) stateUpdate() models.StateUpdate {
	return models.StateUpdate{
		Session: m.session,
		A:       m.teamA.snapshot(m.summaryA),
		B:       m.teamB.snapshot(m.summaryB),
	}
}

// State is a read-only copy of a machine for inspection.
type State struct {
	Session   string          `json:"session"`
	Round     int             `json:"round"`
	Phase     Phase           `json:"phase"`
	Finalized bool            `json:"finalized"`
	A         models.Snapshot `json:"A"`
	B         models.Snapshot `json:"B"`
	Ledger    []RoundRecord   `json:"ledger"`
}

func (m *Machine) State() State {
	update := m.stateUpdate()
	return State{
		Session:   m.session,
		Round:     m.round,
		Phase:     m.Phase(),
		Finalized: m.finalized,
		A:         update.A,
		B:         update.B,
		Ledger:    m.ledger.Records(),
	}
}
