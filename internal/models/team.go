package models

import "fmt"

type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// Teams lists both sides in a stable order.
var Teams = [2]Team{TeamA, TeamB}

// Opponent returns the other side.
func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// Mode is how much a team exaggerates the argument it plays.
type Mode string

const (
	ModeHonest Mode = "honest"
	ModeMild   Mode = "mild"
	ModeStrong Mode = "strong"
)

var modeAliases = map[string]Mode{
	"honest":   ModeHonest,
	"fair":     ModeHonest,
	"ehrlich":  ModeHonest,
	"mild":     ModeMild,
	"leicht":   ModeMild,
	"strong":   ModeStrong,
	"deutlich": ModeStrong,
	"stark":    ModeStrong,
}

// UnmarshalText accepts the canonical names and the labels older clients send.
func (m *Mode) UnmarshalText(text []byte) error {
	v, ok := modeAliases[string(text)]
	if !ok {
		return fmt.Errorf("unknown mode %q", text)
	}
	*m = v
	return nil
}

// Exaggerated reports whether the mode adds a bonus.
func (m Mode) Exaggerated() bool {
	return m == ModeMild || m == ModeStrong
}

// Reaction is a team's answer to the opponent's revealed argument.
type Reaction string

const (
	ReactionAccept Reaction = "accept"
	ReactionDefer  Reaction = "defer"
	ReactionReject Reaction = "reject"
)

var reactionAliases = map[string]Reaction{
	"accept":        ReactionAccept,
	"annehmen":      ReactionAccept,
	"defer":         ReactionDefer,
	"zurückstellen": ReactionDefer,
	"reject":        ReactionReject,
	"ablehnen":      ReactionReject,
}

func (r *Reaction) UnmarshalText(text []byte) error {
	v, ok := reactionAliases[string(text)]
	if !ok {
		return fmt.Errorf("unknown reaction %q", text)
	}
	*r = v
	return nil
}

type Category string

const (
	CategoryWeak   Category = "weak"
	CategoryMedium Category = "medium"
	CategoryStrong Category = "strong"
)

// Role is the part a websocket participant plays in a session.
type Role string

const (
	RoleHost  Role = "host"
	RoleTeamA Role = "A"
	RoleTeamB Role = "B"
	RoleWatch Role = "watch"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleHost, RoleTeamA, RoleTeamB, RoleWatch:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// CanSend reports whether frames from this role are relayed.
func (r Role) CanSend() bool {
	return r != RoleWatch
}
