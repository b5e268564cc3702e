package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownKind = errors.New("unknown message kind")
)

type Kind string

const (
	KindPlayed      Kind = "played"
	KindReact       Kind = "react"
	KindTrustInvest Kind = "trustInvest"
	KindNext        Kind = "next"
	KindReset       Kind = "reset"
	KindReveal      Kind = "reveal"
	KindStateUpdate Kind = "stateUpdate"
)

// Message is the closed set of frames exchanged over the relay.
// Every implementation lives in this file.
type Message interface {
	Kind() Kind
	SessionID() string
	sealed()
}

type Played struct {
	Session string `json:"session" validate:"required"`
	Team    Team   `json:"who" validate:"oneof=A B"`
	Base    int    `json:"base" validate:"min=1,max=10"`
	Mode    Mode   `json:"mode" validate:"required"`
}

type React struct {
	Session  string   `json:"session" validate:"required"`
	Team     Team     `json:"who" validate:"oneof=A B"`
	Reaction Reaction `json:"reaction" validate:"required"`
}

type TrustInvest struct {
	Session string `json:"session" validate:"required"`
	Team    Team   `json:"who" validate:"oneof=A B"`
	Amount  int    `json:"amount" validate:"min=0,max=10"`
}

// Next announces a round. Inbound from the host it asks to advance to Round.
type Next struct {
	Session string `json:"session" validate:"required"`
	Round   int    `json:"round" validate:"min=1"`
}

type Reset struct {
	Session string `json:"session" validate:"required"`
}

type Reveal struct {
	Session     string   `json:"session" validate:"required"`
	To          Team     `json:"to" validate:"oneof=A B"`
	OppCategory Category `json:"oppCategory" validate:"oneof=weak medium strong"`
}

type StateUpdate struct {
	Session string   `json:"session" validate:"required"`
	A       Snapshot `json:"A"`
	B       Snapshot `json:"B"`
}

// Snapshot is one team's public standing.
type Snapshot struct {
	Score     float64  `json:"score"`
	FairScore float64  `json:"fairScore"`
	Trust     float64  `json:"trust"`
	Summary   *Summary `json:"summary,omitempty"`
}

// Summary holds the end-of-game behavioural indices, each in [0,100].
type Summary struct {
	Cooperation float64 `json:"cooperation"`
	Fairness    float64 `json:"fairness"`
	Sensitivity float64 `json:"sensitivity"`
	Opportunism float64 `json:"opportunism"`
}

func (Played) Kind() Kind      { return KindPlayed }
func (React) Kind() Kind       { return KindReact }
func (TrustInvest) Kind() Kind { return KindTrustInvest }
func (Next) Kind() Kind        { return KindNext }
func (Reset) Kind() Kind       { return KindReset }
func (Reveal) Kind() Kind      { return KindReveal }
func (StateUpdate) Kind() Kind { return KindStateUpdate }

func (m Played) SessionID() string      { return m.Session }
func (m React) SessionID() string       { return m.Session }
func (m TrustInvest) SessionID() string { return m.Session }
func (m Next) SessionID() string        { return m.Session }
func (m Reset) SessionID() string       { return m.Session }
func (m Reveal) SessionID() string      { return m.Session }
func (m StateUpdate) SessionID() string { return m.Session }

func (Played) sealed()      {}
func (React) sealed()       {}
func (TrustInvest) sealed() {}
func (Next) sealed()        {}
func (Reset) sealed()       {}
func (Reveal) sealed()      {}
func (StateUpdate) sealed() {}

// Inbound reports whether players or the host send this kind to the game.
func Inbound(k Kind) bool {
	switch k {
	case KindPlayed, KindReact, KindTrustInvest, KindNext, KindReset:
		return true
	}
	return false
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses a tagged frame into its concrete message.
func Decode(data []byte) (Message, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var msg Message
	var err error
	switch head.Type {
	case KindPlayed:
		msg, err = decodeAs[Played](data)
	case KindReact:
		msg, err = decodeAs[React](data)
	case KindTrustInvest:
		msg, err = decodeAs[TrustInvest](data)
	case KindNext:
		msg, err = decodeAs[Next](data)
	case KindReset:
		msg, err = decodeAs[Reset](data)
	case KindReveal:
		msg, err = decodeAs[Reveal](data)
	case KindStateUpdate:
		msg, err = decodeAs[StateUpdate](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, head.Type)
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func decodeAs[T any](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := validate.Struct(v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return v, nil
}

// Encode renders a message with its type tag.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(tagged{Type: m.Kind(), Message: m})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.Kind(), err)
	}
	return data, nil
}

type tagged struct {
	Type    Kind
	Message Message
}

// MarshalJSON flattens the type tag into the message object.
func (t tagged) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(t.Message)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	kind, _ := json.Marshal(t.Type)
	fields["type"] = kind
	return json.Marshal(fields)
}
