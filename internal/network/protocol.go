// Package network implements the newline-delimited text protocol spoken with
// the game server. Every frame starts with a message-kind line followed by
// positional fields, one per line.
package network

import (
	"errors"
	"strings"

	"github.com/gravitas-games/zombies/internal/actions"
	"github.com/gravitas-games/zombies/internal/board"
	"github.com/gravitas-games/zombies/internal/hex"
)

// Message kinds - Server → Client
const (
	MsgTypeConfig   = "CONFIG"
	MsgTypePlay     = "PLAY"
	MsgTypePrevious = "PREVIOUS"
	MsgTypeFinished = "FINISHED"
	MsgTypeActions  = "ACTIONS"
)

// Message kinds - Client → Server
const (
	MsgTypeReady           = "READY"
	MsgTypeMove            = "MOVE"
	MsgTypeAcknowledgement = "ACKNOWLEDGEMENT"
	MsgTypePause           = "PAUSE"
	MsgTypeResume          = "PLAY"
	MsgTypeNext            = "NEXT"
	MsgTypeStepBack        = "PREVIOUS"
)

var (
	// ErrUnknownKind is returned for frames whose first line is not a known
	// server message kind.
	ErrUnknownKind = errors.New("unknown message kind")
	// ErrMalformed is returned when the fields of a known kind do not parse.
	ErrMalformed = errors.New("malformed message")
)

// Mode is the session configuration announced by the server.
type Mode string

const (
	ModeHumanVsHuman Mode = "human vs human"
	ModeHumanVsAI    Mode = "human vs ai"
	ModeAIVsHuman    Mode = "ai vs human"
	ModeAIVsAI       Mode = "ai vs ai"
	ModeReplay       Mode = "replay"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeHumanVsHuman, ModeHumanVsAI, ModeAIVsHuman, ModeAIVsAI, ModeReplay:
		return true
	}
	return false
}

// Message is any decoded server frame.
type Message interface {
	MsgKind() string
}

// ConfigMessage sets the session mode.
type ConfigMessage struct {
	Mode Mode
}

// PlayMessage reports an action played at Step. Quantity is the reserve
// count the server saw before a placement. Finished is set when the
// action ended the game.
type PlayMessage struct {
	Step     int
	Action   actions.Action
	Quantity int
	Finished *FinishedMessage
}

// PreviousMessage takes back the action played at Step. The server sends
// the inverse positions: the top piece of From goes back to To for a move,
// and the tile at From is emptied for a placement.
type PreviousMessage struct {
	Player   board.Owner
	Step     int
	Type     actions.Type
	Kind     board.PieceKind
	Quantity int
	From     hex.Axial
	To       hex.Axial
}

// FinishedMessage ends the game.
type FinishedMessage struct {
	Status    string
	Substatus string
}

// Grant is one legal action offered by the server.
type Grant struct {
	Type     actions.Type
	Kind     board.PieceKind
	Quantity int
	From     hex.Axial
	To       hex.Axial
}

// ActionsMessage lists everything Player may do at Step.
type ActionsMessage struct {
	Player board.Owner
	Step   int
	Grants []Grant
}

func (ConfigMessage) MsgKind() string   { return MsgTypeConfig }
func (PlayMessage) MsgKind() string     { return MsgTypePlay }
func (PreviousMessage) MsgKind() string { return MsgTypePrevious }
func (FinishedMessage) MsgKind() string { return MsgTypeFinished }
func (ActionsMessage) MsgKind() string  { return MsgTypeActions }

// frame joins a kind and its fields into one wire message.
func frame(kind string, fields ...string) string {
	if len(fields) == 0 {
		return kind
	}
	return kind + "\n" + strings.Join(fields, "\n")
}
