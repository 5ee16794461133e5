package network

import (
	"strconv"

	"github.com/gravitas-games/zombies/internal/actions"
)

// EncodeReady answers a CONFIG frame.
func EncodeReady(mode Mode) string {
	return frame(MsgTypeReady, string(mode))
}

// EncodeAcknowledgement answers a PLAY frame.
func EncodeAcknowledgement() string {
	return frame(MsgTypeAcknowledgement)
}

// EncodeControl builds a standalone stepping control: PAUSE, PLAY, NEXT or
// PREVIOUS.
func EncodeControl(kind string) string {
	return frame(kind)
}

// EncodeMove serialises a committed action. For a placement, remaining is the
// reserve count of the placed kind once the piece has left the reserve.
func EncodeMove(a actions.Action, remaining int) string {
	switch a.Type {
	case actions.Place:
		return frame(MsgTypeMove, string(actions.Place),
			itoa(a.Kind.Signed(a.Owner)), itoa(remaining),
			itoa(a.To.Q), itoa(a.To.R))
	case actions.Move:
		return frame(MsgTypeMove, string(actions.Move),
			itoa(a.From.Q), itoa(a.From.R),
			itoa(a.To.Q), itoa(a.To.R))
	}
	return frame(MsgTypeMove, string(actions.Skip), "0", "0", "0", "0")
}

func itoa(v int) string { return strconv.Itoa(v) }
