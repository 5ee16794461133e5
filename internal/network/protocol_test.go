package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitas-games/zombies/internal/actions"
	"github.com/gravitas-games/zombies/internal/board"
	"github.com/gravitas-games/zombies/internal/hex"
)

func TestDecodeConfig(t *testing.T) {
	msg, err := Decode("CONFIG\nhuman vs ai\n")
	require.NoError(t, err)
	assert.Equal(t, ConfigMessage{Mode: ModeHumanVsAI}, msg)

	_, err = Decode("CONFIG\nrobot vs robot")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodePlayPlacement(t *testing.T) {
	msg, err := Decode("PLAY\n1\n1\nP\n1 1\n0 0")
	require.NoError(t, err)

	play, ok := msg.(PlayMessage)
	require.True(t, ok)
	assert.Equal(t, 1, play.Step)
	assert.Equal(t, 1, play.Quantity)
	assert.Equal(t, actions.Action{
		Type:  actions.Place,
		Owner: board.Player1,
		Kind:  board.Necromancer,
		To:    hex.Origin,
	}, play.Action)
	assert.Nil(t, play.Finished)
}

func TestDecodePlayMoveByPlayer2(t *testing.T) {
	msg, err := Decode("PLAY\n-1\n4\nM\n0 1\n0 0")
	require.NoError(t, err)

	play := msg.(PlayMessage)
	assert.Equal(t, board.Player2, play.Action.Owner)
	assert.Equal(t, actions.Move, play.Action.Type)
	assert.Equal(t, hex.Axial{Q: 0, R: 1}, play.Action.From)
	assert.Equal(t, hex.Origin, play.Action.To)
}

func TestDecodePlayWithFinishedTrailer(t *testing.T) {
	msg, err := Decode("PLAY\n1\n9\nM\n1 0\n1 -1\nPlayer 1 has won after 9 steps.\nNecromancer surrounded\n")
	require.NoError(t, err)

	play := msg.(PlayMessage)
	require.NotNil(t, play.Finished)
	assert.Equal(t, "Player 1 has won after 9 steps.", play.Finished.Status)
	assert.Equal(t, "Necromancer surrounded", play.Finished.Substatus)
}

func TestDecodePreviousSwapsPositions(t *testing.T) {
	msg, err := Decode("PREVIOUS\n-1\n2\nM\n0 1\n1 0")
	require.NoError(t, err)

	prev := msg.(PreviousMessage)
	assert.Equal(t, board.Player2, prev.Player)
	assert.Equal(t, 2, prev.Step)
	assert.Equal(t, hex.Axial{Q: 1, R: 0}, prev.From)
	assert.Equal(t, hex.Axial{Q: 0, R: 1}, prev.To)

	msg, err = Decode("PREVIOUS\n1\n1\nP\n3 2\n0 0")
	require.NoError(t, err)
	prev = msg.(PreviousMessage)
	assert.Equal(t, actions.Place, prev.Type)
	assert.Equal(t, board.Jumper, prev.Kind)
	assert.Equal(t, hex.Origin, prev.From)
}

func TestDecodeFinished(t *testing.T) {
	msg, err := Decode("FINISHED\nDraw after 40 steps.")
	require.NoError(t, err)
	assert.Equal(t, FinishedMessage{Status: "Draw after 40 steps."}, msg)
}

func TestDecodedMessageKind(t *testing.T) {
	frames := map[string]string{
		MsgTypeConfig:   "CONFIG\nreplay",
		MsgTypePlay:     "PLAY\n1\n0\nS\n0 0\n0 0",
		MsgTypePrevious: "PREVIOUS\n-1\n3\nP\n-2 2\n1 0",
		MsgTypeFinished: "FINISHED\nDraw after 40 steps.",
		MsgTypeActions:  "ACTIONS\n1\n0\nS 0 0 0 0",
	}
	for kind, data := range frames {
		t.Run(kind, func(t *testing.T) {
			msg, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, kind, msg.MsgKind())
		})
	}

	// The piece kind of an undone placement is a plain field.
	msg, err := Decode(frames[MsgTypePrevious])
	require.NoError(t, err)
	assert.Equal(t, board.Hugger, msg.(PreviousMessage).Kind)
}

func TestDecodeActions(t *testing.T) {
	msg, err := Decode("ACTIONS\n-1\n2\nP -2 2 1 0\nP -2 2 0 1\nM 0 0 1 -1\n")
	require.NoError(t, err)

	am := msg.(ActionsMessage)
	assert.Equal(t, board.Player2, am.Player)
	assert.Equal(t, 2, am.Step)
	require.Len(t, am.Grants, 3)
	assert.Equal(t, Grant{Type: actions.Place, Kind: board.Hugger, Quantity: 2, To: hex.Axial{Q: 1, R: 0}}, am.Grants[0])
	assert.Equal(t, Grant{Type: actions.Move, From: hex.Origin, To: hex.Axial{Q: 1, R: -1}}, am.Grants[2])

	msg, err = Decode("ACTIONS\n1\n7\nS 0 0 0 0")
	require.NoError(t, err)
	assert.Equal(t, []Grant{{Type: actions.Skip}}, msg.(ActionsMessage).Grants)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  error
	}{
		{"unknown kind", "HELLO\n1", ErrUnknownKind},
		{"empty frame", "", ErrUnknownKind},
		{"short play", "PLAY\n1\n1\nP", ErrMalformed},
		{"bad player", "PLAY\n2\n1\nP\n1 1\n0 0", ErrMalformed},
		{"bad step", "PLAY\n1\nx\nP\n1 1\n0 0", ErrMalformed},
		{"bad action type", "PLAY\n1\n1\nX\n1 1\n0 0", ErrMalformed},
		{"bad pair", "PLAY\n1\n1\nM\n1\n0 0", ErrMalformed},
		{"bad kind", "PLAY\n1\n1\nP\n9 1\n0 0", ErrMalformed},
		{"bad grant", "ACTIONS\n1\n1\nM 0 0 1", ErrMalformed},
		{"finished without status", "FINISHED", ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.frame)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "READY\nreplay", EncodeReady(ModeReplay))
	assert.Equal(t, "ACKNOWLEDGEMENT", EncodeAcknowledgement())
	assert.Equal(t, "PAUSE", EncodeControl(MsgTypePause))

	place := actions.Action{Type: actions.Place, Owner: board.Player2, Kind: board.Creeper, To: hex.Axial{Q: -1, R: 2}}
	assert.Equal(t, "MOVE\nP\n-4\n1\n-1\n2", EncodeMove(place, 1))

	move := actions.Action{Type: actions.Move, Owner: board.Player1, From: hex.Origin, To: hex.Axial{Q: 1, R: -1}}
	assert.Equal(t, "MOVE\nM\n0\n0\n1\n-1", EncodeMove(move, 0))

	assert.Equal(t, "MOVE\nS\n0\n0\n0\n0", EncodeMove(actions.Action{Type: actions.Skip}, 0))
}
