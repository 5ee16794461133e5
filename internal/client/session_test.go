package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gravitas-games/zombies/internal/board"
	"github.com/gravitas-games/zombies/internal/hex"
	"github.com/gravitas-games/zombies/internal/network"
	"github.com/gravitas-games/zombies/internal/selection"
)

type recorder struct {
	frames []string
	err    error
}

func (r *recorder) Send(data string) error {
	if r.err != nil {
		return r.err
	}
	r.frames = append(r.frames, data)
	return nil
}

func (r *recorder) take() []string {
	out := r.frames
	r.frames = nil
	return out
}

type harness struct {
	session *Session
	sent    *recorder
	events  []Event
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{sent: &recorder{}}
	bus := NewSimpleEventBus()
	bus.Subscribe("test", func(e Event) { h.events = append(h.events, e) })
	h.session = NewSession(board.New(20, 640, 440), h.sent, bus, zaptest.NewLogger(t))
	return h
}

func (h *harness) handle(t *testing.T, frames ...string) {
	t.Helper()
	for _, f := range frames {
		require.NoError(t, h.session.HandleMessage(f), f)
	}
}

func (h *harness) eventTypes() []EventType {
	var out []EventType
	for _, e := range h.events {
		out = append(out, e.Type)
	}
	return out
}

func stackAt(t *testing.T, b *board.Board, c hex.Axial) []board.Piece {
	t.Helper()
	tile, ok := b.Tile(c)
	require.True(t, ok, "no tile at %s", c)
	return tile.Stack().Pieces()
}

func coords(b *board.Board) []hex.Axial {
	var out []hex.Axial
	for _, tile := range b.Tiles() {
		out = append(out, tile.Coord())
	}
	return out
}

func TestConfigRepliesReady(t *testing.T) {
	tests := []struct {
		mode     network.Mode
		controls Controls
	}{
		{network.ModeHumanVsHuman, Controls{Playing: true}},
		{network.ModeAIVsHuman, Controls{Playing: true}},
		{network.ModeReplay, Controls{PlayPause: true, Playing: true}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			h := newHarness(t)
			h.handle(t, "CONFIG\n"+string(tt.mode))

			assert.Equal(t, []string{"READY\n" + string(tt.mode)}, h.sent.take())
			mode, ok := h.session.Mode()
			assert.True(t, ok)
			assert.Equal(t, tt.mode, mode)
			assert.Equal(t, tt.controls, h.session.Controls())
			assert.Equal(t, []EventType{EventConfigured}, h.eventTypes())
		})
	}
}

func TestConfigModeMismatchIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sent := &recorder{}
	s := NewSession(board.New(20, 640, 440), sent, nil, zap.New(core))
	s.ExpectMode(network.ModeHumanVsAI)

	require.NoError(t, s.HandleMessage("CONFIG\nreplay"))
	assert.Equal(t, []string{"READY\nreplay"}, sent.take())
	mode, _ := s.Mode()
	assert.Equal(t, network.ModeReplay, mode)

	entries := logs.FilterMessage("Server mode differs from configured mode").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "human vs ai", entries[0].ContextMap()["expected"])
	assert.Equal(t, "replay", entries[0].ContextMap()["mode"])

	require.NoError(t, s.HandleMessage("CONFIG\nhuman vs ai"))
	assert.Equal(t, 1, logs.FilterMessage("Server mode differs from configured mode").Len())
}

func TestPlacementCommitScenario(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "ACTIONS\n1\n0\nP 1 1 0 0\n")

	h.session.SelectPiece(board.Player1, board.Necromancer)
	assert.Equal(t, []hex.Axial{hex.Origin}, h.session.Targets())
	require.NoError(t, h.session.ClickTile(hex.Origin))

	assert.Equal(t, []string{"MOVE\nP\n1\n0\n0\n0"}, h.sent.take())
	assert.Equal(t, selection.State{}, h.session.Selection())
	kinds, origins := h.session.Selectable()
	assert.Empty(t, kinds)
	assert.Empty(t, origins)

	b := h.session.Board()
	assert.Equal(t, []board.Piece{{Owner: board.Player1, Kind: board.Necromancer}}, stackAt(t, b, hex.Origin))
	assert.Equal(t, 7, b.Len())
	for _, n := range hex.Origin.Neighbors() {
		tile, ok := b.Tile(n)
		require.True(t, ok)
		assert.True(t, tile.Empty())
	}
	assert.Equal(t, 0, h.session.Remaining(board.Player1, board.Necromancer))

	// The server echoes the action back; it must not be applied twice.
	h.handle(t, "PLAY\n1\n0\nP\n1 1\n0 0")
	assert.Equal(t, []string{"ACKNOWLEDGEMENT"}, h.sent.take())
	assert.Equal(t, 7, b.Len())
	assert.Len(t, stackAt(t, b, hex.Origin), 1)
	assert.Equal(t, 0, h.session.Remaining(board.Player1, board.Necromancer))

	player, step := h.session.Turn()
	assert.Equal(t, board.Player2, player)
	assert.Equal(t, 2, step)
	assert.Equal(t, []EventType{EventActionsGranted, EventActionCommitted, EventActionPlayed}, h.eventTypes())
}

func TestNoSecondCommitBeforeNextGrant(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "ACTIONS\n1\n0\nP 3 3 0 0\nP 3 3 1 0")

	h.session.SelectPiece(board.Player1, board.Jumper)
	require.NoError(t, h.session.ClickTile(hex.Origin))
	require.Len(t, h.sent.take(), 1)

	h.session.SelectPiece(board.Player1, board.Jumper)
	require.NoError(t, h.session.ClickTile(hex.Axial{Q: 1, R: 0}))
	require.NoError(t, h.session.Skip())
	assert.Empty(t, h.sent.take())
	assert.Equal(t, 2, h.session.Remaining(board.Player1, board.Jumper))
}

// seedMoveBoard leaves a Player 1 Necromancer on (1,0) and a Player 2
// Hugger on (0,0).
func seedMoveBoard(t *testing.T, h *harness) {
	t.Helper()
	h.handle(t,
		"PLAY\n1\n0\nP\n1 1\n1 0",
		"PLAY\n-1\n1\nP\n-2 2\n0 0",
	)
	h.sent.take()
	h.events = nil
}

func TestPlayMoveStacksOntoNecromancer(t *testing.T) {
	h := newHarness(t)
	seedMoveBoard(t, h)
	b := h.session.Board()
	necromancer := board.Piece{Owner: board.Player1, Kind: board.Necromancer}
	hugger := board.Piece{Owner: board.Player2, Kind: board.Hugger}
	before := coords(b)

	h.handle(t, "PLAY\n-1\n2\nM\n0 0\n1 0")
	assert.Equal(t, []string{"ACKNOWLEDGEMENT"}, h.sent.take())
	assert.Equal(t, []board.Piece{necromancer, hugger}, stackAt(t, b, hex.Axial{Q: 1, R: 0}))
	assert.Empty(t, stackAt(t, b, hex.Origin))
	for _, gone := range []hex.Axial{{Q: -1, R: 0}, {Q: 0, R: -1}, {Q: -1, R: 1}} {
		assert.False(t, b.Has(gone), "isolated tile %s kept", gone)
	}

	h.handle(t, "PREVIOUS\n-1\n2\nM\n0 0\n1 0")
	assert.Empty(t, h.sent.take())
	assert.Equal(t, []board.Piece{necromancer}, stackAt(t, b, hex.Axial{Q: 1, R: 0}))
	assert.Equal(t, []board.Piece{hugger}, stackAt(t, b, hex.Origin))
	assert.Equal(t, before, coords(b))

	player, step := h.session.Turn()
	assert.Equal(t, board.Player2, player)
	assert.Equal(t, 3, step)
	assert.Equal(t, []EventType{EventActionPlayed, EventActionUndone}, h.eventTypes())
}

func TestPreviousPlacementRestoresReserve(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "PLAY\n1\n0\nP\n5 3\n0 0")
	b := h.session.Board()
	require.Equal(t, 7, b.Len())
	require.Equal(t, 2, h.session.Remaining(board.Player1, board.Sprinter))

	h.handle(t, "PREVIOUS\n1\n0\nP\n5 3\n0 0")
	assert.Equal(t, 3, h.session.Remaining(board.Player1, board.Sprinter))
	assert.Equal(t, []hex.Axial{hex.Origin}, coords(b))
	assert.Empty(t, stackAt(t, b, hex.Origin))

	player, step := h.session.Turn()
	assert.Equal(t, board.Player1, player)
	assert.Equal(t, 1, step)
}

func TestDesyncLeavesBoardUntouched(t *testing.T) {
	h := newHarness(t)
	seedMoveBoard(t, h)
	b := h.session.Board()
	before := coords(b)
	player, step := h.session.Turn()

	err := h.session.HandleMessage("PLAY\n1\n2\nM\n5 5\n0 0")
	assert.ErrorIs(t, err, ErrDesync)
	assert.ErrorIs(t, err, board.ErrTileNotFound)
	assert.Equal(t, []string{"ACKNOWLEDGEMENT"}, h.sent.take())
	assert.Equal(t, before, coords(b))

	err = h.session.HandleMessage("PREVIOUS\n1\n2\nP\n3 2\n2 0")
	assert.ErrorIs(t, err, ErrDesync)

	p, s := h.session.Turn()
	assert.Equal(t, player, p)
	assert.Equal(t, step, s)
	assert.Equal(t, []EventType{EventDesync, EventDesync}, h.eventTypes())
}

func TestPlacingOntoOccupiedTileIsDesync(t *testing.T) {
	h := newHarness(t)
	seedMoveBoard(t, h)

	err := h.session.HandleMessage("PLAY\n1\n2\nP\n3 3\n0 0")
	assert.ErrorIs(t, err, board.ErrTileOccupied)
	assert.Equal(t, 3, h.session.Remaining(board.Player1, board.Jumper))
}

func TestMalformedFrameIsIgnored(t *testing.T) {
	h := newHarness(t)
	for _, frame := range []string{"PLAY\n1", "HELLO", "ACTIONS\n1\n0\nQ 0 0 0 0"} {
		err := h.session.HandleMessage(frame)
		assert.Error(t, err, frame)
	}
	assert.Empty(t, h.sent.take())
	assert.Empty(t, h.events)
	assert.Equal(t, 1, h.session.Board().Len())
}

func TestServerPlaysDifferentActionThanCommitted(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "ACTIONS\n1\n0\nP 2 2 0 0")
	h.session.SelectPiece(board.Player1, board.Hugger)
	require.NoError(t, h.session.ClickTile(hex.Origin))
	h.sent.take()

	h.handle(t, "PLAY\n1\n0\nP\n2 2\n1 0")
	b := h.session.Board()
	assert.Empty(t, stackAt(t, b, hex.Origin))
	assert.Len(t, stackAt(t, b, hex.Axial{Q: 1, R: 0}), 1)
	assert.Equal(t, 1, h.session.Remaining(board.Player1, board.Hugger))
}

func TestSkipGrant(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "ACTIONS\n-1\n5\nS 0 0 0 0")
	assert.True(t, h.session.MustSkip())
	_, sub := h.session.Status()
	assert.Equal(t, "You have to skip your turn.", sub)

	require.NoError(t, h.session.Skip())
	assert.Equal(t, []string{"MOVE\nS\n0\n0\n0\n0"}, h.sent.take())
	assert.False(t, h.session.MustSkip())

	h.handle(t, "PLAY\n-1\n5\nS\n0 0\n0 0")
	status, sub := h.session.Status()
	assert.Equal(t, "Step 7: Player 1's turn", status)
	assert.Equal(t, "Player 2 skips the turn.", sub)
}

func TestReplayControls(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "CONFIG\nreplay")
	h.sent.take()

	// Stepping is disabled while the replay runs.
	require.NoError(t, h.session.Next())
	require.NoError(t, h.session.Previous())
	assert.Empty(t, h.sent.take())

	require.NoError(t, h.session.TogglePlayPause())
	assert.Equal(t, []string{"PAUSE"}, h.sent.take())
	assert.Equal(t, Controls{PlayPause: true, Next: true}, h.session.Controls())

	require.NoError(t, h.session.Next())
	assert.Equal(t, []string{"NEXT"}, h.sent.take())

	h.handle(t, "PLAY\n1\n0\nP\n1 1\n0 0")
	assert.True(t, h.session.Controls().Previous)
	h.sent.take()

	require.NoError(t, h.session.Previous())
	assert.Equal(t, []string{"PREVIOUS"}, h.sent.take())
	h.handle(t, "PREVIOUS\n1\n0\nP\n1 1\n0 0")
	assert.Equal(t, Controls{PlayPause: true, Next: true}, h.session.Controls())

	require.NoError(t, h.session.TogglePlayPause())
	assert.Equal(t, []string{"PLAY"}, h.sent.take())
	assert.Equal(t, Controls{PlayPause: true, Playing: true}, h.session.Controls())
}

func TestReplayStepsBackToFirstAction(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "CONFIG\nreplay")
	require.NoError(t, h.session.TogglePlayPause())
	h.handle(t,
		"PLAY\n1\n0\nP\n1 1\n0 0",
		"PLAY\n-1\n1\nP\n-2 2\n1 0",
	)
	h.sent.take()
	b := h.session.Board()

	require.NoError(t, h.session.Previous())
	assert.Equal(t, []string{"PREVIOUS"}, h.sent.take())
	h.handle(t, "PREVIOUS\n-1\n1\nP\n-2 2\n1 0")
	assert.Equal(t, 2, h.session.Remaining(board.Player2, board.Hugger))
	assert.Empty(t, stackAt(t, b, hex.Axial{Q: 1, R: 0}))
	assert.Len(t, stackAt(t, b, hex.Origin), 1)
	player, step := h.session.Turn()
	assert.Equal(t, board.Player2, player)
	assert.Equal(t, 2, step)
	assert.Equal(t, Controls{PlayPause: true, Next: true, Previous: true}, h.session.Controls())

	// The first action is still on the board and can be taken back too.
	require.NoError(t, h.session.Previous())
	assert.Equal(t, []string{"PREVIOUS"}, h.sent.take())
	h.handle(t, "PREVIOUS\n1\n0\nP\n1 1\n0 0")
	assert.Equal(t, 1, h.session.Remaining(board.Player1, board.Necromancer))
	assert.Equal(t, []hex.Axial{hex.Origin}, coords(b))
	_, step = h.session.Turn()
	assert.Equal(t, 1, step)
	assert.Equal(t, Controls{PlayPause: true, Next: true}, h.session.Controls())

	require.NoError(t, h.session.Previous())
	assert.Empty(t, h.sent.take())
}

func TestPauseAfterFirstActionAllowsStepBack(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "CONFIG\nreplay", "PLAY\n1\n0\nP\n1 1\n0 0")
	assert.False(t, h.session.Controls().Previous)
	h.sent.take()

	require.NoError(t, h.session.TogglePlayPause())
	assert.Equal(t, []string{"PAUSE"}, h.sent.take())
	assert.Equal(t, Controls{PlayPause: true, Next: true, Previous: true}, h.session.Controls())
}

func TestFinishedFreezesPlay(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "CONFIG\nhuman vs human", "ACTIONS\n1\n0\nP 1 1 0 0")
	h.sent.take()

	h.handle(t, "FINISHED\nPlayer 2 has won after 30 steps.\nNecromancer surrounded")
	assert.True(t, h.session.Finished())
	assert.Equal(t, Controls{Previous: true}, h.session.Controls())
	status, sub := h.session.Status()
	assert.Equal(t, "Player 2 has won after 30 steps.", status)
	assert.Equal(t, "Necromancer surrounded", sub)

	h.session.SelectPiece(board.Player1, board.Necromancer)
	require.NoError(t, h.session.ClickTile(hex.Origin))
	require.NoError(t, h.session.TogglePlayPause())
	require.NoError(t, h.session.Next())
	assert.Empty(t, h.sent.take())
	assert.Equal(t, selection.State{}, h.session.Selection())
}

func TestPlayWithFinishedTrailer(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "CONFIG\nreplay")
	h.sent.take()

	h.handle(t, "PLAY\n1\n0\nP\n1 1\n0 0\nDraw game after 1 steps.\n")
	assert.Equal(t, []string{"ACKNOWLEDGEMENT"}, h.sent.take())
	assert.True(t, h.session.Finished())
	status, _ := h.session.Status()
	assert.Equal(t, "Draw game after 1 steps.", status)
	assert.Equal(t, []EventType{EventConfigured, EventActionPlayed, EventFinished}, h.eventTypes())
}

func TestSendFailureIsReturned(t *testing.T) {
	h := newHarness(t)
	h.sent.err = errors.New("broken pipe")
	err := h.session.HandleMessage("CONFIG\nai vs ai")
	assert.EqualError(t, err, "broken pipe")
}

func TestSelectionHints(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "ACTIONS\n1\n2\nM 0 0 1 0")
	status, sub := h.session.Status()
	assert.Equal(t, "Step 3: Player 1's turn", status)
	assert.Equal(t, "Click on a tile to select it.", sub)

	require.NoError(t, h.session.ClickTile(hex.Origin))
	_, sub = h.session.Status()
	assert.Equal(t, "Click on a highlighted tile to perform your move.", sub)
	assert.Equal(t, []hex.Axial{{Q: 1, R: 0}}, h.session.Targets())

	// Another player's piece cannot be selected.
	require.NoError(t, h.session.ClickTile(hex.Origin))
	h.session.SelectPiece(board.Player2, board.Hugger)
	assert.Equal(t, selection.Idle, h.session.Selection().Mode)
}
