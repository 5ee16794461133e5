// Package client holds the game session: it applies server frames to the
// board, turns player input into committed actions and drives the replay
// controls.
package client

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gravitas-games/zombies/internal/actions"
	"github.com/gravitas-games/zombies/internal/board"
	"github.com/gravitas-games/zombies/internal/hex"
	"github.com/gravitas-games/zombies/internal/network"
	"github.com/gravitas-games/zombies/internal/selection"
)

// ErrDesync is returned when a server frame cannot be applied to the local
// board. The board is left untouched.
var ErrDesync = errors.New("board out of sync with server")

// Sender delivers one frame to the server.
type Sender interface {
	Send(data string) error
}

// Controls is the state of the replay stepping buttons.
type Controls struct {
	PlayPause bool // play/pause button enabled
	Next      bool
	Previous  bool
	Playing   bool // server is auto-advancing
}

// Session owns the board, the turn state, the action catalog and the
// selection. Every method must be called from the same goroutine.
type Session struct {
	logger *zap.Logger
	sender Sender
	bus    EventBus

	board     *board.Board
	turn      *board.TurnState
	catalog   *actions.Catalog
	selection *selection.Machine

	mode       network.Mode
	expected   network.Mode
	configured bool
	finished   bool
	// pending is the committed action not yet echoed back by the server.
	pending *actions.Action

	controls  Controls
	status    string
	substatus string
}

// NewSession creates a session over b. A nil bus is replaced by a
// NullEventBus.
func NewSession(b *board.Board, sender Sender, bus EventBus, logger *zap.Logger) *Session {
	if bus == nil {
		bus = NewNullEventBus()
	}
	catalog := actions.NewCatalog()
	s := &Session{
		logger:    logger.Named("session"),
		sender:    sender,
		bus:       bus,
		board:     b,
		turn:      board.NewTurnState(),
		catalog:   catalog,
		selection: selection.New(catalog),
		controls:  Controls{Playing: true},
	}
	s.status = stepStatus(s.turn.Step, s.turn.Current)
	return s
}

// HandleMessage decodes and applies one server frame. A frame that fails to
// decode or to apply leaves the session unchanged and the error is returned.
func (s *Session) HandleMessage(data string) error {
	msg, err := network.Decode(data)
	if err != nil {
		return err
	}

	switch m := msg.(type) {
	case network.ConfigMessage:
		return s.handleConfig(m)
	case network.PlayMessage:
		return s.handlePlay(m)
	case network.PreviousMessage:
		return s.handlePrevious(m)
	case network.FinishedMessage:
		s.finish(m)
	case network.ActionsMessage:
		s.handleActions(m)
	}
	return nil
}

// ExpectMode sets the mode this client was started for. A CONFIG naming
// another mode is still followed, with a warning.
func (s *Session) ExpectMode(m network.Mode) { s.expected = m }

func (s *Session) handleConfig(m network.ConfigMessage) error {
	if s.expected != "" && s.expected != m.Mode {
		s.logger.Warn("Server mode differs from configured mode",
			zap.String("expected", string(s.expected)),
			zap.String("mode", string(m.Mode)))
	}
	s.mode = m.Mode
	s.configured = true
	if m.Mode == network.ModeReplay {
		s.controls = Controls{PlayPause: true, Playing: s.controls.Playing}
	} else {
		s.controls = Controls{Playing: s.controls.Playing}
	}

	s.logger.Info("Session configured", zap.String("mode", string(m.Mode)))
	s.publish(Event{Type: EventConfigured, Data: map[string]any{"mode": string(m.Mode)}})
	return s.send(network.EncodeReady(m.Mode))
}

func (s *Session) handlePlay(m network.PlayMessage) error {
	a := m.Action
	var applyErr error
	if p := s.pending; p != nil {
		s.pending = nil
		if *p != a {
			s.logger.Warn("Server played a different action than committed",
				zap.Stringer("committed", *p),
				zap.Stringer("played", a))
			s.revert(*p)
			applyErr = s.apply(a)
		}
	} else {
		applyErr = s.apply(a)
	}

	if applyErr != nil {
		err := s.desync(applyErr, a)
		if ackErr := s.send(network.EncodeAcknowledgement()); ackErr != nil {
			return errors.Join(err, ackErr)
		}
		return err
	}

	s.turn.Played(a.Owner, m.Step)
	if !s.controls.Playing {
		s.controls.Previous = true
	}
	s.status = stepStatus(s.turn.Step, s.turn.Current)
	s.substatus = ""
	if a.Type == actions.Skip {
		s.substatus = fmt.Sprintf("%s skips the turn.", a.Owner)
	}

	s.logger.Debug("Action played", zap.Int("step", m.Step), zap.Stringer("action", a))
	s.publish(Event{Type: EventActionPlayed, Action: &a})
	if m.Finished != nil {
		s.finish(*m.Finished)
	}
	return s.send(network.EncodeAcknowledgement())
}

// apply performs a in full or not at all.
func (s *Session) apply(a actions.Action) error {
	switch a.Type {
	case actions.Place:
		if s.turn.Remaining(a.Owner, a.Kind) == 0 {
			return fmt.Errorf("%w: %s has no %s", board.ErrReserveEmpty, a.Owner, a.Kind)
		}
		if err := s.board.Place(a.To, board.Piece{Owner: a.Owner, Kind: a.Kind}); err != nil {
			return err
		}
		return s.turn.Take(a.Owner, a.Kind)
	case actions.Move:
		_, err := s.board.MoveTop(a.From, a.To)
		return err
	}
	return nil
}

// revert takes back a locally applied action.
func (s *Session) revert(a actions.Action) {
	var err error
	switch a.Type {
	case actions.Place:
		if err = s.board.Unplace(a.To); err == nil {
			err = s.turn.Restore(a.Owner, a.Kind)
		}
	case actions.Move:
		_, err = s.board.MoveTop(a.To, a.From)
	}
	if err != nil {
		s.logger.Error("Failed to revert committed action", zap.Stringer("action", a), zap.Error(err))
	}
}

func (s *Session) handlePrevious(m network.PreviousMessage) error {
	if err := s.undo(m); err != nil {
		return s.desync(err, actions.Action{Type: m.Type, Owner: m.Player, Kind: m.Kind, From: m.From, To: m.To})
	}

	s.catalog.Clear()
	s.selection.Reset()
	s.pending = nil

	s.turn.Undone(m.Player, m.Step)
	if s.turn.Step <= 1 {
		s.controls.Previous = false
	}
	s.controls.PlayPause = true
	s.controls.Next = true
	s.status = stepStatus(s.turn.Step, s.turn.Current)
	s.substatus = ""

	s.logger.Debug("Action undone", zap.Int("step", m.Step), zap.String("type", string(m.Type)))
	s.publish(Event{Type: EventActionUndone, Data: map[string]any{
		"type": string(m.Type),
		"from": m.From.String(),
		"to":   m.To.String(),
	}})
	return nil
}

// undo applies the inverse sent by the server: From is the tile to empty or
// the tile whose top piece goes back to To.
func (s *Session) undo(m network.PreviousMessage) error {
	switch m.Type {
	case actions.Place:
		t, ok := s.board.Tile(m.From)
		if !ok {
			return fmt.Errorf("%w: unplace at %s", board.ErrTileNotFound, m.From)
		}
		if t.Empty() {
			return fmt.Errorf("%w: unplace at %s", board.ErrTileEmpty, m.From)
		}
		if s.turn.Remaining(m.Player, m.Kind) >= board.StartingQuantity[m.Kind] {
			return fmt.Errorf("%w: %s already holds every %s", board.ErrReserveFull, m.Player, m.Kind)
		}
		if err := s.board.Unplace(m.From); err != nil {
			return err
		}
		return s.turn.Restore(m.Player, m.Kind)
	case actions.Move:
		_, err := s.board.MoveTop(m.From, m.To)
		return err
	}
	return nil
}

func (s *Session) handleActions(m network.ActionsMessage) {
	s.catalog.Clear()
	s.selection.Reset()
	s.pending = nil

	for _, g := range m.Grants {
		switch g.Type {
		case actions.Place:
			s.catalog.GrantPlacement(g.Kind, g.To)
		case actions.Move:
			s.catalog.GrantMove(g.From, g.To)
		case actions.Skip:
			s.catalog.GrantSkip()
		}
	}
	s.turn.Granted(m.Player, m.Step)

	s.status = stepStatus(s.turn.Step, s.turn.Current)
	s.substatus = "Click on a tile to select it."
	if s.catalog.MustSkip() {
		s.substatus = "You have to skip your turn."
	}

	s.logger.Debug("Actions granted",
		zap.Stringer("player", m.Player),
		zap.Int("step", m.Step),
		zap.Int("grants", len(m.Grants)))
	s.publish(Event{Type: EventActionsGranted, Data: map[string]any{
		"grants":    len(m.Grants),
		"must_skip": s.catalog.MustSkip(),
	}})
}

func (s *Session) finish(m network.FinishedMessage) {
	s.finished = true
	s.catalog.Clear()
	s.selection.Reset()

	s.controls.Next = false
	s.controls.PlayPause = false
	s.controls.Playing = false
	s.controls.Previous = true

	s.status = m.Status
	s.substatus = m.Substatus

	s.logger.Info("Game finished", zap.String("status", m.Status), zap.String("substatus", m.Substatus))
	s.publish(Event{Type: EventFinished, Status: m.Status})
}

func (s *Session) desync(err error, a actions.Action) error {
	s.logger.Error("Server frame does not match local board",
		zap.Stringer("action", a),
		zap.String("from", a.From.String()),
		zap.String("to", a.To.String()),
		zap.Error(err))
	s.publish(Event{Type: EventDesync, Action: &a, Status: err.Error()})
	return fmt.Errorf("%w: %w", ErrDesync, err)
}

// SelectPiece handles a click on owner's unplaced piece of kind.
func (s *Session) SelectPiece(owner board.Owner, kind board.PieceKind) {
	if !s.acceptsPlay() {
		return
	}
	s.selection.SelectPiece(owner, kind, s.turn.Current)
	s.updateHint()
}

// ClickTile handles a click on the board tile at coord and sends the
// resulting action, if any.
func (s *Session) ClickTile(coord hex.Axial) error {
	if !s.acceptsPlay() {
		return nil
	}
	a, ok := s.selection.SelectTile(coord, s.turn.Current)
	if !ok {
		s.updateHint()
		return nil
	}
	return s.commit(a)
}

// Skip sends a skip when the server granted nothing else.
func (s *Session) Skip() error {
	if !s.acceptsPlay() {
		return nil
	}
	a, ok := s.selection.Skip(s.turn.Current)
	if !ok {
		return nil
	}
	return s.commit(a)
}

func (s *Session) acceptsPlay() bool {
	return !s.finished && s.pending == nil
}

func (s *Session) commit(a actions.Action) error {
	if err := s.apply(a); err != nil {
		// The catalog came from the server, so this means the board already
		// drifted.
		return s.desync(err, a)
	}
	s.pending = &a

	s.substatus = ""
	s.logger.Info("Action committed", zap.Stringer("action", a))
	s.publish(Event{Type: EventActionCommitted, Action: &a})
	return s.send(network.EncodeMove(a, s.turn.Remaining(a.Owner, a.Kind)))
}

func (s *Session) updateHint() {
	switch s.selection.State().Mode {
	case selection.Idle:
		s.substatus = "Click on a tile to select it."
		if s.catalog.MustSkip() {
			s.substatus = "You have to skip your turn."
		}
	default:
		s.substatus = "Click on a highlighted tile to perform your move."
	}
}

// TogglePlayPause pauses or resumes the replay.
func (s *Session) TogglePlayPause() error {
	if !s.controls.PlayPause {
		return nil
	}
	var msg string
	if s.controls.Playing {
		msg = network.EncodeControl(network.MsgTypePause)
		if s.turn.Step > 1 {
			s.controls.Previous = true
		}
		s.controls.Next = true
	} else {
		msg = network.EncodeControl(network.MsgTypeResume)
		s.controls.Previous = false
		s.controls.Next = false
	}
	s.controls.Playing = !s.controls.Playing
	return s.send(msg)
}

// Next asks the server for the next step.
func (s *Session) Next() error {
	if !s.controls.Next {
		return nil
	}
	return s.send(network.EncodeControl(network.MsgTypeNext))
}

// Previous asks the server to take back the last step.
func (s *Session) Previous() error {
	if !s.controls.Previous {
		return nil
	}
	return s.send(network.EncodeControl(network.MsgTypeStepBack))
}

func (s *Session) send(data string) error {
	if err := s.sender.Send(data); err != nil {
		s.logger.Error("Failed to send frame", zap.String("frame", data), zap.Error(err))
		return err
	}
	return nil
}

func (s *Session) publish(e Event) {
	e.Step = s.turn.Step
	e.Player = s.turn.Current.String()
	e.Timestamp = time.Now()
	s.bus.Publish(e)
}

func stepStatus(step int, player board.Owner) string {
	return fmt.Sprintf("Step %d: %s's turn", step, player)
}

// Board returns the board for rendering. Callers must not mutate it.
func (s *Session) Board() *board.Board { return s.board }

// Turn returns the current player and step.
func (s *Session) Turn() (board.Owner, int) { return s.turn.Current, s.turn.Step }

// Remaining returns the unplaced count of kind for owner.
func (s *Session) Remaining(owner board.Owner, kind board.PieceKind) int {
	return s.turn.Remaining(owner, kind)
}

// Selection returns the current selection.
func (s *Session) Selection() selection.State { return s.selection.State() }

// Targets returns the coordinates highlighted by the current selection.
func (s *Session) Targets() []hex.Axial { return s.selection.Targets() }

// Selectable returns the unplaced kinds and the board tiles the player to
// move may select.
func (s *Session) Selectable() ([]board.PieceKind, []hex.Axial) {
	return s.catalog.Kinds(), s.catalog.Origins()
}

// MustSkip reports whether the only granted action is a skip.
func (s *Session) MustSkip() bool { return s.catalog.MustSkip() }

// Mode returns the configured mode and whether CONFIG was received.
func (s *Session) Mode() (network.Mode, bool) { return s.mode, s.configured }

// Controls returns the replay button state.
func (s *Session) Controls() Controls { return s.controls }

// Finished reports whether the game is over.
func (s *Session) Finished() bool { return s.finished }

// Status returns the two status lines.
func (s *Session) Status() (string, string) { return s.status, s.substatus }
