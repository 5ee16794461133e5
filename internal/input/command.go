package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gravitas-games/zombies/internal/board"
	"github.com/gravitas-games/zombies/internal/hex"
)

// ErrUnknownCommand is returned by Parse for lines it cannot read.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a parsed console line: either a target or a pixel click.
type Command struct {
	Target Target
	Click  bool
	X, Y   float64
}

// Usage lists the console commands.
const Usage = `commands:
  piece [1|2] <kind>   select an unplaced piece (necromancer, hugger, jumper, creeper, sprinter)
  tile <q> <r>         click the board tile at axial (q, r)
  click <x> <y>        click at a window pixel
  skip                 confirm a forced skip
  pause | play | space toggle the replay
  next | right         step forward
  prev | left          step back
  quit                 leave`

// Parse reads one console line. current is the player to move, used when a
// piece command names no player.
func Parse(line string, current board.Owner) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}

	switch fields[0] {
	case "piece", "p":
		return parsePiece(fields[1:], current)
	case "tile", "t":
		q, r, err := parseInts(fields[1:])
		if err != nil {
			return Command{}, err
		}
		return Command{Target: Target{Region: RegionBoard, Coord: hex.Axial{Q: q, R: r}}}, nil
	case "click", "c":
		if len(fields) != 3 {
			return Command{}, fmt.Errorf("%w: click needs x and y", ErrUnknownCommand)
		}
		x, errX := strconv.ParseFloat(fields[1], 64)
		y, errY := strconv.ParseFloat(fields[2], 64)
		if err := errors.Join(errX, errY); err != nil {
			return Command{}, fmt.Errorf("%w: %v", ErrUnknownCommand, err)
		}
		return Command{Click: true, X: x, Y: y}, nil
	case "skip", "s":
		return control(ControlSkip), nil
	case "pause", "play", "space":
		return control(ControlPlayPause), nil
	case "next", "right":
		return control(ControlNext), nil
	case "prev", "previous", "left":
		return control(ControlPrevious), nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
}

func control(c Control) Command {
	return Command{Target: Target{Region: RegionControls, Control: c}}
}

func parsePiece(args []string, current board.Owner) (Command, error) {
	owner := current
	switch len(args) {
	case 1:
	case 2:
		switch args[0] {
		case "1":
			owner = board.Player1
		case "2":
			owner = board.Player2
		default:
			return Command{}, fmt.Errorf("%w: player %q", ErrUnknownCommand, args[0])
		}
		args = args[1:]
	default:
		return Command{}, fmt.Errorf("%w: piece needs a kind", ErrUnknownCommand)
	}

	kind, err := board.ParseKind(args[0])
	if err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrUnknownCommand, err)
	}
	return Command{Target: Target{Region: RegionReserve, Owner: owner, Kind: kind}}, nil
}

func parseInts(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%w: want two coordinates", ErrUnknownCommand)
	}
	q, errQ := strconv.Atoi(args[0])
	r, errR := strconv.Atoi(args[1])
	if err := errors.Join(errQ, errR); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnknownCommand, err)
	}
	return q, r, nil
}

// Run parses line and dispatches the result.
func (r *Router) Run(line string, current board.Owner) error {
	cmd, err := Parse(line, current)
	if err != nil {
		return err
	}
	if cmd.Click {
		return r.ClickAt(cmd.X, cmd.Y)
	}
	return r.Dispatch(cmd.Target)
}
