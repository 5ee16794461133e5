package network

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gravitas-games/zombies/internal/actions"
	"github.com/gravitas-games/zombies/internal/board"
	"github.com/gravitas-games/zombies/internal/hex"
)

// Decode parses one server frame. Nothing is applied here, so a frame that
// fails to decode leaves the session untouched.
func Decode(data string) (Message, error) {
	lines := strings.Split(strings.TrimSpace(data), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	kind, fields := lines[0], lines[1:]

	switch kind {
	case MsgTypeConfig:
		return decodeConfig(fields)
	case MsgTypePlay:
		return decodePlay(fields)
	case MsgTypePrevious:
		return decodePrevious(fields)
	case MsgTypeFinished:
		return decodeFinished(fields)
	case MsgTypeActions:
		return decodeActions(fields)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func decodeConfig(fields []string) (Message, error) {
	if len(fields) < 1 {
		return nil, fmt.Errorf("%w: %s without mode", ErrMalformed, MsgTypeConfig)
	}
	mode := Mode(fields[0])
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrMalformed, fields[0])
	}
	return ConfigMessage{Mode: mode}, nil
}

// actionFields holds the five positional fields shared by PLAY and PREVIOUS:
// player, step, type, then two "a b" pairs.
type actionFields struct {
	player board.Owner
	step   int
	typ    actions.Type
	first  [2]int
	second [2]int
}

func decodeActionFields(kind string, fields []string) (actionFields, error) {
	var af actionFields
	if len(fields) < 5 {
		return af, fmt.Errorf("%w: %s needs 5 fields, got %d", ErrMalformed, kind, len(fields))
	}
	sign, err := strconv.Atoi(fields[0])
	if err != nil {
		return af, fmt.Errorf("%w: %s player: %v", ErrMalformed, kind, err)
	}
	if af.player, err = board.OwnerFromSign(sign); err != nil {
		return af, fmt.Errorf("%w: %s: %v", ErrMalformed, kind, err)
	}
	if af.step, err = strconv.Atoi(fields[1]); err != nil {
		return af, fmt.Errorf("%w: %s step: %v", ErrMalformed, kind, err)
	}
	var ok bool
	if af.typ, ok = actions.ParseType(fields[2]); !ok {
		return af, fmt.Errorf("%w: %s action type %q", ErrMalformed, kind, fields[2])
	}
	if af.first, err = parsePair(fields[3]); err != nil {
		return af, fmt.Errorf("%w: %s: %v", ErrMalformed, kind, err)
	}
	if af.second, err = parsePair(fields[4]); err != nil {
		return af, fmt.Errorf("%w: %s: %v", ErrMalformed, kind, err)
	}
	return af, nil
}

func decodePlay(fields []string) (Message, error) {
	af, err := decodeActionFields(MsgTypePlay, fields)
	if err != nil {
		return nil, err
	}
	msg := PlayMessage{
		Step:   af.step,
		Action: actions.Action{Type: af.typ, Owner: af.player},
	}
	switch af.typ {
	case actions.Place:
		if msg.Action.Kind, err = board.KindFromSigned(af.first[0]); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, MsgTypePlay, err)
		}
		msg.Quantity = af.first[1]
		msg.Action.To = toAxial(af.second)
	case actions.Move:
		msg.Action.From = toAxial(af.first)
		msg.Action.To = toAxial(af.second)
	}
	if trailer := fields[5:]; len(trailer) > 0 {
		finished := decodeStatus(trailer)
		msg.Finished = &finished
	}
	return msg, nil
}

func decodePrevious(fields []string) (Message, error) {
	af, err := decodeActionFields(MsgTypePrevious, fields)
	if err != nil {
		return nil, err
	}
	msg := PreviousMessage{Player: af.player, Step: af.step, Type: af.typ}
	switch af.typ {
	case actions.Place:
		if msg.Kind, err = board.KindFromSigned(af.first[0]); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, MsgTypePrevious, err)
		}
		msg.Quantity = af.first[1]
		msg.From = toAxial(af.second)
	case actions.Move:
		msg.From = toAxial(af.second)
		msg.To = toAxial(af.first)
	}
	return msg, nil
}

func decodeFinished(fields []string) (Message, error) {
	if len(fields) < 1 {
		return nil, fmt.Errorf("%w: %s without status", ErrMalformed, MsgTypeFinished)
	}
	return decodeStatus(fields), nil
}

func decodeStatus(lines []string) FinishedMessage {
	msg := FinishedMessage{Status: lines[0]}
	if len(lines) > 1 {
		msg.Substatus = lines[1]
	}
	return msg
}

func decodeActions(fields []string) (Message, error) {
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: %s needs player and step", ErrMalformed, MsgTypeActions)
	}
	sign, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s player: %v", ErrMalformed, MsgTypeActions, err)
	}
	msg := ActionsMessage{}
	if msg.Player, err = board.OwnerFromSign(sign); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, MsgTypeActions, err)
	}
	if msg.Step, err = strconv.Atoi(fields[1]); err != nil {
		return nil, fmt.Errorf("%w: %s step: %v", ErrMalformed, MsgTypeActions, err)
	}
	for _, line := range fields[2:] {
		if line == "" {
			continue
		}
		g, err := decodeGrant(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s grant %q: %v", ErrMalformed, MsgTypeActions, line, err)
		}
		msg.Grants = append(msg.Grants, g)
	}
	return msg, nil
}

// decodeGrant parses "P kind qty q r", "M q r q r" or "S ...".
func decodeGrant(line string) (Grant, error) {
	parts := strings.Fields(line)
	typ, ok := actions.ParseType(parts[0])
	if !ok {
		return Grant{}, fmt.Errorf("action type %q", parts[0])
	}
	g := Grant{Type: typ}
	if typ == actions.Skip {
		return g, nil
	}
	if len(parts) != 5 {
		return Grant{}, fmt.Errorf("want 5 fields, got %d", len(parts))
	}
	var n [4]int
	for i := range n {
		v, err := strconv.Atoi(parts[i+1])
		if err != nil {
			return Grant{}, err
		}
		n[i] = v
	}
	switch typ {
	case actions.Place:
		kind, err := board.KindFromSigned(n[0])
		if err != nil {
			return Grant{}, err
		}
		g.Kind = kind
		g.Quantity = n[1]
	case actions.Move:
		g.From = hex.Axial{Q: n[0], R: n[1]}
	}
	g.To = hex.Axial{Q: n[2], R: n[3]}
	return g, nil
}

func parsePair(s string) ([2]int, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return [2]int{}, fmt.Errorf("want two numbers, got %q", s)
	}
	var out [2]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return [2]int{}, err
		}
		out[i] = v
	}
	return out, nil
}

func toAxial(p [2]int) hex.Axial { return hex.Axial{Q: p[0], R: p[1]} }
