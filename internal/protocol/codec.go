package protocol

import (
	"fmt"
	"strconv"
)

// headerLen is the number of single-digit fields at the front of every
// datagram: type, player id, movement state, direction.
const headerLen = 4

// Encode serializes p into its ASCII wire form: four header digits, the
// decimal timestamp, then the raw name with no delimiter. The format
// has no room for multi-digit header values, so Encode fails fast with
// ErrFieldOverflow instead of emitting an ambiguous stream.
func Encode(p Packet) ([]byte, error) {
	if p.Type > 9 {
		return nil, fmt.Errorf("packet type %d: %w", p.Type, ErrFieldOverflow)
	}
	if p.PlayerID > 9 {
		return nil, fmt.Errorf("player id %d: %w", p.PlayerID, ErrFieldOverflow)
	}
	if p.Direction > 9 {
		return nil, fmt.Errorf("direction %d: %w", p.Direction, ErrFieldOverflow)
	}

	moving := byte('0')
	if p.Moving {
		moving = '1'
	}

	buf := make([]byte, 0, headerLen+20+len(p.Name))
	buf = append(buf, '0'+p.Type, '0'+p.PlayerID, moving, '0'+p.Direction)
	buf = strconv.AppendUint(buf, p.Timestamp, 10)
	buf = append(buf, p.Name...)
	return buf, nil
}

// Decode parses one datagram. It reads exactly one digit per header
// field, then consumes digits greedily for the timestamp until the
// first non-digit byte. The remainder is the sender's name; the
// receive path never needs it, so it is left out of the result rather
// than round-tripped.
func Decode(buf []byte) (Packet, error) {
	var p Packet

	if len(buf) <= headerLen {
		return p, ErrShortDatagram
	}
	for i, b := range buf[:headerLen] {
		if !isDigit(b) {
			return p, fmt.Errorf("header field %d is %q: %w", i, b, ErrBadDigit)
		}
	}

	p.Type = buf[0] - '0'
	p.PlayerID = buf[1] - '0'
	p.Moving = buf[2] != '0'
	p.Direction = buf[3] - '0'

	end := headerLen
	for end < len(buf) && isDigit(buf[end]) {
		end++
	}
	ts, err := strconv.ParseUint(string(buf[headerLen:end]), 10, 64)
	if err != nil {
		return Packet{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	p.Timestamp = ts

	return p, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
