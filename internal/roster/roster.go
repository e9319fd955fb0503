// Package roster parses the secondary plain-text status feed: a
// newline-delimited buffer of records bracketed by '%', with
// ';'-separated "key:value" fields. The feed is a redundant, fuller
// channel than the movement datagram: it carries absolute position and
// health rather than transitions.
package roster

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ErrMissingField is returned when a record lacks a required key.
var ErrMissingField = errors.New("missing required field")

// requiredKeys are the fields every record must carry.
var requiredKeys = []string{"ip", "player", "name", "health", "x", "y", "z"}

// Record is one parsed peer status entry.
type Record struct {
	IP     string
	Player uint8
	Name   string
	Health int
	X      float64
	Y      float64
	Z      float64
}

// Parser converts feed buffers into records. It has no dependencies
// beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. logger must not be nil.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse scans a multi-line feed buffer and returns every well-formed
// record plus the number of malformed ones. A malformed record is
// logged and skipped; it never aborts the rest of the batch.
func (p *Parser) Parse(feed string) (records []Record, skipped int) {
	for _, line := range strings.Split(feed, "\n") {
		for seg, rest := nextSegment(line); seg != "" || rest != ""; seg, rest = nextSegment(rest) {
			if seg == "" {
				continue
			}
			rec, err := p.parseRecord(seg)
			if err != nil {
				p.logger.Warn("Skipping malformed roster record", "record", seg, "error", err)
				skipped++
				continue
			}
			records = append(records, rec)
		}
	}

	return records, skipped
}

// nextSegment extracts the next '%'-bracketed segment from line. The
// closing '%' doubles as the opening '%' of the next record, so it is
// left in rest.
func nextSegment(line string) (seg, rest string) {
	start := strings.IndexByte(line, '%')
	if start < 0 {
		return "", ""
	}
	body := line[start+1:]
	end := strings.IndexByte(body, '%')
	if end < 0 {
		return body, ""
	}
	return body[:end], body[end:]
}

// parseRecord converts one ';'-separated record body. Every numeric
// conversion failure is wrapped and reported; the caller decides to
// skip.
func (p *Parser) parseRecord(s string) (Record, error) {
	var rec Record

	fields := make(map[string]string)
	for _, f := range strings.Split(s, ";") {
		key, value, ok := strings.Cut(f, ":")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	for _, key := range requiredKeys {
		if _, ok := fields[key]; !ok {
			return rec, fmt.Errorf("%w: %s", ErrMissingField, key)
		}
	}

	rec.IP = fields["ip"]
	rec.Name = fields["name"]

	id, err := strconv.ParseUint(fields["player"], 10, 8)
	if err != nil {
		return rec, fmt.Errorf("parsing player id: %w", err)
	}
	rec.Player = uint8(id)

	rec.Health, err = strconv.Atoi(fields["health"])
	if err != nil {
		return rec, fmt.Errorf("parsing health: %w", err)
	}

	rec.X, err = strconv.ParseFloat(fields["x"], 64)
	if err != nil {
		return rec, fmt.Errorf("parsing x: %w", err)
	}
	rec.Y, err = strconv.ParseFloat(fields["y"], 64)
	if err != nil {
		return rec, fmt.Errorf("parsing y: %w", err)
	}
	rec.Z, err = strconv.ParseFloat(fields["z"], 64)
	if err != nil {
		return rec, fmt.Errorf("parsing z: %w", err)
	}

	return rec, nil
}
