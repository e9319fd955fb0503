package main

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/lanmove/syncd/internal/input"
)

// lineSampler models held keys from a line-oriented feed. Each line
// names the keys currently down ("wd" for up+right); an empty line
// releases everything. The last line stays in effect between reads,
// which mirrors how a held key looks to a fixed-rate poll.
type lineSampler struct {
	mu   sync.Mutex
	keys input.Keys
}

func newLineSampler(r io.Reader) *lineSampler {
	s := &lineSampler{}
	go s.read(r)
	return s
}

func (s *lineSampler) Sample() input.Keys {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys
}

func (s *lineSampler) read(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))

		var k input.Keys
		k.Left = strings.ContainsRune(line, 'a')
		k.Right = strings.ContainsRune(line, 'd')
		k.Up = strings.ContainsRune(line, 'w')
		k.Down = strings.ContainsRune(line, 's')

		s.mu.Lock()
		s.keys = k
		s.mu.Unlock()
	}

	// Feed closed: release all keys so the stop edge fires.
	s.mu.Lock()
	s.keys = input.Keys{}
	s.mu.Unlock()
}
