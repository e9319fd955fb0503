package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectionFor(t *testing.T) {
	tests := []struct {
		name                  string
		left, right, up, down bool
		want                  uint8
	}{
		{name: "no keys", want: DirNone},
		{name: "up", up: true, want: DirUp},
		{name: "down", down: true, want: DirDown},
		{name: "right", right: true, want: DirRight},
		{name: "left", left: true, want: DirLeft},
		{name: "up right", up: true, right: true, want: DirUpRight},
		{name: "up left", up: true, left: true, want: DirUpLeft},
		{name: "down left", down: true, left: true, want: DirDownLeft},
		{name: "down right", down: true, right: true, want: DirDownRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DirectionFor(tt.left, tt.right, tt.up, tt.down)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Every contradictory chord resolves to stationary, and the function is
// total over all sixteen combinations.
func TestDirectionFor_AmbiguousChords(t *testing.T) {
	valid := map[[4]bool]uint8{
		{false, false, true, false}: DirUp,
		{false, false, false, true}: DirDown,
		{false, true, false, false}: DirRight,
		{true, false, false, false}: DirLeft,
		{false, true, true, false}:  DirUpRight,
		{true, false, true, false}:  DirUpLeft,
		{true, false, false, true}:  DirDownLeft,
		{false, true, false, true}:  DirDownRight,
	}

	for i := 0; i < 16; i++ {
		keys := [4]bool{i&1 != 0, i&2 != 0, i&4 != 0, i&8 != 0}
		want, ok := valid[keys]
		if !ok {
			want = DirNone
		}
		got := DirectionFor(keys[0], keys[1], keys[2], keys[3])
		assert.Equal(t, want, got, "keys %v", keys)
	}
}

func TestDirectionFor_TriplePressIsStationary(t *testing.T) {
	// left+right+up held together is contradictory, not a diagonal.
	assert.Equal(t, DirNone, DirectionFor(true, true, true, false))
	assert.Equal(t, DirNone, DirectionFor(true, true, true, true))
}
