package game

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Key is one of the four movement keys.
type Key uint8

const (
	KeyForward Key = iota // W
	KeyBack               // S
	KeyLeft               // A
	KeyRight              // D

	keyCount
)

// The view looks down the (-1, 0, -1) diagonal, so each key moves along a
// ground-plane diagonal rather than a world axis.
var keyDirections = [keyCount]mgl32.Vec3{
	KeyForward: {-1, 0, -1},
	KeyBack:    {1, 0, 1},
	KeyLeft:    {-1, 0, 1},
	KeyRight:   {1, 0, -1},
}

var keyNames = [keyCount]string{
	KeyForward: "W",
	KeyBack:    "S",
	KeyLeft:    "A",
	KeyRight:   "D",
}

// Keys lists every movement key in direction-table order.
func Keys() []Key {
	return []Key{KeyForward, KeyBack, KeyLeft, KeyRight}
}

func (k Key) String() string {
	if k >= keyCount {
		return "?"
	}
	return keyNames[k]
}

// Direction returns the key's unnormalized ground-plane contribution.
func (k Key) Direction() mgl32.Vec3 {
	if k >= keyCount {
		return mgl32.Vec3{}
	}
	return keyDirections[k]
}

// KeySet is the set of movement keys held during a frame.
type KeySet uint8

// KeysOf builds a set from the given keys.
func KeysOf(keys ...Key) KeySet {
	var s KeySet
	for _, k := range keys {
		s = s.With(k)
	}
	return s
}

func (s KeySet) Has(k Key) bool {
	return s&(1<<k) != 0
}

func (s KeySet) With(k Key) KeySet {
	if k >= keyCount {
		return s
	}
	return s | 1<<k
}

func (s KeySet) Without(k Key) KeySet {
	return s &^ (1 << k)
}

func (s KeySet) Empty() bool {
	return s == 0
}

func (s KeySet) String() string {
	var b strings.Builder
	for _, k := range Keys() {
		if s.Has(k) {
			b.WriteString(k.String())
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// RawDirection sums the direction of every held key. Opposing keys cancel.
func RawDirection(keys KeySet) mgl32.Vec3 {
	var sum mgl32.Vec3
	for _, k := range Keys() {
		if keys.Has(k) {
			sum = sum.Add(k.Direction())
		}
	}
	return sum
}

// MoveDirection is RawDirection scaled to unit length, or the zero vector
// when the held keys cancel out or nothing is held.
func MoveDirection(keys KeySet) mgl32.Vec3 {
	sum := RawDirection(keys)
	if sum.LenSqr() == 0 {
		return mgl32.Vec3{}
	}
	return sum.Normalize()
}

// InputState is the per-frame keyboard snapshot written by the host before
// each tick.
type InputState struct {
	Pressed KeySet
}
