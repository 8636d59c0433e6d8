// Package finger groups curvature peaks into fingertip candidates and
// assembles the fixed 5-slot Hand descriptor the rest of the pipeline works
// with.
package finger

import "github.com/ayusman/handtrace/internal/vector"

// FingerNotFound is the sentinel Position (and Direction) used for an unused
// Hand slot.
var FingerNotFound = vector.New(1000, 1000, 1000)

// Slot indices into a Hand, thumb through little finger.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Little
	numSlots = 5
)

// Fingertip is a classified curvature peak: its position, the outward
// direction the curve sweeps, and the bisector probe point used to classify
// it.
type Fingertip struct {
	Position  vector.Vector
	Direction vector.Vector
	Bisect    vector.Vector
}

// notFoundFingertip is the sentinel value for an unfilled Hand slot.
var notFoundFingertip = Fingertip{Position: FingerNotFound, Direction: FingerNotFound}

// Hand is the fixed-length, immutable-once-built 5-slot descriptor of a
// detected hand. Unfilled slots carry the FingerNotFound sentinel.
type Hand struct {
	Fingers [numSlots]Fingertip
}

// HasFinger reports whether slot i is filled.
func (h Hand) HasFinger(i int) bool {
	return h.Fingers[i].Position != FingerNotFound
}

// FingerCount returns the number of filled slots.
func (h Hand) FingerCount() int {
	n := 0
	for i := 0; i < numSlots; i++ {
		if h.HasFinger(i) {
			n++
		}
	}
	return n
}

// Assemble builds a Hand from up to five detected fingertips, in slot order;
// any remaining slots are left at the FingerNotFound sentinel. Fingertips
// beyond the fifth are dropped — callers are expected to have already
// truncated the list (the facade truncates fingertip_locations_ready output
// to 5 before assembly).
func Assemble(fingertips []Fingertip) Hand {
	var h Hand
	for i := 0; i < numSlots; i++ {
		h.Fingers[i] = notFoundFingertip
	}
	for i := 0; i < len(fingertips) && i < numSlots; i++ {
		h.Fingers[i] = fingertips[i]
	}
	return h
}
