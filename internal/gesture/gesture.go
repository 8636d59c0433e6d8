// Package gesture holds the recorded-gesture data model, the bounded
// observation stream, the DTW matcher, and the recording/recognition
// facade that ties the whole hand-tracking pipeline together.
package gesture

import "github.com/ayusman/handtrace/internal/finger"

// MinimumGestureFrames is the shortest recording the facade will retain as
// a usable Gesture.
const MinimumGestureFrames = 10

// Gesture is a named, ordered recording of Hand frames. The in-memory
// library that the facade matches against is an unordered collection —
// names need not be unique there (a separate ambient/domain concern, the
// relational store, enforces uniqueness for its own UI purposes; see
// DESIGN.md).
type Gesture struct {
	Name   string
	Frames []finger.Hand
}

// Empty reports whether the gesture has no frames.
func (g Gesture) Empty() bool {
	return len(g.Frames) == 0
}
