package gesture

import (
	"log"

	"github.com/ayusman/handtrace/internal/finger"
)

// State is one of the facade's three operating modes.
type State int

const (
	Idle State = iota
	Recording
	Recognizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Recognizing:
		return "recognizing"
	default:
		return "unknown"
	}
}

// Recognizer is the facade that ties the bounded observation stream and
// the DTW matcher into a simple start/stop recording-and-recognition API.
// It has no opinion on where Hand frames come from; callers feed it via
// AnalyzeFrame from wherever the rest of the pipeline produces them.
type Recognizer struct {
	state   State
	stream  *Stream
	matcher *Matcher
	library []Gesture

	// GestureRecorded fires when StopRecording produces a Gesture long
	// enough to retain (at least MinimumGestureFrames).
	GestureRecorded func(Gesture)
	// GestureRecognized fires when AnalyzeFrame, while Recognizing, finds
	// an accepted match once the stream saturates.
	GestureRecognized func(name string, meanPathCost float64)
}

// NewRecognizer creates an idle Recognizer over the given gesture library.
func NewRecognizer(streamCapacity int, matchParams MatchParams, library []Gesture) *Recognizer {
	return &Recognizer{
		state:   Idle,
		stream:  NewStream(streamCapacity),
		matcher: NewMatcher(matchParams),
		library: library,
	}
}

// State reports the facade's current mode.
func (r *Recognizer) State() State {
	return r.state
}

// StartRecording switches to Recording and clears the observation stream.
func (r *Recognizer) StartRecording() {
	r.stream.Clear()
	r.state = Recording
}

// StartRecognizer switches to Recognizing and clears the observation
// stream.
func (r *Recognizer) StartRecognizer() {
	r.stream.Clear()
	r.state = Recognizing
}

// StopRecording leaves Recording and returns to Idle. If the buffered
// frames form a gesture of at least MinimumGestureFrames, it is emitted via
// GestureRecorded and returned; otherwise the recording is discarded.
func (r *Recognizer) StopRecording(name string) (Gesture, bool) {
	r.state = Idle
	if r.stream.Count() < MinimumGestureFrames {
		r.stream.Clear()
		return Gesture{}, false
	}
	g := r.stream.ToGesture(name)
	r.stream.Clear()
	if r.GestureRecorded != nil {
		r.GestureRecorded(g)
	}
	return g, true
}

// StopRecognizer leaves Recognizing and returns to Idle.
func (r *Recognizer) StopRecognizer() {
	r.state = Idle
	r.stream.Clear()
}

// StoreGesture adds g to the in-memory library the matcher selects
// candidates from.
func (r *Recognizer) StoreGesture(g Gesture) {
	r.library = append(r.library, g)
}

// SetLibrary replaces the in-memory library wholesale, for callers (like
// internal/app) that reload every gesture from persistent storage rather
// than appending one at a time.
func (r *Recognizer) SetLibrary(library []Gesture) {
	r.library = library
}

// AnalyzeFrame feeds one Hand frame through the facade. In Recording it
// just buffers the frame (logging if the stream has overrun its capacity
// so frames are being dropped). In Recognizing it buffers the frame and,
// once the stream saturates, runs candidate selection and DTW matching,
// firing GestureRecognized on an accepted match. Idle ignores frames.
func (r *Recognizer) AnalyzeFrame(h finger.Hand) {
	switch r.state {
	case Recording:
		before := r.stream.Count()
		r.stream.AddFrame(h)
		if before == r.stream.Capacity() {
			log.Printf("gesture: recording stream at capacity %d, oldest frame dropped", r.stream.Capacity())
		}

	case Recognizing:
		r.stream.AddFrame(h)
		if !r.stream.IsSaturated() {
			return
		}
		obs := r.stream.ToGesture("")
		candidate, ok := r.matcher.SelectCandidate(h, r.library)
		if !ok {
			return
		}
		meanPathCost, accepted := r.matcher.Match(obs, candidate)
		if accepted && r.GestureRecognized != nil {
			r.GestureRecognized(candidate.Name, meanPathCost)
		}

	case Idle:
	}
}
