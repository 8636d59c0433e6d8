package gesture

import "github.com/ayusman/handtrace/internal/finger"

// DefaultStreamCapacity is the spec's default gesture-stream FIFO depth.
const DefaultStreamCapacity = 40

// Stream is a bounded FIFO of recent Hand frames. Its accumulated frame
// counter is monotonic across the stream's lifetime even though Clear
// empties the buffer — restarting a recording session should not reset how
// many frames have ever passed through it.
type Stream struct {
	capacity    int
	frames      []finger.Hand
	accumulated uint64
}

// NewStream creates a Stream with the given capacity. Capacity <= 0 falls
// back to DefaultStreamCapacity.
func NewStream(capacity int) *Stream {
	if capacity <= 0 {
		capacity = DefaultStreamCapacity
	}
	return &Stream{capacity: capacity}
}

// AddFrame enqueues h, dropping the oldest frame if the stream is already
// at capacity.
func (s *Stream) AddFrame(h finger.Hand) {
	s.frames = append(s.frames, h)
	if len(s.frames) > s.capacity {
		s.frames = s.frames[len(s.frames)-s.capacity:]
	}
	s.accumulated++
}

// Count returns the number of frames currently buffered.
func (s *Stream) Count() int {
	return len(s.frames)
}

// Capacity returns the configured capacity.
func (s *Stream) Capacity() int {
	return s.capacity
}

// IsSaturated reports whether the stream currently holds its maximum number
// of frames.
func (s *Stream) IsSaturated() bool {
	return len(s.frames) == s.capacity
}

// AccumulatedFrameCount returns the total number of frames ever enqueued,
// which Clear does not reset.
func (s *Stream) AccumulatedFrameCount() uint64 {
	return s.accumulated
}

// Frames returns the stream's current contents, oldest first. The returned
// slice is a copy; callers must not rely on it aliasing internal state.
func (s *Stream) Frames() []finger.Hand {
	out := make([]finger.Hand, len(s.frames))
	copy(out, s.frames)
	return out
}

// ToGesture snapshots the stream's current contents into a named Gesture.
func (s *Stream) ToGesture(name string) Gesture {
	return Gesture{Name: name, Frames: s.Frames()}
}

// Clear empties the buffer without resetting AccumulatedFrameCount.
func (s *Stream) Clear() {
	s.frames = nil
}
