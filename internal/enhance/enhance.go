// Package enhance implements the finger-count consistency check that sits
// between raw Hand assembly and gesture recognition. A single missed or
// extra finger for a frame or two is usually a detection glitch, not a real
// change in hand pose; the Enhancer buffers such runs and retroactively
// repairs them with the Predictor once the finger count settles again, or
// forwards them unrepaired once a run outlasts the frame limit and is
// taken as a real change.
package enhance

import (
	"github.com/ayusman/handtrace/internal/finger"
	"github.com/ayusman/handtrace/internal/smooth"
)

// queueCap is the rolling "good hands" queue capacity.
const queueCap = 40

// saturatedAt is the queue size at or above which finger-count mismatches are
// treated as potential glitches rather than simply the first few frames of
// startup noise.
const saturatedAt = 30

// Params configures the Enhancer.
type Params struct {
	FrameLimit       int
	PredictionWeight float64
}

// DefaultParams returns the spec's defaults.
func DefaultParams() Params {
	return Params{FrameLimit: 10, PredictionWeight: 0.8}
}

// Enhancer holds the rolling queue of accepted hands, the pending run of
// inconsistent hands awaiting either repair or confirmation, and the
// previous hand seen (regardless of which path it took).
type Enhancer struct {
	params  Params
	queue   []finger.Hand
	pending []finger.Hand
	prev    finger.Hand
	hasPrev bool

	fixedInconsistencies bool
}

// New creates an Enhancer with the given parameters.
func New(params Params) *Enhancer {
	return &Enhancer{params: params}
}

// FixedInconsistencies reports whether the most recent Process call took the
// repair path.
func (e *Enhancer) FixedInconsistencies() bool {
	return e.fixedInconsistencies
}

// Process feeds one Hand through the consistency check and returns the
// Hands, if any, that should now be forwarded to gesture recognition. Most
// calls forward exactly the input hand; calls during a pending run forward
// nothing until the run resolves (by repair or by confirmed flush), at which
// point every buffered hand in the run is forwarded at once.
func (e *Enhancer) Process(h finger.Hand) []finger.Hand {
	var forwarded []finger.Hand

	saturated := len(e.queue) >= saturatedAt
	mismatched := e.hasPrev && h.FingerCount() != e.prev.FingerCount()

	switch {
	case saturated && mismatched:
		e.pending = append(e.pending, h)
		if len(e.pending) > e.params.FrameLimit {
			// A run this long is a genuine finger-count change, not a
			// glitch: flush it through unrepaired.
			forwarded = e.flush(e.pending)
			e.pending = nil
		}

	case len(e.pending) > 0:
		e.pending = append(e.pending, h)
		predicted, _ := smooth.PredictHand(e.queue, e.params.PredictionWeight)
		repaired := make([]finger.Hand, len(e.pending))
		for i, p := range e.pending {
			repaired[i] = repairMissing(p, predicted)
		}
		forwarded = e.flush(repaired)
		e.pending = nil
		e.fixedInconsistencies = true

	default:
		forwarded = e.flush([]finger.Hand{h})
		e.fixedInconsistencies = false
	}

	e.prev = h
	e.hasPrev = true
	return forwarded
}

// flush appends hands to the queue (trimming to cap) and returns them
// unchanged as the forward batch.
func (e *Enhancer) flush(hands []finger.Hand) []finger.Hand {
	for _, h := range hands {
		e.queue = append(e.queue, h)
		if len(e.queue) > queueCap {
			e.queue = e.queue[len(e.queue)-queueCap:]
		}
	}
	return hands
}

// repairMissing substitutes the predicted fingertip into every slot h is
// missing, leaving filled slots untouched.
func repairMissing(h finger.Hand, predicted finger.Hand) finger.Hand {
	out := h
	for i := range out.Fingers {
		if !out.HasFinger(i) {
			out.Fingers[i] = predicted.Fingers[i]
		}
	}
	return out
}
