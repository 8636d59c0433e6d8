package gesture

import (
	"errors"

	"github.com/ayusman/handtrace/internal/finger"
	"github.com/ayusman/handtrace/internal/vector"
)

// ErrNoRecordings is returned by Trainer.Average when given no gestures.
var ErrNoRecordings = errors.New("gesture: no recordings to average")

// Trainer derives a single template gesture from several recordings of the
// same motion.
type Trainer struct{}

// NewTrainer creates a Trainer.
func NewTrainer() *Trainer {
	return &Trainer{}
}

// Average resamples every recording to the length of the longest one, then
// averages the finger positions and directions frame by frame, slot by
// slot. A slot missing (FingerNotFound) in every recording at a resampled
// index stays FingerNotFound in the result; slots present in some but not
// all recordings are averaged over the recordings where they were found.
func (t *Trainer) Average(name string, recordings []Gesture) (Gesture, error) {
	if len(recordings) == 0 {
		return Gesture{}, ErrNoRecordings
	}

	targetLength := 0
	for _, g := range recordings {
		if len(g.Frames) > targetLength {
			targetLength = len(g.Frames)
		}
	}
	if targetLength == 0 {
		return Gesture{}, ErrNoRecordings
	}

	resampled := make([][]finger.Hand, len(recordings))
	for i, g := range recordings {
		resampled[i] = resampleFrames(g.Frames, targetLength)
	}

	frames := make([]finger.Hand, targetLength)
	for frameIdx := 0; frameIdx < targetLength; frameIdx++ {
		var hand finger.Hand
		for slot := 0; slot < len(hand.Fingers); slot++ {
			var posSum, dirSum vector.Vector
			var n float64
			for _, rec := range resampled {
				tip := rec[frameIdx].Fingers[slot]
				if tip.Position == finger.FingerNotFound {
					continue
				}
				posSum = posSum.Add(tip.Position)
				dirSum = dirSum.Add(tip.Direction)
				n++
			}
			if n == 0 {
				hand.Fingers[slot] = finger.Fingertip{Position: finger.FingerNotFound, Direction: finger.FingerNotFound}
				continue
			}
			hand.Fingers[slot] = finger.Fingertip{
				Position:  posSum.Scale(1 / n),
				Direction: dirSum.Scale(1 / n),
			}
		}
		frames[frameIdx] = hand
	}

	return Gesture{Name: name, Frames: frames}, nil
}

// resampleFrames stretches or compresses frames to exactly targetLength
// entries via linear interpolation per finger slot. A missing
// (FingerNotFound) endpoint on either side of an interpolated pair leaves
// the resampled slot FingerNotFound rather than interpolating toward the
// sentinel.
func resampleFrames(frames []finger.Hand, targetLength int) []finger.Hand {
	if len(frames) == 0 {
		return make([]finger.Hand, targetLength)
	}
	if len(frames) == 1 || targetLength <= 1 {
		out := make([]finger.Hand, targetLength)
		for i := range out {
			out[i] = frames[0]
		}
		return out
	}

	result := make([]finger.Hand, targetLength)
	for i := 0; i < targetLength; i++ {
		tPos := float64(i) / float64(targetLength-1)
		pos := tPos * float64(len(frames)-1)
		idx := int(pos)
		if idx >= len(frames)-1 {
			idx = len(frames) - 2
		}
		frac := pos - float64(idx)

		a, b := frames[idx], frames[idx+1]
		var hand finger.Hand
		for slot := range hand.Fingers {
			ta, tb := a.Fingers[slot], b.Fingers[slot]
			if ta.Position == finger.FingerNotFound || tb.Position == finger.FingerNotFound {
				hand.Fingers[slot] = finger.Fingertip{Position: finger.FingerNotFound, Direction: finger.FingerNotFound}
				continue
			}
			hand.Fingers[slot] = finger.Fingertip{
				Position:  lerp(ta.Position, tb.Position, frac),
				Direction: lerp(ta.Direction, tb.Direction, frac),
			}
		}
		result[i] = hand
	}
	return result
}

func lerp(a, b vector.Vector, frac float64) vector.Vector {
	return a.Add(b.Sub(a).Scale(frac))
}
