// Package smooth provides the two hand-stabilization filters used between
// raw frame assembly and gesture recognition: a first-order exponential
// smoother between consecutive hands, and an EMA-based one-step predictor
// over a short hand history.
package smooth

import (
	"errors"

	"github.com/ayusman/handtrace/internal/finger"
	"github.com/ayusman/handtrace/internal/vector"
)

// ErrInvalidParameter is returned when a smoothing factor or EMA weight is
// outside the open interval (0,1).
var ErrInvalidParameter = errors.New("smooth: parameter must be in (0,1)")

func validWeight(w float64) bool { return w > 0 && w < 1 }

// Vector3 applies first-order exponential smoothing to a single vector:
// out = prev + alpha*(cur-prev).
func Vector3(cur, prev vector.Vector, alpha float64) vector.Vector {
	return prev.Add(cur.Sub(prev).Scale(alpha))
}

// Hand applies Vector3 elementwise to every fingertip's Position and
// Direction. Per the spec's documented quirk, the FingerNotFound sentinel is
// blended numerically like any other value — it is not special-cased, so a
// recently-appeared finger will visibly "grow in" from (1000,1000,1000)
// rather than snapping straight to its real position.
func Hand(cur, prev finger.Hand, alpha float64) (finger.Hand, error) {
	if !validWeight(alpha) {
		return finger.Hand{}, ErrInvalidParameter
	}
	var out finger.Hand
	for i := range out.Fingers {
		out.Fingers[i] = finger.Fingertip{
			Position:  Vector3(cur.Fingers[i].Position, prev.Fingers[i].Position, alpha),
			Direction: Vector3(cur.Fingers[i].Direction, prev.Fingers[i].Direction, alpha),
			Bisect:    Vector3(cur.Fingers[i].Bisect, prev.Fingers[i].Bisect, alpha),
		}
	}
	return out, nil
}

// EMA computes the exponential moving average of obs, reproducing the
// source quirk that the last observation only seeds the recurrence rather
// than being folded in as a weighted term: the loop walks backward from
// obs[len-2] down to obs[0], seeded at obs[len-1].
func EMA(obs []vector.Vector, weight float64) vector.Vector {
	if len(obs) == 0 {
		return vector.Zero
	}
	e := obs[len(obs)-1]
	for i := len(obs) - 2; i >= 0; i-- {
		e = obs[i].Scale(weight).Add(e.Scale(1 - weight))
	}
	return e
}

// Predict extrapolates one step past the most recent observation:
// predicted = current + (current - ema(obs)).
func Predict(obs []vector.Vector, weight float64) vector.Vector {
	if len(obs) == 0 {
		return vector.Zero
	}
	current := obs[len(obs)-1]
	ema := EMA(obs, weight)
	return current.Add(current.Sub(ema))
}

// PredictHand runs Predict independently per finger slot, for Position and
// Direction, over a history of Hand observations (oldest first).
func PredictHand(history []finger.Hand, weight float64) (finger.Hand, error) {
	if !validWeight(weight) {
		return finger.Hand{}, ErrInvalidParameter
	}
	var out finger.Hand
	for slot := range out.Fingers {
		positions := make([]vector.Vector, len(history))
		directions := make([]vector.Vector, len(history))
		for i, h := range history {
			positions[i] = h.Fingers[slot].Position
			directions[i] = h.Fingers[slot].Direction
		}
		out.Fingers[slot] = finger.Fingertip{
			Position:  Predict(positions, weight),
			Direction: Predict(directions, weight),
		}
	}
	return out, nil
}
