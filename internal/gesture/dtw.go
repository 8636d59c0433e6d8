package gesture

import (
	"math"

	"github.com/ayusman/handtrace/internal/finger"
)

// Weights are the per-transition local-cost multipliers used when filling
// the DTW accumulated-cost matrix: X weights the "left" (n-1,m) transition,
// Y the "below" (n,m-1) transition, Z the diagonal (n-1,m-1) transition.
type Weights struct {
	X, Y, Z float64
}

// DefaultWeights leaves left/below transitions free of local cost — they
// just propagate the neighbour's accumulated cost forward — while the
// diagonal alone pays half the local distance. This biases the optimal
// path away from the diagonal; preserved as specified, not "fixed".
var DefaultWeights = Weights{X: 0, Y: 0, Z: 0.5}

// MatchParams configures the DTW recognizer.
type MatchParams struct {
	PathCostThreshold           float64
	FrameDistanceThreshold      float64
	HorizontalMovementThreshold int
	VerticalMovementThreshold   int
	Weights                     Weights
}

// DefaultMatchParams returns the spec's defaults.
func DefaultMatchParams() MatchParams {
	return MatchParams{
		PathCostThreshold:           8.0,
		FrameDistanceThreshold:      30.0,
		HorizontalMovementThreshold: 10,
		VerticalMovementThreshold:   10,
		Weights:                     DefaultWeights,
	}
}

// Distance sums the per-slot Euclidean distance between two Hands' finger
// positions across all five slots, FingerNotFound included.
func Distance(a, b finger.Hand) float64 {
	var total float64
	for i := range a.Fingers {
		pa, pb := a.Fingers[i].Position, b.Fingers[i].Position
		dx := pa.X - pb.X
		dy := pa.Y - pb.Y
		dz := pa.Z - pb.Z
		total += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return total
}

// Matcher runs candidate selection and DTW alignment against a gesture
// library.
type Matcher struct {
	params MatchParams
}

// NewMatcher creates a Matcher with the given parameters.
func NewMatcher(params MatchParams) *Matcher {
	return &Matcher{params: params}
}

// SelectCandidate picks the library gesture whose last frame is closest to
// obsLastFrame, provided that distance clears FrameDistanceThreshold.
// Gestures with no frames are skipped.
func (m *Matcher) SelectCandidate(obsLastFrame finger.Hand, library []Gesture) (Gesture, bool) {
	bestDist := math.Inf(1)
	var best Gesture
	found := false

	for _, g := range library {
		if g.Empty() {
			continue
		}
		d := Distance(obsLastFrame, g.Frames[len(g.Frames)-1])
		if d < bestDist {
			bestDist = d
			best = g
			found = true
		}
	}

	if !found || bestDist >= m.params.FrameDistanceThreshold {
		return Gesture{}, false
	}
	return best, true
}

// Match runs the full DTW accumulated-cost alignment between an
// observation and a candidate gesture, returning the mean path cost and
// whether it clears acceptance: below PathCostThreshold and without a
// divergence-cutoff rejection during backtracking.
func (m *Matcher) Match(obs, cand Gesture) (meanPathCost float64, accepted bool) {
	n := len(obs.Frames)
	mLen := len(cand.Frames)
	if n == 0 || mLen == 0 {
		return 0, false
	}

	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, mLen)
		for j := range d[i] {
			d[i][j] = Distance(obs.Frames[i], cand.Frames[j])
		}
	}

	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, mLen)
	}
	a[0][0] = 0
	for j := 1; j < mLen; j++ {
		a[0][j] = d[0][j] + a[0][j-1]
	}
	for i := 1; i < n; i++ {
		a[i][0] = d[i][0] + a[i-1][0]
	}

	w := m.params.Weights
	for i := 1; i < n; i++ {
		for j := 1; j < mLen; j++ {
			left := w.X*d[i][j] + a[i-1][j]
			below := w.Y*d[i][j] + a[i][j-1]
			diag := w.Z*d[i][j] + a[i-1][j-1]
			a[i][j] = min3(left, below, diag)
		}
	}

	return m.backtrack(a, n, mLen)
}

// backtrack walks from (n-1,m-1) to (0,0), at each step taking the smallest
// of the left/below/diagonal accumulated costs (diagonal preferred on a
// tie, then below, then left), accumulating the chosen accumulated-cost
// value into the path total, and enforcing the horizontal/vertical
// divergence cutoffs along the way.
func (m *Matcher) backtrack(a [][]float64, n, mLen int) (float64, bool) {
	i, j := n-1, mLen-1
	var totalPathCost float64
	horizRun, vertRun := 0, 0

	for i > 0 || j > 0 {
		haveLeft, haveBelow, haveDiag := i > 0, j > 0, i > 0 && j > 0
		var left, below, diag float64
		if haveLeft {
			left = a[i-1][j]
		}
		if haveBelow {
			below = a[i][j-1]
		}
		if haveDiag {
			diag = a[i-1][j-1]
		}

		switch {
		case haveDiag && (!haveLeft || diag <= left) && (!haveBelow || diag <= below):
			totalPathCost += diag
			i--
			j--
			horizRun, vertRun = 0, 0
		case haveBelow && (!haveLeft || below <= left):
			totalPathCost += below
			j--
			vertRun++
			horizRun = 0
			if vertRun > m.params.VerticalMovementThreshold {
				return 0, false
			}
		default:
			totalPathCost += left
			i--
			horizRun++
			vertRun = 0
			if horizRun > m.params.HorizontalMovementThreshold {
				return 0, false
			}
		}
	}

	meanPathCost := totalPathCost / float64(n)
	return meanPathCost, meanPathCost < m.params.PathCostThreshold
}

func min3(a, b, c float64) float64 {
	v := a
	if b < v {
		v = b
	}
	if c < v {
		v = c
	}
	return v
}
