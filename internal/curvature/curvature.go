// Package curvature implements k-curvature detection over a closed contour:
// for each point it looks k steps back and forward along the silhouette and
// flags the point if the angle between those two segments falls in a
// configured range.
package curvature

import (
	"errors"
	"math"

	"github.com/ayusman/handtrace/internal/vector"
)

// ErrInvalidParameter is returned when K is not a positive step count.
var ErrInvalidParameter = errors.New("curvature: k must be positive")

// Params configures the detector.
type Params struct {
	K        int
	MinAngle float64 // degrees
	MaxAngle float64 // degrees
}

// DefaultParams returns the spec's defaults.
func DefaultParams() Params {
	return Params{K: 20, MinAngle: 25, MaxAngle: 55}
}

// Point is a curvature sample: the contour point itself, the two segment
// vectors to its k-back/k-forward neighbours, and their difference.
type Point struct {
	Point vector.Vector
	SegA  vector.Vector
	SegB  vector.Vector
	SegC  vector.Vector
}

// Detector runs k-curvature over a closed contour and reports qualifying
// points through OnCurvesReady.
type Detector struct {
	params  Params
	onReady func(curves []Point)
}

// New creates a Detector with the given parameters.
func New(params Params) *Detector {
	return &Detector{params: params}
}

// OnCurvesReady registers the callback fired exactly once per Detect call.
func (d *Detector) OnCurvesReady(fn func(curves []Point)) {
	d.onReady = fn
}

// Detect scans contour and returns every point whose k-curvature angle
// falls within [MinAngle, MaxAngle] (inclusive, converted to radians once).
// A non-positive K is a caller error, not a legitimate empty-contour case,
// and is rejected up front rather than silently folded into an empty result.
func (d *Detector) Detect(contour []vector.Vector) ([]Point, error) {
	if d.params.K <= 0 {
		return nil, ErrInvalidParameter
	}

	n := len(contour)
	k := d.params.K
	minRad := d.params.MinAngle * math.Pi / 180
	maxRad := d.params.MaxAngle * math.Pi / 180

	var out []Point
	if n == 0 {
		if d.onReady != nil {
			d.onReady(out)
		}
		return out, nil
	}

	for i := 0; i < n; i++ {
		segA := d.segment(contour, i, i-k)
		segB := d.segment(contour, i, i+k)
		segC := segB.Sub(segA)

		theta := vector.Theta(segA, segB)
		if theta >= minRad && theta <= maxRad {
			out = append(out, Point{
				Point: contour[i],
				SegA:  segA,
				SegB:  segB,
				SegC:  segC,
			})
		}
	}

	if d.onReady != nil {
		d.onReady(out)
	}
	return out, nil
}

// segment returns the vector from contour[i] to contour[j], resolving j's
// out-of-range index per the spec's circular/clamped rule: if the wrap
// neighbour is adjacent to the real endpoint (both axis deltas within k+1),
// treat the contour as closed and wrap (modulo its length, so k may exceed
// the number of points); otherwise clamp to the nearest real endpoint.
func (d *Detector) segment(contour []vector.Vector, i, j int) vector.Vector {
	n := len(contour)
	k := d.params.K

	if j < 0 {
		if d.endpointsAdjacent(contour, k) {
			j = (j%n + n) % n
		} else {
			j = 0
		}
	} else if j > n-1 {
		if d.endpointsAdjacent(contour, k) {
			j = j % n
		} else {
			j = n - 1
		}
	}

	return contour[j].Sub(contour[i])
}

// endpointsAdjacent reports whether the contour's first and last points are
// close enough (within k+1 on both axes) to be treated as a closed loop.
func (d *Detector) endpointsAdjacent(contour []vector.Vector, k int) bool {
	n := len(contour)
	if n < 2 {
		return false
	}
	first, last := contour[0], contour[n-1]
	dx := math.Abs(first.X - last.X)
	dy := math.Abs(first.Y - last.Y)
	return dx <= float64(k+1) && dy <= float64(k+1)
}
