package finger

import (
	"github.com/ayusman/handtrace/internal/curvature"
	"github.com/ayusman/handtrace/internal/depthmask"
	"github.com/ayusman/handtrace/internal/vector"
)

// continuationThreshold is the pixel distance below which two consecutive
// curve points are considered part of the same run around a single
// curvature peak.
const continuationThreshold = 5

// probeDistance is how far outward along the bisector the outside-test
// probes — fingertips point out of the hand mask, so a probe this far past
// the peak should land outside the in-range region.
const probeDistance = 25

// Params configures the recognizer.
type Params struct {
	MinPixelsPerSegment int
}

// DefaultParams returns the spec's default.
func DefaultParams() Params {
	return Params{MinPixelsPerSegment: 0}
}

// Recognizer groups curve points into segments and classifies each
// segment's midpoint as a fingertip via the bisector outside-test.
type Recognizer struct {
	params  Params
	onReady func(fingertips []Fingertip)
}

// New creates a Recognizer with the given parameters.
func New(params Params) *Recognizer {
	return &Recognizer{params: params}
}

// OnFingertipLocationsReady registers the callback fired once per Recognize
// call.
func (r *Recognizer) OnFingertipLocationsReady(fn func(fingertips []Fingertip)) {
	r.onReady = fn
}

// Recognize segments curves (rotating for wrap continuity first) and returns
// the fingertips found. width/height bound the mask for the outside probe.
func (r *Recognizer) Recognize(curves []curvature.Point, mask []depthmask.Pixel, width, height int) []Fingertip {
	rotated := rotateForWrap(curves)

	var fingertips []Fingertip
	for _, run := range segment(rotated) {
		if len(run) < r.params.MinPixelsPerSegment {
			continue
		}
		mid := run[len(run)/2]
		if tip, ok := r.classify(mid, mask, width, height); ok {
			fingertips = append(fingertips, tip)
		}
	}

	if r.onReady != nil {
		r.onReady(fingertips)
	}
	return fingertips
}

// classify applies the bisector outside-test to a segment's midpoint.
func (r *Recognizer) classify(mid curvature.Point, mask []depthmask.Pixel, width, height int) (Fingertip, bool) {
	bisect := vector.Bisect(mid.SegA, mid.SegB)
	probe := mid.Point.Add(bisect.Scale(probeDistance))

	px, py := int(probe.X), int(probe.Y)
	if depthmask.At(mask, width, height, px, py) == depthmask.InRange {
		return Fingertip{}, false
	}

	return Fingertip{
		Position:  mid.Point,
		Direction: mid.SegC.Scale(0.5).Sub(mid.SegB),
		Bisect:    probe,
	}, true
}

// continuation reports whether two curve points' contour positions are
// within the continuation threshold on both axes.
func continuation(a, b curvature.Point) bool {
	dx := a.Point.X - b.Point.X
	dy := a.Point.Y - b.Point.Y
	return absF(dx) < continuationThreshold && absF(dy) < continuationThreshold
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// rotateForWrap rotates curves so that, if the last and first points form a
// continuation run (the curvature detector wrapped across the contour's
// seam), the run starts at index 0 instead of being split across the ends.
func rotateForWrap(curves []curvature.Point) []curvature.Point {
	n := len(curves)
	if n < 2 || !continuation(curves[n-1], curves[0]) {
		return curves
	}

	// Walk backward from the end to find where this wrapping run began.
	start := n - 1
	for start > 0 && continuation(curves[start-1], curves[start]) {
		start--
	}
	if start == 0 {
		return curves
	}

	rotated := make([]curvature.Point, 0, n)
	rotated = append(rotated, curves[start:]...)
	rotated = append(rotated, curves[:start]...)
	return rotated
}

// segment walks the (already-rotated) curve list, grouping consecutive
// points that continue one another into runs.
func segment(curves []curvature.Point) [][]curvature.Point {
	if len(curves) == 0 {
		return nil
	}

	var runs [][]curvature.Point
	run := []curvature.Point{curves[0]}
	for i := 1; i < len(curves); i++ {
		if continuation(curves[i-1], curves[i]) {
			run = append(run, curves[i])
		} else {
			runs = append(runs, run)
			run = []curvature.Point{curves[i]}
		}
	}
	runs = append(runs, run)
	return runs
}
