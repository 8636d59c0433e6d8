package app

import (
	"fmt"

	"github.com/ayusman/handtrace/internal/contour"
	"github.com/ayusman/handtrace/internal/curvature"
	"github.com/ayusman/handtrace/internal/depthmask"
	"github.com/ayusman/handtrace/internal/enhance"
	"github.com/ayusman/handtrace/internal/finger"
	"github.com/ayusman/handtrace/internal/gesture"
	"github.com/ayusman/handtrace/internal/smooth"
	"github.com/ayusman/handtrace/internal/vector"
)

// maxFingersPerHand truncates whatever the finger recognizer reports to the
// five slots a Hand actually has, per spec.md 4.E ("the list size is
// truncated to at most 5 by the facade").
const maxFingersPerHand = 5

// PipelineParams bundles every stage's configuration into the knobs the
// facade (App) accepts from callers, mirroring spec.md section 6's
// configuration surface.
type PipelineParams struct {
	Threshold                  depthmask.Threshold
	Contour                    contour.Params
	Curvature                  curvature.Params
	Finger                     finger.Params
	SmoothingEnabled           bool
	SmoothingFactor            float64
	PreventHandInconsistencies bool
	Enhance                    enhance.Params
	Match                      gesture.MatchParams
	StreamCapacity             int
}

// DefaultPipelineParams returns the spec's defaults end to end: a depth
// window of 800-4000mm (a comfortable desk-distance hand), and every
// sub-stage's own DefaultParams().
func DefaultPipelineParams() PipelineParams {
	return PipelineParams{
		Threshold:                  depthmask.Threshold{Min: 800, Max: 4000},
		Contour:                    contour.DefaultParams(),
		Curvature:                  curvature.DefaultParams(),
		Finger:                     finger.DefaultParams(),
		SmoothingEnabled:           false,
		SmoothingFactor:            0.5,
		PreventHandInconsistencies: true,
		Enhance:                    enhance.DefaultParams(),
		Match:                      gesture.DefaultMatchParams(),
		StreamCapacity:             gesture.DefaultStreamCapacity,
	}
}

// Pipeline runs one depth frame through the full B-through-K sequence from
// spec.md: range mask, contour trace, k-curvature, fingertip recognition,
// Hand assembly, optional smoothing, consistency enhancement, and finally
// gesture-stream/DTW recognition. A Pipeline owns the stateful stages
// (Tracker's visited set, the Enhancer's rolling queue, the Recognizer's
// stream) and is built once per App, not once per frame.
type Pipeline struct {
	params PipelineParams

	tracker  *contour.Tracker
	curves   *curvature.Detector
	fingers  *finger.Recognizer
	enhancer *enhance.Enhancer

	Recognizer *gesture.Recognizer

	prevHand    finger.Hand
	hasPrevHand bool

	// ContourDataReady, CurvesReady and FingertipLocationsReady mirror the
	// push-style events from spec.md section 6; each stage's own callback
	// is wired straight through here at construction time.
	ContourDataReady        func(points []vector.Vector, mask []depthmask.Pixel)
	CurvesReady             func(curves []curvature.Point)
	FingertipLocationsReady func(fingertips []finger.Fingertip)
}

// NewPipeline builds a Pipeline over the given parameters and gesture
// library, wiring every sub-stage's ready-callback to this Pipeline's own
// exported event fields.
func NewPipeline(params PipelineParams, library []gesture.Gesture) *Pipeline {
	p := &Pipeline{
		params:     params,
		tracker:    contour.New(params.Contour),
		curves:     curvature.New(params.Curvature),
		fingers:    finger.New(params.Finger),
		enhancer:   enhance.New(params.Enhance),
		Recognizer: gesture.NewRecognizer(params.StreamCapacity, params.Match, library),
	}

	p.tracker.OnContourDataReady(func(points []vector.Vector, mask []depthmask.Pixel) {
		if p.ContourDataReady != nil {
			p.ContourDataReady(points, mask)
		}
	})
	p.curves.OnCurvesReady(func(c []curvature.Point) {
		if p.CurvesReady != nil {
			p.CurvesReady(c)
		}
	})
	p.fingers.OnFingertipLocationsReady(func(f []finger.Fingertip) {
		if p.FingertipLocationsReady != nil {
			p.FingertipLocationsReady(f)
		}
	})

	return p
}

// ProcessFrame runs one depth frame through the pipeline, forwarding
// whichever Hands come out the other end of the consistency enhancer into
// the DTW recognizer/facade. It never returns an error for the "nothing
// found" case (an all-OutOfRange mask still produces a Hand with five
// FingerNotFound slots); a dimension mismatch against width*height is
// reported so the caller (internal/capture.Source's frame delivery) can log
// and drop just that frame.
func (p *Pipeline) ProcessFrame(distances []int16, width, height int) error {
	mask, err := depthmask.Mask(distances, width, height, p.params.Threshold)
	if err != nil {
		return fmt.Errorf("pipeline: mask frame: %w", err)
	}

	contourPoints := p.tracker.Trace(mask, width, height)
	curvePoints, err := p.curves.Detect(contourPoints)
	if err != nil {
		return fmt.Errorf("pipeline: detect curves: %w", err)
	}
	fingertips := p.fingers.Recognize(curvePoints, mask, width, height)
	if len(fingertips) > maxFingersPerHand {
		fingertips = fingertips[:maxFingersPerHand]
	}

	hand := finger.Assemble(fingertips)

	if p.params.SmoothingEnabled && p.hasPrevHand {
		if smoothed, err := smooth.Hand(hand, p.prevHand, p.params.SmoothingFactor); err == nil {
			hand = smoothed
		}
	}
	p.prevHand = hand
	p.hasPrevHand = true

	var forwarded []finger.Hand
	if p.params.PreventHandInconsistencies {
		forwarded = p.enhancer.Process(hand)
	} else {
		forwarded = []finger.Hand{hand}
	}

	for _, h := range forwarded {
		p.Recognizer.AnalyzeFrame(h)
	}
	return nil
}
