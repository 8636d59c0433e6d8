package contour

import (
	"testing"

	"github.com/ayusman/handtrace/internal/depthmask"
	"github.com/ayusman/handtrace/internal/vector"
)

// rectMask builds a width x height mask that is InRange inside
// [x0,x1) x [y0,y1) and OutOfRange elsewhere.
func rectMask(width, height, x0, y0, x1, y1 int) []depthmask.Pixel {
	mask := make([]depthmask.Pixel, width*height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			mask[y*width+x] = depthmask.InRange
		}
	}
	return mask
}

func TestTraceNoDuplicates(t *testing.T) {
	width, height := 40, 40
	mask := rectMask(width, height, 10, 5, 30, 35)

	tr := New(DefaultParams())
	points := tr.Trace(mask, width, height)

	seen := make(map[[2]int]bool)
	for _, p := range points {
		key := [2]int{int(p.X), int(p.Y)}
		if seen[key] {
			t.Fatalf("duplicate contour point at %v", key)
		}
		seen[key] = true
	}
}

func TestTraceEmptyMaskFiresCallbackOnce(t *testing.T) {
	width, height := 20, 20
	mask := make([]depthmask.Pixel, width*height) // all OutOfRange

	tr := New(DefaultParams())
	calls := 0
	tr.OnContourDataReady(func(points []vector.Vector, m []depthmask.Pixel) {
		calls++
	})
	tr.Trace(mask, width, height)

	if calls != 1 {
		t.Errorf("OnContourDataReady fired %d times, want exactly 1", calls)
	}
}

func TestTraceRespectsMaxEdgePixels(t *testing.T) {
	width, height := 60, 60
	mask := rectMask(width, height, 0, 0, 60, 60)

	params := DefaultParams()
	params.MaxEdgePixels = 50
	tr := New(params)
	points := tr.Trace(mask, width, height)

	if len(points) > params.MaxEdgePixels+1 {
		t.Errorf("len(points) = %d, want <= %d", len(points), params.MaxEdgePixels+1)
	}
}

func TestTraceEmptyOnAllOutOfRange(t *testing.T) {
	width, height := 10, 10
	mask := make([]depthmask.Pixel, width*height)

	tr := New(DefaultParams())
	points := tr.Trace(mask, width, height)
	if len(points) != 0 {
		t.Errorf("len(points) = %d, want 0 for an empty mask", len(points))
	}
}

func TestTrackerReusableAcrossFrames(t *testing.T) {
	width, height := 30, 30
	mask := rectMask(width, height, 5, 5, 25, 25)

	tr := New(DefaultParams())
	first := tr.Trace(mask, width, height)
	second := tr.Trace(mask, width, height)

	if len(first) != len(second) {
		t.Errorf("reused tracker produced different contour lengths: %d vs %d", len(first), len(second))
	}
}
