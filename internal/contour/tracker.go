// Package contour traces the silhouette of the in-range depth region: a
// stateful 8-direction raster walk that follows the boundary pixel by pixel,
// with fallback search strategies when the primary heuristic loses the edge.
package contour

import (
	"errors"

	"github.com/ayusman/handtrace/internal/depthmask"
	"github.com/ayusman/handtrace/internal/vector"
)

// ErrNoSeedPixel names the case where the seed scan finds no InRange pixel
// to start the walk from. No function in this package returns it: Trace
// treats a missing seed as an empty, not erroneous, result.
var ErrNoSeedPixel = errors.New("contour: no in-range seed pixel found")

// SearchDirection is the tracker's notion of current heading around the
// silhouette.
type SearchDirection int

const (
	DirUndefined SearchDirection = iota
	UpLeft
	UpRight
	DownRight
	DownLeft
)

// nextMostProbable is the fixed quadrant-preference table from the spec,
// tuned for finger contours that run upward: having just stepped UpLeft, the
// next most likely heading is UpRight (rounding a fingertip), and so on.
var nextMostProbable = map[SearchDirection]SearchDirection{
	UpLeft:    UpRight,
	UpRight:   DownRight,
	DownRight: UpRight,
	DownLeft:  DownRight,
}

// clockwiseOrder lists all four quadrants in clockwise rotation.
var clockwiseOrder = [4]SearchDirection{UpLeft, UpRight, DownRight, DownLeft}

// Params configures one Tracker.
type Params struct {
	MaxEdgePixels       int
	RowsToSkip          int
	MaxBacktrack        int
	ScanHeightOffset    float64 // fraction of H, e.g. 0.2
	EnableScanFromLeft  bool
	EnableScanFromRight bool
	GridRadius          int
}

// DefaultParams returns the spec's defaults.
func DefaultParams() Params {
	return Params{
		MaxEdgePixels:       700,
		RowsToSkip:          5,
		MaxBacktrack:        25,
		ScanHeightOffset:    0.2,
		EnableScanFromLeft:  true,
		EnableScanFromRight: false,
		GridRadius:          2,
	}
}

type point struct{ X, Y int }

func (p point) toVector() vector.Vector { return vector.New(float64(p.X), float64(p.Y), 0) }

// Tracker holds the walk's mutable state: the visited set and working
// buffers. Per the design notes, a Tracker is meant to be created once and
// reused across frames via Reset, avoiding per-frame reallocation of its
// internal maps.
type Tracker struct {
	params  Params
	visited map[point]int // position -> index in contour output, for O(1) membership + backtrack lookup
	onReady func(points []vector.Vector, mask []depthmask.Pixel)

	mask   []depthmask.Pixel
	width  int
	height int
}

// New creates a Tracker with the given parameters.
func New(params Params) *Tracker {
	return &Tracker{
		params:  params,
		visited: make(map[point]int),
	}
}

// OnContourDataReady registers the callback fired exactly once per Trace
// call, even when the traced contour is empty.
func (t *Tracker) OnContourDataReady(fn func(points []vector.Vector, mask []depthmask.Pixel)) {
	t.onReady = fn
}

// Reset clears per-frame state so the Tracker can be reused for the next
// frame without reallocating its visited set.
func (t *Tracker) Reset() {
	for k := range t.visited {
		delete(t.visited, k)
	}
}

// Trace walks the silhouette described by mask (width x height) and returns
// the ordered list of boundary pixel positions. It never returns an error to
// the caller for "nothing found" conditions — those surface as an empty
// result, per the pipeline's never-raise-on-empty-input policy.
func (t *Tracker) Trace(mask []depthmask.Pixel, width, height int) []vector.Vector {
	t.mask, t.width, t.height = mask, width, height
	t.Reset()

	var contour []vector.Vector
	if seed, ok := t.findSeedFromLeft(); ok {
		contour = t.walk(seed)
	}

	if t.params.EnableScanFromRight && len(contour) == 0 {
		if seed, ok := t.findSeedFromRight(); ok {
			t.Reset()
			contour = t.walk(seed)
		}
	}

	if t.onReady != nil {
		t.onReady(contour, mask)
	}
	return contour
}

// findSeedFromLeft implements the left-scan seed search: starting at row
// H-1-offset, stepping upward by RowsToSkip, scanning each row left to
// right for the first InRange pixel.
func (t *Tracker) findSeedFromLeft() (point, bool) {
	if !t.params.EnableScanFromLeft {
		return point{}, false
	}
	offset := int(t.params.ScanHeightOffset * float64(t.height))
	startRow := t.height - 1 - offset
	if startRow >= t.height {
		startRow = t.height - 1
	}
	step := t.params.RowsToSkip
	if step <= 0 {
		step = 1
	}
	for y := startRow; y >= 0; y -= step {
		for x := 0; x < t.width; x++ {
			if t.at(x, y) == depthmask.InRange {
				return point{x, y}, true
			}
		}
	}
	return point{}, false
}

// findSeedFromRight scans from the bottom-right upward; on finding an
// InRange pixel it walks leftward along that row to the first OutOfRange
// pixel, returning the left-object boundary pixel the spec describes
// starting a fresh walk from.
func (t *Tracker) findSeedFromRight() (point, bool) {
	step := t.params.RowsToSkip
	if step <= 0 {
		step = 1
	}
	for y := t.height - 1; y >= 0; y -= step {
		for x := t.width - 1; x >= 0; x-- {
			if t.at(x, y) == depthmask.InRange {
				lx := x
				for lx > 0 && t.at(lx-1, y) == depthmask.InRange {
					lx--
				}
				return point{lx, y}, true
			}
		}
	}
	return point{}, false
}

func (t *Tracker) at(x, y int) depthmask.Pixel {
	return depthmask.At(t.mask, t.width, t.height, x, y)
}

// isBoundary reports whether (x,y) is an InRange pixel with at least one
// 4-connected OutOfRange neighbour — a boundary pixel rather than an
// interior one.
func (t *Tracker) isBoundary(x, y int) bool {
	if t.at(x, y) != depthmask.InRange {
		return false
	}
	return t.at(x-1, y) == depthmask.OutOfRange ||
		t.at(x+1, y) == depthmask.OutOfRange ||
		t.at(x, y-1) == depthmask.OutOfRange ||
		t.at(x, y+1) == depthmask.OutOfRange
}

// quadrantOffsets returns, for a given heading, the scan order of (dx,dy)
// offsets within the grid-radius box in that quadrant — nearest ring first,
// and within a ring the order the spec favours for upward finger contours
// (vertical step before horizontal).
func (t *Tracker) quadrantOffsets(dir SearchDirection) [][2]int {
	r := t.params.GridRadius
	if r <= 0 {
		r = 1
	}
	var offsets [][2]int
	signX, signY := 1, 1
	switch dir {
	case UpLeft:
		signX, signY = -1, -1
	case UpRight:
		signX, signY = 1, -1
	case DownRight:
		signX, signY = 1, 1
	case DownLeft:
		signX, signY = -1, 1
	}
	for ring := 1; ring <= r; ring++ {
		// straight vertical step first, then the diagonal, then the
		// straight horizontal step — biases the search toward following an
		// upward (or downward) edge rather than jumping sideways.
		offsets = append(offsets, [2]int{0, ring * signY})
		offsets = append(offsets, [2]int{ring * signX, ring * signY})
		offsets = append(offsets, [2]int{ring * signX, 0})
	}
	return offsets
}

// searchQuadrant looks for the nearest boundary pixel within the
// grid-radius box in the given quadrant relative to pos, per the scan order
// from quadrantOffsets. It does not consult the visited set — callers decide
// what to do with a duplicate candidate.
func (t *Tracker) searchQuadrant(pos point, dir SearchDirection) (point, bool) {
	for _, off := range t.quadrantOffsets(dir) {
		cand := point{pos.X + off[0], pos.Y + off[1]}
		if t.isBoundary(cand.X, cand.Y) {
			return cand, true
		}
	}
	return point{}, false
}

// clockwiseFrom returns the four quadrants in clockwise order starting at
// dir (or, for Undefined, starting at UpLeft).
func clockwiseFrom(dir SearchDirection) [4]SearchDirection {
	start := 0
	for i, d := range clockwiseOrder {
		if d == dir {
			start = i
			break
		}
	}
	var out [4]SearchDirection
	for i := 0; i < 4; i++ {
		out[i] = clockwiseOrder[(start+i)%4]
	}
	return out
}

func reverse4(in [4]SearchDirection) [4]SearchDirection {
	return [4]SearchDirection{in[0], in[3], in[2], in[1]}
}

// sweep tries each quadrant in order, returning the first boundary pixel
// found by any of them.
func (t *Tracker) sweep(pos point, order [4]SearchDirection) (point, SearchDirection, bool) {
	for _, d := range order {
		if cand, ok := t.searchQuadrant(pos, d); ok {
			return cand, d, true
		}
	}
	return point{}, DirUndefined, false
}

// lineEndProbe handles the case where the local neighbourhood around pos is
// a single-pixel-wide stripe (vertical or horizontal): it walks along the
// stripe, away from the already-visited side, until the stripe ends, and
// returns that terminal pixel.
func (t *Tracker) lineEndProbe(pos point) (point, bool) {
	// Horizontal stripe: the row is InRange but the rows immediately above
	// and below are OutOfRange.
	horizontal := t.at(pos.X, pos.Y-1) == depthmask.OutOfRange && t.at(pos.X, pos.Y+1) == depthmask.OutOfRange
	vertical := t.at(pos.X-1, pos.Y) == depthmask.OutOfRange && t.at(pos.X+1, pos.Y) == depthmask.OutOfRange

	limit := t.params.MaxEdgePixels
	if limit <= 0 {
		limit = t.width + t.height
	}

	if horizontal {
		for _, dir := range []int{1, -1} {
			x := pos.X
			for steps := 0; steps < limit; steps++ {
				nx := x + dir
				if t.at(nx, pos.Y) != depthmask.InRange {
					break
				}
				x = nx
			}
			if end := (point{x, pos.Y}); end != pos && !t.isVisited(end) {
				return end, true
			}
		}
	}
	if vertical {
		for _, dir := range []int{1, -1} {
			y := pos.Y
			for steps := 0; steps < limit; steps++ {
				ny := y + dir
				if t.at(pos.X, ny) != depthmask.InRange {
					break
				}
				y = ny
			}
			if end := (point{pos.X, y}); end != pos && !t.isVisited(end) {
				return end, true
			}
		}
	}
	return point{}, false
}

func (t *Tracker) isVisited(p point) bool {
	_, ok := t.visited[p]
	return ok
}

// backtrack steps back through up to MaxBacktrack prior contour pixels; at
// each it performs a clockwise sweep looking for an as-yet-undiscovered
// neighbour.
func (t *Tracker) backtrack(contour []point, dir SearchDirection) (point, SearchDirection, bool) {
	limit := t.params.MaxBacktrack
	if limit > len(contour) {
		limit = len(contour)
	}
	for i := 1; i <= limit; i++ {
		from := contour[len(contour)-i]
		if cand, d, ok := t.sweep(from, clockwiseFrom(dir)); ok && !t.isVisited(cand) {
			return cand, d, true
		}
	}
	return point{}, DirUndefined, false
}

// walk runs the silhouette walk starting at seed. It implements the
// priority ladder described in the spec: current quadrant, next-most-
// probable quadrant, clockwise sweep, counter-clockwise sweep on duplicate,
// single-line-end probe, backtrack.
func (t *Tracker) walk(seed point) []vector.Vector {
	dir := UpLeft
	current := seed
	t.visited[current] = 0
	contour := []point{current}

	maxEdge := t.params.MaxEdgePixels
	if maxEdge <= 0 {
		maxEdge = 1
	}

	for {
		// next() never hands back an already-visited candidate (duplicates
		// are screened out by resolveDuplicate/backtrack below), which is
		// what keeps the output duplicate-free; the walk instead terminates
		// via "no candidate found" once every fallback is exhausted.
		cand, newDir, ok := t.next(current, dir, contour)
		if !ok {
			break
		}

		t.visited[cand] = len(contour)
		contour = append(contour, cand)
		current = cand
		dir = newDir

		if len(contour) > maxEdge {
			break
		}
	}

	out := make([]vector.Vector, len(contour))
	for i, p := range contour {
		out[i] = p.toVector()
	}
	return out
}

// next implements one step of the priority ladder from pos, given the
// current heading and the contour built so far (for backtrack).
func (t *Tracker) next(pos point, dir SearchDirection, contour []point) (point, SearchDirection, bool) {
	// 1. current quadrant directional routine.
	if cand, ok := t.searchQuadrant(pos, dir); ok {
		return t.resolveDuplicate(pos, cand, dir, dir, contour)
	}

	// 2. next-most-probable quadrant.
	if nd, ok := nextMostProbable[dir]; ok {
		if cand, ok := t.searchQuadrant(pos, nd); ok {
			return t.resolveDuplicate(pos, cand, nd, dir, contour)
		}
	}

	// 3. clockwise sweep across all four quadrants starting from the
	// current one.
	if cand, d, ok := t.sweep(pos, clockwiseFrom(dir)); ok {
		return t.resolveDuplicate(pos, cand, d, dir, contour)
	}

	// 6. backtrack (4/5 folded into resolveDuplicate above for the rare case
	// where even the first-choice candidate was a duplicate; here we had no
	// candidate at all).
	return t.backtrack(contour, dir)
}

// resolveDuplicate implements steps 4 and 5 of the ladder: if the chosen
// candidate is already visited, retry with a counter-clockwise sweep; if
// that is still a duplicate, fall back to the single-line-end probe; if that
// also fails, fall through to backtrack.
func (t *Tracker) resolveDuplicate(pos, cand point, foundDir, curDir SearchDirection, contour []point) (point, SearchDirection, bool) {
	if !t.isVisited(cand) {
		return cand, foundDir, true
	}

	// 4. counter-clockwise sweep instead.
	if ccand, d, ok := t.sweep(pos, reverse4(clockwiseFrom(curDir))); ok && !t.isVisited(ccand) {
		return ccand, d, true
	}

	// 5. single-line-end probe.
	if end, ok := t.lineEndProbe(pos); ok {
		return end, curDir, true
	}

	// 6. backtrack.
	return t.backtrack(contour, curDir)
}
