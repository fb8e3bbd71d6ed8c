package chessgrid

import (
	"fmt"
	"math"
)

// MaxPyramidLevel bounds how coarse a pyramid level Find/Refine will accept;
// beyond this the image would be smaller than the margin requires long
// before reaching it.
const MaxPyramidLevel = 10

// Point is a FindGridScale-scaled fixed-point coordinate in full (level 0)
// image resolution: the wire type Find and Refine hand to a downstream
// grid-fitting stage, which works in integers rather than doubles.
type Point struct {
	X, Y int32
}

// Result is the outcome of one Find or Refine pass: the points it accepted,
// rescaled to full image resolution and Point-quantized, and which of the
// three error kinds (if any) applies.
type Result struct {
	Points []Point
	Kind   ErrorKind
}

// toFullRes maps a point at the given pyramid level into full-resolution
// (level 0) pixel space: level L is pyramidScale^L times coarser than level
// 0, so the per-level scaleCoordUp step composes into a single closed-form
// rescale rather than looping L times.
func toFullRes(p PointF, level int) PointF {
	scale := math.Pow(pyramidScale, float64(level))
	return PointF{
		X: (p.X+0.5)*scale - 0.5,
		Y: (p.Y+0.5)*scale - 0.5,
	}
}

// quantize rounds a full-resolution double-precision point to the
// FindGridScale fixed-point Point the downstream grid fitter consumes.
func quantize(p PointF) Point {
	return Point{
		X: int32(math.Round(p.X * FindGridScale)),
		Y: int32(math.Round(p.Y * FindGridScale)),
	}
}

// quantizeAll rescales every level-local point to full resolution and
// quantizes it.
func quantizeAll(points []PointF, level int) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = quantize(toFullRes(p, level))
	}
	return out
}

// GridFitter decides whether a cloud of points looks enough like a
// chessboard's interior grid to stop descending the pyramid and start
// refining. The actual grid-topology fit is out of scope for this package;
// NullGridFitter is a placeholder a caller can use until a real fitter is
// wired in.
type GridFitter interface {
	// Fits reports whether points plausibly form a chessboard grid.
	Fits(points []PointF) bool
}

// NullGridFitter never accepts, so FindGrid always descends all the way to
// level 0 before giving up. Useful for callers that only want the level-0
// corner cloud and have no grid-topology check of their own yet.
type NullGridFitter struct{}

func (NullGridFitter) Fits(points []PointF) bool { return false }

// Find runs one full, seed-free detection pass over img at the given
// pyramid level and returns every accepted corner, rescaled to full image
// resolution and quantized to Point's fixed-point representation.
func Find(img Image, level int, p Params, sink DebugSink) (Result, error) {
	points, kind, err := findLevelLocal(img, level, p, sink)
	return Result{Points: quantizeAll(points, level), Kind: kind}, err
}

// Refine re-detects around each of seeds at the given pyramid level,
// searching only a small neighborhood of each seed rather than the whole
// image. seedRadius bounds how far a seed may have drifted since the
// coarser level it was found at; a seed with no surviving peak within that
// radius is dropped rather than propagated as a stale guess. Accepted
// points are rescaled to full image resolution and Point-quantized.
func Refine(img Image, level int, p Params, seeds []Seed, seedRadius int, sink DebugSink) (Result, error) {
	points, kind, err := refineLevelLocal(img, level, p, seeds, seedRadius, sink)
	return Result{Points: quantizeAll(points, level), Kind: kind}, err
}

// findLevelLocal is Find's implementation, returning points in the given
// level's own pixel space rather than rescaled to full resolution. FindGrid
// uses this directly, since its pyramid-descent bookkeeping (seed rescale,
// nearest-match radius) works in each level's native pixel space and would
// have to immediately undo Find's rescale otherwise.
func findLevelLocal(img Image, level int, p Params, sink DebugSink) ([]PointF, ErrorKind, error) {
	if sink == nil {
		sink = NullSink{}
	}
	if level < 0 || level > MaxPyramidLevel {
		return nil, KindInvalidInput, fmt.Errorf("%w: pyramid level %d out of range [0, %d]", ErrInvalidInput, level, MaxPyramidLevel)
	}
	if err := img.Validate(p.Margin); err != nil {
		return nil, KindInvalidInput, err
	}

	resp := make([]int16, img.Width*img.Height)
	ComputeResponse(img, resp, p.Margin)
	points := processFull(resp, img, p)

	// Debug-artifact failures are logged by the caller and never affect
	// the points already computed above.
	debugErr := writeDebugArtifacts(sink, img, resp, level, "find", points)
	if debugErr != nil {
		return points, KindDebugIO, debugErr
	}
	if len(points) == 0 {
		return nil, KindNoDetection, nil
	}
	return points, KindNone, nil
}

// refineLevelLocal is Refine's implementation, returning points in the
// given level's own pixel space. See findLevelLocal.
func refineLevelLocal(img Image, level int, p Params, seeds []Seed, seedRadius int, sink DebugSink) ([]PointF, ErrorKind, error) {
	if sink == nil {
		sink = NullSink{}
	}
	if level < 0 || level > MaxPyramidLevel {
		return nil, KindInvalidInput, fmt.Errorf("%w: pyramid level %d out of range [0, %d]", ErrInvalidInput, level, MaxPyramidLevel)
	}
	if err := img.Validate(p.Margin); err != nil {
		return nil, KindInvalidInput, err
	}
	if len(seeds) == 0 {
		return nil, KindNoDetection, nil
	}

	resp := make([]int16, img.Width*img.Height)
	ComputeResponse(img, resp, p.Margin)
	points := processRefine(resp, img, p, seeds, seedRadius)

	debugErr := writeDebugArtifacts(sink, img, resp, level, "refine", points)
	if debugErr != nil {
		return points, KindDebugIO, debugErr
	}
	if len(points) == 0 {
		return nil, KindNoDetection, nil
	}
	return points, KindNone, nil
}

// writeDebugArtifacts emits the four debug artifact kinds this pass can
// produce: the scaled/preprocessed input image actually fed to the response
// operator, the response field in both its raw signed range and its
// positive-only (candidate) range, and the accepted point dump. It returns
// the last write error encountered, if any, continuing through the rest so
// one failing sink method doesn't suppress the others.
func writeDebugArtifacts(sink DebugSink, img Image, resp []int16, level int, pass string, points []PointF) error {
	var debugErr error
	if err := sink.WriteScaledImage(level, pass, img); err != nil {
		debugErr = err
	}
	if err := sink.WriteResponseImage(level, pass, normalizeResponseRawForDisplay(resp, img.Width, img.Height)); err != nil {
		debugErr = err
	}
	if err := sink.WriteResponseImage(level, pass+"-positive", normalizeResponsePositiveForDisplay(resp, img.Width, img.Height)); err != nil {
		debugErr = err
	}
	if err := sink.WritePoints(level, pass, points); err != nil {
		debugErr = err
	}
	return debugErr
}
