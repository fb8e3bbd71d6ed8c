package chessgrid

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// pyramidScale is the resolution ratio between adjacent pyramid levels:
// level L+1 has half the width and height of level L.
const pyramidScale = 2.0

// refineSeedRadius bounds how far, in the finer level's pixel space, a
// refined point may be searched from its rescaled coarse-level seed.
const refineSeedRadius = 3

// scaleCoordUp maps a coordinate at a coarser pyramid level into the next
// finer level's pixel space. The 0.5 offset keeps pixel centers aligned
// under resampling: a pixel center at integer coordinate x in the coarse
// image sits at (x+0.5)*scale-0.5 in the fine image, not x*scale.
func scaleCoordUp(v float64) float64 {
	return (v+0.5)*pyramidScale - 0.5
}

// scaleCoordDown is the inverse of scaleCoordUp, mapping a fine-level
// coordinate down into the next coarser level's pixel space.
func scaleCoordDown(v float64) float64 {
	return (v+0.5)/pyramidScale - 0.5
}

func scalePointUp(p PointF) PointF {
	return PointF{X: scaleCoordUp(p.X), Y: scaleCoordUp(p.Y)}
}

// downsampleHalf returns a new image at half the width and height of img,
// via linear interpolation, matching the original detector's use of
// cv::INTER_LINEAR for pyramid construction.
func downsampleHalf(img Image) (Image, error) {
	mat, err := img.ToMat()
	if err != nil {
		return Image{}, err
	}
	defer mat.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	size := image.Point{X: img.Width / 2, Y: img.Height / 2}
	gocv.Resize(mat, &dst, size, 0, 0, gocv.InterpolationLinear)

	return ImageFromMat(dst)
}

// buildPyramid returns [level0, level1, ...] images, level0 being img
// itself, stopping once a further halving would leave an image too small
// for margin to ever accept a detection.
func buildPyramid(img Image, margin int) ([]Image, error) {
	levels := []Image{img}
	minSize := 2*margin + 3
	for len(levels) <= MaxPyramidLevel {
		prev := levels[len(levels)-1]
		if prev.Width/2 < minSize || prev.Height/2 < minSize {
			break
		}
		next, err := downsampleHalf(prev)
		if err != nil {
			return nil, fmt.Errorf("chessgrid: building pyramid level %d: %w", len(levels), err)
		}
		levels = append(levels, next)
	}
	return levels, nil
}

// FindGrid runs the full auto-level pipeline (§5): it searches from the
// coarsest pyramid level down to the finest, running Find at each level
// until fitter accepts the point cloud as plausibly a chessboard grid, then
// refines that point set level-by-level back down to level 0. A level whose
// refinement pass finds nothing for a given point keeps that point's
// coarser-level position rescaled into the finer level's pixel space,
// rather than dropping it.
//
// It returns the refined points (in level-0, full-resolution pixel space,
// each tagged with the finest level it was actually refined to) and the
// pyramid level at which the initial grid was accepted.
func FindGrid(img Image, p Params, fitter GridFitter, sink DebugSink) ([]RefinedPoint, int, error) {
	if fitter == nil {
		fitter = NullGridFitter{}
	}
	if sink == nil {
		sink = NullSink{}
	}

	levels, err := buildPyramid(img, p.Margin)
	if err != nil {
		return nil, -1, err
	}

	foundLevel := -1
	var foundPoints []PointF
	for level := len(levels) - 1; level >= 0; level-- {
		points, kind, err := findLevelLocal(levels[level], level, p, sink)
		if err != nil && kind == KindInvalidInput {
			return nil, -1, err
		}
		if len(points) == 0 {
			continue
		}
		if fitter.Fits(points) || level == 0 {
			foundLevel = level
			foundPoints = points
			break
		}
	}
	if foundLevel < 0 {
		return nil, -1, fmt.Errorf("%w: no pyramid level produced a plausible grid", ErrInvalidInput)
	}

	refined := make([]RefinedPoint, len(foundPoints))
	for i, pt := range foundPoints {
		refined[i] = RefinedPoint{PointF: pt, Level: int8(foundLevel)}
	}

	for level := foundLevel - 1; level >= 0; level-- {
		seeds := make([]Seed, len(refined))
		rescaled := make([]PointF, len(refined))
		for i, rp := range refined {
			up := scalePointUp(rp.PointF)
			rescaled[i] = up
			seeds[i] = Seed{X: int(math.Round(up.X)), Y: int(math.Round(up.Y))}
		}

		points, kind, err := refineLevelLocal(levels[level], level, p, seeds, refineSeedRadius, sink)
		if err != nil && kind == KindInvalidInput {
			return nil, -1, err
		}

		next := make([]RefinedPoint, len(refined))
		for i := range refined {
			matched, ok := nearestWithin(points, rescaled[i], float64(refineSeedRadius))
			if ok {
				next[i] = RefinedPoint{PointF: matched, Level: int8(level)}
			} else {
				// No surviving peak for this seed: keep the coarser
				// level's position, just rescaled into this level's
				// pixel space, instead of dropping the point.
				next[i] = RefinedPoint{PointF: rescaled[i], Level: refined[i].Level}
			}
		}
		refined = next
	}

	return refined, foundLevel, nil
}

// nearestWithin returns the point in candidates closest to target, if any
// lies within radius of it.
func nearestWithin(candidates []PointF, target PointF, radius float64) (PointF, bool) {
	best := PointF{}
	bestDist := math.Inf(1)
	found := false
	for _, c := range candidates {
		dx, dy := c.X-target.X, c.Y-target.Y
		d := dx*dx + dy*dy
		if d < bestDist {
			bestDist = d
			best = c
			found = true
		}
	}
	if !found || bestDist > radius*radius {
		return PointF{}, false
	}
	return best, true
}
