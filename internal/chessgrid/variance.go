package chessgrid

// highVariance reports whether the sample variance of the (2R+1)x(2R+1)
// window of img centered at (x, y) exceeds params' threshold. A spurious
// ChESS peak that falls inside a flat chessboard square is rejected here:
// the square is near-constant, so its window variance stays low even when
// the response operator fires on it.
//
// Out-of-bounds windows return false rather than clamping, matching the
// original detector's "I give up on edges" behavior.
//
// The variance computed is the biased estimator (sum of squared deviations
// divided by window area), not Bessel-corrected — gonum's stat.Variance
// applies the (n-1) correction and would silently change which peaks pass,
// so this is hand-rolled the same way internal/alignment/board_variance.go
// computes its own HSV-variance grid rather than reaching for a library.
func highVariance(x, y int, img Image, p Params) bool {
	r := p.ConstancyWindowR
	if x-r < 0 || x+r >= img.Width || y-r < 0 || y+r >= img.Height {
		return false
	}

	side := 1 + 2*r
	area := int64(side * side)

	var sum int64
	for dy := -r; dy <= r; dy++ {
		row := (y + dy) * img.Stride
		for dx := -r; dx <= r; dx++ {
			sum += int64(img.Pix[row+x+dx])
		}
	}
	mean := sum / area

	var sumDeviationSq int64
	for dy := -r; dy <= r; dy++ {
		row := (y + dy) * img.Stride
		for dx := -r; dx <= r; dx++ {
			deviation := int64(img.Pix[row+x+dx]) - mean
			sumDeviationSq += deviation * deviation
		}
	}
	variance := sumDeviationSq / area

	return variance > p.varianceThreshold()
}
