package chessgrid

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// claheDefaultClipLimit is the contrast-limit clip value for chessboard
// detection; higher than internal/ocr/tesseract.go's own clip-2 tuning
// because board squares need stronger local contrast than scanned text.
const claheDefaultClipLimit = 8.0

// claheDefaultTileSize matches the tile grid tesseract.go passes to
// NewCLAHEWithParams.
var claheDefaultTileSize = image.Point{X: 8, Y: 8}

// PreprocessOptions selects which contrast-normalization steps Preprocess
// applies, and in what order (equalize/CLAHE, then blur).
type PreprocessOptions struct {
	// EqualizeHistogram applies a global histogram equalization.
	EqualizeHistogram bool
	// CLAHE applies contrast-limited adaptive histogram equalization.
	// Mutually meaningful with EqualizeHistogram but not combined
	// automatically; a caller that sets both gets both, in that order.
	CLAHE bool
	// BlurRadius, if positive, applies a box blur of (2*BlurRadius+1)
	// kernel size after any contrast step.
	BlurRadius int
}

// Preprocess applies opts' selected steps to img and returns the result;
// img is left unmodified. With no step selected it returns img itself,
// sharing its pixel buffer.
func Preprocess(img Image, opts PreprocessOptions) (Image, error) {
	out := img
	var err error
	if opts.EqualizeHistogram {
		out, err = EqualizeHist(out)
		if err != nil {
			return Image{}, err
		}
	}
	if opts.CLAHE {
		out, err = ApplyCLAHE(out)
		if err != nil {
			return Image{}, err
		}
	}
	if opts.BlurRadius > 0 {
		out, err = BoxBlur(out, opts.BlurRadius)
		if err != nil {
			return Image{}, err
		}
	}
	return out, nil
}

// EqualizeHist applies global histogram equalization, boosting contrast in
// images where the chessboard's light and dark squares are both
// compressed into a narrow intensity band.
func EqualizeHist(img Image) (Image, error) {
	src, err := img.ToMat()
	if err != nil {
		return Image{}, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.EqualizeHist(src, &dst)

	return ImageFromMat(dst)
}

// ApplyCLAHE applies contrast-limited adaptive histogram equalization,
// which handles uneven lighting across the board better than a single
// global equalization, using the same NewCLAHEWithParams call
// internal/ocr/tesseract.go uses to normalize scanned PCB photos before OCR,
// tuned to a higher clip limit for chessboard contrast.
func ApplyCLAHE(img Image) (Image, error) {
	src, err := img.ToMat()
	if err != nil {
		return Image{}, err
	}
	defer src.Close()

	clahe := gocv.NewCLAHEWithParams(claheDefaultClipLimit, claheDefaultTileSize)
	defer clahe.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	clahe.Apply(src, &dst)

	return ImageFromMat(dst)
}

// BoxBlur applies a (2*radius+1)-square box blur, smoothing sensor noise
// that would otherwise register as spurious ChESS-5 peaks.
func BoxBlur(img Image, radius int) (Image, error) {
	if radius <= 0 {
		return Image{}, fmt.Errorf("%w: blur radius %d must be positive", ErrInvalidInput, radius)
	}
	src, err := img.ToMat()
	if err != nil {
		return Image{}, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	ksize := image.Point{X: 2*radius + 1, Y: 2*radius + 1}
	gocv.Blur(src, &dst, ksize)

	return ImageFromMat(dst)
}
