// Package chessgrid detects the interior grid of corners of a planar
// chessboard calibration target in a grayscale image: the ChESS corner
// response operator, the connected-component tracker that turns a response
// field into weighted centroids, and the image-pyramid controller that
// drives an initial coarse detection followed by per-point refinement.
package chessgrid

import (
	"fmt"

	"gocv.io/x/gocv"
)

// FindGridScale is the fixed-point multiplier applied to double-precision
// pixel coordinates before handing points to the (external) grid-fitting
// stage. It is part of the wire contract with that stage; do not change it
// without coordinating the downstream consumer.
const FindGridScale = 1024

// Image is a contiguous 8-bit grayscale raster: stride equals width, so
// pixel (x, y) lives at Pix[y*Stride+x]. This is the data model §3 requires
// for the response operator and tracker to index directly into a flat slice.
type Image struct {
	Pix    []uint8
	Stride int
	Width  int
	Height int
}

// NewImage allocates a zeroed contiguous image of the given size.
func NewImage(width, height int) Image {
	return Image{
		Pix:    make([]uint8, width*height),
		Stride: width,
		Width:  width,
		Height: height,
	}
}

// At returns the pixel value at (x, y). Callers must keep x, y in bounds;
// this is a hot-path accessor used by the response operator and is not
// bounds-checked beyond what a slice index panic would already give.
func (img Image) At(x, y int) uint8 {
	return img.Pix[y*img.Stride+x]
}

// Validate reports whether img satisfies the contiguity and minimum-size
// contract required by the detector (§6): stride equal to width, and both
// dimensions large enough to hold at least one pixel outside the margin.
func (img Image) Validate(margin int) error {
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("%w: image has non-positive dimensions %dx%d", ErrInvalidInput, img.Width, img.Height)
	}
	if img.Stride != img.Width {
		return fmt.Errorf("%w: non-contiguous image (stride %d, width %d)", ErrInvalidInput, img.Stride, img.Width)
	}
	if len(img.Pix) != img.Stride*img.Height {
		return fmt.Errorf("%w: pixel buffer length %d does not match %dx%d", ErrInvalidInput, len(img.Pix), img.Stride, img.Height)
	}
	minSize := 2*margin + 3
	if img.Width < minSize || img.Height < minSize {
		return fmt.Errorf("%w: image %dx%d smaller than minimum %dx%d for margin %d",
			ErrInvalidInput, img.Width, img.Height, minSize, minSize, margin)
	}
	return nil
}

// ToMat copies img into a new single-channel 8-bit gocv.Mat. The caller owns
// the returned Mat and must Close it.
func (img Image) ToMat() (gocv.Mat, error) {
	return gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC1, img.Pix)
}

// ImageFromMat copies a single-channel 8-bit gocv.Mat into an Image. The Mat
// is not modified or closed by this function.
func ImageFromMat(mat gocv.Mat) (Image, error) {
	if mat.Empty() {
		return Image{}, fmt.Errorf("%w: empty image", ErrInvalidInput)
	}
	if mat.Type() != gocv.MatTypeCV8UC1 {
		return Image{}, fmt.Errorf("%w: expected single-channel 8-bit image, got type %d", ErrInvalidInput, mat.Type())
	}
	w, h := mat.Cols(), mat.Rows()
	return Image{
		Pix:    mat.ToBytes(),
		Stride: w,
		Width:  w,
		Height: h,
	}, nil
}

// LoadGrayscale reads an image file (any format gocv.IMRead can decode) as
// 8-bit grayscale. It does not go through the standard image package, so
// decoders registered there play no part.
func LoadGrayscale(path string) (Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer mat.Close()
	if mat.Empty() {
		return Image{}, fmt.Errorf("%w: could not read image %q", ErrInvalidInput, path)
	}
	return ImageFromMat(mat)
}
