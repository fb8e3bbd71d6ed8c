package chessgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighVariance_FlatRegionRejected(t *testing.T) {
	img := NewImage(64, 64)
	paintConstant(img, 128)

	p := DefaultParams()
	assert.False(t, highVariance(32, 32, img, p), "a perfectly flat window must not pass the variance gate")
}

func TestHighVariance_LowTextureRejected(t *testing.T) {
	img := NewImage(64, 64)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			v := 128
			if (x+y)%2 == 0 {
				v++
			} else {
				v--
			}
			img.Pix[y*img.Stride+x] = uint8(v)
		}
	}

	p := DefaultParams()
	assert.False(t, highVariance(32, 32, img, p), "intensity wobble of +-1 should stay well under the variance floor")
}

func TestHighVariance_SaddleAccepted(t *testing.T) {
	img := NewImage(64, 64)
	paintSaddle(img, 32, 32, 20, 220)

	p := DefaultParams()
	assert.True(t, highVariance(32, 32, img, p), "a real bright/dark saddle should clear the variance floor")
}

func TestHighVariance_OutOfBoundsRejected(t *testing.T) {
	img := NewImage(64, 64)
	paintSaddle(img, 32, 32, 20, 220)

	p := DefaultParams()
	assert.False(t, highVariance(2, 2, img, p), "a window that would read outside the image must be rejected")
}
