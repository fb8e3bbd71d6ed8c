package chessgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeResponse_ConstantImageIsNonPositive(t *testing.T) {
	img := NewImage(64, 64)
	paintConstant(img, 128)

	resp := make([]int16, img.Width*img.Height)
	ComputeResponse(img, resp, 7)

	for y := 7; y < img.Height-7; y++ {
		for x := 7; x < img.Width-7; x++ {
			v := resp[y*img.Width+x]
			assert.LessOrEqualf(t, v, int16(0), "constant image should never produce a positive response at (%d,%d), got %d", x, y, v)
		}
	}
}

func TestComputeResponse_MarginLeftUntouched(t *testing.T) {
	img := NewImage(64, 64)
	paintSaddle(img, 32, 32, 20, 220)

	resp := make([]int16, img.Width*img.Height)
	for i := range resp {
		resp[i] = -999
	}
	ComputeResponse(img, resp, 7)

	for y := 0; y < 7; y++ {
		for x := 0; x < img.Width; x++ {
			assert.Equal(t, int16(-999), resp[y*img.Width+x], "response operator must not write inside the margin")
		}
	}
}

func TestComputeResponse_SaddlePeaksAtCenter(t *testing.T) {
	img := NewImage(64, 64)
	paintSaddle(img, 32, 32, 20, 220)

	resp := make([]int16, img.Width*img.Height)
	ComputeResponse(img, resp, 7)

	center := resp[32*img.Width+32]
	assert.Greater(t, center, int16(0), "response at a true saddle center should be positive")

	// A point well inside one quadrant sees a uniform neighborhood: no
	// alternation, no contrast against the mean.
	flat := resp[15*img.Width+15]
	assert.LessOrEqual(t, flat, int16(0), "a point inside a uniform quadrant should not register as a corner")

	// A point straddling only the vertical half of the boundary, well away
	// from the crossing, sees a simple bright/dark split, not an
	// alternating saddle.
	edge := resp[15*img.Width+32]
	assert.Less(t, edge, center, "a straight-edge point should score lower than the true saddle crossing")
}
