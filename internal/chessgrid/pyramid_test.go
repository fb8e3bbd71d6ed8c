package chessgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleCoord_FixesMinusHalfMinusHalf(t *testing.T) {
	// Scaling up then back down by the same factor is the identity on
	// reals, with the fixed point at (-0.5, -0.5).
	for _, v := range []float64{-0.5, 0, 3.25, 100, 999.75} {
		up := scaleCoordUp(v)
		down := scaleCoordDown(up)
		assert.InDelta(t, v, down, 1e-9, "scale-up then scale-down must be the identity")
	}

	assert.InDelta(t, -0.5, scaleCoordUp(-0.5), 1e-9, "-0.5 must be a fixed point of scale-up")
	assert.InDelta(t, -0.5, scaleCoordDown(-0.5), 1e-9, "-0.5 must be a fixed point of scale-down")
}

func TestDownsampleHalf_HalvesDimensions(t *testing.T) {
	img := NewImage(64, 48)
	paintCheckerTexture(img, 10, 250)

	half, err := downsampleHalf(img)
	require.NoError(t, err, "downsampleHalf should not fail on a well-formed image")
	assert.Equal(t, 32, half.Width)
	assert.Equal(t, 24, half.Height)
}
