package chessgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParams_MatchesRefinementEraThresholds(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, int16(120), p.ResponseMinPeakThreshold)
	assert.Equal(t, int16(15), p.ResponseMinThreshold)
	assert.Equal(t, 10, p.ConstancyWindowR)
	assert.Equal(t, int32(20), p.StdevThreshold)
	assert.Equal(t, 2, p.CCMinSize)
	assert.Equal(t, 7, p.Margin)
}

func TestLegacyParams_MatchesInitialPassThresholds(t *testing.T) {
	p := LegacyParams()
	assert.Equal(t, int16(200), p.ResponseMinPeakThreshold)
	assert.Equal(t, int16(20), p.ResponseMinThreshold)
	assert.Equal(t, 5, p.ConstancyWindowR)
	assert.Equal(t, int32(25), p.StdevThreshold)
}

func TestResponseFloorForMax(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, int16(10), p.responseFloorForMax(160))
	assert.Equal(t, int16(0), p.responseFloorForMax(10))
}

func TestVarianceThreshold(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, int64(400), p.varianceThreshold())

	legacy := LegacyParams()
	assert.Equal(t, int64(625), legacy.varianceThreshold())
}
