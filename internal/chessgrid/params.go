package chessgrid

// Params bundles the tunable constants of the response/variance/tracker
// stages into a single named preset, so a caller can never mix e.g. a
// level-200 peak threshold with an R=10 variance window. The source this
// engine is ported from carried two near-duplicate parameter sets with
// differing thresholds; rather than silently collapsing them, both survive
// here as DefaultParams (the refinement-era values) and LegacyParams (the
// original initial-pass values).
type Params struct {
	// ResponseMinPeakThreshold is the minimum response_max a connected
	// component's peak must reach to be accepted.
	ResponseMinPeakThreshold int16
	// ResponseMinThreshold is the minimum response a pixel must have to be
	// considered a growth candidate at all.
	ResponseMinThreshold int16
	// MaxRatioShift is the right-shift applied to a component's running
	// response_max to get the floor a pixel's response must clear once the
	// component already has a peak (response_max >> MaxRatioShift).
	MaxRatioShift uint

	// ConstancyWindowR is the half-width of the square window the variance
	// gate inspects around a candidate peak.
	ConstancyWindowR int
	// StdevThreshold is the minimum standard deviation (not variance) the
	// variance gate requires of that window.
	StdevThreshold int32

	// CCMinSize is the minimum pixel count a connected component must reach.
	CCMinSize int
	// Margin is the pixel-wide border around the image where the response
	// operator's output is not trusted.
	Margin int
}

// DefaultParams returns the refinement-era thresholds: lower peak and
// response floors, a wider variance window. Find and Refine use this preset
// unless told otherwise, per the "defaults matching the refinement-era
// values for the modern path" guidance.
func DefaultParams() Params {
	return Params{
		ResponseMinPeakThreshold: 120,
		ResponseMinThreshold:     15,
		MaxRatioShift:            4,
		ConstancyWindowR:         10,
		StdevThreshold:           20,
		CCMinSize:                2,
		Margin:                   7,
	}
}

// LegacyParams returns the original initial-pass thresholds: a stricter
// peak floor, a narrower variance window. Kept as a named preset rather than
// discarded so callers that depended on the original tuning can opt back in.
func LegacyParams() Params {
	p := DefaultParams()
	p.ResponseMinPeakThreshold = 200
	p.ResponseMinThreshold = 20
	p.ConstancyWindowR = 5
	p.StdevThreshold = 25
	return p
}

// varianceThreshold returns STDEV_THRESHOLD^2, the biased-variance floor the
// gate compares against (the operator never takes a square root).
func (p Params) varianceThreshold() int64 {
	t := int64(p.StdevThreshold)
	return t * t
}

// responseFloorForMax returns the threshold a pixel's response must clear
// once a component already has a running peak of responseMax.
func (p Params) responseFloorForMax(responseMax int16) int16 {
	return responseMax >> p.MaxRatioShift
}
