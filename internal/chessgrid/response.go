package chessgrid

// chessRingOffset is one of the 16 (dx, dy) samples of the ChESS-5 ring,
// laid out at roughly 22.5-degree increments around a radius-5 circle.
type chessRingOffset struct{ dx, dy int }

// chessRing holds the 16 offsets used by the ChESS-5 operator, in angular
// order so that ring[i] and ring[i+8] are the diametrically opposite pair.
var chessRing = [16]chessRingOffset{
	{5, 0}, {5, 2}, {4, 4}, {2, 5},
	{0, 5}, {-2, 5}, {-4, 4}, {-5, 2},
	{-5, 0}, {-5, -2}, {-4, -4}, {-2, -5},
	{0, -5}, {2, -5}, {4, -4}, {5, -2},
}

// chessRingRadius is the largest offset magnitude in chessRing; a margin
// smaller than this would let the ring read outside the image.
const chessRingRadius = 5

// ComputeResponse fills resp (already sized to img.Width*img.Height, row
// major, stride == img.Width) with the ChESS-5 corner response at every
// pixel at least margin away from the border. Pixels inside that margin are
// left as they were (zero in a freshly made slice) and must not be trusted
// by callers (§4.1): the operator never writes there. margin is normally
// Params.Margin, which leaves slack beyond chessRingRadius for the tracker's
// own component growth.
//
// The response combines three terms sampled around a 16-point ring at radius
// 5: the sum response, |(I[n]+I[n+8]) - (I[n+4]+I[n+12])| over the four
// quarter-turn-apart diameters (large when the neighborhood alternates
// bright/dark around the center, as a chessboard saddle does); minus the
// diff response, |I[n]-I[n+8]| over the eight diameters (large across a
// straight edge, where opposite samples differ, but near zero at a saddle,
// whose opposite samples match); minus 16 times the difference between the
// ring mean and the mean of the center pixel and its four neighbors. The
// resulting score is strongly positive at saddle points, small or negative
// elsewhere.
func ComputeResponse(img Image, resp []int16, margin int) {
	if margin < chessRingRadius {
		margin = chessRingRadius
	}
	w, h := img.Width, img.Height
	for y := margin; y < h-margin; y++ {
		row := y * w
		for x := margin; x < w-margin; x++ {
			resp[row+x] = chessResponseAt(img, x, y)
		}
	}
}

func chessResponseAt(img Image, x, y int) int16 {
	var samples [16]int32
	var sum int32
	for i, o := range chessRing {
		v := int32(img.Pix[(y+o.dy)*img.Stride+(x+o.dx)])
		samples[i] = v
		sum += v
	}
	mean := sum / 16

	var alternation int32
	for i := 0; i < 8; i++ {
		d := samples[i] - samples[i+8]
		if d < 0 {
			d = -d
		}
		alternation += d
	}

	var sumResponse int32
	for i := 0; i < 4; i++ {
		d := samples[i] + samples[i+8] - samples[i+4] - samples[i+12]
		if d < 0 {
			d = -d
		}
		sumResponse += d
	}

	localMean := (int32(img.At(x, y)) + int32(img.At(x-1, y)) + int32(img.At(x+1, y)) +
		int32(img.At(x, y-1)) + int32(img.At(x, y+1))) / 5
	meanResponse := mean - localMean
	if meanResponse < 0 {
		meanResponse = -meanResponse
	}

	response := sumResponse - alternation - 16*meanResponse
	// Clamp into int16 range; in practice 8-bit samples keep this well
	// within range, but the clamp keeps the contract honest.
	switch {
	case response > 32767:
		return 32767
	case response < -32768:
		return -32768
	default:
		return int16(response)
	}
}
