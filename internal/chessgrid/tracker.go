package chessgrid

// Seed is an integer pixel coordinate in whatever pyramid level it was
// found at, used to re-enter the response field for a Refine pass near a
// previously accepted point.
type Seed struct {
	X, Y int
}

// PointF is a sub-pixel coordinate in the same pyramid level's pixel space.
type PointF struct {
	X, Y float64
}

// RefinedPoint is a point carried through the pyramid, tagged with the
// finest level it was successfully refined to. Level 0 is full resolution;
// higher levels are coarser (half the resolution per level).
type RefinedPoint struct {
	PointF
	Level int8
}

// xyStack is a LIFO of pixel coordinates, used by followConnectedComponent
// to flood-fill a component without recursion.
type xyStack struct {
	xs, ys []int16
}

func (s *xyStack) push(x, y int) {
	s.xs = append(s.xs, int16(x))
	s.ys = append(s.ys, int16(y))
}

func (s *xyStack) pop() (x, y int, ok bool) {
	n := len(s.xs)
	if n == 0 {
		return 0, 0, false
	}
	n--
	x, y = int(s.xs[n]), int(s.ys[n])
	s.xs = s.xs[:n]
	s.ys = s.ys[:n]
	return x, y, true
}

// componentAccumulator tracks the running state of one connected component
// as followConnectedComponent grows it: a response-weighted centroid, the
// pixel count, the running peak response and its location, and whether the
// flood fill ever touched the forbidden margin.
type componentAccumulator struct {
	sumWX, sumWY int64
	sumW         int64
	n            int

	peakX, peakY int
	responseMax  int16

	touchedMargin bool
}

func (c *componentAccumulator) accumulate(x, y int, response int16) {
	w := int64(response)
	c.sumWX += w * int64(x)
	c.sumWY += w * int64(y)
	c.sumW += w
	c.n++
	if response > c.responseMax {
		c.responseMax = response
		c.peakX, c.peakY = x, y
	}
}

// centroid returns the response-weighted centroid of the component. The
// caller must ensure sumW > 0.
func (c *componentAccumulator) centroid() PointF {
	return PointF{
		X: float64(c.sumWX) / float64(c.sumW),
		Y: float64(c.sumWY) / float64(c.sumW),
	}
}

// isValid reports whether the finished component clears the minimum-size
// and minimum-peak floors, never touched the margin, and sits over a
// sufficiently high-variance neighborhood.
func (c *componentAccumulator) isValid(img Image, p Params) bool {
	if c.touchedMargin {
		return false
	}
	if c.n < p.CCMinSize {
		return false
	}
	if c.responseMax <= p.ResponseMinPeakThreshold {
		return false
	}
	if c.sumW <= 0 {
		return false
	}
	return highVariance(c.peakX, c.peakY, img, p)
}

// followConnectedComponent flood-fills the positive-response region
// connected to (x0, y0), consuming each visited pixel by zeroing it in resp
// so neither this call nor a later scan revisits it. Growth follows 4
// connectivity and a monotone floor: once the component has a running peak,
// a neighbor must clear responseMax>>MaxRatioShift to keep growing, not just
// ResponseMinThreshold. A pixel within margin of the border halts growth
// there and marks the component invalid, matching the original tracker's
// refusal to trust response values it never computed.
func followConnectedComponent(resp []int16, img Image, p Params, x0, y0 int, stack *xyStack) componentAccumulator {
	var acc componentAccumulator
	w, h := img.Width, img.Height

	inInterior := func(x, y int) bool {
		return x >= p.Margin && x < w-p.Margin && y >= p.Margin && y < h-p.Margin
	}

	// considerNeighbor mirrors the original tracker's check_and_push: a
	// neighbor outside the margin-shrunken interior marks the component as
	// margin-touched and is never pushed, regardless of its response; only
	// once a neighbor clears that geometric test does its response value
	// decide whether it is worth visiting at all.
	considerNeighbor := func(x, y int) {
		if !inInterior(x, y) {
			acc.touchedMargin = true
			return
		}
		if resp[y*w+x] <= 0 {
			return
		}
		stack.push(x, y)
	}

	considerNeighbor(x0, y0)
	for {
		x, y, ok := stack.pop()
		if !ok {
			break
		}

		idx := y*w + x
		response := resp[idx]
		if response <= 0 {
			// Already zeroed by an earlier visit (the same cell can be
			// pushed more than once before it is first popped).
			continue
		}
		resp[idx] = 0

		floor := p.ResponseMinThreshold
		if acc.responseMax > 0 {
			if f := p.responseFloorForMax(acc.responseMax); f > floor {
				floor = f
			}
		}
		if response <= floor {
			// The rising threshold disqualified this pixel after it was
			// pushed; it is still consumed (zeroed above) so neither this
			// nor a later scan revisits it, but it contributes nothing to
			// the accumulator and its neighbors are not explored from here.
			// Strictly greater than the floor, matching the original
			// tracker's is_valid test.
			continue
		}

		acc.accumulate(x, y, response)

		considerNeighbor(x+1, y)
		considerNeighbor(x-1, y)
		considerNeighbor(x, y+1)
		considerNeighbor(x, y-1)
	}
	return acc
}

// checkAndPush runs a just-finished component through isValid and, if it
// passes, appends its centroid to points.
func checkAndPush(acc componentAccumulator, img Image, p Params, points []PointF) []PointF {
	if acc.isValid(img, p) {
		points = append(points, acc.centroid())
	}
	return points
}

// processFull raster-scans every pixel outside the margin, starting a new
// flood fill wherever it finds an unconsumed positive response. This is the
// "no prior knowledge" pass used by Find.
func processFull(resp []int16, img Image, p Params) []PointF {
	var stack xyStack
	var points []PointF
	w, h := img.Width, img.Height

	for y := p.Margin; y < h-p.Margin; y++ {
		for x := p.Margin; x < w-p.Margin; x++ {
			if resp[y*w+x] <= 0 {
				continue
			}
			acc := followConnectedComponent(resp, img, p, x, y, &stack)
			points = checkAndPush(acc, img, p, points)
		}
	}
	return points
}

// processRefine re-enters the response field only around each seed point,
// scanning a small neighborhood for a surviving peak rather than the whole
// image. This is the "we already roughly know where the corner is" pass
// used by Refine; seedRadius bounds how far a seed's true position may have
// drifted from the coarser pyramid level it came from.
func processRefine(resp []int16, img Image, p Params, seeds []Seed, seedRadius int) []PointF {
	var stack xyStack
	var points []PointF
	w, h := img.Width, img.Height

	for _, seed := range seeds {
		found := false
		for dy := -seedRadius; dy <= seedRadius && !found; dy++ {
			y := seed.Y + dy
			if y < p.Margin || y >= h-p.Margin {
				continue
			}
			for dx := -seedRadius; dx <= seedRadius; dx++ {
				x := seed.X + dx
				if x < p.Margin || x >= w-p.Margin {
					continue
				}
				if resp[y*w+x] <= 0 {
					continue
				}
				acc := followConnectedComponent(resp, img, p, x, y, &stack)
				before := len(points)
				points = checkAndPush(acc, img, p, points)
				if len(points) > before {
					found = true
					break
				}
			}
		}
	}
	return points
}
