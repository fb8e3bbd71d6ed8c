package chessgrid

// paintConstant fills img with a single intensity.
func paintConstant(img Image, value uint8) {
	for i := range img.Pix {
		img.Pix[i] = value
	}
}

// paintSaddle paints a synthetic chessboard saddle point centered at
// (cx, cy): the four quadrants around the center alternate bright and dark,
// giving a true diagonal saddle the ChESS-5 operator is tuned for.
func paintSaddle(img Image, cx, cy int, dark, bright uint8) {
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			topHalf := y < cy
			leftHalf := x < cx
			if topHalf == leftHalf {
				img.Pix[y*img.Stride+x] = bright
			} else {
				img.Pix[y*img.Stride+x] = dark
			}
		}
	}
}

// paintSaddleGrid paints a checkerboard of the given cell spacing across
// all of img, offset so a cell crossing sits at (originX, originY); every
// crossing is a true chessboard corner.
func paintSaddleGrid(img Image, originX, originY, spacing int, dark, bright uint8) {
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			col := divFloor(x-originX+spacing/2, spacing)
			row := divFloor(y-originY+spacing/2, spacing)
			if (row+col)%2 == 0 {
				img.Pix[y*img.Stride+x] = bright
			} else {
				img.Pix[y*img.Stride+x] = dark
			}
		}
	}
}

func divFloor(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
