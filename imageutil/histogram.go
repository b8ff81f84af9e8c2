package imageutil

// Histogram counts pixels at each of the 256 intensity levels.
func Histogram(img *GrayImage) [256]int {
	var hist [256]int
	width, height := img.Width(), img.Height()

	for y := 0; y < height; y++ {
		row := img.Gray.Pix[y*img.Stride : y*img.Stride+width]
		for _, v := range row {
			hist[v]++
		}
	}

	return hist
}

// EqualizeHist remaps intensities so the cumulative distribution is
// approximately uniform, matching OpenCV's equalizeHist: the darkest
// occupied level maps to 0 and the rest spread across the full range.
// A single-intensity image is returned unchanged.
func EqualizeHist(img *GrayImage) *GrayImage {
	hist := Histogram(img)
	total := img.Width() * img.Height()

	first := 0
	for first < 255 && hist[first] == 0 {
		first++
	}
	if hist[first] == total {
		return img.Clone()
	}

	scale := 255.0 / float64(total-hist[first])
	var lut [256]uint8
	sum := 0
	for i := first + 1; i < 256; i++ {
		sum += hist[i]
		lut[i] = clampUint8(float64(sum) * scale)
	}

	return applyLUT(img, &lut)
}

// OtsuThreshold computes the global threshold that best separates the
// histogram into two classes, by maximizing between-class variance.
// For a single-intensity image the result is 0.
func OtsuThreshold(img *GrayImage) uint8 {
	hist := Histogram(img)
	total := img.Width() * img.Height()

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}

	var sumB, weightB float64
	bestVariance := 0.0
	threshold := 0
	for t := 0; t < 256; t++ {
		weightB += float64(hist[t])
		if weightB == 0 {
			continue
		}
		weightF := float64(total) - weightB
		if weightF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])

		meanB := sumB / weightB
		meanF := (sum - sumB) / weightF
		between := weightB * weightF * (meanB - meanF) * (meanB - meanF)
		if between > bestVariance {
			bestVariance = between
			threshold = t
		}
	}

	return uint8(threshold)
}

// CLAHE applies contrast-limited adaptive histogram equalization: the
// image is divided into a grid of tiles, each tile is equalized with its
// histogram clipped at clipLimit times the uniform bin height, and pixels
// are bilinearly interpolated between the four surrounding tile mappings
// to avoid visible tile seams. OpenCV's defaults are clipLimit 2.0 on an
// 8x8 grid.
func CLAHE(img *GrayImage, clipLimit float64, tilesX, tilesY int) *GrayImage {
	if tilesX < 1 {
		tilesX = 8
	}
	if tilesY < 1 {
		tilesY = 8
	}
	if clipLimit <= 0 {
		clipLimit = 2.0
	}

	width, height := img.Width(), img.Height()
	tileW := (width + tilesX - 1) / tilesX
	tileH := (height + tilesY - 1) / tilesY

	luts := make([][256]uint8, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := min(x0+tileW, width), min(y0+tileH, height)
			luts[ty*tilesX+tx] = clippedEqualizeLUT(img, x0, y0, x1, y1, clipLimit)
		}
	}

	dst := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		// Position of the pixel relative to tile centers, in tile units.
		fy := (float64(y)-float64(tileH)/2 + 0.5) / float64(tileH)
		ty0 := int(fy)
		if fy < 0 {
			ty0 = -1
		}
		wy := fy - float64(ty0)
		ty1 := ty0 + 1
		ty0 = clampInt(ty0, 0, tilesY-1)
		ty1 = clampInt(ty1, 0, tilesY-1)

		for x := 0; x < width; x++ {
			fx := (float64(x)-float64(tileW)/2 + 0.5) / float64(tileW)
			tx0 := int(fx)
			if fx < 0 {
				tx0 = -1
			}
			wx := fx - float64(tx0)
			tx1 := tx0 + 1
			tx0 = clampInt(tx0, 0, tilesX-1)
			tx1 = clampInt(tx1, 0, tilesX-1)

			v := img.Gray.Pix[y*img.Stride+x]
			top := (1-wx)*float64(luts[ty0*tilesX+tx0][v]) + wx*float64(luts[ty0*tilesX+tx1][v])
			bottom := (1-wx)*float64(luts[ty1*tilesX+tx0][v]) + wx*float64(luts[ty1*tilesX+tx1][v])
			dst.Gray.Pix[y*dst.Stride+x] = clampUint8((1-wy)*top + wy*bottom)
		}
	}

	return dst
}

// clippedEqualizeLUT builds the equalization mapping for one tile, with
// histogram bins clipped at clipLimit times the uniform height and the
// excess redistributed across all bins, following OpenCV's scheme so the
// histogram mass is preserved exactly.
func clippedEqualizeLUT(img *GrayImage, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var hist [256]int
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[img.Gray.Pix[y*img.Stride+x]]++
		}
	}

	area := (x1 - x0) * (y1 - y0)
	clip := int(clipLimit * float64(area) / 256.0)
	if clip < 1 {
		clip = 1
	}

	excess := 0
	for i := range hist {
		if hist[i] > clip {
			excess += hist[i] - clip
			hist[i] = clip
		}
	}

	batch := excess / 256
	residual := excess - batch*256
	for i := range hist {
		hist[i] += batch
	}
	if residual > 0 {
		step := maxInt(256/residual, 1)
		for i := 0; i < 256 && residual > 0; i += step {
			hist[i]++
			residual--
		}
	}

	scale := 255.0 / float64(area)
	var lut [256]uint8
	cdf := 0
	for i := range hist {
		cdf += hist[i]
		lut[i] = clampUint8(float64(cdf) * scale)
	}
	return lut
}

// applyLUT maps every pixel through the lookup table.
func applyLUT(img *GrayImage, lut *[256]uint8) *GrayImage {
	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		src := img.Gray.Pix[y*img.Stride : y*img.Stride+width]
		out := dst.Gray.Pix[y*dst.Stride : y*dst.Stride+width]
		for i, v := range src {
			out[i] = lut[v]
		}
	}
	return dst
}
