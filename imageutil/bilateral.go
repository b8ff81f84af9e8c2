package imageutil

import "math"

// BilateralFilter smooths a grayscale image while preserving edges: each
// output pixel is a weighted average of its neighborhood, with weights
// falling off both with spatial distance (sigmaSpace) and with intensity
// difference (sigmaColor). Regions of similar intensity are smoothed
// while strong edges, whose neighbors differ too much in intensity to
// carry weight, stay sharp.
//
// diameter is the pixel width of the neighborhood; when it is zero or
// negative the radius is derived from sigmaSpace. The parameters match
// cv2.bilateralFilter on single-channel input, with borders replicated.
func BilateralFilter(img *GrayImage, diameter int, sigmaColor, sigmaSpace float64) *GrayImage {
	if sigmaColor <= 0 {
		sigmaColor = 1
	}
	if sigmaSpace <= 0 {
		sigmaSpace = 1
	}

	radius := diameter / 2
	if diameter <= 0 {
		radius = int(math.Round(sigmaSpace * 1.5))
	}
	if radius < 1 {
		radius = 1
	}

	var colorWeight [256]float64
	for i := range colorWeight {
		d := float64(i)
		colorWeight[i] = math.Exp(-d * d / (2 * sigmaColor * sigmaColor))
	}

	// The spatial kernel is circular: offsets beyond the radius carry no
	// weight at all.
	type tap struct {
		dx, dy int
		weight float64
	}
	var taps []tap
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			r2 := float64(dx*dx + dy*dy)
			if r2 > float64(radius*radius) {
				continue
			}
			taps = append(taps, tap{dx, dy, math.Exp(-r2 / (2 * sigmaSpace * sigmaSpace))})
		}
	}

	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			center := img.Gray.Pix[y*img.Stride+x]

			var sum, weightSum float64
			for _, t := range taps {
				sx := clampInt(x+t.dx, 0, width-1)
				sy := clampInt(y+t.dy, 0, height-1)
				v := img.Gray.Pix[sy*img.Stride+sx]

				w := t.weight * colorWeight[abs(int(v)-int(center))]
				sum += w * float64(v)
				weightSum += w
			}

			dst.Gray.Pix[y*dst.Stride+x] = clampUint8(sum / weightSum)
		}
	}

	return dst
}
