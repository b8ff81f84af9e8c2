package imageutil

import "math"

// Threshold produces a strict binary image: values above thresh become
// white (255) and everything else becomes ink (0).
func Threshold(img *GrayImage, thresh uint8) *GrayImage {
	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		src := img.Gray.Pix[y*img.Stride : y*img.Stride+width]
		out := dst.Gray.Pix[y*dst.Stride : y*dst.Stride+width]
		for i, v := range src {
			if v > thresh {
				out[i] = 255
			}
		}
	}

	return dst
}

// Invert flips every intensity: v becomes 255-v.
func Invert(img *GrayImage) *GrayImage {
	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		src := img.Gray.Pix[y*img.Stride : y*img.Stride+width]
		out := dst.Gray.Pix[y*dst.Stride : y*dst.Stride+width]
		for i, v := range src {
			out[i] = 255 - v
		}
	}

	return dst
}

// AdaptiveMeanThreshold binarizes with a per-pixel threshold: a pixel is
// white when it exceeds the mean of its window-sized neighborhood minus c,
// and ink otherwise. This matches cv2.adaptiveThreshold with
// ADAPTIVE_THRESH_MEAN_C and THRESH_BINARY, except that windows are
// truncated at the image border rather than replicated.
func AdaptiveMeanThreshold(img *GrayImage, window int, c float64) *GrayImage {
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}
	radius := window / 2

	width, height := img.Width(), img.Height()
	integral := NewIntegralImage(img)
	dst := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mean := integral.WindowMean(x, y, radius)
			if float64(img.Gray.Pix[y*img.Stride+x]) > mean-c {
				dst.Gray.Pix[y*dst.Stride+x] = 255
			}
		}
	}

	return dst
}

// AdaptiveGaussianThreshold binarizes with a per-pixel threshold taken
// from a Gaussian-weighted neighborhood mean minus c, matching
// cv2.adaptiveThreshold with ADAPTIVE_THRESH_GAUSSIAN_C and THRESH_BINARY.
// The Gaussian sigma is derived from the window size the way OpenCV
// derives it: 0.3*((window-1)*0.5 - 1) + 0.8.
func AdaptiveGaussianThreshold(img *GrayImage, window int, c float64) *GrayImage {
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}

	weighted := ConvolveGrayFloat(GrayToFloat(img), gaussianMeanKernel(window))

	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if float64(img.Gray.Pix[y*img.Stride+x]) > weighted[y][x]-c {
				dst.Gray.Pix[y*dst.Stride+x] = 255
			}
		}
	}

	return dst
}

// gaussianMeanKernel builds a normalized window-by-window Gaussian kernel
// with sigma derived from the window size.
func gaussianMeanKernel(window int) *Kernel {
	sigma := 0.3*(float64(window-1)*0.5-1) + 0.8
	radius := window / 2

	row := make([]float64, window)
	var norm float64
	for i := range row {
		d := float64(i - radius)
		row[i] = math.Exp(-d * d / (2 * sigma * sigma))
		norm += row[i]
	}
	for i := range row {
		row[i] /= norm
	}

	values := make([][]float64, window)
	for j := range values {
		values[j] = make([]float64, window)
		for i := range values[j] {
			values[j][i] = row[j] * row[i]
		}
	}
	return NewKernel(values)
}
