package imageutil

// IntegralImage is a summed-area table over a grayscale image. It answers
// windowed sums in constant time, which keeps adaptive thresholding linear
// in the pixel count regardless of window size. The table carries one
// extra row and column of zeros so window lookups need no special cases.
type IntegralImage struct {
	width  int
	height int
	stride int
	sum    []uint64
}

// NewIntegralImage builds the summed-area table for img.
func NewIntegralImage(img *GrayImage) *IntegralImage {
	width, height := img.Width(), img.Height()
	stride := width + 1
	sum := make([]uint64, stride*(height+1))

	for y := 1; y <= height; y++ {
		var rowSum uint64
		row := img.Gray.Pix[(y-1)*img.Stride : (y-1)*img.Stride+width]
		for x := 1; x <= width; x++ {
			rowSum += uint64(row[x-1])
			sum[y*stride+x] = sum[(y-1)*stride+x] + rowSum
		}
	}

	return &IntegralImage{width: width, height: height, stride: stride, sum: sum}
}

// Sum returns the sum of pixel values over the inclusive window
// [x0,x1] x [y0,y1], clamped to the image.
func (ii *IntegralImage) Sum(x0, y0, x1, y1 int) uint64 {
	x0 = clampInt(x0, 0, ii.width-1)
	y0 = clampInt(y0, 0, ii.height-1)
	x1 = clampInt(x1, 0, ii.width-1)
	y1 = clampInt(y1, 0, ii.height-1)

	a := ii.sum[y0*ii.stride+x0]
	b := ii.sum[y0*ii.stride+x1+1]
	c := ii.sum[(y1+1)*ii.stride+x0]
	d := ii.sum[(y1+1)*ii.stride+x1+1]
	return d + a - b - c
}

// WindowMean returns the mean over a square window of the given radius
// centered at (x, y). Windows truncate at the image border, so the mean
// is always over pixels that exist.
func (ii *IntegralImage) WindowMean(x, y, radius int) float64 {
	x0 := clampInt(x-radius, 0, ii.width-1)
	y0 := clampInt(y-radius, 0, ii.height-1)
	x1 := clampInt(x+radius, 0, ii.width-1)
	y1 := clampInt(y+radius, 0, ii.height-1)

	count := (x1 - x0 + 1) * (y1 - y0 + 1)
	return float64(ii.Sum(x0, y0, x1, y1)) / float64(count)
}
