package img2line

import (
	"gonum.org/v1/gonum/stat"

	"github.com/mergimdemku/img2line/imageutil"
)

// Intensity cutoffs for the pixel ratios in ContentMetrics. A pixel
// below inkCutoff counts as ink; this single convention is used for
// classification, content measurement and the guard alike, so a binary
// mask (0 ink on 255 background) and a grayscale image measure the
// same way.
const (
	inkCutoff      = 128
	veryDarkCutoff = 64
)

// ContentMetrics summarizes the intensity distribution of a grayscale
// image. All ratios are fractions of the total pixel count.
type ContentMetrics struct {
	// MeanBrightness and BrightnessStdDev are the first two moments of
	// the intensity histogram, in [0, 255].
	MeanBrightness   float64
	BrightnessStdDev float64
	// DarkRatio is the fraction of pixels below 128, VeryDarkRatio the
	// fraction below 64.
	DarkRatio     float64
	VeryDarkRatio float64
	// ContentRatio is the fraction of pixels counted as ink. It equals
	// DarkRatio by convention; it is named separately because it is the
	// quantity the content-preservation guard watches.
	ContentRatio float64
}

// Analyze computes ContentMetrics for a grayscale image. The moments
// are taken over the 256-bin histogram, weighted by bin population, so
// the cost is one pass over the pixels regardless of image size.
func Analyze(gray *imageutil.GrayImage) ContentMetrics {
	total := gray.Width() * gray.Height()
	if total == 0 {
		return ContentMetrics{}
	}

	hist := imageutil.Histogram(gray)

	var levels, weights [256]float64
	dark, veryDark := 0, 0
	for i, n := range hist {
		levels[i] = float64(i)
		weights[i] = float64(n)
		if i < inkCutoff {
			dark += n
		}
		if i < veryDarkCutoff {
			veryDark += n
		}
	}

	darkRatio := float64(dark) / float64(total)
	return ContentMetrics{
		MeanBrightness:   stat.Mean(levels[:], weights[:]),
		BrightnessStdDev: stat.PopStdDev(levels[:], weights[:]),
		DarkRatio:        darkRatio,
		VeryDarkRatio:    float64(veryDark) / float64(total),
		ContentRatio:     darkRatio,
	}
}

// InkRatio returns the fraction of pixels counted as ink (intensity
// below 128). It is the cheap subset of Analyze for callers that only
// need the guarded quantity.
func InkRatio(img *imageutil.GrayImage) float64 {
	width, height := img.Width(), img.Height()
	if width == 0 || height == 0 {
		return 0
	}
	ink := 0
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width]
		for _, v := range row {
			if v < inkCutoff {
				ink++
			}
		}
	}
	return float64(ink) / float64(width*height)
}

// Classification is the coarse brightness category of an input image.
// It drives both the thresholding strategy and the refinement profile.
type Classification int

const (
	// ClassNormal covers images with usable contrast.
	ClassNormal Classification = iota
	// ClassFaint covers washed-out images with mean brightness above
	// 200.
	ClassFaint
	// ClassVeryFaint covers nearly blank images: mean brightness of at
	// least 240 with under 5% dark pixels.
	ClassVeryFaint
)

func (c Classification) String() string {
	switch c {
	case ClassVeryFaint:
		return "very_faint"
	case ClassFaint:
		return "faint"
	default:
		return "normal"
	}
}

// Classify maps image metrics to a brightness classification. The
// very-faint boundary is inclusive: a mean of exactly 240 with sparse
// dark pixels is very faint. An image with mean at least 240 but 5% or
// more dark pixels has real content under a bright background and is
// classified faint, not very faint.
func Classify(m ContentMetrics) Classification {
	switch {
	case m.MeanBrightness >= 240 && m.DarkRatio < 0.05:
		return ClassVeryFaint
	case m.MeanBrightness > 200:
		return ClassFaint
	default:
		return ClassNormal
	}
}
