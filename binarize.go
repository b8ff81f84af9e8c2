package img2line

import "github.com/mergimdemku/img2line/imageutil"

// Binarize converts a grayscale image into a binary ink mask using the
// thresholding strategy for the given brightness classification and the
// default policy values. It returns the mask (0 ink on 255 background)
// and its ink ratio. Use a Pipeline to run the same selection with
// custom policies and to observe the low-confidence outcome of the
// fallback search.
func Binarize(gray *imageutil.GrayImage, class Classification) (*imageutil.GrayImage, float64) {
	opts := DefaultOptions()
	mask, ratio, _ := binarize(&opts, gray, class)
	return mask, ratio
}

// binarize runs the strategy selection: prepare the grayscale per the
// class policy, threshold it, normalize polarity, and measure. When the
// mask comes out essentially blank the fallback candidates are tried in
// order against the same prepared grayscale. A candidate clearing the
// acceptance ratio wins outright; otherwise the best mask seen,
// including the primary one, is returned with the low-confidence flag
// set. The search never returns less ink than the primary attempt
// found.
func binarize(opts *Options, gray *imageutil.GrayImage, class Classification) (*imageutil.GrayImage, float64, bool) {
	prepared, mask := primaryThreshold(opts, gray, class)
	mask = normalizePolarity(mask)
	ratio := InkRatio(mask)
	if ratio >= opts.MinContent {
		return mask, ratio, false
	}

	best, bestRatio := mask, ratio
	for _, fallback := range fallbackThresholds {
		m := normalizePolarity(fallback(prepared))
		r := InkRatio(m)
		if r > opts.AcceptContent {
			return m, r, false
		}
		if r > bestRatio {
			best, bestRatio = m, r
		}
	}
	return best, bestRatio, true
}

// primaryThreshold prepares the grayscale and applies the first-choice
// threshold for the class. The prepared image is returned alongside the
// mask so the fallback search can rethreshold it without repeating the
// enhancement.
func primaryThreshold(opts *Options, gray *imageutil.GrayImage, class Classification) (*imageutil.GrayImage, *imageutil.GrayImage) {
	if opts.Enhance == EnhanceClahe {
		prepared := imageutil.CLAHE(gray, opts.ClaheClip, opts.ClaheTiles, opts.ClaheTiles)
		return prepared, imageutil.AdaptiveGaussianThreshold(prepared, opts.ClaheWindow, opts.ClaheOffset)
	}

	var pol ThresholdPolicy
	switch class {
	case ClassVeryFaint:
		pol = opts.VeryFaint
	case ClassFaint:
		pol = opts.Faint
	default:
		pol = opts.Normal
	}

	prepared := gray
	if pol.Boost > 1 {
		prepared = imageutil.AdjustContrastMean(prepared, pol.Boost)
	}
	if pol.Window == 0 {
		// Global path: spread what little dynamic range is left across
		// the full histogram, then let Otsu split it.
		prepared = imageutil.EqualizeHist(prepared)
		return prepared, imageutil.Threshold(prepared, imageutil.OtsuThreshold(prepared))
	}
	return prepared, imageutil.AdaptiveMeanThreshold(prepared, pol.Window, pol.Offset)
}

// fallbackThresholds are tried in priority order when the primary
// threshold leaves the mask essentially blank: a global Otsu split,
// two fixed cutoffs at 200 and 150 for content hiding in the bright
// band, and a wide Gaussian adaptive threshold with a deep offset.
var fallbackThresholds = []func(*imageutil.GrayImage) *imageutil.GrayImage{
	func(g *imageutil.GrayImage) *imageutil.GrayImage {
		return imageutil.Threshold(g, imageutil.OtsuThreshold(g))
	},
	func(g *imageutil.GrayImage) *imageutil.GrayImage {
		return imageutil.Threshold(g, 200)
	},
	func(g *imageutil.GrayImage) *imageutil.GrayImage {
		return imageutil.Threshold(g, 150)
	},
	func(g *imageutil.GrayImage) *imageutil.GrayImage {
		return imageutil.AdaptiveGaussianThreshold(g, 15, 20)
	},
}

// normalizePolarity enforces dark lines on a light background: when ink
// pixels outnumber background pixels the mask is inverted. This is a
// strict pixel-majority rule with no semantic detection, so genuinely
// ink-dominant artwork is inverted too.
func normalizePolarity(mask *imageutil.GrayImage) *imageutil.GrayImage {
	if InkRatio(mask) > 0.5 {
		return imageutil.Invert(mask)
	}
	return mask
}
