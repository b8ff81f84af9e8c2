package img2line

import "github.com/mergimdemku/img2line/imageutil"

// FinishOptions parameterize the finishing pass. Each refinement
// profile carries its own.
type FinishOptions struct {
	// Contrast is the mean-anchored contrast factor. Values at or below
	// zero are treated as 1 (no change).
	Contrast float64 `json:"contrast"`
	// Sharpen enables an unsharp mask between the contrast stretch and
	// the final threshold.
	Sharpen          bool    `json:"sharpen"`
	SharpenRadius    float64 `json:"sharpen_radius"`
	SharpenPercent   int     `json:"sharpen_percent"`
	SharpenThreshold int     `json:"sharpen_threshold"`
}

// Finish turns a refined ink mask into the delivered image: a contrast
// stretch about the mean, an optional unsharp mask, a strict threshold
// at 127 to guarantee an exactly two-valued result, and replication to
// three channels. On input that is already strictly binary the contrast
// and sharpening steps cannot move any pixel across the threshold, so
// Finish is idempotent: running it again over its own output changes
// nothing.
func Finish(mask *imageutil.GrayImage, opts FinishOptions) *imageutil.RGBAImage {
	contrast := opts.Contrast
	if contrast <= 0 {
		contrast = 1
	}

	out := imageutil.AdjustContrastMean(mask, contrast)
	if opts.Sharpen {
		out = imageutil.UnsharpMaskGray(out, opts.SharpenRadius, opts.SharpenPercent, opts.SharpenThreshold)
	}
	out = imageutil.Threshold(out, 127)

	return imageutil.GrayscaleToRGBA(out)
}
