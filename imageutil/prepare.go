package imageutil

// PrepareInput normalizes a decoded image before line extraction.
//
// Images whose longest side exceeds maxDim are downscaled to fit while
// preserving aspect ratio, using area interpolation so fine strokes are
// averaged rather than dropped. A mild sharpening pass then recovers the
// edge definition lost to resampling. Images already within maxDim, or
// any image when maxDim is zero, pass through unchanged.
func PrepareInput(img *RGBAImage, maxDim int) *RGBAImage {
	if maxDim <= 0 {
		return img
	}

	width, height := img.Width(), img.Height()
	if width <= maxDim && height <= maxDim {
		return img
	}

	var resized *RGBAImage
	if width >= height {
		resized = ResizeToWidth(img, maxDim, InterpolationArea)
	} else {
		resized = ResizeToHeight(img, maxDim, InterpolationArea)
	}

	return Sharpen(resized)
}
