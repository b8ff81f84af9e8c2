package img2line

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/mergimdemku/img2line/imageutil"
)

// A4 paper size in inches.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

// DefaultDPI is the print resolution used when none is given.
const DefaultDPI = 300

// Printable lays the image out for printing: a white A4 canvas at the
// given DPI with the image scaled to fit, aspect preserved, and
// centered. Images smaller than the page are scaled up. A dpi at or
// below zero means DefaultDPI; a nil or empty image yields a blank
// page.
func Printable(img image.Image, dpi int) *imageutil.RGBAImage {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	pageW := int(math.Round(a4WidthInches * float64(dpi)))
	pageH := int(math.Round(a4HeightInches * float64(dpi)))

	canvas := imaging.New(pageW, pageH, color.White)
	if img == nil {
		return imageutil.RGBAImageFromImage(canvas)
	}

	b := img.Bounds()
	if b.Dx() > 0 && b.Dy() > 0 {
		scale := math.Min(float64(pageW)/float64(b.Dx()), float64(pageH)/float64(b.Dy()))
		w := int(float64(b.Dx()) * scale)
		h := int(float64(b.Dy()) * scale)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		resized := imaging.Resize(img, w, h, imaging.Lanczos)
		canvas = imaging.PasteCenter(canvas, resized)
	}

	return imageutil.RGBAImageFromImage(canvas)
}
