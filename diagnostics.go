package img2line

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/mergimdemku/img2line/imageutil"
)

// DumpStages writes every recorded stage output into dir as a numbered
// PNG (00_denoise.png, 01_binarize.png, ...), creating the directory
// if needed. A Result produced without RecordStages has no trail and
// nothing is written.
func DumpStages(res *Result, dir string) error {
	if len(res.Stages) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create stage directory: %w", err)
	}
	for i, sr := range res.Stages {
		name := fmt.Sprintf("%02d_%s.png", i, sr.Name)
		if err := imageutil.SaveGrayImage(sr.Output, filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("failed to write stage %s: %w", sr.Name, err)
		}
	}
	return nil
}

// WriteComparison writes before and after side by side on a white
// canvas, separated by a small gutter, for eyeballing a conversion.
func WriteComparison(before, after image.Image, path string) error {
	const gutter = 16

	bb, ab := before.Bounds(), after.Bounds()
	w := bb.Dx() + gutter + ab.Dx()
	h := bb.Dy()
	if ab.Dy() > h {
		h = ab.Dy()
	}

	canvas := imaging.New(w, h, color.White)
	canvas = imaging.Paste(canvas, before, image.Pt(0, 0))
	canvas = imaging.Paste(canvas, after, image.Pt(bb.Dx()+gutter, 0))

	return imageutil.SaveImage(canvas, path)
}
