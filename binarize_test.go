package img2line

import (
	"testing"

	"github.com/mergimdemku/img2line/imageutil"
)

func TestNormalizePolarity(t *testing.T) {
	// Ink-dominant masks are inverted, background-dominant ones kept.
	dominant := imageutil.NewGrayImage(10, 10)
	for i := 0; i < 10; i++ {
		dominant.SetGrayValue(i%10, i/10, 255)
	}
	out := normalizePolarity(dominant)
	if got := countInk(out); got != 10 {
		t.Errorf("ink-dominant mask: expected 10 ink after inversion, got %d", got)
	}

	sparse := maskWithInk(10)
	out = normalizePolarity(sparse)
	if got := countInk(out); got != 10 {
		t.Errorf("background-dominant mask: expected 10 ink unchanged, got %d", got)
	}
}

func TestNormalizePolarityTie(t *testing.T) {
	// An exact split is not inverted; only a strict ink majority is.
	mask := maskWithInk(5000)
	out := normalizePolarity(mask)
	if got := countInk(out); got != 5000 {
		t.Errorf("even split: expected 5000 ink unchanged, got %d", got)
	}
}

func TestBinarizeVeryFaintFigure(t *testing.T) {
	// Pale strokes on white classify very faint. The contrast boost,
	// equalization and Otsu split recover exactly the painted strokes.
	img, painted := imageutil.CreateFaintFigureImage(200, 200, 220)
	gray := imageutil.ToGrayscale(img)

	class := Classify(Analyze(gray))
	if class != ClassVeryFaint {
		t.Fatalf("classification: expected very_faint, got %v", class)
	}

	mask, ratio := Binarize(gray, class)
	if got := countInk(mask); got != painted {
		t.Errorf("ink: expected %d painted pixels, got %d", painted, got)
	}
	want := float64(painted) / float64(200*200)
	if ratio != want {
		t.Errorf("ratio: expected %v, got %v", want, ratio)
	}
}

func TestBinarizeNormalKeepsPolarity(t *testing.T) {
	// A dark figure on a light background must come out as minority
	// ink, not inverted.
	img := imageutil.NewGrayImage(100, 100)
	img.Fill(180)
	for y := 40; y < 60; y++ {
		for x := 40; x < 60; x++ {
			img.SetGrayValue(x, y, 20)
		}
	}

	class := Classify(Analyze(img))
	if class != ClassNormal {
		t.Fatalf("classification: expected normal, got %v", class)
	}

	mask, ratio := Binarize(img, class)
	if ratio > 0.5 {
		t.Errorf("mask is ink-dominant (ratio %v), polarity not normalized", ratio)
	}
	if got := countInk(mask); got == 0 {
		t.Error("expected the dark square to produce ink")
	}
	// The local threshold keeps the square's edge band as ink;
	// background far from it must stay white.
	if mask.GetGray(5, 5) != 255 {
		t.Error("far background should be white")
	}
}

func TestBinarizeFallbackAcceptsCandidate(t *testing.T) {
	// A policy with an absurd offset finds nothing; the fallback Otsu
	// split recovers the block and clears the acceptance ratio, so the
	// result is not flagged.
	opts := DefaultOptions()
	opts.Faint = ThresholdPolicy{Boost: 1, Window: 7, Offset: 50}

	img := imageutil.NewGrayImage(100, 100)
	img.Fill(255)
	for y := 40; y < 60; y++ {
		for x := 40; x < 60; x++ {
			img.SetGrayValue(x, y, 230)
		}
	}

	mask, ratio, lowConfidence := binarize(&opts, img, ClassFaint)
	if lowConfidence {
		t.Error("fallback that clears the acceptance ratio must not flag low confidence")
	}
	if got := countInk(mask); got != 400 {
		t.Errorf("ink: expected 400, got %d", got)
	}
	if ratio != 0.04 {
		t.Errorf("ratio: expected 0.04, got %v", ratio)
	}
}

func TestBinarizeBlankReportsLowConfidence(t *testing.T) {
	// Nothing for any candidate to find: flagged, not an error, and
	// never less ink than the primary attempt.
	opts := DefaultOptions()
	blank := makeGray(100, 100, 255)

	mask, ratio, lowConfidence := binarize(&opts, blank, Classify(Analyze(blank)))
	if !lowConfidence {
		t.Error("blank input should flag low confidence")
	}
	if ratio != 0 {
		t.Errorf("ratio: expected 0, got %v", ratio)
	}
	if got := countInk(mask); got != 0 {
		t.Errorf("ink: expected 0, got %d", got)
	}
}

func TestBinarizeClaheMode(t *testing.T) {
	// The clahe mode ignores the classification split and still yields
	// a binary, polarity-normalized mask.
	opts := DefaultOptions()
	opts.Enhance = EnhanceClahe

	img, _ := imageutil.CreateFaintFigureImage(200, 200, 150)
	gray := imageutil.ToGrayscale(img)

	mask, ratio, _ := binarize(&opts, gray, ClassNormal)
	for y := 0; y < mask.Height(); y++ {
		for x := 0; x < mask.Width(); x++ {
			if v := mask.GetGray(x, y); v != 0 && v != 255 {
				t.Fatalf("mask not binary at (%d,%d): %d", x, y, v)
			}
		}
	}
	if ratio > 0.5 {
		t.Errorf("mask ink-dominant after polarity normalization: %v", ratio)
	}
}
