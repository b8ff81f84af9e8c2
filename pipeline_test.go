package img2line

import (
	"errors"
	"image"
	"testing"

	"github.com/mergimdemku/img2line/imageutil"
)

// gridFigure draws dark 2px grid lines on a mid-gray background, the
// kind of well-exposed line art that classifies normal.
func gridFigure(size, spacing int) *imageutil.GrayImage {
	img := imageutil.NewGrayImage(size, size)
	img.Fill(200)
	for start := spacing / 2; start < size; start += spacing {
		for d := 0; d < 2; d++ {
			for i := 0; i < size; i++ {
				img.SetGrayValue(i, start+d, 40)
				img.SetGrayValue(start+d, i, 40)
			}
		}
	}
	return img
}

func TestProcessFaintFigure(t *testing.T) {
	img, painted := imageutil.CreateFaintFigureImage(400, 400, 220)

	res, err := Process(img)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if res.Class != ClassVeryFaint {
		t.Errorf("classification: expected very_faint, got %v", res.Class)
	}
	if res.LowConfidence {
		t.Error("a recoverable faint figure must not be flagged low confidence")
	}
	if res.Stages != nil {
		t.Error("stage trail should be nil when recording is off")
	}

	if w, h := res.Image.Width(), res.Image.Height(); w != 400 || h != 400 {
		t.Errorf("image dimensions: expected 400x400, got %dx%d", w, h)
	}
	if w, h := res.Mask.Width(), res.Mask.Height(); w != 400 || h != 400 {
		t.Errorf("mask dimensions: expected 400x400, got %dx%d", w, h)
	}

	for _, v := range res.Mask.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("mask carries intermediate level %d", v)
		}
	}
	if mse := imageutil.CalculateMSEGray(res.Mask, imageutil.ToGrayscale(res.Image)); mse != 0 {
		t.Errorf("mask should be the grayscale of the image, MSE %v", mse)
	}

	// Refinement may thicken or nudge the strokes but must deliver
	// recognizably the painted figure: neither a wisp nor a blot.
	ink := countInk(res.Mask)
	if ink < painted/2 || ink > 3*painted {
		t.Errorf("ink: expected within [%d, %d], got %d", painted/2, 3*painted, ink)
	}
	if want := float64(ink) / float64(400*400); res.Metrics.ContentRatio != want {
		t.Errorf("metrics: ContentRatio %v does not match mask ink %v", res.Metrics.ContentRatio, want)
	}
}

func TestProcessNormalGrid(t *testing.T) {
	img := gridFigure(200, 20)

	class := Classify(Analyze(img))
	if class != ClassNormal {
		t.Fatalf("classification: expected normal, got %v", class)
	}

	res, err := Process(img)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Class != ClassNormal {
		t.Errorf("result class: expected normal, got %v", res.Class)
	}
	if res.Metrics.ContentRatio == 0 {
		t.Error("grid lines should survive as ink")
	}
	if res.Metrics.ContentRatio > 0.5 {
		t.Errorf("ink-dominant output (ratio %v), polarity not normalized", res.Metrics.ContentRatio)
	}
	for _, v := range res.Mask.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("mask carries intermediate level %d", v)
		}
	}
}

func TestProcessAllWhite(t *testing.T) {
	// A blank page is not an error: the pipeline delivers it as found
	// and flags the result instead.
	img := imageutil.CreateSolidImage(100, 100, imageutil.RGB{R: 255, G: 255, B: 255})

	res, err := Process(img)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !res.LowConfidence {
		t.Error("a blank input must be flagged low confidence")
	}
	if got := countInk(res.Mask); got != 0 {
		t.Errorf("expected a blank output, got %d ink pixels", got)
	}
	if res.Metrics.ContentRatio != 0 {
		t.Errorf("ContentRatio: expected 0, got %v", res.Metrics.ContentRatio)
	}
}

func TestProcessAllBlack(t *testing.T) {
	// Majority-dark input is read as a dark background and inverted;
	// with nothing left over, the result is a flagged blank page.
	img := imageutil.CreateSolidImage(100, 100, imageutil.RGB{})

	res, err := Process(img)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !res.LowConfidence {
		t.Error("an unrecoverable input must be flagged low confidence")
	}
	if got := countInk(res.Mask); got != 0 {
		t.Errorf("expected a blank output, got %d ink pixels", got)
	}
}

func TestProcessRejectsDegenerateInput(t *testing.T) {
	var invalid *InvalidInputError

	_, err := Process(nil)
	if !errors.As(err, &invalid) {
		t.Errorf("nil image: expected InvalidInputError, got %v", err)
	}

	_, err = Process(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if !errors.As(err, &invalid) {
		t.Errorf("zero-area image: expected InvalidInputError, got %v", err)
	}

	p := newTestPipeline(t, DefaultOptions())
	_, err = p.Process(image.NewRGBA(image.Rect(0, 0, 5, 0)))
	if !errors.As(err, &invalid) {
		t.Errorf("zero-height image: expected InvalidInputError, got %v", err)
	}
}

func TestProcessRecordsStages(t *testing.T) {
	// A pale 2px band: very faint, sparse. Denoise is skipped for the
	// very-faint class, despeckle by the gentle profile, declutter by
	// the sparse-mask rule, components by the zero area cutoff.
	img := imageutil.NewGrayImage(100, 100)
	img.Fill(255)
	for y := 10; y < 12; y++ {
		for x := 0; x < 100; x++ {
			img.SetGrayValue(x, y, 220)
		}
	}

	opts := DefaultOptions()
	opts.RecordStages = true
	p := newTestPipeline(t, opts)

	res, err := p.Process(img)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Class != ClassVeryFaint {
		t.Fatalf("classification: expected very_faint, got %v", res.Class)
	}

	want := []string{StageBinarize, StageConnect, StageThicken, StageReconnect, StageBinarizeFinal}
	got := stageNames(res.Stages)
	if len(got) != len(want) {
		t.Fatalf("trail: expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trail: expected %v, got %v", want, got)
		}
	}
	for _, sr := range res.Stages {
		if !sr.Accepted {
			t.Errorf("stage %s unexpectedly rejected", sr.Name)
		}
		if sr.Output == nil {
			t.Errorf("stage %s recorded no output", sr.Name)
		}
	}
}

func TestProcessClaheSkipsDenoise(t *testing.T) {
	// The clahe mode brings its own preparation; the bilateral denoise
	// stage must not run even for the normal class.
	opts := DefaultOptions()
	opts.Enhance = EnhanceClahe
	opts.RecordStages = true
	p := newTestPipeline(t, opts)

	res, err := p.Process(gridFigure(200, 20))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	names := stageNames(res.Stages)
	if len(names) == 0 || names[0] != StageBinarize {
		t.Errorf("expected the trail to start at binarize, got %v", names)
	}
	for _, n := range names {
		if n == StageDenoise {
			t.Error("denoise must not run in clahe mode")
		}
	}
}

func TestProcessDenoiseRecordedForNormal(t *testing.T) {
	opts := DefaultOptions()
	opts.RecordStages = true
	p := newTestPipeline(t, opts)

	res, err := p.Process(gridFigure(200, 20))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	names := stageNames(res.Stages)
	if len(names) == 0 || names[0] != StageDenoise {
		t.Errorf("expected the trail to start at denoise, got %v", names)
	}
}

func TestPipelineOptionsAccessor(t *testing.T) {
	p := newTestPipeline(t, Options{})
	if p.Options() != DefaultOptions() {
		t.Error("zero options should surface as the filled defaults")
	}
}
