// Package img2line extracts printable black-on-white line art from
// raster images, the kind of cleanup a generated or scanned coloring
// page needs before it goes to a printer.
//
// The pipeline measures the input's intensity distribution, classifies
// it as normal, faint or very faint, and picks a thresholding strategy
// to match; washed-out pages get their contrast rebuilt before any
// threshold is applied. A fallback search keeps near-blank masks from
// shipping, a guarded sequence of morphological stages cleans the ink
// without being allowed to destroy it, and a finishing pass delivers a
// strictly two-valued image. Every destructive step is measured, and
// rolled back when it costs too much ink; the audit trail of those
// decisions is available on the Result.
package img2line

import (
	"fmt"
	"image"

	"github.com/mergimdemku/img2line/imageutil"
)

// Pipeline applies the full extraction sequence with a fixed set of
// options. It holds no mutable state; a single Pipeline is safe for
// concurrent use.
type Pipeline struct {
	opts Options
}

// NewPipeline builds a Pipeline. Unset option fields are filled with
// their defaults; an invalid option set is reported here rather than on
// first use.
func NewPipeline(opts Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{opts: opts}, nil
}

// Options returns a copy of the pipeline's effective options, after
// default filling.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Result is the outcome of one pipeline run.
type Result struct {
	// Image is the delivered line art: black ink on a white background,
	// replicated to three channels.
	Image *imageutil.RGBAImage
	// Mask is the single-channel rendition of Image, 0 for ink and 255
	// for background.
	Mask *imageutil.GrayImage
	// Metrics describes the delivered mask.
	Metrics ContentMetrics
	// Class is the brightness classification of the input.
	Class Classification
	// LowConfidence marks results the pipeline does not stand behind:
	// the fallback search could not find a mask clearing the acceptance
	// ratio, or an inked input still came out blank. The output is the
	// best effort found, not an error.
	LowConfidence bool
	// Stages is the audit trail, populated when Options.RecordStages is
	// set and nil otherwise.
	Stages []StageResult
}

// Process runs the extraction pipeline on img with default options.
func Process(img image.Image) (*Result, error) {
	p, err := NewPipeline(DefaultOptions())
	if err != nil {
		return nil, err
	}
	return p.Process(img)
}

// Process runs the extraction pipeline: analyze and classify, denoise,
// binarize with fallback, refine under the guard, and finish. The
// returned image always matches the input dimensions.
//
// A nil or zero-area input yields an InvalidInputError. An
// InternalInvariantError means a stage corrupted the intermediate
// state; no partial result is returned in either case.
func (p *Pipeline) Process(img image.Image) (*Result, error) {
	gray, err := grayInput(img)
	if err != nil {
		return nil, err
	}

	metrics := Analyze(gray)
	class := Classify(metrics)
	prof := p.profileFor(class)
	trail := &stageTrail{record: p.opts.RecordStages}

	// Bilateral smoothing helps the local thresholds tell texture from
	// strokes. The very-faint path is global equalize-and-split, where
	// smearing the last few levels of contrast would amplify halos
	// instead; it skips straight to enhancement. The clahe mode brings
	// its own preparation.
	work := gray
	if class != ClassVeryFaint && p.opts.Enhance == EnhanceAuto {
		work, err = p.runStage(trail, work, StageDenoise, func(m *imageutil.GrayImage) *imageutil.GrayImage {
			return imageutil.BilateralFilter(m, prof.DenoiseDiameter, prof.DenoiseSigmaColor, prof.DenoiseSigmaSpace)
		})
		if err != nil {
			return nil, err
		}
	}

	mask, ratio, lowConfidence := binarize(&p.opts, work, class)
	if err := checkDimensions(StageBinarize, work, mask); err != nil {
		return nil, err
	}
	if trail.record {
		trail.add(StageResult{
			Name:     StageBinarize,
			Output:   mask,
			Before:   Analyze(work),
			After:    Analyze(mask),
			Accepted: true,
		})
	}

	// A sparse mask cannot afford the standard profile's appetite, no
	// matter how the input classified.
	if ratio < p.opts.SparseContent {
		prof = p.opts.Gentle
	}

	mask, err = p.refine(mask, prof, trail)
	if err != nil {
		return nil, err
	}

	final := Finish(mask, prof.Finish)
	finalMask := imageutil.ToGrayscale(final)
	if err := checkBinary(finalMask); err != nil {
		return nil, err
	}

	finalMetrics := Analyze(finalMask)
	if finalMetrics.ContentRatio == 0 && metrics.ContentRatio > 0 {
		// Inked input, blank output. The guards should make this
		// unreachable; if it happens anyway the result must not look
		// confident.
		lowConfidence = true
	}

	return &Result{
		Image:         final,
		Mask:          finalMask,
		Metrics:       finalMetrics,
		Class:         class,
		LowConfidence: lowConfidence,
		Stages:        trail.stages,
	}, nil
}

// profileFor picks the provisional refinement profile from the
// classification. Faint inputs get the gentle treatment; the choice is
// revisited once the actual mask density is known.
func (p *Pipeline) profileFor(class Classification) Profile {
	if class == ClassNormal {
		return p.opts.Standard
	}
	return p.opts.Gentle
}

func grayInput(img image.Image) (*imageutil.GrayImage, error) {
	if img == nil {
		return nil, &InvalidInputError{Reason: "nil image"}
	}
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("zero-area bounds %dx%d", b.Dx(), b.Dy())}
	}
	return imageutil.GrayImageFromImage(img), nil
}

// checkBinary verifies the delivered mask holds only 0 and 255.
func checkBinary(mask *imageutil.GrayImage) error {
	width, height := mask.Width(), mask.Height()
	for y := 0; y < height; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+width]
		for _, v := range row {
			if v != 0 && v != 255 {
				return &InternalInvariantError{
					Stage:  "finish",
					Reason: fmt.Sprintf("output carries intermediate level %d", v),
				}
			}
		}
	}
	return nil
}
