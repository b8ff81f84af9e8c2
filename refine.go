package img2line

import (
	"fmt"

	"github.com/mergimdemku/img2line/imageutil"
)

// Stage names as they appear in the audit trail, in execution order.
const (
	StageDenoise       = "denoise"
	StageBinarize      = "binarize"
	StageConnect       = "connect"
	StageThicken       = "thicken"
	StageDespeckle     = "despeckle"
	StageDeclutter     = "declutter"
	StageComponents    = "components"
	StageReconnect     = "reconnect"
	StageBinarizeFinal = "binarize_final"
)

// Profile holds the stage parameters for one refinement aggressiveness
// level. Normal-contrast images take the standard profile; faint ones
// take the gentle profile, which works with whatever thin ink the
// thresholding recovered and so smooths, thickens and strips less.
type Profile struct {
	// Bilateral denoise over the grayscale, ahead of thresholding.
	DenoiseDiameter   int     `json:"denoise_diameter"`
	DenoiseSigmaColor float64 `json:"denoise_sigma_color"`
	DenoiseSigmaSpace float64 `json:"denoise_sigma_space"`

	// Connect closes small gaps in strokes with a rectangular element.
	ConnectSize       int `json:"connect_size"`
	ConnectIterations int `json:"connect_iterations"`

	// Thicken dilates strokes. A size of 1 disables the stage in all
	// but name.
	ThickenSize       int `json:"thicken_size"`
	ThickenIterations int `json:"thicken_iterations"`

	// Despeckle is a median blur; a window below 3 skips the stage.
	DespeckleWindow int `json:"despeckle_window"`

	// Declutter opens the mask to strip stray marks. It can destroy
	// thin line work wholesale and always runs under the guard.
	DeclutterSize       int  `json:"declutter_size"`
	DeclutterIterations int  `json:"declutter_iterations"`
	SkipDeclutterSparse bool `json:"skip_declutter_sparse"`

	// MinComponentArea drops connected ink components smaller than the
	// given pixel count, under the guard. Zero disables the stage.
	MinComponentArea int `json:"min_component_area"`

	// Reconnect closes once more with the connect element to repair
	// strokes the destructive stages nicked.
	ReconnectIterations int `json:"reconnect_iterations"`

	// Finish parameterizes the finishing pass for this profile.
	Finish FinishOptions `json:"finish"`
}

// GentleProfile is the refinement used for faint inputs: light
// smoothing, minimal thickening, no despeckle, and decluttering only
// when the mask carries enough ink to survive it.
func GentleProfile() Profile {
	return Profile{
		DenoiseDiameter:   9,
		DenoiseSigmaColor: 75,
		DenoiseSigmaSpace: 75,

		ConnectSize:       2,
		ConnectIterations: 1,

		ThickenSize:       1,
		ThickenIterations: 1,

		DespeckleWindow: 0,

		DeclutterSize:       3,
		DeclutterIterations: 1,
		SkipDeclutterSparse: true,

		MinComponentArea: 0,

		ReconnectIterations: 1,

		Finish: FinishOptions{Contrast: 1.5},
	}
}

// StandardProfile is the refinement used for normal-contrast inputs.
func StandardProfile() Profile {
	return Profile{
		DenoiseDiameter:   15,
		DenoiseSigmaColor: 100,
		DenoiseSigmaSpace: 100,

		ConnectSize:       3,
		ConnectIterations: 2,

		ThickenSize:       2,
		ThickenIterations: 1,

		DespeckleWindow: 3,

		DeclutterSize:       3,
		DeclutterIterations: 1,
		SkipDeclutterSparse: false,

		MinComponentArea: 0,

		ReconnectIterations: 1,

		Finish: FinishOptions{
			Contrast:         3.0,
			Sharpen:          true,
			SharpenRadius:    2,
			SharpenPercent:   300,
			SharpenThreshold: 1,
		},
	}
}

// stageTrail collects StageResults when recording is enabled. The
// guard's veto does not depend on it; an unrecorded run refines
// identically.
type stageTrail struct {
	record bool
	stages []StageResult
}

func (t *stageTrail) add(sr StageResult) {
	if t.record {
		t.stages = append(t.stages, sr)
	}
}

// runStage applies an unguarded transform and verifies the stage kept
// the image dimensions.
func (p *Pipeline) runStage(trail *stageTrail, mask *imageutil.GrayImage, name string, transform func(*imageutil.GrayImage) *imageutil.GrayImage) (*imageutil.GrayImage, error) {
	out := transform(mask)
	if err := checkDimensions(name, mask, out); err != nil {
		return nil, err
	}
	if trail.record {
		trail.add(StageResult{
			Name:     name,
			Output:   out,
			Before:   Analyze(mask),
			After:    Analyze(out),
			Accepted: true,
		})
	}
	return out, nil
}

// runGuarded applies a transform under the content-preservation guard.
func (p *Pipeline) runGuarded(trail *stageTrail, mask *imageutil.GrayImage, name string, transform func(*imageutil.GrayImage) *imageutil.GrayImage) (*imageutil.GrayImage, error) {
	sr := GuardApply(mask, name, p.opts.LossThreshold, transform)
	if err := checkDimensions(name, mask, sr.Output); err != nil {
		return nil, err
	}
	trail.add(sr)
	return sr.Output, nil
}

func checkDimensions(name string, in, out *imageutil.GrayImage) error {
	if out.Width() != in.Width() || out.Height() != in.Height() {
		return &InternalInvariantError{
			Stage: name,
			Reason: fmt.Sprintf("dimensions changed from %dx%d to %dx%d",
				in.Width(), in.Height(), out.Width(), out.Height()),
		}
	}
	return nil
}

// refine runs the morphological cleanup sequence over a binary mask:
// connect, thicken, despeckle, declutter, component filtering,
// reconnect, and a final re-binarization. The destructive stages run
// under the guard; the rest only add ink or keep it in place.
func (p *Pipeline) refine(mask *imageutil.GrayImage, prof Profile, trail *stageTrail) (*imageutil.GrayImage, error) {
	connect := imageutil.NewStructElement(imageutil.StructRect, prof.ConnectSize, prof.ConnectSize)

	mask, err := p.runStage(trail, mask, StageConnect, func(m *imageutil.GrayImage) *imageutil.GrayImage {
		return imageutil.Close(m, connect, prof.ConnectIterations)
	})
	if err != nil {
		return nil, err
	}

	thicken := imageutil.NewStructElement(imageutil.StructRect, prof.ThickenSize, prof.ThickenSize)
	mask, err = p.runStage(trail, mask, StageThicken, func(m *imageutil.GrayImage) *imageutil.GrayImage {
		return imageutil.Dilate(m, thicken, prof.ThickenIterations)
	})
	if err != nil {
		return nil, err
	}

	if prof.DespeckleWindow >= 3 {
		mask, err = p.runStage(trail, mask, StageDespeckle, func(m *imageutil.GrayImage) *imageutil.GrayImage {
			return imageutil.MedianBlur(m, prof.DespeckleWindow)
		})
		if err != nil {
			return nil, err
		}
	}

	if !(prof.SkipDeclutterSparse && InkRatio(mask) < p.opts.SparseContent) {
		declutter := imageutil.NewStructElement(imageutil.StructRect, prof.DeclutterSize, prof.DeclutterSize)
		mask, err = p.runGuarded(trail, mask, StageDeclutter, func(m *imageutil.GrayImage) *imageutil.GrayImage {
			return imageutil.Open(m, declutter, prof.DeclutterIterations)
		})
		if err != nil {
			return nil, err
		}
	}

	if prof.MinComponentArea > 0 {
		mask, err = p.runGuarded(trail, mask, StageComponents, func(m *imageutil.GrayImage) *imageutil.GrayImage {
			return imageutil.FilterComponents(m, prof.MinComponentArea)
		})
		if err != nil {
			return nil, err
		}
	}

	mask, err = p.runStage(trail, mask, StageReconnect, func(m *imageutil.GrayImage) *imageutil.GrayImage {
		return imageutil.Close(m, connect, prof.ReconnectIterations)
	})
	if err != nil {
		return nil, err
	}

	return p.runStage(trail, mask, StageBinarizeFinal, func(m *imageutil.GrayImage) *imageutil.GrayImage {
		return imageutil.Threshold(m, 127)
	})
}
