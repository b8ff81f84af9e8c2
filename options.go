package img2line

import (
	"encoding/json"
	"fmt"
	"os"
)

// EnhanceMode selects how the grayscale is prepared for thresholding.
type EnhanceMode string

const (
	// EnhanceAuto picks the thresholding strategy from the brightness
	// classification. This is the default.
	EnhanceAuto EnhanceMode = "auto"
	// EnhanceClahe applies contrast-limited adaptive histogram
	// equalization followed by a Gaussian adaptive threshold, for every
	// classification. It trades the adaptive strategy selection for
	// uniform local contrast, which suits photographic input.
	EnhanceClahe EnhanceMode = "clahe"
)

// ThresholdPolicy describes how one brightness class is binarized: an
// optional contrast boost about the mean, then either a local adaptive
// mean threshold (Window > 0) or, when Window is zero, histogram
// equalization followed by a global Otsu threshold.
type ThresholdPolicy struct {
	Boost  float64 `json:"boost"`
	Window int     `json:"window"`
	Offset float64 `json:"offset"`
}

// Options hold every tunable of the extraction pipeline. The numeric
// defaults are workload-tuned rather than derived; treat them as
// starting points. The zero value is not useful, start from
// DefaultOptions or let Validate fill the gaps.
type Options struct {
	// Enhance selects the preparation applied before thresholding.
	Enhance EnhanceMode `json:"enhance"`

	// VeryFaint, Faint and Normal are the thresholding policies keyed
	// by brightness classification.
	VeryFaint ThresholdPolicy `json:"very_faint"`
	Faint     ThresholdPolicy `json:"faint"`
	Normal    ThresholdPolicy `json:"normal"`

	// ClaheClip and ClaheTiles parameterize the clahe enhance mode;
	// ClaheWindow and ClaheOffset its adaptive threshold.
	ClaheClip   float64 `json:"clahe_clip"`
	ClaheTiles  int     `json:"clahe_tiles"`
	ClaheWindow int     `json:"clahe_window"`
	ClaheOffset float64 `json:"clahe_offset"`

	// MinContent is the ink ratio below which a mask counts as blank
	// and the fallback search starts. AcceptContent is the ratio a
	// fallback candidate must clear to be accepted outright.
	MinContent    float64 `json:"min_content"`
	AcceptContent float64 `json:"accept_content"`

	// SparseContent is the ink ratio below which refinement drops to
	// the gentle profile, and below which the gentle profile skips
	// decluttering.
	SparseContent float64 `json:"sparse_content"`

	// LossThreshold is the guard's veto point: the fraction of ink a
	// stage may destroy before its result is rolled back.
	LossThreshold float64 `json:"loss_threshold"`

	// Gentle and Standard are the two refinement profiles.
	Gentle   Profile `json:"gentle"`
	Standard Profile `json:"standard"`

	// RecordStages retains the per-stage audit trail on the Result.
	// Off by default; the stage images are the expensive part.
	RecordStages bool `json:"record_stages"`
}

// DefaultOptions returns the tuned pipeline configuration.
func DefaultOptions() Options {
	return Options{
		Enhance:   EnhanceAuto,
		VeryFaint: ThresholdPolicy{Boost: 5.0},
		Faint:     ThresholdPolicy{Boost: 2.5, Window: 11, Offset: 15},
		Normal:    ThresholdPolicy{Boost: 1.0, Window: 7, Offset: 7},

		ClaheClip:   2.0,
		ClaheTiles:  8,
		ClaheWindow: 11,
		ClaheOffset: 2,

		MinContent:    0.01,
		AcceptContent: 0.02,
		SparseContent: 0.05,
		LossThreshold: 0.8,

		Gentle:   GentleProfile(),
		Standard: StandardProfile(),
	}
}

// Validate normalizes the options in place: unset or out-of-range
// values fall back to their defaults. A Window of zero is a meaningful
// policy (global Otsu) and is left alone. An unknown enhance mode is
// the one setting that cannot be guessed and returns an error.
func (o *Options) Validate() error {
	def := DefaultOptions()

	switch o.Enhance {
	case "":
		o.Enhance = EnhanceAuto
	case EnhanceAuto, EnhanceClahe:
	default:
		return fmt.Errorf("unknown enhance mode %q", o.Enhance)
	}

	if o.VeryFaint == (ThresholdPolicy{}) {
		o.VeryFaint = def.VeryFaint
	}
	if o.Faint == (ThresholdPolicy{}) {
		o.Faint = def.Faint
	}
	if o.Normal == (ThresholdPolicy{}) {
		o.Normal = def.Normal
	}

	if o.ClaheClip <= 0 {
		o.ClaheClip = def.ClaheClip
	}
	if o.ClaheTiles < 1 {
		o.ClaheTiles = def.ClaheTiles
	}
	if o.ClaheWindow < 3 {
		o.ClaheWindow = def.ClaheWindow
		o.ClaheOffset = def.ClaheOffset
	}

	if o.MinContent <= 0 || o.MinContent > 1 {
		o.MinContent = def.MinContent
	}
	if o.AcceptContent <= 0 || o.AcceptContent > 1 {
		o.AcceptContent = def.AcceptContent
	}
	if o.SparseContent <= 0 || o.SparseContent > 1 {
		o.SparseContent = def.SparseContent
	}
	if o.LossThreshold <= 0 {
		o.LossThreshold = def.LossThreshold
	}
	if o.LossThreshold > 1 {
		o.LossThreshold = 1
	}

	if o.Gentle == (Profile{}) {
		o.Gentle = def.Gentle
	}
	if o.Standard == (Profile{}) {
		o.Standard = def.Standard
	}

	return nil
}

// LoadOptions reads options from a JSON file. Fields absent from the
// file keep their defaults, and a missing file yields DefaultOptions,
// so a partial override file is enough to retune a single knob.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("failed to open options: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&opts); err != nil {
		return opts, fmt.Errorf("failed to parse options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// SaveOptions writes options to a JSON file, indented for hand editing.
func SaveOptions(opts Options, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create options file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(opts); err != nil {
		return fmt.Errorf("failed to write options: %w", err)
	}
	return nil
}
