package img2line

import "github.com/mergimdemku/img2line/imageutil"

// StageResult records one refinement stage for the audit trail: the
// stage name, its output, the content metrics on either side and
// whether the guard accepted the transform. When Accepted is false the
// Output is the unchanged pre-stage mask and After records what the
// rejected transform would have produced.
type StageResult struct {
	Name     string
	Output   *imageutil.GrayImage
	Before   ContentMetrics
	After    ContentMetrics
	Accepted bool
}

// GuardApply runs transform under the content-preservation guard. The
// ink ratio is measured before and after the transform; when the
// relative loss (before-after)/before exceeds lossThreshold the result
// is discarded and the input propagates instead. A mask with no ink to
// begin with has nothing to lose, so the transform is always accepted.
//
// Metrics are computed fresh on both sides of every call; nothing is
// carried over from earlier stages.
func GuardApply(mask *imageutil.GrayImage, name string, lossThreshold float64, transform func(*imageutil.GrayImage) *imageutil.GrayImage) StageResult {
	before := Analyze(mask)
	out := transform(mask)
	after := Analyze(out)

	loss := 0.0
	if before.ContentRatio > 0 {
		loss = (before.ContentRatio - after.ContentRatio) / before.ContentRatio
	}

	if loss > lossThreshold {
		return StageResult{Name: name, Output: mask, Before: before, After: after, Accepted: false}
	}
	return StageResult{Name: name, Output: out, Before: before, After: after, Accepted: true}
}
