package img2line

import (
	"image"

	"github.com/mergimdemku/img2line/imageutil"
)

// Band edges for the quality report. Pixels below the black cutoff
// count as line work, pixels above the white cutoff as colorable
// background, and everything between as the gray that muddies a print.
const (
	qualityBlackCutoff = 50
	qualityWhiteCutoff = 200
)

// QualityReport scores how well an image works as a coloring page.
// The score starts at 100 and loses points for gray contamination,
// line work that is too sparse or too dense, and a background that is
// not white enough. Suitable is set at 60 or above.
type QualityReport struct {
	Score       int
	BlackRatio  float64
	WhiteRatio  float64
	GrayRatio   float64
	LineDensity float64
	Issues      []string
	Suitable    bool
}

// ValidateQuality measures a finished page. It accepts any image; a
// nil input gets a zero score.
func ValidateQuality(img image.Image) QualityReport {
	if img == nil {
		return QualityReport{Issues: []string{"no image"}}
	}
	gray := imageutil.GrayImageFromImage(img)
	total := gray.Width() * gray.Height()
	if total == 0 {
		return QualityReport{Issues: []string{"empty image"}}
	}

	hist := imageutil.Histogram(gray)
	black, white := 0, 0
	for i, n := range hist {
		if i < qualityBlackCutoff {
			black += n
		} else if i > qualityWhiteCutoff {
			white += n
		}
	}

	report := QualityReport{
		BlackRatio: float64(black) / float64(total),
		WhiteRatio: float64(white) / float64(total),
		GrayRatio:  float64(total-black-white) / float64(total),
	}

	edges := imageutil.CannyDefault(gray)
	edgeCount := 0
	for y := 0; y < edges.Height(); y++ {
		row := edges.Pix[y*edges.Stride : y*edges.Stride+edges.Width()]
		for _, v := range row {
			if v > 0 {
				edgeCount++
			}
		}
	}
	report.LineDensity = float64(edgeCount) / float64(total)

	report.Score = 100
	if report.GrayRatio > 0.10 {
		report.Score -= 20
		report.Issues = append(report.Issues, "too much gray, needs a harder threshold")
	}
	if report.BlackRatio < 0.05 {
		report.Score -= 15
		report.Issues = append(report.Issues, "line work too thin or sparse")
	}
	if report.BlackRatio > 0.30 {
		report.Score -= 15
		report.Issues = append(report.Issues, "too dense to color comfortably")
	}
	if report.WhiteRatio < 0.60 {
		report.Score -= 10
		report.Issues = append(report.Issues, "background not white enough")
	}
	report.Suitable = report.Score >= 60

	return report
}
