package imageutil

import "math"

// Morphological operators over line-art masks. Foreground is ink, the
// dark pixels: Dilate therefore thickens strokes by taking the minimum
// intensity under the structuring element, and Erode thins them by taking
// the maximum. Close (dilate then erode) bridges small gaps in strokes;
// Open (erode then dilate) removes isolated dark specks. This is the
// inverse of OpenCV's bright-foreground convention, so porting cv2 calls
// on masks of dark lines means swapping dilate and erode.

// StructShape selects the structuring element shape.
type StructShape int

const (
	// StructRect is a filled rectangle.
	StructRect StructShape = iota
	// StructEllipse is the inscribed ellipse, matching OpenCV's
	// MORPH_ELLIPSE element.
	StructEllipse
)

// StructElement is a flat structuring element.
type StructElement struct {
	Width  int
	Height int
	mask   []bool
}

// NewStructElement builds a structuring element of the given shape and
// size. Sizes below 1 are clamped to 1; a 1x1 element makes every
// operator an identity.
func NewStructElement(shape StructShape, width, height int) *StructElement {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	se := &StructElement{Width: width, Height: height, mask: make([]bool, width*height)}

	if shape == StructRect {
		for i := range se.mask {
			se.mask[i] = true
		}
		return se
	}

	// Inscribed ellipse, row spans computed the way OpenCV's
	// getStructuringElement does.
	r, c := height/2, width/2
	invR2 := 0.0
	if r > 0 {
		invR2 = 1.0 / float64(r*r)
	}
	for j := 0; j < height; j++ {
		dy := j - r
		if abs(dy) > r {
			continue
		}
		dx := c
		if r > 0 {
			dx = int(float64(c) * math.Sqrt(float64(r*r-dy*dy)*invR2))
		}
		j1 := maxInt(c-dx, 0)
		j2 := min(c+dx+1, width)
		for i := j1; i < j2; i++ {
			se.mask[j*width+i] = true
		}
	}
	return se
}

// Contains reports whether the element covers the cell at (i, j).
func (se *StructElement) Contains(i, j int) bool {
	if i < 0 || j < 0 || i >= se.Width || j >= se.Height {
		return false
	}
	return se.mask[j*se.Width+i]
}

// Dilate thickens ink: each output pixel is the minimum intensity under
// the structuring element. Samples outside the image are ignored.
func Dilate(img *GrayImage, se *StructElement, iterations int) *GrayImage {
	return morphIterate(img, se, iterations, true)
}

// Erode thins ink: each output pixel is the maximum intensity under the
// structuring element. Samples outside the image are ignored, so strokes
// touching the border do not erode inward from outside.
func Erode(img *GrayImage, se *StructElement, iterations int) *GrayImage {
	return morphIterate(img, se, iterations, false)
}

// Close bridges gaps in strokes: iterations of dilation followed by the
// same number of erosions. Closing never removes ink that was present.
func Close(img *GrayImage, se *StructElement, iterations int) *GrayImage {
	return Erode(Dilate(img, se, iterations), se, iterations)
}

// Open removes ink specks smaller than the element: iterations of erosion
// followed by the same number of dilations. Opening never adds ink, and
// can wipe thin strokes entirely, so callers guard it.
func Open(img *GrayImage, se *StructElement, iterations int) *GrayImage {
	return Dilate(Erode(img, se, iterations), se, iterations)
}

func morphIterate(img *GrayImage, se *StructElement, iterations int, minOp bool) *GrayImage {
	if iterations < 1 {
		return img.Clone()
	}
	out := img
	for i := 0; i < iterations; i++ {
		out = morph(out, se, minOp)
	}
	return out
}

func morph(img *GrayImage, se *StructElement, minOp bool) *GrayImage {
	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)

	// Anchor at the element center, using integer halving so even-sized
	// elements bias up-left exactly as OpenCV's default anchor does.
	ax, ay := se.Width/2, se.Height/2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			best := uint8(0)
			if minOp {
				best = 255
			}
			for j := 0; j < se.Height; j++ {
				sy := y + j - ay
				if sy < 0 || sy >= height {
					continue
				}
				for i := 0; i < se.Width; i++ {
					if !se.mask[j*se.Width+i] {
						continue
					}
					sx := x + i - ax
					if sx < 0 || sx >= width {
						continue
					}
					v := img.Gray.Pix[sy*img.Stride+sx]
					if minOp {
						if v < best {
							best = v
						}
					} else if v > best {
						best = v
					}
				}
			}
			dst.Gray.Pix[y*dst.Stride+x] = best
		}
	}

	return dst
}

// maxInt returns the larger of two ints.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
