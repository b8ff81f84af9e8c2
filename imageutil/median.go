package imageutil

// MedianBlur replaces each pixel with the median of its window-sized
// neighborhood, with borders replicated. On a binary mask this removes
// isolated specks and pinholes without softening stroke edges the way a
// linear blur would. Even window sizes round up; windows below 3 return
// an unchanged copy.
func MedianBlur(img *GrayImage, window int) *GrayImage {
	if window < 3 {
		return img.Clone()
	}
	if window%2 == 0 {
		window++
	}
	radius := window / 2

	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)

	buf := make([]uint8, 0, window*window)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf = buf[:0]
			for dy := -radius; dy <= radius; dy++ {
				sy := clampInt(y+dy, 0, height-1)
				for dx := -radius; dx <= radius; dx++ {
					sx := clampInt(x+dx, 0, width-1)
					buf = append(buf, img.Gray.Pix[sy*img.Stride+sx])
				}
			}
			dst.Gray.Pix[y*dst.Stride+x] = medianOf(buf)
		}
	}

	return dst
}

// medianOf returns the median of buf, sorting it in place.
func medianOf(buf []uint8) uint8 {
	for i := 1; i < len(buf); i++ {
		v := buf[i]
		j := i - 1
		for j >= 0 && buf[j] > v {
			buf[j+1] = buf[j]
			j--
		}
		buf[j+1] = v
	}
	return buf[len(buf)/2]
}
