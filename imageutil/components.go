package imageutil

// FilterComponents removes 8-connected ink components smaller than
// minArea pixels, replacing them with background white. Ink pixels are
// those below the midpoint, so near-binary masks are treated the same as
// strict ones. minArea of 1 or less returns an unchanged copy.
func FilterComponents(mask *GrayImage, minArea int) *GrayImage {
	out := mask.Clone()
	if minArea <= 1 {
		return out
	}

	width, height := mask.Width(), mask.Height()
	ink := func(x, y int) bool {
		return mask.Gray.Pix[y*mask.Stride+x] < 128
	}

	visited := make([]bool, width*height)
	var queue, component []int

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !ink(x, y) || visited[y*width+x] {
				continue
			}

			// Flood-fill one component, collecting its pixels.
			queue = queue[:0]
			component = component[:0]
			visited[y*width+x] = true
			queue = append(queue, y*width+x)
			for len(queue) > 0 {
				idx := queue[0]
				queue = queue[1:]
				component = append(component, idx)

				cx, cy := idx%width, idx/width
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := cx+dx, cy+dy
						if nx < 0 || ny < 0 || nx >= width || ny >= height {
							continue
						}
						nidx := ny*width + nx
						if visited[nidx] || !ink(nx, ny) {
							continue
						}
						visited[nidx] = true
						queue = append(queue, nidx)
					}
				}
			}

			if len(component) < minArea {
				for _, idx := range component {
					out.Gray.Pix[(idx/width)*out.Stride+idx%width] = 255
				}
			}
		}
	}

	return out
}
