package stereo

import "image"

// CenteredROI returns the sub-rectangle covering percent of each dimension
// of the full frame, centered. Width and height are truncated toward zero,
// so for odd products the region is biased one pixel toward the top-left,
// matching the device SDK's rectangle math.
func CenteredROI(full Resolution, percent int) image.Rectangle {
	w := full.Width * percent / 100
	h := full.Height * percent / 100
	x := (full.Width - w) / 2
	y := (full.Height - h) / 2
	return image.Rect(x, y, x+w, y+h)
}
