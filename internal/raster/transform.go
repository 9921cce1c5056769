package raster

// GeoTransform is an affine pixel-to-CRS transform in GDAL order:
//
//	x = gt[0] + col*gt[1] + row*gt[2]
//	y = gt[3] + col*gt[4] + row*gt[5]
type GeoTransform [6]float64

// FromBounds returns the north-up transform that maps a width x height grid
// onto the extent (left, bottom, right, top). The origin is the top-left
// corner and the row step is negative.
func FromBounds(left, bottom, right, top float64, width, height int) GeoTransform {
	return GeoTransform{
		left,
		(right - left) / float64(width),
		0,
		top,
		0,
		-(top - bottom) / float64(height),
	}
}

// Origin returns the top-left corner.
func (gt GeoTransform) Origin() (float64, float64) {
	return gt[0], gt[3]
}

// Resolution returns the pixel width and the (positive) pixel height.
func (gt GeoTransform) Resolution() (float64, float64) {
	return gt[1], -gt[5]
}

// Bounds returns (left, bottom, right, top) for a width x height grid.
func (gt GeoTransform) Bounds(width, height int) (left, bottom, right, top float64) {
	left, top = gt.Origin()
	right = left + float64(width)*gt[1]
	bottom = top + float64(height)*gt[5]
	return left, bottom, right, top
}
