package render

// bayer4 is the 4x4 ordered dithering matrix, thresholds 0..15.
var bayer4 = [4][4]uint8{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// OrderedDither4 maps an 8-bit grayscale sample at destination coordinate
// (x, y) to a 2-bit level using the Bayer matrix. The threshold depends
// only on the coordinate, so output is deterministic and independent of
// block decode order.
func OrderedDither4(gray uint8, x, y int) uint8 {
	scaled := int(gray) * 3
	level := scaled / 255
	rem := scaled % 255
	if rem*16 > int(bayer4[y&3][x&3])*255 {
		level++
	}
	if level > 3 {
		level = 3
	}
	return uint8(level)
}

// Quantize4 maps an 8-bit grayscale sample to a 2-bit level by direct
// division; the top bin absorbs the remainder (255/85 = 3).
func Quantize4(gray uint8) uint8 {
	level := gray / 85
	if level > 3 {
		level = 3
	}
	return level
}
