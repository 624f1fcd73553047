package luminance

// RotateY90 rotates the Y plane of a width x height frame 90 degrees
// clockwise. The result is height x width; chroma planes are dropped.
func RotateY90(data []byte, width, height int) []byte {
	out := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out[x*height+height-y-1] = data[y*width+x]
		}
	}
	return out
}
