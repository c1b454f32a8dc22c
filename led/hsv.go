package led

import "github.com/lucasb-eyer/go-colorful"

// HSV converts a hue/saturation/value triple, each scaled 0..255, to an
// RGB8. The firmware doesn't carry its own colour-space conversion; the
// animator treats this as a black box over go-colorful.
func HSV(h, s, v byte) RGB8 {
	c := colorful.Hsv(float64(h)*360/255, float64(s)/255, float64(v)/255)
	r, g, b := c.RGB255()
	return RGB8{R: r, G: g, B: b}
}
