package table

import "github.com/lucasb-eyer/go-colorful"

var (
	steelBlue = colorful.Color{R: 70.0 / 255, G: 130.0 / 255, B: 180.0 / 255}
	white     = colorful.Color{R: 1, G: 1, B: 1}
)

// PercentColor is the background for a fraction in [0, 1]: steelblue at 0, white at 1,
// interpolated linearly in RGB. Values outside the range are clamped.
func PercentColor(fraction float64) string {
	fraction = min(max(fraction, 0), 1)
	return steelBlue.BlendRgb(white, fraction).Hex()
}
