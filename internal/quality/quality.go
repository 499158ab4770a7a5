// Package quality scores a camera frame for lighting, sharpness and contrast.
// The scores guide the user before a liveness attempt; they never feed the
// challenge decision.
package quality

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// sampleStride picks every 10th pixel in row-major order for brightness
	// statistics.
	sampleStride = 10
	// laplacianStep is the pixel spacing of the sharpness kernel.
	laplacianStep = 4

	darkLimit   = 80.0
	brightLimit = 180.0
	brightSpan  = 75.0

	sharpnessScale = 50.0
	contrastScale  = 70.0
)

// Report holds 0-100 quality scores for one frame.
type Report struct {
	Lighting  float64 `json:"lighting"`
	Sharpness float64 `json:"sharpness"`
	Contrast  float64 `json:"contrast"`
	Clarity   int     `json:"clarity"`
}

// Analyze scores img. An empty image scores zero everywhere.
func Analyze(img image.Image) Report {
	samples := brightnessSamples(img)
	if len(samples) == 0 {
		return Report{}
	}

	mean, std := stat.PopMeanStdDev(samples, nil)

	r := Report{
		Lighting:  LightingScore(mean),
		Sharpness: SharpnessScore(img),
		Contrast:  ContrastScore(std),
	}
	r.Clarity = Clarity(r.Lighting, r.Sharpness, r.Contrast)
	return r
}

// Luminance returns the perceived brightness of a pixel on a 0-255 scale.
func Luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
}

func brightnessSamples(img image.Image) []float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	samples := make([]float64, 0, (w*h)/sampleStride+1)
	for i := 0; i < w*h; i += sampleStride {
		x := bounds.Min.X + i%w
		y := bounds.Min.Y + i/w
		samples = append(samples, Luminance(img.At(x, y)))
	}
	return samples
}

// LightingScore is 100 for a mean brightness within [80, 180] and falls off
// linearly outside it.
func LightingScore(mean float64) float64 {
	switch {
	case mean < darkLimit:
		return math.Max(0, mean/darkLimit*100)
	case mean > brightLimit:
		return math.Max(0, 100-(mean-brightLimit)/brightSpan*100)
	default:
		return 100
	}
}

// SharpnessScore is the mean squared Laplacian response of a sparse grid,
// scaled so that 50 maps to 100.
func SharpnessScore(img image.Image) float64 {
	b := img.Bounds()
	lum := func(x, y int) float64 {
		return Luminance(img.At(b.Min.X+x, b.Min.Y+y))
	}

	var responses []float64
	for y := laplacianStep; y < b.Dy()-laplacianStep; y += laplacianStep {
		for x := laplacianStep; x < b.Dx()-laplacianStep; x += laplacianStep {
			l := math.Abs(4*lum(x, y) - (lum(x, y-laplacianStep) + lum(x, y+laplacianStep) +
				lum(x-laplacianStep, y) + lum(x+laplacianStep, y)))
			responses = append(responses, l*l)
		}
	}
	if len(responses) == 0 {
		return 0
	}

	return math.Min(100, stat.Mean(responses, nil)/sharpnessScale*100)
}

// ContrastScore maps a brightness standard deviation to 0-100, saturating at 70.
func ContrastScore(stdDev float64) float64 {
	return math.Min(100, stdDev/contrastScale*100)
}

// Clarity is the rounded weighted average of the three scores.
func Clarity(lighting, sharpness, contrast float64) int {
	return int(math.Round(0.3*lighting + 0.5*sharpness + 0.2*contrast))
}
