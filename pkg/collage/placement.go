package collage

import (
	"fmt"
	"math/rand/v2"
)

// Layout constants in CSS pixels and degrees.
const (
	// Padding keeps images off the viewport edges and the control panel.
	Padding = 50

	// ImageBudget is the footprint reserved for one image so it stays fully
	// visible at the right and bottom edges.
	ImageBudget = 400

	// MaxRotation is the absolute tilt limit.
	MaxRotation = 10

	// DefaultPanelWidth is the width of the control panel on the left.
	DefaultPanelWidth = 400
)

// Source yields uniform floats in [0, 1). Implementations must be safe for
// concurrent use: placements are computed from concurrent resolutions.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource is backed by the process-wide math/rand/v2 generator.
var DefaultSource Source = globalSource{}

// Placer generates random placements.
type Placer struct {
	src Source
}

// NewPlacer returns a Placer drawing from src, or [DefaultSource] if nil.
func NewPlacer(src Source) *Placer {
	if src == nil {
		src = DefaultSource
	}
	return &Placer{src: src}
}

// Next returns a placement uniformly distributed within the area right of the
// panel. If the viewport is too narrow or short for the image budget, that
// axis collapses onto its lower bound.
func (p *Placer) Next(vp Viewport, panelWidth float64, scale ScaleRange) Placement {
	minX := panelWidth + Padding
	maxX := vp.Width - ImageBudget - Padding
	minY := float64(Padding)
	maxY := vp.Height - ImageBudget - Padding

	return Placement{
		X:        p.between(minX, maxX),
		Y:        p.between(minY, maxY),
		Scale:    p.between(scale.Min, scale.Max),
		Rotation: p.between(-MaxRotation, MaxRotation),
	}
}

func (p *Placer) between(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + p.src.Float64()*(hi-lo)
}

// Accent is the HSL frame color drawn behind a rendered image.
type Accent struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Lightness  float64 `json:"lightness"`
}

// RandomAccent returns a vivid color: any hue, 70-100% saturation,
// 40-60% lightness.
func RandomAccent(src Source) Accent {
	if src == nil {
		src = DefaultSource
	}
	return Accent{
		Hue:        src.Float64() * 360,
		Saturation: 70 + src.Float64()*30,
		Lightness:  40 + src.Float64()*20,
	}
}

// String formats the accent as a CSS hsl() value.
func (a Accent) String() string {
	return fmt.Sprintf("hsl(%.1f, %.1f%%, %.1f%%)", a.Hue, a.Saturation, a.Lightness)
}
