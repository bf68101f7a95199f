package errors

import "math"

// ValidateScale checks that v is a finite scale factor within [floor, ceiling].
func ValidateScale(v, floor, ceiling float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "scale must be a finite number")
	}
	if v < floor || v > ceiling {
		return New(ErrCodeInvalidInput, "scale %.2f outside [%.2f, %.2f]", v, floor, ceiling)
	}
	return nil
}

// ValidateViewport rejects non-positive or non-finite display bounds.
// A viewport smaller than the image budget is allowed; placements collapse
// onto the lower bound in that case.
func ValidateViewport(width, height, panelWidth float64) error {
	for _, v := range []float64{width, height, panelWidth} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "viewport dimensions must be finite")
		}
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidInput, "viewport must be positive, got %.0fx%.0f", width, height)
	}
	if panelWidth < 0 {
		return New(ErrCodeInvalidInput, "panel width cannot be negative")
	}
	return nil
}
