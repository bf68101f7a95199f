package collage

// ScaleRange bounds the random scale factor. Min ≤ Max always holds for
// values produced by [ScaleRange.WithMin] and [ScaleRange.WithMax].
type ScaleRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// WithMin sets the lower bound. Raising it above Max pushes Max up to match.
func (r ScaleRange) WithMin(v float64) ScaleRange {
	r.Min = v
	if r.Min > r.Max {
		r.Max = v
	}
	return r
}

// WithMax sets the upper bound. Lowering it below Min pulls Min down to match.
func (r ScaleRange) WithMax(v float64) ScaleRange {
	r.Max = v
	if r.Max < r.Min {
		r.Min = v
	}
	return r
}

// Valid reports whether Min ≤ Max.
func (r ScaleRange) Valid() bool { return r.Min <= r.Max }
