// Package collage holds the pure, display-independent parts of a Wikipedia
// image collage: the data model, the candidate eligibility filter, and the
// random placement generator.
//
// # Eligibility
//
// Article image listings are full of UI chrome (edit pencils, commons logos,
// flag icons). [Eligible] drops any filename that, lowercased, contains one of
// the [ExcludedSubstrings]. The filter is a heuristic: false positives and
// negatives are accepted. [SelectCandidates] applies the filter and keeps the
// first [MaxImagesPerArticle] survivors in listing order.
//
// # Placement
//
// [Placer] scatters images across the area right of the control panel:
//
//	x ∈ [panelWidth+Padding, viewport.Width-ImageBudget-Padding]
//	y ∈ [Padding, viewport.Height-ImageBudget-Padding]
//	scale ∈ [range.Min, range.Max]
//	rotation ∈ [-MaxRotation, +MaxRotation]
//
// The randomness is a shared non-cryptographic source; nothing here is
// seeded for reproducibility unless a [Source] is injected.
package collage
