package collage

import "strings"

// MaxImagesPerArticle caps how many eligible candidates are resolved per article.
const MaxImagesPerArticle = 3

// ExcludedSubstrings mark filenames that are almost always icons or UI chrome.
var ExcludedSubstrings = []string{"icon", "logo", ".svg", "commons-", "edit-", "symbol"}

// Eligible reports whether filename survives the exclusion filter.
// Matching is case-insensitive.
func Eligible(filename string) bool {
	lower := strings.ToLower(filename)
	for _, s := range ExcludedSubstrings {
		if strings.Contains(lower, s) {
			return false
		}
	}
	return true
}

// FilterCandidates returns the eligible candidates in listing order.
func FilterCandidates(images []ImageCandidate) []ImageCandidate {
	var out []ImageCandidate
	for _, img := range images {
		if Eligible(img.Title) {
			out = append(out, img)
		}
	}
	return out
}

// SelectCandidates filters images and keeps at most limit of the earliest
// eligible ones. A non-positive limit means [MaxImagesPerArticle].
func SelectCandidates(images []ImageCandidate, limit int) []ImageCandidate {
	if limit <= 0 {
		limit = MaxImagesPerArticle
	}
	eligible := FilterCandidates(images)
	if len(eligible) > limit {
		eligible = eligible[:limit]
	}
	return eligible
}

// IsVectorURL reports whether a resolved image URL points at an SVG file.
// Such URLs are discarded even when the filename passed [Eligible]. The
// suffix match ignores case, so ".SVG" uploads are dropped as well.
func IsVectorURL(url string) bool {
	return strings.HasSuffix(strings.ToLower(url), ".svg")
}
