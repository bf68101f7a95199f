package collage

// ArticleCount is the number of random articles fetched per batch. It is
// fixed; nothing configures it.
const ArticleCount = 5

// Article is a random content-namespace page returned by the MediaWiki API.
type Article struct {
	Title string `json:"title"`
	ID    int    `json:"id"`
}

// ImageCandidate is one file referenced by an article, e.g. "File:Foo.jpg".
type ImageCandidate struct {
	Title string `json:"title"`
}

// Placement is the randomized position of a rendered image.
// Rotation is in degrees.
type Placement struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
}

// ResolvedImage is an eligible image with a direct URL and a placement,
// ready to be appended to a display.
type ResolvedImage struct {
	URL                string    `json:"url"`
	SourceArticleTitle string    `json:"source_article_title"`
	Position           Placement `json:"position"`
}

// Viewport is the visible display area in CSS pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
