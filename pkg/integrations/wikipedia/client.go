package wikipedia

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/matzehuels/wikicollage/pkg/collage"
	"github.com/matzehuels/wikicollage/pkg/integrations"
)

const (
	// DefaultEndpoint is the English Wikipedia Action API.
	DefaultEndpoint = "https://en.wikipedia.org/w/api.php"

	// DefaultWikiBase is the prefix for human-readable article URLs.
	DefaultWikiBase = "https://en.wikipedia.org/wiki/"

	// contentNamespace restricts random pages to articles.
	contentNamespace = "0"
)

// Config configures a Client. Empty fields take the package defaults.
type Config struct {
	Endpoint          string
	WikiBase          string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client queries the MediaWiki API for random articles and their images.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	endpoint string
	wikiBase string
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.WikiBase == "" {
		cfg.WikiBase = DefaultWikiBase
	}
	var headers map[string]string
	if cfg.UserAgent != "" {
		headers = map[string]string{"User-Agent": cfg.UserAgent}
	}
	return &Client{
		Client: integrations.NewClient(integrations.Options{
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Headers:           headers,
		}),
		endpoint: cfg.Endpoint,
		wikiBase: cfg.WikiBase,
	}
}

// RandomArticles returns count random articles from the content namespace,
// in the order the API returned them.
//
// Returns:
//   - [integrations.ErrNetwork] if the request fails or the status is not 200
//   - [integrations.ErrMalformedResponse] if query.random is missing
func (c *Client) RandomArticles(ctx context.Context, count int) ([]collage.Article, error) {
	if count <= 0 {
		count = collage.ArticleCount
	}
	var data randomResponse
	if err := c.Get(ctx, c.query(map[string]string{
		"list":        "random",
		"rnnamespace": contentNamespace,
		"rnlimit":     strconv.Itoa(count),
	}), &data); err != nil {
		return nil, fmt.Errorf("random articles: %w", err)
	}
	if err := data.check(); err != nil {
		return nil, fmt.Errorf("random articles: %w", err)
	}
	if data.Query == nil || data.Query.Random == nil {
		return nil, fmt.Errorf("random articles: %w: missing query.random", integrations.ErrMalformedResponse)
	}

	articles := make([]collage.Article, 0, len(data.Query.Random))
	for _, r := range data.Query.Random {
		articles = append(articles, collage.Article{Title: r.Title, ID: r.ID})
	}
	return articles, nil
}

// ListImages returns the files referenced by the article title, in listing
// order. An article without an images field yields an empty slice.
func (c *Client) ListImages(ctx context.Context, title string) ([]collage.ImageCandidate, error) {
	p, err := c.firstPage(ctx, "list images", map[string]string{
		"titles": title,
		"prop":   "images",
	})
	if err != nil {
		return nil, err
	}

	images := make([]collage.ImageCandidate, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, collage.ImageCandidate{Title: img.Title})
	}
	return images, nil
}

// ImageURL resolves a file title to its direct URL. ok is false when the file
// has no image info (deleted, missing, or not a media file).
func (c *Client) ImageURL(ctx context.Context, filename string) (string, bool, error) {
	p, err := c.firstPage(ctx, "image info", map[string]string{
		"titles": filename,
		"prop":   "imageinfo",
		"iiprop": "url",
	})
	if err != nil {
		return "", false, err
	}
	if len(p.ImageInfo) == 0 || p.ImageInfo[0].URL == "" {
		return "", false, nil
	}
	return p.ImageInfo[0].URL, true, nil
}

// ArticleURL returns the human-readable page URL for title.
func (c *Client) ArticleURL(title string) string {
	return ArticleURL(c.wikiBase, title)
}

// ArticleURL joins base and the path-escaped title.
func ArticleURL(base, title string) string {
	if base == "" {
		base = DefaultWikiBase
	}
	return base + url.PathEscape(title)
}

func (c *Client) firstPage(ctx context.Context, op string, params map[string]string) (*apiPage, error) {
	var data pagesResponse
	if err := c.Get(ctx, c.query(params), &data); err != nil {
		return nil, fmt.Errorf("%s %q: %w", op, params["titles"], err)
	}
	if err := data.check(); err != nil {
		return nil, fmt.Errorf("%s %q: %w", op, params["titles"], err)
	}
	if data.Query == nil || len(data.Query.Pages) == 0 {
		return nil, fmt.Errorf("%s %q: %w: missing query.pages", op, params["titles"], integrations.ErrMalformedResponse)
	}

	// A single title yields a single page; sorting keeps multi-page
	// responses deterministic.
	keys := make([]string, 0, len(data.Query.Pages))
	for k := range data.Query.Pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	p := data.Query.Pages[keys[0]]
	return &p, nil
}

func (c *Client) query(params map[string]string) string {
	params["action"] = "query"
	params["format"] = "json"
	params["origin"] = "*"
	return integrations.BuildURL(c.endpoint, params)
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type envelope struct {
	Error *apiError `json:"error,omitempty"`
}

func (e envelope) check() error {
	if e.Error != nil {
		return fmt.Errorf("%w: api error %s: %s", integrations.ErrMalformedResponse, e.Error.Code, e.Error.Info)
	}
	return nil
}

type randomResponse struct {
	envelope
	Query *struct {
		Random []apiRandom `json:"random"`
	} `json:"query"`
}

type apiRandom struct {
	ID    int    `json:"id"`
	NS    int    `json:"ns"`
	Title string `json:"title"`
}

type pagesResponse struct {
	envelope
	Query *struct {
		Pages map[string]apiPage `json:"pages"`
	} `json:"query"`
}

type apiPage struct {
	PageID    int            `json:"pageid,omitempty"`
	Title     string         `json:"title"`
	Images    []apiImage     `json:"images,omitempty"`
	ImageInfo []apiImageInfo `json:"imageinfo,omitempty"`
}

type apiImage struct {
	NS    int    `json:"ns"`
	Title string `json:"title"`
}

type apiImageInfo struct {
	URL            string `json:"url"`
	DescriptionURL string `json:"descriptionurl,omitempty"`
}
