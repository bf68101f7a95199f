package wikipedia

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/matzehuels/wikicollage/pkg/collage"
	"github.com/matzehuels/wikicollage/pkg/integrations"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{Endpoint: server.URL + "/w/api.php", UserAgent: "wikicollage/test"})
}

func TestClient_RandomArticles(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		want := map[string]string{
			"action": "query", "format": "json", "origin": "*",
			"list": "random", "rnnamespace": "0", "rnlimit": "5",
		}
		for k, v := range want {
			if q.Get(k) != v {
				t.Errorf("param %s = %q, want %q", k, q.Get(k), v)
			}
		}
		if r.Header.Get("User-Agent") != "wikicollage/test" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(`{"batchcomplete":"","continue":{"rncontinue":"x"},"query":{"random":[
			{"id":11,"ns":0,"title":"Foo"},
			{"id":22,"ns":0,"title":"Bar baz"}
		]}}`))
	})

	articles, err := c.RandomArticles(context.Background(), 5)
	if err != nil {
		t.Fatalf("RandomArticles() error: %v", err)
	}
	want := []collage.Article{{Title: "Foo", ID: 11}, {Title: "Bar baz", ID: 22}}
	if !reflect.DeepEqual(articles, want) {
		t.Errorf("RandomArticles() = %v, want %v", articles, want)
	}
}

func TestClient_RandomArticles_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusBadGateway, ``, integrations.ErrNetwork},
		{"missing query", http.StatusOK, `{"batchcomplete":""}`, integrations.ErrMalformedResponse},
		{"missing random", http.StatusOK, `{"query":{}}`, integrations.ErrMalformedResponse},
		{"api error", http.StatusOK, `{"error":{"code":"ratelimited","info":"slow down"}}`, integrations.ErrMalformedResponse},
		{"not json", http.StatusOK, `<!doctype html>`, integrations.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.RandomArticles(context.Background(), 5)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RandomArticles() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_ListImages(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("prop") != "images" || q.Get("titles") != "Foo" {
			t.Errorf("unexpected query %v", q)
		}
		w.Write([]byte(`{"query":{"pages":{"11":{"pageid":11,"ns":0,"title":"Foo","images":[
			{"ns":6,"title":"File:Icon-x.png"},
			{"ns":6,"title":"File:Photo1.jpg"}
		]}}}}`))
	})

	images, err := c.ListImages(context.Background(), "Foo")
	if err != nil {
		t.Fatalf("ListImages() error: %v", err)
	}
	want := []collage.ImageCandidate{{Title: "File:Icon-x.png"}, {Title: "File:Photo1.jpg"}}
	if !reflect.DeepEqual(images, want) {
		t.Errorf("ListImages() = %v, want %v", images, want)
	}
}

func TestClient_ListImages_NoImagesField(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"pages":{"11":{"pageid":11,"ns":0,"title":"Foo"}}}}`))
	})

	images, err := c.ListImages(context.Background(), "Foo")
	if err != nil {
		t.Fatalf("ListImages() error: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("ListImages() = %v, want empty", images)
	}
}

func TestClient_ListImages_MissingPages(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{}}`))
	})

	_, err := c.ListImages(context.Background(), "Foo")
	if !errors.Is(err, integrations.ErrMalformedResponse) {
		t.Errorf("ListImages() error = %v, want ErrMalformedResponse", err)
	}
}

func TestClient_ImageURL(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("prop") != "imageinfo" || q.Get("iiprop") != "url" {
			t.Errorf("unexpected query %v", q)
		}
		switch q.Get("titles") {
		case "File:Photo1.jpg":
			w.Write([]byte(`{"query":{"pages":{"-1":{"ns":6,"title":"File:Photo1.jpg","imagerepository":"shared",
				"imageinfo":[{"url":"https://upload.wikimedia.org/wikipedia/commons/a/ab/Photo1.jpg"}]}}}}`))
		case "File:Gone.jpg":
			w.Write([]byte(`{"query":{"pages":{"-1":{"ns":6,"title":"File:Gone.jpg","missing":""}}}}`))
		default:
			t.Errorf("unexpected title %q", q.Get("titles"))
		}
	})

	u, ok, err := c.ImageURL(context.Background(), "File:Photo1.jpg")
	if err != nil || !ok {
		t.Fatalf("ImageURL() = %q, %v, %v", u, ok, err)
	}
	if u != "https://upload.wikimedia.org/wikipedia/commons/a/ab/Photo1.jpg" {
		t.Errorf("ImageURL() = %q", u)
	}

	u, ok, err = c.ImageURL(context.Background(), "File:Gone.jpg")
	if err != nil {
		t.Fatalf("ImageURL() error: %v", err)
	}
	if ok || u != "" {
		t.Errorf("ImageURL() = %q, %v; want absent", u, ok)
	}
}

func TestArticleURL(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Foo", "https://en.wikipedia.org/wiki/Foo"},
		{"Bar baz", "https://en.wikipedia.org/wiki/Bar%20baz"},
		{"AC/DC", "https://en.wikipedia.org/wiki/AC%2FDC"},
		{"Café?", "https://en.wikipedia.org/wiki/Caf%C3%A9%3F"},
	}
	c := NewClient(Config{})
	for _, tt := range tests {
		if got := c.ArticleURL(tt.title); got != tt.want {
			t.Errorf("ArticleURL(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
