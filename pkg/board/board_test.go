package board

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/wikicollage/pkg/collage"
)

func TestMemory_AppendItemsClear(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, id := range []string{"a", "b", "c"} {
		if err := m.Append(ctx, Item{ID: id}); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	items, _ := m.Items(ctx)
	if len(items) != 3 || items[0].ID != "a" || items[2].ID != "c" {
		t.Errorf("Items() = %v, want a,b,c in order", items)
	}

	// Snapshot must not alias internal storage.
	items[0].ID = "mutated"
	again, _ := m.Items(ctx)
	if again[0].ID != "a" {
		t.Error("Items() returned an alias of internal state")
	}

	n, err := m.Clear(ctx)
	if err != nil || n != 3 {
		t.Errorf("Clear() = %d, %v; want 3, nil", n, err)
	}
	if l, _ := m.Len(ctx); l != 0 {
		t.Errorf("Len() after Clear = %d, want 0", l)
	}
}

func TestMemory_AppendAfterClear(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Append(ctx, Item{ID: "before"})
	m.Clear(ctx)

	// A late result from an in-flight run still lands on the emptied board.
	m.Append(ctx, Item{ID: "late"})
	items, _ := m.Items(ctx)
	if len(items) != 1 || items[0].ID != "late" {
		t.Errorf("Items() = %v, want [late]", items)
	}
}

func TestMemory_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Append(ctx, Item{})
		}()
	}
	wg.Wait()

	if n, _ := m.Len(ctx); n != 50 {
		t.Errorf("Len() = %d, want 50", n)
	}
}

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func TestDisplay_Append(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	stamp := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	d := &Display{
		Board:  m,
		Colors: fixedSource(0.5),
		Now:    func() time.Time { return stamp },
	}

	img := collage.ResolvedImage{
		URL:                "https://upload.wikimedia.org/a.jpg",
		SourceArticleTitle: "Bar baz",
		Position:           collage.Placement{X: 500, Y: 60, Scale: 0.5, Rotation: 3},
	}
	if err := d.Append(ctx, img); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	items, _ := m.Items(ctx)
	if len(items) != 1 {
		t.Fatalf("Items() = %d, want 1", len(items))
	}
	it := items[0]
	if len(it.ID) != 36 {
		t.Errorf("ID = %q, want a UUID", it.ID)
	}
	if it.ArticleURL != "https://en.wikipedia.org/wiki/Bar%20baz" {
		t.Errorf("ArticleURL = %q", it.ArticleURL)
	}
	if it.Accent != "hsl(180.0, 85.0%, 50.0%)" {
		t.Errorf("Accent = %q", it.Accent)
	}
	if !it.AddedAt.Equal(stamp) {
		t.Errorf("AddedAt = %v, want %v", it.AddedAt, stamp)
	}
	if it.Image != img {
		t.Errorf("Image = %+v, want %+v", it.Image, img)
	}
}

func TestDisplay_DistinctIDs(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	d := NewDisplay(m, "https://de.wikipedia.org/wiki/")

	for i := 0; i < 3; i++ {
		d.Append(ctx, collage.ResolvedImage{SourceArticleTitle: "Köln"})
	}
	items, _ := m.Items(ctx)
	seen := map[string]bool{}
	for _, it := range items {
		if seen[it.ID] {
			t.Errorf("duplicate ID %s", it.ID)
		}
		seen[it.ID] = true
		if !strings.HasPrefix(it.ArticleURL, "https://de.wikipedia.org/wiki/K") {
			t.Errorf("ArticleURL = %q, want configured base", it.ArticleURL)
		}
	}
}

func TestRedisKeyAndDecode(t *testing.T) {
	if got := Key("abc"); got != "wikicollage:board:abc" {
		t.Errorf("Key() = %q", got)
	}

	data, _ := json.Marshal(Item{ID: "x", Accent: "hsl(1.0, 70.0%, 40.0%)"})
	items, err := decodeItems([]string{string(data)})
	if err != nil {
		t.Fatalf("decodeItems() error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "x" {
		t.Errorf("decodeItems() = %v", items)
	}

	if _, err := decodeItems([]string{"not json"}); err == nil {
		t.Error("decodeItems() should reject invalid JSON")
	}
}

func TestConnectUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := Connect(ctx, "redis://127.0.0.1:1/0"); err == nil {
		t.Error("Connect() to a closed port should fail")
	}
}
