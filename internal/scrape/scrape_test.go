package scrape

import (
	"context"
	"fmt"
	"testing"

	"github.com/pressfold/blogaug/internal/crawl"
	"github.com/pressfold/blogaug/internal/store"
)

type fakeFetcher struct{ pages map[string]string }

func (f *fakeFetcher) Get(_ context.Context, url string) ([]byte, string, error) {
	body, ok := f.pages[url]
	if !ok {
		return nil, "", fmt.Errorf("unexpected status: 404")
	}
	return []byte(body), "text/html", nil
}

// memStore mimics the document store's upsert semantics: writes key on URL,
// and a scrape upsert resets the state flag without touching references.
type memStore struct {
	articles map[string]store.Article
}

func newMemStore() *memStore { return &memStore{articles: map[string]store.Article{}} }

func (m *memStore) UpsertScraped(_ context.Context, a store.Article) error {
	prev, ok := m.articles[a.URL]
	if ok {
		a.References = prev.References
	}
	a.IsUpdated = false
	m.articles[a.URL] = a
	return nil
}

func (m *memStore) FindByState(_ context.Context, s store.State) ([]store.Article, error) {
	var out []store.Article
	for _, a := range m.articles {
		if a.State() == s {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) MarkAugmented(_ context.Context, url, content string, refs []store.Reference) error {
	a, ok := m.articles[url]
	if !ok {
		return fmt.Errorf("article not found: %s", url)
	}
	a.Content = content
	a.References = refs
	a.IsUpdated = true
	m.articles[url] = a
	return nil
}

func (m *memStore) List(_ context.Context) ([]store.Article, error) {
	var out []store.Article
	for _, a := range m.articles {
		out = append(out, a)
	}
	return out, nil
}

func articlePage(wrapper, text string) string {
	return `<html><body><nav>menu</nav>` + fmt.Sprintf(wrapper, text) + `</body></html>`
}

func TestExtractor_PrefersPrimaryContentContainer(t *testing.T) {
	url := "https://blog.example/blogs/a/"
	f := &fakeFetcher{pages: map[string]string{
		url: `<html><body><article><div class="entry-content">primary text</div><p>rest of article</p></article></body></html>`,
	}}
	st := newMemStore()
	e := &Extractor{Fetcher: f, Store: st}

	if err := e.ExtractOne(context.Background(), crawl.Discovery{Title: "A", URL: url, Date: "2021-01-01"}); err != nil {
		t.Fatalf("extract error: %v", err)
	}
	got := st.articles[url]
	if got.Content != "primary text" {
		t.Fatalf("expected .entry-content to win, got %q", got.Content)
	}
	if got.OriginalContent != got.Content {
		t.Fatalf("originalContent must equal scraped content")
	}
	if got.IsUpdated {
		t.Fatalf("fresh scrape must be pending")
	}
}

func TestExtractor_FallsBackThroughSelectors(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{"alternate container", articlePage(`<div class="post-content">%s</div>`, "alt text"), "alt text"},
		{"generic article", articlePage(`<article>%s</article>`, "article text"), "article text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			url := "https://blog.example/blogs/x/"
			f := &fakeFetcher{pages: map[string]string{url: tc.html}}
			st := newMemStore()
			e := &Extractor{Fetcher: f, Store: st}
			if err := e.ExtractOne(context.Background(), crawl.Discovery{Title: "X", URL: url}); err != nil {
				t.Fatalf("extract error: %v", err)
			}
			if got := st.articles[url].Content; got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExtractor_SkipsUnextractableWithoutWrite(t *testing.T) {
	url := "https://blog.example/blogs/empty/"
	f := &fakeFetcher{pages: map[string]string{url: `<html><body><nav>only chrome</nav></body></html>`}}
	st := newMemStore()
	e := &Extractor{Fetcher: f, Store: st}

	err := e.ExtractOne(context.Background(), crawl.Discovery{Title: "Empty", URL: url})
	if err != ErrNoContent {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
	if len(st.articles) != 0 {
		t.Fatalf("no document may be written for unextractable content")
	}
}

func TestExtractor_Run_ContinuesPastFailures(t *testing.T) {
	good := "https://blog.example/blogs/good/"
	f := &fakeFetcher{pages: map[string]string{
		good: articlePage(`<article>%s</article>`, "good text"),
	}}
	st := newMemStore()
	e := &Extractor{Fetcher: f, Store: st}

	batch := []crawl.Discovery{
		{Title: "Gone", URL: "https://blog.example/blogs/gone/"},
		{Title: "Good", URL: good},
	}
	if saved := e.Run(context.Background(), batch); saved != 1 {
		t.Fatalf("expected 1 saved, got %d", saved)
	}
	if _, ok := st.articles[good]; !ok {
		t.Fatalf("expected surviving article to be written")
	}
}

func TestExtractor_RescrapeResetsStateWithoutDuplicate(t *testing.T) {
	url := "https://blog.example/blogs/a/"
	f := &fakeFetcher{pages: map[string]string{
		url: articlePage(`<article>%s</article>`, "fresh text"),
	}}
	st := newMemStore()
	st.articles[url] = store.Article{
		URL:             url,
		Title:           "A",
		Content:         "rewritten",
		OriginalContent: "old original",
		IsUpdated:       true,
		References:      []store.Reference{{Title: "R", Link: "https://r"}},
	}
	e := &Extractor{Fetcher: f, Store: st}

	if err := e.ExtractOne(context.Background(), crawl.Discovery{Title: "A", URL: url}); err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if len(st.articles) != 1 {
		t.Fatalf("re-scrape must not duplicate the record")
	}
	got := st.articles[url]
	if got.IsUpdated {
		t.Fatalf("re-scrape must reset the record to pending")
	}
	if got.Content != "fresh text" || got.OriginalContent != "fresh text" {
		t.Fatalf("re-scrape must refresh both content fields: %+v", got)
	}
}
