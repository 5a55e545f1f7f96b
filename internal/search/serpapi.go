package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SerpAPI implements Provider against a SerpAPI-compatible /search.json
// endpoint returning an organic_results array.
type SerpAPI struct {
	BaseURL    string // defaults to the hosted endpoint when empty
	APIKey     string
	HTTPClient *http.Client
	UserAgent  string // optional custom UA
}

const defaultSerpBaseURL = "https://serpapi.com/search.json"

func (s *SerpAPI) Name() string { return "serpapi" }

func (s *SerpAPI) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("missing serpapi key")
	}
	if limit <= 0 {
		limit = 5
	}
	base := s.BaseURL
	if base == "" {
		base = defaultSerpBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("api_key", s.APIKey)
	q.Set("num", fmt.Sprintf("%d", limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	hc := s.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("serpapi status: %d", resp.StatusCode)
	}
	var sr serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(sr.OrganicResults))
	for _, r := range sr.OrganicResults {
		if r.Link == "" || r.Title == "" {
			continue
		}
		out = append(out, Result{
			Title:  strings.TrimSpace(r.Title),
			URL:    strings.TrimSpace(r.Link),
			Source: s.Name(),
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type serpResponse struct {
	OrganicResults []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"organic_results"`
}
