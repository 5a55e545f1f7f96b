package crawl

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// Discovery is a lightweight record produced by the crawl phase before any
// content extraction happens.
type Discovery struct {
	Title string
	URL   string
	Date  string
}

// Fetcher is the minimal fetch surface the controller needs. *fetch.Client
// satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Controller walks the source blog's paginated index backward: it reads the
// pagination controls on the index page, jumps to the oldest reachable page,
// and collects a bounded batch of article links from it. Any failure at the
// index or boundary page level is fatal to the crawl run.
type Controller struct {
	Fetcher Fetcher
	// BaseURL is the blog index, e.g. https://beyondchats.com/blogs/
	BaseURL string
	// BatchSize caps how many discoveries a run returns. Zero means 5.
	BatchSize int
}

const defaultBatchSize = 5

// Discover returns the batch of article records to extract next, oldest page
// first, keeping the last BatchSize cards of that page.
func (c *Controller) Discover(ctx context.Context) ([]Discovery, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("missing blog base url")
	}
	body, _, err := c.Fetcher.Get(ctx, c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch index %s: %w", c.BaseURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}

	boundary := boundaryPage(doc)
	pageURL := c.pageURL(boundary)
	log.Info().Int("page", boundary).Str("url", pageURL).Msg("walking to oldest page")

	body, _, err = c.Fetcher.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch boundary page %s: %w", pageURL, err)
	}
	doc, err = goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse boundary page: %w", err)
	}

	cards := c.parseCards(doc, pageURL)
	n := c.BatchSize
	if n <= 0 {
		n = defaultBatchSize
	}
	if len(cards) > n {
		cards = cards[len(cards)-n:]
	}
	return cards, nil
}

// boundaryPage derives the oldest reachable page index from the pagination
// controls: the highest numeric label minus one, or 1 when no numeric labels
// are present. The last control is assumed to be one past the true last page;
// the result never goes below the first page.
func boundaryPage(doc *goquery.Document) int {
	max := 0
	doc.Find(".page-numbers").Each(func(_ int, sel *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(sel.Text()))
		if err != nil {
			return
		}
		if n > max {
			max = n
		}
	})
	if max <= 1 {
		return 1
	}
	return max - 1
}

func (c *Controller) pageURL(n int) string {
	return strings.TrimRight(c.BaseURL, "/") + fmt.Sprintf("/page/%d/", n)
}

// parseCards extracts one Discovery per article card. Cards without a link
// are dropped here so the batch cut operates on usable records only.
func (c *Controller) parseCards(doc *goquery.Document, pageURL string) []Discovery {
	base, _ := url.Parse(pageURL)
	var out []Discovery
	doc.Find("article.entry-card").Each(func(_ int, card *goquery.Selection) {
		link := card.Find(".entry-title a").First()
		href, _ := link.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		if base != nil {
			if abs, err := base.Parse(href); err == nil {
				href = abs.String()
			}
		}
		d := Discovery{
			Title: strings.TrimSpace(link.Text()),
			URL:   href,
			Date:  cardDate(card),
		}
		out = append(out, d)
	})
	return out
}

// cardDate prefers the machine-readable datetime attribute of the card's time
// element, falling back to its display text.
func cardDate(card *goquery.Selection) string {
	timeEl := card.Find(".meta-date time").First()
	if dt, ok := timeEl.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
		return strings.TrimSpace(dt)
	}
	return strings.TrimSpace(timeEl.Text())
}
