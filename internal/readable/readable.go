package readable

import (
	"bytes"
	"net/url"
	"strings"
	"unicode/utf8"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// DefaultCharCap bounds extracted reference text to keep rewrite prompts small.
const DefaultCharCap = 2000

// FromHTML isolates the readable main content of a page and returns it as
// plain text truncated to charCap (DefaultCharCap when zero). It returns ""
// when no article body can be found; callers treat that as a soft failure for
// the single reference, never for the batch. Parse noise from embedded
// resources is ignored rather than surfaced.
func FromHTML(raw []byte, pageURL string, charCap int) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return ""
	}
	if charCap <= 0 {
		charCap = DefaultCharCap
	}

	cleaned := stripBoilerplate(trimmed)

	var u *url.URL
	if pageURL != "" {
		if parsed, err := url.Parse(pageURL); err == nil {
			u = parsed
		}
	}
	if article, err := readability.FromReader(strings.NewReader(cleaned), u); err == nil {
		var buf strings.Builder
		if err := article.RenderText(&buf); err == nil {
			if text := normalizeWhitespace(buf.String()); text != "" {
				return truncate(text, charCap)
			}
		}
	}

	// Readability found no body; fall back to a plain walk of the DOM.
	if text := fallbackText([]byte(cleaned)); text != "" {
		return truncate(text, charCap)
	}
	return ""
}

// boilerplateSelectors lists elements removed before readability runs.
var boilerplateSelectors = "script, style, noscript, nav, header, footer, aside, iframe, embed, object, video, audio"

func stripBoilerplate(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	doc.Find(boilerplateSelectors).Remove()
	out, err := doc.Html()
	if err != nil || out == "" {
		return raw
	}
	return out
}

// fallbackText collects text from block elements, preferring <main> or
// <article> over <body>.
func fallbackText(input []byte) string {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return ""
	}
	content := findFirst(node, "main")
	if content == nil {
		content = findFirst(node, "article")
	}
	if content == nil {
		content = findFirst(node, "body")
	}
	var b strings.Builder
	if content != nil {
		collectText(&b, content)
	}
	text := normalizeWhitespace(b.String())
	if text != "" {
		return text
	}
	// Last resort: strip every tag.
	return normalizeWhitespace(bluemonday.StrictPolicy().Sanitize(string(input)))
}

func findFirst(n *html.Node, tag string) *html.Node {
	var res *html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			res = cur
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
			if res != nil {
				return
			}
		}
	}
	dfs(n)
	return res
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "nav", "footer", "aside", "iframe":
			return
		case "br", "hr", "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "ul", "ol":
			b.WriteString("\n")
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li":
			b.WriteString("\n")
		}
	}
}

func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.Join(strings.Fields(line), " ")
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back up to a rune boundary so the cut never splits a multi-byte rune.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
