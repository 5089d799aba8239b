package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// Article is what the rest of the pipeline knows about a page. Any field may
// be empty; an empty Text is a warning for callers, not an error.
type Article struct {
	URL     string
	Title   string
	Authors []string
	// Published is YYYY-MM-DD, or RFC 3339 when the page gave an explicit zone.
	Published string
	Text      string
	// SourceGuess is the page host without a leading "www.".
	SourceGuess string
	SiteName    string
	Section     string
	Language    string
}

// Parse extracts the readable article and its metadata from an HTML page.
// pageURL is the final URL of the page and is used to resolve relative links
// and to guess the source; it may be nil.
func Parse(body []byte, pageURL *url.URL) (Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Article{}, fmt.Errorf("parse html: %w", err)
	}

	var a Article
	if pageURL != nil {
		a.URL = pageURL.String()
		a.SourceGuess = SourceGuess(a.URL)
	}

	m := readMeta(body, doc)
	a.Title = m.title
	a.Authors = m.authors
	a.Published = m.published
	a.SiteName = m.siteName
	a.Section = m.section
	a.Language = m.language

	a.Text = readableText(body, pageURL)
	if a.Text == "" {
		a.Text = fallbackText(doc)
		if a.Text != "" {
			log.Debug().Str("url", a.URL).Msg("readability found no content; used heuristic text")
		}
	}
	return a, nil
}

// SourceGuess derives a short source name from the URL's host.
func SourceGuess(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if u, err := url.Parse(s); err == nil && u.Host != "" {
		s = u.Hostname()
	} else {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
		s, _, _ = strings.Cut(strings.TrimLeft(s, "/"), "/")
	}
	return strings.TrimPrefix(strings.ToLower(s), "www.")
}
