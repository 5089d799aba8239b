package extract

import (
	"bytes"
	"encoding/json"
	"html"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes any markup that leaks into metadata values, which
// happens often with JSON-LD written by CMS templates.
var stripPolicy = bluemonday.StrictPolicy()

type pageMeta struct {
	title     string
	authors   []string
	published string
	siteName  string
	section   string
	language  string
}

func readMeta(body []byte, doc *goquery.Document) pageMeta {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(bytes.NewReader(body)); err != nil {
		og = opengraph.NewOpenGraph()
	}
	ld := readLinkedData(doc)

	var m pageMeta
	m.title = firstNonEmpty(
		clean(og.Title),
		ld.headline,
		metaContent(doc, `meta[name="twitter:title"]`, `meta[name="title"]`),
		clean(doc.Find("head title").First().Text()),
		clean(doc.Find("h1").First().Text()),
	)
	m.siteName = firstNonEmpty(clean(og.SiteName), ld.publisher, metaContent(doc, `meta[name="application-name"]`))

	m.published = firstNonEmpty(
		publishedFrom(doc, "content",
			`meta[property="article:published_time"]`,
			`meta[name="article:published_time"]`,
			`meta[itemprop="datePublished"]`,
			`meta[name="pubdate"]`,
			`meta[name="publishdate"]`,
			`meta[name="parsely-pub-date"]`,
			`meta[name="DC.date.issued"]`,
			`meta[name="date"]`,
		),
		NormalizePublished(ld.datePublished),
		publishedFrom(doc, "datetime", "article time[datetime]", "time[pubdate]", "time[datetime]"),
	)
	if og.Article != nil {
		if m.published == "" && og.Article.PublishedTime != nil {
			m.published = og.Article.PublishedTime.Format(time.RFC3339)
		}
		m.section = clean(og.Article.Section)
	}
	if m.section == "" {
		m.section = metaContent(doc, `meta[property="article:section"]`)
	}

	m.authors = ld.authors
	if len(m.authors) == 0 {
		m.authors = splitAuthors(metaContent(doc,
			`meta[name="author"]`,
			`meta[property="article:author"]`,
			`meta[name="parsely-author"]`,
			`meta[name="sailthru.author"]`,
			`meta[name="byl"]`,
		))
	}
	if len(m.authors) == 0 {
		doc.Find(`[rel="author"], [itemprop="author"] [itemprop="name"], .byline .author`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			m.authors = appendAuthors(m.authors, clean(s.Text()))
			return len(m.authors) < 10
		})
	}

	m.language = languageFromLocale(og.Locale)
	if m.language == "" {
		lang, _ := doc.Find("html").First().Attr("lang")
		m.language = languageFromLocale(lang)
	}
	return m
}

// linkedData holds the schema.org fields we care about from JSON-LD blocks.
type linkedData struct {
	headline      string
	datePublished string
	authors       []string
	publisher     string
}

var articleTypes = map[string]bool{
	"article":              true,
	"newsarticle":          true,
	"reportagenewsarticle": true,
	"analysisnewsarticle":  true,
	"blogposting":          true,
}

func readLinkedData(doc *goquery.Document) linkedData {
	var ld linkedData
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return true
		}
		for _, obj := range flattenLinkedData(v) {
			if !isArticleType(obj["@type"]) {
				continue
			}
			ld.headline = firstNonEmpty(ld.headline, clean(stringValue(obj["headline"])))
			ld.datePublished = firstNonEmpty(ld.datePublished, stringValue(obj["datePublished"]))
			if len(ld.authors) == 0 {
				ld.authors = namesFrom(obj["author"])
			}
			if ld.publisher == "" {
				if names := namesFrom(obj["publisher"]); len(names) > 0 {
					ld.publisher = names[0]
				}
			}
		}
		return ld.headline == "" || ld.datePublished == "" || len(ld.authors) == 0
	})
	return ld
}

// flattenLinkedData unwraps top-level arrays and @graph containers.
func flattenLinkedData(v any) []map[string]any {
	var out []map[string]any
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			out = append(out, flattenLinkedData(item)...)
		}
	case map[string]any:
		out = append(out, t)
		if g, ok := t["@graph"]; ok {
			out = append(out, flattenLinkedData(g)...)
		}
	}
	return out
}

func isArticleType(v any) bool {
	switch t := v.(type) {
	case string:
		return articleTypes[strings.ToLower(t)]
	case []any:
		for _, item := range t {
			if isArticleType(item) {
				return true
			}
		}
	}
	return false
}

// namesFrom reads a schema.org Person/Organization reference, which may be a
// plain string, an object with a name, or a list of either.
func namesFrom(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		out = appendAuthors(out, clean(t))
	case map[string]any:
		out = appendAuthors(out, clean(stringValue(t["name"])))
	case []any:
		for _, item := range t {
			for _, name := range namesFrom(item) {
				out = appendAuthors(out, name)
			}
		}
	}
	return out
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// splitAuthors breaks a byline like "By Jane Doe and John Roe" into names.
func splitAuthors(s string) []string {
	s = strings.NewReplacer(" and ", ",", " & ", ",", ";", ",").Replace(s)
	var out []string
	for _, part := range strings.Split(s, ",") {
		out = appendAuthors(out, part)
	}
	return out
}

// appendAuthors adds name to list unless it is empty, a URL, or already
// present (case-insensitively).
func appendAuthors(list []string, name string) []string {
	name = strings.TrimSpace(name)
	if len(name) >= 3 && strings.EqualFold(name[:3], "by ") {
		name = strings.TrimSpace(name[3:])
	}
	if name == "" || len(name) > 100 || strings.Contains(name, "://") {
		return list
	}
	for _, existing := range list {
		if strings.EqualFold(existing, name) {
			return list
		}
	}
	return append(list, name)
}

func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if v := clean(attrValue(doc, sel, "content")); v != "" {
			return v
		}
	}
	return ""
}

// publishedFrom returns the first attr value among selectors that parses as a date.
func publishedFrom(doc *goquery.Document, attr string, selectors ...string) string {
	for _, sel := range selectors {
		if v := NormalizePublished(attrValue(doc, sel, attr)); v != "" {
			return v
		}
	}
	return ""
}

func attrValue(doc *goquery.Document, selector, attr string) string {
	v, _ := doc.Find(selector).First().Attr(attr)
	return strings.TrimSpace(v)
}

// clean strips markup and entities and collapses whitespace.
func clean(s string) string {
	if strings.ContainsAny(s, "<&") {
		s = html.UnescapeString(stripPolicy.Sanitize(s))
	}
	return strings.Join(strings.Fields(s), " ")
}

// languageFromLocale turns "en_US" or "en-GB" into "en".
func languageFromLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, "_-"); i > 0 {
		locale = locale[:i]
	}
	return strings.ToLower(locale)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
