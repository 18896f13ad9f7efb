package render

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/lead-scout/internal/model"
)

// ParseHTML builds PageContent from static HTML: the <title>, h1/h2 texts in
// document order, and every non-empty anchor href resolved against baseURL.
// pageURL is reported as the page URL.
func ParseHTML(pageURL, baseURL, raw string) model.PageContent {
	page := model.PageContent{
		URL:      pageURL,
		RawHTML:  raw,
		Headings: []string{},
		Links:    []string{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return page
	}

	page.Title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("h1, h2").Each(func(_ int, s *goquery.Selection) {
		page.Headings = append(page.Headings, collapseSpace(s.Text()))
	})

	base, _ := url.Parse(baseURL)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if link := resolveLink(base, href); link != "" {
			page.Links = append(page.Links, link)
		}
	})

	return page
}

// resolveLink returns href as an absolute URL, or "" when it is empty or
// unparseable.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	return u.String()
}

// VisibleTextLength returns the length of the trimmed <body> text.
// Script-rendered shells score close to zero.
func VisibleTextLength(raw string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return 0
	}
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript, template").Remove()
	return len(strings.TrimSpace(body.Text()))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
