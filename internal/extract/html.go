package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// invisibleTags hold text that is never rendered.
var invisibleTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

func parseDocument(raw string) *goquery.Document {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil
	}
	return doc
}

// metaDescription returns the trimmed content of <meta name="description">.
func metaDescription(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	var desc string
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "description") {
			return true
		}
		if content, ok := s.Attr("content"); ok {
			desc = strings.TrimSpace(content)
		}
		return false
	})
	return desc
}

// bodyText joins every visible text node with a single space and lower-cases
// the result.
func bodyText(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	var parts []string
	for _, n := range doc.Nodes {
		collectText(n, &parts)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	case html.ElementNode:
		if invisibleTags[n.Data] {
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
