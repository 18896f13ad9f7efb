package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-scout/internal/model"
)

const samplePage = `<!DOCTYPE html>
<html><head>
<title>Acme Health</title>
<meta name="description" content="  AI-powered B2B billing for clinics  ">
<script src="/_next/static/react-dom.js"></script>
<style>.hero{color:red}</style>
</head>
<body>
<h1>Billing that works</h1>
<p>Email <a href="mailto:hello@acme.io">hello@acme.io</a> or sales@acme.io today</p>
<p>Call +1 (555) 123-4567</p>
<footer>Updated 2023-05-11. Powered by Stripe. Reach us at hello@acme.io</footer>
</body></html>`

func TestExtract_FullPage(t *testing.T) {
	page := model.PageContent{
		URL:      "https://acme.io",
		Title:    "Acme Health",
		RawHTML:  samplePage,
		Headings: []string{"Billing that works"},
		Links: []string{
			"https://acme.io/pricing",
			"https://www.linkedin.com/company/acme",
			"https://twitter.com/acme",
			"https://acme.io/pricing",
		},
	}

	rec := Extract(page)

	assert.Equal(t, "https://acme.io", rec.URL)
	assert.Equal(t, "Acme Health", rec.Title)
	assert.Equal(t, []string{"Billing that works"}, rec.Headings)
	assert.Equal(t, []string{"hello@acme.io", "sales@acme.io"}, rec.Emails)
	assert.Equal(t, []string{"+1 (555) 123-4567"}, rec.Phones)
	assert.Equal(t, "AI-powered B2B billing for clinics", rec.MetaDescription)
	assert.Equal(t, []string{"react", "stripe"}, rec.TechKeywords)
	assert.Equal(t, page.Links, rec.AllLinks, "links keep order and duplicates")
	assert.Equal(t, map[string]string{
		"linkedin": "https://www.linkedin.com/company/acme",
		"twitter":  "https://twitter.com/acme",
	}, rec.SocialLinks)

	assert.Contains(t, rec.BodyText, "billing that works")
	assert.Contains(t, rec.BodyText, "powered by stripe")
	assert.NotContains(t, rec.BodyText, "color:red")
	assert.NotContains(t, rec.BodyText, "Billing", "body text is lower-cased")
}

func TestExtract_EmptyPage(t *testing.T) {
	rec := Extract(model.PageContent{URL: "https://empty.example"})

	assert.Equal(t, "https://empty.example", rec.URL)
	assert.Empty(t, rec.Emails)
	assert.Empty(t, rec.Phones)
	assert.Empty(t, rec.SocialLinks)
	assert.NotNil(t, rec.SocialLinks)
	assert.Empty(t, rec.TechKeywords)
	assert.Equal(t, "", rec.MetaDescription)
	assert.Equal(t, "", rec.BodyText)
}

func TestExtract_MalformedHTML(t *testing.T) {
	rec := Extract(model.PageContent{RawHTML: `<div><p>unclosed <b>GraphQL api</div><meta name=description`})
	assert.Equal(t, "", rec.MetaDescription)
	assert.Equal(t, []string{"graphql"}, rec.TechKeywords)
	assert.Contains(t, rec.BodyText, "graphql api")
}

func TestExtract_Deterministic(t *testing.T) {
	page := model.PageContent{RawHTML: samplePage, Links: []string{"https://facebook.com/acme"}}
	assert.Equal(t, Extract(page), Extract(page))
}

func TestFindEmails_Dedup(t *testing.T) {
	got := FindEmails("hi@x.com hi@x.com HI@x.com hi@x.com")
	assert.Equal(t, []string{"hi@x.com", "HI@x.com"}, got)
}

func TestFindEmails_Patterns(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plus and dots", "mail first.last+tag@mail.example.co.uk now", []string{"first.last+tag@mail.example.co.uk"}},
		{"hyphenated domain", "ops@my-company.io", []string{"ops@my-company.io"}},
		{"no tld", "user@localhost", nil},
		{"none", "no contact info", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindEmails(tt.in))
		})
	}
}

func TestFindPhones(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"international", "call +44 20 7946 0958 now", []string{"+44 20 7946 0958"}},
		{"dotted", "tel 555.867.5309", []string{"555.867.5309"}},
		{"too short", "call 123-4567", nil},
		{"iso date excluded", "published 2023-05-11", nil},
		{"date beside phone", "2023-05-11 | +1 555 123 4567", []string{"+1 555 123 4567"}},
		{"postal code kept", "zip 12345-6789", []string{"12345-6789"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindPhones(tt.in))
		})
	}
}

func TestFindPhones_Dedup(t *testing.T) {
	got := FindPhones("555-123-4567 and 555-123-4567 and 555-123-4567")
	require.Len(t, got, 1)
	assert.Equal(t, "555-123-4567", got[0])
}

func TestSocialLinks_LastWins(t *testing.T) {
	got := SocialLinks([]string{"https://linkedin.com/a", "https://linkedin.com/b"})
	assert.Equal(t, map[string]string{"linkedin": "https://linkedin.com/b"}, got)
}

func TestSocialLinks_SubstringAnywhere(t *testing.T) {
	link := "https://acme.io/share?via=FACEBOOK"
	got := SocialLinks([]string{link})
	assert.Equal(t, link, got["facebook"])
}

func TestSocialLinks_LinkMatchesSeveralPlatforms(t *testing.T) {
	link := "https://instagram.com/acme?ref=twitter"
	got := SocialLinks([]string{link})
	assert.Equal(t, link, got["instagram"])
	assert.Equal(t, link, got["twitter"])
	assert.Len(t, got, 2)
}

func TestTechKeywords_VocabularyOrder(t *testing.T) {
	got := TechKeywords(`<script>GraphQL</script> built with NextJS, Firebase and React`)
	assert.Equal(t, []string{"react", "firebase", "nextjs", "graphql"}, got)
}

func TestTechKeywords_EachOnce(t *testing.T) {
	got := TechKeywords("react react REACT")
	assert.Equal(t, []string{"react"}, got)
}

func TestMetaDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"present", `<meta name="description" content=" Hello ">`, "Hello"},
		{"upper-case name", `<meta name="Description" content="Hi">`, "Hi"},
		{"no content", `<meta name="description">`, ""},
		{"other meta only", `<meta name="keywords" content="a,b">`, ""},
		{"property not name", `<meta property="description" content="x">`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, metaDescription(parseDocument(tt.in)))
		})
	}
}

func TestBodyText_JoinsNodes(t *testing.T) {
	doc := parseDocument(`<p>Hello<b>World</b></p><!-- hidden --><noscript>Enable JS</noscript>`)
	assert.Equal(t, "hello world", bodyText(doc))
}

func TestExtract_ScriptTextNotInBody(t *testing.T) {
	rec := Extract(model.PageContent{
		URL:     "https://acme.io",
		RawHTML: `<html><body><script>var saas=1</script><style>.api{}</style><p>Hello</p></body></html>`,
	})
	assert.Equal(t, "hello", rec.BodyText)
}
