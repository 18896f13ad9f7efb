// Package extract derives contact and technology signals from a rendered page.
package extract

import (
	"strings"

	"github.com/sells-group/lead-scout/internal/model"
)

// Social platform names matched against link URLs.
const (
	PlatformLinkedIn  = "linkedin"
	PlatformTwitter   = "twitter"
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
)

// Tech markers searched for in the raw page source.
const (
	TechReact    = "react"
	TechStripe   = "stripe"
	TechFirebase = "firebase"
	TechNextJS   = "nextjs"
	TechGraphQL  = "graphql"
)

// SocialPlatforms returns the recognised social platforms in match order.
func SocialPlatforms() []string {
	return []string{PlatformLinkedIn, PlatformTwitter, PlatformFacebook, PlatformInstagram}
}

// TechVocabulary returns the tech markers in declaration order. Detected
// keywords are always reported in this order.
func TechVocabulary() []string {
	return []string{TechReact, TechStripe, TechFirebase, TechNextJS, TechGraphQL}
}

// Extract turns a rendered page into a SignalRecord. It never fails: missing
// or malformed structures produce empty values.
func Extract(page model.PageContent) model.SignalRecord {
	doc := parseDocument(page.RawHTML)

	return model.SignalRecord{
		URL:             page.URL,
		Title:           page.Title,
		Headings:        page.Headings,
		Emails:          FindEmails(page.RawHTML),
		Phones:          FindPhones(page.RawHTML),
		SocialLinks:     SocialLinks(page.Links),
		MetaDescription: metaDescription(doc),
		TechKeywords:    TechKeywords(page.RawHTML),
		AllLinks:        page.Links,
		BodyText:        bodyText(doc),
	}
}

// SocialLinks maps each platform to a link whose URL mentions it. When
// several links mention the same platform the last one wins.
func SocialLinks(links []string) map[string]string {
	out := make(map[string]string)
	for _, link := range links {
		lower := strings.ToLower(link)
		for _, name := range SocialPlatforms() {
			if strings.Contains(lower, name) {
				out[name] = link
			}
		}
	}
	return out
}

// TechKeywords returns the vocabulary terms found anywhere in content.
func TechKeywords(content string) []string {
	lower := strings.ToLower(content)
	var found []string
	for _, tech := range TechVocabulary() {
		if strings.Contains(lower, tech) {
			found = append(found, tech)
		}
	}
	return found
}
