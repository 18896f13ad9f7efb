package model

// PageContent is a fully rendered page as returned by a renderer.
type PageContent struct {
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	RawHTML  string   `json:"raw_html"`
	Headings []string `json:"headings"`
	Links    []string `json:"links"` // absolute, in document order, may repeat
}

// SignalRecord holds the signals extracted from a single page.
type SignalRecord struct {
	URL             string            `json:"url"`
	Title           string            `json:"title"`
	Headings        []string          `json:"headings"`
	Emails          []string          `json:"emails"`
	Phones          []string          `json:"phones"`
	SocialLinks     map[string]string `json:"social_links"`
	MetaDescription string            `json:"meta_description"`
	TechKeywords    []string          `json:"tech_keywords"`
	AllLinks        []string          `json:"all_links"`
	BodyText        string            `json:"-"`
}

// HasTech reports whether the record contains the given tech keyword.
func (r SignalRecord) HasTech(name string) bool {
	for _, t := range r.TechKeywords {
		if t == name {
			return true
		}
	}
	return false
}
