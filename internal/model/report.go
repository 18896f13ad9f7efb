package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ScoreResult is the outcome of scoring a SignalRecord.
type ScoreResult struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
	Tags    []string `json:"tags"`
}

// ScoreBand is a display bucket for a lead score.
type ScoreBand string

const (
	ScoreBandHigh   ScoreBand = "high"
	ScoreBandMedium ScoreBand = "medium"
	ScoreBandLow    ScoreBand = "low"
)

// listSep joins multi-valued display fields.
const listSep = ", "

// LeadReport is the flattened, display-oriented record produced per URL.
// Field names are a stable contract for export.
type LeadReport struct {
	URL             string            `json:"URL" yaml:"URL"`
	Title           string            `json:"Title" yaml:"Title"`
	Score           int               `json:"Score" yaml:"Score"`
	Reasons         string            `json:"Reasons" yaml:"Reasons"`
	Tags            string            `json:"Tags" yaml:"Tags"`
	Emails          string            `json:"Emails" yaml:"Emails"`
	Phones          string            `json:"Phones" yaml:"Phones"`
	MetaDescription string            `json:"Meta Description" yaml:"Meta Description"`
	Headings        []string          `json:"Headings" yaml:"Headings"`
	SocialLinks     map[string]string `json:"Social Links" yaml:"Social Links"`
	TechKeywords    []string          `json:"Tech Keywords" yaml:"Tech Keywords"`
	AllLinks        []string          `json:"All Links" yaml:"All Links"`
}

// NewLeadReport flattens a signal record and its score into a LeadReport.
func NewLeadReport(rec SignalRecord, res ScoreResult) LeadReport {
	return LeadReport{
		URL:             rec.URL,
		Title:           rec.Title,
		Score:           res.Score,
		Reasons:         strings.Join(res.Reasons, listSep),
		Tags:            strings.Join(res.Tags, listSep),
		Emails:          strings.Join(rec.Emails, listSep),
		Phones:          strings.Join(rec.Phones, listSep),
		MetaDescription: rec.MetaDescription,
		Headings:        nonNil(rec.Headings),
		SocialLinks:     nonNilMap(rec.SocialLinks),
		TechKeywords:    nonNil(rec.TechKeywords),
		AllLinks:        nonNil(rec.AllLinks),
	}
}

// ReportColumns returns the export header row.
func ReportColumns() []string {
	return []string{
		"URL", "Title", "Score", "Reasons", "Tags", "Emails", "Phones",
		"Meta Description", "Headings", "Social Links", "Tech Keywords", "All Links",
	}
}

// Row returns the report as string cells in ReportColumns order. Sequences
// and the social link mapping are JSON-encoded.
func (r LeadReport) Row() []string {
	return []string{
		r.URL,
		r.Title,
		strconv.Itoa(r.Score),
		r.Reasons,
		r.Tags,
		r.Emails,
		r.Phones,
		r.MetaDescription,
		jsonCell(nonNil(r.Headings)),
		jsonCell(nonNilMap(r.SocialLinks)),
		jsonCell(nonNil(r.TechKeywords)),
		jsonCell(nonNil(r.AllLinks)),
	}
}

// EmailList splits the joined Emails field back into addresses.
func (r LeadReport) EmailList() []string { return splitList(r.Emails) }

// PhoneList splits the joined Phones field back into numbers.
func (r LeadReport) PhoneList() []string { return splitList(r.Phones) }

// StoredReport is a LeadReport persisted in report history.
type StoredReport struct {
	ID        string     `json:"id"`
	Report    LeadReport `json:"report"`
	CreatedAt time.Time  `json:"created_at"`
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, listSep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func jsonCell(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
