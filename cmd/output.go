package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/lead-scout/internal/config"
	"github.com/sells-group/lead-scout/internal/lead"
	"github.com/sells-group/lead-scout/internal/model"
	"github.com/sells-group/lead-scout/internal/scorer"
)

var titleCaser = cases.Title(language.English)

// formatReport writes a human-readable lead report to out.
func formatReport(out io.Writer, r model.LeadReport, sc config.ScorerConfig) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "URL:\t%s\n", r.URL)
	_, _ = fmt.Fprintf(w, "Title:\t%s\n", orDash(r.Title))
	_, _ = fmt.Fprintf(w, "Score:\t%d (%s)\n", r.Score, scorer.Band(r.Score, sc))
	_, _ = fmt.Fprintf(w, "Reasons:\t%s\n", orDash(r.Reasons))
	_, _ = fmt.Fprintf(w, "Tags:\t%s\n", orDash(r.Tags))
	_, _ = fmt.Fprintf(w, "Description:\t%s\n", orDash(r.MetaDescription))
	_, _ = fmt.Fprintf(w, "Emails:\t%d\t%s\n", len(r.EmailList()), r.Emails)
	_, _ = fmt.Fprintf(w, "Phones:\t%d\t%s\n", len(r.PhoneList()), r.Phones)
	_, _ = fmt.Fprintf(w, "Social links:\t%d\n", len(r.SocialLinks))
	_, _ = fmt.Fprintf(w, "Tech keywords:\t%d\t%s\n", len(r.TechKeywords), strings.Join(r.TechKeywords, ", "))
	_, _ = fmt.Fprintf(w, "Links:\t%d\n", len(r.AllLinks))
	_ = w.Flush()

	if len(r.SocialLinks) == 0 {
		return
	}
	platforms := make([]string, 0, len(r.SocialLinks))
	for p := range r.SocialLinks {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)

	_, _ = fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, p := range platforms {
		_, _ = fmt.Fprintf(w, "  %s\t%s\n", titleCaser.String(p), r.SocialLinks[p])
	}
	_ = w.Flush()
}

// formatBatchSummary writes one line per report plus any failures.
func formatBatchSummary(out io.Writer, reports []model.LeadReport, failed []lead.BatchError, sc config.ScorerConfig) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "URL\tSCORE\tBAND\tTAGS")
	for _, r := range reports {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", r.URL, r.Score, scorer.Band(r.Score, sc), orDash(r.Tags))
	}
	_ = w.Flush()

	if len(failed) == 0 {
		return
	}
	_, _ = fmt.Fprintf(out, "\n%d failed:\n", len(failed))
	for _, f := range failed {
		_, _ = fmt.Fprintf(out, "  %s\n", f.Error())
	}
}

// formatReportsList writes stored report history as a table.
func formatReportsList(out io.Writer, reports []model.StoredReport) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tURL\tSCORE\tTAGS\tCREATED")
	for _, sr := range reports {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			sr.ID,
			truncate(sr.Report.URL, 50),
			sr.Report.Score,
			orDash(sr.Report.Tags),
			sr.CreatedAt.Format(time.RFC3339),
		)
	}
	_ = w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
