package scorer

import (
	"fmt"
	"strings"

	"github.com/sells-group/lead-scout/internal/extract"
	"github.com/sells-group/lead-scout/internal/model"
)

// Reason strings, one per rule.
const (
	ReasonKeyword     = "AI/B2B/SaaS keyword found"
	ReasonPricingDemo = "Has pricing or demo link"
	ReasonModernTech  = "Modern tech stack used"
	ReasonEarlyStage  = "Stealth or early stage mentioned"
	ReasonEmail       = "Email found"
	ReasonPhone       = "Phone number found"
)

// Tags attached independently of the score.
const (
	TagB2B        = "B2B"
	TagHealthtech = "Healthtech"
)

var (
	// Positive-fit market keywords. Matching is plain substring containment,
	// so "ai" also matches words like "email".
	marketKeywords = []string{"ai", "b2b", "saas"}

	conversionLinkKeywords = []string{"pricing", "demo"}

	modernTech = []string{extract.TechReact, extract.TechStripe, extract.TechFirebase}

	earlyStageKeywords = []string{"stealth", "closed beta", "pre-revenue"}
)

const (
	b2bKeyword    = "b2b"
	healthKeyword = "health"

	// Tech keywords beyond this count each add a point.
	baseTechCount = 2
)

// Score computes the lead score for a signal record. Rules are evaluated in a
// fixed order and each triggered rule appends at most one reason.
func Score(rec model.SignalRecord) model.ScoreResult {
	res := model.ScoreResult{Reasons: []string{}, Tags: []string{}}
	text := descriptionText(rec)
	add := func(points int, reason string) {
		res.Score += points
		res.Reasons = append(res.Reasons, reason)
	}

	if containsAny(text, marketKeywords...) {
		add(3, ReasonKeyword)
		if strings.Contains(text, b2bKeyword) {
			res.Tags = append(res.Tags, TagB2B)
		}
	}

	if anyLinkContains(rec.AllLinks, conversionLinkKeywords...) {
		add(2, ReasonPricingDemo)
	}

	for _, t := range modernTech {
		if rec.HasTech(t) {
			add(2, ReasonModernTech)
			break
		}
	}

	if extra := max(0, len(rec.TechKeywords)-baseTechCount); extra > 0 {
		add(extra, fmt.Sprintf("Additional tech stack (+%d)", extra))
	}

	if strings.Contains(text, healthKeyword) {
		res.Tags = append(res.Tags, TagHealthtech)
	}

	if containsAny(text, earlyStageKeywords...) {
		add(-2, ReasonEarlyStage)
	}

	if len(rec.Emails) > 0 {
		add(1, ReasonEmail)
	}

	if len(rec.Phones) > 0 {
		add(1, ReasonPhone)
	}

	return res
}

// descriptionText builds the lower-cased text all keyword rules run against:
// meta description, headings, then body text.
func descriptionText(rec model.SignalRecord) string {
	return strings.ToLower(rec.MetaDescription + " " +
		strings.Join(rec.Headings, " ") + " " +
		rec.BodyText)
}

func anyLinkContains(links []string, substrs ...string) bool {
	for _, l := range links {
		if containsAny(strings.ToLower(l), substrs...) {
			return true
		}
	}
	return false
}
