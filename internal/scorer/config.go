// Package scorer assigns a heuristic lead-quality score to extracted page signals.
package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-scout/internal/config"
	"github.com/sells-group/lead-scout/internal/model"
)

// DefaultScorerConfig returns the display banding thresholds.
func DefaultScorerConfig() config.ScorerConfig {
	return config.ScorerConfig{
		HighScore:   7,
		MediumScore: 4,
	}
}

// ValidateConfig checks that a ScorerConfig is internally consistent.
func ValidateConfig(c config.ScorerConfig) error {
	var errs []string

	if c.MediumScore <= 0 {
		errs = append(errs, fmt.Sprintf("medium_score (%d) must be > 0", c.MediumScore))
	}
	if c.HighScore <= c.MediumScore {
		errs = append(errs, fmt.Sprintf("high_score (%d) must be greater than medium_score (%d)", c.HighScore, c.MediumScore))
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Band maps a score to a display band. Scores are unbounded; banding is for
// presentation only.
func Band(score int, c config.ScorerConfig) model.ScoreBand {
	switch {
	case score >= c.HighScore:
		return model.ScoreBandHigh
	case score >= c.MediumScore:
		return model.ScoreBandMedium
	default:
		return model.ScoreBandLow
	}
}

// containsAny checks if s contains any of the given substrings.
func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
