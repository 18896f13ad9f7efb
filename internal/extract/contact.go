package extract

import "regexp"

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9_.+\-]+@[a-zA-Z0-9\-]+\.[a-zA-Z0-9.\-]+`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)

	// Only ISO dates are filtered; postal codes and order numbers that fit
	// the phone pattern still come through.
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// FindEmails returns the distinct email-like tokens in s, in order of first
// appearance, with their original casing.
func FindEmails(s string) []string {
	return dedup(emailRe.FindAllString(s, -1))
}

// FindPhones returns the distinct phone-like tokens in s, in order of first
// appearance, skipping tokens that start with an ISO date.
func FindPhones(s string) []string {
	var phones []string
	for _, p := range dedup(phoneRe.FindAllString(s, -1)) {
		if isoDateRe.MatchString(p) {
			continue
		}
		phones = append(phones, p)
	}
	return phones
}

func dedup(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
