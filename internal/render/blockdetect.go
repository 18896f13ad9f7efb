package render

import (
	"net/http"
	"strings"
)

// BlockType describes the kind of anti-bot block detected.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
)

// interstitialMaxBytes bounds the size of a challenge page. Larger pages that
// merely embed a captcha widget are treated as real content.
const interstitialMaxBytes = 4096

// DetectBlock checks an HTTP response for an anti-bot interstitial instead of
// the requested page.
func DetectBlock(resp *http.Response, body []byte) (bool, BlockType) {
	if resp == nil {
		return false, BlockNone
	}

	// Cloudflare: 403/503 with cf-* headers.
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if resp.Header.Get("cf-ray") != "" || resp.Header.Get("cf-mitigated") != "" ||
			strings.EqualFold(resp.Header.Get("server"), "cloudflare") {
			return true, BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))

	if strings.Contains(lower, "cf-browser-verification") ||
		strings.Contains(lower, "checking your browser before accessing") {
		return true, BlockCloudflare
	}

	if len(body) <= interstitialMaxBytes &&
		(strings.Contains(lower, "captcha") || strings.Contains(lower, "are you a robot")) {
		return true, BlockCaptcha
	}

	return false, BlockNone
}
