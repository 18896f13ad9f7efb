package render

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resp(status int, headers map[string]string) *http.Response {
	r := &http.Response{StatusCode: status, Header: http.Header{}}
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func TestDetectBlock(t *testing.T) {
	tests := []struct {
		name    string
		resp    *http.Response
		body    string
		blocked bool
		kind    BlockType
	}{
		{"nil response", nil, "", false, BlockNone},
		{"cloudflare 403 cf-ray", resp(403, map[string]string{"cf-ray": "abc"}), "denied", true, BlockCloudflare},
		{"cloudflare 503 server", resp(503, map[string]string{"server": "cloudflare"}), "", true, BlockCloudflare},
		{"plain 403", resp(403, nil), "forbidden", false, BlockNone},
		{"challenge body", resp(200, nil), "<div>Checking your browser before accessing acme.io</div>", true, BlockCloudflare},
		{"captcha interstitial", resp(200, nil), "<p>Please complete the CAPTCHA</p>", true, BlockCaptcha},
		{"robot check", resp(200, nil), "<p>Are you a robot?</p>", true, BlockCaptcha},
		{"normal page", resp(200, nil), "<h1>Welcome</h1>", false, BlockNone},
		{"large page embedding recaptcha", resp(200, nil), "<script src=recaptcha></script>" + strings.Repeat("<p>content</p>", 500), false, BlockNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocked, kind := DetectBlock(tt.resp, []byte(tt.body))
			assert.Equal(t, tt.blocked, blocked)
			assert.Equal(t, tt.kind, kind)
		})
	}
}
