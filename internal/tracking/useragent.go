package tracking

import (
	"strings"

	"github.com/phishaware/backend/internal/models"
)

// Browser families
const (
	BrowserEdge    = "Edge"
	BrowserChrome  = "Chrome"
	BrowserSafari  = "Safari"
	BrowserFirefox = "Firefox"
	BrowserUnknown = "Unknown"
)

// uaRule matches a lowercase substring to a classification
type uaRule struct {
	token  string
	result string
}

// deviceRules is evaluated in order; first match wins. Tablet tokens come
// before mobile ones because iPad client strings also contain "mobile".
var deviceRules = []uaRule{
	{"ipad", models.DeviceTablet},
	{"tablet", models.DeviceTablet},
	{"mobile", models.DeviceMobile},
	{"android", models.DeviceMobile},
}

// browserRules is evaluated in order. Edge ships "chrome" and "safari" in
// its client string and Chrome ships "safari", so precedence is
// Edge, Chrome, Safari, Firefox.
var browserRules = []uaRule{
	{"edg", BrowserEdge},
	{"chrome", BrowserChrome},
	{"crios", BrowserChrome},
	{"safari", BrowserSafari},
	{"firefox", BrowserFirefox},
}

// ClassifyDevice maps a client-declared software string to a coarse device
// category. An empty string is unknown; any other string without a matching
// token is a desktop.
func ClassifyDevice(clientString string) string {
	if clientString == "" {
		return models.DeviceUnknown
	}

	lower := strings.ToLower(clientString)
	for _, rule := range deviceRules {
		if strings.Contains(lower, rule.token) {
			return rule.result
		}
	}
	return models.DeviceDesktop
}

// ClassifyBrowser maps a client-declared software string to a browser
// family. Unmatched or empty strings classify as Unknown, never an error.
func ClassifyBrowser(clientString string) string {
	if clientString == "" {
		return BrowserUnknown
	}

	lower := strings.ToLower(clientString)
	for _, rule := range browserRules {
		if strings.Contains(lower, rule.token) {
			return rule.result
		}
	}
	return BrowserUnknown
}
