package parser

import "strings"

// ParseDeviceType classifies a user agent as mobile, tablet or desktop.
// Unknown or desktop-class agents fall through to desktop.
func ParseDeviceType(ua string) string {
	ua = strings.ToLower(ua)
	if strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone") {
		if strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet") {
			return "tablet"
		}
		return "mobile"
	}
	if strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet") {
		return "tablet"
	}
	return "desktop"
}

func ParseUserAgent(ua string) (os, browser string) {
	uaLower := strings.ToLower(ua)

	// OS Detection
	if strings.Contains(uaLower, "windows") {
		os = "Windows"
	} else if strings.Contains(uaLower, "mac os") {
		os = "macOS"
	} else if strings.Contains(uaLower, "android") {
		os = "Android"
	} else if strings.Contains(uaLower, "iphone") || strings.Contains(uaLower, "ipad") {
		os = "iOS"
	} else if strings.Contains(uaLower, "linux") {
		os = "Linux"
	} else {
		os = "Unknown"
	}

	// Browser Detection
	if strings.Contains(uaLower, "edge") || strings.Contains(uaLower, "edg/") {
		browser = "Edge"
	} else if strings.Contains(uaLower, "chrome") {
		browser = "Chrome"
	} else if strings.Contains(uaLower, "safari") {
		browser = "Safari"
	} else if strings.Contains(uaLower, "firefox") {
		browser = "Firefox"
	} else {
		browser = "Unknown"
	}

	return os, browser
}
