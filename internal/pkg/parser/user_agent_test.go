package parser

import "testing"

const (
	iphoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	ipadUA    = "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
	androidUA = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	windowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	macUA     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
)

func TestParseDeviceType(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"iPhone", iphoneUA, "mobile"},
		{"Android Phone", androidUA, "mobile"},
		{"iPad", ipadUA, "tablet"},
		{"Windows Desktop", windowsUA, "desktop"},
		{"Empty", "", "desktop"},
		{"Garbage", "curl/8.4.0", "desktop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDeviceType(tt.ua); got != tt.want {
				t.Errorf("ParseDeviceType() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name        string
		ua          string
		wantOS      string
		wantBrowser string
	}{
		{"iPhone Safari", iphoneUA, "iOS", "Safari"},
		{"Android Chrome", androidUA, "Android", "Chrome"},
		{"Windows Chrome", windowsUA, "Windows", "Chrome"},
		{"Mac Safari", macUA, "macOS", "Safari"},
		{"Unknown", "curl/8.4.0", "Unknown", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os, browser := ParseUserAgent(tt.ua)
			if os != tt.wantOS || browser != tt.wantBrowser {
				t.Errorf("ParseUserAgent() = %s/%s, want %s/%s", os, browser, tt.wantOS, tt.wantBrowser)
			}
		})
	}
}
