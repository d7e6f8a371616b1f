package clientinfo

import "strings"

// DeviceDesktop and friends are the coarse device classes recorded against a
// session so the account page can render "Chrome on Windows (Desktop)".
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceUnknown = "unknown"
)

// ClassifyUserAgent extracts a browser name, operating system and device class
// from a raw User-Agent header. Best effort only; anything unrecognized comes
// back as "unknown".
func ClassifyUserAgent(rawUA string) (agent, os, device string) {
	ua := strings.ToLower(rawUA)

	agent = "unknown"
	switch {
	case strings.Contains(ua, "edg/"), strings.Contains(ua, "edge/"):
		agent = "Edge"
	case strings.Contains(ua, "opr/"), strings.Contains(ua, "opera"):
		agent = "Opera"
	case strings.Contains(ua, "firefox/"):
		agent = "Firefox"
	case strings.Contains(ua, "chrome/"):
		agent = "Chrome"
	case strings.Contains(ua, "safari/"):
		agent = "Safari"
	case strings.Contains(ua, "curl/"):
		agent = "curl"
	}

	os = "unknown"
	switch {
	case strings.Contains(ua, "windows"):
		os = "Windows"
	case strings.Contains(ua, "android"):
		os = "Android"
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ios"):
		os = "iOS"
	case strings.Contains(ua, "mac os"), strings.Contains(ua, "macintosh"):
		os = "macOS"
	case strings.Contains(ua, "linux"):
		os = "Linux"
	}

	switch {
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"):
		device = DeviceTablet
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "iphone"), strings.Contains(ua, "android"):
		device = DeviceMobile
	case rawUA == "":
		device = DeviceUnknown
	default:
		device = DeviceDesktop
	}

	return agent, os, device
}
