package metadata

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknownDevice = "Unknown Device"

// DeviceName turns a User-Agent header into a short "<browser> on <os>" label.
func DeviceName(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return unknownDevice
	}

	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}
	platform := ua.OS()
	if platform == "" {
		platform = "Unknown OS"
	}
	if ua.Bot() {
		return strings.TrimSpace(browser + " (bot)")
	}
	return strings.TrimSpace(browser + " on " + platform)
}
