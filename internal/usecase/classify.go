package usecase

import (
	"strings"

	"github.com/khmm12/wan-monitor/internal/ports"
)

const UnknownISP = "Unknown"

// Evaluated in order, first non-empty value wins.
var displayNameSources = []func(ports.ISPInfo) string{
	func(info ports.ISPInfo) string { return info.ISP },
	func(info ports.ISPInfo) string { return info.Org },
}

func DisplayName(info ports.ISPInfo) string {
	for _, source := range displayNameSources {
		if name := source(info); name != "" {
			return name
		}
	}

	return UnknownISP
}

// Classify reports WANPrimary when the display name contains the expected provider, ignoring case.
// Containment rather than equality lets "Comcast Cable Communications, LLC" match "Comcast".
func Classify(displayName, expectedProvider string) ports.WANState {
	if strings.Contains(strings.ToLower(displayName), strings.ToLower(expectedProvider)) {
		return ports.WANPrimary
	}

	return ports.WANSecondary
}
