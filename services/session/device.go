package session

import "github.com/mileusna/useragent"

// DeviceLabel condenses a User-Agent header into a short human-readable
// label stored alongside the session for audit purposes.
func DeviceLabel(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.Parse(userAgentString)

	name := ua.Name
	if name == "" {
		return "Unknown Device"
	}

	platform := ua.OS
	switch {
	case ua.Mobile:
		platform = "Mobile " + platform
	case ua.Tablet:
		platform = "Tablet " + platform
	}

	if platform != "" {
		return name + " on " + platform
	}
	return name
}
