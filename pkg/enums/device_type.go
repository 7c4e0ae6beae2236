package enums

import (
	"fmt"
	"strings"
)

type DeviceType string

const (
	DeviceTypeMobile  DeviceType = "mobile"
	DeviceTypeDesktop DeviceType = "desktop"
	DeviceTypeTablet  DeviceType = "tablet"
)

var validDeviceTypes = []DeviceType{
	DeviceTypeMobile,
	DeviceTypeDesktop,
	DeviceTypeTablet,
}

func (d DeviceType) String() string {
	return string(d)
}

func (d DeviceType) IsValid() bool {
	for _, candidate := range validDeviceTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

func ParseDeviceType(value string) (DeviceType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validDeviceTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid device type %q", value)
}

// DeviceTypeFromUserAgent classifies a client by its user agent string.
// Anything advertising "Mobile" is a phone; everything else counts as desktop.
func DeviceTypeFromUserAgent(userAgent string) DeviceType {
	if strings.Contains(userAgent, "Mobile") {
		return DeviceTypeMobile
	}
	return DeviceTypeDesktop
}
