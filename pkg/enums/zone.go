package enums

import (
	"fmt"
	"strings"
)

// Zone is an audience section of the site an article can be surfaced in.
type Zone string

const (
	ZoneRead   Zone = "READ"
	ZoneCoach  Zone = "COACH"
	ZonePlayer Zone = "PLAYER"
	ZoneParent Zone = "PARENT"
)

var validZones = []Zone{
	ZoneRead,
	ZoneCoach,
	ZonePlayer,
	ZoneParent,
}

func (z Zone) String() string {
	return string(z)
}

func (z Zone) IsValid() bool {
	for _, candidate := range validZones {
		if candidate == z {
			return true
		}
	}
	return false
}

func ParseZone(value string) (Zone, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validZones {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid zone %q", value)
}
