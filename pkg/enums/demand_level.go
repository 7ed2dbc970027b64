package enums

import "fmt"

// DemandLevel is the advisory demand signal carried on inventory rows. It
// never participates in availability decisions.
type DemandLevel string

const (
	DemandLevelLow    DemandLevel = "low"
	DemandLevelMedium DemandLevel = "medium"
	DemandLevelHigh   DemandLevel = "high"
)

var validDemandLevels = []DemandLevel{
	DemandLevelLow,
	DemandLevelMedium,
	DemandLevelHigh,
}

// IsValid reports whether the value matches the canonical demand level enum.
func (d DemandLevel) IsValid() bool {
	for _, candidate := range validDemandLevels {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDemandLevel converts the raw string to DemandLevel.
func ParseDemandLevel(value string) (DemandLevel, error) {
	for _, candidate := range validDemandLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid demand level %q", value)
}
