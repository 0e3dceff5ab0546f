package domain

import "strings"

const (
	MinLevel = 0
	MaxLevel = 100

	MinPriority = 1
	MaxPriority = 3
)

// Sensor health reported by a bin.
type Health string

const (
	HealthOK         Health = "OK"
	HealthLowBattery Health = "LOW_BATTERY"
)

// ParseHealth normalizes seed spellings such as "LOW BATTERY" or "low-battery".
// Unknown values are kept upper-cased so the fleet can report states this build
// does not know about yet.
func ParseHealth(s string) Health {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	if norm == "" {
		return HealthOK
	}
	return Health(norm)
}

// Represents a physical waste-collection point with a sensor-reported fill level.
// Level is the only field mutated after load.
type Bin struct {
	ID       string
	Area     string
	Location Coordinates
	Level    int
	Priority int
	Health   Health
}

// ClampLevel bounds a fill level to [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// Color band used by the presentation layer for a fill level.
type Band string

const (
	BandGreen  Band = "green"
	BandOrange Band = "orange"
	BandRed    Band = "red"
)

// BandFor maps a level to red (>80), orange (>60) or green.
func BandFor(level int) Band {
	switch {
	case level > 80:
		return BandRed
	case level > 60:
		return BandOrange
	default:
		return BandGreen
	}
}
