package models

import "fmt"

// Unit is the measurement system requested from the weather provider
type Unit string

const (
	Metric   Unit = "metric"
	Imperial Unit = "imperial"
)

// ParseUnit converts a user supplied string into a Unit
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case Metric, Imperial:
		return Unit(s), nil
	default:
		return "", fmt.Errorf("unknown unit system %q (want %q or %q)", s, Metric, Imperial)
	}
}

// Toggle returns the other unit system
func (u Unit) Toggle() Unit {
	if u == Imperial {
		return Metric
	}
	return Imperial
}

// TempSymbol returns the temperature suffix for the unit system
func (u Unit) TempSymbol() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

// WindUnit returns the wind speed unit for the unit system
func (u Unit) WindUnit() string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}

// QueryContext is the city and unit system driving every weather view
type QueryContext struct {
	City string `json:"city"`
	Unit Unit   `json:"unit"`
}

// Coordinates is a latitude/longitude pair in decimal degrees
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is a reverse geocoding result
type Place struct {
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	State       string      `json:"state,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}
