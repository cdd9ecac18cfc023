package models

import (
	"strings"
	"time"
)

const (
	// MaxDailyEntries is how many days the forecast view shows
	MaxDailyEntries = 5
	// MaxHourlyEntries is how many 3-hour steps the hourly chart shows
	MaxHourlyEntries = 8

	noonMarker = "12:00:00"
)

// ForecastEntry is a single 3-hour forecast step
type ForecastEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	DtTxt         string    `json:"dtTxt"` // provider's textual timestamp, "2006-01-02 15:04:05"
	Temperature   float64   `json:"temperature"`
	TempMin       float64   `json:"tempMin"`
	TempMax       float64   `json:"tempMax"`
	ConditionID   int       `json:"conditionId"`
	ConditionCode string    `json:"conditionCode"`
	ConditionText string    `json:"conditionText"`
}

// ForecastData is the provider's forecast for a location
type ForecastData struct {
	City           string          `json:"city"`
	Country        string          `json:"country"`
	TimezoneOffset int             `json:"timezoneOffset"` // seconds east of UTC
	Entries        []ForecastEntry `json:"entries"`
}

// Location returns the fixed zone of the forecast's city
func (f ForecastData) Location() *time.Location {
	if f.TimezoneOffset == 0 {
		return time.UTC
	}
	return time.FixedZone(f.City, f.TimezoneOffset)
}

// DailyForecast keeps one entry per day, the one stamped at noon, up to MaxDailyEntries
func DailyForecast(entries []ForecastEntry) []ForecastEntry {
	daily := make([]ForecastEntry, 0, MaxDailyEntries)
	for _, e := range entries {
		if !strings.Contains(e.DtTxt, noonMarker) {
			continue
		}
		daily = append(daily, e)
		if len(daily) == MaxDailyEntries {
			break
		}
	}
	return daily
}

// HourlyForecast returns the first MaxHourlyEntries raw entries
func HourlyForecast(entries []ForecastEntry) []ForecastEntry {
	n := len(entries)
	if n > MaxHourlyEntries {
		n = MaxHourlyEntries
	}
	out := make([]ForecastEntry, n)
	copy(out, entries[:n])
	return out
}
