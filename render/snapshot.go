package render

import (
	"time"

	"weather-dashboard/models"
)

// Slot holds the latest content of one display region. Error and View are
// exclusive: showing one clears the other.
type Slot[T any] struct {
	View      T         `json:"view,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Empty reports whether the region was never written
func (s Slot[T]) Empty() bool {
	return s.UpdatedAt.IsZero()
}

// Snapshot is a point-in-time copy of every display region
type Snapshot struct {
	Query      models.QueryContext   `json:"query"`
	Current    Slot[*CurrentView]    `json:"current"`
	Forecast   Slot[[]ForecastCard]  `json:"forecast"`
	Hourly     Slot[*HourlyChart]    `json:"hourly"`
	AirQuality Slot[*AirQualityView] `json:"airQuality"`
	Favorites  Slot[[]string]        `json:"favorites"`
}
