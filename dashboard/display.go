package dashboard

import (
	"weather-dashboard/models"
	"weather-dashboard/render"
)

// Region names one area of the dashboard
type Region string

const (
	RegionCurrent    Region = "current"
	RegionForecast   Region = "forecast"
	RegionHourly     Region = "hourly"
	RegionAirQuality Region = "airQuality"
	RegionFavorites  Region = "favorites"
)

// Display is where the dashboard writes its views. Implementations must be
// safe for concurrent use and must not call back into the Dashboard.
type Display interface {
	SetQuery(q models.QueryContext)
	ShowCurrent(view render.CurrentView)
	ShowForecast(cards []render.ForecastCard)
	ShowHourly(chart render.HourlyChart)
	ShowAirQuality(view render.AirQualityView)
	ShowFavorites(cities []string)
	// ShowError replaces the region's content with a message
	ShowError(region Region, message string)
}
