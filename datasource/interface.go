package datasource

import (
	"context"

	"weather-dashboard/models"
)

// WeatherSource defines the provider calls the dashboard needs
type WeatherSource interface {
	// CurrentWeather fetches current conditions for a city name
	CurrentWeather(ctx context.Context, city string, unit models.Unit) (models.WeatherSnapshot, error)

	// Forecast fetches the 3-hourly forecast for a coordinate pair
	Forecast(ctx context.Context, coords models.Coordinates, unit models.Unit) (models.ForecastData, error)

	// AirPollution fetches the current air quality for a coordinate pair
	AirPollution(ctx context.Context, coords models.Coordinates) (models.AirQualitySnapshot, error)

	// ReverseGeocode resolves a coordinate pair to at most limit places
	ReverseGeocode(ctx context.Context, coords models.Coordinates, limit int) ([]models.Place, error)

	// Name returns the provider's name
	Name() string
}
