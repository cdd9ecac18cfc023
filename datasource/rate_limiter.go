package datasource

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"weather-dashboard/models"
)

// RateLimitedSource wraps a WeatherSource with a shared request limiter.
// All four endpoints count against the same provider quota.
type RateLimitedSource struct {
	source  WeatherSource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedSource creates a new rate limited source
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedSource(source WeatherSource, rps float64, burst int) *RateLimitedSource {
	return &RateLimitedSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

func (r *RateLimitedSource) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return nil
}

// CurrentWeather waits for the limiter, then forwards to the underlying source
func (r *RateLimitedSource) CurrentWeather(ctx context.Context, city string, unit models.Unit) (models.WeatherSnapshot, error) {
	if err := r.wait(ctx); err != nil {
		return models.WeatherSnapshot{}, err
	}
	return r.source.CurrentWeather(ctx, city, unit)
}

// Forecast waits for the limiter, then forwards to the underlying source
func (r *RateLimitedSource) Forecast(ctx context.Context, coords models.Coordinates, unit models.Unit) (models.ForecastData, error) {
	if err := r.wait(ctx); err != nil {
		return models.ForecastData{}, err
	}
	return r.source.Forecast(ctx, coords, unit)
}

// AirPollution waits for the limiter, then forwards to the underlying source
func (r *RateLimitedSource) AirPollution(ctx context.Context, coords models.Coordinates) (models.AirQualitySnapshot, error) {
	if err := r.wait(ctx); err != nil {
		return models.AirQualitySnapshot{}, err
	}
	return r.source.AirPollution(ctx, coords)
}

// ReverseGeocode waits for the limiter, then forwards to the underlying source
func (r *RateLimitedSource) ReverseGeocode(ctx context.Context, coords models.Coordinates, limit int) ([]models.Place, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.source.ReverseGeocode(ctx, coords, limit)
}

// Name returns the source name
func (r *RateLimitedSource) Name() string {
	return r.name
}

var _ WeatherSource = (*RateLimitedSource)(nil)
