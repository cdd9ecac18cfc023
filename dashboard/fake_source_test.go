package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
)

var errUpstream = errors.New("upstream unavailable")

// fakeSource serves canned data and records every call
type fakeSource struct {
	mu sync.Mutex

	cities      map[string]models.WeatherSnapshot
	forecastErr error
	airErr      error
	aqi         int
	reverseErr  error
	places      []models.Place

	// gates hold CurrentWeather for a city until the channel is closed,
	// ignoring cancellation that arrives while waiting so a late response
	// can be simulated
	gates   map[string]chan struct{}
	started chan string

	calls []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		cities: map[string]models.WeatherSnapshot{
			"London": {Name: "London", Country: "GB", Coordinates: models.Coordinates{Lat: 51.5, Lon: -0.12}, Temperature: 14.6, ConditionCode: "04d"},
			"Paris":  {Name: "Paris", Country: "FR", Coordinates: models.Coordinates{Lat: 48.85, Lon: 2.35}, Temperature: 17.2, ConditionCode: "01d"},
			"Tokyo":  {Name: "Tokyo", Country: "JP", Coordinates: models.Coordinates{Lat: 35.68, Lon: 139.69}, Temperature: 21.5, ConditionCode: "02d"},
		},
		aqi:     2,
		gates:   map[string]chan struct{}{},
		started: make(chan string, 16),
	}
}

func (f *fakeSource) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSource) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSource) CurrentWeather(ctx context.Context, city string, unit models.Unit) (models.WeatherSnapshot, error) {
	f.record(fmt.Sprintf("weather:%s:%s", city, unit))
	f.started <- city
	if err := ctx.Err(); err != nil {
		return models.WeatherSnapshot{}, err
	}

	f.mu.Lock()
	gate := f.gates[city]
	w, ok := f.cities[city]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if !ok {
		return models.WeatherSnapshot{}, datasource.ErrDataNotAvailable
	}
	if unit == models.Imperial {
		w.Temperature = w.Temperature*9/5 + 32
	}
	return w, nil
}

func (f *fakeSource) Forecast(ctx context.Context, coords models.Coordinates, unit models.Unit) (models.ForecastData, error) {
	f.record(fmt.Sprintf("forecast:%s", unit))
	if f.forecastErr != nil {
		return models.ForecastData{}, f.forecastErr
	}

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	data := models.ForecastData{City: "fake"}
	for i := 0; i < 16; i++ {
		ts := start.Add(time.Duration(i) * 3 * time.Hour)
		data.Entries = append(data.Entries, models.ForecastEntry{
			Timestamp:   ts,
			DtTxt:       ts.Format("2006-01-02 15:04:05"),
			Temperature: coords.Lat,
		})
	}
	return data, nil
}

func (f *fakeSource) AirPollution(ctx context.Context, coords models.Coordinates) (models.AirQualitySnapshot, error) {
	f.record("air")
	if f.airErr != nil {
		return models.AirQualitySnapshot{}, f.airErr
	}
	return models.AirQualitySnapshot{AQI: f.aqi, PM25: 4.2}, nil
}

func (f *fakeSource) ReverseGeocode(ctx context.Context, coords models.Coordinates, limit int) ([]models.Place, error) {
	f.record("reverse")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.reverseErr != nil {
		return nil, f.reverseErr
	}
	return f.places, nil
}

func (f *fakeSource) Name() string { return "fake" }

var _ datasource.WeatherSource = (*fakeSource)(nil)
