package datasource

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"weather-dashboard/models"
)

const (
	DefaultOpenWeatherMapURL = "https://api.openweathermap.org/data/2.5"
	DefaultGeocodingURL      = "https://api.openweathermap.org/geo/1.0"
)

// OpenWeatherMapProvider implements WeatherSource against the OpenWeatherMap REST API
type OpenWeatherMapProvider struct {
	apiKey  string
	baseURL string
	geoURL  string
	fetcher *Fetcher
}

// NewOpenWeatherMapProvider creates a new OpenWeatherMap provider. Empty
// URLs fall back to the public endpoints.
func NewOpenWeatherMapProvider(apiKey, baseURL, geoURL string, fetcher *Fetcher) *OpenWeatherMapProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherMapURL
	}
	if geoURL == "" {
		geoURL = DefaultGeocodingURL
	}
	return &OpenWeatherMapProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		geoURL:  geoURL,
		fetcher: fetcher,
	}
}

// Name returns the provider name
func (p *OpenWeatherMapProvider) Name() string {
	return "OpenWeatherMap"
}

type owmCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func firstCondition(conds []owmCondition) owmCondition {
	if len(conds) == 0 {
		return owmCondition{}
	}
	return conds[0]
}

func coordParams(coords models.Coordinates) url.Values {
	params := url.Values{}
	params.Add("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	params.Add("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	return params
}

// CurrentWeather fetches current conditions for a city
func (p *OpenWeatherMapProvider) CurrentWeather(ctx context.Context, city string, unit models.Unit) (models.WeatherSnapshot, error) {
	params := url.Values{}
	params.Add("q", city)
	params.Add("appid", p.apiKey)
	params.Add("units", string(unit))

	var response struct {
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Weather []owmCondition `json:"weather"`
		Main    struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			TempMin   float64 `json:"temp_min"`
			TempMax   float64 `json:"temp_max"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Visibility int `json:"visibility"`
		Wind       struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Sys struct {
			Country string `json:"country"`
		} `json:"sys"`
		Name string `json:"name"`
	}

	if err := p.fetcher.FetchJSON(ctx, "weather", p.baseURL+"/weather?"+params.Encode(), &response); err != nil {
		return models.WeatherSnapshot{}, err
	}

	cond := firstCondition(response.Weather)
	return models.WeatherSnapshot{
		Name:             response.Name,
		Country:          response.Sys.Country,
		Coordinates:      models.Coordinates{Lat: response.Coord.Lat, Lon: response.Coord.Lon},
		Temperature:      response.Main.Temp,
		FeelsLike:        response.Main.FeelsLike,
		TempMin:          response.Main.TempMin,
		TempMax:          response.Main.TempMax,
		Humidity:         response.Main.Humidity,
		WindSpeed:        response.Wind.Speed,
		VisibilityMeters: response.Visibility,
		ConditionID:      cond.ID,
		ConditionCode:    cond.Icon,
		ConditionText:    cond.Description,
	}, nil
}

// Forecast fetches the 5-day forecast in 3-hour steps for a coordinate pair
func (p *OpenWeatherMapProvider) Forecast(ctx context.Context, coords models.Coordinates, unit models.Unit) (models.ForecastData, error) {
	params := coordParams(coords)
	params.Add("appid", p.apiKey)
	params.Add("units", string(unit))

	var response struct {
		City struct {
			Name     string `json:"name"`
			Country  string `json:"country"`
			Timezone int    `json:"timezone"`
		} `json:"city"`
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp    float64 `json:"temp"`
				TempMin float64 `json:"temp_min"`
				TempMax float64 `json:"temp_max"`
			} `json:"main"`
			Weather []owmCondition `json:"weather"`
			DtTxt   string         `json:"dt_txt"`
		} `json:"list"`
	}

	if err := p.fetcher.FetchJSON(ctx, "forecast", p.baseURL+"/forecast?"+params.Encode(), &response); err != nil {
		return models.ForecastData{}, err
	}

	forecast := models.ForecastData{
		City:           response.City.Name,
		Country:        response.City.Country,
		TimezoneOffset: response.City.Timezone,
		Entries:        make([]models.ForecastEntry, 0, len(response.List)),
	}
	for _, item := range response.List {
		cond := firstCondition(item.Weather)
		forecast.Entries = append(forecast.Entries, models.ForecastEntry{
			Timestamp:     time.Unix(item.Dt, 0).UTC(),
			DtTxt:         item.DtTxt,
			Temperature:   item.Main.Temp,
			TempMin:       item.Main.TempMin,
			TempMax:       item.Main.TempMax,
			ConditionID:   cond.ID,
			ConditionCode: cond.Icon,
			ConditionText: cond.Description,
		})
	}

	return forecast, nil
}

// AirPollution fetches the current air quality reading for a coordinate pair
func (p *OpenWeatherMapProvider) AirPollution(ctx context.Context, coords models.Coordinates) (models.AirQualitySnapshot, error) {
	params := coordParams(coords)
	params.Add("appid", p.apiKey)

	var response struct {
		List []struct {
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
			Components struct {
				CO   float64 `json:"co"`
				NO   float64 `json:"no"`
				NO2  float64 `json:"no2"`
				O3   float64 `json:"o3"`
				SO2  float64 `json:"so2"`
				PM25 float64 `json:"pm2_5"`
				PM10 float64 `json:"pm10"`
				NH3  float64 `json:"nh3"`
			} `json:"components"`
		} `json:"list"`
	}

	if err := p.fetcher.FetchJSON(ctx, "air_pollution", p.baseURL+"/air_pollution?"+params.Encode(), &response); err != nil {
		return models.AirQualitySnapshot{}, err
	}
	if len(response.List) == 0 {
		return models.AirQualitySnapshot{}, errors.Wrap(ErrDataNotAvailable, "air_pollution returned no readings")
	}

	reading := response.List[0]
	return models.AirQualitySnapshot{
		AQI:  reading.Main.AQI,
		PM25: reading.Components.PM25,
		PM10: reading.Components.PM10,
		NO2:  reading.Components.NO2,
		O3:   reading.Components.O3,
		CO:   reading.Components.CO,
		SO2:  reading.Components.SO2,
		NH3:  reading.Components.NH3,
		NO:   reading.Components.NO,
	}, nil
}

// ReverseGeocode resolves a coordinate pair to nearby place names
func (p *OpenWeatherMapProvider) ReverseGeocode(ctx context.Context, coords models.Coordinates, limit int) ([]models.Place, error) {
	if limit < 1 {
		return nil, fmt.Errorf("reverse geocode limit must be positive, got %d", limit)
	}
	params := coordParams(coords)
	params.Add("limit", strconv.Itoa(limit))
	params.Add("appid", p.apiKey)

	var response []struct {
		Name    string  `json:"name"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		Country string  `json:"country"`
		State   string  `json:"state"`
	}

	if err := p.fetcher.FetchJSON(ctx, "reverse_geocode", p.geoURL+"/reverse?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	places := make([]models.Place, 0, len(response))
	for _, r := range response {
		places = append(places, models.Place{
			Name:        r.Name,
			Country:     r.Country,
			State:       r.State,
			Coordinates: models.Coordinates{Lat: r.Lat, Lon: r.Lon},
		})
	}
	return places, nil
}

var _ WeatherSource = (*OpenWeatherMapProvider)(nil)
