// Package render turns provider data into view models.
//
// Every function here is pure: the same input always yields the same view.
// Numbers are rounded the way the browser dashboard rounded them, half up.
package render

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"weather-dashboard/models"
)

const (
	iconBaseURL = "https://openweathermap.org/img/wn/"
	// PollutantUnit is the concentration unit of every pollutant reading
	PollutantUnit = "μg/m³"
)

// CurrentView is the current conditions panel
type CurrentView struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	Title       string `json:"title"`
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feelsLike"`
	High        string `json:"high"`
	Low         string `json:"low"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
	Humidity    string `json:"humidity"`
	Wind        string `json:"wind"`
	Visibility  string `json:"visibility"`
	IsFavorite  bool   `json:"isFavorite"`
}

// ForecastCard is one day of the 5-day forecast
type ForecastCard struct {
	Day         string `json:"day"`
	Date        string `json:"date"`
	IconURL     string `json:"iconUrl"`
	Description string `json:"description"`
	Temperature string `json:"temperature"`
	High        string `json:"high"`
	Low         string `json:"low"`
}

// HourlyChart is the data behind the hourly temperature line chart
type HourlyChart struct {
	Labels       []string `json:"labels"`
	Temperatures []int    `json:"temperatures"`
	SeriesLabel  string   `json:"seriesLabel"`
}

// Pollutant is a single labelled concentration
type Pollutant struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// AirQualityView is the air quality panel
type AirQualityView struct {
	Index       int         `json:"index"`
	Level       string      `json:"level"`
	Color       string      `json:"color"`
	Description string      `json:"description"`
	Pollutants  []Pollutant `json:"pollutants"`
}

// Round rounds half up, so -2.5 becomes -2 and 2.5 becomes 3
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Temperature formats a rounded temperature with the unit symbol
func Temperature(value float64, unit models.Unit) string {
	return fmt.Sprintf("%d%s", Round(value), unit.TempSymbol())
}

// IconURL returns the large condition icon for an icon code
func IconURL(code string) string {
	return iconBaseURL + code + "@2x.png"
}

func smallIconURL(code string) string {
	return iconBaseURL + code + ".png"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Current builds the current conditions panel
func Current(w models.WeatherSnapshot, unit models.Unit, isFavorite bool) CurrentView {
	return CurrentView{
		Name:        w.Name,
		Country:     w.Country,
		Title:       fmt.Sprintf("%s, %s", w.Name, w.Country),
		Temperature: Temperature(w.Temperature, unit),
		FeelsLike:   Temperature(w.FeelsLike, unit),
		High:        Temperature(w.TempMax, unit),
		Low:         Temperature(w.TempMin, unit),
		Description: w.ConditionText,
		IconURL:     IconURL(w.ConditionCode),
		Humidity:    fmt.Sprintf("%d%%", w.Humidity),
		Wind:        fmt.Sprintf("%s %s", formatNumber(w.WindSpeed), unit.WindUnit()),
		Visibility:  fmt.Sprintf("%.1f km", float64(w.VisibilityMeters)/1000),
		IsFavorite:  isFavorite,
	}
}

// Forecast builds one card per day from the noon entries, at most five
func Forecast(entries []models.ForecastEntry, unit models.Unit, loc *time.Location) []ForecastCard {
	if loc == nil {
		loc = time.UTC
	}

	daily := models.DailyForecast(entries)
	cards := make([]ForecastCard, 0, len(daily))
	for _, e := range daily {
		ts := e.Timestamp.In(loc)
		cards = append(cards, ForecastCard{
			Day:         ts.Format("Mon"),
			Date:        ts.Format("Jan 2"),
			IconURL:     smallIconURL(e.ConditionCode),
			Description: e.ConditionText,
			Temperature: Temperature(e.Temperature, unit),
			High:        Temperature(e.TempMax, unit),
			Low:         Temperature(e.TempMin, unit),
		})
	}
	return cards
}

// Hourly builds the chart series from the first eight forecast steps
func Hourly(entries []models.ForecastEntry, unit models.Unit, loc *time.Location) HourlyChart {
	if loc == nil {
		loc = time.UTC
	}

	hourly := models.HourlyForecast(entries)
	chart := HourlyChart{
		Labels:       make([]string, 0, len(hourly)),
		Temperatures: make([]int, 0, len(hourly)),
		SeriesLabel:  fmt.Sprintf("Temperature (%s)", unit.TempSymbol()),
	}
	for _, e := range hourly {
		chart.Labels = append(chart.Labels, e.Timestamp.In(loc).Format("3 PM"))
		chart.Temperatures = append(chart.Temperatures, Round(e.Temperature))
	}
	return chart
}

// AirQuality builds the air quality panel; an index outside 1..5 renders as Unknown
func AirQuality(a models.AirQualitySnapshot) AirQualityView {
	level := a.Level()
	return AirQualityView{
		Index:       a.AQI,
		Level:       level.Label,
		Color:       level.Color,
		Description: level.Description,
		Pollutants: []Pollutant{
			{Label: "PM2.5", Value: pollutant(a.PM25)},
			{Label: "PM10", Value: pollutant(a.PM10)},
			{Label: "NO₂", Value: pollutant(a.NO2)},
			{Label: "O₃", Value: pollutant(a.O3)},
		},
	}
}

func pollutant(v float64) string {
	return formatNumber(v) + " " + PollutantUnit
}
