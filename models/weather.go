package models

// WeatherSnapshot is the current conditions for a city as returned by the provider
type WeatherSnapshot struct {
	Name             string      `json:"name"`
	Country          string      `json:"country"`
	Coordinates      Coordinates `json:"coordinates"`
	Temperature      float64     `json:"temperature"`
	FeelsLike        float64     `json:"feelsLike"`
	TempMin          float64     `json:"tempMin"`
	TempMax          float64     `json:"tempMax"`
	Humidity         int         `json:"humidity"`         // percentage
	WindSpeed        float64     `json:"windSpeed"`        // m/s or mph depending on unit
	VisibilityMeters int         `json:"visibilityMeters"` // metres, regardless of unit
	ConditionID      int         `json:"conditionId"`
	ConditionCode    string      `json:"conditionCode"` // icon code, e.g. "04d"
	ConditionText    string      `json:"conditionText"`
}
