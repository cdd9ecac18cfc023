package models

// AirQualitySnapshot is the latest air pollution reading for a coordinate pair
type AirQualitySnapshot struct {
	AQI  int     `json:"aqi"`
	PM25 float64 `json:"pm2_5"`
	PM10 float64 `json:"pm10"`
	NO2  float64 `json:"no2"`
	O3   float64 `json:"o3"`
	CO   float64 `json:"co"`
	SO2  float64 `json:"so2"`
	NH3  float64 `json:"nh3"`
	NO   float64 `json:"no"`
}

// AQILevel is a severity tier of the provider's 1..5 air quality index
type AQILevel struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

var (
	AQIGood     = AQILevel{Index: 1, Label: "Good", Color: "bg-green-500", Description: "Air quality is satisfactory"}
	AQIFair     = AQILevel{Index: 2, Label: "Fair", Color: "bg-yellow-500", Description: "Air quality is acceptable"}
	AQIModerate = AQILevel{Index: 3, Label: "Moderate", Color: "bg-orange-500", Description: "Sensitive groups may experience health effects"}
	AQIPoor     = AQILevel{Index: 4, Label: "Poor", Color: "bg-red-500", Description: "Health effects possible for everyone"}
	AQIVeryPoor = AQILevel{Index: 5, Label: "Very Poor", Color: "bg-purple-500", Description: "Health warning of emergency conditions"}

	// AQIUnknown is reported for an index outside 1..5
	AQIUnknown = AQILevel{Index: 0, Label: "Unknown", Color: "bg-gray-400", Description: "Air quality index unavailable"}
)

// LevelForAQI maps an index to its severity tier; ok is false when aqi is out of range
func LevelForAQI(aqi int) (level AQILevel, ok bool) {
	switch aqi {
	case 1:
		return AQIGood, true
	case 2:
		return AQIFair, true
	case 3:
		return AQIModerate, true
	case 4:
		return AQIPoor, true
	case 5:
		return AQIVeryPoor, true
	default:
		return AQIUnknown, false
	}
}

// Level is shorthand for LevelForAQI(s.AQI)
func (s AirQualitySnapshot) Level() AQILevel {
	level, _ := LevelForAQI(s.AQI)
	return level
}
