package dashboard

import (
	"errors"
	"fmt"
)

// Messages shown in a region when its data could not be loaded
const (
	MsgCityNotFound          = "City not found"
	MsgForecastUnavailable   = "Forecast unavailable"
	MsgAirQualityUnavailable = "Air quality data unavailable"
	MsgGeoUnsupported        = "Geolocation not supported"
	MsgLocationDenied        = "Location access denied"
	MsgLocationUnavailable   = "Location data unavailable"
)

// ErrSuperseded is returned when a newer query replaced this one before it
// could render anything
var ErrSuperseded = errors.New("query superseded by a newer one")

// ViewError is a failure that was rendered into a region
type ViewError struct {
	Region  Region
	Message string
	Err     error
}

func (e *ViewError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Region, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Region, e.Message, e.Err)
}

func (e *ViewError) Unwrap() error {
	return e.Err
}
